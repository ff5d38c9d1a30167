// Package checks is the target for the basic template acceptance tests.
package checks

import (
	"fmt"

	"github.com/toejough/casetest"
)

// CheckArgs wants a string and a non-nil map, and returns 1.
func CheckArgs(arg1 string, arg2 map[string]any) (int, error) {
	if arg2 == nil {
		return 0, fmt.Errorf("%w: bad arg2", casetest.ErrBadArgType)
	}

	_ = arg1

	return 1, nil
}

package core

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, values are compared with go-cmp, including unexported fields.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if cmp.Equal(expected, actual, equalOpts...) {
		return true, ""
	}

	return false, fmt.Sprintf("(-want +got):\n%s", cmp.Diff(expected, actual, equalOpts...))
}

//nolint:gochecknoglobals // shared cmp options
var equalOpts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Package match provides matchers for use with casetest's ReturnsShould.
// They mix freely with gomega matchers, which casetest accepts by duck typing:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    "github.com/toejough/casetest/match"
//	)
//
//	tc.ReturnsShould(BeNumerically(">", 0), match.BeAny)
package match

import (
	"errors"
	"fmt"

	"github.com/toejough/casetest/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher = core.Matcher

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular return value.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeBadArgType matches errors that are, or wrap, casetest.ErrBadArgType.
//
// A trailing error result is the call's failure rather than a return value, so
// ReturnsShould never sees it. Match the error from DoIt().Wait() instead:
//
//	_, err := tc.DoIt().Wait()
//	ok, msg := casetest.MatchValue(err, match.BeBadArgType)
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeBadArgType Matcher = FailWith(core.ErrBadArgType)

// FailWith returns a matcher for errors that are, or wrap, target (per errors.Is).
// Like BeBadArgType it applies to the error from DoIt().Wait(), or to an error
// returned in a non-trailing position.
func FailWith(target error) Matcher {
	return failWithMatcher{target: target}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	tc.ReturnsShould(Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported variables.
var (
	errNotAnError   = errors.New("not an error")
	errTypeMismatch = errors.New("type mismatch")
)

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type failWithMatcher struct {
	target error
}

func (m failWithMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected an error wrapping %v, got %v", m.target, actual)
}

func (m failWithMatcher) Match(actual any) (bool, error) {
	if actual == nil {
		return false, nil
	}

	err, ok := actual.(error)
	if !ok {
		return false, fmt.Errorf("%w: %T", errNotAnError, actual)
	}

	return errors.Is(err, m.target), nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

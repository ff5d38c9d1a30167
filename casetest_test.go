package casetest_test

import (
	"fmt"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/casetest"
)

// Helper to capture test failures.
type mockT struct {
	failed bool
	msg    string
}

func (m *mockT) Fatalf(format string, args ...any) {
	m.failed = true
	m.msg = fmt.Sprintf(format, args...)
}

func (m *mockT) Helper() {}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	t.Run("Panics without an asserter", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic, got none")
			}
		}()

		casetest.New(nil, casetest.Subtests(t))
	})

	t.Run("Panics if target is not a function", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic, got none")
			}
		}()

		casetest.NewT(t).Declare("not a function")
	})

	t.Run("Panics if params count mismatch", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic, got none")
			}
		}()

		casetest.NewT(t).Declare(func(a, b int) int { return a + b }, "a")
	})
}

func TestAsserters(t *testing.T) {
	t.Parallel()

	for name, assert := range map[string]casetest.Asserter{
		"Require": casetest.Require,
		"Expect":  casetest.Expect,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			passing := &mockT{}
			assert(passing, true, "fine")
			g.Expect(passing.failed).To(BeFalse())

			failing := &mockT{}
			assert(failing, false, "return value")
			g.Expect(failing.failed).To(BeTrue())
			g.Expect(failing.msg).To(ContainSubstring("return value"))
		})
	}
}

func TestNewT_RegistersSubtests(t *testing.T) {
	t.Parallel()

	add := casetest.NewT(t).
		Declare(func(a, b int) int { return a + b }, "a", "b").
		Set("a", 1).
		Set("b", 2).
		ReturnsEqual(3)

	add.Test("adds")
	add.Set("b", "two").TestBadArgs("string operand")
}

func TestFacadeHelpers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(casetest.Segments("a.b.c")).To(Equal([]string{"a", "b", "c"}))
	g.Expect(casetest.IsBadArgType(fmt.Errorf("wrapped: %w", casetest.ErrBadArgType))).To(BeTrue())
	g.Expect(casetest.IsBadArgType(casetest.ErrMissingArg)).To(BeFalse())

	ok, _ := casetest.MatchValue(casetest.Args{"a": 1}, casetest.Args{"a": 1})
	g.Expect(ok).To(BeTrue())

	ok, diff := casetest.MatchValue([]int{1, 2}, []int{1, 3})
	g.Expect(ok).To(BeFalse())
	g.Expect(diff).To(ContainSubstring("-want +got"))
}

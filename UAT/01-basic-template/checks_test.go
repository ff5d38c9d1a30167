package checks_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/casetest"
	checks "github.com/toejough/casetest/UAT/01-basic-template"
)

//go:generate casegen CheckArgs

// TestBasic declares one template and derives every scenario from it.
//
// Key Requirements Met:
//  1. Defaults: the template passes valid arguments, so the plain test passes.
//  2. Modification: each bad-args scenario changes only what it needs to, in any of the
//     three shapes (path and value, one record, a list of records).
func TestBasic(t *testing.T) {
	t.Parallel()

	newTesty(t).Test("")
	newTesty(t).Test("default test")
	newTesty(t).Set("arg1", nil).TestBadArgs("simple modify")
	newTesty(t).Modify(casetest.Mod{Path: "arg2", Value: nil}).TestBadArgs("modify object")
	newTesty(t).Modify(
		casetest.Mod{Path: "arg1", Value: nil},
		casetest.Mod{Path: "arg2", Value: nil},
	).TestBadArgs("multiple modify")
}

// TestDoItWithoutRegistering calls the target directly and validates what it returned.
func TestDoItWithoutRegistering(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	testy := newTesty(t)

	returns, err := testy.DoIt().Wait()

	g.Expect(err).NotTo(HaveOccurred(), "doIt should not error")
	g.Expect(testy.ValidateReturn(returns)).To(BeTrue(), "return value should validate")
}

// TestNestedModify changes a nested value without touching its siblings.
func TestNestedModify(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	testy := newTesty(t).Set("arg2.baz", "qux")

	object, err := testy.ToObject()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(object).To(Equal(casetest.Args{
		"arg1": "test",
		"arg2": casetest.Args{"foo": "bar", "baz": "qux"},
	}))

	testy.Test("nested change")
}

// TestArgumentTypes shows type errors raised before the call ever happens.
func TestArgumentTypes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := newTesty(t).Set("arg1", 42).DoIt().Wait()

	var argErr *casetest.ArgTypeError

	g.Expect(err).To(BeAssignableToTypeOf(argErr))
	g.Expect(err).To(MatchError(casetest.ErrBadArgType))
	g.Expect(err).To(MatchError(ContainSubstring(`"arg1"`)))
}

func newTesty(t *testing.T) *casetest.TestCase {
	t.Helper()

	return casetest.NewT(t).
		Declare(checks.CheckArgs, checkArgsParams...).
		Set("arg1", "test").
		Set("arg2", casetest.Args{"foo": "bar"}).
		ReturnsEqual(1)
}

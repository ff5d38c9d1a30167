package match_test

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
	"pgregory.net/rapid"

	"github.com/toejough/casetest"
	"github.com/toejough/casetest/match"
)

func TestBeAny_MatchesEverything(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		value := rapid.OneOf(
			rapid.Int().AsAny(),
			rapid.String().AsAny(),
			rapid.Just[any](nil),
		).Draw(rt, "value")

		ok, err := match.BeAny.Match(value)
		if err != nil || !ok {
			rt.Fatalf("BeAny.Match(%#v) = %v, %v", value, ok, err)
		}
	})
}

func TestFailWith(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errBase := errors.New("base")
	wrapped := fmt.Errorf("context: %w", errBase)

	ok, err := match.FailWith(errBase).Match(wrapped)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, err = match.FailWith(errBase).Match(errors.New("other"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())

	ok, err = match.FailWith(errBase).Match(nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())

	_, err = match.FailWith(errBase).Match("not an error")
	g.Expect(err).To(MatchError(ContainSubstring("not an error")))

	g.Expect(match.FailWith(errBase).FailureMessage(nil)).To(ContainSubstring("base"))
}

func TestBeBadArgType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := casetest.New(casetest.Require, casetest.Subtests(t)).
		Declare(func(s string) string { return s }, "s").
		Set("s", 1).
		DoIt().Wait()

	ok, matchErr := match.BeBadArgType.Match(err)

	g.Expect(matchErr).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
}

func TestSatisfy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	positive := match.Satisfy(func(n int) error {
		if n <= 0 {
			return fmt.Errorf("%d is not positive", n)
		}

		return nil
	})

	ok, err := positive.Match(3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, err = positive.Match(-1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(positive.FailureMessage(-1)).To(ContainSubstring("-1 is not positive"))

	_, err = positive.Match("three")
	g.Expect(err).To(MatchError(ContainSubstring("type mismatch")))
}

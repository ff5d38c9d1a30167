package core

import (
	"testing"

	"github.com/onsi/gomega"
)

// Asserter signals a failed expectation: when ok is false it reports msg through t.
type Asserter func(t TestReporter, ok bool, msg string)

// Registrar registers one named test with a runner. The body receives the reporter scoped
// to that test.
type Registrar func(name string, body func(t TestReporter))

// TestReporter is the minimal interface casetest needs from test frameworks.
// testing.T and testing.B both implement this interface.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Expect is an Asserter backed by gomega. Failures carry gomega's formatted message.
func Expect(t TestReporter, ok bool, msg string) {
	t.Helper()

	g := gomega.NewGomega(func(message string, _ ...int) {
		t.Helper()
		t.Fatalf("%s", message)
	})

	g.Expect(ok).To(gomega.BeTrue(), msg)
}

// Require is an Asserter that stops the test with msg.
func Require(t TestReporter, ok bool, msg string) {
	t.Helper()

	if !ok {
		t.Fatalf("%s", msg)
	}
}

// Subtests returns a Registrar that runs each registered test as a subtest of t.
func Subtests(t *testing.T) Registrar {
	return func(name string, body func(t TestReporter)) {
		t.Helper()
		t.Run(name, func(subtest *testing.T) {
			body(subtest)
		})
	}
}

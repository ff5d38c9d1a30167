// Package casetest provides reusable test-case templates for Go.
// A template declares a target function, its named default arguments, and the check on its
// return values; each scenario modifies a fresh template's defaults and registers a test.
//
// This is the public API entry point. Implementation lives in internal/core.
package casetest

import (
	"io"
	"testing"

	"github.com/toejough/casetest/internal/core"
)

// Exported constants.
const (
	ExpectBadArgs = core.ExpectBadArgs
	ExpectOK      = core.ExpectOK
)

// Errors re-exported from internal/core.
//
//nolint:gochecknoglobals // re-exported sentinels
var (
	ErrArity            = core.ErrArity
	ErrBadArgType       = core.ErrBadArgType
	ErrBadFixture       = core.ErrBadFixture
	ErrBadReceiver      = core.ErrBadReceiver
	ErrCyclicValue      = core.ErrCyclicValue
	ErrDuplicateParam   = core.ErrDuplicateParam
	ErrGoexit           = core.ErrGoexit
	ErrMissingArg       = core.ErrMissingArg
	ErrNotFunc          = core.ErrNotFunc
	ErrUnimplemented    = core.ErrUnimplemented
	ErrUnsupportedValue = core.ErrUnsupportedValue
	ErrUnusedArg        = core.ErrUnusedArg
)

// ArgTypeError reports an argument that can't be passed to the target's parameter.
type ArgTypeError = core.ArgTypeError

// Args is the nested default-arguments structure of a TestCase.
type Args = core.Args

// Asserter signals a failed expectation through the given reporter.
type Asserter = core.Asserter

// Expectation is what a scenario expects the call to do.
type Expectation = core.Expectation

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// Mod is a single modification record: set Value at the dot-delimited Path.
type Mod = core.Mod

// Outcome is the asynchronous result of a DoIt call.
type Outcome = core.Outcome

// PanicError is the failure reported when the target panics.
type PanicError = core.PanicError

// Registrar registers one named test with a runner.
type Registrar = core.Registrar

// Scenario is one named variation on a template's defaults.
type Scenario = core.Scenario

// Suite is a fixture of scenarios.
type Suite = core.Suite

// TestCase is a reusable template for tests of one target function.
type TestCase = core.TestCase

// TestReporter is the minimal interface casetest needs from test frameworks.
type TestReporter = core.TestReporter

// Expect is an Asserter backed by gomega.
func Expect(t TestReporter, ok bool, msg string) {
	t.Helper()
	core.Expect(t, ok, msg)
}

// IsBadArgType reports whether err is, or wraps, a bad argument type error.
func IsBadArgType(err error) bool {
	return core.IsBadArgType(err)
}

// LoadSuite decodes a YAML suite.
func LoadSuite(reader io.Reader) (Suite, error) {
	return core.LoadSuite(reader)
}

// LoadSuiteFile reads and decodes the YAML suite at path.
func LoadSuiteFile(path string) (Suite, error) {
	return core.LoadSuiteFile(path)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// New creates a TestCase that asserts with assert and registers tests with register.
func New(assert Asserter, register Registrar) *TestCase {
	return core.New(assert, register)
}

// NewT creates a TestCase that registers subtests of t and fails them with Require.
func NewT(t *testing.T) *TestCase {
	return core.New(core.Require, core.Subtests(t))
}

// Require is an Asserter that stops the test with the message.
func Require(t TestReporter, ok bool, msg string) {
	t.Helper()
	core.Require(t, ok, msg)
}

// Segments splits a path on ".".
func Segments(path string) []string {
	return core.Segments(path)
}

// Subtests returns a Registrar that runs each registered test as a subtest of t.
func Subtests(t *testing.T) Registrar {
	return core.Subtests(t)
}

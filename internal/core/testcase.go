// Package core provides the internal implementation of casetest's test-case templates.
package core

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// TestCase is a reusable template for tests of one target function: the function, its
// default arguments, the order those arguments are passed in, and the check on what it
// returns. Scenarios are built by modifying the defaults of a fresh template.
//
// A TestCase is owned by one test. It is not safe for concurrent use.
type TestCase struct {
	// Target is the function under test. Nil fails every call with ErrUnimplemented.
	Target any
	// Defaults holds the named arguments. Top-level keys are parameter names.
	Defaults Args
	// Params names the target's parameters in order, after the receiver.
	Params []string
	// Receiver, when set, is passed as the first argument, so Target is a method
	// expression such as (*Parser).Parse.
	Receiver any
	// ValidateReturn reports whether the target's return values are correct. When the
	// target's last result is an error it is not included. Nil fails Test with
	// ErrUnimplemented.
	ValidateReturn func(returns []any) bool

	assert   Asserter
	register Registrar
	explain  func(returns []any) string
}

// New creates a TestCase that asserts with assert and registers tests with register.
func New(assert Asserter, register Registrar) *TestCase {
	if assert == nil || register == nil {
		panic("casetest.New requires both an Asserter and a Registrar")
	}

	return &TestCase{
		Defaults: Args{},
		assert:   assert,
		register: register,
	}
}

// Check validates the declaration: the target's signature matches the params and
// receiver, every param has a top-level default, no default is left unnamed, and no param
// is named twice. All problems are reported together.
func (tc *TestCase) Check() error {
	var errs []error

	if tc.Target != nil {
		if err := tc.checkSignature(); err != nil {
			errs = append(errs, err)
		}
	}

	seen := make(map[string]bool, len(tc.Params))

	for _, name := range tc.Params {
		if seen[name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateParam, name))
		}

		seen[name] = true

		if _, ok := tc.Defaults[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingArg, name))
		}
	}

	keys := make([]string, 0, len(tc.Defaults))
	for key := range tc.Defaults {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if !seen[key] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnusedArg, key))
		}
	}

	return errors.Join(errs...)
}

// Clone returns a copy of the template whose defaults share nothing with the original.
func (tc *TestCase) Clone() (*TestCase, error) {
	defaults, err := tc.ToObject()
	if err != nil {
		return nil, err
	}

	clone := *tc
	clone.Defaults = defaults
	clone.Params = slices.Clone(tc.Params)

	return &clone, nil
}

// Declare sets the target and the names of its params in order. It panics if target
// isn't a function taking exactly those params (plus the receiver, if one is set).
func (tc *TestCase) Declare(target any, params ...string) *TestCase {
	tc.Target = target
	tc.Params = params

	if err := tc.checkSignature(); err != nil {
		panic(err)
	}

	return tc
}

// DeclareMethod sets the receiver, then declares method, which must be a method
// expression taking the receiver first.
func (tc *TestCase) DeclareMethod(receiver, method any, params ...string) *TestCase {
	tc.Receiver = receiver

	return tc.Declare(method, params...)
}

// DoIt calls the target with the receiver (if any) and ToArgs. It never blocks and never
// panics: the call runs on its own goroutine, and every failure - a bad argument, an
// error result, a panic - arrives through the returned Outcome.
func (tc *TestCase) DoIt() *Outcome {
	if tc.Target == nil {
		return failedOutcome(fmt.Errorf("target function: %w", ErrUnimplemented))
	}

	function := reflect.ValueOf(tc.Target)
	if function.Kind() != reflect.Func {
		return failedOutcome(fmt.Errorf("%w: got %T", ErrNotFunc, tc.Target))
	}

	args, err := tc.ToArgs()
	if err != nil {
		return failedOutcome(err)
	}

	callArgs, err := tc.callArgs(function.Type(), args)
	if err != nil {
		return failedOutcome(err)
	}

	return startCall(function, callArgs)
}

// Modify applies each modification to the defaults, in order. For every path, any
// intermediate value that isn't a nested map is replaced with an empty one (it is
// overwritten, not merged), and the last segment is set to the value.
func (tc *TestCase) Modify(mods ...Mod) *TestCase {
	tc.Defaults = applyMods(tc.Defaults, mods)

	return tc
}

// ReturnsEqual sets ValidateReturn to compare the return values with want, and explains
// a mismatch with a diff.
func (tc *TestCase) ReturnsEqual(want ...any) *TestCase {
	tc.ValidateReturn = func(returns []any) bool {
		ok, _ := matchReturns(returns, want)

		return ok
	}
	tc.explain = func(returns []any) string {
		_, msg := matchReturns(returns, want)

		return msg
	}

	return tc
}

// ReturnsShould sets ValidateReturn to match each return value with the matcher at the
// same position. gomega matchers work too. It panics if any argument isn't a Matcher.
func (tc *TestCase) ReturnsShould(matchers ...any) *TestCase {
	for i, m := range matchers {
		if _, ok := m.(Matcher); !ok {
			panic(fmt.Sprintf("argument %d is not a Matcher: %T", i, m))
		}
	}

	return tc.ReturnsEqual(matchers...)
}

// Set sets value at the dot-delimited path in the defaults. See Modify.
func (tc *TestCase) Set(path string, value any) *TestCase {
	return tc.Modify(Mod{Path: path, Value: value})
}

// Test registers a test that calls the target and asserts ValidateReturn on what it
// returned. A failed call fails the test. The declaration is checked first, and an
// invalid one panics.
func (tc *TestCase) Test(description string) {
	tc.mustCheck()

	tc.register(titleOr(description), func(t TestReporter) {
		t.Helper()

		returns, err := tc.DoIt().Wait()
		if err != nil {
			t.Fatalf("target failed: %v", err)

			return
		}

		if tc.ValidateReturn == nil {
			t.Fatalf("return validator: %v", ErrUnimplemented)

			return
		}

		ok := tc.ValidateReturn(returns)

		msg := "return value"
		if !ok && tc.explain != nil {
			msg += " " + tc.explain(returns)
		}

		tc.assert(t, ok, msg)
	})
}

// TestBadArgs registers a test that expects the call to fail with a bad argument type
// error. Succeeding, or failing any other way, is an assertion failure.
func (tc *TestCase) TestBadArgs(description string) {
	tc.mustCheck()

	tc.register(titleOr(description), func(t TestReporter) {
		t.Helper()

		_, err := tc.DoIt().Wait()
		if err == nil {
			tc.assert(t, false, "should fail due to bad arguments")

			return
		}

		tc.assert(t, IsBadArgType(err), fmt.Sprintf("expected bad argument type error: %v", err))
	})
}

// ToArgs returns the top-level default of each param, in param order. The values are not
// copied.
func (tc *TestCase) ToArgs() ([]any, error) {
	args := make([]any, 0, len(tc.Params))

	for _, name := range tc.Params {
		value, ok := tc.Defaults[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingArg, name)
		}

		args = append(args, value)
	}

	return args, nil
}

// ToObject returns a deep copy of the defaults. It fails for values that can't be copied
// structurally; see ErrUnsupportedValue and ErrCyclicValue.
func (tc *TestCase) ToObject() (Args, error) {
	copied, err := deepCopy(tc.Defaults)
	if err != nil {
		return nil, err
	}

	args, _ := copied.(Args)

	return args, nil
}

// callArgs converts the receiver and args to the target's parameter types.
func (tc *TestCase) callArgs(funcType reflect.Type, args []any) ([]reflect.Value, error) {
	hasReceiver := tc.Receiver != nil

	if numParams(funcType, hasReceiver) != len(args) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d args",
			ErrArity, GetFuncName(tc.Target), numParams(funcType, hasReceiver), len(args))
	}

	values := make([]reflect.Value, 0, funcType.NumIn())
	offset := 0

	if hasReceiver {
		receiver, ok := convertArg(tc.Receiver, funcType.In(0))
		if !ok {
			return nil, fmt.Errorf("%w: %T can't be passed as %s",
				ErrBadReceiver, tc.Receiver, getTypeName(funcType.In(0)))
		}

		values = append(values, receiver)
		offset = 1
	}

	for i, arg := range args {
		want := funcType.In(i + offset)

		value, ok := convertArg(arg, want)
		if !ok {
			return nil, &ArgTypeError{Param: tc.Params[i], Index: i, Want: want, Got: reflect.TypeOf(arg)}
		}

		values = append(values, value)
	}

	return values, nil
}

// checkSignature checks the target against the params and receiver.
func (tc *TestCase) checkSignature() error {
	funcType := reflect.TypeOf(tc.Target)
	if funcType == nil || funcType.Kind() != reflect.Func {
		return fmt.Errorf("%w: got %T", ErrNotFunc, tc.Target)
	}

	hasReceiver := tc.Receiver != nil

	if hasReceiver && funcType.NumIn() == 0 {
		return fmt.Errorf("%w: %s takes no receiver", ErrBadReceiver, GetFuncName(tc.Target))
	}

	if got := numParams(funcType, hasReceiver); got != len(tc.Params) {
		return fmt.Errorf("%w: %s takes %d params, but %d were declared",
			ErrArity, GetFuncName(tc.Target), got, len(tc.Params))
	}

	if hasReceiver {
		if _, ok := convertArg(tc.Receiver, funcType.In(0)); !ok {
			return fmt.Errorf("%w: %T can't be passed as %s",
				ErrBadReceiver, tc.Receiver, getTypeName(funcType.In(0)))
		}
	}

	return nil
}

func (tc *TestCase) mustCheck() {
	if err := tc.Check(); err != nil {
		panic(fmt.Errorf("invalid test case: %w", err))
	}
}

// matchReturns matches each return value against the expectation at the same position.
func matchReturns(returns, expected []any) (bool, string) {
	if len(returns) != len(expected) {
		return false, fmt.Sprintf("expected %d return values, got %d", len(expected), len(returns))
	}

	for i, exp := range expected {
		if ok, msg := MatchValue(returns[i], exp); !ok {
			return false, fmt.Sprintf("%d: %s", i, msg)
		}
	}

	return true, ""
}

func titleOr(description string) string {
	if description == "" {
		return untitled
	}

	return description
}

const untitled = "untitled test"

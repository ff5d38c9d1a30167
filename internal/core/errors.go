package core

import (
	"errors"
	"fmt"
	"reflect"
)

// Exported variables.
var (
	// ErrArity is returned when a target's parameter count doesn't match its declared params.
	ErrArity = errors.New("wrong number of params")
	// ErrBadArgType marks an argument of the wrong type. Target functions should wrap it
	// when they reject an input, and TestBadArgs expects it.
	ErrBadArgType = errors.New("bad argument type")
	// ErrBadReceiver is returned when the receiver can't be passed as the target's first param.
	ErrBadReceiver = errors.New("bad receiver")
	// ErrBadFixture is returned for malformed scenario fixtures.
	ErrBadFixture = errors.New("bad fixture")
	// ErrCyclicValue is returned when defaults refer back to themselves.
	ErrCyclicValue = errors.New("cyclic value")
	// ErrDuplicateParam is returned when a param name is declared twice.
	ErrDuplicateParam = errors.New("duplicate param")
	// ErrGoexit is the failure reported when the target exits its goroutine without returning.
	ErrGoexit = errors.New("target called runtime.Goexit")
	// ErrMissingArg is returned when a param has no top-level default.
	ErrMissingArg = errors.New("missing argument")
	// ErrNotFunc is returned when the target isn't a function.
	ErrNotFunc = errors.New("target is not a function")
	// ErrUnimplemented is the failure of a target or return validator that was never set.
	ErrUnimplemented = errors.New("not implemented")
	// ErrUnsupportedValue is returned when defaults hold a value that can't be copied structurally.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrUnusedArg is returned when a top-level default isn't named by any param.
	ErrUnusedArg = errors.New("unused argument")
)

// ArgTypeError reports an argument that can't be passed to the target's parameter.
type ArgTypeError struct {
	Param string
	Index int
	Want  reflect.Type
	Got   reflect.Type // nil for an untyped nil
}

func (e *ArgTypeError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = getTypeName(e.Got)
	}

	return fmt.Sprintf("%v: param %q (index %d) wants %s, got %s",
		ErrBadArgType, e.Param, e.Index, getTypeName(e.Want), got)
}

// Is makes errors.Is(err, ErrBadArgType) true for argument type errors.
func (e *ArgTypeError) Is(target error) bool {
	return target == ErrBadArgType
}

// PanicError is the failure reported when the target panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("target panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error, so errors.Is sees through the panic.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)

	return err
}

// IsBadArgType reports whether err is, or wraps, a bad argument type error.
func IsBadArgType(err error) bool {
	return errors.Is(err, ErrBadArgType)
}

package core

// This file holds the reflection helpers shared by declaration checks and invocation.

import (
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strings"
)

// GetFuncName gets the function's name.
func GetFuncName(function any) string {
	value := reflect.ValueOf(function)
	if value.Kind() != reflect.Func {
		return fmt.Sprintf("<%T>", function)
	}

	// docs say to use UnsafePointer explicitly instead of Pointer()
	// https://pkg.go.dev/reflect@go1.21.1#Value.Pointer
	name := runtime.FuncForPC(uintptr(value.UnsafePointer())).Name()
	// this suffix gets appended to method values. It's unimportant here.
	name = strings.TrimSuffix(name, "-fm")

	return name
}

// convertArg converts arg to a value that can be passed as the target's parameter of type
// want. Nil is accepted for nillable kinds, and numbers are converted between numeric kinds
// when the conversion is exact (fixture numbers decode as int64/uint64/float64). Floats
// convert to the nearest value of a narrower float kind unless that overflows.
func convertArg(arg any, want reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		if isNillableKind(want.Kind()) {
			return reflect.Zero(want), true
		}

		return reflect.Value{}, false
	}

	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(want) {
		return value, true
	}

	if isNumericKind(value.Kind()) && isNumericKind(want.Kind()) {
		return convertNumber(value, want)
	}

	return reflect.Value{}, false
}

// convertNumber converts value to want, and reports false if the round trip loses information.
// Between float kinds only overflow counts as a loss.
func convertNumber(value reflect.Value, want reflect.Type) (reflect.Value, bool) {
	if isFloatKind(value.Kind()) {
		f := value.Float()
		if !isFloatKind(want.Kind()) && (math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f)) {
			return reflect.Value{}, false
		}
	}

	if isSignedKind(value.Kind()) && value.Int() < 0 && isUnsignedKind(want.Kind()) {
		return reflect.Value{}, false
	}

	converted := value.Convert(want)
	if isFloatKind(value.Kind()) && isFloatKind(want.Kind()) {
		return converted, !math.IsInf(converted.Float(), 0) || math.IsInf(value.Float(), 0)
	}

	if isUnsignedKind(value.Kind()) && isSignedKind(want.Kind()) && converted.Int() < 0 {
		return reflect.Value{}, false
	}

	if !converted.Convert(value.Type()).Equal(value) {
		return reflect.Value{}, false
	}

	return converted, true
}

// getTypeName gets the type's name, if it has one. If it does not have one, getTypeName
// will return the type's string.
func getTypeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

func isFloatKind(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}

// isNillableKind returns true if the kind passed is nillable.
// According to https://pkg.go.dev/reflect#Value.IsNil, this is the case for
// chan, func, interface, map, pointer, or slice kinds.
func isNillableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	case reflect.Invalid, reflect.Bool, reflect.Int,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64, reflect.Uint, reflect.Uint8,
		reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128, reflect.Array,
		reflect.String, reflect.Struct, reflect.UnsafePointer:
		return false
	default:
		panic("unable to check for nillability for unknown kind " + kind.String())
	}
}

func isNumericKind(kind reflect.Kind) bool {
	return isSignedKind(kind) || isUnsignedKind(kind) || isFloatKind(kind)
}

func isSignedKind(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive // only the signed kinds matter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsignedKind(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive // only the unsigned kinds matter
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// numParams returns the number of named params the function type takes once the receiver
// (if any) is accounted for.
func numParams(funcType reflect.Type, hasReceiver bool) int {
	if hasReceiver {
		return funcType.NumIn() - 1
	}

	return funcType.NumIn()
}

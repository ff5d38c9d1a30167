package core

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"
)

// deepCopy returns a structural copy of value that shares no maps, slices, or pointers
// with the original. Non-nil functions and channels, unsafe pointers, complex numbers, and
// non-finite floats are rejected with ErrUnsupportedValue; self-referencing values with
// ErrCyclicValue. Nil functions and channels copy as nil.
// Unexported struct fields are copied by value.
func deepCopy(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	c := &copier{visiting: make(map[visit]bool)}

	out, err := c.copy(reflect.ValueOf(value), "")
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// copier tracks the reference values on the current descent path to detect cycles.
// Values shared between siblings are copied once per occurrence.
type copier struct {
	visiting map[visit]bool
}

//nolint:cyclop,funlen // one case per reflect kind
func (c *copier) copy(value reflect.Value, path string) (reflect.Value, error) {
	switch value.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value, nil
	case reflect.Float32, reflect.Float64:
		f := value.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return reflect.Value{}, fmt.Errorf("%w: non-finite float %v at %q", ErrUnsupportedValue, f, path)
		}

		return value, nil
	case reflect.Interface:
		if value.IsNil() {
			return reflect.Zero(value.Type()), nil
		}

		inner, err := c.copy(value.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}

		out := reflect.New(value.Type()).Elem()
		out.Set(inner)

		return out, nil
	case reflect.Pointer:
		if value.IsNil() {
			return reflect.Zero(value.Type()), nil
		}

		return c.enter(value, path, func() (reflect.Value, error) {
			elem, err := c.copy(value.Elem(), path)
			if err != nil {
				return reflect.Value{}, err
			}

			out := reflect.New(value.Type().Elem())
			out.Elem().Set(elem)

			return out, nil
		})
	case reflect.Map:
		if value.IsNil() {
			return reflect.Zero(value.Type()), nil
		}

		return c.enter(value, path, func() (reflect.Value, error) {
			out := reflect.MakeMapWithSize(value.Type(), value.Len())

			iter := value.MapRange()
			for iter.Next() {
				elem, err := c.copy(iter.Value(), joinPath(path, fmt.Sprint(iter.Key().Interface())))
				if err != nil {
					return reflect.Value{}, err
				}

				out.SetMapIndex(iter.Key(), elem)
			}

			return out, nil
		})
	case reflect.Slice:
		if value.IsNil() {
			return reflect.Zero(value.Type()), nil
		}

		return c.enter(value, path, func() (reflect.Value, error) {
			out := reflect.MakeSlice(value.Type(), value.Len(), value.Len())

			return out, c.copyElems(value, out, path)
		})
	case reflect.Array:
		out := reflect.New(value.Type()).Elem()

		return out, c.copyElems(value, out, path)
	case reflect.Struct:
		out := reflect.New(value.Type()).Elem()
		out.Set(value)

		for i := range value.NumField() {
			if !value.Type().Field(i).IsExported() {
				continue
			}

			field, err := c.copy(value.Field(i), joinPath(path, value.Type().Field(i).Name))
			if err != nil {
				return reflect.Value{}, err
			}

			out.Field(i).Set(field)
		}

		return out, nil
	case reflect.Chan, reflect.Func:
		if value.IsNil() {
			return reflect.Zero(value.Type()), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: %s at %q", ErrUnsupportedValue, value.Kind(), path)
	case reflect.Invalid, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return reflect.Value{}, fmt.Errorf("%w: %s at %q", ErrUnsupportedValue, value.Kind(), path)
	default:
		return reflect.Value{}, fmt.Errorf("%w: unknown kind %s at %q", ErrUnsupportedValue, value.Kind(), path)
	}
}

func (c *copier) copyElems(from, to reflect.Value, path string) error {
	for i := range from.Len() {
		elem, err := c.copy(from.Index(i), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return err
		}

		to.Index(i).Set(elem)
	}

	return nil
}

// enter runs copyFn with value marked as being on the descent path.
func (c *copier) enter(
	value reflect.Value, path string, copyFn func() (reflect.Value, error),
) (reflect.Value, error) {
	key := visit{ptr: value.UnsafePointer(), typ: value.Type()}
	if c.visiting[key] {
		return reflect.Value{}, fmt.Errorf("%w at %q", ErrCyclicValue, path)
	}

	c.visiting[key] = true
	defer delete(c.visiting, key)

	return copyFn()
}

type visit struct {
	ptr unsafe.Pointer
	typ reflect.Type
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

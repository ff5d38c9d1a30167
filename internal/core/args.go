package core

import (
	"strconv"
	"strings"
)

// Args is the nested default-arguments structure of a TestCase: top-level keys are
// parameter names, and values may themselves be nested Args.
type Args map[string]any

// Get walks the dot-delimited path and returns the value found there.
func (a Args) Get(path string) (any, bool) {
	var current any = a

	for _, segment := range Segments(path) {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}

// Mod is a single modification record: set Value at the dot-delimited Path.
type Mod struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

// Segments splits a path on ".". There is no escaping: a key containing a dot can't be
// addressed, and empty segments are literal empty keys.
func Segments(path string) []string {
	return strings.Split(path, ".")
}

// applyMods applies each modification in order, creating root if it is nil.
func applyMods(root Args, mods []Mod) Args {
	if root == nil {
		root = Args{}
	}

	for _, mod := range mods {
		setPath(root, Segments(mod.Path), mod.Value)
	}

	return root
}

// asMap returns value as a writable map if it is one.
func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case Args:
		return typed, typed != nil
	case map[string]any:
		return typed, typed != nil
	default:
		return nil, false
	}
}

// child returns the entry of a map at segment, or of a []any at the index segment names.
func child(value any, segment string) (any, bool) {
	if container, ok := asMap(value); ok {
		entry, found := container[segment]

		return entry, found
	}

	list, ok := value.([]any)
	if !ok {
		return nil, false
	}

	index, ok := parseIndex(segment)
	if !ok || index >= len(list) {
		return nil, false
	}

	return list[index], true
}

// parseIndex reports whether segment is a canonical decimal index ("0", "12", not "01").
func parseIndex(segment string) (int, bool) {
	index, err := strconv.Atoi(segment)
	if err != nil || index < 0 || strconv.Itoa(index) != segment {
		return 0, false
	}

	return index, true
}

// setPath assigns value at segments below node and returns the node to store in its
// parent. Maps are updated in place. A []any is written at an index segment, growing with
// nils when the index is past its end. Any other intermediate value is replaced with a
// fresh Args.
func setPath(node any, segments []string, value any) any {
	head, rest := segments[0], segments[1:]

	if container, ok := asMap(node); ok {
		if len(rest) == 0 {
			container[head] = value
		} else {
			container[head] = setPath(container[head], rest, value)
		}

		return container
	}

	if list, ok := node.([]any); ok {
		if index, ok := parseIndex(head); ok {
			if index >= len(list) {
				list = append(list, make([]any, index-len(list)+1)...)
			}

			if len(rest) == 0 {
				list[index] = value
			} else {
				list[index] = setPath(list[index], rest, value)
			}

			return list
		}
	}

	return setPath(Args{}, segments, value)
}

package tags

import (
	"strconv"
	"strings"
)

// Kind discriminates the variants of a tag value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindMarker
)

// Value is a tagged union over the types a tag may hold: a string,
// integer, float, boolean, ordered list of values, or a Marker.
// Representing markers as a distinct kind removes any ambiguity between
// a marker and a literal string that happens to equal its display form.
//
// The zero Value is the empty string.
type Value struct {
	kind   Kind
	str    string
	i      int64
	f      float64
	b      bool
	list   []Value
	marker Marker
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Mark(m Marker) Value    { return Value{kind: KindMarker, marker: m} }
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// Ints builds a list value from integers, the common shape of crop
// boxes and flip pairs.
func Ints(vals ...int64) Value {
	elems := make([]Value, len(vals))
	for i, v := range vals {
		elems[i] = Int(v)
	}
	return List(elems...)
}

// Floats builds a list value from floats (lens specifications).
func Floats(vals ...float64) Value {
	elems := make([]Value, len(vals))
	for i, v := range vals {
		elems[i] = Float(v)
	}
	return List(elems...)
}

func (v Value) Kind() Kind { return v.kind }

// IsMarker reports whether the value is the given marker.
func (v Value) IsMarker(m Marker) bool {
	return v.kind == KindMarker && v.marker == m
}

// Marker returns the marker variant, if any.
func (v Value) Marker() (Marker, bool) {
	if v.kind != KindMarker {
		return 0, false
	}
	return v.marker, true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float returns the numeric value as a float for both float and int
// variants, mirroring the places where the resolver treats the two
// interchangeably (GNSS coordinates, apertures).
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Equal reports deep equality of two values, including kind.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindMarker:
		return v.marker == o.marker
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Format renders the value for emission to the metadata tool. Lists are
// flattened to a space-joined string; markers render as their display
// form (only reachable when an AUTO marker survives to emission).
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindMarker:
		return v.marker.String()
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.Format()
		}
		return strings.Join(parts, " ")
	}
	return ""
}

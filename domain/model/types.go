// Package model provides domain model for tableview
package model

import (
	"strconv"
)

// Kind is the tag of a cell Value.
type Kind int

const (
	// KindFloat is a double precision number. It is the zero Kind, so the zero
	// Value is Float(0).
	KindFloat Kind = iota
	// KindInt is a signed integer.
	KindInt
	// KindText is a text string.
	KindText
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the kind holds a number.
func (k Kind) IsNumeric() bool {
	return k == KindFloat || k == KindInt
}

// Value is a single table cell: exactly one of a float, an integer or a text string.
// Values are immutable; a cell update replaces the whole Value.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
}

// Float creates a float Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Int creates an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Text creates a text Value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumeric reports whether the value holds a float or an integer.
func (v Value) IsNumeric() bool {
	return v.kind.IsNumeric()
}

// AsFloat returns the float payload. ok is false for other kinds.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsInt returns the integer payload. ok is false for other kinds.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsText returns the text payload. ok is false for other kinds.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// Numeric returns the value as float64 for numeric kinds. Text never converts.
func (v Value) Numeric() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Any returns the payload as float64, int64 or string.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindText:
		return v.s
	default:
		return v.f
	}
}

// String returns the display text of the value.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return v.s
	default:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
}

// Equal compares kind and payload.
func (v Value) Equal(v2 Value) bool {
	if v.kind != v2.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == v2.i
	case KindText:
		return v.s == v2.s
	default:
		return v.f == v2.f
	}
}

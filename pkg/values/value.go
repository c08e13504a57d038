// Package values implements the engine's Value and Tag model: a tagged
// union over three primitive types (Number, String, Bool) with no
// implicit coercion between them.
package values

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Tag identifies which primitive a Value currently holds.
type Tag int

const (
	// TagNumber marks a 64-bit IEEE-754 float value.
	TagNumber Tag = iota
	// TagString marks a UTF-8 text value.
	TagString
	// TagBool marks a boolean value.
	TagBool
)

// String renders the tag the way it appears on the wire (§6 of the spec):
// lowercase "number" | "string" | "bool".
func (t Tag) String() string {
	switch t {
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseTag is the inverse of Tag.String, used when decoding signatures
// or plan documents at the boundary.
func ParseTag(s string) (Tag, error) {
	switch s {
	case "number":
		return TagNumber, nil
	case "string":
		return TagString, nil
	case "bool":
		return TagBool, nil
	default:
		return 0, fmt.Errorf("unknown type tag %q", s)
	}
}

// Value is a tagged union over {Number, String, Bool}. The zero Value
// is a Number of 0, which matches the pre-seeded zero the executor uses
// for unbound input slots.
type Value struct {
	tag Tag
	num float64
	str string
	b   bool
}

// Number constructs a Number-tagged value.
func Number(v float64) Value {
	return Value{tag: TagNumber, num: v}
}

// String constructs a String-tagged value. The text is normalized to
// Unicode NFC so that two strings built from different decompositions
// of the same text compare and concatenate identically.
func String(v string) Value {
	return Value{tag: TagString, str: norm.NFC.String(v)}
}

// Bool constructs a Bool-tagged value.
func Bool(v bool) Value {
	return Value{tag: TagBool, b: v}
}

// Zero returns the per-type zero value for tag, used to pre-seed a
// node's input slots and as the result of an unbound input.
func Zero(tag Tag) Value {
	switch tag {
	case TagString:
		return String("")
	case TagBool:
		return Bool(false)
	default:
		return Number(0)
	}
}

// Tag reports which primitive this Value holds.
func (v Value) Tag() Tag { return v.tag }

// IsNumber reports whether the value is Number-tagged.
func (v Value) IsNumber() bool { return v.tag == TagNumber }

// IsString reports whether the value is String-tagged.
func (v Value) IsString() bool { return v.tag == TagString }

// IsBool reports whether the value is Bool-tagged.
func (v Value) IsBool() bool { return v.tag == TagBool }

// AsNumber reads the value as a Number, failing if the tag mismatches.
func (v Value) AsNumber() (float64, error) {
	if v.tag != TagNumber {
		return 0, fmt.Errorf("value is %s, not number", v.tag)
	}
	return v.num, nil
}

// AsString reads the value as a String, failing if the tag mismatches.
func (v Value) AsString() (string, error) {
	if v.tag != TagString {
		return "", fmt.Errorf("value is %s, not string", v.tag)
	}
	return v.str, nil
}

// AsBool reads the value as a Bool, failing if the tag mismatches.
func (v Value) AsBool() (bool, error) {
	if v.tag != TagBool {
		return false, fmt.Errorf("value is %s, not bool", v.tag)
	}
	return v.b, nil
}

// Any returns the value as an untyped Go value (float64, string, or
// bool), for use by JSON encoders and test assertions.
func (v Value) Any() interface{} {
	switch v.tag {
	case TagString:
		return v.str
	case TagBool:
		return v.b
	default:
		return v.num
	}
}

// Equal reports whether two values share a tag and an equal payload.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case TagString:
		return v.str == other.str
	case TagBool:
		return v.b == other.b
	default:
		return v.num == other.num
	}
}

package domain

import "strconv"

// ValueKind discriminates the states a cell value can be in.
type ValueKind uint8

const (
	ValueMissing ValueKind = iota
	ValueText
	ValueNumber
)

// Value is a single cell value after normalization. A Value is exactly one
// of missing, text, or number; coercions between kinds are always explicit
// and recorded by the component performing them.
type Value struct {
	Kind ValueKind
	Text string
	Num  float64
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{Kind: ValueMissing}
}

// TextValue returns a text Value.
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value {
	return Value{Kind: ValueNumber, Num: f}
}

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool {
	return v.Kind == ValueMissing
}

// String serializes the value for output. Missing serializes as the empty
// string; numbers use the shortest representation that round-trips.
func (v Value) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return ""
	}
}

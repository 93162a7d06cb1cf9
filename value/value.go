// Package value defines the typed cell values that flow through a column
// scan, and the capabilities used to decide which metadata kinds apply to a
// column.
package value

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindMissing represents a missing cell. It is the zero Kind.
	KindMissing Kind = iota
	// KindInt represents an integer cell.
	KindInt
	// KindFloat represents a double cell.
	KindFloat
	// KindString represents a string cell.
	KindString
	// KindBool represents a boolean cell.
	KindBool
	// KindDistribution represents a probability distribution over named classes.
	KindDistribution
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "Missing"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindDistribution:
		return "Distribution"
	default:
		return "Unknown"
	}
}

// Value is a single table cell.
//
// Values are small and copied by value; the distribution payload is shared
// but never mutated after construction.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	B    bool
	s    unique.Handle[string]
	d    *distribution
}

type distribution struct {
	classes []string
	probs   []float64
}

// Missing returns a missing Value.
func Missing() Value { return Value{} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Distribution returns a probability distribution Value. Classes and
// probabilities are copied; a length mismatch yields a missing Value.
func Distribution(classes []string, probs []float64) Value {
	if len(classes) != len(probs) {
		return Missing()
	}
	return Value{Kind: KindDistribution, d: &distribution{
		classes: slices.Clone(classes),
		probs:   slices.Clone(probs),
	}}
}

// IsMissing reports whether v is a missing cell.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the value as float64 for KindFloat and KindInt.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.F64, true
	case KindInt:
		return float64(v.I64), true
	}
	return 0, false
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// Classes returns a copy of the class labels of a distribution value.
func (v Value) Classes() ([]string, bool) {
	if v.Kind != KindDistribution {
		return nil, false
	}
	return slices.Clone(v.d.classes), true
}

// Probability returns the probability of class in a distribution value.
func (v Value) Probability(class string) (float64, bool) {
	if v.Kind != KindDistribution {
		return 0, false
	}
	i := slices.Index(v.d.classes, class)
	if i < 0 {
		return 0, false
	}
	return v.d.probs[i], true
}

// Text returns the nominal text of v: the string itself for strings and
// "true"/"false" for booleans. Other kinds yield false.
func (v Value) Text() (string, bool) {
	switch v.Kind {
	case KindString:
		return v.s.Value(), true
	case KindBool:
		return strconv.FormatBool(v.B), true
	}
	return "", false
}

// Key returns a stable string representation for use in maps.
func (v Value) Key() string {
	switch v.Kind {
	case KindMissing:
		return "?"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindDistribution:
		parts := make([]string, len(v.d.classes))
		for i, c := range v.d.classes {
			parts[i] = c + "=" + strconv.FormatUint(math.Float64bits(v.d.probs[i]), 16)
		}
		return "d:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == KindDistribution {
		return slices.Equal(v.d.classes, o.d.classes) && slices.Equal(v.d.probs, o.d.probs)
	}
	return v.Key() == o.Key()
}

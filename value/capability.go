package value

import "slices"

// Capability names an interface a cell value can provide, such as "nominal"
// for values that can be treated as category labels. Metadata kinds declare
// the capability they apply to.
type Capability string

const (
	// CapString is provided by string cells.
	CapString Capability = "string"
	// CapNominal is provided by cells usable as category labels.
	CapNominal Capability = "nominal"
	// CapInt is provided by integer and boolean cells.
	CapInt Capability = "int"
	// CapDouble is provided by every numeric cell.
	CapDouble Capability = "double"
	// CapBool is provided by boolean cells.
	CapBool Capability = "bool"
	// CapDistribution is provided by probability distribution cells.
	CapDistribution Capability = "distribution"
)

// Implements reports whether v provides capability c. Missing cells provide
// nothing.
func (v Value) Implements(c Capability) bool {
	switch v.Kind {
	case KindString:
		return c == CapString || c == CapNominal
	case KindInt:
		return c == CapInt || c == CapDouble
	case KindFloat:
		return c == CapDouble
	case KindBool:
		return c == CapBool || c == CapNominal || c == CapInt || c == CapDouble
	case KindDistribution:
		return c == CapDistribution
	}
	return false
}

// Type is a column's declared data type: a name plus the capabilities every
// non-missing cell of the column provides.
type Type struct {
	name string
	caps []Capability
}

// NewType returns a column type with the given capabilities.
func NewType(name string, caps ...Capability) Type {
	return Type{name: name, caps: slices.Clone(caps)}
}

// Predefined column types.
var (
	StringType       = NewType("String", CapString, CapNominal)
	IntType          = NewType("Integer", CapInt, CapDouble)
	DoubleType       = NewType("Number (double)", CapDouble)
	BoolType         = NewType("Boolean", CapBool, CapNominal, CapInt, CapDouble)
	DistributionType = NewType("Probability Distribution", CapDistribution)
)

// Name returns the type name.
func (t Type) Name() string { return t.name }

// Capabilities returns a copy of the declared capabilities.
func (t Type) Capabilities() []Capability { return slices.Clone(t.caps) }

// Has reports whether the type declares capability c.
func (t Type) Has(c Capability) bool { return slices.Contains(t.caps, c) }

// Accepts reports whether v may be stored in a column of this type.
// Missing cells are always accepted.
func (t Type) Accepts(v Value) bool {
	if v.IsMissing() {
		return true
	}
	for _, c := range t.caps {
		if !v.Implements(c) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (t Type) String() string { return t.name }

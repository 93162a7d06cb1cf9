// Package nominal provides the nominal value-set metadata kind: the ordered
// set of distinct category labels observed in a column.
package nominal

import (
	"slices"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/settings"
	"github.com/hupe1980/colmeta/value"
)

// Kind is the stable identifier of the value-set kind.
const Kind metadata.Kind = "nominal.ValueSet"

const keyValues = "values"

// ValueSet is an immutable ordered set of distinct values.
type ValueSet struct {
	values []string
	index  map[string]struct{}
}

var _ metadata.MetaData = (*ValueSet)(nil)

// NewValueSet returns a set of the distinct values in first-seen order.
func NewValueSet(values ...string) *ValueSet {
	s := &ValueSet{
		values: make([]string, 0, len(values)),
		index:  make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		s.add(v)
	}
	return s
}

func (s *ValueSet) add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Kind implements metadata.MetaData.
func (s *ValueSet) Kind() metadata.Kind { return Kind }

// Values returns a copy of the values in order.
func (s *ValueSet) Values() []string { return slices.Clone(s.values) }

// Len returns the number of values.
func (s *ValueSet) Len() int { return len(s.values) }

// Contains reports whether v is in the set.
func (s *ValueSet) Contains(v string) bool {
	_, ok := s.index[v]
	return ok
}

// Equal implements metadata.MetaData. Order is significant.
func (s *ValueSet) Equal(other metadata.MetaData) bool {
	o, ok := other.(*ValueSet)
	return ok && o != nil && slices.Equal(s.values, o.values)
}

// Merge implements metadata.MetaData: the ordered union of the receiver's
// values followed by the values of other not already present.
func (s *ValueSet) Merge(other metadata.MetaData) (metadata.MetaData, error) {
	o, err := metadata.AssertKind[*ValueSet](Kind, other)
	if err != nil {
		return nil, err
	}
	if o == s || s.Equal(o) {
		return s, nil
	}
	merged := NewValueSet(s.values...)
	grew := false
	for _, v := range o.values {
		if merged.add(v) {
			grew = true
		}
	}
	if !grew {
		return s, nil
	}
	return merged, nil
}

// Serializer persists ValueSets under the "values" key.
var Serializer = &metadata.TypedSerializer[*ValueSet]{
	ID: Kind,
	SaveFunc: func(s *ValueSet, w settings.Writer) error {
		w.SetStrings(keyValues, s.values)
		return nil
	},
	LoadFunc: func(r settings.Reader) (*ValueSet, error) {
		values, err := r.Strings(keyValues)
		if err != nil {
			return nil, err
		}
		s := NewValueSet(values...)
		if s.Len() != len(values) {
			return nil, settings.Invalid(keyValues, "duplicate values")
		}
		return s, nil
	},
}

// Factory creates value-set creators. It applies to nominal columns.
type Factory struct{}

// Kind implements metadata.CreatorFactory.
func (Factory) Kind() metadata.Kind { return Kind }

// AppliesTo implements metadata.CreatorFactory.
func (Factory) AppliesTo(c value.Capability) bool { return c == value.CapNominal }

// New implements metadata.CreatorFactory.
func (Factory) New() metadata.Creator { return NewCreator() }

// Register adds the value-set kind to reg.
func Register(reg *metadata.Registry) error {
	return reg.Register(Serializer, Factory{})
}

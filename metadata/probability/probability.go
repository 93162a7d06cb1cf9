// Package probability provides the metadata kind of probability
// distribution columns: the ordered class labels the distributions range
// over.
package probability

import (
	"fmt"
	"slices"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/settings"
	"github.com/hupe1980/colmeta/value"
)

// Kind is the stable identifier of the distribution kind.
const Kind metadata.Kind = "probability.Distribution"

const keyClasses = "classes"

// Distribution is the immutable class list of a distribution column, in the
// order the classes were first seen. A Distribution without classes means no
// distribution cell was observed.
type Distribution struct {
	classes []string
}

var _ metadata.MetaData = (*Distribution)(nil)

// NewDistribution returns a Distribution over classes. Class labels must be
// distinct.
func NewDistribution(classes ...string) (*Distribution, error) {
	if err := checkDistinct(classes); err != nil {
		return nil, err
	}
	return &Distribution{classes: slices.Clone(classes)}, nil
}

func checkDistinct(classes []string) error {
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Kind implements metadata.MetaData.
func (d *Distribution) Kind() metadata.Kind { return Kind }

// Classes returns a copy of the class labels.
func (d *Distribution) Classes() []string { return slices.Clone(d.classes) }

// IsEmpty reports whether no classes are known.
func (d *Distribution) IsEmpty() bool { return len(d.classes) == 0 }

// Equal implements metadata.MetaData.
func (d *Distribution) Equal(other metadata.MetaData) bool {
	o, ok := other.(*Distribution)
	return ok && o != nil && slices.Equal(d.classes, o.classes)
}

// Merge implements metadata.MetaData: the receiver's classes followed by
// the classes of other not already present.
func (d *Distribution) Merge(other metadata.MetaData) (metadata.MetaData, error) {
	o, err := metadata.AssertKind[*Distribution](Kind, other)
	if err != nil {
		return nil, err
	}
	switch {
	case o == d, d.Equal(o), o.IsEmpty():
		return d, nil
	case d.IsEmpty():
		return o, nil
	}
	merged, grew := union(d.classes, o.classes)
	if !grew {
		return d, nil
	}
	return &Distribution{classes: merged}, nil
}

// union returns a followed by the elements of b missing from a, and whether
// anything was added. a is never modified.
func union(a, b []string) ([]string, bool) {
	var out []string
	for _, c := range b {
		if slices.Contains(a, c) || slices.Contains(out, c) {
			continue
		}
		if out == nil {
			out = slices.Clip(slices.Clone(a))
		}
		out = append(out, c)
	}
	if out == nil {
		return a, false
	}
	return out, true
}

// Serializer persists Distributions under the "classes" key.
var Serializer = &metadata.TypedSerializer[*Distribution]{
	ID: Kind,
	SaveFunc: func(d *Distribution, w settings.Writer) error {
		w.SetStrings(keyClasses, d.classes)
		return nil
	},
	LoadFunc: func(r settings.Reader) (*Distribution, error) {
		classes, err := r.Strings(keyClasses)
		if err != nil {
			return nil, err
		}
		d, err := NewDistribution(classes...)
		if err != nil {
			return nil, settings.Invalid(keyClasses, "%v", err)
		}
		return d, nil
	},
}

// Factory creates distribution creators. It applies to distribution columns.
type Factory struct{}

// Kind implements metadata.CreatorFactory.
func (Factory) Kind() metadata.Kind { return Kind }

// AppliesTo implements metadata.CreatorFactory.
func (Factory) AppliesTo(c value.Capability) bool { return c == value.CapDistribution }

// New implements metadata.CreatorFactory.
func (Factory) New() metadata.Creator { return &Creator{} }

// Register adds the distribution kind to reg.
func Register(reg *metadata.Registry) error {
	return reg.Register(Serializer, Factory{})
}

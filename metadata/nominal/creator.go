package nominal

import (
	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/value"
)

// Creator accumulates the distinct nominal values of a column in first-seen
// order.
type Creator struct {
	set *ValueSet
}

var _ metadata.Creator = (*Creator)(nil)

// NewCreator returns an empty creator.
func NewCreator() *Creator {
	return &Creator{set: NewValueSet()}
}

// Kind implements metadata.Creator.
func (c *Creator) Kind() metadata.Kind { return Kind }

// Update records the text of a nominal cell. Other cells are ignored.
func (c *Creator) Update(v value.Value) {
	if !v.Implements(value.CapNominal) {
		return
	}
	if s, ok := v.Text(); ok {
		c.set.add(s)
	}
}

// Merge implements metadata.Creator.
func (c *Creator) Merge(m metadata.MetaData) error {
	s, err := metadata.AssertKind[*ValueSet](Kind, m)
	if err != nil {
		return err
	}
	for _, v := range s.values {
		c.set.add(v)
	}
	return nil
}

// MergeCreator implements metadata.Creator.
func (c *Creator) MergeCreator(other metadata.Creator) error {
	o, err := metadata.AssertKind[*Creator](Kind, other)
	if err != nil {
		return err
	}
	if o == c {
		return nil
	}
	for _, v := range o.set.values {
		c.set.add(v)
	}
	return nil
}

// Create implements metadata.Creator.
func (c *Creator) Create() metadata.MetaData {
	return NewValueSet(c.set.values...)
}

// Copy implements metadata.Creator.
func (c *Creator) Copy() metadata.Creator {
	return &Creator{set: NewValueSet(c.set.values...)}
}

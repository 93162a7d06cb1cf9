package probability

import (
	"slices"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/value"
)

// Creator learns the classes of a distribution column from its cells.
//
// Classes are collected in first-seen order across all cells, so a column
// whose cells range over {a, b} and {b, c} ends with [a b c]. Cells with
// repeated class labels are ignored.
type Creator struct {
	classes []string
}

var _ metadata.Creator = (*Creator)(nil)

// NewCreator returns a creator, optionally preset with classes.
func NewCreator(classes ...string) (*Creator, error) {
	if err := checkDistinct(classes); err != nil {
		return nil, err
	}
	return &Creator{classes: slices.Clone(classes)}, nil
}

// Kind implements metadata.Creator.
func (c *Creator) Kind() metadata.Kind { return Kind }

// Update implements metadata.Creator.
func (c *Creator) Update(v value.Value) {
	classes, ok := v.Classes()
	if !ok || len(classes) == 0 || checkDistinct(classes) != nil {
		return
	}
	c.absorb(classes)
}

func (c *Creator) absorb(classes []string) {
	for _, cl := range classes {
		if !slices.Contains(c.classes, cl) {
			c.classes = append(c.classes, cl)
		}
	}
}

// Merge implements metadata.Creator.
func (c *Creator) Merge(m metadata.MetaData) error {
	d, err := metadata.AssertKind[*Distribution](Kind, m)
	if err != nil {
		return err
	}
	c.absorb(d.classes)
	return nil
}

// MergeCreator implements metadata.Creator.
func (c *Creator) MergeCreator(other metadata.Creator) error {
	o, err := metadata.AssertKind[*Creator](Kind, other)
	if err != nil {
		return err
	}
	if o != c {
		c.absorb(o.classes)
	}
	return nil
}

// Create implements metadata.Creator.
func (c *Creator) Create() metadata.MetaData {
	return &Distribution{classes: slices.Clone(c.classes)}
}

// Copy implements metadata.Creator.
func (c *Creator) Copy() metadata.Creator {
	return &Creator{classes: slices.Clone(c.classes)}
}

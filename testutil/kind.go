package testutil

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/settings"
	"github.com/hupe1980/colmeta/value"
)

// PinnedKind identifies Pinned metadata.
const PinnedKind metadata.Kind = "testutil.Pinned"

// ErrPinnedConflict is returned when two different Pinned values meet.
var ErrPinnedConflict = errors.New("testutil: pinned values differ")

// Pinned is a metadata kind that holds the first nominal value of a column
// and refuses to merge with a different one. The builtin kinds always merge,
// so tests use Pinned to drive the merge failure paths.
type Pinned struct {
	Value string
}

var _ metadata.MetaData = (*Pinned)(nil)

func (p *Pinned) Kind() metadata.Kind { return PinnedKind }

func (p *Pinned) Equal(other metadata.MetaData) bool {
	o, ok := other.(*Pinned)
	return ok && o != nil && o.Value == p.Value
}

func (p *Pinned) Merge(other metadata.MetaData) (metadata.MetaData, error) {
	o, err := metadata.AssertKind[*Pinned](PinnedKind, other)
	if err != nil {
		return nil, err
	}
	switch {
	case o.Value == "" || o.Value == p.Value:
		return p, nil
	case p.Value == "":
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q vs %q", ErrPinnedConflict, p.Value, o.Value)
}

// PinnedSerializer stores the value under "value".
var PinnedSerializer = &metadata.TypedSerializer[*Pinned]{
	ID: PinnedKind,
	SaveFunc: func(p *Pinned, w settings.Writer) error {
		w.SetString("value", p.Value)
		return nil
	},
	LoadFunc: func(r settings.Reader) (*Pinned, error) {
		v, err := r.String("value")
		if err != nil {
			return nil, err
		}
		return &Pinned{Value: v}, nil
	},
}

// PinnedFactory applies to nominal columns.
type PinnedFactory struct{}

func (PinnedFactory) Kind() metadata.Kind               { return PinnedKind }
func (PinnedFactory) AppliesTo(c value.Capability) bool { return c == value.CapNominal }
func (PinnedFactory) New() metadata.Creator             { return &pinnedCreator{} }

// RegisterPinned adds the Pinned kind to reg.
func RegisterPinned(reg *metadata.Registry) error {
	return reg.Register(PinnedSerializer, PinnedFactory{})
}

type pinnedCreator struct {
	p Pinned
}

func (c *pinnedCreator) Kind() metadata.Kind { return PinnedKind }

func (c *pinnedCreator) Update(v value.Value) {
	if c.p.Value != "" || v.IsMissing() {
		return
	}
	if s, ok := v.Text(); ok {
		c.p.Value = s
	}
}

func (c *pinnedCreator) Merge(m metadata.MetaData) error {
	merged, err := c.p.Merge(m)
	if err != nil {
		return err
	}
	c.p = *merged.(*Pinned)
	return nil
}

func (c *pinnedCreator) MergeCreator(other metadata.Creator) error {
	o, err := metadata.AssertKind[*pinnedCreator](PinnedKind, other)
	if err != nil {
		return err
	}
	return c.Merge(&o.p)
}

func (c *pinnedCreator) Create() metadata.MetaData {
	p := c.p
	return &p
}

func (c *pinnedCreator) Copy() metadata.Creator {
	cp := *c
	return &cp
}

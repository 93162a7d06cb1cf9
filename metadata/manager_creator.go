package metadata

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/colmeta/value"
)

// ManagerCreator builds Managers. It holds one open Creator per kind.
//
// A ManagerCreator is single-writer: callers must not use it from multiple
// goroutines at once. Create may be called repeatedly; each returned Manager
// is independent of the creator and of earlier snapshots.
type ManagerCreator struct {
	reg      *Registry
	creators map[Kind]Creator
}

// Kinds returns the kinds currently staged, sorted.
func (c *ManagerCreator) Kinds() []Kind {
	return slices.Sorted(maps.Keys(c.creators))
}

// Update feeds one cell to every staged creator.
func (c *ManagerCreator) Update(v value.Value) {
	for _, cr := range c.creators {
		cr.Update(v)
	}
}

// AddMetaData stages m. With overwrite, any staged state of m's kind is
// replaced by m. Otherwise m is merged into the staged state, or staged
// directly if its kind is absent.
func (c *ManagerCreator) AddMetaData(m MetaData, overwrite bool) error {
	if m == nil {
		return errors.New("metadata: nil instance")
	}
	if existing, ok := c.creators[m.Kind()]; ok && !overwrite {
		if err := existing.Merge(m); err != nil {
			return fmt.Errorf("merge kind %q: %w", m.Kind(), err)
		}
		return nil
	}
	cr, err := c.reg.CreatorFor(m)
	if err != nil {
		return err
	}
	c.creators[m.Kind()] = cr
	return nil
}

// Merge stages every entry of m, merging with staged state of the same kind.
func (c *ManagerCreator) Merge(m *Manager) error {
	for _, k := range m.Kinds() {
		if err := c.AddMetaData(m.entries[k], false); err != nil {
			return err
		}
	}
	return nil
}

// MergeCreator absorbs the staged state of other, kind by kind. Kinds only
// present in other are copied. other is not modified.
func (c *ManagerCreator) MergeCreator(other *ManagerCreator) error {
	for _, k := range other.Kinds() {
		oc := other.creators[k]
		cr, ok := c.creators[k]
		if !ok {
			c.creators[k] = oc.Copy()
			continue
		}
		if err := cr.MergeCreator(oc); err != nil {
			return fmt.Errorf("merge kind %q: %w", k, err)
		}
	}
	return nil
}

// Remove drops the staged state of kind k.
func (c *ManagerCreator) Remove(k Kind) {
	delete(c.creators, k)
}

// Clear drops all staged state.
func (c *ManagerCreator) Clear() {
	clear(c.creators)
}

// Copy returns an independent deep copy.
func (c *ManagerCreator) Copy() *ManagerCreator {
	cp := &ManagerCreator{reg: c.reg, creators: make(map[Kind]Creator, len(c.creators))}
	for k, cr := range c.creators {
		cp.creators[k] = cr.Copy()
	}
	return cp
}

// Create returns an immutable snapshot of the staged state.
func (c *ManagerCreator) Create() *Manager {
	entries := make(map[Kind]MetaData, len(c.creators))
	for k, cr := range c.creators {
		entries[k] = cr.Create()
	}
	return newManager(entries)
}

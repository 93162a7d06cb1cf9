package metadata

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/colmeta/settings"
)

// Manager holds at most one MetaData per kind for a single column.
// It is immutable; use a ManagerCreator to derive a modified copy.
type Manager struct {
	entries map[Kind]MetaData
}

var empty = &Manager{entries: map[Kind]MetaData{}}

// Empty returns the shared empty Manager. Every Manager without entries is
// this instance.
func Empty() *Manager { return empty }

func newManager(entries map[Kind]MetaData) *Manager {
	if len(entries) == 0 {
		return empty
	}
	return &Manager{entries: entries}
}

// Get returns the instance of kind k.
func (m *Manager) Get(k Kind) (MetaData, bool) {
	if m == nil {
		return nil, false
	}
	md, ok := m.entries[k]
	return md, ok
}

// Lookup returns the instance of kind k as T. It reports false when the kind
// is absent or the stored instance is not a T, which can happen when the
// registry was configured with a different implementation of the kind.
func Lookup[T MetaData](m *Manager, k Kind) (T, bool) {
	var zero T
	md, ok := m.Get(k)
	if !ok {
		return zero, false
	}
	t, ok := md.(T)
	if !ok || md.Kind() != k {
		return zero, false
	}
	return t, true
}

// Kinds returns the stored kinds in sorted order.
func (m *Manager) Kinds() []Kind {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.entries))
}

// Len returns the number of stored kinds.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// IsEmpty reports whether no metadata is stored.
func (m *Manager) IsEmpty() bool { return m.Len() == 0 }

// Equal reports whether both managers hold equal instances for the same
// kinds.
func (m *Manager) Equal(o *Manager) bool {
	if m.Len() != o.Len() {
		return false
	}
	for k, a := range m.all() {
		b, ok := o.Get(k)
		if !ok || !a.Equal(b) {
			return false
		}
	}
	return true
}

func (m *Manager) all() map[Kind]MetaData {
	if m == nil {
		return nil
	}
	return m.entries
}

// Merge returns a Manager holding the union of both kinds. Kinds present in
// both are combined with the kind's Merge. Neither input is modified.
func (m *Manager) Merge(o *Manager) (*Manager, error) {
	out := make(map[Kind]MetaData, m.Len()+o.Len())
	maps.Copy(out, m.all())
	for k, b := range o.all() {
		a, ok := out[k]
		if !ok {
			out[k] = b
			continue
		}
		merged, err := a.Merge(b)
		if err != nil {
			return nil, fmt.Errorf("merge kind %q: %w", k, err)
		}
		out[k] = merged
	}
	return newManager(out), nil
}

// Save writes one settings scope per kind, keyed by the kind identifier.
// Kinds are written in sorted order.
func (m *Manager) Save(w settings.Writer, reg *Registry) error {
	for _, k := range m.Kinds() {
		md := m.entries[k]
		s, err := reg.Serializer(k)
		if err != nil {
			return err
		}
		if s.Kind() != md.Kind() {
			return &InconsistentSerializerError{Kind: k, Type: typeName(md)}
		}
		if err := s.Save(md, w.AddTree(string(k))); err != nil {
			return fmt.Errorf("save kind %q: %w", k, err)
		}
	}
	return nil
}

// SkippedEntry describes a persisted entry that Load could not restore.
type SkippedEntry struct {
	Key string
	Err error
}

// LoadReport lists what Load restored and what it skipped.
type LoadReport struct {
	Loaded  []Kind
	Skipped []SkippedEntry
}

// Load reads a Manager written by Save.
//
// Every top-level key names a kind. Unregistered kinds and kinds whose
// settings are malformed are skipped with a warning and listed in the
// report. Restored instances are indexed by their runtime kind.
func Load(r settings.Reader, reg *Registry) (*Manager, *LoadReport, error) {
	if r == nil {
		return nil, nil, errors.New("metadata: nil settings")
	}
	report := &LoadReport{}
	entries := make(map[Kind]MetaData)

	for _, key := range r.Keys() {
		md, err := loadEntry(r, reg, key)
		if err != nil {
			reg.logger.Warn("skipping metadata entry", "kind", key, "error", err)
			report.Skipped = append(report.Skipped, SkippedEntry{Key: key, Err: err})
			continue
		}
		if _, dup := entries[md.Kind()]; dup {
			err := fmt.Errorf("%w: key %q restores duplicate kind %q", ErrInconsistentSerializer, key, md.Kind())
			reg.logger.Warn("skipping metadata entry", "kind", key, "error", err)
			report.Skipped = append(report.Skipped, SkippedEntry{Key: key, Err: err})
			continue
		}
		entries[md.Kind()] = md
		report.Loaded = append(report.Loaded, md.Kind())
	}
	return newManager(entries), report, nil
}

func loadEntry(r settings.Reader, reg *Registry, key string) (MetaData, error) {
	s, ok := reg.LookupSerializer(key)
	if !ok {
		return nil, &UnregisteredKindError{Kind: Kind(key)}
	}
	scope, err := r.Tree(key)
	if err != nil {
		return nil, err
	}
	md, err := s.Load(scope)
	if err != nil {
		return nil, err
	}
	if md == nil {
		return nil, &InconsistentSerializerError{Kind: s.Kind(), Type: "<nil>"}
	}
	return md, nil
}

package metadata

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/colmeta/value"
)

// Entry is one registered kind.
type Entry struct {
	Serializer Serializer
	Factory    CreatorFactory
}

// catalog is an immutable registry snapshot.
type catalog struct {
	entries map[Kind]Entry
	order   []Kind
}

// Registry maps kinds to their serializer and creator factory.
//
// Registration is serialized by a mutex and publishes a new immutable
// snapshot; lookups load the current snapshot atomically and never block.
// Call Freeze once initialization is done.
type Registry struct {
	mu     sync.Mutex
	frozen atomic.Bool
	snap   atomic.Pointer[catalog]
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration conflicts and skipped
// load entries. A nil logger discards output.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l == nil {
			l = discardLogger()
		}
		r.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{logger: discardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	r.snap.Store(&catalog{entries: map[Kind]Entry{}})
	return r
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *slog.Logger { return r.logger }

// Register adds a kind.
//
// Serializer and factory must report the same kind. Registering the same
// pair again is a no-op. If the kind is already registered with a different
// serializer or factory, the first registration is kept and the conflict is
// logged; no error is returned so that duplicate discovery does not abort
// startup.
func (r *Registry) Register(s Serializer, f CreatorFactory) error {
	if s == nil || f == nil {
		return errors.New("metadata: register requires serializer and factory")
	}
	if s.Kind() != f.Kind() {
		return fmt.Errorf("metadata: serializer kind %q does not match factory kind %q", s.Kind(), f.Kind())
	}
	if s.Kind() == "" {
		return errors.New("metadata: empty kind")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFrozen, s.Kind())
	}

	cur := r.snap.Load()
	if existing, ok := cur.entries[s.Kind()]; ok {
		if !sameInstance(existing.Serializer, s) || !sameInstance(existing.Factory, f) {
			r.logger.Warn("conflicting metadata registration ignored",
				"kind", s.Kind(),
				"kept_factory", typeName(existing.Factory),
				"ignored_factory", typeName(f),
			)
		}
		return nil
	}

	next := &catalog{
		entries: make(map[Kind]Entry, len(cur.entries)+1),
		order:   append(slices.Clone(cur.order), s.Kind()),
	}
	for k, e := range cur.entries {
		next.entries[k] = e
	}
	next.entries[s.Kind()] = Entry{Serializer: s, Factory: f}
	r.snap.Store(next)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(s Serializer, f CreatorFactory) {
	if err := r.Register(s, f); err != nil {
		panic(err)
	}
}

// Freeze ends the registration phase. Later Register calls fail with
// ErrRegistryFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen.Store(true)
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	return slices.Clone(r.snap.Load().order)
}

// Entry returns the registry entry of k.
func (r *Registry) Entry(k Kind) (Entry, bool) {
	e, ok := r.snap.Load().entries[k]
	return e, ok
}

// Serializer returns the serializer of k or an UnregisteredKindError.
func (r *Registry) Serializer(k Kind) (Serializer, error) {
	e, ok := r.Entry(k)
	if !ok {
		return nil, &UnregisteredKindError{Kind: k}
	}
	return e.Serializer, nil
}

// LookupSerializer resolves a serializer by its persisted kind name.
// A false result is expected when loading data written by a kind that is no
// longer registered.
func (r *Registry) LookupSerializer(name string) (Serializer, bool) {
	e, ok := r.Entry(Kind(name))
	if !ok {
		return nil, false
	}
	return e.Serializer, true
}

// Creator returns a fresh creator for k or an UnregisteredKindError.
func (r *Registry) Creator(k Kind) (Creator, error) {
	e, ok := r.Entry(k)
	if !ok {
		return nil, &UnregisteredKindError{Kind: k}
	}
	return e.Factory.New(), nil
}

// CreatorFor returns a fresh creator for m's kind, seeded with m.
func (r *Registry) CreatorFor(m MetaData) (Creator, error) {
	if m == nil {
		return nil, errors.New("metadata: nil instance")
	}
	c, err := r.Creator(m.Kind())
	if err != nil {
		return nil, err
	}
	if err := c.Merge(m); err != nil {
		return nil, err
	}
	return c, nil
}

// HasMetaData reports whether any registered kind applies to one of caps.
func (r *Registry) HasMetaData(caps ...value.Capability) bool {
	snap := r.snap.Load()
	for _, k := range snap.order {
		if appliesToAny(snap.entries[k].Factory, caps) {
			return true
		}
	}
	return false
}

// Creators returns one fresh creator for every kind applicable to one of
// caps, in registration order.
func (r *Registry) Creators(caps ...value.Capability) []Creator {
	snap := r.snap.Load()
	var out []Creator
	for _, k := range snap.order {
		if f := snap.entries[k].Factory; appliesToAny(f, caps) {
			out = append(out, f.New())
		}
	}
	return out
}

// NewManagerCreator returns a ManagerCreator holding a fresh creator for
// every kind applicable to one of caps.
func (r *Registry) NewManagerCreator(caps ...value.Capability) *ManagerCreator {
	mc := &ManagerCreator{reg: r, creators: make(map[Kind]Creator)}
	for _, c := range r.Creators(caps...) {
		mc.creators[c.Kind()] = c
	}
	return mc
}

// ManagerCreatorFrom returns a ManagerCreator seeded with every entry of m.
func (r *Registry) ManagerCreatorFrom(m *Manager) (*ManagerCreator, error) {
	mc := &ManagerCreator{reg: r, creators: make(map[Kind]Creator)}
	if err := mc.Merge(m); err != nil {
		return nil, err
	}
	return mc, nil
}

func appliesToAny(f CreatorFactory, caps []value.Capability) bool {
	for _, c := range caps {
		if f.AppliesTo(c) {
			return true
		}
	}
	return false
}

// sameInstance reports whether two registrations are the same value. Values
// that cannot be compared with == are compared by code pointer (funcs) or
// deep equality.
func sameInstance(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

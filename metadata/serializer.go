package metadata

import (
	"github.com/hupe1980/colmeta/settings"
)

// TypedSerializer implements Serializer for a concrete type T, performing the
// runtime type check on Save.
type TypedSerializer[T MetaData] struct {
	ID       Kind
	SaveFunc func(m T, w settings.Writer) error
	LoadFunc func(r settings.Reader) (T, error)
}

var _ Serializer = (*TypedSerializer[MetaData])(nil)

// Kind implements Serializer.
func (s *TypedSerializer[T]) Kind() Kind { return s.ID }

// Save implements Serializer.
func (s *TypedSerializer[T]) Save(m MetaData, w settings.Writer) error {
	t, ok := m.(T)
	if !ok || m.Kind() != s.ID {
		return &InconsistentSerializerError{Kind: s.ID, Type: typeName(m)}
	}
	return s.SaveFunc(t, w)
}

// Load implements Serializer.
func (s *TypedSerializer[T]) Load(r settings.Reader) (MetaData, error) {
	t, err := s.LoadFunc(r)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SaveMetaData writes m through the serializer registered for its kind.
func SaveMetaData(reg *Registry, m MetaData, w settings.Writer) error {
	s, err := reg.Serializer(m.Kind())
	if err != nil {
		return err
	}
	return s.Save(m, w)
}

// LoadMetaData reads a single instance of kind k. Unlike Manager loading,
// every failure is returned to the caller.
func LoadMetaData(reg *Registry, k Kind, r settings.Reader) (MetaData, error) {
	s, err := reg.Serializer(k)
	if err != nil {
		return nil, err
	}
	return s.Load(r)
}

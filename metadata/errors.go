package metadata

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnregisteredKind is returned when a kind has no registry entry.
	ErrUnregisteredKind = errors.New("unregistered metadata kind")

	// ErrIncompatibleKind is returned when two different kinds are combined.
	ErrIncompatibleKind = errors.New("incompatible metadata kind")

	// ErrInconsistentSerializer is returned when an instance does not match
	// the serializer registered for its kind.
	ErrInconsistentSerializer = errors.New("inconsistent metadata serializer")

	// ErrRegistryFrozen is returned by Register after Freeze.
	ErrRegistryFrozen = errors.New("metadata registry is frozen")
)

// UnregisteredKindError names the kind that was not found.
type UnregisteredKindError struct {
	Kind Kind
}

func (e *UnregisteredKindError) Error() string {
	return fmt.Sprintf("unregistered metadata kind %q", e.Kind)
}

func (e *UnregisteredKindError) Unwrap() error { return ErrUnregisteredKind }

// IncompatibleKindError names both kinds of a rejected combination.
type IncompatibleKindError struct {
	Want Kind
	Got  Kind
	// Type is set when the kinds match but the concrete type does not.
	Type string
}

func (e *IncompatibleKindError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("incompatible metadata: kind %q has unexpected type %s", e.Want, e.Type)
	}
	return fmt.Sprintf("incompatible metadata kinds: %q and %q", e.Want, e.Got)
}

func (e *IncompatibleKindError) Unwrap() error { return ErrIncompatibleKind }

// InconsistentSerializerError reports an instance whose runtime type is not
// handled by the serializer registered for its kind.
type InconsistentSerializerError struct {
	Kind Kind
	Type string
}

func (e *InconsistentSerializerError) Error() string {
	return fmt.Sprintf("serializer for kind %q cannot handle %s", e.Kind, e.Type)
}

func (e *InconsistentSerializerError) Unwrap() error { return ErrInconsistentSerializer }

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}

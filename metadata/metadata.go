package metadata

import (
	"reflect"

	"github.com/hupe1980/colmeta/settings"
	"github.com/hupe1980/colmeta/value"
)

// Kind identifies a metadata family. It is used as the persisted key of a
// kind's settings scope and must remain stable across versions.
type Kind string

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// MetaData is an immutable metadata instance.
type MetaData interface {
	// Kind returns the kind this instance belongs to.
	Kind() Kind
	// Merge combines the receiver with other, which must be of the same kind.
	// It returns the receiver when other is identical or value-equal, and a
	// new instance otherwise. Neither operand is modified.
	Merge(other MetaData) (MetaData, error)
	// Equal reports value equality.
	Equal(other MetaData) bool
}

// Serializer converts instances of one kind to and from settings.
type Serializer interface {
	Kind() Kind
	// Save writes m into w. It fails with an InconsistentSerializerError if
	// m is not the type this serializer handles.
	Save(m MetaData, w settings.Writer) error
	// Load reconstructs an instance. Errors satisfy
	// errors.Is(err, settings.ErrInvalidSettings).
	Load(r settings.Reader) (MetaData, error)
}

// Creator incrementally builds instances of one kind. It is single-writer.
type Creator interface {
	Kind() Kind
	// Update incorporates one cell. Missing and incompatible cells are
	// ignored.
	Update(v value.Value)
	// Merge absorbs a finalized instance of the same kind.
	Merge(m MetaData) error
	// MergeCreator absorbs the accumulated state of another creator of the
	// same kind. other is not modified.
	MergeCreator(other Creator) error
	// Create returns a snapshot. Later updates never alter it.
	Create() MetaData
	// Copy returns an independent deep copy.
	Copy() Creator
}

// CreatorFactory produces fresh creators for one kind.
type CreatorFactory interface {
	Kind() Kind
	// AppliesTo reports whether the kind is meaningful for columns whose
	// values provide capability c.
	AppliesTo(c value.Capability) bool
	// New returns an empty creator.
	New() Creator
}

// AssertKind checks that other belongs to kind want and has the concrete
// type T. Kinds use it to guard Merge and MergeCreator.
func AssertKind[T any](want Kind, other interface{ Kind() Kind }) (T, error) {
	var zero T
	if other == nil {
		return zero, &IncompatibleKindError{Want: want}
	}
	if isNilPointer(other) {
		return zero, &IncompatibleKindError{Want: want, Type: "nil " + typeName(other)}
	}
	if got := other.Kind(); got != want {
		return zero, &IncompatibleKindError{Want: want, Got: got}
	}
	t, ok := other.(T)
	if !ok {
		return zero, &IncompatibleKindError{Want: want, Got: other.Kind(), Type: typeName(other)}
	}
	return t, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

package colmeta

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colmeta/blobstore"
	"github.com/hupe1980/colmeta/internal/compress"
)

var (
	// ErrNotFound is returned when no metadata is stored for a table.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is returned when a stored document cannot be decoded.
	ErrCorrupt = errors.New("corrupt metadata document")

	// ErrInvalidName is returned for table names that cannot be stored.
	ErrInvalidName = errors.New("invalid table name")

	// ErrClosed is returned by operations on a closed Catalog.
	ErrClosed = errors.New("catalog is closed")
)

// UnknownCodecError is returned when a document names a codec this build
// does not provide.
type UnknownCodecError struct {
	Name string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("unknown codec %q", e.Name)
}

func (e *UnknownCodecError) Unwrap() error { return ErrCorrupt }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCorrupt), errors.Is(err, ErrInvalidName):
		return err
	case errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, blobstore.ErrInvalidName):
		return fmt.Errorf("%w: %w", ErrInvalidName, err)
	case errors.Is(err, compress.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return err
}

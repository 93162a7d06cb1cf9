// Package codec centralizes the encoding of metadata documents.
//
// Codec selection is a compatibility boundary: catalog documents store the
// codec name in their header and are decoded with the codec of that name,
// so a codec's output format must never change once released.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used for self-describing persistence formats that store the codec
// name in their header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "yaml":
		return YAML{}, true
	case "binary":
		return Binary{}, true
	default:
		return nil, false
	}
}

// Names returns the names of all built-in codecs.
func Names() []string {
	return []string{"json", "go-json", "yaml", "binary"}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes settings trees with github.com/goccy/go-json. Documents it
// writes load with JSON and the other way round; HTML characters in nominal
// values are kept as is.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name reports "go-json".
func (GoJSON) Name() string { return "go-json" }

// Append marshals v onto dst, reusing its capacity.
func (g GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := g.Marshal(v)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

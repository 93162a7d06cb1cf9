package colmeta

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hupe1980/colmeta/codec"
	"github.com/hupe1980/colmeta/internal/compress"
	"github.com/hupe1980/colmeta/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *settings.Tree {
	tree := settings.New()
	tree.SetString("name", "t")
	tree.SetInt("rows", 3)
	cols := tree.AddSubtree("columns")
	cols.AddSubtree("color").AddSubtree("nominal.ValueSet").SetStrings("values", []string{"red", "green", "blue"})
	return tree
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, name := range codec.Names() {
		c, _ := codec.ByName(name)
		for _, comp := range []compress.Type{compress.None, compress.LZ4, compress.ZSTD} {
			t.Run(name+"/"+comp.String(), func(t *testing.T) {
				data, err := encodeDocument(sampleTree(), c, comp)
				require.NoError(t, err)

				got, err := decodeDocument(data)
				require.NoError(t, err)
				assert.True(t, sampleTree().Equal(got))
			})
		}
	}
}

func TestDocumentCorruption(t *testing.T) {
	data, err := encodeDocument(sampleTree(), codec.Default, compress.LZ4)
	require.NoError(t, err)

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), data...)
		return f(b)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", data[:5]},
		{"magic", mutate(func(b []byte) []byte { b[0] ^= 0xff; return b })},
		{"version", mutate(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 9); return b })},
		{"compression", mutate(func(b []byte) []byte { b[6] = 42; return b })},
		{"truncated", data[:len(data)-1]},
		{"trailing", append(append([]byte(nil), data...), 0)},
		{"payload bit flip", mutate(func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDocument(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
		})
	}
}

func TestDocumentUnknownCodec(t *testing.T) {
	data, err := encodeDocument(sampleTree(), codec.JSON{}, compress.None)
	require.NoError(t, err)
	copy(data[8:12], "xson")

	_, err = decodeDocument(data)
	var uce *UnknownCodecError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "xson", uce.Name)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestDocumentHeaderRecordsOptions(t *testing.T) {
	data, err := encodeDocument(sampleTree(), codec.YAML{}, compress.ZSTD)
	require.NoError(t, err)

	h, err := readHeader(data)
	require.NoError(t, err)
	assert.Equal(t, "yaml", h.codec.Name())
	assert.Equal(t, compress.ZSTD, h.compression)
}

package colmeta

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/hupe1980/colmeta/codec"
	"github.com/hupe1980/colmeta/internal/compress"
	"github.com/hupe1980/colmeta/settings"
)

const (
	documentMagic   = 0x31444D43 // "CMD1"
	documentVersion = 1
)

// Document layout, little-endian:
//
//	Magic (4 bytes)
//	Version (2 bytes)
//	Compression (1 byte)
//	CodecLength (1 byte)
//	Codec (CodecLength bytes)
//	Checksum (4 bytes) - CRC32 of the stored payload
//	PayloadLength (4 bytes)
//	Payload: the codec encoding of the settings tree, compressed
const fixedHeaderSize = 4 + 2 + 1 + 1 + 4 + 4

func encodeDocument(tree *settings.Tree, c codec.Codec, comp compress.Type) ([]byte, error) {
	name := c.Name()
	if len(name) == 0 || len(name) > 255 {
		return nil, fmt.Errorf("codec name %q cannot be stored", name)
	}
	raw, err := c.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	payload, err := compress.Compress(raw, comp)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	out := make([]byte, fixedHeaderSize+len(name)+len(payload))
	binary.LittleEndian.PutUint32(out[0:4], documentMagic)
	binary.LittleEndian.PutUint16(out[4:6], documentVersion)
	out[6] = byte(comp)
	out[7] = byte(len(name))
	off := 8 + copy(out[8:], name)
	binary.LittleEndian.PutUint32(out[off:], crc32.ChecksumIEEE(payload))
	binary.LittleEndian.PutUint32(out[off+4:], uint32(len(payload)))
	copy(out[off+8:], payload)
	return out, nil
}

// documentHeader is the decoded prefix of a stored document.
type documentHeader struct {
	codec       codec.Codec
	compression compress.Type
	payload     []byte
}

func readHeader(data []byte) (documentHeader, error) {
	var h documentHeader
	if len(data) < fixedHeaderSize {
		return h, fmt.Errorf("%w: document too short", ErrCorrupt)
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != documentMagic {
		return h, fmt.Errorf("%w: invalid magic number %x", ErrCorrupt, magic)
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != documentVersion {
		return h, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	h.compression = compress.Type(data[6])
	if h.compression > compress.ZSTD {
		return h, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, data[6])
	}

	n := int(data[7])
	if len(data) < fixedHeaderSize+n {
		return h, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	name := string(data[8 : 8+n])
	c, ok := codec.ByName(name)
	if !ok {
		return h, &UnknownCodecError{Name: name}
	}
	h.codec = c

	off := 8 + n
	checksum := binary.LittleEndian.Uint32(data[off:])
	length := binary.LittleEndian.Uint32(data[off+4:])
	h.payload = data[off+8:]
	if uint64(len(h.payload)) != uint64(length) {
		return h, fmt.Errorf("%w: payload length %d, header says %d", ErrCorrupt, len(h.payload), length)
	}
	if crc32.ChecksumIEEE(h.payload) != checksum {
		return h, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return h, nil
}

func decodeDocument(data []byte) (*settings.Tree, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	raw, err := compress.Decompress(h.payload, h.compression)
	if err != nil {
		return nil, translateError(err)
	}
	tree := settings.New()
	if err := h.codec.Unmarshal(raw, tree); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %w", ErrCorrupt, h.codec.Name(), err)
	}
	return tree, nil
}

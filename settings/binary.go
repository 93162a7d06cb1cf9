package settings

import (
	"encoding/binary"
	"errors"
	"math"
)

// maxDepth bounds nesting when decoding untrusted input.
const maxDepth = 64

var (
	errShortBuffer = errors.New("settings: short buffer")
	errBadLength   = errors.New("settings: invalid length")
)

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Format: uvarint(count) then, per entry, uvarint(len(key)) key, byte(type),
// payload. Strings are length-prefixed, ints are varints, floats are
// little-endian IEEE-754 bits, trees recurse.
func (t *Tree) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 16+t.Len()*16)
	return t.appendBinary(buf), nil
}

func (t *Tree) appendBinary(buf []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(t.Len()))
	if t == nil {
		return buf
	}
	for _, k := range t.keys {
		e := t.entries[k]
		buf = appendString(buf, k)
		buf = append(buf, byte(e.typ))

		switch e.typ {
		case TypeString:
			buf = appendString(buf, e.s)
		case TypeInt:
			buf = binary.AppendVarint(buf, e.i)
		case TypeFloat:
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(e.f))
		case TypeBool:
			if e.b {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case TypeStrings:
			buf = binary.AppendUvarint(buf, uint64(len(e.ss)))
			for _, s := range e.ss {
				buf = appendString(buf, s)
			}
		case TypeFloats:
			buf = binary.AppendUvarint(buf, uint64(len(e.fs)))
			for _, f := range e.fs {
				buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
			}
		case TypeTree:
			buf = e.t.appendBinary(buf)
		}
	}
	return buf
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// It replaces the content of t.
func (t *Tree) UnmarshalBinary(data []byte) error {
	rest, err := t.parseBinary(data, 0)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return errors.New("settings: trailing bytes")
	}
	return nil
}

func (t *Tree) parseBinary(data []byte, depth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, errors.New("settings: nesting too deep")
	}
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errBadLength
	}
	data = data[n:]
	// Each entry needs at least a key length byte and a type byte.
	if count > uint64(len(data)) {
		return nil, errBadLength
	}

	t.keys = make([]string, 0, count)
	t.entries = make(map[string]*entry, count)

	for range count {
		key, remaining, err := parseString(data)
		if err != nil {
			return nil, err
		}
		data = remaining
		if len(data) == 0 {
			return nil, errShortBuffer
		}
		e := &entry{typ: EntryType(data[0])}
		data = data[1:]

		switch e.typ {
		case TypeString:
			e.s, data, err = parseString(data)
		case TypeInt:
			i, n := binary.Varint(data)
			if n <= 0 {
				return nil, errors.New("settings: invalid int")
			}
			e.i, data = i, data[n:]
		case TypeFloat:
			if len(data) < 8 {
				return nil, errShortBuffer
			}
			e.f, data = math.Float64frombits(binary.LittleEndian.Uint64(data)), data[8:]
		case TypeBool:
			if len(data) == 0 {
				return nil, errShortBuffer
			}
			e.b, data = data[0] != 0, data[1:]
		case TypeStrings:
			l, n := binary.Uvarint(data)
			if n <= 0 || l > uint64(len(data)) {
				return nil, errBadLength
			}
			data = data[n:]
			e.ss = make([]string, l)
			for i := range e.ss {
				if e.ss[i], data, err = parseString(data); err != nil {
					return nil, err
				}
			}
		case TypeFloats:
			l, n := binary.Uvarint(data)
			if n <= 0 || l > uint64(len(data))/8+1 {
				return nil, errBadLength
			}
			data = data[n:]
			if uint64(len(data)) < l*8 {
				return nil, errShortBuffer
			}
			e.fs = make([]float64, l)
			for i := range e.fs {
				e.fs[i] = math.Float64frombits(binary.LittleEndian.Uint64(data))
				data = data[8:]
			}
		case TypeTree:
			e.t = New()
			data, err = e.t.parseBinary(data, depth+1)
		default:
			return nil, errors.New("settings: unknown entry type")
		}
		if err != nil {
			return nil, err
		}
		if _, dup := t.entries[key]; dup {
			return nil, errors.New("settings: duplicate key " + key)
		}
		t.keys = append(t.keys, key)
		t.entries[key] = e
	}
	return data, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func parseString(data []byte) (string, []byte, error) {
	l, n := binary.Uvarint(data)
	if n <= 0 {
		return "", nil, errBadLength
	}
	data = data[n:]
	if uint64(len(data)) < l {
		return "", nil, errShortBuffer
	}
	return string(data[:l]), data[l:], nil
}

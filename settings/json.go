package settings

import (
	"encoding/json"
	"errors"
	"fmt"
)

// jsonEntry is the wire form of one entry. A tree is a JSON array of entries
// so that key order survives every JSON implementation.
type jsonEntry struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (t *Tree) MarshalJSON() ([]byte, error) {
	out := make([]jsonEntry, 0, t.Len())
	if t != nil {
		for _, k := range t.keys {
			e := t.entries[k]
			var (
				raw []byte
				err error
			)
			switch e.typ {
			case TypeString:
				raw, err = json.Marshal(e.s)
			case TypeInt:
				raw, err = json.Marshal(e.i)
			case TypeFloat:
				raw, err = json.Marshal(e.f)
			case TypeBool:
				raw, err = json.Marshal(e.b)
			case TypeStrings:
				raw, err = json.Marshal(nonNil(e.ss))
			case TypeFloats:
				raw, err = json.Marshal(nonNil(e.fs))
			case TypeTree:
				raw, err = e.t.MarshalJSON()
			default:
				err = fmt.Errorf("settings: cannot marshal entry type %d", e.typ)
			}
			if err != nil {
				return nil, fmt.Errorf("settings: key %q: %w", k, err)
			}
			out = append(out, jsonEntry{Key: k, Type: e.typ.String(), Value: raw})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. It replaces the content of t.
func (t *Tree) UnmarshalJSON(data []byte) error {
	return t.unmarshalJSON(data, 0)
}

func (t *Tree) unmarshalJSON(data []byte, depth int) error {
	if depth > maxDepth {
		return errors.New("settings: nesting too deep")
	}
	var in []jsonEntry
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	t.keys = make([]string, 0, len(in))
	t.entries = make(map[string]*entry, len(in))

	for _, je := range in {
		e := &entry{typ: parseEntryType(je.Type)}
		var err error
		switch e.typ {
		case TypeString:
			err = json.Unmarshal(je.Value, &e.s)
		case TypeInt:
			err = json.Unmarshal(je.Value, &e.i)
		case TypeFloat:
			err = json.Unmarshal(je.Value, &e.f)
		case TypeBool:
			err = json.Unmarshal(je.Value, &e.b)
		case TypeStrings:
			err = json.Unmarshal(je.Value, &e.ss)
			e.ss = nonNil(e.ss)
		case TypeFloats:
			err = json.Unmarshal(je.Value, &e.fs)
			e.fs = nonNil(e.fs)
		case TypeTree:
			e.t = New()
			err = e.t.unmarshalJSON(je.Value, depth+1)
		default:
			err = fmt.Errorf("unknown entry type %q", je.Type)
		}
		if err != nil {
			return fmt.Errorf("settings: key %q: %w", je.Key, err)
		}
		if _, dup := t.entries[je.Key]; dup {
			return fmt.Errorf("settings: duplicate key %q", je.Key)
		}
		t.keys = append(t.keys, je.Key)
		t.entries[je.Key] = e
	}
	return nil
}

package settings

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Local tags marking typed arrays. Scalars use the core schema tags.
const (
	tagStrings = "!strings"
	tagFloats  = "!floats"
)

// MarshalYAML implements yaml.Marshaler.
//
// A tree becomes a mapping in key order; arrays carry a local tag so an empty
// array keeps its element type.
func (t *Tree) MarshalYAML() (any, error) {
	return t.yamlNode(), nil
}

func (t *Tree) yamlNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if t == nil {
		return n
	}
	for _, k := range t.keys {
		e := t.entries[k]
		n.Content = append(n.Content, scalar("!!str", k), e.yamlNode())
	}
	return n
}

func (e *entry) yamlNode() *yaml.Node {
	switch e.typ {
	case TypeString:
		return scalar("!!str", e.s)
	case TypeInt:
		return scalar("!!int", strconv.FormatInt(e.i, 10))
	case TypeFloat:
		return scalar("!!float", formatFloat(e.f))
	case TypeBool:
		return scalar("!!bool", strconv.FormatBool(e.b))
	case TypeStrings:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagStrings}
		for _, s := range e.ss {
			seq.Content = append(seq.Content, scalar("!!str", s))
		}
		return seq
	case TypeFloats:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagFloats, Style: yaml.FlowStyle}
		for _, f := range e.fs {
			seq.Content = append(seq.Content, scalar("!!float", formatFloat(f)))
		}
		return seq
	default:
		return e.t.yamlNode()
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. It replaces the content of t.
func (t *Tree) UnmarshalYAML(n *yaml.Node) error {
	return t.fromYAML(n, 0)
}

func (t *Tree) fromYAML(n *yaml.Node, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("settings: nesting too deep")
	}
	n = resolveAlias(n)
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = resolveAlias(n.Content[0])
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("settings: line %d: expected mapping", n.Line)
	}

	t.keys = make([]string, 0, len(n.Content)/2)
	t.entries = make(map[string]*entry, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		e, err := entryFromYAML(resolveAlias(n.Content[i+1]), depth)
		if err != nil {
			return fmt.Errorf("settings: key %q: %w", key, err)
		}
		if _, dup := t.entries[key]; dup {
			return fmt.Errorf("settings: duplicate key %q", key)
		}
		t.keys = append(t.keys, key)
		t.entries[key] = e
	}
	return nil
}

func entryFromYAML(v *yaml.Node, depth int) (*entry, error) {
	switch v.Kind {
	case yaml.MappingNode:
		sub := New()
		if err := sub.fromYAML(v, depth+1); err != nil {
			return nil, err
		}
		return &entry{typ: TypeTree, t: sub}, nil
	case yaml.SequenceNode:
		switch v.Tag {
		case tagFloats:
			fs := make([]float64, 0, len(v.Content))
			for _, item := range v.Content {
				f, err := strconv.ParseFloat(item.Value, 64)
				if err != nil {
					return nil, err
				}
				fs = append(fs, f)
			}
			return &entry{typ: TypeFloats, fs: fs}, nil
		default:
			ss := make([]string, 0, len(v.Content))
			for _, item := range v.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: expected scalar array item", item.Line)
				}
				ss = append(ss, item.Value)
			}
			return &entry{typ: TypeStrings, ss: ss}, nil
		}
	case yaml.ScalarNode:
		switch v.ShortTag() {
		case "!!int":
			i, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil, err
			}
			return &entry{typ: TypeInt, i: i}, nil
		case "!!float":
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil {
				return nil, err
			}
			return &entry{typ: TypeFloat, f: f}, nil
		case "!!bool":
			b, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil, err
			}
			return &entry{typ: TypeBool, b: b}, nil
		default:
			return &entry{typ: TypeString, s: v.Value}, nil
		}
	}
	return nil, fmt.Errorf("line %d: unsupported node", v.Line)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

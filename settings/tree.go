package settings

import (
	"slices"
)

// EntryType identifies the concrete type stored under a key.
type EntryType uint8

const (
	// TypeInvalid represents an invalid entry.
	TypeInvalid EntryType = iota
	// TypeString represents a string entry.
	TypeString
	// TypeInt represents an int64 entry.
	TypeInt
	// TypeFloat represents a float64 entry.
	TypeFloat
	// TypeBool represents a boolean entry.
	TypeBool
	// TypeStrings represents a string array entry.
	TypeStrings
	// TypeFloats represents a float64 array entry.
	TypeFloats
	// TypeTree represents a nested tree.
	TypeTree
)

// String returns the string representation of the EntryType.
func (t EntryType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeStrings:
		return "strings"
	case TypeFloats:
		return "floats"
	case TypeTree:
		return "tree"
	default:
		return "invalid"
	}
}

func parseEntryType(s string) EntryType {
	for t := TypeString; t <= TypeTree; t++ {
		if t.String() == s {
			return t
		}
	}
	return TypeInvalid
}

// Reader is read-only access to a settings tree.
type Reader interface {
	// Keys returns the keys in insertion order.
	Keys() []string
	// Has reports whether key exists.
	Has(key string) bool
	// Type returns the entry type stored under key, or TypeInvalid.
	Type(key string) EntryType
	String(key string) (string, error)
	Int(key string) (int64, error)
	Float(key string) (float64, error)
	Bool(key string) (bool, error)
	Strings(key string) ([]string, error)
	Floats(key string) ([]float64, error)
	// Tree returns the nested tree stored under key.
	Tree(key string) (Reader, error)
}

// Writer is write access to a settings tree.
//
// Setting an existing key replaces its entry but keeps its position.
type Writer interface {
	SetString(key, v string)
	SetInt(key string, v int64)
	SetFloat(key string, v float64)
	SetBool(key string, v bool)
	SetStrings(key string, v []string)
	SetFloats(key string, v []float64)
	// AddTree creates (or replaces) a nested tree under key and returns it.
	AddTree(key string) Writer
}

type entry struct {
	typ EntryType
	s   string
	i   int64
	f   float64
	b   bool
	ss  []string
	fs  []float64
	t   *Tree
}

func (e *entry) clone() *entry {
	c := *e
	c.ss = slices.Clone(e.ss)
	c.fs = slices.Clone(e.fs)
	if e.t != nil {
		c.t = e.t.Clone()
	}
	return &c
}

func (e *entry) equal(o *entry) bool {
	if e.typ != o.typ {
		return false
	}
	switch e.typ {
	case TypeString:
		return e.s == o.s
	case TypeInt:
		return e.i == o.i
	case TypeFloat:
		return e.f == o.f
	case TypeBool:
		return e.b == o.b
	case TypeStrings:
		return slices.Equal(e.ss, o.ss)
	case TypeFloats:
		return slices.Equal(e.fs, o.fs)
	case TypeTree:
		return e.t.Equal(o.t)
	}
	return false
}

// Tree is an ordered, typed key-value tree. It implements Reader and Writer.
//
// A Tree is not safe for concurrent mutation.
type Tree struct {
	keys    []string
	entries map[string]*entry
}

var (
	_ Reader = (*Tree)(nil)
	_ Writer = (*Tree)(nil)
)

// New returns an empty tree.
func New() *Tree {
	return &Tree{entries: make(map[string]*entry)}
}

// Len returns the number of top-level entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string { return slices.Clone(t.keys) }

// Has reports whether key exists.
func (t *Tree) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Type returns the entry type stored under key.
func (t *Tree) Type(key string) EntryType {
	if e, ok := t.entries[key]; ok {
		return e.typ
	}
	return TypeInvalid
}

// Remove deletes key. It is a no-op for absent keys.
func (t *Tree) Remove(key string) {
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
}

func (t *Tree) put(key string, e *entry) {
	if t.entries == nil {
		t.entries = make(map[string]*entry)
	}
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = e
}

func (t *Tree) get(key string, want EntryType) (*entry, error) {
	e, ok := t.entries[key]
	if !ok {
		return nil, Invalid(key, "missing key")
	}
	if e.typ != want {
		return nil, Invalid(key, "expected %s, got %s", want, e.typ)
	}
	return e, nil
}

// SetString stores a string.
func (t *Tree) SetString(key, v string) { t.put(key, &entry{typ: TypeString, s: v}) }

// SetInt stores an int64.
func (t *Tree) SetInt(key string, v int64) { t.put(key, &entry{typ: TypeInt, i: v}) }

// SetFloat stores a float64.
func (t *Tree) SetFloat(key string, v float64) { t.put(key, &entry{typ: TypeFloat, f: v}) }

// SetBool stores a boolean.
func (t *Tree) SetBool(key string, v bool) { t.put(key, &entry{typ: TypeBool, b: v}) }

// SetStrings stores a copy of v.
func (t *Tree) SetStrings(key string, v []string) {
	t.put(key, &entry{typ: TypeStrings, ss: nonNil(slices.Clone(v))})
}

// SetFloats stores a copy of v.
func (t *Tree) SetFloats(key string, v []float64) {
	t.put(key, &entry{typ: TypeFloats, fs: nonNil(slices.Clone(v))})
}

// AddTree creates a nested tree under key.
func (t *Tree) AddTree(key string) Writer {
	return t.AddSubtree(key)
}

// AddSubtree is AddTree returning the concrete type.
func (t *Tree) AddSubtree(key string) *Tree {
	sub := New()
	t.put(key, &entry{typ: TypeTree, t: sub})
	return sub
}

// String returns the string stored under key.
func (t *Tree) String(key string) (string, error) {
	e, err := t.get(key, TypeString)
	if err != nil {
		return "", err
	}
	return e.s, nil
}

// Int returns the int64 stored under key.
func (t *Tree) Int(key string) (int64, error) {
	e, err := t.get(key, TypeInt)
	if err != nil {
		return 0, err
	}
	return e.i, nil
}

// Float returns the float64 stored under key. Int entries are widened.
func (t *Tree) Float(key string) (float64, error) {
	if e, ok := t.entries[key]; ok && e.typ == TypeInt {
		return float64(e.i), nil
	}
	e, err := t.get(key, TypeFloat)
	if err != nil {
		return 0, err
	}
	return e.f, nil
}

// Bool returns the boolean stored under key.
func (t *Tree) Bool(key string) (bool, error) {
	e, err := t.get(key, TypeBool)
	if err != nil {
		return false, err
	}
	return e.b, nil
}

// Strings returns a copy of the string array stored under key.
func (t *Tree) Strings(key string) ([]string, error) {
	e, err := t.get(key, TypeStrings)
	if err != nil {
		return nil, err
	}
	return nonNil(slices.Clone(e.ss)), nil
}

// Floats returns a copy of the float array stored under key.
func (t *Tree) Floats(key string) ([]float64, error) {
	e, err := t.get(key, TypeFloats)
	if err != nil {
		return nil, err
	}
	return nonNil(slices.Clone(e.fs)), nil
}

// Tree returns the nested tree stored under key.
func (t *Tree) Tree(key string) (Reader, error) {
	return t.Subtree(key)
}

// Subtree is Tree returning the concrete type.
//
// The returned tree is shared with t; mutating it mutates t.
func (t *Tree) Subtree(key string) (*Tree, error) {
	e, err := t.get(key, TypeTree)
	if err != nil {
		return nil, err
	}
	return e.t, nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := &Tree{
		keys:    slices.Clone(t.keys),
		entries: make(map[string]*entry, len(t.entries)),
	}
	for k, e := range t.entries {
		c.entries[k] = e.clone()
	}
	return c
}

// Equal reports whether both trees hold the same keys, in the same order,
// with equal entries.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t.Len() == 0 && o.Len() == 0
	}
	if !slices.Equal(t.keys, o.keys) {
		return false
	}
	for _, k := range t.keys {
		if !t.entries[k].equal(o.entries[k]) {
			return false
		}
	}
	return true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

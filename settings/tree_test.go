package settings

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTree() *Tree {
	t := New()
	t.SetString("name", "city")
	t.SetInt("count", 42)
	t.SetFloat("ratio", 0.25)
	t.SetBool("active", true)
	t.SetStrings("values", []string{"berlin", "true", "123", ""})
	t.SetFloats("weights", []float64{1, 2.5, -3})
	sub := t.AddSubtree("nested")
	sub.SetStrings("empty", nil)
	sub.AddSubtree("deeper").SetString("leaf", "x")
	return t
}

func TestTreeTypedGetters(t *testing.T) {
	tree := sampleTree()

	s, err := tree.String("name")
	require.NoError(t, err)
	assert.Equal(t, "city", s)

	i, err := tree.Int("count")
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	f, err := tree.Float("count")
	require.NoError(t, err, "int entries widen to float")
	assert.Equal(t, 42.0, f)

	b, err := tree.Bool("active")
	require.NoError(t, err)
	assert.True(t, b)

	vals, err := tree.Strings("values")
	require.NoError(t, err)
	assert.Equal(t, []string{"berlin", "true", "123", ""}, vals)

	sub, err := tree.Tree("nested")
	require.NoError(t, err)
	empty, err := sub.Strings("empty")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTreeErrors(t *testing.T) {
	tree := sampleTree()

	tests := []struct {
		name string
		call func() error
	}{
		{"missing key", func() error { _, err := tree.String("nope"); return err }},
		{"string as int", func() error { _, err := tree.Int("name"); return err }},
		{"bool as strings", func() error { _, err := tree.Strings("active"); return err }},
		{"leaf as tree", func() error { _, err := tree.Tree("count"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSettings))

			var ise *InvalidSettingsError
			require.ErrorAs(t, err, &ise)
			assert.NotEmpty(t, ise.Key)
		})
	}
}

func TestTreeOrderAndReplace(t *testing.T) {
	tree := New()
	tree.SetInt("b", 1)
	tree.SetInt("a", 2)
	tree.SetString("b", "replaced")

	assert.Equal(t, []string{"b", "a"}, tree.Keys())
	assert.Equal(t, TypeString, tree.Type("b"))

	tree.Remove("b")
	assert.Equal(t, []string{"a"}, tree.Keys())
	assert.False(t, tree.Has("b"))
	assert.Equal(t, TypeInvalid, tree.Type("b"))
}

func TestTreeCopiesSlices(t *testing.T) {
	in := []string{"a", "b"}
	tree := New()
	tree.SetStrings("v", in)
	in[0] = "mutated"

	out, err := tree.Strings("v")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)

	out[1] = "mutated"
	again, _ := tree.Strings("v")
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestTreeClone(t *testing.T) {
	tree := sampleTree()
	clone := tree.Clone()
	require.True(t, tree.Equal(clone))

	sub, err := clone.Subtree("nested")
	require.NoError(t, err)
	sub.SetInt("extra", 1)
	assert.False(t, tree.Equal(clone))
}

func TestTreeBinaryRoundTrip(t *testing.T) {
	tree := sampleTree()
	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	got := New()
	require.NoError(t, got.UnmarshalBinary(data))
	assert.True(t, tree.Equal(got))
	assert.Equal(t, tree.Keys(), got.Keys())
}

func TestTreeBinaryCorrupt(t *testing.T) {
	data, err := sampleTree().MarshalBinary()
	require.NoError(t, err)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		got := New()
		assert.Error(t, got.UnmarshalBinary(data[:cut]), "cut at %d", cut)
	}

	got := New()
	assert.Error(t, got.UnmarshalBinary(append(data, 0)), "trailing bytes")
}

func TestTreeJSONRoundTrip(t *testing.T) {
	tree := sampleTree()
	data, err := json.Marshal(tree)
	require.NoError(t, err)

	got := New()
	require.NoError(t, json.Unmarshal(data, got))
	assert.True(t, tree.Equal(got))
}

func TestTreeJSONRejectsUnknownType(t *testing.T) {
	got := New()
	err := json.Unmarshal([]byte(`[{"key":"a","type":"blob","value":1}]`), got)
	assert.Error(t, err)
}

func TestTreeYAMLRoundTrip(t *testing.T) {
	tree := sampleTree()
	data, err := yaml.Marshal(tree)
	require.NoError(t, err)

	got := New()
	require.NoError(t, yaml.Unmarshal(data, got))
	assert.True(t, tree.Equal(got), "yaml:\n%s", data)
}

func TestTreeYAMLHandWritten(t *testing.T) {
	doc := []byte(`
nominal.ValueSet:
  values: [a, b]
limit: 3
`)
	got := New()
	require.NoError(t, yaml.Unmarshal(doc, got))

	assert.Equal(t, []string{"nominal.ValueSet", "limit"}, got.Keys())
	limit, err := got.Int("limit")
	require.NoError(t, err)
	assert.Equal(t, int64(3), limit)

	sub, err := got.Tree("nominal.ValueSet")
	require.NoError(t, err)
	vals, err := sub.Strings("values")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vals)
}

func TestEntryTypeString(t *testing.T) {
	for typ := TypeString; typ <= TypeTree; typ++ {
		assert.Equal(t, typ, parseEntryType(typ.String()))
	}
	assert.Equal(t, "invalid", EntryType(200).String())
}

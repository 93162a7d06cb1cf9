package codec

import (
	"testing"

	"github.com/hupe1980/colmeta/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *settings.Tree {
	t := settings.New()
	t.SetString("name", "iris")
	t.SetInt("rows", 150)
	t.SetFloat("ratio", 0.25)
	t.SetBool("sorted", false)
	t.SetStrings("empty", nil)
	col := t.AddSubtree("species")
	col.AddTree("nominal.ValueSet").SetStrings("values", []string{"setosa", "versicolor", "virginica"})
	col.SetFloats("weights", []float64{1, 2.5})
	return t
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("gob")
	assert.False(t, ok)
}

func TestSettingsRoundTrip(t *testing.T) {
	want := sampleTree()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := ByName(name)
			data, err := c.Marshal(want)
			require.NoError(t, err)

			got := settings.New()
			require.NoError(t, c.Unmarshal(data, got))
			assert.True(t, want.Equal(got))
			assert.Equal(t, want.Keys(), got.Keys())
		})
	}
}

func TestJSONCodecsInterchangeable(t *testing.T) {
	data := MustMarshal(JSON{}, sampleTree())

	got := settings.New()
	require.NoError(t, GoJSON{}.Unmarshal(data, got))
	assert.True(t, sampleTree().Equal(got))

	appended, err := GoJSON{}.Append([]byte("x"), sampleTree())
	require.NoError(t, err)
	assert.Equal(t, byte('x'), appended[0])
}

func TestBinaryRejectsPlainValues(t *testing.T) {
	_, err := Binary{}.Marshal(map[string]int{"a": 1})
	assert.Error(t, err)

	var m map[string]int
	assert.Error(t, Binary{}.Unmarshal([]byte{0}, &m))
}

func TestMustMarshalPanics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(Binary{}, 42) })
	assert.NotPanics(t, func() { MustMarshal(nil, sampleTree()) })
}

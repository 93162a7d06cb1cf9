package probability

import (
	"errors"
	"testing"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/metadata/nominal"
	"github.com/hupe1980/colmeta/settings"
	"github.com/hupe1980/colmeta/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dist(t *testing.T, classes ...string) *Distribution {
	t.Helper()
	d, err := NewDistribution(classes...)
	require.NoError(t, err)
	return d
}

func TestNewDistributionRejectsDuplicates(t *testing.T) {
	_, err := NewDistribution("a", "b", "a")
	assert.Error(t, err)

	_, err = NewCreator("x", "x")
	assert.Error(t, err)
}

func TestDistributionMerge(t *testing.T) {
	ab := dist(t, "a", "b")
	empty := dist(t)

	t.Run("identical", func(t *testing.T) {
		got, err := ab.Merge(ab)
		require.NoError(t, err)
		assert.Same(t, ab, got)
	})

	t.Run("equal", func(t *testing.T) {
		got, err := ab.Merge(dist(t, "a", "b"))
		require.NoError(t, err)
		assert.Same(t, ab, got)
	})

	t.Run("empty is identity", func(t *testing.T) {
		got, err := ab.Merge(empty)
		require.NoError(t, err)
		assert.Same(t, ab, got)

		got, err = empty.Merge(ab)
		require.NoError(t, err)
		assert.True(t, ab.Equal(got))
	})

	t.Run("ordered union", func(t *testing.T) {
		tests := []struct {
			name  string
			other *Distribution
			want  []string
		}{
			{"reordered", dist(t, "b", "a"), []string{"a", "b"}},
			{"superset", dist(t, "a", "b", "c"), []string{"a", "b", "c"}},
			{"overlap", dist(t, "b", "c"), []string{"a", "b", "c"}},
			{"disjoint", dist(t, "c", "d"), []string{"a", "b", "c", "d"}},
			{"subset", dist(t, "b"), []string{"a", "b"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := ab.Merge(tt.other)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.(*Distribution).Classes())
			})
		}
		assert.Equal(t, []string{"a", "b"}, ab.Classes(), "receiver untouched")

		got, err := ab.Merge(dist(t, "b", "a"))
		require.NoError(t, err)
		assert.Same(t, ab, got, "no new classes keeps the receiver")

		got, err = dist(t, "c", "d").Merge(ab)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "d", "a", "b"}, got.(*Distribution).Classes())
	})

	t.Run("other kind", func(t *testing.T) {
		_, err := ab.Merge(nominal.NewValueSet("a", "b"))
		assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))
	})
}

func TestSerializerRoundTrip(t *testing.T) {
	d := dist(t, "low", "mid", "high")
	tree := settings.New()
	require.NoError(t, Serializer.Save(d, tree))

	classes, err := tree.Strings("classes")
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "mid", "high"}, classes)

	md, err := Serializer.Load(tree)
	require.NoError(t, err)
	assert.True(t, d.Equal(md))

	err = Serializer.Save(nominal.NewValueSet("a"), settings.New())
	assert.True(t, errors.Is(err, metadata.ErrInconsistentSerializer))
}

func TestSerializerRejectsInvalidSettings(t *testing.T) {
	_, err := Serializer.Load(settings.New())
	assert.True(t, errors.Is(err, settings.ErrInvalidSettings))

	tree := settings.New()
	tree.SetStrings("classes", []string{"a", "a"})
	_, err = Serializer.Load(tree)
	assert.True(t, errors.Is(err, settings.ErrInvalidSettings))
}

func TestCreatorUpdate(t *testing.T) {
	c, err := NewCreator()
	require.NoError(t, err)

	c.Update(value.String("ignored"))
	c.Update(value.Missing())
	assert.True(t, c.Create().(*Distribution).IsEmpty())

	c.Update(value.Distribution([]string{"yes", "no"}, []float64{0.3, 0.7}))
	c.Update(value.Distribution([]string{"yes", "no"}, []float64{0.9, 0.1}))
	c.Update(value.Distribution([]string{"no", "yes"}, []float64{0.5, 0.5}))
	c.Update(value.Distribution([]string{"maybe", "no"}, []float64{0.5, 0.5}))

	d := c.Create().(*Distribution)
	assert.Equal(t, []string{"yes", "no", "maybe"}, d.Classes())
}

func TestCreatorMerge(t *testing.T) {
	c, err := NewCreator()
	require.NoError(t, err)
	require.NoError(t, c.Merge(dist(t, "a", "b")))
	require.NoError(t, c.Merge(dist(t)))
	require.NoError(t, c.Merge(dist(t, "b")))
	assert.Equal(t, []string{"a", "b"}, c.Create().(*Distribution).Classes())

	other, err := NewCreator("a", "b")
	require.NoError(t, err)
	other.Update(value.Distribution([]string{"z"}, []float64{1}))
	require.NoError(t, c.MergeCreator(other))
	assert.Equal(t, []string{"a", "b", "z"}, c.Create().(*Distribution).Classes())

	q, err := NewCreator("q", "a")
	require.NoError(t, err)
	require.NoError(t, c.MergeCreator(q))
	assert.Equal(t, []string{"a", "b", "z", "q"}, c.Create().(*Distribution).Classes())
	require.NoError(t, c.MergeCreator(c))

	cp := c.Copy().(*Creator)
	cp.Update(value.Distribution([]string{"only-copy"}, []float64{1}))
	assert.False(t, c.Create().Equal(cp.Create()))
	assert.Equal(t, []string{"a", "b", "z", "q"}, c.Create().(*Distribution).Classes())

	err = c.MergeCreator(nominal.NewCreator())
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))
}

func TestCreatorMergeMatchesSequentialUpdates(t *testing.T) {
	cells := []value.Value{
		value.Distribution([]string{"a", "b"}, []float64{0.5, 0.5}),
		value.Distribution([]string{"c", "d"}, []float64{0.5, 0.5}),
		value.Distribution([]string{"b", "e"}, []float64{0.5, 0.5}),
	}

	seq := Factory{}.New()
	for _, v := range cells {
		seq.Update(v)
	}

	merged := Factory{}.New()
	for _, v := range cells {
		chunk := Factory{}.New()
		chunk.Update(v)
		require.NoError(t, merged.MergeCreator(chunk))
	}

	assert.True(t, seq.Create().Equal(merged.Create()))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, merged.Create().(*Distribution).Classes())
}

func TestFactory(t *testing.T) {
	f := Factory{}
	assert.True(t, f.AppliesTo(value.CapDistribution))
	assert.False(t, f.AppliesTo(value.CapNominal))
	assert.Equal(t, Kind, f.New().Kind())
}

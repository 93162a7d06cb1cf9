package metadata_test

import (
	"errors"
	"testing"

	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/metadata/nominal"
	"github.com/hupe1980/colmeta/metadata/probability"
	"github.com/hupe1980/colmeta/settings"
	"github.com/hupe1980/colmeta/testutil"
	"github.com/hupe1980/colmeta/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDistribution(t *testing.T, classes ...string) *probability.Distribution {
	t.Helper()
	d, err := probability.NewDistribution(classes...)
	require.NoError(t, err)
	return d
}

func buildManager(t *testing.T, reg *metadata.Registry, mds ...metadata.MetaData) *metadata.Manager {
	t.Helper()
	mc := reg.NewManagerCreator()
	for _, md := range mds {
		require.NoError(t, mc.AddMetaData(md, true))
	}
	return mc.Create()
}

func valuesOf(t *testing.T, m *metadata.Manager) []string {
	t.Helper()
	vs, ok := metadata.Lookup[*nominal.ValueSet](m, nominal.Kind)
	require.True(t, ok)
	return vs.Values()
}

func TestManagerValueSetScenario(t *testing.T) {
	reg := newTestRegistry(t)
	m := buildManager(t, reg, nominal.NewValueSet("a", "b"))

	tree := settings.New()
	require.NoError(t, m.Save(tree, reg))
	assert.Equal(t, []string{"nominal.ValueSet"}, tree.Keys())

	loaded, report, err := metadata.Load(tree, reg)
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, []metadata.Kind{nominal.Kind}, report.Loaded)
	assert.Equal(t, []string{"a", "b"}, valuesOf(t, loaded))

	other := buildManager(t, reg, nominal.NewValueSet("b", "c"))
	merged, err := loaded.Merge(other)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, valuesOf(t, merged))
}

func TestManagerRoundTripAllKinds(t *testing.T) {
	reg := newTestRegistry(t)
	m := buildManager(t, reg,
		nominal.NewValueSet("x", "y", "z"),
		mustDistribution(t, "yes", "no"),
	)

	tree := settings.New()
	require.NoError(t, m.Save(tree, reg))
	assert.Equal(t, []string{"nominal.ValueSet", "probability.Distribution"}, tree.Keys())

	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	decoded := settings.New()
	require.NoError(t, decoded.UnmarshalBinary(data))

	loaded, _, err := metadata.Load(decoded, reg)
	require.NoError(t, err)
	assert.True(t, m.Equal(loaded))
}

func TestManagerOverwriteVersusMerge(t *testing.T) {
	reg := newTestRegistry(t)
	m1 := nominal.NewValueSet("a", "b")
	m2 := nominal.NewValueSet("c")

	t.Run("overwrite twice keeps last", func(t *testing.T) {
		mc := reg.NewManagerCreator()
		require.NoError(t, mc.AddMetaData(m1, true))
		require.NoError(t, mc.AddMetaData(m2, true))
		assert.Equal(t, []string{"c"}, valuesOf(t, mc.Create()))
	})

	t.Run("overwrite then merge", func(t *testing.T) {
		mc := reg.NewManagerCreator()
		require.NoError(t, mc.AddMetaData(m1, true))
		require.NoError(t, mc.AddMetaData(m2, false))

		want, err := m1.Merge(m2)
		require.NoError(t, err)
		got, ok := mc.Create().Get(nominal.Kind)
		require.True(t, ok)
		assert.True(t, want.Equal(got))
	})

	t.Run("merge into absent kind inserts", func(t *testing.T) {
		mc := reg.NewManagerCreator()
		require.NoError(t, mc.AddMetaData(m2, false))
		assert.Equal(t, []string{"c"}, valuesOf(t, mc.Create()))
	})
}

func TestManagerMergeByKind(t *testing.T) {
	reg := newTestRegistry(t)
	a := buildManager(t, reg, nominal.NewValueSet("a"))
	b := buildManager(t, reg, nominal.NewValueSet("b"))
	d := buildManager(t, reg, mustDistribution(t, "p", "q"))

	ab, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, valuesOf(t, ab))

	ad, err := a.Merge(d)
	require.NoError(t, err)
	da, err := d.Merge(a)
	require.NoError(t, err)
	assert.True(t, ad.Equal(da), "disjoint kinds merge regardless of order")
	assert.Equal(t, []metadata.Kind{nominal.Kind, probability.Kind}, ad.Kinds())

	assert.Equal(t, []string{"a"}, valuesOf(t, a), "inputs untouched")
}

func TestManagerMergeDistributionUnion(t *testing.T) {
	reg := newTestRegistry(t)
	a := buildManager(t, reg, mustDistribution(t, "x", "y"))
	b := buildManager(t, reg, mustDistribution(t, "z", "x"))

	merged, err := a.Merge(b)
	require.NoError(t, err)
	d, ok := metadata.Lookup[*probability.Distribution](merged, probability.Kind)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, d.Classes())
}

func TestManagerMergeFailure(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, testutil.RegisterPinned(reg))
	a := buildManager(t, reg, nominal.NewValueSet("a"), &testutil.Pinned{Value: "a"})
	b := buildManager(t, reg, nominal.NewValueSet("b"), &testutil.Pinned{Value: "b"})

	_, err := a.Merge(b)
	assert.True(t, errors.Is(err, testutil.ErrPinnedConflict))
	assert.Equal(t, []string{"a"}, valuesOf(t, a), "inputs untouched")
}

func TestManagerEmpty(t *testing.T) {
	reg := newTestRegistry(t)
	m := buildManager(t, reg, nominal.NewValueSet("a"))

	left, err := metadata.Empty().Merge(m)
	require.NoError(t, err)
	right, err := m.Merge(metadata.Empty())
	require.NoError(t, err)

	assert.True(t, left.Equal(m))
	assert.True(t, right.Equal(m))
	assert.True(t, metadata.Empty().IsEmpty())
	assert.Same(t, metadata.Empty(), reg.NewManagerCreator().Create())
}

func TestManagerRemoveAndClear(t *testing.T) {
	reg := newTestRegistry(t)
	mc := reg.NewManagerCreator()
	require.NoError(t, mc.AddMetaData(nominal.NewValueSet("a"), true))
	require.NoError(t, mc.AddMetaData(mustDistribution(t, "p"), true))

	mc.Remove(nominal.Kind)
	m := mc.Create()
	_, ok := m.Get(nominal.Kind)
	assert.False(t, ok)
	_, ok = m.Get(probability.Kind)
	assert.True(t, ok)

	mc.Clear()
	assert.True(t, mc.Create().Equal(metadata.Empty()))
}

func TestManagerSnapshotsAreIndependent(t *testing.T) {
	reg := newTestRegistry(t)
	mc := reg.NewManagerCreator(value.StringType.Capabilities()...)
	mc.Update(value.String("a"))
	first := mc.Create()

	mc.Update(value.String("b"))
	second := mc.Create()

	cp := mc.Copy()
	cp.Update(value.String("c"))

	assert.Equal(t, []string{"a"}, valuesOf(t, first))
	assert.Equal(t, []string{"a", "b"}, valuesOf(t, second))
	assert.Equal(t, []string{"a", "b"}, valuesOf(t, mc.Create()))
	assert.Equal(t, []string{"a", "b", "c"}, valuesOf(t, cp.Create()))
}

func TestManagerCreatorMergeCreator(t *testing.T) {
	reg := newTestRegistry(t)
	left := reg.NewManagerCreator(value.CapNominal)
	left.Update(value.String("a"))
	right := reg.NewManagerCreator(value.CapNominal, value.CapDistribution)
	right.Update(value.String("b"))
	right.Update(value.Distribution([]string{"p", "q"}, []float64{0.5, 0.5}))

	require.NoError(t, left.MergeCreator(right))
	m := left.Create()
	assert.Equal(t, []string{"a", "b"}, valuesOf(t, m))

	d, ok := metadata.Lookup[*probability.Distribution](m, probability.Kind)
	require.True(t, ok)
	assert.Equal(t, []string{"p", "q"}, d.Classes())

	right.Update(value.String("c"))
	assert.Equal(t, []string{"a", "b"}, valuesOf(t, left.Create()), "copied creators are independent")
}

func TestManagerCreatorFrom(t *testing.T) {
	reg := newTestRegistry(t)
	old := buildManager(t, reg, nominal.NewValueSet("a"))

	mc, err := reg.ManagerCreatorFrom(old)
	require.NoError(t, err)
	mc.Update(value.String("b"))

	assert.Equal(t, []string{"a", "b"}, valuesOf(t, mc.Create()))
	assert.Equal(t, []string{"a"}, valuesOf(t, old))
}

func TestManagerLookupTypeMismatch(t *testing.T) {
	reg := newTestRegistry(t)
	m := buildManager(t, reg, nominal.NewValueSet("a"))

	_, ok := metadata.Lookup[*probability.Distribution](m, nominal.Kind)
	assert.False(t, ok)
	_, ok = metadata.Lookup[*nominal.ValueSet](m, probability.Kind)
	assert.False(t, ok)
	_, ok = metadata.Lookup[*nominal.ValueSet](nil, nominal.Kind)
	assert.False(t, ok)
}

func TestManagerLoadSkipsUnregisteredKind(t *testing.T) {
	reg := newTestRegistry(t)
	tree := settings.New()
	tree.AddTree("uninstalled.Extension").SetInt("x", 1)
	tree.AddTree(string(nominal.Kind)).SetStrings("values", []string{"a"})

	m, report, err := metadata.Load(tree, reg)
	require.NoError(t, err)
	assert.Equal(t, []metadata.Kind{nominal.Kind}, m.Kinds())
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "uninstalled.Extension", report.Skipped[0].Key)
	assert.True(t, errors.Is(report.Skipped[0].Err, metadata.ErrUnregisteredKind))
}

func TestManagerLoadSkipsMalformedEntries(t *testing.T) {
	reg := newTestRegistry(t)
	tree := settings.New()
	tree.AddTree(string(nominal.Kind)).SetString("values", "not-an-array")
	tree.SetInt(string(probability.Kind), 3)

	m, report, err := metadata.Load(tree, reg)
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
	require.Len(t, report.Skipped, 2)
	for _, s := range report.Skipped {
		assert.True(t, errors.Is(s.Err, settings.ErrInvalidSettings), s.Key)
	}
}

func TestManagerSaveUnregisteredKindFails(t *testing.T) {
	full := newTestRegistry(t)
	m := buildManager(t, full, nominal.NewValueSet("a"))

	partial := metadata.NewRegistry()
	require.NoError(t, probability.Register(partial))

	err := m.Save(settings.New(), partial)
	assert.True(t, errors.Is(err, metadata.ErrUnregisteredKind))
}

// fakeMeta claims the nominal kind without being a ValueSet.
type fakeMeta struct{}

func (fakeMeta) Kind() metadata.Kind                                  { return nominal.Kind }
func (f fakeMeta) Merge(metadata.MetaData) (metadata.MetaData, error) { return f, nil }
func (fakeMeta) Equal(o metadata.MetaData) bool                       { _, ok := o.(fakeMeta); return ok }

type fakeCreator struct{}

func (fakeCreator) Kind() metadata.Kind                 { return nominal.Kind }
func (fakeCreator) Update(value.Value)                  {}
func (fakeCreator) Merge(metadata.MetaData) error       { return nil }
func (fakeCreator) MergeCreator(metadata.Creator) error { return nil }
func (fakeCreator) Create() metadata.MetaData           { return fakeMeta{} }
func (c fakeCreator) Copy() metadata.Creator            { return c }

type fakeFactory struct{}

func (fakeFactory) Kind() metadata.Kind             { return nominal.Kind }
func (fakeFactory) AppliesTo(value.Capability) bool { return true }
func (fakeFactory) New() metadata.Creator           { return fakeCreator{} }

func TestManagerSaveInconsistentSerializer(t *testing.T) {
	reg := metadata.NewRegistry()
	require.NoError(t, reg.Register(nominal.Serializer, fakeFactory{}))

	mc := reg.NewManagerCreator(value.CapNominal)
	m := mc.Create()
	_, ok := m.Get(nominal.Kind)
	require.True(t, ok)

	err := m.Save(settings.New(), reg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrInconsistentSerializer))
}

func TestAssertKind(t *testing.T) {
	_, err := nominal.NewValueSet("a").Merge(mustDistribution(t, "a"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))
	assert.Contains(t, err.Error(), string(nominal.Kind))
	assert.Contains(t, err.Error(), string(probability.Kind))

	_, err = nominal.NewValueSet("a").Merge(fakeMeta{})
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))

	_, err = nominal.NewValueSet("a").Merge(nil)
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))

	assert.NotPanics(t, func() {
		_, err = nominal.NewValueSet("a").Merge((*nominal.ValueSet)(nil))
	})
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))

	assert.NotPanics(t, func() {
		err = nominal.NewCreator().MergeCreator((*nominal.Creator)(nil))
	})
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))

	assert.NotPanics(t, func() {
		err = probability.Factory{}.New().Merge((*probability.Distribution)(nil))
	})
	assert.True(t, errors.Is(err, metadata.ErrIncompatibleKind))
}

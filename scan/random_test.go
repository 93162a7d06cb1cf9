package scan_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/colmeta"
	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/metadata/nominal"
	"github.com/hupe1980/colmeta/metadata/probability"
	"github.com/hupe1980/colmeta/scan"
	"github.com/hupe1980/colmeta/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spec = testutil.TableSpec{
	Nominal:      3,
	Cardinality:  40,
	Numeric:      2,
	Distribution: 1,
	Classes:      4,
	MissingRate:  0.05,
}

func TestScanRandomTablesParallelEqualsSequential(t *testing.T) {
	reg := colmeta.NewRegistry()

	for _, seed := range []int64{1, 7, 42, 4711} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := testutil.NewRNG(seed)
			tbl := rng.Table(5000, spec)

			want, err := scan.NewScanner(reg, scan.WithChunkSize(tbl.NumRows()), scan.WithParallelism(1)).Scan(context.Background(), tbl)
			require.NoError(t, err)
			got, err := scan.NewScanner(reg, scan.WithChunkSize(137), scan.WithParallelism(8)).Scan(context.Background(), tbl)
			require.NoError(t, err)

			require.Len(t, got.Columns, len(want.Columns))
			for i := range want.Columns {
				name := want.Columns[i].Column.Name
				assert.True(t, want.Columns[i].Meta.Equal(got.Columns[i].Meta), name)
				assert.Equal(t, want.Columns[i].MissingCount(), got.Columns[i].MissingCount(), name)
			}

			nom, _ := got.Column("nom0")
			vs, ok := metadata.Lookup[*nominal.ValueSet](nom.Meta, nominal.Kind)
			require.True(t, ok)
			assert.LessOrEqual(t, vs.Len(), spec.Cardinality)

			dist, _ := got.Column("dist0")
			d, ok := metadata.Lookup[*probability.Distribution](dist.Meta, probability.Kind)
			require.True(t, ok)
			assert.Equal(t, testutil.Classes(spec.Classes), d.Classes())
		})
	}
}

func TestScanDriftingClassesIndependentOfChunking(t *testing.T) {
	reg := colmeta.NewRegistry()
	drift := spec
	drift.ClassPool = 9

	for _, seed := range []int64{3, 99} {
		tbl := testutil.NewRNG(seed).Table(2000, drift)
		want, err := scan.NewScanner(reg, scan.WithChunkSize(tbl.NumRows()), scan.WithParallelism(1)).Scan(context.Background(), tbl)
		require.NoError(t, err)

		for _, size := range []int{1, 7, 8192} {
			t.Run(fmt.Sprintf("seed=%d/chunk=%d", seed, size), func(t *testing.T) {
				got, err := scan.NewScanner(reg, scan.WithChunkSize(size), scan.WithParallelism(8)).Scan(context.Background(), tbl)
				require.NoError(t, err)
				for i := range want.Columns {
					assert.True(t, want.Columns[i].Meta.Equal(got.Columns[i].Meta), want.Columns[i].Column.Name)
				}

				dist, _ := got.Column("dist0")
				d, ok := metadata.Lookup[*probability.Distribution](dist.Meta, probability.Kind)
				require.True(t, ok)
				assert.ElementsMatch(t, testutil.Classes(drift.ClassPool), d.Classes())
			})
		}
	}
}

func TestRNGTableDeterministic(t *testing.T) {
	a := testutil.NewRNG(3).Table(100, spec)
	rng := testutil.NewRNG(3)
	b := rng.Table(100, spec)
	for row := range a.NumRows() {
		for col := range a.Columns() {
			assert.True(t, a.Cell(row, col).Equal(b.Cell(row, col)))
		}
	}

	rng.Reset()
	c := rng.Table(100, spec)
	assert.True(t, a.Cell(50, 0).Equal(c.Cell(50, 0)))
	assert.Equal(t, int64(3), rng.Seed())
}

func BenchmarkScan(b *testing.B) {
	reg := colmeta.NewRegistry()
	tbl := testutil.NewRNG(42).Table(100_000, spec)

	for _, p := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("parallelism=%d", p), func(b *testing.B) {
			s := scan.NewScanner(reg, scan.WithParallelism(p))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := s.Scan(context.Background(), tbl); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

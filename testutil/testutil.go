package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/colmeta/scan"
	"github.com/hupe1980/colmeta/value"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// TableSpec describes a random table.
type TableSpec struct {
	// Nominal is the number of string columns.
	Nominal int
	// Cardinality is the number of distinct values per string column.
	Cardinality int
	// Skew is the Zipf exponent of string values. Zero means 1.2.
	Skew float64
	// Numeric is the number of double columns.
	Numeric int
	// Distribution is the number of probability distribution columns.
	Distribution int
	// Classes is the number of classes per distribution cell.
	Classes int
	// ClassPool, when larger than Classes, makes every distribution cell
	// draw Classes distinct labels in random order from ClassPool labels,
	// so cells of one column disagree on their classes.
	ClassPool int
	// MissingRate is the probability that a cell is missing.
	MissingRate float64
}

// Table generates a table of rows rows following spec. Columns are named
// "nom<i>", "num<i>" and "dist<i>", in that order.
func (r *RNG) Table(rows int, spec TableSpec) *scan.MemTable {
	if spec.Skew == 0 {
		spec.Skew = 1.2
	}
	if spec.Cardinality <= 0 {
		spec.Cardinality = 1
	}
	if spec.Classes <= 0 {
		spec.Classes = 2
	}

	var cols []scan.Column
	for i := range spec.Nominal {
		cols = append(cols, scan.Column{Name: fmt.Sprintf("nom%d", i), Type: value.StringType})
	}
	for i := range spec.Numeric {
		cols = append(cols, scan.Column{Name: fmt.Sprintf("num%d", i), Type: value.DoubleType})
	}
	for i := range spec.Distribution {
		cols = append(cols, scan.Column{Name: fmt.Sprintf("dist%d", i), Type: value.DistributionType})
	}
	classes := Classes(spec.Classes)

	r.mu.Lock()
	defer r.mu.Unlock()

	tbl := scan.NewMemTable(cols...)
	cells := make([]value.Value, len(cols))
	for range rows {
		c := 0
		for range spec.Nominal {
			cells[c] = value.String(fmt.Sprintf("v%d", r.zipfLocked(spec.Cardinality, spec.Skew)))
			c++
		}
		for range spec.Numeric {
			cells[c] = value.Float(r.rand.NormFloat64())
			c++
		}
		for range spec.Distribution {
			cellClasses := classes
			if spec.ClassPool > spec.Classes {
				cellClasses = r.classesLocked(spec.ClassPool, spec.Classes)
			}
			cells[c] = value.Distribution(cellClasses, r.probabilitiesLocked(len(cellClasses)))
			c++
		}
		for i := range cells {
			if r.rand.Float64() < spec.MissingRate {
				cells[i] = value.Missing()
			}
		}
		if err := tbl.Append(cells...); err != nil {
			panic(err)
		}
	}
	return tbl
}

func (r *RNG) classesLocked(pool, n int) []string {
	out := make([]string, n)
	for i, j := range r.rand.Perm(pool)[:n] {
		out[i] = fmt.Sprintf("c%d", j)
	}
	return out
}

func (r *RNG) probabilitiesLocked(n int) []float64 {
	p := make([]float64, n)
	var sum float64
	for i := range p {
		p[i] = r.rand.Float64()
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// Classes returns n class labels "c0".."c<n-1>".
func Classes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("c%d", i)
	}
	return out
}

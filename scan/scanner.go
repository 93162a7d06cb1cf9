package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/colmeta/metadata"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultChunkSize is the number of rows per chunk.
	DefaultChunkSize = 8192

	// cancelCheckInterval is how many rows are processed between context checks.
	cancelCheckInterval = 1024
)

// ErrTooManyRows is returned for tables whose row indices do not fit in 32 bits.
var ErrTooManyRows = errors.New("scan: table exceeds 2^32 rows")

// Option configures a Scanner.
type Option func(*Scanner)

// WithChunkSize sets the number of rows per chunk. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithParallelism limits the number of chunks processed at once.
// Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scanner computes per-column metadata. It is safe for concurrent use.
type Scanner struct {
	reg         *metadata.Registry
	chunkSize   int
	parallelism int
	logger      *slog.Logger
}

// NewScanner creates a Scanner using the kinds registered in reg.
func NewScanner(reg *metadata.Registry, opts ...Option) *Scanner {
	s := &Scanner{
		reg:         reg,
		chunkSize:   DefaultChunkSize,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ColumnResult is the scan outcome of one column.
type ColumnResult struct {
	Column Column
	Meta   *metadata.Manager
	// Missing holds the indices of rows whose cell is missing.
	Missing *roaring.Bitmap
}

// MissingCount returns the number of missing cells.
func (c ColumnResult) MissingCount() uint64 { return c.Missing.GetCardinality() }

// Result is the outcome of a scan.
type Result struct {
	Rows    int
	Columns []ColumnResult
}

// Column returns the result of the column named name.
func (r *Result) Column(name string) (ColumnResult, bool) {
	for _, c := range r.Columns {
		if c.Column.Name == name {
			return c, true
		}
	}
	return ColumnResult{}, false
}

// chunk is the private state of one chunk goroutine.
type chunk struct {
	creators []*metadata.ManagerCreator
	missing  []*roaring.Bitmap
}

func (s *Scanner) newChunk(cols []Column) *chunk {
	c := &chunk{
		creators: make([]*metadata.ManagerCreator, len(cols)),
		missing:  make([]*roaring.Bitmap, len(cols)),
	}
	for i, col := range cols {
		c.creators[i] = s.reg.NewManagerCreator(col.Type.Capabilities()...)
		c.missing[i] = roaring.New()
	}
	return c
}

// Scan reads every cell of t and returns the metadata of each column.
func (s *Scanner) Scan(ctx context.Context, t Table) (*Result, error) {
	cols := t.Columns()
	rows := t.NumRows()
	if rows < 0 {
		return nil, fmt.Errorf("scan: negative row count %d", rows)
	}
	if uint64(rows) > math.MaxUint32 {
		return nil, ErrTooManyRows
	}

	numChunks := (rows + s.chunkSize - 1) / s.chunkSize
	if numChunks == 0 {
		numChunks = 1
	}
	chunks := make([]*chunk, numChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i := range chunks {
		start := i * s.chunkSize
		end := min(start+s.chunkSize, rows)
		g.Go(func() error {
			c := s.newChunk(cols)
			if err := s.scanRows(gctx, t, c, start, end); err != nil {
				return err
			}
			chunks[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := chunks[0]
	for _, c := range chunks[1:] {
		for col := range cols {
			if err := out.creators[col].MergeCreator(c.creators[col]); err != nil {
				return nil, fmt.Errorf("scan: merge column %q: %w", cols[col].Name, err)
			}
			out.missing[col].Or(c.missing[col])
		}
	}

	res := &Result{Rows: rows, Columns: make([]ColumnResult, len(cols))}
	for i, col := range cols {
		res.Columns[i] = ColumnResult{
			Column:  col,
			Meta:    out.creators[i].Create(),
			Missing: out.missing[i],
		}
	}

	s.logger.Debug("scan complete", "rows", rows, "columns", len(cols), "chunks", numChunks)
	return res, nil
}

func (s *Scanner) scanRows(ctx context.Context, t Table, c *chunk, start, end int) error {
	for row := start; row < end; row++ {
		if (row-start)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for col, mc := range c.creators {
			v := t.Cell(row, col)
			if v.IsMissing() {
				c.missing[col].Add(uint32(row))
				continue
			}
			mc.Update(v)
		}
	}
	return nil
}

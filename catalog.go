package colmeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/colmeta/blobstore"
	"github.com/hupe1980/colmeta/codec"
	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/scan"
	"github.com/hupe1980/colmeta/settings"
)

const (
	tablePrefix = "tables/"
	tableSuffix = ".cmd"
)

var tableName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)

// Backend opens the blob store a Catalog keeps its documents in.
type Backend func(ctx context.Context) (blobstore.BlobStore, error)

// Local stores documents in the directory dir.
func Local(dir string) Backend {
	return func(context.Context) (blobstore.BlobStore, error) {
		return blobstore.NewLocalStore(dir)
	}
}

// InMemory stores documents in process memory.
func InMemory() Backend {
	return func(context.Context) (blobstore.BlobStore, error) {
		return blobstore.NewMemoryStore(), nil
	}
}

// Remote stores documents in an existing blob store, such as the S3 or
// MinIO stores.
func Remote(store blobstore.BlobStore) Backend {
	return func(context.Context) (blobstore.BlobStore, error) {
		if store == nil {
			return nil, errors.New("nil blob store")
		}
		return store, nil
	}
}

// Catalog persists the column metadata of named tables.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	store       blobstore.BlobStore
	reg         *metadata.Registry
	codec       codec.Codec
	compression Compression
	scanner     *scan.Scanner
	logger      *Logger
	metrics     MetricsCollector

	appendMu sync.Mutex
	closed   atomic.Bool
}

// Open opens a catalog on backend.
//
//	cat, _ := colmeta.Open(ctx, colmeta.Local("./meta"))
//	defer cat.Close()
func Open(ctx context.Context, backend Backend, opts ...Option) (*Catalog, error) {
	if backend == nil {
		return nil, errors.New("nil backend")
	}
	o := applyOptions(opts)

	store, err := backend(ctx)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	if o.rateLimit > 0 {
		store = blobstore.NewRateLimitedStore(store, o.rateLimit, o.rateBurst)
	}
	if o.cacheBytes > 0 {
		store = blobstore.NewCachingStore(store, o.cacheBytes)
	}

	reg := o.registry
	if reg == nil {
		reg = NewRegistry(metadata.WithLogger(o.logger.Logger))
	}
	reg.Freeze()

	scanOpts := append([]scan.Option{scan.WithLogger(o.logger.Logger)}, o.scanOptions...)
	return &Catalog{
		store:       store,
		reg:         reg,
		codec:       o.codec,
		compression: o.compression,
		scanner:     scan.NewScanner(reg, scanOpts...),
		logger:      o.logger,
		metrics:     o.metricsCollector,
	}, nil
}

// Registry returns the registry the catalog uses.
func (c *Catalog) Registry() *metadata.Registry { return c.reg }

func blobName(table string) (string, error) {
	if !tableName.MatchString(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, table)
	}
	return tablePrefix + table + tableSuffix, nil
}

func (c *Catalog) check(table string) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	return blobName(table)
}

// Save stores t under its table name, replacing previous metadata.
func (c *Catalog) Save(ctx context.Context, t *TableMeta) error {
	start := time.Now()
	n, err := c.save(ctx, t)
	c.metrics.RecordSave(n, time.Since(start), err)
	c.logger.LogSave(ctx, t.Name(), t.Len(), n, err)
	return err
}

func (c *Catalog) save(ctx context.Context, t *TableMeta) (int, error) {
	name, err := c.check(t.Name())
	if err != nil {
		return 0, err
	}
	tree := settings.New()
	if err := t.Save(tree, c.reg); err != nil {
		return 0, err
	}
	data, err := encodeDocument(tree, c.codec, c.compression)
	if err != nil {
		return 0, err
	}
	if err := c.store.Put(ctx, name, data); err != nil {
		return 0, translateError(err)
	}
	return len(data), nil
}

// Load returns the metadata stored for table. Entries of kinds the registry
// does not know are dropped; use LoadWithReport to see them.
func (c *Catalog) Load(ctx context.Context, table string) (*TableMeta, error) {
	t, _, err := c.LoadWithReport(ctx, table)
	return t, err
}

// LoadWithReport is Load that also returns the entries it skipped.
func (c *Catalog) LoadWithReport(ctx context.Context, table string) (*TableMeta, []SkippedEntry, error) {
	start := time.Now()
	t, skipped, n, err := c.load(ctx, table)
	c.metrics.RecordLoad(n, len(skipped), time.Since(start), err)
	cols := 0
	if t != nil {
		cols = t.Len()
	}
	c.logger.LogLoad(ctx, table, cols, skipped, err)
	return t, skipped, err
}

func (c *Catalog) load(ctx context.Context, table string) (*TableMeta, []SkippedEntry, int, error) {
	name, err := c.check(table)
	if err != nil {
		return nil, nil, 0, err
	}
	data, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, nil, 0, translateError(err)
	}
	tree, err := decodeDocument(data)
	if err != nil {
		return nil, nil, len(data), err
	}
	t, skipped, err := LoadTableMeta(tree, c.reg)
	if err != nil {
		return nil, nil, len(data), fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return t, skipped, len(data), nil
}

// Delete removes the metadata of table. Deleting an unknown table is not an
// error.
func (c *Catalog) Delete(ctx context.Context, table string) error {
	name, err := c.check(table)
	if err != nil {
		return err
	}
	return translateError(c.store.Delete(ctx, name))
}

// List returns the sorted names of all stored tables.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	names, err := c.store.List(ctx, tablePrefix)
	if err != nil {
		return nil, translateError(err)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimPrefix(n, tablePrefix)
		if t, ok := strings.CutSuffix(n, tableSuffix); ok && tableName.MatchString(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *Catalog) scan(ctx context.Context, table string, src scan.Table) (*TableMeta, error) {
	start := time.Now()
	res, err := c.scanner.Scan(ctx, src)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordScan(0, len(src.Columns()), elapsed, err)
		c.logger.LogScan(ctx, table, 0, 0, elapsed, err)
		return nil, err
	}
	c.metrics.RecordScan(res.Rows, len(res.Columns), elapsed, nil)
	c.logger.LogScan(ctx, table, res.Rows, len(res.Columns), elapsed, nil)
	return FromScan(table, res), nil
}

// Scan collects the metadata of src and stores it as table, replacing any
// previous metadata.
func (c *Catalog) Scan(ctx context.Context, table string, src scan.Table) (*TableMeta, error) {
	if _, err := c.check(table); err != nil {
		return nil, err
	}
	t, err := c.scan(ctx, table, src)
	if err != nil {
		return nil, err
	}
	if err := c.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Append collects the metadata of src and merges it into the metadata
// stored as table, as if src had been concatenated to the table. It
// creates the table when none is stored.
//
// Appends through one Catalog are serialized. Concurrent appends from
// different processes to the same table may lose updates.
func (c *Catalog) Append(ctx context.Context, table string, src scan.Table) (*TableMeta, error) {
	if _, err := c.check(table); err != nil {
		return nil, err
	}
	t, err := c.scan(ctx, table, src)
	if err != nil {
		return nil, err
	}

	c.appendMu.Lock()
	defer c.appendMu.Unlock()

	cur, err := c.Load(ctx, table)
	switch {
	case errors.Is(err, ErrNotFound):
		cur = NewTableMeta(table)
	case err != nil:
		return nil, err
	}

	start := time.Now()
	merged, err := cur.Merge(t)
	c.metrics.RecordMerge(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("merge into %q: %w", table, err)
	}
	if err := c.Save(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Close releases the backend. Further calls fail with ErrClosed.
func (c *Catalog) Close() error {
	if c == nil || c.closed.Swap(true) {
		return nil
	}
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

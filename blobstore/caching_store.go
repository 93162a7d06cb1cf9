package blobstore

import (
	"context"
	"slices"

	"github.com/hupe1980/colmeta/internal/cache"
	"golang.org/x/sync/errgroup"
)

// warmConcurrency bounds the number of parallel reads issued by Warm.
const warmConcurrency = 16

// CachingStore wraps a BlobStore and caches blob contents in memory.
type CachingStore struct {
	inner BlobStore
	cache *cache.LRU
}

var _ BlobStore = (*CachingStore)(nil)

// NewCachingStore creates a new CachingStore holding at most capacity bytes.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity),
	}
}

// Get returns a cached copy or reads through to the inner store.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if b, ok := s.cache.Get(name); ok {
		return slices.Clone(b), nil
	}
	b, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, slices.Clone(b))
	return b, nil
}

// Put writes through and invalidates the cached entry.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob and its cached entry.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List is passed through uncached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Warm loads the named blobs into the cache in parallel.
func (s *CachingStore) Warm(ctx context.Context, names ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid FD exhaustion or rate limits
	g.SetLimit(warmConcurrency)

	for _, name := range names {
		g.Go(func() error {
			_, err := s.Get(gctx, name)
			return err
		})
	}
	return g.Wait()
}

// Stats returns cache hit and miss counters.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

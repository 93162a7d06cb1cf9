package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedStore throttles requests to an inner BlobStore.
// Every operation waits for one token before it is issued.
type RateLimitedStore struct {
	inner   BlobStore
	limiter *rate.Limiter
}

var _ BlobStore = (*RateLimitedStore)(nil)

// NewRateLimitedStore allows rps requests per second with the given burst.
func NewRateLimitedStore(inner BlobStore, rps float64, burst int) *RateLimitedStore {
	return &RateLimitedStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1)),
	}
}

// Get implements BlobStore.
func (s *RateLimitedStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Get(ctx, name)
}

// Put implements BlobStore.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete implements BlobStore.
func (s *RateLimitedStore) Delete(ctx context.Context, name string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.inner.Delete(ctx, name)
}

// List implements BlobStore.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.List(ctx, prefix)
}

// Package blobstore provides storage for persisted metadata documents.
//
// A BlobStore holds named, immutable blobs that are written and read whole.
// Implementations must be safe for concurrent use. Put must be atomic: a
// concurrent Get observes either the previous or the new content.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and ephemeral catalogs
//   - LocalStore: local filesystem with atomic rename
//   - minio.Store: MinIO and other S3-compatible storage
//   - s3.Store: Amazon S3
//
// # Wrappers
//
//   - CachingStore: read-through LRU cache
//   - RateLimitedStore: request rate limiting for remote backends
package blobstore

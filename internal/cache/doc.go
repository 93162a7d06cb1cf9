// Package cache provides a byte-bounded LRU cache for blob contents.
package cache

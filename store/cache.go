package store

import (
	"context"
	"io"
	"strings"
	"sync"
)

// metadataSuffixes lists the small-document filenames/suffixes worth
// caching, per spec.md §9 "shared mutable caches" design note: the group
// navigator and metadata resolver re-read these repeatedly during
// discovery (probing zarr.json, then .zgroup/.zarray, then .zattrs).
var metadataSuffixes = []string{
	"zarr.json",
	".zarray",
	".zgroup",
	".zattrs",
}

func isMetadataKey(key string) bool {
	for _, suf := range metadataSuffixes {
		if strings.HasSuffix(key, suf) {
			return true
		}
	}
	return false
}

type cacheEntry struct {
	data  []byte
	found bool
}

// CachingStore decorates another Store, caching reads of recognized
// metadata keys in a concurrent map. Chunk data (anything not matching
// metadataSuffixes) always passes through uncached: chunks are the large,
// write-once-read-many payloads spec.md §6.3 calls out as "the ONLY large
// byte blobs in the store", and caching them would defeat bounded-memory
// region reads.
type CachingStore struct {
	Store
	cache sync.Map // key -> cacheEntry
}

// NewCachingStore wraps inner with a metadata cache.
func NewCachingStore(inner Store) *CachingStore {
	return &CachingStore{Store: inner}
}

func (s *CachingStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if !isMetadataKey(key) {
		return s.Store.Read(ctx, key)
	}
	if v, ok := s.cache.Load(key); ok {
		e := v.(cacheEntry)
		return e.data, e.found, nil
	}

	data, found, err := s.Store.Read(ctx, key)
	if err != nil {
		return nil, false, err
	}
	s.cache.Store(key, cacheEntry{data: data, found: found})
	return data, found, nil
}

// Invalidate drops a cached entry, used after Write so a subsequent Read
// observes the new value.
func (s *CachingStore) Invalidate(key string) {
	s.cache.Delete(key)
}

func (s *CachingStore) Write(ctx context.Context, key string, data []byte) error {
	if err := s.Store.Write(ctx, key, data); err != nil {
		return err
	}
	s.Invalidate(key)
	return nil
}

func (s *CachingStore) Delete(ctx context.Context, key string) error {
	if err := s.Store.Delete(ctx, key); err != nil {
		return err
	}
	s.Invalidate(key)
	return nil
}

// Close forwards to the wrapped Store when it holds closeable resources
// (e.g. a BucketStore's bucket handle), so wrapping a Store in a
// CachingStore doesn't hide it from a caller doing an io.Closer type
// assertion (as Reader.Close does).
func (s *CachingStore) Close() error {
	if closer, ok := s.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

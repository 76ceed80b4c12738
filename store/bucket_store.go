package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// BucketStore adapts a gocloud.dev/blob.Bucket to the Store interface.
// This is the production store for local filesystem locators (bare paths
// and file://): the root package dispatches such a locator to
// blob.OpenBucket and wraps the result here, following the teacher's
// NewReader/NewDataset construction path. http(s) locators go to
// HTTPStore instead.
type BucketStore struct {
	bucket   *blob.Bucket
	readOnly bool
}

// NewBucketStore wraps bucket. readOnly disables Write/Delete regardless
// of what the underlying driver would otherwise allow, since spec.md §1
// scopes writer support to the array engine's read-modify-write path, not
// general store mutation by callers.
func NewBucketStore(bucket *blob.Bucket, readOnly bool) *BucketStore {
	return &BucketStore{bucket: bucket, readOnly: readOnly}
}

// Bucket returns the underlying blob.Bucket, for callers that need direct
// access (e.g. to Close it via the reader entry point).
func (s *BucketStore) Bucket() *blob.Bucket { return s.bucket }

func (s *BucketStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: read %q: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("store: read %q: %w", key, err)
	}
	return data, true, nil
}

func (s *BucketStore) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("store: exists %q: %w", key, err)
	}
	return ok, nil
}

func (s *BucketStore) Write(ctx context.Context, key string, data []byte) error {
	if s.readOnly {
		return ErrNotSupported
	}
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		if gcerrors.Code(err) == gcerrors.Unimplemented {
			return ErrNotSupported
		}
		return fmt.Errorf("store: write %q: %w", key, err)
	}
	return nil
}

func (s *BucketStore) List(ctx context.Context, prefix string) ([]string, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if gcerrors.Code(err) == gcerrors.Unimplemented {
				return nil, ErrNotSupported
			}
			return nil, fmt.Errorf("store: list %q: %w", prefix, err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (s *BucketStore) Delete(ctx context.Context, key string) error {
	if s.readOnly {
		return ErrNotSupported
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		if gcerrors.Code(err) == gcerrors.Unimplemented {
			return ErrNotSupported
		}
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying bucket's connection pool / file handles.
func (s *BucketStore) Close() error {
	return s.bucket.Close()
}

package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPStore is a read-only Store over an HTTP(S) object tree, per
// spec.md §6.5's "http://…, https://… -> HTTP store". gocloud.dev ships
// no generic HTTP blob driver (only cloud-provider-specific ones), so
// this is a direct net/http client rather than a blob.Bucket adapter;
// justified in DESIGN.md.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPStore returns a store rooted at base (e.g.
// "https://example.com/data/"). Keys are joined onto base's path.
func NewHTTPStore(base *url.URL, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{base: base, client: client}
}

func (s *HTTPStore) resolve(key string) string {
	u := *s.base
	basePath := strings.TrimSuffix(u.Path, "/")
	u.Path = basePath + "/" + strings.TrimPrefix(key, "/")
	return u.String()
}

func (s *HTTPStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.resolve(key), nil)
	if err != nil {
		return nil, false, fmt.Errorf("store: building request for %q: %w", key, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("store: GET %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("store: GET %q: unexpected status %s", key, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("store: reading body for %q: %w", key, err)
	}
	return data, true, nil
}

func (s *HTTPStore) Exists(ctx context.Context, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.resolve(key), nil)
	if err != nil {
		return false, fmt.Errorf("store: building request for %q: %w", key, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("store: HEAD %q: %w", key, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("store: HEAD %q: unexpected status %s", key, resp.Status)
	}
}

func (s *HTTPStore) Write(ctx context.Context, key string, data []byte) error {
	return ErrNotSupported
}

func (s *HTTPStore) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, ErrNotSupported
}

func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	return ErrNotSupported
}

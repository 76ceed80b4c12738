package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipLevel maps spec.md §4.2's nominal levels onto klauspost/compress/gzip's
// stdlib-compatible constants: 0 none, 1 fastest, >=7 smallest, else
// default.
func gzipLevel(level int) int {
	switch {
	case level == 0:
		return gzip.NoCompression
	case level == 1:
		return gzip.BestSpeed
	case level >= 7:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func encodeGzip(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzipLevel(level))
	if err != nil {
		return nil, fmt.Errorf("codec: gzip: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("codec: gzip: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeGzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", errCorrupt, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", errCorrupt, err)
	}
	return out, nil
}

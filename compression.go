package patch

import (
	"io"

	"github.com/qri-io/dataset/compression"
)

const (
	// CompressionNone stores data payloads as-is
	CompressionNone = ""
	// CompressionGzip compresses data payloads with gzip
	CompressionGzip = "gzip"
	// CompressionZstd compresses data payloads with zstandard
	CompressionZstd = "zst"
)

// CompressionMeta defines compression settings for stored data payloads
type CompressionMeta struct {
	ID string `json:"id"`
}

// Compressor wraps w so writes are compressed. Callers must Close the
// returned writer to flush it.
func (m *CompressionMeta) Compressor(w io.Writer) (io.WriteCloser, error) {
	if m.ID == CompressionNone {
		return nopWriteCloser{w}, nil
	}
	return compression.Compressor(m.ID, w)
}

func (m *CompressionMeta) Decompressor(r io.ReadCloser) (io.ReadCloser, error) {
	if m.ID == CompressionNone {
		return r, nil
	}
	return compression.Decompressor(m.ID, r)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

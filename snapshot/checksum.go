package snapshot

import (
	"hash"
	"hash/crc32"
	"io"
)

// CRC32 (IEEE polynomial) detects accidental corruption of snapshot files.
// It is not cryptographically secure and must not be relied on for tamper
// detection.

var crc32Table = crc32.MakeTable(crc32.IEEE)

// checksumWriter wraps an io.Writer and computes a running CRC32 checksum.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{
		w:    w,
		hash: crc32.New(crc32Table),
	}
}

// Write implements io.Writer.
func (cw *checksumWriter) Write(p []byte) (int, error) {
	if _, err := cw.hash.Write(p); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}

// Sum returns the current checksum value.
func (cw *checksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// checksumReader wraps an io.Reader and computes a running CRC32 checksum.
type checksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

func newChecksumReader(r io.Reader) *checksumReader {
	return &checksumReader{
		r:    r,
		hash: crc32.New(crc32Table),
	}
}

// Read implements io.Reader.
func (cr *checksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		// hash.Hash Write never returns an error.
		_, _ = cr.hash.Write(p[:n])
	}
	return n, err
}

// Sum returns the current checksum value.
func (cr *checksumReader) Sum() uint32 {
	return cr.hash.Sum32()
}

package snapshot

import "errors"

const (
	// MagicNumber identifies castor snapshot files (ASCII: "CAS0")
	MagicNumber = 0x43415330
	// Version is the current file format version.
	Version = 1

	// headerLen is the fixed byte length of the file header.
	headerLen = 24
	// blockHeaderLen is the byte length of the payload block header.
	blockHeaderLen = 8
)

// CompressionType defines the payload compression algorithm.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

var (
	// ErrInvalidMagic is returned when the file does not start with the
	// snapshot magic number.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")
	// ErrInvalidVersion is returned for file format versions newer than this
	// package understands.
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	// ErrInvalidCompression is returned for unknown compression types.
	ErrInvalidCompression = errors.New("snapshot: unknown compression type")
	// ErrChecksumMismatch is returned when the CRC32 trailer does not match
	// the file contents.
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	// ErrCorruptPayload is returned when the payload does not decode to the
	// element region the header describes.
	ErrCorruptPayload = errors.New("snapshot: corrupt payload")
	// ErrDeepVector is returned when writing a vector whose elements carry
	// deep-copy/deep-release hooks; pointer payloads do not survive
	// serialization.
	ErrDeepVector = errors.New("snapshot: vector with element hooks cannot be snapshotted")
)

// fileHeader is the fixed header at the start of every snapshot.
//
// Layout (little-endian):
//
//	magic       uint32
//	version     uint16
//	compression uint8
//	reserved    uint8
//	objectSize  uint32
//	reserved    uint32
//	count       uint64
type fileHeader struct {
	Compression CompressionType
	ObjectSize  uint32
	Count       uint64
}

package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/castor"
)

// Options configures snapshot writing.
type Options struct {
	// Compression selects the payload compression algorithm.
	Compression CompressionType
}

// Write serializes the live region of a shallow vector to w.
//
// Vectors with registered element hooks are refused with ErrDeepVector.
func Write(w io.Writer, v *castor.Vector, optFns ...func(*Options)) error {
	opts := Options{
		Compression: CompressionNone,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	switch opts.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidCompression, opts.Compression)
	}

	if v.ElementOps() != nil {
		return ErrDeepVector
	}

	cw := newChecksumWriter(w)

	header := fileHeader{
		Compression: opts.Compression,
		ObjectSize:  uint32(v.ObjectSize()),
		Count:       uint64(v.Len()),
	}
	if err := writeHeader(cw, header); err != nil {
		return err
	}

	if err := writeBlock(cw, v.Bytes(), opts.Compression); err != nil {
		return err
	}

	// Trailer goes to the raw writer; it is not part of its own checksum.
	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	if _, err := w.Write(trailer[:]); err != nil {
		return fmt.Errorf("snapshot: write trailer: %w", err)
	}

	return nil
}

// Read deserializes a vector from r. The vector options are applied to the
// reconstructed vector (for example a custom allocator); its capacity is the
// snapshot's element count.
func Read(r io.Reader, vectorOpts ...castor.Option) (*castor.Vector, error) {
	cr := newChecksumReader(r)

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	data, err := readBlock(cr, header)
	if err != nil {
		return nil, err
	}

	sum := cr.Sum()

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read trailer: %w", err)
	}
	if binary.LittleEndian.Uint32(trailer[:]) != sum {
		return nil, ErrChecksumMismatch
	}

	objectSize := int(header.ObjectSize)
	count := int(header.Count)

	opts := make([]castor.Option, 0, len(vectorOpts)+1)
	opts = append(opts, vectorOpts...)
	opts = append(opts, castor.WithCapacity(count))

	v, err := castor.NewVector(objectSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot: rebuild vector: %w", err)
	}

	for i := 0; i < count; i++ {
		if err := v.PushBack(data[i*objectSize : (i+1)*objectSize]); err != nil {
			return nil, fmt.Errorf("snapshot: rebuild vector: %w", err)
		}
	}

	return v, nil
}

func writeHeader(w io.Writer, h fileHeader) error {
	buf := make([]byte, headerLen)
	binary.LittleEndian.PutUint32(buf[0:4], MagicNumber)
	binary.LittleEndian.PutUint16(buf[4:6], Version)
	buf[6] = byte(h.Compression)
	// buf[7] reserved
	binary.LittleEndian.PutUint32(buf[8:12], h.ObjectSize)
	// buf[12:16] reserved
	binary.LittleEndian.PutUint64(buf[16:24], h.Count)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) (fileHeader, error) {
	buf := make([]byte, headerLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fileHeader{}, fmt.Errorf("snapshot: read header: %w", err)
	}

	if binary.LittleEndian.Uint32(buf[0:4]) != MagicNumber {
		return fileHeader{}, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint16(buf[4:6]); version != Version {
		return fileHeader{}, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}

	header := fileHeader{
		Compression: CompressionType(buf[6]),
		ObjectSize:  binary.LittleEndian.Uint32(buf[8:12]),
		Count:       binary.LittleEndian.Uint64(buf[16:24]),
	}

	switch header.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return fileHeader{}, fmt.Errorf("%w: %d", ErrInvalidCompression, header.Compression)
	}
	if header.ObjectSize == 0 {
		return fileHeader{}, fmt.Errorf("%w: zero object size", ErrCorruptPayload)
	}
	// Overflow-safe bound: a region of count*objectSize bytes must fit in an
	// int before anything is allocated or sliced.
	if header.Count > uint64(math.MaxInt)/uint64(header.ObjectSize) {
		return fileHeader{}, fmt.Errorf("%w: element region overflows", ErrCorruptPayload)
	}

	return header, nil
}

// writeBlock writes the payload block.
// Format: [uncompressedSize uint32][storedSize uint32][data...]
// If storedSize == 0, the data is stored uncompressed.
func writeBlock(w io.Writer, data []byte, compression CompressionType) error {
	stored := data
	storedSize := 0

	if compression != CompressionNone && len(data) > 0 {
		compressed, err := compressBlock(data, compression)
		if err != nil {
			return fmt.Errorf("snapshot: compress payload: %w", err)
		}
		// Keep the raw bytes when compression does not help.
		if compressed != nil && len(compressed) < len(data) {
			stored = compressed
			storedSize = len(compressed)
		}
	}

	header := make([]byte, blockHeaderLen)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(data)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(storedSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("snapshot: write block header: %w", err)
	}
	if len(stored) > 0 {
		if _, err := w.Write(stored); err != nil {
			return fmt.Errorf("snapshot: write payload: %w", err)
		}
	}
	return nil
}

func readBlock(r io.Reader, h fileHeader) ([]byte, error) {
	header := make([]byte, blockHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("snapshot: read block header: %w", err)
	}

	uncompressedSize := int(binary.LittleEndian.Uint32(header[0:4]))
	storedSize := int(binary.LittleEndian.Uint32(header[4:8]))

	if uint64(uncompressedSize) != h.Count*uint64(h.ObjectSize) {
		return nil, fmt.Errorf("%w: payload size does not match header", ErrCorruptPayload)
	}

	if uncompressedSize == 0 {
		return nil, nil
	}

	if storedSize == 0 {
		data := make([]byte, uncompressedSize)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("snapshot: read payload: %w", err)
		}
		return data, nil
	}

	stored := make([]byte, storedSize)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}

	data, err := decompressBlock(stored, uncompressedSize, h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if len(data) != uncompressedSize {
		return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptPayload)
	}
	return data, nil
}

func compressBlock(data []byte, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionLZ4:
		return compressBlockLZ4(data)
	case CompressionZSTD:
		return compressBlockZSTD(data)
	default:
		return nil, nil
	}
}

// compressBlockLZ4 returns nil when the data is incompressible.
func compressBlockLZ4(data []byte) ([]byte, error) {
	var c lz4.Compressor
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := c.CompressBlock(data, buf)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

func compressBlockZSTD(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func decompressBlock(stored []byte, uncompressedSize int, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionLZ4:
		buf := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(stored, buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(stored, make([]byte, 0, uncompressedSize))
	default:
		return nil, fmt.Errorf("stored payload with compression type %d", compression)
	}
}

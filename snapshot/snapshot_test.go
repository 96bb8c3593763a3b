package snapshot

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/castor"
	"github.com/hupe1980/castor/testutil"
)

func buildVector(t *testing.T, num, objectSize int) (*castor.Vector, [][]byte) {
	t.Helper()

	rng := testutil.NewRNG(4711)
	elements := rng.GenerateElements(num, objectSize)

	v, err := castor.NewVector(objectSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })

	for _, e := range elements {
		require.NoError(t, v.PushBack(e))
	}
	return v, elements
}

func TestRoundTrip(t *testing.T) {
	compressions := map[string]CompressionType{
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	}

	for name, compression := range compressions {
		t.Run(name, func(t *testing.T) {
			v, elements := buildVector(t, 128, 16)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, v, func(o *Options) {
				o.Compression = compression
			}))

			got, err := Read(&buf)
			require.NoError(t, err)
			defer got.Close()

			assert.Equal(t, v.ObjectSize(), got.ObjectSize())
			require.Equal(t, len(elements), got.Len())
			assert.Equal(t, len(elements), got.Cap())

			for i, e := range elements {
				elem, ok := got.Get(i)
				require.True(t, ok)
				assert.Equal(t, e, elem)
			}
		})
	}
}

func TestRoundTripEmptyVector(t *testing.T) {
	v, err := castor.NewVector(8)
	require.NoError(t, err)
	defer v.Close()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	got, err := Read(&buf)
	require.NoError(t, err)
	defer got.Close()

	assert.True(t, got.Empty())
	assert.Equal(t, 0, got.Cap())
	assert.Equal(t, 8, got.ObjectSize())
}

func TestCompressibleDataShrinks(t *testing.T) {
	// Constant elements compress well under both algorithms.
	v, err := castor.NewVector(64)
	require.NoError(t, err)
	defer v.Close()

	elem := bytes.Repeat([]byte{0xAB}, 64)
	for i := 0; i < 256; i++ {
		require.NoError(t, v.PushBack(elem))
	}

	var raw bytes.Buffer
	require.NoError(t, Write(&raw, v))

	for _, compression := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, v, func(o *Options) {
			o.Compression = compression
		}))
		assert.Less(t, buf.Len(), raw.Len())

		got, err := Read(&buf)
		require.NoError(t, err)
		assert.Equal(t, 256, got.Len())
		require.NoError(t, got.Close())
	}
}

type nopOps struct{}

func (nopOps) Copy(dst, src []byte) bool { return castor.RawCopy(dst, src) }
func (nopOps) Release(src []byte)        {}

func TestWriteRefusesDeepVector(t *testing.T) {
	v, err := castor.NewVector(4, castor.WithElementOps(nopOps{}))
	require.NoError(t, err)
	defer v.Close()

	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, v), ErrDeepVector)
}

func TestWriteRejectsUnknownCompression(t *testing.T) {
	v, _ := buildVector(t, 4, 4)

	var buf bytes.Buffer
	err := Write(&buf, v, func(o *Options) {
		o.Compression = CompressionType(42)
	})
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestReadRejectsInvalidMagic(t *testing.T) {
	v, _ := buildVector(t, 4, 4)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[0:4], 0xDEADBEEF)

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestReadRejectsUnsupportedVersion(t *testing.T) {
	v, _ := buildVector(t, 4, 4)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	data := buf.Bytes()
	binary.LittleEndian.PutUint16(data[4:6], 99)

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

// patchTrailer recomputes the CRC32 trailer after mutating snapshot bytes, so
// the mutation reaches the paths behind the checksum gate.
func patchTrailer(data []byte) {
	binary.LittleEndian.PutUint32(data[len(data)-4:], crc32.ChecksumIEEE(data[:len(data)-4]))
}

func TestReadRejectsOverflowingElementRegion(t *testing.T) {
	v, err := castor.NewVector(4)
	require.NoError(t, err)
	defer v.Close()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	// A count whose element region wraps past MaxInt must be rejected before
	// any allocation, even with a valid checksum.
	data := buf.Bytes()
	binary.LittleEndian.PutUint64(data[16:24], 1<<62)
	patchTrailer(data)

	got, err := Read(bytes.NewReader(data))
	require.Nil(t, got)
	assert.ErrorIs(t, err, ErrCorruptPayload)
}

func TestReadRejectsBlockSizeMismatch(t *testing.T) {
	v, _ := buildVector(t, 4, 4)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	// Block header disagrees with the element region the file header
	// describes (16 bytes for 4 elements of 4 bytes).
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[headerLen:headerLen+4], 12)
	patchTrailer(data)

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrCorruptPayload)
}

func TestReadRejectsGarbageCompressedPayload(t *testing.T) {
	v, err := castor.NewVector(64)
	require.NoError(t, err)
	defer v.Close()

	elem := bytes.Repeat([]byte{0xAB}, 64)
	for i := 0; i < 256; i++ {
		require.NoError(t, v.PushBack(elem))
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v, func(o *Options) {
		o.Compression = CompressionZSTD
	}))

	data := buf.Bytes()
	storedSize := binary.LittleEndian.Uint32(data[headerLen+4 : headerLen+8])
	require.NotZero(t, storedSize, "payload must be stored compressed")

	// Overwrite the compressed bytes and fix the checksum; decompression must
	// fail cleanly.
	payload := data[headerLen+blockHeaderLen : headerLen+blockHeaderLen+int(storedSize)]
	for i := range payload {
		payload[i] = 0xFF
	}
	patchTrailer(data)

	_, err = Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrCorruptPayload)
}

func TestReadDetectsCorruption(t *testing.T) {
	v, _ := buildVector(t, 32, 8)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	// Flip one payload byte; the CRC32 trailer must catch it.
	data := buf.Bytes()
	data[headerLen+blockHeaderLen] ^= 0xFF

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReadTruncatedFile(t *testing.T) {
	v, _ := buildVector(t, 32, 8)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))

	_, err := Read(bytes.NewReader(buf.Bytes()[:headerLen+2]))
	assert.Error(t, err)
}

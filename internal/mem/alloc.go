package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of default allocations (AVX-512 friendly).
const Alignment = 64

// Allocator acquires byte buffers for container storage.
//
// Alloc returns a zeroed buffer of exactly size bytes, or an error when the
// request cannot be satisfied. On error the caller's existing buffers must be
// considered untouched.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// Default returns the process-wide default allocator.
func Default() Allocator {
	return alignedAllocator{}
}

type alignedAllocator struct{}

func (alignedAllocator) Alloc(size int) ([]byte, error) {
	return AllocAligned(size), nil
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure
// alignment. The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Over-allocate so an aligned start offset always exists within the buffer.
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

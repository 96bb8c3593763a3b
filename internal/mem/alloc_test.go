package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)

		ptr := unsafe.Pointer(&buf[0])
		addr := uintptr(ptr)
		assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestDefaultAllocator(t *testing.T) {
	a := Default()

	buf, err := a.Alloc(128)
	assert.NoError(t, err)
	assert.Len(t, buf, 128)

	for _, b := range buf {
		assert.Zero(t, b)
	}

	buf, err = a.Alloc(0)
	assert.NoError(t, err)
	assert.Nil(t, buf)
}

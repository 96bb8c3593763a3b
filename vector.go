package castor

import (
	"fmt"
	"math"

	"github.com/hupe1980/castor/internal/mem"
)

// defaultCapacity is the slot count used for the first allocation when no
// capacity was requested.
const defaultCapacity = 16

// ElementOps is the deep-semantics capability set for vector elements.
//
// Copy must fully initialize dst from src and report success, or report
// failure; on failure during a vector clone the destination element is
// zero-filled instead. Release must free only resources referenced by the
// element, never the element's own storage (owned by the vector).
//
// Implementations that need only one of the two semantics can delegate the
// other to RawCopy or a no-op Release.
type ElementOps interface {
	Copy(dst, src []byte) bool
	Release(src []byte)
}

// RawCopy is a bitwise element copy. It is the behavior vectors use when no
// ElementOps is registered and a convenient delegate for release-only
// implementations.
func RawCopy(dst, src []byte) bool {
	copy(dst, src)
	return true
}

// Vector is a type-erased, growable, contiguous sequence of fixed-size
// elements. Elements are opaque byte blocks of the width given at
// construction; the vector performs no type checking.
//
// Vector is not safe for concurrent use.
type Vector struct {
	content    []byte
	objectSize int
	capacity   int
	count      int
	ops        ElementOps
	alloc      mem.Allocator
	logger     *Logger
	closed     bool
}

// NewVector constructs a vector holding elements of objectSize bytes.
//
// With WithCapacity(n), n > 0, the buffer is allocated eagerly; allocation
// failure fails construction and no vector is returned. Otherwise the buffer
// stays unallocated until the first growth.
func NewVector(objectSize int, optFns ...Option) (*Vector, error) {
	if objectSize <= 0 {
		return nil, ErrInvalidObjectSize
	}

	opts := applyOptions(optFns...)
	if opts.capacity < 0 {
		return nil, ErrNegativeCount
	}

	v := &Vector{
		objectSize: objectSize,
		ops:        opts.ops,
		alloc:      opts.alloc,
		logger:     opts.logger,
	}

	if opts.capacity > 0 {
		size, err := v.byteSize(opts.capacity)
		if err != nil {
			return nil, err
		}
		content, err := v.alloc.Alloc(size)
		if err != nil {
			return nil, fmt.Errorf("castor: allocate %d slots: %w", opts.capacity, err)
		}
		v.content = content
		v.capacity = opts.capacity
	}

	return v, nil
}

// byteSize returns the buffer length holding capacity slots, or
// ErrCapacityOverflow when the product does not fit in an int.
func (v *Vector) byteSize(capacity int) (int, error) {
	if capacity > math.MaxInt/v.objectSize {
		return 0, fmt.Errorf("%w: %d slots of %d bytes", ErrCapacityOverflow, capacity, v.objectSize)
	}
	return capacity * v.objectSize, nil
}

// slot returns the byte region of the element at index i without bounds
// checking. The three-index slice keeps callers from appending past the slot.
func (v *Vector) slot(i int) []byte {
	start := i * v.objectSize
	end := start + v.objectSize
	return v.content[start:end:end]
}

// ObjectSize returns the fixed byte width of one element.
func (v *Vector) ObjectSize() int { return v.objectSize }

// Len returns the number of live elements.
func (v *Vector) Len() int { return v.count }

// Cap returns the number of allocated element slots.
func (v *Vector) Cap() int { return v.capacity }

// Empty reports whether the vector holds no live elements.
func (v *Vector) Empty() bool { return v.count == 0 }

// unallocated reports whether the buffer has not been allocated yet.
func (v *Vector) unallocated() bool { return v.content == nil }

func (v *Vector) full() bool { return v.count == v.capacity }

// Get returns the element at index i, or ok=false if i is out of range.
//
// The returned slice aliases the buffer; it is invalidated by any operation
// that may reallocate.
func (v *Vector) Get(i int) ([]byte, bool) {
	if v.closed || i < 0 || i >= v.count {
		return nil, false
	}
	return v.slot(i), true
}

// Back returns the last live element, or ok=false if the vector is empty.
func (v *Vector) Back() ([]byte, bool) {
	if v.closed || v.count == 0 {
		return nil, false
	}
	return v.slot(v.count - 1), true
}

// Front returns the first live element, or ok=false if the vector is empty.
func (v *Vector) Front() ([]byte, bool) {
	if v.closed || v.count == 0 {
		return nil, false
	}
	return v.slot(0), true
}

// Bytes returns the live region of the buffer (Len()*ObjectSize() bytes).
//
// The returned slice aliases the buffer and must be treated as read-only; it
// is invalidated by any operation that may reallocate.
func (v *Vector) Bytes() []byte {
	if v.count == 0 {
		return nil
	}
	end := v.count * v.objectSize
	return v.content[:end:end]
}

// ElementOps returns the registered element hooks, or nil for shallow
// vectors.
func (v *Vector) ElementOps() ElementOps { return v.ops }

// Walk invokes fn on each live element in index order.
//
// fn receives an aliased view and must not perform any operation that changes
// the vector's size; growth during a walk invalidates the regions being
// visited.
func (v *Vector) Walk(fn func(elem []byte)) {
	for i := 0; i < v.count; i++ {
		fn(v.slot(i))
	}
}

// Reset releases every live element through the Release hook (front to back)
// when one is registered, then empties the vector. The buffer is retained for
// reuse. Resetting an empty vector is a no-op.
func (v *Vector) Reset() {
	if v.count == 0 {
		return
	}

	if v.ops != nil {
		v.Walk(v.ops.Release)
	}

	v.count = 0
}

// ReleaseBuffer resets the vector and drops its buffer, returning it to the
// unallocated state. The vector remains usable; the next growth reallocates.
// A no-op when the buffer was never allocated.
func (v *Vector) ReleaseBuffer() {
	if v.unallocated() {
		return
	}

	v.Reset()

	v.content = nil
	v.capacity = 0
}

// Close releases all elements and the buffer. The vector is unusable
// afterwards; further operations fail with ErrClosed. Close is nil-safe and
// idempotent.
func (v *Vector) Close() error {
	if v == nil || v.closed {
		return nil
	}
	v.ReleaseBuffer()
	v.closed = true
	return nil
}

// resize moves the live region into a freshly allocated buffer of newCapacity
// slots. On allocation failure the vector is left untouched.
func (v *Vector) resize(newCapacity int) error {
	size, err := v.byteSize(newCapacity)
	if err != nil {
		return err
	}

	content, err := v.alloc.Alloc(size)
	if err != nil {
		return fmt.Errorf("castor: allocate %d slots: %w", newCapacity, err)
	}

	copy(content, v.content[:v.count*v.objectSize])

	v.logger.LogGrow(v.objectSize, v.capacity, newCapacity)

	v.content = content
	v.capacity = newCapacity

	return nil
}

// Grow expands the vector by n slots. On an unallocated vector n == 0 grows
// to the default capacity; otherwise n == 0 is a reallocation at the current
// capacity. Content is preserved; on failure the vector keeps its prior
// buffer and capacity.
func (v *Vector) Grow(n int) error {
	if v.closed {
		return ErrClosed
	}
	if n < 0 {
		return ErrNegativeCount
	}

	newCapacity := v.capacity + n
	if newCapacity < v.capacity {
		return fmt.Errorf("%w: %d + %d slots", ErrCapacityOverflow, v.capacity, n)
	}
	if newCapacity == 0 {
		newCapacity = defaultCapacity
	}

	return v.resize(newCapacity)
}

// growForInsert doubles the capacity when the vector is full, so that one
// more element fits.
func (v *Vector) growForInsert() error {
	if !v.full() {
		return nil
	}
	return v.Grow(v.capacity)
}

func (v *Vector) checkObject(obj []byte) error {
	if v.closed {
		return ErrClosed
	}
	if len(obj) != v.objectSize {
		return fmt.Errorf("%w: got %d, want %d", ErrObjectSize, len(obj), v.objectSize)
	}
	return nil
}

// PushBack appends a raw byte copy of obj. Amortized O(1): a full vector
// doubles its capacity first (or allocates the default capacity when
// unallocated); growth failure propagates with no mutation.
func (v *Vector) PushBack(obj []byte) error {
	if err := v.checkObject(obj); err != nil {
		return err
	}
	if err := v.growForInsert(); err != nil {
		return err
	}

	copy(v.content[v.count*v.objectSize:], obj)
	v.count++

	return nil
}

// PushFront prepends a raw byte copy of obj, shifting all live elements one
// slot toward higher indices. O(Len).
func (v *Vector) PushFront(obj []byte) error {
	if err := v.checkObject(obj); err != nil {
		return err
	}
	if err := v.growForInsert(); err != nil {
		return err
	}

	live := v.count * v.objectSize
	copy(v.content[v.objectSize:], v.content[:live])
	copy(v.content, obj)
	v.count++

	return nil
}

// DiscardBack removes the last element, invoking the Release hook on it when
// one is registered. Fails with ErrEmpty on an empty vector.
func (v *Vector) DiscardBack() error {
	if v.closed {
		return ErrClosed
	}
	if v.count == 0 {
		return ErrEmpty
	}

	v.count--

	if v.ops != nil {
		v.ops.Release(v.slot(v.count))
	}

	return nil
}

// DiscardFront removes the first element, invoking the Release hook on it
// when one is registered, then shifts the remaining elements down. O(Len).
func (v *Vector) DiscardFront() error {
	if v.closed {
		return ErrClosed
	}
	if v.count == 0 {
		return ErrEmpty
	}

	if v.ops != nil {
		v.ops.Release(v.slot(0))
	}

	live := v.count * v.objectSize
	copy(v.content, v.content[v.objectSize:live])
	v.count--

	return nil
}

// Discard removes the element at index i, invoking the Release hook on it
// when one is registered, then closes the gap. O(Len-i).
func (v *Vector) Discard(i int) error {
	if v.closed {
		return ErrClosed
	}
	if v.count == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfRange, i, v.count)
	}

	if v.ops != nil {
		v.ops.Release(v.slot(i))
	}

	start := i * v.objectSize
	live := v.count * v.objectSize
	copy(v.content[start:], v.content[start+v.objectSize:live])
	v.count--

	return nil
}

func (v *Vector) checkDest(dst []byte) error {
	if v.closed {
		return ErrClosed
	}
	if len(dst) < v.objectSize {
		return fmt.Errorf("%w: got %d, want at least %d", ErrObjectSize, len(dst), v.objectSize)
	}
	return nil
}

// PopBack removes the last element and copies its bytes into dst. No Release
// hook is invoked: ownership of any referenced resources transfers to the
// caller with the bytes.
func (v *Vector) PopBack(dst []byte) error {
	if err := v.checkDest(dst); err != nil {
		return err
	}
	if v.count == 0 {
		return ErrEmpty
	}

	copy(dst, v.slot(v.count-1))
	v.count--

	return nil
}

// PopFront removes the first element and copies its bytes into dst, shifting
// the remaining elements down. No Release hook is invoked. O(Len).
func (v *Vector) PopFront(dst []byte) error {
	if err := v.checkDest(dst); err != nil {
		return err
	}
	if v.count == 0 {
		return ErrEmpty
	}

	copy(dst, v.slot(0))

	live := v.count * v.objectSize
	copy(v.content, v.content[v.objectSize:live])
	v.count--

	return nil
}

// Pop removes the element at index i and copies its bytes into dst, closing
// the gap. No Release hook is invoked. O(Len-i).
func (v *Vector) Pop(dst []byte, i int) error {
	if err := v.checkDest(dst); err != nil {
		return err
	}
	if v.count == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfRange, i, v.count)
	}

	copy(dst, v.slot(i))

	start := i * v.objectSize
	live := v.count * v.objectSize
	copy(v.content[start:], v.content[start+v.objectSize:live])
	v.count--

	return nil
}

// Set overwrites the element at index i with a raw byte copy of obj.
//
// This is a shallow overwrite: no Release hook runs on the prior value and no
// Copy hook runs on the new one; callers manage any resource transfer.
func (v *Vector) Set(i int, obj []byte) error {
	if err := v.checkObject(obj); err != nil {
		return err
	}
	if v.count == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfRange, i, v.count)
	}

	copy(v.slot(i), obj)

	return nil
}

// Insert places a raw byte copy of obj at index i, shifting the suffix one
// slot up. Insertion requires an existing element at i to displace: i must be
// < Len, so appending goes through PushBack. O(Len-i).
func (v *Vector) Insert(i int, obj []byte) error {
	if err := v.checkObject(obj); err != nil {
		return err
	}
	if v.count == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfRange, i, v.count)
	}
	if err := v.growForInsert(); err != nil {
		return err
	}

	start := i * v.objectSize
	live := v.count * v.objectSize
	copy(v.content[start+v.objectSize:], v.content[start:live])
	copy(v.content[start:], obj)
	v.count++

	return nil
}

// Copy produces a deep structural clone sharing no storage with the source.
//
// With shrinkToFit the clone's capacity equals the live element count (a
// clone of an empty vector stays unallocated); otherwise the source capacity
// is kept. When a Copy hook is registered it runs per element; an element
// whose hook reports failure is zero-filled in the clone and copying
// continues (degraded data, not a hard error). Without a hook the live region
// is copied in one pass.
func (v *Vector) Copy(shrinkToFit bool) (*Vector, error) {
	if v.closed {
		return nil, ErrClosed
	}

	capacity := v.capacity
	if shrinkToFit {
		capacity = v.count
	}

	clone, err := NewVector(v.objectSize,
		WithCapacity(capacity),
		WithElementOps(v.ops),
		WithAllocator(v.alloc),
		WithLogger(v.logger),
	)
	if err != nil {
		return nil, err
	}

	clone.count = v.count

	v.logger.LogCopy(v.count, capacity, shrinkToFit)

	if v.ops == nil {
		copy(clone.content, v.content[:v.count*v.objectSize])
		return clone, nil
	}

	for i := 0; i < v.count; i++ {
		dst := clone.slot(i)
		if !v.ops.Copy(dst, v.slot(i)) {
			clear(dst)
		}
	}

	return clone, nil
}

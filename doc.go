// Package castor provides minimal type-erased containers for Go.
//
// Castor stores fixed-size elements as opaque byte blocks: the container never
// inspects element contents, it only knows the element width supplied at
// construction time. This makes a single Vector usable for any homogeneous,
// contiguous collection, including elements that own external resources.
//
// # Quick Start
//
//	v, _ := castor.NewVector(4, castor.WithCapacity(8))
//	defer v.Close()
//
//	var buf [4]byte
//	binary.LittleEndian.PutUint32(buf[:], 42)
//	_ = v.PushBack(buf[:])
//
//	elem, ok := v.Get(0) // aliased view into the buffer
//
// # Deep Elements
//
// Elements that reference heap resources (for example a pointer payload)
// register an ElementOps at construction:
//
//	v, _ := castor.NewVector(size, castor.WithElementOps(myOps))
//
// Copy is invoked per element when cloning a vector, Release when an element
// is discarded or the container is reset or closed.
//
// # Concurrency
//
// Containers are not safe for concurrent use; callers needing shared access
// must synchronize externally. Views returned by Get, Back, Front, Peek and
// Bytes alias the underlying buffer and are invalidated by any operation that
// may reallocate it (Grow, PushBack, PushFront, Insert).
//
// # Key Features
//
//   - Type-erased Vector over a contiguous byte buffer
//   - Amortized O(1) append via capacity doubling
//   - Pluggable deep-copy/deep-release element hooks
//   - Stack adapter with push/pop/peek
//   - Binary snapshots with optional LZ4/ZSTD compression (package snapshot)
package castor

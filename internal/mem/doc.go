// Package mem provides the buffer allocation seam for castor containers.
//
// # Aligned Allocation
//
// The default allocator returns 64-byte aligned buffers so element regions
// stay SIMD-friendly regardless of element width.
//
// # Failure Semantics
//
// Allocator implementations report failure through an error return; callers
// are expected to leave their prior state untouched when an allocation fails.
package mem

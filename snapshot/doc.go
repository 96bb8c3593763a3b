// Package snapshot persists shallow castor vectors in a self-describing
// binary format.
//
// A snapshot is a little-endian header (magic, version, compression type,
// element width, element count), a single payload block holding the vector's
// live region (optionally LZ4- or ZSTD-compressed), and a CRC32 trailer over
// everything before it.
//
// Only shallow vectors can be snapshotted: elements that reference heap
// resources through an ElementOps would serialize dangling pointers, so Write
// refuses them with ErrDeepVector.
package snapshot

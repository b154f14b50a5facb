package format

import "encoding/binary"

// Binary encoding utilities for little-endian tag words.
//
// Boundary tags are uint32 values stored little-endian inside the heap
// arena. Go's standard library implementation is already highly optimized;
// binary.LittleEndian calls inline to single loads and stores on the
// platforms we care about.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// Pack combines a block size and an allocated flag into a tag word.
// The size must be a multiple of 8; the flag occupies bit 0.
func Pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | AllocBit
	}
	return size
}

// SizeOf extracts the block size from a tag word.
func SizeOf(tag uint32) uint32 {
	return tag & SizeMask
}

// IsAllocated reports whether a tag word has the allocated bit set.
func IsAllocated(tag uint32) bool {
	return tag&AllocBit != 0
}

// PutBlock writes the header and footer tags of the block at off in one
// call. off is the header offset; the footer lands at off+size-4. Writing
// both tags through this single chokepoint is what keeps the
// header-equals-footer invariant unconditional.
func PutBlock(b []byte, off int, size uint32, allocated bool) {
	tag := Pack(size, allocated)
	PutU32(b, off, tag)
	PutU32(b, off+int(size)-WordSize, tag)
}

// PutEpilogue writes the epilogue header at off. The epilogue has no
// footer; its zero size terminates forward traversal.
func PutEpilogue(b []byte, off int) {
	PutU32(b, off, EpilogueTag)
}

// Package format houses the low-level tag codec for the boundary-tag heap
// layout. The goal is to keep the byte-level encoding focused,
// allocation-free, and independent from the public API so higher-level
// packages can orchestrate blocks in a more ergonomic form.
package format

const (
	// WordSize is the size of a boundary tag (header or footer) in bytes.
	// Every block starts and ends with one tag word.
	WordSize = 4

	// DWordSize is the double word size in bytes. Payload addresses and
	// block sizes are aligned to this boundary.
	DWordSize = 8

	// Overhead is the number of bytes consumed by the header and footer of
	// every block, free or allocated.
	Overhead = 2 * WordSize

	// MinBlockSize is the minimum total block size (header + footer +
	// smallest aligned payload). Splits never produce a fragment below
	// this floor.
	MinBlockSize = 16

	// ChunkSize is the default heap growth quantum, one memory page.
	ChunkSize = 4096

	// Alignment is the required alignment of payload addresses.
	Alignment = DWordSize

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries (Alignment - 1).
	AlignmentMask = Alignment - 1

	// AllocBit is the low bit of a tag word marking the block allocated.
	// Sizes are multiples of 8, so the low three bits of a tag are flag
	// space; only bit 0 is used.
	AllocBit uint32 = 0x1

	// SizeMask extracts the block size from a tag word.
	SizeMask = ^uint32(AlignmentMask)

	// PadOffset is the offset of the unused alignment pad word that starts
	// the heap. It exists so the first payload lands on an 8-byte boundary.
	PadOffset = 0

	// PrologueOffset is the header offset of the prologue block.
	PrologueOffset = WordSize

	// PrologueSize is the total size of the prologue block: a header and a
	// footer with no payload. The prologue is permanently allocated and
	// anchors backward traversal.
	PrologueSize = Overhead

	// FirstBlockOffset is the header offset of the first real block,
	// immediately after the prologue footer. On a heap that has never
	// grown, the epilogue sits here instead.
	FirstBlockOffset = PrologueOffset + PrologueSize

	// BootstrapSize is the number of bytes the bootstrap layout occupies:
	// pad word, prologue header, prologue footer, epilogue header.
	BootstrapSize = FirstBlockOffset + WordSize

	// EpilogueTag is the tag word of the epilogue: size zero, allocated.
	// The epilogue is the only zero-size tag in a well-formed heap and
	// terminates every forward walk.
	EpilogueTag = AllocBit
)

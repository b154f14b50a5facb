package heap

import "github.com/joshuapare/heapkit/internal/format"

// Block is a zero-copy view of one block in the arena: an offset plus
// accessors that decode the tags in place. Views are cheap to mint and
// always read the current bytes, so a Block stays accurate across tag
// rewrites.
//
// Block layout:
//
//	Offset  Size      Description
//	0x00    4         Header tag: size | allocated bit.
//	0x04    size-8    Payload (plus alignment padding).
//	size-4  4         Footer tag, byte-identical to the header.
type Block struct {
	data []byte
	off  int
}

// Offset returns the header offset of the block within the arena.
func (b Block) Offset() int { return b.off }

// Header returns the raw header tag word.
func (b Block) Header() uint32 { return format.ReadU32(b.data, b.off) }

// Size returns the total block size including both tags. The epilogue
// reports zero.
func (b Block) Size() int { return int(format.SizeOf(b.Header())) }

// Allocated reports whether the header marks the block allocated.
func (b Block) Allocated() bool { return format.IsAllocated(b.Header()) }

// End returns the offset one past the block's last byte.
func (b Block) End() int { return b.off + b.Size() }

// Footer returns the raw footer tag word. Meaningless for the epilogue,
// which has no footer.
func (b Block) Footer() uint32 { return format.ReadU32(b.data, b.End()-format.WordSize) }

// PayloadOffset returns the offset of the payload's first byte. This is
// the value allocation hands back as a block reference.
func (b Block) PayloadOffset() int { return b.off + format.WordSize }

// Payload returns the payload bytes between the tags, nil for the epilogue
// or a corrupt sub-minimum size.
func (b Block) Payload() []byte {
	size := b.Size()
	if size < format.Overhead {
		return nil
	}
	return b.data[b.off+format.WordSize : b.off+size-format.WordSize]
}

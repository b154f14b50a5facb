// Package heap maintains the boundary-tag block layout over a flat memory
// region. It owns the bootstrap sentinels, raw growth, and block traversal;
// allocation policy lives in heap/alloc.
package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/mem"
)

// Heap is a boundary-tag block arena over a single growable region.
//
// The layout after bootstrap:
//
//	offset 0        4                 8                 12
//	[pad word] [prologue header] [prologue footer] [epilogue header]
//
// The pad word shifts block headers so payloads land on 8-byte boundaries.
// The prologue (size 8, allocated) anchors backward traversal; the epilogue
// (size 0, allocated) terminates forward traversal. Both are permanent.
type Heap struct {
	region mem.Region
	data   []byte
}

// New bootstraps the sentinel layout on a fresh region. The region must be
// empty; growth failure during bootstrap is a fatal initialization error.
func New(region mem.Region) (*Heap, error) {
	if region.Size() != 0 {
		return nil, fmt.Errorf("heap: region already holds %d bytes, need a fresh region", region.Size())
	}
	if _, err := region.Sbrk(format.BootstrapSize); err != nil {
		return nil, fmt.Errorf("heap: bootstrap: %w", err)
	}
	data := region.Bytes()
	format.PutU32(data, format.PadOffset, 0)
	format.PutBlock(data, format.PrologueOffset, format.PrologueSize, true)
	format.PutEpilogue(data, format.FirstBlockOffset)
	return &Heap{region: region, data: data}, nil
}

// Bytes returns the live arena. The slice is reissued after growth;
// callers that grow the heap must re-fetch it.
func (h *Heap) Bytes() []byte { return h.data }

// Size returns the arena size in bytes.
func (h *Heap) Size() int { return len(h.data) }

func (h *Heap) epilogueOffset() int { return len(h.data) - format.WordSize }

// Prologue returns the prologue sentinel block.
func (h *Heap) Prologue() Block { return Block{data: h.data, off: format.PrologueOffset} }

// Epilogue returns the epilogue sentinel block (size 0, allocated).
func (h *Heap) Epilogue() Block { return Block{data: h.data, off: h.epilogueOffset()} }

// First returns the first real block. On a heap that has never grown this
// is the epilogue itself.
func (h *Heap) First() Block { return Block{data: h.data, off: format.FirstBlockOffset} }

// Grow extends the arena by n bytes (rounded up to the alignment unit) and
// formats the grown span as a single free block. The old epilogue word
// becomes the new block's header, so the block covers exactly the grown
// bytes; a fresh epilogue caps the heap. The caller coalesces the returned
// block with a free predecessor.
func (h *Heap) Grow(n int) (Block, error) {
	if n <= 0 {
		return Block{}, fmt.Errorf("heap: grow amount must be positive, got %d", n)
	}
	n = format.Align8(n)
	old, err := h.region.Sbrk(n)
	if err != nil {
		return Block{}, fmt.Errorf("heap: grow %d bytes: %w", n, err)
	}
	h.data = h.region.Bytes()
	off := old - format.WordSize
	format.PutBlock(h.data, off, uint32(n), false)
	format.PutEpilogue(h.data, off+n)
	return Block{data: h.data, off: off}, nil
}

// BlockAt returns the block whose header sits at off, validating that the
// offset is tag-aligned, inside the arena, and that the declared size does
// not run past the heap end.
func (h *Heap) BlockAt(off int) (Block, error) {
	if off < format.PrologueOffset || off > h.epilogueOffset() {
		return Block{}, fmt.Errorf("heap: block offset %d outside [%d, %d]",
			off, format.PrologueOffset, h.epilogueOffset())
	}
	if off%format.Alignment != format.WordSize {
		return Block{}, fmt.Errorf("heap: block offset %d is not tag-aligned", off)
	}
	b := Block{data: h.data, off: off}
	if b.End() > h.Size() {
		return Block{}, fmt.Errorf("heap: block at %d declares size %d past the heap end %d",
			off, b.Size(), h.Size())
	}
	return b, nil
}

// Next returns the block after b. The epilogue is addressable and is
// returned like any block; asking for the block after the epilogue, or a
// successor whose offset escapes the arena, reports no block.
func (h *Heap) Next(b Block) (Block, bool) {
	size := b.Size()
	if size == 0 {
		return Block{}, false
	}
	off := b.off + size
	if off < format.PrologueOffset || off > h.epilogueOffset() {
		return Block{}, false
	}
	return Block{data: h.data, off: off}, true
}

// Prev returns the block before b via its footer. The prologue has no
// predecessor: the tag before it is the pad word, whose zero size reports
// no block.
func (h *Heap) Prev(b Block) (Block, bool) {
	footOff := b.off - format.WordSize
	if footOff < format.PrologueOffset {
		return Block{}, false
	}
	psize := int(format.SizeOf(format.ReadU32(h.data, footOff)))
	if psize == 0 {
		return Block{}, false
	}
	off := b.off - psize
	if off < format.PrologueOffset {
		return Block{}, false
	}
	return Block{data: h.data, off: off}, true
}

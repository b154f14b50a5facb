package heap

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/internal/format"
)

// BlockIterator walks the block chain from the first real block to the
// epilogue.
type BlockIterator struct {
	h    *Heap
	next int
	done bool
}

// Blocks returns an iterator positioned at the first real block.
func (h *Heap) Blocks() *BlockIterator {
	return &BlockIterator{h: h, next: format.FirstBlockOffset}
}

// Next returns the next real block, or io.EOF once the walk reaches a
// zero-size tag (the epilogue in a well-formed heap). A walk that escapes
// the arena surfaces a descriptive error instead.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}
	h := it.h
	if it.next < format.PrologueOffset || it.next > h.epilogueOffset() {
		it.done = true
		return Block{}, fmt.Errorf("heap: block walk escaped to offset %d", it.next)
	}
	b := Block{data: h.data, off: it.next}
	if b.Size() == 0 {
		it.done = true
		return Block{}, io.EOF
	}
	if b.End() > h.Size() {
		it.done = true
		return Block{}, fmt.Errorf("heap: block at %d declares size %d past the heap end %d",
			b.off, b.Size(), h.Size())
	}
	it.next = b.End()
	return b, nil
}

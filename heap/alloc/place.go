package alloc

import (
	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// place commits asize bytes of the free block b, splitting off the tail
// when it can stand as a block of its own. A tail below the minimum block
// size is absorbed as padding instead of becoming an illegal fragment.
func (a *Allocator) place(b heap.Block, asize int) {
	csize := b.Size()
	data := a.h.Bytes()

	if csize-asize >= format.MinBlockSize {
		format.PutBlock(data, b.Offset(), uint32(asize), true)
		format.PutBlock(data, b.Offset()+asize, uint32(csize-asize), false)
		a.stats.SplitCount++

		// The remainder must not sit next to another free block.
		if rem, err := a.h.BlockAt(b.Offset() + asize); err == nil {
			a.coalesce(rem)
		}
		return
	}

	format.PutBlock(data, b.Offset(), uint32(csize), true)
}

package alloc

import "github.com/joshuapare/heapkit/heap"

// findFit returns the first free block with size >= asize in the rover's
// biased order: [cursor, epilogue), then [first block, cursor). Allocated
// blocks and the sentinels fail the predicate; the walk never reads past a
// zero-size tag.
func (a *Allocator) findFit(asize int) (heap.Block, bool) {
	start, err := a.h.BlockAt(a.cursor)
	if err != nil {
		// The rover only goes stale when tags were rewritten behind the
		// allocator's back. Restart from the head rather than walk garbage.
		start = a.h.First()
		a.cursor = start.Offset()
	}

	for b := start; b.Size() != 0; {
		if !b.Allocated() && b.Size() >= asize {
			return b, true
		}
		nb, ok := a.h.Next(b)
		if !ok {
			break
		}
		b = nb
	}

	for b := a.h.First(); b.Offset() < a.cursor && b.Size() != 0; {
		if !b.Allocated() && b.Size() >= asize {
			return b, true
		}
		nb, ok := a.h.Next(b)
		if !ok {
			break
		}
		b = nb
	}

	return heap.Block{}, false
}

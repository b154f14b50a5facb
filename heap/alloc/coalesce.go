package alloc

import (
	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// coalesce merges the free block b with free neighbors and returns the
// resulting block, relocated left when the predecessor was absorbed.
// Boundary tags give direct access to both neighbor sizes, so every case
// is O(1). The sentinels are permanently allocated, which is what lets the
// neighbor probes run unconditionally.
func (a *Allocator) coalesce(b heap.Block) heap.Block {
	data := a.h.Bytes()

	prev, hasPrev := a.h.Prev(b)
	next, hasNext := a.h.Next(b)
	prevFree := hasPrev && !prev.Allocated()
	nextFree := hasNext && !next.Allocated()

	res := b
	switch {
	case !prevFree && !nextFree:
		return b

	case !prevFree && nextFree:
		a.stats.CoalesceForward++
		format.PutBlock(data, b.Offset(), uint32(b.Size()+next.Size()), false)

	case prevFree && !nextFree:
		a.stats.CoalesceBackward++
		format.PutBlock(data, prev.Offset(), uint32(prev.Size()+b.Size()), false)
		res = prev

	default:
		a.stats.CoalesceForward++
		a.stats.CoalesceBackward++
		format.PutBlock(data, prev.Offset(), uint32(prev.Size()+b.Size()+next.Size()), false)
		res = prev
	}

	// Rover repair: a cursor inside the merged span points at dead tags.
	if a.cursor > res.Offset() && a.cursor < res.End() {
		a.cursor = res.Offset()
	}
	return res
}

package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Runtime debug flag for allocation logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// maxRequest caps a single request so block sizes stay below 2^31 and the
// size arithmetic cannot overflow a tag word.
const maxRequest = 1<<31 - format.MinBlockSize

// Allocator places blocks on a heap with a next-fit policy and immediate
// coalescing. One allocator owns one heap.
type Allocator struct {
	h      *heap.Heap
	chunk  int
	cursor int // next-fit rover: header offset of the last placed block
	stats  Stats
}

// New wires an allocator to a freshly bootstrapped heap and performs the
// initial chunk growth so the first Malloc has a block to place into.
// Growth failure here is an initialization error.
func New(h *heap.Heap, config *Config) (*Allocator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	chunk := config.GrowthChunk
	if chunk <= 0 {
		chunk = format.ChunkSize
	}
	a := &Allocator{h: h, chunk: chunk, cursor: format.FirstBlockOffset}
	if _, err := a.extend(chunk); err != nil {
		return nil, err
	}
	a.cursor = a.h.First().Offset()
	return a, nil
}

// Heap returns the heap this allocator places into.
func (a *Allocator) Heap() *heap.Heap { return a.h }

// Stats returns a snapshot of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Malloc allocates a block with at least size payload bytes. It returns
// the block reference, the payload slice (padded up to the aligned block
// size, so it may be longer than requested), and any error. The heap is
// untouched on failure.
func (a *Allocator) Malloc(size uint32) (Ref, []byte, error) {
	a.stats.AllocCalls++
	if size == 0 || size > maxRequest {
		return 0, nil, ErrBadSize
	}
	asize := format.Align8(int(size) + format.Overhead)

	b, ok := a.findFit(asize)
	if ok {
		a.stats.AllocFastPath++
	} else {
		a.stats.AllocSlowPath++
		grown, err := a.extend(max(asize, a.chunk))
		if err != nil {
			return 0, nil, err
		}
		if grown.Size() < asize {
			return 0, nil, ErrNoSpace
		}
		b = grown
	}

	a.place(b, asize)
	a.cursor = b.Offset()
	a.stats.BytesAllocated += int64(asize)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] request=%d asize=%d off=%d heap=%d\n",
			size, asize, b.Offset(), a.h.Size())
	}
	return Ref(b.PayloadOffset()), b.Payload(), nil
}

// Free releases the block behind ref and merges it with free neighbors
// immediately. Refs that name no block are rejected; freeing the same
// block twice is not detected, matching the minimal design.
func (a *Allocator) Free(ref Ref) error {
	a.stats.FreeCalls++
	b, err := a.blockForRef(ref)
	if err != nil {
		return err
	}
	size := b.Size()
	format.PutBlock(a.h.Bytes(), b.Offset(), uint32(size), false)
	a.stats.BytesFreed += int64(size)
	a.coalesce(b)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[FREE] ref=%d size=%d\n", ref, size)
	}
	return nil
}

// Realloc moves the payload behind ref into a block of at least size
// bytes: allocate new, copy min(size, old capacity) bytes, free old. On
// any failure the original block is untouched and still live, so callers
// can keep using it.
func (a *Allocator) Realloc(ref Ref, size uint32) (Ref, []byte, error) {
	a.stats.ReallocCalls++
	old, err := a.blockForRef(ref)
	if err != nil {
		return 0, nil, err
	}
	if size == 0 || size > maxRequest {
		return 0, nil, ErrBadSize
	}

	newRef, payload, err := a.Malloc(size)
	if err != nil {
		return 0, nil, err
	}
	n := min(int(size), len(old.Payload()))
	copy(payload, old.Payload()[:n])
	if err := a.Free(ref); err != nil {
		return 0, nil, err
	}

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[REALLOC] ref=%d new=%d size=%d copied=%d\n",
			ref, newRef, size, n)
	}
	return newRef, payload, nil
}

// extend grows the heap and merges the new block with a free heap tail, so
// space a trailing free block already had is counted toward the growth.
func (a *Allocator) extend(n int) (heap.Block, error) {
	b, err := a.h.Grow(n)
	if err != nil {
		return heap.Block{}, err
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(b.Size())

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[GROW] bytes=%d heap=%d\n", b.Size(), a.h.Size())
	}
	return a.coalesce(b), nil
}

// blockForRef resolves a payload reference to its block. The epilogue and
// anything smaller than a legal block name no block.
func (a *Allocator) blockForRef(ref Ref) (heap.Block, error) {
	if ref == 0 || ref%format.Alignment != 0 {
		return heap.Block{}, ErrBadRef
	}
	b, err := a.h.BlockAt(int(ref) - format.WordSize)
	if err != nil {
		return heap.Block{}, ErrBadRef
	}
	if b.Size() < format.MinBlockSize {
		return heap.Block{}, ErrBadRef
	}
	return b, nil
}

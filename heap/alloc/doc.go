// Package alloc implements block allocation over a boundary-tag heap.
//
// # Overview
//
// The allocator manages an implicit free list: every block, free or
// allocated, carries a header and footer tag packing (size | allocated bit),
// and the "list" is nothing more than walking the arena by size arithmetic.
// Placement is next-fit, freeing coalesces immediately, and the heap grows
// by a fixed chunk when no block fits.
//
// # Operations
//
//   - Malloc(size): find or grow a free block, split off the tail when
//     worthwhile, return a reference plus the payload slice
//   - Free(ref): clear the allocated bit and merge with free neighbors
//   - Realloc(ref, size): allocate new, copy, free old
//
// # Usage Example
//
//	region := mem.NewBuffer(1 << 20)
//	h, err := heap.New(region)
//	if err != nil {
//	    return err
//	}
//	a, err := alloc.New(h, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Malloc(256)
//	if err != nil {
//	    return err
//	}
//
//	// Write through buf...
//	copy(buf, payload)
//
//	// Later, release the block
//	err = a.Free(ref)
//
// # Placement Policy
//
// Next-fit: a rover remembers the last placed block and searches from
// there, wrapping once to the heap start. First fitting free block wins;
// there is no best-fit pass. The rover follows merges, so it never points
// into the interior of a coalesced block.
//
// # Growth
//
// When no block fits, the heap grows by max(request, GrowthChunk) bytes
// and the new block merges with a free heap tail before placement. Growth
// failure is recoverable: the allocator reports the error and the heap is
// exactly as it was.
//
// # Block References
//
// A Ref is the byte offset of a block's payload within the arena, aligned
// to 8 bytes. The header tag sits 4 bytes below the ref.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Every heap has a single owner;
// callers must synchronize externally if sharing is unavoidable.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap: block layout and traversal
//   - github.com/joshuapare/heapkit/heap/verify: consistency checking
//   - github.com/joshuapare/heapkit/internal/format: tag codec and layout constants
package alloc

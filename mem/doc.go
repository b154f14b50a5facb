// Package mem provides the flat, growable memory regions a heap lives in.
//
// # Overview
//
// A Region hands out raw bytes through a single sbrk-style primitive: Sbrk
// grows the region and returns the offset of the previous top. The allocator
// stack never asks the region for anything else, which keeps the growth
// surface small enough to swap implementations freely.
//
// # Implementations
//
// Buffer: a plain in-memory region with a fixed reservation decided at
// construction. The backing array is allocated up front and never moves, so
// payload slices handed out by the allocator stay valid across growth.
//
// Mapped: an anonymous private memory mapping (unix only) with the same
// soft-break discipline. Pages are committed lazily by the OS, so a large
// reservation costs nothing until touched. On non-unix platforms the
// constructor falls back to a Buffer-backed region.
//
// # Thread Safety
//
// Regions are single-owner, like the heap and allocator built on top of
// them. Callers must synchronize externally if sharing is unavoidable.
package mem

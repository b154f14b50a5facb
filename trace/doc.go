// Package trace parses allocation trace files and replays them against an
// allocator.
//
// # Trace Format
//
// A trace is a line-oriented text file. Four header lines precede the
// operations:
//
//	20000        suggested heap size (ignored, kept for compatibility)
//	3            number of distinct block ids
//	8            number of operations
//	1            weight
//	a 0 512      allocate id 0, 512 bytes
//	a 1 128      allocate id 1, 128 bytes
//	r 0 640      reallocate id 0 to 640 bytes
//	f 1          free id 1
//	...
//
// Ids name blocks across operations: an allocate binds an id to a live
// block, a reallocate rebinds it, a free releases it.
//
// # Replay
//
// A Runner drives an allocator through a parsed trace. Each live payload
// is filled with a per-id byte pattern that is re-verified before every
// free and reallocate, so a block that tramples a neighbor is caught at
// the first opportunity. The Result reports peak payload, final heap size,
// and the utilization ratio between them.
package trace

package alloc

// Stats holds internal allocator counters for instrumentation and tests.
type Stats struct {
	AllocCalls    int // Total Malloc() calls
	AllocFastPath int // Placements satisfied without growing
	AllocSlowPath int // Placements that required growth
	FreeCalls     int // Total Free() calls
	ReallocCalls  int // Total Realloc() calls

	GrowCalls int   // Number of heap growths
	GrowBytes int64 // Total bytes added by growth

	BytesAllocated int64 // Total block bytes handed out (tags and padding included)
	BytesFreed     int64 // Total block bytes released

	SplitCount       int // Placements that split off a free tail
	CoalesceForward  int // Merges that absorbed a successor
	CoalesceBackward int // Merges that relocated into a predecessor
}

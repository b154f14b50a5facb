package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Ref is a block reference: the byte offset of the block's payload within
// the arena. Malloc returns refs and Free consumes them; every ref is a
// multiple of 8 by construction.
type Ref = uint32

// Config tunes the allocator. Non-positive fields select their defaults.
type Config struct {
	// GrowthChunk is the minimum number of bytes each heap growth adds.
	// Requests larger than the chunk grow by the request size instead.
	GrowthChunk int
}

// DefaultConfig returns the allocator defaults: a one-page growth chunk.
func DefaultConfig() *Config {
	return &Config{GrowthChunk: format.ChunkSize}
}

package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/mem"
)

// TestRandomizedOpStream drives a seeded allocate/free/reallocate mix and
// checks full-heap consistency as it goes. Every payload carries a per-ref
// byte pattern, so a block overlapping another shows up as corruption.
func TestRandomizedOpStream(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	h, err := heap.New(mem.NewBuffer(8 << 20))
	require.NoError(t, err)
	a, err := New(h, nil)
	require.NoError(t, err)

	type live struct {
		ref  Ref
		n    int
		seed byte
	}
	var blocks []live

	fill := func(p []byte, seed byte) {
		for i := range p {
			p[i] = seed + byte(i)
		}
	}
	check := func(lv live) {
		b, err := a.blockForRef(lv.ref)
		require.NoError(t, err)
		want := make([]byte, lv.n)
		fill(want, lv.seed)
		require.Equal(t, want, b.Payload()[:lv.n], "ref %d", lv.ref)
	}

	const ops = 4000
	for i := 0; i < ops; i++ {
		r := rng.Intn(100)
		switch {
		case r < 45 || len(blocks) == 0:
			n := 1 + rng.Intn(512)
			seed := byte(rng.Intn(256))
			ref, p, err := a.Malloc(uint32(n))
			require.NoError(t, err, "op %d", i)
			fill(p[:n], seed)
			blocks = append(blocks, live{ref: ref, n: n, seed: seed})

		case r < 80:
			j := rng.Intn(len(blocks))
			check(blocks[j])
			require.NoError(t, a.Free(blocks[j].ref), "op %d", i)
			blocks[j] = blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]

		default:
			j := rng.Intn(len(blocks))
			check(blocks[j])
			n := 1 + rng.Intn(1024)
			seed := blocks[j].seed
			ref, p, err := a.Realloc(blocks[j].ref, uint32(n))
			require.NoError(t, err, "op %d", i)
			fill(p[:n], seed)
			blocks[j] = live{ref: ref, n: n, seed: seed}
		}

		if i%256 == 0 {
			r := verify.Check(a.Heap())
			require.True(t, r.OK(), "op %d:\n%s", i, r.FormatText())
		}
	}

	// Drain every live block; immediate coalescing must collapse the
	// whole heap back into a single free block.
	for _, lv := range blocks {
		check(lv)
		require.NoError(t, a.Free(lv.ref))
	}
	rep := verify.Check(a.Heap())
	require.True(t, rep.OK(), rep.FormatText())
	assert.Equal(t, 1, rep.FreeBlocks)
	assert.Equal(t, int64(a.Heap().Size()-format.BootstrapSize), rep.FreeBytes)
}

// TestChurnDoesNotGrowTheHeap hammers one-size alloc/free cycles; reuse
// must hold the heap at its initial chunk.
func TestChurnDoesNotGrowTheHeap(t *testing.T) {
	a := newTestAllocator(t, 0)
	initial := a.Heap().Size()

	for i := 0; i < 1000; i++ {
		ref, _, err := a.Malloc(128)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, a.Free(ref), "iteration %d", i)
	}

	assert.Equal(t, initial, a.Heap().Size())
	assert.Equal(t, 1, a.Stats().GrowCalls)
	assertClean(t, a)
}

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/mem"
)

func TestMallocReturnsAlignedRefs(t *testing.T) {
	a := newTestAllocator(t, 0)

	for _, size := range []uint32{1, 7, 8, 13, 100, 513, 4095} {
		ref, payload, err := a.Malloc(size)
		require.NoError(t, err, "size %d", size)
		assert.Zero(t, ref%format.Alignment, "ref %d for size %d", ref, size)
		assert.GreaterOrEqual(t, len(payload), int(size), "size %d", size)
	}
	assertClean(t, a)
}

func TestMallocRejectsDegenerateSizes(t *testing.T) {
	a := newTestAllocator(t, 0)

	_, _, err := a.Malloc(0)
	assert.ErrorIs(t, err, ErrBadSize)

	_, _, err = a.Malloc(maxRequest + 1)
	assert.ErrorIs(t, err, ErrBadSize)

	assertClean(t, a)
}

func TestMallocFirstPlacementLayout(t *testing.T) {
	a := newTestAllocator(t, 0)
	h := a.Heap()
	require.Equal(t, format.BootstrapSize+format.ChunkSize, h.Size())

	ref, payload, err := a.Malloc(100)
	require.NoError(t, err)

	// 100 + 8 bytes of tags rounds to a 112-byte block at the heap head.
	assert.Equal(t, Ref(16), ref)
	assert.Len(t, payload, 104)

	b, err := h.BlockAt(format.FirstBlockOffset)
	require.NoError(t, err)
	assert.Equal(t, 112, b.Size())
	assert.True(t, b.Allocated())

	rem, err := h.BlockAt(format.FirstBlockOffset + 112)
	require.NoError(t, err)
	assert.Equal(t, format.ChunkSize-112, rem.Size())
	assert.False(t, rem.Allocated())

	assertClean(t, a)
}

func TestMallocPlacesSequentially(t *testing.T) {
	a := newTestAllocator(t, 0)

	r1, _, err := a.Malloc(100)
	require.NoError(t, err)
	r2, _, err := a.Malloc(200)
	require.NoError(t, err)
	r3, _, err := a.Malloc(50)
	require.NoError(t, err)

	assert.Equal(t, Ref(16), r1)
	assert.Equal(t, Ref(128), r2)
	assert.Equal(t, Ref(336), r3)
	assertClean(t, a)
}

func TestMallocAbsorbsSubMinimumTail(t *testing.T) {
	a := newTestAllocator(t, 0)

	// 4080 + 8 rounds to 4088, leaving an 8-byte tail that cannot stand
	// as a block. The placement takes the whole 4096.
	_, payload, err := a.Malloc(4080)
	require.NoError(t, err)
	assert.Len(t, payload, 4088)

	b, err := a.Heap().BlockAt(format.FirstBlockOffset)
	require.NoError(t, err)
	assert.Equal(t, 4096, b.Size())
	assert.Zero(t, a.Stats().SplitCount)
	assertClean(t, a)
}

func TestMallocExhaustionIsRecoverable(t *testing.T) {
	h, err := heap.New(mem.NewBuffer(4200))
	require.NoError(t, err)
	a, err := New(h, nil)
	require.NoError(t, err)

	big, _, err := a.Malloc(4080)
	require.NoError(t, err)

	// The region has no room left for another chunk.
	_, _, err = a.Malloc(100)
	require.Error(t, err)
	assert.ErrorIs(t, err, mem.ErrOutOfMemory)
	assertClean(t, a)

	// Freeing makes the failure transient, not fatal.
	require.NoError(t, a.Free(big))
	ref, _, err := a.Malloc(100)
	require.NoError(t, err)
	assert.Equal(t, Ref(16), ref)
	assertClean(t, a)
}

func TestMallocGrowsByRequestWhenOverChunk(t *testing.T) {
	a := newTestAllocator(t, 512)
	require.Equal(t, format.BootstrapSize+512, a.Heap().Size())

	ref, payload, err := a.Malloc(2000)
	require.NoError(t, err)

	assert.Equal(t, Ref(16), ref)
	assert.Len(t, payload, 2000)
	assert.Equal(t, format.BootstrapSize+512+2008, a.Heap().Size())

	// Growth merged with the free 512-byte tail before placing, so the
	// tail survives as the block after the placement.
	rem, err := a.Heap().BlockAt(format.FirstBlockOffset + 2008)
	require.NoError(t, err)
	assert.Equal(t, 512, rem.Size())
	assert.False(t, rem.Allocated())

	st := a.Stats()
	assert.Equal(t, 2, st.GrowCalls)
	assert.Equal(t, 1, st.CoalesceBackward)
	assertClean(t, a)
}

func TestRepeatedLargeMallocsKeepEpilogueIntact(t *testing.T) {
	a := newTestAllocator(t, 0)

	// Each 4008-byte block nearly fills a chunk, so the heap must grow
	// for every allocation after the first. The epilogue has to survive
	// every growth as the heap's size-0 allocated cap.
	for i := 0; i < 8; i++ {
		_, _, err := a.Malloc(4000)
		require.NoError(t, err, "allocation %d", i)

		epi := a.Heap().Epilogue()
		require.Equal(t, 0, epi.Size(), "allocation %d", i)
		require.True(t, epi.Allocated(), "allocation %d", i)
		assertClean(t, a)
	}
	assert.GreaterOrEqual(t, a.Stats().GrowCalls, 3)
}

func TestFreeRejectsBadRefs(t *testing.T) {
	a := newTestAllocator(t, 0)
	ref, _, err := a.Malloc(100)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Free(0), ErrBadRef)
	assert.ErrorIs(t, a.Free(ref+4), ErrBadRef, "misaligned ref")
	assert.ErrorIs(t, a.Free(1<<20), ErrBadRef, "ref outside the arena")
	assert.ErrorIs(t, a.Free(Ref(a.Heap().Size())), ErrBadRef, "ref naming the epilogue")

	require.NoError(t, a.Free(ref))
	assertClean(t, a)
}

func TestFreeReturnsSpaceToTheHeap(t *testing.T) {
	a := newTestAllocator(t, 0)
	require.Equal(t, int64(4096), freeBytes(t, a))

	ref, _, err := a.Malloc(100)
	require.NoError(t, err)
	assert.Equal(t, int64(3984), freeBytes(t, a))

	require.NoError(t, a.Free(ref))
	assert.Equal(t, int64(4096), freeBytes(t, a))
	assert.Equal(t, 1, a.Stats().CoalesceForward)
	assertClean(t, a)
}

func TestPayloadWritesStayInsideTags(t *testing.T) {
	a := newTestAllocator(t, 0)
	_, payload, err := a.Malloc(64)
	require.NoError(t, err)

	for i := range payload {
		payload[i] = 0xFF
	}
	assertClean(t, a)
}

func TestStatsSnapshot(t *testing.T) {
	a := newTestAllocator(t, 0)

	r1, _, err := a.Malloc(100)
	require.NoError(t, err)
	_, _, err = a.Malloc(5000)
	require.NoError(t, err)
	require.NoError(t, a.Free(r1))

	assert.Equal(t, Stats{
		AllocCalls:    2,
		AllocFastPath: 1,
		AllocSlowPath: 1,
		FreeCalls:     1,

		GrowCalls: 2,
		GrowBytes: 4096 + 5008,

		BytesAllocated: 112 + 5008,
		BytesFreed:     112,

		SplitCount:       2,
		CoalesceBackward: 1,
	}, a.Stats())
	assertClean(t, a)
}

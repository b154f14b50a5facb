package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/mem"
)

// newTestAllocator builds an allocator over a buffer region large enough
// that growth only fails when a test arranges it.
func newTestAllocator(t *testing.T, chunk int) *Allocator {
	t.Helper()
	h, err := heap.New(mem.NewBuffer(1 << 20))
	require.NoError(t, err)
	a, err := New(h, &Config{GrowthChunk: chunk})
	require.NoError(t, err)
	return a
}

// assertClean fails the test when any boundary-tag invariant is violated.
func assertClean(t *testing.T, a *Allocator) {
	t.Helper()
	r := verify.Check(a.Heap())
	require.True(t, r.OK(), "heap inconsistent:\n%s", r.FormatText())
}

// freeBytes sums the sizes of all free blocks on the allocator's heap.
func freeBytes(t *testing.T, a *Allocator) int64 {
	t.Helper()
	return verify.Check(a.Heap()).FreeBytes
}

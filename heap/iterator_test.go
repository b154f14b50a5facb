package heap

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestBlocksWalk(t *testing.T) {
	h := newTestHeap(t, blockSpec{24, true}, blockSpec{48, false}, blockSpec{16, true})

	it := h.Blocks()
	var offsets []int
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		offsets = append(offsets, b.Offset())
	}
	assert.Equal(t, []int{12, 36, 84}, offsets)

	// The iterator stays exhausted.
	_, err := it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBlocksEmptyHeap(t *testing.T) {
	h := newTestHeap(t)
	it := h.Blocks()
	_, err := it.Next()
	assert.Equal(t, io.EOF, err, "a never-grown heap has only the epilogue")
}

func TestBlocksStopAtZeroTag(t *testing.T) {
	h := newTestHeap(t, blockSpec{24, true}, blockSpec{32, false})

	// A zero tag mid-heap ends the walk; the bytes past it are never read.
	format.PutU32(h.Bytes(), 36, 0)

	it := h.Blocks()
	b, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 12, b.Offset())

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBlocksSurfaceRunawaySize(t *testing.T) {
	h := newTestHeap(t, blockSpec{24, true})

	format.PutU32(h.Bytes(), format.FirstBlockOffset, format.Pack(1<<16, false))

	it := h.Blocks()
	_, err := it.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
	assert.Contains(t, err.Error(), "past the heap end")
}

//go:build linux || darwin

package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedSbrkAndClose(t *testing.T) {
	r, err := NewMapped(1 << 16)
	require.NoError(t, err)

	old, err := r.Sbrk(4096)
	require.NoError(t, err)
	assert.Equal(t, 0, old)
	assert.Equal(t, 4096, r.Size())

	// Anonymous mappings are zero-filled; write through and read back.
	b := r.Bytes()
	require.Len(t, b, 4096)
	assert.Equal(t, byte(0), b[100])
	b[100] = 0x7F
	assert.Equal(t, byte(0x7F), r.Bytes()[100])

	require.NoError(t, r.Close())
	_, err = r.Sbrk(8)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, r.Bytes())
}

func TestMappedExhaustion(t *testing.T) {
	r, err := NewMapped(8192)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Sbrk(8192)
	require.NoError(t, err)
	_, err = r.Sbrk(8)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestMappedCloseIsIdempotent(t *testing.T) {
	r, err := NewMapped(4096)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

//go:build !linux && !darwin

package mem

import "fmt"

// Mapped falls back to a plain in-memory reservation on platforms without
// the anonymous mmap path. The API matches the unix implementation so
// callers never branch.
type Mapped struct {
	data []byte
	brk  int
}

var _ Region = (*Mapped)(nil)

// NewMapped returns an in-memory region with the same contract as the unix
// mapping. A non-positive max selects DefaultMaxSize.
func NewMapped(max int) (*Mapped, error) {
	if max <= 0 {
		max = DefaultMaxSize
	}
	return &Mapped{data: make([]byte, max)}, nil
}

// Sbrk grows the soft break by n bytes and returns the previous break.
func (r *Mapped) Sbrk(n int) (int, error) {
	if r.data == nil {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, fmt.Errorf("mem: sbrk %d: %w", n, ErrNegativeSbrk)
	}
	if r.brk+n > len(r.data) {
		return 0, fmt.Errorf("mem: sbrk %d bytes with %d of %d used: %w",
			n, r.brk, len(r.data), ErrOutOfMemory)
	}
	old := r.brk
	r.brk += n
	return old, nil
}

// Bytes returns the live region [0, brk).
func (r *Mapped) Bytes() []byte {
	if r.data == nil {
		return nil
	}
	return r.data[:r.brk]
}

// Size returns the current break.
func (r *Mapped) Size() int { return r.brk }

// Close releases the backing memory.
func (r *Mapped) Close() error {
	r.data = nil
	r.brk = 0
	return nil
}

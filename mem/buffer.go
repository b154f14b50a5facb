package mem

import "fmt"

// Buffer is an in-memory Region with a fixed reservation. The classic
// teaching-harness emulation of sbrk: reserve the maximum up front, move a
// soft break inside it. The backing array never moves.
type Buffer struct {
	buf []byte
	brk int
}

var _ Region = (*Buffer)(nil)

// NewBuffer returns a Buffer that can grow to at most max bytes. A
// non-positive max selects DefaultMaxSize.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultMaxSize
	}
	return &Buffer{buf: make([]byte, max)}
}

// Sbrk grows the buffer by n bytes and returns the previous break.
func (r *Buffer) Sbrk(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("mem: sbrk %d: %w", n, ErrNegativeSbrk)
	}
	if r.brk+n > len(r.buf) {
		return 0, fmt.Errorf("mem: sbrk %d bytes with %d of %d used: %w",
			n, r.brk, len(r.buf), ErrOutOfMemory)
	}
	old := r.brk
	r.brk += n
	return old, nil
}

// Bytes returns the live region [0, brk).
func (r *Buffer) Bytes() []byte { return r.buf[:r.brk] }

// Size returns the current break.
func (r *Buffer) Size() int { return r.brk }

// Max returns the reservation ceiling.
func (r *Buffer) Max() int { return len(r.buf) }

// Reset rewinds the break to zero so the buffer can host a fresh heap.
// Existing contents are left as-is; the next bootstrap overwrites every
// byte it depends on.
func (r *Buffer) Reset() { r.brk = 0 }

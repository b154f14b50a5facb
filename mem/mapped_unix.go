//go:build linux || darwin

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mapped is a Region backed by an anonymous private memory mapping. The
// full reservation is mapped at construction; the OS commits pages lazily
// as the break advances, so unused reservation stays free.
type Mapped struct {
	data []byte
	brk  int
}

var _ Region = (*Mapped)(nil)

// NewMapped maps an anonymous region that can grow to at most max bytes.
// A non-positive max selects DefaultMaxSize.
func NewMapped(max int) (*Mapped, error) {
	if max <= 0 {
		max = DefaultMaxSize
	}
	data, err := unix.Mmap(
		-1,
		0,
		max,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("mem: mmap %d bytes: %w", max, err)
	}
	return &Mapped{data: data}, nil
}

// Sbrk grows the mapping's soft break by n bytes and returns the previous
// break.
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

// Close unmaps the reservation. The region is unusable afterwards and any
// heap built on it must be discarded first.
func (r *Mapped) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	r.brk = 0
	if err != nil {
		return fmt.Errorf("mem: munmap: %w", err)
	}
	return nil
}

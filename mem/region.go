package mem

import "errors"

// DefaultMaxSize is the reservation used when a constructor receives a
// non-positive maximum: 20 MiB, comfortably above what the allocator's
// workloads touch while staying cheap to reserve.
const DefaultMaxSize = 20 << 20

var (
	// ErrOutOfMemory indicates the region cannot grow past its reservation.
	ErrOutOfMemory = errors.New("mem: out of memory")

	// ErrNegativeSbrk indicates an attempt to shrink the region; regions
	// only grow.
	ErrNegativeSbrk = errors.New("mem: sbrk size must not be negative")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("mem: region closed")
)

// Region is a flat memory region that grows monotonically at the top.
//
// Sbrk(0) is the idiomatic way to read the current break without growing.
type Region interface {
	// Sbrk grows the region by n bytes and returns the offset of the
	// previous top. Growth past the reservation fails with an error
	// wrapping ErrOutOfMemory; the region is unchanged on failure.
	Sbrk(n int) (int, error)

	// Bytes returns the live region [0, Size()). The slice is reissued
	// after growth; callers must re-fetch it rather than cache it.
	Bytes() []byte

	// Size returns the current break.
	Size() int
}

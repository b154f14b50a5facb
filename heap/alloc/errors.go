package alloc

import "errors"

var (
	// ErrBadSize indicates a degenerate request: zero bytes, or past the
	// 2 GiB request ceiling.
	ErrBadSize = errors.New("alloc: request size must be nonzero and below the request ceiling")

	// ErrBadRef indicates a reference that names no block: zero,
	// misaligned, or outside the arena.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrNoSpace indicates a freshly grown block still could not hold the
	// request. Growth failures themselves surface as wrapped mem errors.
	ErrNoSpace = errors.New("alloc: no free block large enough")
)

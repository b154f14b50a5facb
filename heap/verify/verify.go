// Package verify provides consistency checking for boundary-tag heaps.
// The checker is read-only, collects every violation it can find instead
// of halting on the first, and is meant for test-harness invocation
// between operations rather than production paths.
package verify

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Kind classifies a consistency violation.
type Kind int

const (
	// KindBadPrologue indicates malformed prologue tags.
	KindBadPrologue Kind = iota + 1
	// KindBadEpilogue indicates a malformed epilogue tag, or a block chain
	// that does not end exactly at the epilogue.
	KindBadEpilogue
	// KindTagMismatch indicates a block whose header and footer differ.
	KindTagMismatch
	// KindBadSize indicates a block size below the minimum or not 8-aligned.
	KindBadSize
	// KindMisaligned indicates a payload address off the 8-byte grid.
	KindMisaligned
	// KindAdjacentFree indicates two free blocks in a row, a coalescing miss.
	KindAdjacentFree
	// KindWalkEscaped indicates the block chain ran outside the arena.
	KindWalkEscaped
)

func (k Kind) String() string {
	switch k {
	case KindBadPrologue:
		return "bad-prologue"
	case KindBadEpilogue:
		return "bad-epilogue"
	case KindTagMismatch:
		return "tag-mismatch"
	case KindBadSize:
		return "bad-size"
	case KindMisaligned:
		return "misaligned"
	case KindAdjacentFree:
		return "adjacent-free"
	case KindWalkEscaped:
		return "walk-escaped"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Violation is one consistency finding at a specific arena offset.
type Violation struct {
	Kind    Kind   `json:"kind"`
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] offset 0x%X: %s", v.Kind, v.Offset, v.Message)
}

// Check walks the entire heap and reports every violation found: sentinel
// damage, tag mismatches, illegal sizes, misaligned payloads, adjacent
// free blocks, and a chain that misses the epilogue.
func Check(h *heap.Heap) *Report {
	r := &Report{HeapSize: h.Size()}

	pro := h.Prologue()
	if pro.Size() != format.PrologueSize || !pro.Allocated() || pro.Header() != pro.Footer() {
		r.addf(KindBadPrologue, pro.Offset(),
			"prologue header 0x%X footer 0x%X, want size %d allocated",
			pro.Header(), pro.Footer(), format.PrologueSize)
	}

	epi := h.Epilogue()
	if epi.Header() != format.EpilogueTag {
		r.addf(KindBadEpilogue, epi.Offset(),
			"epilogue tag 0x%X, want 0x%X", epi.Header(), format.EpilogueTag)
	}

	prevFree := false
	walkBroken := false
	end := format.FirstBlockOffset

	it := h.Blocks()
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.addf(KindWalkEscaped, end, "%v", err)
			walkBroken = true
			break
		}

		r.Blocks++
		size := b.Size()
		if size < format.MinBlockSize || !format.IsAligned8(size) {
			r.addf(KindBadSize, b.Offset(), "block size %d", size)
		}
		if !format.IsAligned8(b.PayloadOffset()) {
			r.addf(KindMisaligned, b.Offset(), "payload at %d off the 8-byte grid", b.PayloadOffset())
		}
		if b.Header() != b.Footer() {
			r.addf(KindTagMismatch, b.Offset(),
				"header 0x%X, footer 0x%X", b.Header(), b.Footer())
		}

		if b.Allocated() {
			r.AllocatedBytes += int64(size)
		} else {
			r.FreeBlocks++
			r.FreeBytes += int64(size)
			if prevFree {
				r.addf(KindAdjacentFree, b.Offset(), "free block follows a free block")
			}
		}
		prevFree = !b.Allocated()
		end = b.End()
	}

	if !walkBroken {
		if want := h.Epilogue().Offset(); end != want {
			r.addf(KindBadEpilogue, end,
				"block chain ends at %d, epilogue at %d", end, want)
		}
	}
	return r
}

// Dump writes one line per block: offset, state, and both tags. The
// verbose companion to Check for eyeballing a layout.
func Dump(w io.Writer, h *heap.Heap) error {
	pro := h.Prologue()
	if _, err := fmt.Fprintf(w, "0x%08X: prologue [%d:%c] [%d:%c]\n",
		pro.Offset(), pro.Size(), stateChar(pro.Allocated()),
		int(format.SizeOf(pro.Footer())), stateChar(format.IsAllocated(pro.Footer()))); err != nil {
		return err
	}

	it := h.Blocks()
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_, werr := fmt.Fprintf(w, "!! %v\n", err)
			return werr
		}
		if _, err := fmt.Fprintf(w, "0x%08X: block    [%d:%c] [%d:%c]\n",
			b.Offset(), b.Size(), stateChar(b.Allocated()),
			int(format.SizeOf(b.Footer())), stateChar(format.IsAllocated(b.Footer()))); err != nil {
			return err
		}
	}

	epi := h.Epilogue()
	_, err := fmt.Fprintf(w, "0x%08X: epilogue [%d:%c]\n",
		epi.Offset(), epi.Size(), stateChar(epi.Allocated()))
	return err
}

func stateChar(allocated bool) byte {
	if allocated {
		return 'a'
	}
	return 'f'
}

package trace

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
)

// Runner replays traces against one allocator. Like the checker it
// collects failures instead of halting, so a single run reports every
// problem a trace exposes.
type Runner struct {
	alloc *alloc.Allocator

	// CheckEvery runs the full consistency checker after every Nth
	// operation (and once at the end). Zero disables the per-op checks.
	CheckEvery int
}

// NewRunner returns a runner bound to a.
func NewRunner(a *alloc.Allocator) *Runner {
	return &Runner{alloc: a}
}

// Failure is one problem found during replay, tied to the operation that
// exposed it.
type Failure struct {
	OpIndex int    `json:"op_index"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	return fmt.Sprintf("op %d (%s): %s", f.OpIndex, f.Op, f.Message)
}

// Result summarizes one replay.
type Result struct {
	Ops      int       `json:"ops"`
	Failures []Failure `json:"failures,omitempty"`

	// PeakPayload is the maximum aggregate requested payload live at any
	// point of the replay.
	PeakPayload int64 `json:"peak_payload"`

	// HeapSize is the final arena size.
	HeapSize int `json:"heap_size"`

	// Utilization is PeakPayload over HeapSize: how much of the heap the
	// allocator actually turned into payload at the high-water mark.
	Utilization float64 `json:"utilization"`
}

// OK reports whether the replay finished without failures.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

// block tracks one live id during replay. The payload slice stays valid
// across heap growth because regions never move their backing array.
type block struct {
	ref     alloc.Ref
	payload []byte
	size    uint32
	live    bool
}

// Run replays t from the beginning. The allocator should be fresh; replay
// over a heap with prior allocations still works but skews utilization.
func (r *Runner) Run(t *Trace) *Result {
	res := &Result{Ops: len(t.Ops)}
	blocks := make([]block, t.IDs)
	var livePayload int64

	for i, op := range t.Ops {
		b := &blocks[op.ID]
		switch op.Kind {
		case OpAlloc:
			if b.live {
				res.fail(i, op, "allocate of a live id")
				continue
			}
			ref, payload, err := r.alloc.Malloc(op.Size)
			if err != nil {
				res.fail(i, op, "malloc: %v", err)
				continue
			}
			fill(payload[:op.Size], op.ID)
			*b = block{ref: ref, payload: payload, size: op.Size, live: true}
			livePayload += int64(op.Size)

		case OpRealloc:
			if !b.live {
				res.fail(i, op, "reallocate of a dead id")
				continue
			}
			if n := checkPattern(b.payload[:b.size], op.ID); n >= 0 {
				res.fail(i, op, "payload byte %d corrupted before realloc", n)
			}
			ref, payload, err := r.alloc.Realloc(b.ref, op.Size)
			if err != nil {
				res.fail(i, op, "realloc: %v", err)
				continue
			}
			fill(payload[:op.Size], op.ID)
			livePayload += int64(op.Size) - int64(b.size)
			b.ref, b.payload, b.size = ref, payload, op.Size

		case OpFree:
			if !b.live {
				res.fail(i, op, "free of a dead id")
				continue
			}
			if n := checkPattern(b.payload[:b.size], op.ID); n >= 0 {
				res.fail(i, op, "payload byte %d corrupted before free", n)
			}
			if err := r.alloc.Free(b.ref); err != nil {
				res.fail(i, op, "free: %v", err)
				continue
			}
			b.live = false
			livePayload -= int64(b.size)
		}

		if livePayload > res.PeakPayload {
			res.PeakPayload = livePayload
		}
		if r.CheckEvery > 0 && (i+1)%r.CheckEvery == 0 {
			r.check(res, i, op)
		}
	}

	r.check(res, len(t.Ops)-1, Op{Kind: OpFree})
	res.HeapSize = r.alloc.Heap().Size()
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	return res
}

func (r *Runner) check(res *Result, i int, op Op) {
	report := verify.Check(r.alloc.Heap())
	for _, v := range report.Violations {
		res.fail(i, op, "heap: %s", v)
	}
}

func (res *Result) fail(i int, op Op, msg string, args ...any) {
	res.Failures = append(res.Failures, Failure{
		OpIndex: i,
		Op:      op.Kind.String(),
		Message: fmt.Sprintf(msg, args...),
	})
}

// patternByte is the marker written across a block's payload: distinct
// between neighboring ids so a split that bleeds into the next block
// flips bytes the verifier will notice.
func patternByte(id int) byte { return byte(id&0x3F + 0x40) }

func fill(p []byte, id int) {
	b := patternByte(id)
	for i := range p {
		p[i] = b
	}
}

// checkPattern returns the index of the first byte that lost its marker,
// or -1 when the payload is intact.
func checkPattern(p []byte, id int) int {
	b := patternByte(id)
	for i := range p {
		if p[i] != b {
			return i
		}
	}
	return -1
}

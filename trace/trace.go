package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed indicates trace text that does not follow the format.
// Parse errors wrap it and carry the offending line number.
var ErrMalformed = errors.New("trace: malformed trace")

// OpKind identifies one of the three replayable operations.
type OpKind byte

const (
	// OpAlloc binds an id to a freshly allocated block.
	OpAlloc OpKind = 'a'
	// OpRealloc rebinds an id to a resized block.
	OpRealloc OpKind = 'r'
	// OpFree releases the block bound to an id.
	OpFree OpKind = 'f'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	default:
		return fmt.Sprintf("op(%c)", byte(k))
	}
}

// Op is a single trace operation. Size is meaningful for OpAlloc and
// OpRealloc only.
type Op struct {
	Kind OpKind
	ID   int
	Size uint32
}

// Trace is a parsed allocation trace.
type Trace struct {
	// SuggestedHeap is the first header line. Replay ignores it; it is
	// retained so tools can size regions the way the original harness did.
	SuggestedHeap int

	// IDs is the number of distinct block ids the operations use.
	IDs int

	// Weight scales this trace's contribution in aggregate scoring.
	Weight int

	Ops []Op
}

// ParseFile reads and parses the trace at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("trace: %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a trace from r. Malformed input fails with a descriptive
// error wrapping ErrMalformed; the line number in the message is 1-based.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	line := 0

	next := func() (string, bool) {
		for sc.Scan() {
			line++
			s := strings.TrimSpace(sc.Text())
			if s != "" {
				return s, true
			}
		}
		return "", false
	}

	header := func(name string) (int, error) {
		s, ok := next()
		if !ok {
			return 0, fmt.Errorf("line %d: missing %s header: %w", line+1, name, ErrMalformed)
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("line %d: bad %s header %q: %w", line, name, s, ErrMalformed)
		}
		return n, nil
	}

	t := &Trace{}
	var err error
	if t.SuggestedHeap, err = header("heap-size"); err != nil {
		return nil, err
	}
	if t.IDs, err = header("id-count"); err != nil {
		return nil, err
	}
	opCount, err := header("op-count")
	if err != nil {
		return nil, err
	}
	if t.Weight, err = header("weight"); err != nil {
		return nil, err
	}

	t.Ops = make([]Op, 0, opCount)
	for {
		s, ok := next()
		if !ok {
			break
		}
		op, err := parseOp(s, line, t.IDs)
		if err != nil {
			return nil, err
		}
		t.Ops = append(t.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	if len(t.Ops) != opCount {
		return nil, fmt.Errorf("header declares %d ops, trace holds %d: %w",
			opCount, len(t.Ops), ErrMalformed)
	}
	return t, nil
}

func parseOp(s string, line, ids int) (Op, error) {
	fields := strings.Fields(s)
	kind := OpKind(fields[0][0])
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("line %d: bad op %q: %w", line, s, ErrMalformed)
	}

	var want int
	switch kind {
	case OpAlloc, OpRealloc:
		want = 3
	case OpFree:
		want = 2
	default:
		return Op{}, fmt.Errorf("line %d: unknown op %q: %w", line, s, ErrMalformed)
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("line %d: op %q wants %d fields, got %d: %w",
			line, fields[0], want, len(fields), ErrMalformed)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 || id >= ids {
		return Op{}, fmt.Errorf("line %d: bad block id %q: %w", line, fields[1], ErrMalformed)
	}

	op := Op{Kind: kind, ID: id}
	if want == 3 {
		size, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil || size == 0 {
			return Op{}, fmt.Errorf("line %d: bad size %q: %w", line, fields[2], ErrMalformed)
		}
		op.Size = uint32(size)
	}
	return op, nil
}

package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders byte and block counts with digit grouping.
var printer = message.NewPrinter(language.English)

// Report is the outcome of one full-heap check: every violation found plus
// walk totals.
type Report struct {
	Violations []Violation `json:"violations"`

	Blocks         int   `json:"blocks"`
	FreeBlocks     int   `json:"free_blocks"`
	FreeBytes      int64 `json:"free_bytes"`
	AllocatedBytes int64 `json:"allocated_bytes"`
	HeapSize       int   `json:"heap_size"`
}

// OK reports whether the heap passed every check.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

func (r *Report) addf(kind Kind, off int, msg string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Kind:    kind,
		Offset:  off,
		Message: fmt.Sprintf(msg, args...),
	})
}

// FormatText renders the report for humans.
func (r *Report) FormatText() string {
	var sb strings.Builder
	if r.OK() {
		sb.WriteString("heap consistent\n")
	} else {
		printer.Fprintf(&sb, "%d violation(s)\n", len(r.Violations))
		for _, v := range r.Violations {
			sb.WriteString("  " + v.String() + "\n")
		}
	}
	printer.Fprintf(&sb, "blocks: %d (%d free)\n", r.Blocks, r.FreeBlocks)
	printer.Fprintf(&sb, "free bytes: %d\n", r.FreeBytes)
	printer.Fprintf(&sb, "allocated bytes: %d\n", r.AllocatedBytes)
	printer.Fprintf(&sb, "heap size: %d\n", r.HeapSize)
	return sb.String()
}

// FormatJSON renders the report as indented JSON.
func (r *Report) FormatJSON() (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("verify: marshal report: %w", err)
	}
	return string(out), nil
}

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/mem"
	"github.com/joshuapare/heapkit/trace"
)

var (
	replayChunk      int
	replayMaxHeap    int
	replayCheckEvery int
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().IntVar(&replayChunk, "chunk", 4096, "Heap growth chunk in bytes")
	cmd.Flags().IntVar(&replayMaxHeap, "max-heap", 0, "Heap reservation ceiling in bytes (0 = default)")
	cmd.Flags().
		IntVar(&replayCheckEvery, "check-every", 0, "Run the consistency checker every N operations (0 = off)")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay allocation traces against a fresh heap",
		Long: `The replay command parses one or more allocation trace files and
replays each against its own freshly bootstrapped heap. It reports per-trace
operation counts, peak payload, final heap size, and utilization.

Example:
  heapctl replay short.rep
  heapctl replay traces/*.rep --check-every 100
  heapctl replay short.rep --chunk 1024 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// replayOutcome is the per-trace result row.
type replayOutcome struct {
	Trace       string      `json:"trace"`
	Ops         int         `json:"ops"`
	Failures    int         `json:"failures"`
	PeakPayload int64       `json:"peak_payload"`
	HeapSize    int         `json:"heap_size"`
	Utilization float64     `json:"utilization"`
	Stats       alloc.Stats `json:"stats"`
}

func runReplay(paths []string) error {
	outcomes := make([]replayOutcome, 0, len(paths))
	failed := 0

	for _, path := range paths {
		logrus.Debugf("replaying %s", path)
		out, res, err := replayOne(path)
		if err != nil {
			return err
		}
		outcomes = append(outcomes, out)
		if !res.OK() {
			failed++
			for _, f := range res.Failures {
				logrus.Errorf("%s: %s", path, f)
			}
		}
	}

	if jsonOut {
		if err := printJSON(outcomes); err != nil {
			return err
		}
	} else {
		printInfo("%-30s %8s %8s %12s %10s %6s\n",
			"TRACE", "OPS", "FAILS", "PEAK", "HEAP", "UTIL")
		for _, out := range outcomes {
			printInfo("%-30s %8d %8d %12d %10d %5.1f%%\n",
				out.Trace, out.Ops, out.Failures, out.PeakPayload,
				out.HeapSize, out.Utilization*100)
			if verbose {
				printVerbose("  grows: %d (%d bytes), splits: %d, merges: %d fwd / %d bwd\n",
					out.Stats.GrowCalls, out.Stats.GrowBytes, out.Stats.SplitCount,
					out.Stats.CoalesceForward, out.Stats.CoalesceBackward)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d trace(s) failed", failed, len(paths))
	}
	return nil
}

// replayOne parses and replays one trace on a fresh heap.
func replayOne(path string) (replayOutcome, *trace.Result, error) {
	tr, err := trace.ParseFile(path)
	if err != nil {
		return replayOutcome{}, nil, err
	}

	a, err := newAllocator(replayChunk, replayMaxHeap)
	if err != nil {
		return replayOutcome{}, nil, err
	}

	runner := trace.NewRunner(a)
	runner.CheckEvery = replayCheckEvery
	res := runner.Run(tr)

	return replayOutcome{
		Trace:       path,
		Ops:         res.Ops,
		Failures:    len(res.Failures),
		PeakPayload: res.PeakPayload,
		HeapSize:    res.HeapSize,
		Utilization: res.Utilization,
		Stats:       a.Stats(),
	}, res, nil
}

// newAllocator wires the region-heap-allocator stack the commands share.
func newAllocator(chunk, maxHeap int) (*alloc.Allocator, error) {
	h, err := heap.New(mem.NewBuffer(maxHeap))
	if err != nil {
		return nil, fmt.Errorf("bootstrap heap: %w", err)
	}
	a, err := alloc.New(h, &alloc.Config{GrowthChunk: chunk})
	if err != nil {
		return nil, fmt.Errorf("create allocator: %w", err)
	}
	return a, nil
}

package main

import (
	"fmt"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/mem"
	"github.com/joshuapare/heapkit/trace"
)

var (
	benchRuns    int
	benchChunk   int
	benchMaxHeap int
	benchCPUProf bool
	benchMemProf bool
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchRuns, "runs", 100, "Number of timed replays")
	cmd.Flags().IntVar(&benchChunk, "chunk", 4096, "Heap growth chunk in bytes")
	cmd.Flags().IntVar(&benchMaxHeap, "max-heap", 0, "Heap reservation ceiling in bytes (0 = default)")
	cmd.Flags().BoolVar(&benchCPUProf, "cpu-profile", false, "Write a CPU profile to the current directory")
	cmd.Flags().BoolVar(&benchMemProf, "mem-profile", false, "Write a memory profile to the current directory")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <trace>",
		Short: "Measure replay throughput for a trace",
		Long: `The bench command replays a trace repeatedly against a reused
region and reports wall time per replay and operations per second. The
region's break is rewound between runs, so only the first replay pays the
reservation cost.

Example:
  heapctl bench short.rep
  heapctl bench short.rep --runs 1000 --cpu-profile`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(args)
		},
	}
	return cmd
}

// benchResult is the measurement summary.
type benchResult struct {
	Trace     string  `json:"trace"`
	Runs      int     `json:"runs"`
	Ops       int     `json:"ops"`
	Total     string  `json:"total"`
	PerRun    string  `json:"per_run"`
	OpsPerSec float64 `json:"ops_per_sec"`
}

func runBench(args []string) error {
	path := args[0]
	if benchRuns <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", benchRuns)
	}

	tr, err := trace.ParseFile(path)
	if err != nil {
		return err
	}

	if benchCPUProf {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		logrus.Info("Initiated cpu-profiling data collection.")
	} else if benchMemProf {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		logrus.Info("Initiated memory-profiling data collection.")
	}

	region := mem.NewBuffer(benchMaxHeap)

	// Warm-up replay: verifies the trace is replayable and faults in the
	// reservation before the clock starts.
	if res, err := replayOnce(region, tr); err != nil {
		return err
	} else if !res.OK() {
		return fmt.Errorf("%s: trace fails replay, not benchmarking: %s", path, res.Failures[0])
	}

	start := time.Now()
	for i := 0; i < benchRuns; i++ {
		if _, err := replayOnce(region, tr); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	perRun := elapsed / time.Duration(benchRuns)
	totalOps := benchRuns * len(tr.Ops)
	opsPerSec := float64(totalOps) / elapsed.Seconds()

	result := benchResult{
		Trace:     path,
		Runs:      benchRuns,
		Ops:       len(tr.Ops),
		Total:     elapsed.String(),
		PerRun:    perRun.String(),
		OpsPerSec: opsPerSec,
	}

	if jsonOut {
		return printJSON(result)
	}
	printInfo("%s: %d ops x %d runs\n", path, result.Ops, result.Runs)
	printInfo("  total: %s\n", result.Total)
	printInfo("  per run: %s\n", result.PerRun)
	printInfo("  ops/s: %.0f\n", result.OpsPerSec)
	return nil
}

// replayOnce rewinds the region and replays the trace on a fresh heap over
// the same reservation.
func replayOnce(region *mem.Buffer, tr *trace.Trace) (*trace.Result, error) {
	region.Reset()
	h, err := heap.New(region)
	if err != nil {
		return nil, fmt.Errorf("bootstrap heap: %w", err)
	}
	a, err := alloc.New(h, &alloc.Config{GrowthChunk: benchChunk})
	if err != nil {
		return nil, fmt.Errorf("create allocator: %w", err)
	}
	return trace.NewRunner(a).Run(tr), nil
}

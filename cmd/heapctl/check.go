package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/trace"
)

var (
	checkChunk   int
	checkMaxHeap int
)

func init() {
	cmd := newCheckCmd()
	cmd.Flags().IntVar(&checkChunk, "chunk", 4096, "Heap growth chunk in bytes")
	cmd.Flags().IntVar(&checkMaxHeap, "max-heap", 0, "Heap reservation ceiling in bytes (0 = default)")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace with full consistency checking",
		Long: `The check command replays a trace with the heap consistency checker
running after every operation, then prints a final report of the heap. Any
violation (tag mismatch, adjacent free blocks, sentinel damage, misaligned
payload) fails the command.

Example:
  heapctl check short.rep
  heapctl check short.rep --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

func runCheck(args []string) error {
	path := args[0]
	printVerbose("Checking trace: %s\n", path)

	tr, err := trace.ParseFile(path)
	if err != nil {
		return err
	}

	a, err := newAllocator(checkChunk, checkMaxHeap)
	if err != nil {
		return err
	}

	runner := trace.NewRunner(a)
	runner.CheckEvery = 1
	res := runner.Run(tr)

	report := verify.Check(a.Heap())
	if jsonOut {
		if err := printJSON(map[string]interface{}{
			"trace":  path,
			"replay": res,
			"report": report,
		}); err != nil {
			return err
		}
	} else {
		printInfo("%s: %d ops, %d failure(s)\n", path, res.Ops, len(res.Failures))
		for _, f := range res.Failures {
			printInfo("  %s\n", f)
		}
		printInfo("%s", report.FormatText())
	}

	if !res.OK() || !report.OK() {
		return fmt.Errorf("%s: consistency check failed", path)
	}
	return nil
}

package main

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return buf.String(), fnErr
}

// resetFlags restores the command flags mutated by a test
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	replayChunk = 4096
	replayMaxHeap = 0
	replayCheckEvery = 0
	checkChunk = 4096
	checkMaxHeap = 0
	benchRuns = 100
	benchChunk = 4096
	benchMaxHeap = 0
}

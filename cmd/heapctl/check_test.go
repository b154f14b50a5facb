package main

import (
	"strings"
	"testing"
)

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name        string
		trace       string
		wantJSON    bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "clean trace passes",
			trace:       "testdata/short.rep",
			wantContain: []string{"heap consistent", "0 failure(s)"},
		},
		{
			name:        "clean trace as JSON",
			trace:       "testdata/short.rep",
			wantJSON:    true,
			wantContain: []string{`"violations": null`, `"ops": 8`},
		},
		{
			name:    "malformed trace",
			trace:   "testdata/malformed.rep",
			wantErr: true,
		},
		{
			name:    "missing trace",
			trace:   "testdata/nope.rep",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			out, err := captureOutput(t, func() error {
				return runCheck([]string{tt.trace})
			})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got output:\n%s", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestBenchCommandRejectsBadRuns(t *testing.T) {
	resetFlags()
	benchRuns = 0
	if err := runBench([]string{"testdata/short.rep"}); err == nil {
		t.Fatal("expected error for --runs 0")
	}
}

func TestBenchCommandRuns(t *testing.T) {
	resetFlags()
	benchRuns = 2

	out, err := captureOutput(t, func() error {
		return runBench([]string{"testdata/short.rep"})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "ops/s") {
		t.Errorf("output missing throughput line:\n%s", out)
	}
}

package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dl/linematch/internal/capture"
	"github.com/dl/linematch/internal/expect"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/output"
	"github.com/dl/linematch/internal/report"
)

func writeExpectations(t *testing.T, dir string, n int) []string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "status.txt"), []byte("build succeeded.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	paths := make([]string, n)
	for i := range n {
		want := "build succeeded."
		if i%2 == 1 {
			want = "build failed."
		}
		body := fmt.Sprintf("streams: {status: status.txt}\nexpect:\n  - match: %q\n", want)
		paths[i] = filepath.Join(dir, fmt.Sprintf("e%02d.yaml", i))
		if err := os.WriteFile(paths[i], []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func collect(ch <-chan output.Result) map[int]output.Result {
	got := make(map[int]output.Result)
	for r := range ch {
		got[r.SeqNum] = r
	}
	return got
}

func TestScheduler_Run(t *testing.T) {
	dir := t.TempDir()
	paths := writeExpectations(t, dir, 9)
	runner := expect.NewRunner(capture.NewFileReader(), options.Set{}, report.PlainStyles(), nil)

	for _, workers := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got := collect(New(workers, runner).Run(paths))
			if len(got) != len(paths) {
				t.Fatalf("got %d results, want %d", len(got), len(paths))
			}
			for i, p := range paths {
				r, ok := got[i+1]
				if !ok {
					t.Fatalf("missing sequence number %d", i+1)
				}
				if r.Source != p {
					t.Errorf("seq %d: source %q, want %q", i+1, r.Source, p)
				}
				if r.Passed() != (i%2 == 0) {
					t.Errorf("seq %d: passed = %v", i+1, r.Passed())
				}
			}
		})
	}
}

func TestScheduler_LoadError(t *testing.T) {
	runner := expect.NewRunner(capture.NewFileReader(), options.Set{}, report.PlainStyles(), nil)
	got := collect(New(2, runner).Run([]string{filepath.Join(t.TempDir(), "missing.yaml")}))

	r := got[1]
	if r.Err == nil {
		t.Fatal("expected error for missing expectation file")
	}
	if r.Outcomes != nil {
		t.Errorf("outcomes = %v, want nil", r.Outcomes)
	}
}

func TestScheduler_NoPaths(t *testing.T) {
	runner := expect.NewRunner(capture.NewFileReader(), options.Set{}, report.PlainStyles(), nil)
	if got := collect(New(2, runner).Run(nil)); len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
}

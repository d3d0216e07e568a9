package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/capture"
	"github.com/dl/linematch/internal/expect"
)

func lineResult(source string, lines map[int]string, order ...int) Result {
	r := Result{Source: source, Lines: true}
	for _, off := range order {
		r.Blocks = append(r.Blocks, buffer.NewBlock([]string{lines[off]}, off))
	}
	return r
}

func TestTextFormatter_Lines(t *testing.T) {
	f := NewTextFormatter(NewStyles(), true, false, false)
	result := lineResult("build.log", map[int]string{0: "hello world", 2: "hello again"}, 0, 2)

	tests := []struct {
		name  string
		multi bool
		want  string
	}{
		{"single source", false, "0:hello world\n2:hello again\n"},
		{"multi source", true, "build.log:0:hello world\nbuild.log:2:hello again\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(f.Format(nil, result, tt.multi))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextFormatter_NoOffsets(t *testing.T) {
	f := NewTextFormatter(Styles{}, false, false, false)
	result := lineResult("", map[int]string{4: "match line"}, 4)

	got := string(f.Format(nil, result, true))
	want := "(stdin):match line\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_KeptLineBreaks(t *testing.T) {
	f := NewTextFormatter(Styles{}, false, false, false)
	result := lineResult("x", map[int]string{0: "a\n", 1: "b"}, 0, 1)

	got := string(f.Format(nil, result, false))
	if got != "a\nb\n" {
		t.Errorf("got %q, want %q", got, "a\nb\n")
	}
}

func TestTextFormatter_Blocks(t *testing.T) {
	f := NewTextFormatter(Styles{}, true, false, false)
	result := Result{
		Source: "x",
		Blocks: []buffer.Block{
			buffer.NewBlock([]string{"a", "b"}, 0),
			buffer.NewBlock([]string{"a", "b"}, 5),
		},
	}

	got := string(f.Format(nil, result, false))
	want := "0:a\n1:b\n--\n5:a\n6:b\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_CountOnly(t *testing.T) {
	f := NewTextFormatter(Styles{}, false, true, false)
	result := lineResult("test.txt", map[int]string{0: "a", 1: "b", 2: "c"}, 0, 1, 2)

	// Single source
	got := string(f.Format(nil, result, false))
	if got != "3\n" {
		t.Errorf("count single: got %q, want %q", got, "3\n")
	}

	// Multi source
	got = string(f.Format(nil, result, true))
	if got != "test.txt:3\n" {
		t.Errorf("count multi: got %q, want %q", got, "test.txt:3\n")
	}
}

func TestTextFormatter_Outcomes(t *testing.T) {
	f := NewTextFormatter(Styles{}, false, false, false)
	result := Result{
		Source: "check.yaml",
		Outcomes: []expect.Outcome{
			{Index: 0, Name: "succeeded", Passed: true},
			{Index: 1, Kind: expect.KindMatch, Stream: capture.Warning, Message: "line pattern\n\n    x"},
			{Index: 2, Stream: capture.Status, Err: errors.New("bad flavor")},
		},
	}

	got := string(f.Format(nil, result, false))
	want := "PASS check.yaml:1 succeeded\n" +
		"FAIL check.yaml:2 match warning\n" +
		"    line pattern\n" +
		"    \n" +
		"        x\n" +
		"ERROR check.yaml:3 status\n" +
		"    bad flavor\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_FailureAndError(t *testing.T) {
	f := NewTextFormatter(Styles{}, false, false, false)

	got := string(f.Format(nil, Result{Failure: "line pattern\n\n    x"}, false))
	if got != "line pattern\n\n    x\n" {
		t.Errorf("failure: got %q", got)
	}

	got = string(f.Format(nil, Result{Source: "x", Err: errors.New("boom")}, false))
	if got != "" {
		t.Errorf("error result should produce no output, got %q", got)
	}
}

func TestResult_Passed(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{"empty", Result{}, true},
		{"error", Result{Err: errors.New("x")}, false},
		{"failure", Result{Failure: "x"}, false},
		{"all passed", Result{Outcomes: []expect.Outcome{{Passed: true}}}, true},
		{"one failed", Result{Outcomes: []expect.Outcome{{Passed: true}, {}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Passed(); got != tt.want {
				t.Errorf("Passed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func tempWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return NewFileWriter(f), path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestWriter_Writev(t *testing.T) {
	w, path := tempWriter(t)
	if err := w.Writev([]byte("a\n"), nil, []byte("b\n"), []byte{}); err != nil {
		t.Fatalf("Writev() error: %v", err)
	}
	if err := w.Write([]byte("c\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if got := readBack(t, path); got != "a\nb\nc\n" {
		t.Errorf("got %q", got)
	}
}

func TestOrderedWriter(t *testing.T) {
	w, path := tempWriter(t)
	ow := NewOrderedWriter(w, NewTextFormatter(Styles{}, false, false, false), true)

	results := make(chan Result, 4)
	third := lineResult("c", map[int]string{0: "3"}, 0)
	third.SeqNum = 3
	second := Result{Source: "b", SeqNum: 2, Err: errors.New("unreadable")}
	first := lineResult("a", map[int]string{0: "1"}, 0)
	first.SeqNum = 1
	results <- third
	results <- second
	results <- first
	close(results)

	var seen int
	if err := ow.WriteOrdered(results, func(Result) { seen++ }); err != nil {
		t.Fatalf("WriteOrdered() error: %v", err)
	}
	if seen != 3 {
		t.Errorf("callback saw %d results, want 3", seen)
	}
	if got := readBack(t, path); got != "a:1\nc:3\n" {
		t.Errorf("got %q, want %q", got, "a:1\nc:3\n")
	}
}

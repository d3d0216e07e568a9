package capture

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileReader_Read(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.txt")
	content := []byte("building [html]...\nbuild succeeded.\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	r := NewFileReader()
	result, err := r.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer result.Closer()

	if !bytes.Equal(result.Data, content) {
		t.Errorf("data = %q, want %q", result.Data, content)
	}
}

func TestFileReader_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewFileReader().Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if result.Data != nil {
		t.Errorf("data = %v, want nil for empty file", result.Data)
	}
	if err := result.Closer(); err != nil {
		t.Errorf("Closer() error: %v", err)
	}
}

func TestFileReader_Errors(t *testing.T) {
	r := NewFileReader()
	if _, err := r.Read("/nonexistent/path/file.txt"); err == nil {
		t.Error("expected error for nonexistent file")
	}
	if _, err := r.Read(t.TempDir()); err == nil {
		t.Error("expected error for a directory")
	}
}

func TestReadText_ReleasesBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}

	first, err := ReadText(NewFileReader(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("other"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadText(NewFileReader(), path); err != nil {
		t.Fatal(err)
	}
	if first != "first" {
		t.Errorf("text changed after buffer reuse: %q", first)
	}
}

func TestStdinReader(t *testing.T) {
	r := NewStreamReader(strings.NewReader("x\ny\n"))
	text, err := ReadText(r, "")
	if err != nil {
		t.Fatal(err)
	}
	if text != "x\ny\n" {
		t.Errorf("text = %q", text)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	status := filepath.Join(dir, "status.txt")
	warning := filepath.Join(dir, "warning.txt")
	os.WriteFile(status, []byte("ok\n"), 0644)
	os.WriteFile(warning, []byte("WARNING: x\n"), 0644)

	c, err := Load(NewFileReader(), map[Stream]string{Status: status, Warning: warning})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Status() != "ok\n" || c.Warning() != "WARNING: x\n" {
		t.Errorf("got status %q warning %q", c.Status(), c.Warning())
	}

	c, err = Load(NewFileReader(), map[Stream]string{Status: status})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Text(Warning); err == nil {
		t.Error("expected error for a stream that was not loaded")
	}

	if _, err := Load(NewFileReader(), map[Stream]string{Status: filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for a missing capture")
	}
}

func TestParseStream(t *testing.T) {
	if s, err := ParseStream("warning"); err != nil || s != Warning {
		t.Errorf("ParseStream(warning) = %q, %v", s, err)
	}
	if _, err := ParseStream("stderr"); err == nil {
		t.Error("expected error for unknown stream")
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"text only", []byte("hello world\nfoo bar\n"), false},
		{"empty", []byte{}, false},
		{"nul byte", []byte("hello\x00world"), true},
		{"nul at start", []byte{0, 'h', 'e', 'l', 'l', 'o'}, true},
		{"nul at 8KB boundary", append(bytes.Repeat([]byte("a"), 8191), 0), true},
		{"nul past 8KB", append(append(bytes.Repeat([]byte("a"), 8192), 'b'), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinary(tt.data); got != tt.want {
				t.Errorf("IsBinary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadText_Binary(t *testing.T) {
	_, err := ReadText(NewStreamReader(strings.NewReader("ok\x00")), "")
	if !errors.Is(err, ErrBinary) {
		t.Errorf("err = %v, want ErrBinary", err)
	}
}

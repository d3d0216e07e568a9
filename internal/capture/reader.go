// Package capture loads the status and warning streams a build produced,
// from capture files or from standard input.
package capture

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// ReadResult holds the bytes of a capture and the function releasing them.
// Data is only valid until Closer is called.
type ReadResult struct {
	Data   []byte
	Closer func() error
}

func noopCloser() error { return nil }

// Reader reads a capture by path.
type Reader interface {
	Read(path string) (ReadResult, error)
}

// bufPool holds read buffers as *[]byte so grown arrays are reused.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// FileReader reads capture files with open, fstat and pread into pooled
// buffers.
type FileReader struct{}

// NewFileReader creates a FileReader.
func NewFileReader() *FileReader {
	return &FileReader{}
}

func (r *FileReader) Read(path string) (ReadResult, error) {
	fd, err := openFile(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("open %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return ReadResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Mode&unix.S_IFMT == unix.S_IFDIR {
		unix.Close(fd)
		return ReadResult{}, fmt.Errorf("read %s: is a directory", path)
	}

	if stat.Size == 0 {
		unix.Close(fd)
		return ReadResult{Closer: noopCloser}, nil
	}

	res, err := readAll(fd, stat.Size)
	if err != nil {
		return ReadResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// readAll reads size bytes from fd into a pooled buffer and closes fd.
func readAll(fd int, size int64) (ReadResult, error) {
	defer unix.Close(fd)

	bp := bufPool.Get().(*[]byte)
	buf := *bp
	if cap(buf) < int(size) {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}

	var total int
	for total < int(size) {
		n, err := unix.Pread(fd, buf[total:], int64(total))
		if err != nil {
			*bp = buf[:0]
			bufPool.Put(bp)
			return ReadResult{}, err
		}
		if n == 0 {
			break
		}
		total += n
	}

	return ReadResult{
		Data: buf[:total],
		Closer: func() error {
			*bp = buf[:0]
			bufPool.Put(bp)
			return nil
		},
	}, nil
}

func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME|unix.O_CLOEXEC, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	}
	return fd, err
}

// StdinReader reads everything from an io.Reader, usually standard input.
// The path argument is ignored.
type StdinReader struct {
	in io.Reader
}

// NewStreamReader reads from in.
func NewStreamReader(in io.Reader) *StdinReader {
	return &StdinReader{in: in}
}

func (r *StdinReader) Read(_ string) (ReadResult, error) {
	data, err := io.ReadAll(r.in)
	if err != nil {
		return ReadResult{}, fmt.Errorf("read stdin: %w", err)
	}
	return ReadResult{Data: data, Closer: noopCloser}, nil
}

// ReadText reads path with r and returns its content as a string. The
// underlying buffer is released before returning. Binary content is
// rejected with ErrBinary.
func ReadText(r Reader, path string) (string, error) {
	res, err := r.Read(path)
	if err != nil {
		return "", err
	}
	var text string
	if IsBinary(res.Data) {
		err = fmt.Errorf("%s: %w", displayPath(path), ErrBinary)
	} else {
		text = string(res.Data)
	}
	if res.Closer != nil {
		if cerr := res.Closer(); cerr != nil && err == nil {
			err = fmt.Errorf("release %s: %w", path, cerr)
		}
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func displayPath(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}

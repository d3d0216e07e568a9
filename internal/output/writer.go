package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to a file descriptor, using writev for
// batching.
type Writer struct {
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

// NewFileWriter creates a Writer that writes to f. f must stay open while
// the writer is in use.
func NewFileWriter(f *os.File) *Writer {
	return &Writer{fd: int(f.Fd())}
}

// Write writes the given bytes using writev for scatter-gather I/O.
func (w *Writer) Write(data []byte) error {
	return w.Writev(data)
}

// Writev writes every chunk in order with as few syscalls as possible.
func (w *Writer) Writev(chunks ...[]byte) error {
	iovs := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		if len(c) > 0 {
			iovs = append(iovs, c)
		}
	}
	for len(iovs) > 0 {
		n, err := unix.Writev(w.fd, iovs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		for n > 0 && len(iovs) > 0 {
			if n < len(iovs[0]) {
				iovs[0] = iovs[0][n:]
				n = 0
				break
			}
			n -= len(iovs[0])
			iovs = iovs[1:]
		}
	}
	return nil
}

// OrderedWriter receives results from a channel and writes them in sequence order.
// This ensures output is deterministic even with parallel workers.
type OrderedWriter struct {
	writer      *Writer
	formatter   Formatter
	multiSource bool
	buf         []byte
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w *Writer, f Formatter, multiSource bool) *OrderedWriter {
	return &OrderedWriter{
		writer:      w,
		formatter:   f,
		multiSource: multiSource,
	}
}

// WriteOrdered consumes results from the channel, buffering out-of-order results
// and writing them in sequence-number order. onResult is called for every
// result in arrival order. Sequence numbers start at 1.
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onResult func(Result)) error {
	nextSeq := 1
	pending := make(map[int]Result)
	var werr error

	for r := range results {
		if onResult != nil {
			onResult(r)
		}

		if r.SeqNum != nextSeq {
			pending[r.SeqNum] = r
			continue
		}
		if err := ow.writeResult(r); err != nil && werr == nil {
			werr = err
		}
		nextSeq++
		// Flush any consecutive pending results
		for {
			p, ok := pending[nextSeq]
			if !ok {
				break
			}
			if err := ow.writeResult(p); err != nil && werr == nil {
				werr = err
			}
			delete(pending, nextSeq)
			nextSeq++
		}
	}
	return werr
}

func (ow *OrderedWriter) writeResult(r Result) error {
	if r.Err != nil {
		return nil
	}
	ow.buf = ow.formatter.Format(ow.buf[:0], r, ow.multiSource)
	return ow.writer.Write(ow.buf)
}

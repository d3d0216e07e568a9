package buffer

import (
	"fmt"
	"slices"
)

// Line is a single cleaned line and its zero-based offset in the source.
type Line struct {
	Text   string
	Offset int
}

func (l Line) String() string { return l.Text }

// Span is a half-open index range [Start, Stop) into a line sequence.
type Span struct {
	Start int
	Stop  int
}

// Len returns the number of indices covered by the span.
func (s Span) Len() int {
	if s.Stop <= s.Start {
		return 0
	}
	return s.Stop - s.Start
}

// Block is a contiguous run of lines starting at Offset in its source.
// A Block never exposes its backing slice, so it is immutable once built.
type Block struct {
	lines  []string
	offset int
}

// NewBlock copies lines into a block located at offset. It panics if offset
// is negative.
func NewBlock(lines []string, offset int) Block {
	if offset < 0 {
		panic(fmt.Sprintf("buffer: negative block offset %d", offset))
	}
	return Block{lines: slices.Clone(lines), offset: offset}
}

// wrap builds a block over lines without copying. Callers must not retain or
// modify lines afterwards.
func wrap(lines []string, offset int) Block {
	return Block{lines: lines, offset: offset}
}

// Offset is the index of the first line in the source.
func (b Block) Offset() int { return b.offset }

// Len is the number of lines.
func (b Block) Len() int { return len(b.lines) }

// Empty reports whether the block has no line.
func (b Block) Empty() bool { return len(b.lines) == 0 }

// Text returns the i-th line of the block.
func (b Block) Text(i int) string { return b.lines[i] }

// Lines returns a copy of the block's lines.
func (b Block) Lines() []string { return slices.Clone(b.lines) }

// At returns the i-th line with its offset in the source.
func (b Block) At(i int) Line {
	return Line{Text: b.lines[i], Offset: b.offset + i}
}

// Each calls fn for every line in order.
func (b Block) Each(fn func(Line) bool) {
	for i, text := range b.lines {
		if !fn(Line{Text: text, Offset: b.offset + i}) {
			return
		}
	}
}

// Slice returns the sub-block of lines [i, j), with its offset adjusted.
func (b Block) Slice(i, j int) Block {
	return wrap(b.lines[i:j:j], b.offset+i)
}

// Window returns the span this block occupies in its source.
func (b Block) Window() Span {
	return Span{Start: b.offset, Stop: b.offset + len(b.lines)}
}

// Context returns the spans of at most delta lines before and after the
// block, clipped to a source of limit lines.
func (b Block) Context(delta, limit int) (before, after Span) {
	if limit < 0 {
		limit = 0
	}
	// No span reaches further than limit lines, so a larger delta is
	// clamped before it can overflow.
	delta = min(max(delta, 0), limit)

	before = Span{Start: max(0, b.offset-delta), Stop: min(b.offset, limit)}
	stop := b.offset + len(b.lines)
	after = Span{Start: min(stop, limit), Stop: min(stop+delta, limit)}
	return before, after
}

// Equal reports whether both blocks have the same offset and lines.
func (b Block) Equal(other Block) bool {
	return b.offset == other.offset && slices.Equal(b.lines, other.lines)
}

// ContainedIn reports whether the block's window lies inside source's window
// and its lines equal the corresponding source lines.
func (b Block) ContainedIn(source Block) bool {
	start := b.offset - source.offset
	if start < 0 || start+len(b.lines) > len(source.lines) {
		return false
	}
	return slices.Equal(b.lines, source.lines[start:start+len(b.lines)])
}

func (b Block) String() string {
	return fmt.Sprintf("Block(%q, @=%d, #=%d)", b.lines, b.offset, len(b.lines))
}

// FromLines wraps an owned slice of cleaned lines as a source block at offset 0.
// The slice must not be modified afterwards.
func FromLines(lines []string) Block {
	return wrap(lines, 0)
}

package matcher

import (
	"iter"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/pattern"
)

type query struct {
	count   int
	counted bool
	context int
	flavor  pattern.Flavor
}

// QueryOption tunes a single query or assertion.
type QueryOption func(*query)

// Count makes AssertMatch and AssertBlock require exactly n distinct matches
// instead of at least one.
func Count(n int) QueryOption {
	return func(q *query) { q.count, q.counted = n, true }
}

// Context sets how many lines AssertNoMatch and AssertNoBlock show around
// the offending match. The default is 3.
func Context(n int) QueryOption {
	return func(q *query) { q.context = max(n, 0) }
}

// WithFlavor interprets literal patterns with f for this call only.
func WithFlavor(f pattern.Flavor) QueryOption {
	return func(q *query) { q.flavor = f }
}

// DefaultContext is the number of lines shown around a forbidden match.
const DefaultContext = 3

func (m *LineMatcher) query(opts []QueryOption) query {
	q := query{context: DefaultContext}
	for _, o := range opts {
		o(&q)
	}
	if q.flavor == "" {
		q.flavor = m.top().resolved.Flavor
	}
	return q
}

// IterFind yields the lines matching at least one of the patterns of spec,
// in order. An empty spec yields nothing. Iterating again rescans the lines.
func (m *LineMatcher) IterFind(spec pattern.Spec, opts ...QueryOption) (iter.Seq[buffer.Line], error) {
	q := m.query(opts)
	return m.iterLines(pattern.ToLinePatterns(spec), q.flavor)
}

// Find collects IterFind.
func (m *LineMatcher) Find(spec pattern.Spec, opts ...QueryOption) ([]buffer.Line, error) {
	seq, err := m.IterFind(spec, opts...)
	if err != nil {
		return nil, err
	}
	var out []buffer.Line
	for line := range seq {
		out = append(out, line)
	}
	return out, nil
}

// IterFindBlocks yields the non-overlapping blocks whose lines match the
// patterns of spec one to one. Once a block is found, the scan resumes on
// the line following it.
func (m *LineMatcher) IterFindBlocks(spec pattern.Spec, opts ...QueryOption) (iter.Seq[buffer.Block], error) {
	patterns, err := pattern.ToBlockPattern(spec)
	if err != nil {
		return nil, err
	}
	q := m.query(opts)
	return m.iterBlocks(patterns, q.flavor)
}

// FindBlocks collects IterFindBlocks.
func (m *LineMatcher) FindBlocks(spec pattern.Spec, opts ...QueryOption) ([]buffer.Block, error) {
	seq, err := m.IterFindBlocks(spec, opts...)
	if err != nil {
		return nil, err
	}
	var out []buffer.Block
	for b := range seq {
		out = append(out, b)
	}
	return out, nil
}

func (m *LineMatcher) iterLines(patterns []pattern.Pattern, flavor pattern.Flavor) (iter.Seq[buffer.Line], error) {
	if len(patterns) == 0 {
		return func(func(buffer.Line) bool) {}, nil
	}
	compiled, err := pattern.Compile(patterns, flavor)
	if err != nil {
		return nil, err
	}

	return func(yield func(buffer.Line) bool) {
		lines := m.Lines()
		for i := range lines.Len() {
			text := lines.Text(i)
			for _, c := range compiled {
				if c.Match(text) {
					if !yield(lines.At(i)) {
						return
					}
					break
				}
			}
		}
	}, nil
}

func (m *LineMatcher) iterBlocks(patterns []pattern.Pattern, flavor pattern.Flavor) (iter.Seq[buffer.Block], error) {
	if len(patterns) == 0 {
		return func(func(buffer.Block) bool) {}, nil
	}
	compiled, err := pattern.Compile(patterns, flavor)
	if err != nil {
		return nil, err
	}

	width := len(compiled)
	return func(yield func(buffer.Block) bool) {
		lines := m.Lines()
		for start := 0; start+width <= lines.Len(); {
			if !matchWindow(compiled, lines, start) {
				start++
				continue
			}
			if !yield(lines.Slice(start, start+width)) {
				return
			}
			start += width
		}
	}, nil
}

func matchWindow(compiled []*pattern.Compiled, lines buffer.Block, start int) bool {
	for j, c := range compiled {
		if !c.Match(lines.Text(start + j)) {
			return false
		}
	}
	return true
}

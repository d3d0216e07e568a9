package matcher

import (
	"errors"
	"iter"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/pattern"
	"github.com/dl/linematch/internal/report"
)

// AssertionError is returned by the Assert methods when the expected match
// condition does not hold. Its message is the rendered diagnostic.
type AssertionError struct {
	Kind    report.Kind
	Message string
}

func (e *AssertionError) Error() string { return e.Message }

// IsAssertion reports whether err is, or wraps, an *AssertionError.
func IsAssertion(err error) bool {
	var aerr *AssertionError
	return errors.As(err, &aerr)
}

// AssertMatch checks that at least one line matches spec, or exactly n
// distinct lines when Count(n) is given.
func (m *LineMatcher) AssertMatch(spec pattern.Spec, opts ...QueryOption) error {
	return m.assertFound(report.KindLine, pattern.ToLinePatterns(spec), opts)
}

// AssertNoMatch checks that no line matches spec. The scan stops at the
// first matching line.
func (m *LineMatcher) AssertNoMatch(spec pattern.Spec, opts ...QueryOption) error {
	return m.assertNotFound(report.KindLine, pattern.ToLinePatterns(spec), opts)
}

// AssertBlock checks that at least one block matches spec, or exactly n
// non-overlapping blocks when Count(n) is given.
func (m *LineMatcher) AssertBlock(spec pattern.Spec, opts ...QueryOption) error {
	patterns, err := pattern.ToBlockPattern(spec)
	if err != nil {
		return err
	}
	return m.assertFound(report.KindBlock, patterns, opts)
}

// AssertNoBlock checks that no block matches spec.
func (m *LineMatcher) AssertNoBlock(spec pattern.Spec, opts ...QueryOption) error {
	patterns, err := pattern.ToBlockPattern(spec)
	if err != nil {
		return err
	}
	return m.assertNotFound(report.KindBlock, patterns, opts)
}

// regions yields every match of patterns as a block; a matching line is a
// block of one line.
func (m *LineMatcher) regions(kind report.Kind, patterns []pattern.Pattern, flavor pattern.Flavor) (iter.Seq[buffer.Block], error) {
	if kind == report.KindBlock {
		return m.iterBlocks(patterns, flavor)
	}
	seq, err := m.iterLines(patterns, flavor)
	if err != nil {
		return nil, err
	}
	lines := m.Lines()
	return func(yield func(buffer.Block) bool) {
		for l := range seq {
			if !yield(lines.Slice(l.Offset, l.Offset+1)) {
				return
			}
		}
	}, nil
}

func (m *LineMatcher) assertFound(kind report.Kind, patterns []pattern.Pattern, opts []QueryOption) error {
	q := m.query(opts)
	regions, err := m.regions(kind, patterns, q.flavor)
	if err != nil {
		return err
	}

	lines := m.Lines()
	source := lines.Lines()
	keepends := m.top().resolved.KeepEnds

	if !q.counted {
		found := false
		for range regions {
			found = true
			break
		}
		if found {
			return nil
		}
		msg := m.renderer.NotFound(kind, displayPatterns(patterns), source, keepends)
		return &AssertionError{Kind: kind, Message: msg}
	}

	seen := make(map[int]struct{})
	var sections []report.Section
	for b := range regions {
		if _, ok := seen[b.Offset()]; ok {
			continue
		}
		seen[b.Offset()] = struct{}{}
		sections = append(sections, report.Section{Offset: b.Offset(), Len: b.Len()})
	}
	if len(sections) == q.count {
		return nil
	}

	msg := m.renderer.WrongCount(kind, displayPatterns(patterns), source, sections, len(sections), q.count, keepends)
	return &AssertionError{Kind: kind, Message: msg}
}

func (m *LineMatcher) assertNotFound(kind report.Kind, patterns []pattern.Pattern, opts []QueryOption) error {
	if len(patterns) == 0 {
		return nil
	}
	q := m.query(opts)
	regions, err := m.regions(kind, patterns, q.flavor)
	if err != nil {
		return err
	}

	for b := range regions {
		source := m.Lines().Lines()
		msg := m.renderer.Found(kind, displayPatterns(patterns), source, b, q.context)
		return &AssertionError{Kind: kind, Message: msg}
	}
	return nil
}

func displayPatterns(patterns []pattern.Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Text()
	}
	return out
}

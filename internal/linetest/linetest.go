// Package linetest adapts LineMatcher assertions to testing.TB: every
// failure is reported through t.Fatalf with the rendered diagnostic.
//
//	out := linetest.New(t, status, options.WithFlavor(pattern.Glob))
//	out.Match(pattern.Text("build succeeded*"))
//	out.NoMatch(pattern.Text("*ERROR*"))
package linetest

import (
	"testing"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/matcher"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/pattern"
)

// Output is a captured text under test.
type Output struct {
	t testing.TB
	m *matcher.LineMatcher
}

// New wraps content. Invalid options fail the test immediately.
func New(t testing.TB, content string, opts ...options.Option) *Output {
	t.Helper()
	m, err := matcher.New(content, opts...)
	if err != nil {
		t.Fatalf("linetest: %v", err)
	}
	return &Output{t: t, m: m}
}

// Wrap adopts an existing matcher.
func Wrap(t testing.TB, m *matcher.LineMatcher) *Output {
	return &Output{t: t, m: m}
}

// Matcher returns the underlying matcher.
func (o *Output) Matcher() *matcher.LineMatcher { return o.m }

// Lines returns the cleaned lines.
func (o *Output) Lines() []string { return o.m.Lines().Lines() }

// Find returns the matching lines, failing the test on a configuration error.
func (o *Output) Find(spec pattern.Spec, opts ...matcher.QueryOption) []buffer.Line {
	o.t.Helper()
	lines, err := o.m.Find(spec, opts...)
	o.check(err)
	return lines
}

// FindBlocks returns the matching blocks, failing the test on a
// configuration error.
func (o *Output) FindBlocks(spec pattern.Spec, opts ...matcher.QueryOption) []buffer.Block {
	o.t.Helper()
	blocks, err := o.m.FindBlocks(spec, opts...)
	o.check(err)
	return blocks
}

func (o *Output) Match(spec pattern.Spec, opts ...matcher.QueryOption) {
	o.t.Helper()
	o.check(o.m.AssertMatch(spec, opts...))
}

func (o *Output) NoMatch(spec pattern.Spec, opts ...matcher.QueryOption) {
	o.t.Helper()
	o.check(o.m.AssertNoMatch(spec, opts...))
}

func (o *Output) Block(spec pattern.Spec, opts ...matcher.QueryOption) {
	o.t.Helper()
	o.check(o.m.AssertBlock(spec, opts...))
}

func (o *Output) NoBlock(spec pattern.Spec, opts ...matcher.QueryOption) {
	o.t.Helper()
	o.check(o.m.AssertNoBlock(spec, opts...))
}

// With runs fn with the options temporarily extended by opts.
func (o *Output) With(fn func(), opts ...options.Option) {
	o.t.Helper()
	o.check(o.m.Override(func() error {
		fn()
		return nil
	}, opts...))
}

func (o *Output) check(err error) {
	o.t.Helper()
	if err == nil {
		return
	}
	if matcher.IsAssertion(err) {
		o.t.Fatalf("\n%s", err)
	}
	o.t.Fatalf("linetest: %v", err)
}

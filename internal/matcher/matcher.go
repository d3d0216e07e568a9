// Package matcher implements LineMatcher, which wraps one captured text and
// answers line and block queries and assertions over its cleaned lines.
//
// A LineMatcher is not safe for concurrent use: the cleaned lines are cached
// lazily and override scopes push and pop state on the matcher itself.
package matcher

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/cleaner"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/report"
)

// LineMatcher matches line and block patterns against a cleaned text.
type LineMatcher struct {
	content  string
	frames   []frame
	logger   *log.Logger
	renderer *report.Renderer
}

// New wraps content with the given options. It fails with an
// *options.ConfigError if the options do not resolve.
func New(content string, opts ...options.Option) (*LineMatcher, error) {
	return NewWithSet(content, options.New(opts...))
}

// NewWithSet is New with a prebuilt option set.
func NewWithSet(content string, set options.Set) (*LineMatcher, error) {
	f, err := newFrame(set)
	if err != nil {
		return nil, err
	}
	return &LineMatcher{
		content:  content,
		frames:   []frame{f},
		renderer: report.NewRenderer(report.PlainStyles()),
	}, nil
}

// FromLines joins lines with "\n" (or with nothing when keepends is set,
// since the lines then carry their own breaks) and wraps the result.
func FromLines(lines []string, opts ...options.Option) (*LineMatcher, error) {
	set := options.New(opts...)
	keep, _ := options.GetOr(set, options.NameKeepEnds, false).(bool)
	glue := "\n"
	if keep {
		glue = ""
	}
	return NewWithSet(strings.Join(lines, glue), set)
}

// FromReader reads r to the end and wraps its content.
func FromReader(r io.Reader, opts ...options.Option) (*LineMatcher, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return New(string(data), opts...)
}

// WithLogger enables debug logging of cache and scope events.
func (m *LineMatcher) WithLogger(l *log.Logger) *LineMatcher {
	m.logger = l
	return m
}

// WithStyles sets the styles used to render assertion failures.
func (m *LineMatcher) WithStyles(s report.Styles) *LineMatcher {
	m.renderer = report.NewRenderer(s)
	return m
}

// Content returns the raw text.
func (m *LineMatcher) Content() string { return m.content }

// Options returns the option set of the innermost scope.
func (m *LineMatcher) Options() options.Set { return m.top().set }

// Resolved returns the resolved options of the innermost scope.
func (m *LineMatcher) Resolved() options.Resolved { return m.top().resolved }

// Depth returns the number of active override scopes.
func (m *LineMatcher) Depth() int { return len(m.frames) - 1 }

// Lines returns the cleaned lines under the current options. They are
// computed once per scope and cached.
func (m *LineMatcher) Lines() buffer.Block {
	return m.cachedLines()
}

// All iterates over the cleaned lines.
func (m *LineMatcher) All() iter.Seq[buffer.Line] {
	return func(yield func(buffer.Line) bool) {
		m.Lines().Each(yield)
	}
}

// Override runs fn with the current options extended by opts. The scope's
// cached lines are discarded when fn returns, even on error or panic.
func (m *LineMatcher) Override(fn func() error, opts ...options.Option) error {
	return m.scoped(m.top().set.With(opts...), fn)
}

// Replace runs fn with opts alone, on top of the defaults, ignoring the
// options of the enclosing scopes.
func (m *LineMatcher) Replace(fn func() error, opts ...options.Option) error {
	return m.scoped(options.New(opts...), fn)
}

func (m *LineMatcher) scoped(set options.Set, fn func() error) error {
	f, err := newFrame(set)
	if err != nil {
		return err
	}
	m.push(f)
	defer m.pop()
	return fn()
}

// frame is one entry of the scope stack: its options, ready-to-use cleaner
// and cache slot.
type frame struct {
	set      options.Set
	resolved options.Resolved
	cleaner  *cleaner.Cleaner
	slot     slot
}

func newFrame(set options.Set) (frame, error) {
	resolved, err := set.Resolve()
	if err != nil {
		return frame{}, err
	}
	c, err := cleaner.New(resolved)
	if err != nil {
		return frame{}, err
	}
	return frame{set: set, resolved: resolved, cleaner: c}, nil
}

func (m *LineMatcher) top() *frame { return &m.frames[len(m.frames)-1] }

func (m *LineMatcher) push(f frame) {
	m.frames = append(m.frames, f)
	m.debug("scope pushed", "depth", m.Depth(), "options", f.resolved)
}

func (m *LineMatcher) pop() {
	if len(m.frames) <= 1 {
		panic("matcher: scope stack underflow")
	}
	m.frames[len(m.frames)-1] = frame{}
	m.frames = m.frames[:len(m.frames)-1]
	m.debug("scope popped", "depth", m.Depth())
}

func (m *LineMatcher) debug(msg string, keyvals ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, keyvals...)
	}
}

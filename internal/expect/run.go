package expect

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dl/linematch/internal/capture"
	"github.com/dl/linematch/internal/matcher"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/pattern"
	"github.com/dl/linematch/internal/report"
)

// Outcome is the result of one expectation.
type Outcome struct {
	Index    int
	Name     string
	Stream   capture.Stream
	Kind     Kind
	Patterns []string
	Passed   bool
	// Message is the rendered diagnostic of a failed assertion.
	Message string
	// Err is a configuration error; the assertion was not evaluated.
	Err error
}

// Report gathers the outcomes of one expectation file.
type Report struct {
	Path     string
	Outcomes []Outcome
	// Err is set when the file itself could not be loaded.
	Err error
}

// Passed reports whether the file loaded and every expectation held.
func (r Report) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, o := range r.Outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// Counts returns the number of passed and failed expectations.
func (r Report) Counts() (passed, failed int) {
	for _, o := range r.Outcomes {
		if o.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Runner evaluates expectation files.
type Runner struct {
	reader capture.Reader
	base   options.Set
	styles report.Styles
	logger *log.Logger
}

// NewRunner creates a runner reading captures with r. The options of every
// file are merged over base. A nil logger disables logging.
func NewRunner(r capture.Reader, base options.Set, styles report.Styles, logger *log.Logger) *Runner {
	return &Runner{reader: r, base: base, styles: styles, logger: logger}
}

// RunFile loads and evaluates the expectation file at path.
func (rn *Runner) RunFile(path string) Report {
	rep := Report{Path: path}

	f, err := Load(path)
	if err != nil {
		rn.warn("load failed", "path", path, "err", err)
		rep.Err = err
		return rep
	}
	defer f.Close()

	rep.Outcomes, rep.Err = rn.Run(f, filepath.Dir(path))
	if rep.Err != nil {
		rn.warn("run failed", "path", path, "err", rep.Err)
	}
	return rep
}

// Run evaluates f. Stream paths and option files are relative to dir. The
// options parsed from f are released on return; f itself is not.
func (rn *Runner) Run(f *File, dir string) ([]Outcome, error) {
	own, err := options.ParseWithBase(f.Options, dir)
	if err != nil {
		return nil, err
	}
	defer own.Close()
	base := rn.base.Merge(own)

	paths := make(map[capture.Stream]string, len(f.Streams))
	for name, p := range f.Streams {
		s, err := capture.ParseStream(name)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		paths[s] = p
	}
	capt, err := capture.Load(rn.reader, paths)
	if err != nil {
		return nil, err
	}

	matchers := make(map[capture.Stream]*matcher.LineMatcher)
	outcomes := make([]Outcome, 0, len(f.Expect))
	for i, e := range f.Expect {
		o := Outcome{Index: i, Name: e.Name}
		o.Err = rn.evaluate(&o, e, capt, base, dir, matchers)
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func (rn *Runner) evaluate(o *Outcome, e Expectation, capt capture.Capture, base options.Set, dir string, matchers map[capture.Stream]*matcher.LineMatcher) error {
	stream := capture.Status
	if e.Stream != "" {
		s, err := capture.ParseStream(e.Stream)
		if err != nil {
			return err
		}
		stream = s
	}
	o.Stream = stream

	kind, pats, err := e.Assertion()
	if err != nil {
		return err
	}
	o.Kind, o.Patterns = kind, pats.Display()

	m, ok := matchers[stream]
	if !ok {
		text, err := capt.Text(stream)
		if err != nil {
			return err
		}
		if m, err = matcher.NewWithSet(text, base); err != nil {
			return err
		}
		m.WithStyles(rn.styles).WithLogger(rn.logger)
		matchers[stream] = m
	}

	local, err := options.ParseWithBase(e.Options, dir)
	if err != nil {
		return err
	}
	defer local.Close()

	var qopts []matcher.QueryOption
	if e.Count != nil {
		qopts = append(qopts, matcher.Count(*e.Count))
	}
	if e.Context != nil {
		qopts = append(qopts, matcher.Context(*e.Context))
	}
	if e.Flavor != "" {
		f, err := pattern.ParseFlavor(e.Flavor)
		if err != nil {
			return err
		}
		qopts = append(qopts, matcher.WithFlavor(f))
	}

	err = m.Override(func() error {
		return check(m, kind, pats.Spec(), qopts)
	}, local.Options()...)
	switch {
	case err == nil:
		o.Passed = true
		return nil
	case matcher.IsAssertion(err):
		o.Message = err.Error()
		return nil
	}
	return err
}

func check(m *matcher.LineMatcher, kind Kind, spec pattern.Spec, qopts []matcher.QueryOption) error {
	switch kind {
	case KindMatch:
		return m.AssertMatch(spec, qopts...)
	case KindNoMatch:
		return m.AssertNoMatch(spec, qopts...)
	case KindBlock:
		return m.AssertBlock(spec, qopts...)
	case KindNoBlock:
		return m.AssertNoBlock(spec, qopts...)
	}
	return fmt.Errorf("unknown assertion %q", kind)
}

func (rn *Runner) warn(msg string, keyvals ...any) {
	if rn.logger != nil {
		rn.logger.Warn(msg, keyvals...)
	}
}

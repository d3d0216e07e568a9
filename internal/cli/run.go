package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/capture"
	"github.com/dl/linematch/internal/expect"
	"github.com/dl/linematch/internal/matcher"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/output"
	"github.com/dl/linematch/internal/pattern"
	"github.com/dl/linematch/internal/report"
	"github.com/dl/linematch/internal/scheduler"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitFail  = 1
	ExitError = 2
)

// Env holds the standard streams of a run.
type Env struct {
	Stdin  io.Reader
	Stdout *os.File
	Stderr io.Writer
}

// ProcessEnv returns the streams of the current process.
func ProcessEnv() Env {
	return Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cfg against the process streams.
// Returns exit code: 0 = success or match found, 1 = no match or failed
// assertion, 2 = error.
func Run(cfg Config) int {
	return RunEnv(cfg, ProcessEnv())
}

// RunEnv is Run with explicit streams.
func RunEnv(cfg Config, env Env) int {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	logger := log.NewWithOptions(env.Stderr, log.Options{
		Level: level,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid arguments", "err", err)
		return ExitError
	}
	set, err := cfg.Options()
	if err != nil {
		logger.Error("invalid options", "err", err)
		return ExitError
	}
	defer set.Close()

	// Determine color mode
	useColor := false
	switch cfg.Colorize {
	case ColorAlways:
		useColor = true
	case ColorNever:
		useColor = false
	case ColorAuto:
		useColor = output.IsTerminal(env.Stdout.Fd())
	}

	diag := report.PlainStyles()
	if useColor {
		diag = report.ColorStyles()
	}

	w := output.NewFileWriter(env.Stdout)
	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter(cfg.CountOnly)
	} else {
		formatter = output.NewTextFormatter(output.NewStyles(), cfg.Offsets, cfg.CountOnly, useColor)
	}

	if cfg.Command == CmdCheck {
		return runCheck(cfg, set, formatter, w, diag, logger)
	}

	s := &session{
		cfg:    cfg,
		set:    set,
		diag:   diag,
		logger: logger,
	}
	if cfg.Command != CmdLines {
		spec, err := cfg.Spec()
		if err != nil {
			logger.Error("invalid pattern", "err", err)
			return ExitError
		}
		defer closeSpec(spec)
		s.spec = spec
	}

	var reader capture.Reader = capture.NewFileReader()
	sources := cfg.Inputs
	if len(sources) == 0 {
		reader = capture.NewStreamReader(env.Stdin)
		sources = []string{""}
	}
	return s.runSources(reader, sources, formatter, w)
}

// session runs one query command over every source.
type session struct {
	cfg    Config
	set    options.Set
	spec   pattern.Spec
	diag   report.Styles
	logger *log.Logger
}

func (s *session) runSources(reader capture.Reader, sources []string, formatter output.Formatter, w *output.Writer) int {
	multiSource := len(sources) > 1
	hasMatch, failed, errored := false, false, false

	var buf []byte
	for _, src := range sources {
		result := s.process(reader, src)
		if result.Err != nil {
			s.logger.Warn("error", "path", src, "err", result.Err)
			errored = true
			continue
		}
		if result.HasMatch() {
			hasMatch = true
		}
		if result.Failure != "" {
			failed = true
		}
		buf = formatter.Format(buf[:0], result, multiSource)
		if err := w.Write(buf); err != nil {
			s.logger.Error("write failed", "err", err)
			return ExitError
		}
	}

	switch s.cfg.Command {
	case CmdFind, CmdBlocks:
		if hasMatch {
			return ExitOK
		}
		if errored {
			return ExitError
		}
		return ExitFail
	}
	if errored {
		return ExitError
	}
	if failed {
		return ExitFail
	}
	return ExitOK
}

func (s *session) process(reader capture.Reader, src string) output.Result {
	result := output.Result{Source: src}

	text, err := capture.ReadText(reader, src)
	if err != nil {
		result.Err = err
		return result
	}
	m, err := matcher.NewWithSet(text, s.set)
	if err != nil {
		result.Err = err
		return result
	}
	m.WithLogger(s.logger).WithStyles(s.diag)

	switch s.cfg.Command {
	case CmdLines:
		result.Lines = true
		for l := range m.All() {
			result.Blocks = append(result.Blocks, lineBlock(l))
		}
	case CmdFind:
		result.Lines = true
		lines, err := m.Find(s.spec)
		if err != nil {
			result.Err = err
			return result
		}
		for _, l := range lines {
			result.Blocks = append(result.Blocks, lineBlock(l))
		}
	case CmdBlocks:
		result.Blocks, result.Err = m.FindBlocks(s.spec)
	case CmdAssert, CmdRefute:
		if err := s.assert(m); err != nil {
			if !matcher.IsAssertion(err) {
				result.Err = err
				return result
			}
			result.Failure = err.Error()
		}
	}
	return result
}

func (s *session) assert(m *matcher.LineMatcher) error {
	if s.cfg.Command == CmdAssert {
		var qopts []matcher.QueryOption
		if s.cfg.Count >= 0 {
			qopts = append(qopts, matcher.Count(s.cfg.Count))
		}
		if s.cfg.Block {
			return m.AssertBlock(s.spec, qopts...)
		}
		return m.AssertMatch(s.spec, qopts...)
	}

	ctx := matcher.Context(s.cfg.Context)
	if s.cfg.Block {
		return m.AssertNoBlock(s.spec, ctx)
	}
	return m.AssertNoMatch(s.spec, ctx)
}

// runCheck evaluates the expectation files of cfg. The options given on the
// command line are the base every file's options are merged over.
func runCheck(cfg Config, set options.Set, formatter output.Formatter, w *output.Writer, diag report.Styles, logger *log.Logger) int {
	runner := expect.NewRunner(capture.NewFileReader(), set, diag, logger)
	sched := scheduler.New(cfg.Workers, runner)

	var files, failed, errored int
	ow := output.NewOrderedWriter(w, formatter, true)
	err := ow.WriteOrdered(sched.Run(cfg.Inputs), func(r output.Result) {
		files++
		switch {
		case r.Err != nil:
			errored++
		case !r.Passed():
			failed++
		}
	})
	if err != nil {
		logger.Error("write failed", "err", err)
		return ExitError
	}
	logger.Info("check finished", "files", files, "failed", failed, "errors", errored)

	switch {
	case errored > 0:
		return ExitError
	case failed > 0:
		return ExitFail
	}
	return ExitOK
}

func lineBlock(l buffer.Line) buffer.Block {
	return buffer.NewBlock([]string{l.Text}, l.Offset)
}

func closeSpec(spec pattern.Spec) {
	for _, p := range pattern.ToLinePatterns(spec) {
		p.Close()
	}
}

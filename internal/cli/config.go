package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/pattern"
)

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// ParseColorMode accepts auto, always and never.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (choose from: auto, always, never)", s)
}

// Command selects what Run does.
type Command string

const (
	CmdLines  Command = "lines"
	CmdFind   Command = "find"
	CmdBlocks Command = "blocks"
	CmdAssert Command = "assert"
	CmdRefute Command = "refute"
	CmdCheck  Command = "check"
)

// Config holds all configuration for a linematch run.
type Config struct {
	Command  Command
	Patterns []string
	// Inputs are capture files, or expectation files for check. No inputs
	// means stdin.
	Inputs []string

	// Cleaning options. Only flags that are set become options, so an
	// options file keeps its values unless a flag overrides them.
	Color          bool
	NoCtrl         bool
	Strip          bool
	NoStrip        bool
	StripChars     string
	StripLine      bool
	StripLineChars string
	KeepEnds       bool
	NoEmpty        bool
	Compress       bool
	Unique         bool
	Delete         []string
	IgnoreFile     string
	Flavor         string
	OptionsFile    string

	PCRE       bool
	Block      bool
	Count      int // -1 when unset
	Context    int
	Offsets    bool
	CountOnly  bool
	JSONOutput bool
	Colorize   ColorMode
	LogLevel   string
	Workers    int
}

// DefaultConfig returns a config with every optional value unset.
func DefaultConfig() Config {
	return Config{
		Count:    -1,
		Context:  3,
		Colorize: ColorAuto,
		LogLevel: "warn",
	}
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	switch c.Command {
	case CmdLines:
	case CmdFind, CmdBlocks, CmdAssert, CmdRefute:
		if len(c.Patterns) == 0 {
			return fmt.Errorf("no pattern specified")
		}
	case CmdCheck:
		if len(c.Inputs) == 0 {
			return fmt.Errorf("no expectation file specified")
		}
	default:
		return fmt.Errorf("unknown command %q", c.Command)
	}
	if c.Strip && c.NoStrip {
		return fmt.Errorf("cannot use --strip and --no-strip together")
	}
	if c.NoStrip && c.StripChars != "" {
		return fmt.Errorf("cannot use --no-strip and --strip-chars together")
	}
	if c.PCRE && c.Flavor != "" {
		return fmt.Errorf("cannot use --pcre and --flavor together")
	}
	if c.Flavor != "" {
		if _, err := pattern.ParseFlavor(c.Flavor); err != nil {
			return err
		}
	}
	if c.Count < -1 {
		return fmt.Errorf("invalid count: %d", c.Count)
	}
	if c.Context < 0 {
		return fmt.Errorf("invalid context: %d", c.Context)
	}
	if c.CountOnly && c.Command != CmdFind && c.Command != CmdBlocks {
		return fmt.Errorf("--count-only only applies to find and blocks")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// Options builds the option set: the options file first, then every flag
// that was set.
func (c *Config) Options() (options.Set, error) {
	base := options.New()
	if c.OptionsFile != "" {
		s, err := options.LoadFile(c.OptionsFile)
		if err != nil {
			return options.Set{}, err
		}
		base = s
	}

	var opts []options.Option
	if c.Color {
		opts = append(opts, options.Color(true))
	}
	if c.NoCtrl {
		opts = append(opts, options.Ctrl(false))
	}
	switch {
	case c.NoStrip:
		opts = append(opts, options.Strip(options.StripNothing()))
	case c.StripChars != "":
		opts = append(opts, options.Strip(options.StripSet(c.StripChars)))
	case c.Strip:
		opts = append(opts, options.Strip(options.StripWhitespace()))
	}
	switch {
	case c.StripLineChars != "":
		opts = append(opts, options.StripLine(options.StripSet(c.StripLineChars)))
	case c.StripLine:
		opts = append(opts, options.StripLine(options.StripWhitespace()))
	}
	if c.KeepEnds {
		opts = append(opts, options.KeepEnds(true))
	}
	if c.NoEmpty {
		opts = append(opts, options.Empty(false))
	}
	if c.Compress {
		opts = append(opts, options.Compress(true))
	}
	if c.Unique {
		opts = append(opts, options.Unique(true))
	}
	if len(c.Delete) > 0 {
		opts = append(opts, options.DeletePrefixes(c.Delete...))
	}
	if c.IgnoreFile != "" {
		o, err := options.IgnoreFile(c.IgnoreFile)
		if err != nil {
			base.Close()
			return options.Set{}, err
		}
		opts = append(opts, o)
	}
	if c.Flavor != "" {
		f, err := pattern.ParseFlavor(c.Flavor)
		if err != nil {
			base.Close()
			return options.Set{}, err
		}
		opts = append(opts, options.WithFlavor(f))
	}

	set := base.With(opts...)
	if _, err := set.Resolve(); err != nil {
		base.Close()
		return options.Set{}, err
	}
	return set, nil
}

// Spec builds the pattern spec of the query commands. With --pcre every
// pattern is compiled; the caller owns the compiled patterns.
func (c *Config) Spec() (pattern.Spec, error) {
	if !c.PCRE {
		return pattern.Lines(c.Patterns...), nil
	}
	ps := make([]pattern.Pattern, 0, len(c.Patterns))
	for _, src := range c.Patterns {
		p, err := pattern.PCRE(src, false)
		if err != nil {
			for _, q := range ps {
				q.Close()
			}
			return pattern.Spec{}, err
		}
		ps = append(ps, p)
	}
	return pattern.Seq(ps...), nil
}

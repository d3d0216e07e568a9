// Command linematch cleans captured build output and matches lines and
// blocks of it against exact, glob or regex patterns.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dl/linematch/internal/cli"
)

func main() {
	os.Exit(execute(append(cli.LoadConfigArgs(), os.Args[1:]...)))
}

func execute(args []string) int {
	cfg := cli.DefaultConfig()
	code := cli.ExitOK

	root := newRootCmd(&cfg, &code)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return cli.ExitError
	}
	return code
}

func newRootCmd(cfg *cli.Config, code *int) *cobra.Command {
	var colorize string
	root := &cobra.Command{
		Use:   "linematch",
		Short: "Match lines and blocks of captured build output",
		Long: `Clean captured build output and match it line by line or block by block.

  linematch lines status.txt                      # print cleaned lines
  linematch find --flavor=glob "*WARNING*" --in warning.txt
  linematch assert --count=1 "build succeeded." --in status.txt
  linematch refute --block "a" "b" < status.txt
  linematch check tests/*.yaml                    # run expectation files

Exit status is 0 on success, 1 when nothing matched or an assertion
failed, 2 on error. Default flags are read from $LINEMATCH_CONFIG_PATH or
~/.linematch, one flag per line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			mode, err := cli.ParseColorMode(colorize)
			if err != nil {
				return err
			}
			cfg.Colorize = mode
			return nil
		},
	}

	f := root.PersistentFlags()
	f.BoolVar(&cfg.Color, "color", false, "Keep ANSI color sequences in the input")
	f.BoolVar(&cfg.NoCtrl, "no-ctrl", false, "Remove ANSI control sequences from the input")
	f.BoolVar(&cfg.Strip, "strip", false, "Strip whitespace around the whole text (default)")
	f.BoolVar(&cfg.NoStrip, "no-strip", false, "Do not strip the whole text")
	f.StringVar(&cfg.StripChars, "strip-chars", "", "Strip these characters around the whole text")
	f.BoolVar(&cfg.StripLine, "stripline", false, "Strip whitespace around every line")
	f.StringVar(&cfg.StripLineChars, "stripline-chars", "", "Strip these characters around every line")
	f.BoolVar(&cfg.KeepEnds, "keepends", false, "Keep line breaks on every line")
	f.BoolVar(&cfg.NoEmpty, "no-empty", false, "Drop empty lines")
	f.BoolVar(&cfg.Compress, "compress", false, "Collapse runs of identical lines")
	f.BoolVar(&cfg.Unique, "unique", false, "Keep the first occurrence of every line")
	f.StringArrayVar(&cfg.Delete, "delete", nil, "Delete this prefix from lines (repeatable)")
	f.StringVar(&cfg.IgnoreFile, "ignore-file", "", "Ignore lines matching the rules of a gitignore-style file")
	f.StringVar(&cfg.Flavor, "flavor", "", "Pattern flavor: exact, glob or regex")
	f.BoolVar(&cfg.PCRE, "pcre", false, "Compile patterns as PCRE expressions")
	f.StringVar(&cfg.OptionsFile, "options", "", "Read options from a YAML file")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	f.BoolVar(&cfg.JSONOutput, "json", false, "Output JSON lines")
	f.StringVar(&colorize, "colorize", "auto", "Color output: auto, always or never")

	root.AddCommand(
		newLinesCmd(cfg, code),
		newQueryCmd(cfg, code, cli.CmdFind, "find <pattern>...", "Print lines matching any pattern"),
		newQueryCmd(cfg, code, cli.CmdBlocks, "blocks <pattern>...", "Print blocks matching the patterns, one pattern per line"),
		newAssertCmd(cfg, code),
		newRefuteCmd(cfg, code),
		newCheckCmd(cfg, code),
	)
	return root
}

func newLinesCmd(cfg *cli.Config, code *int) *cobra.Command {
	c := &cobra.Command{
		Use:   "lines [file]...",
		Short: "Print the cleaned lines of the input",
		RunE: func(_ *cobra.Command, args []string) error {
			cfg.Command = cli.CmdLines
			cfg.Inputs = args
			*code = cli.Run(*cfg)
			return nil
		},
	}
	addOffsetsFlag(c.Flags(), cfg)
	return c
}

func newQueryCmd(cfg *cli.Config, code *int, cmd cli.Command, use, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg.Command = cmd
			cfg.Patterns = args
			*code = cli.Run(*cfg)
			return nil
		},
	}
	addInputFlag(c.Flags(), cfg)
	addOffsetsFlag(c.Flags(), cfg)
	c.Flags().BoolVarP(&cfg.CountOnly, "count-only", "c", false, "Only print the number of matches per input")
	return c
}

func newAssertCmd(cfg *cli.Config, code *int) *cobra.Command {
	c := &cobra.Command{
		Use:   "assert <pattern>...",
		Short: "Fail unless the patterns match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg.Command = cli.CmdAssert
			cfg.Patterns = args
			*code = cli.Run(*cfg)
			return nil
		},
	}
	addInputFlag(c.Flags(), cfg)
	c.Flags().IntVarP(&cfg.Count, "count", "n", -1, "Require exactly N distinct matches")
	c.Flags().BoolVarP(&cfg.Block, "block", "b", false, "Match the patterns as one block")
	return c
}

func newRefuteCmd(cfg *cli.Config, code *int) *cobra.Command {
	c := &cobra.Command{
		Use:   "refute <pattern>...",
		Short: "Fail if the patterns match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg.Command = cli.CmdRefute
			cfg.Patterns = args
			*code = cli.Run(*cfg)
			return nil
		},
	}
	addInputFlag(c.Flags(), cfg)
	c.Flags().IntVarP(&cfg.Context, "context", "C", cfg.Context, "Show N lines of context around an unexpected match")
	c.Flags().BoolVarP(&cfg.Block, "block", "b", false, "Match the patterns as one block")
	return c
}

func newCheckCmd(cfg *cli.Config, code *int) *cobra.Command {
	c := &cobra.Command{
		Use:   "check <expectations.yaml>...",
		Short: "Run expectation files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg.Command = cli.CmdCheck
			cfg.Inputs = args
			*code = cli.Run(*cfg)
			return nil
		},
	}
	c.Flags().IntVarP(&cfg.Workers, "workers", "j", 0, "Number of workers (default: 2 per CPU)")
	return c
}

func addInputFlag(f *pflag.FlagSet, cfg *cli.Config) {
	f.StringArrayVar(&cfg.Inputs, "in", nil, "Read this capture file (repeatable, default stdin)")
}

func addOffsetsFlag(f *pflag.FlagSet, cfg *cli.Config) {
	f.BoolVarP(&cfg.Offsets, "offsets", "o", false, "Prefix every line with its offset")
}

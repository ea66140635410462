package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tibasicopt/internal/compiler"
	"tibasicopt/internal/diag"
	"tibasicopt/internal/envelope"
	"tibasicopt/internal/strategy"
	"tibasicopt/internal/token"
	"tibasicopt/internal/tokenizer"
	"tibasicopt/internal/tokensheet"
)

// version is overwritten by -ldflags at build time, the same hook the
// teacher's sentra binary exposes for its own version string.
var version = "0.1.0-dev"

var (
	flagTxt       string
	flagEightXP   string
	flagSize      bool
	flagSpeed     bool
	flagRoundTrip bool
	flagJSON      bool
	flagLang      string
)

var rootCmd = &cobra.Command{
	Use:   "tibasicopt [flags]",
	Short: "Rewrite a TI-BASIC program to a smaller or faster equivalent",
	Long: `tibasicopt parses a TI-BASIC program, applies a fixed set of
size- or speed-preserving rewrites (label renaming, redundant closing
parenthesis removal), and writes the rewritten program back out in the
same format it was read in.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runCompile,
}

func init() {
	rootCmd.SetVersionTemplate("tibasicopt version {{.Version}}\n")

	rootCmd.Flags().StringVar(&flagTxt, "txt", "", "path to a plain-text TI-BASIC program")
	rootCmd.Flags().StringVar(&flagEightXP, "8xp", "", "path to a .8xp calculator program")
	rootCmd.Flags().BoolVar(&flagSize, "size", false, "optimize for program size")
	rootCmd.Flags().BoolVar(&flagSpeed, "speed", false, "optimize for execution speed")
	rootCmd.Flags().BoolVar(&flagRoundTrip, "round-trip", false, "verify the rewrite is a fixed point before writing output")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit diagnostics as JSON instead of human-readable text")
	rootCmd.Flags().StringVar(&flagLang, "lang", "en", "token-sheet language for accessible spellings")

	rootCmd.MarkFlagsMutuallyExclusive("txt", "8xp")
	rootCmd.MarkFlagsMutuallyExclusive("size", "speed")
}

func priorityFromFlags() strategy.Priority {
	switch {
	case flagSize:
		return strategy.PrioritySize
	case flagSpeed:
		return strategy.PrioritySpeed
	default:
		return strategy.PriorityNeutral
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	if flagTxt == "" && flagEightXP == "" {
		return fmt.Errorf("exactly one of --txt or --8xp is required")
	}

	sheet := tokensheet.MustParseCurated()
	cfg := compiler.Config{
		Version:   token.Latest,
		Priority:  priorityFromFlags(),
		Lang:      flagLang,
		RoundTrip: flagRoundTrip,
	}

	if flagTxt != "" {
		return compileTextFile(cmd, sheet, cfg, flagTxt)
	}
	return compileEightXPFile(cmd, sheet, cfg, flagEightXP)
}

func compileTextFile(cmd *cobra.Command, sheet *tokensheet.Sheet, cfg compiler.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(raw)

	result, err := compiler.Compile(source, sheet, cfg)
	if err != nil {
		return reportError(cmd, err, flagJSON)
	}

	if err := os.WriteFile(path, []byte(result.Text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	printSavings(cmd, len(source), len(result.Text))
	return nil
}

func compileEightXPFile(cmd *cobra.Command, sheet *tokensheet.Sheet, cfg compiler.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	container, err := envelope.Read(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	toks, err := token.Decode(container.Tokens)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	tz := tokenizer.New(sheet, cfg.Version, cfg.Lang)
	source, _ := tz.Stringify(tokenizer.Tokens(toks))

	result, err := compiler.Compile(source, sheet, cfg)
	if err != nil {
		return reportError(cmd, err, flagJSON)
	}

	beforeLen := len(container.Tokens)

	outToks, _, err := tz.Tokenize(result.Text)
	if err != nil {
		return fmt.Errorf("re-tokenizing rewritten program: %w", err)
	}
	container.Tokens = flattenTokens(outToks)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer out.Close()
	if err := container.Write(out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	printSavings(cmd, beforeLen, len(container.Tokens))
	return nil
}

func flattenTokens(toks tokenizer.Tokens) []byte {
	var raw []byte
	for _, t := range toks {
		raw = append(raw, t.Bytes()...)
	}
	return raw
}

func printSavings(cmd *cobra.Command, before, after int) {
	saved := before - after
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s -> %s bytes (saved %s)\n",
		humanize.Comma(int64(before)), humanize.Comma(int64(after)), humanize.Comma(int64(saved)))
}

// reportError renders a compile failure either as a human-readable
// source-anchored report or, with --json, as a machine-readable document,
// resolving a *compiler.Error's token boundaries when the failure came
// from the parser rather than the tokenizer.
func reportError(cmd *cobra.Command, err error, asJSON bool) error {
	var cerr *compiler.Error
	errors.As(err, &cerr)

	var report *diag.TokenReport
	if cerr != nil {
		errors.As(cerr.Err, &report)
	}

	if report == nil || !cerr.HasBounds {
		if asJSON {
			fmt.Fprintf(cmd.ErrOrStderr(), `{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
		}
		return err
	}

	if asJSON {
		js, jerr := diag.JSONToken(report)
		if jerr != nil {
			return jerr
		}
		fmt.Fprintln(cmd.ErrOrStderr(), js)
	} else {
		color := colorStderr()
		fmt.Fprint(cmd.ErrOrStderr(), diag.RenderToken(report, cerr.Bounds, color))
	}
	return err
}

func colorStderr() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

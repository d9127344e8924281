// Package cmd implements the syns command line: a single cobra.Command
// carrying the whole flag surface, with a logger built once before the
// search runs.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/synstool/syns/internal/options"
	"github.com/synstool/syns/internal/printer"
	"github.com/synstool/syns/internal/scan"
	"github.com/synstool/syns/internal/search"
)

var (
	flagLang                string
	flagIdentifier          []string
	flagAddString           []string
	flagRemoveString        []string
	flagAddLineComment      []string
	flagRemoveLineComment   []string
	flagAddBlockComment     []string
	flagRemoveBlockComment  []string
	flagAddBlock            []string
	flagRemoveBlockOpen     []string
	flagRemoveBlockClose    []string
	flagOnlyMatches         bool
	flagFilesOnly           bool
	flagFilesWithoutMatch   bool
	flagIncludeBinary       bool
	flagExcludeBinary       bool
	flagOnlyFilesMatching   string
	flagIgnoreFilesMatching string
	flagColor               string
	flagShowOptions         bool
	flagVerbose             bool

	logger *zap.Logger
)

// langList is the sentinel --lang takes when passed with no value, which
// asks for the preset listing instead of a search.
const langList = "?"

var rootCmd = &cobra.Command{
	Use:   "syns [flags] PATTERN [FILE...]",
	Short: "syns finds syntax-aware matches of PATTERN across source files",
	Long: "syns searches source files with a lexer-aware pattern language: identifiers,\n" +
		"numbers and punctuation match by kind and exact text, quoted strings match\n" +
		"their content exactly (or by regex when written as \\\"...\"), and parenthesized\n" +
		"groups require real matching block structure in the target, not just matching text.",
	Args: func(cmd *cobra.Command, args []string) error {
		// --lang with no value and --options run without a PATTERN
		if flagLang == langList || flagShowOptions {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runSearch,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagLang, "lang", "", "language preset (pass with no value to list presets)")
	f.Lookup("lang").NoOptDefVal = langList
	f.StringSliceVarP(&flagIdentifier, "identifier", "i", nil, "override identifier start,continue regexes (two values)")
	f.StringSliceVarP(&flagAddString, "string", "s", nil, "add a string-delimiter character")
	f.StringSliceVarP(&flagRemoveString, "no-string", "S", nil, "remove a string-delimiter character")
	f.StringSliceVarP(&flagAddLineComment, "comment", "c", nil, "add a line-comment prefix")
	f.StringSliceVarP(&flagRemoveLineComment, "no-comment", "C", nil, "remove a line-comment prefix")
	f.StringSliceVarP(&flagAddBlockComment, "multiline-comment", "m", nil, "add open,close block-comment delimiters")
	f.StringSliceVarP(&flagRemoveBlockComment, "no-multiline-comment", "M", nil, "remove open,close block-comment delimiters")
	f.StringSliceVarP(&flagAddBlock, "block", "b", nil, "add open,close structural block delimiters")
	f.StringSliceVar(&flagRemoveBlockOpen, "no-block-begin", nil, "remove a structural block by its opener")
	f.StringSliceVar(&flagRemoveBlockClose, "no-block-end", nil, "remove a structural block by its closer")
	f.BoolVarP(&flagOnlyMatches, "only-matching", "o", false, "print only the matched text")
	f.BoolVarP(&flagFilesOnly, "files-with-matches", "l", false, "print only the paths of matching files")
	f.BoolVarP(&flagFilesWithoutMatch, "files-without-match", "L", false, "print only the paths of files with no match")
	f.BoolVarP(&flagExcludeBinary, "no-text", "I", false, "explicitly skip files that look binary (default)")
	f.BoolVarP(&flagIncludeBinary, "text", "a", false, "do not skip files that look binary")
	f.StringVar(&flagOnlyFilesMatching, "only-files-matching", "", "only search paths matching this regex")
	f.StringVar(&flagIgnoreFilesMatching, "ignore-files-matching", "", "skip paths matching this regex")
	f.StringVar(&flagColor, "color", "auto", "colorize output: auto, always, never")
	f.BoolVar(&flagShowOptions, "options", false, "print the effective lexer configuration as YAML and exit")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if flagLang == langList {
		return printPresetList(cmd.OutOrStdout())
	}

	var err error
	if flagVerbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	if flagLang != "" && !presetKnown(flagLang) {
		names := options.ListPresets()
		return fmt.Errorf("unknown --lang %q; known presets: %s", flagLang, strings.Join(names, ", "))
	}

	builder, err := buildOptions(flagLang)
	if err != nil {
		return err
	}

	if flagShowOptions {
		return printOptions(builder.Build())
	}

	pattern := args[0]
	roots := args[1:]
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var onlyRe, ignoreRe *regexp.Regexp
	if flagOnlyFilesMatching != "" {
		onlyRe, err = regexp.Compile(flagOnlyFilesMatching)
		if err != nil {
			return fmt.Errorf("--only-files-matching: %w", err)
		}
	}
	if flagIgnoreFilesMatching != "" {
		ignoreRe, err = regexp.Compile(flagIgnoreFilesMatching)
		if err != nil {
			return fmt.Errorf("--ignore-files-matching: %w", err)
		}
	}

	targets, discoverErrs := scan.Discover(roots, scan.Config{
		LangOverride:        flagLang,
		OnlyFilesMatching:   onlyRe,
		IgnoreFilesMatching: ignoreRe,
		IncludeBinary:       flagIncludeBinary && !flagExcludeBinary,
	})
	for _, e := range discoverErrs {
		logger.Warn("discovery error", zap.Error(e))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queryOpts := builder.Build()
	results, err := search.Run(ctx, logger, targets, search.Options{
		Query:        []byte(pattern),
		QueryOptions: &queryOpts,
		BuildOptions: func(preset string) (options.Options, error) {
			b, err := buildOptions(preset)
			if err != nil {
				return options.Options{}, err
			}
			return b.Build(), nil
		},
	})
	if err != nil {
		// QueryParseError: abort before any file is reported, exit 2.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	mode := printer.ModeLines
	switch {
	case flagOnlyMatches:
		mode = printer.ModeOnlyMatches
	case flagFilesOnly:
		mode = printer.ModeFilesOnly
	case flagFilesWithoutMatch:
		mode = printer.ModeFilesWithoutMatch
	}
	choice, err := colorChoice(flagColor)
	if err != nil {
		return err
	}

	p := printer.New(os.Stdout, mode, choice, os.Stdout.Fd(), true)
	exitCode, ioErrs := search.Report(p, results)
	if err := p.Flush(); err != nil {
		return err
	}
	for _, e := range ioErrs {
		logger.Warn("file error", zap.String("path", e.Path), zap.Error(e.Err))
	}
	if len(discoverErrs) > 0 && exitCode == 0 && !anyMatch(results) {
		exitCode = 1
	}
	if exitCode != 0 {
		logger.Sync()
		os.Exit(exitCode)
	}
	return nil
}

// printPresetList answers `--lang` with no value: one line per preset,
// alphabetical, naming the extensions that auto-select it.
func printPresetList(w io.Writer) error {
	for _, name := range options.ListPresets() {
		exts := options.PresetExtensions(name)
		if len(exts) == 0 {
			fmt.Fprintln(w, name)
			continue
		}
		fmt.Fprintf(w, "%s: .%s\n", name, strings.Join(exts, " ."))
	}
	return nil
}

func anyMatch(results []search.Result) bool {
	for _, r := range results {
		if len(r.Matches) > 0 {
			return true
		}
	}
	return false
}

func presetKnown(name string) bool {
	for _, n := range options.ListPresets() {
		if n == name {
			return true
		}
	}
	return false
}

func buildOptions(lang string) (*options.Builder, error) {
	b, err := options.NewBuilder(lang)
	if err != nil {
		return nil, err
	}
	if len(flagIdentifier) == 2 {
		start, err := regexp.Compile(flagIdentifier[0])
		if err != nil {
			return nil, fmt.Errorf("--identifier start regex: %w", err)
		}
		cont, err := regexp.Compile(flagIdentifier[1])
		if err != nil {
			return nil, fmt.Errorf("--identifier continue regex: %w", err)
		}
		b.SetIdentifier(start, cont)
	}
	for _, s := range flagAddString {
		if err := b.AddString(s); err != nil {
			return nil, err
		}
	}
	for _, s := range flagRemoveString {
		if err := b.RemoveString(s); err != nil {
			return nil, err
		}
	}
	for _, s := range flagAddLineComment {
		b.AddLineComment(s)
	}
	for _, s := range flagRemoveLineComment {
		b.RemoveLineComment(s)
	}
	for _, pair := range flagAddBlockComment {
		open, close, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("--multiline-comment: %w", err)
		}
		b.AddBlockComment(open, close)
	}
	for _, pair := range flagRemoveBlockComment {
		open, close, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("--no-multiline-comment: %w", err)
		}
		b.RemoveBlockComment(open, close)
	}
	for _, pair := range flagAddBlock {
		open, close, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("--block: %w", err)
		}
		b.AddBlock(open, close)
	}
	for _, s := range flagRemoveBlockOpen {
		b.RemoveBlockOpen(s)
	}
	for _, s := range flagRemoveBlockClose {
		b.RemoveBlockClose(s)
	}
	return b, nil
}

func splitPair(s string) (string, string, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected open,close, got %q", s)
	}
	return parts[0], parts[1], nil
}

func colorChoice(s string) (printer.ColorChoice, error) {
	switch s {
	case "auto", "":
		return printer.ColorAuto, nil
	case "always":
		return printer.ColorAlways, nil
	case "never":
		return printer.ColorNever, nil
	default:
		return 0, fmt.Errorf("--color must be auto, always or never, got %q", s)
	}
}

// printOptions dumps the effective lexer configuration as YAML, for
// --options.
func printOptions(opts options.Options) error {
	view := struct {
		IdentStart    string      `yaml:"ident_start"`
		IdentCont     string      `yaml:"ident_cont"`
		Strings       string      `yaml:"strings"`
		LineComments  []string    `yaml:"line_comments"`
		BlockComments [][2]string `yaml:"block_comments"`
		Blocks        [][2]string `yaml:"blocks"`
	}{}
	if opts.IdentStart != nil {
		view.IdentStart = opts.IdentStart.String()
	}
	if opts.IdentCont != nil {
		view.IdentCont = opts.IdentCont.String()
	}
	for _, r := range opts.Strings {
		view.Strings += string(r)
	}
	view.LineComments = opts.LineComments
	for _, c := range opts.BlockComments {
		view.BlockComments = append(view.BlockComments, [2]string{c.Open, c.Close})
	}
	for _, b := range opts.Blocks {
		view.Blocks = append(view.Blocks, [2]string{b.Open, b.Close})
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

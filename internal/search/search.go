// Package search wires the lexer, tree builder, pattern and matcher
// together into the end-to-end run: one goroutine per file, a worker pool
// sized to runtime.NumCPU(), no state shared across files, and results
// gathered into caller-order slots so output follows the order the files
// were discovered in, not the order goroutines finished in.
package search

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/synstool/syns/internal/lexer"
	"github.com/synstool/syns/internal/matcher"
	"github.com/synstool/syns/internal/options"
	"github.com/synstool/syns/internal/pattern"
	"github.com/synstool/syns/internal/printer"
	"github.com/synstool/syns/internal/scan"
	"github.com/synstool/syns/internal/token"
	"github.com/synstool/syns/internal/tree"
)

// ErrorKind classifies a per-file problem encountered during a run.
type ErrorKind int

const (
	// KindIO is a per-file error (permission denied, vanished file): the
	// run continues with the remaining files but its exit code reflects
	// that something failed.
	KindIO ErrorKind = iota
	// KindBinarySkipped is informational unless the run was asked to
	// include binary files; it never affects the exit code on its own.
	KindBinarySkipped
)

// RunError is one problem encountered while searching a file.
type RunError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Path
}

// Result is everything one file contributed to the run. Src is kept
// alongside Matches so Report never has to re-open a file it already
// read once to search.
type Result struct {
	Path    string
	Src     []byte
	Matches []token.Span
	Err     *RunError
}

// Options configures a run. The query is lexed with the same lexer
// configuration as the file it runs against, so it is compiled once per
// distinct preset among the targets, never once per file. BuildOptions
// resolves a preset name to the effective configuration (preset plus any
// CLI overrides); when nil the bare preset is used. QueryOptions is only
// consulted when the run has no targets at all, so a malformed query is
// still reported instead of silently ignored.
type Options struct {
	Query        []byte
	QueryOptions *options.Options
	BuildOptions func(preset string) (options.Options, error)
}

// compiled is one preset's lexer configuration and the query compiled
// under it.
type compiled struct {
	opts *options.Options
	pat  pattern.Node
}

// Run compiles Query for every preset the targets resolve to, then
// searches every target concurrently. Results are returned in the same
// order as targets, regardless of which goroutine finished first. All
// configuration and query errors surface here, before any file is
// opened; ctx cancellation (SIGINT) stops dispatching new files, and
// files already in flight still finish.
func Run(ctx context.Context, logger *zap.Logger, targets []scan.Target, opts Options) ([]Result, error) {
	buildOpts := opts.BuildOptions
	if buildOpts == nil {
		buildOpts = func(preset string) (options.Options, error) {
			b, err := options.NewBuilder(preset)
			if err != nil {
				return options.Options{}, err
			}
			return b.Build(), nil
		}
	}

	byPreset := make(map[string]*compiled)
	for _, t := range targets {
		if _, ok := byPreset[t.Preset]; ok {
			continue
		}
		o, err := buildOpts(t.Preset)
		if err != nil {
			return nil, err
		}
		pat, err := pattern.NewParser(&o).Parse(opts.Query)
		if err != nil {
			return nil, err
		}
		byPreset[t.Preset] = &compiled{opts: &o, pat: pat}
	}
	if len(byPreset) == 0 && opts.QueryOptions != nil {
		if _, err := pattern.NewParser(opts.QueryOptions).Parse(opts.Query); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(targets))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, target := range targets {
		select {
		case <-ctx.Done():
			results[i] = Result{Path: target.Path, Err: &RunError{Kind: KindIO, Path: target.Path, Err: ctx.Err()}}
			continue
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, t scan.Target, c *compiled) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = searchFile(logger, t, c)
		}(i, target, byPreset[target.Preset])
	}
	wg.Wait()

	return results, nil
}

func searchFile(logger *zap.Logger, t scan.Target, c *compiled) Result {
	src, err := os.ReadFile(t.Path)
	if err != nil {
		if logger != nil {
			logger.Warn("could not read file", zap.String("path", t.Path), zap.Error(err))
		}
		return Result{Path: t.Path, Err: &RunError{Kind: KindIO, Path: t.Path, Err: err}}
	}

	toks := lexer.Lex(src, c.opts)
	forest := tree.Build(toks)
	spans := matcher.FindAll(c.pat, forest)

	return Result{Path: t.Path, Src: src, Matches: spans}
}

// Report drains results in order, printing every match through p, and
// returns the process exit code: 0 whether or not any match was found,
// unless a file error occurred and no match was found anywhere in the
// run, in which case it's 1. 2 is reserved for the query-parse/config
// failure Run already returned by now.
func Report(p *printer.Printer, results []Result) (exitCode int, ioErrors []RunError) {
	found, ioFailed := false, false
	for _, r := range results {
		if r.Err != nil {
			ioErrors = append(ioErrors, *r.Err)
			if r.Err.Kind == KindIO {
				ioFailed = true
			}
			continue
		}
		if len(r.Matches) == 0 {
			p.PrintFileWithoutMatch(r.Path)
			continue
		}
		found = true
		for _, span := range r.Matches {
			p.Print(printer.Locate(r.Path, r.Src, span))
		}
	}

	if ioFailed && !found {
		return 1, ioErrors
	}
	return 0, ioErrors
}

// Package scan discovers the files a search run should open: it resolves
// each root argument to a flat file list, applies path-regex filters and
// the binary-content heuristic, and picks the language preset for each
// file by extension.
package scan

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/synstool/syns/internal/options"
)

// Target is one file this run will search.
type Target struct {
	Path   string
	Preset string // resolved language preset name
}

// Config controls discovery. An empty LangOverride lets each file resolve
// its own preset by extension; a non-empty one pins every file to it.
type Config struct {
	LangOverride        string
	OnlyFilesMatching   *regexp.Regexp
	IgnoreFilesMatching *regexp.Regexp
	IncludeBinary       bool
}

// Discover walks roots (files or directories) and returns the Targets to
// search, in a stable, deterministic order (lexical per directory, roots
// in the order given) so that concurrent dispatch can still report
// results in a stable order for a fixed invocation.
func Discover(roots []string, cfg Config) ([]Target, []error) {
	var targets []Target
	var errs []error

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", root, err))
			continue
		}
		if !info.IsDir() {
			t, skip, err := resolve(root, cfg)
			if err != nil {
				errs = append(errs, err)
			} else if !skip {
				targets = append(targets, t)
			}
			continue
		}

		walkErr := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				return nil
			}
			if fi.IsDir() {
				return nil
			}
			t, skip, err := resolve(path, cfg)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			if !skip {
				targets = append(targets, t)
			}
			return nil
		})
		if walkErr != nil {
			errs = append(errs, walkErr)
		}
	}
	return targets, errs
}

// resolve decides whether path should be searched and, if so, with which
// preset. skip=true is not an error: a path filter or the binary
// heuristic silently excluded it (the caller may log it as
// informational).
func resolve(path string, cfg Config) (Target, bool, error) {
	if cfg.OnlyFilesMatching != nil && !cfg.OnlyFilesMatching.MatchString(path) {
		return Target{}, true, nil
	}
	if cfg.IgnoreFilesMatching != nil && cfg.IgnoreFilesMatching.MatchString(path) {
		return Target{}, true, nil
	}

	preset := cfg.LangOverride
	if preset == "" {
		ext := filepath.Ext(path)
		if len(ext) > 0 {
			ext = ext[1:]
		}
		if name, ok := options.PresetForExtension(ext); ok {
			preset = name
		} else {
			preset = "plain"
		}
	}

	if !cfg.IncludeBinary {
		isBinary, err := looksBinary(path)
		if err != nil {
			return Target{}, false, err
		}
		if isBinary {
			return Target{}, true, nil
		}
	}

	return Target{Path: path, Preset: preset}, false, nil
}

// sniffSize is how much of a file looksBinary reads before deciding.
const sniffSize = 8000

// looksBinary applies the conventional NUL-byte heuristic: a file is
// treated as binary if a NUL byte appears in its first sniffSize bytes.
func looksBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}

// Package printer renders matches to an io.Writer: a bracketed
// "[path:line-line]" locator per match, then the source lines the match
// covers, with the matched span highlighted in color.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/synstool/syns/internal/token"
)

var (
	pathStyle  = color.New(color.FgMagenta)
	matchStyle = color.New(color.FgRed, color.Bold)
)

// Mode picks the output shape, mirroring grep's -o/-l/-L flags.
type Mode int

const (
	// ModeLines prints a "[path:start-end]" locator per match, then the
	// source lines the match covers, highlighting the matched span.
	ModeLines Mode = iota
	// ModeOnlyMatches prints just the matched bytes, one match per line (-o).
	ModeOnlyMatches
	// ModeFilesOnly prints each matching file's path once (-l).
	ModeFilesOnly
	// ModeFilesWithoutMatch prints the path of every searched file that had
	// no match, the inverse of ModeFilesOnly (-L).
	ModeFilesWithoutMatch
)

// ColorChoice mirrors termcolor::ColorChoice: Auto defers to whether the
// destination is a terminal.
type ColorChoice int

const (
	ColorAuto ColorChoice = iota
	ColorAlways
	ColorNever
)

// Printer writes match results for one or more files to w.
type Printer struct {
	w        *bufio.Writer
	mode     Mode
	colorize bool

	reportedFiles map[string]bool
}

// New builds a Printer. fd is the underlying file descriptor backing w,
// used only to resolve ColorAuto via isatty; pass fdValid=false when w is
// not backed by a real descriptor (color then defaults to off, matching a
// piped destination).
func New(w io.Writer, mode Mode, choice ColorChoice, fd uintptr, fdValid bool) *Printer {
	colorize := false
	switch choice {
	case ColorAlways:
		colorize = true
	case ColorNever:
		colorize = false
	case ColorAuto:
		colorize = fdValid && isatty.IsTerminal(fd)
	}
	return &Printer{
		w:             bufio.NewWriter(w),
		mode:          mode,
		colorize:      colorize,
		reportedFiles: make(map[string]bool),
	}
}

// Match is one reported span within a file, with the covering source
// lines already sliced out for display. Prefix+Matched+Suffix is the full
// text of every line the span touches, from the start of its first line
// to the end of its last, newlines included in between.
type Match struct {
	Path string
	Span token.Span

	StartLine int // 1-based
	EndLine   int // 1-based, >= StartLine

	Prefix  string // first covered line up to the span start
	Matched string // the matched bytes themselves
	Suffix  string // last covered line past the span end
}

// PrintFileWithoutMatch records that path was searched and had no match.
// It is the ModeFilesWithoutMatch counterpart to Print's per-match
// ModeFilesOnly handling, since a file with zero matches never drives a
// Print call of its own.
func (p *Printer) PrintFileWithoutMatch(path string) {
	if p.mode != ModeFilesWithoutMatch {
		return
	}
	if !p.reportedFiles[path] {
		p.reportedFiles[path] = true
		p.println(path)
	}
}

// Print renders one match according to the Printer's Mode.
func (p *Printer) Print(m Match) {
	switch p.mode {
	case ModeFilesOnly:
		if !p.reportedFiles[m.Path] {
			p.reportedFiles[m.Path] = true
			p.println(m.Path)
		}
	case ModeFilesWithoutMatch:
		// matches are irrelevant to -L; Report drives PrintFileWithoutMatch
	case ModeOnlyMatches:
		if p.colorize {
			p.println(matchStyle.Sprint(m.Matched))
		} else {
			p.println(m.Matched)
		}
	default:
		p.printLineMatch(m)
	}
}

func (p *Printer) printLineMatch(m Match) {
	locator := fmt.Sprintf("[%s:%d-%d]", m.Path, m.StartLine, m.EndLine)
	if !p.colorize {
		p.println(locator)
		p.println(m.Prefix + m.Matched + m.Suffix)
		return
	}
	p.println(pathStyle.Sprint(locator))
	var b strings.Builder
	b.WriteString(m.Prefix)
	b.WriteString(matchStyle.Sprint(m.Matched))
	b.WriteString(m.Suffix)
	p.println(b.String())
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Flush must be called once writing is done.
func (p *Printer) Flush() error { return p.w.Flush() }

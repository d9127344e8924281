// Package options holds the immutable parsing configuration (LexerOptions
// in the design doc) that the lexer, tree builder and query parser all
// share for a single file or query.
package options

import (
	"fmt"
	"regexp"
	"sort"
)

// CommentDelim is a (open, close) pair bounding a non-nesting block comment.
type CommentDelim struct {
	Open  string
	Close string
}

// BlockDelim is a (open, close) pair bounding a structural block, e.g. "(" ")".
type BlockDelim struct {
	Open  string
	Close string
}

// Options is the immutable configuration the lexer, tree builder and query
// parser are built against. Two Options values built from the same preset
// and flags tokenize identically; nothing here is mutated once Build
// returns.
type Options struct {
	IdentStart *regexp.Regexp
	IdentCont  *regexp.Regexp

	Strings       []rune
	LineComments  []string
	BlockComments []CommentDelim
	Blocks        []BlockDelim
}

// universalBlocks is the block set every non-plain language preset gets;
// presets do not configure blocks themselves, only flags change the set.
var universalBlocks = []BlockDelim{
	{Open: "(", Close: ")"},
	{Open: "[", Close: "]"},
	{Open: "{", Close: "}"},
}

// IsOpen reports whether s opens one of o's configured blocks.
func (o *Options) IsOpen(s string) (BlockDelim, bool) {
	for _, b := range o.Blocks {
		if b.Open == s {
			return b, true
		}
	}
	return BlockDelim{}, false
}

// IsClose reports whether s closes one of o's configured blocks.
func (o *Options) IsClose(s string) (BlockDelim, bool) {
	for _, b := range o.Blocks {
		if b.Close == s {
			return b, true
		}
	}
	return BlockDelim{}, false
}

// IsString reports whether r delimits a string literal; the same rune
// opens and closes it.
func (o *Options) IsString(r rune) bool {
	for _, s := range o.Strings {
		if s == r {
			return true
		}
	}
	return false
}

// Builder accumulates preset + per-flag overrides into an Options value:
// start from a named preset, apply the flag-driven add/remove commands,
// then Build.
type Builder struct {
	opts Options
}

// NewBuilder starts from the named preset. An empty name or "plain" yields
// the empty configuration (no strings, comments or blocks).
func NewBuilder(preset string) (*Builder, error) {
	def, ok := lookupPreset(preset)
	if !ok {
		return nil, fmt.Errorf("unknown language preset %q (pass --lang with no value to list presets)", preset)
	}

	identStart, err := regexp.Compile(def.Identifier[0])
	if err != nil {
		return nil, fmt.Errorf("preset %q: invalid identifier-start regex: %w", preset, err)
	}
	identCont, err := regexp.Compile(def.Identifier[1])
	if err != nil {
		return nil, fmt.Errorf("preset %q: invalid identifier-continue regex: %w", preset, err)
	}

	b := &Builder{opts: Options{
		IdentStart:    identStart,
		IdentCont:     identCont,
		LineComments:  append([]string(nil), def.SingleComments...),
		BlockComments: toCommentDelims(def.MultiComments),
	}}
	if preset == "plain" || preset == "" {
		b.opts.Blocks = nil
	} else {
		b.opts.Blocks = append([]BlockDelim(nil), universalBlocks...)
	}
	for _, s := range def.Strings {
		b.AddString(s)
	}
	return b, nil
}

func toCommentDelims(pairs [][2]string) []CommentDelim {
	out := make([]CommentDelim, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, CommentDelim{Open: p[0], Close: p[1]})
	}
	return out
}

// SetIdentifier overrides both identifier regexes.
func (b *Builder) SetIdentifier(start, cont *regexp.Regexp) { b.opts.IdentStart, b.opts.IdentCont = start, cont }

// AddString adds a string-delimiter character. s must be exactly one rune.
func (b *Builder) AddString(s string) error {
	r, ok := singleRune(s)
	if !ok {
		return fmt.Errorf("-s/--string argument %q must be a single character", s)
	}
	if !b.opts.IsString(r) {
		b.opts.Strings = append(b.opts.Strings, r)
	}
	return nil
}

// RemoveString removes a string-delimiter character previously configured.
func (b *Builder) RemoveString(s string) error {
	r, ok := singleRune(s)
	if !ok {
		return fmt.Errorf("-S/--no-string argument %q must be a single character", s)
	}
	out := b.opts.Strings[:0]
	for _, existing := range b.opts.Strings {
		if existing != r {
			out = append(out, existing)
		}
	}
	b.opts.Strings = out
	return nil
}

// AddLineComment adds a single-line-comment prefix.
func (b *Builder) AddLineComment(prefix string) {
	for _, existing := range b.opts.LineComments {
		if existing == prefix {
			return
		}
	}
	b.opts.LineComments = append(b.opts.LineComments, prefix)
}

// RemoveLineComment removes a single-line-comment prefix.
func (b *Builder) RemoveLineComment(prefix string) {
	out := b.opts.LineComments[:0]
	for _, existing := range b.opts.LineComments {
		if existing != prefix {
			out = append(out, existing)
		}
	}
	b.opts.LineComments = out
}

// AddBlockComment adds a (open, close) block-comment pair.
func (b *Builder) AddBlockComment(open, close string) {
	for _, existing := range b.opts.BlockComments {
		if existing.Open == open && existing.Close == close {
			return
		}
	}
	b.opts.BlockComments = append(b.opts.BlockComments, CommentDelim{Open: open, Close: close})
}

// RemoveBlockComment removes a (open, close) block-comment pair.
func (b *Builder) RemoveBlockComment(open, close string) {
	out := b.opts.BlockComments[:0]
	for _, existing := range b.opts.BlockComments {
		if existing.Open != open || existing.Close != close {
			out = append(out, existing)
		}
	}
	b.opts.BlockComments = out
}

// AddBlock adds a (open, close) structural block pair.
func (b *Builder) AddBlock(open, close string) {
	for _, existing := range b.opts.Blocks {
		if existing.Open == open && existing.Close == close {
			return
		}
	}
	b.opts.Blocks = append(b.opts.Blocks, BlockDelim{Open: open, Close: close})
}

// RemoveBlockOpen removes any block pair whose opener is open.
func (b *Builder) RemoveBlockOpen(open string) {
	out := b.opts.Blocks[:0]
	for _, existing := range b.opts.Blocks {
		if existing.Open != open {
			out = append(out, existing)
		}
	}
	b.opts.Blocks = out
}

// RemoveBlockClose removes any block pair whose closer is close.
func (b *Builder) RemoveBlockClose(close string) {
	out := b.opts.Blocks[:0]
	for _, existing := range b.opts.Blocks {
		if existing.Close != close {
			out = append(out, existing)
		}
	}
	b.opts.Blocks = out
}

// Build finalizes the configuration. The returned Options must not be
// mutated by callers; Builder always returns a fresh copy of its slices.
func (b *Builder) Build() Options {
	out := b.opts
	out.Strings = append([]rune(nil), b.opts.Strings...)
	out.LineComments = append([]string(nil), b.opts.LineComments...)
	out.BlockComments = append([]CommentDelim(nil), b.opts.BlockComments...)
	out.Blocks = append([]BlockDelim(nil), b.opts.Blocks...)
	return out
}

func singleRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

// ListPresets returns preset names sorted alphabetically, for `--lang`
// with no value.
func ListPresets() []string {
	names := make([]string, 0, len(presetDB()))
	for name := range presetDB() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetExtensions returns the file extensions (without the leading dot)
// a preset is auto-selected for.
func PresetExtensions(name string) []string {
	def, ok := lookupPreset(name)
	if !ok {
		return nil
	}
	return def.Extensions
}

// PresetForExtension returns the preset name registered for a bare file
// extension (without the leading dot), and whether one was found.
func PresetForExtension(ext string) (string, bool) {
	name, ok := extensionIndex()[ext]
	return name, ok
}

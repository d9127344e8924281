// Package token defines the lexical tokens produced by internal/lexer and
// consumed by internal/tree and internal/pattern.
package token

import "fmt"

// Span is a half-open byte range [Start, End) into a single source buffer.
type Span struct {
	Start int
	End   int
}

// Merge returns the smallest Span enclosing both s and other.
func (s Span) Merge(other Span) Span {
	m := s
	if other.Start < m.Start {
		m.Start = other.Start
	}
	if other.End > m.End {
		m.End = other.End
	}
	return m
}

// Len reports the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Kind discriminates the Token variants.
type Kind int

const (
	// Identifier is a run matching IdentStart then IdentCont*.
	Identifier Kind = iota
	// Number is a run of digits, with an optional 0b/0x radix prefix.
	Number
	// StringLit is a quoted string literal.
	StringLit
	// LineComment runs from a configured prefix to end-of-line.
	LineComment
	// BlockComment runs from a configured open to its close, non-nesting.
	BlockComment
	// BlockOpen opens a configured structural block.
	BlockOpen
	// BlockClose closes a configured structural block.
	BlockClose
	// Punct is any run of punctuation not otherwise classified.
	Punct
	// Whitespace is a run of Unicode whitespace; trivia for matching.
	Whitespace
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Number:
		return "Number"
	case StringLit:
		return "StringLit"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	case BlockOpen:
		return "BlockOpen"
	case BlockClose:
		return "BlockClose"
	case Punct:
		return "Punct"
	case Whitespace:
		return "Whitespace"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit with its byte span into the source buffer
// it was lexed from. Text and Content hold copies of the token's source
// text; Span locates it in the original buffer.
type Token struct {
	Kind Kind
	Span Span

	// Text is the token's literal text for kinds where identity matters to
	// matching: Identifier name, Punct run, BlockOpen/BlockClose delimiter,
	// the block's "kind" key (see Block field below).
	Text string

	// Quote is the delimiter rune for StringLit tokens.
	Quote rune
	// Content is the StringLit's content, excluding the delimiters, but
	// including any backslash escapes verbatim (no unescaping is performed:
	// matching a StringRegex pattern runs over this raw content).
	Content string

	// Block identifies which configured (open, close) pair a BlockOpen or
	// BlockClose token belongs to, keyed by its Open delimiter text. This is
	// what Pattern's Group{open_kind} matches against.
	Block string

	// Truncated marks a StringLit or BlockComment token that ran off the
	// end of the source without finding its terminator. Never fatal: the
	// token is still usable for matching.
	Truncated bool
}

// RawSpan is an alias for Span kept for readability at call sites that
// rebuild source text from consecutive tokens.
func (t Token) RawSpan() Span { return t.Span }

func (t Token) String() string {
	switch t.Kind {
	case Identifier, Punct, BlockOpen, BlockClose:
		return fmt.Sprintf("%s(%q)@%d-%d", t.Kind, t.Text, t.Span.Start, t.Span.End)
	case StringLit:
		return fmt.Sprintf("StringLit(%q)@%d-%d", t.Content, t.Span.Start, t.Span.End)
	default:
		return fmt.Sprintf("%s@%d-%d", t.Kind, t.Span.Start, t.Span.End)
	}
}

// IsTrivia reports whether t is whitespace or a comment: tokens the matcher
// skips between atoms of a sequence.
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == LineComment || t.Kind == BlockComment
}

// Package lexer tokenizes source bytes into an ordered, gapless sequence
// of token.Token values. It never fails: unterminated strings or block
// comments degrade to a truncated token reaching EOF instead of aborting.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/synstool/syns/internal/options"
	"github.com/synstool/syns/internal/token"
)

// Lex tokenizes src under opts. The concatenation of every returned token's
// raw span reproduces src byte-for-byte.
func Lex(src []byte, opts *options.Options) []token.Token {
	l := &lexer{src: src, opts: opts}
	for l.pos < len(l.src) {
		l.step()
	}
	return l.tokens
}

// Step lexes exactly one token from the start of src under opts, returning
// it and the number of bytes consumed. Unlike Lex, it never merges the
// result into a caller's previous Punct token: callers needing that (the
// query scanner in internal/pattern, which must see backslash escapes as
// distinct from the punctuation they act on) merge themselves.
// On an empty src, Step consumes nothing and returns 0 as the byte count.
func Step(src []byte, opts *options.Options) (token.Token, int) {
	l := &lexer{src: src, opts: opts}
	l.step()
	return l.tokens[0], l.pos
}

type lexer struct {
	src    []byte
	opts   *options.Options
	pos    int
	tokens []token.Token
}

// step consumes exactly one token (or merges a lone punctuation byte into
// the previous Punct run) starting at l.pos, advancing l.pos past it.
// Checks run in priority order: identifier, number, block comment, line
// comment, string, block delimiter, whitespace, punct.
func (l *lexer) step() {
	start := l.pos
	r, size := utf8.DecodeRune(l.src[l.pos:])

	switch {
	case l.opts.IdentStart != nil && l.opts.IdentStart.MatchString(string(r)):
		l.lexIdentifier(start)
	case r >= '0' && r <= '9':
		l.lexNumber(start)
	case l.tryLexBlockComment(start):
		// handled inline
	case l.tryLexLineComment(start):
		// handled inline
	case l.opts.IsString(r):
		l.lexString(start, r)
	case l.tryLexBlock(start):
		// handled inline
	case unicode.IsSpace(r):
		l.lexWhitespace(start)
	default:
		l.pos += size
		l.emitPunct(token.Span{Start: start, End: l.pos}, string(l.src[start:l.pos]))
	}
}

func (l *lexer) lexIdentifier(start int) {
	_, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRune(l.src[l.pos:])
		if l.opts.IdentCont == nil || !l.opts.IdentCont.MatchString(string(r)) {
			break
		}
		l.pos += sz
	}
	l.emit(token.Token{
		Kind: token.Identifier,
		Span: token.Span{Start: start, End: l.pos},
		Text: string(l.src[start:l.pos]),
	})
}

// lexNumber consumes [0-9]+, recognizing a leading 0b/0x radix prefix and
// widening the digit alphabet accordingly. Floats, exponents and digit
// separators are not number syntax here; "." and suffixes lex as their
// own tokens.
func (l *lexer) lexNumber(start int) {
	radix := 10
	if l.pos+1 < len(l.src) && l.src[l.pos] == '0' {
		switch l.src[l.pos+1] {
		case 'b', 'B':
			radix = 2
		case 'x', 'X':
			radix = 16
		}
	}
	if radix != 10 {
		l.pos += 2
	}
	for l.pos < len(l.src) && isRadixDigit(l.src[l.pos], radix) {
		l.pos++
	}
	l.emit(token.Token{
		Kind: token.Number,
		Span: token.Span{Start: start, End: l.pos},
		Text: string(l.src[start:l.pos]),
	})
}

func isRadixDigit(b byte, radix int) bool {
	switch radix {
	case 2:
		return b == '0' || b == '1'
	case 16:
		return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	default:
		return b >= '0' && b <= '9'
	}
}

// tryLexBlockComment emits a BlockComment token if a configured (open,
// close) pair's open is a prefix at the current position, picking the
// longest open among matches and, on ties, the first configured.
func (l *lexer) tryLexBlockComment(start int) bool {
	pair, ok := longestPrefixPair(l.src[l.pos:], l.opts.BlockComments, func(c options.CommentDelim) string { return c.Open })
	if !ok {
		return false
	}
	l.pos += len(pair.Open)
	idx := strings.Index(string(l.src[l.pos:]), pair.Close)
	truncated := idx < 0
	if truncated {
		l.pos = len(l.src)
	} else {
		l.pos += idx + len(pair.Close)
	}
	l.emit(token.Token{
		Kind:      token.BlockComment,
		Span:      token.Span{Start: start, End: l.pos},
		Text:      string(l.src[start:l.pos]),
		Truncated: truncated,
	})
	return true
}

func (l *lexer) tryLexLineComment(start int) bool {
	prefix, ok := longestPrefixString(l.src[l.pos:], l.opts.LineComments)
	if !ok {
		return false
	}
	l.pos += len(prefix)
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	l.emit(token.Token{
		Kind: token.LineComment,
		Span: token.Span{Start: start, End: l.pos},
		Text: string(l.src[start:l.pos]),
	})
	return true
}

// lexString consumes a string literal opened by quote, honoring \x escapes
// ("\x" always consumes the next character, whatever it is).
func (l *lexer) lexString(start int, quote rune) {
	l.pos += utf8.RuneLen(quote)
	contentStart := l.pos
	truncated := true
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if r == '\\' {
			l.pos += size
			if l.pos < len(l.src) {
				_, nsz := utf8.DecodeRune(l.src[l.pos:])
				l.pos += nsz
			}
			continue
		}
		if r == quote {
			truncated = false
			l.pos += size
			break
		}
		l.pos += size
	}
	contentEnd := l.pos
	if !truncated {
		contentEnd -= utf8.RuneLen(quote)
	}
	l.emit(token.Token{
		Kind:      token.StringLit,
		Span:      token.Span{Start: start, End: l.pos},
		Quote:     quote,
		Content:   string(l.src[contentStart:contentEnd]),
		Truncated: truncated,
	})
}

// tryLexBlock emits a BlockOpen/BlockClose token for the longest matching
// configured delimiter at the current position.
func (l *lexer) tryLexBlock(start int) bool {
	type cand struct {
		text string
		kind token.Kind
		pair options.BlockDelim
	}
	var best *cand
	for _, b := range l.opts.Blocks {
		for _, c := range []cand{{b.Open, token.BlockOpen, b}, {b.Close, token.BlockClose, b}} {
			if !strings.HasPrefix(string(l.src[l.pos:]), c.text) {
				continue
			}
			if best == nil || len(c.text) > len(best.text) {
				cc := c
				best = &cc
			}
		}
	}
	if best == nil {
		return false
	}
	l.pos += len(best.text)
	l.emit(token.Token{
		Kind:  best.kind,
		Span:  token.Span{Start: start, End: l.pos},
		Text:  best.text,
		Block: best.pair.Open,
	})
	return true
}

func (l *lexer) lexWhitespace(start int) {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	l.emit(token.Token{
		Kind: token.Whitespace,
		Span: token.Span{Start: start, End: l.pos},
		Text: string(l.src[start:l.pos]),
	})
}

// emitPunct appends a single-character Punct token, merging it into the
// immediately preceding Punct run when no trivia separates them: "++"
// lexes as one token, "+ +" as two.
func (l *lexer) emitPunct(span token.Span, text string) {
	if n := len(l.tokens); n > 0 {
		prev := &l.tokens[n-1]
		if prev.Kind == token.Punct && prev.Span.End == span.Start {
			prev.Text += text
			prev.Span.End = span.End
			return
		}
	}
	l.emit(token.Token{Kind: token.Punct, Span: span, Text: text})
}

func (l *lexer) emit(t token.Token) { l.tokens = append(l.tokens, t) }

// longestPrefixPair finds, among pairs whose key(p) is a prefix of src, the
// one with the longest key; ties keep the first-configured (lowest index).
func longestPrefixPair[T any](src []byte, pairs []T, key func(T) string) (T, bool) {
	var best T
	found := false
	for _, p := range pairs {
		k := key(p)
		if k == "" || !strings.HasPrefix(string(src), k) {
			continue
		}
		if !found || len(k) > len(key(best)) {
			best = p
			found = true
		}
	}
	return best, found
}

func longestPrefixString(src []byte, candidates []string) (string, bool) {
	best := ""
	found := false
	for _, c := range candidates {
		if c == "" || !strings.HasPrefix(string(src), c) {
			continue
		}
		if !found || len(c) > len(best) {
			best = c
			found = true
		}
	}
	return best, found
}

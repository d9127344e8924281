// Package tree folds a flat token stream into a paren-tree: Leaf nodes for
// ordinary tokens and Group nodes for matched block delimiters.
package tree

import (
	"github.com/synstool/syns/internal/token"
)

// Node is either a Leaf or a Group.
type Node interface {
	// FullSpan is the byte span the node occupies, including delimiters.
	FullSpan() token.Span
}

// Leaf wraps a single non-block token.
type Leaf struct {
	Tok token.Token
}

// FullSpan returns the wrapped token's span.
func (l Leaf) FullSpan() token.Span { return l.Tok.Span }

// Group is a matched (or, at EOF, unmatched) block: an open delimiter, its
// children, and a close delimiter that is absent when the source ends
// before the block was closed.
type Group struct {
	// OpenKind is the block's key (its Open delimiter text), matched
	// against a Pattern Group's open_kind.
	OpenKind string

	OpenSpan  token.Span
	CloseSpan *token.Span // nil when the block was never closed (EOF)

	Children []Node

	// Full is [OpenSpan.Start, end), where end is CloseSpan.End when
	// present, else the end of the last child (or OpenSpan.End if empty).
	Full token.Span
}

// FullSpan returns the group's full span, delimiters included.
func (g Group) FullSpan() token.Span { return g.Full }

// Closed reports whether the group's close delimiter was found in source.
func (g Group) Closed() bool { return g.CloseSpan != nil }

// Build folds toks into a tree. Trivia (whitespace, comments) is kept as
// Leaf nodes in document order; the matcher is responsible for skipping
// it, not the tree builder.
//
// An unmatched BlockClose (one with no open Group on the stack matching
// its Block key) is demoted to an ordinary Leaf: it closes nothing and is
// not itself a delimiter of anything. Every BlockOpen still unclosed when
// the token stream ends becomes a Group with CloseSpan == nil, spanning to
// the end of the last-seen token (or its own open span if it has no
// children). Build never fails: unbalanced delimiters are common in real
// source and user-error input, and the tool must degrade gracefully.
func Build(toks []token.Token) []Node {
	b := &builder{}
	for _, tok := range toks {
		b.feed(tok)
	}
	return b.finish()
}

type frame struct {
	openKind string
	open     token.Span
	children []Node
}

type builder struct {
	stack []frame
	roots []Node
}

func (b *builder) feed(tok token.Token) {
	switch tok.Kind {
	case token.BlockOpen:
		b.stack = append(b.stack, frame{openKind: tok.Block, open: tok.Span})
	case token.BlockClose:
		if idx := b.findOpenFrame(tok.Block); idx >= 0 {
			b.closeThrough(idx, tok)
			return
		}
		b.appendNode(Leaf{Tok: tok})
	default:
		b.appendNode(Leaf{Tok: tok})
	}
}

// findOpenFrame returns the index of the innermost stack frame whose
// openKind matches, or -1. A close only ever matches the block kind it was
// configured against; mismatched closers (e.g. ")" against an open "{")
// never pop a frame they don't belong to.
func (b *builder) findOpenFrame(kind string) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].openKind == kind {
			return i
		}
	}
	return -1
}

// closeThrough closes the frame at idx. Any frames above idx that are
// still open at this point are themselves unmatched; they close at the
// position of this closer rather than waiting for EOF, since a
// well-formed nesting would have closed them first. This only fires on
// malformed/crossing delimiters.
func (b *builder) closeThrough(idx int, closer token.Token) {
	for len(b.stack)-1 > idx {
		b.forceClose(len(b.stack) - 1)
	}
	f := b.stack[idx]
	b.stack = b.stack[:idx]
	closeSpan := closer.Span
	full := f.open.Merge(closeSpan)
	b.appendNode(Group{
		OpenKind:  f.openKind,
		OpenSpan:  f.open,
		CloseSpan: &closeSpan,
		Children:  f.children,
		Full:      full,
	})
}

func (b *builder) forceClose(i int) {
	f := b.stack[i]
	b.stack = b.stack[:i]
	full := f.open
	if n := len(f.children); n > 0 {
		full = full.Merge(f.children[n-1].FullSpan())
	}
	b.appendNode(Group{
		OpenKind: f.openKind,
		OpenSpan: f.open,
		Children: f.children,
		Full:     full,
	})
}

func (b *builder) appendNode(n Node) {
	if len(b.stack) == 0 {
		b.roots = append(b.roots, n)
		return
	}
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, n)
}

func (b *builder) finish() []Node {
	for len(b.stack) > 0 {
		b.forceClose(len(b.stack) - 1)
	}
	return b.roots
}

// Package pattern defines the query AST and the parser that builds it
// from raw query bytes.
package pattern

import (
	"regexp"

	"github.com/synstool/syns/internal/token"
)

// Node is any pattern AST node.
type Node interface {
	patternNode()
}

// AnyToken ("\.") matches exactly one token of any kind.
type AnyToken struct{}

func (AnyToken) patternNode() {}

// Literal matches a single token by kind and exact text: an unescaped
// identifier, number or punctuation run written directly in the query.
// This is the "Ident"/"Punct" case of the design: which one it is falls
// out of Kind, so a single type covers both.
type Literal struct {
	Kind token.Kind
	Text string
}

func (Literal) patternNode() {}

// LiteralString matches a StringLit token whose Quote and Content are
// exactly those written in the query (an unescaped quoted run).
type LiteralString struct {
	Quote   rune
	Content string
}

func (LiteralString) patternNode() {}

// StringRegex (`\"..."`) matches a StringLit token whose Content the
// regex matches. The regex is compiled anchored: it must cover the whole
// content, not a substring of it.
type StringRegex struct {
	Re *regexp.Regexp
}

func (StringRegex) patternNode() {}

// Group matches a tree.Group node: OpenKind must equal the target's
// OpenKind, and Inner must match the target's children as a sequence
// starting at the first non-trivia child. Inner need not reach the end of
// the children unless it carries an explicit EndAnchor; `f()` finds every
// call of f whatever its arguments.
// Produced by writing an unescaped block delimiter directly in the query
// ("(", "[", "{"): the query's own structure is taken as literal required
// structure in the target.
type Group struct {
	OpenKind string
	Inner    Node
}

func (Group) patternNode() {}

// Seq matches a list of atoms against a list of target nodes in order,
// skipping trivia between atoms.
type Seq struct {
	Items []Node
}

func (Seq) patternNode() {}

// Repeat wraps Item with a repetition count. Max of -1 means unbounded.
// Produced by a `\+` ( min 1, max -1 ), `\*` (min 0, max -1) or `\?`
// (min 0, max 1) suffix on the preceding atom.
type Repeat struct {
	Item     Node
	Min, Max int
}

func (Repeat) patternNode() {}

// Alt (`\|`) matches if any Branch matches, tried in declared order. It
// binds loosest: a top-level query is split on `\|` before anything else.
type Alt struct {
	Branches []Node
}

func (Alt) patternNode() {}

// EndAnchor (`\$`) requires the enclosing sequence to have consumed every
// remaining non-trivia sibling in its target list: nothing more may
// follow.
type EndAnchor struct{}

func (EndAnchor) patternNode() {}

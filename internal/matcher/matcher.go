// Package matcher walks a paren-tree with a pattern using recursive
// backtracking, never a linear-time automaton: every Repeat and Alt
// branch point is explored by ordinary recursion, so a pathological
// pattern can take exponential time on a pathological tree, same
// tradeoff a plain regex backtracker makes.
package matcher

import (
	"sort"

	"github.com/synstool/syns/internal/pattern"
	"github.com/synstool/syns/internal/token"
	"github.com/synstool/syns/internal/tree"
)

// FindAll returns every match of pat against forest, in document order.
// A match can start at any non-trivia sibling of any node-list in the
// tree — the top-level forest, and independently the children of every
// Group, however deeply nested, whether or not that Group itself
// participates in an enclosing match.
func FindAll(pat pattern.Node, forest []tree.Node) []token.Span {
	var out []token.Span
	var walk func(list []tree.Node)
	walk = func(list []tree.Node) {
		for i, n := range list {
			if isTrivia(n) {
				continue
			}
			if end, ok := matchFrom(pat, list, i); ok {
				out = append(out, spanOf(list, i, end))
			}
		}
		for _, n := range list {
			if g, ok := n.(tree.Group); ok {
				walk(g.Children)
			}
		}
	}
	walk(forest)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// spanOf is the reported span for a match over list[i:end]. An EndAnchor
// can push end past trailing trivia without consuming anything real, so
// trivia is trimmed back off before taking the last node's span; a
// zero-width match (a repeat satisfied by zero occurrences) collapses to
// an empty span at the start position.
func spanOf(list []tree.Node, i, end int) token.Span {
	for end > i && isTrivia(list[end-1]) {
		end--
	}
	if end == i {
		s := list[i].FullSpan().Start
		return token.Span{Start: s, End: s}
	}
	return list[i].FullSpan().Merge(list[end-1].FullSpan())
}

// matchFrom tries pat against list starting exactly at i, returning the
// first successful end index (exclusive) it finds. Ties among multiple
// valid endpoints resolve to whichever the backtracking search reaches
// first: greedy repeats and declaration-order alternatives.
func matchFrom(pat pattern.Node, list []tree.Node, i int) (int, bool) {
	found := -1
	ok := match(pat, list, i, func(end int) bool {
		found = end
		return true
	})
	return found, ok
}

// cont is invoked with the sibling index reached after a sub-pattern
// matched; it reports whether the rest of the overall match succeeds from
// there. match returns whatever the winning continuation returned.
type cont func(end int) bool

func match(n pattern.Node, list []tree.Node, i int, k cont) bool {
	switch p := n.(type) {
	case pattern.AnyToken:
		j := skipTrivia(list, i)
		if j >= len(list) {
			return false
		}
		return k(j + 1)

	case pattern.Literal:
		j := skipTrivia(list, i)
		leaf, ok := leafAt(list, j)
		if !ok || leaf.Kind != p.Kind || leaf.Text != p.Text {
			return false
		}
		return k(j + 1)

	case pattern.LiteralString:
		j := skipTrivia(list, i)
		leaf, ok := leafAt(list, j)
		if !ok || leaf.Kind != token.StringLit || leaf.Quote != p.Quote || leaf.Content != p.Content {
			return false
		}
		return k(j + 1)

	case pattern.StringRegex:
		j := skipTrivia(list, i)
		leaf, ok := leafAt(list, j)
		if !ok || leaf.Kind != token.StringLit || !p.Re.MatchString(leaf.Content) {
			return false
		}
		return k(j + 1)

	case pattern.Group:
		j := skipTrivia(list, i)
		if j >= len(list) {
			return false
		}
		g, ok := list[j].(tree.Group)
		if !ok || g.OpenKind != p.OpenKind {
			return false
		}
		if !matchesInner(p.Inner, g.Children) {
			return false
		}
		return k(j + 1)

	case pattern.Seq:
		return matchSeq(p.Items, 0, list, i, k)

	case pattern.Repeat:
		return matchRepeat(p, list, i, k)

	case pattern.Alt:
		for _, branch := range p.Branches {
			if match(branch, list, i, k) {
				return true
			}
		}
		return false

	case pattern.EndAnchor:
		j := skipTrivia(list, i)
		if j != len(list) {
			return false
		}
		return k(j)

	default:
		return false
	}
}

// matchesInner reports whether pat matches children starting at the first
// non-trivia sibling. The inner sequence only needs to cover a prefix of
// the block: `sprintf()` matches sprintf("a", b), and `(str)` matches the
// whole (str ...) list. An EndAnchor in pat is what forces consumption of
// every remaining sibling.
func matchesInner(pat pattern.Node, children []tree.Node) bool {
	start := skipTrivia(children, 0)
	return match(pat, children, start, func(int) bool { return true })
}

func matchSeq(items []pattern.Node, idx int, list []tree.Node, i int, k cont) bool {
	if idx == len(items) {
		return k(i)
	}
	return match(items[idx], list, i, func(end int) bool {
		return matchSeq(items, idx+1, list, end, k)
	})
}

// matchRepeat is greedy: it tries to extend one more repetition before
// ever falling back to the continuation, then backtracks by one
// repetition at a time when the greedy path can't be completed.
func matchRepeat(p pattern.Repeat, list []tree.Node, i int, k cont) bool {
	var tryCount func(count, pos int) bool
	tryCount = func(count, pos int) bool {
		if p.Max < 0 || count < p.Max {
			extended := match(p.Item, list, pos, func(end int) bool {
				if end == pos {
					// zero-width repetition body: stop growing to avoid
					// looping forever, fall through to the count check.
					return false
				}
				return tryCount(count+1, end)
			})
			if extended {
				return true
			}
		}
		if count >= p.Min {
			return k(pos)
		}
		return false
	}
	return tryCount(0, i)
}

func skipTrivia(list []tree.Node, i int) int {
	for i < len(list) && isTrivia(list[i]) {
		i++
	}
	return i
}

func isTrivia(n tree.Node) bool {
	leaf, ok := n.(tree.Leaf)
	return ok && leaf.Tok.IsTrivia()
}

func leafAt(list []tree.Node, i int) (token.Token, bool) {
	if i >= len(list) {
		return token.Token{}, false
	}
	leaf, ok := list[i].(tree.Leaf)
	if !ok {
		return token.Token{}, false
	}
	return leaf.Tok, true
}

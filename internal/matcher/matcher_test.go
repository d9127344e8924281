package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synstool/syns/internal/lexer"
	"github.com/synstool/syns/internal/options"
	"github.com/synstool/syns/internal/pattern"
	"github.com/synstool/syns/internal/token"
	"github.com/synstool/syns/internal/tree"
)

func setup(t *testing.T, preset string) *options.Options {
	t.Helper()
	b, err := options.NewBuilder(preset)
	require.NoError(t, err)
	opts := b.Build()
	return &opts
}

func parseTree(t *testing.T, opts *options.Options, src string) []tree.Node {
	t.Helper()
	return tree.Build(lexer.Lex([]byte(src), opts))
}

func parsePattern(t *testing.T, opts *options.Options, query string) pattern.Node {
	t.Helper()
	n, err := pattern.NewParser(opts).Parse([]byte(query))
	require.NoError(t, err)
	return n
}

func textOf(src string, s token.Span) string { return src[s.Start:s.End] }

func TestMatchLiteralIdentifier(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := "foo bar foo"
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, "foo")

	spans := FindAll(pat, forest)
	require.Len(t, spans, 2)
	assert.Equal(t, "foo", textOf(src, spans[0]))
	assert.Equal(t, "foo", textOf(src, spans[1]))
}

func TestMatchEmptyGroupPatternMatchesAnyCall(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `sprintf("a", b)`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `sprintf()`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, token.Span{Start: 0, End: len(src)}, spans[0])
	assert.Equal(t, src, textOf(src, spans[0]))
}

func TestMatchGroupInnerIsPrefix(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `sprintf("a", b)`
	forest := parseTree(t, opts, src)

	// one leading token, anything after
	spans := FindAll(parsePattern(t, opts, `sprintf(\.)`), forest)
	require.Len(t, spans, 1)
	assert.Equal(t, src, textOf(src, spans[0]))

	// but a longer prefix than the block holds still fails
	spans = FindAll(parsePattern(t, opts, `sprintf(x \.)`), forest)
	assert.Len(t, spans, 0)
}

func TestMatchGroupWithExactChildren(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `f(a, b)`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `f(a, b)`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, src, textOf(src, spans[0]))
}

func TestMatchClojureListByHead(t *testing.T) {
	t.Parallel()
	opts := setup(t, "clojure")
	src := `(str "select * from user where username = '" param "'")`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `(str)`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, src, textOf(src, spans[0]))
}

func TestMatchStringRegex(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `f("getFoo"); f("setFoo")`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `\"get.*"`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, `"getFoo"`, textOf(src, spans[0]))
}

func TestMatchStringRegexIsContentAnchored(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `f("getFoo")`
	forest := parseTree(t, opts, src)

	// "get" alone is not the full content, so it does not match
	spans := FindAll(parsePattern(t, opts, `\"get"`), forest)
	assert.Len(t, spans, 0)
}

func TestMatchStringRegexThenPunct(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `"SELECT * FROM t" + x`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `\"SELECT.*" +`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, `"SELECT * FROM t" +`, textOf(src, spans[0]))
}

func TestMatchAdjacentCallGroups(t *testing.T) {
	t.Parallel()
	opts := setup(t, "js")
	src := `foo(a)(b)`
	forest := parseTree(t, opts, src)

	spans := FindAll(parsePattern(t, opts, `foo()`), forest)
	require.Len(t, spans, 1)
	assert.Equal(t, "foo(a)", textOf(src, spans[0]))

	spans = FindAll(parsePattern(t, opts, `foo()()`), forest)
	require.Len(t, spans, 1)
	assert.Equal(t, "foo(a)(b)", textOf(src, spans[0]))
}

func TestMatchEndAnchorInsideGroup(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := `printf("hi")`
	forest := parseTree(t, opts, src)

	spans := FindAll(parsePattern(t, opts, `printf(\.\$)`), forest)
	require.Len(t, spans, 1)
	assert.Equal(t, src, textOf(src, spans[0]))

	spans = FindAll(parsePattern(t, opts, `printf(\. \.)`), forest)
	assert.Len(t, spans, 0)
}

func TestMatchRepeatGreedy(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := "a b c d"
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `a\+`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, "a", textOf(src, spans[0]))
}

func TestMatchAltTriesInOrder(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := "foo bar baz"
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `foo\|bar`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 2)
	assert.Equal(t, "foo", textOf(src, spans[0]))
	assert.Equal(t, "bar", textOf(src, spans[1]))
}

func TestMatchNestedSubMatchInsideGroups(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := `outer(inner(x))`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, "x")

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, "x", textOf(src, spans[0]))
}

func TestMatchSkipsTriviaBetweenAtoms(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := "a /* c */ b"
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, "a b")

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, src, textOf(src, spans[0]))
}

func TestMatchWildcardsAcrossTrivia(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := "a b  c /* x */ d"
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `a \. \. d`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, src, textOf(src, spans[0]))
}

func TestMatchEndAnchorAtTopLevel(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	pat := parsePattern(t, opts, `b\$`)

	spans := FindAll(pat, parseTree(t, opts, "a b"))
	require.Len(t, spans, 1)

	spans = FindAll(pat, parseTree(t, opts, "b a"))
	assert.Len(t, spans, 0)
}

func TestMatchEndAnchorDoesNotExtendSpanOverTrivia(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := "a b  "
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, `b\$`)

	spans := FindAll(pat, forest)
	require.Len(t, spans, 1)
	assert.Equal(t, "b", textOf(src, spans[0]))
}

func TestMatchAnyTokenOncePerTopLevelChild(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := "a (b c) d"
	forest := parseTree(t, opts, src)

	// three top-level children: a, the group, d — plus b and c inside it
	spans := FindAll(parsePattern(t, opts, `\.`), forest)
	assert.Len(t, spans, 5)

	// one greedy run per start position at each nesting level
	spans = FindAll(parsePattern(t, opts, `\.\*`), forest)
	assert.Len(t, spans, 5)
}

func TestMatchDocumentOrderAcrossNesting(t *testing.T) {
	t.Parallel()
	opts := setup(t, "c")
	src := `x(x)`
	forest := parseTree(t, opts, src)
	pat := parsePattern(t, opts, "x")

	spans := FindAll(pat, forest)
	require.Len(t, spans, 2)
	assert.True(t, spans[0].Start < spans[1].Start)
}

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPresetsParse(t *testing.T) {
	t.Parallel()
	names := ListPresets()
	assert.Contains(t, names, "plain")
	assert.Contains(t, names, "c")
	assert.Contains(t, names, "clojure")

	for _, name := range names {
		b, err := NewBuilder(name)
		require.NoError(t, err, "preset %s", name)
		b.Build()
	}
}

func TestPlainPresetIsEmpty(t *testing.T) {
	t.Parallel()
	b, err := NewBuilder("plain")
	require.NoError(t, err)
	opts := b.Build()
	assert.Empty(t, opts.Strings)
	assert.Empty(t, opts.LineComments)
	assert.Empty(t, opts.BlockComments)
	assert.Empty(t, opts.Blocks)
}

func TestLanguagePresetsCarryUniversalBlocks(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"c", "js", "python", "clojure"} {
		b, err := NewBuilder(name)
		require.NoError(t, err)
		opts := b.Build()
		for _, open := range []string{"(", "[", "{"} {
			_, ok := opts.IsOpen(open)
			assert.True(t, ok, "preset %s open %s", name, open)
		}
	}
}

func TestUnknownPresetIsError(t *testing.T) {
	t.Parallel()
	_, err := NewBuilder("cobol-2199")
	require.Error(t, err)
}

func TestPresetForExtension(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ext  string
		want string
	}{
		{"c", "c"},
		{"hpp", "c"},
		{"tsx", "js"},
		{"py", "python"},
		{"clj", "clojure"},
		{"rs", "rust"},
	}
	for _, tt := range tests {
		got, ok := PresetForExtension(tt.ext)
		require.True(t, ok, "ext %s", tt.ext)
		assert.Equal(t, tt.want, got)
	}

	_, ok := PresetForExtension("xyz-unmapped")
	assert.False(t, ok)
}

func TestBuilderAddRemoveRoundTrip(t *testing.T) {
	t.Parallel()
	b, err := NewBuilder("c")
	require.NoError(t, err)

	require.NoError(t, b.AddString("`"))
	b.AddLineComment("#")
	b.AddBlockComment("<!--", "-->")
	b.AddBlock("<", ">")
	opts := b.Build()
	assert.True(t, opts.IsString('`'))
	assert.Contains(t, opts.LineComments, "#")
	_, ok := opts.IsOpen("<")
	assert.True(t, ok)

	require.NoError(t, b.RemoveString("`"))
	b.RemoveLineComment("#")
	b.RemoveBlockComment("<!--", "-->")
	b.RemoveBlockOpen("<")
	opts = b.Build()
	assert.False(t, opts.IsString('`'))
	assert.NotContains(t, opts.LineComments, "#")
	_, ok = opts.IsOpen("<")
	assert.False(t, ok)
}

func TestRemoveBlockClose(t *testing.T) {
	t.Parallel()
	b, err := NewBuilder("c")
	require.NoError(t, err)
	b.RemoveBlockClose("}")
	opts := b.Build()
	_, ok := opts.IsOpen("{")
	assert.False(t, ok)
	_, ok = opts.IsOpen("(")
	assert.True(t, ok)
}

func TestMultiCharStringArgumentIsError(t *testing.T) {
	t.Parallel()
	b, err := NewBuilder("c")
	require.NoError(t, err)
	assert.Error(t, b.AddString("ab"))
	assert.Error(t, b.RemoveString(""))
}

func TestBuildReturnsIndependentCopies(t *testing.T) {
	t.Parallel()
	b, err := NewBuilder("c")
	require.NoError(t, err)
	first := b.Build()
	require.NoError(t, b.AddString("`"))
	assert.False(t, first.IsString('`'))
}

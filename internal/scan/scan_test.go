package scan

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestDiscoverResolvesPresetByExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.rs", []byte("fn main() {}"))
	writeFile(t, dir, "b.py", []byte("def f(): pass"))

	targets, errs := Discover([]string{dir}, Config{})
	require.Empty(t, errs)
	require.Len(t, targets, 2)

	byExt := map[string]string{}
	for _, tg := range targets {
		byExt[filepath.Ext(tg.Path)] = tg.Preset
	}
	assert.Equal(t, "rust", byExt[".rs"])
	assert.Equal(t, "python", byExt[".py"])
}

func TestDiscoverLangOverridePinsEveryFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.rs", []byte("x"))
	writeFile(t, dir, "b.py", []byte("y"))

	targets, errs := Discover([]string{dir}, Config{LangOverride: "c"})
	require.Empty(t, errs)
	for _, tg := range targets {
		assert.Equal(t, "c", tg.Preset)
	}
}

func TestDiscoverSkipsBinaryByDefault(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "text.c", []byte("int x;"))
	writeFile(t, dir, "blob.bin", []byte{0x01, 0x00, 0x02})

	targets, errs := Discover([]string{dir}, Config{})
	require.Empty(t, errs)
	require.Len(t, targets, 1)
	assert.Equal(t, filepath.Join(dir, "text.c"), targets[0].Path)
}

func TestDiscoverIncludeBinaryKeepsIt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "blob.bin", []byte{0x01, 0x00, 0x02})

	targets, errs := Discover([]string{dir}, Config{IncludeBinary: true})
	require.Empty(t, errs)
	require.Len(t, targets, 1)
}

func TestDiscoverOnlyAndIgnoreFilters(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "keep.go", []byte("x"))
	writeFile(t, dir, "skip.go", []byte("y"))
	writeFile(t, dir, "other.txt", []byte("z"))

	targets, errs := Discover([]string{dir}, Config{
		OnlyFilesMatching:   regexp.MustCompile(`\.go$`),
		IgnoreFilesMatching: regexp.MustCompile(`skip`),
	})
	require.Empty(t, errs)
	require.Len(t, targets, 1)
	assert.Equal(t, filepath.Join(dir, "keep.go"), targets[0].Path)
}

func TestDiscoverMissingRootIsAnError(t *testing.T) {
	t.Parallel()
	_, errs := Discover([]string{"/no/such/path/syns-test"}, Config{})
	require.Len(t, errs, 1)
}

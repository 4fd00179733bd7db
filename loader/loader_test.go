package loader_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xalexb/strata/loader"
	"github.com/0xalexb/strata/tree"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
	require.NoError(t, err)
}

func TestLoad_BasicDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
a: aa
b:
  b1: 11
  b2: true
c:
  - x
  - 1.5
`)

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("config.yaml", "")
	require.NoError(t, err)

	file, ok := root.FileRoot()
	require.True(t, ok)
	require.Equal(t, "config.yaml", file)

	require.Equal(t, map[string]any{
		"a": "aa",
		"b": map[string]any{"b1": int64(11), "b2": true},
		"c": []any{"x", 1.5},
	}, root.Interface())
}

func TestLoad_Provenance(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "a: aa\nb:\n  b1: 11\n")

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("config.yaml", "")
	require.NoError(t, err)

	b, ok := root.Get("b")
	require.True(t, ok)

	b1, ok := b.Get("b1")
	require.True(t, ok)

	origin := b1.Origin()
	require.Equal(t, "config.yaml", origin.File)
	require.Equal(t, 3, origin.Line)
}

func TestLoad_KeyOrderPreserved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "z: 1\na: 2\nm: 3\n")

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("config.yaml", "")
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a", "m"}, root.Keys())
}

func TestLoad_EnvironmentOverlay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
db:
  host: localhost
  port: 5432
log: info
`)
	writeFile(t, dir, "config-dev.yaml", `
db:
  host: devbox
log: debug
`)

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("config.yaml", "dev")
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"db":  map[string]any{"host": "devbox", "port": int64(5432)},
		"log": "debug",
	}, root.Interface(), "overlay merges leaf-wise")
}

func TestLoad_MissingOverlayIsFine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "a: 1\n")

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("config.yaml", "prod")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": int64(1)}, root.Interface())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	l := loader.New(loader.WithDir(t.TempDir()))

	_, err := l.Load("nope.yaml", "")
	require.Error(t, err)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.ErrorContains(t, err, "nope.yaml")
}

func TestLoad_CachesPerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "a: 1\n")

	l := loader.New(loader.WithDir(dir))

	first, err := l.Load("config.yaml", "")
	require.NoError(t, err)

	second, err := l.Load("config.yaml", "")
	require.NoError(t, err)
	require.Same(t, first, second, "repeated loads share the cached tree")

	require.Len(t, l.Loaded(), 1, "cache hits do not re-read the file")
}

func TestLoad_LoadedListsOverlays(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "a: 1\n")
	writeFile(t, dir, "config-dev.yaml", "a: 2\n")

	l := loader.New(loader.WithDir(dir))

	_, err := l.Load("config.yaml", "dev")
	require.NoError(t, err)

	loaded := l.Loaded()
	require.Len(t, loaded, 2)
	require.Equal(t, filepath.Join(dir, "config.yaml"), loaded[0])
	require.Equal(t, filepath.Join(dir, "config-dev.yaml"), loaded[1])
}

func TestLoad_EmptyDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "empty.yaml", "")

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("empty.yaml", "")
	require.NoError(t, err)
	require.Equal(t, tree.KindMapping, root.Kind())
	require.Equal(t, 0, root.Len())
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "a: [unclosed\n")

	l := loader.New(loader.WithDir(dir))

	_, err := l.Load("bad.yaml", "")
	require.Error(t, err)
	require.ErrorIs(t, err, loader.ErrInvalidDocument)
}

func TestLoad_Anchors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
base: &defaults
  retries: 3
service:
  settings: *defaults
`)

	l := loader.New(loader.WithDir(dir))

	root, err := l.Load("config.yaml", "")
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"base":    map[string]any{"retries": int64(3)},
		"service": map[string]any{"settings": map[string]any{"retries": int64(3)}},
	}, root.Interface())
}

package access_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xalexb/strata/access"
	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/tree"
)

// fakeLoader serves canned documents, counting loads per file.
type fakeLoader struct {
	docs  map[string]map[string]any
	loads map[string]int
}

func newFakeLoader(docs map[string]map[string]any) *fakeLoader {
	return &fakeLoader{docs: docs, loads: map[string]int{}}
}

func (l *fakeLoader) Load(file, _ string) (*tree.Node, error) {
	doc, ok := l.docs[file]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", file)
	}

	l.loads[file]++

	node := tree.FromAny(doc)
	node.MarkFileRoot(file)

	return node, nil
}

func importContext(root *tree.Node, loader access.ImportLoader) *access.Context {
	return access.NewContext(root, access.WithLoader(loader))
}

func TestImport_GraftsAtPlaceholderPath(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"main": "value",
		"db":   "{import: db.yaml}",
	})
	root.MarkFileRoot("config.yaml")

	loader := newFakeLoader(map[string]map[string]any{
		"db.yaml": {"host": "localhost", "port": int64(5432)},
	})

	w := newWalker()

	value, err := w.Get(importContext(root, loader), cfgpath.MustNew("db.host"))
	require.NoError(t, err)
	require.Equal(t, "localhost", value)
}

func TestImport_RefsResolveAgainstImportedFile(t *testing.T) {
	t.Parallel()

	// A ref inside the imported file must resolve from that file's root,
	// not the importing document's.
	root := tree.FromAny(map[string]any{
		"host": "outer-host",
		"db":   "{import: db.yaml}",
	})
	root.MarkFileRoot("config.yaml")

	loader := newFakeLoader(map[string]map[string]any{
		"db.yaml": {"host": "inner-host", "url": "{ref: host}"},
	})

	w := newWalker()

	value, err := w.Get(importContext(root, loader), cfgpath.MustNew("db.url"))
	require.NoError(t, err)
	require.Equal(t, "inner-host", value)
}

func TestImport_GlobalRefCrossesFiles(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"host": "outer-host",
		"db":   "{import: db.yaml}",
	})
	root.MarkFileRoot("config.yaml")

	loader := newFakeLoader(map[string]map[string]any{
		"db.yaml": {"url": "{global: host}"},
	})

	w := newWalker()

	value, err := w.Get(importContext(root, loader), cfgpath.MustNew("db.url"))
	require.NoError(t, err)
	require.Equal(t, "outer-host", value)
}

func TestImport_ReplaceMergesIntoRoot(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"overlay": "{import: extra.yaml, true}",
		"a":       "original",
	})
	root.MarkFileRoot("config.yaml")

	loader := newFakeLoader(map[string]map[string]any{
		"extra.yaml": {"a": "overridden", "b": "added"},
	})

	w := newWalker()
	ctx := importContext(root, loader)

	// Touching the import placeholder triggers the merge.
	_, err := w.Get(ctx, cfgpath.MustNew("overlay"))
	require.NoError(t, err)

	value, err := w.Get(importContext(root, loader), cfgpath.MustNew("a"))
	require.NoError(t, err)
	require.Equal(t, "overridden", value)

	value, err = w.Get(importContext(root, loader), cfgpath.MustNew("b"))
	require.NoError(t, err)
	require.Equal(t, "added", value)
}

func TestImport_MissingFile(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"db": "{import: nope.yaml}"})
	root.MarkFileRoot("config.yaml")

	loader := newFakeLoader(nil)

	w := newWalker()

	_, err := w.Get(importContext(root, loader), cfgpath.MustNew("db.host"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope.yaml")
}

func TestImport_NoLoaderConfigured(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"db": "{import: db.yaml}"})

	w := newWalker()

	_, err := w.Get(access.NewContext(root), cfgpath.MustNew("db"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no loader configured")
}

func TestImport_ExportExpandsImports(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"db": "{import: db.yaml}",
	})
	root.MarkFileRoot("config.yaml")

	loader := newFakeLoader(map[string]map[string]any{
		"db.yaml": {"host": "localhost"},
	})

	w := newWalker()

	out, err := w.Export(importContext(root, loader), true)
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"db": map[string]any{"host": "localhost"},
	}, out)
}

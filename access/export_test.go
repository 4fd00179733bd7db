package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xalexb/strata/access"
	"github.com/0xalexb/strata/placeholder"
	"github.com/0xalexb/strata/tree"
)

func TestExport_Raw(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"a": "{ref: b}",
		"b": "bb",
		"c": []any{int64(1), "{ref: b}"},
	})

	w := newWalker()

	out, err := w.Export(access.NewContext(root), false)
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"a": "{ref: b}",
		"b": "bb",
		"c": []any{int64(1), "{ref: b}"},
	}, out, "raw export keeps placeholders verbatim")
}

func TestExport_Resolved(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"a": "{ref: b}",
		"b": "bb",
		"c": []any{int64(1), "{ref: b}"},
		"d": map[string]any{"url": "{ref: b}-{ref: b}"},
	})

	w := newWalker()

	out, err := w.Export(access.NewContext(root), true)
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"a": "bb",
		"b": "bb",
		"c": []any{int64(1), "bb"},
		"d": map[string]any{"url": "bb-bb"},
	}, out)
}

func TestExport_MandatoryFailsResolvedExport(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"a": "???"})
	w := newWalker()

	_, err := w.Export(access.NewContext(root), true)
	require.Error(t, err)
	require.ErrorIs(t, err, placeholder.ErrMissingMandatory)

	// Raw export of the same tree is fine.
	out, err := w.Export(access.NewContext(root), false)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": "???"}, out)
}

func TestExport_RefToContainerExpands(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"db":    map[string]any{"host": "localhost"},
		"alias": "{ref: db}",
	})

	w := newWalker()

	out, err := w.Export(access.NewContext(root), true)
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"db":    map[string]any{"host": "localhost"},
		"alias": map[string]any{"host": "localhost"},
	}, out)
}

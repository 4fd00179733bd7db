package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xalexb/strata/access"
	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/tree"
)

func set(t *testing.T, w *access.Walker, root *tree.Node, path string, value any,
	opts ...access.SetOption,
) (any, error) {
	t.Helper()

	return w.Set(access.NewContext(root), cfgpath.MustNew(path), value, opts...)
}

func TestSet_ExistingValue(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"a": "aa",
		"b": map[string]any{"b1": int64(1)},
	})

	w := newWalker()

	old, err := set(t, w, root, "a", "new")
	require.NoError(t, err)
	require.Equal(t, "aa", old)

	old, err = set(t, w, root, "b.b1", int64(2))
	require.NoError(t, err)
	require.Equal(t, int64(1), old)

	value, err := get(t, w, root, "b.b1")
	require.NoError(t, err)
	require.Equal(t, int64(2), value)
}

func TestSet_NewKeyReturnsNoOldValue(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"b": map[string]any{}})
	w := newWalker()

	old, err := set(t, w, root, "b.fresh", "x")
	require.NoError(t, err)
	require.Nil(t, old)
}

func TestSet_CreateMissing(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{})
	w := newWalker()

	// Without the option, deep paths into nothing fail.
	_, err := set(t, w, root, "a.b.c", int64(1))
	require.Error(t, err)
	require.ErrorIs(t, err, access.ErrNotFound)

	_, err = set(t, w, root, "a.b.c", int64(1), access.WithCreateMissing())
	require.NoError(t, err)

	value, err := get(t, w, root, "a.b.c")
	require.NoError(t, err)
	require.Equal(t, int64(1), value)
}

func TestSet_ReplacePath(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"a": "scalar"})
	w := newWalker()

	// "a" is a scalar; walking through it requires replace-path.
	_, err := set(t, w, root, "a.b", int64(1), access.WithCreateMissing())
	require.Error(t, err)

	_, err = set(t, w, root, "a.b", int64(1),
		access.WithCreateMissing(), access.WithReplacePath())
	require.NoError(t, err)

	value, err := get(t, w, root, "a.b")
	require.NoError(t, err)
	require.Equal(t, int64(1), value)
}

func TestSet_SequenceElement(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"c": []any{"x", "y"}})
	w := newWalker()

	old, err := set(t, w, root, "c[1]", "z")
	require.NoError(t, err)
	require.Equal(t, "y", old)

	// No appending through Set.
	_, err = set(t, w, root, "c[5]", "w", access.WithCreateMissing())
	require.Error(t, err)
}

func TestSet_ThroughSearchPattern(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"a": map[string]any{"b": map[string]any{"c": int64(1)}},
	})

	w := newWalker()

	old, err := set(t, w, root, "a.*.c", int64(2))
	require.NoError(t, err)
	require.Equal(t, int64(1), old)

	value, err := get(t, w, root, "a.b.c")
	require.NoError(t, err)
	require.Equal(t, int64(2), value)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{
		"a": "aa",
		"b": map[string]any{"b1": int64(1), "b2": int64(2)},
		"c": []any{"x", "y"},
	})

	w := newWalker()

	old, err := w.Delete(access.NewContext(root), cfgpath.MustNew("b.b1"), false)
	require.NoError(t, err)
	require.Equal(t, int64(1), old)

	_, err = get(t, w, root, "b.b1")
	require.ErrorIs(t, err, access.ErrNotFound)

	old, err = w.Delete(access.NewContext(root), cfgpath.MustNew("c[0]"), false)
	require.NoError(t, err)
	require.Equal(t, "x", old)

	value, err := get(t, w, root, "c[0]")
	require.NoError(t, err)
	require.Equal(t, "y", value, "remaining items shift down")
}

func TestDelete_Missing(t *testing.T) {
	t.Parallel()

	root := tree.FromAny(map[string]any{"a": "aa"})
	w := newWalker()

	_, err := w.Delete(access.NewContext(root), cfgpath.MustNew("nope"), false)
	require.Error(t, err)
	require.ErrorIs(t, err, access.ErrNotFound)

	old, err := w.Delete(access.NewContext(root), cfgpath.MustNew("nope"), true)
	require.NoError(t, err, "tolerant delete swallows missing paths")
	require.Nil(t, old)
}

func TestDeepUpdate_MergesMappings(t *testing.T) {
	t.Parallel()

	base := tree.FromAny(map[string]any{
		"a": "aa",
		"b": map[string]any{"b1": int64(1), "b2": int64(2)},
	})

	updates := tree.FromAny(map[string]any{
		"b": map[string]any{"b2": int64(22), "b3": int64(3)},
		"d": "new",
	})

	require.NoError(t, access.DeepUpdate(base, updates))

	require.Equal(t, map[string]any{
		"a": "aa",
		"b": map[string]any{"b1": int64(1), "b2": int64(22), "b3": int64(3)},
		"d": "new",
	}, base.Interface())
}

func TestDeepUpdate_SequencesReplaceWholesale(t *testing.T) {
	t.Parallel()

	base := tree.FromAny(map[string]any{
		"list": []any{int64(1), int64(2), int64(3)},
	})

	updates := tree.FromAny(map[string]any{
		"list": []any{int64(9)},
	})

	require.NoError(t, access.DeepUpdate(base, updates))

	require.Equal(t, map[string]any{
		"list": []any{int64(9)},
	}, base.Interface(), "sequences are never spliced together")
}

func TestDeepUpdate_KindChangeReplaces(t *testing.T) {
	t.Parallel()

	base := tree.FromAny(map[string]any{
		"a": map[string]any{"deep": int64(1)},
		"b": "scalar",
	})

	updates := tree.FromAny(map[string]any{
		"a": "now-a-scalar",
		"b": map[string]any{"nested": true},
	})

	require.NoError(t, access.DeepUpdate(base, updates))

	require.Equal(t, map[string]any{
		"a": "now-a-scalar",
		"b": map[string]any{"nested": true},
	}, base.Interface())
}

func TestDeepUpdate_CreatesDeepPaths(t *testing.T) {
	t.Parallel()

	base := tree.FromAny(map[string]any{})

	updates := tree.FromAny(map[string]any{
		"x": map[string]any{"y": map[string]any{"z": int64(7)}},
	})

	require.NoError(t, access.DeepUpdate(base, updates))

	require.Equal(t, map[string]any{
		"x": map[string]any{"y": map[string]any{"z": int64(7)}},
	}, base.Interface())
}

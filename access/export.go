package access

import (
	"fmt"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/placeholder"
	"github.com/0xalexb/strata/tree"
)

// Export converts the context's current container into plain nested Go
// values. With resolve set, every scalar is resolved the same way Get
// resolves it, and subtrees pulled in by imports or refs are expanded in
// place; the placeholder memo starts fresh for every leaf. Without resolve,
// scalars are exported exactly as loaded.
func (w *Walker) Export(ctx *Context, resolve bool) (any, error) {
	ctx.walker = w

	return w.export(ctx, ctx.Node, resolve, nil, nil)
}

func (w *Walker) export(
	ctx *Context, node *tree.Node, resolve bool,
	segs []cfgpath.Segment, ancestors []*tree.Node,
) (any, error) {
	if !node.IsContainer() {
		if !resolve {
			return node.Value(), nil
		}

		return w.exportScalar(ctx, node, segs, resolve, ancestors)
	}

	for _, seen := range ancestors {
		if seen == node {
			return nil, fmt.Errorf("%w: cyclic containers during export",
				placeholder.ErrRecursion)
		}
	}

	ancestors = append(ancestors, node)

	sub := ctx
	if _, ok := node.FileRoot(); ok && node != ctx.Root {
		// Crossing a document boundary: paths restart at its root.
		sub = ctx.fork(node)
		segs = nil
	}

	switch node.Kind() {
	case tree.KindMapping:
		out := make(map[string]any, node.Len())

		for _, key := range node.Keys() {
			child, _ := node.Get(key)

			value, err := w.export(sub, child, resolve,
				append(segs, cfgpath.Key(key)), ancestors)
			if err != nil {
				return nil, fmt.Errorf("cannot export %q: %w", key, err)
			}

			out[key] = value
		}

		return out, nil
	default:
		out := make([]any, 0, node.Len())

		for i := 0; i < node.Len(); i++ {
			child, _ := node.Index(i)

			value, err := w.export(sub, child, resolve,
				append(segs, cfgpath.Index(i)), ancestors)
			if err != nil {
				return nil, fmt.Errorf("cannot export item %d: %w", i, err)
			}

			out = append(out, value)
		}

		return out, nil
	}
}

// exportScalar resolves one leaf with a fresh placeholder memo. A leaf
// resolving to a container, e.g. an import, is expanded recursively.
func (w *Walker) exportScalar(
	ctx *Context, node *tree.Node, segs []cfgpath.Segment,
	resolve bool, ancestors []*tree.Node,
) (any, error) {
	if w.resolver == nil {
		return node.Value(), nil
	}

	leafCtx := ctx.fork(ctx.LocalRoot)
	leafCtx.Path = cfgpath.FromSegments(segs...)
	leafCtx.Idx = len(segs) - 1

	memo := make([]string, 0, 4)
	leafCtx.memo = &memo

	value, err := w.resolver.postprocess(leafCtx, node)
	if err != nil {
		return nil, err
	}

	if sub, ok := value.(*tree.Node); ok && sub.IsContainer() {
		return w.export(leafCtx, sub, resolve, nil, ancestors)
	}

	return value, nil
}

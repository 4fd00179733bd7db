package access

import (
	"fmt"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/tree"
)

// searchStage expands wildcard and recursive-descent segments. Matching is
// first-match in insertion order; once a candidate contains the segment
// following the pattern, the search commits to it. Candidates are probed
// against the raw tree, without resolving placeholders.
type searchStage struct{}

func (s searchStage) Get(ctx *Context, seg cfgpath.Segment, next Getter) (any, error) {
	switch seg.Kind() {
	case cfgpath.KindAnyKey:
		return s.anyKey(ctx, next)
	case cfgpath.KindAnyIndex:
		return s.anyIndex(ctx, next)
	case cfgpath.KindDeep:
		return s.deep(ctx, next)
	default:
		return next(ctx, seg)
	}
}

// anyKey scans the current mapping's entries in insertion order for one
// containing the segment after the "*". Normalization rejects a trailing
// "*", but paths built from raw segments may still carry one; those find
// no match.
func (s searchStage) anyKey(ctx *Context, next Getter) (any, error) {
	node := ctx.Node
	if node.Kind() != tree.KindMapping {
		return nil, fmt.Errorf("%w: expected a mapping at %q, got %s",
			ErrNotFound, ctx.CurPath(), node.Kind())
	}

	if ctx.Idx+1 >= ctx.Path.Len() {
		return nil, s.noMatch(ctx)
	}

	nextSeg := ctx.Path.At(ctx.Idx + 1)

	for _, key := range node.Keys() {
		child, _ := node.Get(key)
		if !child.IsContainer() {
			continue
		}

		if nextSeg.IsPattern() || containsSegment(child, nextSeg) {
			return s.descend(ctx, cfgpath.Key(key), child, nextSeg, next)
		}
	}

	return nil, s.noMatch(ctx)
}

// anyIndex is anyKey over a sequence. A trailing "[*]" is valid and
// matches the first element.
func (s searchStage) anyIndex(ctx *Context, next Getter) (any, error) {
	node := ctx.Node
	if node.Kind() != tree.KindSequence {
		return nil, fmt.Errorf("%w: expected a sequence at %q, got %s",
			ErrNotFound, ctx.CurPath(), node.Kind())
	}

	if ctx.Idx+1 >= ctx.Path.Len() {
		if node.Len() == 0 {
			return nil, s.noMatch(ctx)
		}

		child, _ := node.Index(0)
		ctx.Path = ctx.Path.Replace(ctx.Idx, 1, cfgpath.Index(0))

		return child, nil
	}

	nextSeg := ctx.Path.At(ctx.Idx + 1)

	for i := 0; i < node.Len(); i++ {
		child, _ := node.Index(i)
		if !child.IsContainer() {
			continue
		}

		if nextSeg.IsPattern() || containsSegment(child, nextSeg) {
			return s.descend(ctx, cfgpath.Index(i), child, nextSeg, next)
		}
	}

	return nil, s.noMatch(ctx)
}

// descend commits to a matched candidate: the pattern segment is rewritten
// to the concrete one and the segment after it is retrieved from the
// candidate. A chained pattern recurses instead; there is no backtracking
// to sibling candidates once a chain has committed.
func (s searchStage) descend(
	ctx *Context, concrete cfgpath.Segment, child *tree.Node,
	nextSeg cfgpath.Segment, next Getter,
) (any, error) {
	ctx.Path = ctx.Path.Replace(ctx.Idx, 1, concrete)

	if err := ctx.enter(child); err != nil {
		return nil, err
	}

	ctx.Idx++

	if nextSeg.IsPattern() {
		return s.Get(ctx, nextSeg, next)
	}

	return next(ctx, nextSeg)
}

// deep finds the first node, depth-first in pre-order, whose final path
// segment equals the segment after the "**". The pattern and that segment
// are rewritten to the concrete path found.
func (s searchStage) deep(ctx *Context, next Getter) (any, error) {
	if ctx.Idx+1 >= ctx.Path.Len() {
		return nil, s.noMatch(ctx)
	}

	nextSeg := ctx.Path.At(ctx.Idx + 1)

	var (
		found     *tree.Node
		foundSegs []cfgpath.Segment
	)

	_ = tree.Walk(ctx.Node, func(event tree.Event) error {
		if event.Kind == tree.EventLeave || event.Path.Empty() {
			return nil
		}

		if last, ok := event.Path.Last(); ok && last == nextSeg {
			found = event.Node
			foundSegs = event.Path.Segments()

			return tree.StopWalk
		}

		return nil
	})

	if found == nil {
		return nil, s.noMatch(ctx)
	}

	ctx.Path = ctx.Path.Replace(ctx.Idx, 2, foundSegs...)
	ctx.Idx += len(foundSegs) - 1

	return found, nil
}

// noMatch renders the scanned sub-path, pattern included, e.g. "a.*.c25".
func (s searchStage) noMatch(ctx *Context) error {
	return fmt.Errorf("%w: no match for %q", ErrNotFound, ctx.Path.Prefix(ctx.Idx+2))
}

func containsSegment(node *tree.Node, seg cfgpath.Segment) bool {
	switch seg.Kind() {
	case cfgpath.KindKey:
		_, ok := node.Get(seg.Key())

		return ok
	case cfgpath.KindIndex:
		_, ok := node.Index(seg.Index())

		return ok
	default:
		return false
	}
}

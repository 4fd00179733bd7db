package access

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/tree"
)

// SetOption configures a Set call.
type SetOption func(*setOptions)

type setOptions struct {
	createMissing bool
	replacePath   bool
}

// WithCreateMissing makes Set create missing intermediate mappings instead
// of failing.
func WithCreateMissing() SetOption {
	return func(o *setOptions) {
		o.createMissing = true
	}
}

// WithReplacePath makes Set replace intermediate values of the wrong kind,
// e.g. a scalar where a mapping is needed, instead of failing.
func WithReplacePath() SetOption {
	return func(o *setOptions) {
		o.replacePath = true
	}
}

// Set writes a value at the given path and returns the previous value, if
// any. Paths with search patterns are first resolved against the existing
// tree. Values are plain Go values or *tree.Node subtrees.
func (w *Walker) Set(ctx *Context, path cfgpath.Path, value any, opts ...SetOption) (any, error) {
	var options setOptions
	for _, apply := range opts {
		apply(&options)
	}

	ctx.walker = w

	concrete, err := w.concretePath(ctx, path)
	if err != nil {
		return nil, err
	}

	node := ctx.Root
	segs := concrete.Segments()

	for i := 0; i < len(segs)-1; i++ {
		child, err := w.step(node, segs[i], segs[i+1], concrete.Prefix(i+1), options)
		if err != nil {
			return nil, err
		}

		node = child
	}

	return setLeaf(node, segs[len(segs)-1], value, concrete)
}

// step retrieves or repairs one intermediate container on a set path.
func (w *Walker) step(
	node *tree.Node, seg, next cfgpath.Segment, at cfgpath.Path, options setOptions,
) (*tree.Node, error) {
	child, ok := childOf(node, seg)

	switch {
	case !ok:
		if !options.createMissing {
			return nil, fmt.Errorf("%w: %q (consider create-missing)", ErrNotFound, at)
		}

		if seg.Kind() != cfgpath.KindKey {
			return nil, fmt.Errorf("cannot create missing sequence element at %q", at)
		}

		child = newContainerFor(next)
		if err := node.Set(seg.Key(), child); err != nil {
			return nil, err
		}
	case !containerFits(child, next):
		if !options.replacePath {
			return nil, fmt.Errorf(
				"unable to replace existing value at %q (consider replace-path)", at)
		}

		child = newContainerFor(next)
		if err := insertChild(node, seg, child); err != nil {
			return nil, err
		}
	}

	return child, nil
}

func setLeaf(node *tree.Node, seg cfgpath.Segment, value any, path cfgpath.Path) (any, error) {
	var old any
	if existing, ok := childOf(node, seg); ok {
		old = existing.Interface()
	}

	if err := insertChild(node, seg, tree.FromAny(value)); err != nil {
		return nil, fmt.Errorf("cannot set %q: %w", path, err)
	}

	return old, nil
}

// Delete removes the value at the given path and returns it. With tolerant
// set, a missing path is not an error.
func (w *Walker) Delete(ctx *Context, path cfgpath.Path, tolerant bool) (any, error) {
	ctx.walker = w

	concrete, err := w.concretePath(ctx, path)
	if err != nil {
		if tolerant {
			return nil, nil
		}

		return nil, err
	}

	node := ctx.Root
	segs := concrete.Segments()

	for i := 0; i < len(segs)-1; i++ {
		child, ok := childOf(node, segs[i])
		if !ok || !child.IsContainer() {
			if tolerant {
				return nil, nil
			}

			return nil, fmt.Errorf("%w: %q", ErrNotFound, concrete.Prefix(i+1))
		}

		node = child
	}

	old, ok := deleteChild(node, segs[len(segs)-1])
	if !ok {
		if tolerant {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %q", ErrNotFound, concrete)
	}

	return old.Interface(), nil
}

// concretePath settles search patterns against the existing tree. Plain
// paths pass through without a walk.
func (w *Walker) concretePath(ctx *Context, path cfgpath.Path) (cfgpath.Path, error) {
	if path.Empty() {
		return path, fmt.Errorf("%w: empty path", cfgpath.ErrSyntax)
	}

	if !path.HasPattern() {
		return path, nil
	}

	return w.GetPath(ctx.fork(ctx.Root), path)
}

// DeepUpdate merges updates into base, leaf-wise: mappings merge key by
// key, while sequences and scalars replace whatever base holds at their
// path. Sequences are never spliced together. All set failures are
// collected and returned as one combined error.
func DeepUpdate(base, updates *tree.Node) error {
	w := New()
	ctx := NewContext(base)
	ctx.walker = w

	var errs error

	walkErr := tree.Walk(updates, func(event tree.Event) error {
		if event.Path.Empty() {
			return nil
		}

		switch event.Kind {
		case tree.EventEnter:
			if event.Node.Kind() == tree.KindMapping && hasMapping(base, event.Path) {
				return nil
			}

			_, err := w.Set(ctx, event.Path, event.Node,
				WithCreateMissing(), WithReplacePath())
			errs = multierr.Append(errs, err)

			return tree.SkipNode
		case tree.EventScalar:
			_, err := w.Set(ctx, event.Path, event.Node,
				WithCreateMissing(), WithReplacePath())
			errs = multierr.Append(errs, err)
		}

		return nil
	})

	return multierr.Append(errs, walkErr)
}

// hasMapping reports whether base already holds a mapping at the path.
func hasMapping(base *tree.Node, path cfgpath.Path) bool {
	node := base

	for _, seg := range path.Segments() {
		child, ok := childOf(node, seg)
		if !ok {
			return false
		}

		node = child
	}

	return node.Kind() == tree.KindMapping
}

func childOf(node *tree.Node, seg cfgpath.Segment) (*tree.Node, bool) {
	switch seg.Kind() {
	case cfgpath.KindKey:
		return node.Get(seg.Key())
	case cfgpath.KindIndex:
		return node.Index(seg.Index())
	default:
		return nil, false
	}
}

func insertChild(node *tree.Node, seg cfgpath.Segment, child *tree.Node) error {
	switch seg.Kind() {
	case cfgpath.KindKey:
		return node.Set(seg.Key(), child)
	case cfgpath.KindIndex:
		return node.SetIndex(seg.Index(), child)
	default:
		return fmt.Errorf("%w: cannot set at segment %q", cfgpath.ErrSyntax, seg)
	}
}

func deleteChild(node *tree.Node, seg cfgpath.Segment) (*tree.Node, bool) {
	switch seg.Kind() {
	case cfgpath.KindKey:
		return node.Delete(seg.Key())
	case cfgpath.KindIndex:
		return node.DeleteIndex(seg.Index())
	default:
		return nil, false
	}
}

// containerFits reports whether a child can host the following segment.
func containerFits(child *tree.Node, next cfgpath.Segment) bool {
	switch next.Kind() {
	case cfgpath.KindKey:
		return child.Kind() == tree.KindMapping
	case cfgpath.KindIndex:
		return child.Kind() == tree.KindSequence
	default:
		return child.IsContainer()
	}
}

func newContainerFor(next cfgpath.Segment) *tree.Node {
	if next.Kind() == cfgpath.KindIndex {
		return tree.NewSequence()
	}

	return tree.NewMapping()
}

package access

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/tree"
)

// Getter retrieves the value one segment addresses within the context's
// current container.
type Getter func(ctx *Context, seg cfgpath.Segment) (any, error)

// Stage is one layer of the per-segment retrieval pipeline. A stage either
// handles the segment itself or delegates to next, and may post-process
// what next returns.
type Stage interface {
	Get(ctx *Context, seg cfgpath.Segment, next Getter) (any, error)
}

// Walker executes deep operations against a tree through a stage pipeline.
// A bare Walker does plain container lookups only; WithSearch adds wildcard
// and recursive-descent support, WithResolver placeholder resolution.
type Walker struct {
	stages   []Stage
	resolver *resolverStage
	logger   *slog.Logger
	pipe     Getter
}

// Option configures a Walker.
type Option func(*Walker)

// WithSearch enables wildcard ("*", "[*]") and recursive-descent ("**")
// segments.
func WithSearch() Option {
	return func(w *Walker) {
		w.stages = append(w.stages, searchStage{})
	}
}

// WithStage appends a custom retrieval stage. Stages added later sit closer
// to the base lookup.
func WithStage(stage Stage) Option {
	return func(w *Walker) {
		w.stages = append(w.stages, stage)
	}
}

// WithLogger sets the logger for walk diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker. The resolver, when configured, always forms the
// outermost stage: search settles which concrete key a pattern addresses
// before the resolver interprets the value found there.
func New(opts ...Option) *Walker {
	w := &Walker{logger: slog.Default()}

	for _, apply := range opts {
		apply(w)
	}

	w.pipe = w.buildPipeline()

	return w
}

// WithResolver enables placeholder resolution using the given parser.
func WithResolver(parser ResolveParser) Option {
	return func(w *Walker) {
		w.resolver = &resolverStage{parser: parser}
	}
}

func (w *Walker) buildPipeline() Getter {
	next := baseGet

	for i := len(w.stages) - 1; i >= 0; i-- {
		stage, inner := w.stages[i], next

		next = func(ctx *Context, seg cfgpath.Segment) (any, error) {
			return stage.Get(ctx, seg, inner)
		}
	}

	if w.resolver != nil {
		stage, inner := w.resolver, next

		next = func(ctx *Context, seg cfgpath.Segment) (any, error) {
			return stage.Get(ctx, seg, inner)
		}
	}

	return next
}

// baseGet is the innermost stage: a plain lookup of a concrete key or index
// in the current container.
func baseGet(ctx *Context, seg cfgpath.Segment) (any, error) {
	node := ctx.Node
	if node == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ctx.CurPath())
	}

	switch seg.Kind() {
	case cfgpath.KindKey:
		child, ok := node.Get(seg.Key())
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ctx.CurPath())
		}

		return child, nil
	case cfgpath.KindIndex:
		child, ok := node.Index(seg.Index())
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ctx.CurPath())
		}

		return child, nil
	case cfgpath.KindParent, cfgpath.KindCurrent:
		return nil, fmt.Errorf("%w: relative segment %q cannot be resolved from a root: %q",
			ErrNotFound, seg, ctx.CurPath())
	default:
		return nil, fmt.Errorf("%w: search segment %q requires search support: %q",
			ErrNotFound, seg, ctx.CurPath())
	}
}

// GetOption configures a single Get call.
type GetOption func(*getOptions)

type getOptions struct {
	def        any
	hasDefault bool
	raw        bool
	onMissing  OnMissing
}

// WithDefault supplies a value returned instead of ErrNotFound. Resolution
// failures, e.g. a missing mandatory value, still propagate.
func WithDefault(value any) GetOption {
	return func(o *getOptions) {
		o.def = value
		o.hasDefault = true
	}
}

// WithRawValues disables placeholder resolution for this call; scalar
// values are returned exactly as loaded.
func WithRawValues() GetOption {
	return func(o *getOptions) {
		o.raw = true
	}
}

// WithOnMissing intercepts failed segment lookups for this call.
func WithOnMissing(fn OnMissing) GetOption {
	return func(o *getOptions) {
		o.onMissing = fn
	}
}

// Get walks the path from the context's root and returns the value it
// leads to. Containers are returned as *tree.Node; scalars as plain values,
// resolved unless the walker has no resolver or raw values were requested.
func (w *Walker) Get(ctx *Context, path cfgpath.Path, opts ...GetOption) (any, error) {
	var options getOptions
	for _, apply := range opts {
		apply(&options)
	}

	ctx.walker = w
	ctx.Path = path
	ctx.Idx = 0

	if options.raw {
		ctx.rawValues = true
	}

	if options.onMissing != nil {
		ctx.OnMissing = options.onMissing
	}

	if path.Empty() {
		return ctx.Node, nil
	}

	var value any = ctx.Node

	for ctx.Idx < ctx.Path.Len() {
		seg := ctx.Path.At(ctx.Idx)

		v, err := w.pipe(ctx, seg)
		if err != nil {
			if options.hasDefault && errors.Is(err, ErrNotFound) {
				return options.def, nil
			}

			if ctx.OnMissing != nil && errors.Is(err, ErrNotFound) {
				v, err = ctx.OnMissing(ctx, seg, err)
			}

			if err != nil {
				return nil, ctx.wrapErr(err)
			}
		}

		last := ctx.Idx+1 >= ctx.Path.Len()

		if node, ok := v.(*tree.Node); ok && node.IsContainer() {
			if err := ctx.enter(node); err != nil {
				return nil, ctx.wrapErr(err)
			}
		} else if !last {
			return nil, ctx.wrapErr(fmt.Errorf(
				"%w: %q is not a container", ErrNotFound, ctx.CurPath()))
		}

		value = v
		ctx.Idx++
	}

	if node, ok := value.(*tree.Node); ok && !node.IsContainer() {
		return node.Value(), nil
	}

	return value, nil
}

// GetPath walks the path and returns the concrete path the value was found
// at, with every search pattern replaced by the keys it matched.
func (w *Walker) GetPath(ctx *Context, path cfgpath.Path) (cfgpath.Path, error) {
	if _, err := w.Get(ctx, path); err != nil {
		return cfgpath.Path{}, err
	}

	return ctx.Path, nil
}

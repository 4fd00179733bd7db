package access

import (
	"fmt"
	"log/slog"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/placeholder"
	"github.com/0xalexb/strata/tree"
)

// ImportLoader loads configuration documents on behalf of "{import: ...}"
// placeholders. Implementations cache by file name and apply environment
// overlays; the loader package provides the standard one.
type ImportLoader interface {
	Load(file, env string) (*tree.Node, error)
}

// OnMissing is invoked when a segment lookup fails with ErrNotFound. It may
// synthesize a replacement value, optionally inserting it into ctx.Node, or
// return an error to propagate.
type OnMissing func(ctx *Context, seg cfgpath.Segment, cause error) (any, error)

// Context carries the state of one walk. A Context is single-use: create a
// fresh one per top-level operation. Nested lookups triggered by
// placeholders run on forked contexts sharing the recursion memo.
type Context struct {
	// Root is the container the walk started from.
	Root *tree.Node
	// Node is the container the walk currently inspects.
	Node *tree.Node
	// Path is the full path being walked. Search stages rewrite pattern
	// segments into the concrete segments found.
	Path cfgpath.Path
	// Idx is the position of the segment currently being retrieved.
	Idx int

	// LocalRoot is the root of the document currently walked; crossing
	// into an imported subtree moves it. Refs resolve against it.
	LocalRoot *tree.Node
	// GlobalRoot is the outermost document root, for "{global: ...}".
	GlobalRoot *tree.Node

	// Loader serves "{import: ...}" placeholders. Optional.
	Loader ImportLoader
	// Env is the deployment environment imports default to.
	Env string
	// OnMissing, if set, intercepts failed segment lookups.
	OnMissing OnMissing

	walker *Walker
	logger *slog.Logger
	file   string

	// memo holds the canonical renderings of placeholders on the active
	// resolution chain. Shared across forks so cycles spanning nested
	// lookups are caught.
	memo *[]string
	// seen holds the containers entered along this walk, for cyclic
	// container graphs grafted by imports or refs.
	seen []*tree.Node

	rawValues bool
}

// NewContext creates a walk context rooted at the given container.
func NewContext(root *tree.Node, opts ...ContextOption) *Context {
	memo := make([]string, 0, 4)

	ctx := &Context{
		Root:       root,
		Node:       root,
		LocalRoot:  root,
		GlobalRoot: root,
		logger:     slog.Default(),
		memo:       &memo,
	}

	if file, ok := root.FileRoot(); ok {
		ctx.file = file
	}

	for _, apply := range opts {
		apply(ctx)
	}

	return ctx
}

// ContextOption configures a new Context.
type ContextOption func(*Context)

// WithLoader attaches the loader serving "{import: ...}" placeholders.
func WithLoader(loader ImportLoader) ContextOption {
	return func(ctx *Context) {
		ctx.Loader = loader
	}
}

// WithEnv sets the deployment environment imports default to.
func WithEnv(env string) ContextOption {
	return func(ctx *Context) {
		ctx.Env = env
	}
}

// WithGlobalRoot sets the outermost root, when the walk starts below it.
func WithGlobalRoot(root *tree.Node) ContextOption {
	return func(ctx *Context) {
		ctx.GlobalRoot = root
	}
}

// WithContextLogger sets the logger for walk diagnostics.
func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(ctx *Context) {
		ctx.logger = logger
	}
}

// CurPath returns the path walked so far, including the segment currently
// being retrieved.
func (ctx *Context) CurPath() cfgpath.Path {
	return ctx.Path.Prefix(ctx.Idx + 1)
}

// File returns the source document the walk is currently inside, if known.
func (ctx *Context) File() string {
	return ctx.file
}

// fork spawns a nested-lookup context rooted at the given container. The
// recursion memo is shared with the parent; the container identity chain
// starts fresh, each walk being a separate path through the graph.
func (ctx *Context) fork(root *tree.Node) *Context {
	sub := &Context{
		Root:       root,
		Node:       root,
		LocalRoot:  root,
		GlobalRoot: ctx.GlobalRoot,
		Loader:     ctx.Loader,
		Env:        ctx.Env,
		walker:     ctx.walker,
		logger:     ctx.logger,
		file:       ctx.file,
		memo:       ctx.memo,
		rawValues:  ctx.rawValues,
	}

	if file, ok := root.FileRoot(); ok {
		sub.file = file
	}

	return sub
}

// enter steps into a container, updating the current node, the local root
// on document boundaries, and the identity chain guarding cyclic grafts.
func (ctx *Context) enter(node *tree.Node) error {
	if file, ok := node.FileRoot(); ok {
		ctx.LocalRoot = node
		ctx.file = file
	}

	for _, seen := range ctx.seen {
		if seen == node {
			return fmt.Errorf("%w: cyclic containers at %q",
				placeholder.ErrRecursion, ctx.CurPath())
		}
	}

	ctx.seen = append(ctx.seen, node)
	ctx.Node = node

	return nil
}

// wrapErr annotates an error with this walk's current position.
func (ctx *Context) wrapErr(err error) error {
	return &TraceError{
		Frame: Frame{Path: ctx.CurPath().String(), File: ctx.file},
		Err:   err,
	}
}

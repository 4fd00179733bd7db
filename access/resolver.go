package access

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/placeholder"
	"github.com/0xalexb/strata/tree"
)

// MandatorySentinel marks a value that an overlay must supply. Reading it
// raises placeholder.ErrMissingMandatory, even through any number of refs.
const MandatorySentinel = "???"

// ResolveParser parses raw string values into literal fragments and
// placeholder descriptors. placeholder.Parser is the standard one.
type ResolveParser interface {
	Parse(raw string) ([]any, error)
}

// resolverStage post-processes retrieved scalars: values containing '{' are
// parsed and their placeholders resolved lazily, on access. Containers pass
// through untouched.
type resolverStage struct {
	parser ResolveParser
}

func (s *resolverStage) Get(ctx *Context, seg cfgpath.Segment, next Getter) (any, error) {
	value, err := next(ctx, seg)
	if err != nil || ctx.rawValues {
		return value, err
	}

	return s.postprocess(ctx, value)
}

// postprocess resolves one retrieved value in the given walk context.
func (s *resolverStage) postprocess(ctx *Context, value any) (any, error) {
	if node, ok := value.(*tree.Node); ok {
		if node.IsContainer() {
			return node, nil
		}

		value = node.Value()
	}

	rctx := &resolveContext{ctx: ctx, stage: s}

	resolved, err := rctx.Resolve(value)
	if err != nil {
		return nil, err
	}

	if text, ok := resolved.(string); ok && text == MandatorySentinel {
		return nil, fmt.Errorf("%w: %q", placeholder.ErrMissingMandatory, ctx.CurPath())
	}

	return resolved, nil
}

// resolveContext implements placeholder.Context for one walk.
type resolveContext struct {
	ctx   *Context
	stage *resolverStage
}

// Resolve fully resolves a parsed value. Strings still containing '{' are
// re-parsed, so indirections through environment variables or refs resolve
// transitively.
func (r *resolveContext) Resolve(value any) (any, error) {
	switch v := value.(type) {
	case placeholder.Placeholder:
		return r.resolvePlaceholder(v)
	case placeholder.Fragments:
		return r.resolveFragments(v)
	case *tree.Node:
		if v.IsContainer() {
			return v, nil
		}

		return r.Resolve(v.Value())
	case string:
		if !placeholder.HasPlaceholder(v) {
			return v, nil
		}

		parts, err := r.stage.parser.Parse(v)
		if err != nil {
			return nil, err
		}

		// No placeholder found after all; avoid re-parsing forever.
		if len(parts) == 1 && parts[0] == any(v) {
			return v, nil
		}

		return r.resolveFragments(parts)
	default:
		return value, nil
	}
}

// resolvePlaceholder evaluates one placeholder, guarding against cycles.
// The placeholder joins the active resolution chain for the duration of its
// evaluation, including the transitive resolution of its result.
func (r *resolveContext) resolvePlaceholder(ph placeholder.Placeholder) (any, error) {
	key := ph.String()

	for _, active := range *r.ctx.memo {
		if active == key {
			chain := strings.Join(append(*r.ctx.memo, key), " -> ")

			return nil, r.frame(key, fmt.Errorf("%w: %s", placeholder.ErrRecursion, chain))
		}
	}

	// The chain is restored to this depth on every exit, so a failure
	// swallowed further up, e.g. by a ref fallback, cannot leave stale
	// entries behind.
	depth := len(*r.ctx.memo)
	*r.ctx.memo = append(*r.ctx.memo, key)

	value, err := ph.Resolve(r)
	if err == nil {
		value, err = r.Resolve(value)
	}

	*r.ctx.memo = (*r.ctx.memo)[:depth]

	if err != nil {
		return nil, r.frame(key, err)
	}

	return value, nil
}

// resolveFragments resolves each part and joins the results into a single
// string. A part resolving to a container cannot be joined; containers must
// stand alone in their value.
func (r *resolveContext) resolveFragments(parts []any) (any, error) {
	if len(parts) == 1 {
		return r.Resolve(parts[0])
	}

	var sb strings.Builder

	for _, part := range parts {
		resolved, err := r.Resolve(part)
		if err != nil {
			return nil, err
		}

		if node, ok := resolved.(*tree.Node); ok && node.IsContainer() {
			return nil, fmt.Errorf("%w: a %s cannot be part of a compound value",
				placeholder.ErrSyntax, node.Kind())
		}

		sb.WriteString(stringify(resolved))
	}

	return sb.String(), nil
}

// LookupLocal resolves a path from the current document's root. Relative
// paths resolve against the scope holding the placeholder.
func (r *resolveContext) LookupLocal(path cfgpath.Path) (any, error) {
	ctx := r.ctx

	if path.IsRelative() {
		scope := ctx.Path.Prefix(ctx.Idx)

		return ctx.walker.Get(ctx.fork(ctx.Root), scope.Join(path))
	}

	return ctx.walker.Get(ctx.fork(ctx.LocalRoot), path)
}

// LookupGlobal resolves a path from the outermost root.
func (r *resolveContext) LookupGlobal(path cfgpath.Path) (any, error) {
	ctx := r.ctx

	return ctx.walker.Get(ctx.fork(ctx.GlobalRoot), path)
}

// LoadImport loads another document through the context's loader. With the
// replace flag the imported tree is merged into the current document's root
// instead of being grafted at the placeholder's path.
func (r *resolveContext) LoadImport(file, env string, replace bool) (any, error) {
	ctx := r.ctx

	if ctx.Loader == nil {
		return nil, fmt.Errorf("cannot import %q: no loader configured", file)
	}

	if env == "" {
		env = ctx.Env
	}

	node, err := ctx.Loader.Load(file, env)
	if err != nil {
		return nil, err
	}

	if replace {
		if err := DeepUpdate(ctx.LocalRoot, node); err != nil {
			return nil, fmt.Errorf("cannot merge import %q: %w", file, err)
		}
	}

	ctx.logger.Debug("imported config document",
		slog.String("file", file), slog.String("env", env), slog.Bool("replace", replace))

	return node, nil
}

func (r *resolveContext) frame(ph string, err error) error {
	return &TraceError{
		Frame: Frame{Path: r.ctx.CurPath().String(), Placeholder: ph, File: r.ctx.file},
		Err:   err,
	}
}

func stringify(value any) string {
	if text, ok := value.(string); ok {
		return text
	}

	return fmt.Sprint(value)
}

package placeholder

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/0xalexb/strata/cfgpath"
)

// Protocol-level resolution errors. They are raised while resolving and are
// deliberately not recoverable through placeholder fallback arguments.
var (
	// ErrMissingMandatory signals that a resolved value is the "???"
	// sentinel: the value is mandatory and must be supplied by an overlay.
	ErrMissingMandatory = errors.New("mandatory config value missing")

	// ErrRecursion signals a placeholder cycle or a cyclic container graph.
	ErrRecursion = errors.New("config recursion detected")

	// ErrEnvNotSet signals an unset environment variable without fallback.
	ErrEnvNotSet = errors.New("environment variable not set")
)

// fatal reports errors that a fallback argument must never swallow.
func fatal(err error) bool {
	return errors.Is(err, ErrMissingMandatory) || errors.Is(err, ErrRecursion)
}

func toString(value any) string {
	if text, ok := value.(string); ok {
		return text
	}

	return fmt.Sprint(value)
}

// Ref resolves "{ref: <path>[, <fallback>]}" by looking up the path from
// the current file's root, and "{global: ...}" from the outermost root.
type Ref struct {
	path     any
	fallback any
	global   bool
}

// NewRef is the factory for "{ref: ...}".
func NewRef(args []any) (Placeholder, error) {
	return newRef(args, false)
}

// NewGlobalRef is the factory for "{global: ...}".
func NewGlobalRef(args []any) (Placeholder, error) {
	return newRef(args, true)
}

func newRef(args []any, global bool) (Placeholder, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%w: ref expects 1 or 2 arguments, got %d", ErrSyntax, len(args))
	}

	ref := &Ref{path: args[0], global: global}
	if len(args) == 2 {
		ref.fallback = args[1]
	}

	return ref, nil
}

func (r *Ref) Name() string {
	if r.global {
		return "global"
	}

	return "ref"
}

func (r *Ref) String() string {
	return renderArgs(r.Name(), r.path, r.fallback)
}

// Resolve looks up the referenced path. On lookup failure the fallback, if
// any, is resolved instead; a missing-mandatory or recursion failure is
// never masked by the fallback.
func (r *Ref) Resolve(ctx Context) (any, error) {
	rawPath, err := ctx.Resolve(r.path)
	if err != nil {
		return nil, err
	}

	path, err := cfgpath.New(toString(rawPath))
	if err != nil {
		return nil, err
	}

	value, err := r.lookup(ctx, path)
	if err != nil {
		if r.fallback != nil && !fatal(err) {
			return ctx.Resolve(r.fallback)
		}

		return nil, fmt.Errorf("cannot resolve {%s: %s}: %w", r.Name(), path, err)
	}

	return value, nil
}

func (r *Ref) lookup(ctx Context, path cfgpath.Path) (any, error) {
	if r.global {
		return ctx.LookupGlobal(path)
	}

	return ctx.LookupLocal(path)
}

// Env resolves "{env: <var>[, <fallback>]}" from the process environment.
type Env struct {
	name     any
	fallback any
}

// NewEnv is the factory for "{env: ...}".
func NewEnv(args []any) (Placeholder, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%w: env expects 1 or 2 arguments, got %d", ErrSyntax, len(args))
	}

	env := &Env{name: args[0]}
	if len(args) == 2 {
		env.fallback = args[1]
	}

	return env, nil
}

func (e *Env) Name() string {
	return "env"
}

func (e *Env) String() string {
	return renderArgs("env", e.name, e.fallback)
}

func (e *Env) Resolve(ctx Context) (any, error) {
	rawName, err := ctx.Resolve(e.name)
	if err != nil {
		return nil, err
	}

	name := toString(rawName)

	value, ok := os.LookupEnv(name)
	if !ok {
		if e.fallback != nil {
			return ctx.Resolve(e.fallback)
		}

		return nil, fmt.Errorf("%w: %q", ErrEnvNotSet, name)
	}

	return value, nil
}

// Import resolves "{import: <file>[, <env>][, <replace>]}" by loading
// another document, grafted at the current path. With the replace flag the
// imported tree is merged into the current file's root instead.
type Import struct {
	file    any
	env     any
	replace bool
}

// NewImport is the factory for "{import: ...}".
func NewImport(args []any) (Placeholder, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, fmt.Errorf("%w: import expects 1 to 3 arguments, got %d", ErrSyntax, len(args))
	}

	imp := &Import{file: args[0]}

	rest := args[1:]

	// A bare bool as the second argument is the replace flag.
	if len(rest) == 1 {
		if replace, ok := rest[0].(bool); ok {
			imp.replace = replace

			return imp, nil
		}
	}

	if len(rest) >= 1 {
		imp.env = rest[0]
	}

	if len(rest) == 2 {
		replace, ok := rest[1].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: import replace flag must be a bool, got %v",
				ErrSyntax, rest[1])
		}

		imp.replace = replace
	}

	return imp, nil
}

func (p *Import) Name() string {
	return "import"
}

func (p *Import) String() string {
	var flag any
	if p.replace {
		flag = true
	}

	return renderArgs("import", p.file, p.env, flag)
}

func (p *Import) Resolve(ctx Context) (any, error) {
	rawFile, err := ctx.Resolve(p.file)
	if err != nil {
		return nil, err
	}

	env := ""

	if p.env != nil {
		rawEnv, err := ctx.Resolve(p.env)
		if err != nil {
			return nil, err
		}

		env = toString(rawEnv)
	}

	return ctx.LoadImport(toString(rawFile), env, p.replace)
}

// Timestamp resolves "{timestamp: <strftime-format>}" to the current
// wall-clock time. It is re-evaluated on every access, never memoized.
type Timestamp struct {
	format string
}

// NewTimestamp is the factory for "{timestamp: ...}".
func NewTimestamp(args []any) (Placeholder, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: timestamp expects exactly 1 argument, got %d",
			ErrSyntax, len(args))
	}

	return &Timestamp{format: toString(args[0])}, nil
}

func (t *Timestamp) Name() string {
	return "timestamp"
}

func (t *Timestamp) String() string {
	return renderArgs("timestamp", t.format)
}

func (t *Timestamp) Resolve(_ Context) (any, error) {
	return strftime.Format(t.format, time.Now()), nil
}

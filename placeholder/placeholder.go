package placeholder

import (
	"fmt"
	"strings"

	"github.com/0xalexb/strata/cfgpath"
)

// Placeholder is a parsed "{name: args}" directive. Placeholders are
// immutable after parsing; Resolve never mutates the placeholder, only the
// Context's recursion memo changes.
type Placeholder interface {
	// Name is the registered placeholder kind, e.g. "ref".
	Name() string
	// Resolve evaluates the placeholder against the given context. The
	// result may itself be a Placeholder or Fragments requiring further
	// resolution.
	Resolve(ctx Context) (any, error)
	// String renders the placeholder canonically, e.g. "{ref: a.b}".
	// Equal renderings identify equal placeholders for cycle detection.
	String() string
}

// Fragments is a value composed of multiple parts, e.g. the three parts of
// "test-{ref:database}-url". Once every part is resolved, the parts are
// joined into a single string. A single-element Fragments unwraps to its
// element.
type Fragments []any

// Context is the per-get-call state placeholders resolve against. The
// access package provides the implementation; keeping it an interface here
// avoids a dependency cycle between parsing and walking.
type Context interface {
	// LookupLocal resolves a path from the current file's root.
	LookupLocal(path cfgpath.Path) (any, error)
	// LookupGlobal resolves a path from the outermost root across all
	// imports.
	LookupGlobal(path cfgpath.Path) (any, error)
	// LoadImport loads another document, cached by file name within the
	// owning configuration instance. With replace set, the imported tree
	// is merged into the current file's root.
	LoadImport(file, env string, replace bool) (any, error)
	// Resolve fully resolves a parsed value: literals pass through,
	// Placeholders are evaluated, Fragments are joined.
	Resolve(value any) (any, error)
}

// argString renders a parsed argument canonically, for Placeholder.String.
func argString(arg any) string {
	switch v := arg.(type) {
	case Placeholder:
		return v.String()
	case Fragments:
		var sb strings.Builder
		for _, part := range v {
			sb.WriteString(argString(part))
		}

		return sb.String()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func renderArgs(name string, args ...any) string {
	var sb strings.Builder

	sb.WriteByte('{')
	sb.WriteString(name)
	sb.WriteByte(':')

	for i, arg := range args {
		if arg == nil {
			continue
		}

		if i > 0 {
			sb.WriteString(", ")
		} else {
			sb.WriteByte(' ')
		}

		sb.WriteString(argString(arg))
	}

	sb.WriteByte('}')

	return sb.String()
}

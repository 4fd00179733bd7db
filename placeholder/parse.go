package placeholder

import (
	"fmt"
	"strings"
)

// DefaultSeparator separates placeholder arguments.
const DefaultSeparator byte = ','

// Parser parses raw string values into literal fragments and Placeholder
// descriptors, using a Registry to construct the placeholder kinds.
type Parser struct {
	registry *Registry
	sep      byte
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithSeparator overrides the argument separator. Default: ','.
func WithSeparator(sep byte) ParserOption {
	return func(p *Parser) {
		p.sep = sep
	}
}

// NewParser creates a parser bound to the given registry.
func NewParser(registry *Registry, opts ...ParserOption) *Parser {
	parser := &Parser{registry: registry, sep: DefaultSeparator}

	for _, apply := range opts {
		apply(parser)
	}

	return parser
}

// HasPlaceholder reports whether a value is a string that may contain a
// placeholder and is worth parsing.
func HasPlaceholder(value any) bool {
	text, ok := value.(string)

	return ok && strings.IndexByte(text, '{') >= 0
}

// Parse splits a raw string value into its parts: brace chunks become
// Placeholders, quoted spans stay strings, and bare literals get
// best-effort conversion to int, float or bool. At the top level the
// separator is plain text; it only splits arguments inside a placeholder.
func (p *Parser) Parse(raw string) ([]any, error) {
	tokens, err := tokenize(raw, p.sep)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(tokens))

	for _, tok := range tokens {
		switch tok.kind {
		case tokenBrace:
			ph, err := p.parsePlaceholder(tok.text)
			if err != nil {
				return nil, err
			}

			out = append(out, ph)
		case tokenQuoted:
			out = append(out, tok.text)
		case tokenSep:
			out = append(out, tok.text)
		default:
			out = append(out, Convert(tok.text))
		}
	}

	return out, nil
}

// parsePlaceholder parses one "{name: arg, arg, ...}" chunk, including
// nested placeholders inside the arguments.
func (p *Parser) parsePlaceholder(chunk string) (Placeholder, error) {
	inner := chunk[1 : len(chunk)-1]

	colon := strings.IndexByte(inner, ':')
	if colon < 0 {
		return nil, fmt.Errorf("%w: missing ':' after placeholder name: %q", ErrSyntax, chunk)
	}

	name := strings.TrimSpace(inner[:colon])
	if name == "" {
		return nil, fmt.Errorf("%w: empty placeholder name: %q", ErrSyntax, chunk)
	}

	factory, ok := p.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrUnknown, name, chunk)
	}

	args, err := p.parseArgs(inner[colon+1:])
	if err != nil {
		return nil, err
	}

	return factory(args)
}

// parseArgs tokenizes an argument list. Consecutive non-separator tokens
// form one argument; multiple parts become Fragments. A trailing separator
// is tolerated; a leading one or an empty interior argument is an error.
func (p *Parser) parseArgs(text string) ([]any, error) {
	tokens, err := tokenize(text, p.sep)
	if err != nil {
		return nil, err
	}

	var (
		args []any
		frag Fragments
	)

	flush := func() {
		switch len(frag) {
		case 0:
			// trailing separator, tolerated
		case 1:
			args = append(args, frag[0])
		default:
			arg := make(Fragments, len(frag))
			copy(arg, frag)
			args = append(args, arg)
		}

		frag = frag[:0]
	}

	for _, tok := range tokens {
		switch tok.kind {
		case tokenSep:
			if len(frag) == 0 {
				return nil, fmt.Errorf("%w: empty argument before separator: %q",
					ErrSyntax, text)
			}

			flush()
		case tokenBrace:
			ph, err := p.parsePlaceholder(tok.text)
			if err != nil {
				return nil, err
			}

			frag = append(frag, ph)
		case tokenQuoted:
			frag = append(frag, tok.text)
		default:
			frag = append(frag, Convert(tok.text))
		}
	}

	flush()

	return args, nil
}

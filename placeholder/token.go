package placeholder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned for malformed placeholder values: unterminated
// quotes or braces, a missing name, or a stray separator.
var ErrSyntax = errors.New("invalid placeholder value")

type tokenKind uint8

const (
	// tokenLiteral is a run of plain text, surrounding whitespace trimmed.
	tokenLiteral tokenKind = iota
	// tokenQuoted is the content of a single- or double-quoted span,
	// without the outer quotes. Backslash escapes inside are preserved
	// literally.
	tokenQuoted
	// tokenSep is the argument separator.
	tokenSep
	// tokenBrace is a whole brace-delimited chunk including the outer
	// braces, with nested braces balanced.
	tokenBrace
)

type token struct {
	kind tokenKind
	text string
}

// tokenize scans a raw string value into literal chunks, separator tokens
// and whole "{...}" chunks. A backslash escapes the next character: the
// backslash is dropped, the character kept literally. Quoted spans protect
// separators and braces; braces inside quotes do not count toward the
// brace nesting depth.
func tokenize(raw string, sep byte) ([]token, error) {
	var (
		out     []token
		pending strings.Builder
	)

	flush := func() {
		text := strings.TrimSpace(pending.String())
		pending.Reset()

		if text != "" {
			out = append(out, token{kind: tokenLiteral, text: text})
		}
	}

	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; ch {
		case '\\':
			if i+1 < len(raw) {
				i++
				pending.WriteByte(raw[i])
			}
		case '\'', '"':
			end, err := findClosingQuote(raw, i)
			if err != nil {
				return nil, err
			}

			flush()
			out = append(out, token{kind: tokenQuoted, text: raw[i+1 : end]})
			i = end
		case '{':
			end, err := findClosingBrace(raw, i)
			if err != nil {
				return nil, err
			}

			flush()
			out = append(out, token{kind: tokenBrace, text: raw[i : end+1]})
			i = end
		case sep:
			flush()
			out = append(out, token{kind: tokenSep, text: string(sep)})
		default:
			pending.WriteByte(ch)
		}
	}

	flush()

	return out, nil
}

// findClosingQuote returns the position of the quote closing the span that
// starts at 'start'. Backslash skips the following character.
func findClosingQuote(raw string, start int) (int, error) {
	quote := raw[start]

	for i := start + 1; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case quote:
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: missing closing %q in %q", ErrSyntax, string(quote), raw)
}

// findClosingBrace returns the position of the brace closing the chunk that
// starts at 'start', counting nesting depth. Braces inside quoted spans are
// ignored.
func findClosingBrace(raw string, start int) (int, error) {
	depth := 0

	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '\'', '"':
			end, err := findClosingQuote(raw, i)
			if err != nil {
				return 0, err
			}

			i = end
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: missing closing '}' in %q", ErrSyntax, raw)
}

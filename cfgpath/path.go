package cfgpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed path expressions, e.g. unbalanced
// brackets or a path ending in a wildcard-key or recursive-descent segment.
var ErrSyntax = errors.New("invalid config path")

// DefaultSeparators lists the separator characters tried, in order, when
// splitting a path string. Because of relative paths such as "../a", "/"
// is tried before ".".
const DefaultSeparators = "/."

// Path is an ordered, immutable sequence of segments.
type Path struct {
	segs []Segment
}

// New normalizes the given parts into a Path. Each part may be a string
// (split by the first of DefaultSeparators found), an int, a Segment, a
// Path, or a nested slice of any of those.
func New(parts ...any) (Path, error) {
	return NewSep(DefaultSeparators, parts...)
}

// NewSep is like New but splits strings by the first of the given separator
// characters found in them.
func NewSep(sep string, parts ...any) (Path, error) {
	var raw []Segment

	for _, part := range parts {
		var err error

		raw, err = flatten(raw, part, sep)
		if err != nil {
			return Path{}, err
		}
	}

	segs := collapsePseudo(raw)
	segs = collapsePatterns(segs)

	if len(segs) == 1 && segs[0].kind == KindCurrent {
		segs = nil
	}

	if err := validateTail(segs); err != nil {
		return Path{}, err
	}

	return Path{segs: segs}, nil
}

// MustNew is like New but panics on a malformed path. Intended for
// constants and tests.
func MustNew(parts ...any) Path {
	path, err := New(parts...)
	if err != nil {
		panic(err)
	}

	return path
}

// FromSegments builds a Path from already-normalized segments, without any
// cleanup or validation.
func FromSegments(segs ...Segment) Path {
	cp := make([]Segment, len(segs))
	copy(cp, segs)

	return Path{segs: cp}
}

func flatten(segs []Segment, part any, sep string) ([]Segment, error) {
	switch v := part.(type) {
	case nil:
		return segs, nil
	case Path:
		return append(segs, v.segs...), nil
	case Segment:
		return append(segs, v), nil
	case int:
		return append(segs, Index(v)), nil
	case string:
		if v == "" {
			return segs, nil
		}

		for _, elem := range splitElem(v, sep) {
			var err error

			segs, err = appendElem(segs, elem)
			if err != nil {
				return nil, err
			}
		}

		return segs, nil
	case []string:
		for _, elem := range v {
			var err error

			segs, err = flatten(segs, elem, sep)
			if err != nil {
				return nil, err
			}
		}

		return segs, nil
	case []int:
		for _, elem := range v {
			segs = append(segs, Index(elem))
		}

		return segs, nil
	case []any:
		for _, elem := range v {
			var err error

			segs, err = flatten(segs, elem, sep)
			if err != nil {
				return nil, err
			}
		}

		return segs, nil
	default:
		return nil, fmt.Errorf("%w: unsupported element type %T", ErrSyntax, part)
	}
}

// splitElem splits a path string by the first separator char found in it.
// "." and ".." are pseudo-segments, never split.
func splitElem(path string, sep string) []string {
	if path == "." || path == ".." {
		return []string{path}
	}

	for _, ch := range sep {
		if strings.ContainsRune(path, ch) {
			return strings.Split(path, string(ch))
		}
	}

	return []string{path}
}

// appendElem parses one string element, e.g. "a", "a[1][2]", "*", "**",
// and appends the resulting segments.
func appendElem(segs []Segment, elem string) ([]Segment, error) {
	elem = strings.TrimSpace(elem)

	switch elem {
	case "", "**":
		// A doubled separator ("a..b") reads as recursive descent.
		return append(segs, Deep), nil
	case ".":
		return append(segs, Current), nil
	case "..":
		return append(segs, Parent), nil
	case "*":
		return append(segs, AnyKey), nil
	}

	name, rest := elem, ""
	if i := strings.IndexByte(elem, '['); i >= 0 {
		name, rest = strings.TrimSpace(elem[:i]), elem[i:]
	}

	if strings.ContainsRune(name, ']') {
		return nil, fmt.Errorf("%w: unbalanced brackets: %q", ErrSyntax, elem)
	}

	if strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: misplaced '..': %q", ErrSyntax, elem)
	}

	if name != "" {
		segs = append(segs, Key(name))
	} else if len(segs) > 0 {
		return nil, fmt.Errorf("%w: expected 'name[index]', got %q", ErrSyntax, elem)
	}

	return appendIndexes(segs, elem, rest)
}

func appendIndexes(segs []Segment, elem, rest string) ([]Segment, error) {
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("%w: unexpected %q after index: %q", ErrSyntax, rest, elem)
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("%w: missing closing ']': %q", ErrSyntax, elem)
		}

		inner := strings.TrimSpace(rest[1:end])

		switch {
		case inner == "*":
			segs = append(segs, AnyIndex)
		case inner == "":
			return nil, fmt.Errorf("%w: empty index: %q", ErrSyntax, elem)
		default:
			idx, err := strconv.Atoi(inner)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid index %q: %q", ErrSyntax, inner, elem)
			}

			segs = append(segs, Index(idx))
		}

		rest = strings.TrimSpace(rest[end+1:])
	}

	return segs, nil
}

// collapsePseudo resolves "." and ".." segments. A ".." immediately after a
// recursive-descent segment cancels the descent ("a.**.." => "a"). Leading
// pseudo-segments are preserved; they mark the path as relative.
func collapsePseudo(raw []Segment) []Segment {
	var cleaned []Segment

	for _, seg := range raw {
		if len(cleaned) == 0 {
			cleaned = append(cleaned, seg)

			continue
		}

		switch seg.kind {
		case KindCurrent:
			// no-op
		case KindParent:
			switch cleaned[len(cleaned)-1].kind {
			case KindParent, KindCurrent:
				cleaned = append(cleaned, seg)
			default:
				cleaned = cleaned[:len(cleaned)-1]
			}
		default:
			cleaned = append(cleaned, seg)
		}
	}

	return cleaned
}

// collapsePatterns reduces runs of search patterns to their most general
// form: "**" absorbs any adjacent pattern, while "*.*" stays as-is.
func collapsePatterns(raw []Segment) []Segment {
	var cleaned []Segment

	for _, seg := range raw {
		if len(cleaned) == 0 || !seg.IsPattern() {
			cleaned = append(cleaned, seg)

			continue
		}

		last := cleaned[len(cleaned)-1]

		switch {
		case !last.IsPattern():
			cleaned = append(cleaned, seg)
		case last.kind == KindDeep:
			// absorbed
		case seg.kind == KindDeep:
			cleaned[len(cleaned)-1] = Deep
		default:
			cleaned = append(cleaned, seg)
		}
	}

	return cleaned
}

// validateTail rejects paths ending in a wildcard-key or recursive-descent
// segment. Trailing ".." segments are skipped first.
func validateTail(segs []Segment) error {
	last := len(segs) - 1
	for last >= 0 && segs[last].kind == KindParent {
		last--
	}

	if last < 0 {
		return nil
	}

	switch segs[last].kind {
	case KindDeep, KindAnyKey:
		return fmt.Errorf("%w: must not end with a search pattern: %q",
			ErrSyntax, Path{segs: segs}.String())
	default:
		return nil
	}
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segs)
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p.segs) == 0
}

// At returns the i-th segment.
func (p Path) At(i int) Segment {
	return p.segs[i]
}

// Last returns the final segment, if any.
func (p Path) Last() (Segment, bool) {
	if len(p.segs) == 0 {
		return Segment{}, false
	}

	return p.segs[len(p.segs)-1], true
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	cp := make([]Segment, len(p.segs))
	copy(cp, p.segs)

	return cp
}

// Prefix returns the path truncated to its first n segments.
func (p Path) Prefix(n int) Path {
	if n > len(p.segs) {
		n = len(p.segs)
	}

	return FromSegments(p.segs[:n]...)
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p.segs) == 0 {
		return p
	}

	return FromSegments(p.segs[:len(p.segs)-1]...)
}

// Join concatenates two paths, resolving the other path's leading "." and
// ".." pseudo-segments against the receiver.
func (p Path) Join(other Path) Path {
	merged := make([]Segment, 0, len(p.segs)+other.Len())
	merged = append(merged, p.segs...)
	merged = append(merged, other.segs...)

	return Path{segs: collapsePseudo(merged)}
}

// Replace returns a copy of the path with count segments at position i
// substituted by the given replacement segments. Deep search uses it to
// rewrite pattern segments into the concrete segments found.
func (p Path) Replace(i, count int, repl ...Segment) Path {
	segs := make([]Segment, 0, len(p.segs)-count+len(repl))
	segs = append(segs, p.segs[:i]...)
	segs = append(segs, repl...)
	segs = append(segs, p.segs[i+count:]...)

	return Path{segs: segs}
}

// HasPattern reports whether any segment is a search pattern.
func (p Path) HasPattern() bool {
	for _, seg := range p.segs {
		if seg.IsPattern() {
			return true
		}
	}

	return false
}

// IsRelative reports whether the path starts with a "." or ".."
// pseudo-segment and must be resolved against a walking context.
func (p Path) IsRelative() bool {
	if len(p.segs) == 0 {
		return false
	}

	switch p.segs[0].kind {
	case KindParent, KindCurrent:
		return true
	default:
		return false
	}
}

// Equal reports exact segment-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p.segs) != other.Len() {
		return false
	}

	for i, seg := range p.segs {
		if seg != other.segs[i] {
			return false
		}
	}

	return true
}

// Matches reports whether the concrete receiver satisfies the given pattern
// path, e.g. "a.b.c" matches "a.*.c" and "a.**.c".
func (p Path) Matches(pattern Path) bool {
	return matchSegments(p.segs, pattern.segs)
}

func matchSegments(concrete, pattern []Segment) bool {
	if len(pattern) == 0 {
		return len(concrete) == 0
	}

	head := pattern[0]

	if head.kind == KindDeep {
		for i := 0; i <= len(concrete); i++ {
			if matchSegments(concrete[i:], pattern[1:]) {
				return true
			}
		}

		return false
	}

	if len(concrete) == 0 || !head.Matches(concrete[0]) {
		return false
	}

	return matchSegments(concrete[1:], pattern[1:])
}

// String renders the path with the first of DefaultSeparators (preferring
// ".") that does not occur inside any key. String is the inverse of New:
// re-parsing the result yields an equal path.
func (p Path) String() string {
	// "." and ".." segments are ambiguous with the "." separator.
	if p.hasPseudo() {
		return p.StringSep("/")
	}

	for i := len(DefaultSeparators) - 1; i >= 0; i-- {
		sep := DefaultSeparators[i]

		if !p.keysContain(rune(sep)) {
			return p.StringSep(string(sep))
		}
	}

	return p.StringSep(".")
}

// StringSep renders the path using the given separator.
func (p Path) StringSep(sep string) string {
	var sb strings.Builder

	for _, seg := range p.segs {
		switch seg.kind {
		case KindIndex, KindAnyIndex:
			sb.WriteString(seg.String())
		default:
			if sb.Len() > 0 {
				sb.WriteString(sep)
			}

			sb.WriteString(seg.String())
		}
	}

	return sb.String()
}

func (p Path) hasPseudo() bool {
	for _, seg := range p.segs {
		switch seg.kind {
		case KindParent, KindCurrent:
			return true
		}
	}

	return false
}

func (p Path) keysContain(ch rune) bool {
	for _, seg := range p.segs {
		if seg.kind == KindKey && strings.ContainsRune(seg.key, ch) {
			return true
		}
	}

	return false
}

package cfgpath

import "strconv"

// Kind identifies what a path segment addresses.
type Kind uint8

const (
	// KindKey is a concrete mapping key.
	KindKey Kind = iota
	// KindIndex is a concrete sequence index.
	KindIndex
	// KindAnyKey matches any mapping key ("*").
	KindAnyKey
	// KindAnyIndex matches any sequence index ("[*]").
	KindAnyIndex
	// KindDeep matches any number of levels ("**", or a doubled separator).
	KindDeep
	// KindParent refers to the parent scope ("..").
	KindParent
	// KindCurrent refers to the current scope (".").
	KindCurrent
)

// Segment is one element of a normalized path. The zero value is the empty
// mapping key, which never survives normalization.
type Segment struct {
	kind  Kind
	key   string
	index int
}

// Pattern segments and pseudo-segments.
var (
	AnyKey   = Segment{kind: KindAnyKey}
	AnyIndex = Segment{kind: KindAnyIndex}
	Deep     = Segment{kind: KindDeep}
	Parent   = Segment{kind: KindParent}
	Current  = Segment{kind: KindCurrent}
)

// Key returns a concrete mapping-key segment.
func Key(name string) Segment {
	return Segment{kind: KindKey, key: name}
}

// Index returns a concrete sequence-index segment.
func Index(i int) Segment {
	return Segment{kind: KindIndex, index: i}
}

// Kind reports what the segment addresses.
func (s Segment) Kind() Kind {
	return s.kind
}

// Key returns the mapping key. Valid only for KindKey segments.
func (s Segment) Key() string {
	return s.key
}

// Index returns the sequence index. Valid only for KindIndex segments.
func (s Segment) Index() int {
	return s.index
}

// IsPattern reports whether the segment is a search pattern
// (any-key, any-index or recursive descent).
func (s Segment) IsPattern() bool {
	switch s.kind {
	case KindAnyKey, KindAnyIndex, KindDeep:
		return true
	default:
		return false
	}
}

// Matches reports whether a concrete segment satisfies s. Pattern segments
// match any concrete segment of the compatible kind; concrete segments match
// by equality.
func (s Segment) Matches(other Segment) bool {
	switch s.kind {
	case KindAnyKey:
		return other.kind == KindKey
	case KindAnyIndex:
		return other.kind == KindIndex
	case KindDeep:
		return true
	default:
		return s == other
	}
}

// String renders the segment in its canonical stand-alone form.
func (s Segment) String() string {
	switch s.kind {
	case KindIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	case KindAnyKey:
		return "*"
	case KindAnyIndex:
		return "[*]"
	case KindDeep:
		return "**"
	case KindParent:
		return ".."
	case KindCurrent:
		return "."
	default:
		return s.key
	}
}

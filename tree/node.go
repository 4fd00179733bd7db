package tree

import (
	"errors"
	"fmt"
)

// ErrNotContainer is returned when a mapping or sequence operation is
// applied to a node of the wrong kind.
var ErrNotContainer = errors.New("node is not a container")

// Kind discriminates the node variant.
type Kind uint8

const (
	// KindScalar is a leaf value: string, int64, float64, bool or nil.
	KindScalar Kind = iota
	// KindMapping is an ordered-key mapping.
	KindMapping
	// KindSequence is an ordered sequence.
	KindSequence
)

// Origin is the provenance of a value: the source file it was loaded from
// and the position within it. The zero value means "origin unknown".
type Origin struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether no provenance was recorded.
func (o Origin) IsZero() bool {
	return o == Origin{}
}

func (o Origin) String() string {
	if o.IsZero() {
		return "<unknown>"
	}

	return fmt.Sprintf("%s:%d:%d", o.File, o.Line, o.Column)
}

// Node is one element of a configuration document.
type Node struct {
	kind     Kind
	keys     []string
	children map[string]*Node
	items    []*Node
	value    any
	origin   Origin

	// fileRoot names the document this node is the root of. Imported
	// subtrees are grafted into the parent tree but keep their own file
	// identity through this marker.
	fileRoot string
}

// NewMapping creates an empty ordered mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, children: map[string]*Node{}}
}

// NewSequence creates an empty sequence node.
func NewSequence() *Node {
	return &Node{kind: KindSequence}
}

// NewScalar creates a scalar node without provenance.
func NewScalar(value any) *Node {
	return &Node{kind: KindScalar, value: value}
}

// NewScalarAt creates a scalar node with provenance.
func NewScalarAt(value any, origin Origin) *Node {
	return &Node{kind: KindScalar, value: value, origin: origin}
}

// Kind returns the node variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// IsContainer reports whether the node is a mapping or sequence.
func (n *Node) IsContainer() bool {
	return n.kind == KindMapping || n.kind == KindSequence
}

// Origin returns the provenance recorded for the node.
func (n *Node) Origin() Origin {
	return n.origin
}

// SetOrigin records provenance on the node.
func (n *Node) SetOrigin(origin Origin) {
	n.origin = origin
}

// Value returns the scalar value. Containers return nil.
func (n *Node) Value() any {
	if n.kind != KindScalar {
		return nil
	}

	return n.value
}

// MarkFileRoot records that this node is the root of the named document.
func (n *Node) MarkFileRoot(file string) {
	n.fileRoot = file
}

// FileRoot returns the document name if this node is a file root.
func (n *Node) FileRoot() (string, bool) {
	return n.fileRoot, n.fileRoot != ""
}

// Len returns the number of entries of a container, or 0 for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	default:
		return 0
	}
}

// Keys returns a copy of the mapping keys in insertion order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)

	return keys
}

// Get returns the child for the given mapping key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.kind != KindMapping {
		return nil, false
	}

	child, ok := n.children[key]

	return child, ok
}

// Set inserts or replaces a mapping entry. A new key is appended to the
// insertion order; an existing key keeps its position.
func (n *Node) Set(key string, child *Node) error {
	if n.kind != KindMapping {
		return fmt.Errorf("%w: cannot set key %q on %s", ErrNotContainer, key, n.kind)
	}

	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}

	n.children[key] = child

	return nil
}

// Delete removes a mapping entry and returns the removed child.
func (n *Node) Delete(key string) (*Node, bool) {
	if n.kind != KindMapping {
		return nil, false
	}

	child, ok := n.children[key]
	if !ok {
		return nil, false
	}

	delete(n.children, key)

	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)

			break
		}
	}

	return child, true
}

// Index returns the i-th item of a sequence.
func (n *Node) Index(i int) (*Node, bool) {
	if n.kind != KindSequence || i < 0 || i >= len(n.items) {
		return nil, false
	}

	return n.items[i], true
}

// Append adds an item to the end of a sequence.
func (n *Node) Append(child *Node) error {
	if n.kind != KindSequence {
		return fmt.Errorf("%w: cannot append to %s", ErrNotContainer, n.kind)
	}

	n.items = append(n.items, child)

	return nil
}

// SetIndex replaces the i-th item of a sequence.
func (n *Node) SetIndex(i int, child *Node) error {
	if n.kind != KindSequence {
		return fmt.Errorf("%w: cannot index into %s", ErrNotContainer, n.kind)
	}

	if i < 0 || i >= len(n.items) {
		return fmt.Errorf("index %d out of range (len %d)", i, len(n.items))
	}

	n.items[i] = child

	return nil
}

// DeleteIndex removes the i-th item of a sequence and returns it.
func (n *Node) DeleteIndex(i int) (*Node, bool) {
	if n.kind != KindSequence || i < 0 || i >= len(n.items) {
		return nil, false
	}

	child := n.items[i]
	n.items = append(n.items[:i], n.items[i+1:]...)

	return child, true
}

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

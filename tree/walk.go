package tree

import (
	"errors"

	"github.com/0xalexb/strata/cfgpath"
)

// EventKind discriminates walk events.
type EventKind uint8

const (
	// EventScalar reports a leaf node.
	EventScalar EventKind = iota
	// EventEnter reports stepping into a container, before its entries.
	EventEnter
	// EventLeave reports stepping out of a container, after its entries.
	EventLeave
)

// Event is one step of a pre-order walk.
type Event struct {
	Kind EventKind
	Path cfgpath.Path
	Node *Node
}

// SkipNode, returned from a walk callback on EventEnter, skips the
// container's entries. StopWalk ends the walk without error.
var (
	SkipNode = errors.New("skip this node")
	StopWalk = errors.New("stop walking")
)

// Walk traverses the tree depth-first in pre-order, invoking fn for every
// node. Containers yield an EventEnter before and an EventLeave after their
// entries; scalars yield a single EventScalar.
func Walk(root *Node, fn func(Event) error) error {
	err := walk(root, nil, fn)
	if errors.Is(err, StopWalk) {
		return nil
	}

	return err
}

func walk(node *Node, segs []cfgpath.Segment, fn func(Event) error) error {
	path := cfgpath.FromSegments(segs...)

	if !node.IsContainer() {
		return fn(Event{Kind: EventScalar, Path: path, Node: node})
	}

	err := fn(Event{Kind: EventEnter, Path: path, Node: node})
	if err != nil {
		if errors.Is(err, SkipNode) {
			return nil
		}

		return err
	}

	switch node.kind {
	case KindMapping:
		for _, key := range node.keys {
			err := walk(node.children[key], append(segs, cfgpath.Key(key)), fn)
			if err != nil {
				return err
			}
		}
	case KindSequence:
		for i, item := range node.items {
			err := walk(item, append(segs, cfgpath.Index(i)), fn)
			if err != nil {
				return err
			}
		}
	}

	return fn(Event{Kind: EventLeave, Path: path, Node: node})
}

// WalkLeaves invokes fn for every scalar leaf, depth-first in pre-order.
func WalkLeaves(root *Node, fn func(path cfgpath.Path, node *Node) error) error {
	return Walk(root, func(event Event) error {
		if event.Kind != EventScalar {
			return nil
		}

		return fn(event.Path, event.Node)
	})
}

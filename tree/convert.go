package tree

import "sort"

// FromAny converts plain nested Go values into a Node tree. Maps become
// mapping nodes (keys sorted, since Go map iteration order is undefined),
// slices become sequences, everything else a scalar.
func FromAny(value any) *Node {
	switch v := value.(type) {
	case *Node:
		return v
	case map[string]any:
		node := NewMapping()

		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		for _, key := range keys {
			_ = node.Set(key, FromAny(v[key]))
		}

		return node
	case []any:
		node := NewSequence()
		for _, item := range v {
			_ = node.Append(FromAny(item))
		}

		return node
	default:
		return NewScalar(value)
	}
}

// Interface converts the node back into plain nested Go values, stripping
// all provenance. Placeholder-bearing strings are returned raw; resolution
// is the access package's concern.
func (n *Node) Interface() any {
	switch n.kind {
	case KindMapping:
		out := make(map[string]any, len(n.keys))
		for _, key := range n.keys {
			out[key] = n.children[key].Interface()
		}

		return out
	case KindSequence:
		out := make([]any, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, item.Interface())
		}

		return out
	default:
		return n.value
	}
}

package loader

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/0xalexb/strata/tree"
)

// ErrInvalidDocument is returned for YAML that does not parse or does not
// form a configuration tree.
var ErrInvalidDocument = errors.New("invalid config document")

// ParseYAML parses one YAML document into a tree, recording the given file
// name and the source position of every scalar as provenance. An empty
// document yields an empty mapping.
func ParseYAML(data []byte, file string) (*tree.Node, error) {
	parsed, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, file, err)
	}

	if len(parsed.Docs) == 0 || parsed.Docs[0].Body == nil {
		return tree.NewMapping(), nil
	}

	conv := &converter{file: file, anchors: map[string]*tree.Node{}}

	root, err := conv.node(parsed.Docs[0].Body)
	if err != nil {
		return nil, err
	}

	return root, nil
}

// converter turns a goccy AST into a tree. Anchors are remembered so
// aliases share the anchored subtree.
type converter struct {
	file    string
	anchors map[string]*tree.Node
}

func (c *converter) node(n ast.Node) (*tree.Node, error) {
	switch v := n.(type) {
	case *ast.MappingNode:
		return c.mapping(v.Values)
	case *ast.MappingValueNode:
		// A single-entry mapping parses as the entry itself.
		return c.mapping([]*ast.MappingValueNode{v})
	case *ast.SequenceNode:
		return c.sequence(v)
	case *ast.AnchorNode:
		child, err := c.node(v.Value)
		if err != nil {
			return nil, err
		}

		c.anchors[v.Name.GetToken().Value] = child

		return child, nil
	case *ast.AliasNode:
		name := v.Value.GetToken().Value

		child, ok := c.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown anchor %q", ErrInvalidDocument, c.file, name)
		}

		return child, nil
	case *ast.TagNode:
		return c.node(v.Value)
	default:
		return c.scalar(n)
	}
}

func (c *converter) mapping(values []*ast.MappingValueNode) (*tree.Node, error) {
	node := tree.NewMapping()

	for _, entry := range values {
		key := entry.Key.GetToken().Value

		child, err := c.node(entry.Value)
		if err != nil {
			return nil, err
		}

		if err := node.Set(key, child); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (c *converter) sequence(seq *ast.SequenceNode) (*tree.Node, error) {
	node := tree.NewSequence()

	for _, item := range seq.Values {
		child, err := c.node(item)
		if err != nil {
			return nil, err
		}

		if err := node.Append(child); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (c *converter) scalar(n ast.Node) (*tree.Node, error) {
	var value any

	switch v := n.(type) {
	case *ast.StringNode:
		value = v.Value
	case *ast.LiteralNode:
		value = v.Value.Value
	case *ast.IntegerNode:
		value = normalizeInt(v.Value)
	case *ast.FloatNode:
		value = v.Value
	case *ast.BoolNode:
		value = v.Value
	case *ast.NullNode:
		value = nil
	case *ast.InfinityNode:
		value = v.Value
	case *ast.NanNode:
		value = v.GetValue()
	default:
		return nil, fmt.Errorf("%w: %s: unsupported YAML node %T", ErrInvalidDocument, c.file, n)
	}

	return tree.NewScalarAt(value, c.origin(n)), nil
}

func (c *converter) origin(n ast.Node) tree.Origin {
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return tree.Origin{File: c.file}
	}

	return tree.Origin{File: c.file, Line: tok.Position.Line, Column: tok.Position.Column}
}

// normalizeInt folds goccy's int representations into int64 where the value
// fits.
func normalizeInt(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		if v <= 1<<63-1 {
			return int64(v)
		}

		return v
	default:
		return value
	}
}

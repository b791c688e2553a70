package document

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/cicompat/cicompat/cierrors"
)

// MaxDepth bounds the nesting depth of a parsed document, aliases included.
const MaxDepth = 256

// MaxNodes bounds the number of nodes built for one document, counting merged
// keys. An anchor is converted once and shared by all of its aliases.
const MaxNodes = 1 << 20

const mergeTag = "!!merge"

// Parse parses a YAML (or JSON) document into a Node tree.
//
// Anchors and aliases are expanded and "<<" merge keys are applied, so the
// returned tree is what GitLab sees after loading the file. An empty document
// yields an empty mapping.
func Parse(data []byte) (*Node, error) {
	return ParseNamed("", data)
}

// ParseNamed is Parse with a source name used in error messages.
func ParseNamed(source string, data []byte) (*Node, error) {
	return parseNamed(source, data, MaxNodes)
}

func parseNamed(source string, data []byte, maxNodes int) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &cierrors.ParseError{Source: source, Cause: err}
	}

	if root.Kind == 0 {
		return NewMapping(), nil
	}
	c := converter{source: source, maxNodes: maxNodes, anchors: make(map[*yaml.Node]*Node)}
	node, err := c.convert(&root, 0)
	if err != nil {
		return nil, err
	}
	if node.kind == ScalarNode && node.tag == TagNull {
		return NewMapping(), nil
	}
	return node, nil
}

type converter struct {
	source   string
	maxNodes int
	nodes    int
	// anchors holds converted anchored nodes; Node values are never mutated
	// after construction so aliases share them.
	anchors map[*yaml.Node]*Node
}

// grow charges n nodes against the document budget.
func (c *converter) grow(node *yaml.Node, n int) error {
	c.nodes += n
	if c.nodes > c.maxNodes {
		return c.fail(node, "document expands to more than %d nodes", c.maxNodes)
	}
	return nil
}

func (c *converter) fail(node *yaml.Node, format string, args ...any) error {
	return &cierrors.ParseError{
		Source:  c.source,
		Line:    node.Line,
		Message: fmt.Sprintf(format, args...),
	}
}

func (c *converter) convert(node *yaml.Node, depth int) (*Node, error) {
	if cached, ok := c.anchors[node]; ok {
		return cached, nil
	}
	if depth > MaxDepth {
		return nil, c.fail(node, "document nesting exceeds %d levels", MaxDepth)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NewMapping(), nil
		}
		return c.convert(node.Content[0], depth)

	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, c.fail(node, "unknown anchor %q", node.Value)
		}
		return c.convert(node.Alias, depth+1)

	case yaml.ScalarNode:
		if err := c.grow(node, 1); err != nil {
			return nil, err
		}
		return c.remember(node, &Node{kind: ScalarNode, tag: node.ShortTag(), value: node.Value, line: node.Line}), nil

	case yaml.SequenceNode:
		if err := c.grow(node, 1); err != nil {
			return nil, err
		}
		out := &Node{kind: SequenceNode, items: make([]*Node, 0, len(node.Content)), line: node.Line}
		for _, child := range node.Content {
			item, err := c.convert(child, depth+1)
			if err != nil {
				return nil, err
			}
			out.items = append(out.items, item)
		}
		return c.remember(node, out), nil

	case yaml.MappingNode:
		out, err := c.convertMapping(node, depth)
		if err != nil {
			return nil, err
		}
		return c.remember(node, out), nil
	}

	return nil, c.fail(node, "unsupported YAML node kind %d", node.Kind)
}

func (c *converter) remember(node *yaml.Node, out *Node) *Node {
	if node.Anchor != "" {
		c.anchors[node] = out
	}
	return out
}

// convertMapping builds a mapping node. Explicit keys override keys pulled in
// through "<<"; among merged sources the first one providing a key wins.
func (c *converter) convertMapping(node *yaml.Node, depth int) (*Node, error) {
	if err := c.grow(node, 1); err != nil {
		return nil, err
	}
	out := &Node{kind: MappingNode, index: make(map[string]*Node, len(node.Content)/2), line: node.Line}
	merged := make(map[string]bool)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			sources, err := c.mergeSources(valNode, depth)
			if err != nil {
				return nil, err
			}
			for _, src := range sources {
				if err := c.grow(valNode, len(src.keys)); err != nil {
					return nil, err
				}
				for _, k := range src.keys {
					if _, exists := out.index[k]; exists {
						continue
					}
					out.put(k, src.index[k])
					merged[k] = true
				}
			}
			continue
		}

		key, err := c.key(keyNode)
		if err != nil {
			return nil, err
		}
		value, err := c.convert(valNode, depth+1)
		if err != nil {
			return nil, err
		}
		if _, exists := out.index[key]; exists && !merged[key] {
			return nil, c.fail(keyNode, "mapping key %q already defined", key)
		}
		merged[key] = false
		out.put(key, value)
	}

	return out, nil
}

func (c *converter) key(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return "", c.fail(node, "mapping keys must be scalars")
	}
	return node.Value, nil
}

// mergeSources returns the mappings referenced by a "<<" value: a mapping, an
// alias to one, or a sequence of those.
func (c *converter) mergeSources(node *yaml.Node, depth int) ([]*Node, error) {
	if node.Kind == yaml.SequenceNode {
		var sources []*Node
		for _, child := range node.Content {
			src, err := c.convert(child, depth+1)
			if err != nil {
				return nil, err
			}
			if src.kind != MappingNode {
				return nil, c.fail(child, "merge value must be a mapping, got %s", src.kind)
			}
			sources = append(sources, src)
		}
		return sources, nil
	}

	src, err := c.convert(node, depth+1)
	if err != nil {
		return nil, err
	}
	if src.kind != MappingNode {
		return nil, c.fail(node, "merge value must be a mapping, got %s", src.kind)
	}
	return []*Node{src}, nil
}

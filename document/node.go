package document

import (
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	// ScalarNode holds a single string, number, boolean or null.
	ScalarNode Kind = iota + 1
	// SequenceNode holds an ordered list of nodes.
	SequenceNode
	// MappingNode holds unique string keys mapped to nodes.
	MappingNode
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	default:
		return "unknown"
	}
}

// Scalar tags, in the YAML short form.
const (
	TagString = "!!str"
	TagInt    = "!!int"
	TagFloat  = "!!float"
	TagBool   = "!!bool"
	TagNull   = "!!null"
)

// Node is one value of a parsed document.
//
// A Node is immutable once built: accessors return copies of internal slices.
// Mapping keys keep their declared order for display, lookups are by key.
type Node struct {
	kind  Kind
	tag   string
	value string
	items []*Node
	keys  []string
	index map[string]*Node
	line  int
}

// Entry is one key/value pair used to build a mapping node.
type Entry struct {
	Key   string
	Value *Node
}

// NewString returns a string scalar node.
func NewString(s string) *Node {
	return &Node{kind: ScalarNode, tag: TagString, value: s}
}

// NewScalar returns a scalar node with an explicit tag, e.g. NewScalar(TagInt, "42").
func NewScalar(tag, literal string) *Node {
	return &Node{kind: ScalarNode, tag: tag, value: literal}
}

// NewSequence returns a sequence node holding items in order.
func NewSequence(items ...*Node) *Node {
	n := &Node{kind: SequenceNode, items: make([]*Node, len(items))}
	copy(n.items, items)
	return n
}

// NewMapping returns a mapping node. A later entry with a key already present
// replaces the earlier value and keeps the earlier position.
func NewMapping(entries ...Entry) *Node {
	n := &Node{kind: MappingNode, index: make(map[string]*Node, len(entries))}
	for _, e := range entries {
		n.put(e.Key, e.Value)
	}
	return n
}

func (n *Node) put(key string, value *Node) {
	if _, exists := n.index[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.index[key] = value
}

// Kind returns the node variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// Tag returns the YAML short tag of a scalar node, or "" for collections.
func (n *Node) Tag() string {
	return n.tag
}

// Line returns the 1-based source line of the node, or 0 when unknown.
func (n *Node) Line() int {
	return n.line
}

// Text returns the literal text of a scalar node as written in the source.
func (n *Node) Text() string {
	return n.value
}

// Str returns the value of a string scalar. ok is false for any other node.
func (n *Node) Str() (s string, ok bool) {
	if n == nil || n.kind != ScalarNode || n.tag != TagString {
		return "", false
	}
	return n.value, true
}

// Len returns the number of items of a sequence or keys of a mapping.
func (n *Node) Len() int {
	switch n.kind {
	case SequenceNode:
		return len(n.items)
	case MappingNode:
		return len(n.keys)
	default:
		return 0
	}
}

// Index returns the i-th item of a sequence.
func (n *Node) Index(i int) (*Node, bool) {
	if n.kind != SequenceNode || i < 0 || i >= len(n.items) {
		return nil, false
	}
	return n.items[i], true
}

// Items returns the items of a sequence.
func (n *Node) Items() []*Node {
	if n.kind != SequenceNode {
		return nil
	}
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

// Get returns the value stored under key in a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n.kind != MappingNode {
		return nil, false
	}
	v, ok := n.index[key]
	return v, ok
}

// Keys returns the mapping keys in declared order.
func (n *Node) Keys() []string {
	if n.kind != MappingNode {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Interface converts the node into plain Go values: map[string]any, []any,
// string, int64, float64, bool or nil. Scalars that do not decode under their
// tag are returned as their literal text.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case SequenceNode:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Interface()
		}
		return out
	case MappingNode:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			out[k] = n.index[k].Interface()
		}
		return out
	}

	switch n.tag {
	case TagNull:
		return nil
	case TagBool:
		if b, err := strconv.ParseBool(n.value); err == nil {
			return b
		}
	case TagInt:
		if i, err := strconv.ParseInt(n.value, 0, 64); err == nil {
			return i
		}
	case TagFloat:
		if f, err := strconv.ParseFloat(n.value, 64); err == nil {
			return f
		}
	}
	return n.value
}

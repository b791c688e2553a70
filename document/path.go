package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cicompat/cicompat/cierrors"
)

// Step is one segment of a path expression: a FieldStep or an IndexStep.
type Step interface {
	// String returns the step as written in the expression.
	String() string
	// FieldName returns the mapping key the step looks up.
	FieldName() string

	isStep()
}

// FieldStep selects a mapping key ("parallel").
type FieldStep struct {
	Field string
}

func (s FieldStep) String() string    { return s.Field }
func (s FieldStep) FieldName() string { return s.Field }
func (FieldStep) isStep()             {}

// IndexStep selects a mapping key holding a sequence, then one element of it ("matrix[0]").
type IndexStep struct {
	Field string
	Index int
}

func (s IndexStep) String() string    { return fmt.Sprintf("%s[%d]", s.Field, s.Index) }
func (s IndexStep) FieldName() string { return s.Field }
func (IndexStep) isStep()             {}

// Path is a parsed path expression.
type Path struct {
	raw   string
	steps []Step
}

// String returns the original expression.
func (p *Path) String() string {
	return p.raw
}

// Steps returns the parsed steps in order.
func (p *Path) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// ParsePath parses a dotted path expression such as
// "test.parallel.matrix[0].MONGO_VERSION".
//
// A step of the form field[digits] is an IndexStep; every other step,
// including one with brackets that do not fit that form, is a FieldStep.
// Empty expressions and empty steps are rejected.
func ParsePath(expr string) (*Path, error) {
	if expr == "" {
		return nil, &cierrors.LookupError{Message: "empty path expression"}
	}

	parts := strings.Split(expr, ".")
	steps := make([]Step, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, &cierrors.LookupError{Path: expr, Message: "empty step"}
		}
		field, index, isIndex, err := splitIndexStep(part)
		if err != nil {
			return nil, &cierrors.LookupError{Path: expr, Step: part, Message: err.Error()}
		}
		if isIndex {
			steps = append(steps, IndexStep{Field: field, Index: index})
		} else {
			steps = append(steps, FieldStep{Field: part})
		}
	}

	return &Path{raw: expr, steps: steps}, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(expr string) *Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// splitIndexStep matches "<field>[<digits>]" without regular expressions.
func splitIndexStep(step string) (field string, index int, ok bool, err error) {
	if !strings.HasSuffix(step, "]") {
		return "", 0, false, nil
	}
	open := strings.LastIndexByte(step, '[')
	if open <= 0 {
		return "", 0, false, nil
	}
	field, digits := step[:open], step[open+1:len(step)-1]
	if digits == "" || strings.ContainsAny(field, "[]") {
		return "", 0, false, nil
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", 0, false, nil
		}
	}
	index, convErr := strconv.Atoi(digits)
	if convErr != nil {
		return "", 0, false, fmt.Errorf("index %s out of range", digits)
	}
	return field, index, true, nil
}

// Resolve walks the path from root and returns the node it designates.
// Every failing step yields a *cierrors.LookupError naming the path and the step.
func (p *Path) Resolve(root *Node) (*Node, error) {
	if root == nil {
		return nil, &cierrors.LookupError{Path: p.raw, Message: "document is empty"}
	}

	current := root
	for _, step := range p.steps {
		next, msg := p.apply(current, step)
		if next == nil {
			return nil, &cierrors.LookupError{Path: p.raw, Step: step.String(), Message: msg}
		}
		current = next
	}
	return current, nil
}

func (p *Path) apply(current *Node, step Step) (*Node, string) {
	if current.kind != MappingNode {
		return nil, fmt.Sprintf("cannot look up key %q in a %s node", step.FieldName(), current.kind)
	}
	child, ok := current.Get(step.FieldName())
	if !ok {
		return nil, fmt.Sprintf("key %q not found", step.FieldName())
	}

	s, isIndex := step.(IndexStep)
	if !isIndex {
		return child, ""
	}
	if child.kind != SequenceNode {
		return nil, fmt.Sprintf("key %q holds a %s, not a sequence", s.Field, child.kind)
	}
	item, ok := child.Index(s.Index)
	if !ok {
		return nil, fmt.Sprintf("index %d out of bounds (length %d)", s.Index, child.Len())
	}
	return item, ""
}

// Resolve parses expr and resolves it against root.
func Resolve(root *Node, expr string) (*Node, error) {
	p, err := ParsePath(expr)
	if err != nil {
		return nil, err
	}
	return p.Resolve(root)
}

package pipeline

import (
	"fmt"
	"regexp"

	"github.com/cicompat/cicompat/cierrors"
	"github.com/cicompat/cicompat/document"
)

// versionTag matches an optional "label:" prefix followed by the version.
var versionTag = regexp.MustCompile(`^([A-Za-z_]+:)?([0-9.]+)$`)

// ExtractVersions reads a sequence of string scalars as a version list.
//
// An element like "mongo:4.4" is reduced to "4.4"; elements that do not look
// like a (possibly labelled) dotted version, such as "v4.0" or "latest", are
// kept unchanged. Order and duplicates are preserved. Any other node shape is
// an *cierrors.ExtractError.
func ExtractVersions(node *document.Node) ([]string, error) {
	if node == nil {
		return nil, &cierrors.ExtractError{Index: -1, Message: "no node to extract from"}
	}
	if node.Kind() != document.SequenceNode {
		return nil, &cierrors.ExtractError{
			Index:   -1,
			Message: fmt.Sprintf("expected a sequence of versions, got a %s", node.Kind()),
		}
	}

	out := make([]string, 0, node.Len())
	for i, item := range node.Items() {
		s, ok := item.Str()
		if !ok {
			return nil, &cierrors.ExtractError{Index: i, Message: describeNonString(item)}
		}
		out = append(out, ExtractVersion(s))
	}
	return out, nil
}

// ExtractVersion strips a "label:" prefix from a version tag. Tags that do not
// match the labelled form are returned unchanged.
func ExtractVersion(tag string) string {
	if m := versionTag.FindStringSubmatch(tag); m != nil {
		return m[2]
	}
	return tag
}

func describeNonString(n *document.Node) string {
	if n.Kind() == document.ScalarNode {
		return fmt.Sprintf("expected a string, got %s %q (quote it in YAML)", n.Tag(), n.Text())
	}
	return fmt.Sprintf("expected a string, got a %s", n.Kind())
}

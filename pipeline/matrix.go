package pipeline

import (
	"context"

	"github.com/cicompat/cicompat/document"
)

// MatrixItem locates the version list of one subject in a pipeline document.
type MatrixItem struct {
	// Path is the path expression, e.g. test.parallel.matrix[0].MONGO_VERSION
	Path string
	// Subject names the dependency the versions belong to
	Subject string
	// Include, when set, selects the include entry holding Path
	Include *int
}

// Locate resolves the item's path in root, following the include entry first
// when the item has one. f is only used in that case and may be nil otherwise.
func (m MatrixItem) Locate(ctx context.Context, root *document.Node, f Fetcher) (*document.Node, error) {
	if m.Include != nil {
		return ResolveViaInclude(ctx, root, *m.Include, m.Path, f)
	}
	return document.Resolve(root, m.Path)
}

// Versions locates the item and extracts its version list.
func (m MatrixItem) Versions(ctx context.Context, root *document.Node, f Fetcher) ([]string, error) {
	node, err := m.Locate(ctx, root, f)
	if err != nil {
		return nil, err
	}
	return ExtractVersions(node)
}

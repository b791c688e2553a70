package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cicompat/cicompat/document"
	"github.com/cicompat/cicompat/pipeline"
)

type resolveInput struct {
	Document documentInput `json:"document"          jsonschema:"The GitLab CI document to search"`
	Path     string        `json:"path"              jsonschema:"Path expression, e.g. test.parallel.matrix[0].MONGO_VERSION"`
	Include  *int          `json:"include,omitempty" jsonschema:"Index of the include entry whose target file holds the path"`
}

type resolveOutput struct {
	Kind  string `json:"kind"`
	Tag   string `json:"tag,omitempty"`
	Line  int    `json:"line,omitempty"`
	Value any    `json:"value"`
}

// locate parses the input document and resolves the path, following the
// include entry through the GitLab fetcher when one is requested.
func (in resolveInput) locate(ctx context.Context) (*document.Node, error) {
	root, err := in.Document.resolve()
	if err != nil {
		return nil, err
	}

	item := pipeline.MatrixItem{Path: in.Path, Include: in.Include}
	var f pipeline.Fetcher
	if in.Include != nil {
		if f, err = fetcher(); err != nil {
			return nil, err
		}
	}
	return item.Locate(ctx, root, f)
}

func handleResolvePath(ctx context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	node, err := input.locate(ctx)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	return nil, resolveOutput{
		Kind:  node.Kind().String(),
		Tag:   node.Tag(),
		Line:  node.Line(),
		Value: node.Interface(),
	}, nil
}

type extractOutput struct {
	Versions []string `json:"versions"`
	Count    int      `json:"count"`
}

func handleExtractVersions(ctx context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, extractOutput, error) {
	node, err := input.locate(ctx)
	if err != nil {
		return errResult(err), extractOutput{}, nil
	}

	versions, err := pipeline.ExtractVersions(node)
	if err != nil {
		return errResult(err), extractOutput{}, nil
	}
	return nil, extractOutput{Versions: versions, Count: len(versions)}, nil
}

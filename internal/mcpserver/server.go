// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes cicompat capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	cicompat "github.com/cicompat/cicompat"
)

const serverInstructions = `cicompat MCP server: resolves version matrices in GitLab CI files, consolidates release tags into major lines, and builds compatibility tables.

Path expressions are dotted keys with an optional [index] per step, e.g. test.parallel.matrix[0].MONGO_VERSION.

Configuration via environment variables set in your MCP client config:
- CICOMPAT_MAX_DOCUMENT_SIZE (default: 1048576): maximum size of a pipeline document in bytes
- CICOMPAT_GITLAB_HOST: GitLab base URL; enables following include entries in resolve_path and extract_versions
- GITLAB_TOKEN: access token sent with GitLab requests
- CICOMPAT_CACHE_SIZE (default: 64): number of fetched include files kept in memory`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := newServer()
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "cicompat", Version: cicompat.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_path",
		Description: "Resolve a path expression in a GitLab CI document and return the node found there as JSON. Set include to follow an entry of the document's top-level include list first (requires CICOMPAT_GITLAB_HOST). Errors name the failing step.",
	}, handleResolvePath)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_versions",
		Description: "Resolve a path expression in a GitLab CI document and read the sequence found there as a version list. Label prefixes such as mongo:4.4 are reduced to 4.4; other entries are kept as written.",
	}, handleExtractVersions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "major_versions",
		Description: "Consolidate release tags into one representative per major version, highest first. Pre-release and non-semantic tags are dropped and listed in rejected. Set count to require exactly that many of the latest major lines.",
	}, handleMajorVersions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_table",
		Description: "Build the compatibility table for one subject from (service, subject, version) rows. Columns are the subject's versions in ascending order, rows are services in first-seen order. Set markdown=true to also get a markdown rendering.",
	}, handleBuildTable)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

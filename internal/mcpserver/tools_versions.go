package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cicompat/cicompat/versions"
)

type majorVersionsInput struct {
	Tags  []string `json:"tags"            jsonschema:"Release tags, e.g. v5.4.5"`
	Count int      `json:"count,omitempty" jsonschema:"Require exactly this many of the latest major lines (0 returns all)"`
}

type rejectedTag struct {
	Tag    string `json:"tag"`
	Reason string `json:"reason"`
}

type majorVersionsOutput struct {
	Majors   []string      `json:"majors"`
	Rejected []rejectedTag `json:"rejected,omitempty"`
}

func handleMajorVersions(_ context.Context, _ *mcp.CallToolRequest, input majorVersionsInput) (*mcp.CallToolResult, majorVersionsOutput, error) {
	if len(input.Tags) == 0 {
		return errResult(errors.New("tags must not be empty")), majorVersionsOutput{}, nil
	}
	if input.Count < 0 {
		return errResult(errors.New("count must not be negative")), majorVersionsOutput{}, nil
	}

	var output majorVersionsOutput
	if input.Count > 0 {
		majors, err := versions.LatestMajors(input.Tags, input.Count)
		if err != nil {
			return errResult(err), majorVersionsOutput{}, nil
		}
		output.Majors = majors
	} else {
		output.Majors = versions.MajorVersions(input.Tags)
	}

	_, rejected := versions.FilterStable(input.Tags)
	for _, r := range rejected {
		reason := "unparseable"
		if errors.Is(r.Err, versions.ErrUnstable) {
			reason = "pre-release"
		}
		output.Rejected = append(output.Rejected, rejectedTag{Tag: r.Tag, Reason: reason})
	}
	return nil, output, nil
}

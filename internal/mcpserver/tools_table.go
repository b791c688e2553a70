package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cicompat/cicompat/compat"
)

type rowInput struct {
	Service string  `json:"service"           jsonschema:"Service identity, conventionally name@tag"`
	Subject string  `json:"subject"           jsonschema:"Dependency the version belongs to"`
	Version *string `json:"version,omitempty" jsonschema:"Declared version; omit when the service declares none"`
}

type buildTableInput struct {
	Subject  string     `json:"subject"            jsonschema:"Subject to build the table for"`
	Rows     []rowInput `json:"rows"               jsonschema:"Compatibility rows for any subjects"`
	Markdown bool       `json:"markdown,omitempty" jsonschema:"Also render the table as a markdown section with a subject heading"`
}

type buildTableOutput struct {
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
	Markdown string     `json:"markdown,omitempty"`
}

func handleBuildTable(_ context.Context, _ *mcp.CallToolRequest, input buildTableInput) (*mcp.CallToolResult, buildTableOutput, error) {
	if input.Subject == "" {
		return errResult(errors.New("subject is required")), buildTableOutput{}, nil
	}

	rows := make([]compat.Row, 0, len(input.Rows))
	for _, r := range input.Rows {
		rows = append(rows, compat.Row{Service: r.Service, Subject: r.Subject, Version: r.Version})
	}

	table := compat.BuildTable(input.Subject, rows)
	output := buildTableOutput{Header: table.Header, Rows: table.Rows}
	if input.Markdown {
		output.Markdown = compat.MarkdownDocument(table)
	}
	return nil, output, nil
}

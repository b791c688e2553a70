package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		NewRow("billing@v2.0.0", "mongo", "5.0"),
		NewRow("billing@v2.0.0", "mongo", "4.4"),
		NewRow("billing@v2.0.0", "redis", "7"),
		NewRow("billing@v1.3.0", "mongo", "4.4"),
		NewRow("billing@v1.3.0", "mongo", "4.4"),
		AbsentRow("billing@v1.3.0", "redis"),
		NewRow("search@v10.1.0", "mongo", "10.0"),
		AbsentRow("search@v9.0.0", "mongo"),
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable("mongo", sampleRows())

	assert.Equal(t, []string{"mongo", "4.4", "5.0", "10.0"}, table.Header)
	assert.Equal(t, [][]string{
		{"billing@v2.0.0", "true", "true", "false"},
		{"billing@v1.3.0", "true", "false", "false"},
		{"search@v10.1.0", "false", "false", "true"},
		{"search@v9.0.0", "false", "false", "false"},
	}, table.Rows)
	assert.Equal(t, "mongo", table.Subject())
	assert.Equal(t, []string{"4.4", "5.0", "10.0"}, table.Versions())
}

func TestBuildTable_AllAbsentSubject(t *testing.T) {
	table := BuildTable("redis", []Row{AbsentRow("a@v1.0.0", "redis"), AbsentRow("b@v1.0.0", "redis")})

	assert.Equal(t, []string{"redis"}, table.Header)
	assert.Equal(t, [][]string{{"a@v1.0.0"}, {"b@v1.0.0"}}, table.Rows)
}

func TestBuildTable_UnknownSubject(t *testing.T) {
	table := BuildTable("postgres", sampleRows())
	assert.Equal(t, []string{"postgres"}, table.Header)
	assert.Empty(t, table.Rows)
	assert.Nil(t, table.Versions())
}

func TestBuildTable_RowLengthsMatchHeader(t *testing.T) {
	rows := sampleRows()
	for _, subject := range Subjects(rows) {
		table := BuildTable(subject, rows)

		distinct := make(map[string]bool)
		for _, r := range rows {
			if r.Subject == subject && r.Version != nil {
				distinct[*r.Version] = true
			}
		}
		require.Len(t, table.Header, 1+len(distinct), subject)
		for _, row := range table.Rows {
			assert.Len(t, row, len(table.Header), subject)
		}
	}
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, []string{"mongo", "redis"}, Subjects(sampleRows()))
	assert.Nil(t, Subjects(nil))
}

func TestBuildTables(t *testing.T) {
	tables := BuildTables([]string{"redis", "mongo"}, sampleRows())
	require.Len(t, tables, 2)
	assert.Equal(t, "redis", tables[0].Subject())
	assert.Equal(t, "mongo", tables[1].Subject())
	assert.Equal(t, [][]string{
		{"billing@v2.0.0", "true"},
		{"billing@v1.3.0", "false"},
	}, tables[0].Rows)
}

func TestMarkdown(t *testing.T) {
	table := Table{
		Header: []string{"redis", "6", "7"},
		Rows:   [][]string{{"cache@v1.0.0", "true", "false"}, {"odd|name", "false", "true"}},
	}

	want := "| redis | 6 | 7 |\n" +
		"| --- | --- | --- |\n" +
		"| cache@v1.0.0 | true | false |\n" +
		"| odd\\|name | false | true |\n"
	assert.Equal(t, want, Markdown(table))
	assert.Empty(t, Markdown(Table{}))
}

func TestMarkdownDocument(t *testing.T) {
	doc := MarkdownDocument(BuildTable("redis", sampleRows()))
	assert.Contains(t, doc, "## Redis compatibility\n\n")
	assert.Contains(t, doc, "| redis | 7 |\n")

	empty := MarkdownDocument(BuildTable("postgres", nil))
	assert.Contains(t, empty, "## Postgres compatibility")
	assert.Contains(t, empty, "No services declare versions")
}

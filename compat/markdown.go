package compat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Markdown renders the table as a GitHub-flavoured markdown table.
// Pipe characters inside cells are escaped.
func Markdown(t Table) string {
	if len(t.Header) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow(&b, t.Header)

	b.WriteString("|")
	for range t.Header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// MarkdownDocument renders the table under a level-two heading named after
// the subject, e.g. "## Mongo compatibility".
func MarkdownDocument(t Table) string {
	titleCaser := cases.Title(language.English)

	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(titleCaser.String(t.Subject()))
	b.WriteString(" compatibility\n\n")
	if len(t.Versions()) == 0 && len(t.Rows) == 0 {
		b.WriteString("_No services declare versions for this subject._\n")
		return b.String()
	}
	b.WriteString(Markdown(t))
	return b.String()
}

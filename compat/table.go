// Package compat builds per-subject compatibility tables from resolved rows.
package compat

import (
	"strconv"

	"github.com/cicompat/cicompat/versions"
)

// Row records one version a service declares for a subject.
type Row struct {
	// Service identifies the service, conventionally name@tag
	Service string `json:"service" yaml:"service"`
	// Subject is the dependency the version belongs to
	Subject string `json:"subject" yaml:"subject"`
	// Version is nil when the subject's path did not resolve for the service
	Version *string `json:"version,omitempty" yaml:"version,omitempty"`
}

// NewRow returns a row declaring version.
func NewRow(service, subject, version string) Row {
	return Row{Service: service, Subject: subject, Version: &version}
}

// AbsentRow returns a row for a service that declares nothing for subject.
func AbsentRow(service, subject string) Row {
	return Row{Service: service, Subject: subject}
}

// Table is a compatibility table. Header is [subject, version...]; each row is
// [service, "true"|"false"...] with one cell per version column.
type Table struct {
	Header []string   `json:"header" yaml:"header"`
	Rows   [][]string `json:"rows" yaml:"rows"`
}

// Subject returns the first header cell.
func (t Table) Subject() string {
	if len(t.Header) == 0 {
		return ""
	}
	return t.Header[0]
}

// Versions returns the version columns.
func (t Table) Versions() []string {
	if len(t.Header) < 2 {
		return nil
	}
	return t.Header[1:]
}

// BuildTable builds the table for one subject.
//
// Columns are the distinct non-nil versions of the subject's rows, sorted
// ascending with versions.Compare. Rows are the distinct services in the order
// they first appear, including services whose rows are all absent.
func BuildTable(subject string, rows []Row) Table {
	type key struct{ service, version string }

	var (
		columns     []string
		services    []string
		seenVersion = make(map[string]bool)
		seenService = make(map[string]bool)
		declared    = make(map[key]bool)
	)
	for _, r := range rows {
		if r.Subject != subject {
			continue
		}
		if !seenService[r.Service] {
			seenService[r.Service] = true
			services = append(services, r.Service)
		}
		if r.Version == nil {
			continue
		}
		if !seenVersion[*r.Version] {
			seenVersion[*r.Version] = true
			columns = append(columns, *r.Version)
		}
		declared[key{r.Service, *r.Version}] = true
	}
	columns = versions.SortAscending(columns)

	table := Table{
		Header: append([]string{subject}, columns...),
		Rows:   make([][]string, 0, len(services)),
	}
	for _, svc := range services {
		line := make([]string, 0, len(columns)+1)
		line = append(line, svc)
		for _, v := range columns {
			line = append(line, strconv.FormatBool(declared[key{svc, v}]))
		}
		table.Rows = append(table.Rows, line)
	}
	return table
}

// Subjects returns the distinct subjects of rows in first-seen order.
func Subjects(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Subject] {
			seen[r.Subject] = true
			out = append(out, r.Subject)
		}
	}
	return out
}

// BuildTables builds one table per subject, in the given order.
func BuildTables(subjects []string, rows []Row) []Table {
	tables := make([]Table, 0, len(subjects))
	for _, s := range subjects {
		tables = append(tables, BuildTable(s, rows))
	}
	return tables
}

package report

import (
	"path/filepath"
	"strings"

	"github.com/cicompat/cicompat/compat"
	"github.com/cicompat/cicompat/internal/fileutil"
)

// OutputSuffix is appended to the subject to name its report file.
const OutputSuffix = "_output.md"

// Tables builds one table per subject, in the given order.
func Tables(subjects []string, rows []compat.Row) []compat.Table {
	return compat.BuildTables(subjects, rows)
}

// OutputPath returns the file a subject's table is written to. Path
// separators in the subject are replaced so the file stays inside dir.
func OutputPath(dir, subject string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(subject)
	if name == "" || name == "." || name == ".." {
		name = "_" + name
	}
	return filepath.Join(dir, name+OutputSuffix)
}

// WriteOutputs writes each table as markdown to OutputPath(dir, subject) and
// returns the written paths in table order.
func WriteOutputs(dir string, tables []compat.Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := OutputPath(dir, t.Subject())
		if err := fileutil.WriteFile(path, []byte(compat.Markdown(t)), fileutil.ReadableByAll); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

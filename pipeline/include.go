package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/cicompat/cicompat/cierrors"
	"github.com/cicompat/cicompat/document"
)

// EncodedSlash replaces every "/" in a project or file identifier. The GitLab
// repository files API expects this exact form in the URL path.
const EncodedSlash = "%2F"

// Fetcher retrieves the raw contents of a file in a remote project.
//
// project and file arrive already encoded (see IncludeTarget). Implementations
// own retries, caching and timeouts.
type Fetcher interface {
	FetchFile(ctx context.Context, project, file, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, project, file, ref string) ([]byte, error)

// FetchFile calls f(ctx, project, file, ref).
func (f FetcherFunc) FetchFile(ctx context.Context, project, file, ref string) ([]byte, error) {
	return f(ctx, project, file, ref)
}

// IncludeTarget identifies the file an include entry points at, in the
// encoded form passed to a Fetcher.
type IncludeTarget struct {
	Project string
	File    string
	Ref     string
}

// NewIncludeTarget reads the project, file and ref string fields of an include
// entry. A leading "/" is stripped from file, then every "/" in project and
// file becomes %2F. Nothing else is escaped.
//
// index is only used to label a *cierrors.MalformedIncludeError.
func NewIncludeTarget(entry *document.Node, index int) (IncludeTarget, error) {
	var missing []string
	field := func(name string) string {
		var v *document.Node
		if entry != nil {
			v, _ = entry.Get(name)
		}
		s, ok := v.Str()
		if !ok {
			missing = append(missing, name)
		}
		return s
	}

	project := field("project")
	file := field("file")
	ref := field("ref")
	if len(missing) > 0 {
		return IncludeTarget{}, &cierrors.MalformedIncludeError{Index: index, Missing: missing}
	}

	file = strings.TrimPrefix(file, "/")
	return IncludeTarget{
		Project: EncodeSlashes(project),
		File:    EncodeSlashes(file),
		Ref:     ref,
	}, nil
}

// String returns project:file@ref, used to name the fetched document.
func (t IncludeTarget) String() string {
	return t.Project + ":" + t.File + "@" + t.Ref
}

// EncodeSlashes replaces every "/" in s with %2F.
func EncodeSlashes(s string) string {
	return strings.ReplaceAll(s, "/", EncodedSlash)
}

// ResolveViaInclude follows include[includeIndex] of root to another document
// and resolves path there.
//
// The include entry is located with the same rules (and errors) as
// document.Resolve. A malformed entry fails before any fetch. Fetch errors are
// returned unmodified; the fetched bytes are parsed with document.ParseNamed.
func ResolveViaInclude(ctx context.Context, root *document.Node, includeIndex int, path string, f Fetcher) (*document.Node, error) {
	if includeIndex < 0 {
		return nil, &cierrors.LookupError{
			Path:    "include[" + strconv.Itoa(includeIndex) + "]",
			Message: "include index must not be negative",
		}
	}
	entry, err := document.Resolve(root, "include["+strconv.Itoa(includeIndex)+"]")
	if err != nil {
		return nil, err
	}

	target, err := NewIncludeTarget(entry, includeIndex)
	if err != nil {
		return nil, err
	}

	data, err := f.FetchFile(ctx, target.Project, target.File, target.Ref)
	if err != nil {
		return nil, err
	}

	included, err := document.ParseNamed(target.String(), data)
	if err != nil {
		return nil, err
	}
	return document.Resolve(included, path)
}

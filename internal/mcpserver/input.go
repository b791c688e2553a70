package mcpserver

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cicompat/cicompat/document"
	"github.com/cicompat/cicompat/gitlab"
	"github.com/cicompat/cicompat/pipeline"
)

// documentInput represents the two ways a pipeline document can be provided.
// Exactly one of File or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a GitLab CI file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline GitLab CI document content (YAML or JSON)"`
}

func (d documentInput) resolve() (*document.Node, error) {
	switch {
	case d.File != "" && d.Content != "":
		return nil, errors.New("exactly one of file or content must be provided (got 2)")
	case d.File == "" && d.Content == "":
		return nil, errors.New("exactly one of file or content must be provided (got 0)")
	}

	if d.Content != "" {
		if len(d.Content) > cfg.MaxDocumentSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; set CICOMPAT_MAX_DOCUMENT_SIZE to increase",
				len(d.Content), cfg.MaxDocumentSize)
		}
		return document.ParseNamed("content", []byte(d.Content))
	}

	info, err := os.Stat(d.File)
	if err != nil {
		return nil, err
	}
	if info.Size() > int64(cfg.MaxDocumentSize) {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum %d bytes; set CICOMPAT_MAX_DOCUMENT_SIZE to increase",
			info.Size(), cfg.MaxDocumentSize)
	}
	data, err := os.ReadFile(d.File)
	if err != nil {
		return nil, err
	}
	return document.ParseNamed(d.File, data)
}

var (
	fetcherOnce sync.Once
	fetcherVal  pipeline.Fetcher
	fetcherErr  error
)

// fetcher returns the GitLab client used for include entries. It is created on
// first use and shared for the session so its file cache is reused.
var fetcher = func() (pipeline.Fetcher, error) {
	fetcherOnce.Do(func() {
		if cfg.GitLabHost == "" {
			fetcherErr = errors.New("following include entries requires CICOMPAT_GITLAB_HOST")
			return
		}
		fetcherVal, fetcherErr = gitlab.New(cfg.GitLabHost, cfg.GitLabToken, gitlab.WithCacheSize(cfg.CacheSize))
	})
	return fetcherVal, fetcherErr
}

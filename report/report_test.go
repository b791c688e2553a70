package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicompat/cicompat/cierrors"
	"github.com/cicompat/cicompat/compat"
	"github.com/cicompat/cicompat/config"
)

// memorySource serves tags and files from maps keyed by encoded identifiers.
type memorySource struct {
	mu      sync.Mutex
	tags    map[string][]string
	files   map[string]string // project|file|ref
	fetches []string
}

func (m *memorySource) Tags(_ context.Context, project string) ([]string, error) {
	tags, ok := m.tags[project]
	if !ok {
		return nil, &cierrors.FetchError{URL: project, StatusCode: 404}
	}
	return tags, nil
}

func (m *memorySource) FetchFile(_ context.Context, project, file, ref string) ([]byte, error) {
	key := project + "|" + file + "|" + ref
	m.mu.Lock()
	m.fetches = append(m.fetches, key)
	m.mu.Unlock()
	data, ok := m.files[key]
	if !ok {
		return nil, &cierrors.FetchError{URL: key, StatusCode: 404}
	}
	return []byte(data), nil
}

const testConfig = `
gitlab_base_api_host: https://gitlab.example.com
services:
  - name: billing
    ci: {project_id: platform/billing}
    matrix:
      - path: test.parallel.matrix[0].MONGO_VERSION
        name: mongo
      - path: redis.parallel.matrix[0].REDIS_VERSION
        name: redis
        include: 0
  - name: search
    ci: {project_id: "7"}
    matrix:
      - path: test.parallel.matrix[0].MONGO_VERSION
        name: mongo
`

func newSource() *memorySource {
	const sharedInclude = `
include:
  - project: platform/ci-templates
    file: /redis.yml
    ref: v1.0.0
`
	return &memorySource{
		tags: map[string][]string{
			"platform%2Fbilling": {"v1.0.0", "v1.2.0", "v2.0.0", "v2.1.0-rc.1", "nightly"},
			"7":                  {"v9.0.0", "v10.0.0"},
		},
		files: map[string]string{
			"platform%2Fbilling|.gitlab-ci.yml|v2.0.0": sharedInclude + `
test:
  parallel:
    matrix:
      - MONGO_VERSION: ["mongo:5.0", "6.0"]
`,
			"platform%2Fbilling|.gitlab-ci.yml|v1.2.0": sharedInclude + `
test:
  script: [make test]
`,
			"platform%2Fci-templates|redis.yml|v1.0.0": `
redis:
  parallel:
    matrix:
      - REDIS_VERSION: ["6", "7"]
`,
			"7|.gitlab-ci.yml|v10.0.0": `
test:
  parallel:
    matrix:
      - MONGO_VERSION: ["6.0"]
`,
			"7|.gitlab-ci.yml|v9.0.0": `
test:
  parallel:
    matrix:
      - MONGO_VERSION: "6.0"
`,
		},
	}
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	return cfg
}

func TestBuilder_Rows(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		rows, err := NewBuilder(loadConfig(t), newSource(), WithConcurrency(concurrency)).Rows(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []compat.Row{
			compat.NewRow("billing@v2.0.0", "mongo", "5.0"),
			compat.NewRow("billing@v2.0.0", "mongo", "6.0"),
			compat.NewRow("billing@v2.0.0", "redis", "6"),
			compat.NewRow("billing@v2.0.0", "redis", "7"),
			compat.AbsentRow("billing@v1.2.0", "mongo"),
			compat.NewRow("billing@v1.2.0", "redis", "6"),
			compat.NewRow("billing@v1.2.0", "redis", "7"),
			compat.NewRow("search@v10.0.0", "mongo", "6.0"),
			compat.AbsentRow("search@v9.0.0", "mongo"),
		}, rows, "concurrency %d", concurrency)
	}
}

func TestBuilder_TablesFromRows(t *testing.T) {
	cfg := loadConfig(t)
	rows, err := NewBuilder(cfg, newSource()).Rows(context.Background())
	require.NoError(t, err)

	tables := Tables(cfg.Subjects(), rows)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"mongo", "5.0", "6.0"}, tables[0].Header)
	assert.Equal(t, [][]string{
		{"billing@v2.0.0", "true", "true"},
		{"billing@v1.2.0", "false", "false"},
		{"search@v10.0.0", "false", "true"},
		{"search@v9.0.0", "false", "false"},
	}, tables[0].Rows)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*memorySource)
		wantErr error
	}{
		{
			name:    "tag listing fails",
			mutate:  func(m *memorySource) { delete(m.tags, "7") },
			wantErr: cierrors.ErrFetch,
		},
		{
			name:    "too few major lines",
			mutate:  func(m *memorySource) { m.tags["7"] = []string{"v10.0.0", "v10.1.0"} },
			wantErr: cierrors.ErrInsufficientMajors,
		},
		{
			name:    "pipeline missing",
			mutate:  func(m *memorySource) { delete(m.files, "7|.gitlab-ci.yml|v9.0.0") },
			wantErr: cierrors.ErrFetch,
		},
		{
			name:    "pipeline unparseable",
			mutate:  func(m *memorySource) { m.files["7|.gitlab-ci.yml|v9.0.0"] = "test: [" },
			wantErr: cierrors.ErrParse,
		},
		{
			name: "malformed include",
			mutate: func(m *memorySource) {
				m.files["platform%2Fbilling|.gitlab-ci.yml|v2.0.0"] = "include: [{project: a, file: b}]\n"
			},
			wantErr: cierrors.ErrMalformedInclude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource()
			tt.mutate(src)
			_, err := NewBuilder(loadConfig(t), src, WithConcurrency(1)).Rows(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilder_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := newSource()
	blocking := &cancelAwareSource{memorySource: src}
	_, err := NewBuilder(loadConfig(t), blocking).Rows(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

type cancelAwareSource struct {
	*memorySource
}

func (c *cancelAwareSource) Tags(ctx context.Context, project string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.memorySource.Tags(ctx, project)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "mongo_output.md"), OutputPath("out", "mongo"))
	assert.Equal(t, filepath.Join("out", "bitnami_redis_output.md"), OutputPath("out", "bitnami/redis"))
	assert.Equal(t, filepath.Join("out", "_.._output.md"), OutputPath("out", ".."))
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	tables := []compat.Table{
		compat.BuildTable("mongo", []compat.Row{compat.NewRow("a@v1.0.0", "mongo", "6.0")}),
		compat.BuildTable("redis", []compat.Row{compat.AbsentRow("a@v1.0.0", "redis")}),
	}

	paths, err := WriteOutputs(dir, tables)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "mongo_output.md"),
		filepath.Join(dir, "redis_output.md"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "| mongo | 6.0 |\n| --- | --- |\n| a@v1.0.0 | true |\n", string(data))
}

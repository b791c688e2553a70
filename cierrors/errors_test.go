package cierrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &LookupError{Path: "a.b[3]", Step: "b[3]", Message: "index 3 out of bounds (length 2)"}
		assert.Equal(t, `lookup error in path "a.b[3]" at step "b[3]": index 3 out of bounds (length 2)`, err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "lookup error", (&LookupError{}).Error())
	})

	t.Run("Is matches ErrLookup only", func(t *testing.T) {
		err := &LookupError{Path: "x"}
		assert.ErrorIs(t, err, ErrLookup)
		assert.NotErrorIs(t, err, ErrMalformedInclude)
		assert.NotErrorIs(t, err, ErrExtract)
	})

	t.Run("As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("pipeline: %w", &LookupError{Path: "a", Step: "a"})
		var lookupErr *LookupError
		require.ErrorAs(t, wrapped, &lookupErr)
		assert.Equal(t, "a", lookupErr.Step)
	})
}

func TestMalformedIncludeError(t *testing.T) {
	err := &MalformedIncludeError{Index: 1, Missing: []string{"file", "ref"}}
	assert.Equal(t, "malformed include[1]: missing or non-string field(s): file, ref", err.Error())
	assert.ErrorIs(t, err, ErrMalformedInclude)
	assert.NotErrorIs(t, err, ErrLookup)
	assert.Nil(t, err.Unwrap())
}

func TestExtractError(t *testing.T) {
	t.Run("node level", func(t *testing.T) {
		err := &ExtractError{Index: -1, Message: "expected a sequence, got mapping"}
		assert.Equal(t, "extract error: expected a sequence, got mapping", err.Error())
	})

	t.Run("element level", func(t *testing.T) {
		err := &ExtractError{Index: 2, Message: "expected a string"}
		assert.Equal(t, "extract error at element 2: expected a string", err.Error())
		assert.ErrorIs(t, err, ErrExtract)
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{Source: ".gitlab-ci.yml", Line: 4, Message: "invalid syntax", Cause: cause}
		assert.Equal(t, "parse error in .gitlab-ci.yml at line 4: invalid syntax: underlying error", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestFetchError(t *testing.T) {
	err := &FetchError{URL: "https://gitlab.example.com/api/v4/projects/1", StatusCode: 404, Message: "404 Not Found"}
	assert.Equal(t, "fetch error for https://gitlab.example.com/api/v4/projects/1 (HTTP 404): 404 Not Found", err.Error())
	assert.ErrorIs(t, err, ErrFetch)

	cause := errors.New("connection refused")
	err = &FetchError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}

func TestInsufficientMajorsError(t *testing.T) {
	err := &InsufficientMajorsError{Want: 2, Got: 1, Majors: []string{"v1.4.0"}}
	assert.Equal(t, "insufficient major versions: want 2, got 1 (v1.4.0)", err.Error())
	assert.ErrorIs(t, err, ErrInsufficientMajors)

	err = &InsufficientMajorsError{Want: 2}
	assert.Equal(t, "insufficient major versions: want 2, got 0", err.Error())
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("root cause")
		err := &ConfigError{Option: "majors", Value: -1, Message: "must be positive", Cause: cause}
		assert.Equal(t, "configuration error for majors (value: -1): must be positive: root cause", err.Error())
	})

	t.Run("Is matches ErrConfig", func(t *testing.T) {
		assert.ErrorIs(t, &ConfigError{}, ErrConfig)
		assert.NotErrorIs(t, &ConfigError{}, ErrParse)
	})
}

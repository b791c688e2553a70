// Package cierrors provides structured error types for the cicompat library.
//
// Import path: github.com/cicompat/cicompat/cierrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to tell a path that does not resolve apart from a broken
// include entry, an unreachable GitLab instance or a bad configuration.
//
// # Error Types
//
//   - [LookupError]: a path expression does not resolve (missing key, wrong node kind, index out of range)
//   - [MalformedIncludeError]: an include entry lacks project, file or ref
//   - [ExtractError]: the resolved node is not a list of version strings
//   - [ParseError]: YAML parsing failures
//   - [FetchError]: HTTP failures talking to GitLab
//   - [InsufficientMajorsError]: fewer major version lines than requested
//   - [ConfigError]: invalid configuration or environment
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrLookup]: Matches any [LookupError]
//   - [ErrMalformedInclude]: Matches any [MalformedIncludeError]
//   - [ErrExtract]: Matches any [ExtractError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrFetch]: Matches any [FetchError]
//   - [ErrInsufficientMajors]: Matches any [InsufficientMajorsError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	node, err := document.Resolve(root, "test.parallel.matrix[0].MONGO_VERSION")
//	if errors.Is(err, cierrors.ErrLookup) {
//	    // The service does not declare this matrix
//	}
//
//	var lookupErr *cierrors.LookupError
//	if errors.As(err, &lookupErr) {
//	    fmt.Printf("step %s of %s: %s\n", lookupErr.Step, lookupErr.Path, lookupErr.Message)
//	}
package cierrors

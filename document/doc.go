// Package document parses pipeline files into a typed node tree and resolves
// path expressions against it.
//
// A [Node] is one of three variants (scalar, sequence, mapping). Every
// traversal checks the variant explicitly, so a path that walks into the wrong
// kind of node fails with a [cierrors.LookupError] instead of panicking.
//
// # Path Expressions
//
// Supported syntax:
//   - field (mapping key)
//   - field[n] (mapping key holding a sequence, then element n)
//   - steps joined with "." (e.g. test.parallel.matrix[0].MONGO_VERSION)
//
// Not supported: quoting, keys containing ".", wildcards, negative indexes,
// slices and chained indexes such as a[0][1].
package document

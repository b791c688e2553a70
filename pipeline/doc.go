// Package pipeline reads declared version matrices out of GitLab CI documents.
//
// A MatrixItem names a path such as
//
//	test.parallel.matrix[0].MONGO_VERSION
//
// and optionally the index of an entry in the document's top-level include
// list. When an include index is given, the entry's project, file and ref are
// handed to a Fetcher and the path is resolved in the fetched document
// instead:
//
//	item := pipeline.MatrixItem{Path: "test.parallel.matrix[0].MONGO_VERSION", Subject: "mongo"}
//	versions, err := item.Versions(ctx, root, client)
//
// Version lists are sequences of strings. A "label:" prefix is dropped, so
// ["v4.0", "mongo:4.4", "5.0"] reads as ["v4.0", "4.4", "5.0"].
package pipeline

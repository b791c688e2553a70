// Package cicompat reports which versions of a dependency each service declares
// compatibility with, by reading the version matrix out of every service's
// GitLab CI pipeline.
//
// # Overview
//
// The library consists of these packages:
//
//   - document: parse pipeline YAML into a typed node tree and resolve path expressions
//   - pipeline: extract version lists and follow include indirections to other projects
//   - versions: compare dotted version tags and consolidate them into major lines
//   - compat: build per-subject compatibility tables and render them as markdown
//   - config: load the service configuration and environment
//   - gitlab: fetch raw files and tags from the GitLab REST API
//   - report: tie everything together for a configured set of services
//   - cierrors: structured error types for errors.Is / errors.As
//
// # Quick Start
//
// Resolve a version matrix inside a pipeline file:
//
//	root, err := document.Parse(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	node, err := document.Resolve(root, "test.parallel.matrix[0].MONGO_VERSION")
//	if err != nil {
//		log.Fatal(err)
//	}
//	versions, err := pipeline.ExtractVersions(node)
//
// Reduce a service's tags to one representative per major line:
//
//	majors := versions.MajorVersions([]string{"v3.5.1", "v4.1.2", "v5.5.1-rc.0", "v5.4.5", "v3.9.0"})
//	// majors == []string{"v5.4.5", "v4.1.2", "v3.9.0"}
//
// Build a table for a subject:
//
//	table := compat.BuildTable("mongo", rows)
//	fmt.Println(compat.Markdown(table))
//
// # Path Expressions
//
// A path is a dot separated list of steps. A step is either a mapping key
// ("test") or a mapping key followed by one bracketed sequence index
// ("matrix[0]"). Nothing else is supported: no wildcards, quoting, slices or
// filters.
//
// # Includes
//
// A matrix item may point into a file pulled in by the pipeline's top-level
// include list. The include entry must carry project, file and ref; the
// project and file are sent to the GitLab API with every "/" encoded as "%2F".
package cicompat

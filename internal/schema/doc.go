// Package schema compiles collection declarations into a validated,
// immutable collection graph.
//
// Build pipeline:
//  1. Validate every declaration's path and resolve its record type
//     (codec, injections, queryable fields). Declarations are independent, so
//     this pass runs on a bounded worker pool.
//  2. Index descriptors by path and reject duplicates.
//  3. Link every nested collection to the collection whose path precedes the
//     last "/*/" of its own path.
//
// All diagnostics are collected and reported together, ordered by input
// position. The graph is read-only once Build returns.
package schema

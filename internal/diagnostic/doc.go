// Package diagnostic provides structured compile-time diagnostics for the
// collection schema compiler.
//
// Key capabilities:
//   - A closed taxonomy of error codes grouped into path, serialization,
//     injection and graph categories
//   - Typed *Error values carrying the offending declaration or member and
//     a remediation hint
//   - A Diagnostics collector so that unrelated failures are all reported in
//     a single compilation
package diagnostic

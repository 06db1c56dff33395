// Package match ranks names by edit distance. It backs the "did you mean"
// hints attached to graph diagnostics.
package match

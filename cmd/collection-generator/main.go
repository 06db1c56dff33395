// Package main provides the CLI entrypoint for collection-generator.
//
// collection-generator compiles collection declarations on Go types into a
// validated collection graph and generates a typed Firestore data-access
// layer from it:
//   - check: validate paths, codecs and field injections
//   - generate: write reference, snapshot, query and codec code
//   - inspect: print the compiled graph as YAML
package main

import (
	"fmt"
	"os"

	"collection-generator/internal/commands"
)

func main() {
	if err := commands.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package analyze

import (
	"fmt"
	"sort"
	"strings"
)

// ResolveRecord resolves a type reference like:
//   - "movies.Movie" (short)
//   - "collection-generator/examples/movies.Movie" (full)
//   - "Movie" (name only, must be unambiguous).
func ResolveRecord(ref string, graph *TypeGraph) (*RecordType, error) {
	if graph == nil || ref == "" {
		return nil, fmt.Errorf("cannot resolve type %q", ref)
	}

	lastDot := strings.LastIndex(ref, ".")
	pkgStr, name := "", ref

	if lastDot >= 0 {
		pkgStr, name = ref[:lastDot], ref[lastDot+1:]
	}

	// Exact match for fully qualified import paths.
	if r := graph.GetRecord(TypeID{PkgPath: pkgStr, Name: name}); r != nil && pkgStr != "" {
		return r, nil
	}

	var matches []TypeID

	for id := range graph.Records {
		if id.Name != name {
			continue
		}

		if pkgStr == "" || id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("type %q not found among loaded record types", ref)
	case 1:
		return graph.Records[matches[0]], nil
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i].String() < matches[j].String() })

		return nil, fmt.Errorf("type %q is ambiguous: %v", ref, matches)
	}
}

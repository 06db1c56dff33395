package schema

import (
	"collection-generator/internal/analyze"
	"collection-generator/internal/docpath"
	"collection-generator/internal/resolve"
)

// noParent marks root collections.
const noParent = -1

// Collection is the resolved model of one collection. It is owned by its
// Graph and must not be modified after Build.
type Collection struct {
	graph    *Graph
	index    int
	parent   int
	children []int

	// Record is the type whose instances are stored as documents.
	Record *analyze.RecordType
	// Path is the validated path pattern.
	Path docpath.Path
	// Name is the collection identifier.
	Name string
	// Queryable lists the members usable in query predicates.
	Queryable []resolve.QueryableField
	// Codec is the resolved serialization contract.
	Codec resolve.Codec
	// Injections lists members populated from document metadata.
	Injections []resolve.FieldInjection
	// Site locates the originating declaration.
	Site string
}

// Index is the collection's position in declaration order.
func (c *Collection) Index() int {
	return c.index
}

// Graph returns the graph owning the collection.
func (c *Collection) Graph() *Graph {
	return c.graph
}

// IsRoot reports whether the collection has no parent.
func (c *Collection) IsRoot() bool {
	return c.parent == noParent
}

// Parent returns the owning collection, or nil for roots.
func (c *Collection) Parent() *Collection {
	if c.parent == noParent {
		return nil
	}

	return c.graph.collections[c.parent]
}

// Children returns the collections nested directly under this one, in
// declaration order.
func (c *Collection) Children() []*Collection {
	out := make([]*Collection, len(c.children))
	for i, idx := range c.children {
		out[i] = c.graph.collections[idx]
	}

	return out
}

// Ancestors returns the chain of parents from the root down to the direct
// parent.
func (c *Collection) Ancestors() []*Collection {
	var chain []*Collection
	for p := c.Parent(); p != nil; p = p.Parent() {
		chain = append([]*Collection{p}, chain...)
	}

	return chain
}

// Injection returns the injection of the given kind, if declared.
func (c *Collection) Injection(kind resolve.InjectionKind) (resolve.FieldInjection, bool) {
	for _, fi := range c.Injections {
		if fi.Kind == kind {
			return fi, true
		}
	}

	return resolve.FieldInjection{}, false
}

// Graph is the collection hierarchy of one compilation unit. Collections
// live in an arena indexed by declaration order; parent and child links are
// indices into it.
type Graph struct {
	collections []*Collection
	byPath      map[string]int
}

// Collections returns all collections in declaration order.
func (g *Graph) Collections() []*Collection {
	return append([]*Collection(nil), g.collections...)
}

// Roots returns the root collections in declaration order.
func (g *Graph) Roots() []*Collection {
	var roots []*Collection

	for _, c := range g.collections {
		if c.IsRoot() {
			roots = append(roots, c)
		}
	}

	return roots
}

// Lookup returns the collection declared at path.
func (g *Graph) Lookup(path string) (*Collection, bool) {
	idx, ok := g.byPath[path]
	if !ok {
		return nil, false
	}

	return g.collections[idx], true
}

// Len returns the number of collections.
func (g *Graph) Len() int {
	return len(g.collections)
}

// Walk visits collections depth-first starting at the roots, parents before
// children, siblings in declaration order.
func (g *Graph) Walk(fn func(c *Collection, depth int) error) error {
	var visit func(c *Collection, depth int) error

	visit = func(c *Collection, depth int) error {
		if err := fn(c, depth); err != nil {
			return err
		}

		for _, child := range c.Children() {
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}

		return nil
	}

	for _, root := range g.Roots() {
		if err := visit(root, 0); err != nil {
			return err
		}
	}

	return nil
}

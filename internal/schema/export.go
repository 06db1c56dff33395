package schema

import (
	"io"

	"gopkg.in/yaml.v3"

	"collection-generator/internal/resolve"
)

// ExportFile is the YAML view of a Graph printed by inspect.
type ExportFile struct {
	Collections []ExportCollection `yaml:"collections"`
}

// ExportCollection is the YAML view of one Collection.
type ExportCollection struct {
	Path       string            `yaml:"path"`
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	Parent     string            `yaml:"parent,omitempty"`
	Children   []string          `yaml:"children,omitempty"`
	Decode     string            `yaml:"decode"`
	Encode     string            `yaml:"encode"`
	Injections map[string]string `yaml:"injections,omitempty"`
	Queryable  []string          `yaml:"queryable,omitempty"`
	Site       string            `yaml:"site,omitempty"`
}

// Export builds the YAML view of g in declaration order.
func Export(g *Graph) *ExportFile {
	ef := &ExportFile{Collections: []ExportCollection{}}

	for _, c := range g.Collections() {
		ec := ExportCollection{
			Path:   c.Path.String(),
			Name:   c.Name,
			Type:   c.Record.ID.String(),
			Decode: exportCall(c.Codec.Decode),
			Encode: exportCall(c.Codec.Encode),
			Site:   c.Site,
		}

		if p := c.Parent(); p != nil {
			ec.Parent = p.Path.String()
		}

		for _, child := range c.Children() {
			ec.Children = append(ec.Children, child.Path.String())
		}

		if len(c.Injections) > 0 {
			ec.Injections = make(map[string]string, len(c.Injections))
			for _, fi := range c.Injections {
				ec.Injections[fi.Target] = fi.Kind.String()
			}
		}

		for _, q := range c.Queryable {
			ec.Queryable = append(ec.Queryable, q.Name)
		}

		ef.Collections = append(ef.Collections, ec)
	}

	return ef
}

// ExportYAML marshals the YAML view of g.
func ExportYAML(g *Graph) ([]byte, error) {
	return yaml.Marshal(Export(g))
}

// WriteYAML writes the YAML view of g to w.
func WriteYAML(w io.Writer, g *Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(Export(g)); err != nil {
		return err
	}

	return enc.Close()
}

func exportCall(c resolve.Call) string {
	if c.Kind == resolve.CallDerived {
		return "derived " + c.Name
	}

	return c.Name
}

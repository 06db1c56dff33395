package emit

import (
	"bytes"
	"fmt"
	"text/template"

	"collection-generator/internal/schema"
)

// QueryEmitter renders typed query builders over queryable fields.
type QueryEmitter struct {
	target Target
}

// NewQueryEmitter creates a QueryEmitter.
func NewQueryEmitter(target Target) *QueryEmitter {
	return &QueryEmitter{target: target}
}

// Name implements Emitter.
func (e *QueryEmitter) Name() string { return NameQuery }

// Requires implements Dependent.
func (e *QueryEmitter) Requires() []string { return []string{NameReference, NameSnapshot} }

// Accepts implements Emitter. Collections without queryable fields get no
// query builder.
func (e *QueryEmitter) Accepts(c *schema.Collection) bool {
	return len(c.Queryable) > 0
}

type queryField struct {
	Method   string
	Key      string
	Type     string
	ElemType string
	Repeated bool
}

type queryData struct {
	Ident  string
	Path   string
	Fields []queryField
}

var queryTemplate = template.Must(template.New("query").Parse(`
// {{.Ident}}Query is a typed query over "{{.Path}}".
type {{.Ident}}Query struct {
	firestore.Query
}

// Query starts a query over the collection.
func (c {{.Ident}}CollectionRef) Query() {{.Ident}}Query {
	return {{.Ident}}Query{c.CollectionRef.Query}
}
{{range .Fields}}
// Where{{.Method}} filters on "{{.Key}}".
func (q {{$.Ident}}Query) Where{{.Method}}(op string, value {{.Type}}) {{$.Ident}}Query {
	return {{$.Ident}}Query{q.Query.Where({{printf "%q" .Key}}, op, value)}
}
{{if .Repeated}}
// Where{{.Method}}Contains keeps documents whose "{{.Key}}" contains value.
func (q {{$.Ident}}Query) Where{{.Method}}Contains(value {{.ElemType}}) {{$.Ident}}Query {
	return {{$.Ident}}Query{q.Query.Where({{printf "%q" .Key}}, "array-contains", value)}
}
{{else}}
// OrderBy{{.Method}} sorts by "{{.Key}}".
func (q {{$.Ident}}Query) OrderBy{{.Method}}(dir firestore.Direction) {{$.Ident}}Query {
	return {{$.Ident}}Query{q.Query.OrderBy({{printf "%q" .Key}}, dir)}
}
{{end}}{{end}}
// Limit caps the number of results.
func (q {{.Ident}}Query) Limit(n int) {{.Ident}}Query {
	return {{.Ident}}Query{q.Query.Limit(n)}
}

// Documents runs the query and decodes every result.
func (q {{.Ident}}Query) Documents(ctx context.Context) ([]*{{.Ident}}Snapshot, error) {
	snaps, err := q.Query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]*{{.Ident}}Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		s, err := New{{.Ident}}Snapshot(snap)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}
`))

// Render implements Emitter.
func (e *QueryEmitter) Render(c *schema.Collection) (Fragment, error) {
	im := imports{}
	im.add("context", FirestoreImport)

	data := queryData{Ident: Ident(c), Path: c.Path.String()}

	for _, q := range c.Queryable {
		f := queryField{
			Method:   q.Name,
			Key:      FieldKey(q.Name),
			Repeated: q.Repeated,
		}

		if q.Repeated {
			elem := q.Type.Resolve().ElemType
			f.Type = q.Type.TypeString(e.target.PackagePath)
			f.ElemType = elem.TypeString(e.target.PackagePath)
			im.addType(q.Type, e.target)
			im.addType(elem, e.target)
		} else {
			value := q.Type.Elem()
			f.Type = value.TypeString(e.target.PackagePath)
			im.addType(value, e.target)
		}

		data.Fields = append(data.Fields, f)
	}

	var buf bytes.Buffer
	if err := queryTemplate.Execute(&buf, data); err != nil {
		return Fragment{}, fmt.Errorf("executing template: %w", err)
	}

	return Fragment{Imports: im.list(), Code: buf.String()}, nil
}

package emit

import (
	"bytes"
	"fmt"
	"text/template"

	"collection-generator/internal/resolve"
	"collection-generator/internal/schema"
)

// ReferenceEmitter renders typed collection and document references.
type ReferenceEmitter struct {
	target Target
}

// NewReferenceEmitter creates a ReferenceEmitter.
func NewReferenceEmitter(target Target) *ReferenceEmitter {
	return &ReferenceEmitter{target: target}
}

// Name implements Emitter.
func (e *ReferenceEmitter) Name() string { return NameReference }

// Requires implements Dependent.
func (e *ReferenceEmitter) Requires() []string { return []string{NameCodec} }

// Accepts implements Emitter. Every collection gets references.
func (e *ReferenceEmitter) Accepts(*schema.Collection) bool { return true }

type referenceData struct {
	Ident       string
	Path        string
	Name        string
	Root        bool
	ParentIdent string
	Accessor    string
	Chain       string
	Record      string
	Encode      string
}

var referenceTemplate = template.Must(template.New("reference").Parse(`
// {{.Ident}}CollectionRef is a typed reference to the "{{.Path}}" collection.
type {{.Ident}}CollectionRef struct {
	*firestore.CollectionRef
}

// {{.Ident}}DocumentRef is a typed reference to a document in "{{.Path}}".
type {{.Ident}}DocumentRef struct {
	*firestore.DocumentRef
}
{{if .Root}}
// {{.Ident}}Collection returns the "{{.Path}}" collection.
func {{.Ident}}Collection(client *firestore.Client) {{.Ident}}CollectionRef {
	return {{.Ident}}CollectionRef{client.Collection({{printf "%q" .Path}})}
}
{{else}}
// {{.Accessor}} returns the "{{.Name}}" subcollection of the document.
func (d {{.ParentIdent}}DocumentRef) {{.Accessor}}() {{.Ident}}CollectionRef {
	return {{.Ident}}CollectionRef{d.DocumentRef{{.Chain}}}
}
{{end}}
// Doc returns a reference to the document with the given id.
func (c {{.Ident}}CollectionRef) Doc(id string) {{.Ident}}DocumentRef {
	return {{.Ident}}DocumentRef{c.CollectionRef.Doc(id)}
}

// Add stores v under a new document id.
func (c {{.Ident}}CollectionRef) Add(ctx context.Context, v *{{.Record}}) ({{.Ident}}DocumentRef, error) {
	ref := {{.Ident}}DocumentRef{c.CollectionRef.NewDoc()}
	if _, err := ref.Set(ctx, v); err != nil {
		return {{.Ident}}DocumentRef{}, err
	}

	return ref, nil
}

// Set encodes v and overwrites the document.
func (d {{.Ident}}DocumentRef) Set(ctx context.Context, v *{{.Record}}) (*firestore.WriteResult, error) {
	{{.Encode}}

	return d.DocumentRef.Set(ctx, data)
}
`))

// Render implements Emitter.
func (e *ReferenceEmitter) Render(c *schema.Collection) (Fragment, error) {
	data := referenceData{
		Ident:  Ident(c),
		Path:   c.Path.String(),
		Name:   c.Name,
		Root:   c.IsRoot(),
		Record: recordName(c.Record, e.target),
		Encode: encodeStmt(c.Codec.Encode),
	}

	if !data.Root {
		chain, err := relativeChain(c)
		if err != nil {
			return Fragment{}, err
		}

		data.ParentIdent = Ident(c.Parent())
		data.Accessor = Accessor(c)
		data.Chain = chain
	}

	var buf bytes.Buffer
	if err := referenceTemplate.Execute(&buf, data); err != nil {
		return Fragment{}, fmt.Errorf("executing template: %w", err)
	}

	im := imports{}
	im.add("context", FirestoreImport)
	im.addRecord(c.Record, e.target)

	return Fragment{Imports: im.list(), Code: buf.String()}, nil
}

// encodeStmt renders the statements assigning the encoded map of v to data.
func encodeStmt(call resolve.Call) string {
	switch {
	case call.Kind == resolve.CallDerived:
		return fmt.Sprintf("data := %s(v)", call.Name)
	case call.ReturnsError:
		return fmt.Sprintf("data, err := v.%s()\n\tif err != nil {\n\t\treturn nil, err\n\t}", call.Name)
	default:
		return fmt.Sprintf("data := v.%s()", call.Name)
	}
}

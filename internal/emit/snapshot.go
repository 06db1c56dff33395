package emit

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"collection-generator/internal/analyze"
	"collection-generator/internal/common"
	"collection-generator/internal/resolve"
	"collection-generator/internal/schema"
)

// SnapshotEmitter renders typed document snapshots. Decoding a snapshot
// applies the collection's field injections.
type SnapshotEmitter struct {
	target Target
}

// NewSnapshotEmitter creates a SnapshotEmitter.
func NewSnapshotEmitter(target Target) *SnapshotEmitter {
	return &SnapshotEmitter{target: target}
}

// Name implements Emitter.
func (e *SnapshotEmitter) Name() string { return NameSnapshot }

// Requires implements Dependent.
func (e *SnapshotEmitter) Requires() []string { return []string{NameReference, NameCodec} }

// Accepts implements Emitter.
func (e *SnapshotEmitter) Accepts(*schema.Collection) bool { return true }

type snapshotData struct {
	Ident      string
	Path       string
	Record     string
	Decode     string
	Injections []string
}

var snapshotTemplate = template.Must(template.New("snapshot").Parse(`
// {{.Ident}}Snapshot is a decoded document of "{{.Path}}".
type {{.Ident}}Snapshot struct {
	*firestore.DocumentSnapshot
	Value *{{.Record}}
}

// New{{.Ident}}Snapshot decodes snap and fills in its document metadata.
func New{{.Ident}}Snapshot(snap *firestore.DocumentSnapshot) (*{{.Ident}}Snapshot, error) {
	{{.Decode}}
{{range .Injections}}
	{{.}}
{{end}}
	return &{{.Ident}}Snapshot{DocumentSnapshot: snap, Value: v}, nil
}

// Get reads and decodes the document.
func (d {{.Ident}}DocumentRef) Get(ctx context.Context) (*{{.Ident}}Snapshot, error) {
	snap, err := d.DocumentRef.Get(ctx)
	if err != nil {
		return nil, err
	}

	return New{{.Ident}}Snapshot(snap)
}
`))

// Render implements Emitter.
func (e *SnapshotEmitter) Render(c *schema.Collection) (Fragment, error) {
	im := imports{}
	im.add("context", FirestoreImport)
	im.addRecord(c.Record, e.target)

	data := snapshotData{
		Ident:  Ident(c),
		Path:   c.Path.String(),
		Record: recordName(c.Record, e.target),
		Decode: e.decodeStmt(c),
	}

	for _, fi := range c.Injections {
		data.Injections = append(data.Injections, e.injectStmt(fi, im))
	}

	var buf bytes.Buffer
	if err := snapshotTemplate.Execute(&buf, data); err != nil {
		return Fragment{}, fmt.Errorf("executing template: %w", err)
	}

	return Fragment{Imports: im.list(), Code: buf.String()}, nil
}

// decodeStmt renders the statements leaving the decoded *T in v.
func (e *SnapshotEmitter) decodeStmt(c *schema.Collection) string {
	call := c.Codec.Decode

	fn := call.Name
	if call.Kind == resolve.CallDeclared {
		fn = common.QualifiedName(c.Record.ID.PkgPath, call.Name, e.target.PackagePath)
	}

	name := "v"
	if !call.ReturnsPointer {
		name = "val"
	}

	var lines []string

	if call.ReturnsError {
		lines = append(lines,
			fmt.Sprintf("%s, err := %s(snap.Data())", name, fn),
			"if err != nil {",
			"\treturn nil, err",
			"}")
	} else {
		lines = append(lines, fmt.Sprintf("%s := %s(snap.Data())", name, fn))
	}

	if !call.ReturnsPointer {
		lines = append(lines, "v := &val")
	}

	return strings.Join(lines, "\n\t")
}

// injectStmt renders the statements storing one piece of document metadata
// into the decoded value.
func (e *SnapshotEmitter) injectStmt(fi resolve.FieldInjection, im imports) string {
	var guard, value string

	switch fi.Kind {
	case resolve.InjectDocumentID:
		value = "snap.Ref.ID"
	case resolve.InjectDocumentPath:
		value = "documentPath(snap.Ref)"
	case resolve.InjectParentDocumentID:
		guard = "if p := snap.Ref.Parent.Parent; p != nil {"
		value = "p.ID"
	}

	value = e.convert(fi.Type.Elem(), value, im)

	var body []string

	if fi.Nullable {
		body = append(body, "x := "+value, assignStmt(fi, "&x"))
	} else {
		body = append(body, assignStmt(fi, value))
	}

	switch {
	case guard != "":
		return guard + "\n\t\t" + strings.Join(body, "\n\t\t") + "\n\t}"
	case len(body) > 1:
		return "{\n\t\t" + strings.Join(body, "\n\t\t") + "\n\t}"
	default:
		return body[0]
	}
}

// convert wraps a string expression in a conversion to t unless t is the
// predeclared string type.
func (e *SnapshotEmitter) convert(t *analyze.TypeInfo, expr string, im imports) string {
	if t.Kind == analyze.TypeKindBasic {
		return expr
	}

	im.addType(t, e.target)

	return t.TypeString(e.target.PackagePath) + "(" + expr + ")"
}

func assignStmt(fi resolve.FieldInjection, value string) string {
	if fi.Property {
		return fmt.Sprintf("v.Set%s(%s)", fi.Target, value)
	}

	return fmt.Sprintf("v.%s = %s", fi.Target, value)
}

const snapshotSupport = `
// documentPath returns the path of ref relative to the database root, e.g.
// "movies/m1/comments/c1".
func documentPath(ref *firestore.DocumentRef) string {
	if _, rel, ok := strings.Cut(ref.Path, "/documents/"); ok {
		return rel
	}

	return ref.Path
}
`

// Support implements Supporter. The path helper is only needed when some
// rendered collection injects document paths.
func (e *SnapshotEmitter) Support(rendered []*schema.Collection) (Fragment, bool) {
	for _, c := range rendered {
		if _, ok := c.Injection(resolve.InjectDocumentPath); ok {
			return Fragment{
				Imports: []string{"strings", FirestoreImport},
				Code:    snapshotSupport,
			}, true
		}
	}

	return Fragment{}, false
}

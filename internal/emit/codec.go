package emit

import (
	"bytes"
	"fmt"
	"text/template"

	"collection-generator/internal/analyze"
	"collection-generator/internal/resolve"
	"collection-generator/internal/schema"
)

// CodecEmitter renders the Decode<T>/Encode<T> functions referenced by
// collections whose record type relies on derived serialization. Members
// populated by injection are neither read from nor written to document data.
type CodecEmitter struct {
	target Target
}

// NewCodecEmitter creates a CodecEmitter.
func NewCodecEmitter(target Target) *CodecEmitter {
	return &CodecEmitter{target: target}
}

// Name implements Emitter.
func (e *CodecEmitter) Name() string { return NameCodec }

// Accepts implements Emitter. A record type declared by several
// collections is rendered for the first of them only.
func (e *CodecEmitter) Accepts(c *schema.Collection) bool {
	if !c.Codec.IsDerived() {
		return false
	}

	for _, other := range c.Graph().Collections()[:c.Index()] {
		if other.Record == c.Record {
			return false
		}
	}

	return true
}

type codecMember struct {
	Name     string
	Key      string
	Type     string
	Property bool
	Settable bool
}

type codecData struct {
	Record  string
	Decoder string
	Encoder string
	Members []codecMember
}

var codecTemplate = template.Must(template.New("codec").Parse(`
{{- if .Decoder}}
// {{.Decoder}} builds a {{.Record}} from document data.
func {{.Decoder}}(data map[string]any) (*{{.Record}}, error) {
	v := new({{.Record}})
{{range .Members}}{{if .Settable}}{{if .Property}}
	{
		var x {{.Type}}
		if err := decodeField(data, {{printf "%q" .Key}}, &x); err != nil {
			return nil, err
		}

		v.Set{{.Name}}(x)
	}
{{else}}
	if err := decodeField(data, {{printf "%q" .Key}}, &v.{{.Name}}); err != nil {
		return nil, err
	}
{{end}}{{end}}{{end}}
	return v, nil
}
{{end}}
{{- if .Encoder}}
// {{.Encoder}} converts a {{.Record}} to document data.
func {{.Encoder}}(v *{{.Record}}) map[string]any {
	return map[string]any{
{{- range .Members}}
		{{printf "%q" .Key}}: v.{{.Name}}{{if .Property}}(){{end}},
{{- end}}
	}
}
{{end}}`))

const codecSupport = `
// decodeField decodes data[key] into dst. Absent and null values leave dst
// untouched.
func decodeField(data map[string]any, key string, dst any) error {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}

	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}

	return nil
}
`

// Render implements Emitter.
func (e *CodecEmitter) Render(c *schema.Collection) (Fragment, error) {
	im := imports{}
	im.addRecord(c.Record, e.target)

	data := codecData{Record: recordName(c.Record, e.target)}

	if c.Codec.Decode.Kind == resolve.CallDerived {
		data.Decoder = c.Codec.Decode.Name
	}

	if c.Codec.Encode.Kind == resolve.CallDerived {
		data.Encoder = c.Codec.Encode.Name
	}

	for _, m := range c.Record.Members {
		if resolve.Injected(c.Injections, m.Name) {
			continue
		}

		data.Members = append(data.Members, codecMember{
			Name:     m.Name,
			Key:      FieldKey(m.Name),
			Type:     m.Type.TypeString(e.target.PackagePath),
			Property: m.Kind == analyze.MemberProperty,
			Settable: m.Settable,
		})

		if data.Decoder != "" && m.Kind == analyze.MemberProperty && m.Settable {
			im.addType(m.Type, e.target)
		}
	}

	var buf bytes.Buffer
	if err := codecTemplate.Execute(&buf, data); err != nil {
		return Fragment{}, fmt.Errorf("executing template: %w", err)
	}

	return Fragment{Imports: im.list(), Code: buf.String()}, nil
}

// Support implements Supporter.
func (e *CodecEmitter) Support([]*schema.Collection) (Fragment, bool) {
	return Fragment{
		Imports: []string{"encoding/json", "fmt"},
		Code:    codecSupport,
	}, true
}

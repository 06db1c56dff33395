package analyze

import (
	"go/ast"
	"go/token"
	"reflect"
	"strings"
)

// DirectivePrefix starts every comment directive understood by the loader.
const DirectivePrefix = "//docstore:"

// TagKey is the struct tag key carrying field directives.
const TagKey = "docstore"

const (
	verbCollection = "collection"
	verbDerive     = "derive"
)

// injectionVerbs are the directive names that request field injection.
var injectionVerbs = map[string]struct{}{
	"id":       {},
	"path":     {},
	"parentId": {},
}

type directive struct {
	verb string
	args map[string]string
	pos  token.Pos
}

type directiveList []directive

func (l directiveList) has(verb string) bool {
	for _, d := range l {
		if d.verb == verb {
			return true
		}
	}

	return false
}

// names returns the verbs present in allowed, in order.
func (l directiveList) names(allowed map[string]struct{}) []string {
	var out []string

	for _, d := range l {
		if _, ok := allowed[d.verb]; ok {
			out = append(out, d.verb)
		}
	}

	return out
}

type directiveIndex struct {
	types   map[string]directiveList // by type name
	methods map[string]directiveList // by "Type.Method"
	order   []string                 // type names with directives, source order
}

// collectDirectives scans type and method doc comments for directives.
func collectDirectives(files []*ast.File) directiveIndex {
	idx := directiveIndex{
		types:   make(map[string]directiveList),
		methods: make(map[string]directiveList),
	}

	typeDecls(files, func(spec *ast.TypeSpec, doc *ast.CommentGroup) {
		list := parseDirectives(doc)
		if len(list) == 0 {
			return
		}

		idx.types[spec.Name.Name] = list
		idx.order = append(idx.order, spec.Name.Name)
	})

	for _, f := range files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}

			list := parseDirectives(fd.Doc)
			if len(list) == 0 {
				continue
			}

			recv := receiverName(fd.Recv.List[0].Type)
			if recv == "" {
				continue
			}

			idx.methods[recv+"."+fd.Name.Name] = list
		}
	}

	return idx
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return receiverName(e.X)
	default:
		return ""
	}
}

// parseDirectives reads lines of the form
//
//	//docstore:<verb> key=value key=value
func parseDirectives(doc *ast.CommentGroup) directiveList {
	if doc == nil {
		return nil
	}

	var list directiveList

	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, DirectivePrefix) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(c.Text, DirectivePrefix))
		if len(fields) == 0 {
			continue
		}

		d := directive{verb: fields[0], args: make(map[string]string), pos: c.Slash}

		for _, kv := range fields[1:] {
			key, value, _ := strings.Cut(kv, "=")
			d.args[key] = strings.Trim(value, `"`)
		}

		list = append(list, d)
	}

	return list
}

// tagDirectives returns the injection directives listed in a field's
// docstore tag, e.g. `docstore:"id"` or `docstore:"id,path"`.
func tagDirectives(tag reflect.StructTag) []string {
	value, ok := tag.Lookup(TagKey)
	if !ok {
		return nil
	}

	var out []string

	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if _, ok := injectionVerbs[part]; ok {
			out = append(out, part)
		}
	}

	return out
}

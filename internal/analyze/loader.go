package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	dir       string
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	loaded    map[string]struct{}      // Package paths requested in this load
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDir sets the directory package patterns are resolved against.
func WithDir(dir string) Option {
	return func(a *Analyzer) {
		a.dir = dir
	}
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		loaded:    make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/movies").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.loaded[pkg.PkgPath] = struct{}{}
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// processPackage extracts types, records and declarations from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	dirs := collectDirectives(pkg.Syntax)
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		typeID := TypeID{PkgPath: pkg.PkgPath, Name: name}

		typeInfo := a.analyzeType(typeName.Type())
		typeInfo.ID = typeID

		a.graph.Types[typeID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeID)

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
			continue
		}

		record := a.buildRecord(pkg, named, dirs)
		a.graph.Records[typeID] = record
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	decls, err := declarationsFromDirectives(pkg, dirs, a.graph)
	if err != nil {
		return err
	}

	a.graph.Declarations = append(a.graph.Declarations, decls...)

	return nil
}

// buildRecord assembles the reflective descriptor of a named struct.
func (a *Analyzer) buildRecord(pkg *packages.Package, named *types.Named, dirs directiveIndex) *RecordType {
	obj := named.Obj()
	pos := pkg.Fset.Position(obj.Pos())

	record := &RecordType{
		ID:        TypeID{PkgPath: pkg.PkgPath, Name: obj.Name()},
		Derivable: dirs.types[obj.Name()].has(verbDerive),
		Pos:       fmt.Sprintf("%s:%d", filepath.Base(pos.Filename), pos.Line),
	}

	methods := make(map[string]*types.Func, named.NumMethods())

	for i := range named.NumMethods() {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}

		methods[m.Name()] = m
		record.Methods = append(record.Methods, a.callable(m))
	}

	record.Members = append(record.Members, a.properties(named, methods, dirs)...)

	st := named.Underlying().(*types.Struct)
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() || field.Embedded() {
			continue
		}

		record.Members = append(record.Members, Member{
			Name:       field.Name(),
			Type:       a.analyzeType(field.Type()),
			Kind:       MemberField,
			Settable:   true,
			Directives: tagDirectives(reflect.StructTag(st.Tag(i))),
		})
	}

	record.Constructors = a.constructors(pkg, named)

	return record
}

// properties returns getter-backed members in method declaration order.
// A getter X() T is a property when a SetX(T) setter exists or when the
// getter carries directives.
func (a *Analyzer) properties(named *types.Named, methods map[string]*types.Func, dirs directiveIndex) []Member {
	var props []Member

	for i := range named.NumMethods() {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}

		sig := m.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}

		resultType := sig.Results().At(0).Type()
		settable := false

		if setter, ok := methods["Set"+m.Name()]; ok {
			ssig := setter.Type().(*types.Signature)
			settable = ssig.Params().Len() == 1 &&
				ssig.Results().Len() == 0 &&
				types.Identical(ssig.Params().At(0).Type(), resultType)
		}

		directives := dirs.methods[named.Obj().Name()+"."+m.Name()].names(injectionVerbs)
		if !settable && len(directives) == 0 {
			continue
		}

		props = append(props, Member{
			Name:       m.Name(),
			Type:       a.analyzeType(resultType),
			Kind:       MemberProperty,
			Settable:   settable,
			Directives: directives,
		})
	}

	return props
}

// constructors returns package-level functions whose first result is the
// named type or a pointer to it.
func (a *Analyzer) constructors(pkg *packages.Package, named *types.Named) []Callable {
	var out []Callable

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}

		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() == 0 {
			continue
		}

		first := sig.Results().At(0).Type()
		if ptr, ok := first.(*types.Pointer); ok {
			first = ptr.Elem()
		}

		if types.Identical(first, named) {
			out = append(out, a.callable(fn))
		}
	}

	return out
}

func (a *Analyzer) callable(fn *types.Func) Callable {
	sig := fn.Type().(*types.Signature)
	c := Callable{Name: fn.Name()}

	for i := range sig.Params().Len() {
		p := sig.Params().At(i)
		t := p.Type()
		variadic := sig.Variadic() && i == sig.Params().Len()-1

		c.Params = append(c.Params, Param{
			Name:     p.Name(),
			Type:     a.analyzeType(t),
			Variadic: variadic,
		})
	}

	for i := range sig.Results().Len() {
		c.Results = append(c.Results, a.analyzeType(sig.Results().At(i).Type()))
	}

	return c
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Alias:
		resolved := a.analyzeType(types.Unalias(tt))
		*info = *resolved

	case *types.Basic:
		info.Kind = TypeKindBasic
		info.ID = TypeID{Name: tt.Name()}
		info.Scalar = scalarOf(tt)

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.Len = tt.Len()
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	default:
		// Channels, functions, etc. are marked as unknown (unsupported)
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Universe types such as error.
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindInterface

		return
	}

	info.ID = TypeID{
		PkgPath: obj.Pkg().Path(),
		Name:    obj.Name(),
	}

	if info.ID == jsonNumber {
		info.Kind = TypeKindExternal
		info.Scalar = ScalarNumber

		return
	}

	underlying := named.Underlying()

	switch ut := underlying.(type) {
	case *types.Struct:
		if a.isExternalPackage(info.ID.PkgPath) {
			info.Kind = TypeKindExternal
			return
		}

		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Basic:
		// Named basic type (e.g., type Genre string)
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		if a.isExternalPackage(info.ID.PkgPath) {
			info.Kind = TypeKindExternal
		} else {
			// Named type wrapping something else in our packages
			info.Kind = TypeKindAlias
			info.Underlying = a.analyzeType(ut)
		}
	}
}

var jsonNumber = TypeID{PkgPath: "encoding/json", Name: "Number"}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.loaded[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}
}

func scalarOf(b *types.Basic) ScalarKind {
	info := b.Info()

	switch {
	case info&types.IsString != 0:
		return ScalarText
	case info&types.IsBoolean != 0:
		return ScalarBool
	case info&types.IsInteger != 0:
		return ScalarInt
	case info&types.IsFloat != 0:
		return ScalarFloat
	default:
		return ScalarNone
	}
}

// declarationsFromDirectives turns //docstore:collection directives into
// declarations, in source order.
func declarationsFromDirectives(pkg *packages.Package, dirs directiveIndex, graph *TypeGraph) ([]Declaration, error) {
	var decls []Declaration

	for _, typeName := range dirs.order {
		for _, d := range dirs.types[typeName] {
			if d.verb != verbCollection {
				continue
			}

			record := graph.GetRecord(TypeID{PkgPath: pkg.PkgPath, Name: typeName})
			if record == nil {
				return nil, fmt.Errorf("%s: %s directive on %s, which is not an exported struct",
					positionString(pkg.Fset, d.pos), verbCollection, typeName)
			}

			decls = append(decls, Declaration{
				Path:   d.args["path"],
				Name:   d.args["name"],
				Record: record,
				Site:   positionString(pkg.Fset, d.pos),
			})
		}
	}

	return decls, nil
}

func positionString(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	return fmt.Sprintf("%s:%d", filepath.Base(p.Filename), p.Line)
}

// typeDecls yields every type spec with its effective doc comment.
func typeDecls(files []*ast.File, fn func(spec *ast.TypeSpec, doc *ast.CommentGroup)) {
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				fn(ts, doc)
			}
		}
	}
}

// Package analyzetest builds hand-written type graphs for tests.
package analyzetest

import "collection-generator/internal/analyze"

// Basic returns a basic type with the given name and scalar kind.
func Basic(name string, scalar analyze.ScalarKind) *analyze.TypeInfo {
	return &analyze.TypeInfo{ID: analyze.TypeID{Name: name}, Kind: analyze.TypeKindBasic, Scalar: scalar}
}

// Common basic types.
var (
	String  = Basic("string", analyze.ScalarText)
	Bool    = Basic("bool", analyze.ScalarBool)
	Int     = Basic("int", analyze.ScalarInt)
	Int64   = Basic("int64", analyze.ScalarInt)
	Float64 = Basic("float64", analyze.ScalarFloat)
	Any     = &analyze.TypeInfo{Kind: analyze.TypeKindInterface}
	Error   = &analyze.TypeInfo{ID: analyze.TypeID{Name: "error"}, Kind: analyze.TypeKindInterface}
	Number  = &analyze.TypeInfo{
		ID:     analyze.TypeID{PkgPath: "encoding/json", Name: "Number"},
		Kind:   analyze.TypeKindExternal,
		Scalar: analyze.ScalarNumber,
	}
	Time = &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "time", Name: "Time"}, Kind: analyze.TypeKindExternal}
	// DocMap is map[string]any.
	DocMap = Map(String, Any)
)

// Ptr returns *elem.
func Ptr(elem *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: elem}
}

// Slice returns []elem.
func Slice(elem *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: elem}
}

// Map returns map[key]elem.
func Map(key, elem *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindMap, KeyType: key, ElemType: elem}
}

// Alias returns a named type over underlying.
func Alias(pkgPath, name string, underlying *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{
		ID:         analyze.TypeID{PkgPath: pkgPath, Name: name},
		Kind:       analyze.TypeKindAlias,
		Underlying: underlying,
	}
}

// Named returns a named struct type.
func Named(pkgPath, name string) *analyze.TypeInfo {
	return &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkgPath, Name: name}, Kind: analyze.TypeKindStruct}
}

// Field returns a settable field member.
func Field(name string, t *analyze.TypeInfo, directives ...string) analyze.Member {
	return analyze.Member{Name: name, Type: t, Kind: analyze.MemberField, Settable: true, Directives: directives}
}

// Property returns a property member.
func Property(name string, t *analyze.TypeInfo, settable bool, directives ...string) analyze.Member {
	return analyze.Member{Name: name, Type: t, Kind: analyze.MemberProperty, Settable: settable, Directives: directives}
}

// Record builds record types fluently.
type Record struct {
	r *analyze.RecordType
}

// NewRecord starts a record named pkgPath.name.
func NewRecord(pkgPath, name string) *Record {
	return &Record{r: &analyze.RecordType{
		ID:  analyze.TypeID{PkgPath: pkgPath, Name: name},
		Pos: name + ".go:1",
	}}
}

// Type returns the record as a named struct type.
func (b *Record) Type() *analyze.TypeInfo {
	return &analyze.TypeInfo{ID: b.r.ID, Kind: analyze.TypeKindStruct}
}

// Members appends members.
func (b *Record) Members(ms ...analyze.Member) *Record {
	b.r.Members = append(b.r.Members, ms...)
	return b
}

// Derivable sets the structural serializer signal.
func (b *Record) Derivable() *Record {
	b.r.Derivable = true
	return b
}

// Decoder adds the conventional <Name>FromMap(map[string]any) (*T, error).
func (b *Record) Decoder() *Record {
	return b.Constructor(b.r.ID.Name+"FromMap", []*analyze.TypeInfo{DocMap}, Ptr(b.Type()), Error)
}

// Encoder adds the conventional ToMap() map[string]any method.
func (b *Record) Encoder() *Record {
	return b.Method("ToMap", nil, DocMap)
}

// Constructor adds a package-level constructor.
func (b *Record) Constructor(name string, params []*analyze.TypeInfo, results ...*analyze.TypeInfo) *Record {
	b.r.Constructors = append(b.r.Constructors, callable(name, params, results))
	return b
}

// Method adds a method.
func (b *Record) Method(name string, params []*analyze.TypeInfo, results ...*analyze.TypeInfo) *Record {
	b.r.Methods = append(b.r.Methods, callable(name, params, results))
	return b
}

// Build returns the record.
func (b *Record) Build() *analyze.RecordType {
	return b.r
}

func callable(name string, params, results []*analyze.TypeInfo) analyze.Callable {
	c := analyze.Callable{Name: name, Results: results}
	for i, p := range params {
		c.Params = append(c.Params, analyze.Param{Name: string(rune('a' + i)), Type: p})
	}

	return c
}

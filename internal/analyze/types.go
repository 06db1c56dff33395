package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"collection-generator/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "collection-generator/examples/movies"
	Name    string // e.g., "Movie"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns "alias.Name", e.g. "movies.Movie".
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindAlias              // named type wrapping another (type Genre string)
	TypeKindExternal           // external/opaque type (e.g., time.Time)
	TypeKindInterface          // interface type, including any
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	case TypeKindInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// ScalarKind classifies basic values the document store understands.
type ScalarKind int

const (
	ScalarNone ScalarKind = iota
	ScalarText
	ScalarBool
	ScalarInt
	ScalarFloat
	// ScalarNumber is a numeric value of unspecified representation,
	// such as encoding/json.Number.
	ScalarNumber
)

// String returns a human-readable representation of the ScalarKind.
func (k ScalarKind) String() string {
	switch k {
	case ScalarNone:
		return "none"
	case ScalarText:
		return "text"
	case ScalarBool:
		return "bool"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarNumber:
		return "number"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Scalar     ScalarKind  // For basic types and known external scalars
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	KeyType    *TypeInfo   // For maps, the key type
	Len        int64       // For arrays, the length
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type (nil for hand-built graphs)
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Resolve follows alias chains to the first non-alias type.
func (t *TypeInfo) Resolve() *TypeInfo {
	cur := t
	for cur != nil && cur.Kind == TypeKindAlias && cur.Underlying != nil {
		cur = cur.Underlying
	}

	return cur
}

// Elem strips one pointer level. It returns the type itself for non-pointers.
func (t *TypeInfo) Elem() *TypeInfo {
	if t != nil && t.Kind == TypeKindPointer && t.ElemType != nil {
		return t.ElemType
	}

	return t
}

// ScalarKind returns the scalar classification after resolving aliases.
// Pointers are not dereferenced.
func (t *TypeInfo) ScalarKind() ScalarKind {
	r := t.Resolve()
	if r == nil {
		return ScalarNone
	}

	return r.Scalar
}

// IsNullable reports whether a value of this type may be absent.
func (t *TypeInfo) IsNullable() bool {
	r := t.Resolve()
	if r == nil {
		return false
	}

	switch r.Kind {
	case TypeKindPointer, TypeKindInterface, TypeKindMap, TypeKindSlice:
		return true
	default:
		return false
	}
}

// IsText reports whether the type is textual, optionally behind one pointer.
func (t *TypeInfo) IsText() bool {
	return t.Elem().ScalarKind() == ScalarText
}

// IsStringMap reports whether the type is a map keyed by string with
// dynamically-typed values, the generic structured-data representation.
func (t *TypeInfo) IsStringMap() bool {
	r := t.Resolve()
	if r == nil || r.Kind != TypeKindMap {
		return false
	}

	if r.KeyType == nil || r.KeyType.ScalarKind() != ScalarText {
		return false
	}

	return r.ElemType != nil && r.ElemType.Kind == TypeKindInterface
}

// Is reports whether t names the record type id, optionally behind one pointer.
func (t *TypeInfo) Is(id TypeID) bool {
	e := t.Elem()
	return e != nil && e.ID == id
}

// TypeString renders the type as Go source, qualifying named types from
// packages other than contextPkgPath.
func (t *TypeInfo) TypeString(contextPkgPath string) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.ID.Name
	case TypeKindPointer:
		return "*" + t.ElemType.TypeString(contextPkgPath)
	case TypeKindSlice:
		return "[]" + t.ElemType.TypeString(contextPkgPath)
	case TypeKindArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.ElemType.TypeString(contextPkgPath))
	case TypeKindMap:
		if t.IsNamed() {
			return common.QualifiedName(t.ID.PkgPath, t.ID.Name, contextPkgPath)
		}

		return "map[" + t.KeyType.TypeString(contextPkgPath) + "]" + t.ElemType.TypeString(contextPkgPath)
	case TypeKindInterface:
		if t.IsNamed() {
			return common.QualifiedName(t.ID.PkgPath, t.ID.Name, contextPkgPath)
		}

		return "any"
	default:
		if t.IsNamed() {
			return common.QualifiedName(t.ID.PkgPath, t.ID.Name, contextPkgPath)
		}

		if t.GoType != nil {
			return t.GoType.String()
		}

		return t.Kind.String()
	}
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Records maps TypeID to the record descriptor of every exported struct.
	Records map[TypeID]*RecordType
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	// Declarations lists collection declarations found in source, in
	// package and source order.
	Declarations []Declaration
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Records:  make(map[TypeID]*RecordType),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// GetRecord returns the RecordType for a given TypeID, or nil if not found.
func (g *TypeGraph) GetRecord(id TypeID) *RecordType {
	return g.Records[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}

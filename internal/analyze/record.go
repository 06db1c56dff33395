package analyze

import "collection-generator/internal/common"

// MemberKind distinguishes accessor-backed properties from plain fields.
type MemberKind int

const (
	// MemberField is an exported struct field.
	MemberField MemberKind = iota
	// MemberProperty is a getter method, optionally paired with a SetX setter.
	MemberProperty
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	default:
		return common.UnknownStr
	}
}

// Member is a data member of a record type.
type Member struct {
	Name       string
	Type       *TypeInfo
	Kind       MemberKind
	Settable   bool
	Directives []string // raw directive names in declaration order, e.g. "id"
}

// Nullable reports whether the member's declared type accepts an absent value.
func (m *Member) Nullable() bool {
	return m.Type.IsNullable()
}

// Param is a single callable parameter.
type Param struct {
	Name     string
	Type     *TypeInfo
	Variadic bool
}

// Callable describes a constructor-like function or a method.
type Callable struct {
	Name    string
	Params  []Param
	Results []*TypeInfo
}

// ReturnsError reports whether the last result is the error interface.
func (c *Callable) ReturnsError() bool {
	last, ok := common.Last(c.Results)
	return ok && last != nil && last.ID.Name == "error" && last.ID.PkgPath == ""
}

// ValueResults returns the results without a trailing error.
func (c *Callable) ValueResults() []*TypeInfo {
	if c.ReturnsError() {
		return c.Results[:len(c.Results)-1]
	}

	return c.Results
}

// RecordType is the reflective descriptor of a type stored as documents.
type RecordType struct {
	ID TypeID
	// Members lists properties first, then fields, each in declaration order.
	Members []Member
	// Constructors are package-level functions returning the type.
	Constructors []Callable
	// Methods are the methods declared on the type or its pointer.
	Methods []Callable
	// Derivable signals that a structural serializer can be derived.
	Derivable bool
	// Pos is the declaration site, "file:line".
	Pos string
}

// Name returns the unqualified type name.
func (r *RecordType) Name() string {
	return r.ID.Name
}

// Method returns the method with the given name.
func (r *RecordType) Method(name string) (*Callable, bool) {
	return findCallable(r.Methods, name)
}

// Constructor returns the constructor with the given name.
func (r *RecordType) Constructor(name string) (*Callable, bool) {
	return findCallable(r.Constructors, name)
}

// Member returns the member with the given name.
func (r *RecordType) Member(name string) (*Member, bool) {
	for i := range r.Members {
		if r.Members[i].Name == name {
			return &r.Members[i], true
		}
	}

	return nil, false
}

func findCallable(cs []Callable, name string) (*Callable, bool) {
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i], true
		}
	}

	return nil, false
}

// Declaration is one raw collection declaration, the compiler's input unit.
type Declaration struct {
	// Path is the collection path pattern, not yet validated.
	Path string
	// Name is the explicit collection identifier, empty when defaulted.
	Name string
	// Record is the type whose instances are stored as documents.
	Record *RecordType
	// Site locates the declaration for diagnostics.
	Site string
}

// Subject returns the identity used in diagnostics.
func (d *Declaration) Subject() string {
	if d.Path != "" {
		return d.Path
	}

	if d.Record != nil {
		return d.Record.ID.Short()
	}

	return d.Site
}

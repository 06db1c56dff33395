package resolve

import "collection-generator/internal/analyze"

// QueryableField is a member eligible for query predicates.
type QueryableField struct {
	Name string
	Type *analyze.TypeInfo
	// Scalar is the value kind, or the element kind for sequences.
	Scalar analyze.ScalarKind
	// Repeated is set for ordered sequences of primitives.
	Repeated bool
	// Property is set when the member is read through a getter.
	Property bool
}

// SelectQueryable returns, in member order, the members of r that can appear
// in query predicates. Members claimed by an injection are excluded, as are
// members of unsupported types such as nested structs and maps.
func SelectQueryable(r *analyze.RecordType, injections []FieldInjection) []QueryableField {
	var out []QueryableField

	for i := range r.Members {
		m := &r.Members[i]
		if Injected(injections, m.Name) {
			continue
		}

		scalar, repeated, ok := queryableKind(m.Type)
		if !ok {
			continue
		}

		out = append(out, QueryableField{
			Name:     m.Name,
			Type:     m.Type,
			Scalar:   scalar,
			Repeated: repeated,
			Property: m.Kind == analyze.MemberProperty,
		})
	}

	return out
}

func queryableKind(t *analyze.TypeInfo) (analyze.ScalarKind, bool, bool) {
	if t == nil {
		return analyze.ScalarNone, false, false
	}

	if s := t.Elem().ScalarKind(); s != analyze.ScalarNone {
		return s, false, true
	}

	r := t.Resolve()
	if r.Kind == analyze.TypeKindSlice || r.Kind == analyze.TypeKindArray {
		if s := r.ElemType.Elem().ScalarKind(); s != analyze.ScalarNone {
			return s, true, true
		}
	}

	return analyze.ScalarNone, false, false
}

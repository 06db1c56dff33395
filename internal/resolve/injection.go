package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"collection-generator/internal/analyze"
	"collection-generator/internal/common"
	"collection-generator/internal/diagnostic"
)

// InjectionKind is the document metadata a member is populated from.
type InjectionKind int

const (
	InjectDocumentID InjectionKind = iota
	InjectDocumentPath
	InjectParentDocumentID
)

// String returns the kind name as used in diagnostics.
func (k InjectionKind) String() string {
	switch k {
	case InjectDocumentID:
		return "DocumentId"
	case InjectDocumentPath:
		return "DocumentPath"
	case InjectParentDocumentID:
		return "ParentDocumentId"
	default:
		return common.UnknownStr
	}
}

// Directive returns the directive name requesting this kind.
func (k InjectionKind) Directive() string {
	switch k {
	case InjectDocumentID:
		return "id"
	case InjectDocumentPath:
		return "path"
	case InjectParentDocumentID:
		return "parentId"
	default:
		return common.UnknownStr
	}
}

// ParseInjectionKind maps a directive name to its kind.
func ParseInjectionKind(directive string) (InjectionKind, bool) {
	switch directive {
	case "id":
		return InjectDocumentID, true
	case "path":
		return InjectDocumentPath, true
	case "parentId":
		return InjectParentDocumentID, true
	default:
		return 0, false
	}
}

// FieldInjection asks for a member to be populated from document metadata.
type FieldInjection struct {
	Kind InjectionKind
	// Target is the member name.
	Target string
	// Nullable is set when the member's type accepts an absent value.
	Nullable bool
	// Property is set when the target is an accessor-backed property,
	// assigned through its setter.
	Property bool
	// Type is the member's declared type.
	Type *analyze.TypeInfo
}

// ResolveInjections scans the members of r for injection directives.
//
// The result lists settable properties before plain fields, each group in
// declaration order. All member errors are collected.
func ResolveInjections(r *analyze.RecordType) ([]FieldInjection, error) {
	members := slices.Clone(r.Members)
	slices.SortStableFunc(members, func(a, b analyze.Member) int {
		return memberRank(a) - memberRank(b)
	})

	var (
		out  []FieldInjection
		errs []error
	)

	subject := r.ID.Short()

	for i := range members {
		m := &members[i]

		kinds := injectionKinds(m.Directives)
		if len(kinds) == 0 {
			continue
		}

		if len(kinds) > 1 {
			names := make([]string, len(kinds))
			for j, k := range kinds {
				names[j] = k.String()
			}

			errs = append(errs, diagnostic.Newf(diagnostic.CodeMultipleInjectionAnnotations, subject, m.Name,
				"keep a single injection directive per member",
				"member carries %d injection directives (%s)", len(kinds), strings.Join(names, ", ")))

			continue
		}

		kind := kinds[0]

		if !m.Settable {
			errs = append(errs, diagnostic.Newf(diagnostic.CodeNonSettableInjectionTarget, subject, m.Name,
				fmt.Sprintf("add a Set%s(%s) method or inject into a field", m.Name, m.Type.TypeString(r.ID.PkgPath)),
				"%s target is read-only", kind))

			continue
		}

		if !m.Type.IsText() {
			errs = append(errs, diagnostic.Newf(diagnostic.CodeInjectionTypeMismatch, subject, m.Name,
				"declare the member as string or *string",
				"%s target has type %s, want a string type", kind, m.Type.TypeString(r.ID.PkgPath)))

			continue
		}

		out = append(out, FieldInjection{
			Kind:     kind,
			Target:   m.Name,
			Nullable: m.Nullable(),
			Property: m.Kind == analyze.MemberProperty,
			Type:     m.Type,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return out, nil
}

func memberRank(m analyze.Member) int {
	if m.Kind == analyze.MemberProperty && m.Settable {
		return 0
	}

	return 1
}

func injectionKinds(directives []string) []InjectionKind {
	var kinds []InjectionKind

	for _, d := range directives {
		if k, ok := ParseInjectionKind(d); ok {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

// Injected reports whether member name is claimed by one of injections.
func Injected(injections []FieldInjection, name string) bool {
	return slices.ContainsFunc(injections, func(fi FieldInjection) bool {
		return fi.Target == name
	})
}

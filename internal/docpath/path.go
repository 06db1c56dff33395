package docpath

import (
	"regexp"
	"strings"

	"collection-generator/internal/common"
	"collection-generator/internal/diagnostic"
)

const (
	// Separator splits a path into segments.
	Separator = "/"
	// Wildcard is the document placeholder segment.
	Wildcard = "*"

	wildcardInfix = Separator + Wildcard + Separator
)

var allowedChars = regexp.MustCompile(`^[0-9a-zA-Z/*_-]*$`)

// SegmentKind classifies a path segment.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentWildcard
)

// String returns a human-readable segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentWildcard:
		return "wildcard"
	default:
		return common.UnknownStr
	}
}

// Segment is one "/"-delimited part of a path.
type Segment struct {
	Value string
	Kind  SegmentKind
}

// Path is a validated collection path. The zero value is not valid; obtain
// one through Validate.
type Path struct {
	raw      string
	segments []Segment
}

// Validate checks the syntax and structure of a collection path.
//
// Failures are reported as *diagnostic.Error with one of the codes
// CodeIllegalCharacter, CodePointsToDocument or CodeInvalidCollectionName.
// Segment parity is checked first, so a path naming a document is always
// reported as CodePointsToDocument whatever its characters.
func Validate(raw string) (Path, error) {
	parts := strings.Split(raw, Separator)
	if len(parts)%2 == 0 {
		return Path{}, diagnostic.Newf(diagnostic.CodePointsToDocument, raw, "",
			"append a collection name or drop the trailing document segment",
			"path has %d segments and points to a document, not a collection", len(parts))
	}

	if !allowedChars.MatchString(raw) {
		return Path{}, diagnostic.Newf(diagnostic.CodeIllegalCharacter, raw, "",
			"use only letters, digits, '_', '-', '/' and '*'",
			"path contains illegal character %q", firstIllegal(raw))
	}

	segments := make([]Segment, len(parts))

	for i, part := range parts {
		if part == "" {
			return Path{}, diagnostic.Newf(diagnostic.CodeInvalidCollectionName, raw, "",
				"remove the empty segment",
				"segment %d is empty", i)
		}

		if i%2 == 0 {
			if part == Wildcard {
				return Path{}, diagnostic.Newf(diagnostic.CodeInvalidCollectionName, raw, "",
					"collection names cannot be '*'; wildcards belong at document positions",
					"segment %d must be a collection name", i)
			}

			segments[i] = Segment{Value: part, Kind: SegmentLiteral}

			continue
		}

		kind := SegmentLiteral
		if part == Wildcard {
			kind = SegmentWildcard
		}

		segments[i] = Segment{Value: part, Kind: kind}
	}

	return Path{raw: raw, segments: segments}, nil
}

// MustValidate is like Validate but panics on error. Intended for tests and
// package-level constants.
func MustValidate(raw string) Path {
	p, err := Validate(raw)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the raw path.
func (p Path) String() string {
	return p.raw
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Depth is the number of collection levels, 1 for a root collection under
// the store's top level.
func (p Path) Depth() int {
	return (len(p.segments) + 1) / 2
}

// IsNested reports whether the path contains a wildcard segment.
func (p Path) IsNested() bool {
	for _, s := range p.segments {
		if s.Kind == SegmentWildcard {
			return true
		}
	}

	return false
}

// IsRoot reports whether the path has no wildcard segment.
func (p Path) IsRoot() bool {
	return !p.IsNested()
}

// CollectionID returns the last literal segment, the collection's own id.
func (p Path) CollectionID() string {
	last, _ := common.Last(p.segments)
	return last.Value
}

// ParentPath returns the path of the collection owning this one: everything
// before the last "/*/" occurrence. It fails with CodeDanglingWildcard when
// the path has no such occurrence.
func ParentPath(raw string) (string, error) {
	parent, _, err := SplitParent(raw)
	return parent, err
}

// SplitParent splits raw around its last "/*/" into the parent path and the
// remainder relative to a parent document, e.g. "a/*/b/*/c" gives "a/*/b"
// and "c".
func SplitParent(raw string) (parent, rest string, err error) {
	idx := strings.LastIndex(raw, wildcardInfix)
	if idx < 0 {
		return "", "", diagnostic.Newf(diagnostic.CodeDanglingWildcard, raw, "",
			"nested paths must contain '/*/' between parent and child collection",
			"path has no wildcard segment to split on")
	}

	return raw[:idx], raw[idx+len(wildcardInfix):], nil
}

// Parent returns the parent path of p. See ParentPath.
func (p Path) Parent() (string, error) {
	return ParentPath(p.raw)
}

func firstIllegal(raw string) string {
	for _, r := range raw {
		if !allowedChars.MatchString(string(r)) {
			return string(r)
		}
	}

	return ""
}

package emit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stoewer/go-strcase"

	"collection-generator/internal/analyze"
	"collection-generator/internal/common"
	"collection-generator/internal/docpath"
	"collection-generator/internal/schema"
)

// FirestoreImport is the client library the generated code targets.
const FirestoreImport = "cloud.google.com/go/firestore"

// Target describes the package generated code is written into.
type Target struct {
	// Package is the package name of generated files.
	Package string
	// PackagePath is the import path of the generated package, used to
	// leave same-package types unqualified. May be empty.
	PackagePath string
}

// Ident returns the Go identifier prefix of a collection, built from the
// names of its ancestors and its own, e.g. "MoviesComments".
func Ident(c *schema.Collection) string {
	names := make([]string, 0, c.Path.Depth())
	for _, a := range c.Ancestors() {
		names = append(names, a.Name)
	}

	names = append(names, c.Name)

	return strcase.UpperCamelCase(strings.Join(names, "_"))
}

// Accessor returns the name of the parent-document method returning c.
func Accessor(c *schema.Collection) string {
	return strcase.UpperCamelCase(c.Name)
}

// FileName returns the generated file name of a collection.
func FileName(c *schema.Collection) string {
	return strcase.SnakeCase(Ident(c)) + "_collection.go"
}

// FieldKey returns the document field key of a record member.
func FieldKey(member string) string {
	return strcase.LowerCamelCase(member)
}

// relativeChain renders the DocumentRef calls leading from a parent
// document to c, e.g. `.Collection("comments")`.
func relativeChain(c *schema.Collection) (string, error) {
	_, rest, err := docpath.SplitParent(c.Path.String())
	if err != nil {
		return "", err
	}

	var b strings.Builder

	for i, seg := range strings.Split(rest, docpath.Separator) {
		if i%2 == 0 {
			fmt.Fprintf(&b, ".Collection(%q)", seg)
		} else {
			fmt.Fprintf(&b, ".Doc(%q)", seg)
		}
	}

	return b.String(), nil
}

// imports collects the import paths a fragment depends on.
type imports map[string]struct{}

func (im imports) add(paths ...string) {
	for _, p := range paths {
		if p != "" {
			im[p] = struct{}{}
		}
	}
}

// addType records the packages of every named type reachable from t
// without crossing a type name.
func (im imports) addType(t *analyze.TypeInfo, target Target) {
	if t == nil {
		return
	}

	if t.IsNamed() {
		if t.ID.PkgPath != target.PackagePath {
			im.add(t.ID.PkgPath)
		}

		return
	}

	im.addType(t.KeyType, target)
	im.addType(t.ElemType, target)
}

func (im imports) addRecord(r *analyze.RecordType, target Target) {
	if r.ID.PkgPath != target.PackagePath {
		im.add(r.ID.PkgPath)
	}
}

func (im imports) list() []string {
	out := make([]string, 0, len(im))
	for p := range im {
		out = append(out, p)
	}

	slices.Sort(out)

	return out
}

// recordName renders the record type as seen from the target package.
func recordName(r *analyze.RecordType, target Target) string {
	return common.QualifiedName(r.ID.PkgPath, r.ID.Name, target.PackagePath)
}

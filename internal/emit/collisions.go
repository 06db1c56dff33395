package emit

import (
	"errors"

	"collection-generator/internal/diagnostic"
	"collection-generator/internal/resolve"
	"collection-generator/internal/schema"
)

// reservedAccessors are methods every generated document reference declares
// or embeds by name.
var reservedAccessors = map[string]struct{}{
	"DocumentRef": {},
	"Get":         {},
	"Set":         {},
}

// CheckNames reports collections whose generated declarations would clash
// in the output package: shared identifiers or file names, subcollection
// accessors clashing on one parent, and derived codecs of distinct record
// types with the same name.
func CheckNames(g *schema.Graph) error {
	var errs []error

	reported := make(map[*schema.Collection]bool)
	idents := make(map[string]*schema.Collection)
	files := make(map[string]*schema.Collection)

	for _, c := range g.Collections() {
		ident, file := Ident(c), FileName(c)

		if prev, ok := idents[ident]; ok {
			errs = append(errs, collision(c, prev, "identifier "+ident, "set a distinct name= on one of the declarations"))
			reported[c] = true

			continue
		}

		idents[ident] = c

		if prev, ok := files[file]; ok {
			errs = append(errs, collision(c, prev, "file "+file, "set a distinct name= on one of the declarations"))
			reported[c] = true

			continue
		}

		files[file] = c
	}

	for _, parent := range g.Collections() {
		accessors := make(map[string]*schema.Collection)

		for _, c := range parent.Children() {
			if reported[c] {
				continue
			}

			acc := Accessor(c)

			if _, ok := reservedAccessors[acc]; ok {
				errs = append(errs, diagnostic.Newf(diagnostic.CodeNameCollision, c.Path.String(), "",
					"set name= to a different collection name",
					"accessor %s clashes with a method of %sDocumentRef", acc, Ident(parent)))

				continue
			}

			if prev, ok := accessors[acc]; ok {
				errs = append(errs, collision(c, prev, "accessor "+Ident(parent)+"DocumentRef."+acc,
					"set a distinct name= on one of the declarations"))

				continue
			}

			accessors[acc] = c
		}
	}

	codecs := make(map[string]*schema.Collection)

	for _, c := range g.Collections() {
		for _, call := range []resolve.Call{c.Codec.Decode, c.Codec.Encode} {
			if call.Kind != resolve.CallDerived {
				continue
			}

			prev, ok := codecs[call.Name]
			if !ok {
				codecs[call.Name] = c

				continue
			}

			if prev.Record.ID != c.Record.ID {
				errs = append(errs, diagnostic.Newf(diagnostic.CodeNameCollision, c.Path.String(), "",
					"rename one of the record types or give it a handwritten codec",
					"derived codec %s for %s (%s) is also derived for %s (%s)",
					call.Name, c.Record.ID, c.Site, prev.Record.ID, prev.Site))

				break
			}
		}
	}

	return errors.Join(errs...)
}

func collision(c, prev *schema.Collection, what, hint string) error {
	return diagnostic.Newf(diagnostic.CodeNameCollision, c.Path.String(), "", hint,
		"generated %s is also produced by %q (%s and %s)",
		what, prev.Path.String(), prev.Site, c.Site)
}

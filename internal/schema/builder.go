package schema

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/stoewer/go-strcase"
	"golang.org/x/sync/errgroup"

	"collection-generator/internal/analyze"
	"collection-generator/internal/diagnostic"
	"collection-generator/internal/docpath"
	"collection-generator/internal/match"
	"collection-generator/internal/resolve"
)

// Builder compiles declarations into a Graph.
type Builder struct {
	logger  zerolog.Logger
	workers int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for build progress.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithWorkers bounds the number of record types resolved concurrently.
// Values below one select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: zerolog.Nop()}

	for _, opt := range opts {
		opt(b)
	}

	if b.workers < 1 {
		b.workers = runtime.GOMAXPROCS(0)
	}

	return b
}

// Build compiles one unit's declarations. The returned error joins every
// *diagnostic.Error found, ordered by the position of the offending
// declaration. Graph errors are only reported once all declarations are
// individually valid.
func (b *Builder) Build(ctx context.Context, decls []analyze.Declaration) (*Graph, error) {
	records, owner := uniqueRecords(decls)

	resolved, err := b.resolveRecords(ctx, records)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		collections: make([]*Collection, 0, len(decls)),
		byPath:      make(map[string]int, len(decls)),
	}

	var errs []error

	for i := range decls {
		d := &decls[i]

		path, pathErr := docpath.Validate(d.Path)
		if pathErr != nil {
			errs = append(errs, pathErr)
		}

		if d.Record == nil {
			errs = append(errs, diagnostic.Newf(diagnostic.CodeUnknown, d.Subject(), "",
				"", "declaration at %s has no record type", d.Site))

			continue
		}

		res := resolved[d.Record]
		if res.err != nil && owner[d.Record] == i {
			errs = append(errs, res.err)
		}

		if pathErr != nil || res.err != nil {
			continue
		}

		name := d.Name
		if name == "" {
			name = strcase.LowerCamelCase(path.CollectionID())
		}

		g.collections = append(g.collections, &Collection{
			graph:      g,
			index:      len(g.collections),
			parent:     noParent,
			Record:     d.Record,
			Path:       path,
			Name:       name,
			Queryable:  res.queryable,
			Codec:      res.codec,
			Injections: res.injections,
			Site:       d.Site,
		})
	}

	if len(errs) > 0 {
		b.logger.Debug().Int("declarations", len(decls)).Int("errors", len(errs)).Msg("declaration checks failed")

		return nil, errors.Join(errs...)
	}

	if err := g.link(); err != nil {
		return nil, err
	}

	b.logger.Debug().
		Int("collections", g.Len()).
		Int("roots", len(g.Roots())).
		Int("record_types", len(records)).
		Msg("collection graph built")

	return g, nil
}

type recordResult struct {
	codec      resolve.Codec
	injections []resolve.FieldInjection
	queryable  []resolve.QueryableField
	err        error
}

// uniqueRecords returns the distinct record types in first-use order, and
// for each the index of the first declaration using it. Diagnostics for a
// type are attributed to that declaration only.
func uniqueRecords(decls []analyze.Declaration) ([]*analyze.RecordType, map[*analyze.RecordType]int) {
	var records []*analyze.RecordType

	owner := make(map[*analyze.RecordType]int)

	for i, d := range decls {
		if d.Record == nil {
			continue
		}

		if _, seen := owner[d.Record]; seen {
			continue
		}

		owner[d.Record] = i
		records = append(records, d.Record)
	}

	return records, owner
}

// resolveRecords runs serialization, injection and queryable resolution for
// every record type. Record types are independent, so they run in parallel.
func (b *Builder) resolveRecords(
	ctx context.Context,
	records []*analyze.RecordType,
) (map[*analyze.RecordType]recordResult, error) {
	results := make([]recordResult, len(records))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)

	for i, r := range records {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = resolveRecord(r)

			b.logger.Trace().
				Str("type", r.ID.String()).
				Bool("derived_codec", results[i].codec.IsDerived()).
				Int("injections", len(results[i].injections)).
				Int("queryable", len(results[i].queryable)).
				Msg("record resolved")

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("resolving record types: %w", err)
	}

	out := make(map[*analyze.RecordType]recordResult, len(records))
	for i, r := range records {
		out[r] = results[i]
	}

	return out, nil
}

func resolveRecord(r *analyze.RecordType) recordResult {
	codec, codecErr := resolve.ResolveCodec(r)
	injections, injErr := resolve.ResolveInjections(r)

	return recordResult{
		codec:      codec,
		injections: injections,
		queryable:  resolve.SelectQueryable(r, injections),
		err:        errors.Join(codecErr, injErr),
	}
}

// link indexes collections by path and connects every nested collection to
// its parent. Lookup is by exact path equality over the full set.
func (g *Graph) link() error {
	var errs []error

	for i, c := range g.collections {
		key := c.Path.String()

		if prev, dup := g.byPath[key]; dup {
			errs = append(errs, diagnostic.Newf(diagnostic.CodeDuplicateCollection, key, "",
				"declare each collection path once",
				"path is declared by both %s (%s) and %s (%s)",
				g.collections[prev].Record.ID.Short(), g.collections[prev].Site,
				c.Record.ID.Short(), c.Site))

			continue
		}

		g.byPath[key] = i
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for i, c := range g.collections {
		if c.Path.IsRoot() {
			continue
		}

		parentPath, err := c.Path.Parent()
		if err != nil {
			errs = append(errs, err)

			continue
		}

		idx, ok := g.byPath[parentPath]
		if !ok {
			errs = append(errs, g.orphanError(c, parentPath))

			continue
		}

		c.parent = idx
		g.collections[idx].children = append(g.collections[idx].children, i)
	}

	return errors.Join(errs...)
}

func (g *Graph) orphanError(c *Collection, parentPath string) error {
	known := make([]string, 0, len(g.collections))
	for _, other := range g.collections {
		if other != c {
			known = append(known, other.Path.String())
		}
	}

	hint := fmt.Sprintf("declare a collection at %q", parentPath)
	if closest, ok := match.Closest(parentPath, known); ok {
		hint += fmt.Sprintf(" (did you mean %q?)", closest)
	}

	return diagnostic.Newf(diagnostic.CodeOrphanSubcollection, c.Path.String(), "", hint,
		"parent collection %q of %q is not declared", parentPath, c.Path.String())
}

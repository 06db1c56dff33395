// Package pipeline wires package loading, schema compilation, emission and
// file output for the command line.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"collection-generator/internal/analyze"
	"collection-generator/internal/config"
	"collection-generator/internal/emit"
	"collection-generator/internal/schema"
)

// Runner executes the generator for one configuration.
type Runner struct {
	cfg    *config.Config
	logger zerolog.Logger
	dir    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithDir sets the directory package patterns and a relative output
// directory are resolved against.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, logger: zerolog.Nop()}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Result is the outcome of a run.
type Result struct {
	Graph     *schema.Graph
	Fragments []emit.Fragment
	Files     []emit.GeneratedFile
	// OutputDir is where Files are (or would be) written.
	OutputDir string
}

// Compile loads the configured packages and builds the collection graph
// from their directives and the configured manifest collections. Graphs
// whose generated names would clash are rejected.
func (r *Runner) Compile(ctx context.Context) (*schema.Graph, error) {
	typeGraph, err := analyze.NewAnalyzer(analyze.WithDir(r.dir)).LoadPackages(r.cfg.Packages...)
	if err != nil {
		return nil, err
	}

	decls, err := r.declarations(typeGraph)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Strs("packages", r.cfg.Packages).
		Int("declarations", len(decls)).
		Int("record_types", len(typeGraph.Records)).
		Msg("packages loaded")

	builder := schema.NewBuilder(
		schema.WithLogger(r.logger),
		schema.WithWorkers(r.cfg.Workers),
	)

	graph, err := builder.Build(ctx, decls)
	if err != nil {
		return nil, err
	}

	if err := emit.CheckNames(graph); err != nil {
		return nil, err
	}

	return graph, nil
}

// declarations returns the source directives followed by the manifest
// collections, in that order.
func (r *Runner) declarations(tg *analyze.TypeGraph) ([]analyze.Declaration, error) {
	decls := append([]analyze.Declaration(nil), tg.Declarations...)

	for i, cc := range r.cfg.Collections {
		record, err := analyze.ResolveRecord(cc.Type, tg)
		if err != nil {
			return nil, fmt.Errorf("collections[%d]: %w", i, err)
		}

		decls = append(decls, analyze.Declaration{
			Path:   cc.Path,
			Name:   cc.Name,
			Record: record,
			Site:   fmt.Sprintf("%s.yaml: collections[%d]", config.FileName, i),
		})
	}

	return decls, nil
}

// Render compiles the graph and renders the generated files without
// writing them.
func (r *Runner) Render(ctx context.Context) (*Result, error) {
	graph, err := r.Compile(ctx)
	if err != nil {
		return nil, err
	}

	target := emit.Target{Package: r.cfg.Output.Package, PackagePath: r.cfg.Output.Import}

	emitters, err := emit.NewAll(r.cfg.Emitters, target)
	if err != nil {
		return nil, err
	}

	dispatcher := emit.NewDispatcher(r.logger)
	if err := dispatcher.Register(emitters...); err != nil {
		return nil, err
	}

	fragments, err := dispatcher.Generate(graph)
	if err != nil {
		return nil, err
	}

	outDir := r.outputDir()

	files, err := emit.Assemble(fragments, target, outDir)
	if err != nil {
		return nil, err
	}

	return &Result{Graph: graph, Fragments: fragments, Files: files, OutputDir: outDir}, nil
}

// Generate renders and writes the generated files.
func (r *Runner) Generate(ctx context.Context) (*Result, error) {
	res, err := r.Render(ctx)
	if err != nil {
		return nil, err
	}

	if err := emit.WriteFiles(res.Files, res.OutputDir); err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("collections", res.Graph.Len()).
		Int("files", len(res.Files)).
		Str("dir", res.OutputDir).
		Msg("generated")

	return res, nil
}

func (r *Runner) outputDir() string {
	if filepath.IsAbs(r.cfg.Output.Dir) || r.dir == "" {
		return r.cfg.Output.Dir
	}

	return filepath.Join(r.dir, r.cfg.Output.Dir)
}

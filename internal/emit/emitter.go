package emit

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"collection-generator/internal/schema"
)

// Emitter renders one facet of a collection.
type Emitter interface {
	// Name identifies the emitter in configuration and fragments.
	Name() string
	// Accepts reports whether the emitter has anything to render for c.
	Accepts(c *schema.Collection) bool
	// Render produces the emitter's fragment for c.
	Render(c *schema.Collection) (Fragment, error)
}

// Dependent is implemented by emitters whose output references
// declarations rendered by other emitters.
type Dependent interface {
	Requires() []string
}

// Supporter is implemented by emitters that need package-level helpers.
// Support receives the collections the emitter rendered and reports whether
// a helper fragment is needed for them.
type Supporter interface {
	Support(rendered []*schema.Collection) (Fragment, bool)
}

// Fragment is one emitter's output for one collection. Fragments with an
// empty Path are package-level support code.
type Fragment struct {
	// Emitter is the name of the producing emitter.
	Emitter string
	// Path is the collection path the fragment belongs to.
	Path string
	// File is the generated file the fragment is assembled into.
	File string
	// Imports lists import paths the code depends on.
	Imports []string
	// Code is Go source of top-level declarations.
	Code string
}

// Dispatcher runs registered emitters over a graph.
type Dispatcher struct {
	logger   zerolog.Logger
	emitters []Emitter
	byName   map[string]Emitter
}

// NewDispatcher creates a Dispatcher without emitters.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		byName: make(map[string]Emitter),
	}
}

// Register adds emitters. Emitters run in registration order.
func (d *Dispatcher) Register(emitters ...Emitter) error {
	for _, e := range emitters {
		if _, dup := d.byName[e.Name()]; dup {
			return fmt.Errorf("emitter %q registered twice", e.Name())
		}

		d.byName[e.Name()] = e
		d.emitters = append(d.emitters, e)
	}

	return nil
}

// Emitters returns the registered emitters in order.
func (d *Dispatcher) Emitters() []Emitter {
	return append([]Emitter(nil), d.emitters...)
}

// Generate renders every accepting emitter for every collection, in
// declaration order. Render failures are collected and returned together.
// Graphs whose generated names clash are rejected before rendering.
func (d *Dispatcher) Generate(g *schema.Graph) ([]Fragment, error) {
	if err := d.checkRequirements(); err != nil {
		return nil, err
	}

	if err := CheckNames(g); err != nil {
		return nil, err
	}

	var (
		fragments []Fragment
		errs      []error
	)

	rendered := make(map[string][]*schema.Collection, len(d.emitters))

	for _, c := range g.Collections() {
		for _, e := range d.emitters {
			if !e.Accepts(c) {
				continue
			}

			f, err := e.Render(c)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s emitter on %q: %w", e.Name(), c.Path, err))

				continue
			}

			f.Emitter = e.Name()
			f.Path = c.Path.String()
			f.File = FileName(c)
			fragments = append(fragments, f)
			rendered[e.Name()] = append(rendered[e.Name()], c)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, e := range d.emitters {
		s, ok := e.(Supporter)
		if !ok || len(rendered[e.Name()]) == 0 {
			continue
		}

		f, ok := s.Support(rendered[e.Name()])
		if !ok {
			continue
		}

		f.Emitter = e.Name()
		f.File = SupportFile
		fragments = append(fragments, f)
	}

	d.logger.Debug().
		Int("collections", g.Len()).
		Int("emitters", len(d.emitters)).
		Int("fragments", len(fragments)).
		Msg("fragments rendered")

	return fragments, nil
}

func (d *Dispatcher) checkRequirements() error {
	var errs []error

	for _, e := range d.emitters {
		dep, ok := e.(Dependent)
		if !ok {
			continue
		}

		for _, name := range dep.Requires() {
			if _, ok := d.byName[name]; !ok {
				errs = append(errs, fmt.Errorf("emitter %q requires emitter %q", e.Name(), name))
			}
		}
	}

	return errors.Join(errs...)
}

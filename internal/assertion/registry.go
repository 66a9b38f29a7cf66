package assertion

import (
	"fmt"

	"github.com/roach88/flicker/internal/scenario"
)

// Entry places a template in a scenario's assertion list.
type Entry struct {
	Template  Template
	Component ComponentBuilder
	Stability Stability
}

// Name returns the family name of assertions generated from the entry,
// e.g. "windowMovesToTop(OPENING_APP)".
func (e Entry) Name() string {
	if e.Component == nil {
		return e.Template.Name
	}
	return fmt.Sprintf("%s(%s)", e.Template.Name, e.Component)
}

// Registry is the scenario configuration table. It is built once and then
// only read.
type Registry struct {
	entries map[scenario.Type][]Entry
	order   []scenario.Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[scenario.Type][]Entry)}
}

// Register appends entries to the list of scenario type t.
func (r *Registry) Register(t scenario.Type, entries ...Entry) error {
	for _, e := range entries {
		if e.Template.Check == nil {
			return fmt.Errorf("%s: template %q has no check", t, e.Template.Name)
		}
		if e.Template.NeedsComponent && e.Component == nil {
			return fmt.Errorf("%s: template %q requires a component", t, e.Template.Name)
		}
		if _, err := ParseStability(string(e.Stability)); err != nil {
			return fmt.Errorf("%s: template %q: %w", t, e.Template.Name, err)
		}
	}
	if _, ok := r.entries[t]; !ok {
		r.order = append(r.order, t)
	}
	r.entries[t] = append(r.entries[t], entries...)
	return nil
}

// Entries returns the entries of scenario type t in registration order.
func (r *Registry) Entries(t scenario.Type) []Entry {
	return append([]Entry(nil), r.entries[t]...)
}

// Types returns the configured scenario types in registration order.
func (r *Registry) Types() []scenario.Type {
	return append([]scenario.Type(nil), r.order...)
}

// Factory generates concrete assertions from a registry.
type Factory struct {
	registry *Registry
}

// NewFactory returns a factory over registry.
func NewFactory(registry *Registry) *Factory {
	return &Factory{registry: registry}
}

// GenerateAssertionsFor returns the assertions configured for the type of
// inst, in registry order. Unknown types yield no assertions.
func (f *Factory) GenerateAssertionsFor(inst *scenario.Instance) []Assertion {
	entries := f.registry.entries[inst.Type]
	out := make([]Assertion, 0, len(entries))
	for _, e := range entries {
		out = append(out, Assertion{
			Name:      fmt.Sprintf("%s::%s", inst.Type, e.Name()),
			Scenario:  inst.Type,
			Stability: e.Stability,
			entry:     e,
		})
	}
	return out
}

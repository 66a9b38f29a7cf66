package assertion

import (
	"fmt"

	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/trace"
)

// ComponentBuilder resolves the component an assertion checks from a
// scenario instance.
type ComponentBuilder interface {
	Build(inst *scenario.Instance) (trace.Matcher, error)

	// String names the binding. It is part of the assertion name, so it must
	// not depend on the instance.
	String() string
}

// RoleComponent binds the component playing a role in the scenario.
type RoleComponent scenario.Role

// Build implements ComponentBuilder.
func (r RoleComponent) Build(inst *scenario.Instance) (trace.Matcher, error) {
	c, ok := inst.Component(scenario.Role(r))
	if !ok {
		return nil, fmt.Errorf("scenario %s has no %s component", inst.Type, string(r))
	}
	return c, nil
}

func (r RoleComponent) String() string {
	return string(r)
}

// FixedComponent binds the same matcher in every scenario.
type FixedComponent struct {
	Name    string
	Matcher trace.Matcher
}

// Build implements ComponentBuilder.
func (f FixedComponent) Build(*scenario.Instance) (trace.Matcher, error) {
	return f.Matcher, nil
}

func (f FixedComponent) String() string {
	return f.Name
}

// Well-known fixed components, keyed by their configuration name.
var wellKnown = map[string]trace.Matcher{
	"STATUS_BAR":    trace.StatusBar,
	"NAV_BAR":       trace.NavBar,
	"IME":           trace.IME,
	"LAUNCHER":      trace.Launcher,
	"SPLASH_SCREEN": trace.SplashScreen,
	"SNAPSHOT":      trace.Snapshot,
}

// WellKnown returns the fixed component registered under name.
func WellKnown(name string) (FixedComponent, bool) {
	m, ok := wellKnown[name]
	if !ok {
		return FixedComponent{}, false
	}
	return FixedComponent{Name: name, Matcher: m}, true
}

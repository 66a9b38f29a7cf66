// Package config builds the scenario configuration table, either from the
// built-in defaults or from a CUE document.
package config

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/sahilm/fuzzy"

	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/trace"
)

// Default returns the built-in scenario configuration.
func Default() *assertion.Registry {
	opening := assertion.RoleComponent(scenario.OpeningApp)
	closing := assertion.RoleComponent(scenario.ClosingApp)
	ime, _ := assertion.WellKnown("IME")

	reg := assertion.NewRegistry()
	mustRegister(reg, scenario.LauncherAppLaunchFromIcon,
		entry(assertion.AppWindowBecomesVisible, opening, assertion.Blocking),
		entry(assertion.WindowMovesToTop, opening, assertion.Blocking),
		entry(assertion.AppWindowCoversFullScreenAtEnd, opening, assertion.Flaky),
		entry(assertion.EntireScreenCoveredAlways, nil, assertion.Blocking),
		entry(assertion.StatusBarLayerIsVisibleAtStartAndEnd, nil, assertion.Blocking),
		entry(assertion.NavBarLayerIsVisibleAtStartAndEnd, nil, assertion.Flaky),
	)
	mustRegister(reg, scenario.AppCloseToHome,
		entry(assertion.AppWindowBecomesInvisible, closing, assertion.Blocking),
		entry(assertion.WindowMovesOutOfTop, closing, assertion.Blocking),
		entry(assertion.LayerBecomesInvisible, closing, assertion.Flaky),
		entry(assertion.EntireScreenCoveredAlways, nil, assertion.Blocking),
	)
	mustRegister(reg, scenario.Rotation,
		entry(assertion.RotationChanged, nil, assertion.Blocking),
		entry(assertion.EntireScreenCoveredAlways, nil, assertion.Flaky),
		entry(assertion.StatusBarLayerIsVisibleAtStartAndEnd, nil, assertion.Flaky),
	)
	mustRegister(reg, scenario.ImeAppear,
		entry(assertion.LayerBecomesVisible, ime, assertion.Blocking),
	)
	return reg
}

func entry(name string, c assertion.ComponentBuilder, s assertion.Stability) assertion.Entry {
	tmpl, ok := assertion.LookupTemplate(name)
	if !ok {
		panic("config: unknown template " + name)
	}
	return assertion.Entry{Template: tmpl, Component: c, Stability: s}
}

func mustRegister(reg *assertion.Registry, t scenario.Type, entries ...assertion.Entry) {
	if err := reg.Register(t, entries...); err != nil {
		panic("config: " + err.Error())
	}
}

// Load reads and compiles a CUE configuration file.
func Load(path string) (*assertion.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return compile(data, path)
}

// Compile compiles CUE source into a registry. The document has the shape
//
//	scenarios: [...{
//		type: string
//		assertions: [...{
//			name:       string
//			component?: string // role, well-known name or "package/class"
//			stability?: "BLOCKING" | "FLAKY" // default BLOCKING
//		}]
//	}]
func Compile(src string) (*assertion.Registry, error) {
	return compile([]byte(src), "")
}

func compile(src []byte, filename string) (*assertion.Registry, error) {
	ctx := cuecontext.New()
	var opts []cue.BuildOption
	if filename != "" {
		opts = append(opts, cue.Filename(filename))
	}
	v := ctx.CompileBytes(src, opts...)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	scenariosVal := v.LookupPath(cue.ParsePath("scenarios"))
	if !scenariosVal.Exists() {
		return nil, &CompileError{Field: "scenarios", Message: "scenarios is required", Pos: v.Pos()}
	}
	iter, err := scenariosVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	reg := assertion.NewRegistry()
	seen := make(map[scenario.Type]bool)
	for iter.Next() {
		sv := iter.Value()
		t, entries, err := compileScenario(sv)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			return nil, &CompileError{Field: "type", Message: fmt.Sprintf("duplicate scenario type %q", t), Pos: sv.Pos()}
		}
		seen[t] = true
		if err := reg.Register(t, entries...); err != nil {
			return nil, &CompileError{Field: "assertions", Message: err.Error(), Pos: sv.Pos()}
		}
	}
	return reg, nil
}

func compileScenario(v cue.Value) (scenario.Type, []assertion.Entry, error) {
	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return "", nil, &CompileError{Field: "type", Message: "type is required", Pos: v.Pos()}
	}
	typ, err := typeVal.String()
	if err != nil {
		return "", nil, formatCUEError(err)
	}

	assertionsVal := v.LookupPath(cue.ParsePath("assertions"))
	if !assertionsVal.Exists() {
		return "", nil, &CompileError{Field: "assertions", Message: "assertions is required", Pos: v.Pos()}
	}
	iter, err := assertionsVal.List()
	if err != nil {
		return "", nil, formatCUEError(err)
	}

	var entries []assertion.Entry
	for iter.Next() {
		e, err := compileEntry(iter.Value())
		if err != nil {
			return "", nil, err
		}
		entries = append(entries, e)
	}
	return scenario.Type(typ), entries, nil
}

func compileEntry(v cue.Value) (assertion.Entry, error) {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return assertion.Entry{}, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return assertion.Entry{}, formatCUEError(err)
	}
	tmpl, ok := assertion.LookupTemplate(name)
	if !ok {
		return assertion.Entry{}, &CompileError{
			Field:   "name",
			Message: fmt.Sprintf("unknown template %q%s", name, suggest(name, assertion.TemplateNames())),
			Pos:     nameVal.Pos(),
		}
	}
	e := assertion.Entry{Template: tmpl, Stability: assertion.Blocking}

	if sv := v.LookupPath(cue.ParsePath("stability")); sv.Exists() {
		s, err := sv.String()
		if err != nil {
			return assertion.Entry{}, formatCUEError(err)
		}
		e.Stability, err = assertion.ParseStability(s)
		if err != nil {
			return assertion.Entry{}, &CompileError{Field: "stability", Message: err.Error(), Pos: sv.Pos()}
		}
	}

	cv := v.LookupPath(cue.ParsePath("component"))
	switch {
	case cv.Exists() && !tmpl.NeedsComponent:
		return assertion.Entry{}, &CompileError{
			Field:   "component",
			Message: fmt.Sprintf("template %q does not take a component", name),
			Pos:     cv.Pos(),
		}
	case !cv.Exists() && tmpl.NeedsComponent:
		return assertion.Entry{}, &CompileError{
			Field:   "component",
			Message: fmt.Sprintf("template %q requires a component", name),
			Pos:     v.Pos(),
		}
	case cv.Exists():
		s, err := cv.String()
		if err != nil {
			return assertion.Entry{}, formatCUEError(err)
		}
		e.Component, err = parseComponent(s)
		if err != nil {
			return assertion.Entry{}, &CompileError{Field: "component", Message: err.Error(), Pos: cv.Pos()}
		}
	}
	return e, nil
}

// suggest names the closest known name, or lists all of them when nothing
// matches.
func suggest(name string, known []string) string {
	if matches := fuzzy.Find(name, known); len(matches) > 0 {
		return fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
	}
	return " (known: " + strings.Join(known, ", ") + ")"
}

// parseComponent resolves a role, a well-known component name, or a
// "package/class" component.
func parseComponent(s string) (assertion.ComponentBuilder, error) {
	switch scenario.Role(s) {
	case scenario.OpeningApp, scenario.ClosingApp:
		return assertion.RoleComponent(s), nil
	}
	if c, ok := assertion.WellKnown(s); ok {
		return c, nil
	}
	if strings.Contains(s, "/") {
		return assertion.FixedComponent{Name: s, Matcher: trace.UnflattenComponent(s)}, nil
	}
	return nil, fmt.Errorf("unknown component %q", s)
}

// CompileError represents a configuration error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}

// Package scenario describes detected UI transitions.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/flicker/internal/trace"
)

// Type names a kind of transition.
type Type string

// Known scenario types.
const (
	LauncherAppLaunchFromIcon Type = "LAUNCHER_APP_LAUNCH_FROM_ICON"
	AppCloseToHome            Type = "APP_CLOSE_TO_HOME"
	Rotation                  Type = "ROTATION"
	ImeAppear                 Type = "IME_APPEAR"
)

// Role names the part a component plays in a transition.
type Role string

// Component roles.
const (
	OpeningApp Role = "OPENING_APP"
	ClosingApp Role = "CLOSING_APP"
)

// Instance is one detected transition. It is read-only once created.
type Instance struct {
	Type          Type
	StartRotation trace.Rotation
	EndRotation   trace.Rotation
	Start         trace.Timestamp
	End           trace.Timestamp

	// Reader serves the traces restricted to [Start, End].
	Reader trace.Reader

	// Components binds roles to the concrete components of this instance.
	Components map[Role]trace.ComponentName
}

// Component returns the component bound to role.
func (i *Instance) Component(role Role) (trace.ComponentName, bool) {
	c, ok := i.Components[role]
	return c, ok
}

// Description identifies the instance within one run,
// e.g. "ROTATION (ROTATION_0 -> ROTATION_90) [OPENING_APP=a/.B]".
func (i *Instance) Description() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s (%s -> %s)", i.Type, i.StartRotation, i.EndRotation)
	if len(i.Components) > 0 {
		roles := make([]string, 0, len(i.Components))
		for r := range i.Components {
			roles = append(roles, string(r))
		}
		sort.Strings(roles)
		buf.WriteString(" [")
		for n, r := range roles {
			if n > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%s=%s", r, i.Components[Role(r)])
		}
		buf.WriteString("]")
	}
	return buf.String()
}

// Detector finds the transitions recorded by a reader.
type Detector interface {
	Detect(ctx context.Context, reader trace.Reader) ([]*Instance, error)
}

// StaticDetector reports scenarios declared up front, for example in a
// trace fixture.
type StaticDetector struct {
	specs []trace.ScenarioSpec
}

// NewStaticDetector returns a detector over specs.
func NewStaticDetector(specs []trace.ScenarioSpec) *StaticDetector {
	return &StaticDetector{specs: specs}
}

// Detect implements Detector. Unset bounds default to the whole trace.
func (d *StaticDetector) Detect(ctx context.Context, reader trace.Reader) ([]*Instance, error) {
	out := make([]*Instance, 0, len(d.specs))
	for _, spec := range d.specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start, end := spec.Start, spec.End
		if start.IsEmpty() {
			start = trace.Min()
		}
		if end.IsEmpty() {
			end = trace.Max()
		}

		sliced, err := reader.Slice(start, end)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", spec.Type, err)
		}

		components := make(map[Role]trace.ComponentName, len(spec.Components))
		for role, name := range spec.Components {
			components[Role(role)] = trace.UnflattenComponent(name)
		}

		out = append(out, &Instance{
			Type:          Type(spec.Type),
			StartRotation: spec.StartRotation,
			EndRotation:   spec.EndRotation,
			Start:         start,
			End:           end,
			Reader:        sliced,
			Components:    components,
		})
	}
	return out, nil
}

package trace

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/flicker/internal/geom"
)

// ErrInvertedRect is returned for fixture rectangles with left > right or
// top > bottom.
var ErrInvertedRect = errors.New("rectangle edges are inverted")

// Fixture is a decoded trace dump: the traces of one run plus the scenarios
// declared for it.
//
// Fixture files are YAML:
//
//	artifact: runs/open_app.winscope
//	window_trace:
//	  - timestamp: { elapsed_nanos: 100 }
//	    rotation: 0
//	    app_transition_state: APP_STATE_IDLE
//	    windows:
//	      - name: com.example/.MainActivity
//	        app_window: true
//	        visible: true
//	        frame: { left: 0, top: 0, right: 1080, bottom: 2400 }
//	        z: 3
//	layers_trace:
//	  - timestamp: { system_uptime_nanos: 100 }
//	    displays:
//	      - { id: 0, layer_stack_space: { left: 0, top: 0, right: 1080, bottom: 2400 } }
//	    layers:
//	      - name: com.example/.MainActivity#12
//	        visible: true
//	        visible_region: [{ left: 0, top: 0, right: 1080, bottom: 2400 }]
//	scenarios:
//	  - type: LAUNCHER_APP_LAUNCH_FROM_ICON
//	    start: { elapsed_nanos: 100, system_uptime_nanos: 100 }
//	    end: { elapsed_nanos: 300, system_uptime_nanos: 300 }
//	    components: { OPENING_APP: com.example/.MainActivity }
type Fixture struct {
	Reader    *ParsedReader
	Scenarios []ScenarioSpec
}

// ScenarioSpec declares a scenario detected in a fixture.
type ScenarioSpec struct {
	Type          string            `yaml:"type"`
	StartRotation Rotation          `yaml:"start_rotation"`
	EndRotation   Rotation          `yaml:"end_rotation"`
	Start         Timestamp         `yaml:"start"`
	End           Timestamp         `yaml:"end"`
	Components    map[string]string `yaml:"components,omitempty"`
}

type fixtureFile struct {
	Artifact    string          `yaml:"artifact"`
	WindowTrace []windowStateDoc `yaml:"window_trace,omitempty"`
	LayersTrace []layersStateDoc `yaml:"layers_trace,omitempty"`
	Scenarios   []ScenarioSpec   `yaml:"scenarios,omitempty"`
}

type windowStateDoc struct {
	Timestamp          Timestamp   `yaml:"timestamp"`
	Rotation           Rotation    `yaml:"rotation"`
	FocusedApp         string      `yaml:"focused_app,omitempty"`
	AppTransitionState string      `yaml:"app_transition_state,omitempty"`
	Windows            []windowDoc `yaml:"windows,omitempty"`
}

type windowDoc struct {
	Token        string       `yaml:"token,omitempty"`
	Name         string       `yaml:"name"`
	Parent       string       `yaml:"parent,omitempty"`
	AppWindow    bool         `yaml:"app_window,omitempty"`
	ActivityType ActivityType `yaml:"activity_type,omitempty"`
	Visible      bool         `yaml:"visible,omitempty"`
	SurfaceShown *bool        `yaml:"surface_shown,omitempty"`
	Frame        geom.Rect    `yaml:"frame"`
	Z            int          `yaml:"z,omitempty"`
}

type layersStateDoc struct {
	Timestamp Timestamp    `yaml:"timestamp"`
	VSyncID   int64        `yaml:"vsync_id,omitempty"`
	Displays  []displayDoc `yaml:"displays,omitempty"`
	Layers    []layerDoc   `yaml:"layers,omitempty"`
}

type displayDoc struct {
	ID              int       `yaml:"id"`
	Name            string    `yaml:"name,omitempty"`
	LayerStackSpace geom.Rect `yaml:"layer_stack_space"`
	Rotation        Rotation  `yaml:"rotation,omitempty"`
	Virtual         bool      `yaml:"virtual,omitempty"`
}

type layerDoc struct {
	ID            int         `yaml:"id,omitempty"`
	ParentID      int         `yaml:"parent_id,omitempty"`
	Name          string      `yaml:"name"`
	Z             int         `yaml:"z,omitempty"`
	Visible       bool        `yaml:"visible,omitempty"`
	Opaque        bool        `yaml:"opaque,omitempty"`
	Bounds        geom.Rect   `yaml:"bounds,omitempty"`
	VisibleRegion []geom.Rect `yaml:"visible_region,omitempty"`
}

// LoadFixture reads and decodes a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	fx, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// ParseFixture decodes a YAML fixture. Unknown fields are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var doc fixtureFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var wm *WindowTrace
	if len(doc.WindowTrace) > 0 {
		states := make([]*WindowState, len(doc.WindowTrace))
		for i, d := range doc.WindowTrace {
			st, err := d.build()
			if err != nil {
				return nil, fmt.Errorf("window_trace[%d]: %w", i, err)
			}
			states[i] = st
		}
		t, err := NewTrace(states)
		if err != nil {
			return nil, fmt.Errorf("window_trace: %w", err)
		}
		wm = t
	}

	var layers *LayersTrace
	if len(doc.LayersTrace) > 0 {
		states := make([]*LayersState, len(doc.LayersTrace))
		for i, d := range doc.LayersTrace {
			st, err := d.build()
			if err != nil {
				return nil, fmt.Errorf("layers_trace[%d]: %w", i, err)
			}
			states[i] = st
		}
		t, err := NewTrace(states)
		if err != nil {
			return nil, fmt.Errorf("layers_trace: %w", err)
		}
		layers = t
	}

	for i, s := range doc.Scenarios {
		if s.Type == "" {
			return nil, fmt.Errorf("scenarios[%d]: type is required", i)
		}
	}

	return &Fixture{
		Reader:    NewParsedReader(doc.Artifact, wm, layers),
		Scenarios: doc.Scenarios,
	}, nil
}

func (d windowStateDoc) build() (*WindowState, error) {
	s := &WindowState{
		Timestamp:          d.Timestamp,
		Rotation:           d.Rotation,
		FocusedApp:         d.FocusedApp,
		AppTransitionState: d.AppTransitionState,
		Windows:            make([]Window, len(d.Windows)),
	}
	for i, w := range d.Windows {
		if err := checkRect(w.Frame); err != nil {
			return nil, fmt.Errorf("windows[%d].frame: %w", i, err)
		}
		shown := w.Visible
		if w.SurfaceShown != nil {
			shown = *w.SurfaceShown
		}
		activity := w.ActivityType
		if activity == "" {
			activity = ActivityStandard
		}
		s.Windows[i] = Window{
			Token:        w.Token,
			Name:         w.Name,
			ParentToken:  w.Parent,
			IsAppWindow:  w.AppWindow,
			ActivityType: activity,
			Visible:      w.Visible,
			SurfaceShown: shown,
			Frame:        w.Frame,
			Z:            w.Z,
		}
	}
	return s, nil
}

func (d layersStateDoc) build() (*LayersState, error) {
	s := &LayersState{
		Timestamp: d.Timestamp,
		VSyncID:   d.VSyncID,
		Displays:  make([]Display, len(d.Displays)),
		Layers:    make([]Layer, len(d.Layers)),
	}
	for i, dd := range d.Displays {
		if err := checkRect(dd.LayerStackSpace); err != nil {
			return nil, fmt.Errorf("displays[%d].layer_stack_space: %w", i, err)
		}
		s.Displays[i] = Display{
			ID:              dd.ID,
			Name:            dd.Name,
			LayerStackSpace: dd.LayerStackSpace,
			Rotation:        dd.Rotation,
			IsVirtual:       dd.Virtual,
		}
	}
	for i, l := range d.Layers {
		if err := checkRect(l.Bounds); err != nil {
			return nil, fmt.Errorf("layers[%d].bounds: %w", i, err)
		}
		for j, r := range l.VisibleRegion {
			if err := checkRect(r); err != nil {
				return nil, fmt.Errorf("layers[%d].visible_region[%d]: %w", i, j, err)
			}
		}
		s.Layers[i] = Layer{
			ID:            l.ID,
			ParentID:      l.ParentID,
			Name:          l.Name,
			Z:             l.Z,
			Visible:       l.Visible,
			IsOpaque:      l.Opaque,
			Bounds:        l.Bounds,
			VisibleRegion: geom.NewRegion(l.VisibleRegion...),
		}
	}
	return s, nil
}

// checkRect rejects rectangles with left > right or top > bottom.
func checkRect(r geom.Rect) error {
	if r.Left > r.Right || r.Top > r.Bottom {
		return fmt.Errorf("inverted rectangle %s: %w", r, ErrInvertedRect)
	}
	return nil
}

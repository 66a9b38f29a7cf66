package trace

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Matcher identifies one logical UI element in window and layer snapshots.
// Names appear in decorated forms (shorthand class names, "#id" suffixes,
// "Splash Screen" prefixes), so matching is by canonical name, never by raw
// string equality.
type Matcher interface {
	MatchesWindow(w *Window) bool
	MatchesLayer(l *Layer) bool
	String() string
}

// ComponentName is a package/class pair. System components without a
// package (status bar, IME, ...) carry only a class name.
type ComponentName struct {
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Class   string `json:"class" yaml:"class"`
}

// Well-known system components.
var (
	StatusBar    = ComponentName{Class: "StatusBar"}
	NavBar       = ComponentName{Class: "NavigationBar0"}
	IME          = ComponentName{Class: "InputMethod"}
	SplashScreen = ComponentName{Class: "Splash Screen"}
	Snapshot     = ComponentName{Class: "SnapshotStartingWindow"}
	Launcher     = ComponentName{
		Package: "com.google.android.apps.nexuslauncher",
		Class:   "com.google.android.apps.nexuslauncher.NexusLauncherActivity",
	}
)

// UnflattenComponent parses "package/class". A class starting with "." is
// relative to the package. A string without "/" is a package-less class.
func UnflattenComponent(s string) ComponentName {
	s = canonical(s)
	pkg, cls, ok := strings.Cut(s, "/")
	if !ok {
		return ComponentName{Class: s}
	}
	if strings.HasPrefix(cls, ".") {
		cls = pkg + cls
	}
	return ComponentName{Package: pkg, Class: cls}
}

// ToWindowName returns the window title form, "package/class".
func (c ComponentName) ToWindowName() string {
	if c.Package == "" {
		return c.Class
	}
	return c.Package + "/" + c.Class
}

// ToLayerName returns the name prefix of the component's surface layer.
func (c ComponentName) ToLayerName() string {
	return c.ToWindowName()
}

// IsSystem reports whether the component has no package.
func (c ComponentName) IsSystem() bool {
	return c.Package == ""
}

// MatchesWindow reports whether w belongs to the component.
func (c ComponentName) MatchesWindow(w *Window) bool {
	if w == nil {
		return false
	}
	name := canonical(w.Name)
	if c.IsSystem() {
		return strings.Contains(name, canonical(c.Class))
	}
	return UnflattenComponent(name) == c.canonical()
}

// MatchesLayer reports whether l is a surface of the component.
func (c ComponentName) MatchesLayer(l *Layer) bool {
	if l == nil {
		return false
	}
	name := stripLayerID(canonical(l.Name))
	if c.IsSystem() {
		return strings.Contains(name, canonical(c.Class))
	}
	cc := c.canonical()
	return strings.Contains(name, cc.ToLayerName()) || strings.Contains(name, shortName(cc))
}

// String returns the window name of the component.
func (c ComponentName) String() string {
	return c.ToWindowName()
}

func (c ComponentName) canonical() ComponentName {
	return ComponentName{Package: canonical(c.Package), Class: canonical(c.Class)}
}

// shortName returns "package/.Rel" when the class is inside the package.
func shortName(c ComponentName) string {
	if c.Package != "" && strings.HasPrefix(c.Class, c.Package+".") {
		return c.Package + "/" + strings.TrimPrefix(c.Class, c.Package)
	}
	return c.ToWindowName()
}

// canonical NFC-normalises and trims a name.
func canonical(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// stripLayerID removes a trailing "#<digits>" layer identifier.
func stripLayerID(name string) string {
	i := strings.LastIndexByte(name, '#')
	if i < 0 || i == len(name)-1 {
		return name
	}
	for _, r := range name[i+1:] {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:i]
}

// anyOf matches when any of its matchers does.
type anyOf []Matcher

// AnyOf returns a matcher satisfied by any of ms.
func AnyOf(ms ...Matcher) Matcher {
	return anyOf(ms)
}

func (a anyOf) MatchesWindow(w *Window) bool {
	for _, m := range a {
		if m.MatchesWindow(w) {
			return true
		}
	}
	return false
}

func (a anyOf) MatchesLayer(l *Layer) bool {
	for _, m := range a {
		if m.MatchesLayer(l) {
			return true
		}
	}
	return false
}

func (a anyOf) String() string {
	names := make([]string, len(a))
	for i, m := range a {
		names[i] = m.String()
	}
	return strings.Join(names, " or ")
}

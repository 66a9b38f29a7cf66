package trace

// DeviceState pairs the window manager and compositor snapshots taken by
// one dump of a live device.
type DeviceState struct {
	WM     *WindowState
	Layers *LayersState
}

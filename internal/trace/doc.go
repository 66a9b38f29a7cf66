// Package trace provides the snapshot model for window and layer state.
//
// A snapshot (WindowState or LayersState) captures the platform state at one
// instant. Snapshots are built once by a decoder and are treated as
// immutable afterwards; they are shared freely between traces, slices and
// concurrent readers.
//
// A Trace is a time-ascending sequence of snapshots. Slicing a trace copies
// the entry list so the result shares no mutable state with the original.
//
// Key types:
//   - Timestamp: elapsed, system-uptime and unix clock readings, any of which may be unset
//   - WindowState / LayersState: one snapshot of window manager / compositor state
//   - Trace[E]: ordered snapshots with slicing and lookup
//   - Matcher / ComponentName: identifies one logical UI element across snapshots
//   - Reader: access to the traces of one recorded run
package trace

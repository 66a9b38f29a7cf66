// Package subject provides fluent assertion wrappers over snapshots and
// traces.
//
// Entry subjects (WindowStateSubject, LayersStateSubject, RegionSubject)
// wrap one snapshot and return a *Failure when a predicate does not hold.
// Trace subjects compose those predicates over every entry of a trace with
// Chain, whose Then combinator expresses ordered state transitions:
//
//	err := subject.NewWindowTraceSubject(wm).
//		IsAppWindowOnTop(app).
//		Then().
//		IsAppWindowNotOnTop(app).
//		ForAllEntries()
//
// Evaluation is pure. Failures are returned, never panicked, and always
// carry the timestamp of the offending entry.
package subject

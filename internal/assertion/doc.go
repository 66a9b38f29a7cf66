// Package assertion generates and runs the checks that apply to a detected
// scenario.
//
// A Registry maps each scenario type to an ordered list of entries, each a
// Template bound to a component and a Stability. A Factory turns a scenario
// Instance into concrete Assertions in registry order, and Execute or an
// Executor runs them against the instance's reader. Evaluation failures,
// including panics, become failed Results and never abort a batch.
package assertion

// Package collector runs the assertion pipeline for recorded test runs and
// aggregates the results into metrics.
//
// For each run, Collect detects scenarios, generates and executes their
// assertions, updates the run status, and writes:
//
//	flicker_assertions_count   number of results
//	FAAS::<assertion>_<i>      0 if the i-th result of the assertion passed, else 1
//	winscope_file_path         the trace archive of the run
//
// Unexpected errors and panics in the pipeline are recorded as execution
// errors rather than propagated; ReportStatus writes FAAS_STATUS as 0 when
// none occurred and 1 otherwise. A stability mismatch within one assertion
// family is a configuration error and is returned to the caller.
package collector

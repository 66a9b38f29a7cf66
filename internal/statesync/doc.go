// Package statesync polls a live device until a set of conditions holds.
//
// A Helper is built over a supplier of fresh device dumps and a retry
// budget. WaitFor evaluates every condition against the same dump on each
// poll and stops at the first dump satisfying all of them:
//
//	Idle -> Polling -> Satisfied
//	                -> Exhausted
//
// The budget counts polls, not wall time. With N retries the supplier is
// called at most N times with N-1 sleeps in between; a dump satisfying the
// conditions on the first poll costs one call and no sleep.
//
// Exhaustion is an ordinary outcome (negative tests wait for things that
// must not happen) and is logged at Info. WaitForAndVerify turns it into
// an ExhaustedError for callers that require the conditions to hold.
package statesync

// Package store provides SQLite-backed storage for collected runs and
// their metrics.
//
// The store keeps three tables:
//   - runs: one row per collected test run
//   - assertion_results: the results of each run, in execution order
//   - metrics: string metrics grouped by session
//
// # Ordering
//
//   - Rows carry a seq INTEGER assigned on insert, never wall time
//   - All list queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

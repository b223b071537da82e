// Package store provides SQLite-backed durable storage for computed schedules.
//
// The store holds:
//   - Schedules: one row per distinct set of build inputs and tree
//   - Periods: every node of a schedule's tree, flattened in pre-order
//   - Runs: one row per save, identified by a UUIDv7
//
// # Identity
//
// Schedule IDs are content-addressed (canonical.ScheduleID covers the inputs
// and the tree hash), so saving the same computation twice stores the tree
// once and records two runs, while the same inputs rendered with a different
// interpretation table become a separate schedule. The tree hash
// (canonical.TreeHash) is stored alongside and re-checked when a schedule is
// read back.
//
// # Ordering
//
// Runs are ordered by a logical seq column, never by timestamps. Periods are
// read ORDER BY ordinal, which reproduces the tree's pre-order exactly.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

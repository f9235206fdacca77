// Package store provides SQLite-backed storage for txkv session transcripts.
//
// The store is an append-only log with two tables:
//   - sessions: one row per recorded session (UUIDv7 id, optional label)
//   - entries: one row per evaluated line, keyed by (session_id, seq)
//
// Transcripts are an audit trail for trace and replay. The key/value data of
// a session lives only in memory and is never loaded back from here.
//
// # Ordering
//
// All reads order by the logical clock: ORDER BY seq ASC for entries and
// ORDER BY created_seq ASC, id COLLATE BINARY ASC for sessions. Wall-clock
// timestamps are not stored.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING, so recording the same entry twice is a
// no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

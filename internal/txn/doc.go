// Package txn implements nested transactions over a kv.Store using undo
// journals.
//
// # Model
//
// Mutations are applied to the store immediately, whether or not a
// transaction is open. While at least one scope is open, every mutation first
// appends an UndoRecord holding the key's current value to the journal of the
// innermost scope. Scopes form a stack:
//
//   - Begin pushes an empty scope.
//   - Rollback pops the top scope and replays its journal last-to-first,
//     restoring each prior value directly on the store. Restoration is never
//     journaled, so outer scopes do not see the rollback.
//   - Commit discards the whole stack. The store already holds the final
//     values, so commit is O(1).
//
// Journals cost memory proportional to the number of mutations, not to the
// size of the store.
//
// The Manager owns its store. Mutation is only reachable through the Manager
// so no write can bypass the journal.
package txn

// Package engine evaluates txkv command lines against a session.
//
// A Session owns one txn.Manager (and through it one kv.Store) plus a
// logical clock. Eval parses a line, dispatches the command and returns a
// structured Response; it never prints and never exits the process. Rendering
// and the read loop belong to the driver in internal/cli.
//
// Evaluation is strictly sequential: one line is parsed, dispatched and
// answered before the next is accepted. A Session is not safe for concurrent
// use and needs no locking.
//
// Failures that the command language defines (invalid lines, ROLLBACK or
// COMMIT without a transaction) are part of the Response, not Go errors of
// Eval itself. After END the session is terminal: later lines are answered
// with StatusEnded and never reach the store.
package engine

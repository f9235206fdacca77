package store

import (
	"context"
	"fmt"

	"github.com/roach88/txkv/internal/transcript"
)

// CreateSession registers a new session.
// Sessions are numbered by created_seq, one past the highest existing value.
// Uses ON CONFLICT(id) DO NOTHING - creating an existing session is a no-op.
func (s *Store) CreateSession(ctx context.Context, id, label string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create session: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var next int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(created_seq), 0) + 1 FROM sessions`,
	).Scan(&next); err != nil {
		return fmt.Errorf("create session: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, label, created_seq)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, label, next)
	if err != nil {
		return fmt.Errorf("create session: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create session: commit: %w", err)
	}
	return nil
}

// WriteEntry appends an entry to a session.
// The entry must already carry its digest (see transcript.Seal).
// Uses ON CONFLICT(session_id, seq) DO NOTHING for idempotency.
//
// Note: The session must exist (foreign key constraint).
func (s *Store) WriteEntry(ctx context.Context, sessionID string, e transcript.Entry) error {
	if e.Digest == "" {
		return fmt.Errorf("write entry: seq %d has no digest", e.Seq)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries
		(session_id, seq, line, status, output, has_output, depth, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		sessionID,
		e.Seq,
		e.Line,
		e.Status,
		e.Output,
		e.HasOutput,
		e.Depth,
		e.Digest,
	)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// Recorder seals and writes entries for one session.
type Recorder struct {
	store     *Store
	sessionID string
}

// NewRecorder creates the session and returns a Recorder for it.
func (s *Store) NewRecorder(ctx context.Context, sessionID, label string) (*Recorder, error) {
	if err := s.CreateSession(ctx, sessionID, label); err != nil {
		return nil, err
	}
	return &Recorder{store: s, sessionID: sessionID}, nil
}

// SessionID returns the id entries are recorded under.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Record seals e with the session's digest and writes it.
func (r *Recorder) Record(ctx context.Context, e transcript.Entry) error {
	sealed, err := transcript.Seal(r.sessionID, e)
	if err != nil {
		return fmt.Errorf("record seq %d: %w", e.Seq, err)
	}
	return r.store.WriteEntry(ctx, r.sessionID, sealed)
}

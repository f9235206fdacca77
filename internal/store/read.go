package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/txkv/internal/transcript"
)

// ErrSessionNotFound is returned when a session id has no row.
var ErrSessionNotFound = errors.New("session not found")

// SessionInfo summarizes a recorded session.
type SessionInfo struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	CreatedSeq int64  `json:"created_seq"`
	Entries    int    `json:"entries"`
	LastSeq    int64  `json:"last_seq"`
}

// ListSessions returns every session in creation order.
// Returns an empty slice (not nil) if none exist.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label, s.created_seq, COUNT(e.seq), COALESCE(MAX(e.seq), 0)
		FROM sessions s
		LEFT JOIN entries e ON e.session_id = s.id
		GROUP BY s.id
		ORDER BY s.created_seq ASC, s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedSeq, &info.Entries, &info.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// ReadSession returns a session with all of its entries.
// Returns an error wrapping ErrSessionNotFound if the id is unknown.
func (s *Store) ReadSession(ctx context.Context, id string) (transcript.Session, error) {
	var sess transcript.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, fmt.Errorf("read session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return sess, fmt.Errorf("read session %s: %w", id, err)
	}

	sess.Entries, err = s.ReadEntries(ctx, id)
	if err != nil {
		return sess, err
	}
	return sess, nil
}

// ReadEntries returns a session's entries ordered by seq.
// Returns an empty slice (not nil) if the session has none.
func (s *Store) ReadEntries(ctx context.Context, sessionID string) ([]transcript.Entry, error) {
	return s.queryEntries(ctx, `
		SELECT seq, line, status, output, has_output, depth, digest
		FROM entries
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
}

// ReadEntriesWithStatus returns a session's entries with the given status,
// ordered by seq.
func (s *Store) ReadEntriesWithStatus(ctx context.Context, sessionID, status string) ([]transcript.Entry, error) {
	return s.queryEntries(ctx, `
		SELECT seq, line, status, output, has_output, depth, digest
		FROM entries
		WHERE session_id = ? AND status = ?
		ORDER BY seq ASC
	`, sessionID, status)
}

// LastSeq returns the highest recorded seq for a session, or 0.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM entries WHERE session_id = ?`, sessionID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]transcript.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []transcript.Entry{}
	for rows.Next() {
		var e transcript.Entry
		if err := rows.Scan(&e.Seq, &e.Line, &e.Status, &e.Output, &e.HasOutput, &e.Depth, &e.Digest); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

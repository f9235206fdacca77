package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessions_Empty(t *testing.T) {
	s := createTestStore(t)

	sessions, err := s.ListSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestListSessions_CountsEntries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, "s-1", ""))
	require.NoError(t, s.CreateSession(ctx, "s-2", ""))
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 1, "SET a 1", "ok", "")))
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 2, "GET a", "value", "1")))

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 2, sessions[0].Entries)
	assert.Equal(t, int64(2), sessions[0].LastSeq)
	assert.Equal(t, 0, sessions[1].Entries)
	assert.Equal(t, int64(0), sessions[1].LastSeq)
}

func TestReadSession_OrdersBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, "s-1", "ordered"))

	// Written out of order
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 3, "GET a", "value", "1")))
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 1, "SET a 1", "ok", "")))
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 2, "BEGIN", "ok", "")))

	sess, err := s.ReadSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", sess.ID)
	assert.Equal(t, "ordered", sess.Label)
	require.Len(t, sess.Entries, 3)
	for i, e := range sess.Entries {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReadEntries_EmptySliceNotNil(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, "s-1", ""))

	entries, err := s.ReadEntries(ctx, "s-1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestReadEntriesWithStatus(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, "s-1", ""))

	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 1, "ROLLBACK", "no_transaction", "NO TRANSACTION")))
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 2, "SET a 1", "ok", "")))
	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 3, "COMMIT", "no_transaction", "NO TRANSACTION")))

	entries, err := s.ReadEntriesWithStatus(ctx, "s-1", "no_transaction")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ROLLBACK", entries[0].Line)
	assert.Equal(t, "COMMIT", entries[1].Line)
}

func TestLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, "s-1", ""))

	seq, err := s.LastSeq(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, s.WriteEntry(ctx, "s-1", createTestEntry(t, "s-1", 7, "BEGIN", "ok", "")))
	seq, err = s.LastSeq(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}

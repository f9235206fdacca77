package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/txkv/internal/transcript"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEntry creates a sealed entry for sessionID.
func createTestEntry(t *testing.T, sessionID string, seq int64, line, status, output string) transcript.Entry {
	t.Helper()
	e := transcript.Entry{
		Seq:       seq,
		Line:      line,
		Status:    status,
		Output:    output,
		HasOutput: output != "",
	}
	sealed, err := transcript.Seal(sessionID, e)
	if err != nil {
		t.Fatalf("Seal() failed: %v", err)
	}
	return sealed
}

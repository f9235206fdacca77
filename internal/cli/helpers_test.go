package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/txkv/internal/engine"
	"github.com/roach88/txkv/internal/store"
	"github.com/roach88/txkv/internal/transcript"
)

// recordSession evaluates lines in a fresh session and records them.
func recordSession(t *testing.T, dbPath, id, label string, lines ...string) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	rec, err := st.NewRecorder(ctx, id, label)
	require.NoError(t, err)

	sess := engine.NewSession()
	for _, line := range lines {
		require.NoError(t, rec.Record(ctx, transcript.FromResponse(sess.Eval(line))))
	}
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "txkv.db")
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

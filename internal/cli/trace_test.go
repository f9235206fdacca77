package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMissingDatabaseFlag(t *testing.T) {
	_, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceEmptyDatabase(t *testing.T) {
	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", tempDB(t))
	require.NoError(t, err)
	assert.Equal(t, "No sessions found in database.\n", out)
}

func TestTraceEchoFormat(t *testing.T) {
	dbPath := tempDB(t)
	recordSession(t, dbPath, "s-1", "demo", "SET a 10", "GET a", "ROLLBACK")
	recordSession(t, dbPath, "s-2", "", "GET b")

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t,
		"# session s-1 (demo)\nSET a 10\nGET a\n> 10\nROLLBACK\n> NO TRANSACTION\n"+
			"\n# session s-2\nGET b\n> NULL\n",
		out)
}

func TestTraceStatusFilter(t *testing.T) {
	dbPath := tempDB(t)
	recordSession(t, dbPath, "s-1", "", "FOO", "SET a 1", "SET b", "GET a")

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}),
		"--db", dbPath, "--session", "s-1", "--status", "invalid")
	require.NoError(t, err)
	assert.Equal(t, "# session s-1\nFOO\n> INVALID COMMAND\nSET b\n> INVALID COMMAND\n", out)
}

func TestTraceInvalidStatus(t *testing.T) {
	_, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", tempDB(t), "--status", "broken")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid --status")
}

func TestTraceList(t *testing.T) {
	dbPath := tempDB(t)
	recordSession(t, dbPath, "s-1", "demo", "SET a 10", "GET a")
	recordSession(t, dbPath, "s-2", "", "BEGIN")

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--list")
	require.NoError(t, err)
	assert.Equal(t, "s-1\t2 entries\tlast seq 2\tdemo\ns-2\t1 entries\tlast seq 1\n", out)
}

func TestTraceJSON(t *testing.T) {
	dbPath := tempDB(t)
	recordSession(t, dbPath, "s-1", "", "SET a 10", "GET a")

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Sessions, 1)
	entries := resp.Data.Sessions[0].Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "10", entries[1].Output)
	assert.NotEmpty(t, entries[1].Digest)
}

func TestTraceUnknownSession(t *testing.T) {
	_, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", tempDB(t), "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceHelpText(t *testing.T) {
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	assert.Contains(t, cmd.Long, "echo format")
	assert.Contains(t, cmd.Long, "txkv trace --db")
}

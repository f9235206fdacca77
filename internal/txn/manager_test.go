package txn

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, m *Manager, key string) (string, bool) {
	t.Helper()
	return m.Get(key)
}

func TestManager_SetGetWithoutTransaction(t *testing.T) {
	m := New()
	m.Set("a", "10")

	v, ok := get(t, m, "a")
	require.True(t, ok)
	assert.Equal(t, "10", v)
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, 0, m.JournalLen())
}

func TestManager_UnsetMissingKey(t *testing.T) {
	m := New()
	m.Unset("missing")

	_, ok := get(t, m, "missing")
	assert.False(t, ok)
}

func TestManager_RollbackRestoresPreBeginState(t *testing.T) {
	m := New()
	m.Set("a", "10")
	m.Set("b", "keep")
	before := m.State()

	m.Begin()
	m.Set("a", "20")
	m.Set("a", "30")
	m.Set("c", "new")
	m.Unset("b")
	m.Unset("never")
	assert.Equal(t, 5, m.JournalLen())

	require.NoError(t, m.Rollback())
	assert.Equal(t, before, m.State())
	assert.Equal(t, 0, m.Depth())
}

func TestManager_RollbackSameKeyTwiceRestoresOriginal(t *testing.T) {
	m := New()
	m.Begin()
	m.Set("a", "1")
	m.Set("a", "2")
	m.Unset("a")
	m.Set("a", "3")

	require.NoError(t, m.Rollback())
	_, ok := get(t, m, "a")
	assert.False(t, ok, "key created inside the scope must be deleted")
}

func TestManager_NestedRollbackKeepsOuterScope(t *testing.T) {
	m := New()
	m.Set("a", "10")

	m.Begin()
	m.Set("a", "20")
	m.Set("b", "outer")

	m.Begin()
	m.Set("a", "30")
	m.Unset("b")
	m.Set("c", "inner")

	require.NoError(t, m.Rollback())
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, map[string]string{"a": "20", "b": "outer"}, m.State())

	// Rollback is applied directly: the outer journal is unchanged.
	assert.Equal(t, 2, m.JournalLen())

	require.NoError(t, m.Rollback())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, map[string]string{"a": "10"}, m.State())
}

func TestManager_InnerScopeJournalsOuterValue(t *testing.T) {
	m := New()
	m.Begin()
	m.Set("a", "outer")
	m.Begin()
	m.Set("a", "inner")

	require.Len(t, m.scopes, 2)
	assert.Equal(t, []UndoRecord{{Key: "a", Existed: false}}, m.scopes[0].journal)
	assert.Equal(t, []UndoRecord{{Key: "a", Prior: "outer", Existed: true}}, m.scopes[1].journal)
}

func TestManager_CommitFlattensAllScopes(t *testing.T) {
	m := New()
	m.Set("a", "10")
	m.Begin()
	m.Set("a", "20")
	m.Begin()
	m.Set("a", "30")
	m.Set("b", "x")

	require.NoError(t, m.Commit())
	assert.Equal(t, 0, m.Depth())
	assert.False(t, m.InTransaction())
	assert.Equal(t, map[string]string{"a": "30", "b": "x"}, m.State())

	err := m.Rollback()
	assert.ErrorIs(t, err, ErrNoOpenTransaction)
	assert.Equal(t, map[string]string{"a": "30", "b": "x"}, m.State())
}

func TestManager_NoOpenTransaction(t *testing.T) {
	m := New()
	m.Set("a", "10")

	for _, op := range []struct {
		name string
		fn   func() error
	}{
		{"rollback", m.Rollback},
		{"commit", m.Commit},
	} {
		t.Run(op.name, func(t *testing.T) {
			err := op.fn()
			require.Error(t, err)
			assert.True(t, IsNoOpenTransaction(err))
			assert.True(t, IsNoOpenTransaction(fmt.Errorf("wrapped: %w", err)))
			assert.Equal(t, map[string]string{"a": "10"}, m.State())
			assert.Equal(t, 0, m.Depth())
		})
	}
}

func TestManager_DeepNesting(t *testing.T) {
	m := New()
	const depth = 100
	for i := 0; i < depth; i++ {
		m.Begin()
		m.Set("k", fmt.Sprintf("%d", i))
	}
	assert.Equal(t, depth, m.Depth())

	for i := depth - 1; i > 0; i-- {
		require.NoError(t, m.Rollback())
		v, ok := get(t, m, "k")
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("%d", i-1), v)
	}
	require.NoError(t, m.Rollback())
	_, ok := get(t, m, "k")
	assert.False(t, ok)
}

func TestManager_NumEqualToSeesUncommittedState(t *testing.T) {
	m := New()
	m.Set("a", "10")
	m.Begin()
	m.Set("b", "10")
	assert.Equal(t, 2, m.NumEqualTo("10"))

	require.NoError(t, m.Rollback())
	assert.Equal(t, 1, m.NumEqualTo("10"))
}

func TestManager_EmptyScopeRollback(t *testing.T) {
	m := New()
	m.Set("a", "1")
	m.Begin()
	require.NoError(t, m.Rollback())
	assert.Equal(t, map[string]string{"a": "1"}, m.State())
}

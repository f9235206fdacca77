package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s := New()
	s.Set("a", "10")

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "10", v)

	s.Set("a", "20")
	v, _ = s.Get("a")
	assert.Equal(t, "20", v)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetMissing(t *testing.T) {
	s := New()
	v, ok := s.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_Unset(t *testing.T) {
	s := New()
	s.Set("a", "10")
	s.Unset("a")

	_, ok := s.Get("a")
	assert.False(t, ok)

	// Absent key is a no-op
	s.Unset("never-set")
	assert.Equal(t, 0, s.Len())
}

func TestStore_NumEqualTo(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.NumEqualTo("10"))

	s.Set("a", "10")
	s.Set("b", "10")
	s.Set("c", "20")
	assert.Equal(t, 2, s.NumEqualTo("10"))
	assert.Equal(t, 1, s.NumEqualTo("20"))
	assert.Equal(t, 0, s.NumEqualTo("30"))

	// String equality only: no numeric coercion
	assert.Equal(t, 0, s.NumEqualTo("10.0"))

	s.Unset("a")
	assert.Equal(t, 1, s.NumEqualTo("10"))
}

func TestStore_SnapshotSorted(t *testing.T) {
	s := New()
	assert.NotNil(t, s.Snapshot())
	assert.Empty(t, s.Snapshot())

	s.Set("b", "2")
	s.Set("a", "1")
	s.Set("c", "3")

	assert.Equal(t, []Entry{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
	}, s.Snapshot())
}

func TestStore_MapIsCopy(t *testing.T) {
	s := New()
	s.Set("a", "1")

	m := s.Map()
	m["a"] = "changed"
	m["b"] = "new"

	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, s.Len())
}

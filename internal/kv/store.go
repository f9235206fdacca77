// Package kv provides the in-memory key/value mapping that backs a session.
//
// Store is not safe for concurrent use. It is owned by a single
// txn.Manager, which serializes every access.
package kv

import (
	"maps"
	"slices"
)

// Entry is a single key/value pair, used for snapshots.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Store maps keys to values. Values are opaque strings.
type Store struct {
	entries map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]string)}
}

// Set inserts or overwrites key.
func (s *Store) Set(key, value string) {
	s.entries[key] = value
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Unset removes key. Removing an absent key is a no-op.
func (s *Store) Unset(key string) {
	delete(s.entries, key)
}

// NumEqualTo counts entries whose value equals value exactly.
// Runs in O(n) over all entries.
func (s *Store) NumEqualTo(value string) int {
	count := 0
	for _, v := range s.entries {
		if v == value {
			count++
		}
	}
	return count
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Snapshot returns every entry sorted by key.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) Snapshot() []Entry {
	keys := slices.Sorted(maps.Keys(s.entries))
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: s.entries[k]})
	}
	return out
}

// Map returns a copy of the entries.
func (s *Store) Map() map[string]string {
	return maps.Clone(s.entries)
}

package txn

import (
	"errors"

	"github.com/roach88/txkv/internal/kv"
)

// ErrNoOpenTransaction is returned by Rollback and Commit when the scope
// stack is empty. The store is left untouched.
var ErrNoOpenTransaction = errors.New("no open transaction")

// IsNoOpenTransaction returns true if err is, or wraps, ErrNoOpenTransaction.
func IsNoOpenTransaction(err error) bool {
	return errors.Is(err, ErrNoOpenTransaction)
}

// UndoRecord captures the value a key held immediately before a mutation.
// Existed is false when the key was absent; reverting such a record deletes
// the key.
type UndoRecord struct {
	Key     string
	Prior   string
	Existed bool
}

// scope is one open transaction. Scopes never reference each other or the
// store; their identity is their position on the stack.
type scope struct {
	journal []UndoRecord
}

type mutationKind int

const (
	mutationSet mutationKind = iota
	mutationUnset
)

type mutation struct {
	kind  mutationKind
	value string
}

// Manager routes mutations through the journal of the innermost open scope.
// Not safe for concurrent use.
type Manager struct {
	store  *kv.Store
	scopes []scope
}

// New creates a Manager that owns a fresh, empty store.
func New() *Manager {
	return &Manager{store: kv.New()}
}

// Begin opens a new scope nested inside any already open ones.
func (m *Manager) Begin() {
	m.scopes = append(m.scopes, scope{})
}

// Set stores value under key.
func (m *Manager) Set(key, value string) {
	m.recordAndApply(key, mutation{kind: mutationSet, value: value})
}

// Unset removes key. Unsetting an absent key is not an error.
func (m *Manager) Unset(key string) {
	m.recordAndApply(key, mutation{kind: mutationUnset})
}

// recordAndApply is the single path every mutation takes. With a scope open,
// the key's current visible value is appended to the top journal before the
// mutation is applied.
func (m *Manager) recordAndApply(key string, mut mutation) {
	if n := len(m.scopes); n > 0 {
		prior, existed := m.store.Get(key)
		top := &m.scopes[n-1]
		top.journal = append(top.journal, UndoRecord{Key: key, Prior: prior, Existed: existed})
	}
	apply(m.store, key, mut)
}

func apply(store *kv.Store, key string, mut mutation) {
	switch mut.kind {
	case mutationSet:
		store.Set(key, mut.value)
	case mutationUnset:
		store.Unset(key)
	}
}

// Rollback closes the innermost scope, undoing its mutations in reverse
// order. Outer scopes remain open.
// Returns ErrNoOpenTransaction if no scope is open.
func (m *Manager) Rollback() error {
	n := len(m.scopes)
	if n == 0 {
		return ErrNoOpenTransaction
	}

	top := m.scopes[n-1]
	m.scopes[n-1] = scope{}
	m.scopes = m.scopes[:n-1]

	for i := len(top.journal) - 1; i >= 0; i-- {
		rec := top.journal[i]
		if rec.Existed {
			m.store.Set(rec.Key, rec.Prior)
		} else {
			m.store.Unset(rec.Key)
		}
	}
	return nil
}

// Commit closes every open scope and keeps all applied mutations.
// Returns ErrNoOpenTransaction if no scope is open.
func (m *Manager) Commit() error {
	if len(m.scopes) == 0 {
		return ErrNoOpenTransaction
	}
	m.scopes = nil
	return nil
}

// Get returns the current value of key.
func (m *Manager) Get(key string) (string, bool) {
	return m.store.Get(key)
}

// NumEqualTo counts keys whose current value equals value.
func (m *Manager) NumEqualTo(value string) int {
	return m.store.NumEqualTo(value)
}

// Snapshot returns the current entries sorted by key.
func (m *Manager) Snapshot() []kv.Entry {
	return m.store.Snapshot()
}

// State returns a copy of the current entries.
func (m *Manager) State() map[string]string {
	return m.store.Map()
}

// Depth returns the number of open scopes.
func (m *Manager) Depth() int {
	return len(m.scopes)
}

// InTransaction reports whether any scope is open.
func (m *Manager) InTransaction() bool {
	return len(m.scopes) > 0
}

// JournalLen returns the number of undo records held by the innermost scope,
// or 0 when no scope is open.
func (m *Manager) JournalLen() int {
	if n := len(m.scopes); n > 0 {
		return len(m.scopes[n-1].journal)
	}
	return 0
}

// Package history holds the in-memory, append-only session log that the
// analytics engine reads. SQLite persists sessions durably; this store is
// the consistent snapshot the pure computations run against.
package history

import (
	"sync"

	"github.com/ksen/caseflash/internal/models"
)

// Store is an append-only log of completed sessions, most recent first.
// Appends are atomic with respect to readers: a session is either fully
// visible with all its details or not visible at all.
type Store struct {
	mu       sync.RWMutex
	sessions []models.SessionRecord
	version  uint64
}

// NewStore creates a store seeded with existing history, most recent first.
func NewStore(initial []models.SessionRecord) *Store {
	s := &Store{}
	s.sessions = append(s.sessions, initial...)
	return s
}

// Append prepends a completed session, keeping recency order.
func (s *Store) Append(rec models.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]models.SessionRecord{rec}, s.sessions...)
	s.version++
}

// Replace swaps the entire log, used by import and bulk reset.
func (s *Store) Replace(sessions []models.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]models.SessionRecord(nil), sessions...)
	s.version++
}

// Snapshot returns a copy of the log, most recent first. The copy is safe to
// read while appends continue.
func (s *Store) Snapshot() []models.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SessionRecord(nil), s.sessions...)
}

// Len reports the number of recorded sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Version increments on every mutation; derived caches key off it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

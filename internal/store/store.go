// Package store holds the session-scoped member table. The table lives
// only in process memory and changes solely by wholesale replacement, so a
// read never observes a partially updated dataset.
package store

import (
	"sync"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// MemberStore is the in-memory member table shared by the HTTP handlers.
type MemberStore struct {
	mu         sync.RWMutex
	members    []domain.Member
	byID       map[string]int
	replacedAt time.Time
}

// NewMemberStore returns an empty table.
func NewMemberStore() *MemberStore {
	return &MemberStore{byID: map[string]int{}}
}

// Replace swaps the whole table for the provided records. Records are
// treated as immutable after this call.
func (s *MemberStore) Replace(members []domain.Member) {
	copied := make([]domain.Member, len(members))
	copy(copied, members)

	index := make(map[string]int, len(copied))
	for i, m := range copied {
		index[m.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = copied
	s.byID = index
	s.replacedAt = time.Now().UTC()
}

// Snapshot returns a copy of the current table.
func (s *MemberStore) Snapshot() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Member, len(s.members))
	copy(out, s.members)
	return out
}

// Get looks up a single member by ID.
func (s *MemberStore) Get(id string) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return domain.Member{}, false
	}
	return s.members[idx], true
}

// Len reports the current table size.
func (s *MemberStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// ReplacedAt reports when the table was last replaced. Zero means no
// dataset has been loaded yet.
func (s *MemberStore) ReplacedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replacedAt
}

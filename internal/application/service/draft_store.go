package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
)

// draftEntry is one working invoice. mu serializes every command on the draft.
type draftEntry struct {
	mu       sync.Mutex
	owner    uuid.UUID
	draft    *billing.Draft
	guard    *billing.CustomerFetchGuard
	lastUsed time.Time
}

// DraftStore keeps working drafts in memory, keyed by draft id
type DraftStore struct {
	mu      sync.RWMutex
	entries map[string]*draftEntry
}

// NewDraftStore creates an empty store
func NewDraftStore() *DraftStore {
	return &DraftStore{entries: make(map[string]*draftEntry)}
}

func (s *DraftStore) put(owner uuid.UUID, d *billing.Draft, now time.Time) *draftEntry {
	e := &draftEntry{
		owner:    owner,
		draft:    d,
		guard:    billing.NewCustomerFetchGuard(),
		lastUsed: now,
	}
	s.mu.Lock()
	s.entries[d.ID] = e
	s.mu.Unlock()
	return e
}

// get returns the entry only to its owner
func (s *DraftStore) get(owner uuid.UUID, id string) (*draftEntry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || e.owner != owner {
		return nil, false
	}
	return e, true
}

func (s *DraftStore) delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len reports how many drafts are open
func (s *DraftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictIdle drops drafts not touched since cutoff and returns how many were dropped
func (s *DraftStore) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

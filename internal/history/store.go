// Package history records cleaning runs for the dashboard's recent-runs
// list. Only run metadata is stored; the cleaned table itself never
// persists beyond the response.
package history

import (
	"context"
	"sync"
	"time"

	"rosterclean/internal/roster"
)

// Entry describes one completed cleaning run.
type Entry struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"-"`
	TookMs    int64         `json:"tookMs"`
	Report    roster.Report `json:"report"`
}

// Store persists run entries. Implementations must be safe for
// concurrent use.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// MemoryStore keeps the most recent entries in a fixed-size ring.
// It is the default store when no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

// NewMemoryStore creates a store retaining at most max entries.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 100
	}
	return &MemoryStore{max: max}
}

// Record adds an entry, evicting the oldest once the ring is full.
func (s *MemoryStore) Record(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

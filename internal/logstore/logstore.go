// Package logstore keeps a per-lock, append-only action journal in memory.
// Entries are immutable once appended; a journal is only ever discarded
// whole, when the lock's admin is removed.
package logstore

import (
	"sync"

	"github.com/smartlatch/smartlatch/internal/model"
)

type Store struct {
	mu       sync.Mutex
	journals map[string][]model.LogEntry
}

func New() *Store {
	return &Store{journals: map[string][]model.LogEntry{}}
}

// Append adds an entry to the code's journal, creating the journal on
// first use. Order is arrival order.
func (s *Store) Append(code string, entry model.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals[code] = append(s.journals[code], entry)
}

// ListByCode returns the journal's entries in append order. Unknown codes
// yield an empty slice, not an error.
func (s *Store) ListByCode(code string) []model.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.journals[code]
	out := make([]model.LogEntry, len(entries))
	copy(out, entries)
	return out
}

// DiscardByCode drops the code's entire journal.
func (s *Store) DiscardByCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.journals, code)
}

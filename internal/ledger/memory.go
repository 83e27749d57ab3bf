package ledger

import (
	"sort"
	"sync"

	"MarathonTracker/internal/model"
)

// MemoryStore keeps the ledger in memory. Used when no SQLite path is
// configured; nothing survives a restart.
type MemoryStore struct {
	mu      sync.Mutex
	params  *model.MarathonParams
	entries map[int]model.BalanceEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int]model.BalanceEntry)}
}

func (s *MemoryStore) Params() (*model.MarathonParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params == nil {
		return nil, nil
	}
	p := *s.params
	return &p, nil
}

func (s *MemoryStore) ReplaceParams(p *model.MarathonParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.params = &cp
	return nil
}

func (s *MemoryStore) UpsertEntry(e *model.BalanceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Day] = *e
	return nil
}

func (s *MemoryStore) ListEntries() ([]model.BalanceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]model.BalanceEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}

func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = nil
	s.entries = make(map[int]model.BalanceEntry)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

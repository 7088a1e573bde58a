package history

import (
	"context"
	"sort"
	"sync"

	"github.com/alsdiag/alsdiag/internal/diff"
)

// MemoryStore is an in-process Store used by tests and one-shot analyses
// that have no database configured.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string][]VersionRecord
	changes  []diff.Change
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string][]VersionRecord)}
}

func (s *MemoryStore) Append(_ context.Context, rec VersionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.versions[rec.Project]
	if n := len(recs); n > 0 && rec.Timestamp.Before(recs[n-1].Timestamp) {
		return &ConcurrencyConflictError{Project: rec.Project}
	}
	s.versions[rec.Project] = append(recs, rec)
	return nil
}

func (s *MemoryStore) History(_ context.Context, project string) ([]VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.versions[project]
	out := make([]VersionRecord, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemoryStore) Latest(_ context.Context, project string) (VersionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.versions[project]
	if len(recs) == 0 {
		return VersionRecord{}, false, nil
	}
	return recs[len(recs)-1], true, nil
}

func (s *MemoryStore) Projects(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) RecordChanges(_ context.Context, _, _ string, changes []diff.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changes = append(s.changes, changes...)
	return nil
}

func (s *MemoryStore) AllChanges(_ context.Context) ([]diff.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]diff.Change, len(s.changes))
	copy(out, s.changes)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

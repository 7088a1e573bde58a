package history

import (
	"context"
	"sync"

	"github.com/alsdiag/alsdiag/internal/diff"
)

// SerializedStore wraps a Store so that writes touching the same project
// run one at a time. Writes to different projects proceed in parallel,
// which is what the batch scanner needs.
type SerializedStore struct {
	inner Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func Serialized(inner Store) *SerializedStore {
	return &SerializedStore{inner: inner, locks: make(map[string]*sync.Mutex)}
}

func (s *SerializedStore) lockFor(project string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[project]
	if !ok {
		l = &sync.Mutex{}
		s.locks[project] = l
	}
	return l
}

func (s *SerializedStore) Append(ctx context.Context, rec VersionRecord) error {
	l := s.lockFor(rec.Project)
	l.Lock()
	defer l.Unlock()
	return s.inner.Append(ctx, rec)
}

func (s *SerializedStore) RecordChanges(ctx context.Context, project, scanID string, changes []diff.Change) error {
	l := s.lockFor(project)
	l.Lock()
	defer l.Unlock()
	return s.inner.RecordChanges(ctx, project, scanID, changes)
}

func (s *SerializedStore) History(ctx context.Context, project string) ([]VersionRecord, error) {
	return s.inner.History(ctx, project)
}

func (s *SerializedStore) Latest(ctx context.Context, project string) (VersionRecord, bool, error) {
	return s.inner.Latest(ctx, project)
}

func (s *SerializedStore) Projects(ctx context.Context) ([]string, error) {
	return s.inner.Projects(ctx)
}

func (s *SerializedStore) AllChanges(ctx context.Context) ([]diff.Change, error) {
	return s.inner.AllChanges(ctx)
}

func (s *SerializedStore) Close() error { return s.inner.Close() }

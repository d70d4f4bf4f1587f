// Package dashboard contains the business logic for the dashboard
// service: the job list store, load orchestration, per-session view state
// and the HTTP surface. It is the single writer of dashboard state.
package dashboard

import (
	"sync"
	"time"

	"collabhub/dashboard-service/internal/jobs"
)

// Snapshot is one immutable dashboard load: the resolved user, the
// normalized job collection and the counts derived from it. Counts are
// computed exactly once, when the snapshot is built, so they can never
// drift from the collection they describe.
type Snapshot struct {
	User     jobs.User         `json:"user"`
	Jobs     []jobs.DisplayJob `json:"jobs"`
	Counts   jobs.Counts       `json:"counts"`
	Version  uint64            `json:"version"`
	LoadedAt time.Time         `json:"loaded_at"`
}

// Store holds one snapshot per session key. Snapshots are replaced whole,
// never mutated in place, so concurrent readers cannot observe a torn
// collection.
type Store struct {
	mu       sync.RWMutex
	snaps    map[string]*Snapshot
	loading  map[string]bool
	versions map[string]uint64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		snaps:    make(map[string]*Snapshot),
		loading:  make(map[string]bool),
		versions: make(map[string]uint64),
	}
}

// Get returns the held snapshot for key, if any.
func (s *Store) Get(key string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[key]
	return snap, ok
}

// Replace builds a fresh snapshot from user and list and swaps it in
// atomically. A nil list becomes an empty one so the dashboard renders
// "no jobs" instead of null.
func (s *Store) Replace(key string, user jobs.User, list []jobs.DisplayJob) *Snapshot {
	if list == nil {
		list = []jobs.DisplayJob{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[key]++
	snap := &Snapshot{
		User:     user,
		Jobs:     list,
		Counts:   jobs.CountByStatus(list),
		Version:  s.versions[key],
		LoadedAt: time.Now().UTC(),
	}
	s.snaps[key] = snap
	return snap
}

// Adopt installs a snapshot restored from the shared cache, keeping the
// version counter monotonic for this process.
func (s *Store) Adopt(key string, snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Version > s.versions[key] {
		s.versions[key] = snap.Version
	}
	s.snaps[key] = snap
}

// SetLoading flips the loading flag for key.
func (s *Store) SetLoading(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.loading[key] = true
	} else {
		delete(s.loading, key)
	}
}

// Loading reports whether a load is in progress for key.
func (s *Store) Loading(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[key]
}

// Drop forgets all state held for key.
func (s *Store) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, key)
	delete(s.loading, key)
	delete(s.versions, key)
}

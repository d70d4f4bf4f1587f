package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"collabhub/dashboard-service/internal/jobs"
)

// API is the slice of the marketplace backend the dashboard loads from.
type API interface {
	Me(ctx context.Context, token string) (jobs.User, error)
	MyJobs(ctx context.Context, token string, employerID int, status jobs.Status) ([]jobs.RawJob, error)
}

// Service orchestrates dashboard loads: resolve the caller, fetch their
// posted jobs, normalize, and atomically replace the held snapshot.
type Service struct {
	api   API
	store *Store
	cache *SnapshotCache // optional; nil disables cross-replica sharing
}

// NewService constructs a Service. cache may be nil.
func NewService(api API, store *Store, cache *SnapshotCache) *Service {
	return &Service{api: api, store: store, cache: cache}
}

// SessionKey derives the store/cache key for a bearer token. Raw tokens
// never appear in keys or logs.
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// Dashboard returns the caller's snapshot: the in-memory one when held,
// else the shared cache, else a fresh load.
func (s *Service) Dashboard(ctx context.Context, token string) *Snapshot {
	key := SessionKey(token)
	if snap, ok := s.store.Get(key); ok {
		return snap
	}
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("snapshot cache read failed", "err", err)
		} else if snap != nil {
			s.store.Adopt(key, snap)
			return snap
		}
	}
	return s.Refresh(ctx, token)
}

// Refresh loads the caller's dashboard from the backend and replaces the
// snapshot in one step. The job fetch is ordered after the user fetch
// because it needs the resolved employer id.
//
// Failures degrade silently: the snapshot becomes empty, the loading flag
// clears, the error is logged — never returned. The page renders "no
// jobs" rather than an error state.
func (s *Service) Refresh(ctx context.Context, token string) *Snapshot {
	key := SessionKey(token)
	s.store.SetLoading(key, true)
	defer s.store.SetLoading(key, false)

	user, err := s.api.Me(ctx, token)
	if err != nil {
		slog.Error("dashboard refresh: current user fetch failed", "err", err)
		return s.store.Replace(key, jobs.User{}, nil)
	}

	raws, err := s.api.MyJobs(ctx, token, user.ID, jobs.StatusPosted)
	if err != nil {
		slog.Error("dashboard refresh: jobs fetch failed", "employer_id", user.ID, "err", err)
		return s.store.Replace(key, user, nil)
	}

	snap := s.store.Replace(key, user, jobs.NormalizeAll(raws, user))

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, snap); err != nil {
			slog.Warn("snapshot cache write failed", "err", err)
		}
		if err := s.cache.RememberSession(ctx, key, token); err != nil {
			slog.Warn("session registration failed", "err", err)
		}
	}
	return snap
}

// Loading reports whether a load is in progress for the caller.
func (s *Service) Loading(token string) bool {
	return s.store.Loading(SessionKey(token))
}

// ActiveSessions lists callers eligible for background re-warming.
// Without a cache there is nothing to re-warm.
func (s *Service) ActiveSessions(ctx context.Context) ([]Session, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.ActiveSessions(ctx)
}

// Package scheduler wires up the cron job that periodically re-warms
// dashboard snapshots for every recently active session, so a returning
// user sees fresh data without waiting on the backend.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"collabhub/dashboard-service/internal/dashboard"
)

// Scheduler wraps robfig/cron and manages the re-warm loop.
type Scheduler struct {
	cron *cron.Cron
	svc  *dashboard.Service
	spec string // cron spec, e.g. "@every 10m"
}

// New creates a Scheduler that fires every intervalMinutes minutes.
func New(svc *dashboard.Service, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:  svc,
		spec: fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.rewarm(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("re-warm cron started", "spec", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("re-warm cron stopped")
}

// rewarm refreshes the snapshot of every active session. Individual
// failures already degrade inside Refresh, so the loop never aborts.
func (s *Scheduler) rewarm(ctx context.Context) {
	sessions, err := s.svc.ActiveSessions(ctx)
	if err != nil {
		slog.Error("re-warm: listing active sessions failed", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}

	slog.Info("re-warm cycle started", "sessions", len(sessions))
	for _, sess := range sessions {
		s.svc.Refresh(ctx, sess.Token)
	}
	slog.Info("re-warm cycle complete", "sessions", len(sessions))
}

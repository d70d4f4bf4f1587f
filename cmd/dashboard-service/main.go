// collabhub-dashboard-service
//
// Backend-for-frontend for the creator dashboard. It aggregates the
// marketplace REST backend into a single dashboard payload:
//   - current user + posted jobs, normalized and counted
//   - per-session view state (tabs, expanded cards, all-jobs modal)
//   - phone/email OTP verification flow
//
// Snapshots are cached in Redis and re-warmed on a cron for every
// recently active session.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabhub/dashboard-service/internal/config"
	"collabhub/dashboard-service/internal/dashboard"
	"collabhub/dashboard-service/internal/db"
	"collabhub/dashboard-service/internal/logging"
	"collabhub/dashboard-service/internal/marketplace"
	"collabhub/dashboard-service/internal/scheduler"
	"collabhub/dashboard-service/internal/verification"
)

const version = "1.0.0"

func main() {
	logging.New()

	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Redis ────────────────────────────────────────────────────────────────
	slog.Info("connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("redis", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("Redis connected")

	// ── Wiring ───────────────────────────────────────────────────────────────
	client := marketplace.NewClient(cfg.MarketplaceAPIURL)
	store := dashboard.NewStore()
	cache := dashboard.NewSnapshotCache(rdb, time.Duration(cfg.SnapshotTTLMinutes)*time.Minute)
	svc := dashboard.NewService(client, store, cache)

	throttle := verification.NewRedisThrottle(rdb, time.Duration(cfg.OTPCooldownSeconds)*time.Second)
	otp := verification.NewManager(client, throttle)

	// ── Re-warm cron ─────────────────────────────────────────────────────────
	rewarm := scheduler.New(svc, cfg.RewarmIntervalMinutes)
	if err := rewarm.Start(ctx); err != nil {
		slog.Error("scheduler", "err", err)
		os.Exit(1)
	}
	defer rewarm.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := dashboard.NewHandler(svc, dashboard.NewViews(), otp)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("dashboard-service listening", "version", version, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	slog.Info("stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "dashboard-service",
		"version": version,
	})
}

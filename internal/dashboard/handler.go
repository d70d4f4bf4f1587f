// Dashboard HTTP handlers.
//
// All routes expect the caller's marketplace bearer token in the
// Authorization header; it is forwarded to the backend unchanged.
//
// Routes:
//
//	GET  /dashboard                            → full dashboard payload
//	GET  /dashboard/jobs                       → "view all jobs" modal payload
//	POST /dashboard/refresh                    → force a reload from the backend
//	POST /dashboard/view                       → apply a view action (tab/expand/modal)
//	POST /verification/{channel}/send-otp      → start OTP flow for phone|email
//	POST /verification/{channel}/verify-otp    → submit the entered code
//	POST /verification/dismiss                 → close the modal, discard the session
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"collabhub/dashboard-service/internal/verification"
)

// Handler holds shared dependencies.
type Handler struct {
	svc   *Service
	views *Views
	otp   *verification.Manager
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, views *Views, otp *verification.Manager) *Handler {
	return &Handler{svc: svc, views: views, otp: otp}
}

// RegisterRoutes mounts all dashboard-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/dashboard", h.handleDashboard)
	mux.HandleFunc("/dashboard/jobs", h.handleAllJobs)
	mux.HandleFunc("/dashboard/refresh", h.handleRefresh)
	mux.HandleFunc("/dashboard/view", h.handleView)
	mux.HandleFunc("/verification/", h.handleVerificationAction)
	mux.HandleFunc("/verification/dismiss", h.handleDismiss)
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(w, r)
	if !ok {
		return
	}

	snap := h.svc.Dashboard(r.Context(), token)
	key := SessionKey(token)
	jsonOK(w, RenderDashboard(snap, h.views.Get(key), h.otp.Status(key), h.svc.Loading(token)))
}

func (h *Handler) handleAllJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(w, r)
	if !ok {
		return
	}

	snap := h.svc.Dashboard(r.Context(), token)
	jsonOK(w, RenderAllJobs(snap, h.views.Get(SessionKey(token))))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(w, r)
	if !ok {
		return
	}

	snap := h.svc.Refresh(r.Context(), token)
	key := SessionKey(token)
	jsonOK(w, RenderDashboard(snap, h.views.Get(key), h.otp.Status(key), false))
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(w, r)
	if !ok {
		return
	}

	var action ViewAction
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	state, err := h.views.Apply(SessionKey(token), action)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonOK(w, state)
}

// ─── Verification ────────────────────────────────────────────────────────────

// verificationResponse pairs a user-facing message with the flow snapshot.
type verificationResponse struct {
	Message string               `json:"message"`
	Session verification.Session `json:"session"`
}

// handleVerificationAction handles POST /verification/{channel}/{action}.
func (h *Handler) handleVerificationAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(w, r)
	if !ok {
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	channel, err := verification.ParseChannel(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := SessionKey(token)
	switch parts[2] {
	case "send-otp":
		h.sendOTP(w, r, key, token, channel)
	case "verify-otp":
		h.verifyOTP(w, r, key, token, channel)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", parts[2]), http.StatusNotFound)
	}
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request, key, token string, channel verification.Channel) {
	sess, err := h.otp.Begin(r.Context(), key, token, channel)
	switch {
	case errors.Is(err, verification.ErrCooldown):
		jsonError(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, verification.ErrSendInProgress):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, verification.ErrSendFailed):
		slog.Warn("otp send failed", "channel", channel, "err", err)
		jsonError(w, "failed to send OTP", http.StatusBadGateway)
	case err != nil:
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonOK(w, verificationResponse{Message: "OTP sent successfully", Session: sess})
	}
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request, key, token string, channel verification.Channel) {
	var body struct {
		OTP string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sess, err := h.otp.Submit(r.Context(), key, token, strings.TrimSpace(body.OTP))
	switch {
	case errors.Is(err, verification.ErrEmptyCode):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, verification.ErrNoSession):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, verification.ErrVerifyFailed):
		jsonError(w, "invalid OTP", http.StatusBadRequest)
	case err != nil:
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonOK(w, verificationResponse{
			Message: fmt.Sprintf("%s verified successfully", channel),
			Session: sess,
		})
	}
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(w, r)
	if !ok {
		return
	}
	jsonOK(w, h.otp.Dismiss(SessionKey(token)))
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// bearerToken extracts the caller's token, writing a 401 when missing.
func bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		jsonError(w, "missing bearer token", http.StatusUnauthorized)
		return "", false
	}
	return token, true
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

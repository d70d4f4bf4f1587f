package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Flow errors surfaced to the caller. Send and verify failures wrap the
// underlying transport error.
var (
	ErrEmptyCode      = errors.New("enter a code before submitting")
	ErrNoSession      = errors.New("no active verification session")
	ErrSendInProgress = errors.New("a code is already being sent")
	ErrCooldown       = errors.New("wait before requesting another code")
	ErrSendFailed     = errors.New("failed to send verification code")
	ErrVerifyFailed   = errors.New("invalid or expired verification code")
)

// Sender issues the OTP requests against the backend on behalf of the
// caller identified by token.
type Sender interface {
	SendOTP(ctx context.Context, token, channel string) error
	VerifyOTP(ctx context.Context, token, channel, code string) error
}

// Throttle rate-limits code sends per session and channel. Implementations
// report whether a send is currently allowed.
type Throttle interface {
	AllowSend(ctx context.Context, sessionKey string, ch Channel) (bool, error)
}

// Session is a snapshot of one caller's verification flow. Code holds the
// last submitted code so a failed verify can be corrected in place.
type Session struct {
	ID        string  `json:"id"`
	Channel   Channel `json:"channel"`
	State     State   `json:"state"`
	ModalOpen bool    `json:"modal_open"`
	Sending   bool    `json:"sending"`
	Code      string  `json:"-"`
}

// session is the mutable record behind a Session snapshot. gen increments
// on dismissal so responses from in-flight requests can be recognised as
// stale and dropped; the requests themselves are not cancelled, so the
// backend side effect (a code actually sent, a channel actually verified)
// still happens.
type session struct {
	Session
	gen uint64
}

// Manager owns all verification sessions, keyed by caller session key.
// It is the single writer of flow state.
type Manager struct {
	mu       sync.Mutex
	sender   Sender
	throttle Throttle // optional
	sessions map[string]*session
}

// NewManager constructs a Manager. throttle may be nil to disable resend
// cooldowns.
func NewManager(sender Sender, throttle Throttle) *Manager {
	return &Manager{
		sender:   sender,
		throttle: throttle,
		sessions: make(map[string]*session),
	}
}

// Begin starts (or restarts) the flow for a channel: the modal opens
// immediately, before the send request completes, and the send is issued
// against the backend. On send failure the session stays open for retry.
func (m *Manager) Begin(ctx context.Context, key, token string, ch Channel) (Session, error) {
	m.mu.Lock()
	s := m.sessions[key]
	if s == nil || IsTerminal(s.State) {
		s = &session{Session: Session{ID: uuid.NewString(), State: StateIdle}}
		m.sessions[key] = s
	}
	if s.State == StateSending {
		snap := s.Session
		m.mu.Unlock()
		return snap, ErrSendInProgress
	}
	if !IsTransitionAllowed(s.State, StateSending) {
		snap := s.Session
		m.mu.Unlock()
		return snap, fmt.Errorf("verification transition %s → %s is not allowed", s.State, StateSending)
	}

	// The cooldown slot is claimed only once the transition is known to be
	// valid: a rejected Begin must not consume it.
	if m.throttle != nil {
		allowed, err := m.throttle.AllowSend(ctx, key, ch)
		if err != nil {
			// Fail open: a broken throttle must not block verification.
			slog.Warn("otp throttle check failed", "err", err)
		} else if !allowed {
			snap := s.Session
			m.mu.Unlock()
			return snap, ErrCooldown
		}
	}

	if err := m.advanceLocked(s, StateSending); err != nil {
		snap := s.Session
		m.mu.Unlock()
		return snap, err
	}
	s.Channel = ch
	s.ModalOpen = true // optimistic: visible before the request resolves
	s.Sending = true
	gen := s.gen
	m.mu.Unlock()

	err := m.sender.SendOTP(ctx, token, string(ch))

	m.mu.Lock()
	defer m.mu.Unlock()
	if s.gen != gen {
		// Dismissed while in flight; the response is ignored.
		return Session{State: StateIdle}, nil
	}
	s.Sending = false
	if err != nil {
		if terr := m.advanceLocked(s, StateFailed); terr != nil {
			return s.Session, terr
		}
		return s.Session, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if terr := m.advanceLocked(s, StateAwaitingCode); terr != nil {
		return s.Session, terr
	}
	return s.Session, nil
}

// Submit verifies a code for the active session. Empty codes are rejected
// before any request is made. On success the session is destroyed and the
// modal closes; on failure the flow returns to AWAITING_CODE with the code
// preserved for correction.
func (m *Manager) Submit(ctx context.Context, key, token, code string) (Session, error) {
	if code == "" {
		return m.Status(key), ErrEmptyCode
	}

	m.mu.Lock()
	s := m.sessions[key]
	if s == nil || !s.ModalOpen {
		m.mu.Unlock()
		return Session{State: StateIdle}, ErrNoSession
	}
	if err := m.advanceLocked(s, StateVerifying); err != nil {
		snap := s.Session
		m.mu.Unlock()
		return snap, err
	}
	s.Code = code
	ch := s.Channel
	gen := s.gen
	m.mu.Unlock()

	err := m.sender.VerifyOTP(ctx, token, string(ch), code)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s.gen != gen {
		return Session{State: StateIdle}, nil
	}
	if err != nil {
		// VERIFYING → FAILED → AWAITING_CODE: retry in place, code kept.
		if terr := m.advanceLocked(s, StateFailed); terr != nil {
			return s.Session, terr
		}
		if terr := m.advanceLocked(s, StateAwaitingCode); terr != nil {
			return s.Session, terr
		}
		return s.Session, fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}

	if terr := m.advanceLocked(s, StateVerified); terr != nil {
		return s.Session, terr
	}
	s.ModalOpen = false
	s.Code = ""
	snap := s.Session
	delete(m.sessions, key)
	return snap, nil
}

// Dismiss discards the caller's session. In-flight requests are not
// cancelled; their late responses are detected via the generation counter
// and dropped.
func (m *Manager) Dismiss(key string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.sessions[key]; s != nil {
		s.gen++
		s.Code = ""
		delete(m.sessions, key)
	}
	return Session{State: StateIdle}
}

// Status returns the caller's current flow snapshot, or an idle one when
// no session exists.
func (m *Manager) Status(key string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.sessions[key]; s != nil {
		return s.Session
	}
	return Session{State: StateIdle}
}

// advanceLocked moves s to the target state, enforcing the transition
// table. Callers hold m.mu.
func (m *Manager) advanceLocked(s *session, to State) error {
	if !IsTransitionAllowed(s.State, to) {
		return fmt.Errorf("verification transition %s → %s is not allowed", s.State, to)
	}
	s.State = to
	return nil
}

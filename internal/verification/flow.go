// Package verification implements the OTP verification flow for phone and
// email channels.
//
// Valid state graph:
//
//	IDLE ──► SENDING ──► AWAITING_CODE ──► VERIFYING ──► VERIFIED
//	             │              │               │
//	             └──► FAILED ◄──┘ ◄─────────────┘
//
// FAILED is a retry state: a failed send can be re-sent, a failed verify
// drops back to AWAITING_CODE with the entered code preserved. VERIFIED is
// terminal. Dismissal discards the session from any non-terminal state.
package verification

import "fmt"

// State is a verification flow state.
type State string

const (
	StateIdle         State = "IDLE"
	StateSending      State = "SENDING"
	StateAwaitingCode State = "AWAITING_CODE"
	StateVerifying    State = "VERIFYING"
	StateVerified     State = "VERIFIED"
	StateFailed       State = "FAILED"
)

// Channel selects which contact detail is being verified.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateIdle:         {StateSending},
	StateSending:      {StateAwaitingCode, StateFailed},
	StateAwaitingCode: {StateVerifying, StateSending},
	StateVerifying:    {StateVerified, StateFailed},
	StateFailed:       {StateSending, StateAwaitingCode, StateVerifying},
	// VERIFIED is terminal — no outgoing transitions
}

// ParseChannel converts a raw string to a Channel, returning an error for
// unknown values.
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	switch ch {
	case ChannelPhone, ChannelEmail:
		return ch, nil
	}
	return "", fmt.Errorf("unknown verification channel %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the state machine.
func IsTransitionAllowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states that end the flow.
func IsTerminal(s State) bool { return s == StateVerified }

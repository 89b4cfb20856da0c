package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRoleSwitched       EventType = "role_switched"
	EventSessionInvalidated EventType = "session_invalidated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserEmail string      `json:"user_email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RoleSwitchedPayload payload.
type RoleSwitchedPayload struct {
	OldActiveRole string `json:"old_active_role"`
	NewActiveRole string `json:"new_active_role"`
	SessionID     string `json:"session_id"`
}

// SessionInvalidatedPayload payload.
type SessionInvalidatedPayload struct {
	SessionID string `json:"session_id"`
	Found     bool   `json:"found"`
}

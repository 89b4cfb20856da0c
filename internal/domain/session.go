package domain

import "time"

// Session is the ephemeral record behind one issued token, keyed by
// (userID, sessionID) in the session store. It self-expires via TTL
// independently of explicit invalidation; an invalidated session id is
// never valid again.
type Session struct {
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	ActiveRole string    `json:"active_role"`
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"created_at"`
}

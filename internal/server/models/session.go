package models

import "time"

// Session binds an opaque server-side id to an authenticated user.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Nickname  string    `json:"nickname"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

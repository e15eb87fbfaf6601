package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           int64
	FullName     string
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the public view of a user returned by /api/data.
type Profile struct {
	ID       int64          `json:"id"`
	FullName string         `json:"fullName"`
	Email    string         `json:"email"`
	Nickname string         `json:"nickname"`
	Progress map[string]int `json:"progress"`
}

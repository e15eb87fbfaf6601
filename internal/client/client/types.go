package client

import "encoding/json"

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type Course struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	Professor   string  `json:"professor"`
	PDFLink     *string `json:"pdf_link"`
}

type Profile struct {
	ID       int64          `json:"id"`
	FullName string         `json:"fullName"`
	Email    string         `json:"email"`
	Nickname string         `json:"nickname"`
	Progress map[string]int `json:"progress"`
}

// AppData is the /api/data payload.
type AppData struct {
	User    Profile           `json:"user"`
	Courses map[string]Course `json:"courses"`
}

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Question is passed through from the catalog untouched.
type Question = json.RawMessage

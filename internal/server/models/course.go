package models

import "encoding/json"

// CourseSummary is the catalog entry without its questions.
type CourseSummary struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	Professor   string  `json:"professor"`
	PDFLink     *string `json:"pdf_link"`
}

// Question is kept as raw JSON; the server never interprets it.
type Question = json.RawMessage

// Package catalog reads quiz definitions from a JSON file keyed by subject.
// The file is read on every call, so it can be replaced while the server
// is running.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
)

const (
	defaultTitle     = "Untitled"
	defaultEmoji     = "❓"
	defaultProfessor = "N/A"
)

type entry struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Emoji       *string           `json:"emoji"`
	Professor   *string           `json:"professor"`
	PDFLink     *string           `json:"pdf_link"`
	Questions   []json.RawMessage `json:"questions"`
}

type FileCatalog struct {
	path string
}

func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

func (c *FileCatalog) load() (map[string]entry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrContentUnavailable, err)
	}

	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrContentUnavailable, err)
	}
	if entries == nil {
		entries = map[string]entry{}
	}
	return entries, nil
}

// ListCourseSummaries returns every subject without its questions, with
// missing descriptive fields filled by defaults.
func (c *FileCatalog) ListCourseSummaries(ctx context.Context) (map[string]models.CourseSummary, error) {
	entries, err := c.load()
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.CourseSummary, len(entries))
	for subject, e := range entries {
		out[subject] = models.CourseSummary{
			Title:       valueOr(e.Title, defaultTitle),
			Description: valueOr(e.Description, ""),
			Emoji:       valueOr(e.Emoji, defaultEmoji),
			Professor:   valueOr(e.Professor, defaultProfessor),
			PDFLink:     e.PDFLink,
		}
	}
	return out, nil
}

// GetQuestions returns the questions of subject in catalog order, or
// common.ErrorNotFound for an unknown subject.
func (c *FileCatalog) GetQuestions(ctx context.Context, subject string) ([]models.Question, error) {
	entries, err := c.load()
	if err != nil {
		return nil, err
	}

	e, ok := entries[subject]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if e.Questions == nil {
		return []models.Question{}, nil
	}
	return e.Questions, nil
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

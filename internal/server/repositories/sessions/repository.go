// Package sessions stores server-side login sessions. Two backends exist:
// PostgreSQL (default) and Redis.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/gophquiz/internal/server/models"
)

type Repository interface {
	// Create stores s, replacing any session with the same id.
	Create(ctx context.Context, s *models.Session) error

	// Find returns common.ErrorNotFound when no session has this id.
	// Expiry is left to the caller.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes the session. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}

// Package users declares the credential store contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophquiz/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its ID. A duplicate nickname or
	// email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// ExistsByNicknameOrEmail reports whether either value is taken.
	ExistsByNicknameOrEmail(ctx context.Context, nickname, email string) (bool, error)

	// GetUserByNickname returns common.ErrorNotFound for unknown nicknames.
	GetUserByNickname(ctx context.Context, nickname string) (*models.User, error)

	// GetUserByID returns common.ErrorNotFound for unknown ids.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

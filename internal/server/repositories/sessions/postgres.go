package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/dbx"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create also sweeps expired sessions, including those of clients that
// never come back to present their cookie.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) error {
	sweep := `
		DELETE FROM sessions
		WHERE expires_at < now()
	`
	if _, err := r.db.ExecContext(ctx, sweep); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, nickname, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET user_id = EXCLUDED.user_id, nickname = EXCLUDED.nickname, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Nickname, s.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, nickname, expires_at, created_at
		FROM sessions
		WHERE id = $1
	`
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Nickname, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM sessions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

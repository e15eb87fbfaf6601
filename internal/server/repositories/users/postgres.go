package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (full_name, email, nickname, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.Nickname, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) ExistsByNicknameOrEmail(ctx context.Context, nickname, email string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM users WHERE nickname = $1 OR email = $2
		 )
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, nickname, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	query :=
		`SELECT id, full_name, email, nickname, password_hash, created_at FROM users
		 WHERE nickname = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, nickname))
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, full_name, email, nickname, password_hash, created_at FROM users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Nickname, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

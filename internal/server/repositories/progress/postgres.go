package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophquiz/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveBest is a single conditional upsert. When the existing score is
// greater or equal the UPDATE branch is skipped and no row is returned.
func (r *PostgresRepository) SaveBest(ctx context.Context, userID int64, subject string, score int) (bool, error) {
	query :=
		`INSERT INTO progress (user_id, subject, score)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, subject) DO UPDATE
		 SET score = EXCLUDED.score, updated_at = now()
		 WHERE progress.score < EXCLUDED.score
		 RETURNING score
		 `

	var stored int
	err := r.db.QueryRowContext(ctx, query, userID, subject, score).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) (map[string]int, error) {
	query :=
		`SELECT subject, score FROM progress
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var (
			subject string
			score   int
		)
		if err := rows.Scan(&subject, &score); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[subject] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

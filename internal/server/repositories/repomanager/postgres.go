// Package repomanager provides the PostgreSQL RepositoryManager and runs the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophquiz/internal/dbx"
	"github.com/dmitrijs2005/gophquiz/internal/server/migrations"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/progress"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Progress(db dbx.DBTX) progress.Repository {
	return progress.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations with the pgx dialect.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// OpenDB opens a pgx-backed *sql.DB and verifies the connection.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophquiz/internal/dbx"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/progress"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// service code can run against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Progress(db dbx.DBTX) progress.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}

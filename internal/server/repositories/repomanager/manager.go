package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/aora/internal/dbx"
	"github.com/dmitrijs2005/aora/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/aora/internal/server/repositories/documents"
	"github.com/dmitrijs2005/aora/internal/server/repositories/files"
	"github.com/dmitrijs2005/aora/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx, so a
// service can run several of them inside one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Documents(db dbx.DBTX) documents.Repository
	Files(db dbx.DBTX) files.Repository
}

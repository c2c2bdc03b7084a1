// Package repositories opens the local state database and builds the
// repositories that live in it.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/aora/internal/client/migrations"
	"github.com/dmitrijs2005/aora/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate state db: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and brings
// its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}

package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/dbx"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/server/repositories"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts account and fills CreatedAt. A taken id or email yields
// common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {
	query :=
		`INSERT INTO accounts (id, email, name, password_hash, salt)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash, account.Salt).Scan(&account.CreatedAt)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: account with the same id or email", common.ErrAlreadyExists)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `SELECT id, email, name, password_hash, salt, created_at FROM accounts WHERE ` + where

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Salt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.get(ctx, "id = $1", id)
}

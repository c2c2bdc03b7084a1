package files

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

// PostgresRepository implements file metadata storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create reserves a pending file row and fills CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, f *models.File) error {
	query := `
		INSERT INTO files (bucket_id, id, owner_id, name, mime_type, size, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		f.BucketID, f.ID, f.OwnerID, f.Name, f.MimeType, f.Size, f.StorageKey, f.Status).Scan(&f.CreatedAt)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: file %s", common.ErrAlreadyExists, f.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, bucketID, id string) (*models.File, error) {
	query := `
		SELECT bucket_id, id, owner_id, name, mime_type, size, storage_key, status, created_at
		FROM files WHERE bucket_id = $1 AND id = $2`

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, bucketID, id).
		Scan(&f.BucketID, &f.ID, &f.OwnerID, &f.Name, &f.MimeType, &f.Size, &f.StorageKey, &f.Status, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}

// MarkReady records the stored size and flips the file to ready.
// Exactly one row must be affected.
func (r *PostgresRepository) MarkReady(ctx context.Context, bucketID, id string, size int64) error {
	query := `UPDATE files SET status = $1, size = $2 WHERE bucket_id = $3 AND id = $4`

	result, err := r.db.ExecContext(ctx, query, models.FileStatusReady, size, bucketID, id)
	if err != nil {
		return fmt.Errorf("failed to mark ready: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch ra {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
}

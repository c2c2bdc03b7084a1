package files

import (
	"context"

	"github.com/dmitrijs2005/aora/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	Get(ctx context.Context, bucketID, id string) (*models.File, error)
	MarkReady(ctx context.Context, bucketID, id string, size int64) error
}

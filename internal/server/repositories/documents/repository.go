package documents

import (
	"context"

	"github.com/dmitrijs2005/aora/internal/wire"
)

type Repository interface {
	Create(ctx context.Context, databaseID string, doc *wire.Document) error
	List(ctx context.Context, databaseID, collectionID string, queries []wire.Query) ([]wire.Document, error)
}

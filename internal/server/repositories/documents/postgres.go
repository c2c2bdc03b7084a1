package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/dbx"
	"github.com/dmitrijs2005/aora/internal/server/repositories"
	"github.com/dmitrijs2005/aora/internal/wire"
)

// PostgresRepository stores documents as JSONB rows.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts doc and fills CreatedAt. A reused id within the collection
// yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, databaseID string, doc *wire.Document) error {
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("%w: encode data: %w", common.ErrInvalidArgument, err)
	}

	query :=
		`INSERT INTO documents (database_id, collection_id, id, data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query, databaseID, doc.CollectionID, doc.ID, data).Scan(&doc.CreatedAt)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: document %s", common.ErrAlreadyExists, doc.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the documents of the collection matching queries. No match
// is an empty slice.
func (r *PostgresRepository) List(ctx context.Context, databaseID, collectionID string, queries []wire.Query) ([]wire.Document, error) {
	query, args, err := buildListQuery(databaseID, collectionID, queries)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := []wire.Document{}
	for rows.Next() {
		var (
			d   wire.Document
			raw []byte
		)
		if err := rows.Scan(&d.ID, &d.CollectionID, &raw, &d.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &d.Data); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", d.ID, err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

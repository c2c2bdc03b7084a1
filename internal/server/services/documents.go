package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/aora/internal/wire"
)

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *DocumentService {
	return &DocumentService{db: db, repomanager: m, logger: l.With("module", "documents")}
}

func requireIDs(databaseID, collectionID string) error {
	if databaseID == "" || collectionID == "" {
		return fmt.Errorf("%w: database and collection are required", common.ErrInvalidArgument)
	}
	return nil
}

// Create stores data as a new document. Attribute names starting with "$"
// are reserved.
func (s *DocumentService) Create(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*wire.Document, error) {
	if err := requireIDs(databaseID, collectionID); err != nil {
		return nil, err
	}
	for k := range data {
		if k == "" || strings.HasPrefix(k, "$") {
			return nil, fmt.Errorf("%w: attribute %q is reserved", common.ErrInvalidArgument, k)
		}
	}

	doc := &wire.Document{ID: newID(documentID), CollectionID: collectionID, Data: data}
	if err := s.repomanager.Documents(s.db).Create(ctx, databaseID, doc); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "document created", "collection", collectionID, "document_id", doc.ID)
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, databaseID, collectionID string, queries []wire.Query) ([]wire.Document, error) {
	if err := requireIDs(databaseID, collectionID); err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).List(ctx, databaseID, collectionID, queries)
}

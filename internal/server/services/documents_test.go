package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_CreateAndList(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRepoManager()
	svc := NewDocumentService(db, rm, logging.Nop())
	ctx := context.Background()

	doc, err := svc.Create(ctx, "db", "posts", UniqueID, map[string]any{"title": "Hello"})
	require.NoError(t, err)
	assert.NotEqual(t, UniqueID, doc.ID)
	assert.Equal(t, "posts", doc.CollectionID)
	assert.False(t, doc.CreatedAt.IsZero())

	_, err = svc.Create(ctx, "db", "users", "u-1", map[string]any{"name": "Ada"})
	require.NoError(t, err)

	queries := []wire.Query{{Method: wire.QueryLimit, Values: []any{float64(5)}}}
	docs, err := svc.List(ctx, "db", "posts", queries)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Hello", docs[0].Data["title"])
	assert.Equal(t, queries, rm.LastQueries)
}

func TestDocumentService_Validation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewDocumentService(db, newFakeRepoManager(), logging.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "posts", "", nil)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Create(ctx, "db", "posts", "", map[string]any{"$id": "x"})
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.List(ctx, "db", "", nil)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

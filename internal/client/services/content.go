package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/platform"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/wire"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultLatestLimit is the size of the "latest" list.
const DefaultLatestLimit = 7

// ContentRepository reads and writes posts. Reads return an empty, non-nil
// slice when nothing matches.
type ContentRepository interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	// ListLatest returns at most limit posts, newest first. limit <= 0
	// means DefaultLatestLimit.
	ListLatest(ctx context.Context, limit int) ([]models.Post, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Post, error)
	Search(ctx context.Context, text string) ([]models.Post, error)
	Create(ctx context.Context, fields models.PostFields) (*models.Post, error)
	// CreateWithAssets uploads the form assets and then creates the post.
	// Uploaded files are not removed when a later step fails.
	CreateWithAssets(ctx context.Context, form models.NewPost) (*models.Post, error)
}

type contentRepository struct {
	platform   platform.Platform
	files      FileStore
	database   string
	collection string
	policy     *bluemonday.Policy
	log        logging.Logger
}

func NewContentRepository(p platform.Platform, files FileStore, cfg *config.Config, log logging.Logger) ContentRepository {
	return &contentRepository{
		platform:   p,
		files:      files,
		database:   cfg.DatabaseID,
		collection: cfg.VideoCollectionID,
		policy:     bluemonday.StrictPolicy(),
		log:        log.With("module", "content"),
	}
}

func (r *contentRepository) list(ctx context.Context, queries ...wire.Query) ([]models.Post, error) {
	docs, err := r.platform.ListDocuments(ctx, r.database, r.collection, queries...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, models.PostFromDocument(d))
	}
	return posts, nil
}

func (r *contentRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, wire.OrderDesc(wire.AttrCreatedAt))
}

func (r *contentRepository) ListLatest(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	return r.list(ctx, wire.OrderDesc(wire.AttrCreatedAt), wire.Limit(limit))
}

func (r *contentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	return r.list(ctx, wire.Equal(models.PostCreator, ownerID), wire.OrderDesc(wire.AttrCreatedAt))
}

func (r *contentRepository) Search(ctx context.Context, text string) ([]models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.Post{}, nil
	}
	return r.list(ctx, wire.Search(models.PostTitle, text))
}

// clean strips markup; the strict policy escapes what it keeps, which is
// undone so plain text round-trips.
func (r *contentRepository) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.policy.Sanitize(s)))
}

func (r *contentRepository) Create(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	fields.Title = r.clean(fields.Title)
	fields.Prompt = r.clean(fields.Prompt)

	doc, err := r.platform.CreateDocument(ctx, r.database, r.collection, uuid.NewString(), fields.Fields())
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post := models.PostFromDocument(doc)
	r.log.Info(ctx, "post created", "post_id", post.ID, "owner_id", post.OwnerID)
	return &post, nil
}

func (r *contentRepository) CreateWithAssets(ctx context.Context, form models.NewPost) (*models.Post, error) {
	if !form.Complete() {
		return nil, fmt.Errorf("%w: please fill in all fields", common.ErrInvalidArgument)
	}

	thumbURL, videoURL, err := r.files.UploadPair(ctx, form.Thumbnail, form.Video)
	if err != nil {
		return nil, fmt.Errorf("upload assets: %w", err)
	}

	return r.Create(ctx, models.PostFields{
		Title:        form.Title,
		Prompt:       form.Prompt,
		ThumbnailURL: thumbURL,
		VideoURL:     videoURL,
		OwnerID:      form.OwnerID,
	})
}

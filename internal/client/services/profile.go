package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/platform"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/wire"
	"github.com/google/uuid"
)

// ProfileRepository reads and writes documents of the users collection.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, identity *models.Identity, username, email, avatarURL string) (*models.Profile, error)
	// ProfileByAccountID returns common.ErrNotFound when the account has no
	// profile.
	ProfileByAccountID(ctx context.Context, accountID string) (*models.Profile, error)
	// AvatarURL derives the initials avatar for username.
	AvatarURL(username string) (string, error)
}

type profileRepository struct {
	platform   platform.Platform
	database   string
	collection string
	log        logging.Logger
}

func NewProfileRepository(p platform.Platform, cfg *config.Config, log logging.Logger) ProfileRepository {
	return &profileRepository{
		platform:   p,
		database:   cfg.DatabaseID,
		collection: cfg.UserCollectionID,
		log:        log.With("module", "profiles"),
	}
}

func (r *profileRepository) CreateProfile(ctx context.Context, identity *models.Identity, username, email, avatarURL string) (*models.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, fmt.Errorf("%w: profile needs an identity", common.ErrInvalidArgument)
	}
	p := models.Profile{AccountID: identity.ID, Email: email, Username: username, AvatarURL: avatarURL}

	doc, err := r.platform.CreateDocument(ctx, r.database, r.collection, uuid.NewString(), p.Fields())
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return models.ProfileFromDocument(doc), nil
}

func (r *profileRepository) ProfileByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	docs, err := r.platform.ListDocuments(ctx, r.database, r.collection, wire.Equal(models.ProfileAccountID, accountID))
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("profile of account %s: %w", accountID, common.ErrNotFound)
	}
	if len(docs) > 1 {
		r.log.Warn(ctx, "several profiles for one account, using the first", "account_id", accountID, "count", len(docs))
	}
	return models.ProfileFromDocument(docs[0]), nil
}

func (r *profileRepository) AvatarURL(username string) (string, error) {
	return r.platform.InitialsURL(username)
}

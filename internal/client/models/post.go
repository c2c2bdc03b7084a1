package models

import (
	"time"

	"github.com/dmitrijs2005/aora/internal/wire"
)

// Post document attributes in the videos collection.
const (
	PostTitle     = "title"
	PostPrompt    = "prompt"
	PostThumbnail = "thumbnail"
	PostVideo     = "video"
	PostCreator   = "creator"
)

// Post is a content record owned by a Profile.
type Post struct {
	ID           string
	Title        string
	Prompt       string
	ThumbnailURL string
	VideoURL     string
	OwnerID      string
	CreatedAt    time.Time
}

// PostFields is the payload persisted by ContentRepository.Create. The
// media URLs must already be resolved.
type PostFields struct {
	Title        string
	Prompt       string
	ThumbnailURL string
	VideoURL     string
	OwnerID      string
}

func (f PostFields) Fields() map[string]any {
	return map[string]any{
		PostTitle:     f.Title,
		PostPrompt:    f.Prompt,
		PostThumbnail: f.ThumbnailURL,
		PostVideo:     f.VideoURL,
		PostCreator:   f.OwnerID,
	}
}

// NewPost is the create form: text fields plus the two local assets.
type NewPost struct {
	Title     string
	Prompt    string
	Thumbnail *UploadedAsset
	Video     *UploadedAsset
	OwnerID   string
}

// Complete reports whether every field of the form is filled in.
func (p NewPost) Complete() bool {
	return p.Title != "" && p.Prompt != "" && p.OwnerID != "" && p.Thumbnail != nil && p.Video != nil
}

// PostFromDocument maps a videos collection document.
func PostFromDocument(d wire.Document) Post {
	return Post{
		ID:           d.ID,
		Title:        d.Get(PostTitle),
		Prompt:       d.Get(PostPrompt),
		ThumbnailURL: d.Get(PostThumbnail),
		VideoURL:     d.Get(PostVideo),
		OwnerID:      d.Get(PostCreator),
		CreatedAt:    d.CreatedAt,
	}
}

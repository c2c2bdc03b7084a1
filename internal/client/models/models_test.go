package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestFileKind_Validate(t *testing.T) {
	require.NoError(t, FileKindImage.Validate())
	require.NoError(t, FileKindVideo.Validate())
	require.ErrorIs(t, FileKind("audio").Validate(), common.ErrInvalidArgument)
	require.ErrorIs(t, FileKind("").Validate(), common.ErrInvalidArgument)
}

func TestParseFileKind(t *testing.T) {
	k, err := ParseFileKind(" Image ")
	require.NoError(t, err)
	require.Equal(t, FileKindImage, k)

	_, err = ParseFileKind("audio")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	require.False(t, Session{}.Expired(now))
	require.False(t, Session{ExpiresAt: now.Add(time.Hour)}.Expired(now))
	require.True(t, Session{ExpiresAt: now.Add(-time.Second)}.Expired(now))
}

func TestProfile_DocumentMapping(t *testing.T) {
	p := Profile{AccountID: "a1", Email: "e@x.io", Username: "neo", AvatarURL: "http://av"}
	doc := wire.Document{ID: "p1", Data: p.Fields(), CreatedAt: time.Unix(10, 0)}

	got := ProfileFromDocument(doc)
	require.Equal(t, "p1", got.ID)
	require.Equal(t, "a1", got.AccountID)
	require.Equal(t, "neo", got.Username)
	require.Equal(t, "http://av", got.AvatarURL)
}

func TestPost_DocumentMapping(t *testing.T) {
	f := PostFields{Title: "Ocean Drive", Prompt: "p", ThumbnailURL: "t", VideoURL: "v", OwnerID: "p1"}
	got := PostFromDocument(wire.Document{ID: "v1", Data: f.Fields()})

	require.Equal(t, Post{ID: "v1", Title: "Ocean Drive", Prompt: "p", ThumbnailURL: "t", VideoURL: "v", OwnerID: "p1"}, got)
}

func TestNewPost_Complete(t *testing.T) {
	asset := &UploadedAsset{Path: "a"}
	full := NewPost{Title: "t", Prompt: "p", OwnerID: "o", Thumbnail: asset, Video: asset}
	require.True(t, full.Complete())

	missing := full
	missing.Video = nil
	require.False(t, missing.Complete())
}

package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/platform"
	"github.com/dmitrijs2005/aora/internal/filex"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Image preview transformation used for thumbnails.
const (
	PreviewWidth   = 2000
	PreviewHeight  = 2000
	PreviewGravity = "top"
	PreviewQuality = 100
)

// FileStore uploads local assets to the storage bucket and resolves the URL
// they are displayed from.
type FileStore interface {
	// PreviewURL returns the view URL for videos and the preview URL for
	// images; any other kind is common.ErrInvalidArgument.
	PreviewURL(ctx context.Context, fileID string, kind models.FileKind) (string, error)
	// Upload stores asset and returns it with its URL. A nil asset yields
	// (nil, nil) without touching the network.
	Upload(ctx context.Context, asset *models.UploadedAsset, kind models.FileKind) (*models.StoredFile, error)
	// UploadPair uploads a thumbnail image and a video concurrently.
	UploadPair(ctx context.Context, thumbnail, video *models.UploadedAsset) (thumbnailURL, videoURL string, err error)
}

type fileStore struct {
	platform platform.Platform
	fs       afero.Fs
	bucket   string
	log      logging.Logger
}

// NewFileStore builds a FileStore that opens asset paths through fs.
func NewFileStore(p platform.Platform, fs afero.Fs, cfg *config.Config, log logging.Logger) FileStore {
	return &fileStore{platform: p, fs: fs, bucket: cfg.StorageID, log: log.With("module", "files")}
}

func (s *fileStore) PreviewURL(_ context.Context, fileID string, kind models.FileKind) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}
	if kind == models.FileKindVideo {
		return s.platform.FileViewURL(s.bucket, fileID)
	}
	return s.platform.FilePreviewURL(s.bucket, fileID, platform.PreviewOptions{
		Width:   PreviewWidth,
		Height:  PreviewHeight,
		Gravity: PreviewGravity,
		Quality: PreviewQuality,
	})
}

func (s *fileStore) Upload(ctx context.Context, asset *models.UploadedAsset, kind models.FileKind) (*models.StoredFile, error) {
	if asset == nil {
		return nil, nil
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	f, err := s.fs.Open(asset.Path)
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", asset.Path, err)
	}
	defer f.Close()

	upload := platform.UploadFile{Name: asset.Name, MimeType: asset.MimeType, Size: asset.Size, Body: f}
	if upload.Name == "" {
		upload.Name = filepath.Base(asset.Path)
	}
	if upload.MimeType == "" {
		if upload.MimeType, err = filex.SniffContentType(f); err != nil {
			return nil, fmt.Errorf("sniff %s: %w", asset.Path, err)
		}
	}
	if upload.Size <= 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", asset.Path, err)
		}
		upload.Size = info.Size()
	}

	stored, err := s.platform.CreateFile(ctx, s.bucket, uuid.NewString(), upload)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", upload.Name, err)
	}

	stored.URL, err = s.PreviewURL(ctx, stored.ID, kind)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "asset uploaded", "file_id", stored.ID, "kind", kind, "size", stored.Size)
	return stored, nil
}

func (s *fileStore) UploadPair(ctx context.Context, thumbnail, video *models.UploadedAsset) (string, string, error) {
	var thumb, vid *models.StoredFile

	// a failed upload does not cancel its sibling
	var g errgroup.Group
	g.Go(func() error {
		var err error
		thumb, err = s.Upload(ctx, thumbnail, models.FileKindImage)
		return err
	})
	g.Go(func() error {
		var err error
		vid, err = s.Upload(ctx, video, models.FileKindVideo)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}

	return urlOf(thumb), urlOf(vid), nil
}

func urlOf(f *models.StoredFile) string {
	if f == nil {
		return ""
	}
	return f.URL
}

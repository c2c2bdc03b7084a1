package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/metrics"
	"github.com/dmitrijs2005/aora/internal/server/config"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/server/repositories/repomanager"
)

// MaxFileSize bounds a single upload.
const MaxFileSize = 50 << 20

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	urlTTL      time.Duration
	metrics     metrics.Recorder
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, cfg *config.Config, rec metrics.Recorder, l logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		urlTTL:      cfg.UploadURLTTL,
		metrics:     rec,
		logger:      l.With("module", "files"),
		now:         time.Now,
	}
}

// storageKey lays objects out by bucket and upload date. The random suffix
// keeps keys of recreated files apart.
func (s *FileService) storageKey(bucketID, fileID string) (string, error) {
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return "", fmt.Errorf("storage key: %w", err)
	}
	d := s.now().UTC()
	return fmt.Sprintf("buckets/%s/%d/%02d/%02d/%s-%s", bucketID, d.Year(), d.Month(), d.Day(), fileID, suffix), nil
}

// CreateUpload reserves a pending file and returns it with a presigned PUT URL.
func (s *FileService) CreateUpload(ctx context.Context, ownerID, bucketID, fileID, name, mimeType string, size int64) (*models.File, string, error) {
	if bucketID == "" || name == "" {
		return nil, "", fmt.Errorf("%w: bucket and name are required", common.ErrInvalidArgument)
	}
	if size < 0 || size > MaxFileSize {
		return nil, "", fmt.Errorf("%w: size %d outside 0..%d", common.ErrInvalidArgument, size, MaxFileSize)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	f := &models.File{
		BucketID: bucketID,
		ID:       newID(fileID),
		OwnerID:  ownerID,
		Name:     name,
		MimeType: mimeType,
		Size:     size,
		Status:   models.FileStatusPending,
	}
	key, err := s.storageKey(bucketID, f.ID)
	if err != nil {
		return nil, "", err
	}
	f.StorageKey = key

	url, err := s.store.PresignPut(ctx, f.StorageKey, mimeType, s.urlTTL)
	if err != nil {
		return nil, "", err
	}
	if err := s.repomanager.Files(s.db).Create(ctx, f); err != nil {
		return nil, "", err
	}

	s.logger.Debug(ctx, "upload reserved", "bucket", bucketID, "file_id", f.ID, "size", size)
	return f, url, nil
}

// CompleteUpload confirms that the object arrived and marks the file ready.
// Only the owner can complete an upload.
func (s *FileService) CompleteUpload(ctx context.Context, ownerID, bucketID, fileID string) (*models.File, error) {
	repo := s.repomanager.Files(s.db)

	f, err := repo.Get(ctx, bucketID, fileID)
	if err != nil {
		return nil, err
	}
	if f.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	if f.Status == models.FileStatusReady {
		return f, nil
	}

	size, err := s.store.Head(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: file %s was not uploaded", common.ErrInvalidArgument, fileID)
		}
		return nil, err
	}
	if err := repo.MarkReady(ctx, bucketID, fileID, size); err != nil {
		return nil, err
	}

	f.Size = size
	f.Status = models.FileStatusReady
	s.metrics.RecordUpload(size)
	s.logger.Info(ctx, "upload completed", "bucket", bucketID, "file_id", fileID, "size", size)
	return f, nil
}

func (s *FileService) ready(ctx context.Context, bucketID, fileID string) (*models.File, error) {
	f, err := s.repomanager.Files(s.db).Get(ctx, bucketID, fileID)
	if err != nil {
		return nil, err
	}
	if f.Status != models.FileStatusReady {
		return nil, common.ErrNotFound
	}
	return f, nil
}

// ViewURL returns a short-lived direct download URL of a ready file.
func (s *FileService) ViewURL(ctx context.Context, bucketID, fileID string) (string, error) {
	f, err := s.ready(ctx, bucketID, fileID)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, f.StorageKey, s.urlTTL)
}

// Open streams a ready file. The caller closes the reader.
func (s *FileService) Open(ctx context.Context, bucketID, fileID string) (*models.File, io.ReadCloser, error) {
	f, err := s.ready(ctx, bucketID, fileID)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.store.Get(ctx, f.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return f, body, nil
}

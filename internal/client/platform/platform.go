package platform

import (
	"context"
	"io"

	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/wire"
)

type Accounts interface {
	CreateAccount(ctx context.Context, id, email, password, name string) (*models.Identity, error)
	CreateEmailSession(ctx context.Context, email, password string) (*models.Session, error)
	// DeleteSession removes a session; common.CurrentSession names the one
	// the binding holds.
	DeleteSession(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context) (*models.Identity, error)
}

type Databases interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (wire.Document, error)
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...wire.Query) ([]wire.Document, error)
}

// UploadFile is the payload of Storage.CreateFile.
type UploadFile struct {
	Name     string
	MimeType string
	Size     int64
	Body     io.Reader
}

// PreviewOptions are the image transformation parameters of a preview URL.
type PreviewOptions struct {
	Width   int
	Height  int
	Gravity string
	Quality int
}

type Storage interface {
	// CreateFile stores the body under fileID and returns the stored file
	// without a URL.
	CreateFile(ctx context.Context, bucketID, fileID string, file UploadFile) (*models.StoredFile, error)
	FileViewURL(bucketID, fileID string) (string, error)
	FilePreviewURL(bucketID, fileID string, opts PreviewOptions) (string, error)
}

type Avatars interface {
	InitialsURL(name string) (string, error)
}

// SessionHolder keeps the bearer secret attached to outbound calls.
type SessionHolder interface {
	SetSession(secret string)
	ClearSession()
	SessionSecret() string
}

// Platform is everything the client services need from the remote side.
type Platform interface {
	Accounts
	Databases
	Storage
	Avatars
	SessionHolder
}

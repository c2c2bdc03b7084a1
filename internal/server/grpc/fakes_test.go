package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/wire"
)

const testProject = "proj-1"

type fakeAccounts struct {
	account *models.Account
	session *models.Session
	secret  string
	err     error

	LastEmail     string
	LastPassword  string
	LastDeleted   string
	LastCurrent   *models.Session
	LastAccountID string
}

func (f *fakeAccounts) CreateAccount(_ context.Context, id, email, password, name string) (*models.Account, error) {
	f.LastEmail, f.LastPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return &models.Account{ID: id, Email: email, Name: name}, nil
}

func (f *fakeAccounts) CreateEmailSession(_ context.Context, email, password string) (*models.Session, string, error) {
	f.LastEmail, f.LastPassword = email, password
	if f.err != nil {
		return nil, "", f.err
	}
	return f.session, f.secret, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, secret string) (*models.Session, error) {
	if secret != f.secret {
		return nil, common.ErrAuth
	}
	return f.session, nil
}

func (f *fakeAccounts) DeleteSession(_ context.Context, current *models.Session, sessionID string) error {
	f.LastCurrent, f.LastDeleted = current, sessionID
	return f.err
}

func (f *fakeAccounts) GetAccount(_ context.Context, accountID string) (*models.Account, error) {
	f.LastAccountID = accountID
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

type fakeDocuments struct {
	docs []wire.Document
	err  error

	LastDatabaseID   string
	LastCollectionID string
	LastDocumentID   string
	LastData         map[string]any
	LastQueries      []wire.Query
}

func (f *fakeDocuments) Create(_ context.Context, databaseID, collectionID, documentID string, data map[string]any) (*wire.Document, error) {
	f.LastDatabaseID, f.LastCollectionID, f.LastDocumentID, f.LastData = databaseID, collectionID, documentID, data
	if f.err != nil {
		return nil, f.err
	}
	return &wire.Document{
		ID:           documentID,
		CollectionID: collectionID,
		CreatedAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Data:         data,
	}, nil
}

func (f *fakeDocuments) List(_ context.Context, databaseID, collectionID string, queries []wire.Query) ([]wire.Document, error) {
	f.LastDatabaseID, f.LastCollectionID, f.LastQueries = databaseID, collectionID, queries
	return f.docs, f.err
}

type fakeFiles struct {
	err error

	LastOwner    string
	LastBucketID string
	LastFileID   string
	LastSize     int64
}

func (f *fakeFiles) CreateUpload(_ context.Context, ownerID, bucketID, fileID, name, mimeType string, size int64) (*models.File, string, error) {
	f.LastOwner, f.LastBucketID, f.LastFileID, f.LastSize = ownerID, bucketID, fileID, size
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.File{BucketID: bucketID, ID: fileID, Name: name, MimeType: mimeType, Size: size}, "http://store/put", nil
}

func (f *fakeFiles) CompleteUpload(_ context.Context, ownerID, bucketID, fileID string) (*models.File, error) {
	f.LastOwner, f.LastBucketID, f.LastFileID = ownerID, bucketID, fileID
	if f.err != nil {
		return nil, f.err
	}
	return &models.File{BucketID: bucketID, ID: fileID, Name: "clip.mp4", MimeType: "video/mp4", Size: 42, Status: models.FileStatusReady}, nil
}

type rpcCall struct {
	Method string
	Code   string
}

type fakeRecorder struct {
	mu    sync.Mutex
	Calls []rpcCall
}

func (r *fakeRecorder) RecordRPC(method, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, rpcCall{method, code})
}
func (r *fakeRecorder) RecordHTTP(string, int) {}
func (r *fakeRecorder) RecordUpload(int64)     {}
func (r *fakeRecorder) RecordLoginThrottled()  {}

type testServer struct {
	*GRPCServer
	accounts  *fakeAccounts
	documents *fakeDocuments
	files     *fakeFiles
	metrics   *fakeRecorder
}

func newTestServer() *testServer {
	ts := &testServer{
		accounts: &fakeAccounts{
			account: &models.Account{ID: "acc-1", Email: "ada@example.com", Name: "Ada"},
			session: &models.Session{ID: "s-1", AccountID: "acc-1", ExpiresAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			secret:  "secret-1",
		},
		documents: &fakeDocuments{},
		files:     &fakeFiles{},
		metrics:   &fakeRecorder{},
	}
	ts.GRPCServer = NewGRPCServer("127.0.0.1:0", testProject, logging.Nop(), ts.accounts, ts.documents, ts.files, ts.metrics)
	return ts
}

package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/dbx"
	"github.com/dmitrijs2005/aora/internal/server/config"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/aora/internal/server/repositories/documents"
	"github.com/dmitrijs2005/aora/internal/server/repositories/files"
	"github.com/dmitrijs2005/aora/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/aora/internal/wire"
	"github.com/stretchr/testify/require"
)

// fakeRepoManager keeps every table in memory; repositories ignore the
// DBTX they are bound to.
type fakeRepoManager struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	sessions map[string]*models.Session
	docs     []wire.Document
	files    map[string]*models.File

	LastQueries []wire.Query
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts: map[string]*models.Account{},
		sessions: map[string]*models.Session{},
		files:    map[string]*models.File{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository       { return fakeAccounts{m} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository       { return fakeSessions{m} }
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository     { return fakeDocuments{m} }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return fakeFiles{m} }

type fakeAccounts struct{ m *fakeRepoManager }

func (r fakeAccounts) Create(_ context.Context, a *models.Account) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, x := range r.m.accounts {
		if x.Email == a.Email {
			return common.ErrAlreadyExists
		}
	}
	if _, ok := r.m.accounts[a.ID]; ok {
		return common.ErrAlreadyExists
	}
	cp := *a
	r.m.accounts[a.ID] = &cp
	return nil
}

func (r fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeSessions struct{ m *fakeRepoManager }

func (r fakeSessions) Create(_ context.Context, s *models.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *s
	r.m.sessions[s.ID] = &cp
	return nil
}

func (r fakeSessions) Get(_ context.Context, id string) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r fakeSessions) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sessions[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.sessions, id)
	return nil
}

func (r fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, s := range r.m.sessions {
		if s.Expired(now) {
			delete(r.m.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeDocuments struct{ m *fakeRepoManager }

func (r fakeDocuments) Create(_ context.Context, _ string, doc *wire.Document) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	doc.CreatedAt = time.Now().UTC()
	r.m.docs = append(r.m.docs, *doc)
	return nil
}

func (r fakeDocuments) List(_ context.Context, _, collectionID string, queries []wire.Query) ([]wire.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.LastQueries = queries
	out := []wire.Document{}
	for _, d := range r.m.docs {
		if d.CollectionID == collectionID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeFiles struct{ m *fakeRepoManager }

func fileKey(bucketID, id string) string { return bucketID + "/" + id }

func (r fakeFiles) Create(_ context.Context, f *models.File) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.files[fileKey(f.BucketID, f.ID)]; ok {
		return common.ErrAlreadyExists
	}
	cp := *f
	r.m.files[fileKey(f.BucketID, f.ID)] = &cp
	return nil
}

func (r fakeFiles) Get(_ context.Context, bucketID, id string) (*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[fileKey(bucketID, id)]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r fakeFiles) MarkReady(_ context.Context, bucketID, id string, size int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[fileKey(bucketID, id)]
	if !ok {
		return common.ErrNotFound
	}
	f.Status = models.FileStatusReady
	f.Size = size
	return nil
}

// fakeStore is an ObjectStore whose objects are put directly by tests.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error

	LastPutKey         string
	LastPutContentType string
	LastTTL            time.Duration
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) put(key string, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
}

func (s *fakeStore) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.LastPutKey, s.LastPutContentType, s.LastTTL = key, contentType, ttl
	return "http://store/put/" + key, nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.LastTTL = ttl
	return "http://store/get/" + key, nil
}

func (s *fakeStore) Head(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return 0, common.ErrNotFound
	}
	return int64(len(b)), nil
}

func (s *fakeStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// fakeRecorder counts what the services report.
type fakeRecorder struct {
	mu          sync.Mutex
	Throttled   int
	UploadBytes int64
}

func (r *fakeRecorder) RecordRPC(string, string, time.Duration) {}
func (r *fakeRecorder) RecordHTTP(string, int)                  {}

func (r *fakeRecorder) RecordUpload(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UploadBytes += n
}

func (r *fakeRecorder) RecordLoginThrottled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Throttled++
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.LoginRatePerMinute = 1
	cfg.LoginBurst = 3
	return cfg
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

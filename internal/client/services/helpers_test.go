package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/platform/platformtest"
	"github.com/stretchr/testify/require"
)

// ---- fake metadata store ----

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string

	SetErr     error
	LastSetKey string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSetKey = key
	if f.SetErr != nil {
		return f.SetErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

// ---- fixtures ----

func testConfig() *config.Config {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.DatabaseID = "db"
	cfg.UserCollectionID = "users"
	cfg.VideoCollectionID = "videos"
	cfg.StorageID = "files"
	return &cfg
}

const (
	testEmail    = "neo@matrix.io"
	testPassword = "password1"
)

// signedIn returns a fake platform with one account logged in.
func signedIn(t *testing.T) *platformtest.Fake {
	t.Helper()
	p := platformtest.New()
	ctx := context.Background()
	_, err := p.CreateAccount(ctx, "acc-1", testEmail, testPassword, "neo")
	require.NoError(t, err)
	s, err := p.CreateEmailSession(ctx, testEmail, testPassword)
	require.NoError(t, err)
	p.SetSession(s.Secret)
	return p
}

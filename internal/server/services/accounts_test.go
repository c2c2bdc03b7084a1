package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/server/auth"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) (*AccountService, *fakeRepoManager, *fakeRecorder) {
	t.Helper()
	db, _ := newMockDB(t)
	rm := newFakeRepoManager()
	rec := &fakeRecorder{}
	return NewAccountService(db, rm, testConfig(), rec, logging.Nop()), rm, rec
}

func TestAccountService_CreateAccount(t *testing.T) {
	svc, rm, _ := newAccountService(t)
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, UniqueID, "ada@example.com", "password1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, UniqueID, a.ID)
	assert.Equal(t, "ada", a.Name)
	assert.Len(t, rm.accounts, 1)

	_, err = svc.CreateAccount(ctx, "", "ada@example.com", "password1", "Ada")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestAccountService_CreateAccount_Validation(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"bad email", "not-an-email", "password1"},
		{"display name form", "Ada <ada@example.com>", "password1"},
		{"short password", "ada@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAccount(ctx, "", tt.email, tt.password, "")
			require.ErrorIs(t, err, common.ErrInvalidArgument)
		})
	}
}

func TestAccountService_SessionLifecycle(t *testing.T) {
	svc, rm, _ := newAccountService(t)
	ctx := context.Background()

	acc, err := svc.CreateAccount(ctx, "acc-1", "ada@example.com", "password1", "Ada")
	require.NoError(t, err)

	session, secret, err := svc.CreateEmailSession(ctx, "ADA@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, session.AccountID)
	assert.NotEmpty(t, secret)

	got, err := svc.Authenticate(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	delete(rm.sessions, session.ID)
	_, err = svc.Authenticate(ctx, secret)
	require.ErrorIs(t, err, common.ErrAuth)
}

func TestAccountService_CreateEmailSession_InvalidCredentials(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "acc-1", "ada@example.com", "password1", "Ada")
	require.NoError(t, err)

	_, _, err = svc.CreateEmailSession(ctx, "ada@example.com", "wrong-password")
	require.ErrorIs(t, err, common.ErrAuth)

	_, _, err = svc.CreateEmailSession(ctx, "nobody@example.com", "password1")
	require.ErrorIs(t, err, common.ErrAuth)
}

func TestAccountService_CreateEmailSession_Throttled(t *testing.T) {
	svc, _, rec := newAccountService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.CreateEmailSession(ctx, "ada@example.com", "x")
		require.ErrorIs(t, err, common.ErrAuth)
	}
	_, _, err := svc.CreateEmailSession(ctx, "ada@example.com", "x")
	require.ErrorIs(t, err, common.ErrRateLimited)
	assert.Equal(t, 1, rec.Throttled)
}

func TestAccountService_CreateEmailSession_ThrottleIgnoresCase(t *testing.T) {
	svc, _, rec := newAccountService(t)
	ctx := context.Background()

	for _, email := range []string{"ada@example.com", "Ada@example.com", "ADA@example.com"} {
		_, _, err := svc.CreateEmailSession(ctx, email, "x")
		require.ErrorIs(t, err, common.ErrAuth)
	}
	_, _, err := svc.CreateEmailSession(ctx, "AdA@Example.com", "x")
	require.ErrorIs(t, err, common.ErrRateLimited)
	assert.Equal(t, 1, rec.Throttled)
}

func TestAccountService_Authenticate_Expired(t *testing.T) {
	svc, rm, _ := newAccountService(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	rm.sessions["s-1"] = &models.Session{ID: "s-1", AccountID: "acc-1", ExpiresAt: expires}
	secret, err := auth.GenerateToken("s-1", "acc-1", svc.jwtSecret, expires)
	require.NoError(t, err)

	svc.now = func() time.Time { return expires.Add(time.Minute) }
	_, err = svc.Authenticate(ctx, secret)
	require.ErrorIs(t, err, common.ErrAuth)

	_, err = svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, common.ErrAuth)
}

func TestAccountService_DeleteSession(t *testing.T) {
	db, mock := newMockDB(t)
	rm := newFakeRepoManager()
	svc := NewAccountService(db, rm, testConfig(), &fakeRecorder{}, logging.Nop())
	ctx := context.Background()

	current := &models.Session{ID: "s-1", AccountID: "acc-1"}
	rm.sessions["s-1"] = current
	rm.sessions["s-2"] = &models.Session{ID: "s-2", AccountID: "acc-1"}
	rm.sessions["s-3"] = &models.Session{ID: "s-3", AccountID: "acc-2"}

	mock.ExpectBegin()
	mock.ExpectRollback()
	require.ErrorIs(t, svc.DeleteSession(ctx, current, "s-3"), common.ErrNotFound)
	assert.Contains(t, rm.sessions, "s-3")

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.DeleteSession(ctx, current, "s-2"))
	assert.NotContains(t, rm.sessions, "s-2")

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.DeleteSession(ctx, current, common.CurrentSession))
	assert.NotContains(t, rm.sessions, "s-1")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Housekeep(t *testing.T) {
	svc, rm, _ := newAccountService(t)
	now := time.Now()
	rm.sessions["old"] = &models.Session{ID: "old", AccountID: "a", ExpiresAt: now.Add(-time.Hour)}
	rm.sessions["new"] = &models.Session{ID: "new", AccountID: "a", ExpiresAt: now.Add(time.Hour)}

	n, err := svc.Housekeep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, rm.sessions, "new")
}

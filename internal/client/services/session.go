package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/platform"
	"github.com/dmitrijs2005/aora/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/google/uuid"
)

// SessionManager owns the lifecycle of the single process session.
//
// Contract:
//   - CreateAccount registers an identity but does not authenticate.
//   - Login creates a session and makes it the one attached to calls.
//   - Logout destroys the current session; common.ErrAuth if there is none.
//   - ActiveIdentity returns the identity behind the current session.
//   - Restore reattaches a session persisted by an earlier process.
type SessionManager interface {
	CreateAccount(ctx context.Context, username, email, password string) (*models.Identity, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	ActiveIdentity(ctx context.Context) (*models.Identity, error)
	Restore(ctx context.Context) error
}

type sessionManager struct {
	platform platform.Platform
	store    metadata.Repository
	policy   config.SessionPolicy
	log      logging.Logger
}

// NewSessionManager builds a SessionManager. store may be nil, in which case
// sessions live only as long as the process.
func NewSessionManager(p platform.Platform, store metadata.Repository, policy config.SessionPolicy, log logging.Logger) SessionManager {
	if policy == "" {
		policy = config.SessionKeep
	}
	return &sessionManager{platform: p, store: store, policy: policy, log: log.With("module", "sessions")}
}

func (s *sessionManager) CreateAccount(ctx context.Context, username, email, password string) (*models.Identity, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrInvalidArgument)
	}
	id, err := s.platform.CreateAccount(ctx, uuid.NewString(), email, password, username)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info(ctx, "account created", "account_id", id.ID)
	return id, nil
}

func (s *sessionManager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidArgument)
	}

	prior := s.platform.SessionSecret()
	replacing := s.policy == config.SessionReplace && prior != ""
	if replacing {
		// the platform refuses a new session while one is attached
		s.platform.ClearSession()
	}

	session, err := s.platform.CreateEmailSession(ctx, email, password)
	if err != nil {
		if replacing {
			s.platform.SetSession(prior)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if replacing {
		s.dropPrior(ctx, prior)
	}
	s.platform.SetSession(session.Secret)
	s.persist(ctx, session)
	s.log.Info(ctx, "logged in", "account_id", session.AccountID, "session_id", session.ID)
	return session, nil
}

// dropPrior deletes the session a replacing login superseded. It runs only
// after the new session exists, with the old secret attached. A failure
// leaves the old session on the platform and is logged.
func (s *sessionManager) dropPrior(ctx context.Context, prior string) {
	s.platform.SetSession(prior)
	err := s.platform.DeleteSession(ctx, common.CurrentSession)
	if err != nil && !errors.Is(err, common.ErrAuth) {
		s.log.Warn(ctx, "superseded session not deleted", "error", err)
	}
}

func (s *sessionManager) Logout(ctx context.Context) error {
	if s.platform.SessionSecret() == "" {
		return fmt.Errorf("logout: %w: no active session", common.ErrAuth)
	}
	err := s.platform.DeleteSession(ctx, common.CurrentSession)
	if err != nil && !errors.Is(err, common.ErrAuth) {
		return fmt.Errorf("logout: %w", err)
	}
	s.forget(ctx)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *sessionManager) ActiveIdentity(ctx context.Context) (*models.Identity, error) {
	if s.platform.SessionSecret() == "" {
		return nil, fmt.Errorf("%w: no active session", common.ErrAuth)
	}
	id, err := s.platform.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("active identity: %w", err)
	}
	return id, nil
}

func (s *sessionManager) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	secret, ok, err := s.store.Get(ctx, metadata.KeySessionSecret)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok || secret == "" {
		return nil
	}
	s.platform.SetSession(secret)
	s.log.Debug(ctx, "session restored")
	return nil
}

func (s *sessionManager) persist(ctx context.Context, session *models.Session) {
	if s.store == nil {
		return
	}
	for _, kv := range [][2]string{
		{metadata.KeySessionID, session.ID},
		{metadata.KeySessionSecret, session.Secret},
		{metadata.KeyAccountID, session.AccountID},
	} {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			s.log.Warn(ctx, "session not persisted", "error", err)
			return
		}
	}
}

// forget drops the session from the binding and from local storage.
func (s *sessionManager) forget(ctx context.Context) {
	s.platform.ClearSession()
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, metadata.KeySessionID, metadata.KeySessionSecret, metadata.KeyAccountID); err != nil {
		s.log.Warn(ctx, "persisted session not cleared", "error", err)
	}
}

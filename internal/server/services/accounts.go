package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/cryptox"
	"github.com/dmitrijs2005/aora/internal/dbx"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/metrics"
	"github.com/dmitrijs2005/aora/internal/server/auth"
	"github.com/dmitrijs2005/aora/internal/server/config"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MinPasswordLen is the shortest password CreateAccount accepts.
const MinPasswordLen = 8

// UniqueID asks the platform to generate the identifier.
const UniqueID = "unique()"

// newID returns id, or a fresh UUID when id is blank or UniqueID.
func newID(id string) string {
	if id == "" || id == UniqueID {
		return uuid.NewString()
	}
	return id
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	sessionTTL  time.Duration
	limiter     *LoginLimiter
	metrics     metrics.Recorder
	logger      logging.Logger
	now         func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, rec metrics.Recorder, l logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		sessionTTL:  cfg.SessionTTL,
		limiter:     NewLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
		metrics:     rec,
		logger:      l.With("module", "accounts"),
		now:         time.Now,
	}
}

// CreateAccount registers an account. The email must parse as an address
// and the password must have at least MinPasswordLen characters.
func (s *AccountService) CreateAccount(ctx context.Context, id, email, password, name string) (*models.Account, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email %q", common.ErrInvalidArgument, email)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidArgument, MinPasswordLen)
	}
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, salt := cryptox.HashPassword([]byte(password))
	account := &models.Account{
		ID:           newID(id),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: hash,
		Salt:         salt,
	}

	if err := s.repomanager.Accounts(s.db).Create(ctx, account); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID)
	return account, nil
}

// CreateEmailSession checks the credentials and opens a session. It returns
// the session and its signed secret.
func (s *AccountService) CreateEmailSession(ctx context.Context, email, password string) (*models.Session, string, error) {
	email = strings.ToLower(email)
	if !s.limiter.Allow(email) {
		s.metrics.RecordLoginThrottled()
		return nil, "", common.ErrRateLimited
	}

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrAuth)
		}
		return nil, "", err
	}
	if !cryptox.VerifyPassword([]byte(password), account.PasswordHash, account.Salt) {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrAuth)
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: s.now().Add(s.sessionTTL).UTC(),
	}
	secret, err := auth.GenerateToken(session.ID, session.AccountID, s.jwtSecret, session.ExpiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %w", err)
	}
	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("error creating session: %w", err)
	}

	s.logger.Info(ctx, "session created", "account_id", account.ID, "session_id", session.ID)
	return session, secret, nil
}

// Authenticate resolves a session secret to its live session.
func (s *AccountService) Authenticate(ctx context.Context, secret string) (*models.Session, error) {
	claims, err := auth.ParseToken(secret, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.repomanager.Sessions(s.db).Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: session revoked", common.ErrAuth)
		}
		return nil, err
	}
	if session.AccountID != claims.AccountID || session.Expired(s.now()) {
		return nil, fmt.Errorf("%w: session expired", common.ErrAuth)
	}
	return session, nil
}

// DeleteSession ends sessionID, or the caller's own session when sessionID
// is "current". Sessions of other accounts are reported as not found.
func (s *AccountService) DeleteSession(ctx context.Context, current *models.Session, sessionID string) error {
	if sessionID == "" || sessionID == common.CurrentSession {
		sessionID = current.ID
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)
		if sessionID != current.ID {
			target, err := repo.Get(ctx, sessionID)
			if err != nil {
				return err
			}
			if target.AccountID != current.AccountID {
				return common.ErrNotFound
			}
		}
		if err := repo.Delete(ctx, sessionID); err != nil {
			return err
		}
		s.logger.Info(ctx, "session deleted", "account_id", current.AccountID, "session_id", sessionID)
		return nil
	})
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
}

// Housekeep removes expired sessions and idle login limiters.
func (s *AccountService) Housekeep(ctx context.Context) (int64, error) {
	s.limiter.Cleanup(time.Hour)
	n, err := s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

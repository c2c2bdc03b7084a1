// Package state holds the process-wide session state: whether a user is
// signed in and which profile is current.
//
// The Store moves only through its methods:
//
//	INIT --Bootstrap--> LOADING --> AUTHENTICATED | ANONYMOUS
//	ANONYMOUS --Login/SignUp--> AUTHENTICATED
//	AUTHENTICATED --Logout--> ANONYMOUS
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/services"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
)

type State struct {
	IsLoading   bool
	IsLoggedIn  bool
	CurrentUser *models.Profile
}

type Store struct {
	sessions services.SessionManager
	profiles services.ProfileRepository
	log      logging.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int

	boot    sync.Once
	bootErr error
}

// NewStore returns a Store in the INIT state (loading, signed out).
func NewStore(sessions services.SessionManager, profiles services.ProfileRepository, log logging.Logger) *Store {
	return &Store{
		sessions: sessions,
		profiles: profiles,
		log:      log.With("module", "state"),
		state:    State{IsLoading: true},
		subs:     map[int]func(State){},
	}
}

// Snapshot returns the current state. It never triggers Bootstrap.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every transition.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(next State) {
	s.mu.Lock()
	s.state = next
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(next)
	}
}

func (s *Store) authenticated(p *models.Profile) {
	s.set(State{IsLoggedIn: true, CurrentUser: p})
}

func (s *Store) anonymous() {
	s.set(State{})
}

// Bootstrap resolves the initial state from a persisted or live session.
// A missing session or profile ends quietly in ANONYMOUS; any other
// failure also ends there but is returned. Only the first call does work.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.boot.Do(func() {
		s.bootErr = s.bootstrap(ctx)
	})
	return s.bootErr
}

func (s *Store) bootstrap(ctx context.Context) error {
	s.set(State{IsLoading: true})

	if err := s.sessions.Restore(ctx); err != nil {
		s.log.Warn(ctx, "persisted session unreadable", "error", err)
	}

	profile, err := s.currentProfile(ctx)
	switch {
	case err == nil:
		s.authenticated(profile)
		s.log.Info(ctx, "signed in", "profile_id", profile.ID)
		return nil
	case errors.Is(err, common.ErrAuth), errors.Is(err, common.ErrNotFound):
		s.anonymous()
		s.log.Debug(ctx, "no signed-in user", "reason", err)
		return nil
	default:
		s.anonymous()
		return fmt.Errorf("bootstrap: %w", err)
	}
}

func (s *Store) currentProfile(ctx context.Context) (*models.Profile, error) {
	id, err := s.sessions.ActiveIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return s.profiles.ProfileByAccountID(ctx, id.ID)
}

// Login signs in and loads the matching profile. A rejected login leaves
// the state as it was; once the session has switched, a failed profile
// lookup ends in ANONYMOUS.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	session, err := s.sessions.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.ProfileByAccountID(ctx, session.AccountID)
	if err != nil {
		s.anonymous()
		return nil, err
	}
	s.authenticated(profile)
	return profile, nil
}

// SignUp creates the account, signs in and creates the profile. A failure
// part way leaves whatever was already created in place; a failure after the
// session switched ends in ANONYMOUS.
func (s *Store) SignUp(ctx context.Context, username, email, password string) (*models.Profile, error) {
	identity, err := s.sessions.CreateAccount(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Login(ctx, email, password); err != nil {
		return nil, err
	}
	avatar, err := s.profiles.AvatarURL(username)
	if err != nil {
		s.anonymous()
		return nil, fmt.Errorf("avatar url: %w", err)
	}
	profile, err := s.profiles.CreateProfile(ctx, identity, username, email, avatar)
	if err != nil {
		s.anonymous()
		return nil, err
	}
	s.authenticated(profile)
	return profile, nil
}

// Logout ends the session. The state becomes ANONYMOUS when the session
// is gone, including when the platform no longer knew it.
func (s *Store) Logout(ctx context.Context) error {
	err := s.sessions.Logout(ctx)
	if err == nil || errors.Is(err, common.ErrAuth) {
		s.anonymous()
	}
	return err
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/recipes/internal/common"
	"github.com/dmitrijs2005/recipes/internal/logging"
)

// SessionReader exposes the current session to gated operations.
type SessionReader interface {
	Session() models.Session
}

// SessionStore owns the auth token and the signed-in user. It is the Auth
// bound to the API client, so a 401 on any call tears the session down.
//
// Contract:
//   - Restore: validate a persisted token at startup, never fails.
//   - Login / Register: install and persist a new session or return the
//     user-facing error for the form.
//   - Logout: drop the session unconditionally, never fails.
//
// Every transition is published to subscribers after the lock is released.
type SessionStore struct {
	api   client.Client
	prefs prefs.Repository
	log   logging.Logger
	now   func() time.Time

	mu      sync.RWMutex
	session models.Session
	// pending is a persisted token sent with the identity call during
	// Restore. It never appears in session until the user is known.
	pending string

	subsMu sync.Mutex
	subs   []func(models.Session)
}

var (
	_ client.Auth   = (*SessionStore)(nil)
	_ SessionReader = (*SessionStore)(nil)
)

func NewSessionStore(api client.Client, repo prefs.Repository, log logging.Logger) *SessionStore {
	return &SessionStore{api: api, prefs: repo, log: log, now: time.Now}
}

// Subscribe registers fn for every later transition.
func (s *SessionStore) Subscribe(fn func(models.Session)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *SessionStore) notify(sess models.Session) {
	s.subsMu.Lock()
	subs := append([]func(models.Session){}, s.subs...)
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}

// Session is the current session. Token is set only together with User.
func (s *SessionStore) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token is the bearer token for API calls, including a token that Restore
// is still validating.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.Token != "" {
		return s.session.Token
	}
	return s.pending
}

// Restore resolves the persisted token to a user. Expired JWTs are dropped
// without asking the server.
func (s *SessionStore) Restore(ctx context.Context) {
	token, ok, err := s.prefs.Get(ctx, common.TokenKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read persisted token", "error", err)
	}
	if !ok || token == "" {
		s.notify(s.Session())
		return
	}

	if s.expired(token) {
		s.log.Info(ctx, "persisted token expired")
		s.forget(ctx)
		s.notify(s.Session())
		return
	}

	s.mu.Lock()
	s.pending = token
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Info(ctx, "persisted token rejected", "error", err)
		// a 401 already tore the session down through Unauthorized
		s.mu.Lock()
		stale := s.pending == token
		s.pending = ""
		s.mu.Unlock()
		if stale {
			s.forget(ctx)
			s.notify(s.Session())
		}
		return
	}

	s.mu.Lock()
	if s.pending != token {
		// a login or 401 replaced the token meanwhile
		s.mu.Unlock()
		return
	}
	s.pending = ""
	s.session = models.Session{Token: token, User: user}
	sess := s.session
	s.mu.Unlock()

	s.notify(sess)
}

// Login authenticates and persists the token. The returned error carries
// the message to show on the login form.
func (s *SessionStore) Login(ctx context.Context, creds models.Credentials) error {
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return err
	}

	user := res.User
	sess := models.Session{Token: res.AccessToken, User: &user}

	s.mu.Lock()
	s.session = sess
	s.pending = ""
	s.mu.Unlock()

	err = s.prefs.SetMany(ctx, map[string]string{
		common.TokenKey:    res.AccessToken,
		common.LastUserKey: user.Username,
	})
	if err != nil {
		s.log.Warn(ctx, "failed to persist token", "error", err)
	}

	s.log.Info(ctx, "logged in", "user", user.Username)
	s.notify(sess)
	return nil
}

// Register creates the account and signs in with the same credentials.
func (s *SessionStore) Register(ctx context.Context, reg models.Registration) error {
	if err := s.api.Register(ctx, reg); err != nil {
		return err
	}
	return s.Login(ctx, models.Credentials{Username: reg.Username, Password: reg.Password})
}

func (s *SessionStore) Logout(ctx context.Context) {
	s.clear()
	s.forget(ctx)
	s.log.Info(ctx, "logged out")
	s.notify(s.Session())
}

// Unauthorized is called by the API client on any 401.
func (s *SessionStore) Unauthorized(ctx context.Context) {
	if !s.clear() {
		return
	}
	s.forget(ctx)
	s.log.Info(ctx, "session invalidated by server")
	s.notify(s.Session())
}

// LastUser is the username of the most recent successful login.
func (s *SessionStore) LastUser(ctx context.Context) string {
	name, _, err := s.prefs.Get(ctx, common.LastUserKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read last user", "error", err)
	}
	return name
}

// clear empties the in-memory session and reports whether it held a token.
func (s *SessionStore) clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.session.Token != "" || s.pending != ""
	s.session = models.Session{}
	s.pending = ""
	return had
}

func (s *SessionStore) forget(ctx context.Context) {
	if err := s.prefs.Delete(ctx, common.TokenKey); err != nil {
		s.log.Warn(ctx, "failed to delete persisted token", "error", err)
	}
}

func (s *SessionStore) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// opaque tokens are validated by the server only
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

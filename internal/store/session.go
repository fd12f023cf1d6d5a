// Package store holds the client-side state containers. Each store caches a
// server-owned resource and resynchronizes it through the backend client;
// no store touches another store's state.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/liquorlane/liquorfront/internal/backend"
	"github.com/liquorlane/liquorfront/internal/events"
	"github.com/liquorlane/liquorfront/internal/localstate"
	"github.com/liquorlane/liquorfront/internal/models"
)

// TokenSource supplies the bearer credential for authenticated backend
// calls. An empty string means no credential is held.
type TokenSource interface {
	Token() string
}

const adminRole = "ADMIN"

// SessionStore holds the authenticated identity and credentials. Identity
// and credential are set and cleared together, in memory and on disk.
type SessionStore struct {
	mu      sync.RWMutex
	session *models.Session
	token   string
	refresh string

	api    *backend.Client
	state  *localstate.Store
	events events.Publisher
	log    *slog.Logger
}

// NewSessionStore restores any persisted session before returning. A
// persisted access token that has already expired is discarded together
// with its identity.
func NewSessionStore(api *backend.Client, state *localstate.Store, pub events.Publisher, log *slog.Logger) *SessionStore {
	s := &SessionStore{api: api, state: state, events: pub, log: log}
	s.hydrate()
	return s
}

func (s *SessionStore) hydrate() {
	sess, token, refresh, err := s.state.LoadSession()
	if err != nil {
		s.log.Warn("failed to load persisted session", "error", err)
		return
	}
	if sess == nil || token == "" {
		return
	}

	if tokenExpired(token) {
		s.log.Info("persisted access token expired, clearing session")
		if err := s.state.ClearSession(); err != nil {
			s.log.Warn("failed to clear expired session", "error", err)
		}
		return
	}

	s.session, s.token, s.refresh = sess, token, refresh
}

// tokenExpired reads the exp claim without verifying the signature; the
// client holds no signing key. Opaque or claimless tokens are assumed live
// and left for the backend to reject.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Login authenticates against the backend and, on success, installs and
// persists the identity/credential pair. On any failure the store is left
// untouched. No retry.
func (s *SessionStore) Login(ctx context.Context, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	sess := models.Session{
		Name:         res.Name,
		Email:        res.Email,
		MobileNumber: res.MobileNumber,
		Role:         res.Role,
		Username:     username,
	}

	s.mu.Lock()
	s.session = &sess
	s.token = res.Token
	s.refresh = res.RefreshToken
	s.mu.Unlock()

	if err := s.state.SaveSession(sess, res.Token, res.RefreshToken); err != nil {
		s.log.Warn("failed to persist session", "error", err)
	}

	s.publish(ctx, username, map[string]any{
		"type":     "user_logged_in",
		"username": username,
	})
	return nil
}

// Register forwards the profile to the signup endpoint. It never installs a
// session; the caller logs in afterwards.
func (s *SessionStore) Register(ctx context.Context, profile models.Profile) error {
	if err := s.api.Register(ctx, profile); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.publish(ctx, profile.Username, map[string]any{
		"type":     "user_registered",
		"username": profile.Username,
	})
	return nil
}

// Logout clears the in-memory and persisted session unconditionally.
// Idempotent.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	username := ""
	if s.session != nil {
		username = s.session.Username
	}
	s.session = nil
	s.token = ""
	s.refresh = ""
	s.mu.Unlock()

	if err := s.state.ClearSession(); err != nil {
		s.log.Warn("failed to clear persisted session", "error", err)
	}

	if username != "" {
		s.publish(ctx, username, map[string]any{
			"type":     "user_logged_out",
			"username": username,
		})
	}
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// AuthHeader is the Authorization fragment for outbound calls, empty when
// no credential is held.
func (s *SessionStore) AuthHeader() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + s.token}
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsAdmin compares the role case-insensitively; the same predicate guards
// the admin routes so the two can never disagree.
func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && strings.EqualFold(s.session.Role, adminRole)
}

// Current returns a copy of the identity, or nil when logged out.
func (s *SessionStore) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	sess := *s.session
	return &sess
}

func (s *SessionStore) publish(ctx context.Context, key string, event map[string]any) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, events.TopicUser, key, event); err != nil {
		s.log.Error("kafka publish error", "error", err)
	}
}

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/liquorlane/liquorfront/internal/backend"
	"github.com/liquorlane/liquorfront/internal/models"
)

func loginBackend(t *testing.T, role string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/public/api/v1/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["username"] != "user1" || body["password"] != "pw" {
				http.Error(w, "bad credentials", http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"name": "A", "email": "a@x.com", "role": role,
				"token": "t1", "refreshToken": "r1",
			})
		case "/public/api/v1/signup":
			w.WriteHeader(http.StatusCreated)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestLoginSuccess(t *testing.T) {
	srv := loginBackend(t, "USER")
	defer srv.Close()

	state := newTestState(t)
	pub := &fakePublisher{}
	s := NewSessionStore(backend.NewClient(srv.URL), state, pub, testLog)

	require.NoError(t, s.Login(context.Background(), "user1", "pw"))
	require.True(t, s.IsAuthenticated())
	require.False(t, s.IsAdmin())
	require.Equal(t, "t1", s.Token())
	require.Equal(t, map[string]string{"Authorization": "Bearer t1"}, s.AuthHeader())

	current := s.Current()
	require.NotNil(t, current)
	require.Equal(t, "A", current.Name)
	require.Equal(t, "user1", current.Username)

	// Identity and credentials land on disk as one record.
	sess, token, refresh, err := state.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "A", sess.Name)
	require.Equal(t, "t1", token)
	require.Equal(t, "r1", refresh)

	require.Contains(t, pub.types(), "user_logged_in")
}

func TestLoginFailureLeavesStoreUntouched(t *testing.T) {
	srv := loginBackend(t, "USER")
	defer srv.Close()

	state := newTestState(t)
	s := NewSessionStore(backend.NewClient(srv.URL), state, nil, testLog)

	err := s.Login(context.Background(), "user1", "wrong")
	require.Error(t, err)
	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.AuthHeader())
	require.Nil(t, s.Current())

	sess, _, _, err := state.LoadSession()
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestLogoutClearsEverything(t *testing.T) {
	srv := loginBackend(t, "USER")
	defer srv.Close()

	state := newTestState(t)
	s := NewSessionStore(backend.NewClient(srv.URL), state, nil, testLog)
	require.NoError(t, s.Login(context.Background(), "user1", "pw"))

	s.Logout(context.Background())
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.Current())
	require.Empty(t, s.AuthHeader())

	sess, token, _, err := state.LoadSession()
	require.NoError(t, err)
	require.Nil(t, sess)
	require.Empty(t, token)

	// Idempotent.
	s.Logout(context.Background())
	require.False(t, s.IsAuthenticated())
}

func TestIsAdminCaseInsensitive(t *testing.T) {
	for _, role := range []string{"ADMIN", "admin", "Admin"} {
		srv := loginBackend(t, role)
		s := NewSessionStore(backend.NewClient(srv.URL), newTestState(t), nil, testLog)
		require.NoError(t, s.Login(context.Background(), "user1", "pw"))
		require.True(t, s.IsAdmin(), "role %q", role)
		srv.Close()
	}
}

func TestHydrateRestoresPersistedSession(t *testing.T) {
	state := newTestState(t)
	saved := models.Session{Name: "A", Role: "USER", Username: "user1"}
	require.NoError(t, state.SaveSession(saved, "opaque-token", "r1"))

	s := NewSessionStore(backend.NewClient("http://unused"), state, nil, testLog)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "opaque-token", s.Token())
	require.Equal(t, "A", s.Current().Name)
}

func TestHydrateDiscardsExpiredToken(t *testing.T) {
	state := newTestState(t)

	claims := jwt.MapClaims{"sub": 1, "exp": time.Now().Add(-time.Hour).Unix()}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	saved := models.Session{Name: "A", Role: "USER", Username: "user1"}
	require.NoError(t, state.SaveSession(saved, expired, "r1"))

	s := NewSessionStore(backend.NewClient("http://unused"), state, nil, testLog)
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.Current())

	// The expired pair is gone from disk too.
	sess, _, _, err := state.LoadSession()
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	srv := loginBackend(t, "USER")
	defer srv.Close()

	s := NewSessionStore(backend.NewClient(srv.URL), newTestState(t), nil, testLog)
	err := s.Register(context.Background(), models.Profile{
		Name:     "A",
		Username: "user1",
		Password: "pw",
	})
	require.NoError(t, err)
	require.False(t, s.IsAuthenticated())
}

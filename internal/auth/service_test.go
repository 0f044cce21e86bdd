package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/domain"
	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/store"
)

type authFixture struct {
	svc      *auth.Service
	observer *auth.Observer
	store    domain.SessionStore
	path     string
}

func newAuthFixture(t *testing.T, handler http.Handler) *authFixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	st := store.NewFileStore(path)
	obs := auth.NewObserver(st)
	svc := auth.NewService(srv.URL, srv.Client(), st, obs, auth.NewLocalNotifier())

	return &authFixture{svc: svc, observer: obs, store: st, path: path}
}

func signinOK(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":    "jwt-abc",
		"id":       42,
		"username": "ada",
		"email":    "ada@example.com",
		"roles":    []string{"ROLE_USER"},
	})
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", signinOK)
	f := newAuthFixture(t, mux)

	var notified []*domain.User
	f.observer.Subscribe(func(u *domain.User) { notified = append(notified, u) })

	out := f.svc.Login(context.Background(), domain.Credentials{Username: "ada", Password: "secret"})

	require.True(t, out.Authenticated())
	assert.Equal(t, "jwt-abc", out.Session.Token)
	assert.Equal(t, "ada", out.Session.User.Username)

	assert.True(t, f.svc.IsAuthenticated())
	assert.Equal(t, "jwt-abc", f.svc.Token())

	require.NotNil(t, f.observer.Current())
	assert.Equal(t, int64(42), f.observer.Current().ID)
	assert.NotEmpty(t, notified)

	persisted, ok := f.store.Load()
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", persisted.Token)
	assert.Equal(t, "ada@example.com", persisted.User.Email)
}

func TestLoginRejectedCarriesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
	})
	f := newAuthFixture(t, mux)

	out := f.svc.Login(context.Background(), domain.Credentials{Username: "ada", Password: "wrong"})

	assert.True(t, out.Failed)
	assert.Equal(t, "Invalid username or password", out.Message)
	assert.False(t, f.svc.IsAuthenticated())
	assert.Nil(t, f.observer.Current())
}

func TestLoginRejectedWithoutBodyFallsBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := newAuthFixture(t, mux)

	out := f.svc.Login(context.Background(), domain.Credentials{Username: "ada", Password: "secret"})

	assert.True(t, out.Failed)
	assert.Equal(t, "Login failed", out.Message)
}

func TestLoginNetworkFailureIsAValueNotAPanic(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	path := filepath.Join(t.TempDir(), "session.json")
	st := store.NewFileStore(path)
	obs := auth.NewObserver(st)
	svc := auth.NewService(srv.URL, nil, st, obs, auth.NewLocalNotifier())

	out := svc.Login(context.Background(), domain.Credentials{Username: "ada", Password: "secret"})

	assert.True(t, out.Failed)
	assert.Equal(t, "Network error, please try again later", out.Message)
}

// Signup has three load-bearing outcome shapes: token issued, success message
// without a token, and failure message.
func TestSignupOutcomeShapes(t *testing.T) {
	t.Run("token issued", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /signup", signinOK)
		f := newAuthFixture(t, mux)

		out := f.svc.Signup(context.Background(), domain.SignupDetails{Username: "ada", Email: "ada@example.com", Password: "secret"})

		require.True(t, out.Authenticated())
		assert.True(t, f.svc.IsAuthenticated())
	})

	t.Run("confirmation message without token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /signup", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Please check your email to confirm your account"})
		})
		f := newAuthFixture(t, mux)

		out := f.svc.Signup(context.Background(), domain.SignupDetails{Username: "ada", Email: "ada@example.com", Password: "secret"})

		assert.False(t, out.Failed)
		assert.Nil(t, out.Session)
		assert.Equal(t, "Please check your email to confirm your account", out.Message)
		assert.False(t, f.svc.IsAuthenticated())
	})

	t.Run("rejected", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /signup", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Error: Username is already taken!"})
		})
		f := newAuthFixture(t, mux)

		out := f.svc.Signup(context.Background(), domain.SignupDetails{Username: "ada", Email: "ada@example.com", Password: "secret"})

		assert.True(t, out.Failed)
		assert.Equal(t, "Error: Username is already taken!", out.Message)
	})
}

func TestLoginThenLogoutLeavesNothingBehind(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", signinOK)
	f := newAuthFixture(t, mux)

	out := f.svc.Login(context.Background(), domain.Credentials{Username: "ada", Password: "secret"})
	require.True(t, out.Authenticated())

	f.svc.Logout()

	assert.False(t, f.svc.IsAuthenticated())
	assert.Nil(t, f.observer.Current())
	assert.Nil(t, f.svc.UserInfo())
	_, ok := f.store.Load()
	assert.False(t, ok)

	// Logging out twice ends in the same state as once.
	f.svc.Logout()
	assert.False(t, f.svc.IsAuthenticated())
	assert.Nil(t, f.observer.Current())
}

func TestExpireForcesSignOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", signinOK)
	f := newAuthFixture(t, mux)

	require.True(t, f.svc.Login(context.Background(), domain.Credentials{Username: "ada", Password: "secret"}).Authenticated())

	f.svc.Expire()

	assert.False(t, f.svc.IsAuthenticated())
	assert.Empty(t, f.svc.Token())
	assert.Nil(t, f.observer.Current())
}

func TestUserInfoCorruptRecordDegradesToNil(t *testing.T) {
	f := newAuthFixture(t, http.NewServeMux())

	require.NoError(t, os.WriteFile(f.path, []byte("][ definitely not json"), 0o600))

	assert.NotPanics(t, func() {
		assert.Nil(t, f.svc.UserInfo())
		assert.False(t, f.svc.IsAuthenticated())
	})
}

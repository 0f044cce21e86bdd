package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-blog/inkwell/domain"
)

const (
	signinPath = "/signin"
	signupPath = "/signup"

	loginFailedMessage  = "Login failed"
	signupFailedMessage = "Registration failed"
	networkErrMessage   = "Network error, please try again later"

	defaultTimeout = 15 * time.Second
)

// Service implements the session operations against the remote auth backend.
type Service struct {
	baseURL  string
	client   *http.Client
	store    domain.SessionStore
	observer *Observer
	notifier Notifier
}

var _ domain.AuthService = (*Service)(nil)
var _ domain.SessionAccess = (*Service)(nil)

// NewService will create a new auth service object. baseURL is the auth
// endpoint root (e.g. https://host/api/auth). The observer is wired to the
// notifier here so out-of-band session changes re-sync it.
func NewService(baseURL string, client *http.Client, store domain.SessionStore, observer *Observer, notifier Notifier) *Service {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	notifier.OnChange(observer.Refresh)
	return &Service{
		baseURL:  baseURL,
		client:   client,
		store:    store,
		observer: observer,
		notifier: notifier,
	}
}

type authPayload struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Message  string   `json:"message"`
}

func (s *Service) Login(ctx context.Context, c domain.Credentials) domain.AuthOutcome {
	return s.authenticate(ctx, signinPath, authPayload{
		Username: c.Username,
		Password: c.Password,
	}, loginFailedMessage)
}

func (s *Service) Signup(ctx context.Context, d domain.SignupDetails) domain.AuthOutcome {
	return s.authenticate(ctx, signupPath, authPayload{
		Username: d.Username,
		Email:    d.Email,
		Password: d.Password,
	}, signupFailedMessage)
}

// authenticate posts the payload and folds every anticipated failure into the
// outcome value. Only the three documented shapes come back: established
// session, token-less success message, or failure message.
func (s *Service) authenticate(ctx context.Context, path string, payload authPayload, fallback string) domain.AuthOutcome {
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.Errorf("failed to encode auth payload: %v", err)
		return domain.AuthOutcome{Message: fallback, Failed: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		logrus.Errorf("failed to build auth request: %v", err)
		return domain.AuthOutcome{Message: fallback, Failed: true}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logrus.Errorf("auth request failed: %v", err)
		return domain.AuthOutcome{Message: networkErrMessage, Failed: true}
	}
	defer resp.Body.Close()

	var ar authResponse
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil || ar.Message == "" {
			return domain.AuthOutcome{Message: fallback, Failed: true}
		}
		return domain.AuthOutcome{Message: ar.Message, Failed: true}
	}

	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		logrus.Errorf("failed to decode auth response: %v", err)
		return domain.AuthOutcome{Message: fallback, Failed: true}
	}

	if ar.Token == "" {
		// Confirmation-style flow: the backend accepted the request but
		// issued no token yet.
		if ar.Message == "" {
			return domain.AuthOutcome{Message: fallback, Failed: true}
		}
		return domain.AuthOutcome{Message: ar.Message}
	}

	sess := domain.Session{
		Token: ar.Token,
		User: domain.User{
			ID:       ar.ID,
			Username: ar.Username,
			Email:    ar.Email,
		},
	}
	s.commit(sess)
	return domain.AuthOutcome{Session: &sess}
}

// commit persists the session as one record and pushes the viewer to every
// observer, local and out-of-band.
func (s *Service) commit(sess domain.Session) {
	if err := s.store.Save(sess); err != nil {
		logrus.Warnf("failed to persist session: %v", err)
	}
	u := sess.User
	s.observer.Set(&u)
	s.broadcast()
}

// Logout destroys the session. It cannot fail and repeating it is harmless.
func (s *Service) Logout() {
	if err := s.store.Clear(); err != nil {
		logrus.Warnf("failed to clear session store: %v", err)
	}
	s.observer.Set(nil)
	s.broadcast()
}

// Expire is the forced-logout side effect for a token the backend rejected.
func (s *Service) Expire() {
	logrus.Info("session rejected by backend, signing out")
	s.Logout()
}

func (s *Service) IsAuthenticated() bool {
	_, ok := s.store.Load()
	return ok
}

func (s *Service) UserInfo() *domain.User {
	sess, ok := s.store.Load()
	if !ok {
		return nil
	}
	u := sess.User
	return &u
}

func (s *Service) Token() string {
	sess, ok := s.store.Load()
	if !ok {
		return ""
	}
	return sess.Token
}

func (s *Service) broadcast() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.notifier.Broadcast(ctx); err != nil {
		logrus.Warnf("failed to broadcast session change: %v", err)
	}
}

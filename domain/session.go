package domain

import "context"

// User represents the profile of an authenticated viewer as cached locally.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the authenticated identity of the current viewer: an opaque
// bearer token plus the cached profile. Token and user are one logical unit;
// a session missing either half is invalid.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries both halves of the record.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.Username != ""
}

// Credentials are the sign-in form fields.
type Credentials struct {
	Username string
	Password string
}

// SignupDetails are the registration form fields.
type SignupDetails struct {
	Username string
	Email    string
	Password string
}

// AuthOutcome is the uniform result of a login or signup attempt. Expected
// failures are carried as values, never raised. Exactly one of three shapes
// applies:
//   - Session != nil: a token was issued and the session is established.
//   - Session == nil, Failed == false: the server accepted the request but
//     issued no token (confirmation-style signup); Message explains.
//   - Failed == true: Message carries the server's error or a generic one.
type AuthOutcome struct {
	Session *Session
	Message string
	Failed  bool
}

// Authenticated reports whether the attempt established a session.
func (o AuthOutcome) Authenticated() bool {
	return o.Session != nil
}

// SessionStore defines the contract for durable session persistence.
// Implementations commit token and user as a single record. An environment
// without durable storage is a normal condition: operations become no-ops
// and Load reports no session.
type SessionStore interface {
	// Load reads the persisted session. ok is false when no valid session
	// exists; a corrupt or half-written record degrades to ok=false and
	// never returns an error.
	Load() (s Session, ok bool)

	// Save commits the session atomically.
	Save(s Session) error

	// Clear removes the persisted session. Clearing an empty store is not
	// an error.
	Clear() error
}

// AuthService defines the business logic contract for session operations.
type AuthService interface {
	// Login posts credentials to the auth backend and establishes a
	// session on success.
	Login(ctx context.Context, c Credentials) AuthOutcome

	// Signup registers a new account. The backend may answer with a
	// success message and no token; callers must branch on the outcome
	// shape.
	Signup(ctx context.Context, d SignupDetails) AuthOutcome

	// Logout destroys the session. Unconditional and idempotent.
	Logout()

	// IsAuthenticated reports whether a session is persisted right now,
	// not a cached answer.
	IsAuthenticated() bool

	// UserInfo returns the cached profile, or nil when no session exists
	// or the persisted record is unreadable.
	UserInfo() *User
}

// SessionAccess is the narrow view of the session the resource clients need:
// the current token, and the forced-expiry side effect for dead tokens.
type SessionAccess interface {
	// Token returns the current bearer token, or "" when signed out.
	Token() string

	// Expire destroys the session in response to an authorization failure
	// from the backend and notifies all observers.
	Expire()
}

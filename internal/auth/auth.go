// Package auth holds the console's authentication state: who is signed in,
// in which role, and the operations that change it.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
)

var (
	// ErrMissingCredentials is returned before any request when the
	// identifier or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrUnreachable is returned when the login request got no answer.
	ErrUnreachable = errors.New("unable to reach authentication server")
	// ErrInvalidCredentials is returned when the backend rejected a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingPasswords is returned when a password change lacks either value.
	ErrMissingPasswords = errors.New("please fill both passwords")
	// ErrNotSignedIn is returned by operations that need a user.
	ErrNotSignedIn = errors.New("not signed in")
)

// Error is an operator-facing failure. Message is what the console shows;
// Err classifies it for errors.Is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Store persists the signed-in user.
type Store interface {
	Load() (*model.User, error)
	Save(u *model.User) error
}

// Backend is the subset of the api client used for authentication.
type Backend interface {
	Login(ctx context.Context, role model.Role, identifier, password string) (*api.LoginResponse, error)
	ChangePassword(ctx context.Context, officerID, current, next string) (string, error)
}

// Provider is the process-wide authentication state. It is created once at
// the application root and passed to whatever needs the current user.
type Provider struct {
	mu      sync.RWMutex
	user    *model.User
	store   Store
	backend Backend
	logger  *slog.Logger
}

// NewProvider restores the persisted user from store. An unreadable record
// is logged and treated as signed out.
func NewProvider(store Store, backend Backend, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{store: store, backend: backend, logger: logger}
	u, err := store.Load()
	if err != nil {
		logger.Warn("discarding stored session", "error", err)
	}
	p.user = u
	return p
}

// User returns a copy of the signed-in user, or nil.
func (p *Provider) User() *model.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// setUser replaces the current user and mirrors it to the store.
func (p *Provider) setUser(u *model.User) error {
	p.mu.Lock()
	p.user = u
	p.mu.Unlock()
	return p.store.Save(u)
}

// Login authenticates identifier in role. The role defaults to fire-officer.
// A failed login, including a network failure, never changes the current user.
func (p *Provider) Login(ctx context.Context, identifier, password string, role model.Role) (*model.User, error) {
	if identifier == "" || password == "" {
		return nil, &Error{Message: "Username and password are required", Err: ErrMissingCredentials}
	}
	if role == "" {
		role = model.RoleFireOfficer
	}

	resp, err := p.backend.Login(ctx, role, identifier, password)
	if err != nil {
		if api.IsNetwork(err) {
			p.logger.Debug("login request failed", "error", err)
			return nil, &Error{Message: "Unable to reach authentication server", Err: ErrUnreachable}
		}
		return nil, &Error{Message: api.MessageOr(err, "Invalid credentials"), Err: ErrInvalidCredentials}
	}

	u := &model.User{
		Username: identifier,
		Role:     role,
		Profile:  resp.Profile(),
		Token:    resp.BearerToken(),
	}
	if err := p.setUser(u); err != nil {
		p.logger.Warn("session not persisted", "error", err)
	}
	p.logger.Info("signed in", "user", identifier, "role", role)
	return p.User(), nil
}

// Logout clears the current user in memory and in the store.
func (p *Provider) Logout() error {
	return p.setUser(nil)
}

// OfficerID identifies the operator on ticket operations. It never fails:
// profile.officer_id, profile._id, profile.id, username, profile.admin_id,
// then "unknown".
func (p *Provider) OfficerID() string {
	u := p.User()
	if u == nil {
		return "unknown"
	}
	if id := u.Profile.String("officer_id", "_id", "id"); id != "" {
		return id
	}
	if u.Username != "" {
		return u.Username
	}
	if id := u.Profile.String("admin_id"); id != "" {
		return id
	}
	return "unknown"
}

// PasswordOfficerID identifies the account whose password is changed:
// profile.officer_id, profile._id, then username.
func (p *Provider) PasswordOfficerID() string {
	u := p.User()
	if u == nil {
		return ""
	}
	if id := u.Profile.String("officer_id", "_id"); id != "" {
		return id
	}
	return u.Username
}

// ChangePassword changes the signed-in officer's password and returns the
// confirmation to show. The session is left untouched; the caller decides
// when to force re-authentication.
func (p *Provider) ChangePassword(ctx context.Context, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", &Error{Message: "Please fill both passwords", Err: ErrMissingPasswords}
	}
	if p.User() == nil {
		return "", &Error{Message: "Please log in first", Err: ErrNotSignedIn}
	}

	msg, err := p.backend.ChangePassword(ctx, p.PasswordOfficerID(), current, next)
	if err != nil {
		return "", &Error{Message: api.MessageOr(err, "Failed to change password"), Err: err}
	}
	if strings.TrimSpace(msg) == "" {
		msg = "Password changed successfully"
	}
	return msg, nil
}

// Token implements oauth2.TokenSource over the current user's bearer token.
// Signed-out users and sessions without a token yield an invalid token,
// which the api client does not send.
func (p *Provider) Token() (*oauth2.Token, error) {
	u := p.User()
	if u == nil || u.Token == "" {
		return &oauth2.Token{}, nil
	}
	return &oauth2.Token{AccessToken: u.Token, TokenType: "Bearer"}, nil
}

// Package shell is the console's view router. It decides which screen is
// shown, guards officer-only and manager-only screens, and gives each
// mounted screen its own lifetime.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/views"
)

// View names a screen.
type View string

const (
	Home       View = "home"
	Rates      View = "rates"
	VehicleIn  View = "vehicle-in"
	VehicleOut View = "vehicle-out"
	Officers   View = "officers"
	Income     View = "income"
)

// Views lists every screen.
var Views = []View{Home, Rates, VehicleIn, VehicleOut, Officers, Income}

// ParseView accepts a screen name.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// ReauthDelay is how long a password-change confirmation stays up before
// the forced logout.
const ReauthDelay = 800 * time.Millisecond

var (
	// ErrProtected is returned when an officer screen is opened signed out.
	ErrProtected = errors.New("access restricted: please login first")
	// ErrForbidden is returned when a screen or action needs another role.
	ErrForbidden = views.ErrForbidden
)

// ProtectedMessage is the text of the access-restricted dialog.
const ProtectedMessage = "Only parking officers can access this section. Please login first."

// Auth is what the shell needs from the auth provider.
type Auth interface {
	User() *model.User
	Logout() error
	ChangePassword(ctx context.Context, current, next string) (string, error)
}

// Shell holds the current screen and dialog flags.
type Shell struct {
	mu             sync.Mutex
	auth           Auth
	view           View
	protected      bool
	loginRequested bool
	parent         context.Context
	lifetime       *views.Lifetime

	// ReauthDelay overrides the package default when non-zero.
	ReauthDelay time.Duration
	// Notify, if set, receives messages to show before a delayed action.
	Notify func(msg string)
}

// New returns a shell showing the rates screen.
func New(auth Auth) *Shell {
	return &Shell{auth: auth, view: Rates, parent: context.Background()}
}

// Start mounts the current screen under parent.
func (s *Shell) Start(parent context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = parent
	return s.remount()
}

// Close unmounts the current screen.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lifetime != nil {
		s.lifetime.Unmount()
	}
}

// remount replaces the screen lifetime. Callers hold s.mu.
func (s *Shell) remount() context.Context {
	if s.lifetime != nil {
		s.lifetime.Unmount()
	}
	s.lifetime = views.Mount(s.parent)
	return s.lifetime.Context()
}

// Context is the lifetime of the mounted screen.
func (s *Shell) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lifetime == nil {
		return s.remount()
	}
	return s.lifetime.Context()
}

// View is the current screen.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Navigate switches screens. Officer screens need a signed-in user; income
// and officers need a manager. A refused switch leaves the screen as is.
// Switching to the shown screen keeps it mounted.
func (s *Shell) Navigate(v View) error {
	u := s.auth.User()
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v {
	case VehicleIn, VehicleOut:
		if u == nil {
			s.protected = true
			return ErrProtected
		}
	case Income, Officers:
		if !u.IsManager() {
			return ErrForbidden
		}
	case Home, Rates:
	default:
		return fmt.Errorf("unknown view %q", v)
	}
	if v == s.view && s.lifetime != nil {
		return nil
	}
	s.view = v
	s.remount()
	return nil
}

// Protected reports whether the access-restricted dialog is raised.
func (s *Shell) Protected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protected
}

// DismissProtected closes the access-restricted dialog.
func (s *Shell) DismissProtected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protected = false
}

// LoginRequested reports whether the login prompt should be shown.
func (s *Shell) LoginRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginRequested
}

// RequestLogin raises the login prompt.
func (s *Shell) RequestLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginRequested = true
}

// DismissLogin closes the login prompt.
func (s *Shell) DismissLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginRequested = false
}

// Logout signs out and returns to the home screen.
func (s *Shell) Logout() error {
	err := s.auth.Logout()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = Home
	s.remount()
	return err
}

// ChangePassword changes a fire officer's password. On success the message
// is passed to Notify, and after the reauth delay the user is signed out
// and asked to log in again.
func (s *Shell) ChangePassword(ctx context.Context, current, next string) (string, error) {
	if !s.auth.User().IsFireOfficer() {
		return "", ErrForbidden
	}
	msg, err := s.auth.ChangePassword(ctx, current, next)
	if err != nil {
		return "", err
	}
	if s.Notify != nil {
		s.Notify(msg)
	}

	delay := s.ReauthDelay
	if delay == 0 {
		delay = ReauthDelay
	}
	t := time.NewTimer(delay)
	select {
	case <-t.C:
	case <-ctx.Done():
		t.Stop()
	}

	logoutErr := s.auth.Logout()
	s.mu.Lock()
	s.loginRequested = true
	s.mu.Unlock()
	return msg, logoutErr
}

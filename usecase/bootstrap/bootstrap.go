// Package bootstrap decides, when a page is opened, whether the visitor may
// stay on it or must be sent elsewhere.
package bootstrap

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

// LoginPath is where visitors without a session are sent.
const LoginPath = "/login"

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// UserResolver returns the logged-in user or nil.
type UserResolver interface {
	CurrentUser(ctx context.Context) *domain.User
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

type State int

const (
	StateUnchecked State = iota
	StateResolved
)

var protectedPaths = map[string]struct{}{
	"/admin":     {},
	"/principal": {},
	"/teacher":   {},
}

var roleHomes = map[domain.Role]string{
	domain.RoleAdmin:     "/admin",
	domain.RolePrincipal: "/principal",
	domain.RoleTeacher:   "/teacher",
}

// IsProtected reports whether path requires a logged-in user. Only the exact
// page paths are protected.
func IsProtected(path string) bool {
	_, ok := protectedPaths[path]
	return ok
}

// HomeFor returns the landing page of role, or "" for an unknown role.
func HomeFor(role domain.Role) string {
	return roleHomes[role]
}

// Guard runs the page-load check once per page.
type Guard struct {
	users  UserResolver
	nav    Navigator
	logger *zap.Logger

	mu    sync.Mutex
	state State
	user  *domain.User
	err   error
}

func NewGuard(users UserResolver, nav Navigator, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{users: users, nav: nav, logger: logger}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Run checks the session for a protected path and navigates to the login
// page when there is none. Later calls return the first outcome.
func (g *Guard) Run(ctx context.Context, path string) (*domain.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateResolved {
		return g.user, g.err
	}
	g.state = StateResolved

	if !IsProtected(path) {
		return nil, nil
	}
	g.user = g.users.CurrentUser(ctx)
	if g.user == nil {
		g.logger.Debug("no session on protected page", zap.String("path", path))
		g.err = g.nav.Navigate(ctx, LoginPath)
	}
	return g.user, g.err
}

// RedirectToRole sends user to its role's home page unless it is already
// there. A nil user goes to the login page; an unknown role stays put.
func RedirectToRole(ctx context.Context, nav Navigator, user *domain.User, currentPath string) error {
	if user == nil {
		return nav.Navigate(ctx, LoginPath)
	}
	target := HomeFor(user.Role)
	if target == "" || target == currentPath {
		return nil
	}
	return nav.Navigate(ctx, target)
}

package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/api/transport"
	"github.com/saadamjad-44/school-attendance-system/domain"
)

// Login opens a session; the session cookie is kept by the gateway.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User
	err := c.gw.Do(ctx, "/login", Options{
		Method: "POST",
		Body:   transport.LoginRequest{Username: username, Password: password},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the session on the backend and always drops the local cookies.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.gw.Request(ctx, "/logout", Options{Method: "POST"})
	if forgetErr := c.gw.ForgetSession(ctx); forgetErr != nil {
		c.logger.Warn("failed to clear local session", zap.Error(forgetErr))
	}
	return err
}

// CurrentUser returns the logged-in user, or nil when there is none. Failures
// of any kind are treated as "no session".
func (c *Client) CurrentUser(ctx context.Context) *domain.User {
	var user *domain.User
	if err := c.gw.Do(ctx, "/me", Options{}, &user); err != nil {
		c.logger.Debug("no current user", zap.Error(err))
		return nil
	}
	// an empty or null body means nobody is logged in
	return user
}

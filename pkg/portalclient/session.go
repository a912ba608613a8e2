package portalclient

import (
	"context"
	"net/http"
	"time"

	identityapp "github.com/emlak/backend/internal/application/identity"
)

// User is the profile of a back office user
type User = identityapp.UserResponse

// Session is the authentication state of a client. The zero value is the
// anonymous session of the public site.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *User
}

// Authenticated reports whether the session carries an access token
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Expired reports whether the access token has expired at now
func (s Session) Expired(now time.Time) bool {
	return s.Authenticated() && !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func sessionFrom(resp *identityapp.LoginResponse) Session {
	user := resp.User
	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.AccessTokenExpiresAt,
		User:         &user,
	}
}

// Login authenticates a back office user and returns the new session. The
// client itself keeps its current session; use WithSession to adopt it.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var resp identityapp.LoginResponse
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   identityapp.LoginRequest{Username: username, Password: password},
		out:    &resp,
	})
	if err != nil {
		return Session{}, err
	}
	return sessionFrom(&resp), nil
}

// Refresh exchanges the session's refresh token for a new session
func (c *Client) Refresh(ctx context.Context) (Session, error) {
	var resp identityapp.TokenResponse
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   identityapp.RefreshRequest{RefreshToken: c.session.RefreshToken},
		out:    &resp,
	})
	if err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.AccessTokenExpiresAt,
		User:         c.session.User,
	}, nil
}

// Logout revokes the session's tokens
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/logout",
		body:   identityapp.RefreshRequest{RefreshToken: c.session.RefreshToken},
	})
	return err
}

// Me returns the profile of the session's user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", out: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}

package medusa

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned by calls that need a session in the context but found none.
var ErrNoSession = errors.New("medusa: no session in context")

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login authenticates a customer with email/password and establishes a backend
// session whose cookie is captured into the context session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if SessionFrom(ctx) == nil {
		return ErrNoSession
	}
	token, err := c.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/session", bearer: token}, nil)
}

// Authenticate verifies email/password and returns the backend auth token
// without establishing a session.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	var tok tokenResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/customer/emailpass",
		body:   credentials{Email: email, Password: password},
	}, &tok); err != nil {
		return "", err
	}
	if tok.Token == "" {
		return "", errors.New("medusa: login returned no token")
	}
	return tok.Token, nil
}

// Logout invalidates the backend session. The context session is cleared
// whether or not the backend call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	sess := SessionFrom(ctx)
	err := c.do(ctx, request{method: http.MethodDelete, path: "/auth/session"}, nil)
	if sess != nil {
		sess.Clear()
	}
	return err
}

// Register creates an email/password identity and returns the registration
// token used to create the customer record.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var tok tokenResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/customer/emailpass/register",
		body:   credentials{Email: email, Password: password},
	}, &tok); err != nil {
		return "", err
	}
	if tok.Token == "" {
		return "", errors.New("medusa: register returned no token")
	}
	return tok.Token, nil
}

// TokenActorID reads the actor_id claim of a backend auth token without
// verifying its signature. An empty result means the identity is not yet
// bound to a customer.
func TokenActorID(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	id, _ := claims["actor_id"].(string)
	return id
}

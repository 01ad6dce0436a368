package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no active session")

// Session is the authenticated user context: the bearer token plus the
// identity claims the UI needs. The token is minted and verified server-side;
// the client only decodes its claims.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (client *Client) SetSession(session Session) {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.session = &session
}

func (client *Client) Session() (Session, bool) {
	client.mu.RLock()
	defer client.mu.RUnlock()
	if client.session == nil {
		return Session{}, false
	}
	return *client.session, true
}

func (client *Client) clearSession() {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.session = nil
}

// SignIn exchanges credentials for a session via the password grant.
func (client *Client) SignIn(ctx context.Context, email string, password string) (Session, error) {
	return client.requestToken(ctx, "/auth/v1/token", url.Values{"grant_type": []string{"password"}}, email, password)
}

// SignUp registers a new user and signs them in.
func (client *Client) SignUp(ctx context.Context, email string, password string) (Session, error) {
	return client.requestToken(ctx, "/auth/v1/signup", nil, email, password)
}

func (client *Client) requestToken(ctx context.Context, path string, query url.Values, email string, password string) (Session, error) {
	credentials := map[string]string{"email": email, "password": password}
	var token tokenResponse
	if err := client.do(ctx, http.MethodPost, path, query, credentials, &token); err != nil {
		return Session{}, err
	}

	session, err := SessionFromToken(token.AccessToken)
	if err != nil {
		return Session{}, err
	}
	client.SetSession(session)
	return session, nil
}

// SessionFromToken decodes the identity claims out of an access token. The
// signature is not checked here: the backend verifies it on every call, the
// client only needs the user id and email for display and scoping.
func SessionFromToken(accessToken string) (Session, error) {
	claims := sessionClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return Session{}, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return Session{}, errors.New("access token missing subject claim")
	}
	return Session{
		AccessToken: accessToken,
		UserID:      claims.Subject,
		Email:       claims.Email,
	}, nil
}

// SignOut revokes the session server-side and drops it locally. The local
// session is cleared even when the revoke call fails.
func (client *Client) SignOut(ctx context.Context) error {
	_, ok := client.Session()
	if !ok {
		return ErrNoSession
	}
	err := client.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil)
	client.clearSession()
	return err
}

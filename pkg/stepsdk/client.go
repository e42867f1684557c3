package stepsdk

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// refreshBuffer renews the access token this long before it expires.
const refreshBuffer = 30 * time.Second

// Client talks to a StepGlobe backend. It covers the unauthenticated
// endpoints and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu        sync.Mutex
	nextSub   int
	listeners map[int]func(SessionEvent)
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SignInWithTelegram exchanges a login-widget payload (the widget's user
// object, hash included) for a session.
func (c *Client) SignInWithTelegram(ctx context.Context, data []byte) (*Session, *SignInResponse, error) {
	req := TelegramSignInRequest{Provider: "telegram", Data: data}
	return c.signIn(ctx, "/v1/auth/telegram", req)
}

// SignInWithWebApp exchanges Telegram Mini App init data for a session.
func (c *Client) SignInWithWebApp(ctx context.Context, initData string) (*Session, *SignInResponse, error) {
	return c.signIn(ctx, "/v1/auth/telegram/webapp", WebAppSignInRequest{InitData: initData})
}

// SignInWithRefreshToken resumes a session from a stored refresh token.
func (c *Client) SignInWithRefreshToken(ctx context.Context, refreshToken string) (*Session, *SignInResponse, error) {
	return c.signIn(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
}

func (c *Client) signIn(ctx context.Context, path string, in any) (*Session, *SignInResponse, error) {
	var out SignInResponse
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, nil, err
	}
	s := newSession(c, out.TokenResponse)
	c.emit(SessionEvent{Type: EventSignedIn, Session: s, Account: &out.Account})
	return s, &out, nil
}

// NewSessionFromTokens wraps tokens obtained elsewhere. No event fires; the
// session still refreshes itself when the access token expires.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int64) *Session {
	return newSession(c, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	})
}

// Roster lists every participant.
func (c *Client) Roster(ctx context.Context) ([]Profile, error) {
	var out RosterResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/accounts", nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// JWKS fetches the keys that verify access tokens.
func (c *Client) JWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	if err := c.doJSON(ctx, http.MethodGet, "/.well-known/jwks.json", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez reports whether the process is up.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz reports whether the backend's dependencies are reachable.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Session events
// ============================================================================

// SessionEventType names a session change.
type SessionEventType string

const (
	EventSignedIn       SessionEventType = "signed_in"
	EventTokenRefreshed SessionEventType = "token_refreshed"
	EventSignedOut      SessionEventType = "signed_out"
)

// SessionEvent is delivered to OnSessionChange listeners.
type SessionEvent struct {
	Type    SessionEventType
	Session *Session

	// Account is set on EventSignedIn
	Account *Account
}

// OnSessionChange registers fn for every session change on this client and
// returns a function that unregisters it. fn runs synchronously on the
// goroutine that caused the change and must not block.
func (c *Client) OnSessionChange(fn func(SessionEvent)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = make(map[int]func(SessionEvent))
	}
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) emit(ev SessionEvent) {
	c.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

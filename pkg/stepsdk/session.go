package stepsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrSignedOut is returned by Session calls after SignOut or after the
// server reported the session invalid.
var ErrSignedOut = errors.New("stepsdk: session signed out")

// Session is an authenticated session. Its methods refresh the access token
// automatically.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	ended        bool
}

func newSession(c *Client, t TokenResponse) *Session {
	return &Session{
		client:       c,
		accessToken:  t.AccessToken,
		refreshToken: t.RefreshToken,
		expiresAt:    expiry(t.ExpiresIn),
	}
}

func expiry(expiresIn int64) time.Time {
	return time.Now().Add(time.Duration(expiresIn)*time.Second - refreshBuffer)
}

// getValidToken returns the access token, refreshing it first if it is
// about to expire.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.ended {
		s.mu.RUnlock()
		return "", ErrSignedOut
	}
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, nil
}

// Refresh rotates the refresh token and renews the access token now.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrSignedOut
	}
	if s.refreshToken == "" {
		s.mu.Unlock()
		return fmt.Errorf("access token expired and no refresh token available")
	}

	var out SignInResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", RefreshRequest{RefreshToken: s.refreshToken}, &out)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrSessionInvalid) {
			s.end()
		}
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = out.AccessToken
	s.refreshToken = out.RefreshToken
	s.expiresAt = expiry(out.ExpiresIn)
	s.mu.Unlock()

	s.client.emit(SessionEvent{Type: EventTokenRefreshed, Session: s, Account: &out.Account})
	return nil
}

// SignOut revokes the refresh token and ends the session. Calling it twice
// is harmless.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.RLock()
	rt, ended := s.refreshToken, s.ended
	s.mu.RUnlock()
	if ended {
		return nil
	}

	var err error
	if rt != "" {
		err = s.client.doJSON(ctx, http.MethodPost, "/v1/auth/signout", SignOutRequest{RefreshToken: rt}, nil)
	}
	s.end()
	return err
}

// end drops the tokens and tells listeners once.
func (s *Session) end() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()

	s.client.emit(SessionEvent{Type: EventSignedOut, Session: s})
}

// SignedOut reports whether the session has ended.
func (s *Session) SignedOut() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}

// AccessToken returns the current access token without checking expiry.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, for persisting the session.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

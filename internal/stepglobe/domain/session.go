package domain

import "time"

// Session is a stored refresh token. Only the fingerprint of the opaque token
// is kept.
type Session struct {
	ID        string // SID claim of the access tokens minted from it
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair is what sign-in and refresh return.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

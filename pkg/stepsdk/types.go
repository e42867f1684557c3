package stepsdk

import (
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	// Error is the machine-readable code, e.g. "identity_rejected"
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`

	// Details maps field names to problems for "validation_error"
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Auth Types
// ============================================================================

// TelegramSignInRequest carries a login-widget payload.
type TelegramSignInRequest struct {
	// Provider must be "telegram"
	Provider string `json:"provider"`

	// Data is the widget's user object, hash included, passed through as is
	Data json.RawMessage `json:"data" swaggertype:"object"`
}

// WebAppSignInRequest carries Telegram Mini App init data.
type WebAppSignInRequest struct {
	// InitData is the raw Telegram.WebApp.initData query string
	InitData string `json:"init_data"`
}

// RefreshRequest signs in with an existing refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignOutRequest revokes a refresh token.
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is a freshly issued session.
type TokenResponse struct {
	// AccessToken is the EdDSA-signed JWT for the Authorization header
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque token used to renew the session
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime of the access token in seconds
	ExpiresIn int64 `json:"expires_in"`
}

// SignInResponse is returned by every sign-in path.
type SignInResponse struct {
	TokenResponse

	Account Account `json:"account"`

	// IsNew is set when this sign-in created the account
	IsNew bool `json:"is_new"`

	// PhotoURL is the Telegram profile photo, offered as an avatar
	PhotoURL string `json:"photo_url,omitempty"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Account   `json:"account"`
}

// ============================================================================
// Account Types
// ============================================================================

// Account is the owner's (or an admin's) view of an account.
type Account struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Nickname   string    `json:"nickname"`
	AvatarURL  string    `json:"avatar_url"`
	TotalSteps int64     `json:"total_steps"`
	IsApproved bool      `json:"is_approved"`
	Role       string    `json:"role"`
	TelegramID *int64    `json:"telegram_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Profile is one roster entry.
type Profile struct {
	ID         string    `json:"id"`
	Nickname   string    `json:"nickname"`
	AvatarURL  string    `json:"avatar_url"`
	TotalSteps int64     `json:"total_steps"`
	IsApproved bool      `json:"is_approved"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RosterResponse lists every participant.
type RosterResponse struct {
	Accounts []Profile `json:"accounts"`
}

// SaveProfileRequest is a profile save. Omitted fields are left unchanged.
type SaveProfileRequest struct {
	Nickname   *string `json:"nickname,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	TotalSteps *int64  `json:"total_steps,omitempty"`
}

// UpdateProfileRequest changes nickname and avatar.
type UpdateProfileRequest struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// SetStepsRequest overwrites the step total.
type SetStepsRequest struct {
	TotalSteps int64 `json:"total_steps"`
}

// IncrementStepsRequest adds to the step total.
type IncrementStepsRequest struct {
	Delta int64 `json:"delta"`
}

// StepsResponse is the step total after a write.
type StepsResponse struct {
	TotalSteps int64 `json:"total_steps"`
}

// ScreenshotResponse is how many steps were read off a screenshot. Zero when
// none were found.
type ScreenshotResponse struct {
	Steps int64 `json:"steps"`
}

// AvatarGroup is one section of the avatar catalog.
type AvatarGroup struct {
	Name  string   `json:"name"`
	Icons []string `json:"icons"`
}

// AvatarCatalogResponse lists the built-in avatars.
type AvatarCatalogResponse struct {
	Groups []AvatarGroup `json:"groups"`

	// PhotoURL is the account's own photo when it uses one
	PhotoURL string `json:"photo_url,omitempty"`
}

// ============================================================================
// Admin Types
// ============================================================================

// Admin actions.
const (
	ActionApprove = "approve"
	ActionBlock   = "block"
	ActionDelete  = "delete"
	ActionPromote = "promote"
	ActionDemote  = "demote"
)

// AdminActionRequest runs a named admin action on an account.
type AdminActionRequest struct {
	// Action is one of approve, block, delete, promote, demote
	Action string `json:"action"`

	// TargetID is the account to act on
	TargetID string `json:"target_id"`
}

// AdminActionResponse acknowledges an admin action.
type AdminActionResponse struct {
	Success bool `json:"success"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks are the /readyz dependency checks.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Cache    string `json:"cache"`
}

// JWKSResponse is the session verification key set.
type JWKSResponse = jwtx.JWKS

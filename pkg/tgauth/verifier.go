package tgauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxAge is how old auth_date may be before a claim is stale.
const DefaultMaxAge = 86400 * time.Second

var (
	ErrMalformed = errors.New("tgauth: malformed claim")
	ErrRejected  = errors.New("tgauth: identity rejected")
	ErrExpired   = errors.New("tgauth: identity expired")
)

// KeyDerivation selects how the HMAC key is derived from the bot token.
type KeyDerivation string

const (
	// KeySHA256 uses SHA-256(bot token) as the key, as documented for the
	// Telegram login widget.
	KeySHA256 KeyDerivation = "sha256"

	// KeyRaw uses the bot token bytes directly. Needed when the counterpart
	// signs with the token itself.
	KeyRaw KeyDerivation = "raw"
)

// ParseKeyDerivation accepts "sha256" (the default for "") and "raw".
func ParseKeyDerivation(s string) (KeyDerivation, error) {
	switch KeyDerivation(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeySHA256:
		return KeySHA256, nil
	case KeyRaw:
		return KeyRaw, nil
	default:
		return "", fmt.Errorf("tgauth: unknown key derivation %q", s)
	}
}

// Verifier checks login-widget claims against a bot token.
type Verifier struct {
	// MaxAge bounds now - auth_date. Zero means DefaultMaxAge.
	MaxAge time.Duration

	// Now is the clock, overridable in tests.
	Now func() time.Time

	botToken string
	secret   []byte
}

// NewVerifier derives the check secret for botToken.
func NewVerifier(botToken string, kd KeyDerivation) (*Verifier, error) {
	if botToken == "" {
		return nil, errors.New("tgauth: bot token is required")
	}

	var secret []byte
	switch kd {
	case "", KeySHA256:
		sum := sha256.Sum256([]byte(botToken))
		secret = sum[:]
	case KeyRaw:
		secret = []byte(botToken)
	default:
		return nil, fmt.Errorf("tgauth: unknown key derivation %q", kd)
	}

	return &Verifier{
		MaxAge:   DefaultMaxAge,
		Now:      time.Now,
		botToken: botToken,
		secret:   secret,
	}, nil
}

// Sign returns the lowercase hex HMAC-SHA256 of the check string.
func (v *Verifier) Sign(fields map[string]string) string {
	return v.mac(DataCheckString(fields))
}

// Verify checks the signature first and then freshness. A bad signature or a
// missing auth_date is ErrRejected; a stale one is ErrExpired.
func (v *Verifier) Verify(c Claim) error {
	if c.Hash == "" {
		return fmt.Errorf("%w: missing hash", ErrRejected)
	}

	want := v.mac(c.DataCheckString())
	got := strings.ToLower(strings.TrimSpace(c.Hash))
	if !hmac.Equal([]byte(want), []byte(got)) {
		return fmt.Errorf("%w: signature mismatch", ErrRejected)
	}

	ts, err := strconv.ParseInt(c.fields["auth_date"], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid auth_date", ErrRejected)
	}
	if c.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrRejected)
	}

	maxAge := v.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	now := v.now()
	if now.Unix()-ts > int64(maxAge/time.Second) {
		return fmt.Errorf("%w: auth_date %d older than %s", ErrExpired, ts, maxAge)
	}
	return nil
}

// DeriveCredential returns a stable secret for the external id, bound to the
// check secret. It never leaves the server.
func (v *Verifier) DeriveCredential(id int64) string {
	return v.mac("credential:" + strconv.FormatInt(id, 10))
}

func (v *Verifier) mac(data string) string {
	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func (v *Verifier) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

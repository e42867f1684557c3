package tgauth

import (
	"errors"
	"fmt"
	"strconv"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// VerifyInitData validates Telegram Mini App init data and converts the
// embedded user into a Claim. Mini Apps use their own key derivation, which
// the init-data library implements.
func (v *Verifier) VerifyInitData(raw string) (Claim, error) {
	if raw == "" {
		return Claim{}, fmt.Errorf("%w: missing init data", ErrRejected)
	}

	maxAge := v.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	if err := initdata.Validate(raw, v.botToken, maxAge); err != nil {
		if errors.Is(err, initdata.ErrExpired) {
			return Claim{}, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return Claim{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return Claim{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if parsed.User.ID == 0 {
		return Claim{}, fmt.Errorf("%w: init data has no user", ErrRejected)
	}

	authDate := parsed.AuthDate()
	c := ClaimFromFields(map[string]string{
		"id":         strconv.FormatInt(parsed.User.ID, 10),
		"first_name": parsed.User.FirstName,
		"last_name":  parsed.User.LastName,
		"username":   parsed.User.Username,
		"photo_url":  parsed.User.PhotoURL,
		"auth_date":  strconv.FormatInt(authDate.Unix(), 10),
		"hash":       parsed.Hash,
	})
	return c, nil
}

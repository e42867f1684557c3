package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/aussiebroadwan/stepglobe/pkg/idx"
	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
)

// TokenService mints sessions: a short-lived access JWT plus an opaque
// refresh token whose fingerprint is stored.
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// Issue starts a new session for a.
func (s *TokenService) Issue(ctx context.Context, a domain.Account) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.issue(ctx, tx, a, s.now())
		return err
	})
	if err != nil {
		return domain.TokenPair{}, unavailable("issue session", err)
	}
	return pair, nil
}

// Refresh rotates a refresh token. The old one is revoked in the same
// transaction that stores the new one.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, domain.Account, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return domain.TokenPair{}, domain.Account{}, invalid("refresh_token", "required")
	}

	now := s.now()
	fp := cryptox.FingerprintToken(refreshToken)

	var (
		pair    domain.TokenPair
		account domain.Account
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		sess, err := tx.Sessions().GetSessionByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionInvalid
			}
			return err
		}
		if sess.Revoked || !now.Before(sess.ExpiresAt) {
			return ErrSessionInvalid
		}

		account, err = tx.Accounts().GetAccountByID(ctx, sess.AccountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionInvalid
			}
			return err
		}

		if err := tx.Sessions().RevokeSession(ctx, fp); err != nil {
			return err
		}
		pair, err = s.issue(ctx, tx, account, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			slogx.FromContext(ctx).Info("refresh rejected", slog.String("reason", "session_invalid"))
			return domain.TokenPair{}, domain.Account{}, err
		}
		return domain.TokenPair{}, domain.Account{}, unavailable("refresh session", err)
	}
	return pair, account, nil
}

// SignOut revokes refreshToken. Unknown tokens are not an error.
func (s *TokenService) SignOut(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return invalid("refresh_token", "required")
	}
	err := s.Store.Sessions().RevokeSession(ctx, cryptox.FingerprintToken(refreshToken))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return unavailable("sign out", err)
	}
	return nil
}

func (s *TokenService) issue(ctx context.Context, tx store.Tx, a domain.Account, now time.Time) (domain.TokenPair, error) {
	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return domain.TokenPair{}, errors.New("no signing key")
	}

	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	sess := domain.Session{
		ID:        idx.New().String(),
		AccountID: a.ID,
		TokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt: now.Add(s.refreshTTL()),
	}
	if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.TokenPair{}, err
	}

	claims := jwtx.NewAccessClaims(a.ID, sess.ID, string(a.Role), a.Nickname, s.accessTTL(), s.Issuer, s.Audience, now)
	access, err := signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL() / time.Second),
	}, nil
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

func (s *TokenService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/aussiebroadwan/stepglobe/pkg/idx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/tgauth"
)

// Notifier tells people about account state changes. Failures are logged,
// never returned to the caller.
type Notifier interface {
	AccountPending(ctx context.Context, a domain.Account) error
	AccountApproved(ctx context.Context, a domain.Account) error
}

// IdentityService bridges a verified Telegram identity to a local account
// and a session.
type IdentityService struct {
	Store    store.Store
	Verifier *tgauth.Verifier
	Hasher   *cryptox.Hasher
	Tokens   *TokenService
	Accounts *AccountService
	Notifier Notifier

	// AdminTelegramIDs are created, or promoted on their next login, as
	// approved admins.
	AdminTelegramIDs []int64
}

// SignInResult is a successful bridge pass.
type SignInResult struct {
	Tokens  domain.TokenPair
	Account domain.Account

	// IsNew is set when this login created the account.
	IsNew bool

	// PhotoURL is the Telegram profile photo from the claim, if any.
	PhotoURL string
}

// SignInWithWidget runs a login-widget payload through the bridge.
func (s *IdentityService) SignInWithWidget(ctx context.Context, raw []byte) (SignInResult, error) {
	c, err := tgauth.ParseClaim(raw)
	if err != nil {
		return SignInResult{}, fmt.Errorf("%w: %v", ErrIdentityRejected, err)
	}
	if err := s.Verifier.Verify(c); err != nil {
		return SignInResult{}, mapClaimError(err)
	}
	return s.signIn(ctx, c)
}

// SignInWithInitData runs Mini App init data through the bridge.
func (s *IdentityService) SignInWithInitData(ctx context.Context, initData string) (SignInResult, error) {
	c, err := s.Verifier.VerifyInitData(initData)
	if err != nil {
		return SignInResult{}, mapClaimError(err)
	}
	return s.signIn(ctx, c)
}

func (s *IdentityService) signIn(ctx context.Context, c tgauth.Claim) (SignInResult, error) {
	ctx = slogx.With(ctx, slog.Int64("telegram_id", c.ID))
	l := slogx.FromContext(ctx)

	credential := s.Verifier.DeriveCredential(c.ID)

	a, created, err := s.resolve(ctx, c, credential)
	if err != nil {
		return SignInResult{}, err
	}

	if err := s.Hasher.Verify(credential, a.CredentialHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) && !errors.Is(err, cryptox.ErrInvalidHash) {
			return SignInResult{}, unavailable("verify credential", err)
		}
		l.Warn("derived credential drifted, resetting", slog.String("account_id", a.ID))
		if a, err = s.resetCredential(ctx, a, credential); err != nil {
			return SignInResult{}, err
		}
	}

	if a, err = s.bootstrapAdmin(ctx, a, c.ID); err != nil {
		return SignInResult{}, err
	}

	pair, err := s.Tokens.Issue(ctx, a)
	if err != nil {
		return SignInResult{}, err
	}

	if created {
		l.Info("account created", slog.String("account_id", a.ID), slog.Bool("approved", a.IsApproved))
		if !a.IsApproved && s.Notifier != nil {
			if err := s.Notifier.AccountPending(ctx, a); err != nil {
				l.Warn("pending account notification failed", "err", err)
			}
		}
	}

	return SignInResult{Tokens: pair, Account: a, IsNew: created, PhotoURL: c.PhotoURL}, nil
}

// resolve finds the account for the claim's derived key, creating it when
// absent. A concurrent create of the same key is resolved, not failed.
func (s *IdentityService) resolve(ctx context.Context, c tgauth.Claim, credential string) (domain.Account, bool, error) {
	email := domain.TelegramEmail(c.ID)

	a, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, false, unavailable("resolve account", err)
	}

	hash, err := s.Hasher.Hash(credential)
	if err != nil {
		return domain.Account{}, false, unavailable("hash credential", err)
	}

	tgID := c.ID
	a = domain.Account{
		ID:             idx.New().String(),
		Email:          email,
		Nickname:       claimNickname(c),
		AvatarURL:      domain.DefaultAvatar,
		Role:           domain.RoleUser,
		CredentialHash: hash,
		TelegramID:     &tgID,
	}
	if s.isAdmin(c.ID) {
		a.Role = domain.RoleAdmin
		a.IsApproved = true
	}

	if err := s.Store.Accounts().CreateAccount(ctx, a); err != nil {
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, false, unavailable("create account", err)
		}
		a, err = s.Store.Accounts().GetAccountByEmail(ctx, email)
		if err != nil {
			return domain.Account{}, false, unavailable("resolve account", err)
		}
		return a, false, nil
	}

	s.accounts().invalidate(ctx)
	a, err = s.Store.Accounts().GetAccountByID(ctx, a.ID)
	if err != nil {
		return domain.Account{}, false, unavailable("reload account", err)
	}
	return a, true, nil
}

// resetCredential overwrites the stored hash with the fresh derivation and
// signs in again, once.
func (s *IdentityService) resetCredential(ctx context.Context, a domain.Account, credential string) (domain.Account, error) {
	hash, err := s.Hasher.Hash(credential)
	if err != nil {
		return domain.Account{}, unavailable("hash credential", err)
	}
	if err := s.Store.Accounts().UpdateCredentialHash(ctx, a.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrSessionInvalid
		}
		return domain.Account{}, unavailable("reset credential", err)
	}

	a, err = s.Store.Accounts().GetAccountByID(ctx, a.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrSessionInvalid
		}
		return domain.Account{}, unavailable("reload account", err)
	}
	if err := s.Hasher.Verify(credential, a.CredentialHash); err != nil {
		return domain.Account{}, unavailable("verify credential after reset", err)
	}
	return a, nil
}

func (s *IdentityService) bootstrapAdmin(ctx context.Context, a domain.Account, telegramID int64) (domain.Account, error) {
	if !s.isAdmin(telegramID) || (a.IsAdmin() && a.IsApproved) {
		return a, nil
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().SetRole(ctx, a.ID, domain.RoleAdmin); err != nil {
			return err
		}
		return tx.Accounts().SetApproved(ctx, a.ID, true)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrSessionInvalid
		}
		return domain.Account{}, unavailable("promote bootstrap admin", err)
	}

	slogx.FromContext(ctx).Info("bootstrap admin promoted", slog.String("account_id", a.ID))
	s.accounts().invalidate(ctx)
	a.Role = domain.RoleAdmin
	a.IsApproved = true
	return a, nil
}

func (s *IdentityService) isAdmin(telegramID int64) bool {
	return slices.Contains(s.AdminTelegramIDs, telegramID)
}

func (s *IdentityService) accounts() *AccountService {
	if s.Accounts == nil {
		return &AccountService{Store: s.Store}
	}
	return s.Accounts
}

// claimNickname is the claim's full name, falling back to the username.
func claimNickname(c tgauth.Claim) string {
	name := c.FullName()
	if name == "" {
		name = c.Username
	}
	for utf8.RuneCountInString(name) > domain.NicknameMaxLen {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

func mapClaimError(err error) error {
	switch {
	case errors.Is(err, tgauth.ErrExpired):
		return fmt.Errorf("%w: %v", ErrIdentityExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrIdentityRejected, err)
	}
}

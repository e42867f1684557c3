package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/cache"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
)

const maxAvatarURLLen = 2048

// AccountService serves the roster and the owner's own account.
type AccountService struct {
	Store store.Store
	Cache cache.Roster
}

// ProfileInput is a profile save. Nil fields are left as they are.
type ProfileInput struct {
	Nickname   *string
	AvatarURL  *string
	TotalSteps *int64
}

// Me loads the caller's account. A valid token whose account is gone is
// ErrSessionInvalid.
func (s *AccountService) Me(ctx context.Context, id string) (domain.Account, error) {
	a, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrSessionInvalid
		}
		return domain.Account{}, unavailable("get account", err)
	}
	return a, nil
}

// Roster lists every account. The cache is read first and filled on a miss.
func (s *AccountService) Roster(ctx context.Context) ([]domain.Profile, error) {
	l := slogx.FromContext(ctx)

	profiles, gen, ok, err := s.roster().Get(ctx)
	if err != nil {
		l.Warn("roster cache read failed", "err", err)
	} else if ok {
		return profiles, nil
	}
	refill := err == nil

	accounts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, unavailable("list accounts", err)
	}
	profiles = make([]domain.Profile, len(accounts))
	for i, a := range accounts {
		profiles[i] = a.Profile()
	}

	if refill {
		switch err := s.roster().Set(ctx, profiles, gen); {
		case errors.Is(err, cache.ErrStale):
			l.Debug("roster changed during refill, not cached")
		case err != nil:
			l.Warn("roster cache write failed", "err", err)
		}
	}
	return profiles, nil
}

// SaveProfile applies a profile save. Nickname and avatar may be changed
// while the account is pending; the step total may not.
func (s *AccountService) SaveProfile(ctx context.Context, id string, in ProfileInput) (domain.Account, error) {
	a, err := s.Me(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	details := map[string]string{}
	if in.Nickname != nil {
		nick, err := domain.NormalizeNickname(*in.Nickname)
		if err != nil {
			details["nickname"] = err.Error()
		}
		a.Nickname = nick
	}
	if in.AvatarURL != nil {
		avatar, err := normalizeAvatar(*in.AvatarURL)
		if err != nil {
			details["avatar_url"] = err.Error()
		}
		a.AvatarURL = avatar
	}
	if in.TotalSteps != nil {
		if msg := checkTotal(*in.TotalSteps, true); msg != "" {
			details["total_steps"] = msg
		}
	}
	if len(details) > 0 {
		return domain.Account{}, &ValidationError{Details: details}
	}

	if in.TotalSteps != nil && *in.TotalSteps != a.TotalSteps {
		if !a.IsApproved {
			return domain.Account{}, ErrAccountPending
		}
		a.TotalSteps = *in.TotalSteps
	}

	if err := s.Store.Accounts().SaveProfile(ctx, a); err != nil {
		return domain.Account{}, stepWriteError("save profile", "total_steps", err)
	}
	s.invalidate(ctx)
	return s.Me(ctx, id)
}

// UpdateProfile changes nickname and avatar only.
func (s *AccountService) UpdateProfile(ctx context.Context, id, nickname, avatarURL string) (domain.Account, error) {
	nick, nickErr := domain.NormalizeNickname(nickname)
	avatar, avatarErr := normalizeAvatar(avatarURL)
	if nickErr != nil || avatarErr != nil {
		details := map[string]string{}
		if nickErr != nil {
			details["nickname"] = nickErr.Error()
		}
		if avatarErr != nil {
			details["avatar_url"] = avatarErr.Error()
		}
		return domain.Account{}, &ValidationError{Details: details}
	}

	if err := s.Store.Accounts().UpdateProfile(ctx, id, nick, avatar); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrSessionInvalid
		}
		return domain.Account{}, unavailable("update profile", err)
	}
	s.invalidate(ctx)
	return s.Me(ctx, id)
}

// SetTotalSteps is the manual entry path. Last writer wins.
func (s *AccountService) SetTotalSteps(ctx context.Context, id string, total int64) (domain.Account, error) {
	if msg := checkTotal(total, false); msg != "" {
		return domain.Account{}, invalid("total_steps", msg)
	}
	if _, err := s.requireApproved(ctx, id); err != nil {
		return domain.Account{}, err
	}

	if err := s.Store.Accounts().SetTotalSteps(ctx, id, total); err != nil {
		return domain.Account{}, stepWriteError("set total steps", "total_steps", err)
	}
	s.invalidate(ctx)
	return s.Me(ctx, id)
}

// IncrementSteps atomically adds delta and returns the new total.
func (s *AccountService) IncrementSteps(ctx context.Context, id string, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, invalid("delta", "must be greater than zero")
	}
	a, err := s.requireApproved(ctx, id)
	if err != nil {
		return 0, err
	}
	if delta > domain.MaxTotalSteps-a.TotalSteps {
		return 0, invalid("delta", exceedsMax)
	}
	return s.increment(ctx, id, delta)
}

// AvatarCatalog is the built-in groups plus the account's own photo when
// it uses one.
func (s *AccountService) AvatarCatalog(ctx context.Context, id string) (groups []domain.AvatarGroup, photo string, err error) {
	a, err := s.Me(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if a.AvatarURL != "" && !domain.IsCatalogAvatar(a.AvatarURL) {
		photo = a.AvatarURL
	}
	return domain.AvatarGroups, photo, nil
}

func (s *AccountService) increment(ctx context.Context, id string, delta int64) (int64, error) {
	total, err := s.Store.Accounts().IncrementSteps(ctx, id, delta)
	if err != nil {
		return 0, stepWriteError("increment steps", "delta", err)
	}
	s.invalidate(ctx)
	return total, nil
}

var exceedsMax = fmt.Sprintf("total would exceed %d steps", domain.MaxTotalSteps)

// checkTotal reports why total is not a storable step total.
func checkTotal(total int64, allowZero bool) string {
	switch {
	case total == 0 && !allowZero:
		return "must be greater than zero"
	case total < 0:
		return "must not be negative"
	case total > domain.MaxTotalSteps:
		return exceedsMax
	}
	return ""
}

// stepWriteError maps a failed step write. The range CHECK backs up the
// service checks against concurrent writes.
func stepWriteError(op, field string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrSessionInvalid
	case errors.Is(err, store.ErrConstraint):
		return invalid(field, exceedsMax)
	}
	return unavailable(op, err)
}

func (s *AccountService) requireApproved(ctx context.Context, id string) (domain.Account, error) {
	a, err := s.Me(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if !a.IsApproved {
		return domain.Account{}, ErrAccountPending
	}
	return a, nil
}

func (s *AccountService) invalidate(ctx context.Context) {
	if err := s.roster().Invalidate(ctx); err != nil {
		slogx.FromContext(ctx).Warn("roster cache invalidate failed", slog.Any("err", err))
	}
}

func (s *AccountService) roster() cache.Roster {
	if s.Cache == nil {
		return cache.Nop{}
	}
	return s.Cache
}

// normalizeAvatar accepts a catalog icon or an absolute https URL, such as
// the Telegram profile photo. Empty means the default avatar.
func normalizeAvatar(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultAvatar, nil
	}
	if domain.IsCatalogAvatar(raw) {
		return raw, nil
	}
	if len(raw) > maxAvatarURLLen {
		return "", errors.New("avatar url is too long")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return "", errors.New("avatar must be a catalog icon or an https url")
	}
	return raw, nil
}

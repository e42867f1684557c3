package sqlite_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store/drivers/sqlite"
	"github.com/aussiebroadwan/stepglobe/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createAccount(t *testing.T, s store.Store, tgID int64) domain.Account {
	t.Helper()
	a := domain.Account{
		ID:         idx.New().String(),
		Email:      domain.TelegramEmail(tgID),
		Nickname:   "Walker",
		AvatarURL:  domain.DefaultAvatar,
		TelegramID: &tgID,
	}
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
	return a
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestAccounts_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 42)

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Email, got.Email)
	require.Equal(t, domain.RoleUser, got.Role)
	require.False(t, got.IsApproved)
	require.NotNil(t, got.TelegramID)
	require.Equal(t, int64(42), *got.TelegramID)
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := s.Accounts().GetAccountByEmail(ctx, domain.TelegramEmail(42))
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	_, err = s.Accounts().GetAccountByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_DuplicateEmail(t *testing.T) {
	s := newStore(t)
	createAccount(t, s, 7)

	dup := domain.Account{ID: idx.New().String(), Email: domain.TelegramEmail(7)}
	err := s.Accounts().CreateAccount(context.Background(), dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccounts_Steps(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 1)

	total, err := s.Accounts().IncrementSteps(ctx, a.ID, 1200)
	require.NoError(t, err)
	require.Equal(t, int64(1200), total)

	total, err = s.Accounts().IncrementSteps(ctx, a.ID, 300)
	require.NoError(t, err)
	require.Equal(t, int64(1500), total)

	require.NoError(t, s.Accounts().SetTotalSteps(ctx, a.ID, 900))
	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(900), got.TotalSteps)

	_, err = s.Accounts().IncrementSteps(ctx, "missing", 1)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Accounts().SetTotalSteps(ctx, "missing", 1), store.ErrNotFound)

	require.ErrorIs(t, s.Accounts().SetTotalSteps(ctx, a.ID, -1), store.ErrConstraint)
}

func TestAccounts_SaveProfile(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 5)
	require.NoError(t, s.Accounts().SetApproved(ctx, a.ID, true))

	a.Nickname = "Renamed"
	a.TotalSteps = 4000
	a.IsApproved = false // not part of the save
	require.NoError(t, s.Accounts().SaveProfile(ctx, a))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Nickname)
	require.Equal(t, int64(4000), got.TotalSteps)
	require.True(t, got.IsApproved)

	require.NoError(t, s.Accounts().DeleteAccount(ctx, a.ID))
	require.ErrorIs(t, s.Accounts().SaveProfile(ctx, a), store.ErrNotFound)
	_, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "a deleted account stays deleted")
}

func TestAccounts_StepsRangeCheck(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 6)
	createAccount(t, s, 8)

	require.ErrorIs(t, s.Accounts().SetTotalSteps(ctx, a.ID, math.MaxInt64), store.ErrConstraint)
	require.ErrorIs(t, s.Accounts().SetTotalSteps(ctx, a.ID, -1), store.ErrConstraint)

	require.NoError(t, s.Accounts().SetTotalSteps(ctx, a.ID, domain.MaxTotalSteps))
	_, err := s.Accounts().IncrementSteps(ctx, a.ID, 1)
	require.ErrorIs(t, err, store.ErrConstraint)

	// int64 overflow in the increment turns into REAL and fails the CHECK
	_, err = s.Accounts().IncrementSteps(ctx, a.ID, math.MaxInt64)
	require.ErrorIs(t, err, store.ErrConstraint)

	a.TotalSteps = domain.MaxTotalSteps + 1
	require.ErrorIs(t, s.Accounts().SaveProfile(ctx, a), store.ErrConstraint)

	list, err := s.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MaxTotalSteps, got.TotalSteps)
}

func TestAccounts_AdminFields(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 9)

	require.NoError(t, s.Accounts().SetApproved(ctx, a.ID, true))
	require.NoError(t, s.Accounts().SetRole(ctx, a.ID, domain.RoleAdmin))
	require.NoError(t, s.Accounts().UpdateCredentialHash(ctx, a.ID, "$argon2id$x"))
	require.NoError(t, s.Accounts().UpdateProfile(ctx, a.ID, "Nick", domain.AvatarGroups[1].Icons[0]))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.IsApproved)
	require.True(t, got.IsAdmin())
	require.Equal(t, "$argon2id$x", got.CredentialHash)
	require.Equal(t, "Nick", got.Nickname)

	require.ErrorIs(t, s.Accounts().SetRole(ctx, a.ID, domain.Role("owner")), store.ErrConstraint)
	require.ErrorIs(t, s.Accounts().SetApproved(ctx, "missing", true), store.ErrNotFound)
}

func TestAccounts_ListAndCount(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i := int64(1); i <= 3; i++ {
		createAccount(t, s, i)
	}

	list, err := s.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	n, err := s.Accounts().CountAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestAccounts_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 11)

	require.NoError(t, s.Sessions().CreateSession(ctx, domain.Session{
		ID: idx.New().String(), AccountID: a.ID, TokenHash: "fp", ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, s.Screenshots().CreateScreenshot(ctx, domain.Screenshot{
		ID: idx.New().String(), AccountID: a.ID, ObjectKey: a.ID + "/x.png", MimeType: "image/png", CreatedAt: time.Now(),
	}))

	require.NoError(t, s.Accounts().DeleteAccount(ctx, a.ID))

	_, err := s.Sessions().GetSessionByHash(ctx, "fp")
	require.ErrorIs(t, err, store.ErrNotFound)

	shots, err := s.Screenshots().ListAccountScreenshots(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, shots)

	require.ErrorIs(t, s.Accounts().DeleteAccount(ctx, a.ID), store.ErrNotFound)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 21)
	now := time.Now()

	live := domain.Session{ID: idx.New().String(), AccountID: a.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}
	expired := domain.Session{ID: idx.New().String(), AccountID: a.ID, TokenHash: "expired", ExpiresAt: now.Add(-time.Hour)}
	revoked := domain.Session{ID: idx.New().String(), AccountID: a.ID, TokenHash: "revoked", ExpiresAt: now.Add(time.Hour)}
	for _, sess := range []domain.Session{live, expired, revoked} {
		require.NoError(t, s.Sessions().CreateSession(ctx, sess))
	}
	require.NoError(t, s.Sessions().RevokeSession(ctx, "revoked"))
	require.ErrorIs(t, s.Sessions().RevokeSession(ctx, "nope"), store.ErrNotFound)

	got, err := s.Sessions().GetSessionByHash(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)
	require.False(t, got.Revoked)
	require.WithinDuration(t, live.ExpiresAt, got.ExpiresAt, time.Second)

	n, err := s.Sessions().DeleteStaleSessions(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	require.NoError(t, s.Sessions().RevokeAccountSessions(ctx, a.ID))
	got, err = s.Sessions().GetSessionByHash(ctx, "live")
	require.NoError(t, err)
	require.True(t, got.Revoked)
}

func TestScreenshots_ListBefore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 31)
	now := time.Now()

	for _, age := range []time.Duration{72 * time.Hour, 48 * time.Hour, time.Hour} {
		require.NoError(t, s.Screenshots().CreateScreenshot(ctx, domain.Screenshot{
			ID:        idx.New().String(),
			AccountID: a.ID,
			ObjectKey: a.ID + "/shot.png",
			MimeType:  "image/png",
			Steps:     100,
			CreatedAt: now.Add(-age),
		}))
	}

	old, err := s.Screenshots().ListScreenshotsBefore(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, old, 2)

	limited, err := s.Screenshots().ListScreenshotsBefore(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	require.NoError(t, s.Screenshots().SetScreenshotSteps(ctx, old[0].ID, 2500))
	require.ErrorIs(t, s.Screenshots().SetScreenshotSteps(ctx, "missing", 1), store.ErrNotFound)

	require.NoError(t, s.Screenshots().DeleteScreenshot(ctx, old[0].ID))
	all, err := s.Screenshots().ListAccountScreenshots(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestWithTx_RollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, 41)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Accounts().IncrementSteps(ctx, a.ID, 500); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Zero(t, got.TotalSteps)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Accounts().IncrementSteps(ctx, a.ID, 500)
		return err
	}))
	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(500), got.TotalSteps)
}

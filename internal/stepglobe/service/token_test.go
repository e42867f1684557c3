package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToken_RefreshRotates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	res := e.signIn(t, 11)

	pair, account, err := e.tokens.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, account.ID)
	require.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)
	require.Equal(t, int64(15*60), pair.ExpiresIn)

	_, _, err = e.tokens.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid, "rotated token must not be reusable")

	_, _, err = e.tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestToken_RefreshRejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, _, err := e.tokens.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = e.tokens.Refresh(ctx, "never-issued")
	require.ErrorIs(t, err, ErrSessionInvalid)

	t.Run("expired", func(t *testing.T) {
		res := e.signIn(t, 12)
		e.tokens.Now = func() time.Time { return e.now.Add(31 * 24 * time.Hour) }
		defer func() { e.tokens.Now = func() time.Time { return e.now } }()

		_, _, err := e.tokens.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("account deleted", func(t *testing.T) {
		res := e.signIn(t, 13)
		require.NoError(t, e.store.Accounts().DeleteAccount(ctx, res.Account.ID))

		_, _, err := e.tokens.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestToken_SignOut(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	res := e.signIn(t, 14)

	require.NoError(t, e.tokens.SignOut(ctx, res.Tokens.RefreshToken))
	require.NoError(t, e.tokens.SignOut(ctx, res.Tokens.RefreshToken), "sign out is idempotent")
	require.NoError(t, e.tokens.SignOut(ctx, "unknown"))
	require.ErrorIs(t, e.tokens.SignOut(ctx, " "), ErrValidation)

	_, _, err := e.tokens.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

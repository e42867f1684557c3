package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/pkg/idx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_RunOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	res := e.signIn(t, 51)
	id := res.Account.ID

	require.NoError(t, e.tokens.SignOut(ctx, res.Tokens.RefreshToken))
	e.signIn(t, 51) // live session stays

	for i, age := range []time.Duration{40 * 24 * time.Hour, 31 * 24 * time.Hour, time.Hour} {
		key := id + "/" + string(rune('a'+i)) + ".png"
		require.NoError(t, e.blobs.Put(ctx, key, "image/png", pngHeader))
		require.NoError(t, e.store.Screenshots().CreateScreenshot(ctx, domain.Screenshot{
			ID: idx.New().String(), AccountID: id, ObjectKey: key, MimeType: "image/png", CreatedAt: e.now.Add(-age),
		}))
	}

	hk := NewHousekeepingService(e.store, e.blobs, slogx.Discard(), "", 0)
	hk.Now = func() time.Time { return e.now }
	require.Equal(t, DefaultScreenshotRetention, hk.Retention)

	report := hk.RunOnce(ctx)
	require.Equal(t, int64(1), report.Sessions)
	require.Equal(t, 2, report.Screenshots)
	require.Equal(t, 1, e.blobs.len())

	shots, err := e.store.Screenshots().ListAccountScreenshots(ctx, id)
	require.NoError(t, err)
	require.Len(t, shots, 1)

	again := hk.RunOnce(ctx)
	require.Zero(t, again.Sessions)
	require.Zero(t, again.Screenshots)
}

func TestHousekeeping_StartStop(t *testing.T) {
	e := newTestEnv(t)
	hk := NewHousekeepingService(e.store, e.blobs, slogx.Discard(), "@every 1h", time.Hour)
	require.NoError(t, hk.Start())
	hk.Stop()

	bad := NewHousekeepingService(e.store, e.blobs, slogx.Discard(), "not a schedule", time.Hour)
	require.Error(t, bad.Start())
}

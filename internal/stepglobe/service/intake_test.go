package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestIntake_AddsRecognisedSteps(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	id := e.signIn(t, 41).Account.ID
	e.approve(t, id)
	_, err := e.accounts.SetTotalSteps(ctx, id, 1000)
	require.NoError(t, err)

	e.vision.steps = 4200
	added, err := e.intake.SubmitScreenshot(ctx, id, pngHeader)
	require.NoError(t, err)
	require.Equal(t, int64(4200), added)

	a, err := e.accounts.Me(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(5200), a.TotalSteps)

	shots, err := e.store.Screenshots().ListAccountScreenshots(ctx, id)
	require.NoError(t, err)
	require.Len(t, shots, 1)
	require.Equal(t, "image/png", shots[0].MimeType)
	require.Equal(t, int64(4200), shots[0].Steps)
	require.True(t, strings.HasPrefix(shots[0].ObjectKey, id+"/"))
	require.True(t, strings.HasSuffix(shots[0].ObjectKey, ".png"))
	require.Equal(t, 1, e.blobs.len())
}

func TestIntake_NothingRecognised(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	id := e.signIn(t, 42).Account.ID
	e.approve(t, id)

	added, err := e.intake.SubmitScreenshot(ctx, id, pngHeader)
	require.NoError(t, err)
	require.Zero(t, added)

	a, err := e.accounts.Me(ctx, id)
	require.NoError(t, err)
	require.Zero(t, a.TotalSteps)
}

func TestIntake_Rejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	id := e.signIn(t, 43).Account.ID

	_, err := e.intake.SubmitScreenshot(ctx, id, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.intake.SubmitScreenshot(ctx, id, []byte("just some text, not an image"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.intake.SubmitScreenshot(ctx, id, pngHeader)
	require.ErrorIs(t, err, ErrAccountPending)
	require.Zero(t, e.vision.calls)

	e.approve(t, id)
	e.vision.err = errors.New("upstream 500")
	_, err = e.intake.SubmitScreenshot(ctx, id, pngHeader)
	require.ErrorIs(t, err, ErrBackendUnavailable)

	disabled := &IntakeService{Accounts: e.accounts, Blobs: e.blobs}
	_, err = disabled.SubmitScreenshot(ctx, id, pngHeader)
	require.ErrorIs(t, err, ErrBackendUnavailable)
	require.ErrorIs(t, err, ErrVisionDisabled)
}

func TestIntake_FailedExtractionKeepsRecord(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := newAdmin(t, e)
	id := e.signIn(t, 44).Account.ID
	e.approve(t, id)

	e.vision.err = errors.New("upstream 500")
	_, err := e.intake.SubmitScreenshot(ctx, id, pngHeader)
	require.ErrorIs(t, err, ErrBackendUnavailable)

	// every stored blob has a row, so retention and deletion can find it
	shots, err := e.store.Screenshots().ListAccountScreenshots(ctx, id)
	require.NoError(t, err)
	require.Len(t, shots, 1)
	require.Zero(t, shots[0].Steps)
	require.Equal(t, 1, e.blobs.len())

	require.NoError(t, e.admin.Do(ctx, admin, ActionDelete, id))
	require.Zero(t, e.blobs.len())
}

func TestIntake_ImplausibleCountRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	id := e.signIn(t, 45).Account.ID
	e.approve(t, id)

	e.vision.steps = math.MaxInt64
	_, err := e.intake.SubmitScreenshot(ctx, id, pngHeader)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Details, "file")

	a, err := e.accounts.Me(ctx, id)
	require.NoError(t, err)
	require.Zero(t, a.TotalSteps)

	_, err = e.accounts.Roster(ctx)
	require.NoError(t, err)
}

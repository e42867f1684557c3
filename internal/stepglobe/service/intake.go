package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/pkg/idx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/gabriel-vasile/mimetype"
)

// MaxScreenshotBytes bounds one upload.
const MaxScreenshotBytes = 10 << 20

// ErrVisionDisabled is returned by Vision implementations without an API key.
var ErrVisionDisabled = errors.New("vision: not configured")

// BlobStore keeps uploaded screenshots.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Vision reads a daily step count off a screenshot. Zero means nothing was
// found.
type Vision interface {
	ExtractSteps(ctx context.Context, mimeType string, image []byte) (int64, error)
}

var screenshotTypes = []string{"image/png", "image/jpeg", "image/webp", "image/heic", "image/heif"}

// IntakeService is the screenshot path: store, extract, then feed the
// increment path.
type IntakeService struct {
	Accounts *AccountService
	Blobs    BlobStore
	Vision   Vision

	Now func() time.Time
}

// SubmitScreenshot returns the steps added, 0 when none were recognised.
func (s *IntakeService) SubmitScreenshot(ctx context.Context, accountID string, image []byte) (int64, error) {
	if len(image) == 0 {
		return 0, invalid("file", "required")
	}
	if len(image) > MaxScreenshotBytes {
		return 0, invalid("file", "too large")
	}

	mt := mimetype.Detect(image)
	if !mimetype.EqualsAny(mt.String(), screenshotTypes...) {
		return 0, invalid("file", "must be a png, jpeg, webp or heic image")
	}

	if _, err := s.Accounts.requireApproved(ctx, accountID); err != nil {
		return 0, err
	}
	if s.Vision == nil || s.Blobs == nil {
		return 0, unavailable("screenshot intake", ErrVisionDisabled)
	}

	l := slogx.FromContext(ctx)
	shot := domain.Screenshot{
		ID:        idx.New().String(),
		AccountID: accountID,
		MimeType:  baseType(mt.String()),
		CreatedAt: s.now(),
	}
	shot.ObjectKey = accountID + "/" + shot.ID + mt.Extension()

	if err := s.Blobs.Put(ctx, shot.ObjectKey, shot.MimeType, image); err != nil {
		return 0, unavailable("store screenshot", err)
	}
	// The row is what retention and account deletion use to find the blob,
	// so it exists before anything else can fail.
	if err := s.Accounts.Store.Screenshots().CreateScreenshot(ctx, shot); err != nil {
		if derr := s.Blobs.Delete(ctx, shot.ObjectKey); derr != nil {
			l.Error("orphaned screenshot blob", slog.String("object_key", shot.ObjectKey), "err", derr)
		}
		return 0, unavailable("record screenshot", err)
	}

	steps, err := s.Vision.ExtractSteps(ctx, shot.MimeType, image)
	if err != nil {
		return 0, unavailable("extract steps", err)
	}
	if steps > domain.MaxTotalSteps {
		l.Warn("implausible step count in screenshot", slog.String("object_key", shot.ObjectKey), slog.Int64("steps", steps))
		return 0, invalid("file", "recognised step count is out of range")
	}
	if steps <= 0 {
		l.Info("no steps found in screenshot", slog.String("object_key", shot.ObjectKey))
		return 0, nil
	}

	if err := s.Accounts.Store.Screenshots().SetScreenshotSteps(ctx, shot.ID, steps); err != nil {
		l.Warn("screenshot steps not recorded", slog.String("id", shot.ID), "err", err)
	}
	if _, err := s.Accounts.IncrementSteps(ctx, accountID, steps); err != nil {
		return 0, err
	}
	return steps, nil
}

func (s *IntakeService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func baseType(mime string) string {
	t, _, _ := strings.Cut(mime, ";")
	return strings.TrimSpace(t)
}

package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store/drivers/sqlite/gen"
)

type screenshotsRepo struct {
	q *gen.Queries
}

func (r *screenshotsRepo) CreateScreenshot(ctx context.Context, s domain.Screenshot) error {
	return mapConstraint(r.q.CreateScreenshot(ctx, gen.CreateScreenshotParams{
		ID:        s.ID,
		AccountID: s.AccountID,
		ObjectKey: s.ObjectKey,
		MimeType:  s.MimeType,
		Steps:     s.Steps,
		CreatedAt: ts(s.CreatedAt),
	}))
}

func (r *screenshotsRepo) SetScreenshotSteps(ctx context.Context, id string, steps int64) error {
	return expectRows(r.q.SetScreenshotSteps(ctx, gen.SetScreenshotStepsParams{Steps: steps, ID: id}))
}

func (r *screenshotsRepo) ListScreenshotsBefore(ctx context.Context, t time.Time, limit int) ([]domain.Screenshot, error) {
	rows, err := r.q.ListScreenshotsBefore(ctx, gen.ListScreenshotsBeforeParams{
		CreatedAt: ts(t),
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return mapScreenshots(rows), nil
}

func (r *screenshotsRepo) ListAccountScreenshots(ctx context.Context, accountID string) ([]domain.Screenshot, error) {
	rows, err := r.q.ListAccountScreenshots(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return mapScreenshots(rows), nil
}

func (r *screenshotsRepo) DeleteScreenshot(ctx context.Context, id string) error {
	return r.q.DeleteScreenshot(ctx, id)
}

func mapScreenshots(rows []gen.Screenshot) []domain.Screenshot {
	out := make([]domain.Screenshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapScreenshot(row))
	}
	return out
}

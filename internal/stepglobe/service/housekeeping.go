package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/robfig/cron/v3"
)

const (
	DefaultHousekeepingSchedule = "@every 1h"
	DefaultScreenshotRetention  = 30 * 24 * time.Hour

	screenshotSweepBatch = 200
)

// HousekeepingService periodically removes stale sessions and screenshots
// past their retention window.
type HousekeepingService struct {
	Store     store.Store
	Blobs     BlobStore
	Logger    *slog.Logger
	Schedule  string
	Retention time.Duration

	Now func() time.Time

	cron *cron.Cron
	wg   sync.WaitGroup
}

// HousekeepingReport is what one sweep removed.
type HousekeepingReport struct {
	Sessions    int64
	Screenshots int
}

// NewHousekeepingService fills in the default schedule and retention.
func NewHousekeepingService(st store.Store, blobs BlobStore, logger *slog.Logger, schedule string, retention time.Duration) *HousekeepingService {
	if schedule == "" {
		schedule = DefaultHousekeepingSchedule
	}
	if retention <= 0 {
		retention = DefaultScreenshotRetention
	}
	return &HousekeepingService{
		Store:     st,
		Blobs:     blobs,
		Logger:    logger,
		Schedule:  schedule,
		Retention: retention,
	}
}

// Start runs one sweep right away and then on Schedule.
func (s *HousekeepingService) Start() error {
	s.cron = cron.New(cron.WithSeconds())
	if _, err := s.cron.AddFunc(s.Schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(context.Background())
	}()
	s.cron.Start()
	s.Logger.Info("housekeeping service started", "schedule", s.Schedule, "retention", s.Retention)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *HousekeepingService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.Logger.Info("housekeeping service stopped")
}

// RunOnce performs one sweep. Each step is independent; a failure is logged
// and the next step still runs.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	var report HousekeepingReport
	now := s.now()

	n, err := s.Store.Sessions().DeleteStaleSessions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete stale sessions", "err", err)
	} else {
		report.Sessions = n
	}

	report.Screenshots = s.sweepScreenshots(ctx, now.Add(-s.Retention))

	s.Logger.Info("housekeeping sweep completed",
		slog.Int64("sessions", report.Sessions),
		slog.Int("screenshots", report.Screenshots),
	)
	return report
}

func (s *HousekeepingService) sweepScreenshots(ctx context.Context, before time.Time) int {
	deleted := 0
	for {
		shots, err := s.Store.Screenshots().ListScreenshotsBefore(ctx, before, screenshotSweepBatch)
		if err != nil {
			s.Logger.Error("failed to list expired screenshots", "err", err)
			return deleted
		}

		progressed := false
		for _, shot := range shots {
			if s.Blobs != nil {
				if err := s.Blobs.Delete(ctx, shot.ObjectKey); err != nil {
					s.Logger.Warn("failed to delete screenshot blob", "object_key", shot.ObjectKey, "err", err)
					continue
				}
			}
			if err := s.Store.Screenshots().DeleteScreenshot(ctx, shot.ID); err != nil {
				s.Logger.Warn("failed to delete screenshot row", "id", shot.ID, "err", err)
				continue
			}
			deleted++
			progressed = true
		}

		if len(shots) < screenshotSweepBatch || !progressed {
			return deleted
		}
	}
}

func (s *HousekeepingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

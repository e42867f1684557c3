package globe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/stepglobe/pkg/geo"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

const DefaultInterval = 30 * time.Second

// RosterSource lists every participant. *stepsdk.Client satisfies it.
type RosterSource interface {
	Roster(ctx context.Context) ([]stepsdk.Profile, error)
}

// Surface draws frames. Render replaces whatever was drawn before.
type Surface interface {
	Render(ctx context.Context, f Frame) error
	MoveCamera(ctx context.Context, to geo.Point) error
}

// Reconciler keeps a Surface in step with the roster.
type Reconciler struct {
	Source     RosterSource
	Surface    Surface
	Projection geo.Projection
	Interval   time.Duration
	Logger     *slog.Logger // nil uses the context logger
	State      *State

	refresh chan struct{}
}

// NewReconciler uses the default projection and a 30s interval.
func NewReconciler(source RosterSource, surface Surface, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		Source:     source,
		Surface:    surface,
		Projection: geo.Default,
		Interval:   DefaultInterval,
		Logger:     logger,
		State:      &State{},
		refresh:    make(chan struct{}, 1),
	}
}

// Refresh asks Run for an on-demand pass. Requests made while one is
// already queued collapse into it.
func (r *Reconciler) Refresh() {
	select {
	case r.refresh <- struct{}{}:
	default:
	}
}

// Reset clears the client state, as on sign-out.
func (r *Reconciler) Reset() { r.State.Reset() }

// Pass runs one reconciliation. A timer pass over an unchanged roster
// renders nothing and reports false. An on-demand pass always renders and
// then centres the camera on the viewer, or on the origin without one.
func (r *Reconciler) Pass(ctx context.Context, onDemand bool) (bool, error) {
	roster, err := r.Source.Roster(ctx)
	if err != nil {
		return false, fmt.Errorf("globe: fetch roster: %w", err)
	}

	fp := Fingerprint(roster)
	if !onDemand && fp == r.State.lastFingerprint() {
		return false, nil
	}

	frame := BuildFrame(r.Projection, roster, r.State.ViewerID())
	if err := r.Surface.Render(ctx, frame); err != nil {
		return false, fmt.Errorf("globe: render: %w", err)
	}
	r.State.rendered(fp)

	if onDemand {
		target := r.Projection.Origin()
		if frame.Viewer != nil {
			target = frame.Viewer.Position
		}
		if err := r.Surface.MoveCamera(ctx, target); err != nil {
			return true, fmt.Errorf("globe: move camera: %w", err)
		}
	}
	return true, nil
}

// Run does an on-demand pass, then timer passes every Interval until ctx
// ends. The timer is re-armed only after a pass completes, so passes never
// overlap. Pass errors are logged and the next tick retries.
func (r *Reconciler) Run(ctx context.Context) error {
	if r.refresh == nil {
		r.refresh = make(chan struct{}, 1)
	}
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	r.pass(ctx, true)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			r.pass(ctx, false)
		case <-r.refresh:
			timer.Stop()
			r.pass(ctx, true)
		}
		timer.Reset(interval)
	}
}

func (r *Reconciler) pass(ctx context.Context, onDemand bool) {
	log := r.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}

	rendered, err := r.Pass(ctx, onDemand)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("reconciliation pass failed", "on_demand", onDemand, "err", err)
		}
		return
	}
	log.Debug("reconciliation pass", "on_demand", onDemand, "rendered", rendered)
}

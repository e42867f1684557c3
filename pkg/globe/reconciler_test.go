package globe_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/pkg/geo"
	"github.com/aussiebroadwan/stepglobe/pkg/globe"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	roster  []stepsdk.Profile
	err     error
	fetches int
}

func (f *fakeSource) Roster(context.Context) ([]stepsdk.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return append([]stepsdk.Profile(nil), f.roster...), nil
}

func (f *fakeSource) set(roster []stepsdk.Profile, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roster, f.err = roster, err
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type recordingSurface struct {
	mu     sync.Mutex
	frames []globe.Frame
	moves  []geo.Point
}

func (s *recordingSurface) Render(_ context.Context, f globe.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return nil
}

func (s *recordingSurface) MoveCamera(_ context.Context, to geo.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves = append(s.moves, to)
	return nil
}

func (s *recordingSurface) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames), len(s.moves)
}

func (s *recordingSurface) last() globe.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

func roster() []stepsdk.Profile {
	return []stepsdk.Profile{
		{ID: "a", Nickname: "Ada", AvatarURL: "/avatars/fox.png", TotalSteps: 12000, IsApproved: true},
		{ID: "b", Nickname: "", AvatarURL: "/avatars/owl.png", TotalSteps: 0, IsApproved: false},
	}
}

func newReconciler(src *fakeSource, surf *recordingSurface) *globe.Reconciler {
	return globe.NewReconciler(src, surf, slogx.Discard())
}

func TestBuildFrame(t *testing.T) {
	p := geo.Default
	f := globe.BuildFrame(p, roster(), "a")

	require.Len(t, f.Markers, 2)
	require.Equal(t, "Ada", f.Markers[0].Label)
	require.True(t, f.Markers[0].IsViewer)
	require.Equal(t, p.Position(12000), f.Markers[0].Position)
	require.Equal(t, p.FormatKm(12000, 1), f.Markers[0].DistanceKm)

	require.Equal(t, globe.AnonymousLabel, f.Markers[1].Label)
	require.False(t, f.Markers[1].IsViewer)
	require.Equal(t, p.Origin(), f.Markers[1].Position)

	require.Len(t, f.Paths, 1, "zero steps get no path")
	require.Equal(t, "a", f.Paths[0].ID)
	require.Equal(t, p.Origin(), f.Paths[0].Points[0])
	require.Equal(t, p.Position(12000), f.Paths[0].Points[len(f.Paths[0].Points)-1])

	require.Len(t, f.Rings, 1)
	require.Equal(t, p.Position(12000), f.Rings[0].Center)
	require.NotNil(t, f.Viewer)
	require.Equal(t, int64(12000), f.Viewer.Steps)
}

func TestBuildFrame_NoViewer(t *testing.T) {
	f := globe.BuildFrame(geo.Default, roster(), "")
	require.Empty(t, f.Rings)
	require.Nil(t, f.Viewer)
	for _, m := range f.Markers {
		require.False(t, m.IsViewer)
	}

	f = globe.BuildFrame(geo.Default, roster(), "gone")
	require.Empty(t, f.Rings, "viewer missing from the roster")

	empty := globe.BuildFrame(geo.Default, nil, "a")
	require.NotNil(t, empty.Markers)
	require.Empty(t, empty.Markers)
}

func TestFingerprint(t *testing.T) {
	base := globe.Fingerprint(roster())
	require.Equal(t, base, globe.Fingerprint(roster()))

	for name, mutate := range map[string]func(p *stepsdk.Profile){
		"steps":    func(p *stepsdk.Profile) { p.TotalSteps++ },
		"avatar":   func(p *stepsdk.Profile) { p.AvatarURL = "/avatars/cat.png" },
		"nickname": func(p *stepsdk.Profile) { p.Nickname = "Grace" },
		"approval": func(p *stepsdk.Profile) { p.IsApproved = !p.IsApproved },
	} {
		t.Run(name, func(t *testing.T) {
			r := roster()
			mutate(&r[0])
			require.NotEqual(t, base, globe.Fingerprint(r))
		})
	}

	require.NotEqual(t, base, globe.Fingerprint(roster()[:1]))
}

func TestPass_SkipsUnchangedRoster(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{roster: roster()}
	surf := &recordingSurface{}
	r := newReconciler(src, surf)

	rendered, err := r.Pass(ctx, false)
	require.NoError(t, err)
	require.True(t, rendered)

	rendered, err = r.Pass(ctx, false)
	require.NoError(t, err)
	require.False(t, rendered)

	frames, moves := surf.counts()
	require.Equal(t, 1, frames)
	require.Zero(t, moves, "timer passes never move the camera")

	src.set(append(roster(), stepsdk.Profile{ID: "c", TotalSteps: 5}), nil)
	rendered, err = r.Pass(ctx, false)
	require.NoError(t, err)
	require.True(t, rendered)
	require.Len(t, surf.last().Markers, 3)
}

func TestPass_RecenterBetweenTimerPasses(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{roster: roster()}
	surf := &recordingSurface{}
	r := newReconciler(src, surf)

	for _, onDemand := range []bool{false, true, false} {
		_, err := r.Pass(ctx, onDemand)
		require.NoError(t, err)
	}

	frames, moves := surf.counts()
	require.Equal(t, 2, frames)
	require.Equal(t, 1, moves)
}

func TestPass_OnDemandAlwaysRendersAndCentres(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{roster: roster()}
	surf := &recordingSurface{}
	r := newReconciler(src, surf)

	for range 2 {
		rendered, err := r.Pass(ctx, true)
		require.NoError(t, err)
		require.True(t, rendered)
	}
	frames, moves := surf.counts()
	require.Equal(t, 2, frames)
	require.Equal(t, 2, moves)
	require.Equal(t, geo.Default.Origin(), surf.moves[1], "no viewer centres on the origin")

	r.State.SetViewer("a")
	_, err := r.Pass(ctx, true)
	require.NoError(t, err)
	require.Equal(t, geo.Default.Position(12000), surf.moves[2])
	require.Len(t, surf.last().Rings, 1)
}

func TestPass_ViewerChangeForcesRender(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{roster: roster()}
	surf := &recordingSurface{}
	r := newReconciler(src, surf)

	_, err := r.Pass(ctx, false)
	require.NoError(t, err)

	r.State.SetViewer("a")
	rendered, err := r.Pass(ctx, false)
	require.NoError(t, err)
	require.True(t, rendered)
	require.Len(t, surf.last().Rings, 1)

	r.Reset()
	require.Empty(t, r.State.ViewerID())
	rendered, err = r.Pass(ctx, false)
	require.NoError(t, err)
	require.True(t, rendered)
	require.Empty(t, surf.last().Rings)
}

func TestPass_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	surf := &recordingSurface{}
	r := newReconciler(src, surf)

	rendered, err := r.Pass(context.Background(), true)
	require.Error(t, err)
	require.False(t, rendered)
	frames, moves := surf.counts()
	require.Zero(t, frames)
	require.Zero(t, moves)
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{roster: roster()}
	surf := &recordingSurface{}
	r := newReconciler(src, surf)
	r.Interval = 5 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// The first pass is on demand, later timer passes see the same roster.
	require.Eventually(t, func() bool { return src.count() >= 4 }, time.Second, time.Millisecond)
	frames, moves := surf.counts()
	require.Equal(t, 1, frames)
	require.Equal(t, 1, moves)

	r.Refresh()
	require.Eventually(t, func() bool {
		_, moves := surf.counts()
		return moves == 2
	}, time.Second, time.Millisecond)

	// Errors are skipped and the loop keeps polling.
	src.set(nil, errors.New("backend down"))
	n := src.count()
	require.Eventually(t, func() bool { return src.count() >= n+2 }, time.Second, time.Millisecond)

	src.set(append(roster(), stepsdk.Profile{ID: "c"}), nil)
	require.Eventually(t, func() bool {
		frames, _ := surf.counts()
		return frames == 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestJSONSurface(t *testing.T) {
	var buf bytes.Buffer
	s := globe.NewJSONSurface(&buf)
	ctx := context.Background()

	require.NoError(t, s.Render(ctx, globe.BuildFrame(geo.Default, roster(), "a")))
	require.NoError(t, s.MoveCamera(ctx, geo.Default.Origin()))

	dec := json.NewDecoder(&buf)
	var ev globe.Event
	require.NoError(t, dec.Decode(&ev))
	require.Equal(t, "frame", ev.Type)
	require.NotNil(t, ev.Frame)
	require.Len(t, ev.Frame.Markers, 2)

	ev = globe.Event{}
	require.NoError(t, dec.Decode(&ev))
	require.Equal(t, "camera", ev.Type)
	require.Equal(t, geo.Default.Origin(), *ev.Camera)
}

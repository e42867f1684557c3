package globe

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/aussiebroadwan/stepglobe/pkg/geo"
)

// Event is one line written by JSONSurface.
type Event struct {
	Type   string     `json:"type"` // "frame" or "camera"
	At     time.Time  `json:"at"`
	Frame  *Frame     `json:"frame,omitempty"`
	Camera *geo.Point `json:"camera,omitempty"`
}

// JSONSurface writes each render and camera move as a JSON line, for
// piping into a renderer or a log.
type JSONSurface struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

func NewJSONSurface(w io.Writer) *JSONSurface {
	return &JSONSurface{enc: json.NewEncoder(w), now: time.Now}
}

func (s *JSONSurface) Render(_ context.Context, f Frame) error {
	return s.write(Event{Type: "frame", Frame: &f})
}

func (s *JSONSurface) MoveCamera(_ context.Context, to geo.Point) error {
	return s.write(Event{Type: "camera", Camera: &to})
}

func (s *JSONSurface) write(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.At = s.now().UTC()
	return s.enc.Encode(ev)
}

package globe

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/aussiebroadwan/stepglobe/pkg/geo"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// Marker is one participant on the globe.
type Marker struct {
	ID         string    `json:"id"`
	Position   geo.Point `json:"position"`
	AvatarURL  string    `json:"avatar_url"`
	Label      string    `json:"label"`
	Steps      int64     `json:"steps"`
	DistanceKm string    `json:"distance_km"`
	IsViewer   bool      `json:"is_viewer"`
	IsApproved bool      `json:"is_approved"`
}

// Path is the route from the origin to a participant.
type Path struct {
	ID     string      `json:"id"`
	Points []geo.Point `json:"points"`
}

// Ring highlights the viewer's position.
type Ring struct {
	Center geo.Point `json:"center"`
}

// ViewerStats feed the viewer's own distance display.
type ViewerStats struct {
	ID         string    `json:"id"`
	Steps      int64     `json:"steps"`
	DistanceKm string    `json:"distance_km"`
	Position   geo.Point `json:"position"`
}

// Frame is everything the surface draws in one pass.
type Frame struct {
	Markers []Marker     `json:"markers"`
	Paths   []Path       `json:"paths"`
	Rings   []Ring       `json:"rings"`
	Viewer  *ViewerStats `json:"viewer,omitempty"`
}

// AnonymousLabel is shown for participants without a nickname.
const AnonymousLabel = "Anon"

// kmDecimals is the display precision of distances.
const kmDecimals = 1

// BuildFrame projects roster. Accounts with no steps get a marker but no
// path; the viewer, when present, also gets a ring and stats.
func BuildFrame(p geo.Projection, roster []stepsdk.Profile, viewerID string) Frame {
	f := Frame{
		Markers: make([]Marker, 0, len(roster)),
		Paths:   []Path{},
		Rings:   []Ring{},
	}

	for _, a := range roster {
		steps := max(a.TotalSteps, 0)
		pos := p.Position(steps)
		km := p.FormatKm(steps, kmDecimals)
		isViewer := viewerID != "" && a.ID == viewerID

		label := a.Nickname
		if label == "" {
			label = AnonymousLabel
		}

		f.Markers = append(f.Markers, Marker{
			ID:         a.ID,
			Position:   pos,
			AvatarURL:  a.AvatarURL,
			Label:      label,
			Steps:      steps,
			DistanceKm: km,
			IsViewer:   isViewer,
			IsApproved: a.IsApproved,
		})

		if steps > 0 {
			f.Paths = append(f.Paths, Path{ID: a.ID, Points: p.PathPoints(pos.Lng)})
		}

		if isViewer {
			f.Rings = append(f.Rings, Ring{Center: pos})
			f.Viewer = &ViewerStats{ID: a.ID, Steps: steps, DistanceKm: km, Position: pos}
		}
	}
	return f
}

// Fingerprint changes whenever anything drawn from roster would change.
func Fingerprint(roster []stepsdk.Profile) string {
	h := sha256.New()
	for _, a := range roster {
		h.Write([]byte(a.ID))
		h.Write([]byte{0})
		h.Write(strconv.AppendInt(nil, a.TotalSteps, 10))
		h.Write([]byte{0})
		h.Write([]byte(a.AvatarURL))
		h.Write([]byte{0})
		h.Write([]byte(a.Nickname))
		h.Write([]byte{0})
		h.Write(strconv.AppendBool(nil, a.IsApproved))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

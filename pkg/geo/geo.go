package geo

import (
	"math"
	"strconv"
)

// Defaults for the challenge route: everyone walks east along the equator
// starting at the same meridian.
const (
	DefaultOriginLat           = 0.0
	DefaultOriginLng           = 37.6
	DefaultStepLengthM         = 0.75
	DefaultEarthCircumferenceM = 40075000.0
	DefaultSampleStepDeg       = 5.0
)

// Point is a (latitude, longitude) pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Projection converts step totals into positions on the globe. The zero value
// is not usable, use Default or fill every field.
type Projection struct {
	OriginLat           float64
	OriginLng           float64
	StepLengthM         float64
	EarthCircumferenceM float64
	SampleStepDeg       float64
}

// Default is the projection used by the server and the viewer unless
// configuration overrides it.
var Default = Projection{
	OriginLat:           DefaultOriginLat,
	OriginLng:           DefaultOriginLng,
	StepLengthM:         DefaultStepLengthM,
	EarthCircumferenceM: DefaultEarthCircumferenceM,
	SampleStepDeg:       DefaultSampleStepDeg,
}

// Origin returns the fixed starting point of every path.
func (p Projection) Origin() Point {
	return Point{Lat: p.OriginLat, Lng: p.OriginLng}
}

// DistanceKm returns the unrounded distance covered by steps. Negative input
// is treated as zero.
func (p Projection) DistanceKm(steps int64) float64 {
	if steps <= 0 {
		return 0
	}
	return float64(steps) * p.StepLengthM / 1000
}

// FormatKm renders DistanceKm with a fixed number of decimals for display.
func (p Projection) FormatKm(steps int64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(p.DistanceKm(steps), 'f', decimals, 64)
}

// Longitude maps steps to a longitude east of the origin. The result is not
// wrapped at ±180 degrees.
func (p Projection) Longitude(steps int64) float64 {
	meters := p.DistanceKm(steps) * 1000
	return p.OriginLng + (meters/p.EarthCircumferenceM)*360
}

// Position is Longitude paired with the origin latitude.
func (p Projection) Position(steps int64) Point {
	return Point{Lat: p.OriginLat, Lng: p.Longitude(steps)}
}

// PathPoints samples the route from the origin to target. Intermediate points
// are placed every SampleStepDeg while strictly below target; the last point
// is always exactly target, so the result has at least two points.
func (p Projection) PathPoints(target float64) []Point {
	step := p.SampleStepDeg
	if step <= 0 || math.IsNaN(step) {
		step = DefaultSampleStepDeg
	}

	n := 0
	if span := target - p.OriginLng; span > 0 {
		n = int(math.Ceil(span / step))
	}

	out := make([]Point, 0, n+2)
	out = append(out, p.Origin())
	for k := 1; ; k++ {
		lng := p.OriginLng + float64(k)*step
		if lng >= target {
			break
		}
		out = append(out, Point{Lat: p.OriginLat, Lng: lng})
	}
	return append(out, Point{Lat: p.OriginLat, Lng: target})
}

// DistanceKm is Default.DistanceKm.
func DistanceKm(steps int64) float64 { return Default.DistanceKm(steps) }

// FormatKm is Default.FormatKm.
func FormatKm(steps int64, decimals int) string { return Default.FormatKm(steps, decimals) }

// Longitude is Default.Longitude.
func Longitude(steps int64) float64 { return Default.Longitude(steps) }

// PathPoints is Default.PathPoints.
func PathPoints(target float64) []Point { return Default.PathPoints(target) }

// Package camera holds the pure camera math used by the animation strategies
// and the adapter that pushes a camera pose onto a rendering surface.
package camera

import (
	"math"

	"github.com/wanderflow/wanderflow/pkg/core"
)

// Clamp01 limits t to [0,1].
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// Lerp linearly interpolates between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpLngLat interpolates both axes of a position independently.
func LerpLngLat(a, b core.LngLat, t float64) core.LngLat {
	return core.LngLat{
		Lng: Lerp(a.Lng, b.Lng, t),
		Lat: Lerp(a.Lat, b.Lat, t),
	}
}

// EaseInOut is a symmetric quadratic ease: 2t² below 0.5, -1+(4-2t)t above.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseInQuad accelerates from zero velocity.
func EaseInQuad(t float64) float64 {
	return t * t
}

// Interpolate blends two camera poses. Bearing and pitch are only blended when
// both poses define them; otherwise the defined value of to, then from, wins.
func Interpolate(from, to core.CameraState, t float64) core.CameraState {
	t = Clamp01(t)
	return core.CameraState{
		Center:  LerpLngLat(from.Center, to.Center, t),
		Zoom:    Lerp(from.Zoom, to.Zoom, t),
		Bearing: lerpOptional(from.Bearing, to.Bearing, t),
		Pitch:   lerpOptional(from.Pitch, to.Pitch, t),
	}
}

func lerpOptional(from, to *float64, t float64) *float64 {
	switch {
	case from != nil && to != nil:
		return core.Float(Lerp(*from, *to, t))
	case to != nil:
		return core.Float(*to)
	case from != nil:
		return core.Float(*from)
	default:
		return nil
	}
}

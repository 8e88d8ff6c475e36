// pkg/core/frame.go
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidFrameSequence is returned when a baked sequence breaks its ordering invariant
var ErrInvalidFrameSequence = errors.New("invalid frame sequence")

// CameraState is a map viewport pose. Nil Bearing or Pitch means "keep the
// surface's current value".
type CameraState struct {
	Center  LngLat   `json:"center"`
	Zoom    float64  `json:"zoom"`
	Bearing *float64 `json:"bearing,omitempty"`
	Pitch   *float64 `json:"pitch,omitempty"`
}

// Float returns a pointer to v, for optional CameraState fields.
func Float(v float64) *float64 {
	return &v
}

// BakedFrame is one precomputed sample of an animation.
type BakedFrame struct {
	Progress       float64
	CursorPosition *LngLat
	CameraState    CameraState
	RouteData      geom.GeoJSONFeatureCollection
}

// HasRoute reports whether the frame carries line geometry to draw.
func (f BakedFrame) HasRoute() bool {
	return f.RouteData != nil
}

// MarshalJSON encodes a missing route as null rather than an empty collection.
func (f BakedFrame) MarshalJSON() ([]byte, error) {
	type frameJSON struct {
		Progress       float64                        `json:"progress"`
		CursorPosition *LngLat                        `json:"cursorPosition"`
		CameraState    CameraState                    `json:"cameraState"`
		RouteData      *geom.GeoJSONFeatureCollection `json:"routeData"`
	}
	out := frameJSON{
		Progress:       f.Progress,
		CursorPosition: f.CursorPosition,
		CameraState:    f.CameraState,
	}
	if f.RouteData != nil {
		out.RouteData = &f.RouteData
	}
	return json.Marshal(out)
}

// Frames is an ordered baked sequence. Once baked it is read-only and may be
// shared freely.
type Frames []BakedFrame

// Index returns the nearest sample index for progress, or -1 when empty.
func (fs Frames) Index(progress float64) int {
	if len(fs) == 0 {
		return -1
	}
	p := math.Max(0, math.Min(1, progress))
	return int(math.Round(p * float64(len(fs)-1)))
}

// At returns the nearest baked sample for progress. Samples are never
// interpolated, so values change stepwise at coarse resolutions.
func (fs Frames) At(progress float64) (BakedFrame, bool) {
	i := fs.Index(progress)
	if i < 0 {
		return BakedFrame{}, false
	}
	return fs[i], true
}

// Validate checks that the sequence starts at 0, ends at 1 and strictly increases.
func (fs Frames) Validate() error {
	if len(fs) < 2 {
		return fmt.Errorf("%w: need at least 2 frames, got %d", ErrInvalidFrameSequence, len(fs))
	}
	if fs[0].Progress != 0 {
		return fmt.Errorf("%w: first progress is %v", ErrInvalidFrameSequence, fs[0].Progress)
	}
	if last := fs[len(fs)-1].Progress; last != 1 {
		return fmt.Errorf("%w: last progress is %v", ErrInvalidFrameSequence, last)
	}
	for i := 1; i < len(fs); i++ {
		if fs[i].Progress <= fs[i-1].Progress {
			return fmt.Errorf("%w: progress not increasing at frame %d", ErrInvalidFrameSequence, i)
		}
	}
	return nil
}

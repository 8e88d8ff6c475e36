// Package surface provides a rendering surface that records the camera, cursor
// and route it is given and logs every change. The CLI host previews
// animations on it.
package surface

import (
	"log/slog"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/wanderflow/wanderflow/internal/camera"
	"github.com/wanderflow/wanderflow/internal/geo"
	"github.com/wanderflow/wanderflow/pkg/core"
)

var (
	_ camera.FlyToer       = (*LogSurface)(nil)
	_ camera.JumpToer      = (*LogSurface)(nil)
	_ camera.CenterSetter  = (*LogSurface)(nil)
	_ camera.ZoomSetter    = (*LogSurface)(nil)
	_ camera.BearingSetter = (*LogSurface)(nil)
	_ camera.PitchSetter   = (*LogSurface)(nil)
)

// LogSurface is not safe for concurrent use.
type LogSurface struct {
	logger *slog.Logger

	camera core.CameraState
	cursor *core.LngLat
	route  geom.GeoJSONFeatureCollection

	Flights int
	Jumps   int
}

// NewLogSurface creates a surface with the camera at the origin, bearing and
// pitch 0.
func NewLogSurface(logger *slog.Logger) *LogSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSurface{
		logger: logger,
		camera: core.CameraState{Bearing: core.Float(0), Pitch: core.Float(0)},
	}
}

// FlyTo records a smooth transition. The surface lands on the target at once.
func (s *LogSurface) FlyTo(m camera.Move) error {
	s.Flights++
	s.set(m.CameraState)
	s.logger.Info("Camera flight",
		"lng", s.camera.Center.Lng,
		"lat", s.camera.Center.Lat,
		"zoom", s.camera.Zoom,
		"duration", m.Duration,
		"essential", m.Essential)
	return nil
}

// JumpTo records an instant move.
func (s *LogSurface) JumpTo(state core.CameraState) error {
	s.Jumps++
	s.set(state)
	s.logger.Debug("Camera jump",
		"lng", s.camera.Center.Lng,
		"lat", s.camera.Center.Lat,
		"zoom", s.camera.Zoom)
	return nil
}

func (s *LogSurface) SetCenter(c core.LngLat) error {
	s.camera.Center = c
	return nil
}

func (s *LogSurface) SetZoom(z float64) error {
	s.camera.Zoom = z
	return nil
}

func (s *LogSurface) SetBearing(b float64) error {
	s.camera.Bearing = core.Float(b)
	return nil
}

func (s *LogSurface) SetPitch(p float64) error {
	s.camera.Pitch = core.Float(p)
	return nil
}

// set applies state, keeping bearing and pitch when the state leaves them unset.
func (s *LogSurface) set(state core.CameraState) {
	s.camera.Center = state.Center
	s.camera.Zoom = state.Zoom
	if state.Bearing != nil {
		s.camera.Bearing = core.Float(*state.Bearing)
	}
	if state.Pitch != nil {
		s.camera.Pitch = core.Float(*state.Pitch)
	}
}

// SetCursor shows the moving marker at pos, or hides it when pos is nil.
func (s *LogSurface) SetCursor(pos *core.LngLat) {
	switch {
	case pos == nil && s.cursor != nil:
		s.logger.Debug("Cursor hidden")
	case pos != nil && s.cursor == nil:
		s.logger.Debug("Cursor shown", "lng", pos.Lng, "lat", pos.Lat)
	}
	if pos == nil {
		s.cursor = nil
		return
	}
	p := *pos
	s.cursor = &p
}

// SetRoute replaces the drawn route. nil clears it.
func (s *LogSurface) SetRoute(route geom.GeoJSONFeatureCollection) {
	if len(route) == 0 {
		if len(s.route) > 0 {
			s.logger.Debug("Route cleared")
		}
		s.route = nil
		return
	}
	if len(s.route) == 0 {
		if start, end, ok := geo.RouteEndpoints(route); ok {
			s.logger.Debug("Route drawn",
				"from", start,
				"to", end,
				"features", len(route))
		}
	}
	s.route = route
}

// Camera returns the current camera pose.
func (s *LogSurface) Camera() core.CameraState {
	return s.camera
}

// Cursor returns the cursor position, nil when hidden.
func (s *LogSurface) Cursor() *core.LngLat {
	return s.cursor
}

// Route returns the drawn route.
func (s *LogSurface) Route() geom.GeoJSONFeatureCollection {
	return s.route
}

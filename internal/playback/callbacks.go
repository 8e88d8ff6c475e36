package playback

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/wanderflow/wanderflow/pkg/core"
)

// Callbacks receives the controller's notifications. Every field is optional.
// For each emitted frame the order is progress, cursor, route, camera, update.
type Callbacks struct {
	OnProgress func(progress float64)
	// OnCursor gets nil when the frame has no visible cursor.
	OnCursor func(pos *core.LngLat)
	// OnRoute gets nil when the frame has nothing to draw.
	OnRoute    func(route geom.GeoJSONFeatureCollection)
	OnCamera   func(state core.CameraState)
	OnComplete func()
	OnStart    func()
	OnUpdate   func(frame core.BakedFrame)
}

// Merge returns c with every non-nil field of o applied on top.
func (c Callbacks) Merge(o Callbacks) Callbacks {
	if o.OnProgress != nil {
		c.OnProgress = o.OnProgress
	}
	if o.OnCursor != nil {
		c.OnCursor = o.OnCursor
	}
	if o.OnRoute != nil {
		c.OnRoute = o.OnRoute
	}
	if o.OnCamera != nil {
		c.OnCamera = o.OnCamera
	}
	if o.OnComplete != nil {
		c.OnComplete = o.OnComplete
	}
	if o.OnStart != nil {
		c.OnStart = o.OnStart
	}
	if o.OnUpdate != nil {
		c.OnUpdate = o.OnUpdate
	}
	return c
}

func (c Callbacks) emit(progress float64, f core.BakedFrame) {
	if c.OnProgress != nil {
		c.OnProgress(progress)
	}
	if c.OnCursor != nil {
		c.OnCursor(f.CursorPosition)
	}
	if c.OnRoute != nil {
		c.OnRoute(f.RouteData)
	}
	if c.OnCamera != nil {
		c.OnCamera(f.CameraState)
	}
	if c.OnUpdate != nil {
		c.OnUpdate(f)
	}
}

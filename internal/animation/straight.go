package animation

import (
	"github.com/wanderflow/wanderflow/internal/camera"
	"github.com/wanderflow/wanderflow/internal/geo"
	"github.com/wanderflow/wanderflow/pkg/core"
)

// straightFrame moves the cursor along the direct line from A to B. The camera
// zooms in on A, pulls out to follow the cursor, then zooms in on B.
func straightFrame(cfg core.AnimationConfig, p float64) core.BakedFrame {
	a, b := cfg.PointA.Position(), cfg.PointB.Position()
	cursor := camera.LerpLngLat(a, b, p)

	var cam core.CameraState
	switch {
	case p <= 0.2:
		cam = core.CameraState{
			Center: a,
			Zoom:   camera.Lerp(ZoomOut, ZoomIn, camera.EaseInOut(p/0.2)),
		}
	case p <= 0.8:
		cam = core.CameraState{
			Center: cursor,
			Zoom:   camera.Lerp(ZoomIn, ZoomOut, camera.EaseInOut((p-0.2)/0.6)),
		}
	default:
		cam = core.CameraState{
			Center: b,
			Zoom:   camera.Lerp(ZoomOut, ZoomIn, camera.EaseInOut((p-0.8)/0.2)),
		}
	}

	return core.BakedFrame{
		Progress:       p,
		CursorPosition: &cursor,
		CameraState:    cam,
		RouteData:      geo.StraightRoute(a, b),
	}
}

package animation

import (
	"github.com/wanderflow/wanderflow/internal/camera"
	"github.com/wanderflow/wanderflow/pkg/core"
)

// teleportFrame hops between the two checkpoints without a cursor or a line.
func teleportFrame(cfg core.AnimationConfig, p float64) core.BakedFrame {
	a, b := cfg.PointA.Position(), cfg.PointB.Position()

	var cam core.CameraState
	switch {
	case p <= 0.25:
		cam = core.CameraState{
			Center: a,
			Zoom:   camera.Lerp(ZoomOut, ZoomIn, camera.EaseInOut(p/0.25)),
		}
	case p <= 0.5:
		cam = core.CameraState{
			Center: a,
			Zoom:   camera.Lerp(ZoomIn, ZoomOut, camera.EaseInOut((p-0.25)/0.25)),
		}
	case p <= 0.75:
		// quadratic ease-in, not EaseInOut
		cam = core.CameraState{
			Center: camera.LerpLngLat(a, b, camera.EaseInQuad((p-0.5)/0.25)),
			Zoom:   ZoomOut,
		}
	default:
		cam = core.CameraState{
			Center: b,
			Zoom:   camera.Lerp(ZoomOut, ZoomIn, camera.EaseInOut((p-0.75)/0.25)),
		}
	}

	return core.BakedFrame{
		Progress:    p,
		CameraState: cam,
	}
}

// Package animation implements the fly-through algorithms. Each animation type
// is a pure function from (config, progress) to a frame; Sample turns one into
// a baked sequence.
package animation

import (
	"errors"
	"fmt"

	"github.com/wanderflow/wanderflow/internal/camera"
	"github.com/wanderflow/wanderflow/pkg/core"
)

// Zoom levels shared by every animation type.
const (
	ZoomOut = 11.0
	ZoomIn  = 15.0
)

// ErrUninitialized is returned when a frame is requested before a config is known
var ErrUninitialized = errors.New("animation strategy not initialized")

// FrameFunc computes the frame at progress for a defaulted config.
type FrameFunc func(cfg core.AnimationConfig, progress float64) core.BakedFrame

type variant struct {
	frame FrameFunc
	// fallback marks a type that borrows another type's algorithm.
	fallback bool
}

var variants = map[core.AnimationType]variant{
	core.AnimationStraight: {frame: straightFrame},
	core.AnimationTeleport: {frame: teleportFrame},
	// route has no path-following geometry yet.
	core.AnimationRoute: {frame: straightFrame, fallback: true},
}

func lookup(kind core.AnimationType) (variant, error) {
	v, ok := variants[kind]
	if !ok {
		return variant{}, fmt.Errorf("%w: %q", core.ErrUnknownAnimationType, string(kind))
	}
	return v, nil
}

// CalculateFrame computes a single frame of the given animation type.
func CalculateFrame(kind core.AnimationType, cfg *core.AnimationConfig, progress float64) (core.BakedFrame, error) {
	if cfg == nil {
		return core.BakedFrame{}, ErrUninitialized
	}
	v, err := lookup(kind)
	if err != nil {
		return core.BakedFrame{}, err
	}
	return v.frame(cfg.WithDefaults(), camera.Clamp01(progress)), nil
}

// Sample evaluates fn at i/n for every i in [0,n], n being cfg.TotalFrames().
// The first sample is at progress 0 and the last at exactly 1.
func Sample(cfg core.AnimationConfig, fn FrameFunc) core.Frames {
	cfg = cfg.WithDefaults()
	total := cfg.TotalFrames()

	frames := make(core.Frames, 0, total+1)
	for i := 0; i <= total; i++ {
		frames = append(frames, fn(cfg, float64(i)/float64(total)))
	}
	return frames
}

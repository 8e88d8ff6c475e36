package camera

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wanderflow/wanderflow/pkg/core"
)

// Move is a smooth camera transition request.
type Move struct {
	core.CameraState
	Duration time.Duration
	Easing   func(float64) float64
	// Essential transitions are not skipped by surfaces honouring reduced motion.
	Essential bool
}

// Options controls how Apply moves the camera. A zero Duration jumps.
type Options struct {
	Duration time.Duration
	Easing   func(float64) float64
}

// FlyToer animates the camera to a pose.
type FlyToer interface {
	FlyTo(Move) error
}

// JumpToer moves the camera to a pose instantly.
type JumpToer interface {
	JumpTo(core.CameraState) error
}

// MapProvider exposes an underlying map instance. Apply looks through it once
// when the surface itself lacks a primitive.
type MapProvider interface {
	Map() any
}

// CenterSetter, ZoomSetter, BearingSetter and PitchSetter are the last resort
// for jumps on surfaces without JumpTo.
type CenterSetter interface {
	SetCenter(core.LngLat) error
}

type ZoomSetter interface {
	SetZoom(float64) error
}

type BearingSetter interface {
	SetBearing(float64) error
}

type PitchSetter interface {
	SetPitch(float64) error
}

// Apply pushes state onto surface. Unsupported primitives are skipped; errors
// and panics raised by the surface are logged and never reach the caller.
func Apply(surface any, state core.CameraState, opts Options, logger *slog.Logger) {
	if surface == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	targets := []any{surface}
	if mp, ok := surface.(MapProvider); ok {
		var inner any
		guard(logger, "map", func() error {
			inner = mp.Map()
			return nil
		})
		if inner != nil {
			targets = append(targets, inner)
		}
	}

	if opts.Duration > 0 {
		flyTo(targets, state, opts, logger)
		return
	}
	jumpTo(targets, state, logger)
}

func flyTo(targets []any, state core.CameraState, opts Options, logger *slog.Logger) {
	easing := opts.Easing
	if easing == nil {
		easing = EaseInOut
	}
	for _, target := range targets {
		if f, ok := target.(FlyToer); ok {
			guard(logger, "flyTo", func() error {
				return f.FlyTo(Move{
					CameraState: state,
					Duration:    opts.Duration,
					Easing:      easing,
					Essential:   true,
				})
			})
			return
		}
	}
	logger.Debug("surface has no flyTo, camera move skipped")
}

func jumpTo(targets []any, state core.CameraState, logger *slog.Logger) {
	for _, target := range targets {
		if j, ok := target.(JumpToer); ok {
			guard(logger, "jumpTo", func() error {
				return j.JumpTo(state)
			})
			return
		}
	}

	applied := false
	for _, target := range targets {
		if s, ok := target.(CenterSetter); ok {
			applied = true
			guard(logger, "setCenter", func() error { return s.SetCenter(state.Center) })
		}
		if s, ok := target.(ZoomSetter); ok {
			applied = true
			guard(logger, "setZoom", func() error { return s.SetZoom(state.Zoom) })
		}
		if s, ok := target.(BearingSetter); ok && state.Bearing != nil {
			applied = true
			guard(logger, "setBearing", func() error { return s.SetBearing(*state.Bearing) })
		}
		if s, ok := target.(PitchSetter); ok && state.Pitch != nil {
			applied = true
			guard(logger, "setPitch", func() error { return s.SetPitch(*state.Pitch) })
		}
		if applied {
			return
		}
	}
	logger.Debug("surface has no jump primitives, camera move skipped")
}

func guard(logger *slog.Logger, op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("camera surface panicked", "op", op, "panic", fmt.Sprint(r))
		}
	}()
	if err := fn(); err != nil {
		logger.Warn("camera surface call failed", "op", op, "error", err)
	}
}

package animation

import (
	"fmt"
	"log/slog"

	"github.com/wanderflow/wanderflow/pkg/core"
)

// Strategy is a per-request animation of one type. Bake stores the config and
// the baked sequence; the lookups read them afterwards.
type Strategy struct {
	kind    core.AnimationType
	variant variant
	logger  *slog.Logger

	config *core.AnimationConfig
	frames core.Frames
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithLogger sets the logger used for bake warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Strategy) {
		s.logger = l
	}
}

// New returns a strategy for kind.
func New(kind core.AnimationType, opts ...Option) (*Strategy, error) {
	v, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	s := &Strategy{kind: kind, variant: v, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Kind returns the requested animation type.
func (s *Strategy) Kind() core.AnimationType {
	return s.kind
}

// Fallback reports whether the strategy substitutes another algorithm for its
// own. Route animations currently fly straight.
func (s *Strategy) Fallback() bool {
	return s.variant.fallback
}

// Bake samples the whole animation. The returned sequence is shared with the
// strategy and must not be modified.
func (s *Strategy) Bake(cfg core.AnimationConfig) (core.Frames, error) {
	if cfg.PointA.ID == cfg.PointB.ID {
		return nil, fmt.Errorf("%w: %s", core.ErrSameCheckpoint, cfg.PointA.ID)
	}
	cfg = cfg.WithDefaults()
	if s.variant.fallback {
		s.logger.Warn("animation type has no dedicated algorithm, using straight",
			"type", s.kind.String(),
			"from", cfg.PointA.ID,
			"to", cfg.PointB.ID)
	}

	s.config = &cfg
	s.frames = Sample(cfg, s.variant.frame)
	return s.frames, nil
}

// CalculateFrame computes the exact frame at progress for the baked config.
func (s *Strategy) CalculateFrame(progress float64) (core.BakedFrame, error) {
	return CalculateFrame(s.kind, s.config, progress)
}

// Frame returns the nearest baked frame.
func (s *Strategy) Frame(progress float64) (core.BakedFrame, bool) {
	return s.frames.At(progress)
}

// CameraState returns the camera pose of the nearest baked frame.
func (s *Strategy) CameraState(progress float64) (core.CameraState, bool) {
	f, ok := s.frames.At(progress)
	if !ok {
		return core.CameraState{}, false
	}
	return f.CameraState, true
}

// Frames returns a copy of the baked sequence.
func (s *Strategy) Frames() core.Frames {
	if s.frames == nil {
		return nil
	}
	out := make(core.Frames, len(s.frames))
	copy(out, s.frames)
	return out
}

// Config returns the config of the last bake.
func (s *Strategy) Config() (core.AnimationConfig, bool) {
	if s.config == nil {
		return core.AnimationConfig{}, false
	}
	return *s.config, true
}

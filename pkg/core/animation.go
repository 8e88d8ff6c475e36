// pkg/core/animation.go
package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// AnimationType selects the fly-through algorithm.
type AnimationType string

const (
	AnimationStraight AnimationType = "straight"
	AnimationRoute    AnimationType = "route"
	AnimationTeleport AnimationType = "teleport"
)

// Animation defaults applied by WithDefaults.
const (
	DefaultDuration   = 3000 * time.Millisecond
	DefaultResolution = 60
)

var (
	// ErrUnknownAnimationType is returned when parsing an unsupported animation type
	ErrUnknownAnimationType = errors.New("unknown animation type")
	// ErrSameCheckpoint is returned when both endpoints of an animation are the same checkpoint
	ErrSameCheckpoint = errors.New("animation endpoints must be different checkpoints")
)

// AnimationTypes lists every selectable animation type.
var AnimationTypes = []AnimationType{AnimationStraight, AnimationRoute, AnimationTeleport}

func (t AnimationType) String() string {
	return string(t)
}

// ParseAnimationType converts a user supplied string into an AnimationType.
func ParseAnimationType(s string) (AnimationType, error) {
	switch AnimationType(strings.ToLower(strings.TrimSpace(s))) {
	case AnimationStraight:
		return AnimationStraight, nil
	case AnimationRoute:
		return AnimationRoute, nil
	case AnimationTeleport:
		return AnimationTeleport, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAnimationType, s)
	}
}

// AnimationConfig describes a single animation request. It is a value and is
// never mutated after construction.
type AnimationConfig struct {
	PointA     Checkpoint
	PointB     Checkpoint
	Type       AnimationType
	Duration   time.Duration
	Resolution int // frames per second
}

// ConfigOption overrides an optional AnimationConfig field.
type ConfigOption func(*AnimationConfig)

// WithDuration sets the animation duration.
func WithDuration(d time.Duration) ConfigOption {
	return func(c *AnimationConfig) {
		c.Duration = d
	}
}

// WithResolution sets the bake sampling rate in frames per second.
func WithResolution(fps int) ConfigOption {
	return func(c *AnimationConfig) {
		c.Resolution = fps
	}
}

// NewAnimationConfig builds a defaulted config between two distinct checkpoints.
func NewAnimationConfig(a, b Checkpoint, t AnimationType, opts ...ConfigOption) (AnimationConfig, error) {
	if a.ID == b.ID {
		return AnimationConfig{}, fmt.Errorf("%w: %s", ErrSameCheckpoint, a.ID)
	}
	cfg := AnimationConfig{PointA: a, PointB: b, Type: t}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.WithDefaults(), nil
}

// WithDefaults returns a copy with zero duration, resolution and type defaulted.
func (c AnimationConfig) WithDefaults() AnimationConfig {
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	if c.Resolution <= 0 {
		c.Resolution = DefaultResolution
	}
	if c.Type == "" {
		c.Type = AnimationStraight
	}
	return c
}

// TotalFrames is ceil(duration in seconds * resolution). A baked sequence holds
// TotalFrames()+1 samples.
func (c AnimationConfig) TotalFrames() int {
	c = c.WithDefaults()
	return int(math.Ceil(c.Duration.Seconds() * float64(c.Resolution)))
}

// Package playback walks a baked frame sequence over wall-clock time.
//
// A Controller is not safe for concurrent use. Drive it from one goroutine,
// usually the run loop that also serves as its Scheduler.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/wanderflow/wanderflow/pkg/core"
)

const instrumentationName = "github.com/wanderflow/wanderflow/internal/playback"

// DefaultDuration is used when Initialize gets a non-positive duration.
const DefaultDuration = 3000 * time.Millisecond

// ErrDestroyed is returned when initializing a destroyed controller
var ErrDestroyed = errors.New("playback controller destroyed")

// State of a Controller.
type State int

const (
	StateIdle State = iota
	StateReady
	StatePlaying
	StatePaused
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FrameID identifies a pending frame request.
type FrameID uint64

// Scheduler runs a callback once on the next display frame.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler makes the controller request its own ticks. Without one the
// host calls Tick.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithCallbacks sets the initial callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(c *Controller) {
		c.callbacks = cb
	}
}

// Controller is the playback state machine.
type Controller struct {
	frames    core.Frames
	duration  time.Duration
	progress  float64
	start     time.Time
	state     State
	callbacks Callbacks

	scheduler  Scheduler
	now        func() time.Time
	logger     *slog.Logger
	pending    FrameID
	hasPending bool
	// generation invalidates frame callbacks scheduled before a cancel.
	generation uint64

	ticks       metric.Int64Counter
	completions metric.Int64Counter
	seeks       metric.Int64Counter
}

// NewController creates an idle controller.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewController(opts ...Option) (*Controller, error) {
	c := &Controller{
		duration: DefaultDuration,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	m := otel.Meter(instrumentationName)

	var err error

	c.ticks, err = m.Int64Counter(
		"playback.ticks",
		metric.WithDescription("Total playback ticks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	c.completions, err = m.Int64Counter(
		"playback.completions",
		metric.WithDescription("Total playback runs that reached the end"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating completions counter: %w", err)
	}

	c.seeks, err = m.Int64Counter(
		"playback.seeks",
		metric.WithDescription("Total seeks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seeks counter: %w", err)
	}

	return c, nil
}

// Initialize loads a new sequence and moves to Ready at progress 0. Any
// running playback is cancelled.
func (c *Controller) Initialize(frames core.Frames, duration time.Duration) error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	c.halt()
	c.frames = frames
	c.duration = duration
	c.progress = 0
	c.setState(StateReady)
	c.logger.Debug("playback initialized", "frames", len(frames), "duration", duration)
	return nil
}

// UpdateCallbacks merges cb into the current callbacks. Nil fields keep the
// previous handler.
func (c *Controller) UpdateCallbacks(cb Callbacks) {
	c.callbacks = c.callbacks.Merge(cb)
}

// Play starts or resumes from the current progress and ticks once immediately.
func (c *Controller) Play() {
	if c.state != StateReady && c.state != StatePaused {
		return
	}
	if len(c.frames) == 0 {
		return
	}
	now := c.now()
	c.start = c.anchor(now, c.progress)
	c.setState(StatePlaying)
	if c.callbacks.OnStart != nil {
		c.callbacks.OnStart()
	}
	c.Tick(now)
}

// Pause stops the tick loop and keeps the progress.
func (c *Controller) Pause() {
	if c.state != StatePlaying {
		return
	}
	c.halt()
	c.setState(StatePaused)
}

// Seek jumps to progress, clamped to [0,1], and emits its frame. The playing
// state is unchanged. While playing, the start time is re-anchored so the
// next tick continues from the new position instead of the old start.
func (c *Controller) Seek(progress float64) {
	if c.state == StateDestroyed {
		return
	}
	p := clamp01(progress)
	c.progress = p
	if c.state == StatePlaying {
		c.start = c.anchor(c.now(), p)
	}
	c.seeks.Add(context.Background(), 1)
	c.emit()
}

// Rewind pauses and returns to progress 0.
func (c *Controller) Rewind() {
	if c.state == StateDestroyed {
		return
	}
	c.Pause()
	c.progress = 0
	c.emit()
}

// Restart returns to progress 0. A playing controller keeps playing from
// the start; otherwise the first frame is emitted.
func (c *Controller) Restart() {
	if c.state == StateDestroyed {
		return
	}
	now := c.now()
	c.progress = 0
	c.start = now
	if c.state == StatePlaying {
		c.halt()
		c.Tick(now)
		return
	}
	c.emit()
}

// Destroy cancels playback and drops the frames. The controller cannot be
// reused.
func (c *Controller) Destroy() {
	if c.state == StateDestroyed {
		return
	}
	c.halt()
	c.frames = nil
	c.progress = 0
	c.setState(StateDestroyed)
}

// Tick advances a playing controller to now. It is a no-op in other states.
func (c *Controller) Tick(now time.Time) {
	if c.state != StatePlaying {
		return
	}
	c.cancelPending()

	p := 1.0
	if c.duration > 0 {
		p = clamp01(float64(now.Sub(c.start)) / float64(c.duration))
	}
	c.progress = p
	c.ticks.Add(context.Background(), 1)

	gen := c.generation
	c.emit()
	if gen != c.generation || c.state != StatePlaying {
		// a callback paused, restarted or destroyed the controller
		return
	}

	if p >= 1 {
		c.setState(StatePaused)
		c.completions.Add(context.Background(), 1)
		c.logger.Debug("playback complete", "duration", c.duration)
		if c.callbacks.OnComplete != nil {
			c.callbacks.OnComplete()
		}
		return
	}
	c.schedule()
}

// Frame returns the nearest baked frame for progress.
func (c *Controller) Frame(progress float64) (core.BakedFrame, bool) {
	return c.frames.At(progress)
}

// CurrentFrame returns the frame at the current progress.
func (c *Controller) CurrentFrame() (core.BakedFrame, bool) {
	return c.frames.At(c.progress)
}

// CursorPosition returns the cursor of the current frame, nil when hidden.
func (c *Controller) CursorPosition() *core.LngLat {
	f, ok := c.CurrentFrame()
	if !ok {
		return nil
	}
	return f.CursorPosition
}

// CameraState returns the camera pose of the current frame.
func (c *Controller) CameraState() (core.CameraState, bool) {
	f, ok := c.CurrentFrame()
	if !ok {
		return core.CameraState{}, false
	}
	return f.CameraState, true
}

// RouteData returns the route of the current frame, nil when there is none.
func (c *Controller) RouteData() geom.GeoJSONFeatureCollection {
	f, ok := c.CurrentFrame()
	if !ok {
		return nil
	}
	return f.RouteData
}

func (c *Controller) Progress() float64 { return c.progress }

func (c *Controller) Playing() bool { return c.state == StatePlaying }

// Paused reports whether the controller is not playing.
func (c *Controller) Paused() bool { return c.state != StatePlaying }

func (c *Controller) State() State { return c.state }

// StartTime is the wall-clock instant that corresponds to progress 0 of the
// current run.
func (c *Controller) StartTime() time.Time { return c.start }

func (c *Controller) Duration() time.Duration { return c.duration }

func (c *Controller) emit() {
	f, ok := c.frames.At(c.progress)
	if !ok {
		return
	}
	c.callbacks.emit(c.progress, f)
}

func (c *Controller) anchor(now time.Time, progress float64) time.Time {
	return now.Add(-time.Duration(progress * float64(c.duration)))
}

func (c *Controller) schedule() {
	if c.scheduler == nil {
		return
	}
	gen := c.generation
	c.pending = c.scheduler.RequestFrame(func(now time.Time) {
		if gen != c.generation {
			return
		}
		c.hasPending = false
		c.Tick(now)
	})
	c.hasPending = true
}

func (c *Controller) cancelPending() {
	if c.hasPending {
		c.scheduler.CancelFrame(c.pending)
		c.hasPending = false
	}
}

// halt cancels the pending tick and invalidates callbacks already handed to
// the scheduler.
func (c *Controller) halt() {
	c.cancelPending()
	c.generation++
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("playback state", "from", c.state.String(), "to", s.String(), "progress", c.progress)
	c.state = s
}

func clamp01(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p))
}

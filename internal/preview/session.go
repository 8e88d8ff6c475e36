// Package preview runs an animation preview on a rendering surface. A Session
// owns the playback controller and exposes the transport commands of the
// player. Like the controller it must be driven from the run loop goroutine.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/wanderflow/wanderflow/internal/baker"
	"github.com/wanderflow/wanderflow/internal/camera"
	"github.com/wanderflow/wanderflow/internal/config"
	"github.com/wanderflow/wanderflow/internal/influx"
	"github.com/wanderflow/wanderflow/internal/logging"
	"github.com/wanderflow/wanderflow/internal/playback"
	"github.com/wanderflow/wanderflow/internal/trip"
	"github.com/wanderflow/wanderflow/pkg/core"
)

var (
	// ErrNoAnimation is returned by transport commands before CreateAnimation
	ErrNoAnimation = errors.New("no animation created")
	// ErrPreviewActive is returned when the camera is locked by a running preview
	ErrPreviewActive = errors.New("preview in progress")
)

// Playback event names sent to the Recorder.
const (
	EventCreate   = "create"
	EventStart    = "start"
	EventPause    = "pause"
	EventSeek     = "seek"
	EventRewind   = "rewind"
	EventRestart  = "restart"
	EventComplete = "complete"
	EventExit     = "exit"
)

// Surface draws the overlays of a preview. Camera moves go through
// camera.Apply, so the surface may also implement any of the camera
// interfaces.
type Surface interface {
	SetCursor(pos *core.LngLat)
	SetRoute(route geom.GeoJSONFeatureCollection)
}

// Loop schedules frames and delayed work on the session goroutine.
// *runloop.Loop implements it.
type Loop interface {
	playback.Scheduler
	AfterFunc(d time.Duration, fn func())
}

// Recorder receives playback events. *influx.Manager implements it.
type Recorder interface {
	RecordPlayback(e influx.PlaybackEvent)
}

// Timings of the camera moves around a preview.
type Timings struct {
	InitialMove   time.Duration
	ExitDelay     time.Duration
	FocusZoom     float64
	FocusDuration time.Duration
}

// DefaultTimings match the config defaults.
func DefaultTimings() Timings {
	return Timings{
		InitialMove:   500 * time.Millisecond,
		ExitDelay:     1500 * time.Millisecond,
		FocusZoom:     14,
		FocusDuration: 2 * time.Second,
	}
}

// TimingsFromSettings reads the preview timings from the configuration.
func TimingsFromSettings(s config.Settings) Timings {
	return Timings{
		InitialMove:   s.Animation.InitialMoveDuration,
		ExitDelay:     s.Preview.ExitDelay,
		FocusZoom:     s.Preview.FocusZoom,
		FocusDuration: s.Preview.FocusDuration,
	}
}

// Option configures a Session.
type Option func(*Session)

func WithTimings(t Timings) Option {
	return func(s *Session) {
		s.timings = t
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.baseLogger = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithClock replaces time.Now for the session and its controller.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithExitHook calls fn each time preview mode ends.
func WithExitHook(fn func()) Option {
	return func(s *Session) {
		s.onExit = fn
	}
}

// Status is a snapshot of the session.
type Status struct {
	State      string                        `json:"state"`
	Previewing bool                          `json:"previewing"`
	Progress   float64                       `json:"progress"`
	Type       core.AnimationType            `json:"type,omitempty"`
	From       string                        `json:"from,omitempty"`
	To         string                        `json:"to,omitempty"`
	Cursor     *core.LngLat                  `json:"cursor"`
	Route      geom.GeoJSONFeatureCollection `json:"route"`
	Camera     *core.CameraState             `json:"-"`
}

// Session is the preview of one animation at a time.
type Session struct {
	pipeline   *baker.Pipeline
	loop       Loop
	surface    Surface
	trip       *trip.Trip
	recorder   Recorder
	timings    Timings
	now        func() time.Time
	onExit     func()
	baseLogger *slog.Logger
	logger     *slog.Logger

	controller *playback.Controller

	config     *core.AnimationConfig
	previewing bool
	progress   float64
	cursor     *core.LngLat
	partial    geom.GeoJSONFeatureCollection
	route      geom.GeoJSONFeatureCollection
	// exitGen invalidates a scheduled preview exit.
	exitGen uint64
}

// NewSession creates a session previewing on surface.
func NewSession(pipeline *baker.Pipeline, loop Loop, surface Surface, tr *trip.Trip, opts ...Option) (*Session, error) {
	s := &Session{
		pipeline:   pipeline,
		loop:       loop,
		surface:    surface,
		trip:       tr,
		timings:    DefaultTimings(),
		now:        time.Now,
		baseLogger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = slog.New(logging.NewContextHandler(s.baseLogger.Handler(), s.logAttrs))

	c, err := playback.NewController(
		playback.WithScheduler(loop),
		playback.WithClock(s.now),
		playback.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.controller = c
	return s, nil
}

func (s *Session) logAttrs() []slog.Attr {
	if s.config == nil {
		return nil
	}
	return []slog.Attr{
		slog.String("animation", s.config.Type.String()),
		slog.Float64("progress", s.progress),
	}
}

// CreateAnimation bakes cfg, loads it into the controller and enters preview
// mode with the camera flying to the first frame.
func (s *Session) CreateAnimation(ctx context.Context, cfg core.AnimationConfig) (baker.Result, error) {
	ctx = logging.ContextWith(ctx,
		slog.String("from", cfg.PointA.ID),
		slog.String("to", cfg.PointB.ID))
	res, err := s.pipeline.Bake(ctx, cfg)
	if err != nil {
		return baker.Result{}, err
	}

	s.controller.UpdateCallbacks(playback.Callbacks{
		OnProgress: s.handleProgress,
		OnCursor:   s.handleCursor,
		OnRoute:    s.handleRoute,
		OnCamera:   s.handleCamera,
		OnComplete: s.handleComplete,
		OnStart:    func() { s.record(EventStart) },
	})
	if err := s.controller.Initialize(res.Frames, res.Config.Duration); err != nil {
		return baker.Result{}, err
	}

	cfg = res.Config
	s.config = &cfg
	s.progress = 0
	s.exitGen++

	first := res.Frames[0]
	camera.Apply(s.surface, first.CameraState, camera.Options{Duration: s.timings.InitialMove}, s.logger)
	s.route = first.RouteData
	s.partial = first.RouteData
	s.cursor = first.CursorPosition

	s.previewing = true
	s.surface.SetRoute(s.partial)
	s.surface.SetCursor(s.cursor)

	s.logger.InfoContext(ctx, "Preview created",
		"frames", len(res.Frames),
		"cached", res.Cached)
	s.record(EventCreate)
	return res, nil
}

// SelectLocation flies the camera to a trip location. The camera is locked
// while a preview runs.
func (s *Session) SelectLocation(id string) error {
	if s.previewing {
		return ErrPreviewActive
	}
	l, ok := s.trip.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", trip.ErrUnknownLocation, id)
	}
	camera.Apply(s.surface, core.CameraState{
		Center: core.LngLat{Lng: l.Lng, Lat: l.Lat},
		Zoom:   s.timings.FocusZoom,
	}, camera.Options{Duration: s.timings.FocusDuration}, s.logger)
	s.logger.Info("Location selected", "id", l.ID, "name", l.Name)
	return nil
}

// Play starts playback, from the beginning when the animation already ended.
// A finished preview is re-entered.
func (s *Session) Play() error {
	if s.config == nil {
		return ErrNoAnimation
	}
	if s.controller.Playing() {
		return nil
	}
	s.enterPreview()
	if s.controller.Progress() >= 1 {
		s.controller.Restart()
	}
	s.controller.Play()
	return nil
}

func (s *Session) Pause() error {
	if s.config == nil {
		return ErrNoAnimation
	}
	if s.controller.Playing() {
		s.controller.Pause()
		s.record(EventPause)
	}
	return nil
}

// Toggle plays a paused animation and pauses a playing one.
func (s *Session) Toggle() error {
	if s.controller.Playing() {
		return s.Pause()
	}
	return s.Play()
}

func (s *Session) Seek(progress float64) error {
	if s.config == nil {
		return ErrNoAnimation
	}
	s.enterPreview()
	s.controller.Seek(progress)
	s.record(EventSeek)
	return nil
}

func (s *Session) SeekStart() error { return s.Seek(0) }

func (s *Session) SeekEnd() error { return s.Seek(1) }

func (s *Session) Rewind() error {
	if s.config == nil {
		return ErrNoAnimation
	}
	s.enterPreview()
	s.controller.Rewind()
	s.record(EventRewind)
	return nil
}

func (s *Session) Restart() error {
	if s.config == nil {
		return ErrNoAnimation
	}
	s.enterPreview()
	s.controller.Restart()
	s.record(EventRestart)
	return nil
}

// Previewing reports whether preview mode is active.
func (s *Session) Previewing() bool {
	return s.previewing
}

// Controller exposes the playback controller.
func (s *Session) Controller() *playback.Controller {
	return s.controller
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	st := Status{
		State:      s.controller.State().String(),
		Previewing: s.previewing,
		Progress:   s.progress,
		Cursor:     s.cursor,
		Route:      s.partial,
	}
	if s.config != nil {
		st.Type = s.config.Type
		st.From = s.config.PointA.ID
		st.To = s.config.PointB.ID
	}
	if cs, ok := s.controller.CameraState(); ok {
		st.Camera = &cs
	}
	return st
}

// Close destroys the controller. The session cannot be used afterwards.
func (s *Session) Close() {
	s.exitGen++
	s.controller.Destroy()
}

func (s *Session) handleProgress(p float64) {
	s.progress = p
}

func (s *Session) handleCursor(pos *core.LngLat) {
	s.cursor = pos
	if s.previewing {
		s.surface.SetCursor(pos)
	}
}

func (s *Session) handleRoute(route geom.GeoJSONFeatureCollection) {
	s.partial = route
	if s.previewing {
		s.surface.SetRoute(route)
	}
}

func (s *Session) handleCamera(state core.CameraState) {
	camera.Apply(s.surface, state, camera.Options{}, s.logger)
}

func (s *Session) handleComplete() {
	s.record(EventComplete)
	gen := s.exitGen
	s.loop.AfterFunc(s.timings.ExitDelay, func() {
		if gen != s.exitGen || s.controller.Playing() {
			return
		}
		s.exitPreview()
	})
}

func (s *Session) enterPreview() {
	s.exitGen++
	if s.previewing {
		return
	}
	s.previewing = true
	s.surface.SetRoute(s.partial)
	s.surface.SetCursor(s.cursor)
	s.logger.Debug("Preview mode entered")
}

// exitPreview hides the cursor and shows the whole route again.
func (s *Session) exitPreview() {
	if !s.previewing {
		return
	}
	s.previewing = false
	s.surface.SetCursor(nil)
	s.surface.SetRoute(s.route)
	s.logger.Info("Preview finished")
	s.record(EventExit)
	if s.onExit != nil {
		s.onExit()
	}
}

func (s *Session) record(event string) {
	if s.recorder == nil || s.config == nil {
		return
	}
	s.recorder.RecordPlayback(influx.PlaybackEvent{
		From:      s.config.PointA.ID,
		To:        s.config.PointB.ID,
		Type:      s.config.Type,
		Event:     event,
		Progress:  s.progress,
		Timestamp: s.now(),
	})
}

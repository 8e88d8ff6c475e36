// Package runloop provides the single goroutine that drives playback. It
// fires frame callbacks at a fixed rate, runs commands posted from other
// goroutines and runs delayed callbacks.
package runloop

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wanderflow/wanderflow/internal/playback"
	"github.com/wanderflow/wanderflow/internal/queue"
)

// DefaultFPS is used when New gets a non-positive rate.
const DefaultFPS = 60

type frameRequest struct {
	id playback.FrameID
	fn func(time.Time)
}

type timer struct {
	due time.Time
	seq uint64
	fn  func()
}

// Loop is a frame scheduler. Every callback it runs executes on the goroutine
// calling Run or Step.
type Loop struct {
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	frames *queue.Queue[frameRequest]
	posted *queue.Queue[func()]
	wake   chan struct{}
	nextID atomic.Uint64

	timersMu sync.Mutex
	timers   []timer
	timerSeq uint64
}

var _ playback.Scheduler = (*Loop)(nil)

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces time.Now for timers and Run.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// New creates a loop firing frames fps times per second.
func New(fps int, logger *slog.Logger, opts ...Option) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		interval: time.Second / time.Duration(fps),
		logger:   logger,
		now:      time.Now,
		frames:   queue.New[frameRequest](),
		posted:   queue.New[func()](),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval is the time between two frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// RequestFrame schedules fn for the next frame.
func (l *Loop) RequestFrame(fn func(now time.Time)) playback.FrameID {
	id := playback.FrameID(l.nextID.Add(1))
	l.frames.Push(frameRequest{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame request. Unknown ids are ignored.
func (l *Loop) CancelFrame(id playback.FrameID) {
	l.frames.RemoveFunc(func(r frameRequest) bool { return r.id == id })
}

// PendingFrames returns the number of queued frame requests.
func (l *Loop) PendingFrames() int {
	return l.frames.Len()
}

// Post queues fn to run on the loop goroutine. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.posted.Push(fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc runs fn on the loop goroutine once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	l.timersMu.Lock()
	l.timerSeq++
	l.timers = append(l.timers, timer{due: l.now().Add(d), seq: l.timerSeq, fn: fn})
	l.timersMu.Unlock()
}

// Step runs one iteration: posted commands, due timers, then the frame
// callbacks queued before the step began. Frames requested by those callbacks
// wait for the next step.
func (l *Loop) Step(now time.Time) {
	l.runPosted()
	l.runTimers(now)
	for _, r := range l.frames.Drain() {
		l.safely("frame", func() { r.fn(now) })
	}
}

// Run steps the loop every interval until ctx is done. Posted commands run
// as soon as they arrive.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("run loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("run loop stopped")
			return ctx.Err()
		case <-ticker.C:
			l.Step(l.now())
		case <-l.wake:
			l.runPosted()
			l.runTimers(l.now())
		}
	}
}

func (l *Loop) runPosted() {
	for _, fn := range l.posted.Drain() {
		l.safely("post", fn)
	}
}

func (l *Loop) runTimers(now time.Time) {
	l.timersMu.Lock()
	var due []timer
	kept := l.timers[:0]
	for _, t := range l.timers {
		if !t.due.After(now) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	l.timers = kept
	l.timersMu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		l.safely("timer", t.fn)
	}
}

// safely keeps the loop alive when a callback panics.
func (l *Loop) safely(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("run loop callback panicked", "kind", kind, "panic", r)
		}
	}()
	fn()
}

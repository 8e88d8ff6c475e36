// Package baker turns an animation request into a validated frame sequence.
package baker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wanderflow/wanderflow/internal/animation"
	"github.com/wanderflow/wanderflow/internal/cache"
	"github.com/wanderflow/wanderflow/internal/geo"
	"github.com/wanderflow/wanderflow/internal/influx"
	"github.com/wanderflow/wanderflow/pkg/core"
)

const instrumentationName = "github.com/wanderflow/wanderflow/internal/baker"

// Baker precomputes the frames of an animation.
type Baker interface {
	Bake(cfg core.AnimationConfig) (core.Frames, error)
}

// BakeAnimation delegates to b. A failed bake never yields frames.
func BakeAnimation(b Baker, cfg core.AnimationConfig) (core.Frames, error) {
	frames, err := b.Bake(cfg)
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// Recorder receives bake statistics. *influx.Manager implements it.
type Recorder interface {
	RecordBake(s influx.BakeStats)
}

// Result is the outcome of a pipeline bake.
type Result struct {
	Frames    core.Frames
	Config    core.AnimationConfig
	Cached    bool
	Fallback  bool
	DistanceM float64
	BakeTime  time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache enables the bake cache.
func WithCache(c *cache.FrameCache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithRecorder sends bake statistics to r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline selects the strategy for a request, bakes it and reports the bake.
type Pipeline struct {
	cache    *cache.FrameCache
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time

	framesBaked   metric.Int64Counter
	bakeDurations metric.Float64Histogram
}

// New creates a pipeline.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	m := otel.Meter(instrumentationName)

	var err error

	p.framesBaked, err = m.Int64Counter(
		"bake.frames",
		metric.WithDescription("Total frames baked"),
	)
	if err != nil {
		return nil, err
	}

	p.bakeDurations, err = m.Float64Histogram(
		"bake.duration",
		metric.WithDescription("Time spent baking one animation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Bake returns the frames for cfg, from the cache when possible.
func (p *Pipeline) Bake(ctx context.Context, cfg core.AnimationConfig) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cfg = cfg.WithDefaults()
	strategy, err := animation.New(cfg.Type, animation.WithLogger(p.logger))
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Config:    cfg,
		Fallback:  strategy.Fallback(),
		DistanceM: geo.GroundDistance(cfg.PointA.Position(), cfg.PointB.Position()),
	}

	key := cache.KeyFor(cfg)
	if p.cache != nil {
		if frames, ok := p.cache.Get(key); ok {
			res.Frames = frames
			res.Cached = true
			p.report(ctx, res)
			return res, nil
		}
	}

	start := p.now()
	frames, err := BakeAnimation(strategy, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("error baking %s animation: %w", cfg.Type, err)
	}
	if err := frames.Validate(); err != nil {
		return Result{}, fmt.Errorf("error baking %s animation: %w", cfg.Type, err)
	}
	res.BakeTime = p.now().Sub(start)
	res.Frames = frames

	if p.cache != nil {
		p.cache.Add(key, frames)
	}
	p.report(ctx, res)
	return res, nil
}

func (p *Pipeline) report(ctx context.Context, res Result) {
	cfg := res.Config
	p.logger.InfoContext(ctx, "Animation baked",
		"type", cfg.Type.String(),
		"from", cfg.PointA.ID,
		"to", cfg.PointB.ID,
		"frames", len(res.Frames),
		"cached", res.Cached,
		"fallback", res.Fallback,
		geo.DistanceProperty, res.DistanceM,
		"bake_time", res.BakeTime)

	attrs := metric.WithAttributes(
		attribute.String("type", cfg.Type.String()),
		attribute.Bool("cached", res.Cached),
	)
	if !res.Cached {
		p.framesBaked.Add(ctx, int64(len(res.Frames)), attrs)
	}
	p.bakeDurations.Record(ctx, float64(res.BakeTime.Microseconds())/1000, attrs)

	if p.recorder != nil {
		p.recorder.RecordBake(influx.BakeStats{
			From:       cfg.PointA.ID,
			To:         cfg.PointB.ID,
			Type:       cfg.Type,
			Frames:     len(res.Frames),
			Duration:   cfg.Duration,
			Resolution: cfg.Resolution,
			BakeTime:   res.BakeTime,
			DistanceM:  res.DistanceM,
			Cached:     res.Cached,
			Timestamp:  p.now(),
		})
	}
}

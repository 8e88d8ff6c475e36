package baker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderflow/wanderflow/internal/cache"
	"github.com/wanderflow/wanderflow/internal/influx"
	"github.com/wanderflow/wanderflow/pkg/core"
)

var (
	fushimi    = core.Checkpoint{ID: "loc-1", Name: "Fushimi Inari Taisha", Lat: 34.9671, Lng: 135.7727}
	arashiyama = core.Checkpoint{ID: "loc-2", Name: "Arashiyama Bamboo Grove", Lat: 35.0094, Lng: 135.6670}
)

type stubBaker struct {
	frames core.Frames
	err    error
	calls  int
}

func (s *stubBaker) Bake(core.AnimationConfig) (core.Frames, error) {
	s.calls++
	return s.frames, s.err
}

type recorder struct {
	stats []influx.BakeStats
}

func (r *recorder) RecordBake(s influx.BakeStats) {
	r.stats = append(r.stats, s)
}

func config(t core.AnimationType) core.AnimationConfig {
	return core.AnimationConfig{PointA: fushimi, PointB: arashiyama, Type: t}
}

func TestBakeAnimation(t *testing.T) {
	frames := core.Frames{{Progress: 0}, {Progress: 1}}

	got, err := BakeAnimation(&stubBaker{frames: frames}, config(core.AnimationStraight))
	require.NoError(t, err)
	assert.Equal(t, frames, got)

	boom := errors.New("boom")
	got, err = BakeAnimation(&stubBaker{frames: frames, err: boom}, config(core.AnimationStraight))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestPipeline_Bake(t *testing.T) {
	for _, kind := range core.AnimationTypes {
		t.Run(kind.String(), func(t *testing.T) {
			p, err := New(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
			require.NoError(t, err)

			res, err := p.Bake(context.Background(), config(kind))
			require.NoError(t, err)
			assert.Len(t, res.Frames, 181)
			assert.NoError(t, res.Frames.Validate())
			assert.False(t, res.Cached)
			assert.Equal(t, kind == core.AnimationRoute, res.Fallback)
			assert.Greater(t, res.DistanceM, 10000.0)
			assert.Equal(t, core.DefaultResolution, res.Config.Resolution)
		})
	}
}

func TestPipeline_Cache(t *testing.T) {
	c := cache.NewFrameCache(4)
	rec := &recorder{}
	p, err := New(WithCache(c), WithRecorder(rec))
	require.NoError(t, err)

	first, err := p.Bake(context.Background(), config(core.AnimationTeleport))
	require.NoError(t, err)
	second, err := p.Bake(context.Background(), config(core.AnimationTeleport))
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Frames, second.Frames)
	assert.Equal(t, 1, c.Hits.Value())
	assert.Equal(t, 1, c.Misses.Value())

	require.Len(t, rec.stats, 2)
	assert.Equal(t, "loc-1", rec.stats[0].From)
	assert.Equal(t, "loc-2", rec.stats[0].To)
	assert.Equal(t, 181, rec.stats[0].Frames)
	assert.False(t, rec.stats[0].Cached)
	assert.True(t, rec.stats[1].Cached)
}

func TestPipeline_Errors(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Bake(context.Background(), core.AnimationConfig{PointA: fushimi, PointB: fushimi, Type: core.AnimationStraight})
	assert.ErrorIs(t, err, core.ErrSameCheckpoint)

	_, err = p.Bake(context.Background(), config("spiral"))
	assert.ErrorIs(t, err, core.ErrUnknownAnimationType)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Bake(ctx, config(core.AnimationStraight))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_LogsBake(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)

	_, err = p.Bake(context.Background(), config(core.AnimationRoute))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "Animation baked")
	assert.Contains(t, out, "distance_m=")
	assert.Contains(t, out, "fallback=true")
}

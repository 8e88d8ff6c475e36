package surface

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderflow/wanderflow/internal/camera"
	"github.com/wanderflow/wanderflow/internal/geo"
	"github.com/wanderflow/wanderflow/pkg/core"
)

var (
	fushimi    = core.LngLat{Lng: 135.7727, Lat: 34.9671}
	arashiyama = core.LngLat{Lng: 135.6670, Lat: 35.0094}
)

func newSurface() (*LogSurface, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewLogSurface(logger), &buf
}

func TestApply_FlyAndJump(t *testing.T) {
	s, buf := newSurface()

	camera.Apply(s, core.CameraState{Center: fushimi, Zoom: 15, Pitch: core.Float(45)}, camera.Options{Duration: 500 * time.Millisecond}, nil)
	assert.Equal(t, 1, s.Flights)
	assert.Equal(t, fushimi, s.Camera().Center)
	assert.Equal(t, 15.0, s.Camera().Zoom)
	require.NotNil(t, s.Camera().Pitch)
	assert.Equal(t, 45.0, *s.Camera().Pitch)
	assert.Contains(t, buf.String(), "Camera flight")

	camera.Apply(s, core.CameraState{Center: arashiyama, Zoom: 11}, camera.Options{}, nil)
	assert.Equal(t, 1, s.Jumps)
	assert.Equal(t, arashiyama, s.Camera().Center)
	assert.Equal(t, 45.0, *s.Camera().Pitch, "unset pitch is kept")
	assert.Equal(t, 0.0, *s.Camera().Bearing)
}

func TestSetters(t *testing.T) {
	s, _ := newSurface()

	require.NoError(t, s.SetCenter(fushimi))
	require.NoError(t, s.SetZoom(12))
	require.NoError(t, s.SetBearing(30))
	require.NoError(t, s.SetPitch(10))

	c := s.Camera()
	assert.Equal(t, fushimi, c.Center)
	assert.Equal(t, 12.0, c.Zoom)
	assert.Equal(t, 30.0, *c.Bearing)
	assert.Equal(t, 10.0, *c.Pitch)
}

func TestSetCursor(t *testing.T) {
	s, buf := newSurface()

	pos := fushimi
	s.SetCursor(&pos)
	pos.Lng = 0
	require.NotNil(t, s.Cursor())
	assert.Equal(t, fushimi, *s.Cursor(), "cursor is copied")
	assert.Contains(t, buf.String(), "Cursor shown")

	s.SetCursor(nil)
	assert.Nil(t, s.Cursor())
	assert.Contains(t, buf.String(), "Cursor hidden")
}

func TestSetRoute(t *testing.T) {
	s, buf := newSurface()

	s.SetRoute(geo.StraightRoute(fushimi, arashiyama))
	assert.Len(t, s.Route(), 1)
	assert.Contains(t, buf.String(), "Route drawn")

	s.SetRoute(nil)
	assert.Nil(t, s.Route())
	assert.Contains(t, buf.String(), "Route cleared")
}

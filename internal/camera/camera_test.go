package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wanderflow/wanderflow/pkg/core"
)

func TestEaseInOut_Endpoints(t *testing.T) {
	assert.Equal(t, 0.0, EaseInOut(0))
	assert.Equal(t, 0.5, EaseInOut(0.5))
	assert.Equal(t, 1.0, EaseInOut(1))
}

func TestEaseInOut_Monotonic(t *testing.T) {
	prev := EaseInOut(0)
	for i := 1; i <= 10; i++ {
		v := EaseInOut(float64(i) / 10)
		assert.GreaterOrEqual(t, v, prev, "ease must not decrease at step %d", i)
		prev = v
	}
}

func TestEaseInQuad(t *testing.T) {
	assert.Equal(t, 0.0, EaseInQuad(0))
	assert.Equal(t, 0.25, EaseInQuad(0.5))
	assert.Equal(t, 1.0, EaseInQuad(1))
}

func TestLerpLngLat(t *testing.T) {
	a := core.LngLat{Lng: 10, Lat: -10}
	b := core.LngLat{Lng: 20, Lat: 10}

	assert.Equal(t, core.LngLat{Lng: 15, Lat: 0}, LerpLngLat(a, b, 0.5))
	assert.Equal(t, a, LerpLngLat(a, b, 0))
	assert.Equal(t, b, LerpLngLat(a, b, 1))
}

func TestInterpolate_Endpoints(t *testing.T) {
	tests := []struct {
		name string
		from core.CameraState
		to   core.CameraState
	}{
		{
			name: "center and zoom only",
			from: core.CameraState{Center: core.LngLat{Lng: 135.7727, Lat: 34.9671}, Zoom: 11},
			to:   core.CameraState{Center: core.LngLat{Lng: 135.6670, Lat: 35.0094}, Zoom: 15},
		},
		{
			name: "bearing and pitch on both ends",
			from: core.CameraState{Zoom: 3, Bearing: core.Float(0), Pitch: core.Float(10)},
			to:   core.CameraState{Zoom: 9, Bearing: core.Float(90), Pitch: core.Float(60)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.from, Interpolate(tt.from, tt.to, 0))
			assert.Equal(t, tt.to, Interpolate(tt.from, tt.to, 1))
		})
	}
}

func TestInterpolate_ClampsT(t *testing.T) {
	from := core.CameraState{Zoom: 11}
	to := core.CameraState{Zoom: 15}

	assert.Equal(t, 11.0, Interpolate(from, to, -2).Zoom)
	assert.Equal(t, 15.0, Interpolate(from, to, 7).Zoom)
}

func TestInterpolate_OptionalFields(t *testing.T) {
	from := core.CameraState{Zoom: 11, Pitch: core.Float(30)}
	to := core.CameraState{Zoom: 15, Bearing: core.Float(45)}

	got := Interpolate(from, to, 0.5)

	assert.Equal(t, 13.0, got.Zoom)
	if assert.NotNil(t, got.Bearing) {
		assert.Equal(t, 45.0, *got.Bearing)
	}
	if assert.NotNil(t, got.Pitch) {
		assert.Equal(t, 30.0, *got.Pitch)
	}
	assert.NotSame(t, to.Bearing, got.Bearing, "result must not alias its inputs")

	both := Interpolate(
		core.CameraState{Bearing: core.Float(0)},
		core.CameraState{Bearing: core.Float(90)},
		0.5,
	)
	assert.Equal(t, 45.0, *both.Bearing)

	neither := Interpolate(core.CameraState{}, core.CameraState{}, 0.5)
	assert.Nil(t, neither.Bearing)
	assert.Nil(t, neither.Pitch)
}

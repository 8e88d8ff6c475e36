package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fushimi    = Checkpoint{ID: "loc-1", Name: "Fushimi Inari Taisha", Lat: 34.9671, Lng: 135.7727}
	arashiyama = Checkpoint{ID: "loc-2", Name: "Arashiyama Bamboo Grove", Lat: 35.0094, Lng: 135.6670}
)

func TestParseAnimationType(t *testing.T) {
	tests := []struct {
		input string
		want  AnimationType
	}{
		{"straight", AnimationStraight},
		{"ROUTE", AnimationRoute},
		{" teleport ", AnimationTeleport},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAnimationType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAnimationType("curve")
	assert.True(t, errors.Is(err, ErrUnknownAnimationType))
}

func TestNewAnimationConfig_Defaults(t *testing.T) {
	cfg, err := NewAnimationConfig(fushimi, arashiyama, AnimationStraight)
	require.NoError(t, err)

	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, DefaultResolution, cfg.Resolution)
	assert.Equal(t, 180, cfg.TotalFrames())
}

func TestNewAnimationConfig_Options(t *testing.T) {
	cfg, err := NewAnimationConfig(fushimi, arashiyama, AnimationTeleport,
		WithDuration(1500*time.Millisecond), WithResolution(30))
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Duration)
	assert.Equal(t, 30, cfg.Resolution)
	assert.Equal(t, 45, cfg.TotalFrames())
}

func TestNewAnimationConfig_SameCheckpoint(t *testing.T) {
	_, err := NewAnimationConfig(fushimi, fushimi, AnimationStraight)
	assert.True(t, errors.Is(err, ErrSameCheckpoint))
}

func TestFrames_At(t *testing.T) {
	frames := Frames{{Progress: 0}, {Progress: 0.25}, {Progress: 0.5}, {Progress: 0.75}, {Progress: 1}}

	tests := []struct {
		name     string
		progress float64
		want     float64
	}{
		{"start", 0, 0},
		{"rounds down", 0.3, 0.25},
		{"rounds up", 0.4, 0.5},
		{"end", 1, 1},
		{"clamped low", -2, 0},
		{"clamped high", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := frames.At(tt.progress)
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Progress)
		})
	}

	_, ok := Frames(nil).At(0.5)
	assert.False(t, ok, "empty sequence has no frame")
}

func TestFrames_Validate(t *testing.T) {
	assert.NoError(t, Frames{{Progress: 0}, {Progress: 0.5}, {Progress: 1}}.Validate())

	invalid := map[string]Frames{
		"empty":          nil,
		"bad start":      {{Progress: 0.1}, {Progress: 1}},
		"bad end":        {{Progress: 0}, {Progress: 0.9}},
		"not increasing": {{Progress: 0}, {Progress: 0.5}, {Progress: 0.5}, {Progress: 1}},
	}
	for name, frames := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, frames.Validate(), ErrInvalidFrameSequence)
		})
	}
}

func TestBakedFrame_MarshalJSON(t *testing.T) {
	frame := BakedFrame{
		Progress:       0.5,
		CursorPosition: &LngLat{Lng: 135.7, Lat: 34.9},
		CameraState:    CameraState{Center: LngLat{Lng: 135.7, Lat: 34.9}, Zoom: 11, Pitch: Float(30)},
	}

	data, err := json.Marshal(frame)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"progress": 0.5,
		"cursorPosition": [135.7, 34.9],
		"cameraState": {"center": [135.7, 34.9], "zoom": 11, "pitch": 30},
		"routeData": null
	}`, string(data))
}

func TestLngLat_UnmarshalJSON(t *testing.T) {
	var p LngLat
	require.NoError(t, json.Unmarshal([]byte(`[135.7727, 34.9671]`), &p))
	assert.Equal(t, LngLat{Lng: 135.7727, Lat: 34.9671}, p)

	assert.Error(t, json.Unmarshal([]byte(`[1, 2, 3]`), &p))
}

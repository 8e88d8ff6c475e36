package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2025, 10, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		app     string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "wanderflowlogs",
			app:     "wanderflow",
			want:    filepath.Join("wanderflowlogs", "wanderflow.20251012_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./wanderflowlogs",
			app:     "wanderflow",
			want:    filepath.Join(".", "wanderflowlogs", "wanderflow.20251012_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "wanderflow"),
			app:     "wanderflow-preview",
			want:    filepath.Join("/var", "log", "wanderflow", "wanderflow-preview.20251012_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.app, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

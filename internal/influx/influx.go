package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/wanderflow/wanderflow/internal/config"
	"github.com/wanderflow/wanderflow/pkg/core"
)

// Measurement names written by the engine.
const (
	MeasurementBake     = "animation_bake"
	MeasurementPlayback = "animation_playback"
)

// ErrDisabled is returned by Connect when the sink is switched off
var ErrDisabled = errors.New("influx sink is disabled")

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Config       config.InfluxConfig
	Logger       zerolog.Logger

	backupFile *os.File
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, cfg config.InfluxConfig) *Manager {
	return &Manager{
		IsValid: false,
		Config:  cfg,
		Logger:  log,
	}
}

// Connect establishes a connection to InfluxDB. When the server cannot be
// reached, points go to the gzip backup file instead.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.Config.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", m.Config.Protocol, m.Config.Host, m.Config.Port),
		m.Config.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(ctx)

	if err != nil || !running {
		m.IsValid = false
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.Config.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			if err := os.MkdirAll(filepath.Dir(m.Config.BackupPath), 0755); err != nil {
				return fmt.Errorf("error creating backup directory: %w", err)
			}
			file, err := os.OpenFile(m.Config.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %w", err)
			}
			m.backupFile = file
			m.BackupWriter = gzip.NewWriter(file)
		}
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
		return nil
	}

	m.IsValid = true
	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.Logger.Info().Str("bucket", m.Config.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgName := m.Config.Org

	// ensure org exists
	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		influxOrg, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	// ensure bucket exists with 30 day retention
	bucket := m.Config.Bucket
	if _, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket); err != nil {
		m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 30,
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
			return err
		}
	}

	return nil
}

func (m *Manager) createWriter() {
	m.Writer = m.Client.WriteAPI(m.Config.Org, m.Config.Bucket)

	errorsCh := m.Writer.Errors()
	go func(bucketName string, errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", bucketName).
				Msg("Error sending data to InfluxDB")
		}
	}(m.Config.Bucket, errorsCh)

	m.Logger.Debug().Msg("InfluxDB writer initialized")
}

// WritePoint writes a point to InfluxDB or backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}
	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}

	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending points and releases the client and backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	var errs []error
	if m.BackupWriter != nil {
		errs = append(errs, m.BackupWriter.Close())
		m.BackupWriter = nil
	}
	if m.backupFile != nil {
		errs = append(errs, m.backupFile.Close())
		m.backupFile = nil
	}
	return errors.Join(errs...)
}

// BakeStats summarises one bake.
type BakeStats struct {
	From       string
	To         string
	Type       core.AnimationType
	Frames     int
	Duration   time.Duration
	Resolution int
	BakeTime   time.Duration
	DistanceM  float64
	Cached     bool
	Timestamp  time.Time
}

// PlaybackEvent is a transport event of a previewed animation.
type PlaybackEvent struct {
	From      string
	To        string
	Type      core.AnimationType
	Event     string
	Progress  float64
	Timestamp time.Time
}

// BakePoint converts bake stats into an animation_bake point.
func BakePoint(s BakeStats) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		MeasurementBake,
		map[string]string{
			"from":   s.From,
			"to":     s.To,
			"type":   s.Type.String(),
			"cached": strconv.FormatBool(s.Cached),
		},
		map[string]interface{}{
			"frames":      s.Frames,
			"duration_ms": s.Duration.Milliseconds(),
			"resolution":  s.Resolution,
			"bake_ms":     float64(s.BakeTime.Microseconds()) / 1000,
			"distance_m":  s.DistanceM,
		},
		s.Timestamp,
	)
}

// PlaybackPoint converts a playback event into an animation_playback point.
func PlaybackPoint(e PlaybackEvent) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		MeasurementPlayback,
		map[string]string{
			"from":  e.From,
			"to":    e.To,
			"type":  e.Type.String(),
			"event": e.Event,
		},
		map[string]interface{}{
			"progress": e.Progress,
		},
		e.Timestamp,
	)
}

// RecordBake writes bake stats, logging failures.
func (m *Manager) RecordBake(s BakeStats) {
	if err := m.WritePoint(BakePoint(s)); err != nil {
		m.Logger.Error().Err(err).Str("measurement", MeasurementBake).Msg("Error writing point")
	}
}

// RecordPlayback writes a playback event, logging failures.
func (m *Manager) RecordPlayback(e PlaybackEvent) {
	if err := m.WritePoint(PlaybackPoint(e)); err != nil {
		m.Logger.Error().Err(err).Str("measurement", MeasurementPlayback).Msg("Error writing point")
	}
}

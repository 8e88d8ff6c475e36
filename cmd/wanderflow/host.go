package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/wanderflow/wanderflow/internal/baker"
	"github.com/wanderflow/wanderflow/internal/cache"
	"github.com/wanderflow/wanderflow/internal/config"
	"github.com/wanderflow/wanderflow/internal/influx"
	"github.com/wanderflow/wanderflow/internal/logging"
	intOtel "github.com/wanderflow/wanderflow/internal/otel"
	"github.com/wanderflow/wanderflow/internal/trip"
	"github.com/wanderflow/wanderflow/pkg/core"
)

// host holds what every command shares: settings, loggers, sinks and the
// trip.
type host struct {
	settings config.Settings
	started  time.Time

	slogManager *logging.SlogManager
	logger      *slog.Logger
	console     zerolog.Logger

	logFile *os.File
	graylog *gelf.Writer
	otel    *intOtel.Provider
	influx  *influx.Manager
	trip    *trip.Trip
	frames  *cache.FrameCache
}

func newHost(c *cli.Context) (*host, error) {
	h := &host{
		started:     time.Now(),
		slogManager: logging.NewSlogManager(),
	}

	loadErr := config.Load(c.String("config-dir"))
	if loadErr != nil && !config.IsNotFound(loadErr) {
		return nil, loadErr
	}
	settings, err := config.Get()
	if err != nil {
		return nil, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		settings.LogLevel = lvl
	}
	h.settings = settings

	// console logging until the sinks are up
	h.slogManager.Setup(nil, settings.LogLevel, nil)
	h.logger = h.slogManager.Logger()
	if loadErr != nil {
		h.logger.Debug("No config file found, using defaults", "dir", c.String("config-dir"))
	}

	if c.Bool("log-file") {
		if err := os.MkdirAll(settings.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("error creating logs directory: %w", err)
		}
		path := logging.LogFilePath(settings.LogsDir, appName, h.started)
		h.logFile, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
	}

	var extra []io.Writer
	if settings.Graylog.Enabled {
		h.graylog, err = gelf.NewWriter(settings.Graylog.Address)
		if err != nil {
			h.logger.Error("Failed to connect to Graylog", "error", err, "address", settings.Graylog.Address)
		} else {
			extra = append(extra, h.graylog)
		}
	}

	var logProvider *sdklog.LoggerProvider
	if settings.OTel.Enabled {
		var otelOut io.Writer
		if h.logFile != nil {
			otelOut = h.logFile
		}
		h.otel, err = intOtel.New(intOtel.FromSettings(settings.OTel, otelOut))
		if err != nil {
			h.logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			logProvider = h.otel.LoggerProvider()
		}
	}

	var file io.Writer
	if h.logFile != nil {
		file = h.logFile
	}
	h.slogManager.Setup(file, settings.LogLevel, logProvider, extra...)
	h.logger = h.slogManager.Logger()
	h.console = logging.NewConsoleLogger(os.Stderr, settings.LogLevel)

	if settings.Influx.Enabled {
		h.influx = influx.NewManager(h.console, settings.Influx)
		ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
		err := h.influx.Connect(ctx)
		cancel()
		if err != nil {
			h.logger.Error("Failed to set up InfluxDB sink", "error", err)
			h.influx = nil
		}
	}

	if err := h.loadTrip(trip.Default); err != nil {
		return nil, err
	}

	if settings.Cache.Enabled {
		h.frames = cache.NewFrameCache(settings.Cache.MaxEntries)
	}
	return h, nil
}

// loadTrip sets the host's trip. On failure the sinks opened so far are
// closed.
func (h *host) loadTrip(load func() (*trip.Trip, error)) error {
	tr, err := load()
	if err != nil {
		return errors.Join(fmt.Errorf("error loading trip: %w", err), h.close())
	}
	h.trip = tr
	return nil
}

func (h *host) pipeline() (*baker.Pipeline, error) {
	opts := []baker.Option{baker.WithLogger(h.logger)}
	if h.frames != nil {
		opts = append(opts, baker.WithCache(h.frames))
	}
	if h.influx != nil {
		opts = append(opts, baker.WithRecorder(h.influx))
	}
	return baker.New(opts...)
}

// animationConfig builds a request from the --from/--to/--type/--duration/
// --resolution flags, falling back to the configured animation defaults.
func (h *host) animationConfig(c *cli.Context) (core.AnimationConfig, error) {
	return buildConfig(h.trip, h.settings.Animation, requestFlags{
		From:       c.String("from"),
		To:         c.String("to"),
		Type:       c.String("type"),
		Duration:   c.Duration("duration"),
		Resolution: c.Int("resolution"),
	})
}

type requestFlags struct {
	From       string
	To         string
	Type       string
	Duration   time.Duration
	Resolution int
}

func buildConfig(tr *trip.Trip, defaults config.AnimationConfig, f requestFlags) (core.AnimationConfig, error) {
	a, b, err := tr.Pair(f.From, f.To)
	if err != nil {
		return core.AnimationConfig{}, err
	}

	kind := strings.TrimSpace(f.Type)
	if kind == "" {
		kind = defaults.Type
	}
	t, err := core.ParseAnimationType(kind)
	if err != nil {
		return core.AnimationConfig{}, err
	}

	duration := f.Duration
	if duration <= 0 {
		duration = defaults.Duration
	}
	resolution := f.Resolution
	if resolution <= 0 {
		resolution = defaults.Resolution
	}

	return core.NewAnimationConfig(a, b, t,
		core.WithDuration(duration),
		core.WithResolution(resolution),
	)
}

func (h *host) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if h.influx != nil {
		errs = append(errs, h.influx.Close())
	}
	if err := h.slogManager.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if h.otel != nil {
		errs = append(errs, h.otel.Shutdown(ctx))
	}
	if h.graylog != nil {
		errs = append(errs, h.graylog.Close())
	}
	if h.logFile != nil {
		errs = append(errs, h.logFile.Close())
	}
	return errors.Join(errs...)
}

// withHost runs fn with a ready host and closes it afterwards.
func withHost(fn func(c *cli.Context, h *host) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		h, err := newHost(c)
		if err != nil {
			return err
		}
		runErr := fn(c, h)
		if err := h.close(); err != nil {
			h.console.Warn().Err(err).Msg("Error closing sinks")
		}
		return runErr
	}
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "wanderflow.cfg.json"

// AnimationConfig holds the defaults of new animation requests
type AnimationConfig struct {
	Type                string        `json:"type" mapstructure:"type"`
	Duration            time.Duration `json:"duration" mapstructure:"duration"`
	Resolution          int           `json:"resolution" mapstructure:"resolution"`
	InitialMoveDuration time.Duration `json:"initialMoveDuration" mapstructure:"initialMoveDuration"`
}

// PlaybackConfig holds run loop settings
type PlaybackConfig struct {
	FPS int `json:"fps" mapstructure:"fps"`
}

// PreviewConfig holds preview session timings
type PreviewConfig struct {
	ExitDelay     time.Duration `json:"exitDelay" mapstructure:"exitDelay"`
	FocusZoom     float64       `json:"focusZoom" mapstructure:"focusZoom"`
	FocusDuration time.Duration `json:"focusDuration" mapstructure:"focusDuration"`
}

// CacheConfig holds bake cache settings
type CacheConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	MaxEntries int  `json:"maxEntries" mapstructure:"maxEntries"`
}

// GraylogConfig holds the GELF log sink settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// InfluxConfig holds the telemetry sink settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./wanderflowlogs")

	viper.SetDefault("animation.type", "straight")
	viper.SetDefault("animation.duration", "3s")
	viper.SetDefault("animation.resolution", 60)
	viper.SetDefault("animation.initialMoveDuration", "500ms")

	viper.SetDefault("playback.fps", 60)

	viper.SetDefault("preview.exitDelay", "1500ms")
	viper.SetDefault("preview.focusZoom", 14)
	viper.SetDefault("preview.focusDuration", "2s")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.maxEntries", 32)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "wanderflow")
	viper.SetDefault("influx.bucket", "animation_stats")
	viper.SetDefault("influx.backupPath", "./wanderflowlogs/influx_backup.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "wanderflow")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Defaults stay in
// effect when the file is missing; check with IsNotFound.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// IsNotFound reports whether err means no config file was present.
func IsNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// Settings is the typed view of the whole configuration
type Settings struct {
	LogLevel  string          `json:"logLevel" mapstructure:"logLevel"`
	LogsDir   string          `json:"logsDir" mapstructure:"logsDir"`
	Animation AnimationConfig `json:"animation" mapstructure:"animation"`
	Playback  PlaybackConfig  `json:"playback" mapstructure:"playback"`
	Preview   PreviewConfig   `json:"preview" mapstructure:"preview"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Graylog   GraylogConfig   `json:"graylog" mapstructure:"graylog"`
	Influx    InfluxConfig    `json:"influx" mapstructure:"influx"`
	OTel      OTelConfig      `json:"otel" mapstructure:"otel"`
}

// Get decodes every key, defaults included, into Settings.
func Get() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. AUTOCUT_CUT_FRAME_MARGIN
const EnvPrefix = "AUTOCUT"

// DefaultPath is the config file read when --config is not given
const DefaultPath = "./config/settings.yaml"

var (
	once    sync.Once
	initErr error
)

var defaults = map[string]any{
	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     30 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,
	"server.max_header_bytes": 1 << 20,
	"server.rate_limit":       60,

	"database.path":    "./data/autocut.db",
	"database.verbose": false,

	"processing.workers":        1,
	"processing.poll_interval":  2 * time.Second,
	"processing.job_timeout":    2 * time.Hour,
	"processing.ffmpeg_path":    "ffmpeg",
	"processing.ffprobe_path":   "ffprobe",
	"processing.ffmpeg_timeout": 30 * time.Minute,

	"cut.silent_threshold":     0.04,
	"cut.loud_threshold":       2.0,
	"cut.frame_margin":         1,
	"cut.track":                0,
	"cut.sample_rate":          48000,
	"cut.audio_bitrate":        "160k",
	"cut.audio_channels":       2,
	"cut.keep_tracks_separate": false,
	"cut.video_codec":          "libx264",
	"cut.keep_temp":            false,

	"storage.temp_dir":           "./tmp",
	"storage.max_temp_age":       24 * time.Hour,
	"storage.cleanup_interval":   time.Hour,
	"storage.job_retention_days": 30,

	"security.enable_cors":      true,
	"security.cors_origins":     []string{"*"},
	"security.max_request_size": 1 << 20,

	"logging.level":  "info",
	"logging.format": "console",

	"watch.dir":          "",
	"watch.extensions":   []string{".mp4", ".mov", ".mkv", ".webm"},
	"watch.settle_delay": 3 * time.Second,
}

// InitFrom loads defaults, AUTOCUT_* environment overrides and the YAML
// file at path. A missing file is not an error. Only the first call in a
// process has any effect.
func InitFrom(path string) error {
	once.Do(func() {
		initErr = load(path)
	})
	return initErr
}

func load(path string) error {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path = filepath.Clean(path)
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// GetConfig decodes the loaded settings and validates them. Environment
// variables set after InitFrom still apply.
func GetConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// GetString returns a single setting by its dotted key.
func GetString(key string) string {
	return viper.GetString(key)
}

// Validate rejects settings no run could use. A worker count below one is
// raised to one.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port > 0 && c.Server.Port <= 65535, "server.port %d is out of range", c.Server.Port)
	check(c.Cut.SilentThreshold >= 0, "cut.silent_threshold must be >= 0, got %v", c.Cut.SilentThreshold)
	check(c.Cut.FrameMargin >= 0, "cut.frame_margin must be >= 0, got %d", c.Cut.FrameMargin)
	check(c.Cut.Track >= 0, "cut.track must be >= 0, got %d", c.Cut.Track)
	check(c.Cut.SampleRate > 0, "cut.sample_rate must be positive, got %d", c.Cut.SampleRate)

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported logging.format %q", c.Logging.Format))
	}

	c.Processing.Workers = max(c.Processing.Workers, 1)
	return errors.Join(errs...)
}

package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Cut        CutConfig        `mapstructure:"cut"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Security   SecurityConfig   `mapstructure:"security"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	RateLimit       int           `mapstructure:"rate_limit"` // requests per minute per client
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// ProcessingConfig contains job queue and ffmpeg settings
type ProcessingConfig struct {
	Workers       int           `mapstructure:"workers"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	JobTimeout    time.Duration `mapstructure:"job_timeout"`
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	FFprobePath   string        `mapstructure:"ffprobe_path"`
	FFmpegTimeout time.Duration `mapstructure:"ffmpeg_timeout"`
}

// CutConfig contains silence removal defaults
type CutConfig struct {
	SilentThreshold    float64 `mapstructure:"silent_threshold"`
	LoudThreshold      float64 `mapstructure:"loud_threshold"`
	FrameMargin        int     `mapstructure:"frame_margin"`
	Track              int     `mapstructure:"track"`
	SampleRate         int     `mapstructure:"sample_rate"`
	AudioBitrate       string  `mapstructure:"audio_bitrate"`
	AudioChannels      int     `mapstructure:"audio_channels"`
	KeepTracksSeparate bool    `mapstructure:"keep_tracks_separate"`
	VideoCodec         string  `mapstructure:"video_codec"`
	KeepTemp           bool    `mapstructure:"keep_temp"`
}

// StorageConfig contains work directory settings
type StorageConfig struct {
	TempDir         string        `mapstructure:"temp_dir"`
	MaxTempAge      time.Duration `mapstructure:"max_temp_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	JobRetention    int           `mapstructure:"job_retention_days"` // finished jobs older than this are deleted, 0 keeps them
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS     bool     `mapstructure:"enable_cors"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	MaxRequestSize int64    `mapstructure:"max_request_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WatchConfig contains directory watcher settings
type WatchConfig struct {
	Dir         string        `mapstructure:"dir"`
	Extensions  []string      `mapstructure:"extensions"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

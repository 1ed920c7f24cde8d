// Package config loads fgtail's runtime configuration from environment
// variables (optionally layered over a TOML file), validating and
// defaulting each field the way the teacher's broker config package does.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultLogDir is the directory fgtail watches when none is given.
	DefaultLogDir = "."
	// DefaultLogFile is the target file name inside LogDir.
	DefaultLogFile = "Player.log"

	// DefaultBroadcastAddr is the default TCP address the live viewer
	// WebSocket endpoint listens on.
	DefaultBroadcastAddr = ":43127"
	// DefaultPingInterval controls the keepalive cadence for WebSocket connections.
	DefaultPingInterval = 30 * time.Second
	// DefaultMaxPayloadBytes limits inbound WebSocket frame size.
	DefaultMaxPayloadBytes int64 = 1 << 20
	// DefaultMaxClients bounds concurrent WebSocket connections. Zero disables the limit.
	DefaultMaxClients = 256

	// DefaultCaptureMaxCaptures bounds how many capture sessions are retained.
	DefaultCaptureMaxCaptures = 20
	// DefaultCaptureMaxAge bounds how long a capture session is retained.
	DefaultCaptureMaxAge = 14 * 24 * time.Hour

	// DefaultLogLevel controls verbosity for fgtail's own structured logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where fgtail's own structured logs are written.
	DefaultLogPath = "fgtail.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 100
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 10
	// DefaultLogMaxAgeDays controls how long rotated log files are kept on disk.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true
)

// Config captures all runtime tunables for the fgtail pipeline.
type Config struct {
	LogDir            string
	LogFile           string
	ExtractTimestamps bool

	Logging   LoggingConfig
	Broadcast BroadcastConfig
	Capture   CaptureConfig
}

// LoggingConfig captures structured logging configuration options for
// fgtail's own diagnostic log, distinct from LogDir/LogFile (the game
// client log fgtail watches).
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// BroadcastConfig configures the optional live WebSocket viewer endpoint.
type BroadcastConfig struct {
	Enabled         bool
	Address         string
	AllowedOrigins  []string
	MaxPayloadBytes int64
	PingInterval    time.Duration
	MaxClients      int
}

// CaptureConfig configures the optional durable event capture sink.
type CaptureConfig struct {
	Enabled     bool
	Dir         string
	MaxCaptures int
	MaxAge      time.Duration
}

// fileLayer mirrors the subset of Config that may be set from a TOML file,
// layered beneath environment variables (env always wins).
type fileLayer struct {
	LogDir            string `toml:"log_dir"`
	LogFile           string `toml:"log_file"`
	ExtractTimestamps bool   `toml:"timestamps"`

	Logging struct {
		Level      string `toml:"level"`
		Path       string `toml:"path"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
		MaxAgeDays int    `toml:"max_age_days"`
		Compress   bool   `toml:"compress"`
	} `toml:"logging"`

	Broadcast struct {
		Enabled        bool     `toml:"enabled"`
		Address        string   `toml:"address"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"broadcast"`

	Capture struct {
		Enabled     bool   `toml:"enabled"`
		Dir         string `toml:"dir"`
		MaxCaptures int    `toml:"max_captures"`
	} `toml:"capture"`
}

// Load reads fgtail's configuration from environment variables, applying
// sane defaults and returning descriptive errors for invalid overrides.
// If tomlPath is non-empty, it is read first and env vars are applied on
// top of it.
func Load(tomlPath string) (*Config, error) {
	cfg := &Config{
		LogDir:            DefaultLogDir,
		LogFile:           DefaultLogFile,
		ExtractTimestamps: false,
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			Path:       DefaultLogPath,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
		Broadcast: BroadcastConfig{
			Address:         DefaultBroadcastAddr,
			MaxPayloadBytes: DefaultMaxPayloadBytes,
			PingInterval:    DefaultPingInterval,
			MaxClients:      DefaultMaxClients,
		},
		Capture: CaptureConfig{
			MaxCaptures: DefaultCaptureMaxCaptures,
			MaxAge:      DefaultCaptureMaxAge,
		},
	}

	if tomlPath != "" {
		var layer fileLayer
		if _, err := toml.DecodeFile(tomlPath, &layer); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", tomlPath, err)
		}
		applyFileLayer(cfg, &layer)
	}

	var problems []string

	cfg.LogDir = getString("FGTAIL_LOG_DIR", cfg.LogDir)
	cfg.LogFile = getString("FGTAIL_LOG_FILE", cfg.LogFile)
	if raw := strings.TrimSpace(os.Getenv("FGTAIL_TIMESTAMPS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("FGTAIL_TIMESTAMPS must be a boolean value, got %q", raw))
		} else {
			cfg.ExtractTimestamps = value
		}
	}

	cfg.Logging.Level = strings.TrimSpace(getString("FGTAIL_LOG_LEVEL", cfg.Logging.Level))
	cfg.Logging.Path = strings.TrimSpace(getString("FGTAIL_LOG_PATH", cfg.Logging.Path))

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("FGTAIL_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_BROADCAST_ENABLED")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("FGTAIL_BROADCAST_ENABLED must be a boolean value, got %q", raw))
		} else {
			cfg.Broadcast.Enabled = value
		}
	}

	cfg.Broadcast.Address = getString("FGTAIL_BROADCAST_ADDR", cfg.Broadcast.Address)
	if raw := os.Getenv("FGTAIL_BROADCAST_ALLOWED_ORIGINS"); raw != "" {
		cfg.Broadcast.AllowedOrigins = parseList(raw)
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_BROADCAST_MAX_PAYLOAD_BYTES")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_BROADCAST_MAX_PAYLOAD_BYTES must be a positive integer, got %q", raw))
		} else {
			cfg.Broadcast.MaxPayloadBytes = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_BROADCAST_PING_INTERVAL")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_BROADCAST_PING_INTERVAL must be a positive duration, got %q", raw))
		} else {
			cfg.Broadcast.PingInterval = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_BROADCAST_MAX_CLIENTS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_BROADCAST_MAX_CLIENTS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Broadcast.MaxClients = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_CAPTURE_ENABLED")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("FGTAIL_CAPTURE_ENABLED must be a boolean value, got %q", raw))
		} else {
			cfg.Capture.Enabled = value
		}
	}

	cfg.Capture.Dir = strings.TrimSpace(getString("FGTAIL_CAPTURE_DIR", cfg.Capture.Dir))

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_CAPTURE_MAX_CAPTURES")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_CAPTURE_MAX_CAPTURES must be a positive integer, got %q", raw))
		} else {
			cfg.Capture.MaxCaptures = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("FGTAIL_CAPTURE_MAX_AGE")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("FGTAIL_CAPTURE_MAX_AGE must be a positive duration, got %q", raw))
		} else {
			cfg.Capture.MaxAge = duration
		}
	}

	if cfg.Capture.Enabled && cfg.Capture.Dir == "" {
		problems = append(problems, "FGTAIL_CAPTURE_DIR must be set when capture is enabled")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func applyFileLayer(cfg *Config, layer *fileLayer) {
	if layer.LogDir != "" {
		cfg.LogDir = layer.LogDir
	}
	if layer.LogFile != "" {
		cfg.LogFile = layer.LogFile
	}
	cfg.ExtractTimestamps = layer.ExtractTimestamps

	if layer.Logging.Level != "" {
		cfg.Logging.Level = layer.Logging.Level
	}
	if layer.Logging.Path != "" {
		cfg.Logging.Path = layer.Logging.Path
	}
	if layer.Logging.MaxSizeMB > 0 {
		cfg.Logging.MaxSizeMB = layer.Logging.MaxSizeMB
	}
	if layer.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = layer.Logging.MaxBackups
	}
	if layer.Logging.MaxAgeDays > 0 {
		cfg.Logging.MaxAgeDays = layer.Logging.MaxAgeDays
	}
	cfg.Logging.Compress = layer.Logging.Compress

	cfg.Broadcast.Enabled = layer.Broadcast.Enabled
	if layer.Broadcast.Address != "" {
		cfg.Broadcast.Address = layer.Broadcast.Address
	}
	if len(layer.Broadcast.AllowedOrigins) > 0 {
		cfg.Broadcast.AllowedOrigins = layer.Broadcast.AllowedOrigins
	}

	cfg.Capture.Enabled = layer.Capture.Enabled
	if layer.Capture.Dir != "" {
		cfg.Capture.Dir = layer.Capture.Dir
	}
	if layer.Capture.MaxCaptures > 0 {
		cfg.Capture.MaxCaptures = layer.Capture.MaxCaptures
	}
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			values = append(values, item)
		}
	}
	return values
}

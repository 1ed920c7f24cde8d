package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FGTAIL_LOG_DIR",
		"FGTAIL_LOG_FILE",
		"FGTAIL_TIMESTAMPS",
		"FGTAIL_LOG_LEVEL",
		"FGTAIL_LOG_PATH",
		"FGTAIL_LOG_MAX_SIZE_MB",
		"FGTAIL_LOG_MAX_BACKUPS",
		"FGTAIL_LOG_MAX_AGE_DAYS",
		"FGTAIL_LOG_COMPRESS",
		"FGTAIL_BROADCAST_ENABLED",
		"FGTAIL_BROADCAST_ADDR",
		"FGTAIL_BROADCAST_ALLOWED_ORIGINS",
		"FGTAIL_BROADCAST_MAX_PAYLOAD_BYTES",
		"FGTAIL_BROADCAST_PING_INTERVAL",
		"FGTAIL_BROADCAST_MAX_CLIENTS",
		"FGTAIL_CAPTURE_ENABLED",
		"FGTAIL_CAPTURE_DIR",
		"FGTAIL_CAPTURE_MAX_CAPTURES",
		"FGTAIL_CAPTURE_MAX_AGE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.LogDir != DefaultLogDir {
		t.Fatalf("expected default log dir %q, got %q", DefaultLogDir, cfg.LogDir)
	}
	if cfg.LogFile != DefaultLogFile {
		t.Fatalf("expected default log file %q, got %q", DefaultLogFile, cfg.LogFile)
	}
	if cfg.ExtractTimestamps {
		t.Fatalf("expected timestamp extraction disabled by default")
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
	if cfg.Logging.Path != DefaultLogPath {
		t.Fatalf("expected default log path %q, got %q", DefaultLogPath, cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB {
		t.Fatalf("expected default log max size %d, got %d", DefaultLogMaxSizeMB, cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != DefaultLogMaxBackups {
		t.Fatalf("expected default log max backups %d, got %d", DefaultLogMaxBackups, cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != DefaultLogMaxAgeDays {
		t.Fatalf("expected default log max age %d, got %d", DefaultLogMaxAgeDays, cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress != DefaultLogCompress {
		t.Fatalf("expected default log compress %t, got %t", DefaultLogCompress, cfg.Logging.Compress)
	}
	if cfg.Broadcast.Enabled {
		t.Fatalf("expected broadcast disabled by default")
	}
	if cfg.Broadcast.Address != DefaultBroadcastAddr {
		t.Fatalf("expected default broadcast addr %q, got %q", DefaultBroadcastAddr, cfg.Broadcast.Address)
	}
	if cfg.Broadcast.AllowedOrigins != nil {
		t.Fatalf("expected no allowed origins, got %#v", cfg.Broadcast.AllowedOrigins)
	}
	if cfg.Broadcast.MaxPayloadBytes != DefaultMaxPayloadBytes {
		t.Fatalf("expected default max payload %d, got %d", DefaultMaxPayloadBytes, cfg.Broadcast.MaxPayloadBytes)
	}
	if cfg.Broadcast.PingInterval != DefaultPingInterval {
		t.Fatalf("expected default ping interval %v, got %v", DefaultPingInterval, cfg.Broadcast.PingInterval)
	}
	if cfg.Broadcast.MaxClients != DefaultMaxClients {
		t.Fatalf("expected default max clients %d, got %d", DefaultMaxClients, cfg.Broadcast.MaxClients)
	}
	if cfg.Capture.Enabled {
		t.Fatalf("expected capture disabled by default")
	}
	if cfg.Capture.MaxCaptures != DefaultCaptureMaxCaptures {
		t.Fatalf("expected default max captures %d, got %d", DefaultCaptureMaxCaptures, cfg.Capture.MaxCaptures)
	}
	if cfg.Capture.MaxAge != DefaultCaptureMaxAge {
		t.Fatalf("expected default capture max age %v, got %v", DefaultCaptureMaxAge, cfg.Capture.MaxAge)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FGTAIL_LOG_DIR", "/home/user/FallGuys_client/Logs")
	t.Setenv("FGTAIL_LOG_FILE", "Player-prev.log")
	t.Setenv("FGTAIL_TIMESTAMPS", "true")
	t.Setenv("FGTAIL_LOG_LEVEL", "debug")
	t.Setenv("FGTAIL_LOG_PATH", "/var/log/fgtail.log")
	t.Setenv("FGTAIL_LOG_MAX_SIZE_MB", "512")
	t.Setenv("FGTAIL_LOG_MAX_BACKUPS", "4")
	t.Setenv("FGTAIL_LOG_MAX_AGE_DAYS", "2")
	t.Setenv("FGTAIL_LOG_COMPRESS", "false")
	t.Setenv("FGTAIL_BROADCAST_ENABLED", "true")
	t.Setenv("FGTAIL_BROADCAST_ADDR", "127.0.0.1:9000")
	t.Setenv("FGTAIL_BROADCAST_ALLOWED_ORIGINS", "https://example.com, https://demo.local")
	t.Setenv("FGTAIL_BROADCAST_MAX_PAYLOAD_BYTES", "2048")
	t.Setenv("FGTAIL_BROADCAST_PING_INTERVAL", "45s")
	t.Setenv("FGTAIL_BROADCAST_MAX_CLIENTS", "12")
	t.Setenv("FGTAIL_CAPTURE_ENABLED", "true")
	t.Setenv("FGTAIL_CAPTURE_DIR", "/var/run/fgtail/captures")
	t.Setenv("FGTAIL_CAPTURE_MAX_CAPTURES", "5")
	t.Setenv("FGTAIL_CAPTURE_MAX_AGE", "48h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.LogDir != "/home/user/FallGuys_client/Logs" {
		t.Fatalf("unexpected log dir: %q", cfg.LogDir)
	}
	if cfg.LogFile != "Player-prev.log" {
		t.Fatalf("unexpected log file: %q", cfg.LogFile)
	}
	if !cfg.ExtractTimestamps {
		t.Fatalf("expected timestamp extraction enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected overridden log level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Path != "/var/log/fgtail.log" {
		t.Fatalf("unexpected log path %q", cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != 512 {
		t.Fatalf("expected log max size 512, got %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 4 {
		t.Fatalf("expected log max backups 4, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != 2 {
		t.Fatalf("expected log max age 2, got %d", cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress {
		t.Fatalf("expected log compression disabled")
	}
	if !cfg.Broadcast.Enabled {
		t.Fatalf("expected broadcast enabled")
	}
	if cfg.Broadcast.Address != "127.0.0.1:9000" {
		t.Fatalf("unexpected broadcast address: %q", cfg.Broadcast.Address)
	}
	if len(cfg.Broadcast.AllowedOrigins) != 2 || cfg.Broadcast.AllowedOrigins[0] != "https://example.com" || cfg.Broadcast.AllowedOrigins[1] != "https://demo.local" {
		t.Fatalf("unexpected allowed origins: %#v", cfg.Broadcast.AllowedOrigins)
	}
	if cfg.Broadcast.MaxPayloadBytes != 2048 {
		t.Fatalf("expected overridden max payload, got %d", cfg.Broadcast.MaxPayloadBytes)
	}
	if cfg.Broadcast.PingInterval.String() != "45s" {
		t.Fatalf("expected ping interval 45s, got %v", cfg.Broadcast.PingInterval)
	}
	if cfg.Broadcast.MaxClients != 12 {
		t.Fatalf("expected max clients 12, got %d", cfg.Broadcast.MaxClients)
	}
	if !cfg.Capture.Enabled {
		t.Fatalf("expected capture enabled")
	}
	if cfg.Capture.Dir != "/var/run/fgtail/captures" {
		t.Fatalf("unexpected capture dir %q", cfg.Capture.Dir)
	}
	if cfg.Capture.MaxCaptures != 5 {
		t.Fatalf("expected max captures 5, got %d", cfg.Capture.MaxCaptures)
	}
	if cfg.Capture.MaxAge != 48*time.Hour {
		t.Fatalf("expected capture max age 48h, got %v", cfg.Capture.MaxAge)
	}
}

func TestLoadReturnsValidationErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("FGTAIL_TIMESTAMPS", "notabool")
	t.Setenv("FGTAIL_LOG_MAX_SIZE_MB", "-1")
	t.Setenv("FGTAIL_LOG_MAX_BACKUPS", "-2")
	t.Setenv("FGTAIL_LOG_MAX_AGE_DAYS", "-3")
	t.Setenv("FGTAIL_LOG_COMPRESS", "notabool")
	t.Setenv("FGTAIL_BROADCAST_ENABLED", "notabool")
	t.Setenv("FGTAIL_BROADCAST_MAX_PAYLOAD_BYTES", "-5")
	t.Setenv("FGTAIL_BROADCAST_PING_INTERVAL", "abc")
	t.Setenv("FGTAIL_BROADCAST_MAX_CLIENTS", "-1")
	t.Setenv("FGTAIL_CAPTURE_ENABLED", "true")
	t.Setenv("FGTAIL_CAPTURE_MAX_CAPTURES", "0")
	t.Setenv("FGTAIL_CAPTURE_MAX_AGE", "-1h")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error from invalid configuration, got nil")
	}

	for _, want := range []string{
		"FGTAIL_TIMESTAMPS",
		"FGTAIL_LOG_MAX_SIZE_MB",
		"FGTAIL_LOG_MAX_BACKUPS",
		"FGTAIL_LOG_MAX_AGE_DAYS",
		"FGTAIL_LOG_COMPRESS",
		"FGTAIL_BROADCAST_ENABLED",
		"FGTAIL_BROADCAST_MAX_PAYLOAD_BYTES",
		"FGTAIL_BROADCAST_PING_INTERVAL",
		"FGTAIL_BROADCAST_MAX_CLIENTS",
		"FGTAIL_CAPTURE_MAX_CAPTURES",
		"FGTAIL_CAPTURE_MAX_AGE",
		"FGTAIL_CAPTURE_DIR must be set",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %q", want, err.Error())
		}
	}
}

func TestLoadIgnoresEmptyAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("FGTAIL_BROADCAST_ALLOWED_ORIGINS", " , ,https://ok.example, ")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if len(cfg.Broadcast.AllowedOrigins) != 1 || cfg.Broadcast.AllowedOrigins[0] != "https://ok.example" {
		t.Fatalf("expected single cleaned origin, got %#v", cfg.Broadcast.AllowedOrigins)
	}
}

func TestLoadAllowsUnlimitedClients(t *testing.T) {
	clearEnv(t)
	t.Setenv("FGTAIL_BROADCAST_MAX_CLIENTS", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Broadcast.MaxClients != 0 {
		t.Fatalf("expected zero to disable limit, got %d", cfg.Broadcast.MaxClients)
	}
}

func TestLoadFromTOMLFileLayeredUnderEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "fgtail.toml")
	contents := `
log_dir = "/opt/fallguys/logs"
log_file = "Player.log"

[logging]
level = "warn"

[capture]
enabled = true
dir = "/opt/fallguys/captures"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Env overrides the file layer for log_dir but leaves log_file as-is.
	t.Setenv("FGTAIL_LOG_DIR", "/override/logs")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.LogDir != "/override/logs" {
		t.Fatalf("expected env to win over file for log dir, got %q", cfg.LogDir)
	}
	if cfg.LogFile != "Player.log" {
		t.Fatalf("expected file-provided log file, got %q", cfg.LogFile)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected file-provided log level, got %q", cfg.Logging.Level)
	}
	if !cfg.Capture.Enabled {
		t.Fatalf("expected capture enabled from file")
	}
	if cfg.Capture.Dir != "/opt/fallguys/captures" {
		t.Fatalf("unexpected capture dir %q", cfg.Capture.Dir)
	}
}

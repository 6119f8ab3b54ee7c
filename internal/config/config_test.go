package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
		}
		if cfg.ClipHalfWidth != 7 {
			t.Errorf("ClipHalfWidth = %v, want 7", cfg.ClipHalfWidth)
		}
		if cfg.AttemptTimeout != 45*time.Second {
			t.Errorf("AttemptTimeout = %v, want 45s", cfg.AttemptTimeout)
		}
		if cfg.WhisperModel != "whisper-1" {
			t.Errorf("WhisperModel = %q, want whisper-1", cfg.WhisperModel)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		t.Setenv("HTTP_ADDR", ":7070")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := Load(Overrides{
			EnvFile:  "nonexistent.env",
			HTTPAddr: ":9090",
			LogLevel: "debug",
			DataDir:  "/tmp/clipscribe",
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":9090" {
			t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.DataDir != "/tmp/clipscribe" {
			t.Errorf("DataDir = %q, want /tmp/clipscribe", cfg.DataDir)
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		t.Setenv("WHISPER_URL", "http://localhost:9000/v1/audio/transcriptions")
		t.Setenv("RATE_LIMIT", "2.5")

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.WhisperURL != "http://localhost:9000/v1/audio/transcriptions" {
			t.Errorf("WhisperURL = %q, want env value", cfg.WhisperURL)
		}
		if cfg.RateLimit != 2.5 {
			t.Errorf("RateLimit = %v, want 2.5", cfg.RateLimit)
		}
	})

	t.Run("empty_overrides_use_env", func(t *testing.T) {
		t.Setenv("HTTP_ADDR", ":7070")

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":7070" {
			t.Errorf("HTTPAddr = %q, want env value", cfg.HTTPAddr)
		}
	})
}

package config

import (
	"strings"
	"testing"
)

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_Server(t *testing.T) {
	for _, server := range []string{"", "nfs.example.com", "host:notaport", ":2049", "host:0", "host:65536", "::1:2049"} {
		cfg := GetDefaultConfig()
		cfg.Client.Server = server
		if err := Validate(cfg); err == nil {
			t.Errorf("Expected validation error for server %q", server)
		}
	}

	for _, server := range []string{"localhost:2049", "10.0.0.1:2049", "[::1]:2049", "[fe80::1%eth0]:2049", "nfs.example.com:65535"} {
		cfg := GetDefaultConfig()
		cfg.Client.Server = server
		if err := Validate(cfg); err != nil {
			t.Errorf("Server %q rejected: %v", server, err)
		}
	}
}

func TestValidate_Auth(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Client.Auth.Flavor = "krb5"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for unsupported flavor")
	}

	cfg = GetDefaultConfig()
	cfg.Client.Auth.GIDs = make([]uint32, 17)
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for more than 16 gids")
	}

	cfg = GetDefaultConfig()
	cfg.Client.Auth.Flavor = "none"
	cfg.Client.Auth.GIDs = []uint32{1}
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for gids with AUTH_NONE")
	}

	cfg = GetDefaultConfig()
	cfg.Client.Auth.MachineName = strings.Repeat("m", 256)
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for machine name over 255 bytes")
	}
}

func TestValidate_Timeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Client.Timeout = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for negative timeout")
	}
}

func TestValidate_Metrics(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 70000

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}

	cfg.Metrics.Port = 0
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for enabled metrics without port")
	}
}

func TestValidate_TelemetryEnabledWithoutEndpoint(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for telemetry enabled without endpoint")
	}
	if !strings.Contains(err.Error(), "telemetry") {
		t.Errorf("Expected error about telemetry endpoint, got: %v", err)
	}
}

func TestValidate_TelemetrySampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sample rate out of range")
	}
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	for _, level := range []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"} {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		if err := Validate(cfg); err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}

	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}

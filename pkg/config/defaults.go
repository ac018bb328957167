package config

import (
	"os"
	"strings"
	"time"

	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
)

// nobody is the AUTH_SYS identity used when the process identity is
// unavailable (Windows reports -1).
const nobody = 65534

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - UID and GID are never defaulted here; 0 is a valid identity
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyClientDefaults(&cfg.Client)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "inuse_space", "goroutines"}
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyClientDefaults sets transport client defaults.
func applyClientDefaults(cfg *ClientConfig) {
	if cfg.Server == "" {
		cfg.Server = "localhost:2049"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Program == 0 {
		cfg.Program = rpc.ProgramNFS
	}
	if cfg.Version == 0 {
		cfg.Version = rpc.NFSVersion4
	}
	if cfg.Auth.Flavor == "" {
		cfg.Auth.Flavor = "sys"
	}
	cfg.Auth.Flavor = strings.ToLower(cfg.Auth.Flavor)
	if cfg.Auth.MachineName == "" {
		cfg.Auth.MachineName = localHostname()
	}
}

// GetDefaultConfig returns a Config struct with all default values applied,
// including the AUTH_SYS identity of the current process.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{Insecure: true},
		Client: ClientConfig{
			Auth: AuthConfig{
				UID: processID(os.Getuid()),
				GID: processID(os.Getgid()),
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func processID(id int) uint32 {
	if id < 0 {
		return nobody
	}
	return uint32(id)
}

func localHostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}

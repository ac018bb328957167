// Package config loads nfs4ctl configuration from a file, the environment
// and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
// Example: NFS4WIRE_CLIENT_SERVER=nfs.example.com:2049
const EnvPrefix = "NFS4WIRE"

// Config represents the nfs4ctl configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (NFS4WIRE_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry" toml:"telemetry" json:"telemetry"`

	// Metrics contains Prometheus metrics server configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" toml:"metrics" json:"metrics"`

	// Client configures the connection to the NFSv4 server
	Client ClientConfig `mapstructure:"client" yaml:"client" toml:"client" json:"client"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level" toml:"level" json:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format" toml:"format" json:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output" toml:"output" json:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
// When enabled, every RPC call is exported as a client span to an
// OTLP-compatible collector (e.g., Jaeger, Tempo).
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled
	// Default: false (opt-in for telemetry)
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port)
	// Default: "localhost:4317" (standard OTLP gRPC port)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" toml:"endpoint" json:"endpoint"`

	// Insecure controls whether to use insecure (non-TLS) connection
	// Default: true (for local development)
	Insecure bool `mapstructure:"insecure" yaml:"insecure" toml:"insecure" json:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0)
	// Default: 1.0 (sample all)
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate" toml:"sample_rate" json:"sample_rate"`

	// Profiling contains Pyroscope continuous profiling configuration
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling" toml:"profiling" json:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether continuous profiling is enabled
	// Default: false (opt-in for profiling)
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`

	// Endpoint is the Pyroscope server endpoint (URL)
	// Default: "http://localhost:4040" (standard Pyroscope port)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" toml:"endpoint" json:"endpoint"`

	// ProfileTypes specifies which profile types to collect
	// Default: ["cpu", "inuse_space", "goroutines"]
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types" toml:"profile_types" json:"profile_types"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint served by
// long running commands such as bench. When Enabled is false, no metrics
// are collected (zero overhead).
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP server are enabled
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`

	// Port is the HTTP port for the metrics endpoint
	// Default: 9090
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port" toml:"port" json:"port"`
}

// ClientConfig configures the NFSv4 transport client.
type ClientConfig struct {
	// Server is the NFS server address (host:port)
	// Default: "localhost:2049"
	Server string `mapstructure:"server" validate:"required,server_addr" yaml:"server" toml:"server" json:"server"`

	// Timeout bounds every RPC call
	// Default: 30s
	Timeout time.Duration `mapstructure:"timeout" validate:"required,gt=0" yaml:"timeout" toml:"timeout" json:"timeout"`

	// Program is the RPC program number
	// Default: 100003 (NFS)
	Program uint32 `mapstructure:"program" validate:"required" yaml:"program" toml:"program" json:"program"`

	// Version is the RPC program version
	// Default: 4
	Version uint32 `mapstructure:"version" validate:"required" yaml:"version" toml:"version" json:"version"`

	// Tag is the COMPOUND tag sent with every request
	Tag string `mapstructure:"tag" validate:"max=1024" yaml:"tag" toml:"tag" json:"tag"`

	// Auth selects the RPC credential
	Auth AuthConfig `mapstructure:"auth" yaml:"auth" toml:"auth" json:"auth"`
}

// AuthConfig selects the RPC credential flavor.
type AuthConfig struct {
	// Flavor is "none" (AUTH_NONE) or "sys" (AUTH_SYS)
	// Default: "sys"
	Flavor string `mapstructure:"flavor" validate:"required,oneof=none sys" yaml:"flavor" toml:"flavor" json:"flavor"`

	// MachineName is sent in the AUTH_SYS credential
	// Default: the local hostname
	MachineName string `mapstructure:"machine_name" validate:"max=255" yaml:"machine_name" toml:"machine_name" json:"machine_name"`

	// UID and GID are the AUTH_SYS identity
	// Default: the identity of the current process
	UID uint32 `mapstructure:"uid" yaml:"uid" toml:"uid" json:"uid"`
	GID uint32 `mapstructure:"gid" yaml:"gid" toml:"gid" json:"gid"`

	// GIDs is the list of supplementary groups (at most 16)
	GIDs []uint32 `mapstructure:"gids" validate:"max=16" yaml:"gids,omitempty" toml:"gids,omitempty" json:"gids,omitempty"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// unmarshal decodes whatever v holds (file values, environment overrides)
// on top of the defaults, then validates.
func unmarshal(v *viper.Viper) (*Config, error) {
	bindDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
// It checks if the config file exists and provides user-friendly instructions if not.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  nfs4ctl config init\n\n"+
				"Or specify a custom config file:\n"+
				"  nfs4ctl <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  nfs4ctl config init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path.
// A .toml extension selects TOML; anything else is written as YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: NFS4WIRE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	// Default location: $XDG_CONFIG_HOME/nfs4wire/config.{yaml,toml}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
}

// bindDefaults registers every key so AutomaticEnv can override values
// that are absent from the file. viper only consults the environment for
// keys it already knows.
func bindDefaults(v *viper.Viper) {
	def := GetDefaultConfig()
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output", def.Logging.Output)
	v.SetDefault("telemetry.enabled", def.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", def.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", def.Telemetry.Insecure)
	v.SetDefault("telemetry.sample_rate", def.Telemetry.SampleRate)
	v.SetDefault("telemetry.profiling.enabled", def.Telemetry.Profiling.Enabled)
	v.SetDefault("telemetry.profiling.endpoint", def.Telemetry.Profiling.Endpoint)
	v.SetDefault("telemetry.profiling.profile_types", def.Telemetry.Profiling.ProfileTypes)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.port", def.Metrics.Port)
	v.SetDefault("client.server", def.Client.Server)
	v.SetDefault("client.timeout", def.Client.Timeout.String())
	v.SetDefault("client.program", def.Client.Program)
	v.SetDefault("client.version", def.Client.Version)
	v.SetDefault("client.tag", def.Client.Tag)
	v.SetDefault("client.auth.flavor", def.Client.Auth.Flavor)
	v.SetDefault("client.auth.machine_name", def.Client.Auth.MachineName)
	v.SetDefault("client.auth.uid", def.Client.Auth.UID)
	v.SetDefault("client.auth.gid", def.Client.Auth.GID)
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// durationDecodeHook returns a mapstructure decode hook that converts strings
// to time.Duration. This enables config files to use human-readable durations
// like "30s", "5m", "1h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			// Assume nanoseconds for raw integers
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "nfs4wire")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "nfs4wire")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}

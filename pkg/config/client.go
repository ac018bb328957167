package config

import (
	"fmt"

	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
	"github.com/marmos91/nfs4wire/internal/telemetry"
	"github.com/marmos91/nfs4wire/pkg/client"
)

// Credential builds the RPC credential described by the auth section.
func (a *AuthConfig) Credential() (rpc.OpaqueAuth, error) {
	switch a.Flavor {
	case "", "none":
		return rpc.AuthNoneCredential(), nil
	case "sys":
		auth := &rpc.UnixAuth{
			MachineName: a.MachineName,
			UID:         a.UID,
			GID:         a.GID,
			GIDs:        a.GIDs,
		}
		cred, err := auth.Credential()
		if err != nil {
			return rpc.OpaqueAuth{}, fmt.Errorf("build AUTH_SYS credential: %w", err)
		}
		return cred, nil
	default:
		return rpc.OpaqueAuth{}, fmt.Errorf("unsupported auth flavor %q", a.Flavor)
	}
}

// ToClientOptions converts the client section into transport options.
// Metrics and Dialer are left for the caller to set.
func (c *Config) ToClientOptions() (client.Options, error) {
	cred, err := c.Client.Auth.Credential()
	if err != nil {
		return client.Options{}, err
	}
	return client.Options{
		Addr:       c.Client.Server,
		Timeout:    c.Client.Timeout,
		Program:    c.Client.Program,
		Version:    c.Client.Version,
		Credential: cred,
		Tag:        c.Client.Tag,
	}, nil
}

// LoggerConfig returns the logging section in the logger's terms.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// TelemetryConfig returns the tracing section in the telemetry package's
// terms.
func (c *Config) TelemetryConfig(serviceName, version string) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       c.Telemetry.Endpoint,
		Insecure:       c.Telemetry.Insecure,
		SampleRate:     c.Telemetry.SampleRate,
	}
}

// ProfilingConfig returns the profiling section in the telemetry package's
// terms.
func (c *Config) ProfilingConfig(serviceName, version string) telemetry.ProfilingConfig {
	return telemetry.ProfilingConfig{
		Enabled:        c.Telemetry.Profiling.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       c.Telemetry.Profiling.Endpoint,
		ProfileTypes:   c.Telemetry.Profiling.ProfileTypes,
	}
}

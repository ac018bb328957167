// Package cmdutil provides shared utilities for nfs4ctl commands.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/telemetry"
	"github.com/marmos91/nfs4wire/pkg/client"
	"github.com/marmos91/nfs4wire/pkg/config"
	"github.com/marmos91/nfs4wire/pkg/metrics"
)

// ServiceName is reported to the trace and profiling backends.
const ServiceName = "nfs4ctl"

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigFile string
	Server     string
	LogLevel   string
	Timeout    time.Duration
	Output     string
	NoColor    bool
}

// Version is set by the root command from the build variables.
var Version = "dev"

// LoadConfig returns the configuration for a command. Without --config and
// without a file at the default location the built-in defaults are used,
// so one-off commands work on a fresh machine. Flag overrides are applied
// last and the result is validated again.
func LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if Flags.ConfigFile != "" {
		cfg, err = config.MustLoad(Flags.ConfigFile)
	} else {
		cfg, err = config.Load("")
	}
	if err != nil {
		return nil, err
	}

	if Flags.Server != "" {
		cfg.Client.Server = Flags.Server
	}
	if Flags.LogLevel != "" {
		cfg.Logging.Level = Flags.LogLevel
	}
	if Flags.Timeout > 0 {
		cfg.Client.Timeout = Flags.Timeout
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid flag override: %w", err)
	}
	return cfg, nil
}

// Session bundles what a networked command needs: its configuration, a
// connected client and the cleanup for logging and telemetry.
type Session struct {
	Config *config.Config
	Client *client.Client

	closers []func()
}

// Open loads the configuration, initializes logging, tracing and
// profiling, and connects to the server.
func Open(ctx context.Context, m metrics.ClientMetrics) (*Session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	s := &Session{Config: cfg}
	if err := s.initObservability(ctx); err != nil {
		s.Close()
		return nil, err
	}

	opts, err := cfg.ToClientOptions()
	if err != nil {
		s.Close()
		return nil, err
	}
	opts.Metrics = m

	c := client.New(opts)
	if err := c.Connect(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("connect to %s: %w", cfg.Client.Server, err)
	}
	s.Client = c
	s.closers = append(s.closers, func() { _ = c.Close() })

	logger.Debug("Connected", logger.KeyServer, cfg.Client.Server, logger.KeyAuth, cfg.Client.Auth.Flavor)
	return s, nil
}

func (s *Session) initObservability(ctx context.Context) error {
	if err := logger.Init(s.Config.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	shutdown, err := telemetry.Init(ctx, s.Config.TelemetryConfig(ServiceName, Version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.closers = append(s.closers, func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	})

	stop, err := telemetry.InitProfiling(s.Config.ProfilingConfig(ServiceName, Version))
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	s.closers = append(s.closers, func() {
		if err := stop(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	})
	return nil
}

// Close releases everything Open set up, in reverse order.
func (s *Session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// GetOutputFormatParsed returns the parsed --output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled reports whether --no-color was given or color is
// otherwise unavailable.
func IsColorDisabled() bool {
	return Flags.NoColor || color.NoColor
}

// NewPrinter returns a printer for w honoring --output and --no-color.
func NewPrinter(w io.Writer) (*output.Printer, error) {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, format, !IsColorDisabled()), nil
}

// PrintOutput prints data in the selected format. In table mode emptyMsg is
// shown instead of an empty table.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, table output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, table)
	}
}

// IsTimeout reports whether err is a call timeout, for friendlier messages.
func IsTimeout(err error) bool {
	return errors.Is(err, client.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

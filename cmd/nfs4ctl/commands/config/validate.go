package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Check the configuration file for syntax errors and invalid values, then
print a summary of the settings that matter most.

Examples:
  nfs4ctl config validate
  nfs4ctl config validate --config /etc/nfs4wire/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := cmdutil.Flags.ConfigFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printer, err := cmdutil.NewPrinter(w)
	if err != nil {
		return err
	}

	printer.Printf("Configuration file: %s\n", path)
	printer.Success("Validation: OK")

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		printer.Println()
		printer.Warning("Warnings:")
		for _, msg := range warnings {
			printer.Printf("  - %s\n", msg)
		}
	}

	printer.Println()
	return output.PrintKeyValues(w, []output.KeyValue{
		{Key: "Server", Value: cfg.Client.Server},
		{Key: "Timeout", Value: cfg.Client.Timeout.String()},
		{Key: "Program", Value: fmt.Sprintf("%d v%d", cfg.Client.Program, cfg.Client.Version)},
		{Key: "Credential", Value: cfg.Client.Auth.Flavor},
		{Key: "Log level", Value: cfg.Logging.Level},
		{Key: "Metrics", Value: strconv.FormatBool(cfg.Metrics.Enabled)},
		{Key: "Telemetry", Value: strconv.FormatBool(cfg.Telemetry.Enabled)},
	})
}

// configWarnings reports settings that are valid but probably unintended.
func configWarnings(cfg *config.Config) []string {
	var warnings []string
	if cfg.Client.Auth.Flavor == "sys" && cfg.Client.Auth.UID == 0 {
		warnings = append(warnings, "AUTH_SYS uid is 0; most servers squash root")
	}
	if cfg.Client.Program != 100003 || cfg.Client.Version != 4 {
		warnings = append(warnings, "program is not NFS version 4; compound calls will be rejected")
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.SampleRate == 0 {
		warnings = append(warnings, "telemetry is enabled with a sample rate of 0")
	}
	return warnings
}

// Package commands implements the nfs4ctl command tree.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	configcmd "github.com/marmos91/nfs4wire/cmd/nfs4ctl/commands/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nfs4ctl",
	Short: "NFSv4.0 wire client and codec toolkit",
	Long: `nfs4ctl speaks NFSv4.0 COMPOUND over TCP.

It can probe a server (null), browse and read an export (ls, stat, cat),
register a client id (clientid), inspect secinfo flavors (secinfo), decode
captured compound buffers (decode) and generate load (bench).

Settings come from $XDG_CONFIG_HOME/nfs4wire/config.yaml, NFS4WIRE_*
environment variables and the flags below, in increasing precedence.

Use "nfs4ctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Version = Version
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cmdutil.Flags.ConfigFile, "config", "", "config file (default: $XDG_CONFIG_HOME/nfs4wire/config.yaml)")
	flags.StringVarP(&cmdutil.Flags.Server, "server", "s", "", "NFS server host:port (overrides client.server)")
	flags.StringVar(&cmdutil.Flags.LogLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	flags.DurationVar(&cmdutil.Flags.Timeout, "timeout", 0, "Per-call timeout (overrides client.timeout)")
	flags.StringVarP(&cmdutil.Flags.Output, "output", "o", "table", "Output format (table|json|yaml)")
	flags.BoolVar(&cmdutil.Flags.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(nullCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(secinfoCmd)
	rootCmd.AddCommand(clientidCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(configcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}

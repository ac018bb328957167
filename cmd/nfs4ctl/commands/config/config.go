// Package config implements the nfs4ctl config subcommands.
package config

import "github.com/spf13/cobra"

// Cmd is the parent command for configuration management.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the nfs4ctl configuration file",
	Long: `Create, inspect, edit and validate the configuration file.

The file lives at $XDG_CONFIG_HOME/nfs4wire/config.yaml unless --config
names another path. A .toml extension selects TOML.`,
}

func init() {
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(schemaCmd)
	Cmd.AddCommand(validateCmd)
}

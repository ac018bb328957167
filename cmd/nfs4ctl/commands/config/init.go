package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/prompt"
	"github.com/marmos91/nfs4wire/pkg/config"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file populated with the defaults.

With --interactive the server address and AUTH_SYS identity are asked for
first.

Examples:
  nfs4ctl config init
  nfs4ctl config init --interactive --config ./nfs4wire.toml`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for the main settings")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cmdutil.Flags.ConfigFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg := config.GetDefaultConfig()
	if initInteractive {
		if err := promptConfig(cfg); err != nil {
			if prompt.IsAborted(err) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			return err
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.InitConfigToPath(path, cfg, initForce); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

func promptConfig(cfg *config.Config) error {
	var err error
	c := &cfg.Client

	if c.Server, err = prompt.InputServer("NFS server (host:port)", c.Server); err != nil {
		return err
	}
	if c.Auth.Flavor, err = prompt.Select("Credential flavor", []string{"sys", "none"}); err != nil {
		return err
	}
	if c.Auth.Flavor == "none" {
		c.Auth.GIDs = nil
		return nil
	}

	if c.Auth.MachineName, err = prompt.Input("Machine name", c.Auth.MachineName); err != nil {
		return err
	}
	if c.Auth.UID, err = prompt.InputUint32("UID", c.Auth.UID); err != nil {
		return err
	}
	if c.Auth.GID, err = prompt.InputUint32("GID", c.Auth.GID); err != nil {
		return err
	}
	c.Auth.GIDs, err = prompt.InputUint32List("Supplementary GIDs (comma separated)", c.Auth.GIDs)
	return err
}

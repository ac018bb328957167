package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/timeutil"
)

var nullCount int

var nullCmd = &cobra.Command{
	Use:   "null",
	Short: "Ping the server with NFSPROC4_NULL",
	Long: `Send NULL calls and report the round trip time of each.

Examples:
  nfs4ctl null --server nfs.example.com:2049
  nfs4ctl null -n 5`,
	Args: cobra.NoArgs,
	RunE: runNull,
}

func init() {
	nullCmd.Flags().IntVarP(&nullCount, "count", "n", 1, "Number of pings")
}

func runNull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := cmdutil.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	for i := 0; i < nullCount; i++ {
		start := time.Now()
		if err := s.Client.Null(ctx); err != nil {
			return fmt.Errorf("NULL to %s: %w", s.Config.Client.Server, err)
		}
		printer.Printf("NULL %s: %s in %s\n", s.Config.Client.Server,
			printer.Status("ok", true), timeutil.FormatElapsed(time.Since(start)))
	}
	return nil
}

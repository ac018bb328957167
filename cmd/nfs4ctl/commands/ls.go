package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/attrs"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/pkg/client"
)

const (
	readdirDircount = 8 << 10
	readdirMaxcount = 64 << 10
	// readdirMaxPages stops a server that never reports eof.
	readdirMaxPages = 10000
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory with READDIR",
	Long: `List the entries of a directory on the server.

The path is resolved from the server's root with PUTROOTFH and one LOOKUP per
component. Large directories are read in pages using the READDIR cookie.

Examples:
  nfs4ctl ls /export
  nfs4ctl ls /export/home -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

type dirListing []fileView

func (l dirListing) Headers() []string {
	return []string{"MODE", "LINKS", "OWNER", "GROUP", "SIZE", "MODIFIED", "NAME"}
}

func (l dirListing) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, v := range l {
		rows[i] = v.row()
	}
	return rows
}

func runLs(cmd *cobra.Command, args []string) error {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}

	ctx := cmd.Context()
	s, err := cmdutil.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	listing, err := readDir(ctx, s.Client, s.Config.Client.Tag, path)
	if err != nil {
		return fmt.Errorf("ls %s: %w", path, err)
	}
	return cmdutil.PrintOutput(cmd.OutOrStdout(), listing, len(listing) == 0, "(empty directory)", listing)
}

// readDir pages through READDIR until the server reports eof.
func readDir(ctx context.Context, c *client.Client, tag, path string) (dirListing, error) {
	var (
		listing dirListing
		cookie  uint64
		verf    types.Verifier4
	)

	for page := 0; page < readdirMaxPages; page++ {
		b := compound.NewBuilder(tag).Walk(path).Readdir(cookie, verf, readdirDircount, readdirMaxcount, listAttrs)
		res, err := runCompound(ctx, c, b)
		if err != nil {
			return nil, err
		}
		rd, err := resultOf[*types.ReaddirRes](res, types.OP_READDIR)
		if err != nil {
			return nil, err
		}

		reply := rd.Resok.Reply
		for _, entry := range reply.Entries {
			a, err := attrs.DecodeFattr(&entry.Attrs)
			if err != nil {
				logger.Warn("Skipping entry with undecodable attributes",
					logger.KeyPath, entry.Name, logger.Err(err))
				a = &attrs.Attributes{}
			}
			listing = append(listing, newFileView(entry.Name, a))
			cookie = entry.Cookie
		}
		verf = rd.Resok.Cookieverf

		logger.Debug("READDIR page", logger.KeyPath, path, logger.KeyCount, len(reply.Entries), logger.KeyEOF, reply.EOF)
		if reply.EOF {
			return listing, nil
		}
		if len(reply.Entries) == 0 {
			return nil, fmt.Errorf("server returned an empty READDIR page without eof")
		}
	}
	return nil, fmt.Errorf("directory exceeds %d READDIR pages", readdirMaxPages)
}

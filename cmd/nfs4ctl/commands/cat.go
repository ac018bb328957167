package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

var (
	catOffset uint64
	catLength uint64
	catChunk  uint32
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a file's contents using READ",
	Long: `Read a file and write its bytes to stdout.

Reads use the anonymous stateid, so no OPEN is performed. Servers that
require an open state for READ will answer NFS4ERR_BAD_STATEID or similar.

Examples:
  nfs4ctl cat /export/README
  nfs4ctl cat /export/big.bin --offset 4096 --length 1024 > part.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func init() {
	catCmd.Flags().Uint64Var(&catOffset, "offset", 0, "Byte offset to start reading at")
	catCmd.Flags().Uint64Var(&catLength, "length", 0, "Maximum bytes to read (0 reads to end of file)")
	catCmd.Flags().Uint32Var(&catChunk, "chunk", 64<<10, "Bytes requested per READ")
}

func runCat(cmd *cobra.Command, args []string) error {
	path := args[0]
	if catChunk == 0 {
		return fmt.Errorf("--chunk must be positive")
	}

	ctx := cmd.Context()
	s, err := cmdutil.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	offset := catOffset
	var total uint64

	for catLength == 0 || total < catLength {
		count := catChunk
		if catLength > 0 && catLength-total < uint64(count) {
			count = uint32(catLength - total)
		}

		b := compound.NewBuilder(s.Config.Client.Tag).Walk(path).Read(types.AnonymousStateid(), offset, count)
		res, err := runCompound(ctx, s.Client, b)
		if err != nil {
			return fmt.Errorf("read %s at %d: %w", path, offset, err)
		}
		rd, err := resultOf[*types.ReadRes](res, types.OP_READ)
		if err != nil {
			return err
		}

		data := rd.Resok.Data
		if _, err := out.Write(data); err != nil {
			return err
		}
		offset += uint64(len(data))
		total += uint64(len(data))

		logger.Debug("READ", logger.KeyPath, path, logger.KeyOffset, offset, logger.KeyCount, len(data), logger.KeyEOF, rd.Resok.EOF)
		if rd.Resok.EOF || len(data) == 0 {
			break
		}
	}
	return nil
}

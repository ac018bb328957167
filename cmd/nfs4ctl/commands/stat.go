package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/internal/cli/timeutil"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/attrs"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show the filehandle and attributes of an object",
	Long: `Resolve a path and print its filehandle and attributes.

Examples:
  nfs4ctl stat /export/README
  nfs4ctl stat / -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

type statView struct {
	Path       string `json:"path" yaml:"path"`
	Handle     string `json:"handle" yaml:"handle"`
	Change     uint64 `json:"change" yaml:"change"`
	Fsid       string `json:"fsid" yaml:"fsid"`
	SpaceUsed  uint64 `json:"space_used" yaml:"space_used"`
	Accessed   string `json:"accessed" yaml:"accessed"`
	MetaChange string `json:"metadata_changed" yaml:"metadata_changed"`
	fileView   `yaml:",inline"`
}

func (v *statView) pairs() []output.KeyValue {
	return []output.KeyValue{
		{Key: "Path", Value: v.Path},
		{Key: "Handle", Value: v.Handle},
		{Key: "Type", Value: v.Type},
		{Key: "Mode", Value: v.Mode},
		{Key: "Links", Value: strconv.FormatUint(uint64(v.Links), 10)},
		{Key: "Owner", Value: v.Owner},
		{Key: "Group", Value: v.Group},
		{Key: "Size", Value: strconv.FormatUint(v.Size, 10)},
		{Key: "Space used", Value: strconv.FormatUint(v.SpaceUsed, 10)},
		{Key: "Fileid", Value: strconv.FormatUint(v.FileID, 10)},
		{Key: "Fsid", Value: v.Fsid},
		{Key: "Change", Value: strconv.FormatUint(v.Change, 10)},
		{Key: "Accessed", Value: v.Accessed},
		{Key: "Modified", Value: v.Modified},
		{Key: "Changed", Value: v.MetaChange},
	}
}

func runStat(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := cmd.Context()

	s, err := cmdutil.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	b := compound.NewBuilder(s.Config.Client.Tag).Walk(path).GetFH().Getattr(statAttrs)
	res, err := runCompound(ctx, s.Client, b)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	fh, err := resultOf[*types.GetfhRes](res, types.OP_GETFH)
	if err != nil {
		return err
	}
	ga, err := resultOf[*types.GetattrRes](res, types.OP_GETATTR)
	if err != nil {
		return err
	}
	a, err := attrs.DecodeFattr(&ga.Resok.ObjAttributes)
	if err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}

	view := &statView{
		Path:       path,
		Handle:     fh.Resok.Object.String(),
		Change:     a.Change,
		Fsid:       a.Fsid.String(),
		SpaceUsed:  a.SpaceUsed,
		Accessed:   timeutil.FormatLocal(a.TimeAccess.Time()),
		MetaChange: timeutil.FormatLocal(a.TimeMetadata.Time()),
		fileView:   newFileView("", a),
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), view)
	case output.FormatYAML:
		return output.PrintYAML(cmd.OutOrStdout(), view)
	default:
		return output.PrintKeyValues(cmd.OutOrStdout(), view.pairs())
	}
}

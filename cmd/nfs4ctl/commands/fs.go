package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/marmos91/nfs4wire/internal/cli/timeutil"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/attrs"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/pkg/client"
)

// listAttrs is requested for every READDIR entry and by stat.
var listAttrs = attrs.Request(
	attrs.FATTR4_TYPE,
	attrs.FATTR4_SIZE,
	attrs.FATTR4_FILEID,
	attrs.FATTR4_MODE,
	attrs.FATTR4_NUMLINKS,
	attrs.FATTR4_OWNER,
	attrs.FATTR4_OWNER_GROUP,
	attrs.FATTR4_TIME_MODIFY,
)

// statAttrs adds the identity and timestamp attributes shown by stat.
var statAttrs = attrs.Request(
	attrs.FATTR4_TYPE,
	attrs.FATTR4_CHANGE,
	attrs.FATTR4_SIZE,
	attrs.FATTR4_FSID,
	attrs.FATTR4_FILEID,
	attrs.FATTR4_MODE,
	attrs.FATTR4_NUMLINKS,
	attrs.FATTR4_OWNER,
	attrs.FATTR4_OWNER_GROUP,
	attrs.FATTR4_SPACE_USED,
	attrs.FATTR4_TIME_ACCESS,
	attrs.FATTR4_TIME_METADATA,
	attrs.FATTR4_TIME_MODIFY,
)

// runCompound builds b, sends it and converts a failed operation into a
// *client.StatusError.
func runCompound(ctx context.Context, c *client.Client, b *compound.Builder) (*compound.CompoundRes, error) {
	args, err := b.Build()
	if err != nil {
		return nil, err
	}
	res, err := c.Compound(ctx, args)
	if err != nil {
		return nil, err
	}
	if err := client.CheckStatus(res); err != nil {
		return res, err
	}
	return res, nil
}

// resultOf returns the result of the operation with the given opcode, typed
// as T.
func resultOf[T compound.Op](res *compound.CompoundRes, opcode uint32) (T, error) {
	var zero T
	op, ok := res.Find(opcode).(T)
	if !ok {
		return zero, fmt.Errorf("reply has no %s result", types.OpName(opcode))
	}
	return op, nil
}

// fileView is the printable form of one object's attributes.
type fileView struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Type     string `json:"type" yaml:"type"`
	Mode     string `json:"mode" yaml:"mode"`
	Links    uint32 `json:"links" yaml:"links"`
	Owner    string `json:"owner" yaml:"owner"`
	Group    string `json:"group" yaml:"group"`
	Size     uint64 `json:"size" yaml:"size"`
	FileID   uint64 `json:"fileid" yaml:"fileid"`
	Modified string `json:"modified" yaml:"modified"`
}

func newFileView(name string, a *attrs.Attributes) fileView {
	v := fileView{
		Name:   name,
		Type:   "-",
		Mode:   a.FileMode().String(),
		Links:  a.NumLinks,
		Owner:  a.Owner,
		Group:  a.OwnerGroup,
		Size:   a.Size,
		FileID: a.FileID,
	}
	if a.Has(attrs.FATTR4_TYPE) {
		v.Type = types.FileTypeName(a.Type)
	}
	if a.Has(attrs.FATTR4_TIME_MODIFY) {
		v.Modified = timeutil.FormatLocal(a.TimeModify.Time())
	}
	return v
}

func (v fileView) row() []string {
	return []string{
		v.Mode,
		strconv.FormatUint(uint64(v.Links), 10),
		v.Owner,
		v.Group,
		strconv.FormatUint(v.Size, 10),
		v.Modified,
		v.Name,
	}
}

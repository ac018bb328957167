package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/attrs"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

func TestResultOf(t *testing.T) {
	res := &compound.CompoundRes{
		Results: []compound.Op{
			&types.PutrootfhRes{},
			&types.GetfhRes{Resok: &types.GetfhResOK{Object: types.NfsFh4{0x01, 0x02}}},
		},
	}

	fh, err := resultOf[*types.GetfhRes](res, types.OP_GETFH)
	require.NoError(t, err)
	assert.Equal(t, types.NfsFh4{0x01, 0x02}, fh.Resok.Object)

	_, err = resultOf[*types.GetattrRes](res, types.OP_GETATTR)
	assert.ErrorContains(t, err, "GETATTR")
}

func TestNewFileView(t *testing.T) {
	a := &attrs.Attributes{
		Mask:     attrs.Request(attrs.FATTR4_TYPE, attrs.FATTR4_MODE, attrs.FATTR4_NUMLINKS, attrs.FATTR4_SIZE),
		Type:     types.NF4DIR,
		Mode:     0o755,
		NumLinks: 3,
		Size:     4096,
		Owner:    "alice@example.com",
	}

	v := newFileView("docs", a)
	assert.Equal(t, "docs", v.Name)
	assert.Equal(t, types.FileTypeName(types.NF4DIR), v.Type)
	assert.Equal(t, "drwxr-xr-x", v.Mode)
	assert.Empty(t, v.Modified, "time_modify was not returned")

	row := v.row()
	require.Len(t, row, 7)
	assert.Equal(t, "3", row[1])
	assert.Equal(t, "4096", row[4])
	assert.Equal(t, "docs", row[6])
}

func TestNewFileView_NoType(t *testing.T) {
	v := newFileView("x", &attrs.Attributes{Mask: attrs.Request(attrs.FATTR4_SIZE)})
	assert.Equal(t, "-", v.Type)
}

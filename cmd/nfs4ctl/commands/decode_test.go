package commands

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
	"github.com/marmos91/nfs4wire/internal/protocol/xdr/schema"
)

func encodedLookupArgs(t *testing.T) []byte {
	t.Helper()
	data, err := compound.NewEncoder().EncodeCompoundArgs(&compound.CompoundArgs{
		Tag: "ls",
		Ops: []compound.Op{
			&types.PutrootfhArgs{},
			&types.LookupArgs{Objname: "export"},
			&types.GetfhArgs{},
		},
	})
	require.NoError(t, err)
	return data
}

func TestParseHex(t *testing.T) {
	data, err := parseHex(" 0x00 01\n0a:ff ")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x0a, 0xff}, data)

	_, err = parseHex("0g")
	assert.Error(t, err)

	_, err = parseHex("abc")
	assert.Error(t, err, "odd length")
}

func TestLooksLikeHex(t *testing.T) {
	assert.True(t, looksLikeHex([]byte("0000 00ff\n")))
	assert.False(t, looksLikeHex([]byte{0x00, 0x00, 0x00, 0x01}))
	assert.False(t, looksLikeHex(nil))
}

func TestDecodeBuffer_CompoundArgs(t *testing.T) {
	msg, err := decodeBuffer(encodedLookupArgs(t), false, false)
	require.NoError(t, err)

	assert.Equal(t, "COMPOUND4args", msg.Kind)
	assert.Equal(t, "ls", msg.Tag)
	require.NotNil(t, msg.MinorVersion)
	assert.Equal(t, uint32(0), *msg.MinorVersion)
	assert.Nil(t, msg.CallbackIdent)
	assert.Zero(t, msg.Trailing)

	require.Len(t, msg.Ops, 3)
	assert.Equal(t, "PUTROOTFH", msg.Ops[0].Name)
	assert.Equal(t, "LOOKUP", msg.Ops[1].Name)
	assert.Equal(t, uint32(types.OP_GETFH), msg.Ops[2].Opcode)
	assert.Empty(t, msg.Ops[0].Status, "arguments carry no status")
}

func TestDecodeBuffer_CompoundResStatuses(t *testing.T) {
	data, err := compound.NewEncoder().EncodeCompoundRes(&compound.CompoundRes{
		Status: types.NFS4ERR_NOENT,
		Tag:    "ls",
		Results: []compound.Op{
			&types.PutrootfhRes{Status: types.NFS4_OK},
			&types.LookupRes{Status: types.NFS4ERR_NOENT},
		},
	})
	require.NoError(t, err)

	msg, err := decodeBuffer(data, true, false)
	require.NoError(t, err)

	assert.Equal(t, "COMPOUND4res", msg.Kind)
	assert.Equal(t, "NFS4ERR_NOENT", msg.Status)
	assert.False(t, msg.statusOK)
	require.Len(t, msg.Ops, 2)
	assert.Equal(t, "NFS4_OK", msg.Ops[0].Status)
	assert.Equal(t, "NFS4ERR_NOENT", msg.Ops[1].Status)
}

func TestDecodeBuffer_TrailingBytes(t *testing.T) {
	data := append(encodedLookupArgs(t), 0xde, 0xad, 0xbe, 0xef)

	msg, err := decodeBuffer(data, false, false)
	require.NoError(t, err)
	assert.Equal(t, 4, msg.Trailing)
}

func TestDecodeBuffer_Truncated(t *testing.T) {
	data := encodedLookupArgs(t)
	_, err := decodeBuffer(data[:len(data)-2], false, false)
	assert.Error(t, err)
}

func TestStripRPC(t *testing.T) {
	params := encodedLookupArgs(t)
	call, err := rpc.EncodeCall(0x1234, rpc.ProgramNFS, rpc.NFSVersion4, 1,
		rpc.AuthNoneCredential(), rpc.AuthNoneCredential(), params)
	require.NoError(t, err)
	record := rpc.FrameRecord(call)

	body, xid, err := stripRPC(record, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1234), xid)
	assert.Equal(t, params, body)

	_, _, err = stripRPC(record, true)
	assert.Error(t, err, "a call is not a reply")

	_, _, err = stripRPC(record[:len(record)-1], false)
	assert.Error(t, err, "incomplete record")
}

func TestDecodeCommand_JSON(t *testing.T) {
	prev := cmdutil.Flags.Output
	cmdutil.Flags.Output = "json"
	t.Cleanup(func() { cmdutil.Flags.Output = prev })

	var out bytes.Buffer
	decodeCmd.SetOut(&out)
	t.Cleanup(func() { decodeCmd.SetOut(nil) })

	err := runDecode(decodeCmd, []string{hex.EncodeToString(encodedLookupArgs(t))})
	require.NoError(t, err)

	var got struct {
		Kind string `json:"kind"`
		Tag  string `json:"tag"`
		Ops  []struct {
			Name string `json:"name"`
		} `json:"ops"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "COMPOUND4args", got.Kind)
	assert.Equal(t, "ls", got.Tag)
	require.Len(t, got.Ops, 3)
	assert.Equal(t, "LOOKUP", got.Ops[1].Name)
}

func TestDecodeNamed(t *testing.T) {
	value, err := decodeNamed("stateid4", []byte{
		0, 0, 0, 1,
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11,
	})
	require.NoError(t, err)

	m, ok := value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, uint32(1), m["seqid"])
	assert.Equal(t, "000102030405060708090a0b", m["other"])
}

func TestDecodeNamed_Union(t *testing.T) {
	value, err := decodeNamed("settime4", []byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"discriminant": int32(0), "value": nil}, value)
}

func TestDecodeNamed_Errors(t *testing.T) {
	_, err := decodeNamed("nope", nil)
	assert.ErrorContains(t, err, "stateid4")

	_, err = decodeNamed("nfs_fh4", []byte{0, 0, 0, 129})
	assert.Error(t, err, "handle longer than NFS4_FHSIZE")

	_, err = decodeNamed("verifier4", make([]byte, 12))
	assert.Error(t, err, "trailing bytes")
}

func TestNamedTypesAreWellFormed(t *testing.T) {
	for _, name := range namedTypeNames() {
		assert.NoError(t, schema.ValidateSchema(namedTypes[name]), name)
	}
}

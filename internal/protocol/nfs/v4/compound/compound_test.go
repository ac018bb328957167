package compound

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestCompoundArgs_PathWalkScenario(t *testing.T) {
	args := &CompoundArgs{
		Tag: "t",
		Ops: []Op{
			&types.PutrootfhArgs{},
			&types.LookupArgs{Objname: "home"},
			&types.GetfhArgs{},
		},
	}

	data, err := NewEncoder().EncodeCompoundArgs(args)
	require.NoError(t, err)

	want := mustHex(t, ""+
		"00000001"+"74000000"+ // tag "t"
		"00000000"+ // minorversion
		"00000003"+ // numops
		"00000018"+ // PUTROOTFH
		"0000000f"+"00000004"+"686f6d65"+ // LOOKUP "home"
		"0000000a") // GETFH
	assert.Equal(t, want, data)

	decoded, err := NewDecoder(data).DecodeCompoundArgs()
	require.NoError(t, err)
	assert.Equal(t, "t", decoded.Tag)
	assert.Equal(t, uint32(0), decoded.MinorVersion)
	require.Len(t, decoded.Ops, 3)

	assert.IsType(t, &types.PutrootfhArgs{}, decoded.Ops[0])
	lookup, ok := decoded.Ops[1].(*types.LookupArgs)
	require.True(t, ok, "op 1 is %T", decoded.Ops[1])
	assert.Equal(t, "home", lookup.Objname)
	assert.IsType(t, &types.GetfhArgs{}, decoded.Ops[2])
	assert.Equal(t, []string{"PUTROOTFH", "LOOKUP", "GETFH"}, decoded.OpNames())
}

func TestNewArgs_IllegalFallback(t *testing.T) {
	for _, opcode := range []uint32{0, 1, 2, 40, 58, 10043, 0xffffffff} {
		args := NewArgs(opcode)
		illegal, ok := args.(*types.IllegalArgs)
		require.True(t, ok, "opcode %d: got %T", opcode, args)
		assert.Equal(t, opcode, illegal.Opcode)
		assert.Equal(t, uint32(types.OP_ILLEGAL), args.OpCode())

		assert.IsType(t, &types.IllegalRes{}, NewRes(opcode))
	}

	assert.IsType(t, &types.IllegalArgs{}, NewArgs(types.OP_ILLEGAL))
}

func TestNewArgs_CoversV40Range(t *testing.T) {
	for opcode := uint32(types.OP_ACCESS); opcode <= types.OP_RELEASE_LOCKOWNER; opcode++ {
		assert.Equal(t, opcode, NewArgs(opcode).OpCode(), "args for %s", types.OpName(opcode))
		assert.Equal(t, opcode, NewRes(opcode).OpCode(), "res for %s", types.OpName(opcode))
	}
}

func TestNewCbArgs_Fallback(t *testing.T) {
	assert.IsType(t, &types.CbGetattrArgs{}, NewCbArgs(types.OP_CB_GETATTR))
	assert.IsType(t, &types.CbRecallRes{}, NewCbRes(types.OP_CB_RECALL))

	for _, opcode := range []uint32{0, 1, 2, 5, types.OP_ACCESS + 100} {
		assert.Equal(t, uint32(types.OP_CB_ILLEGAL), NewCbArgs(opcode).OpCode())
		assert.IsType(t, &types.CbIllegalRes{}, NewCbRes(opcode))
	}
}

func TestDecodeCompoundArgs_StopsAtIllegal(t *testing.T) {
	data := mustHex(t, ""+
		"00000000"+ // empty tag
		"00000000"+ // minorversion
		"00000003"+ // numops
		"00000001"+ // reserved opcode 1
		"00000018"+ // PUTROOTFH (never reached)
		"0000000a")

	d := NewDecoder(data)
	args, err := d.DecodeCompoundArgs()
	require.NoError(t, err)
	require.Len(t, args.Ops, 1)

	illegal, ok := args.Ops[0].(*types.IllegalArgs)
	require.True(t, ok)
	assert.Equal(t, uint32(1), illegal.Opcode)
	assert.Equal(t, 8, d.Remaining())
}

func TestCompoundRes_RoundTrip(t *testing.T) {
	res := &CompoundRes{
		Status: types.NFS4ERR_NOENT,
		Tag:    "walk",
		Results: []Op{
			&types.PutrootfhRes{Status: types.NFS4_OK},
			&types.GetfhRes{Status: types.NFS4_OK, Resok: &types.GetfhResOK{Object: types.NfsFh4{1, 2, 3}}},
			&types.LookupRes{Status: types.NFS4ERR_NOENT},
			&types.IllegalRes{Status: types.NFS4ERR_OP_ILLEGAL},
		},
	}

	enc := NewEncoder()
	data, err := enc.EncodeCompoundRes(res)
	require.NoError(t, err)
	assert.Zero(t, len(data)%4, "compound must be 4-byte aligned")

	d := NewDecoder(data)
	decoded, err := d.DecodeCompoundRes()
	require.NoError(t, err)
	assert.Zero(t, d.Remaining())
	assert.Equal(t, uint32(types.NFS4ERR_NOENT), decoded.Status)
	assert.Equal(t, "walk", decoded.Tag)
	require.Len(t, decoded.Results, 4)

	getfh, ok := decoded.Find(types.OP_GETFH).(*types.GetfhRes)
	require.True(t, ok)
	require.NotNil(t, getfh.Resok)
	assert.Equal(t, types.NfsFh4{1, 2, 3}, getfh.Resok.Object)
	assert.IsType(t, &types.IllegalRes{}, decoded.Last())

	again, err := enc.Encode(decoded, true)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestCbCompound_RoundTrip(t *testing.T) {
	sid := types.Stateid4{Seqid: 3, Other: [types.NFS4_OTHER_SIZE]byte{9, 9}}
	args := &CbCompoundArgs{
		Tag:           "cb",
		CallbackIdent: 0x42,
		Ops: []Op{
			&types.CbRecallArgs{Stateid: sid, Truncate: true, Fh: types.NfsFh4{0xaa}},
			&types.CbGetattrArgs{Fh: types.NfsFh4{0xbb}, AttrRequest: types.Bitmap4{0x18}},
		},
	}

	data, err := NewEncoder().Encode(args, false)
	require.NoError(t, err)

	decoded, err := NewDecoder(data).DecodeCbCompoundArgs()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x42), decoded.CallbackIdent)
	require.Len(t, decoded.Ops, 2)
	recall, ok := decoded.Ops[0].(*types.CbRecallArgs)
	require.True(t, ok)
	assert.Equal(t, sid, recall.Stateid)
	assert.True(t, recall.Truncate)

	res := &CbCompoundRes{
		Status:  types.NFS4_OK,
		Tag:     "cb",
		Results: []Op{&types.CbRecallRes{Status: types.NFS4_OK}},
	}
	resData, err := NewEncoder().EncodeCbCompoundRes(res)
	require.NoError(t, err)
	decodedRes, err := NewDecoder(resData).DecodeCbCompoundRes()
	require.NoError(t, err)
	require.Len(t, decodedRes.Results, 1)
	assert.Equal(t, uint32(types.OP_CB_RECALL), decodedRes.Results[0].OpCode())
}

func TestTryDecodeCbCompoundArgs(t *testing.T) {
	full, err := NewEncoder().EncodeCbCompoundArgs(&CbCompoundArgs{
		Tag: "probe",
		Ops: []Op{&types.CbRecallArgs{Fh: types.NfsFh4{1, 2, 3, 4}}},
	})
	require.NoError(t, err)

	t.Run("complete buffer", func(t *testing.T) {
		d := NewDecoder(full)
		args, ok, err := d.TryDecodeCbCompoundArgs()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "probe", args.Tag)
	})

	t.Run("truncated buffer restores cursor", func(t *testing.T) {
		truncated := full[:len(full)-6]
		d := NewDecoder(truncated)
		args, ok, err := d.TryDecodeCbCompoundArgs()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, args)
		assert.Equal(t, len(truncated), d.Remaining())
		assert.Zero(t, d.Offset())
	})

	t.Run("structural fault is returned", func(t *testing.T) {
		data := mustHex(t, ""+
			"00000000"+"00000000"+"00000000"+ // tag, minorversion, callback_ident
			"00000001"+ // numops
			"00000003"+ // CB_GETATTR
			"00000000"+ // empty fh
			"00000009") // bitmap with too many words
		d := NewDecoder(data)
		_, ok, err := d.TryDecodeCbCompoundArgs()
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestDecode_OpCountLimit(t *testing.T) {
	data := mustHex(t, "00000000"+"00000000"+"00000081") // 129 ops
	_, err := NewDecoder(data).DecodeCompoundArgs()
	assert.ErrorContains(t, err, "exceeds limit")
}

func TestDecode_UnknownDiscriminantFaults(t *testing.T) {
	data := mustHex(t, ""+
		"00000000"+"00000000"+"00000001"+
		"00000006"+ // CREATE
		"0000000b") // objtype 11
	_, err := NewDecoder(data).DecodeCompoundArgs()

	var de *types.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, uint32(11), de.Value)
}

func TestEncoder_DirectionMismatch(t *testing.T) {
	enc := NewEncoder()
	_, err := enc.Encode(&CompoundArgs{}, true)
	assert.ErrorIs(t, err, ErrDirectionMismatch)

	_, err = enc.Encode(&CbCompoundRes{}, false)
	assert.ErrorIs(t, err, ErrDirectionMismatch)
}

func TestEncoder_ReusesBufferSafely(t *testing.T) {
	enc := NewEncoder()
	first, err := enc.EncodeCompoundArgs(&CompoundArgs{Tag: "one", Ops: []Op{&types.GetfhArgs{}}})
	require.NoError(t, err)
	snapshot := append([]byte(nil), first...)

	_, err = enc.EncodeCompoundArgs(&CompoundArgs{Tag: "second-longer-tag"})
	require.NoError(t, err)
	assert.Equal(t, snapshot, first)
}

func TestDecoder_Reset(t *testing.T) {
	enc := NewEncoder()
	a, err := enc.EncodeCompoundArgs(&CompoundArgs{Tag: "a"})
	require.NoError(t, err)
	b, err := enc.EncodeCompoundArgs(&CompoundArgs{Tag: "b"})
	require.NoError(t, err)

	d := NewDecoder(a)
	first, err := d.DecodeCompoundArgs()
	require.NoError(t, err)
	d.Reset(b)
	second, err := d.DecodeCompoundArgs()
	require.NoError(t, err)

	assert.Equal(t, "a", first.Tag)
	assert.Equal(t, "b", second.Tag)
}

func TestCompoundRes_String(t *testing.T) {
	res := &CompoundRes{Status: types.NFS4_OK, Tag: "x", Results: []Op{&types.PutrootfhRes{}}}
	assert.Contains(t, res.String(), "status=NFS4_OK")
	assert.Contains(t, res.String(), `tag="x"`)
}

func TestCompoundRes_Failed(t *testing.T) {
	res := &CompoundRes{
		Status: types.NFS4ERR_NOENT,
		Results: []Op{
			&types.PutrootfhRes{Status: types.NFS4_OK},
			&types.LookupRes{Status: types.NFS4ERR_NOENT},
		},
	}

	idx, op := res.Failed()
	assert.Equal(t, 1, idx)
	require.NotNil(t, op)
	assert.Equal(t, uint32(types.OP_LOOKUP), op.OpCode())

	status, ok := ResultStatus(op)
	assert.True(t, ok)
	assert.Equal(t, uint32(types.NFS4ERR_NOENT), status)

	_, ok = ResultStatus(&types.LookupArgs{Objname: "x"})
	assert.False(t, ok)

	idx, op = (&CompoundRes{Results: []Op{&types.GetfhRes{}}}).Failed()
	assert.Equal(t, -1, idx)
	assert.Nil(t, op)
}

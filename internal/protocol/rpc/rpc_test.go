package rpc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helper Functions
// ============================================================================

func validAuthUnixCredentials() *UnixAuth {
	return &UnixAuth{
		Stamp:       uint32(time.Now().Unix()),
		MachineName: "testhost",
		UID:         1000,
		GID:         1000,
		GIDs:        []uint32{4, 24, 27, 30},
	}
}

func encodeAuthUnix(auth *UnixAuth) []byte {
	buf := new(bytes.Buffer)

	_ = binary.Write(buf, binary.BigEndian, auth.Stamp)

	nameLen := uint32(len(auth.MachineName))
	_ = binary.Write(buf, binary.BigEndian, nameLen)
	buf.WriteString(auth.MachineName)
	padding := (4 - (nameLen % 4)) % 4
	for i := uint32(0); i < padding; i++ {
		buf.WriteByte(0)
	}

	_ = binary.Write(buf, binary.BigEndian, auth.UID)
	_ = binary.Write(buf, binary.BigEndian, auth.GID)

	_ = binary.Write(buf, binary.BigEndian, uint32(len(auth.GIDs)))
	for _, gid := range auth.GIDs {
		_ = binary.Write(buf, binary.BigEndian, gid)
	}

	return buf.Bytes()
}

func words(vals ...uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// ============================================================================
// UnixAuth Tests
// ============================================================================

func TestUnixAuth(t *testing.T) {
	t.Run("EncodeMatchesWireFormat", func(t *testing.T) {
		auth := validAuthUnixCredentials()
		body, err := auth.Encode()
		require.NoError(t, err)
		assert.Equal(t, encodeAuthUnix(auth), body)
	})

	t.Run("ParsesValidCredentials", func(t *testing.T) {
		original := validAuthUnixCredentials()
		parsed, err := ParseUnixAuth(encodeAuthUnix(original))
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("RejectsExcessiveGroups", func(t *testing.T) {
		buf := new(bytes.Buffer)
		_ = binary.Write(buf, binary.BigEndian, uint32(12345))
		_ = binary.Write(buf, binary.BigEndian, uint32(8))
		_, _ = buf.WriteString("testhost")
		_ = binary.Write(buf, binary.BigEndian, uint32(1000))
		_ = binary.Write(buf, binary.BigEndian, uint32(1000))
		_ = binary.Write(buf, binary.BigEndian, uint32(17))

		_, err := ParseUnixAuth(buf.Bytes())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too many gids")
	})

	t.Run("RejectsLongMachineName", func(t *testing.T) {
		_, err := ParseUnixAuth(words(12345, 256))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "machine name too long")
	})

	t.Run("RejectsEmptyBody", func(t *testing.T) {
		_, err := ParseUnixAuth([]byte{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("Credential", func(t *testing.T) {
		cred, err := validAuthUnixCredentials().Credential()
		require.NoError(t, err)
		assert.Equal(t, uint32(AuthSys), cred.Flavor)
		assert.NotEmpty(t, cred.Body)
	})

	t.Run("String", func(t *testing.T) {
		str := validAuthUnixCredentials().String()
		assert.Contains(t, str, "testhost")
		assert.Contains(t, str, "[4 24 27 30]")
	})
}

// ============================================================================
// Message Tests
// ============================================================================

func TestEncodeCall(t *testing.T) {
	params := []byte{0xde, 0xad, 0xbe, 0xef}
	msg, err := EncodeCall(0x11223344, ProgramNFS, NFSVersion4, ProcCompound, AuthNoneCredential(), AuthNoneCredential(), params)
	require.NoError(t, err)

	want := append(words(0x11223344, MsgCall, RPCVersion, ProgramNFS, NFSVersion4, ProcCompound, AuthNone, 0, AuthNone, 0), params...)
	assert.Equal(t, want, msg)

	decoded, err := DecodeMessage(msg)
	require.NoError(t, err)
	require.NotNil(t, decoded.Call)
	assert.False(t, decoded.IsReply())
	assert.Equal(t, uint32(0x11223344), decoded.XID)
	assert.Equal(t, uint32(ProgramNFS), decoded.Call.Program)
	assert.Equal(t, uint32(ProcCompound), decoded.Call.Procedure)
	assert.Equal(t, params, decoded.Call.Params)
}

func TestEncodeCallWithAuthSys(t *testing.T) {
	cred, err := validAuthUnixCredentials().Credential()
	require.NoError(t, err)

	msg, err := EncodeCall(7, ProgramNFS, NFSVersion4, ProcNull, cred, AuthNoneCredential(), nil)
	require.NoError(t, err)

	decoded, err := DecodeMessage(msg)
	require.NoError(t, err)
	require.NotNil(t, decoded.Call)
	assert.Equal(t, uint32(AuthSys), decoded.Call.Cred.Flavor)

	auth, err := ParseUnixAuth(decoded.Call.Cred.Body)
	require.NoError(t, err)
	assert.Equal(t, "testhost", auth.MachineName)
	assert.Empty(t, decoded.Call.Params)
}

func TestDecodeReplies(t *testing.T) {
	t.Run("AcceptedSuccess", func(t *testing.T) {
		results := []byte{0, 0, 0, 0, 0, 0, 0, 1}
		msg, err := EncodeAcceptedReply(42, AuthNoneCredential(), AcceptSuccess, results)
		require.NoError(t, err)
		assert.Equal(t, append(words(42, MsgReply, MsgAccepted, AuthNone, 0, AcceptSuccess), results...), msg)

		decoded, err := DecodeMessage(msg)
		require.NoError(t, err)
		require.NotNil(t, decoded.Accepted)
		assert.True(t, decoded.IsReply())
		assert.Equal(t, uint32(42), decoded.XID)
		assert.Equal(t, results, decoded.Accepted.Results)
	})

	t.Run("AcceptedProgMismatch", func(t *testing.T) {
		msg := words(5, MsgReply, MsgAccepted, AuthNone, 0, AcceptProgMismatch, 2, 3)
		decoded, err := DecodeMessage(msg)
		require.NoError(t, err)
		require.NotNil(t, decoded.Accepted)
		assert.Equal(t, uint32(AcceptProgMismatch), decoded.Accepted.Stat)
		assert.Equal(t, &MismatchInfo{Low: 2, High: 3}, decoded.Accepted.Mismatch)
	})

	t.Run("RejectedAuthError", func(t *testing.T) {
		msg, err := EncodeRejectedReply(9, RejectedReply{Stat: RejectAuthError, AuthStat: AuthTooWeak})
		require.NoError(t, err)

		decoded, err := DecodeMessage(msg)
		require.NoError(t, err)
		require.NotNil(t, decoded.Rejected)
		assert.Equal(t, uint32(RejectAuthError), decoded.Rejected.Stat)
		assert.Equal(t, uint32(AuthTooWeak), decoded.Rejected.AuthStat)
	})

	t.Run("RejectedRPCMismatch", func(t *testing.T) {
		msg := words(9, MsgReply, MsgDenied, RejectRPCMismatch, 2, 2)
		decoded, err := DecodeMessage(msg)
		require.NoError(t, err)
		require.NotNil(t, decoded.Rejected)
		assert.Equal(t, &MismatchInfo{Low: 2, High: 2}, decoded.Rejected.Mismatch)
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, msg := range [][]byte{
			{0, 1},
			words(1, 7),
			words(1, MsgReply, 9),
			words(1, MsgReply, MsgDenied, 5),
		} {
			_, err := DecodeMessage(msg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedMessage))
		}
	})
}

func TestDecodeMessage_OversizedAuthBody(t *testing.T) {
	tests := map[string][]byte{
		"reply verifier":  words(7, MsgReply, MsgAccepted, AuthNone, 0x7ffffff0),
		"call credential": words(7, MsgCall, RPCVersion, ProgramNFS, NFSVersion4, 1, AuthSys, 0x7ffffff0),
		"body over limit": words(7, MsgReply, MsgAccepted, AuthNone, MaxAuthBodySize+4),
	}
	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			_, err := DecodeMessage(msg)

			runtime.ReadMemStats(&after)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedMessage))
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20), "length field must not drive allocation")
		})
	}

	// A body of exactly MaxAuthBodySize is still accepted.
	msg := append(words(7, MsgReply, MsgAccepted, AuthSys, MaxAuthBodySize), make([]byte, MaxAuthBodySize)...)
	msg = append(msg, words(AcceptSuccess)...)
	decoded, err := DecodeMessage(msg)
	require.NoError(t, err)
	assert.Len(t, decoded.Accepted.Verf.Body, MaxAuthBodySize)
}

func TestStatNames(t *testing.T) {
	assert.Equal(t, "GARBAGE_ARGS", AcceptStatName(AcceptGarbageArgs))
	assert.Equal(t, "AUTH_BADCRED", AuthStatName(AuthBadCred))
	assert.Equal(t, "UNKNOWN", AcceptStatName(99))
}

// ============================================================================
// Record Marking Tests
// ============================================================================

func TestFrameRecord(t *testing.T) {
	framed := FrameRecord([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, []byte{0x80, 0, 0, 5, 1, 2, 3, 4, 5}, framed)
}

func TestFrameRecordInto(t *testing.T) {
	dst := make([]byte, 64)
	framed := FrameRecordInto(dst, []byte{9, 9})
	assert.Equal(t, []byte{0x80, 0, 0, 2, 9, 9}, framed)
	assert.Equal(t, 64, cap(framed), "framing must reuse dst")
}

func TestRecordDecoder(t *testing.T) {
	t.Run("ByteAtATime", func(t *testing.T) {
		stream := append(FrameRecord([]byte("first")), FrameRecord([]byte("second!"))...)

		d := NewRecordDecoder()
		var records [][]byte
		for _, b := range stream {
			d.Push([]byte{b})
			for {
				rec, ok, err := d.ReadRecord()
				require.NoError(t, err)
				if !ok {
					break
				}
				records = append(records, rec)
			}
		}

		require.Len(t, records, 2)
		assert.Equal(t, "first", string(records[0]))
		assert.Equal(t, "second!", string(records[1]))
		assert.Zero(t, d.Buffered())
	})

	t.Run("MultipleFragments", func(t *testing.T) {
		var stream []byte
		stream = binary.BigEndian.AppendUint32(stream, 3)
		stream = append(stream, 'a', 'b', 'c')
		stream = binary.BigEndian.AppendUint32(stream, 2|0x80000000)
		stream = append(stream, 'd', 'e')

		d := NewRecordDecoder()
		d.Push(stream[:5])
		_, ok, err := d.ReadRecord()
		require.NoError(t, err)
		assert.False(t, ok)

		d.Push(stream[5:])
		rec, ok, err := d.ReadRecord()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "abcde", string(rec))
	})

	t.Run("RejectsOversizedFragment", func(t *testing.T) {
		d := NewRecordDecoder()
		d.Push(words(0x80000000 | (MaxRecordSize + 1)))
		_, _, err := d.ReadRecord()
		assert.ErrorIs(t, err, ErrRecordTooLarge)
	})
}

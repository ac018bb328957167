package rpc

import (
	"bytes"
	"errors"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// OpaqueAuth represents authentication credentials or verifiers.
//
// Reference: RFC 5531 Section 8.2 (opaque_auth)
type OpaqueAuth struct {
	Flavor uint32
	Body   []byte
}

// AuthNoneCredential returns the empty AUTH_NONE credential or verifier.
func AuthNoneCredential() OpaqueAuth {
	return OpaqueAuth{Flavor: AuthNone, Body: []byte{}}
}

// callHeader is the fixed part of a CALL message up to the verifier.
//
// Wire Format (XDR encoding):
//   - XID, MsgType (0), RPCVersion (2), Program, Version, Procedure
//   - Cred, Verf (opaque_auth each)
//   - [procedure-specific parameters follow]
type callHeader struct {
	XID        uint32
	MsgType    uint32
	RPCVersion uint32
	Program    uint32
	Version    uint32
	Procedure  uint32
	Cred       OpaqueAuth
	Verf       OpaqueAuth
}

// messageHead is the prefix shared by every RPC message.
type messageHead struct {
	XID     uint32
	MsgType uint32
}

// callBodyHead follows messageHead in a CALL.
type callBodyHead struct {
	RPCVersion uint32
	Program    uint32
	Version    uint32
	Procedure  uint32
	Cred       OpaqueAuth
	Verf       OpaqueAuth
}

// acceptedHead follows reply_stat == MSG_ACCEPTED.
type acceptedHead struct {
	Verf OpaqueAuth
	Stat uint32
}

// MismatchInfo carries the supported version range of a PROG_MISMATCH or
// RPC_MISMATCH reply.
type MismatchInfo struct {
	Low  uint32
	High uint32
}

// CallBody is a decoded CALL message.
type CallBody struct {
	Program   uint32
	Version   uint32
	Procedure uint32
	Cred      OpaqueAuth
	Verf      OpaqueAuth

	// Params holds the procedure arguments that follow the header.
	Params []byte
}

// AcceptedReply is a decoded MSG_ACCEPTED reply.
type AcceptedReply struct {
	Verf OpaqueAuth
	Stat uint32

	// Mismatch is set only when Stat is PROG_MISMATCH.
	Mismatch *MismatchInfo

	// Results holds the procedure results that follow a SUCCESS status.
	// It is empty for procedures without results (NULL).
	Results []byte
}

// RejectedReply is a decoded MSG_DENIED reply.
type RejectedReply struct {
	Stat uint32

	// Mismatch is set when Stat is RPC_MISMATCH.
	Mismatch *MismatchInfo

	// AuthStat is meaningful when Stat is AUTH_ERROR.
	AuthStat uint32
}

// Message is one decoded RPC message. Exactly one of Call, Accepted and
// Rejected is non-nil.
type Message struct {
	XID      uint32
	Call     *CallBody
	Accepted *AcceptedReply
	Rejected *RejectedReply
}

// IsReply reports whether the message is a REPLY (accepted or rejected).
func (m *Message) IsReply() bool {
	return m.Accepted != nil || m.Rejected != nil
}

// ErrMalformedMessage is wrapped by every DecodeMessage failure.
var ErrMalformedMessage = errors.New("malformed RPC message")

// ============================================================================
// Encoding
// ============================================================================

// EncodeCall builds a CALL message (without the record mark) carrying params
// as the procedure arguments.
func EncodeCall(xid, program, version, procedure uint32, cred, verf OpaqueAuth, params []byte) ([]byte, error) {
	if len(cred.Body) > MaxAuthBodySize || len(verf.Body) > MaxAuthBodySize {
		return nil, fmt.Errorf("auth body exceeds %d bytes", MaxAuthBodySize)
	}

	hdr := callHeader{
		XID:        xid,
		MsgType:    MsgCall,
		RPCVersion: RPCVersion,
		Program:    program,
		Version:    version,
		Procedure:  procedure,
		Cred:       normalizeAuth(cred),
		Verf:       normalizeAuth(verf),
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &hdr); err != nil {
		return nil, fmt.Errorf("marshal RPC call header: %w", err)
	}
	buf.Write(params)
	return buf.Bytes(), nil
}

// EncodeAcceptedReply builds a MSG_ACCEPTED reply with the given accept_stat.
// results are appended after the header; they are only meaningful for
// SUCCESS. Used by callback responders and by test servers.
func EncodeAcceptedReply(xid uint32, verf OpaqueAuth, stat uint32, results []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &messageHead{XID: xid, MsgType: MsgReply}); err != nil {
		return nil, fmt.Errorf("marshal reply head: %w", err)
	}
	if _, err := xdr.Marshal(&buf, uint32(MsgAccepted)); err != nil {
		return nil, fmt.Errorf("marshal reply stat: %w", err)
	}
	if _, err := xdr.Marshal(&buf, &acceptedHead{Verf: normalizeAuth(verf), Stat: stat}); err != nil {
		return nil, fmt.Errorf("marshal accepted reply: %w", err)
	}
	buf.Write(results)
	return buf.Bytes(), nil
}

// EncodeRejectedReply builds a MSG_DENIED reply. For AUTH_ERROR the detail
// is the auth_stat; for RPC_MISMATCH it is the supported version range.
func EncodeRejectedReply(xid uint32, rej RejectedReply) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &messageHead{XID: xid, MsgType: MsgReply}); err != nil {
		return nil, fmt.Errorf("marshal reply head: %w", err)
	}

	fields := []uint32{MsgDenied, rej.Stat}
	switch rej.Stat {
	case RejectRPCMismatch:
		mm := MismatchInfo{Low: RPCVersion, High: RPCVersion}
		if rej.Mismatch != nil {
			mm = *rej.Mismatch
		}
		fields = append(fields, mm.Low, mm.High)
	case RejectAuthError:
		fields = append(fields, rej.AuthStat)
	default:
		return nil, fmt.Errorf("unknown reject_stat %d", rej.Stat)
	}

	for _, f := range fields {
		if _, err := xdr.Marshal(&buf, f); err != nil {
			return nil, fmt.Errorf("marshal rejected reply: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func normalizeAuth(a OpaqueAuth) OpaqueAuth {
	if a.Body == nil {
		a.Body = []byte{}
	}
	return a
}

// ============================================================================
// Decoding
// ============================================================================

// DecodeMessage parses one complete RPC message (a reassembled record).
//
// The returned payload slices (Params, Results) alias data.
func DecodeMessage(data []byte) (*Message, error) {
	r := bytes.NewReader(data)

	var head messageHead
	if _, err := unmarshal(r, &head); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedMessage, err)
	}

	msg := &Message{XID: head.XID}

	switch head.MsgType {
	case MsgCall:
		var body callBodyHead
		if _, err := unmarshal(r, &body); err != nil {
			return nil, fmt.Errorf("%w: call body: %v", ErrMalformedMessage, err)
		}
		if body.RPCVersion != RPCVersion {
			return nil, fmt.Errorf("%w: rpc version %d", ErrMalformedMessage, body.RPCVersion)
		}
		msg.Call = &CallBody{
			Program:   body.Program,
			Version:   body.Version,
			Procedure: body.Procedure,
			Cred:      body.Cred,
			Verf:      body.Verf,
			Params:    rest(data, r),
		}
		return msg, nil

	case MsgReply:
		var replyStat uint32
		if _, err := unmarshal(r, &replyStat); err != nil {
			return nil, fmt.Errorf("%w: reply_stat: %v", ErrMalformedMessage, err)
		}
		switch replyStat {
		case MsgAccepted:
			acc, err := decodeAccepted(data, r)
			if err != nil {
				return nil, err
			}
			msg.Accepted = acc
			return msg, nil
		case MsgDenied:
			rej, err := decodeRejected(r)
			if err != nil {
				return nil, err
			}
			msg.Rejected = rej
			return msg, nil
		default:
			return nil, fmt.Errorf("%w: reply_stat %d", ErrMalformedMessage, replyStat)
		}

	default:
		return nil, fmt.Errorf("%w: msg_type %d", ErrMalformedMessage, head.MsgType)
	}
}

func decodeAccepted(data []byte, r *bytes.Reader) (*AcceptedReply, error) {
	var head acceptedHead
	if _, err := unmarshal(r, &head); err != nil {
		return nil, fmt.Errorf("%w: accepted reply: %v", ErrMalformedMessage, err)
	}

	acc := &AcceptedReply{Verf: head.Verf, Stat: head.Stat}
	switch head.Stat {
	case AcceptSuccess:
		acc.Results = rest(data, r)
	case AcceptProgMismatch:
		var mm MismatchInfo
		if _, err := unmarshal(r, &mm); err != nil {
			return nil, fmt.Errorf("%w: mismatch info: %v", ErrMalformedMessage, err)
		}
		acc.Mismatch = &mm
	}
	return acc, nil
}

func decodeRejected(r *bytes.Reader) (*RejectedReply, error) {
	var stat uint32
	if _, err := unmarshal(r, &stat); err != nil {
		return nil, fmt.Errorf("%w: reject_stat: %v", ErrMalformedMessage, err)
	}

	rej := &RejectedReply{Stat: stat}
	switch stat {
	case RejectRPCMismatch:
		var mm MismatchInfo
		if _, err := unmarshal(r, &mm); err != nil {
			return nil, fmt.Errorf("%w: mismatch info: %v", ErrMalformedMessage, err)
		}
		rej.Mismatch = &mm
	case RejectAuthError:
		if _, err := unmarshal(r, &rej.AuthStat); err != nil {
			return nil, fmt.Errorf("%w: auth_stat: %v", ErrMalformedMessage, err)
		}
	default:
		return nil, fmt.Errorf("%w: reject_stat %d", ErrMalformedMessage, stat)
	}
	return rej, nil
}

// unmarshal decodes one header struct from r. Every variable-length field
// in an RPC header is an opaque_auth body, so the length is capped at
// MaxAuthBodySize before anything is allocated.
func unmarshal(r *bytes.Reader, v any) (int, error) {
	return xdr.UnmarshalLimited(r, v, MaxAuthBodySize)
}

// rest returns the unread tail of data.
func rest(data []byte, r *bytes.Reader) []byte {
	return data[len(data)-r.Len():]
}

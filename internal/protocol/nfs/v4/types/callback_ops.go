// Package types - callback operations (RFC 7530 Sections 16.39-16.41 and
// 20).
//
// The server sends CB_COMPOUND to the callback program registered with
// SETCLIENTID. NFSv4.0 defines only CB_GETATTR and CB_RECALL; every other
// opcode is answered with CB_ILLEGAL.
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// CB_GETATTR
// ============================================================================

// CbGetattrArgs asks the client holding a write delegation for the current
// size and change attributes of Fh.
type CbGetattrArgs struct {
	Fh          NfsFh4
	AttrRequest Bitmap4
}

func (a *CbGetattrArgs) OpCode() uint32 { return OP_CB_GETATTR }

// Encode writes the CB_GETATTR args in XDR format.
func (a *CbGetattrArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeNfsFh4(buf, a.Fh); err != nil {
		return err
	}
	return EncodeBitmap4(buf, a.AttrRequest)
}

// Decode reads the CB_GETATTR args from XDR format.
func (a *CbGetattrArgs) Decode(r io.Reader) error {
	fh, err := DecodeNfsFh4(r)
	if err != nil {
		return err
	}
	mask, err := DecodeBitmap4(r)
	if err != nil {
		return fmt.Errorf("decode cb_getattr attr_request: %w", err)
	}
	a.Fh, a.AttrRequest = fh, mask
	return nil
}

func (a *CbGetattrArgs) String() string {
	return fmt.Sprintf("CbGetattrArgs{fh=%s, request=%v}", a.Fh, a.AttrRequest)
}

// CbGetattrResOK carries the client's view of the attributes.
type CbGetattrResOK struct {
	ObjAttributes Fattr4
}

// CbGetattrRes represents CB_GETATTR4res.
type CbGetattrRes struct {
	Status uint32
	Resok  *CbGetattrResOK
}

func (res *CbGetattrRes) OpCode() uint32 { return OP_CB_GETATTR }

// Encode writes the CB_GETATTR result in XDR format.
func (res *CbGetattrRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode cb_getattr status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("cb_getattr")
	}
	return EncodeFattr4(buf, &res.Resok.ObjAttributes)
}

// Decode reads the CB_GETATTR result from XDR format.
func (res *CbGetattrRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "cb_getattr")
	if err != nil {
		return err
	}
	*res = CbGetattrRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	ok := &CbGetattrResOK{}
	if err := decodeFattrInto(r, &ok.ObjAttributes); err != nil {
		return err
	}
	res.Resok = ok
	return nil
}

func (res *CbGetattrRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("CbGetattrRes{status=OK, mask=%v}", res.Resok.ObjAttributes.Attrmask)
	}
	return statusOnlyString("CbGetattrRes", res.Status)
}

// ============================================================================
// CB_RECALL
// ============================================================================

// CbRecallArgs recalls the delegation Stateid on Fh. Truncate hints that
// the file is about to be truncated, so dirty data need not be flushed.
type CbRecallArgs struct {
	Stateid  Stateid4
	Truncate bool
	Fh       NfsFh4
}

func (a *CbRecallArgs) OpCode() uint32 { return OP_CB_RECALL }

// Encode writes the CB_RECALL args in XDR format.
func (a *CbRecallArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeStateid4(buf, &a.Stateid); err != nil {
		return err
	}
	if err := xdr.WriteBool(buf, a.Truncate); err != nil {
		return err
	}
	return EncodeNfsFh4(buf, a.Fh)
}

// Decode reads the CB_RECALL args from XDR format.
func (a *CbRecallArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	truncate, err := xdr.DecodeBool(r)
	if err != nil {
		return fmt.Errorf("decode cb_recall truncate: %w", err)
	}
	fh, err := DecodeNfsFh4(r)
	if err != nil {
		return err
	}
	a.Stateid, a.Truncate, a.Fh = *sid, truncate, fh
	return nil
}

func (a *CbRecallArgs) String() string {
	return fmt.Sprintf("CbRecallArgs{stateid=%s, truncate=%t, fh=%s}", a.Stateid.String(), a.Truncate, a.Fh)
}

// CbRecallRes represents CB_RECALL4res.
type CbRecallRes struct {
	Status uint32
}

func (res *CbRecallRes) OpCode() uint32                 { return OP_CB_RECALL }
func (res *CbRecallRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *CbRecallRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "cb_recall", &res.Status) }
func (res *CbRecallRes) String() string                 { return statusOnlyString("CbRecallRes", res.Status) }

// ============================================================================
// CB_ILLEGAL
// ============================================================================

// CbIllegalArgs stands in for an unknown callback opcode. Like IllegalArgs
// it has no body; Opcode is diagnostic only.
type CbIllegalArgs struct {
	Opcode uint32
}

func (a *CbIllegalArgs) OpCode() uint32                 { return OP_CB_ILLEGAL }
func (a *CbIllegalArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *CbIllegalArgs) Decode(r io.Reader) error       { return nil }
func (a *CbIllegalArgs) String() string                 { return fmt.Sprintf("CbIllegalArgs{opcode=%d}", a.Opcode) }

// CbIllegalRes represents CB_ILLEGAL4res.
type CbIllegalRes struct {
	Status uint32
}

func (res *CbIllegalRes) OpCode() uint32                 { return OP_CB_ILLEGAL }
func (res *CbIllegalRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *CbIllegalRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "cb_illegal", &res.Status) }
func (res *CbIllegalRes) String() string                 { return statusOnlyString("CbIllegalRes", res.Status) }

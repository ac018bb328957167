// Package types - attribute operations (RFC 7530 Sections 16.1, 16.7,
// 16.15, 16.17, 16.32, 16.35).
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// ACCESS
// ============================================================================

// AccessArgs asks which of the ACCESS4_* bits the caller holds.
type AccessArgs struct {
	Access uint32
}

func (a *AccessArgs) OpCode() uint32 { return OP_ACCESS }

// Encode writes the ACCESS args in XDR format.
func (a *AccessArgs) Encode(buf *bytes.Buffer) error {
	return xdr.WriteUint32(buf, a.Access)
}

// Decode reads the ACCESS args from XDR format.
func (a *AccessArgs) Decode(r io.Reader) error {
	access, err := xdr.DecodeUint32(r)
	if err != nil {
		return fmt.Errorf("decode access mask: %w", err)
	}
	a.Access = access
	return nil
}

func (a *AccessArgs) String() string { return fmt.Sprintf("AccessArgs{access=0x%02x}", a.Access) }

// AccessResOK reports the bits the server could check and those granted.
//
//	struct ACCESS4resok {
//	    uint32_t supported;
//	    uint32_t access;
//	};
type AccessResOK struct {
	Supported uint32
	Access    uint32
}

// AccessRes represents ACCESS4res.
type AccessRes struct {
	Status uint32
	Resok  *AccessResOK
}

func (res *AccessRes) OpCode() uint32 { return OP_ACCESS }

// Encode writes the ACCESS result in XDR format.
func (res *AccessRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode access status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("access")
	}
	if err := xdr.WriteUint32(buf, res.Resok.Supported); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, res.Resok.Access)
}

// Decode reads the ACCESS result from XDR format.
func (res *AccessRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "access")
	if err != nil {
		return err
	}
	*res = AccessRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	ok := &AccessResOK{}
	if ok.Supported, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode access supported: %w", err)
	}
	if ok.Access, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode access granted: %w", err)
	}
	res.Resok = ok
	return nil
}

// String returns a human-readable representation.
func (res *AccessRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("AccessRes{status=OK, supported=0x%02x, access=0x%02x}", res.Resok.Supported, res.Resok.Access)
	}
	return statusOnlyString("AccessRes", res.Status)
}

// ============================================================================
// GETATTR
// ============================================================================

// GetattrArgs requests the attributes selected by AttrRequest.
type GetattrArgs struct {
	AttrRequest Bitmap4
}

func (a *GetattrArgs) OpCode() uint32 { return OP_GETATTR }

// Encode writes the GETATTR args in XDR format.
func (a *GetattrArgs) Encode(buf *bytes.Buffer) error {
	return EncodeBitmap4(buf, a.AttrRequest)
}

// Decode reads the GETATTR args from XDR format.
func (a *GetattrArgs) Decode(r io.Reader) error {
	mask, err := DecodeBitmap4(r)
	if err != nil {
		return err
	}
	a.AttrRequest = mask
	return nil
}

func (a *GetattrArgs) String() string { return fmt.Sprintf("GetattrArgs{request=%v}", a.AttrRequest) }

// GetattrResOK carries the requested attributes.
type GetattrResOK struct {
	ObjAttributes Fattr4
}

// GetattrRes represents GETATTR4res.
type GetattrRes struct {
	Status uint32
	Resok  *GetattrResOK
}

func (res *GetattrRes) OpCode() uint32 { return OP_GETATTR }

// Encode writes the GETATTR result in XDR format.
func (res *GetattrRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode getattr status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("getattr")
	}
	return EncodeFattr4(buf, &res.Resok.ObjAttributes)
}

// Decode reads the GETATTR result from XDR format.
func (res *GetattrRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "getattr")
	if err != nil {
		return err
	}
	*res = GetattrRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	attrs, err := DecodeFattr4(r)
	if err != nil {
		return err
	}
	res.Resok = &GetattrResOK{ObjAttributes: *attrs}
	return nil
}

// String returns a human-readable representation.
func (res *GetattrRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("GetattrRes{status=OK, mask=%v, bytes=%d}",
			res.Resok.ObjAttributes.Attrmask, len(res.Resok.ObjAttributes.AttrVals))
	}
	return statusOnlyString("GetattrRes", res.Status)
}

// ============================================================================
// SETATTR
// ============================================================================

// SetattrArgs sets ObjAttributes on the current filehandle. Stateid is
// required when the size changes and is otherwise the anonymous stateid.
type SetattrArgs struct {
	Stateid       Stateid4
	ObjAttributes Fattr4
}

func (a *SetattrArgs) OpCode() uint32 { return OP_SETATTR }

// Encode writes the SETATTR args in XDR format.
func (a *SetattrArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeStateid4(buf, &a.Stateid); err != nil {
		return err
	}
	return EncodeFattr4(buf, &a.ObjAttributes)
}

// Decode reads the SETATTR args from XDR format.
func (a *SetattrArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	attrs, err := DecodeFattr4(r)
	if err != nil {
		return err
	}
	a.Stateid = *sid
	a.ObjAttributes = *attrs
	return nil
}

func (a *SetattrArgs) String() string {
	return fmt.Sprintf("SetattrArgs{stateid=%s, mask=%v}", a.Stateid.String(), a.ObjAttributes.Attrmask)
}

// SetattrRes represents SETATTR4res. Unlike most results the attrsset
// bitmap is present for every status.
//
//	struct SETATTR4res {
//	    nfsstat4 status;
//	    bitmap4  attrsset;
//	};
type SetattrRes struct {
	Status   uint32
	Attrsset Bitmap4
}

func (res *SetattrRes) OpCode() uint32 { return OP_SETATTR }

// Encode writes the SETATTR result in XDR format.
func (res *SetattrRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode setattr status: %w", err)
	}
	return EncodeBitmap4(buf, res.Attrsset)
}

// Decode reads the SETATTR result from XDR format.
func (res *SetattrRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "setattr")
	if err != nil {
		return err
	}
	set, err := DecodeBitmap4(r)
	if err != nil {
		return fmt.Errorf("decode setattr attrsset: %w", err)
	}
	*res = SetattrRes{Status: status, Attrsset: set}
	return nil
}

func (res *SetattrRes) String() string {
	return fmt.Sprintf("SetattrRes{status=%s, attrsset=%v}", statusString(res.Status), res.Attrsset)
}

// ============================================================================
// VERIFY / NVERIFY
// ============================================================================

// VerifyArgs succeeds when ObjAttributes match the object (else NFS4ERR_NOT_SAME).
type VerifyArgs struct {
	ObjAttributes Fattr4
}

func (a *VerifyArgs) OpCode() uint32                 { return OP_VERIFY }
func (a *VerifyArgs) Encode(buf *bytes.Buffer) error { return EncodeFattr4(buf, &a.ObjAttributes) }
func (a *VerifyArgs) Decode(r io.Reader) error       { return decodeFattrInto(r, &a.ObjAttributes) }
func (a *VerifyArgs) String() string {
	return fmt.Sprintf("VerifyArgs{mask=%v}", a.ObjAttributes.Attrmask)
}

// VerifyRes represents VERIFY4res.
type VerifyRes struct {
	Status uint32
}

func (res *VerifyRes) OpCode() uint32                 { return OP_VERIFY }
func (res *VerifyRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *VerifyRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "verify", &res.Status) }
func (res *VerifyRes) String() string                 { return statusOnlyString("VerifyRes", res.Status) }

// NverifyArgs succeeds when ObjAttributes differ from the object (else NFS4ERR_SAME).
type NverifyArgs struct {
	ObjAttributes Fattr4
}

func (a *NverifyArgs) OpCode() uint32                 { return OP_NVERIFY }
func (a *NverifyArgs) Encode(buf *bytes.Buffer) error { return EncodeFattr4(buf, &a.ObjAttributes) }
func (a *NverifyArgs) Decode(r io.Reader) error       { return decodeFattrInto(r, &a.ObjAttributes) }
func (a *NverifyArgs) String() string {
	return fmt.Sprintf("NverifyArgs{mask=%v}", a.ObjAttributes.Attrmask)
}

// NverifyRes represents NVERIFY4res.
type NverifyRes struct {
	Status uint32
}

func (res *NverifyRes) OpCode() uint32                 { return OP_NVERIFY }
func (res *NverifyRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *NverifyRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "nverify", &res.Status) }
func (res *NverifyRes) String() string                 { return statusOnlyString("NverifyRes", res.Status) }

func decodeFattrInto(r io.Reader, dst *Fattr4) error {
	attrs, err := DecodeFattr4(r)
	if err != nil {
		return err
	}
	*dst = *attrs
	return nil
}

// ============================================================================
// OPENATTR
// ============================================================================

// OpenattrArgs moves to the named attribute directory, creating it when
// Createdir is set.
type OpenattrArgs struct {
	Createdir bool
}

func (a *OpenattrArgs) OpCode() uint32                 { return OP_OPENATTR }
func (a *OpenattrArgs) Encode(buf *bytes.Buffer) error { return xdr.WriteBool(buf, a.Createdir) }

// Decode reads the OPENATTR args from XDR format.
func (a *OpenattrArgs) Decode(r io.Reader) error {
	v, err := xdr.DecodeBool(r)
	if err != nil {
		return fmt.Errorf("decode openattr createdir: %w", err)
	}
	a.Createdir = v
	return nil
}

func (a *OpenattrArgs) String() string { return fmt.Sprintf("OpenattrArgs{createdir=%t}", a.Createdir) }

// OpenattrRes represents OPENATTR4res.
type OpenattrRes struct {
	Status uint32
}

func (res *OpenattrRes) OpCode() uint32                 { return OP_OPENATTR }
func (res *OpenattrRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *OpenattrRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "openattr", &res.Status) }
func (res *OpenattrRes) String() string                 { return statusOnlyString("OpenattrRes", res.Status) }

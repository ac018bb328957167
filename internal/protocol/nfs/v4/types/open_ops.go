// Package types - open state operations (RFC 7530 Sections 16.2, 16.5,
// 16.6, 16.16, 16.18, 16.19).
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// OPEN
// ============================================================================

// OpenArgs opens (and optionally creates) a regular file.
//
//	struct OPEN4args {
//	    seqid4     seqid;
//	    uint32_t   share_access;
//	    uint32_t   share_deny;
//	    open_owner4 owner;
//	    openflag4  openhow;
//	    open_claim4 claim;
//	};
type OpenArgs struct {
	Seqid       uint32
	ShareAccess uint32
	ShareDeny   uint32
	Owner       OpenOwner4
	Openhow     OpenFlag4
	Claim       OpenClaim4
}

func (a *OpenArgs) OpCode() uint32 { return OP_OPEN }

// Encode writes the OPEN args in XDR format.
func (a *OpenArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, a.Seqid); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.ShareAccess); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.ShareDeny); err != nil {
		return err
	}
	if err := EncodeStateOwner4(buf, &a.Owner); err != nil {
		return err
	}
	if err := a.Openhow.Encode(buf); err != nil {
		return err
	}
	return a.Claim.Encode(buf)
}

// Decode reads the OPEN args from XDR format.
func (a *OpenArgs) Decode(r io.Reader) error {
	var err error
	if a.Seqid, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open seqid: %w", err)
	}
	if a.ShareAccess, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open share_access: %w", err)
	}
	if a.ShareDeny, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open share_deny: %w", err)
	}
	owner, err := DecodeStateOwner4(r)
	if err != nil {
		return err
	}
	a.Owner = *owner
	if err := a.Openhow.Decode(r); err != nil {
		return err
	}
	return a.Claim.Decode(r)
}

func (a *OpenArgs) String() string {
	return fmt.Sprintf("OpenArgs{seqid=%d, access=%d, deny=%d, owner=%s, how=%s, claim=%s}",
		a.Seqid, a.ShareAccess, a.ShareDeny, a.Owner.String(), a.Openhow.String(), a.Claim.String())
}

// OpenResOK is the successful OPEN result.
type OpenResOK struct {
	Stateid    Stateid4
	Cinfo      ChangeInfo4
	Rflags     uint32
	Attrset    Bitmap4
	Delegation OpenDelegation4
}

// NeedsConfirm reports whether OPEN_CONFIRM must follow before the open
// stateid can be used.
func (ok *OpenResOK) NeedsConfirm() bool {
	return ok.Rflags&OPEN4_RESULT_CONFIRM != 0
}

// OpenRes represents OPEN4res.
type OpenRes struct {
	Status uint32
	Resok  *OpenResOK
}

func (res *OpenRes) OpCode() uint32 { return OP_OPEN }

// Encode writes the OPEN result in XDR format.
func (res *OpenRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode open status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("open")
	}
	ok := res.Resok
	if err := EncodeStateid4(buf, &ok.Stateid); err != nil {
		return err
	}
	if err := EncodeChangeInfo4(buf, &ok.Cinfo); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, ok.Rflags); err != nil {
		return err
	}
	if err := EncodeBitmap4(buf, ok.Attrset); err != nil {
		return err
	}
	return ok.Delegation.Encode(buf)
}

// Decode reads the OPEN result from XDR format.
func (res *OpenRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "open")
	if err != nil {
		return err
	}
	*res = OpenRes{Status: status}
	if status != NFS4_OK {
		return nil
	}

	ok := &OpenResOK{}
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	ok.Stateid = *sid
	cinfo, err := DecodeChangeInfo4(r)
	if err != nil {
		return err
	}
	ok.Cinfo = *cinfo
	if ok.Rflags, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open rflags: %w", err)
	}
	if ok.Attrset, err = DecodeBitmap4(r); err != nil {
		return fmt.Errorf("decode open attrset: %w", err)
	}
	if err := ok.Delegation.Decode(r); err != nil {
		return err
	}
	res.Resok = ok
	return nil
}

func (res *OpenRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("OpenRes{status=OK, stateid=%s, rflags=0x%x, delegation=%s}",
			res.Resok.Stateid.String(), res.Resok.Rflags, res.Resok.Delegation.String())
	}
	return statusOnlyString("OpenRes", res.Status)
}

// ============================================================================
// Stateid-only results
// ============================================================================

// OpenStateidResOK is the resok shared by OPEN_CONFIRM, OPEN_DOWNGRADE and
// CLOSE: the updated open stateid.
type OpenStateidResOK struct {
	OpenStateid Stateid4
}

func encodeStateidRes(buf *bytes.Buffer, op string, status uint32, ok *OpenStateidResOK) error {
	if err := xdr.WriteUint32(buf, status); err != nil {
		return fmt.Errorf("encode %s status: %w", op, err)
	}
	if status != NFS4_OK {
		return nil
	}
	if ok == nil {
		return errResokNotSet(op)
	}
	return EncodeStateid4(buf, &ok.OpenStateid)
}

func decodeStateidRes(r io.Reader, op string) (uint32, *OpenStateidResOK, error) {
	status, err := decodeStatus(r, op)
	if err != nil {
		return 0, nil, err
	}
	if status != NFS4_OK {
		return status, nil, nil
	}
	sid, err := DecodeStateid4(r)
	if err != nil {
		return 0, nil, fmt.Errorf("decode %s stateid: %w", op, err)
	}
	return status, &OpenStateidResOK{OpenStateid: *sid}, nil
}

func stateidResString(name string, status uint32, ok *OpenStateidResOK) string {
	if ok != nil {
		return fmt.Sprintf("%s{status=OK, stateid=%s}", name, ok.OpenStateid.String())
	}
	return statusOnlyString(name, status)
}

// ============================================================================
// OPEN_CONFIRM
// ============================================================================

// OpenConfirmArgs confirms a freshly opened stateid.
type OpenConfirmArgs struct {
	OpenStateid Stateid4
	Seqid       uint32
}

func (a *OpenConfirmArgs) OpCode() uint32 { return OP_OPEN_CONFIRM }

// Encode writes the OPEN_CONFIRM args in XDR format.
func (a *OpenConfirmArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeStateid4(buf, &a.OpenStateid); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, a.Seqid)
}

// Decode reads the OPEN_CONFIRM args from XDR format.
func (a *OpenConfirmArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	seqid, err := xdr.DecodeUint32(r)
	if err != nil {
		return fmt.Errorf("decode open_confirm seqid: %w", err)
	}
	a.OpenStateid, a.Seqid = *sid, seqid
	return nil
}

func (a *OpenConfirmArgs) String() string {
	return fmt.Sprintf("OpenConfirmArgs{stateid=%s, seqid=%d}", a.OpenStateid.String(), a.Seqid)
}

// OpenConfirmRes represents OPEN_CONFIRM4res.
type OpenConfirmRes struct {
	Status uint32
	Resok  *OpenStateidResOK
}

func (res *OpenConfirmRes) OpCode() uint32 { return OP_OPEN_CONFIRM }

func (res *OpenConfirmRes) Encode(buf *bytes.Buffer) error {
	return encodeStateidRes(buf, "open_confirm", res.Status, res.Resok)
}

func (res *OpenConfirmRes) Decode(r io.Reader) error {
	status, ok, err := decodeStateidRes(r, "open_confirm")
	if err != nil {
		return err
	}
	*res = OpenConfirmRes{Status: status, Resok: ok}
	return nil
}

func (res *OpenConfirmRes) String() string {
	return stateidResString("OpenConfirmRes", res.Status, res.Resok)
}

// ============================================================================
// OPEN_DOWNGRADE
// ============================================================================

// OpenDowngradeArgs reduces the share access and deny of an open.
type OpenDowngradeArgs struct {
	OpenStateid Stateid4
	Seqid       uint32
	ShareAccess uint32
	ShareDeny   uint32
}

func (a *OpenDowngradeArgs) OpCode() uint32 { return OP_OPEN_DOWNGRADE }

// Encode writes the OPEN_DOWNGRADE args in XDR format.
func (a *OpenDowngradeArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeStateid4(buf, &a.OpenStateid); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.Seqid); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.ShareAccess); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, a.ShareDeny)
}

// Decode reads the OPEN_DOWNGRADE args from XDR format.
func (a *OpenDowngradeArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	a.OpenStateid = *sid
	if a.Seqid, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open_downgrade seqid: %w", err)
	}
	if a.ShareAccess, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open_downgrade share_access: %w", err)
	}
	if a.ShareDeny, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode open_downgrade share_deny: %w", err)
	}
	return nil
}

func (a *OpenDowngradeArgs) String() string {
	return fmt.Sprintf("OpenDowngradeArgs{stateid=%s, seqid=%d, access=%d, deny=%d}",
		a.OpenStateid.String(), a.Seqid, a.ShareAccess, a.ShareDeny)
}

// OpenDowngradeRes represents OPEN_DOWNGRADE4res.
type OpenDowngradeRes struct {
	Status uint32
	Resok  *OpenStateidResOK
}

func (res *OpenDowngradeRes) OpCode() uint32 { return OP_OPEN_DOWNGRADE }

func (res *OpenDowngradeRes) Encode(buf *bytes.Buffer) error {
	return encodeStateidRes(buf, "open_downgrade", res.Status, res.Resok)
}

func (res *OpenDowngradeRes) Decode(r io.Reader) error {
	status, ok, err := decodeStateidRes(r, "open_downgrade")
	if err != nil {
		return err
	}
	*res = OpenDowngradeRes{Status: status, Resok: ok}
	return nil
}

func (res *OpenDowngradeRes) String() string {
	return stateidResString("OpenDowngradeRes", res.Status, res.Resok)
}

// ============================================================================
// CLOSE
// ============================================================================

// CloseArgs releases the open identified by OpenStateid.
type CloseArgs struct {
	Seqid       uint32
	OpenStateid Stateid4
}

func (a *CloseArgs) OpCode() uint32 { return OP_CLOSE }

// Encode writes the CLOSE args in XDR format.
func (a *CloseArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, a.Seqid); err != nil {
		return err
	}
	return EncodeStateid4(buf, &a.OpenStateid)
}

// Decode reads the CLOSE args from XDR format.
func (a *CloseArgs) Decode(r io.Reader) error {
	seqid, err := xdr.DecodeUint32(r)
	if err != nil {
		return fmt.Errorf("decode close seqid: %w", err)
	}
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	a.Seqid, a.OpenStateid = seqid, *sid
	return nil
}

func (a *CloseArgs) String() string {
	return fmt.Sprintf("CloseArgs{seqid=%d, stateid=%s}", a.Seqid, a.OpenStateid.String())
}

// CloseRes represents CLOSE4res.
type CloseRes struct {
	Status uint32
	Resok  *OpenStateidResOK
}

func (res *CloseRes) OpCode() uint32 { return OP_CLOSE }

func (res *CloseRes) Encode(buf *bytes.Buffer) error {
	return encodeStateidRes(buf, "close", res.Status, res.Resok)
}

func (res *CloseRes) Decode(r io.Reader) error {
	status, ok, err := decodeStateidRes(r, "close")
	if err != nil {
		return err
	}
	*res = CloseRes{Status: status, Resok: ok}
	return nil
}

func (res *CloseRes) String() string { return stateidResString("CloseRes", res.Status, res.Resok) }

// ============================================================================
// DELEGPURGE / DELEGRETURN
// ============================================================================

// DelegpurgeArgs purges delegations awaiting reclaim for ClientID.
type DelegpurgeArgs struct {
	ClientID uint64
}

func (a *DelegpurgeArgs) OpCode() uint32                 { return OP_DELEGPURGE }
func (a *DelegpurgeArgs) Encode(buf *bytes.Buffer) error { return xdr.WriteUint64(buf, a.ClientID) }

// Decode reads the DELEGPURGE args from XDR format.
func (a *DelegpurgeArgs) Decode(r io.Reader) error {
	id, err := xdr.DecodeUint64(r)
	if err != nil {
		return fmt.Errorf("decode delegpurge clientid: %w", err)
	}
	a.ClientID = id
	return nil
}

func (a *DelegpurgeArgs) String() string { return fmt.Sprintf("DelegpurgeArgs{clientid=%016x}", a.ClientID) }

// DelegpurgeRes represents DELEGPURGE4res.
type DelegpurgeRes struct {
	Status uint32
}

func (res *DelegpurgeRes) OpCode() uint32                 { return OP_DELEGPURGE }
func (res *DelegpurgeRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *DelegpurgeRes) Decode(r io.Reader) error {
	return decodeStatusInto(r, "delegpurge", &res.Status)
}
func (res *DelegpurgeRes) String() string { return statusOnlyString("DelegpurgeRes", res.Status) }

// DelegreturnArgs returns the delegation identified by DelegStateid.
type DelegreturnArgs struct {
	DelegStateid Stateid4
}

func (a *DelegreturnArgs) OpCode() uint32 { return OP_DELEGRETURN }

func (a *DelegreturnArgs) Encode(buf *bytes.Buffer) error {
	return EncodeStateid4(buf, &a.DelegStateid)
}

func (a *DelegreturnArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	a.DelegStateid = *sid
	return nil
}

func (a *DelegreturnArgs) String() string {
	return fmt.Sprintf("DelegreturnArgs{stateid=%s}", a.DelegStateid.String())
}

// DelegreturnRes represents DELEGRETURN4res.
type DelegreturnRes struct {
	Status uint32
}

func (res *DelegreturnRes) OpCode() uint32                 { return OP_DELEGRETURN }
func (res *DelegreturnRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *DelegreturnRes) Decode(r io.Reader) error {
	return decodeStatusInto(r, "delegreturn", &res.Status)
}
func (res *DelegreturnRes) String() string { return statusOnlyString("DelegreturnRes", res.Status) }

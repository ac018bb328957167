// Package types - client ID operations (RFC 7530 Sections 16.28, 16.33,
// 16.34).
//
// NFSv4.0 establishes a client ID in two steps: SETCLIENTID returns a
// clientid and a confirm verifier, SETCLIENTID_CONFIRM echoes both back.
// RENEW keeps the lease alive afterwards.
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// SETCLIENTID
// ============================================================================

// SetclientidArgs registers a client instance and its callback address.
type SetclientidArgs struct {
	Client        NfsClientID4
	Callback      CbClient4
	CallbackIdent uint32
}

func (a *SetclientidArgs) OpCode() uint32 { return OP_SETCLIENTID }

// Encode writes the SETCLIENTID args in XDR format.
func (a *SetclientidArgs) Encode(buf *bytes.Buffer) error {
	if err := encodeNfsClientID4(buf, &a.Client); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.Callback.Program); err != nil {
		return err
	}
	if err := encodeClientAddr4(buf, &a.Callback.Location); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, a.CallbackIdent)
}

// Decode reads the SETCLIENTID args from XDR format.
func (a *SetclientidArgs) Decode(r io.Reader) error {
	client, err := decodeNfsClientID4(r)
	if err != nil {
		return err
	}
	a.Client = *client
	if a.Callback.Program, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode setclientid cb_program: %w", err)
	}
	loc, err := decodeClientAddr4(r)
	if err != nil {
		return err
	}
	a.Callback.Location = *loc
	if a.CallbackIdent, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode setclientid callback_ident: %w", err)
	}
	return nil
}

func (a *SetclientidArgs) String() string {
	return fmt.Sprintf("SetclientidArgs{id=%q, cb_prog=0x%x, cb=%s/%s, ident=%d}",
		a.Client.ID, a.Callback.Program, a.Callback.Location.Netid, a.Callback.Location.Addr, a.CallbackIdent)
}

// SetclientidResOK carries the provisional client ID.
type SetclientidResOK struct {
	ClientID           uint64
	SetclientidConfirm Verifier4
}

// SetclientidRes represents SETCLIENTID4res.
//
//	union SETCLIENTID4res switch (nfsstat4 status) {
//	    case NFS4_OK:            SETCLIENTID4resok resok4;
//	    case NFS4ERR_CLID_INUSE: clientaddr4 client_using;
//	    default:                 void;
//	};
type SetclientidRes struct {
	Status      uint32
	Resok       *SetclientidResOK
	ClientUsing *ClientAddr4
}

func (res *SetclientidRes) OpCode() uint32 { return OP_SETCLIENTID }

// Encode writes the SETCLIENTID result in XDR format.
func (res *SetclientidRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode setclientid status: %w", err)
	}
	switch res.Status {
	case NFS4_OK:
		if res.Resok == nil {
			return errResokNotSet("setclientid")
		}
		if err := xdr.WriteUint64(buf, res.Resok.ClientID); err != nil {
			return err
		}
		return EncodeVerifier4(buf, res.Resok.SetclientidConfirm)
	case NFS4ERR_CLID_INUSE:
		if res.ClientUsing == nil {
			return missingArm("SETCLIENTID4res", res.Status)
		}
		return encodeClientAddr4(buf, res.ClientUsing)
	default:
		return nil
	}
}

// Decode reads the SETCLIENTID result from XDR format.
func (res *SetclientidRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "setclientid")
	if err != nil {
		return err
	}
	*res = SetclientidRes{Status: status}
	switch status {
	case NFS4_OK:
		ok := &SetclientidResOK{}
		if ok.ClientID, err = xdr.DecodeUint64(r); err != nil {
			return fmt.Errorf("decode setclientid clientid: %w", err)
		}
		if ok.SetclientidConfirm, err = DecodeVerifier4(r); err != nil {
			return fmt.Errorf("decode setclientid confirm: %w", err)
		}
		res.Resok = ok
	case NFS4ERR_CLID_INUSE:
		if res.ClientUsing, err = decodeClientAddr4(r); err != nil {
			return err
		}
	}
	return nil
}

func (res *SetclientidRes) String() string {
	switch {
	case res.Resok != nil:
		return fmt.Sprintf("SetclientidRes{status=OK, clientid=%016x}", res.Resok.ClientID)
	case res.ClientUsing != nil:
		return fmt.Sprintf("SetclientidRes{status=NFS4ERR_CLID_INUSE, using=%s/%s}",
			res.ClientUsing.Netid, res.ClientUsing.Addr)
	default:
		return statusOnlyString("SetclientidRes", res.Status)
	}
}

// ============================================================================
// SETCLIENTID_CONFIRM
// ============================================================================

// SetclientidConfirmArgs confirms the client ID returned by SETCLIENTID.
type SetclientidConfirmArgs struct {
	ClientID           uint64
	SetclientidConfirm Verifier4
}

func (a *SetclientidConfirmArgs) OpCode() uint32 { return OP_SETCLIENTID_CONFIRM }

// Encode writes the SETCLIENTID_CONFIRM args in XDR format.
func (a *SetclientidConfirmArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint64(buf, a.ClientID); err != nil {
		return err
	}
	return EncodeVerifier4(buf, a.SetclientidConfirm)
}

// Decode reads the SETCLIENTID_CONFIRM args from XDR format.
func (a *SetclientidConfirmArgs) Decode(r io.Reader) error {
	var err error
	if a.ClientID, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode setclientid_confirm clientid: %w", err)
	}
	if a.SetclientidConfirm, err = DecodeVerifier4(r); err != nil {
		return fmt.Errorf("decode setclientid_confirm verifier: %w", err)
	}
	return nil
}

func (a *SetclientidConfirmArgs) String() string {
	return fmt.Sprintf("SetclientidConfirmArgs{clientid=%016x}", a.ClientID)
}

// SetclientidConfirmRes represents SETCLIENTID_CONFIRM4res.
type SetclientidConfirmRes struct {
	Status uint32
}

func (res *SetclientidConfirmRes) OpCode() uint32 { return OP_SETCLIENTID_CONFIRM }

func (res *SetclientidConfirmRes) Encode(buf *bytes.Buffer) error {
	return xdr.WriteUint32(buf, res.Status)
}

func (res *SetclientidConfirmRes) Decode(r io.Reader) error {
	return decodeStatusInto(r, "setclientid_confirm", &res.Status)
}

func (res *SetclientidConfirmRes) String() string {
	return statusOnlyString("SetclientidConfirmRes", res.Status)
}

// ============================================================================
// RENEW
// ============================================================================

// RenewArgs renews the lease of ClientID.
type RenewArgs struct {
	ClientID uint64
}

func (a *RenewArgs) OpCode() uint32                 { return OP_RENEW }
func (a *RenewArgs) Encode(buf *bytes.Buffer) error { return xdr.WriteUint64(buf, a.ClientID) }

// Decode reads the RENEW args from XDR format.
func (a *RenewArgs) Decode(r io.Reader) error {
	id, err := xdr.DecodeUint64(r)
	if err != nil {
		return fmt.Errorf("decode renew clientid: %w", err)
	}
	a.ClientID = id
	return nil
}

func (a *RenewArgs) String() string { return fmt.Sprintf("RenewArgs{clientid=%016x}", a.ClientID) }

// RenewRes represents RENEW4res.
type RenewRes struct {
	Status uint32
}

func (res *RenewRes) OpCode() uint32                 { return OP_RENEW }
func (res *RenewRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *RenewRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "renew", &res.Status) }
func (res *RenewRes) String() string                 { return statusOnlyString("RenewRes", res.Status) }

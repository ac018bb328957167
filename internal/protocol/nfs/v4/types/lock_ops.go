// Package types - byte-range lock operations (RFC 7530 Sections 16.10-16.12
// and 16.37).
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// LOCK
// ============================================================================

// LockArgs requests a byte-range lock.
//
// Length math.MaxUint64 means "to end of file".
type LockArgs struct {
	Locktype uint32
	Reclaim  bool
	Offset   uint64
	Length   uint64
	Locker   Locker4
}

func (a *LockArgs) OpCode() uint32 { return OP_LOCK }

// Encode writes the LOCK args in XDR format.
func (a *LockArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, a.Locktype); err != nil {
		return err
	}
	if err := xdr.WriteBool(buf, a.Reclaim); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Offset); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Length); err != nil {
		return err
	}
	return a.Locker.Encode(buf)
}

// Decode reads the LOCK args from XDR format.
func (a *LockArgs) Decode(r io.Reader) error {
	var err error
	if a.Locktype, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode lock locktype: %w", err)
	}
	if a.Reclaim, err = xdr.DecodeBool(r); err != nil {
		return fmt.Errorf("decode lock reclaim: %w", err)
	}
	if a.Offset, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode lock offset: %w", err)
	}
	if a.Length, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode lock length: %w", err)
	}
	return a.Locker.Decode(r)
}

func (a *LockArgs) String() string {
	return fmt.Sprintf("LockArgs{type=%d, reclaim=%t, offset=%d, length=%d, new_owner=%t}",
		a.Locktype, a.Reclaim, a.Offset, a.Length, a.Locker.NewLockOwner)
}

// LockResOK carries the lock stateid.
type LockResOK struct {
	LockStateid Stateid4
}

// LockRes represents LOCK4res.
//
//	union LOCK4res switch (nfsstat4 status) {
//	    case NFS4_OK:        LOCK4resok resok4;
//	    case NFS4ERR_DENIED: LOCK4denied denied;
//	    default:             void;
//	};
type LockRes struct {
	Status uint32
	Resok  *LockResOK
	Denied *LockDenied4
}

func (res *LockRes) OpCode() uint32 { return OP_LOCK }

// Encode writes the LOCK result in XDR format.
func (res *LockRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode lock status: %w", err)
	}
	switch res.Status {
	case NFS4_OK:
		if res.Resok == nil {
			return errResokNotSet("lock")
		}
		return EncodeStateid4(buf, &res.Resok.LockStateid)
	case NFS4ERR_DENIED:
		if res.Denied == nil {
			return missingArm("LOCK4res", res.Status)
		}
		return encodeLockDenied4(buf, res.Denied)
	default:
		return nil
	}
}

// Decode reads the LOCK result from XDR format.
func (res *LockRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "lock")
	if err != nil {
		return err
	}
	*res = LockRes{Status: status}
	switch status {
	case NFS4_OK:
		sid, err := DecodeStateid4(r)
		if err != nil {
			return err
		}
		res.Resok = &LockResOK{LockStateid: *sid}
	case NFS4ERR_DENIED:
		if res.Denied, err = decodeLockDenied4(r); err != nil {
			return err
		}
	}
	return nil
}

func (res *LockRes) String() string {
	switch {
	case res.Resok != nil:
		return fmt.Sprintf("LockRes{status=OK, stateid=%s}", res.Resok.LockStateid.String())
	case res.Denied != nil:
		return fmt.Sprintf("LockRes{status=NFS4ERR_DENIED, conflict=%d+%d owner=%s}",
			res.Denied.Offset, res.Denied.Length, res.Denied.Owner.String())
	default:
		return statusOnlyString("LockRes", res.Status)
	}
}

// ============================================================================
// LOCKT
// ============================================================================

// LocktArgs tests for a conflicting lock without creating one.
type LocktArgs struct {
	Locktype uint32
	Offset   uint64
	Length   uint64
	Owner    LockOwner4
}

func (a *LocktArgs) OpCode() uint32 { return OP_LOCKT }

// Encode writes the LOCKT args in XDR format.
func (a *LocktArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, a.Locktype); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Offset); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Length); err != nil {
		return err
	}
	return EncodeStateOwner4(buf, &a.Owner)
}

// Decode reads the LOCKT args from XDR format.
func (a *LocktArgs) Decode(r io.Reader) error {
	var err error
	if a.Locktype, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode lockt locktype: %w", err)
	}
	if a.Offset, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode lockt offset: %w", err)
	}
	if a.Length, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode lockt length: %w", err)
	}
	owner, err := DecodeStateOwner4(r)
	if err != nil {
		return err
	}
	a.Owner = *owner
	return nil
}

func (a *LocktArgs) String() string {
	return fmt.Sprintf("LocktArgs{type=%d, offset=%d, length=%d, owner=%s}",
		a.Locktype, a.Offset, a.Length, a.Owner.String())
}

// LocktRes represents LOCKT4res. Only NFS4ERR_DENIED carries data.
type LocktRes struct {
	Status uint32
	Denied *LockDenied4
}

func (res *LocktRes) OpCode() uint32 { return OP_LOCKT }

// Encode writes the LOCKT result in XDR format.
func (res *LocktRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode lockt status: %w", err)
	}
	if res.Status != NFS4ERR_DENIED {
		return nil
	}
	if res.Denied == nil {
		return missingArm("LOCKT4res", res.Status)
	}
	return encodeLockDenied4(buf, res.Denied)
}

// Decode reads the LOCKT result from XDR format.
func (res *LocktRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "lockt")
	if err != nil {
		return err
	}
	*res = LocktRes{Status: status}
	if status == NFS4ERR_DENIED {
		if res.Denied, err = decodeLockDenied4(r); err != nil {
			return err
		}
	}
	return nil
}

func (res *LocktRes) String() string {
	if res.Denied != nil {
		return fmt.Sprintf("LocktRes{status=NFS4ERR_DENIED, conflict=%d+%d owner=%s}",
			res.Denied.Offset, res.Denied.Length, res.Denied.Owner.String())
	}
	return statusOnlyString("LocktRes", res.Status)
}

// ============================================================================
// LOCKU
// ============================================================================

// LockuArgs releases a byte range held under LockStateid.
type LockuArgs struct {
	Locktype    uint32
	Seqid       uint32
	LockStateid Stateid4
	Offset      uint64
	Length      uint64
}

func (a *LockuArgs) OpCode() uint32 { return OP_LOCKU }

// Encode writes the LOCKU args in XDR format.
func (a *LockuArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, a.Locktype); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.Seqid); err != nil {
		return err
	}
	if err := EncodeStateid4(buf, &a.LockStateid); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Offset); err != nil {
		return err
	}
	return xdr.WriteUint64(buf, a.Length)
}

// Decode reads the LOCKU args from XDR format.
func (a *LockuArgs) Decode(r io.Reader) error {
	var err error
	if a.Locktype, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode locku locktype: %w", err)
	}
	if a.Seqid, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode locku seqid: %w", err)
	}
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	a.LockStateid = *sid
	if a.Offset, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode locku offset: %w", err)
	}
	if a.Length, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode locku length: %w", err)
	}
	return nil
}

func (a *LockuArgs) String() string {
	return fmt.Sprintf("LockuArgs{type=%d, seqid=%d, stateid=%s, offset=%d, length=%d}",
		a.Locktype, a.Seqid, a.LockStateid.String(), a.Offset, a.Length)
}

// LockuResOK carries the updated lock stateid.
type LockuResOK struct {
	LockStateid Stateid4
}

// LockuRes represents LOCKU4res.
type LockuRes struct {
	Status uint32
	Resok  *LockuResOK
}

func (res *LockuRes) OpCode() uint32 { return OP_LOCKU }

// Encode writes the LOCKU result in XDR format.
func (res *LockuRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode locku status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("locku")
	}
	return EncodeStateid4(buf, &res.Resok.LockStateid)
}

// Decode reads the LOCKU result from XDR format.
func (res *LockuRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "locku")
	if err != nil {
		return err
	}
	*res = LockuRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	res.Resok = &LockuResOK{LockStateid: *sid}
	return nil
}

func (res *LockuRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("LockuRes{status=OK, stateid=%s}", res.Resok.LockStateid.String())
	}
	return statusOnlyString("LockuRes", res.Status)
}

// ============================================================================
// RELEASE_LOCKOWNER
// ============================================================================

// ReleaseLockownerArgs drops all server state for LockOwner.
type ReleaseLockownerArgs struct {
	LockOwner LockOwner4
}

func (a *ReleaseLockownerArgs) OpCode() uint32 { return OP_RELEASE_LOCKOWNER }

func (a *ReleaseLockownerArgs) Encode(buf *bytes.Buffer) error {
	return EncodeStateOwner4(buf, &a.LockOwner)
}

func (a *ReleaseLockownerArgs) Decode(r io.Reader) error {
	owner, err := DecodeStateOwner4(r)
	if err != nil {
		return err
	}
	a.LockOwner = *owner
	return nil
}

func (a *ReleaseLockownerArgs) String() string {
	return fmt.Sprintf("ReleaseLockownerArgs{owner=%s}", a.LockOwner.String())
}

// ReleaseLockownerRes represents RELEASE_LOCKOWNER4res.
type ReleaseLockownerRes struct {
	Status uint32
}

func (res *ReleaseLockownerRes) OpCode() uint32 { return OP_RELEASE_LOCKOWNER }

func (res *ReleaseLockownerRes) Encode(buf *bytes.Buffer) error {
	return xdr.WriteUint32(buf, res.Status)
}

func (res *ReleaseLockownerRes) Decode(r io.Reader) error {
	return decodeStatusInto(r, "release_lockowner", &res.Status)
}

func (res *ReleaseLockownerRes) String() string {
	return statusOnlyString("ReleaseLockownerRes", res.Status)
}

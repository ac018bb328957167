// Package compound encodes and decodes NFSv4.0 COMPOUND and CB_COMPOUND
// messages (RFC 7530 Sections 16.2 and 16.3).
//
// Each request entry on the wire is a uint32 opcode followed by the
// operation arguments; each response entry is the opcode followed by the
// operation result (which always starts with its nfsstat4). The per-op
// bodies live in the types package; this package owns the envelope and the
// opcode dispatch.
package compound

import (
	"bytes"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

// Op is one operation argument or result inside a compound.
type Op interface {
	OpCode() uint32
	Encode(buf *bytes.Buffer) error
	Decode(r io.Reader) error
	String() string
}

// NewArgs returns a zero-valued argument struct for the opcode.
//
// Opcodes outside the NFSv4.0 range, including the reserved values 0, 1
// and 2, map to IllegalArgs (RFC 7530 Section 15.2.4). This is never an
// error.
func NewArgs(opcode uint32) Op {
	switch opcode {
	case types.OP_ACCESS:
		return &types.AccessArgs{}
	case types.OP_CLOSE:
		return &types.CloseArgs{}
	case types.OP_COMMIT:
		return &types.CommitArgs{}
	case types.OP_CREATE:
		return &types.CreateArgs{}
	case types.OP_DELEGPURGE:
		return &types.DelegpurgeArgs{}
	case types.OP_DELEGRETURN:
		return &types.DelegreturnArgs{}
	case types.OP_GETATTR:
		return &types.GetattrArgs{}
	case types.OP_GETFH:
		return &types.GetfhArgs{}
	case types.OP_LINK:
		return &types.LinkArgs{}
	case types.OP_LOCK:
		return &types.LockArgs{}
	case types.OP_LOCKT:
		return &types.LocktArgs{}
	case types.OP_LOCKU:
		return &types.LockuArgs{}
	case types.OP_LOOKUP:
		return &types.LookupArgs{}
	case types.OP_LOOKUPP:
		return &types.LookuppArgs{}
	case types.OP_NVERIFY:
		return &types.NverifyArgs{}
	case types.OP_OPEN:
		return &types.OpenArgs{}
	case types.OP_OPENATTR:
		return &types.OpenattrArgs{}
	case types.OP_OPEN_CONFIRM:
		return &types.OpenConfirmArgs{}
	case types.OP_OPEN_DOWNGRADE:
		return &types.OpenDowngradeArgs{}
	case types.OP_PUTFH:
		return &types.PutfhArgs{}
	case types.OP_PUTPUBFH:
		return &types.PutpubfhArgs{}
	case types.OP_PUTROOTFH:
		return &types.PutrootfhArgs{}
	case types.OP_READ:
		return &types.ReadArgs{}
	case types.OP_READDIR:
		return &types.ReaddirArgs{}
	case types.OP_READLINK:
		return &types.ReadlinkArgs{}
	case types.OP_REMOVE:
		return &types.RemoveArgs{}
	case types.OP_RENAME:
		return &types.RenameArgs{}
	case types.OP_RENEW:
		return &types.RenewArgs{}
	case types.OP_RESTOREFH:
		return &types.RestorefhArgs{}
	case types.OP_SAVEFH:
		return &types.SavefhArgs{}
	case types.OP_SECINFO:
		return &types.SecinfoArgs{}
	case types.OP_SETATTR:
		return &types.SetattrArgs{}
	case types.OP_SETCLIENTID:
		return &types.SetclientidArgs{}
	case types.OP_SETCLIENTID_CONFIRM:
		return &types.SetclientidConfirmArgs{}
	case types.OP_VERIFY:
		return &types.VerifyArgs{}
	case types.OP_WRITE:
		return &types.WriteArgs{}
	case types.OP_RELEASE_LOCKOWNER:
		return &types.ReleaseLockownerArgs{}
	default:
		return &types.IllegalArgs{Opcode: opcode}
	}
}

// NewRes returns a zero-valued result struct for the opcode, falling back
// to IllegalRes like NewArgs.
func NewRes(opcode uint32) Op {
	switch opcode {
	case types.OP_ACCESS:
		return &types.AccessRes{}
	case types.OP_CLOSE:
		return &types.CloseRes{}
	case types.OP_COMMIT:
		return &types.CommitRes{}
	case types.OP_CREATE:
		return &types.CreateRes{}
	case types.OP_DELEGPURGE:
		return &types.DelegpurgeRes{}
	case types.OP_DELEGRETURN:
		return &types.DelegreturnRes{}
	case types.OP_GETATTR:
		return &types.GetattrRes{}
	case types.OP_GETFH:
		return &types.GetfhRes{}
	case types.OP_LINK:
		return &types.LinkRes{}
	case types.OP_LOCK:
		return &types.LockRes{}
	case types.OP_LOCKT:
		return &types.LocktRes{}
	case types.OP_LOCKU:
		return &types.LockuRes{}
	case types.OP_LOOKUP:
		return &types.LookupRes{}
	case types.OP_LOOKUPP:
		return &types.LookuppRes{}
	case types.OP_NVERIFY:
		return &types.NverifyRes{}
	case types.OP_OPEN:
		return &types.OpenRes{}
	case types.OP_OPENATTR:
		return &types.OpenattrRes{}
	case types.OP_OPEN_CONFIRM:
		return &types.OpenConfirmRes{}
	case types.OP_OPEN_DOWNGRADE:
		return &types.OpenDowngradeRes{}
	case types.OP_PUTFH:
		return &types.PutfhRes{}
	case types.OP_PUTPUBFH:
		return &types.PutpubfhRes{}
	case types.OP_PUTROOTFH:
		return &types.PutrootfhRes{}
	case types.OP_READ:
		return &types.ReadRes{}
	case types.OP_READDIR:
		return &types.ReaddirRes{}
	case types.OP_READLINK:
		return &types.ReadlinkRes{}
	case types.OP_REMOVE:
		return &types.RemoveRes{}
	case types.OP_RENAME:
		return &types.RenameRes{}
	case types.OP_RENEW:
		return &types.RenewRes{}
	case types.OP_RESTOREFH:
		return &types.RestorefhRes{}
	case types.OP_SAVEFH:
		return &types.SavefhRes{}
	case types.OP_SECINFO:
		return &types.SecinfoRes{}
	case types.OP_SETATTR:
		return &types.SetattrRes{}
	case types.OP_SETCLIENTID:
		return &types.SetclientidRes{}
	case types.OP_SETCLIENTID_CONFIRM:
		return &types.SetclientidConfirmRes{}
	case types.OP_VERIFY:
		return &types.VerifyRes{}
	case types.OP_WRITE:
		return &types.WriteRes{}
	case types.OP_RELEASE_LOCKOWNER:
		return &types.ReleaseLockownerRes{}
	default:
		return &types.IllegalRes{}
	}
}

// NewCbArgs returns a zero-valued callback argument struct. Anything other
// than CB_GETATTR and CB_RECALL is CB_ILLEGAL.
func NewCbArgs(opcode uint32) Op {
	switch opcode {
	case types.OP_CB_GETATTR:
		return &types.CbGetattrArgs{}
	case types.OP_CB_RECALL:
		return &types.CbRecallArgs{}
	default:
		return &types.CbIllegalArgs{Opcode: opcode}
	}
}

// NewCbRes returns a zero-valued callback result struct.
func NewCbRes(opcode uint32) Op {
	switch opcode {
	case types.OP_CB_GETATTR:
		return &types.CbGetattrRes{}
	case types.OP_CB_RECALL:
		return &types.CbRecallRes{}
	default:
		return &types.CbIllegalRes{}
	}
}

// isIllegal reports whether the op is the ILLEGAL or CB_ILLEGAL stand-in.
func isIllegal(op Op) bool {
	switch op.(type) {
	case *types.IllegalArgs, *types.CbIllegalArgs:
		return true
	}
	return false
}

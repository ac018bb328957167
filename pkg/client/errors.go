package client

import (
	"errors"
	"fmt"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
)

// Transport errors. Calls fail with these (possibly wrapped); use errors.Is.
var (
	// ErrTimeout means no reply arrived within Options.Timeout.
	ErrTimeout = errors.New("nfs4 client: call timed out")

	// ErrConnectionClosed is returned to every call that was pending when the
	// connection failed or the client was closed.
	ErrConnectionClosed = errors.New("nfs4 client: connection closed")

	// ErrNoResults means an accepted COMPOUND reply carried no result body.
	ErrNoResults = errors.New("nfs4 client: reply carried no results")

	// ErrConnectInProgress is returned by Connect while another dial is running.
	ErrConnectInProgress = errors.New("nfs4 client: connect already in progress")

	// ErrClientClosed is returned by every method after Close.
	ErrClientClosed = errors.New("nfs4 client: client closed")

	// ErrNotConnected is returned when a call is issued before Connect.
	ErrNotConnected = errors.New("nfs4 client: not connected")
)

// RPCAcceptError is an accepted reply whose accept_stat is not SUCCESS.
type RPCAcceptError struct {
	XID  uint32
	Stat uint32

	// Mismatch is set for PROG_MISMATCH.
	Mismatch *rpc.MismatchInfo
}

func (e *RPCAcceptError) Error() string {
	if e.Mismatch != nil {
		return fmt.Sprintf("rpc xid 0x%08x: %s (supported versions %d-%d)",
			e.XID, rpc.AcceptStatName(e.Stat), e.Mismatch.Low, e.Mismatch.High)
	}
	return fmt.Sprintf("rpc xid 0x%08x: %s", e.XID, rpc.AcceptStatName(e.Stat))
}

// RPCRejectedError is a MSG_DENIED reply.
type RPCRejectedError struct {
	XID      uint32
	Stat     uint32
	AuthStat uint32

	// Mismatch is set for RPC_MISMATCH.
	Mismatch *rpc.MismatchInfo
}

func (e *RPCRejectedError) Error() string {
	if e.Stat == rpc.RejectAuthError {
		return fmt.Sprintf("rpc xid 0x%08x: denied: %s", e.XID, rpc.AuthStatName(e.AuthStat))
	}
	if e.Mismatch != nil {
		return fmt.Sprintf("rpc xid 0x%08x: denied: RPC_MISMATCH (supported %d-%d)",
			e.XID, e.Mismatch.Low, e.Mismatch.High)
	}
	return fmt.Sprintf("rpc xid 0x%08x: denied (reject_stat=%d)", e.XID, e.Stat)
}

// StatusError reports a COMPOUND that completed with a non-OK status. The
// client itself never returns it; NFS status codes are data. Callers that
// want an error use CheckStatus.
type StatusError struct {
	Status  uint32
	OpIndex int
	Op      string
}

func (e *StatusError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("compound failed: %s", types.StatusName(e.Status))
	}
	return fmt.Sprintf("%s (op %d) failed: %s", e.Op, e.OpIndex, types.StatusName(e.Status))
}

// CheckStatus returns a *StatusError when res did not complete with NFS4_OK,
// naming the first failing operation.
func CheckStatus(res *compound.CompoundRes) error {
	if res == nil || res.Status == types.NFS4_OK {
		return nil
	}
	idx, op := res.Failed()
	if op == nil {
		return &StatusError{Status: res.Status, OpIndex: -1}
	}
	return &StatusError{Status: res.Status, OpIndex: idx, Op: types.OpName(op.OpCode())}
}

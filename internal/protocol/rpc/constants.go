// Package rpc implements the ONC RPC version 2 message envelope (RFC 5531)
// and TCP record marking used to carry NFSv4 COMPOUND traffic.
//
// The package covers exactly what an NFSv4 client transport needs:
// building CALL messages with AUTH_NONE or AUTH_SYS credentials,
// distinguishing CALL, accepted REPLY and rejected REPLY messages on the
// way in, and delimiting messages on a byte stream.
package rpc

// RPC Program Numbers
//
// Reference: RFC 7530 Section 16 and RFC 5531 Appendix C.
const (
	// ProgramNFS is the NFS program number shared by all NFS versions.
	ProgramNFS = 100003

	// NFSVersion4 is the NFS version carried by NFSv4.0 COMPOUND calls.
	NFSVersion4 = 4

	// NFSv4 procedures (RFC 7530 Section 16.1/16.2).
	ProcNull     = 0
	ProcCompound = 1

	// NFSv4 callback program version and procedures (RFC 7530 Section 16.3).
	// The callback program number is chosen by the client in SETCLIENTID.
	CallbackVersion      = 1
	CallbackProcNull     = 0
	CallbackProcCompound = 1
)

// RPCVersion is the only RPC protocol version this package speaks.
const RPCVersion = 2

// RPC Message Types (RFC 5531 Section 9, msg_type)
const (
	MsgCall  = 0
	MsgReply = 1
)

// RPC Reply States (reply_stat)
const (
	MsgAccepted = 0
	MsgDenied   = 1
)

// RPC Accept Status (accept_stat)
const (
	// AcceptSuccess means the procedure executed; results follow.
	AcceptSuccess = 0

	// AcceptProgUnavail means the remote does not export the program.
	AcceptProgUnavail = 1

	// AcceptProgMismatch means the program version is not supported.
	// The lowest and highest supported versions follow.
	AcceptProgMismatch = 2

	// AcceptProcUnavail means the procedure number is unknown.
	AcceptProcUnavail = 3

	// AcceptGarbageArgs means the server could not decode the arguments.
	AcceptGarbageArgs = 4

	// AcceptSystemErr is a server-side failure such as memory allocation.
	AcceptSystemErr = 5
)

// RPC Reject Status (reject_stat)
const (
	RejectRPCMismatch = 0
	RejectAuthError   = 1
)

// Authentication flavors (auth_flavor)
const (
	AuthNone  = 0
	AuthSys   = 1
	AuthShort = 2
	AuthDH    = 3
	RPCSecGSS = 6
)

// Authentication status values carried by AUTH_ERROR rejections (auth_stat).
const (
	AuthOK           = 0
	AuthBadCred      = 1
	AuthRejectedCred = 2
	AuthBadVerf      = 3
	AuthRejectedVerf = 4
	AuthTooWeak      = 5
	AuthInvalidResp  = 6
	AuthFailed       = 7
)

// MaxAuthBodySize is the largest credential or verifier body allowed by
// RFC 5531 Section 8.2 (opaque body<400>).
const MaxAuthBodySize = 400

// AcceptStatName returns a readable name for an accept_stat value.
func AcceptStatName(stat uint32) string {
	switch stat {
	case AcceptSuccess:
		return "SUCCESS"
	case AcceptProgUnavail:
		return "PROG_UNAVAIL"
	case AcceptProgMismatch:
		return "PROG_MISMATCH"
	case AcceptProcUnavail:
		return "PROC_UNAVAIL"
	case AcceptGarbageArgs:
		return "GARBAGE_ARGS"
	case AcceptSystemErr:
		return "SYSTEM_ERR"
	default:
		return "UNKNOWN"
	}
}

// AuthStatName returns a readable name for an auth_stat value.
func AuthStatName(stat uint32) string {
	switch stat {
	case AuthOK:
		return "AUTH_OK"
	case AuthBadCred:
		return "AUTH_BADCRED"
	case AuthRejectedCred:
		return "AUTH_REJECTEDCRED"
	case AuthBadVerf:
		return "AUTH_BADVERF"
	case AuthRejectedVerf:
		return "AUTH_REJECTEDVERF"
	case AuthTooWeak:
		return "AUTH_TOOWEAK"
	case AuthInvalidResp:
		return "AUTH_INVALIDRESP"
	case AuthFailed:
		return "AUTH_FAILED"
	default:
		return "UNKNOWN"
	}
}

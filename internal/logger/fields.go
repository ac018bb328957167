package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys. Use these consistently so log lines can be queried
// across the codec, the transport and the CLI.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// RPC and compound
	KeyXID       = "xid"
	KeyProcedure = "procedure" // NULL, COMPOUND
	KeyProgram   = "program"
	KeyVersion   = "version"
	KeyTag       = "tag"
	KeyOps       = "ops"       // op names of a compound, in order
	KeyOpIndex   = "op_index"  // position of an op within a compound
	KeyOpcode    = "opcode"    // numeric opcode
	KeyStatus    = "status"    // nfsstat4 name
	KeyAccept    = "accept"    // accept_stat name
	KeyPending   = "pending"   // outstanding calls
	KeyState     = "state"     // client connection state
	KeyRecordLen = "record_len"

	// Connection
	KeyServer = "server"
	KeyAuth   = "auth"
	KeyUID    = "uid"
	KeyGID    = "gid"

	// Filesystem view (CLI)
	KeyPath   = "path"
	KeyHandle = "handle"
	KeySize   = "size"
	KeyOffset = "offset"
	KeyCount  = "count"
	KeyEOF    = "eof"

	// Operation metadata
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyAttempt    = "attempt"
)

// FormatXID renders an XID the way packet captures show it.
func FormatXID(xid uint32) string {
	return fmt.Sprintf("0x%08x", xid)
}

// XID returns a slog.Attr for an RPC transaction ID.
func XID(xid uint32) slog.Attr {
	return slog.String(KeyXID, FormatXID(xid))
}

// Procedure returns a slog.Attr for the RPC procedure.
func Procedure(name string) slog.Attr {
	return slog.String(KeyProcedure, name)
}

// Server returns a slog.Attr for the remote address.
func Server(addr string) slog.Attr {
	return slog.String(KeyServer, addr)
}

// Status returns a slog.Attr for an already-rendered status name.
func Status(name string) slog.Attr {
	return slog.String(KeyStatus, name)
}

// Handle returns a slog.Attr for a file handle, hex-encoded.
func Handle(h []byte) slog.Attr {
	return slog.String(KeyHandle, fmt.Sprintf("%x", h))
}

// DurationMs returns a slog.Attr for a duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error. A nil error yields an empty Attr,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

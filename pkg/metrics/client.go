package metrics

import (
	"time"
)

// ClientMetrics provides observability for NFSv4 client calls.
//
// Implementations can collect metrics about RPC calls, their latency and
// outcome, and the bytes moved over the connection. This interface is
// optional - pass nil to disable metrics collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	m := prometheus.NewClientMetrics()
//	c := client.New(client.Options{Addr: addr, Metrics: m})
//
//	// Without metrics (pass nil for zero overhead)
//	c := client.New(client.Options{Addr: addr})
type ClientMetrics interface {
	// RecordCallStart increments the in-flight call gauge.
	//
	// Parameters:
	//   - procedure: "NULL" or "COMPOUND"
	RecordCallStart(procedure string)

	// RecordCallEnd decrements the in-flight call gauge and records the
	// call's latency and outcome.
	//
	// Parameters:
	//   - procedure: "NULL" or "COMPOUND"
	//   - duration: Time from send to completion
	//   - status: NFS status name (e.g., "NFS4_OK", "NFS4ERR_NOENT") or a
	//     transport outcome ("timeout", "closed", "rpc_error")
	RecordCallEnd(procedure string, duration time.Duration, status string)

	// RecordOperation counts one operation inside a COMPOUND result.
	//
	// Parameters:
	//   - op: Operation name (e.g., "LOOKUP", "GETATTR")
	//   - status: NFS status name of that operation
	RecordOperation(op string, status string)

	// RecordTimeout counts a call that expired before its reply arrived.
	RecordTimeout(procedure string)

	// RecordUnmatchedReply counts a reply whose XID had no pending call.
	RecordUnmatchedReply()

	// RecordBytes records bytes written to or read from the connection.
	//
	// Parameters:
	//   - direction: "sent" or "received"
	//   - bytes: Number of bytes, including record marks
	RecordBytes(direction string, bytes int)

	// RecordConnection counts connection state transitions.
	//
	// Parameters:
	//   - event: "connected", "disconnected" or "dial_error"
	RecordConnection(event string)
}

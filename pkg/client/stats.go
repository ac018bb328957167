package client

import (
	"go.uber.org/atomic"
)

// Stats is a snapshot of client counters since construction.
type Stats struct {
	Calls         uint64 // calls sent
	Replies       uint64 // replies matched to a pending call
	Timeouts      uint64
	Unmatched     uint64 // replies dropped for an unknown XID
	Dropped       uint64 // records that were not replies or failed to decode
	BytesSent     uint64
	BytesReceived uint64
}

type counters struct {
	calls         atomic.Uint64
	replies       atomic.Uint64
	timeouts      atomic.Uint64
	unmatched     atomic.Uint64
	dropped       atomic.Uint64
	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Calls:         c.calls.Load(),
		Replies:       c.replies.Load(),
		Timeouts:      c.timeouts.Load(),
		Unmatched:     c.unmatched.Load(),
		Dropped:       c.dropped.Load(),
		BytesSent:     c.bytesSent.Load(),
		BytesReceived: c.bytesReceived.Load(),
	}
}

package client

import (
	"context"
	"net"
	"time"

	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
	"github.com/marmos91/nfs4wire/pkg/metrics"
)

// DefaultTimeout bounds a call when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Dialer opens the transport connection. Tests inject net.Pipe through it.
type Dialer func(ctx context.Context, addr string) (net.Conn, error)

// Options configures a Client.
type Options struct {
	// Addr is the server address (host:port). Default port for NFSv4 is 2049.
	Addr string

	// Dialer opens the connection. Default: TCP via net.Dialer.
	Dialer Dialer

	// Timeout is the per-call deadline, measured from send.
	// Default: 30s
	Timeout time.Duration

	// Program and Version select the RPC program.
	// Default: 100003 / 4
	Program uint32
	Version uint32

	// Credential is sent with every call. Default: AUTH_NONE.
	Credential rpc.OpaqueAuth

	// Metrics receives call statistics. nil disables metrics.
	Metrics metrics.ClientMetrics

	// Tag is the default COMPOUND tag used by CompoundOps.
	Tag string
}

func (o *Options) applyDefaults() {
	if o.Dialer == nil {
		o.Dialer = defaultDialer
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Program == 0 {
		o.Program = rpc.ProgramNFS
	}
	if o.Version == 0 {
		o.Version = rpc.NFSVersion4
	}
}

func defaultDialer(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
		_ = tcp.SetKeepAlive(true)
	}
	return conn, nil
}

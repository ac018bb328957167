// Package client is an NFSv4.0 transport client.
//
// A Client owns one stream connection and multiplexes any number of
// concurrent calls over it. Each call is tracked by its RPC XID in a pending
// map; a single reader goroutine reassembles record-marked replies, matches
// them by XID and completes the waiting call. Replies may arrive in any
// order.
//
// Every pending call carries a timer. When it fires the call fails with
// ErrTimeout and its XID is forgotten, so a late reply is dropped as
// unmatched. When the connection fails or Close is called, every pending
// call fails with ErrConnectionClosed.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
	"github.com/marmos91/nfs4wire/internal/telemetry"
	"github.com/marmos91/nfs4wire/pkg/bufpool"
)

// State is the connection state of a Client.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// readBufferSize is the chunk size of each connection read.
const readBufferSize = 64 * 1024

// Procedure names used for logs, spans and metrics.
const (
	procNameNull     = "NULL"
	procNameCompound = "COMPOUND"
)

// Client is safe for concurrent use.
type Client struct {
	opts Options

	// mu guards state, conn, readerDone, pending and nextXID.
	mu         sync.Mutex
	state      State
	conn       net.Conn
	readerDone chan struct{}
	pending    map[uint32]*Call
	nextXID    uint32

	// writeMu serializes frame writes so records never interleave.
	writeMu sync.Mutex

	// encMu guards enc; encoding happens on the caller's goroutine.
	encMu sync.Mutex
	enc   *compound.Encoder

	stats counters
}

// New returns a disconnected client. Call Connect before issuing calls.
func New(opts Options) *Client {
	opts.applyDefaults()
	return &Client{
		opts:    opts,
		state:   StateDisconnected,
		pending: make(map[uint32]*Call),
		nextXID: uint32(time.Now().UnixNano()),
		enc:     compound.NewEncoder(),
	}
}

// Addr returns the configured server address.
func (c *Client) Addr() string {
	return c.opts.Addr
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the number of calls awaiting a reply.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stats returns a snapshot of the client counters.
func (c *Client) Stats() Stats {
	return c.stats.snapshot()
}

// Connect dials the server. It is a no-op when already connected, returns
// ErrConnectInProgress while another Connect is dialing and ErrClientClosed
// after Close. A client that lost its connection may Connect again.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateConnected:
		c.mu.Unlock()
		return nil
	case StateConnecting:
		c.mu.Unlock()
		return ErrConnectInProgress
	case StateClosed:
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.state = StateConnecting
	c.mu.Unlock()

	logger.Debug("Connecting to NFS server", logger.KeyServer, c.opts.Addr)

	conn, err := c.opts.Dialer(ctx, c.opts.Addr)

	c.mu.Lock()
	if err != nil {
		if c.state == StateConnecting {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		c.recordConnection("dial_error")
		return fmt.Errorf("dial %s: %w", c.opts.Addr, err)
	}
	if c.state == StateClosed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClientClosed
	}

	done := make(chan struct{})
	c.conn = conn
	c.readerDone = done
	c.state = StateConnected
	c.mu.Unlock()

	go c.readLoop(conn, done)

	c.recordConnection("connected")
	logger.Info("Connected to NFS server", logger.KeyServer, c.opts.Addr)
	return nil
}

// Close shuts the connection down and fails every pending call with
// ErrConnectionClosed. It waits for the reader goroutine to exit. Close is
// idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosed
	conn := c.conn
	done := c.readerDone
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	err := conn.Close()
	<-done

	logger.Debug("Client closed", logger.KeyServer, c.opts.Addr)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

// ============================================================================
// Calls
// ============================================================================

// Go sends a COMPOUND and returns immediately. The returned Call completes
// when the reply arrives, the call times out or the connection is lost.
//
// ctx carries the trace parent and log fields; it does not bound the call.
// Use Compound for a call that honors ctx cancellation.
func (c *Client) Go(ctx context.Context, args *compound.CompoundArgs) *Call {
	if args == nil {
		return failedCall(ctx, rpc.ProcCompound, nil, errors.New("nil compound args"))
	}

	ctx, span := telemetry.StartCallSpan(ctx, telemetry.SpanNFSCompound, c.opts.Addr,
		telemetry.NFSOps(args.OpNames()),
		attribute.Int(telemetry.AttrNFSOpCount, len(args.Ops)),
		attribute.String(telemetry.AttrNFSTag, args.Tag),
		attribute.Int64(telemetry.AttrNFSMinorVersion, int64(args.MinorVersion)),
	)

	c.encMu.Lock()
	params, err := c.enc.EncodeCompoundArgs(args)
	c.encMu.Unlock()

	call := newCall(ctx, rpc.ProcCompound, args)
	call.span = span
	if err != nil {
		call.complete(nil, fmt.Errorf("encode COMPOUND: %w", err))
		return call
	}

	c.send(call, params)
	return call
}

// Compound sends args and waits for the reply. A non-OK compound status is
// not an error; inspect res.Status or use CheckStatus.
func (c *Client) Compound(ctx context.Context, args *compound.CompoundArgs) (*compound.CompoundRes, error) {
	return c.wait(ctx, c.Go(ctx, args))
}

// CompoundOps sends ops as a minor version 0 COMPOUND tagged with
// Options.Tag.
func (c *Client) CompoundOps(ctx context.Context, ops ...compound.Op) (*compound.CompoundRes, error) {
	return c.Compound(ctx, &compound.CompoundArgs{Tag: c.opts.Tag, Ops: ops})
}

// Null sends NFSPROC4_NULL and waits for the reply.
func (c *Client) Null(ctx context.Context) error {
	ctx, span := telemetry.StartCallSpan(ctx, telemetry.SpanNFSNull, c.opts.Addr)
	call := newCall(ctx, rpc.ProcNull, nil)
	call.span = span
	c.send(call, nil)

	_, err := c.wait(ctx, call)
	return err
}

func (c *Client) wait(ctx context.Context, call *Call) (*compound.CompoundRes, error) {
	select {
	case <-call.Done:
	case <-ctx.Done():
		c.abandon(call, ctx.Err())
	}
	return call.Result()
}

// send registers call under a fresh XID, arms its timer and writes the
// framed CALL. Failures complete the call.
func (c *Client) send(call *Call, params []byte) {
	procName := procedureName(call.Procedure)

	c.mu.Lock()
	if c.state != StateConnected {
		err := ErrNotConnected
		if c.state == StateClosed {
			err = ErrClientClosed
		}
		c.mu.Unlock()
		call.complete(nil, err)
		return
	}
	conn := c.conn
	xid := c.allocXID()
	call.XID = xid
	if call.span != nil {
		call.span.SetAttributes(telemetry.RPCXID(xid))
	}
	lc := logger.NewLogContext(c.opts.Addr).WithXID(xid).WithProcedure(procName)
	call.ctx = telemetry.WithLogContext(call.ctx, lc)
	call.onDone = c.callFinished
	if m := c.opts.Metrics; m != nil {
		m.RecordCallStart(procName)
	}

	c.pending[xid] = call
	call.timer = time.AfterFunc(c.opts.Timeout, func() { c.expire(call) })
	c.mu.Unlock()

	msg, err := rpc.EncodeCall(xid, c.opts.Program, c.opts.Version, call.Procedure,
		c.opts.Credential, rpc.AuthNoneCredential(), params)
	if err != nil {
		c.forget(call)
		call.complete(nil, fmt.Errorf("encode RPC call: %w", err))
		return
	}
	frame := rpc.FrameRecordInto(bufpool.Get(4+len(msg)), msg)
	frameLen := len(frame)

	c.writeMu.Lock()
	_, err = conn.Write(frame)
	c.writeMu.Unlock()
	bufpool.Put(frame)

	if err != nil {
		logger.DebugCtx(call.ctx, "RPC write failed", logger.Err(err))
		c.connectionLost(conn, fmt.Errorf("write call: %w", err))
		return
	}

	c.stats.calls.Inc()
	c.stats.bytesSent.Add(uint64(frameLen))
	if m := c.opts.Metrics; m != nil {
		m.RecordBytes("sent", frameLen)
	}

	if call.Args != nil {
		logger.DebugCtx(call.ctx, "RPC call sent",
			logger.KeyTag, call.Args.Tag,
			logger.KeyOps, call.Args.OpNames(),
			logger.KeyRecordLen, frameLen)
	} else {
		logger.DebugCtx(call.ctx, "RPC call sent", logger.KeyRecordLen, frameLen)
	}
}

// allocXID returns the next XID that is not pending. The counter wraps from
// 0xFFFFFFFF to 1; zero is never used. The caller must hold c.mu.
func (c *Client) allocXID() uint32 {
	for {
		c.nextXID++
		if c.nextXID == 0 {
			c.nextXID = 1
		}
		if _, busy := c.pending[c.nextXID]; !busy {
			return c.nextXID
		}
	}
}

// take removes and returns the pending call for xid, or nil.
func (c *Client) take(xid uint32) *Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	call, ok := c.pending[xid]
	if !ok {
		return nil
	}
	delete(c.pending, xid)
	return call
}

// forget removes call from the pending map if it is still registered.
func (c *Client) forget(call *Call) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.pending[call.XID]; ok && cur == call {
		delete(c.pending, call.XID)
		return true
	}
	return false
}

func (c *Client) expire(call *Call) {
	if !c.forget(call) {
		return
	}
	if !call.complete(nil, ErrTimeout) {
		return
	}

	c.stats.timeouts.Inc()
	if m := c.opts.Metrics; m != nil {
		m.RecordTimeout(procedureName(call.Procedure))
	}
	logger.WarnCtx(call.ctx, "RPC call timed out", logger.KeyDurationMs, logger.Duration(call.start))
}

// abandon fails a call whose caller stopped waiting. A reply that arrives
// afterwards is dropped as unmatched.
func (c *Client) abandon(call *Call, err error) {
	c.forget(call)
	call.complete(nil, err)
}

// callFinished runs once per sent call, on completion.
func (c *Client) callFinished(call *Call) {
	m := c.opts.Metrics
	if m == nil {
		return
	}

	procName := procedureName(call.Procedure)
	status := outcome(call.res, call.err)
	m.RecordCallEnd(procName, call.Duration(), status)

	if call.res != nil {
		for _, res := range call.res.Results {
			if st, ok := compound.ResultStatus(res); ok {
				m.RecordOperation(types.OpName(res.OpCode()), types.StatusName(st))
			}
		}
	}
}

// outcome names how a call ended, for metrics labels.
func outcome(res *compound.CompoundRes, err error) string {
	var acceptErr *RPCAcceptError
	var rejectErr *RPCRejectedError
	switch {
	case err == nil && res != nil:
		return types.StatusName(res.Status)
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrConnectionClosed):
		return "closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &acceptErr), errors.As(err, &rejectErr):
		return "rpc_error"
	default:
		return "error"
	}
}

func procedureName(proc uint32) string {
	if proc == rpc.ProcNull {
		return procNameNull
	}
	return procNameCompound
}

// ============================================================================
// Reader
// ============================================================================

// readLoop is the only goroutine that reads conn. It exits on the first read
// or framing error, after failing every pending call.
func (c *Client) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	records := rpc.NewRecordDecoder()
	dec := compound.NewDecoder(nil)
	buf := bufpool.Get(readBufferSize)
	defer bufpool.Put(buf)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			c.stats.bytesReceived.Add(uint64(n))
			if m := c.opts.Metrics; m != nil {
				m.RecordBytes("received", n)
			}

			records.Push(buf[:n])
			for {
				record, ok, rerr := records.ReadRecord()
				if rerr != nil {
					c.connectionLost(conn, rerr)
					return
				}
				if !ok {
					break
				}
				c.handleRecord(record, dec)
			}
		}
		if err != nil {
			c.connectionLost(conn, err)
			return
		}
	}
}

func (c *Client) handleRecord(record []byte, dec *compound.Decoder) {
	msg, err := rpc.DecodeMessage(record)
	if err != nil {
		c.stats.dropped.Inc()
		logger.Debug("Dropping undecodable record", logger.KeyRecordLen, len(record), logger.Err(err))
		return
	}
	if !msg.IsReply() {
		c.stats.dropped.Inc()
		logger.Debug("Dropping RPC call received on client connection", logger.XID(msg.XID))
		return
	}

	call := c.take(msg.XID)
	if call == nil {
		c.stats.unmatched.Inc()
		if m := c.opts.Metrics; m != nil {
			m.RecordUnmatchedReply()
		}
		logger.Debug("Dropping reply with unknown XID", logger.XID(msg.XID))
		return
	}
	c.stats.replies.Inc()

	res, err := c.decodeReply(call, msg, dec)
	if err != nil {
		logger.DebugCtx(call.ctx, "RPC call failed", logger.Err(err))
	} else if res != nil {
		logger.DebugCtx(call.ctx, "RPC reply received",
			logger.KeyStatus, types.StatusName(res.Status),
			logger.KeyCount, len(res.Results),
			logger.KeyDurationMs, logger.Duration(call.start))
	}

	if res != nil && call.span != nil {
		call.span.SetAttributes(
			telemetry.NFSStatus(types.StatusName(res.Status)),
			attribute.Int(telemetry.AttrNFSResultCount, len(res.Results)),
		)
	}
	call.complete(res, err)
}

func (c *Client) decodeReply(call *Call, msg *rpc.Message, dec *compound.Decoder) (*compound.CompoundRes, error) {
	if rej := msg.Rejected; rej != nil {
		return nil, &RPCRejectedError{XID: msg.XID, Stat: rej.Stat, AuthStat: rej.AuthStat, Mismatch: rej.Mismatch}
	}

	acc := msg.Accepted
	if acc.Stat != rpc.AcceptSuccess {
		return nil, &RPCAcceptError{XID: msg.XID, Stat: acc.Stat, Mismatch: acc.Mismatch}
	}

	if call.Procedure == rpc.ProcNull {
		return nil, nil
	}
	if len(acc.Results) == 0 {
		return nil, ErrNoResults
	}

	dec.Reset(acc.Results)
	res, err := dec.DecodeCompoundRes()
	if err != nil {
		return nil, fmt.Errorf("decode COMPOUND reply: %w", err)
	}
	return res, nil
}

// connectionLost tears down conn and fails every pending call. It is a no-op
// when conn is no longer the client's current connection.
func (c *Client) connectionLost(conn net.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	pending := c.pending
	c.pending = make(map[uint32]*Call)
	c.conn = nil
	closed := c.state == StateClosed
	if !closed {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	_ = conn.Close()

	err := ErrConnectionClosed
	if cause != nil && !closed {
		err = fmt.Errorf("%w: %v", ErrConnectionClosed, cause)
	}
	for _, call := range pending {
		call.complete(nil, err)
	}

	c.recordConnection("disconnected")
	if closed {
		logger.Debug("Connection closed", logger.KeyServer, c.opts.Addr, logger.KeyPending, len(pending))
		return
	}
	logger.Warn("Connection lost",
		logger.KeyServer, c.opts.Addr,
		logger.KeyPending, len(pending),
		logger.Err(cause))
}

func (c *Client) recordConnection(event string) {
	if m := c.opts.Metrics; m != nil {
		m.RecordConnection(event)
	}
}

package logger

import (
	"context"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds call-scoped logging fields.
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	XID       uint32    // RPC transaction ID
	Procedure string    // NULL, COMPOUND, or the op list of a compound
	Server    string    // Remote address
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from ctx, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext starts a LogContext for a call to server.
func NewLogContext(server string) *LogContext {
	return &LogContext{Server: server, StartTime: time.Now()}
}

// Clone returns a copy of lc. A nil receiver yields nil.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithXID returns a copy with the XID set.
func (lc *LogContext) WithXID(xid uint32) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.XID = xid
	}
	return c
}

// WithProcedure returns a copy with the procedure set.
func (lc *LogContext) WithProcedure(procedure string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.Procedure = procedure
	}
	return c
}

// WithTrace returns a copy with trace info set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.TraceID = traceID
		c.SpanID = spanID
	}
	return c
}

// DurationMs returns the time since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return Duration(lc.StartTime)
}

package client

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
)

// Call is an in-flight RPC. It completes exactly once, with either a result
// or an error; Done is closed at that point.
type Call struct {
	// XID is the transaction ID assigned when the call was sent. Zero if the
	// call failed before an XID was allocated.
	XID uint32

	// Procedure is rpc.ProcNull or rpc.ProcCompound.
	Procedure uint32

	// Args is nil for NULL.
	Args *compound.CompoundArgs

	// Done is closed when the call completes.
	Done <-chan struct{}

	done  chan struct{}
	once  sync.Once
	res   *compound.CompoundRes
	err   error
	start time.Time
	timer *time.Timer

	ctx    context.Context
	span   trace.Span
	onDone func(*Call)
}

func newCall(ctx context.Context, proc uint32, args *compound.CompoundArgs) *Call {
	done := make(chan struct{})
	return &Call{
		Procedure: proc,
		Args:      args,
		Done:      done,
		done:      done,
		start:     time.Now(),
		ctx:       ctx,
	}
}

// Result blocks until the call completes and returns its outcome.
func (c *Call) Result() (*compound.CompoundRes, error) {
	<-c.done
	return c.res, c.err
}

// Err blocks until the call completes and returns its error.
func (c *Call) Err() error {
	<-c.done
	return c.err
}

// Duration returns the time from send to completion, or to now if the call
// is still pending.
func (c *Call) Duration() time.Duration {
	return time.Since(c.start)
}

// complete records the outcome. Only the first completion wins; later ones
// (a reply racing a timeout) are ignored. It reports whether this call won.
func (c *Call) complete(res *compound.CompoundRes, err error) bool {
	won := false
	c.once.Do(func() {
		won = true
		if c.timer != nil {
			c.timer.Stop()
		}
		c.res = res
		c.err = err

		if c.span != nil {
			if err != nil {
				c.span.RecordError(err)
				c.span.SetStatus(codes.Error, err.Error())
			}
			c.span.End()
		}
		if c.onDone != nil {
			c.onDone(c)
		}
		close(c.done)
	})
	return won
}

func failedCall(ctx context.Context, proc uint32, args *compound.CompoundArgs, err error) *Call {
	call := newCall(ctx, proc, args)
	call.complete(nil, err)
	return call
}

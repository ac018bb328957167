package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/marmos91/nfs4wire/internal/logger"
)

// useRecorder installs an in-memory span recorder as the global tracer.
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	mu.Lock()
	prevTracer, prevEnabled := tracer, enabled
	tracer, enabled = provider.Tracer(instrumentationName), true
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		tracer, enabled = prevTracer, prevEnabled
		mu.Unlock()
	})
	return rec
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "nfs4ctl", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())

	// no-op spans carry no IDs
	spanCtx, span := StartSpan(ctx, "noop")
	defer span.End()
	assert.Empty(t, TraceID(spanCtx))
	assert.Empty(t, SpanID(spanCtx))
}

func TestStartCallSpan_Attributes(t *testing.T) {
	rec := useRecorder(t)

	ctx, span := StartCallSpan(context.Background(), SpanNFSCompound, "10.0.0.1:2049",
		RPCXID(0x2a), NFSOps([]string{"PUTROOTFH", "GETFH"}))
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))

	SetAttributes(ctx, NFSStatus("NFS4_OK"))
	RecordError(ctx, nil)
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanNFSCompound, spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "0x0000002a", attrs[AttrRPCXID])
	assert.Equal(t, "PUTROOTFH,GETFH", attrs[AttrNFSOps])
	assert.Equal(t, "10.0.0.1:2049", attrs[AttrServerAddr])
	assert.Equal(t, "NFS4_OK", attrs[AttrNFSStatus])
}

func TestRecordError_SetsStatus(t *testing.T) {
	rec := useRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanNFSNull)
	RecordError(ctx, errors.New("timeout"))
	AddEvent(ctx, "retry")
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "timeout", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 2) // exception + retry
}

func TestWithLogContext(t *testing.T) {
	useRecorder(t)

	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()

	ctx = WithLogContext(ctx, logger.NewLogContext("srv"))
	lc := logger.FromContext(ctx)
	require.NotNil(t, lc)
	assert.Equal(t, TraceID(ctx), lc.TraceID)
	assert.Equal(t, "srv", lc.Server)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace}, types)

	types, err = parseProfileTypes([]string{"goroutines", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileGoroutines, pyroscope.ProfileMutexCount}, types)

	_, err = parseProfileTypes([]string{"gpu"})
	assert.Error(t, err)
}

func TestInitProfilingDisabled(t *testing.T) {
	stop, err := InitProfiling(ProfilingConfig{})
	require.NoError(t, err)
	assert.NoError(t, stop())
}

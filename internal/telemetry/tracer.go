package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for NFSv4 client spans. RPC keys follow the OpenTelemetry
// rpc.* semantic conventions; the rest use the nfs. prefix.
const (
	AttrRPCSystem   = "rpc.system"
	AttrRPCXID      = "rpc.xid"
	AttrRPCProgram  = "rpc.program"
	AttrRPCVersion  = "rpc.version"
	AttrRPCAuthType = "rpc.auth_type"
	AttrRPCAccept   = "rpc.accept_stat"

	AttrServerAddr = "server.address"

	AttrNFSTag          = "nfs.tag"
	AttrNFSOps          = "nfs.ops"
	AttrNFSOpCount      = "nfs.op_count"
	AttrNFSMinorVersion = "nfs.minor_version"
	AttrNFSStatus       = "nfs.status"
	AttrNFSResultCount  = "nfs.result_count"
	AttrNFSPath         = "nfs.path"
)

// Span names.
const (
	SpanNFSNull     = "nfs4.NULL"
	SpanNFSCompound = "nfs4.COMPOUND"

	// CLI command spans
	SpanCLICommand = "nfs4ctl.command"
)

// RPCXID returns the XID attribute.
func RPCXID(xid uint32) attribute.KeyValue {
	return attribute.String(AttrRPCXID, fmt.Sprintf("0x%08x", xid))
}

// ServerAddr returns the remote address attribute.
func ServerAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrServerAddr, addr)
}

// NFSOps returns the ordered op names of a compound.
func NFSOps(names []string) attribute.KeyValue {
	return attribute.String(AttrNFSOps, strings.Join(names, ","))
}

// NFSStatus returns the compound status attribute, by name.
func NFSStatus(name string) attribute.KeyValue {
	return attribute.String(AttrNFSStatus, name)
}

// NFSPath returns the path attribute for CLI spans.
func NFSPath(path string) attribute.KeyValue {
	return attribute.String(AttrNFSPath, path)
}

// StartCallSpan starts a client span for one RPC call.
func StartCallSpan(ctx context.Context, name string, server string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	all = append(all, attribute.String(AttrRPCSystem, "onc_rpc"), ServerAddr(server))
	all = append(all, attrs...)
	return StartSpan(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(all...))
}

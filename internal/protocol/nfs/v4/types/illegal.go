package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// IllegalArgs stands in for an operation whose opcode is outside the NFSv4.0
// range (RFC 7530 Section 16.38). It has no body on the wire; Opcode keeps
// the value actually seen for diagnostics and is never encoded.
type IllegalArgs struct {
	Opcode uint32
}

func (a *IllegalArgs) OpCode() uint32                 { return OP_ILLEGAL }
func (a *IllegalArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *IllegalArgs) Decode(r io.Reader) error       { return nil }
func (a *IllegalArgs) String() string                 { return fmt.Sprintf("IllegalArgs{opcode=%d}", a.Opcode) }

// IllegalRes represents ILLEGAL4res; the status is NFS4ERR_OP_ILLEGAL.
type IllegalRes struct {
	Status uint32
}

func (res *IllegalRes) OpCode() uint32                 { return OP_ILLEGAL }
func (res *IllegalRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *IllegalRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "illegal", &res.Status) }
func (res *IllegalRes) String() string                 { return statusOnlyString("IllegalRes", res.Status) }

package compound

import (
	"fmt"
	"strings"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

// MaxCompoundOps bounds the operation count accepted when decoding a
// compound, so a hostile count cannot force a huge allocation.
const MaxCompoundOps = 128

// Message is one of the four compound envelopes.
type Message interface {
	// IsResponse reports whether the message travels in the reply
	// direction (COMPOUND4res or CB_COMPOUND4res).
	IsResponse() bool
	String() string
}

// CompoundArgs represents COMPOUND4args.
//
//	tag:           utf8str_cs (echoed back by the server)
//	minorversion:  uint32
//	argarray:      nfs_argop4<>
type CompoundArgs struct {
	Tag          string
	MinorVersion uint32
	Ops          []Op
}

// CompoundRes represents COMPOUND4res. Status is the status of the last
// evaluated operation. The codec does not require len(Results) to match
// the request's op count.
type CompoundRes struct {
	Status  uint32
	Tag     string
	Results []Op
}

// CbCompoundArgs represents CB_COMPOUND4args.
type CbCompoundArgs struct {
	Tag           string
	MinorVersion  uint32
	CallbackIdent uint32
	Ops           []Op
}

// CbCompoundRes represents CB_COMPOUND4res.
type CbCompoundRes struct {
	Status  uint32
	Tag     string
	Results []Op
}

func (c *CompoundArgs) IsResponse() bool   { return false }
func (c *CompoundRes) IsResponse() bool    { return true }
func (c *CbCompoundArgs) IsResponse() bool { return false }
func (c *CbCompoundRes) IsResponse() bool  { return true }

// OpNames lists the operation names in order, for logging and span
// attributes.
func (c *CompoundArgs) OpNames() []string {
	names := make([]string, len(c.Ops))
	for i, op := range c.Ops {
		names[i] = types.OpName(op.OpCode())
	}
	return names
}

// Last returns the final result, or nil when there are none.
func (c *CompoundRes) Last() Op {
	if len(c.Results) == 0 {
		return nil
	}
	return c.Results[len(c.Results)-1]
}

// Find returns the first result with the given opcode, or nil.
func (c *CompoundRes) Find(opcode uint32) Op {
	for _, res := range c.Results {
		if res.OpCode() == opcode {
			return res
		}
	}
	return nil
}

// ResultStatus returns the nfsstat4 of a result. ok is false for argument
// values, which carry no status.
func ResultStatus(op Op) (status uint32, ok bool) {
	r, ok := op.(interface{ ResStatus() uint32 })
	if !ok {
		return 0, false
	}
	return r.ResStatus(), true
}

// Failed returns the index and value of the first result whose status is
// not NFS4_OK, or (-1, nil) when every result succeeded. Per RFC 7530 a
// server stops at the first failure, so this is normally the last result.
func (c *CompoundRes) Failed() (int, Op) {
	for i, res := range c.Results {
		if status, ok := ResultStatus(res); ok && status != types.NFS4_OK {
			return i, res
		}
	}
	return -1, nil
}

func (c *CompoundArgs) String() string {
	return fmt.Sprintf("COMPOUND4args{tag=%q, minorversion=%d, ops=[%s]}",
		c.Tag, c.MinorVersion, joinOps(c.Ops))
}

func (c *CompoundRes) String() string {
	return fmt.Sprintf("COMPOUND4res{status=%s, tag=%q, results=[%s]}",
		types.StatusName(c.Status), c.Tag, joinOps(c.Results))
}

func (c *CbCompoundArgs) String() string {
	return fmt.Sprintf("CB_COMPOUND4args{tag=%q, minorversion=%d, callback_ident=%d, ops=[%s]}",
		c.Tag, c.MinorVersion, c.CallbackIdent, joinOps(c.Ops))
}

func (c *CbCompoundRes) String() string {
	return fmt.Sprintf("CB_COMPOUND4res{status=%s, tag=%q, results=[%s]}",
		types.StatusName(c.Status), c.Tag, joinOps(c.Results))
}

func joinOps(ops []Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

package compound

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ErrDirectionMismatch is returned by Encoder.Encode when the response flag
// does not match the kind of message.
var ErrDirectionMismatch = errors.New("compound: message direction does not match")

// Encoder serializes compound messages into a reusable buffer.
//
// The returned slices are copies, so they stay valid across calls. An
// Encoder is not safe for concurrent use.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode serializes any compound message. response selects the reply
// direction and must agree with v.IsResponse().
func (e *Encoder) Encode(v Message, response bool) ([]byte, error) {
	if v == nil {
		return nil, errors.New("compound: nil message")
	}
	if v.IsResponse() != response {
		return nil, fmt.Errorf("%w: %T with response=%t", ErrDirectionMismatch, v, response)
	}

	e.buf.Reset()
	var err error
	switch m := v.(type) {
	case *CompoundArgs:
		err = e.writeCompoundArgs(m)
	case *CompoundRes:
		err = e.writeResults("COMPOUND", m.Status, m.Tag, m.Results)
	case *CbCompoundArgs:
		err = e.writeCbCompoundArgs(m)
	case *CbCompoundRes:
		err = e.writeResults("CB_COMPOUND", m.Status, m.Tag, m.Results)
	default:
		err = fmt.Errorf("compound: unsupported message type %T", v)
	}
	if err != nil {
		return nil, err
	}
	return bytes.Clone(e.buf.Bytes()), nil
}

// EncodeCompoundArgs serializes a COMPOUND4args.
func (e *Encoder) EncodeCompoundArgs(args *CompoundArgs) ([]byte, error) {
	return e.Encode(args, false)
}

// EncodeCompoundRes serializes a COMPOUND4res.
func (e *Encoder) EncodeCompoundRes(res *CompoundRes) ([]byte, error) {
	return e.Encode(res, true)
}

// EncodeCbCompoundArgs serializes a CB_COMPOUND4args.
func (e *Encoder) EncodeCbCompoundArgs(args *CbCompoundArgs) ([]byte, error) {
	return e.Encode(args, false)
}

// EncodeCbCompoundRes serializes a CB_COMPOUND4res.
func (e *Encoder) EncodeCbCompoundRes(res *CbCompoundRes) ([]byte, error) {
	return e.Encode(res, true)
}

func (e *Encoder) writeCompoundArgs(args *CompoundArgs) error {
	if err := xdr.WriteXDRString(&e.buf, args.Tag); err != nil {
		return fmt.Errorf("encode COMPOUND tag: %w", err)
	}
	if err := xdr.WriteUint32(&e.buf, args.MinorVersion); err != nil {
		return fmt.Errorf("encode COMPOUND minorversion: %w", err)
	}
	return e.writeOps("COMPOUND", args.Ops)
}

func (e *Encoder) writeCbCompoundArgs(args *CbCompoundArgs) error {
	if err := xdr.WriteXDRString(&e.buf, args.Tag); err != nil {
		return fmt.Errorf("encode CB_COMPOUND tag: %w", err)
	}
	if err := xdr.WriteUint32(&e.buf, args.MinorVersion); err != nil {
		return fmt.Errorf("encode CB_COMPOUND minorversion: %w", err)
	}
	if err := xdr.WriteUint32(&e.buf, args.CallbackIdent); err != nil {
		return fmt.Errorf("encode CB_COMPOUND callback_ident: %w", err)
	}
	return e.writeOps("CB_COMPOUND", args.Ops)
}

func (e *Encoder) writeResults(name string, status uint32, tag string, results []Op) error {
	if err := xdr.WriteUint32(&e.buf, status); err != nil {
		return fmt.Errorf("encode %s status: %w", name, err)
	}
	if err := xdr.WriteXDRString(&e.buf, tag); err != nil {
		return fmt.Errorf("encode %s tag: %w", name, err)
	}
	return e.writeOps(name, results)
}

// writeOps writes the count and each entry as opcode + body.
func (e *Encoder) writeOps(name string, ops []Op) error {
	if len(ops) > MaxCompoundOps {
		return fmt.Errorf("encode %s: op count %d exceeds limit %d", name, len(ops), MaxCompoundOps)
	}
	if err := xdr.WriteUint32(&e.buf, uint32(len(ops))); err != nil {
		return fmt.Errorf("encode %s numops: %w", name, err)
	}
	for i, op := range ops {
		if op == nil {
			return fmt.Errorf("encode %s op %d: nil operation", name, i)
		}
		if err := xdr.WriteUint32(&e.buf, op.OpCode()); err != nil {
			return fmt.Errorf("encode %s op %d opcode: %w", name, i, err)
		}
		if err := op.Encode(&e.buf); err != nil {
			return fmt.Errorf("encode %s op %d (%s): %w", name, i, op.String(), err)
		}
	}
	return nil
}

package compound

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// Decoder reads compound messages from a byte slice. It keeps a single
// cursor that can be Reset and reused across messages.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	r bytes.Reader
}

// NewDecoder returns a decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	d := &Decoder{}
	d.r.Reset(data)
	return d
}

// Reset points the decoder at a new buffer.
func (d *Decoder) Reset(data []byte) {
	d.r.Reset(data)
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return d.r.Len()
}

// Offset returns the cursor position from the start of the buffer.
func (d *Decoder) Offset() int64 {
	return d.r.Size() - int64(d.r.Len())
}

// DecodeCompoundArgs reads a COMPOUND4args.
//
// Decoding stops after the first opcode outside the NFSv4.0 range: the
// ILLEGAL stand-in is appended and any bytes that follow are left unread,
// since the arguments of an unknown operation have no known length.
func (d *Decoder) DecodeCompoundArgs() (*CompoundArgs, error) {
	tag, err := xdr.DecodeString(&d.r)
	if err != nil {
		return nil, fmt.Errorf("decode COMPOUND tag: %w", err)
	}
	minorVersion, err := xdr.DecodeUint32(&d.r)
	if err != nil {
		return nil, fmt.Errorf("decode COMPOUND minorversion: %w", err)
	}
	ops, err := d.decodeOps("COMPOUND", NewArgs, true)
	if err != nil {
		return nil, err
	}
	return &CompoundArgs{Tag: tag, MinorVersion: minorVersion, Ops: ops}, nil
}

// DecodeCompoundRes reads a COMPOUND4res.
func (d *Decoder) DecodeCompoundRes() (*CompoundRes, error) {
	status, tag, err := d.decodeResHeader("COMPOUND")
	if err != nil {
		return nil, err
	}
	results, err := d.decodeOps("COMPOUND", NewRes, false)
	if err != nil {
		return nil, err
	}
	return &CompoundRes{Status: status, Tag: tag, Results: results}, nil
}

// DecodeCbCompoundArgs reads a CB_COMPOUND4args.
func (d *Decoder) DecodeCbCompoundArgs() (*CbCompoundArgs, error) {
	tag, err := xdr.DecodeString(&d.r)
	if err != nil {
		return nil, fmt.Errorf("decode CB_COMPOUND tag: %w", err)
	}
	minorVersion, err := xdr.DecodeUint32(&d.r)
	if err != nil {
		return nil, fmt.Errorf("decode CB_COMPOUND minorversion: %w", err)
	}
	callbackIdent, err := xdr.DecodeUint32(&d.r)
	if err != nil {
		return nil, fmt.Errorf("decode CB_COMPOUND callback_ident: %w", err)
	}
	ops, err := d.decodeOps("CB_COMPOUND", NewCbArgs, true)
	if err != nil {
		return nil, err
	}
	return &CbCompoundArgs{
		Tag:           tag,
		MinorVersion:  minorVersion,
		CallbackIdent: callbackIdent,
		Ops:           ops,
	}, nil
}

// TryDecodeCbCompoundArgs attempts to read a CB_COMPOUND4args.
//
// When the buffer runs out mid-message the cursor is restored to where it
// started and (nil, false, nil) is returned, so the caller can try another
// interpretation of the same bytes. Any other fault is returned as an error.
func (d *Decoder) TryDecodeCbCompoundArgs() (*CbCompoundArgs, bool, error) {
	start := d.Offset()
	args, err := d.DecodeCbCompoundArgs()
	if err != nil {
		if xdr.IsRangeError(err) {
			if _, seekErr := d.r.Seek(start, io.SeekStart); seekErr != nil {
				return nil, false, seekErr
			}
			return nil, false, nil
		}
		return nil, false, err
	}
	return args, true, nil
}

// DecodeCbCompoundRes reads a CB_COMPOUND4res.
func (d *Decoder) DecodeCbCompoundRes() (*CbCompoundRes, error) {
	status, tag, err := d.decodeResHeader("CB_COMPOUND")
	if err != nil {
		return nil, err
	}
	results, err := d.decodeOps("CB_COMPOUND", NewCbRes, false)
	if err != nil {
		return nil, err
	}
	return &CbCompoundRes{Status: status, Tag: tag, Results: results}, nil
}

func (d *Decoder) decodeResHeader(name string) (uint32, string, error) {
	status, err := xdr.DecodeUint32(&d.r)
	if err != nil {
		return 0, "", fmt.Errorf("decode %s status: %w", name, err)
	}
	tag, err := xdr.DecodeString(&d.r)
	if err != nil {
		return 0, "", fmt.Errorf("decode %s tag: %w", name, err)
	}
	return status, tag, nil
}

// decodeOps reads the op count and then each opcode-prefixed entry.
// When stopAtIllegal is set the loop ends after an ILLEGAL stand-in.
func (d *Decoder) decodeOps(name string, factory func(uint32) Op, stopAtIllegal bool) ([]Op, error) {
	numOps, err := xdr.DecodeUint32(&d.r)
	if err != nil {
		return nil, fmt.Errorf("decode %s numops: %w", name, err)
	}
	if numOps > MaxCompoundOps {
		return nil, fmt.Errorf("decode %s: op count %d exceeds limit %d", name, numOps, MaxCompoundOps)
	}

	ops := make([]Op, 0, numOps)
	for i := uint32(0); i < numOps; i++ {
		opcode, err := xdr.DecodeUint32(&d.r)
		if err != nil {
			return nil, fmt.Errorf("decode %s op %d opcode: %w", name, i, err)
		}

		op := factory(opcode)
		if err := op.Decode(&d.r); err != nil {
			return nil, fmt.Errorf("decode %s op %d: %w", name, i, err)
		}
		ops = append(ops, op)

		if stopAtIllegal && isIllegal(op) {
			break
		}
	}
	return ops, nil
}

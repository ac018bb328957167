package xdr

import (
	"bytes"
	"io"
)

// ============================================================================
// XDR Codec Interfaces
// ============================================================================

// XdrEncoder is implemented by types that can encode themselves to XDR format.
type XdrEncoder interface {
	Encode(buf *bytes.Buffer) error
}

// XdrDecoder is implemented by types that can decode themselves from XDR format.
type XdrDecoder interface {
	Decode(r io.Reader) error
}

// ============================================================================
// XDR Discriminated Union Helpers
// ============================================================================

// EncodeUnionDiscriminant writes the uint32 discriminant of an XDR union.
//
// Per RFC 4506 Section 4.15 (Discriminated Unions):
// The discriminant is always encoded as a 4-byte value before the arm data.
func EncodeUnionDiscriminant(buf *bytes.Buffer, disc uint32) error {
	return WriteUint32(buf, disc)
}

// DecodeUnionDiscriminant reads the uint32 discriminant of an XDR union.
func DecodeUnionDiscriminant(r io.Reader) (uint32, error) {
	return DecodeUint32(r)
}

// WriteOptional encodes an XDR optional-data item (RFC 4506 Section 4.19):
// a boolean "present" flag followed by the value when present.
func WriteOptional[T any](buf *bytes.Buffer, v *T, encode func(*bytes.Buffer, *T) error) error {
	if v == nil {
		return WriteBool(buf, false)
	}
	if err := WriteBool(buf, true); err != nil {
		return err
	}
	return encode(buf, v)
}

// DecodeOptional is the inverse of WriteOptional. It returns nil when the
// "present" flag is false.
func DecodeOptional[T any](r io.Reader, decode func(io.Reader) (*T, error)) (*T, error) {
	present, err := DecodeBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return decode(r)
}

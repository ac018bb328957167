package xdr

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ============================================================================
// XDR Decoding Helpers - Wire Format → Go Types
// ============================================================================

// DecodeUint32 decodes a 32-bit unsigned integer from XDR format.
//
// Per RFC 4506 Section 4.2 (Unsigned Integer):
// Unsigned 32-bit integers are encoded in big-endian byte order.
func DecodeUint32(reader io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(reader, b[:]); err != nil {
		return 0, fmt.Errorf("read uint32: %w", err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// DecodeInt32 decodes a 32-bit signed integer from XDR format.
//
// Per RFC 4506 Section 4.1 (Integer):
// Signed 32-bit integers are encoded in big-endian byte order using
// two's complement representation.
func DecodeInt32(reader io.Reader) (int32, error) {
	v, err := DecodeUint32(reader)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// DecodeBool decodes an XDR boolean value.
//
// Per RFC 4506 Section 4.4 (Boolean):
// Booleans are encoded as a 4-byte integer where 0 = false. Any non-zero
// value is accepted as true, although 1 is the only canonical encoding.
// Bools that select a union arm (locker4.new_lock_owner, for one) are read
// with DecodeUnionDiscriminant instead and reject values other than 0 or 1.
func DecodeBool(reader io.Reader) (bool, error) {
	v, err := DecodeUint32(reader)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// DecodeUint64 decodes a 64-bit unsigned integer (unsigned hyper).
//
// Per RFC 4506 Section 4.5 (Hyper Integer and Unsigned Hyper Integer):
// 64-bit integers are encoded in big-endian byte order across two 4-byte units.
func DecodeUint64(reader io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(reader, b[:]); err != nil {
		return 0, fmt.Errorf("read uint64: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// DecodeInt64 decodes a 64-bit signed integer (hyper).
func DecodeInt64(reader io.Reader) (int64, error) {
	v, err := DecodeUint64(reader)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// DecodeFloat32 decodes an IEEE 754 single-precision float.
//
// Per RFC 4506 Section 4.6 (Floating-Point).
func DecodeFloat32(reader io.Reader) (float32, error) {
	v, err := DecodeUint32(reader)
	if err != nil {
		return 0, fmt.Errorf("read float: %w", err)
	}
	return math.Float32frombits(v), nil
}

// DecodeFloat64 decodes an IEEE 754 double-precision float.
//
// Per RFC 4506 Section 4.7 (Double-Precision Floating-Point).
func DecodeFloat64(reader io.Reader) (float64, error) {
	v, err := DecodeUint64(reader)
	if err != nil {
		return 0, fmt.Errorf("read double: %w", err)
	}
	return math.Float64frombits(v), nil
}

// DecodeQuadruple would decode an RFC 4506 Section 4.8 quadruple-precision
// float. It always fails with ErrNotImplemented and consumes nothing.
func DecodeQuadruple(_ io.Reader) ([16]byte, error) {
	return [16]byte{}, fmt.Errorf("decode quadruple: %w", ErrNotImplemented)
}

// DecodeFixedOpaque decodes XDR fixed-length opaque data.
//
// Per RFC 4506 Section 4.9 (Fixed-Length Opaque Data):
// Format: [data:size bytes][padding:0-3 bytes]
func DecodeFixedOpaque(reader io.Reader, size uint32) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read fixed opaque: %w", err)
	}
	if err := skipPadding(reader, size); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeFixedOpaqueInto fills dst from the stream and skips the padding.
// Used for fixed-size arrays such as verifiers and stateid "other" fields.
func DecodeFixedOpaqueInto(reader io.Reader, dst []byte) error {
	if _, err := io.ReadFull(reader, dst); err != nil {
		return fmt.Errorf("read fixed opaque: %w", err)
	}
	return skipPadding(reader, uint32(len(dst)))
}

// DecodeOpaque decodes XDR variable-length opaque data.
//
// Per RFC 4506 Section 4.10 (Variable-Length Opaque Data):
// Format: [length:uint32][data:length bytes][padding:0-3 bytes]
func DecodeOpaque(reader io.Reader) ([]byte, error) {
	return DecodeOpaqueMax(reader, MaxOpaqueLength)
}

// DecodeOpaqueMax decodes variable-length opaque data whose declared maximum
// is limit (opaque<limit>). A longer length prefix is rejected before any
// allocation.
func DecodeOpaqueMax(reader io.Reader, limit uint32) ([]byte, error) {
	length, err := DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}

	if length > limit {
		return nil, fmt.Errorf("opaque length %d exceeds maximum %d", length, limit)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	if err := skipPadding(reader, length); err != nil {
		return nil, err
	}

	return data, nil
}

// DecodeString decodes XDR variable-length string.
//
// Per RFC 4506 Section 4.11 (String):
// Strings use the same encoding as opaque data and are interpreted as UTF-8.
func DecodeString(reader io.Reader) (string, error) {
	data, err := DecodeOpaque(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeStringMax decodes a string<limit>.
func DecodeStringMax(reader io.Reader, limit uint32) (string, error) {
	data, err := DecodeOpaqueMax(reader, limit)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// skipPadding consumes the 0-3 alignment bytes that follow n bytes of data.
// XDR padding is max 3 bytes, so a stack buffer is enough.
func skipPadding(reader io.Reader, n uint32) error {
	padding := PaddingFor(n)
	if padding == 0 {
		return nil
	}
	var padBuf [3]byte
	if _, err := io.ReadFull(reader, padBuf[:padding]); err != nil {
		return fmt.Errorf("skip padding: %w", err)
	}
	return nil
}

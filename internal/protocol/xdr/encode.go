package xdr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ============================================================================
// XDR Encoding Helpers - Go Types → Wire Format
// ============================================================================

// WriteUint32 encodes a 32-bit unsigned integer in XDR format.
//
// Per RFC 4506 Section 4.2 (Unsigned Integer):
// Unsigned 32-bit integers are encoded in big-endian byte order.
func WriteUint32(buf *bytes.Buffer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	if _, err := buf.Write(b[:]); err != nil {
		return fmt.Errorf("write uint32: %w", err)
	}
	return nil
}

// WriteInt32 encodes a 32-bit signed integer in two's complement.
func WriteInt32(buf *bytes.Buffer, v int32) error {
	return WriteUint32(buf, uint32(v))
}

// WriteUint64 encodes a 64-bit unsigned integer (unsigned hyper).
//
// Per RFC 4506 Section 4.5 (Hyper Integer and Unsigned Hyper Integer).
func WriteUint64(buf *bytes.Buffer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	if _, err := buf.Write(b[:]); err != nil {
		return fmt.Errorf("write uint64: %w", err)
	}
	return nil
}

// WriteInt64 encodes a 64-bit signed integer (hyper).
func WriteInt64(buf *bytes.Buffer, v int64) error {
	return WriteUint64(buf, uint64(v))
}

// WriteBool encodes a boolean value in XDR format.
//
// Per RFC 4506 Section 4.4 (Boolean):
// Booleans are encoded as uint32 where 0 = false, 1 = true.
func WriteBool(buf *bytes.Buffer, v bool) error {
	var val uint32
	if v {
		val = 1
	}
	return WriteUint32(buf, val)
}

// WriteFloat32 encodes an IEEE 754 single-precision float.
func WriteFloat32(buf *bytes.Buffer, v float32) error {
	return WriteUint32(buf, math.Float32bits(v))
}

// WriteFloat64 encodes an IEEE 754 double-precision float.
func WriteFloat64(buf *bytes.Buffer, v float64) error {
	return WriteUint64(buf, math.Float64bits(v))
}

// WriteQuadruple always fails with ErrNotImplemented and writes nothing.
func WriteQuadruple(_ *bytes.Buffer, _ [16]byte) error {
	return fmt.Errorf("encode quadruple: %w", ErrNotImplemented)
}

// WriteFixedOpaque encodes fixed-length opaque data: the bytes followed by
// zero padding to the next 4-byte boundary. No length prefix is written.
//
// Per RFC 4506 Section 4.9 (Fixed-Length Opaque Data).
//
// Example:
//
//	[]byte{0x01, 0x02, 0x03} → [01 02 03][00] (4 bytes total)
func WriteFixedOpaque(buf *bytes.Buffer, data []byte) error {
	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write fixed opaque: %w", err)
	}
	return WriteXDRPadding(buf, uint32(len(data)))
}

// WriteXDROpaque encodes variable-length opaque data: length + data + padding.
//
// Per RFC 4506 Section 4.10 (Variable-Length Opaque Data):
// Format: [length:uint32][data:bytes][padding:bytes]
//
// Example:
//
//	[]byte{0x01, 0x02, 0x03} → [00 00 00 03][01 02 03][00] (8 bytes total)
func WriteXDROpaque(buf *bytes.Buffer, data []byte) error {
	length := uint32(len(data))
	if err := WriteUint32(buf, length); err != nil {
		return fmt.Errorf("write opaque length: %w", err)
	}

	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write opaque data: %w", err)
	}

	return WriteXDRPadding(buf, length)
}

// WriteXDRString encodes a string in XDR format: length + data + padding.
//
// Per RFC 4506 Section 4.11 (String). The wire framing is identical to
// variable-length opaque data.
//
// Example:
//
//	"abc" (3 bytes) → [00 00 00 03][61 62 63][00] (8 bytes total)
//	"test" (4 bytes) → [00 00 00 04][74 65 73 74] (8 bytes total)
func WriteXDRString(buf *bytes.Buffer, s string) error {
	length := uint32(len(s))
	if err := WriteUint32(buf, length); err != nil {
		return fmt.Errorf("write string length: %w", err)
	}

	if _, err := buf.WriteString(s); err != nil {
		return fmt.Errorf("write string data: %w", err)
	}

	return WriteXDRPadding(buf, length)
}

// WriteXDRPadding writes the zero bytes that align dataLen bytes of opaque
// data to a 4-byte boundary.
//
//	dataLen=3 → writes 1 padding byte
//	dataLen=4 → writes 0 padding bytes
//	dataLen=5 → writes 3 padding bytes
func WriteXDRPadding(buf *bytes.Buffer, dataLen uint32) error {
	padding := PaddingFor(dataLen)
	if padding > 0 {
		var zero [3]byte
		if _, err := buf.Write(zero[:padding]); err != nil {
			return fmt.Errorf("write padding: %w", err)
		}
	}
	return nil
}

// Package xdr provides XDR (External Data Representation) encoding and
// decoding primitives per RFC 4506.
//
// XDR is the serialization format underneath ONC RPC and NFSv4. This package
// is the bottom layer of the codec stack: the NFSv4 data model, the compound
// codec and the schema-driven encoder all read and write through it.
//
// Key characteristics of XDR:
//   - Big-endian byte order for all multi-byte values
//   - Every item occupies a whole number of 4-byte units
//   - Variable-length data is preceded by a 4-byte length
//   - Opaque data and strings are zero-padded to a 4-byte boundary
//
// Decoders read from an io.Reader and encoders append to a *bytes.Buffer.
// Running out of input surfaces as io.EOF or io.ErrUnexpectedEOF (wrapped);
// use IsRangeError to detect it.
//
// Reference: RFC 4506 - XDR: External Data Representation Standard
// https://tools.ietf.org/html/rfc4506
package xdr

import (
	"errors"
	"io"
)

// MaxOpaqueLength bounds variable-length opaque data and strings accepted by
// the decoder. Anything larger is treated as malformed input rather than
// allocated.
const MaxOpaqueLength = 16 * 1024 * 1024

// ErrNotImplemented is returned by the quadruple (128-bit float) codec.
// Go has no native binary128 type and no NFSv4.0 operation uses one.
var ErrNotImplemented = errors.New("xdr: not implemented")

// IsRangeError reports whether err was caused by reading past the end of the
// input. Both a clean EOF at an item boundary and a short read in the middle
// of an item count.
func IsRangeError(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// PaddingFor returns the number of zero bytes that follow n bytes of opaque
// data to reach the next 4-byte boundary.
func PaddingFor(n uint32) uint32 {
	return (4 - (n % 4)) % 4
}

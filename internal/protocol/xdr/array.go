package xdr

import (
	"bytes"
	"fmt"
	"io"
)

// ============================================================================
// XDR Array Helpers
// ============================================================================

// DecodeArray decodes a fixed-length array of exactly n elements.
//
// Per RFC 4506 Section 4.12 (Fixed-Length Array). No count is present on the
// wire; each element is decoded with decodeElem.
func DecodeArray[T any](reader io.Reader, n uint32, decodeElem func(io.Reader) (T, error)) ([]T, error) {
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := decodeElem(reader)
		if err != nil {
			return nil, fmt.Errorf("decode array element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeVarArray decodes a counted array (RFC 4506 Section 4.13).
//
// Format: [count:uint32][element]*count
//
// A count above limit is rejected before any element is read, so a hostile
// count cannot force a large allocation.
func DecodeVarArray[T any](reader io.Reader, limit uint32, decodeElem func(io.Reader) (T, error)) ([]T, error) {
	count, err := DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read array count: %w", err)
	}
	if count > limit {
		return nil, fmt.Errorf("array count %d exceeds maximum %d", count, limit)
	}
	return DecodeArray(reader, count, decodeElem)
}

// WriteArray encodes every element of items with no count prefix.
func WriteArray[T any](buf *bytes.Buffer, items []T, encodeElem func(*bytes.Buffer, T) error) error {
	for i, item := range items {
		if err := encodeElem(buf, item); err != nil {
			return fmt.Errorf("encode array element %d: %w", i, err)
		}
	}
	return nil
}

// WriteVarArray encodes a uint32 count followed by every element of items.
func WriteVarArray[T any](buf *bytes.Buffer, items []T, encodeElem func(*bytes.Buffer, T) error) error {
	if err := WriteUint32(buf, uint32(len(items))); err != nil {
		return fmt.Errorf("write array count: %w", err)
	}
	return WriteArray(buf, items, encodeElem)
}

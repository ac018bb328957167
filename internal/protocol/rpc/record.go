package rpc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Record marking (RFC 5531 Section 11).
//
// On a stream transport every RPC message is sent as one or more fragments.
// Each fragment starts with a 4-byte big-endian header: bit 31 marks the
// last fragment of the record and bits 0-30 carry the fragment length.

const (
	lastFragmentBit = 0x80000000
	fragmentLenMask = 0x7FFFFFFF

	// MaxRecordSize bounds a reassembled record. It comfortably holds a
	// 1 MiB READ or WRITE payload plus the compound around it.
	MaxRecordSize = 4 * 1024 * 1024
)

// ErrRecordTooLarge is returned when a fragment or the reassembled record
// exceeds MaxRecordSize. The stream cannot be resynchronized afterwards.
var ErrRecordTooLarge = errors.New("rpc record too large")

// FrameRecord prefixes msg with a single last-fragment record mark.
func FrameRecord(msg []byte) []byte {
	return FrameRecordInto(make([]byte, 4+len(msg)), msg)
}

// FrameRecordInto is FrameRecord writing into dst, which must be at least
// 4+len(msg) bytes long. It returns dst[:4+len(msg)].
func FrameRecordInto(dst, msg []byte) []byte {
	out := dst[:4+len(msg)]
	binary.BigEndian.PutUint32(out[0:4], uint32(len(msg))|lastFragmentBit)
	copy(out[4:], msg)
	return out
}

// RecordDecoder reassembles records from arbitrarily chunked stream data.
//
// Bytes are fed with Push as they arrive; ReadRecord returns each complete
// record in order. A RecordDecoder is not safe for concurrent use.
type RecordDecoder struct {
	pending []byte // bytes not yet consumed
	record  []byte // fragments of the record being assembled
}

// NewRecordDecoder returns an empty decoder.
func NewRecordDecoder() *RecordDecoder {
	return &RecordDecoder{}
}

// Push appends stream bytes. The slice is copied.
func (d *RecordDecoder) Push(data []byte) {
	d.pending = append(d.pending, data...)
}

// Buffered returns the number of bytes received but not yet returned as part
// of a record.
func (d *RecordDecoder) Buffered() int {
	return len(d.pending) + len(d.record)
}

// ReadRecord returns the next complete record. ok is false when more data is
// needed. An error means the stream is corrupt.
func (d *RecordDecoder) ReadRecord() (record []byte, ok bool, err error) {
	for {
		if len(d.pending) < 4 {
			return nil, false, nil
		}

		header := binary.BigEndian.Uint32(d.pending[0:4])
		fragLen := header & fragmentLenMask
		last := header&lastFragmentBit != 0

		if fragLen > MaxRecordSize || uint64(len(d.record))+uint64(fragLen) > MaxRecordSize {
			return nil, false, fmt.Errorf("%w: fragment of %d bytes", ErrRecordTooLarge, fragLen)
		}

		if uint32(len(d.pending)-4) < fragLen {
			return nil, false, nil
		}

		frag := d.pending[4 : 4+fragLen]
		d.record = append(d.record, frag...)
		d.pending = d.pending[4+fragLen:]

		if len(d.pending) == 0 {
			d.pending = nil
		}

		if last {
			record = d.record
			d.record = nil
			return record, true, nil
		}
	}
}

// Reset discards all buffered data.
func (d *RecordDecoder) Reset() {
	d.pending = nil
	d.record = nil
}

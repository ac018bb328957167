package types

import (
	"bytes"
	"io"
	"testing"
)

// ============================================================================
// Reusable Test Fixtures for NFSv4.0 Types
// ============================================================================
//
// These package-level functions provide pre-built test data for the
// per-topic test files. They are only available to test files in the same
// package (_test.go).

// ValidStateid returns a non-special stateid with deterministic content.
func ValidStateid() Stateid4 {
	return Stateid4{
		Seqid: 1,
		Other: [NFS4_OTHER_SIZE]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c},
	}
}

// ValidFileHandle returns a 16-byte file handle.
func ValidFileHandle() NfsFh4 {
	return NfsFh4{
		0xfe, 0xed, 0xfa, 0xce, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2a,
	}
}

// ValidVerifier returns a non-zero verifier.
func ValidVerifier() Verifier4 {
	return Verifier4{0xde, 0xad, 0xbe, 0xef, 0xca, 0xfe, 0xba, 0xbe}
}

// ValidOwner returns an open/lock owner.
func ValidOwner() StateOwner4 {
	return StateOwner4{ClientID: 0x0123456789abcdef, Owner: []byte("nfs4wire-test-owner")}
}

// ValidFattr returns an fattr4 with two mask words and 8 value bytes.
func ValidFattr() Fattr4 {
	return Fattr4{
		Attrmask: Bitmap4{0x00000012, 0x00000002},
		AttrVals: []byte{0, 0, 0, 2, 0, 0, 0, 0},
	}
}

// ValidChangeInfo returns an atomic change_info4.
func ValidChangeInfo() ChangeInfo4 {
	return ChangeInfo4{Atomic: true, Before: 100, After: 101}
}

// wireCodec is what every args, result and union value implements.
type wireCodec interface {
	Encode(buf *bytes.Buffer) error
	Decode(r io.Reader) error
}

// encodeBytes encodes v and fails the test on error.
func encodeBytes(t *testing.T, v wireCodec) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := v.Encode(&buf); err != nil {
		t.Fatalf("Encode(%T): %v", v, err)
	}
	return buf.Bytes()
}

// assertRoundTrip encodes src, decodes the bytes into dst and checks that
// the input was consumed exactly and that dst re-encodes to the same bytes.
// It returns the encoding for further assertions.
func assertRoundTrip(t *testing.T, src, dst wireCodec) []byte {
	t.Helper()
	want := encodeBytes(t, src)

	r := bytes.NewReader(want)
	if err := dst.Decode(r); err != nil {
		t.Fatalf("Decode(%T): %v", dst, err)
	}
	if r.Len() != 0 {
		t.Fatalf("Decode(%T) left %d unread bytes", dst, r.Len())
	}

	got := encodeBytes(t, dst)
	if !bytes.Equal(got, want) {
		t.Fatalf("re-encode mismatch for %T:\n got %x\nwant %x", dst, got, want)
	}
	return want
}

package types

import (
	"bytes"
	"strings"
	"testing"
)

func TestStateid4_WireFormat(t *testing.T) {
	sid := ValidStateid()

	var buf bytes.Buffer
	if err := EncodeStateid4(&buf, &sid); err != nil {
		t.Fatalf("EncodeStateid4: %v", err)
	}
	if buf.Len() != 16 {
		t.Fatalf("len: got %d, want 16", buf.Len())
	}

	decoded, err := DecodeStateid4(&buf)
	if err != nil {
		t.Fatalf("DecodeStateid4: %v", err)
	}
	if *decoded != sid {
		t.Errorf("got %+v, want %+v", *decoded, sid)
	}
	if got, want := sid.String(), "1:0102030405060708090a0b0c"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}

func TestStateid4_Special(t *testing.T) {
	anon := AnonymousStateid()
	bypass := ReadBypassStateid()
	regular := ValidStateid()

	if !anon.IsSpecialStateid() || !bypass.IsSpecialStateid() {
		t.Error("anonymous and read-bypass stateids must be special")
	}
	if regular.IsSpecialStateid() {
		t.Error("regular stateid reported as special")
	}
	if bypass.Seqid != 0xffffffff || bypass.Other[11] != 0xff {
		t.Errorf("read bypass: got %+v", bypass)
	}
}

func TestNfsFh4_TooLong(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeNfsFh4(&buf, make(NfsFh4, NFS4_FHSIZE+1)); err == nil {
		t.Error("expected error encoding 129-byte handle")
	}

	// Length prefix 129 with no body must be rejected before reading.
	_, err := DecodeNfsFh4(bytes.NewReader([]byte{0, 0, 0, 129}))
	if err == nil {
		t.Error("expected error decoding 129-byte handle")
	}
}

func TestBitmap4_RoundTrip(t *testing.T) {
	for _, bm := range []Bitmap4{{}, {0x1}, {0x0010011a, 0x00b0a23a}} {
		var buf bytes.Buffer
		if err := EncodeBitmap4(&buf, bm); err != nil {
			t.Fatalf("EncodeBitmap4: %v", err)
		}
		if buf.Len() != 4+4*len(bm) {
			t.Fatalf("len: got %d, want %d", buf.Len(), 4+4*len(bm))
		}
		decoded, err := DecodeBitmap4(&buf)
		if err != nil {
			t.Fatalf("DecodeBitmap4: %v", err)
		}
		if len(decoded) != len(bm) {
			t.Fatalf("words: got %d, want %d", len(decoded), len(bm))
		}
		for i := range bm {
			if decoded[i] != bm[i] {
				t.Errorf("word %d: got 0x%x, want 0x%x", i, decoded[i], bm[i])
			}
		}
	}
}

func TestBitmap4_TooManyWords(t *testing.T) {
	_, err := DecodeBitmap4(bytes.NewReader([]byte{0, 0, 0, MaxBitmapWords + 1}))
	if err == nil {
		t.Fatal("expected error for oversized bitmap")
	}
}

func TestDirList4_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeDirList4(&buf, &DirList4{EOF: true}); err != nil {
		t.Fatalf("encodeDirList4: %v", err)
	}
	// value_follows=FALSE, eof=TRUE
	if want := []byte{0, 0, 0, 0, 0, 0, 0, 1}; !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got %x, want %x", buf.Bytes(), want)
	}

	list, err := decodeDirList4(&buf)
	if err != nil {
		t.Fatalf("decodeDirList4: %v", err)
	}
	if len(list.Entries) != 0 || !list.EOF {
		t.Errorf("got %+v", list)
	}
}

func TestValidateUTF8Filename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint32
	}{
		{"valid ascii", "readme.txt", NFS4_OK},
		{"valid unicode", "résumé", NFS4_OK},
		{"empty", "", NFS4ERR_INVAL},
		{"invalid utf8", "bad\xff", NFS4ERR_BADCHAR},
		{"null byte", "a\x00b", NFS4ERR_BADCHAR},
		{"slash", "a/b", NFS4ERR_BADNAME},
		{"too long", strings.Repeat("x", 256), NFS4ERR_NAMETOOLONG},
		{"max length", strings.Repeat("x", 255), NFS4_OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUTF8Filename(tt.in); got != tt.want {
				t.Errorf("ValidateUTF8Filename(%q) = %s, want %s", tt.in, StatusName(got), StatusName(tt.want))
			}
		})
	}
}

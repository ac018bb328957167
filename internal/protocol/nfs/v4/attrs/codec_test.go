package attrs

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

func TestEncodeFattr_WireLayout(t *testing.T) {
	a := &Attributes{
		Mask: Request(FATTR4_SIZE, FATTR4_TYPE),
		Type: types.NF4REG,
		Size: 0x0102030405060708,
	}

	f, err := EncodeFattr(a)
	if err != nil {
		t.Fatalf("EncodeFattr: %v", err)
	}

	// type (bit 1) precedes size (bit 4) regardless of field order
	want := []byte{
		0, 0, 0, 1,
		1, 2, 3, 4, 5, 6, 7, 8,
	}
	if string(f.AttrVals) != string(want) {
		t.Fatalf("attr_vals: got %x, want %x", f.AttrVals, want)
	}
	if len(f.Attrmask) != 1 || f.Attrmask[0] != 0x12 {
		t.Errorf("mask: got %#x", f.Attrmask)
	}
}

func TestFattr_RoundTrip(t *testing.T) {
	mtime := NFSTimeFrom(time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC))
	a := &Attributes{
		Mask: Request(
			FATTR4_SUPPORTED_ATTRS, FATTR4_TYPE, FATTR4_CHANGE, FATTR4_SIZE,
			FATTR4_FSID, FATTR4_LEASE_TIME, FATTR4_ACL, FATTR4_FILEHANDLE,
			FATTR4_FILEID, FATTR4_MODE, FATTR4_NUMLINKS, FATTR4_OWNER,
			FATTR4_OWNER_GROUP, FATTR4_SPACE_USED, FATTR4_TIME_ACCESS,
			FATTR4_TIME_MODIFY, FATTR4_TIME_MODIFY_SET,
		),
		SupportedAttrs: Request(FATTR4_TYPE, FATTR4_SIZE),
		Type:           types.NF4DIR,
		Change:         77,
		Size:           4096,
		Fsid:           Fsid4{Major: 1, Minor: 2},
		LeaseTime:      90,
		ACL:            []types.Nfsace4{{Type: 0, AccessMask: 0x1, Who: "OWNER@"}},
		Filehandle:     types.NfsFh4{0xaa, 0xbb},
		FileID:         42,
		Mode:           0o755,
		NumLinks:       3,
		Owner:          "1000@example.com",
		OwnerGroup:     "100@example.com",
		SpaceUsed:      8192,
		TimeAccess:     NFSTime4{Seconds: -5, Nseconds: 1},
		TimeModify:     mtime,
		TimeModifySet:  SetTime4{ServerTime: true},
	}

	f, err := EncodeFattr(a)
	if err != nil {
		t.Fatalf("EncodeFattr: %v", err)
	}
	got, err := DecodeFattr(&f)
	if err != nil {
		t.Fatalf("DecodeFattr: %v", err)
	}

	if got.Type != a.Type || got.Size != a.Size || got.Change != a.Change {
		t.Errorf("scalars: got %+v", got)
	}
	if got.Fsid != a.Fsid || got.FileID != a.FileID || got.NumLinks != 3 {
		t.Errorf("ids: got fsid=%v fileid=%d", got.Fsid, got.FileID)
	}
	if got.Owner != a.Owner || got.OwnerGroup != a.OwnerGroup {
		t.Errorf("owner: got %q/%q", got.Owner, got.OwnerGroup)
	}
	if len(got.ACL) != 1 || got.ACL[0].Who != "OWNER@" {
		t.Errorf("acl: got %+v", got.ACL)
	}
	if got.TimeAccess != a.TimeAccess || got.TimeModify != mtime {
		t.Errorf("times: got %v %v", got.TimeAccess, got.TimeModify)
	}
	if !got.TimeModifySet.ServerTime {
		t.Error("TimeModifySet.ServerTime lost")
	}
	if !got.IsDir() || got.FileMode() != os.ModeDir|0o755 {
		t.Errorf("FileMode: got %v", got.FileMode())
	}

	again, err := EncodeFattr(got)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(again.AttrVals) != string(f.AttrVals) {
		t.Errorf("re-encode mismatch:\n got %x\nwant %x", again.AttrVals, f.AttrVals)
	}
}

func TestEncodeFattr_Errors(t *testing.T) {
	_, err := EncodeFattr(&Attributes{Mask: Request(FATTR4_MODE), Mode: 0o10000})
	var modeErr *InvalidModeError
	if !errors.As(err, &modeErr) {
		t.Errorf("expected InvalidModeError, got %v", err)
	}

	_, err = EncodeFattr(&Attributes{Mask: Request(14)})
	var notSupp *AttrNotSuppError
	if !errors.As(err, &notSupp) || notSupp.Bit != 14 {
		t.Fatalf("expected AttrNotSuppError for bit 14, got %v", err)
	}
	if notSupp.NFS4Status() != types.NFS4ERR_ATTRNOTSUPP {
		t.Errorf("NFS4Status: got %d", notSupp.NFS4Status())
	}
}

func TestDecodeFattr_Faults(t *testing.T) {
	tests := []struct {
		name string
		in   types.Fattr4
	}{
		{"truncated", types.Fattr4{Attrmask: Request(FATTR4_SIZE), AttrVals: []byte{0, 0, 0, 1}}},
		{"trailing bytes", types.Fattr4{Attrmask: Request(FATTR4_TYPE), AttrVals: []byte{0, 0, 0, 1, 0, 0, 0, 0}}},
		{"unsupported bit", types.Fattr4{Attrmask: Request(FATTR4_TYPE, 15), AttrVals: []byte{0, 0, 0, 1, 0, 0, 0, 0}}},
		{"bad time_how", types.Fattr4{Attrmask: Request(FATTR4_TIME_ACCESS_SET), AttrVals: []byte{0, 0, 0, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFattr(&tt.in); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeFattr_Empty(t *testing.T) {
	a, err := DecodeFattr(&types.Fattr4{})
	if err != nil {
		t.Fatalf("DecodeFattr: %v", err)
	}
	if len(a.Mask) != 0 || a.Has(FATTR4_TYPE) {
		t.Errorf("got %+v", a)
	}
}

func TestAttrName(t *testing.T) {
	if got := AttrName(FATTR4_OWNER_GROUP); got != "owner_group" {
		t.Errorf("got %q", got)
	}
	if got := AttrName(99); got != "attr(99)" {
		t.Errorf("got %q", got)
	}
}

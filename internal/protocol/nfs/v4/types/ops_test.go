package types

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// op is the surface shared by every operation argument and result.
type op interface {
	wireCodec
	OpCode() uint32
	String() string
}

type opCase struct {
	name string
	src  op
	dst  op
}

func argsCases() []opCase {
	sid := ValidStateid()
	owner := ValidOwner()
	attrs := ValidFattr()

	return []opCase{
		{"ACCESS", &AccessArgs{Access: ACCESS4_READ | ACCESS4_LOOKUP}, &AccessArgs{}},
		{"CLOSE", &CloseArgs{Seqid: 3, OpenStateid: sid}, &CloseArgs{}},
		{"COMMIT", &CommitArgs{Offset: 4096, Count: 8192}, &CommitArgs{}},
		{"CREATE dir", &CreateArgs{Objtype: CreateType4{Type: NF4DIR}, Objname: "sub", Createattrs: attrs}, &CreateArgs{}},
		{"CREATE symlink", &CreateArgs{Objtype: CreateSymlink("../target"), Objname: "link"}, &CreateArgs{}},
		{"DELEGPURGE", &DelegpurgeArgs{ClientID: 42}, &DelegpurgeArgs{}},
		{"DELEGRETURN", &DelegreturnArgs{DelegStateid: sid}, &DelegreturnArgs{}},
		{"GETATTR", &GetattrArgs{AttrRequest: Bitmap4{0x0010011a, 0x00b0a23a}}, &GetattrArgs{}},
		{"GETFH", &GetfhArgs{}, &GetfhArgs{}},
		{"LINK", &LinkArgs{Newname: "hardlink"}, &LinkArgs{}},
		{"LOCK new owner", &LockArgs{
			Locktype: WRITE_LT, Offset: 0, Length: ^uint64(0),
			Locker: Locker4{NewLockOwner: true, OpenOwner: &OpenToLockOwner4{
				OpenSeqid: 2, OpenStateid: sid, LockSeqid: 0, LockOwner: owner,
			}},
		}, &LockArgs{}},
		{"LOCK existing owner", &LockArgs{
			Locktype: READ_LT, Reclaim: true, Offset: 10, Length: 20,
			Locker: Locker4{LockOwner: &ExistLockOwner4{LockStateid: sid, LockSeqid: 7}},
		}, &LockArgs{}},
		{"LOCKT", &LocktArgs{Locktype: READW_LT, Offset: 1, Length: 2, Owner: owner}, &LocktArgs{}},
		{"LOCKU", &LockuArgs{Locktype: WRITE_LT, Seqid: 5, LockStateid: sid, Offset: 0, Length: 100}, &LockuArgs{}},
		{"LOOKUP", &LookupArgs{Objname: "home"}, &LookupArgs{}},
		{"LOOKUPP", &LookuppArgs{}, &LookuppArgs{}},
		{"NVERIFY", &NverifyArgs{ObjAttributes: attrs}, &NverifyArgs{}},
		{"OPEN", &OpenArgs{
			Seqid: 1, ShareAccess: OPEN4_SHARE_ACCESS_READ, ShareDeny: OPEN4_SHARE_DENY_NONE,
			Owner: owner, Openhow: OpenCreate(GUARDED4, attrs), Claim: ClaimNull("file.txt"),
		}, &OpenArgs{}},
		{"OPENATTR", &OpenattrArgs{Createdir: true}, &OpenattrArgs{}},
		{"OPEN_CONFIRM", &OpenConfirmArgs{OpenStateid: sid, Seqid: 2}, &OpenConfirmArgs{}},
		{"OPEN_DOWNGRADE", &OpenDowngradeArgs{OpenStateid: sid, Seqid: 4, ShareAccess: OPEN4_SHARE_ACCESS_READ, ShareDeny: OPEN4_SHARE_DENY_NONE}, &OpenDowngradeArgs{}},
		{"PUTFH", &PutfhArgs{Object: ValidFileHandle()}, &PutfhArgs{}},
		{"PUTPUBFH", &PutpubfhArgs{}, &PutpubfhArgs{}},
		{"PUTROOTFH", &PutrootfhArgs{}, &PutrootfhArgs{}},
		{"READ", &ReadArgs{Stateid: sid, Offset: 1 << 20, Count: 65536}, &ReadArgs{}},
		{"READDIR", &ReaddirArgs{Cookie: 0, Dircount: 8192, Maxcount: 32768, AttrRequest: Bitmap4{0x2}}, &ReaddirArgs{}},
		{"READLINK", &ReadlinkArgs{}, &ReadlinkArgs{}},
		{"REMOVE", &RemoveArgs{Target: "old"}, &RemoveArgs{}},
		{"RENAME", &RenameArgs{Oldname: "a", Newname: "b"}, &RenameArgs{}},
		{"RENEW", &RenewArgs{ClientID: 0xfeedface}, &RenewArgs{}},
		{"RESTOREFH", &RestorefhArgs{}, &RestorefhArgs{}},
		{"SAVEFH", &SavefhArgs{}, &SavefhArgs{}},
		{"SECINFO", &SecinfoArgs{Name: "export"}, &SecinfoArgs{}},
		{"SETATTR", &SetattrArgs{Stateid: AnonymousStateid(), ObjAttributes: attrs}, &SetattrArgs{}},
		{"SETCLIENTID", &SetclientidArgs{
			Client:        NfsClientID4{Verifier: ValidVerifier(), ID: []byte("client-1")},
			Callback:      CbClient4{Program: 0x40000000, Location: ClientAddr4{Netid: "tcp", Addr: "10.0.0.1.3.232"}},
			CallbackIdent: 1,
		}, &SetclientidArgs{}},
		{"SETCLIENTID_CONFIRM", &SetclientidConfirmArgs{ClientID: 9, SetclientidConfirm: ValidVerifier()}, &SetclientidConfirmArgs{}},
		{"VERIFY", &VerifyArgs{ObjAttributes: attrs}, &VerifyArgs{}},
		{"WRITE", &WriteArgs{Stateid: sid, Offset: 0, Stable: FILE_SYNC4, Data: []byte("hello")}, &WriteArgs{}},
		{"RELEASE_LOCKOWNER", &ReleaseLockownerArgs{LockOwner: owner}, &ReleaseLockownerArgs{}},
		{"ILLEGAL", &IllegalArgs{}, &IllegalArgs{}},
		{"CB_GETATTR", &CbGetattrArgs{Fh: ValidFileHandle(), AttrRequest: Bitmap4{0x18}}, &CbGetattrArgs{}},
		{"CB_RECALL", &CbRecallArgs{Stateid: sid, Truncate: true, Fh: ValidFileHandle()}, &CbRecallArgs{}},
		{"CB_ILLEGAL", &CbIllegalArgs{}, &CbIllegalArgs{}},
	}
}

func okResCases() []opCase {
	sid := ValidStateid()
	cinfo := ValidChangeInfo()
	attrs := ValidFattr()
	size := uint64(1 << 30)
	krb5i, _ := KerberosV5Info(RPC_GSS_SVC_INTEGRITY)

	return []opCase{
		{"ACCESS", &AccessRes{Resok: &AccessResOK{Supported: 0x3f, Access: 0x03}}, &AccessRes{}},
		{"CLOSE", &CloseRes{Resok: &OpenStateidResOK{OpenStateid: sid}}, &CloseRes{}},
		{"COMMIT", &CommitRes{Resok: &CommitResOK{Writeverf: ValidVerifier()}}, &CommitRes{}},
		{"CREATE", &CreateRes{Resok: &CreateResOK{Cinfo: cinfo, Attrset: Bitmap4{0x2}}}, &CreateRes{}},
		{"DELEGPURGE", &DelegpurgeRes{}, &DelegpurgeRes{}},
		{"DELEGRETURN", &DelegreturnRes{}, &DelegreturnRes{}},
		{"GETATTR", &GetattrRes{Resok: &GetattrResOK{ObjAttributes: attrs}}, &GetattrRes{}},
		{"GETFH", &GetfhRes{Resok: &GetfhResOK{Object: ValidFileHandle()}}, &GetfhRes{}},
		{"LINK", &LinkRes{Resok: &LinkResOK{Cinfo: cinfo}}, &LinkRes{}},
		{"LOCK", &LockRes{Resok: &LockResOK{LockStateid: sid}}, &LockRes{}},
		{"LOCKT", &LocktRes{}, &LocktRes{}},
		{"LOCKU", &LockuRes{Resok: &LockuResOK{LockStateid: sid}}, &LockuRes{}},
		{"LOOKUP", &LookupRes{}, &LookupRes{}},
		{"LOOKUPP", &LookuppRes{}, &LookuppRes{}},
		{"NVERIFY", &NverifyRes{}, &NverifyRes{}},
		{"OPEN no delegation", &OpenRes{Resok: &OpenResOK{
			Stateid: sid, Cinfo: cinfo, Rflags: OPEN4_RESULT_CONFIRM | OPEN4_RESULT_LOCKTYPE_POSIX,
			Attrset: Bitmap4{}, Delegation: OpenDelegation4{DelegationType: OPEN_DELEGATE_NONE},
		}}, &OpenRes{}},
		{"OPEN read delegation", &OpenRes{Resok: &OpenResOK{
			Stateid: sid, Cinfo: cinfo,
			Delegation: OpenDelegation4{DelegationType: OPEN_DELEGATE_READ, Read: &OpenReadDelegation4{
				Stateid: sid, Recall: false,
				Permissions: Nfsace4{Type: ACE4_ACCESS_ALLOWED_ACE_TYPE, AccessMask: ACE4_GENERIC_READ, Who: "EVERYONE@"},
			}},
		}}, &OpenRes{}},
		{"OPEN write delegation", &OpenRes{Resok: &OpenResOK{
			Stateid: sid, Cinfo: cinfo,
			Delegation: OpenDelegation4{DelegationType: OPEN_DELEGATE_WRITE, Write: &OpenWriteDelegation4{
				Stateid: sid, Recall: true,
				SpaceLimit:  NfsSpaceLimit4{LimitBy: NFS_LIMIT_SIZE, Filesize: &size},
				Permissions: Nfsace4{Type: ACE4_ACCESS_ALLOWED_ACE_TYPE, AccessMask: ACE4_GENERIC_WRITE, Who: "OWNER@"},
			}},
		}}, &OpenRes{}},
		{"OPENATTR", &OpenattrRes{}, &OpenattrRes{}},
		{"OPEN_CONFIRM", &OpenConfirmRes{Resok: &OpenStateidResOK{OpenStateid: sid}}, &OpenConfirmRes{}},
		{"OPEN_DOWNGRADE", &OpenDowngradeRes{Resok: &OpenStateidResOK{OpenStateid: sid}}, &OpenDowngradeRes{}},
		{"PUTFH", &PutfhRes{}, &PutfhRes{}},
		{"PUTPUBFH", &PutpubfhRes{}, &PutpubfhRes{}},
		{"PUTROOTFH", &PutrootfhRes{}, &PutrootfhRes{}},
		{"READ", &ReadRes{Resok: &ReadResOK{EOF: true, Data: []byte("abc")}}, &ReadRes{}},
		{"READDIR", &ReaddirRes{Resok: &ReaddirResOK{
			Cookieverf: ValidVerifier(),
			Reply: DirList4{Entries: []Entry4{
				{Cookie: 3, Name: "a", Attrs: attrs},
				{Cookie: 4, Name: "b", Attrs: Fattr4{}},
			}, EOF: true},
		}}, &ReaddirRes{}},
		{"READLINK", &ReadlinkRes{Resok: &ReadlinkResOK{Link: "/etc/hosts"}}, &ReadlinkRes{}},
		{"REMOVE", &RemoveRes{Resok: &RemoveResOK{Cinfo: cinfo}}, &RemoveRes{}},
		{"RENAME", &RenameRes{Resok: &RenameResOK{SourceCinfo: cinfo, TargetCinfo: cinfo}}, &RenameRes{}},
		{"RENEW", &RenewRes{}, &RenewRes{}},
		{"RESTOREFH", &RestorefhRes{}, &RestorefhRes{}},
		{"SAVEFH", &SavefhRes{}, &SavefhRes{}},
		{"SECINFO", &SecinfoRes{Resok: &SecinfoResOK{Flavors: []Secinfo4{
			{Flavor: RPCSEC_GSS, FlavorInfo: krb5i},
			{Flavor: AUTH_SYS},
		}}}, &SecinfoRes{}},
		{"SETATTR", &SetattrRes{Attrsset: Bitmap4{0x10}}, &SetattrRes{}},
		{"SETCLIENTID", &SetclientidRes{Resok: &SetclientidResOK{ClientID: 77, SetclientidConfirm: ValidVerifier()}}, &SetclientidRes{}},
		{"SETCLIENTID_CONFIRM", &SetclientidConfirmRes{}, &SetclientidConfirmRes{}},
		{"VERIFY", &VerifyRes{}, &VerifyRes{}},
		{"WRITE", &WriteRes{Resok: &WriteResOK{Count: 5, Committed: FILE_SYNC4, Writeverf: ValidVerifier()}}, &WriteRes{}},
		{"RELEASE_LOCKOWNER", &ReleaseLockownerRes{}, &ReleaseLockownerRes{}},
		{"CB_GETATTR", &CbGetattrRes{Resok: &CbGetattrResOK{ObjAttributes: attrs}}, &CbGetattrRes{}},
		{"CB_RECALL", &CbRecallRes{}, &CbRecallRes{}},
	}
}

func TestArgs_RoundTrip(t *testing.T) {
	for _, tc := range argsCases() {
		t.Run(tc.name, func(t *testing.T) {
			assertRoundTrip(t, tc.src, tc.dst)
			if tc.src.OpCode() != tc.dst.OpCode() {
				t.Errorf("OpCode: got %d, want %d", tc.dst.OpCode(), tc.src.OpCode())
			}
			if tc.dst.String() == "" {
				t.Error("String() is empty")
			}
		})
	}
}

func TestRes_RoundTrip_OK(t *testing.T) {
	for _, tc := range okResCases() {
		t.Run(tc.name, func(t *testing.T) {
			data := assertRoundTrip(t, tc.src, tc.dst)
			if !bytes.HasPrefix(data, []byte{0, 0, 0, 0}) {
				t.Fatalf("result does not start with NFS4_OK: %x", data[:4])
			}
			if !strings.Contains(tc.dst.String(), "OK") {
				t.Errorf("String() = %q, want status OK", tc.dst.String())
			}
		})
	}
}

// A non-OK status carries no resok body: the encoding is the 4-byte status
// (plus attrsset for SETATTR) and decoding leaves Resok nil.
func TestRes_ErrorStatusHasNoBody(t *testing.T) {
	for _, tc := range okResCases() {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			buf.Write([]byte{0x00, 0x00, 0x00, 0x02}) // NFS4ERR_NOENT
			if _, ok := tc.dst.(*SetattrRes); ok {
				buf.Write([]byte{0, 0, 0, 0})
			}
			r := bytes.NewReader(buf.Bytes())
			if err := tc.dst.Decode(r); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if r.Len() != 0 {
				t.Fatalf("left %d unread bytes", r.Len())
			}
			if got := encodeBytes(t, tc.dst); !bytes.Equal(got, buf.Bytes()) {
				t.Fatalf("re-encode: got %x, want %x", got, buf.Bytes())
			}
			if !strings.Contains(tc.dst.String(), "NFS4ERR_NOENT") {
				t.Errorf("String() = %q", tc.dst.String())
			}
		})
	}
}

func TestRes_EncodeOKWithoutResok(t *testing.T) {
	for _, res := range []op{
		&AccessRes{}, &GetattrRes{}, &GetfhRes{}, &OpenRes{}, &ReadRes{},
		&WriteRes{}, &ReaddirRes{}, &SecinfoRes{}, &CreateRes{}, &LinkRes{},
		&LockRes{}, &CloseRes{}, &SetclientidRes{}, &CbGetattrRes{},
	} {
		var buf bytes.Buffer
		if err := res.Encode(&buf); err == nil {
			t.Errorf("%T: expected error encoding OK status with nil resok", res)
		}
	}
}

func TestLockRes_Denied(t *testing.T) {
	denied := &LockDenied4{Offset: 100, Length: 50, Locktype: WRITE_LT, Owner: ValidOwner()}

	var decoded LockRes
	assertRoundTrip(t, &LockRes{Status: NFS4ERR_DENIED, Denied: denied}, &decoded)
	if decoded.Resok != nil {
		t.Error("Resok set on DENIED")
	}
	if decoded.Denied == nil || decoded.Denied.Offset != 100 || decoded.Denied.Length != 50 {
		t.Fatalf("Denied: got %+v", decoded.Denied)
	}
	if !bytes.Equal(decoded.Denied.Owner.Owner, denied.Owner.Owner) {
		t.Errorf("Owner: got %q", decoded.Denied.Owner.Owner)
	}

	var lockt LocktRes
	assertRoundTrip(t, &LocktRes{Status: NFS4ERR_DENIED, Denied: denied}, &lockt)
	if lockt.Denied == nil || lockt.Denied.Locktype != WRITE_LT {
		t.Fatalf("LOCKT Denied: got %+v", lockt.Denied)
	}

	var buf bytes.Buffer
	if err := (&LockRes{Status: NFS4ERR_DENIED}).Encode(&buf); err == nil {
		t.Error("expected error encoding DENIED without conflict")
	}
}

func TestSetclientidRes_ClidInUse(t *testing.T) {
	var decoded SetclientidRes
	assertRoundTrip(t, &SetclientidRes{
		Status:      NFS4ERR_CLID_INUSE,
		ClientUsing: &ClientAddr4{Netid: "tcp", Addr: "192.168.1.5.8.1"},
	}, &decoded)
	if decoded.ClientUsing == nil || decoded.ClientUsing.Addr != "192.168.1.5.8.1" {
		t.Fatalf("ClientUsing: got %+v", decoded.ClientUsing)
	}
	if decoded.Resok != nil {
		t.Error("Resok set on CLID_INUSE")
	}
}

func TestOpenRes_NeedsConfirm(t *testing.T) {
	ok := &OpenResOK{Rflags: OPEN4_RESULT_CONFIRM}
	if !ok.NeedsConfirm() {
		t.Error("NeedsConfirm: got false")
	}
	ok.Rflags = OPEN4_RESULT_LOCKTYPE_POSIX
	if ok.NeedsConfirm() {
		t.Error("NeedsConfirm: got true")
	}
}

func TestReaddirRes_EntriesDecoded(t *testing.T) {
	src := &ReaddirRes{Resok: &ReaddirResOK{Reply: DirList4{
		Entries: []Entry4{{Cookie: 1, Name: "x"}, {Cookie: 2, Name: "y"}, {Cookie: 3, Name: "z"}},
	}}}
	var decoded ReaddirRes
	assertRoundTrip(t, src, &decoded)

	if got := len(decoded.Resok.Reply.Entries); got != 3 {
		t.Fatalf("entries: got %d, want 3", got)
	}
	if decoded.Resok.Reply.Entries[2].Name != "z" || decoded.Resok.Reply.EOF {
		t.Errorf("got %+v", decoded.Resok.Reply)
	}
}

func TestReadArgs_WireFormat(t *testing.T) {
	got := encodeBytes(t, &ReadArgs{Stateid: Stateid4{Seqid: 1}, Offset: 2, Count: 3})
	want := []byte{
		0, 0, 0, 1, // seqid
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // other
		0, 0, 0, 0, 0, 0, 0, 2, // offset
		0, 0, 0, 3, // count
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestWriteArgs_PadsData(t *testing.T) {
	got := encodeBytes(t, &WriteArgs{Data: []byte{0xaa}})
	// stateid(16) + offset(8) + stable(4) + len(4) + data padded to 4
	if len(got) != 36 {
		t.Fatalf("len: got %d, want 36", len(got))
	}
	if !bytes.Equal(got[32:], []byte{0xaa, 0, 0, 0}) {
		t.Errorf("data: got %x", got[32:])
	}
}

func TestDecode_Truncated(t *testing.T) {
	for _, tc := range argsCases() {
		data := encodeBytes(t, tc.src)
		if len(data) == 0 {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			err := tc.dst.Decode(bytes.NewReader(data[:len(data)-1]))
			if err == nil {
				t.Fatal("expected error for truncated input")
			}
			var de *DecodeError
			if errors.As(err, &de) {
				t.Fatalf("truncation reported as discriminant error: %v", err)
			}
		})
	}
}

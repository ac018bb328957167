package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/jcmturner/gokrb5/v8/gssapi"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

func TestOpenClaim4_AllArms(t *testing.T) {
	arms := map[string]OpenClaim4{
		"CLAIM_NULL":          ClaimNull("file"),
		"CLAIM_PREVIOUS":      ClaimPrevious(OPEN_DELEGATE_WRITE),
		"CLAIM_DELEGATE_CUR":  ClaimDelegateCur(ValidStateid(), "cur"),
		"CLAIM_DELEGATE_PREV": ClaimDelegatePrev("prev"),
	}
	for name, claim := range arms {
		t.Run(name, func(t *testing.T) {
			var decoded OpenClaim4
			assertRoundTrip(t, &claim, &decoded)
			if decoded.Claim != claim.Claim {
				t.Errorf("Claim: got %d, want %d", decoded.Claim, claim.Claim)
			}
			if decoded.String() != claim.String() {
				t.Errorf("String: got %q, want %q", decoded.String(), claim.String())
			}
		})
	}
}

// Claim type 99 must fault rather than decode as CLAIM_NULL.
func TestOpenClaim4_UnknownClaimFaults(t *testing.T) {
	data := []byte{0, 0, 0, 99, 0, 0, 0, 0}

	var claim OpenClaim4
	err := claim.Decode(bytes.NewReader(data))

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if de.Value != 99 || de.Field != "open_claim4.claim" {
		t.Errorf("got %+v", de)
	}
}

func TestCreateType4_AllArms(t *testing.T) {
	cases := []CreateType4{
		CreateSymlink("target"),
		CreateDevice(NF4BLK, 8, 1),
		CreateDevice(NF4CHR, 4, 64),
		{Type: NF4SOCK},
		{Type: NF4FIFO},
		{Type: NF4DIR},
		{Type: NF4REG},
		{Type: NF4ATTRDIR},
		{Type: NF4NAMEDATTR},
	}
	for _, ct := range cases {
		t.Run(FileTypeName(ct.Type), func(t *testing.T) {
			var decoded CreateType4
			assertRoundTrip(t, &ct, &decoded)
			if decoded.Type != ct.Type {
				t.Errorf("Type: got %d, want %d", decoded.Type, ct.Type)
			}
		})
	}
}

func TestCreateType4_OutOfRangeFaults(t *testing.T) {
	for _, v := range []uint32{0, 10, 0xffffffff} {
		var ct CreateType4
		err := ct.Decode(bytes.NewReader([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("type %d: expected *DecodeError, got %v", v, err)
		}
	}

	var buf bytes.Buffer
	if err := (&CreateType4{Type: NF4LNK}).Encode(&buf); err == nil {
		t.Error("expected error encoding NF4LNK without linkdata")
	}
}

func TestOpenFlag4_AllArms(t *testing.T) {
	cases := map[string]OpenFlag4{
		"NOCREATE":  OpenNoCreate(),
		"UNCHECKED": OpenCreate(UNCHECKED4, ValidFattr()),
		"GUARDED":   OpenCreate(GUARDED4, Fattr4{}),
		"EXCLUSIVE": OpenCreateExclusive(ValidVerifier()),
	}
	for name, how := range cases {
		t.Run(name, func(t *testing.T) {
			var decoded OpenFlag4
			assertRoundTrip(t, &how, &decoded)
			if decoded.String() != how.String() {
				t.Errorf("String: got %q, want %q", decoded.String(), how.String())
			}
		})
	}

	// OPEN4_CREATE with createmode 7
	var how OpenFlag4
	err := how.Decode(bytes.NewReader([]byte{0, 0, 0, 1, 0, 0, 0, 7}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Field != "createhow4.mode" {
		t.Fatalf("expected createhow4.mode DecodeError, got %v", err)
	}
}

func TestOpenDelegation4_AllArms(t *testing.T) {
	blocks := NfsModifiedLimit4{NumBlocks: 10, BytesPerBlock: 4096}
	cases := map[string]OpenDelegation4{
		"NONE": {DelegationType: OPEN_DELEGATE_NONE},
		"READ": {DelegationType: OPEN_DELEGATE_READ, Read: &OpenReadDelegation4{
			Stateid: ValidStateid(), Permissions: Nfsace4{Who: "EVERYONE@"},
		}},
		"WRITE": {DelegationType: OPEN_DELEGATE_WRITE, Write: &OpenWriteDelegation4{
			Stateid:    ValidStateid(),
			SpaceLimit: NfsSpaceLimit4{LimitBy: NFS_LIMIT_BLOCKS, ModBlocks: &blocks},
		}},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			var decoded OpenDelegation4
			assertRoundTrip(t, &d, &decoded)
			if decoded.String()[:4] != name[:4] {
				t.Errorf("String: got %q", decoded.String())
			}
		})
	}

	var d OpenDelegation4
	err := d.Decode(bytes.NewReader([]byte{0, 0, 0, 3}))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestOpenDelegation4_ReadCarriesSingleAce(t *testing.T) {
	d := OpenDelegation4{DelegationType: OPEN_DELEGATE_READ, Read: &OpenReadDelegation4{
		Stateid: ValidStateid(), Recall: true, Permissions: Nfsace4{Who: "EVERYONE@"},
	}}
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// type + stateid + recall + (acetype, aceflag, acemask, who "EVERYONE@")
	want := 4 + 16 + 4 + (12 + 4 + 12)
	if buf.Len() != want {
		t.Fatalf("encoded length: got %d, want %d", buf.Len(), want)
	}
	if got := binary.BigEndian.Uint32(buf.Bytes()[20:24]); got != 1 {
		t.Errorf("recall: got %d, want 1", got)
	}
}

func TestLocker4_InvalidBoolFaults(t *testing.T) {
	for _, disc := range []byte{2, 7} {
		var l Locker4
		err := l.Decode(bytes.NewReader([]byte{0, 0, 0, disc}))
		var de *DecodeError
		if !errors.As(err, &de) || de.Field != "locker4.new_lock_owner" {
			t.Fatalf("discriminant %d: expected locker4 DecodeError, got %v", disc, err)
		}
	}

	// The same word is a valid plain bool.
	if v, err := xdr.DecodeBool(bytes.NewReader([]byte{0, 0, 0, 7})); err != nil || !v {
		t.Fatalf("DecodeBool: got %v, %v", v, err)
	}

	var buf bytes.Buffer
	if err := (&Locker4{NewLockOwner: true}).Encode(&buf); err == nil {
		t.Error("expected error encoding locker4 without open_owner arm")
	}
}

func TestSecinfo4_Flavors(t *testing.T) {
	krb5p, err := KerberosV5Info(RPC_GSS_SVC_PRIVACY)
	if err != nil {
		t.Fatalf("KerberosV5Info: %v", err)
	}

	cases := []struct {
		in   Secinfo4
		name string
	}{
		{Secinfo4{Flavor: AUTH_NONE}, "none"},
		{Secinfo4{Flavor: AUTH_SYS}, "sys"},
		{Secinfo4{Flavor: AUTH_SHORT}, "short"},
		{Secinfo4{Flavor: AUTH_DH}, "dh"},
		{Secinfo4{Flavor: RPCSEC_GSS, FlavorInfo: krb5p}, "krb5p"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var decoded Secinfo4
			assertRoundTrip(t, &tc.in, &decoded)
			if got := decoded.String(); got != tc.name {
				t.Errorf("String: got %q, want %q", got, tc.name)
			}
		})
	}
}

func TestSecinfo4_UnknownFlavorFaults(t *testing.T) {
	var s Secinfo4
	err := s.Decode(bytes.NewReader([]byte{0, 0, 0, 5}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Value != 5 {
		t.Fatalf("expected DecodeError for flavor 5, got %v", err)
	}
}

func TestRPCSecGSSInfo_KerberosOID(t *testing.T) {
	info, err := KerberosV5Info(RPC_GSS_SVC_INTEGRITY)
	if err != nil {
		t.Fatalf("KerberosV5Info: %v", err)
	}

	// DER of 1.2.840.113554.1.2.2
	want := []byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x12, 0x01, 0x02, 0x02}
	if !bytes.Equal(info.OID, want) {
		t.Fatalf("OID: got %x, want %x", info.OID, want)
	}
	if !info.IsKerberosV5() {
		t.Error("IsKerberosV5: got false")
	}

	mech, err := info.Mechanism()
	if err != nil {
		t.Fatalf("Mechanism: %v", err)
	}
	if !mech.Equal(gssapi.OIDKRB5.OID()) {
		t.Errorf("Mechanism: got %v", mech)
	}

	other := &RPCSecGSSInfo{OID: []byte{0x06, 0x01, 0x01}}
	if other.IsKerberosV5() {
		t.Error("IsKerberosV5: got true for unrelated OID")
	}
}

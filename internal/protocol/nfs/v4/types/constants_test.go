package types

import "testing"

func TestOpName_CoversV40Range(t *testing.T) {
	for op := uint32(OP_ACCESS); op <= OP_RELEASE_LOCKOWNER; op++ {
		name := OpName(op)
		if name == "UNKNOWN" {
			t.Errorf("OpName(%d) = UNKNOWN", op)
			continue
		}
		num, ok := OpNameToNum(name)
		if !ok || num != op {
			t.Errorf("OpNameToNum(%q) = %d, %t; want %d", name, num, ok, op)
		}
	}

	for _, op := range []uint32{0, 1, 2, 40, 58, 10043} {
		if got := OpName(op); got != "UNKNOWN" {
			t.Errorf("OpName(%d) = %q, want UNKNOWN", op, got)
		}
	}
	if got := OpName(OP_ILLEGAL); got != "ILLEGAL" {
		t.Errorf("OpName(OP_ILLEGAL) = %q", got)
	}
}

func TestCbOpName(t *testing.T) {
	tests := map[uint32]string{
		OP_CB_GETATTR: "CB_GETATTR",
		OP_CB_RECALL:  "CB_RECALL",
		OP_CB_ILLEGAL: "CB_ILLEGAL",
		5:             "CB_UNKNOWN",
	}
	for op, want := range tests {
		if got := CbOpName(op); got != want {
			t.Errorf("CbOpName(%d) = %q, want %q", op, got, want)
		}
	}
}

func TestStatusName(t *testing.T) {
	tests := map[uint32]string{
		NFS4_OK:              "NFS4_OK",
		NFS4ERR_NOENT:        "NFS4ERR_NOENT",
		NFS4ERR_DENIED:       "NFS4ERR_DENIED",
		NFS4ERR_OP_ILLEGAL:   "NFS4ERR_OP_ILLEGAL",
		NFS4ERR_CB_PATH_DOWN: "NFS4ERR_CB_PATH_DOWN",
		10071:                "NFS4ERR_UNKNOWN(10071)",
	}
	for status, want := range tests {
		if got := StatusName(status); got != want {
			t.Errorf("StatusName(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestProtocolLimits(t *testing.T) {
	if NFS4_FHSIZE != 128 {
		t.Errorf("NFS4_FHSIZE = %d", NFS4_FHSIZE)
	}
	if NFS4_VERIFIER_SIZE != 8 || NFS4_OTHER_SIZE != 12 {
		t.Errorf("verifier/other sizes = %d/%d", NFS4_VERIFIER_SIZE, NFS4_OTHER_SIZE)
	}
	if OP_ILLEGAL != 10044 || NFS4ERR_OP_ILLEGAL != 10044 {
		t.Error("ILLEGAL opcode and status must both be 10044")
	}
}

func TestResStatus(t *testing.T) {
	res := &LookupRes{Status: NFS4ERR_NOENT}
	if got := res.ResStatus(); got != NFS4ERR_NOENT {
		t.Errorf("ResStatus = %d, want %d", got, NFS4ERR_NOENT)
	}
	denied := &LockRes{Status: NFS4ERR_DENIED}
	if got := denied.ResStatus(); got != NFS4ERR_DENIED {
		t.Errorf("ResStatus = %d, want %d", got, NFS4ERR_DENIED)
	}
}

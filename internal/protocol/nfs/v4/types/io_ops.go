// Package types - data operations (RFC 7530 Sections 16.3, 16.23, 16.36).
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// READ
// ============================================================================

// ReadArgs reads Count bytes at Offset.
type ReadArgs struct {
	Stateid Stateid4
	Offset  uint64
	Count   uint32
}

func (a *ReadArgs) OpCode() uint32 { return OP_READ }

// Encode writes the READ args in XDR format.
func (a *ReadArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeStateid4(buf, &a.Stateid); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Offset); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, a.Count)
}

// Decode reads the READ args from XDR format.
func (a *ReadArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	a.Stateid = *sid
	if a.Offset, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode read offset: %w", err)
	}
	if a.Count, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode read count: %w", err)
	}
	return nil
}

func (a *ReadArgs) String() string {
	return fmt.Sprintf("ReadArgs{stateid=%s, offset=%d, count=%d}", a.Stateid.String(), a.Offset, a.Count)
}

// ReadResOK carries the data read.
type ReadResOK struct {
	EOF  bool
	Data []byte
}

// ReadRes represents READ4res.
type ReadRes struct {
	Status uint32
	Resok  *ReadResOK
}

func (res *ReadRes) OpCode() uint32 { return OP_READ }

// Encode writes the READ result in XDR format.
func (res *ReadRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode read status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("read")
	}
	if err := xdr.WriteBool(buf, res.Resok.EOF); err != nil {
		return err
	}
	return xdr.WriteXDROpaque(buf, res.Resok.Data)
}

// Decode reads the READ result from XDR format.
func (res *ReadRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "read")
	if err != nil {
		return err
	}
	*res = ReadRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	eof, err := xdr.DecodeBool(r)
	if err != nil {
		return fmt.Errorf("decode read eof: %w", err)
	}
	data, err := xdr.DecodeOpaqueMax(r, MaxOpaqueData)
	if err != nil {
		return fmt.Errorf("decode read data: %w", err)
	}
	res.Resok = &ReadResOK{EOF: eof, Data: data}
	return nil
}

func (res *ReadRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("ReadRes{status=OK, eof=%t, len=%d}", res.Resok.EOF, len(res.Resok.Data))
	}
	return statusOnlyString("ReadRes", res.Status)
}

// ============================================================================
// WRITE
// ============================================================================

// WriteArgs writes Data at Offset with the requested stability.
type WriteArgs struct {
	Stateid Stateid4
	Offset  uint64
	Stable  uint32
	Data    []byte
}

func (a *WriteArgs) OpCode() uint32 { return OP_WRITE }

// Encode writes the WRITE args in XDR format.
func (a *WriteArgs) Encode(buf *bytes.Buffer) error {
	if err := EncodeStateid4(buf, &a.Stateid); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, a.Offset); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.Stable); err != nil {
		return err
	}
	return xdr.WriteXDROpaque(buf, a.Data)
}

// Decode reads the WRITE args from XDR format.
func (a *WriteArgs) Decode(r io.Reader) error {
	sid, err := DecodeStateid4(r)
	if err != nil {
		return err
	}
	a.Stateid = *sid
	if a.Offset, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode write offset: %w", err)
	}
	if a.Stable, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode write stable: %w", err)
	}
	if a.Data, err = xdr.DecodeOpaqueMax(r, MaxOpaqueData); err != nil {
		return fmt.Errorf("decode write data: %w", err)
	}
	return nil
}

func (a *WriteArgs) String() string {
	return fmt.Sprintf("WriteArgs{stateid=%s, offset=%d, stable=%s, len=%d}",
		a.Stateid.String(), a.Offset, stableHowName(a.Stable), len(a.Data))
}

// WriteResOK reports how much was written and how durably.
type WriteResOK struct {
	Count     uint32
	Committed uint32
	Writeverf Verifier4
}

// WriteRes represents WRITE4res.
type WriteRes struct {
	Status uint32
	Resok  *WriteResOK
}

func (res *WriteRes) OpCode() uint32 { return OP_WRITE }

// Encode writes the WRITE result in XDR format.
func (res *WriteRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode write status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("write")
	}
	if err := xdr.WriteUint32(buf, res.Resok.Count); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, res.Resok.Committed); err != nil {
		return err
	}
	return EncodeVerifier4(buf, res.Resok.Writeverf)
}

// Decode reads the WRITE result from XDR format.
func (res *WriteRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "write")
	if err != nil {
		return err
	}
	*res = WriteRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	ok := &WriteResOK{}
	if ok.Count, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode write count: %w", err)
	}
	if ok.Committed, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode write committed: %w", err)
	}
	if ok.Writeverf, err = DecodeVerifier4(r); err != nil {
		return fmt.Errorf("decode write writeverf: %w", err)
	}
	res.Resok = ok
	return nil
}

func (res *WriteRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("WriteRes{status=OK, count=%d, committed=%s}",
			res.Resok.Count, stableHowName(res.Resok.Committed))
	}
	return statusOnlyString("WriteRes", res.Status)
}

func stableHowName(how uint32) string {
	switch how {
	case UNSTABLE4:
		return "UNSTABLE"
	case DATA_SYNC4:
		return "DATA_SYNC"
	case FILE_SYNC4:
		return "FILE_SYNC"
	default:
		return fmt.Sprintf("stable_how4(%d)", how)
	}
}

// ============================================================================
// COMMIT
// ============================================================================

// CommitArgs flushes unstable writes in [Offset, Offset+Count). Count 0
// means to end of file.
type CommitArgs struct {
	Offset uint64
	Count  uint32
}

func (a *CommitArgs) OpCode() uint32 { return OP_COMMIT }

// Encode writes the COMMIT args in XDR format.
func (a *CommitArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint64(buf, a.Offset); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, a.Count)
}

// Decode reads the COMMIT args from XDR format.
func (a *CommitArgs) Decode(r io.Reader) error {
	var err error
	if a.Offset, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode commit offset: %w", err)
	}
	if a.Count, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode commit count: %w", err)
	}
	return nil
}

func (a *CommitArgs) String() string {
	return fmt.Sprintf("CommitArgs{offset=%d, count=%d}", a.Offset, a.Count)
}

// CommitResOK carries the write verifier to compare against WRITE results.
type CommitResOK struct {
	Writeverf Verifier4
}

// CommitRes represents COMMIT4res.
type CommitRes struct {
	Status uint32
	Resok  *CommitResOK
}

func (res *CommitRes) OpCode() uint32 { return OP_COMMIT }

// Encode writes the COMMIT result in XDR format.
func (res *CommitRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode commit status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("commit")
	}
	return EncodeVerifier4(buf, res.Resok.Writeverf)
}

// Decode reads the COMMIT result from XDR format.
func (res *CommitRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "commit")
	if err != nil {
		return err
	}
	*res = CommitRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	verf, err := DecodeVerifier4(r)
	if err != nil {
		return fmt.Errorf("decode commit writeverf: %w", err)
	}
	res.Resok = &CommitResOK{Writeverf: verf}
	return nil
}

func (res *CommitRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("CommitRes{status=OK, writeverf=%x}", res.Resok.Writeverf[:])
	}
	return statusOnlyString("CommitRes", res.Status)
}

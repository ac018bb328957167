package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// NFS4_OPAQUE_LIMIT bounds client and owner identifiers (RFC 7531).
const NFS4_OPAQUE_LIMIT = 1024

// ============================================================================
// Stateid4 (State Identifier)
// ============================================================================

// Stateid4 represents an NFSv4 state identifier (stateid4).
// Per RFC 7530 Section 9.1.4:
//
//	struct stateid4 {
//	    uint32_t seqid;
//	    opaque   other[NFS4_OTHER_SIZE];
//	}
type Stateid4 struct {
	Seqid uint32
	Other [NFS4_OTHER_SIZE]byte
}

// AnonymousStateid returns the all-zeros special stateid, used for I/O
// without open or lock state.
func AnonymousStateid() Stateid4 {
	return Stateid4{}
}

// ReadBypassStateid returns the all-ones special stateid that bypasses
// locking checks for READ.
func ReadBypassStateid() Stateid4 {
	sid := Stateid4{Seqid: 0xFFFFFFFF}
	for i := range sid.Other {
		sid.Other[i] = 0xFF
	}
	return sid
}

// IsSpecialStateid returns true if the stateid is a special stateid.
// Special stateids per RFC 7530 Section 9.1.4.3:
//   - Anonymous: seqid=0, other=all-zeros
//   - READ bypass: seqid=0xFFFFFFFF, other=all-ones
func (s *Stateid4) IsSpecialStateid() bool {
	return *s == AnonymousStateid() || *s == ReadBypassStateid()
}

// String returns the stateid as seqid:hex(other).
func (s *Stateid4) String() string {
	return fmt.Sprintf("%d:%s", s.Seqid, hex.EncodeToString(s.Other[:]))
}

// DecodeStateid4 reads a stateid4 from an io.Reader.
func DecodeStateid4(reader io.Reader) (*Stateid4, error) {
	seqid, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("decode stateid seqid: %w", err)
	}
	sid := &Stateid4{Seqid: seqid}
	if err := xdr.DecodeFixedOpaqueInto(reader, sid.Other[:]); err != nil {
		return nil, fmt.Errorf("decode stateid other: %w", err)
	}
	return sid, nil
}

// EncodeStateid4 writes a stateid4 to a buffer.
func EncodeStateid4(buf *bytes.Buffer, sid *Stateid4) error {
	if err := xdr.WriteUint32(buf, sid.Seqid); err != nil {
		return fmt.Errorf("encode stateid seqid: %w", err)
	}
	buf.Write(sid.Other[:])
	return nil
}

// ============================================================================
// File Handle, Verifier, Bitmap
// ============================================================================

// NfsFh4 is an opaque server-assigned file handle (nfs_fh4, opaque<NFS4_FHSIZE>).
type NfsFh4 []byte

// String returns the handle in hex.
func (fh NfsFh4) String() string {
	return hex.EncodeToString(fh)
}

// DecodeNfsFh4 reads an nfs_fh4, rejecting handles above NFS4_FHSIZE.
func DecodeNfsFh4(reader io.Reader) (NfsFh4, error) {
	data, err := xdr.DecodeOpaqueMax(reader, NFS4_FHSIZE)
	if err != nil {
		return nil, fmt.Errorf("decode nfs_fh4: %w", err)
	}
	return NfsFh4(data), nil
}

// EncodeNfsFh4 writes an nfs_fh4.
func EncodeNfsFh4(buf *bytes.Buffer, fh NfsFh4) error {
	if len(fh) > NFS4_FHSIZE {
		return fmt.Errorf("encode nfs_fh4: handle of %d bytes exceeds %d", len(fh), NFS4_FHSIZE)
	}
	return xdr.WriteXDROpaque(buf, fh)
}

// Verifier4 is an 8-byte opaque verifier (verifier4).
type Verifier4 [NFS4_VERIFIER_SIZE]byte

// DecodeVerifier4 reads a verifier4.
func DecodeVerifier4(reader io.Reader) (Verifier4, error) {
	var v Verifier4
	if err := xdr.DecodeFixedOpaqueInto(reader, v[:]); err != nil {
		return v, fmt.Errorf("decode verifier4: %w", err)
	}
	return v, nil
}

// EncodeVerifier4 writes a verifier4.
func EncodeVerifier4(buf *bytes.Buffer, v Verifier4) error {
	return xdr.WriteFixedOpaque(buf, v[:])
}

// Bitmap4 is a variable-length attribute mask (bitmap4, uint32_t<>).
// Bit N is in word N/32, at position N%32.
type Bitmap4 []uint32

// EncodeBitmap4 encodes a variable-length bitmap in XDR format.
//
// Format: [numWords:uint32][word0:uint32][word1:uint32]...
func EncodeBitmap4(buf *bytes.Buffer, bitmap Bitmap4) error {
	if len(bitmap) > MaxBitmapWords {
		return fmt.Errorf("encode bitmap4: %d words (max %d)", len(bitmap), MaxBitmapWords)
	}
	if err := xdr.WriteVarArray(buf, []uint32(bitmap), xdr.WriteUint32); err != nil {
		return fmt.Errorf("encode bitmap4: %w", err)
	}
	return nil
}

// DecodeBitmap4 decodes a variable-length bitmap from XDR format.
//
// Rejects bitmaps with more than MaxBitmapWords words.
func DecodeBitmap4(reader io.Reader) (Bitmap4, error) {
	words, err := xdr.DecodeVarArray(reader, MaxBitmapWords, xdr.DecodeUint32)
	if err != nil {
		return nil, fmt.Errorf("decode bitmap4: %w", err)
	}
	return Bitmap4(words), nil
}

// ============================================================================
// Attributes and Change Info
// ============================================================================

// Fattr4 carries a set of attributes: the mask of which are present and
// their XDR-encoded values concatenated in bit order.
//
//	struct fattr4 {
//	    bitmap4   attrmask;
//	    attrlist4 attr_vals;
//	};
//
// The attrs package interprets AttrVals.
type Fattr4 struct {
	Attrmask Bitmap4
	AttrVals []byte
}

// DecodeFattr4 reads an fattr4.
func DecodeFattr4(reader io.Reader) (*Fattr4, error) {
	mask, err := DecodeBitmap4(reader)
	if err != nil {
		return nil, fmt.Errorf("decode fattr4 mask: %w", err)
	}
	vals, err := xdr.DecodeOpaqueMax(reader, MaxOpaqueData)
	if err != nil {
		return nil, fmt.Errorf("decode fattr4 values: %w", err)
	}
	return &Fattr4{Attrmask: mask, AttrVals: vals}, nil
}

// EncodeFattr4 writes an fattr4.
func EncodeFattr4(buf *bytes.Buffer, f *Fattr4) error {
	if err := EncodeBitmap4(buf, f.Attrmask); err != nil {
		return err
	}
	return xdr.WriteXDROpaque(buf, f.AttrVals)
}

// ChangeInfo4 is the directory change counter pair reported by mutating
// operations (change_info4).
type ChangeInfo4 struct {
	Atomic bool
	Before uint64
	After  uint64
}

func (ci *ChangeInfo4) String() string {
	return fmt.Sprintf("{atomic=%t, before=%d, after=%d}", ci.Atomic, ci.Before, ci.After)
}

// DecodeChangeInfo4 reads a change_info4.
func DecodeChangeInfo4(reader io.Reader) (*ChangeInfo4, error) {
	var ci ChangeInfo4
	var err error
	if ci.Atomic, err = xdr.DecodeBool(reader); err != nil {
		return nil, fmt.Errorf("decode change_info4 atomic: %w", err)
	}
	if ci.Before, err = xdr.DecodeUint64(reader); err != nil {
		return nil, fmt.Errorf("decode change_info4 before: %w", err)
	}
	if ci.After, err = xdr.DecodeUint64(reader); err != nil {
		return nil, fmt.Errorf("decode change_info4 after: %w", err)
	}
	return &ci, nil
}

// EncodeChangeInfo4 writes a change_info4.
func EncodeChangeInfo4(buf *bytes.Buffer, ci *ChangeInfo4) error {
	if err := xdr.WriteBool(buf, ci.Atomic); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, ci.Before); err != nil {
		return err
	}
	return xdr.WriteUint64(buf, ci.After)
}

// ============================================================================
// Client and Owner Identifiers
// ============================================================================

// NfsClientID4 identifies a client instance to SETCLIENTID (nfs_client_id4).
type NfsClientID4 struct {
	Verifier Verifier4
	ID       []byte
}

func decodeNfsClientID4(reader io.Reader) (*NfsClientID4, error) {
	verf, err := DecodeVerifier4(reader)
	if err != nil {
		return nil, err
	}
	id, err := xdr.DecodeOpaqueMax(reader, NFS4_OPAQUE_LIMIT)
	if err != nil {
		return nil, fmt.Errorf("decode nfs_client_id4 id: %w", err)
	}
	return &NfsClientID4{Verifier: verf, ID: id}, nil
}

func encodeNfsClientID4(buf *bytes.Buffer, c *NfsClientID4) error {
	if err := EncodeVerifier4(buf, c.Verifier); err != nil {
		return err
	}
	return xdr.WriteXDROpaque(buf, c.ID)
}

// StateOwner4 is the shared shape of open_owner4 and lock_owner4.
type StateOwner4 struct {
	ClientID uint64
	Owner    []byte
}

// OpenOwner4 identifies the owner of an open (open_owner4).
type OpenOwner4 = StateOwner4

// LockOwner4 identifies the owner of a byte-range lock (lock_owner4).
type LockOwner4 = StateOwner4

// String returns clientid/hex(owner).
func (o *StateOwner4) String() string {
	return fmt.Sprintf("%016x/%s", o.ClientID, hex.EncodeToString(o.Owner))
}

// DecodeStateOwner4 reads an open_owner4 or lock_owner4.
func DecodeStateOwner4(reader io.Reader) (*StateOwner4, error) {
	clientID, err := xdr.DecodeUint64(reader)
	if err != nil {
		return nil, fmt.Errorf("decode owner clientid: %w", err)
	}
	owner, err := xdr.DecodeOpaqueMax(reader, NFS4_OPAQUE_LIMIT)
	if err != nil {
		return nil, fmt.Errorf("decode owner: %w", err)
	}
	return &StateOwner4{ClientID: clientID, Owner: owner}, nil
}

// EncodeStateOwner4 writes an open_owner4 or lock_owner4.
func EncodeStateOwner4(buf *bytes.Buffer, o *StateOwner4) error {
	if err := xdr.WriteUint64(buf, o.ClientID); err != nil {
		return err
	}
	return xdr.WriteXDROpaque(buf, o.Owner)
}

// ============================================================================
// Callback Addressing
// ============================================================================

// ClientAddr4 is a universal network address (clientaddr4 / netaddr4).
type ClientAddr4 struct {
	Netid string // "tcp", "tcp6", ...
	Addr  string // universal address, e.g. "10.0.0.1.3.232"
}

func decodeClientAddr4(reader io.Reader) (*ClientAddr4, error) {
	netid, err := xdr.DecodeString(reader)
	if err != nil {
		return nil, fmt.Errorf("decode netid: %w", err)
	}
	addr, err := xdr.DecodeString(reader)
	if err != nil {
		return nil, fmt.Errorf("decode uaddr: %w", err)
	}
	return &ClientAddr4{Netid: netid, Addr: addr}, nil
}

func encodeClientAddr4(buf *bytes.Buffer, a *ClientAddr4) error {
	if err := xdr.WriteXDRString(buf, a.Netid); err != nil {
		return err
	}
	return xdr.WriteXDRString(buf, a.Addr)
}

// CbClient4 tells the server where to send callbacks (cb_client4).
type CbClient4 struct {
	Program  uint32
	Location ClientAddr4
}

// ============================================================================
// Device Data, ACEs, Locks, Directory Entries
// ============================================================================

// Specdata4 carries the major/minor numbers of a device node.
type Specdata4 struct {
	Specdata1 uint32
	Specdata2 uint32
}

// Nfsace4 is a single access control entry (nfsace4).
type Nfsace4 struct {
	Type       uint32
	Flag       uint32
	AccessMask uint32
	Who        string
}

// DecodeNfsace4 reads an nfsace4.
func DecodeNfsace4(reader io.Reader) (*Nfsace4, error) {
	var ace Nfsace4
	var err error
	if ace.Type, err = xdr.DecodeUint32(reader); err != nil {
		return nil, fmt.Errorf("decode ace type: %w", err)
	}
	if ace.Flag, err = xdr.DecodeUint32(reader); err != nil {
		return nil, fmt.Errorf("decode ace flag: %w", err)
	}
	if ace.AccessMask, err = xdr.DecodeUint32(reader); err != nil {
		return nil, fmt.Errorf("decode ace access_mask: %w", err)
	}
	if ace.Who, err = xdr.DecodeString(reader); err != nil {
		return nil, fmt.Errorf("decode ace who: %w", err)
	}
	return &ace, nil
}

// EncodeNfsace4 writes an nfsace4.
func EncodeNfsace4(buf *bytes.Buffer, ace *Nfsace4) error {
	for _, v := range []uint32{ace.Type, ace.Flag, ace.AccessMask} {
		if err := xdr.WriteUint32(buf, v); err != nil {
			return err
		}
	}
	return xdr.WriteXDRString(buf, ace.Who)
}

// LockDenied4 describes the conflicting lock returned with NFS4ERR_DENIED
// (LOCK4denied).
type LockDenied4 struct {
	Offset   uint64
	Length   uint64
	Locktype uint32
	Owner    LockOwner4
}

func decodeLockDenied4(reader io.Reader) (*LockDenied4, error) {
	var d LockDenied4
	var err error
	if d.Offset, err = xdr.DecodeUint64(reader); err != nil {
		return nil, fmt.Errorf("decode denied offset: %w", err)
	}
	if d.Length, err = xdr.DecodeUint64(reader); err != nil {
		return nil, fmt.Errorf("decode denied length: %w", err)
	}
	if d.Locktype, err = xdr.DecodeUint32(reader); err != nil {
		return nil, fmt.Errorf("decode denied locktype: %w", err)
	}
	owner, err := DecodeStateOwner4(reader)
	if err != nil {
		return nil, err
	}
	d.Owner = *owner
	return &d, nil
}

func encodeLockDenied4(buf *bytes.Buffer, d *LockDenied4) error {
	if err := xdr.WriteUint64(buf, d.Offset); err != nil {
		return err
	}
	if err := xdr.WriteUint64(buf, d.Length); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, d.Locktype); err != nil {
		return err
	}
	return EncodeStateOwner4(buf, &d.Owner)
}

// Entry4 is one READDIR entry (entry4 without its nextentry link).
type Entry4 struct {
	Cookie uint64
	Name   string
	Attrs  Fattr4
}

// DirList4 is the READDIR reply body.
//
//	struct dirlist4 {
//	    entry4 *entries;
//	    bool    eof;
//	};
//
// The linked entry4 chain is flattened into Entries.
type DirList4 struct {
	Entries []Entry4
	EOF     bool
}

func decodeDirList4(reader io.Reader) (*DirList4, error) {
	list := &DirList4{}
	for {
		more, err := xdr.DecodeBool(reader)
		if err != nil {
			return nil, fmt.Errorf("decode dirlist4 value_follows: %w", err)
		}
		if !more {
			break
		}
		if len(list.Entries) >= maxDirEntries {
			return nil, fmt.Errorf("dirlist4 exceeds %d entries", maxDirEntries)
		}

		var e Entry4
		if e.Cookie, err = xdr.DecodeUint64(reader); err != nil {
			return nil, fmt.Errorf("decode entry cookie: %w", err)
		}
		if e.Name, err = xdr.DecodeString(reader); err != nil {
			return nil, fmt.Errorf("decode entry name: %w", err)
		}
		attrs, err := DecodeFattr4(reader)
		if err != nil {
			return nil, fmt.Errorf("decode entry %q attrs: %w", e.Name, err)
		}
		e.Attrs = *attrs
		list.Entries = append(list.Entries, e)
	}

	eof, err := xdr.DecodeBool(reader)
	if err != nil {
		return nil, fmt.Errorf("decode dirlist4 eof: %w", err)
	}
	list.EOF = eof
	return list, nil
}

func encodeDirList4(buf *bytes.Buffer, list *DirList4) error {
	for i := range list.Entries {
		e := &list.Entries[i]
		if err := xdr.WriteBool(buf, true); err != nil {
			return err
		}
		if err := xdr.WriteUint64(buf, e.Cookie); err != nil {
			return err
		}
		if err := xdr.WriteXDRString(buf, e.Name); err != nil {
			return err
		}
		if err := EncodeFattr4(buf, &e.Attrs); err != nil {
			return fmt.Errorf("encode entry %q attrs: %w", e.Name, err)
		}
	}
	if err := xdr.WriteBool(buf, false); err != nil {
		return err
	}
	return xdr.WriteBool(buf, list.EOF)
}

// ============================================================================
// Shared Status Helpers
// ============================================================================

// decodeStatus reads the leading nfsstat4 of every result.
func decodeStatus(reader io.Reader, op string) (uint32, error) {
	status, err := xdr.DecodeUint32(reader)
	if err != nil {
		return 0, fmt.Errorf("decode %s status: %w", op, err)
	}
	return status, nil
}

// statusString renders a status for String methods.
func statusString(status uint32) string {
	if status == NFS4_OK {
		return "OK"
	}
	return StatusName(status)
}

// decodeStatusInto decodes the status of a status-only result.
func decodeStatusInto(reader io.Reader, op string, status *uint32) error {
	s, err := decodeStatus(reader, op)
	if err != nil {
		return err
	}
	*status = s
	return nil
}

func statusOnlyString(name string, status uint32) string {
	return fmt.Sprintf("%s{status=%s}", name, statusString(status))
}

func errResokNotSet(op string) error {
	return fmt.Errorf("encode %s: status is NFS4_OK but resok is not set", op)
}

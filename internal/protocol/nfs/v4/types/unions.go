package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jcmturner/gofork/encoding/asn1"
	"github.com/jcmturner/gokrb5/v8/gssapi"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// Discriminated Unions
// ============================================================================
//
// Each XDR union is a Go struct holding the discriminant plus one pointer
// per arm that carries data. Exactly the arm selected by the discriminant is
// set; void arms leave every pointer nil. Encoding a union whose selected
// arm is missing is an error, decoding an unknown discriminant yields a
// *DecodeError.

func missingArm(union string, disc uint32) error {
	return fmt.Errorf("encode %s: arm for discriminant %d not set", union, disc)
}

// ============================================================================
// open_claim4
// ============================================================================

// OpenClaimDelegateCur4 is the CLAIM_DELEGATE_CUR arm (open_claim_delegate_cur4).
type OpenClaimDelegateCur4 struct {
	DelegateStateid Stateid4
	File            string
}

// OpenClaim4 selects what OPEN opens.
//
//	union open_claim4 switch (open_claim_type4 claim) {
//	    case CLAIM_NULL:          component4 file;
//	    case CLAIM_PREVIOUS:      open_delegation_type4 delegate_type;
//	    case CLAIM_DELEGATE_CUR:  open_claim_delegate_cur4 delegate_cur_info;
//	    case CLAIM_DELEGATE_PREV: component4 file_delegate_prev;
//	};
type OpenClaim4 struct {
	Claim            uint32
	File             *string
	DelegateType     *uint32
	DelegateCurInfo  *OpenClaimDelegateCur4
	FileDelegatePrev *string
}

// ClaimNull opens name in the current directory.
func ClaimNull(name string) OpenClaim4 {
	return OpenClaim4{Claim: CLAIM_NULL, File: &name}
}

// ClaimPrevious reclaims an open after server restart.
func ClaimPrevious(delegateType uint32) OpenClaim4 {
	return OpenClaim4{Claim: CLAIM_PREVIOUS, DelegateType: &delegateType}
}

// ClaimDelegateCur opens name under a currently held delegation.
func ClaimDelegateCur(sid Stateid4, name string) OpenClaim4 {
	return OpenClaim4{Claim: CLAIM_DELEGATE_CUR, DelegateCurInfo: &OpenClaimDelegateCur4{DelegateStateid: sid, File: name}}
}

// ClaimDelegatePrev reclaims a delegation held before a client restart.
func ClaimDelegatePrev(name string) OpenClaim4 {
	return OpenClaim4{Claim: CLAIM_DELEGATE_PREV, FileDelegatePrev: &name}
}

// Encode writes the open_claim4 union.
func (c *OpenClaim4) Encode(buf *bytes.Buffer) error {
	if err := xdr.EncodeUnionDiscriminant(buf, c.Claim); err != nil {
		return err
	}
	switch c.Claim {
	case CLAIM_NULL:
		if c.File == nil {
			return missingArm("open_claim4", c.Claim)
		}
		return xdr.WriteXDRString(buf, *c.File)
	case CLAIM_PREVIOUS:
		if c.DelegateType == nil {
			return missingArm("open_claim4", c.Claim)
		}
		return xdr.WriteUint32(buf, *c.DelegateType)
	case CLAIM_DELEGATE_CUR:
		if c.DelegateCurInfo == nil {
			return missingArm("open_claim4", c.Claim)
		}
		if err := EncodeStateid4(buf, &c.DelegateCurInfo.DelegateStateid); err != nil {
			return err
		}
		return xdr.WriteXDRString(buf, c.DelegateCurInfo.File)
	case CLAIM_DELEGATE_PREV:
		if c.FileDelegatePrev == nil {
			return missingArm("open_claim4", c.Claim)
		}
		return xdr.WriteXDRString(buf, *c.FileDelegatePrev)
	default:
		return fmt.Errorf("encode open_claim4: unknown claim type %d", c.Claim)
	}
}

// Decode reads the open_claim4 union.
func (c *OpenClaim4) Decode(r io.Reader) error {
	claim, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode open_claim4 claim: %w", err)
	}
	*c = OpenClaim4{Claim: claim}

	switch claim {
	case CLAIM_NULL:
		name, err := xdr.DecodeString(r)
		if err != nil {
			return fmt.Errorf("decode open_claim4 file: %w", err)
		}
		c.File = &name
	case CLAIM_PREVIOUS:
		dt, err := xdr.DecodeUint32(r)
		if err != nil {
			return fmt.Errorf("decode open_claim4 delegate_type: %w", err)
		}
		c.DelegateType = &dt
	case CLAIM_DELEGATE_CUR:
		sid, err := DecodeStateid4(r)
		if err != nil {
			return err
		}
		name, err := xdr.DecodeString(r)
		if err != nil {
			return fmt.Errorf("decode open_claim4 delegate_cur file: %w", err)
		}
		c.DelegateCurInfo = &OpenClaimDelegateCur4{DelegateStateid: *sid, File: name}
	case CLAIM_DELEGATE_PREV:
		name, err := xdr.DecodeString(r)
		if err != nil {
			return fmt.Errorf("decode open_claim4 file_delegate_prev: %w", err)
		}
		c.FileDelegatePrev = &name
	default:
		return newDecodeError("open_claim4.claim", claim)
	}
	return nil
}

// String returns a human-readable representation.
func (c *OpenClaim4) String() string {
	switch {
	case c.File != nil:
		return fmt.Sprintf("CLAIM_NULL(%q)", *c.File)
	case c.DelegateType != nil:
		return fmt.Sprintf("CLAIM_PREVIOUS(%d)", *c.DelegateType)
	case c.DelegateCurInfo != nil:
		return fmt.Sprintf("CLAIM_DELEGATE_CUR(%s, %q)", c.DelegateCurInfo.DelegateStateid.String(), c.DelegateCurInfo.File)
	case c.FileDelegatePrev != nil:
		return fmt.Sprintf("CLAIM_DELEGATE_PREV(%q)", *c.FileDelegatePrev)
	default:
		return fmt.Sprintf("CLAIM(%d)", c.Claim)
	}
}

// ============================================================================
// createtype4
// ============================================================================

// CreateType4 is the object type argument of CREATE.
//
//	union createtype4 switch (nfs_ftype4 type) {
//	    case NF4LNK:           linktext4 linkdata;
//	    case NF4BLK, NF4CHR:   specdata4 devdata;
//	    case NF4SOCK, NF4FIFO, NF4DIR: void;
//	    default: void;
//	};
//
// The default arm covers the remaining valid nfs_ftype4 values. Values
// outside 1..9 are not a file type at all and fail to decode.
type CreateType4 struct {
	Type     uint32
	LinkData *string
	DevData  *Specdata4
}

// CreateSymlink returns an NF4LNK create type pointing at target.
func CreateSymlink(target string) CreateType4 {
	return CreateType4{Type: NF4LNK, LinkData: &target}
}

// CreateDevice returns an NF4BLK or NF4CHR create type.
func CreateDevice(ftype, major, minor uint32) CreateType4 {
	return CreateType4{Type: ftype, DevData: &Specdata4{Specdata1: major, Specdata2: minor}}
}

func validFileType(t uint32) bool {
	return t >= NF4REG && t <= NF4NAMEDATTR
}

// Encode writes the createtype4 union.
func (c *CreateType4) Encode(buf *bytes.Buffer) error {
	if !validFileType(c.Type) {
		return fmt.Errorf("encode createtype4: unknown file type %d", c.Type)
	}
	if err := xdr.EncodeUnionDiscriminant(buf, c.Type); err != nil {
		return err
	}
	switch c.Type {
	case NF4LNK:
		if c.LinkData == nil {
			return missingArm("createtype4", c.Type)
		}
		return xdr.WriteXDRString(buf, *c.LinkData)
	case NF4BLK, NF4CHR:
		if c.DevData == nil {
			return missingArm("createtype4", c.Type)
		}
		if err := xdr.WriteUint32(buf, c.DevData.Specdata1); err != nil {
			return err
		}
		return xdr.WriteUint32(buf, c.DevData.Specdata2)
	}
	return nil
}

// Decode reads the createtype4 union.
func (c *CreateType4) Decode(r io.Reader) error {
	t, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode createtype4 type: %w", err)
	}
	if !validFileType(t) {
		return newDecodeError("createtype4.type", t)
	}
	*c = CreateType4{Type: t}

	switch t {
	case NF4LNK:
		link, err := xdr.DecodeString(r)
		if err != nil {
			return fmt.Errorf("decode createtype4 linkdata: %w", err)
		}
		c.LinkData = &link
	case NF4BLK, NF4CHR:
		var dev Specdata4
		if dev.Specdata1, err = xdr.DecodeUint32(r); err != nil {
			return fmt.Errorf("decode createtype4 specdata1: %w", err)
		}
		if dev.Specdata2, err = xdr.DecodeUint32(r); err != nil {
			return fmt.Errorf("decode createtype4 specdata2: %w", err)
		}
		c.DevData = &dev
	}
	return nil
}

// String returns a human-readable representation.
func (c *CreateType4) String() string {
	switch {
	case c.LinkData != nil:
		return fmt.Sprintf("symlink->%q", *c.LinkData)
	case c.DevData != nil:
		return fmt.Sprintf("%s(%d,%d)", FileTypeName(c.Type), c.DevData.Specdata1, c.DevData.Specdata2)
	default:
		return FileTypeName(c.Type)
	}
}

// ============================================================================
// openflag4 / createhow4
// ============================================================================

// CreateHow4 selects the create semantics of OPEN4_CREATE.
//
//	union createhow4 switch (createmode4 mode) {
//	    case UNCHECKED4:
//	    case GUARDED4:   fattr4    createattrs;
//	    case EXCLUSIVE4: verifier4 createverf;
//	};
type CreateHow4 struct {
	Mode        uint32
	CreateAttrs *Fattr4
	CreateVerf  *Verifier4
}

// Encode writes the createhow4 union.
func (h *CreateHow4) Encode(buf *bytes.Buffer) error {
	if err := xdr.EncodeUnionDiscriminant(buf, h.Mode); err != nil {
		return err
	}
	switch h.Mode {
	case UNCHECKED4, GUARDED4:
		if h.CreateAttrs == nil {
			return missingArm("createhow4", h.Mode)
		}
		return EncodeFattr4(buf, h.CreateAttrs)
	case EXCLUSIVE4:
		if h.CreateVerf == nil {
			return missingArm("createhow4", h.Mode)
		}
		return EncodeVerifier4(buf, *h.CreateVerf)
	default:
		return fmt.Errorf("encode createhow4: unknown mode %d", h.Mode)
	}
}

// Decode reads the createhow4 union.
func (h *CreateHow4) Decode(r io.Reader) error {
	mode, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode createhow4 mode: %w", err)
	}
	*h = CreateHow4{Mode: mode}

	switch mode {
	case UNCHECKED4, GUARDED4:
		attrs, err := DecodeFattr4(r)
		if err != nil {
			return fmt.Errorf("decode createhow4 createattrs: %w", err)
		}
		h.CreateAttrs = attrs
	case EXCLUSIVE4:
		verf, err := DecodeVerifier4(r)
		if err != nil {
			return fmt.Errorf("decode createhow4 createverf: %w", err)
		}
		h.CreateVerf = &verf
	default:
		return newDecodeError("createhow4.mode", mode)
	}
	return nil
}

// OpenFlag4 is OPEN's openhow argument.
//
//	union openflag4 switch (opentype4 opentype) {
//	    case OPEN4_CREATE: createhow4 how;
//	    default:           void;
//	};
type OpenFlag4 struct {
	OpenType uint32
	How      *CreateHow4
}

// OpenNoCreate returns the OPEN4_NOCREATE openhow.
func OpenNoCreate() OpenFlag4 {
	return OpenFlag4{OpenType: OPEN4_NOCREATE}
}

// OpenCreate returns an OPEN4_CREATE openhow with UNCHECKED4 or GUARDED4
// semantics and the given initial attributes.
func OpenCreate(mode uint32, attrs Fattr4) OpenFlag4 {
	return OpenFlag4{OpenType: OPEN4_CREATE, How: &CreateHow4{Mode: mode, CreateAttrs: &attrs}}
}

// OpenCreateExclusive returns an EXCLUSIVE4 openhow.
func OpenCreateExclusive(verf Verifier4) OpenFlag4 {
	return OpenFlag4{OpenType: OPEN4_CREATE, How: &CreateHow4{Mode: EXCLUSIVE4, CreateVerf: &verf}}
}

// Encode writes the openflag4 union.
func (f *OpenFlag4) Encode(buf *bytes.Buffer) error {
	if err := xdr.EncodeUnionDiscriminant(buf, f.OpenType); err != nil {
		return err
	}
	switch f.OpenType {
	case OPEN4_NOCREATE:
		return nil
	case OPEN4_CREATE:
		if f.How == nil {
			return missingArm("openflag4", f.OpenType)
		}
		return f.How.Encode(buf)
	default:
		return fmt.Errorf("encode openflag4: unknown opentype %d", f.OpenType)
	}
}

// Decode reads the openflag4 union.
func (f *OpenFlag4) Decode(r io.Reader) error {
	openType, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode openflag4 opentype: %w", err)
	}
	*f = OpenFlag4{OpenType: openType}

	switch openType {
	case OPEN4_NOCREATE:
	case OPEN4_CREATE:
		f.How = &CreateHow4{}
		if err := f.How.Decode(r); err != nil {
			return err
		}
	default:
		return newDecodeError("openflag4.opentype", openType)
	}
	return nil
}

// String returns a human-readable representation.
func (f *OpenFlag4) String() string {
	if f.How == nil {
		return "NOCREATE"
	}
	switch f.How.Mode {
	case UNCHECKED4:
		return "CREATE(UNCHECKED)"
	case GUARDED4:
		return "CREATE(GUARDED)"
	case EXCLUSIVE4:
		return "CREATE(EXCLUSIVE)"
	default:
		return fmt.Sprintf("CREATE(%d)", f.How.Mode)
	}
}

// ============================================================================
// open_delegation4 / nfs_space_limit4
// ============================================================================

// NfsModifiedLimit4 is the NFS_LIMIT_BLOCKS arm of nfs_space_limit4.
type NfsModifiedLimit4 struct {
	NumBlocks     uint32
	BytesPerBlock uint32
}

// NfsSpaceLimit4 bounds how much a write delegation holder may grow a file.
//
//	union nfs_space_limit4 switch (limit_by4 limitby) {
//	    case NFS_LIMIT_SIZE:   uint64_t filesize;
//	    case NFS_LIMIT_BLOCKS: nfs_modified_limit4 mod_blocks;
//	};
type NfsSpaceLimit4 struct {
	LimitBy   uint32
	Filesize  *uint64
	ModBlocks *NfsModifiedLimit4
}

// Encode writes the nfs_space_limit4 union.
func (l *NfsSpaceLimit4) Encode(buf *bytes.Buffer) error {
	if err := xdr.EncodeUnionDiscriminant(buf, l.LimitBy); err != nil {
		return err
	}
	switch l.LimitBy {
	case NFS_LIMIT_SIZE:
		if l.Filesize == nil {
			return missingArm("nfs_space_limit4", l.LimitBy)
		}
		return xdr.WriteUint64(buf, *l.Filesize)
	case NFS_LIMIT_BLOCKS:
		if l.ModBlocks == nil {
			return missingArm("nfs_space_limit4", l.LimitBy)
		}
		if err := xdr.WriteUint32(buf, l.ModBlocks.NumBlocks); err != nil {
			return err
		}
		return xdr.WriteUint32(buf, l.ModBlocks.BytesPerBlock)
	default:
		return fmt.Errorf("encode nfs_space_limit4: unknown limitby %d", l.LimitBy)
	}
}

// Decode reads the nfs_space_limit4 union.
func (l *NfsSpaceLimit4) Decode(r io.Reader) error {
	limitBy, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode nfs_space_limit4 limitby: %w", err)
	}
	*l = NfsSpaceLimit4{LimitBy: limitBy}

	switch limitBy {
	case NFS_LIMIT_SIZE:
		size, err := xdr.DecodeUint64(r)
		if err != nil {
			return fmt.Errorf("decode nfs_space_limit4 filesize: %w", err)
		}
		l.Filesize = &size
	case NFS_LIMIT_BLOCKS:
		var mb NfsModifiedLimit4
		if mb.NumBlocks, err = xdr.DecodeUint32(r); err != nil {
			return fmt.Errorf("decode nfs_space_limit4 num_blocks: %w", err)
		}
		if mb.BytesPerBlock, err = xdr.DecodeUint32(r); err != nil {
			return fmt.Errorf("decode nfs_space_limit4 bytes_per_block: %w", err)
		}
		l.ModBlocks = &mb
	default:
		return newDecodeError("nfs_space_limit4.limitby", limitBy)
	}
	return nil
}

// OpenReadDelegation4 is the OPEN_DELEGATE_READ arm. On the wire it carries
// a single nfsace4 permissions entry (RFC 7530, open_read_delegation4), not
// an ACL.
type OpenReadDelegation4 struct {
	Stateid     Stateid4
	Recall      bool
	Permissions Nfsace4
}

// OpenWriteDelegation4 is the OPEN_DELEGATE_WRITE arm.
type OpenWriteDelegation4 struct {
	Stateid     Stateid4
	Recall      bool
	SpaceLimit  NfsSpaceLimit4
	Permissions Nfsace4
}

// OpenDelegation4 is the delegation granted by OPEN.
//
//	union open_delegation4 switch (open_delegation_type4 delegation_type) {
//	    case OPEN_DELEGATE_NONE:  void;
//	    case OPEN_DELEGATE_READ:  open_read_delegation4 read;
//	    case OPEN_DELEGATE_WRITE: open_write_delegation4 write;
//	};
type OpenDelegation4 struct {
	DelegationType uint32
	Read           *OpenReadDelegation4
	Write          *OpenWriteDelegation4
}

// Encode writes the open_delegation4 union.
func (d *OpenDelegation4) Encode(buf *bytes.Buffer) error {
	if err := xdr.EncodeUnionDiscriminant(buf, d.DelegationType); err != nil {
		return err
	}
	switch d.DelegationType {
	case OPEN_DELEGATE_NONE:
		return nil
	case OPEN_DELEGATE_READ:
		if d.Read == nil {
			return missingArm("open_delegation4", d.DelegationType)
		}
		if err := EncodeStateid4(buf, &d.Read.Stateid); err != nil {
			return err
		}
		if err := xdr.WriteBool(buf, d.Read.Recall); err != nil {
			return err
		}
		return EncodeNfsace4(buf, &d.Read.Permissions)
	case OPEN_DELEGATE_WRITE:
		if d.Write == nil {
			return missingArm("open_delegation4", d.DelegationType)
		}
		if err := EncodeStateid4(buf, &d.Write.Stateid); err != nil {
			return err
		}
		if err := xdr.WriteBool(buf, d.Write.Recall); err != nil {
			return err
		}
		if err := d.Write.SpaceLimit.Encode(buf); err != nil {
			return err
		}
		return EncodeNfsace4(buf, &d.Write.Permissions)
	default:
		return fmt.Errorf("encode open_delegation4: unknown delegation type %d", d.DelegationType)
	}
}

// Decode reads the open_delegation4 union.
func (d *OpenDelegation4) Decode(r io.Reader) error {
	dt, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode open_delegation4 type: %w", err)
	}
	*d = OpenDelegation4{DelegationType: dt}

	switch dt {
	case OPEN_DELEGATE_NONE:
	case OPEN_DELEGATE_READ:
		sid, err := DecodeStateid4(r)
		if err != nil {
			return err
		}
		recall, err := xdr.DecodeBool(r)
		if err != nil {
			return fmt.Errorf("decode read delegation recall: %w", err)
		}
		ace, err := DecodeNfsace4(r)
		if err != nil {
			return err
		}
		d.Read = &OpenReadDelegation4{Stateid: *sid, Recall: recall, Permissions: *ace}
	case OPEN_DELEGATE_WRITE:
		sid, err := DecodeStateid4(r)
		if err != nil {
			return err
		}
		recall, err := xdr.DecodeBool(r)
		if err != nil {
			return fmt.Errorf("decode write delegation recall: %w", err)
		}
		w := &OpenWriteDelegation4{Stateid: *sid, Recall: recall}
		if err := w.SpaceLimit.Decode(r); err != nil {
			return err
		}
		ace, err := DecodeNfsace4(r)
		if err != nil {
			return err
		}
		w.Permissions = *ace
		d.Write = w
	default:
		return newDecodeError("open_delegation4.delegation_type", dt)
	}
	return nil
}

// String returns a human-readable representation.
func (d *OpenDelegation4) String() string {
	switch {
	case d.Read != nil:
		return fmt.Sprintf("READ(%s)", d.Read.Stateid.String())
	case d.Write != nil:
		return fmt.Sprintf("WRITE(%s)", d.Write.Stateid.String())
	default:
		return "NONE"
	}
}

// ============================================================================
// locker4
// ============================================================================

// OpenToLockOwner4 introduces a new lock owner derived from an open.
type OpenToLockOwner4 struct {
	OpenSeqid   uint32
	OpenStateid Stateid4
	LockSeqid   uint32
	LockOwner   LockOwner4
}

// ExistLockOwner4 continues with an established lock owner.
type ExistLockOwner4 struct {
	LockStateid Stateid4
	LockSeqid   uint32
}

// Locker4 identifies the lock owner of a LOCK request.
//
//	union locker4 switch (bool new_lock_owner) {
//	    case TRUE:  open_to_lock_owner4 open_owner;
//	    case FALSE: exist_lock_owner4   lock_owner;
//	};
type Locker4 struct {
	NewLockOwner bool
	OpenOwner    *OpenToLockOwner4
	LockOwner    *ExistLockOwner4
}

// Encode writes the locker4 union.
func (l *Locker4) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteBool(buf, l.NewLockOwner); err != nil {
		return err
	}
	if l.NewLockOwner {
		if l.OpenOwner == nil {
			return missingArm("locker4", 1)
		}
		o := l.OpenOwner
		if err := xdr.WriteUint32(buf, o.OpenSeqid); err != nil {
			return err
		}
		if err := EncodeStateid4(buf, &o.OpenStateid); err != nil {
			return err
		}
		if err := xdr.WriteUint32(buf, o.LockSeqid); err != nil {
			return err
		}
		return EncodeStateOwner4(buf, &o.LockOwner)
	}

	if l.LockOwner == nil {
		return missingArm("locker4", 0)
	}
	if err := EncodeStateid4(buf, &l.LockOwner.LockStateid); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, l.LockOwner.LockSeqid)
}

// Decode reads the locker4 union. The discriminant is an XDR bool, but as a
// union arm selector it is checked strictly: any value other than 0 or 1 is
// a decode fault, unlike plain bool fields read with xdr.DecodeBool.
func (l *Locker4) Decode(r io.Reader) error {
	disc, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode locker4 new_lock_owner: %w", err)
	}
	*l = Locker4{}

	switch disc {
	case 1:
		l.NewLockOwner = true
		var o OpenToLockOwner4
		if o.OpenSeqid, err = xdr.DecodeUint32(r); err != nil {
			return fmt.Errorf("decode open_to_lock_owner4 open_seqid: %w", err)
		}
		sid, err := DecodeStateid4(r)
		if err != nil {
			return err
		}
		o.OpenStateid = *sid
		if o.LockSeqid, err = xdr.DecodeUint32(r); err != nil {
			return fmt.Errorf("decode open_to_lock_owner4 lock_seqid: %w", err)
		}
		owner, err := DecodeStateOwner4(r)
		if err != nil {
			return err
		}
		o.LockOwner = *owner
		l.OpenOwner = &o
	case 0:
		sid, err := DecodeStateid4(r)
		if err != nil {
			return err
		}
		seqid, err := xdr.DecodeUint32(r)
		if err != nil {
			return fmt.Errorf("decode exist_lock_owner4 lock_seqid: %w", err)
		}
		l.LockOwner = &ExistLockOwner4{LockStateid: *sid, LockSeqid: seqid}
	default:
		return newDecodeError("locker4.new_lock_owner", disc)
	}
	return nil
}

// ============================================================================
// secinfo4
// ============================================================================

// RPCSecGSSInfo is the RPCSEC_GSS arm of secinfo4 (rpcsec_gss_info).
//
// OID holds the DER encoding of the GSS mechanism object identifier exactly
// as it appears on the wire (sec_oid4).
type RPCSecGSSInfo struct {
	OID     []byte
	QOP     uint32
	Service uint32
}

// NewRPCSecGSSInfo builds the GSS arm from a mechanism OID.
func NewRPCSecGSSInfo(mech asn1.ObjectIdentifier, qop, service uint32) (*RPCSecGSSInfo, error) {
	der, err := asn1.Marshal(mech)
	if err != nil {
		return nil, fmt.Errorf("marshal mechanism oid: %w", err)
	}
	return &RPCSecGSSInfo{OID: der, QOP: qop, Service: service}, nil
}

// KerberosV5Info returns the krb5 mechanism entry for the given service
// (krb5, krb5i or krb5p).
func KerberosV5Info(service uint32) (*RPCSecGSSInfo, error) {
	return NewRPCSecGSSInfo(gssapi.OIDKRB5.OID(), 0, service)
}

// Mechanism parses the DER-encoded OID.
func (g *RPCSecGSSInfo) Mechanism() (asn1.ObjectIdentifier, error) {
	var oid asn1.ObjectIdentifier
	rest, err := asn1.Unmarshal(g.OID, &oid)
	if err != nil {
		return nil, fmt.Errorf("parse mechanism oid: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("parse mechanism oid: %d trailing bytes", len(rest))
	}
	return oid, nil
}

// IsKerberosV5 reports whether the mechanism is krb5.
func (g *RPCSecGSSInfo) IsKerberosV5() bool {
	oid, err := g.Mechanism()
	return err == nil && oid.Equal(gssapi.OIDKRB5.OID())
}

// Secinfo4 is one security mechanism returned by SECINFO.
//
//	union secinfo4 switch (uint32_t flavor) {
//	    case RPCSEC_GSS: rpcsec_gss_info flavor_info;
//	    default:         void;
//	};
//
// Only the flavors defined for ONC RPC (AUTH_NONE, AUTH_SYS, AUTH_SHORT,
// AUTH_DH and RPCSEC_GSS) are accepted.
type Secinfo4 struct {
	Flavor     uint32
	FlavorInfo *RPCSecGSSInfo
}

func knownFlavor(f uint32) bool {
	switch f {
	case AUTH_NONE, AUTH_SYS, AUTH_SHORT, AUTH_DH, RPCSEC_GSS:
		return true
	}
	return false
}

// Encode writes the secinfo4 union.
func (s *Secinfo4) Encode(buf *bytes.Buffer) error {
	if !knownFlavor(s.Flavor) {
		return fmt.Errorf("encode secinfo4: unknown flavor %d", s.Flavor)
	}
	if err := xdr.EncodeUnionDiscriminant(buf, s.Flavor); err != nil {
		return err
	}
	if s.Flavor != RPCSEC_GSS {
		return nil
	}
	if s.FlavorInfo == nil {
		return missingArm("secinfo4", s.Flavor)
	}
	if err := xdr.WriteXDROpaque(buf, s.FlavorInfo.OID); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, s.FlavorInfo.QOP); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, s.FlavorInfo.Service)
}

// Decode reads the secinfo4 union.
func (s *Secinfo4) Decode(r io.Reader) error {
	flavor, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return fmt.Errorf("decode secinfo4 flavor: %w", err)
	}
	if !knownFlavor(flavor) {
		return newDecodeError("secinfo4.flavor", flavor)
	}
	*s = Secinfo4{Flavor: flavor}
	if flavor != RPCSEC_GSS {
		return nil
	}

	info := &RPCSecGSSInfo{}
	if info.OID, err = xdr.DecodeOpaqueMax(r, NFS4_OPAQUE_LIMIT); err != nil {
		return fmt.Errorf("decode rpcsec_gss_info oid: %w", err)
	}
	if info.QOP, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode rpcsec_gss_info qop: %w", err)
	}
	if info.Service, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode rpcsec_gss_info service: %w", err)
	}
	if info.Service < RPC_GSS_SVC_NONE || info.Service > RPC_GSS_SVC_PRIVACY {
		return newDecodeError("rpcsec_gss_info.service", info.Service)
	}
	s.FlavorInfo = info
	return nil
}

// String returns the conventional mount option name of the flavor.
func (s *Secinfo4) String() string {
	switch s.Flavor {
	case AUTH_NONE:
		return "none"
	case AUTH_SYS:
		return "sys"
	case AUTH_SHORT:
		return "short"
	case AUTH_DH:
		return "dh"
	case RPCSEC_GSS:
		if s.FlavorInfo == nil {
			return "gss"
		}
		prefix := "gss"
		if s.FlavorInfo.IsKerberosV5() {
			prefix = "krb5"
		}
		switch s.FlavorInfo.Service {
		case RPC_GSS_SVC_INTEGRITY:
			return prefix + "i"
		case RPC_GSS_SVC_PRIVACY:
			return prefix + "p"
		default:
			return prefix
		}
	default:
		return fmt.Sprintf("flavor(%d)", s.Flavor)
	}
}

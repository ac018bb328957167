// Package types - directory and namespace operations (RFC 7530 Sections
// 16.4, 16.9, 16.24-16.27, 16.31).
package types

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// CREATE
// ============================================================================

// CreateArgs creates a non-regular object named Objname in the current
// directory. Regular files are created with OPEN.
type CreateArgs struct {
	Objtype     CreateType4
	Objname     string
	Createattrs Fattr4
}

func (a *CreateArgs) OpCode() uint32 { return OP_CREATE }

// Encode writes the CREATE args in XDR format.
func (a *CreateArgs) Encode(buf *bytes.Buffer) error {
	if err := a.Objtype.Encode(buf); err != nil {
		return err
	}
	if err := xdr.WriteXDRString(buf, a.Objname); err != nil {
		return fmt.Errorf("encode create objname: %w", err)
	}
	return EncodeFattr4(buf, &a.Createattrs)
}

// Decode reads the CREATE args from XDR format.
func (a *CreateArgs) Decode(r io.Reader) error {
	if err := a.Objtype.Decode(r); err != nil {
		return err
	}
	name, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode create objname: %w", err)
	}
	a.Objname = name
	return decodeFattrInto(r, &a.Createattrs)
}

func (a *CreateArgs) String() string {
	return fmt.Sprintf("CreateArgs{type=%s, name=%q}", a.Objtype.String(), a.Objname)
}

// CreateResOK carries the directory change info and the attributes set.
type CreateResOK struct {
	Cinfo   ChangeInfo4
	Attrset Bitmap4
}

// CreateRes represents CREATE4res.
type CreateRes struct {
	Status uint32
	Resok  *CreateResOK
}

func (res *CreateRes) OpCode() uint32 { return OP_CREATE }

// Encode writes the CREATE result in XDR format.
func (res *CreateRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode create status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("create")
	}
	if err := EncodeChangeInfo4(buf, &res.Resok.Cinfo); err != nil {
		return err
	}
	return EncodeBitmap4(buf, res.Resok.Attrset)
}

// Decode reads the CREATE result from XDR format.
func (res *CreateRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "create")
	if err != nil {
		return err
	}
	*res = CreateRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	cinfo, err := DecodeChangeInfo4(r)
	if err != nil {
		return err
	}
	set, err := DecodeBitmap4(r)
	if err != nil {
		return fmt.Errorf("decode create attrset: %w", err)
	}
	res.Resok = &CreateResOK{Cinfo: *cinfo, Attrset: set}
	return nil
}

func (res *CreateRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("CreateRes{status=OK, cinfo=%s, attrset=%v}", res.Resok.Cinfo.String(), res.Resok.Attrset)
	}
	return statusOnlyString("CreateRes", res.Status)
}

// ============================================================================
// LINK
// ============================================================================

// LinkArgs links the saved filehandle as Newname in the current directory.
type LinkArgs struct {
	Newname string
}

func (a *LinkArgs) OpCode() uint32                 { return OP_LINK }
func (a *LinkArgs) Encode(buf *bytes.Buffer) error { return xdr.WriteXDRString(buf, a.Newname) }

// Decode reads the LINK args from XDR format.
func (a *LinkArgs) Decode(r io.Reader) error {
	name, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode link newname: %w", err)
	}
	a.Newname = name
	return nil
}

func (a *LinkArgs) String() string { return fmt.Sprintf("LinkArgs{newname=%q}", a.Newname) }

// LinkResOK carries the target directory change info.
type LinkResOK struct {
	Cinfo ChangeInfo4
}

// LinkRes represents LINK4res.
type LinkRes struct {
	Status uint32
	Resok  *LinkResOK
}

func (res *LinkRes) OpCode() uint32 { return OP_LINK }

// Encode writes the LINK result in XDR format.
func (res *LinkRes) Encode(buf *bytes.Buffer) error {
	return encodeCinfoRes(buf, "link", res.Status, res.Resok != nil, func() *ChangeInfo4 { return &res.Resok.Cinfo })
}

// Decode reads the LINK result from XDR format.
func (res *LinkRes) Decode(r io.Reader) error {
	status, cinfo, err := decodeCinfoRes(r, "link")
	if err != nil {
		return err
	}
	*res = LinkRes{Status: status}
	if cinfo != nil {
		res.Resok = &LinkResOK{Cinfo: *cinfo}
	}
	return nil
}

func (res *LinkRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("LinkRes{status=OK, cinfo=%s}", res.Resok.Cinfo.String())
	}
	return statusOnlyString("LinkRes", res.Status)
}

// ============================================================================
// REMOVE
// ============================================================================

// RemoveArgs removes Target from the current directory.
type RemoveArgs struct {
	Target string
}

func (a *RemoveArgs) OpCode() uint32                 { return OP_REMOVE }
func (a *RemoveArgs) Encode(buf *bytes.Buffer) error { return xdr.WriteXDRString(buf, a.Target) }

// Decode reads the REMOVE args from XDR format.
func (a *RemoveArgs) Decode(r io.Reader) error {
	name, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode remove target: %w", err)
	}
	a.Target = name
	return nil
}

func (a *RemoveArgs) String() string { return fmt.Sprintf("RemoveArgs{target=%q}", a.Target) }

// RemoveResOK carries the directory change info.
type RemoveResOK struct {
	Cinfo ChangeInfo4
}

// RemoveRes represents REMOVE4res.
type RemoveRes struct {
	Status uint32
	Resok  *RemoveResOK
}

func (res *RemoveRes) OpCode() uint32 { return OP_REMOVE }

// Encode writes the REMOVE result in XDR format.
func (res *RemoveRes) Encode(buf *bytes.Buffer) error {
	return encodeCinfoRes(buf, "remove", res.Status, res.Resok != nil, func() *ChangeInfo4 { return &res.Resok.Cinfo })
}

// Decode reads the REMOVE result from XDR format.
func (res *RemoveRes) Decode(r io.Reader) error {
	status, cinfo, err := decodeCinfoRes(r, "remove")
	if err != nil {
		return err
	}
	*res = RemoveRes{Status: status}
	if cinfo != nil {
		res.Resok = &RemoveResOK{Cinfo: *cinfo}
	}
	return nil
}

func (res *RemoveRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("RemoveRes{status=OK, cinfo=%s}", res.Resok.Cinfo.String())
	}
	return statusOnlyString("RemoveRes", res.Status)
}

// encodeCinfoRes writes a result whose resok is a single change_info4.
func encodeCinfoRes(buf *bytes.Buffer, op string, status uint32, hasResok bool, cinfo func() *ChangeInfo4) error {
	if err := xdr.WriteUint32(buf, status); err != nil {
		return fmt.Errorf("encode %s status: %w", op, err)
	}
	if status != NFS4_OK {
		return nil
	}
	if !hasResok {
		return errResokNotSet(op)
	}
	return EncodeChangeInfo4(buf, cinfo())
}

func decodeCinfoRes(r io.Reader, op string) (uint32, *ChangeInfo4, error) {
	status, err := decodeStatus(r, op)
	if err != nil {
		return 0, nil, err
	}
	if status != NFS4_OK {
		return status, nil, nil
	}
	cinfo, err := DecodeChangeInfo4(r)
	if err != nil {
		return 0, nil, fmt.Errorf("decode %s cinfo: %w", op, err)
	}
	return status, cinfo, nil
}

// ============================================================================
// RENAME
// ============================================================================

// RenameArgs renames Oldname in the saved directory to Newname in the
// current directory.
type RenameArgs struct {
	Oldname string
	Newname string
}

func (a *RenameArgs) OpCode() uint32 { return OP_RENAME }

// Encode writes the RENAME args in XDR format.
func (a *RenameArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteXDRString(buf, a.Oldname); err != nil {
		return err
	}
	return xdr.WriteXDRString(buf, a.Newname)
}

// Decode reads the RENAME args from XDR format.
func (a *RenameArgs) Decode(r io.Reader) error {
	oldname, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode rename oldname: %w", err)
	}
	newname, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode rename newname: %w", err)
	}
	a.Oldname, a.Newname = oldname, newname
	return nil
}

func (a *RenameArgs) String() string {
	return fmt.Sprintf("RenameArgs{old=%q, new=%q}", a.Oldname, a.Newname)
}

// RenameResOK carries change info for both directories.
type RenameResOK struct {
	SourceCinfo ChangeInfo4
	TargetCinfo ChangeInfo4
}

// RenameRes represents RENAME4res.
type RenameRes struct {
	Status uint32
	Resok  *RenameResOK
}

func (res *RenameRes) OpCode() uint32 { return OP_RENAME }

// Encode writes the RENAME result in XDR format.
func (res *RenameRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode rename status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("rename")
	}
	if err := EncodeChangeInfo4(buf, &res.Resok.SourceCinfo); err != nil {
		return err
	}
	return EncodeChangeInfo4(buf, &res.Resok.TargetCinfo)
}

// Decode reads the RENAME result from XDR format.
func (res *RenameRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "rename")
	if err != nil {
		return err
	}
	*res = RenameRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	src, err := DecodeChangeInfo4(r)
	if err != nil {
		return fmt.Errorf("decode rename source_cinfo: %w", err)
	}
	dst, err := DecodeChangeInfo4(r)
	if err != nil {
		return fmt.Errorf("decode rename target_cinfo: %w", err)
	}
	res.Resok = &RenameResOK{SourceCinfo: *src, TargetCinfo: *dst}
	return nil
}

func (res *RenameRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("RenameRes{status=OK, source=%s, target=%s}",
			res.Resok.SourceCinfo.String(), res.Resok.TargetCinfo.String())
	}
	return statusOnlyString("RenameRes", res.Status)
}

// ============================================================================
// READDIR
// ============================================================================

// ReaddirArgs reads directory entries starting after Cookie.
//
// Dircount bounds the size of the cookie and name data, Maxcount bounds the
// whole reply. Cookie 0 with a zero Cookieverf starts from the beginning.
type ReaddirArgs struct {
	Cookie      uint64
	Cookieverf  Verifier4
	Dircount    uint32
	Maxcount    uint32
	AttrRequest Bitmap4
}

func (a *ReaddirArgs) OpCode() uint32 { return OP_READDIR }

// Encode writes the READDIR args in XDR format.
func (a *ReaddirArgs) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint64(buf, a.Cookie); err != nil {
		return err
	}
	if err := EncodeVerifier4(buf, a.Cookieverf); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.Dircount); err != nil {
		return err
	}
	if err := xdr.WriteUint32(buf, a.Maxcount); err != nil {
		return err
	}
	return EncodeBitmap4(buf, a.AttrRequest)
}

// Decode reads the READDIR args from XDR format.
func (a *ReaddirArgs) Decode(r io.Reader) error {
	var err error
	if a.Cookie, err = xdr.DecodeUint64(r); err != nil {
		return fmt.Errorf("decode readdir cookie: %w", err)
	}
	if a.Cookieverf, err = DecodeVerifier4(r); err != nil {
		return fmt.Errorf("decode readdir cookieverf: %w", err)
	}
	if a.Dircount, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode readdir dircount: %w", err)
	}
	if a.Maxcount, err = xdr.DecodeUint32(r); err != nil {
		return fmt.Errorf("decode readdir maxcount: %w", err)
	}
	if a.AttrRequest, err = DecodeBitmap4(r); err != nil {
		return fmt.Errorf("decode readdir attr_request: %w", err)
	}
	return nil
}

func (a *ReaddirArgs) String() string {
	return fmt.Sprintf("ReaddirArgs{cookie=%d, dircount=%d, maxcount=%d, request=%v}",
		a.Cookie, a.Dircount, a.Maxcount, a.AttrRequest)
}

// ReaddirResOK carries one page of entries.
type ReaddirResOK struct {
	Cookieverf Verifier4
	Reply      DirList4
}

// ReaddirRes represents READDIR4res.
type ReaddirRes struct {
	Status uint32
	Resok  *ReaddirResOK
}

func (res *ReaddirRes) OpCode() uint32 { return OP_READDIR }

// Encode writes the READDIR result in XDR format.
func (res *ReaddirRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode readdir status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("readdir")
	}
	if err := EncodeVerifier4(buf, res.Resok.Cookieverf); err != nil {
		return err
	}
	return encodeDirList4(buf, &res.Resok.Reply)
}

// Decode reads the READDIR result from XDR format.
func (res *ReaddirRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "readdir")
	if err != nil {
		return err
	}
	*res = ReaddirRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	verf, err := DecodeVerifier4(r)
	if err != nil {
		return fmt.Errorf("decode readdir cookieverf: %w", err)
	}
	list, err := decodeDirList4(r)
	if err != nil {
		return err
	}
	res.Resok = &ReaddirResOK{Cookieverf: verf, Reply: *list}
	return nil
}

func (res *ReaddirRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("ReaddirRes{status=OK, entries=%d, eof=%t}",
			len(res.Resok.Reply.Entries), res.Resok.Reply.EOF)
	}
	return statusOnlyString("ReaddirRes", res.Status)
}

// ============================================================================
// READLINK
// ============================================================================

// ReadlinkArgs has no fields.
type ReadlinkArgs struct{}

func (a *ReadlinkArgs) OpCode() uint32                 { return OP_READLINK }
func (a *ReadlinkArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *ReadlinkArgs) Decode(r io.Reader) error       { return nil }
func (a *ReadlinkArgs) String() string                 { return "ReadlinkArgs{}" }

// ReadlinkResOK carries the symlink target.
type ReadlinkResOK struct {
	Link string
}

// ReadlinkRes represents READLINK4res.
type ReadlinkRes struct {
	Status uint32
	Resok  *ReadlinkResOK
}

func (res *ReadlinkRes) OpCode() uint32 { return OP_READLINK }

// Encode writes the READLINK result in XDR format.
func (res *ReadlinkRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode readlink status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("readlink")
	}
	return xdr.WriteXDRString(buf, res.Resok.Link)
}

// Decode reads the READLINK result from XDR format.
func (res *ReadlinkRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "readlink")
	if err != nil {
		return err
	}
	*res = ReadlinkRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	link, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode readlink link: %w", err)
	}
	res.Resok = &ReadlinkResOK{Link: link}
	return nil
}

func (res *ReadlinkRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("ReadlinkRes{status=OK, link=%q}", res.Resok.Link)
	}
	return statusOnlyString("ReadlinkRes", res.Status)
}

// ============================================================================
// SECINFO
// ============================================================================

// SecinfoArgs asks which security flavors protect Name in the current
// directory.
type SecinfoArgs struct {
	Name string
}

func (a *SecinfoArgs) OpCode() uint32                 { return OP_SECINFO }
func (a *SecinfoArgs) Encode(buf *bytes.Buffer) error { return xdr.WriteXDRString(buf, a.Name) }

// Decode reads the SECINFO args from XDR format.
func (a *SecinfoArgs) Decode(r io.Reader) error {
	name, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode secinfo name: %w", err)
	}
	a.Name = name
	return nil
}

func (a *SecinfoArgs) String() string { return fmt.Sprintf("SecinfoArgs{name=%q}", a.Name) }

// SecinfoResOK lists the acceptable flavors, most preferred first.
type SecinfoResOK struct {
	Flavors []Secinfo4
}

// SecinfoRes represents SECINFO4res.
type SecinfoRes struct {
	Status uint32
	Resok  *SecinfoResOK
}

func (res *SecinfoRes) OpCode() uint32 { return OP_SECINFO }

// Encode writes the SECINFO result in XDR format.
func (res *SecinfoRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode secinfo status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("secinfo")
	}
	return xdr.WriteVarArray(buf, res.Resok.Flavors, func(b *bytes.Buffer, s Secinfo4) error {
		return s.Encode(b)
	})
}

// Decode reads the SECINFO result from XDR format.
func (res *SecinfoRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "secinfo")
	if err != nil {
		return err
	}
	*res = SecinfoRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	flavors, err := xdr.DecodeVarArray(r, maxListItems, func(r io.Reader) (Secinfo4, error) {
		var s Secinfo4
		err := s.Decode(r)
		return s, err
	})
	if err != nil {
		return fmt.Errorf("decode secinfo flavors: %w", err)
	}
	res.Resok = &SecinfoResOK{Flavors: flavors}
	return nil
}

func (res *SecinfoRes) String() string {
	if res.Resok == nil {
		return statusOnlyString("SecinfoRes", res.Status)
	}
	names := make([]string, 0, len(res.Resok.Flavors))
	for i := range res.Resok.Flavors {
		names = append(names, res.Resok.Flavors[i].String())
	}
	return fmt.Sprintf("SecinfoRes{status=OK, flavors=[%s]}", strings.Join(names, ","))
}

// Package types - filehandle operations (RFC 7530 Sections 16.8, 16.13,
// 16.14, 16.20-16.22, 16.29, 16.30).
//
// These operations move the current and saved filehandles of a COMPOUND:
// PUTFH/PUTPUBFH/PUTROOTFH set it, LOOKUP/LOOKUPP walk it, GETFH returns
// it, SAVEFH/RESTOREFH swap it with the saved slot.
package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ============================================================================
// GETFH
// ============================================================================

// GetfhArgs has no fields.
type GetfhArgs struct{}

func (a *GetfhArgs) OpCode() uint32                 { return OP_GETFH }
func (a *GetfhArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *GetfhArgs) Decode(r io.Reader) error       { return nil }
func (a *GetfhArgs) String() string                 { return "GetfhArgs{}" }

// GetfhResOK carries the current filehandle.
type GetfhResOK struct {
	Object NfsFh4
}

// GetfhRes represents GETFH4res.
type GetfhRes struct {
	Status uint32
	Resok  *GetfhResOK
}

func (res *GetfhRes) OpCode() uint32 { return OP_GETFH }

// Encode writes the GETFH result in XDR format.
func (res *GetfhRes) Encode(buf *bytes.Buffer) error {
	if err := xdr.WriteUint32(buf, res.Status); err != nil {
		return fmt.Errorf("encode getfh status: %w", err)
	}
	if res.Status != NFS4_OK {
		return nil
	}
	if res.Resok == nil {
		return errResokNotSet("getfh")
	}
	return EncodeNfsFh4(buf, res.Resok.Object)
}

// Decode reads the GETFH result from XDR format.
func (res *GetfhRes) Decode(r io.Reader) error {
	status, err := decodeStatus(r, "getfh")
	if err != nil {
		return err
	}
	*res = GetfhRes{Status: status}
	if status != NFS4_OK {
		return nil
	}
	fh, err := DecodeNfsFh4(r)
	if err != nil {
		return err
	}
	res.Resok = &GetfhResOK{Object: fh}
	return nil
}

// String returns a human-readable representation.
func (res *GetfhRes) String() string {
	if res.Resok != nil {
		return fmt.Sprintf("GetfhRes{status=OK, fh=%s}", res.Resok.Object)
	}
	return fmt.Sprintf("GetfhRes{status=%s}", statusString(res.Status))
}

// ============================================================================
// PUTFH
// ============================================================================

// PutfhArgs sets the current filehandle.
type PutfhArgs struct {
	Object NfsFh4
}

func (a *PutfhArgs) OpCode() uint32 { return OP_PUTFH }

// Encode writes the PUTFH args in XDR format.
func (a *PutfhArgs) Encode(buf *bytes.Buffer) error {
	return EncodeNfsFh4(buf, a.Object)
}

// Decode reads the PUTFH args from XDR format.
func (a *PutfhArgs) Decode(r io.Reader) error {
	fh, err := DecodeNfsFh4(r)
	if err != nil {
		return err
	}
	a.Object = fh
	return nil
}

func (a *PutfhArgs) String() string { return fmt.Sprintf("PutfhArgs{fh=%s}", a.Object) }

// PutfhRes represents PUTFH4res.
type PutfhRes struct {
	Status uint32
}

func (res *PutfhRes) OpCode() uint32                 { return OP_PUTFH }
func (res *PutfhRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *PutfhRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "putfh", &res.Status) }
func (res *PutfhRes) String() string                 { return statusOnlyString("PutfhRes", res.Status) }

// ============================================================================
// PUTPUBFH / PUTROOTFH
// ============================================================================

// PutpubfhArgs has no fields.
type PutpubfhArgs struct{}

func (a *PutpubfhArgs) OpCode() uint32                 { return OP_PUTPUBFH }
func (a *PutpubfhArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *PutpubfhArgs) Decode(r io.Reader) error       { return nil }
func (a *PutpubfhArgs) String() string                 { return "PutpubfhArgs{}" }

// PutpubfhRes represents PUTPUBFH4res.
type PutpubfhRes struct {
	Status uint32
}

func (res *PutpubfhRes) OpCode() uint32                 { return OP_PUTPUBFH }
func (res *PutpubfhRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *PutpubfhRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "putpubfh", &res.Status) }
func (res *PutpubfhRes) String() string                 { return statusOnlyString("PutpubfhRes", res.Status) }

// PutrootfhArgs has no fields.
type PutrootfhArgs struct{}

func (a *PutrootfhArgs) OpCode() uint32                 { return OP_PUTROOTFH }
func (a *PutrootfhArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *PutrootfhArgs) Decode(r io.Reader) error       { return nil }
func (a *PutrootfhArgs) String() string                 { return "PutrootfhArgs{}" }

// PutrootfhRes represents PUTROOTFH4res.
type PutrootfhRes struct {
	Status uint32
}

func (res *PutrootfhRes) OpCode() uint32                 { return OP_PUTROOTFH }
func (res *PutrootfhRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *PutrootfhRes) Decode(r io.Reader) error {
	return decodeStatusInto(r, "putrootfh", &res.Status)
}
func (res *PutrootfhRes) String() string { return statusOnlyString("PutrootfhRes", res.Status) }

// ============================================================================
// SAVEFH / RESTOREFH
// ============================================================================

// SavefhArgs has no fields.
type SavefhArgs struct{}

func (a *SavefhArgs) OpCode() uint32                 { return OP_SAVEFH }
func (a *SavefhArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *SavefhArgs) Decode(r io.Reader) error       { return nil }
func (a *SavefhArgs) String() string                 { return "SavefhArgs{}" }

// SavefhRes represents SAVEFH4res.
type SavefhRes struct {
	Status uint32
}

func (res *SavefhRes) OpCode() uint32                 { return OP_SAVEFH }
func (res *SavefhRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *SavefhRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "savefh", &res.Status) }
func (res *SavefhRes) String() string                 { return statusOnlyString("SavefhRes", res.Status) }

// RestorefhArgs has no fields.
type RestorefhArgs struct{}

func (a *RestorefhArgs) OpCode() uint32                 { return OP_RESTOREFH }
func (a *RestorefhArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *RestorefhArgs) Decode(r io.Reader) error       { return nil }
func (a *RestorefhArgs) String() string                 { return "RestorefhArgs{}" }

// RestorefhRes represents RESTOREFH4res.
type RestorefhRes struct {
	Status uint32
}

func (res *RestorefhRes) OpCode() uint32                 { return OP_RESTOREFH }
func (res *RestorefhRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *RestorefhRes) Decode(r io.Reader) error {
	return decodeStatusInto(r, "restorefh", &res.Status)
}
func (res *RestorefhRes) String() string { return statusOnlyString("RestorefhRes", res.Status) }

// ============================================================================
// LOOKUP / LOOKUPP
// ============================================================================

// LookupArgs looks up Objname in the current directory.
type LookupArgs struct {
	Objname string
}

func (a *LookupArgs) OpCode() uint32 { return OP_LOOKUP }

// Encode writes the LOOKUP args in XDR format.
func (a *LookupArgs) Encode(buf *bytes.Buffer) error {
	return xdr.WriteXDRString(buf, a.Objname)
}

// Decode reads the LOOKUP args from XDR format.
func (a *LookupArgs) Decode(r io.Reader) error {
	name, err := xdr.DecodeString(r)
	if err != nil {
		return fmt.Errorf("decode lookup objname: %w", err)
	}
	a.Objname = name
	return nil
}

func (a *LookupArgs) String() string { return fmt.Sprintf("LookupArgs{name=%q}", a.Objname) }

// LookupRes represents LOOKUP4res.
type LookupRes struct {
	Status uint32
}

func (res *LookupRes) OpCode() uint32                 { return OP_LOOKUP }
func (res *LookupRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *LookupRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "lookup", &res.Status) }
func (res *LookupRes) String() string                 { return statusOnlyString("LookupRes", res.Status) }

// LookuppArgs has no fields.
type LookuppArgs struct{}

func (a *LookuppArgs) OpCode() uint32                 { return OP_LOOKUPP }
func (a *LookuppArgs) Encode(buf *bytes.Buffer) error { return nil }
func (a *LookuppArgs) Decode(r io.Reader) error       { return nil }
func (a *LookuppArgs) String() string                 { return "LookuppArgs{}" }

// LookuppRes represents LOOKUPP4res.
type LookuppRes struct {
	Status uint32
}

func (res *LookuppRes) OpCode() uint32                 { return OP_LOOKUPP }
func (res *LookuppRes) Encode(buf *bytes.Buffer) error { return xdr.WriteUint32(buf, res.Status) }
func (res *LookuppRes) Decode(r io.Reader) error       { return decodeStatusInto(r, "lookupp", &res.Status) }
func (res *LookuppRes) String() string                 { return statusOnlyString("LookuppRes", res.Status) }

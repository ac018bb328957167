package attrs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// maxACLEntries bounds a decoded ACL.
const maxACLEntries = 1024

// AttrNotSuppError reports an attribute bit this package has no value codec
// for. Because attr_vals is a plain concatenation, decoding cannot continue
// past such a bit.
type AttrNotSuppError struct {
	Bit uint32
}

func (e *AttrNotSuppError) Error() string {
	return fmt.Sprintf("attribute %s not supported", AttrName(e.Bit))
}

// NFS4Status returns the NFS4 error code for this error.
func (e *AttrNotSuppError) NFS4Status() uint32 {
	return types.NFS4ERR_ATTRNOTSUPP
}

// InvalidModeError reports a mode value with bits above 07777.
type InvalidModeError struct {
	Mode uint32
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode 0%o (must be <= 07777)", e.Mode)
}

// NFS4Status returns the NFS4 error code for this error.
func (e *InvalidModeError) NFS4Status() uint32 {
	return types.NFS4ERR_INVAL
}

// ============================================================================
// fattr4 Encode
// ============================================================================

// EncodeFattr packs the attributes selected by a.Mask into a fattr4.
// Values are written in ascending bit order as RFC 7530 Section 5 requires.
func EncodeFattr(a *Attributes) (types.Fattr4, error) {
	var buf bytes.Buffer
	var mask types.Bitmap4

	for _, bit := range Bits(a.Mask) {
		if err := encodeSingleAttr(&buf, bit, a); err != nil {
			return types.Fattr4{}, fmt.Errorf("encode %s: %w", AttrName(bit), err)
		}
		SetBit(&mask, bit)
	}

	return types.Fattr4{Attrmask: mask, AttrVals: buf.Bytes()}, nil
}

func encodeSingleAttr(buf *bytes.Buffer, bit uint32, a *Attributes) error {
	switch bit {
	case FATTR4_SUPPORTED_ATTRS:
		return types.EncodeBitmap4(buf, a.SupportedAttrs)
	case FATTR4_TYPE:
		return xdr.WriteUint32(buf, a.Type)
	case FATTR4_FH_EXPIRE_TYPE:
		return xdr.WriteUint32(buf, a.FhExpireType)
	case FATTR4_CHANGE:
		return xdr.WriteUint64(buf, a.Change)
	case FATTR4_SIZE:
		return xdr.WriteUint64(buf, a.Size)
	case FATTR4_LINK_SUPPORT:
		return xdr.WriteBool(buf, a.LinkSupport)
	case FATTR4_SYMLINK_SUPPORT:
		return xdr.WriteBool(buf, a.SymlinkSupport)
	case FATTR4_NAMED_ATTR:
		return xdr.WriteBool(buf, a.NamedAttr)
	case FATTR4_FSID:
		if err := xdr.WriteUint64(buf, a.Fsid.Major); err != nil {
			return err
		}
		return xdr.WriteUint64(buf, a.Fsid.Minor)
	case FATTR4_UNIQUE_HANDLES:
		return xdr.WriteBool(buf, a.UniqueHandles)
	case FATTR4_LEASE_TIME:
		return xdr.WriteUint32(buf, a.LeaseTime)
	case FATTR4_RDATTR_ERROR:
		return xdr.WriteUint32(buf, a.RdattrError)
	case FATTR4_ACL:
		return xdr.WriteVarArray(buf, a.ACL, func(b *bytes.Buffer, ace types.Nfsace4) error {
			return types.EncodeNfsace4(b, &ace)
		})
	case FATTR4_ACLSUPPORT:
		return xdr.WriteUint32(buf, a.ACLSupport)
	case FATTR4_FILEHANDLE:
		return types.EncodeNfsFh4(buf, a.Filehandle)
	case FATTR4_FILEID:
		return xdr.WriteUint64(buf, a.FileID)
	case FATTR4_MODE:
		if a.Mode > 0o7777 {
			return &InvalidModeError{Mode: a.Mode}
		}
		return xdr.WriteUint32(buf, a.Mode)
	case FATTR4_NUMLINKS:
		return xdr.WriteUint32(buf, a.NumLinks)
	case FATTR4_OWNER:
		return xdr.WriteXDRString(buf, a.Owner)
	case FATTR4_OWNER_GROUP:
		return xdr.WriteXDRString(buf, a.OwnerGroup)
	case FATTR4_SPACE_USED:
		return xdr.WriteUint64(buf, a.SpaceUsed)
	case FATTR4_TIME_ACCESS:
		return encodeNFSTime4(buf, a.TimeAccess)
	case FATTR4_TIME_ACCESS_SET:
		return encodeSetTime4(buf, a.TimeAccessSet)
	case FATTR4_TIME_METADATA:
		return encodeNFSTime4(buf, a.TimeMetadata)
	case FATTR4_TIME_MODIFY:
		return encodeNFSTime4(buf, a.TimeModify)
	case FATTR4_TIME_MODIFY_SET:
		return encodeSetTime4(buf, a.TimeModifySet)
	case FATTR4_MOUNTED_ON_FILEID:
		return xdr.WriteUint64(buf, a.MountedOnFileID)
	default:
		return &AttrNotSuppError{Bit: bit}
	}
}

func encodeNFSTime4(buf *bytes.Buffer, t NFSTime4) error {
	if err := xdr.WriteInt64(buf, t.Seconds); err != nil {
		return err
	}
	return xdr.WriteUint32(buf, t.Nseconds)
}

func encodeSetTime4(buf *bytes.Buffer, st SetTime4) error {
	if st.ServerTime {
		return xdr.WriteUint32(buf, SET_TO_SERVER_TIME4)
	}
	if err := xdr.WriteUint32(buf, SET_TO_CLIENT_TIME4); err != nil {
		return err
	}
	return encodeNFSTime4(buf, st.Time)
}

// ============================================================================
// fattr4 Decode
// ============================================================================

// DecodeFattr unpacks a fattr4 into Attributes. Every bit in the mask must
// have a value codec and attr_vals must be consumed exactly.
func DecodeFattr(f *types.Fattr4) (*Attributes, error) {
	reader := bytes.NewReader(f.AttrVals)
	a := &Attributes{}

	for _, bit := range Bits(f.Attrmask) {
		if err := decodeSingleAttr(reader, bit, a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", AttrName(bit), err)
		}
		SetBit(&a.Mask, bit)
	}

	if reader.Len() != 0 {
		return nil, fmt.Errorf("decode fattr4: %d trailing bytes in attr_vals", reader.Len())
	}
	return a, nil
}

func decodeSingleAttr(reader io.Reader, bit uint32, a *Attributes) error {
	var err error
	switch bit {
	case FATTR4_SUPPORTED_ATTRS:
		a.SupportedAttrs, err = types.DecodeBitmap4(reader)
	case FATTR4_TYPE:
		a.Type, err = xdr.DecodeUint32(reader)
	case FATTR4_FH_EXPIRE_TYPE:
		a.FhExpireType, err = xdr.DecodeUint32(reader)
	case FATTR4_CHANGE:
		a.Change, err = xdr.DecodeUint64(reader)
	case FATTR4_SIZE:
		a.Size, err = xdr.DecodeUint64(reader)
	case FATTR4_LINK_SUPPORT:
		a.LinkSupport, err = xdr.DecodeBool(reader)
	case FATTR4_SYMLINK_SUPPORT:
		a.SymlinkSupport, err = xdr.DecodeBool(reader)
	case FATTR4_NAMED_ATTR:
		a.NamedAttr, err = xdr.DecodeBool(reader)
	case FATTR4_FSID:
		if a.Fsid.Major, err = xdr.DecodeUint64(reader); err != nil {
			return err
		}
		a.Fsid.Minor, err = xdr.DecodeUint64(reader)
	case FATTR4_UNIQUE_HANDLES:
		a.UniqueHandles, err = xdr.DecodeBool(reader)
	case FATTR4_LEASE_TIME:
		a.LeaseTime, err = xdr.DecodeUint32(reader)
	case FATTR4_RDATTR_ERROR:
		a.RdattrError, err = xdr.DecodeUint32(reader)
	case FATTR4_ACL:
		a.ACL, err = xdr.DecodeVarArray(reader, maxACLEntries, func(r io.Reader) (types.Nfsace4, error) {
			ace, err := types.DecodeNfsace4(r)
			if err != nil {
				return types.Nfsace4{}, err
			}
			return *ace, nil
		})
	case FATTR4_ACLSUPPORT:
		a.ACLSupport, err = xdr.DecodeUint32(reader)
	case FATTR4_FILEHANDLE:
		a.Filehandle, err = types.DecodeNfsFh4(reader)
	case FATTR4_FILEID:
		a.FileID, err = xdr.DecodeUint64(reader)
	case FATTR4_MODE:
		a.Mode, err = xdr.DecodeUint32(reader)
	case FATTR4_NUMLINKS:
		a.NumLinks, err = xdr.DecodeUint32(reader)
	case FATTR4_OWNER:
		a.Owner, err = xdr.DecodeString(reader)
	case FATTR4_OWNER_GROUP:
		a.OwnerGroup, err = xdr.DecodeString(reader)
	case FATTR4_SPACE_USED:
		a.SpaceUsed, err = xdr.DecodeUint64(reader)
	case FATTR4_TIME_ACCESS:
		a.TimeAccess, err = decodeNFSTime4(reader)
	case FATTR4_TIME_ACCESS_SET:
		a.TimeAccessSet, err = decodeSetTime4(reader)
	case FATTR4_TIME_METADATA:
		a.TimeMetadata, err = decodeNFSTime4(reader)
	case FATTR4_TIME_MODIFY:
		a.TimeModify, err = decodeNFSTime4(reader)
	case FATTR4_TIME_MODIFY_SET:
		a.TimeModifySet, err = decodeSetTime4(reader)
	case FATTR4_MOUNTED_ON_FILEID:
		a.MountedOnFileID, err = xdr.DecodeUint64(reader)
	default:
		return &AttrNotSuppError{Bit: bit}
	}
	return err
}

// decodeNFSTime4 reads an nfstime4 structure (int64 seconds + uint32 nseconds).
func decodeNFSTime4(reader io.Reader) (NFSTime4, error) {
	seconds, err := xdr.DecodeInt64(reader)
	if err != nil {
		return NFSTime4{}, fmt.Errorf("decode nfstime4 seconds: %w", err)
	}
	nseconds, err := xdr.DecodeUint32(reader)
	if err != nil {
		return NFSTime4{}, fmt.Errorf("decode nfstime4 nseconds: %w", err)
	}
	return NFSTime4{Seconds: seconds, Nseconds: nseconds}, nil
}

func decodeSetTime4(reader io.Reader) (SetTime4, error) {
	how, err := xdr.DecodeUint32(reader)
	if err != nil {
		return SetTime4{}, fmt.Errorf("decode time_how4: %w", err)
	}
	switch how {
	case SET_TO_SERVER_TIME4:
		return SetTime4{ServerTime: true}, nil
	case SET_TO_CLIENT_TIME4:
		t, err := decodeNFSTime4(reader)
		if err != nil {
			return SetTime4{}, err
		}
		return SetTime4{Time: t}, nil
	default:
		return SetTime4{}, &types.DecodeError{Field: "settime4.set_it", Value: how}
	}
}

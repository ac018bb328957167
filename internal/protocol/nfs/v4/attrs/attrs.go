// Package attrs encodes and decodes NFSv4.0 file attribute values.
//
// A fattr4 on the wire is a bitmap4 plus an opaque blob holding the value of
// every set attribute, concatenated in ascending bit order (RFC 7530
// Section 5). The types package carries fattr4 opaquely; this package gives
// the common attributes a typed form.
package attrs

import (
	"fmt"
	"os"
	"time"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

// ============================================================================
// FATTR4 Attribute Bit Numbers
// ============================================================================
//
// Per RFC 7530 Section 5, attributes are identified by bit numbers within
// the bitmap4 mask.

// Mandatory attributes (RFC 7530 Section 5.6)
const (
	FATTR4_SUPPORTED_ATTRS = 0  // bitmap4: attributes supported by server
	FATTR4_TYPE            = 1  // nfs_ftype4: file type (REG, DIR, etc.)
	FATTR4_FH_EXPIRE_TYPE  = 2  // uint32: file handle volatility
	FATTR4_CHANGE          = 3  // changeid4 (uint64): change attribute
	FATTR4_SIZE            = 4  // uint64: file size in bytes
	FATTR4_LINK_SUPPORT    = 5  // bool: hard links supported
	FATTR4_SYMLINK_SUPPORT = 6  // bool: symbolic links supported
	FATTR4_NAMED_ATTR      = 7  // bool: named attributes supported
	FATTR4_FSID            = 8  // fsid4: filesystem identifier
	FATTR4_UNIQUE_HANDLES  = 9  // bool: handles are unique
	FATTR4_LEASE_TIME      = 10 // uint32: lease duration in seconds
	FATTR4_RDATTR_ERROR    = 11 // nfsstat4: per-entry READDIR error
	FATTR4_FILEHANDLE      = 19 // nfs_fh4: the file handle itself
)

// Recommended attributes (RFC 7530 Section 5.7)
const (
	FATTR4_ACL               = 12 // nfsace4<>: Access Control List
	FATTR4_ACLSUPPORT        = 13 // uint32: ACL support flags
	FATTR4_FILEID            = 20 // uint64: unique file identifier
	FATTR4_MODE              = 33 // uint32: POSIX mode bits
	FATTR4_NUMLINKS          = 35 // uint32: number of hard links
	FATTR4_OWNER             = 36 // utf8str_mixed: owner name
	FATTR4_OWNER_GROUP       = 37 // utf8str_mixed: group owner name
	FATTR4_SPACE_USED        = 45 // uint64: disk space used
	FATTR4_TIME_ACCESS       = 47 // nfstime4: last access time
	FATTR4_TIME_ACCESS_SET   = 48 // settime4: set atime (write-only)
	FATTR4_TIME_METADATA     = 52 // nfstime4: last metadata change
	FATTR4_TIME_MODIFY       = 53 // nfstime4: last modify time
	FATTR4_TIME_MODIFY_SET   = 54 // settime4: set mtime (write-only)
	FATTR4_MOUNTED_ON_FILEID = 55 // uint64: fileid of mounted-on dir
)

// time_how4 constants for SETATTR timestamp setting (RFC 7530 Section 5.7)
const (
	SET_TO_SERVER_TIME4 = 0
	SET_TO_CLIENT_TIME4 = 1
)

var attrNames = map[uint32]string{
	FATTR4_SUPPORTED_ATTRS:   "supported_attrs",
	FATTR4_TYPE:              "type",
	FATTR4_FH_EXPIRE_TYPE:    "fh_expire_type",
	FATTR4_CHANGE:            "change",
	FATTR4_SIZE:              "size",
	FATTR4_LINK_SUPPORT:      "link_support",
	FATTR4_SYMLINK_SUPPORT:   "symlink_support",
	FATTR4_NAMED_ATTR:        "named_attr",
	FATTR4_FSID:              "fsid",
	FATTR4_UNIQUE_HANDLES:    "unique_handles",
	FATTR4_LEASE_TIME:        "lease_time",
	FATTR4_RDATTR_ERROR:      "rdattr_error",
	FATTR4_ACL:               "acl",
	FATTR4_ACLSUPPORT:        "aclsupport",
	FATTR4_FILEHANDLE:        "filehandle",
	FATTR4_FILEID:            "fileid",
	FATTR4_MODE:              "mode",
	FATTR4_NUMLINKS:          "numlinks",
	FATTR4_OWNER:             "owner",
	FATTR4_OWNER_GROUP:       "owner_group",
	FATTR4_SPACE_USED:        "space_used",
	FATTR4_TIME_ACCESS:       "time_access",
	FATTR4_TIME_ACCESS_SET:   "time_access_set",
	FATTR4_TIME_METADATA:     "time_metadata",
	FATTR4_TIME_MODIFY:       "time_modify",
	FATTR4_TIME_MODIFY_SET:   "time_modify_set",
	FATTR4_MOUNTED_ON_FILEID: "mounted_on_fileid",
}

// AttrName returns the RFC name of an attribute bit, or "attr(N)".
func AttrName(bit uint32) string {
	if name, ok := attrNames[bit]; ok {
		return name
	}
	return fmt.Sprintf("attr(%d)", bit)
}

// ============================================================================
// Attribute Value Types
// ============================================================================

// NFSTime4 is an nfstime4: signed seconds since the epoch plus nanoseconds.
type NFSTime4 struct {
	Seconds  int64
	Nseconds uint32
}

// NFSTimeFrom converts a time.Time to nfstime4.
func NFSTimeFrom(t time.Time) NFSTime4 {
	return NFSTime4{Seconds: t.Unix(), Nseconds: uint32(t.Nanosecond())}
}

// Time converts the nfstime4 to a time.Time in UTC.
func (t NFSTime4) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nseconds)).UTC()
}

func (t NFSTime4) String() string {
	return t.Time().Format(time.RFC3339Nano)
}

// Fsid4 identifies the filesystem an object belongs to.
type Fsid4 struct {
	Major uint64
	Minor uint64
}

func (f Fsid4) String() string {
	return fmt.Sprintf("%d.%d", f.Major, f.Minor)
}

// SetTime4 is a settime4 used with the *_SET attributes. When ServerTime
// is true the server picks the time and Time is ignored.
type SetTime4 struct {
	ServerTime bool
	Time       NFSTime4
}

// Attributes is the typed form of a fattr4. Mask records which fields are
// meaningful; the value of an attribute whose bit is unset is ignored on
// encode and left zero on decode.
type Attributes struct {
	Mask types.Bitmap4

	SupportedAttrs  types.Bitmap4
	Type            uint32
	FhExpireType    uint32
	Change          uint64
	Size            uint64
	LinkSupport     bool
	SymlinkSupport  bool
	NamedAttr       bool
	Fsid            Fsid4
	UniqueHandles   bool
	LeaseTime       uint32
	RdattrError     uint32
	ACL             []types.Nfsace4
	ACLSupport      uint32
	Filehandle      types.NfsFh4
	FileID          uint64
	Mode            uint32
	NumLinks        uint32
	Owner           string
	OwnerGroup      string
	SpaceUsed       uint64
	TimeAccess      NFSTime4
	TimeAccessSet   SetTime4
	TimeMetadata    NFSTime4
	TimeModify      NFSTime4
	TimeModifySet   SetTime4
	MountedOnFileID uint64
}

// Has reports whether the attribute bit is present.
func (a *Attributes) Has(bit uint32) bool {
	return IsBitSet(a.Mask, bit)
}

// IsDir reports whether the object is a directory.
func (a *Attributes) IsDir() bool {
	return a.Has(FATTR4_TYPE) && a.Type == types.NF4DIR
}

// FileMode combines the type and mode attributes into an os.FileMode.
func (a *Attributes) FileMode() os.FileMode {
	mode := os.FileMode(a.Mode & 0o777)
	if a.Mode&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if a.Mode&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if a.Mode&0o1000 != 0 {
		mode |= os.ModeSticky
	}

	if !a.Has(FATTR4_TYPE) {
		return mode
	}
	switch a.Type {
	case types.NF4DIR, types.NF4ATTRDIR:
		mode |= os.ModeDir
	case types.NF4LNK:
		mode |= os.ModeSymlink
	case types.NF4BLK:
		mode |= os.ModeDevice
	case types.NF4CHR:
		mode |= os.ModeDevice | os.ModeCharDevice
	case types.NF4SOCK:
		mode |= os.ModeSocket
	case types.NF4FIFO:
		mode |= os.ModeNamedPipe
	}
	return mode
}

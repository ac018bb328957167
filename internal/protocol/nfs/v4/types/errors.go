package types

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DecodeError reports a discriminant on the wire that selects no known arm
// of a union (an unknown claim type, create mode, delegation type, security
// flavor, ...). It aborts the decode of the whole compound.
type DecodeError struct {
	// Field names the discriminant, e.g. "open_claim4.claim".
	Field string

	// Value is the offending discriminant value.
	Value uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: unknown discriminant %d", e.Field, e.Value)
}

func newDecodeError(field string, value uint32) *DecodeError {
	return &DecodeError{Field: field, Value: value}
}

// ValidateUTF8Filename validates an NFSv4 filename component per RFC 7530 Section 12.7.
//
// NFSv4 requires UTF-8 encoded filenames. This function validates a single
// path component (not a full path) and returns the NFS4 status a server
// would answer with.
//
// Returns:
//   - NFS4_OK if the filename is valid
//   - NFS4ERR_INVAL if the filename is empty
//   - NFS4ERR_BADCHAR if the filename contains invalid UTF-8 or null bytes
//   - NFS4ERR_BADNAME if the filename contains path separators ('/')
//   - NFS4ERR_NAMETOOLONG if the filename exceeds 255 bytes
func ValidateUTF8Filename(name string) uint32 {
	if len(name) == 0 {
		return NFS4ERR_INVAL
	}

	if !utf8.ValidString(name) {
		return NFS4ERR_BADCHAR
	}

	// Null is valid UTF-8 but never valid in a component
	if strings.ContainsRune(name, 0) {
		return NFS4ERR_BADCHAR
	}

	if strings.ContainsRune(name, '/') {
		return NFS4ERR_BADNAME
	}

	if len(name) > 255 {
		return NFS4ERR_NAMETOOLONG
	}

	return NFS4_OK
}

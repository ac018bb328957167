package rpc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

const (
	// maxMachineName is the authsys_parms machinename<255> bound.
	maxMachineName = 255

	// maxGIDs is the authsys_parms gids<16> bound.
	maxGIDs = 16
)

// UnixAuth is the body of an AUTH_SYS credential.
//
// Reference: RFC 5531 Appendix A (authsys_parms)
type UnixAuth struct {
	Stamp       uint32
	MachineName string
	UID         uint32
	GID         uint32
	GIDs        []uint32
}

// Encode returns the XDR form of the credential body.
func (a *UnixAuth) Encode() ([]byte, error) {
	if len(a.MachineName) > maxMachineName {
		return nil, fmt.Errorf("machine name too long: %d bytes", len(a.MachineName))
	}
	if len(a.GIDs) > maxGIDs {
		return nil, fmt.Errorf("too many gids: %d (max %d)", len(a.GIDs), maxGIDs)
	}

	var buf bytes.Buffer
	if err := xdr.WriteUint32(&buf, a.Stamp); err != nil {
		return nil, err
	}
	if err := xdr.WriteXDRString(&buf, a.MachineName); err != nil {
		return nil, err
	}
	if err := xdr.WriteUint32(&buf, a.UID); err != nil {
		return nil, err
	}
	if err := xdr.WriteUint32(&buf, a.GID); err != nil {
		return nil, err
	}
	if err := xdr.WriteVarArray(&buf, a.GIDs, xdr.WriteUint32); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Credential wraps the encoded body in an AUTH_SYS opaque_auth.
func (a *UnixAuth) Credential() (OpaqueAuth, error) {
	body, err := a.Encode()
	if err != nil {
		return OpaqueAuth{}, err
	}
	return OpaqueAuth{Flavor: AuthSys, Body: body}, nil
}

// String returns a compact representation for logs.
func (a *UnixAuth) String() string {
	return fmt.Sprintf("UnixAuth{machine=%s uid=%d gid=%d gids=%v}", a.MachineName, a.UID, a.GID, a.GIDs)
}

// ParseUnixAuth decodes an AUTH_SYS credential body.
func ParseUnixAuth(body []byte) (*UnixAuth, error) {
	if len(body) == 0 {
		return nil, errors.New("empty AUTH_SYS body")
	}

	r := bytes.NewReader(body)
	auth := &UnixAuth{}

	var err error
	if auth.Stamp, err = xdr.DecodeUint32(r); err != nil {
		return nil, fmt.Errorf("decode stamp: %w", err)
	}

	nameLen, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("decode machine name length: %w", err)
	}
	if nameLen > maxMachineName {
		return nil, fmt.Errorf("machine name too long: %d bytes", nameLen)
	}
	name, err := xdr.DecodeFixedOpaque(r, nameLen)
	if err != nil {
		return nil, fmt.Errorf("decode machine name: %w", err)
	}
	auth.MachineName = string(name)

	if auth.UID, err = xdr.DecodeUint32(r); err != nil {
		return nil, fmt.Errorf("decode uid: %w", err)
	}
	if auth.GID, err = xdr.DecodeUint32(r); err != nil {
		return nil, fmt.Errorf("decode gid: %w", err)
	}

	count, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("decode gids count: %w", err)
	}
	if count > maxGIDs {
		return nil, fmt.Errorf("too many gids: %d (max %d)", count, maxGIDs)
	}
	if auth.GIDs, err = xdr.DecodeArray(r, count, xdr.DecodeUint32); err != nil {
		return nil, fmt.Errorf("decode gids: %w", err)
	}

	return auth, nil
}

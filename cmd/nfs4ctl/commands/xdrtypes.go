package commands

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/internal/protocol/xdr/schema"
)

// opaqueLimit is NFS4_OPAQUE_LIMIT, the bound on client and owner ids.
const opaqueLimit = 1024

// namedTypes are the protocol structures `decode --type` understands.
var namedTypes = func() map[string]*schema.Schema {
	stateid := schema.Struct(
		schema.F("seqid", schema.UnsignedInt()),
		schema.F("other", schema.Opaque(types.NFS4_OTHER_SIZE)),
	)
	nfstime := schema.Struct(
		schema.F("seconds", schema.Hyper()),
		schema.F("nseconds", schema.UnsignedInt()),
	)
	clientAddr := schema.Struct(
		schema.F("r_netid", schema.String()),
		schema.F("r_addr", schema.String()),
	)
	opaqueAuth := schema.Struct(
		schema.F("flavor", schema.Enum(
			schema.EnumValue{Name: "AUTH_NONE", Value: 0},
			schema.EnumValue{Name: "AUTH_SYS", Value: 1},
			schema.EnumValue{Name: "AUTH_SHORT", Value: 2},
			schema.EnumValue{Name: "AUTH_DH", Value: 3},
			schema.EnumValue{Name: "RPCSEC_GSS", Value: 6},
		)),
		schema.F("body", schema.VarOpaqueMax(400)),
	)

	return map[string]*schema.Schema{
		"stateid4":  stateid,
		"nfs_fh4":   schema.VarOpaqueMax(types.NFS4_FHSIZE),
		"verifier4": schema.Opaque(types.NFS4_VERIFIER_SIZE),
		"bitmap4":   schema.VarArray(schema.UnsignedInt()),
		"nfstime4":  nfstime,
		"fsid4": schema.Struct(
			schema.F("major", schema.UnsignedHyper()),
			schema.F("minor", schema.UnsignedHyper()),
		),
		"change_info4": schema.Struct(
			schema.F("atomic", schema.Bool()),
			schema.F("before", schema.UnsignedHyper()),
			schema.F("after", schema.UnsignedHyper()),
		),
		"nfs_client_id4": schema.Struct(
			schema.F("verifier", schema.Opaque(types.NFS4_VERIFIER_SIZE)),
			schema.F("id", schema.VarOpaqueMax(opaqueLimit)),
		),
		"clientaddr4": clientAddr,
		"cb_client4": schema.Struct(
			schema.F("cb_program", schema.UnsignedInt()),
			schema.F("cb_location", clientAddr),
		),
		"open_owner4": schema.Struct(
			schema.F("clientid", schema.UnsignedHyper()),
			schema.F("owner", schema.VarOpaqueMax(opaqueLimit)),
		),
		"settime4": schema.UnionOf(nil,
			schema.Case(0, schema.Void()),
			schema.Case(1, nfstime),
		),
		"opaque_auth": opaqueAuth,
		"authsys_parms": schema.Struct(
			schema.F("stamp", schema.UnsignedInt()),
			schema.F("machinename", schema.StringMax(255)),
			schema.F("uid", schema.UnsignedInt()),
			schema.F("gid", schema.UnsignedInt()),
			schema.F("gids", schema.VarArrayMax(schema.UnsignedInt(), 16)),
		),
	}
}()

func namedTypeNames() []string {
	names := make([]string, 0, len(namedTypes))
	for name := range namedTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeNamed decodes data as the named structure. The result has opaque
// fields rendered as hex so it prints readably as JSON or YAML.
func decodeNamed(name string, data []byte) (any, error) {
	s, ok := namedTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q (known: %s)", name, strings.Join(namedTypeNames(), ", "))
	}
	value, err := schema.Unmarshal(data, s)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return printable(value), nil
}

func printable(v any) any {
	switch v := v.(type) {
	case []byte:
		return hex.EncodeToString(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = printable(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = printable(e)
		}
		return out
	case schema.Union:
		return map[string]any{
			"discriminant": v.Discriminant,
			"value":        printable(v.Value),
		}
	default:
		return v
	}
}

package commands

import (
	"fmt"
	"path"
	"strconv"

	"github.com/jcmturner/gokrb5/v8/gssapi"
	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

var secinfoCmd = &cobra.Command{
	Use:   "secinfo <path>",
	Short: "List the security flavors accepted for a name",
	Long: `Ask the server which RPC security flavors it accepts for the last
component of a path, in its order of preference.

Examples:
  nfs4ctl secinfo /export/home`,
	Args: cobra.ExactArgs(1),
	RunE: runSecinfo,
}

type flavorView struct {
	Name      string `json:"name" yaml:"name"`
	Flavor    uint32 `json:"flavor" yaml:"flavor"`
	Mechanism string `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`
	QOP       uint32 `json:"qop,omitempty" yaml:"qop,omitempty"`
	Service   string `json:"service,omitempty" yaml:"service,omitempty"`
}

type flavorList []flavorView

func (l flavorList) Headers() []string {
	return []string{"NAME", "FLAVOR", "MECHANISM", "SERVICE", "QOP"}
}

func (l flavorList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, f := range l {
		rows[i] = []string{f.Name, strconv.FormatUint(uint64(f.Flavor), 10), f.Mechanism, f.Service, strconv.FormatUint(uint64(f.QOP), 10)}
	}
	return rows
}

func runSecinfo(cmd *cobra.Command, args []string) error {
	target := path.Clean("/" + args[0])
	if target == "/" {
		return fmt.Errorf("secinfo needs a name below the root")
	}
	dir, name := path.Split(target)

	ctx := cmd.Context()
	s, err := cmdutil.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	b := compound.NewBuilder(s.Config.Client.Tag).Walk(dir).Add(&types.SecinfoArgs{Name: name})
	res, err := runCompound(ctx, s.Client, b)
	if err != nil {
		return fmt.Errorf("secinfo %s: %w", target, err)
	}
	si, err := resultOf[*types.SecinfoRes](res, types.OP_SECINFO)
	if err != nil {
		return err
	}

	flavors := make(flavorList, 0, len(si.Resok.Flavors))
	for i := range si.Resok.Flavors {
		flavors = append(flavors, newFlavorView(&si.Resok.Flavors[i]))
	}
	return cmdutil.PrintOutput(cmd.OutOrStdout(), flavors, len(flavors) == 0, "(no flavors)", flavors)
}

func newFlavorView(s *types.Secinfo4) flavorView {
	v := flavorView{Name: s.String(), Flavor: s.Flavor}
	if info := s.FlavorInfo; info != nil {
		v.Mechanism = mechanismName(info)
		v.QOP = info.QOP
		v.Service = gssServiceName(info.Service)
	}
	return v
}

func mechanismName(info *types.RPCSecGSSInfo) string {
	oid, err := info.Mechanism()
	if err != nil {
		return "invalid"
	}
	switch {
	case oid.Equal(gssapi.OIDKRB5.OID()):
		return "krb5"
	case oid.Equal(gssapi.OIDMSLegacyKRB5.OID()):
		return "krb5 (ms legacy)"
	case oid.Equal(gssapi.OIDSPNEGO.OID()):
		return "spnego"
	default:
		return oid.String()
	}
}

func gssServiceName(svc uint32) string {
	switch svc {
	case types.RPC_GSS_SVC_NONE:
		return "none"
	case types.RPC_GSS_SVC_INTEGRITY:
		return "integrity"
	case types.RPC_GSS_SVC_PRIVACY:
		return "privacy"
	default:
		return strconv.FormatUint(uint64(svc), 10)
	}
}

package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/pkg/client"
)

// defaultCallbackProgram is the transient program number range start
// (0x40000000) commonly used for the NFSv4.0 callback service.
const defaultCallbackProgram = 0x40000000

var (
	clientidOwner     string
	clientidCallback  string
	clientidCBProgram uint32
	clientidNoConfirm bool
)

var clientidCmd = &cobra.Command{
	Use:   "clientid",
	Short: "Establish a client id with SETCLIENTID and SETCLIENTID_CONFIRM",
	Long: `Register this machine as an NFSv4.0 client and confirm the client id.

The owner string identifies the client across reboots; by default a new
random owner is generated on every run. The boot verifier is always fresh.
The callback address is only advertised, nothing listens on it.

Examples:
  nfs4ctl clientid
  nfs4ctl clientid --owner my-host --callback 10.0.0.5:40000`,
	Args: cobra.NoArgs,
	RunE: runClientid,
}

func init() {
	clientidCmd.Flags().StringVar(&clientidOwner, "owner", "", "Client owner id (default: nfs4ctl/<hostname>/<uuid>)")
	clientidCmd.Flags().StringVar(&clientidCallback, "callback", "127.0.0.1:0", "Callback address advertised to the server (host:port)")
	clientidCmd.Flags().Uint32Var(&clientidCBProgram, "cb-program", defaultCallbackProgram, "Callback RPC program number")
	clientidCmd.Flags().BoolVar(&clientidNoConfirm, "no-confirm", false, "Skip SETCLIENTID_CONFIRM")
}

type clientidView struct {
	Owner     string `json:"owner" yaml:"owner"`
	Verifier  string `json:"verifier" yaml:"verifier"`
	ClientID  string `json:"clientid" yaml:"clientid"`
	Confirm   string `json:"confirm_verifier" yaml:"confirm_verifier"`
	Callback  string `json:"callback" yaml:"callback"`
	Confirmed bool   `json:"confirmed" yaml:"confirmed"`
}

func runClientid(cmd *cobra.Command, args []string) error {
	netid, uaddr, err := client.FormatUniversalAddr(clientidCallback)
	if err != nil {
		return fmt.Errorf("--callback: %w", err)
	}

	owner := clientidOwner
	if owner == "" {
		owner = defaultOwner()
	}
	bootID := uuid.New()
	var verifier types.Verifier4
	copy(verifier[:], bootID[:types.NFS4_VERIFIER_SIZE])

	ctx := cmd.Context()
	s, err := cmdutil.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	setArgs := &types.SetclientidArgs{
		Client: types.NfsClientID4{Verifier: verifier, ID: []byte(owner)},
		Callback: types.CbClient4{
			Program:  clientidCBProgram,
			Location: types.ClientAddr4{Netid: netid, Addr: uaddr},
		},
		CallbackIdent: 1,
	}
	res, err := runCompound(ctx, s.Client, compound.NewBuilder(s.Config.Client.Tag).Add(setArgs))
	if err != nil {
		return explainSetclientid(res, err)
	}
	sc, err := resultOf[*types.SetclientidRes](res, types.OP_SETCLIENTID)
	if err != nil {
		return err
	}

	view := &clientidView{
		Owner:    owner,
		Verifier: hex.EncodeToString(verifier[:]),
		ClientID: fmt.Sprintf("%016x", sc.Resok.ClientID),
		Confirm:  hex.EncodeToString(sc.Resok.SetclientidConfirm[:]),
		Callback: netid + " " + uaddr,
	}
	logger.Info("Client id assigned", "clientid", view.ClientID, "owner", owner)

	if !clientidNoConfirm {
		confirm := &types.SetclientidConfirmArgs{
			ClientID:           sc.Resok.ClientID,
			SetclientidConfirm: sc.Resok.SetclientidConfirm,
		}
		if _, err := runCompound(ctx, s.Client, compound.NewBuilder(s.Config.Client.Tag).Add(confirm)); err != nil {
			return fmt.Errorf("SETCLIENTID_CONFIRM: %w", err)
		}
		view.Confirmed = true
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), view)
	case output.FormatYAML:
		return output.PrintYAML(cmd.OutOrStdout(), view)
	default:
		return output.PrintKeyValues(cmd.OutOrStdout(), []output.KeyValue{
			{Key: "Owner", Value: view.Owner},
			{Key: "Verifier", Value: view.Verifier},
			{Key: "Client id", Value: view.ClientID},
			{Key: "Confirm verifier", Value: view.Confirm},
			{Key: "Callback", Value: view.Callback},
			{Key: "Confirmed", Value: fmt.Sprint(view.Confirmed)},
		})
	}
}

func defaultOwner() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("nfs4ctl/%s/%s", host, uuid.NewString())
}

// explainSetclientid adds the address of the conflicting client to an
// NFS4ERR_CLID_INUSE failure.
func explainSetclientid(res *compound.CompoundRes, err error) error {
	var se *client.StatusError
	if res == nil || !errors.As(err, &se) || se.Status != types.NFS4ERR_CLID_INUSE {
		return fmt.Errorf("SETCLIENTID: %w", err)
	}
	sc, ok := res.Find(types.OP_SETCLIENTID).(*types.SetclientidRes)
	if !ok || sc.ClientUsing == nil {
		return fmt.Errorf("SETCLIENTID: %w", err)
	}
	return fmt.Errorf("SETCLIENTID: %w (owner in use by %s %s)", err, sc.ClientUsing.Netid, sc.ClientUsing.Addr)
}

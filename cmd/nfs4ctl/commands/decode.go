package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4wire/internal/protocol/rpc"
)

var (
	decodeResponse bool
	decodeCallback bool
	decodeFile     string
	decodeRecord   bool
	decodeType     string
)

var decodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode a captured COMPOUND or CB_COMPOUND buffer",
	Long: `Decode an XDR compound body and print its operations.

The input is hex (whitespace and an optional 0x prefix are ignored), given as
an argument, read from --file, or read from stdin when neither is set. With
--file the content is used as raw bytes unless it looks like hex.

By default the buffer is treated as COMPOUND4args. --response selects the
reply direction and --callback the CB_COMPOUND messages. --rpc strips a
record mark and RPC header first, so a whole captured TCP record can be
pasted.

--type decodes a single protocol structure instead (stateid4, nfs_fh4,
cb_client4, authsys_parms, ...); table output is rendered as YAML.

Examples:
  nfs4ctl decode 0000000000000000000000010000001800000000
  nfs4ctl decode --response --file reply.bin
  tcpdump ... | nfs4ctl decode --rpc
  nfs4ctl decode --type stateid4 00000001000102030405060708090a0b`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVarP(&decodeResponse, "response", "r", false, "Decode a reply (COMPOUND4res / CB_COMPOUND4res)")
	decodeCmd.Flags().BoolVarP(&decodeCallback, "callback", "c", false, "Decode CB_COMPOUND instead of COMPOUND")
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "", "Read the buffer from a file")
	decodeCmd.Flags().BoolVar(&decodeRecord, "rpc", false, "Input starts with a record mark and RPC header")
	decodeCmd.Flags().StringVarP(&decodeType, "type", "t", "", "Decode a single named structure instead of a compound")
}

// decodedOp is one row of the decode output.
type decodedOp struct {
	Index  int    `json:"index" yaml:"index"`
	Opcode uint32 `json:"opcode" yaml:"opcode"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Detail string `json:"detail" yaml:"detail"`
}

// decodedMessage is the printable form of any of the four envelopes.
type decodedMessage struct {
	Kind          string      `json:"kind" yaml:"kind"`
	XID           string      `json:"xid,omitempty" yaml:"xid,omitempty"`
	Tag           string      `json:"tag" yaml:"tag"`
	MinorVersion  *uint32     `json:"minorversion,omitempty" yaml:"minorversion,omitempty"`
	CallbackIdent *uint32     `json:"callback_ident,omitempty" yaml:"callback_ident,omitempty"`
	Status        string      `json:"status,omitempty" yaml:"status,omitempty"`
	Ops           []decodedOp `json:"ops" yaml:"ops"`
	Trailing      int         `json:"trailing_bytes" yaml:"trailing_bytes"`

	statusOK bool
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readDecodeInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	if decodeType != "" {
		value, err := decodeNamed(decodeType, data)
		if err != nil {
			return err
		}
		format, err := cmdutil.GetOutputFormatParsed()
		if err != nil {
			return err
		}
		if format == output.FormatJSON {
			return output.PrintJSON(cmd.OutOrStdout(), value)
		}
		return output.PrintYAML(cmd.OutOrStdout(), value)
	}

	var xid string
	if decodeRecord {
		var x uint32
		if data, x, err = stripRPC(data, decodeResponse); err != nil {
			return err
		}
		xid = fmt.Sprintf("0x%08x", x)
	}

	msg, err := decodeBuffer(data, decodeResponse, decodeCallback)
	if err != nil {
		return err
	}
	msg.XID = xid

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if printer.Format() != output.FormatTable {
		return printer.Print(msg)
	}
	return printDecoded(printer, msg)
}

// decodeBuffer decodes data in the selected direction and protocol.
func decodeBuffer(data []byte, response, callback bool) (*decodedMessage, error) {
	d := compound.NewDecoder(data)
	msg := &decodedMessage{}

	switch {
	case !callback && !response:
		args, err := d.DecodeCompoundArgs()
		if err != nil {
			return nil, err
		}
		msg.Kind, msg.Tag, msg.MinorVersion = "COMPOUND4args", args.Tag, &args.MinorVersion
		msg.Ops = describeOps(args.Ops, false, types.OpName)
	case !callback && response:
		res, err := d.DecodeCompoundRes()
		if err != nil {
			return nil, err
		}
		msg.Kind, msg.Tag = "COMPOUND4res", res.Tag
		msg.Status, msg.statusOK = types.StatusName(res.Status), res.Status == types.NFS4_OK
		msg.Ops = describeOps(res.Results, true, types.OpName)
	case callback && !response:
		args, err := d.DecodeCbCompoundArgs()
		if err != nil {
			return nil, err
		}
		msg.Kind, msg.Tag = "CB_COMPOUND4args", args.Tag
		msg.MinorVersion, msg.CallbackIdent = &args.MinorVersion, &args.CallbackIdent
		msg.Ops = describeOps(args.Ops, false, types.CbOpName)
	default:
		res, err := d.DecodeCbCompoundRes()
		if err != nil {
			return nil, err
		}
		msg.Kind, msg.Tag = "CB_COMPOUND4res", res.Tag
		msg.Status, msg.statusOK = types.StatusName(res.Status), res.Status == types.NFS4_OK
		msg.Ops = describeOps(res.Results, true, types.CbOpName)
	}

	msg.Trailing = d.Remaining()
	return msg, nil
}

func describeOps(ops []compound.Op, results bool, name func(uint32) string) []decodedOp {
	out := make([]decodedOp, len(ops))
	for i, op := range ops {
		out[i] = decodedOp{
			Index:  i,
			Opcode: op.OpCode(),
			Name:   name(op.OpCode()),
			Detail: op.String(),
		}
		if results {
			if status, ok := compound.ResultStatus(op); ok {
				out[i].Status = types.StatusName(status)
			}
		}
	}
	return out
}

func printDecoded(p *output.Printer, msg *decodedMessage) error {
	header := []output.KeyValue{{Key: "Kind", Value: msg.Kind}}
	if msg.XID != "" {
		header = append(header, output.KeyValue{Key: "XID", Value: msg.XID})
	}
	header = append(header, output.KeyValue{Key: "Tag", Value: strconv.Quote(msg.Tag)})
	if msg.MinorVersion != nil {
		header = append(header, output.KeyValue{Key: "Minor version", Value: strconv.FormatUint(uint64(*msg.MinorVersion), 10)})
	}
	if msg.CallbackIdent != nil {
		header = append(header, output.KeyValue{Key: "Callback ident", Value: strconv.FormatUint(uint64(*msg.CallbackIdent), 10)})
	}
	if msg.Status != "" {
		header = append(header, output.KeyValue{Key: "Status", Value: p.Status(msg.Status, msg.statusOK)})
	}
	header = append(header, output.KeyValue{Key: "Operations", Value: strconv.Itoa(len(msg.Ops))})
	if err := output.PrintKeyValues(p.Writer(), header); err != nil {
		return err
	}
	p.Println()

	table := output.NewTableData("#", "OP", "STATUS", "DETAIL")
	for _, op := range msg.Ops {
		status := op.Status
		if status != "" {
			status = p.Status(status, status == "NFS4_OK")
		}
		table.AddRow(strconv.Itoa(op.Index), op.Name, status, op.Detail)
	}
	if err := output.PrintTable(p.Writer(), table); err != nil {
		return err
	}
	if msg.Trailing > 0 {
		p.Warning(fmt.Sprintf("%d trailing bytes not decoded", msg.Trailing))
	}
	return nil
}

func readDecodeInput(stdin io.Reader, args []string) ([]byte, error) {
	switch {
	case len(args) == 1:
		return parseHex(args[0])
	case decodeFile != "":
		raw, err := os.ReadFile(decodeFile)
		if err != nil {
			return nil, err
		}
		if looksLikeHex(raw) {
			return parseHex(string(raw))
		}
		return raw, nil
	default:
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return parseHex(string(raw))
	}
}

// parseHex accepts hex with arbitrary whitespace, ':' separators and an
// optional 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

func looksLikeHex(raw []byte) bool {
	for _, b := range raw {
		switch {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		case b == ' ', b == '\n', b == '\r', b == '\t', b == ':', b == 'x', b == 'X':
		default:
			return false
		}
	}
	return len(raw) > 0
}

// stripRPC removes the record mark and RPC header, returning the procedure
// arguments of a CALL or the results of an accepted REPLY.
func stripRPC(data []byte, response bool) ([]byte, uint32, error) {
	dec := rpc.NewRecordDecoder()
	dec.Push(data)
	record, ok, err := dec.ReadRecord()
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("input does not hold a complete RPC record")
	}

	msg, err := rpc.DecodeMessage(record)
	if err != nil {
		return nil, 0, err
	}
	if msg.IsReply() != response {
		if response {
			return nil, msg.XID, fmt.Errorf("record is an RPC call, not a reply")
		}
		return nil, msg.XID, fmt.Errorf("record is an RPC reply, not a call")
	}
	if !response {
		return msg.Call.Params, msg.XID, nil
	}
	if msg.Rejected != nil {
		return nil, msg.XID, fmt.Errorf("RPC reply was rejected")
	}
	if msg.Accepted.Stat != rpc.AcceptSuccess {
		return nil, msg.XID, fmt.Errorf("RPC reply not successful: %s", rpc.AcceptStatName(msg.Accepted.Stat))
	}
	return msg.Accepted.Results, msg.XID, nil
}

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  yaml  ", want: FormatYAML},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_Messages(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable, false)

	printer.Success("connected")
	printer.Error("NFS4ERR_NOENT")
	printer.Warning("reply dropped")

	out := buf.String()
	assert.Equal(t, "connected\nNFS4ERR_NOENT\nreply dropped\n", out)
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_StatusColor(t *testing.T) {
	plain := NewPrinter(&bytes.Buffer{}, FormatTable, false)
	assert.Equal(t, "NFS4_OK", plain.Status("NFS4_OK", true))

	colored := NewPrinter(&bytes.Buffer{}, FormatTable, true)
	ok := colored.Status("NFS4_OK", true)
	bad := colored.Status("NFS4ERR_IO", false)
	assert.Contains(t, ok, "\x1b[32m")
	assert.Contains(t, bad, "\x1b[31m")
	assert.Contains(t, bad, "NFS4ERR_IO")
}

func TestPrinter_Print(t *testing.T) {
	table := NewTableData("OP", "STATUS")
	table.AddRow("PUTROOTFH", "NFS4_OK")
	table.AddRow("LOOKUP", "NFS4ERR_NOENT")

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(table))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "OP")
	assert.Contains(t, lines[2], "NFS4ERR_NOENT")

	data := map[string]uint32{"xid": 7}

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))
	assert.JSONEq(t, `{"xid": 7}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data))
	assert.Equal(t, "xid: 7\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(data))
	assert.JSONEq(t, `{"xid": 7}`, buf.String(), "non-table data falls back to JSON")
}

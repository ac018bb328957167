package cmdutil

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/pkg/client"
)

func withFlags(t *testing.T, f GlobalFlags) {
	t.Helper()
	orig := *Flags
	*Flags = f
	t.Cleanup(func() { *Flags = orig })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	withFlags(t, GlobalFlags{Server: "[::1]:2049", LogLevel: "debug", Timeout: 5 * time.Second})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "[::1]:2049", cfg.Client.Server)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
}

func TestLoadConfig_InvalidServerOverride(t *testing.T) {
	withFlags(t, GlobalFlags{Server: "nfs.example.com"})

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid flag override")
}

func TestPrintOutput(t *testing.T) {
	table := output.NewTableData("NAME")
	table.AddRow("export")

	t.Run("table", func(t *testing.T) {
		withFlags(t, GlobalFlags{Output: "table"})
		var buf bytes.Buffer
		require.NoError(t, PrintOutput(&buf, nil, false, "", table))
		assert.Contains(t, buf.String(), "export")
	})

	t.Run("empty", func(t *testing.T) {
		withFlags(t, GlobalFlags{Output: "table"})
		var buf bytes.Buffer
		require.NoError(t, PrintOutput(&buf, nil, true, "nothing here", table))
		assert.Equal(t, "nothing here\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		withFlags(t, GlobalFlags{Output: "json"})
		var buf bytes.Buffer
		require.NoError(t, PrintOutput(&buf, map[string]string{"name": "export"}, false, "", table))
		assert.JSONEq(t, `{"name":"export"}`, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		withFlags(t, GlobalFlags{Output: "xml"})
		assert.Error(t, PrintOutput(&bytes.Buffer{}, nil, false, "", table))
	})
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(client.ErrTimeout))
	assert.True(t, IsTimeout(fmt.Errorf("compound: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeout(context.Canceled))
	assert.False(t, IsTimeout(nil))
}

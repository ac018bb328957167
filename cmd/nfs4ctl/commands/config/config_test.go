package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/pkg/config"
)

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "nfs4wire Configuration", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "client")
	assert.Contains(t, props, "logging")
}

func TestConfigWarnings(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Client.Auth.Flavor = "sys"
	cfg.Client.Auth.UID = 1000
	assert.Empty(t, configWarnings(cfg))

	cfg.Client.Auth.UID = 0
	cfg.Client.Version = 3
	assert.Len(t, configWarnings(cfg), 2)
}

func TestInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	prev := cmdutil.Flags.ConfigFile
	cmdutil.Flags.ConfigFile = path
	t.Cleanup(func() { cmdutil.Flags.ConfigFile = prev })

	var out bytes.Buffer
	initCmd.SetOut(&out)
	validateCmd.SetOut(&out)
	t.Cleanup(func() {
		initCmd.SetOut(nil)
		validateCmd.SetOut(nil)
	})

	require.NoError(t, runInit(initCmd, nil))
	assert.Contains(t, out.String(), path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	assert.Error(t, runInit(initCmd, nil), "existing file without --force")

	out.Reset()
	require.NoError(t, runValidate(validateCmd, nil))
	assert.Contains(t, out.String(), "Validation: OK")
	assert.Contains(t, out.String(), "localhost:2049")
}

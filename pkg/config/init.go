package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const configHeader = `# nfs4wire Configuration File
#
# Every value can be overridden with an environment variable built from the
# NFS4WIRE_ prefix and the upper-cased key path, for example:
#   NFS4WIRE_CLIENT_SERVER=nfs.example.com:2049
#   NFS4WIRE_LOGGING_LEVEL=DEBUG
#
`

// InitConfig writes a default configuration file to the default location
// and returns its path. An existing file is only replaced when force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, nil, force)
}

// InitConfigToPath writes cfg (or the defaults when cfg is nil) to path.
func InitConfigToPath(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
	}

	if cfg == nil {
		cfg = GetDefaultConfig()
	}

	data, err := renderConfig(cfg, path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// renderConfig marshals cfg in the format implied by path, with the
// explanatory header.
func renderConfig(cfg *Config, path string) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	if isTOML(path) {
		body, err = toml.Marshal(cfg)
	} else {
		body, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}

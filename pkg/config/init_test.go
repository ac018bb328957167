package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitConfig_DefaultLocation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if DefaultConfigExists() {
		t.Fatal("Expected no config before init")
	}

	path, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if path != GetDefaultConfigPath() {
		t.Errorf("Path: got %q, want %q", path, GetDefaultConfigPath())
	}
	if !DefaultConfigExists() {
		t.Fatal("Expected config to exist after init")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "# nfs4wire Configuration File") {
		t.Error("Expected generated file to start with the header")
	}

	cfg, err := MustLoad("")
	if err != nil {
		t.Fatalf("MustLoad generated config: %v", err)
	}
	if cfg.Client.Server != "localhost:2049" {
		t.Errorf("Server: got %q", cfg.Client.Server)
	}
}

func TestInitConfig_Force(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := InitConfigToPath(path, nil, false); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := InitConfigToPath(path, nil, false); err == nil {
		t.Fatal("Expected error when file exists without force")
	}

	custom := GetDefaultConfig()
	custom.Client.Server = "forced.example.com:2049"
	if err := InitConfigToPath(path, custom, true); err != nil {
		t.Fatalf("forced init: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Client.Server != "forced.example.com:2049" {
		t.Errorf("Server: got %q", cfg.Client.Server)
	}
}

func TestInitConfig_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := InitConfigToPath(path, nil, false); err != nil {
		t.Fatalf("InitConfigToPath: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[client]") {
		t.Errorf("Expected TOML table for client, got:\n%s", data)
	}

	if _, err := Load(path); err != nil {
		t.Fatalf("Load generated TOML: %v", err)
	}
}

func TestMustLoad_NoDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := MustLoad("")
	if err == nil {
		t.Fatal("Expected error without a default config")
	}
	if !strings.Contains(err.Error(), "config init") {
		t.Errorf("Expected init instructions, got: %v", err)
	}
}

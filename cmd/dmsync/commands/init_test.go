package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/paulissoft/sync-datamodeler-config/internal/config"
)

func TestWriteInitConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	archiveDir := filepath.Join(dir, "archives")

	var buf bytes.Buffer
	if err := writeInitConfig(&buf, configPath, archiveDir, 7, false); err != nil {
		t.Fatalf("writeInitConfig() error = %v", err)
	}

	if !strings.Contains(buf.String(), configPath) {
		t.Errorf("output should name the config file:\n%s", buf.String())
	}
	if info, err := os.Stat(archiveDir); err != nil || !info.IsDir() {
		t.Errorf("archive directory should be created: %v", err)
	}

	viper.Reset()
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.ConfigDirectory != archiveDir {
		t.Errorf("ConfigDirectory = %q, want %q", cfg.ConfigDirectory, archiveDir)
	}
	if cfg.Retention != 7 {
		t.Errorf("Retention = %d, want 7", cfg.Retention)
	}
}

func TestWriteInitConfig_ExistingWithoutForce(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("retention = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeInitConfig(&buf, configPath, "", 5, false); err != nil {
		t.Fatalf("writeInitConfig() error = %v", err)
	}
	if !strings.Contains(buf.String(), "already exists") {
		t.Errorf("should refuse to overwrite:\n%s", buf.String())
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "retention = 1\n" {
		t.Error("existing config file should be untouched")
	}
}

func TestWriteInitConfig_Force(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("retention = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	archiveDir := filepath.Join(dir, "archives")
	if err := writeInitConfig(&buf, configPath, archiveDir, 5, true); err != nil {
		t.Fatalf("writeInitConfig() error = %v", err)
	}

	viper.Reset()
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Retention != 5 {
		t.Errorf("Retention = %d, want overwritten value 5", cfg.Retention)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "database_path: /tmp/cal.db\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath != "/tmp/cal.db" {
		t.Fatalf("database_path: %q", cfg.DatabasePath)
	}
	if cfg.DefaultSigFigs != DefaultSigFigs {
		t.Fatalf("default_sig_figs: %d", cfg.DefaultSigFigs)
	}
	if !cfg.Audit.Enabled {
		t.Fatal("audit should default to enabled")
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"database_path: cal.db",
		"default_sig_figs: 4",
		"audit:",
		"  enabled: false",
		"  actor: bench-3",
	}, "\n"))
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultSigFigs != 4 {
		t.Fatalf("default_sig_figs: %d", cfg.DefaultSigFigs)
	}
	if cfg.Audit.Enabled {
		t.Fatal("audit should be disabled")
	}
	if cfg.Audit.Actor != "bench-3" {
		t.Fatalf("actor: %q", cfg.Audit.Actor)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []string{
		"database_path: \"\"\n",
		"database_path: cal.db\ndefault_sig_figs: 9\n",
		"database_path: cal.db\ndefault_sig_figs: 0\n",
		"database_path: [not, a, string]\n",
	}
	for _, content := range cases {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

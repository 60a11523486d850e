package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[store]
path = "data/chunks.db"

[server]
addr = "localhost:9000"

[log]
verbosity = 3
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "localhost:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Log.Verbosity != 3 {
		t.Errorf("Log.Verbosity = %d, want 3", cfg.Log.Verbosity)
	}
	// Missing section keeps its default.
	if !cfg.Disasm.Header {
		t.Error("Disasm.Header should default to true")
	}
	if want := filepath.Join(cfg.Dir, "data", "chunks.db"); cfg.StorePath() != want {
		t.Errorf("StorePath() = %q, want %q", cfg.StorePath(), want)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[store\npath = 1", "parse error"},
		{"unknown key", "[store]\nfile = \"x\"", "unknown keys"},
		{"empty path", "[store]\npath = \"\"", "invalid"},
		{"bad addr", "[server]\naddr = \"nowhere\"", "invalid"},
		{"verbosity", "[log]\nverbosity = 9", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateAddr(t *testing.T) {
	tests := []struct {
		addr string
		ok   bool
	}{
		{":4568", true},
		{"localhost:9000", true},
		{"127.0.0.1:80", true},
		{"[::1]:4568", true},
		{"[fe80::1]:8080", true},
		{"[::]:4568", true},
		{"nowhere", false},
		{"::1:4568", false},
		{"[::1]", false},
		{"host:port", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Addr = tt.addr
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[server]\naddr = \":7000\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
	abs, _ := filepath.Abs(root)
	if cfg.Dir != abs {
		t.Errorf("Dir = %q, want %q", cfg.Dir, abs)
	}
}

func TestFindAndLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestStorePathMemory(t *testing.T) {
	cfg := Default()
	cfg.Dir = "/somewhere"
	cfg.Store.Path = ":memory:"
	if cfg.StorePath() != ":memory:" {
		t.Errorf("StorePath() = %q", cfg.StorePath())
	}
}

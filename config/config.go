// Package config handles loxbc.toml tool configuration.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file.
const FileName = "loxbc.toml"

//go:embed schema.cue
var schemaSource string

// Config represents a loxbc.toml configuration.
type Config struct {
	Store  StoreConfig  `toml:"store" json:"store"`
	Server ServerConfig `toml:"server" json:"server"`
	Disasm DisasmConfig `toml:"disasm" json:"disasm"`
	Log    LogConfig    `toml:"log" json:"log"`

	// Dir is the directory containing the loxbc.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// StoreConfig locates the chunk store.
type StoreConfig struct {
	Path string `toml:"path" json:"path"`
}

// ServerConfig configures the chunk service.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr"`
}

// DisasmConfig configures disassembly output.
type DisasmConfig struct {
	Header bool `toml:"header" json:"header"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Verbosity is passed to commonlog.Configure: 0 is quiet, 4 is debug.
	Verbosity int `toml:"verbosity" json:"verbosity"`
}

// Default returns the configuration used when no loxbc.toml exists.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Path: filepath.Join(".loxbc", "chunks.db")},
		Server: ServerConfig{Addr: ":4568"},
		Disasm: DisasmConfig{Header: true},
		Log:    LogConfig{Verbosity: 1},
	}
}

// Load parses a loxbc.toml file from the given directory. Keys missing from
// the file keep their defaults; unknown keys are an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad walks up from startDir to find a loxbc.toml file, then loads
// and returns it. If no file is found, the defaults are returned with Dir set
// to startDir.
func FindAndLoad(startDir string) (*Config, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for dir := start; ; {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	cfg := Default()
	cfg.Dir = start
	return cfg, nil
}

// Validate checks the configuration against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}

// StorePath returns the store path, resolved against Dir when relative.
// The in-memory path ":memory:" is returned unchanged.
func (c *Config) StorePath() string {
	if c.Store.Path == ":memory:" || filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.Dir, c.Store.Path)
}

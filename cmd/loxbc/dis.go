package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/loxbc/pkg/wire"
)

// dis disassembles chunk files. Each file may hold a bare image or a CBOR
// envelope; envelopes are listed under their own name.
func (a *app) dis(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("dis: no files given")
	}
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		name, c, err := wire.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if name == "" {
			name = filepath.Base(path)
		}
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		if err := a.disassemble(c, name); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/loxbc/pkg/bytecode"
)

// demoChunk hand-assembles the classic first chunk: load 1.2, return,
// everything on line 123.
func demoChunk() *bytecode.Chunk {
	c := bytecode.NewChunk()

	constant := c.AddConstant(1.2)
	c.WriteOp(bytecode.OpConstant, 123)
	c.Write(byte(constant), 123)

	c.WriteOp(bytecode.OpReturn, 123)
	return c
}

func (a *app) demo(args []string) error {
	flags := flag.NewFlagSet("demo", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	out := flags.String("o", "", "Write the chunk image to FILE instead of disassembling")
	name := flags.String("name", "test chunk", "Chunk name for the listing header")
	if err := flags.Parse(args); err != nil {
		return err
	}

	c := demoChunk()
	defer c.Release()

	if *out != "" {
		image, err := c.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, image, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *out, err)
		}
		log.Infof("wrote %d byte image to %s", len(image), *out)
		return nil
	}
	return a.disassemble(c, *name)
}

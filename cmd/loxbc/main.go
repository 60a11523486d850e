// loxbc CLI - build, store and disassemble bytecode chunks
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/loxbc/config"
	"github.com/chazu/loxbc/pkg/bytecode"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("loxbc")

// exitLineMap is the exit status when a chunk's line map does not cover
// its code.
const exitLineMap = 1

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("loxbc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configDir := flags.String("C", ".", "Directory to search upward for "+config.FileName)
	verbosity := flags.Int("v", -1, "Log verbosity 0-4 (overrides config)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: loxbc [options] <command> [args...]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  demo [-o FILE]        Assemble and disassemble the demo chunk\n")
		fmt.Fprintf(stderr, "  dis FILE...           Disassemble chunk images or envelopes\n")
		fmt.Fprintf(stderr, "  put NAME FILE         Store a chunk\n")
		fmt.Fprintf(stderr, "  get [-o FILE] NAME    Disassemble (or export) a stored chunk\n")
		fmt.Fprintf(stderr, "  ls                    List stored chunks\n")
		fmt.Fprintf(stderr, "  rm NAME               Delete a stored chunk\n")
		fmt.Fprintf(stderr, "  serve [-addr ADDR]    Start the chunk service\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := config.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}
	commonlog.Configure(cfg.Log.Verbosity, nil)

	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}
	cmd, cmdArgs := flags.Arg(0), flags.Args()[1:]

	switch cmd {
	case "demo":
		err = a.demo(cmdArgs)
	case "dis":
		err = a.dis(cmdArgs)
	case "put":
		err = a.put(cmdArgs)
	case "get":
		err = a.get(cmdArgs)
	case "ls":
		err = a.list(cmdArgs)
	case "rm":
		err = a.remove(cmdArgs)
	case "serve":
		err = a.serve(cmdArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n", cmd)
		flags.Usage()
		return 2
	}

	code := exitCode(err)
	switch {
	case errors.Is(err, bytecode.ErrLineNotFound):
		// A chunk whose line map disagrees with its code cannot be listed
		// any further.
		log.Criticalf("corrupt chunk: %s", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
	case code != 0:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

// exitCode maps a command error to the process exit status. A subcommand's
// -h has already printed its usage and is not a failure.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, bytecode.ErrLineNotFound):
		return exitLineMap
	default:
		return 1
	}
}

// disassemble writes the listing of c to stdout using the configured
// header setting.
func (a *app) disassemble(c *bytecode.Chunk, name string) error {
	d := bytecode.NewDisassembler(a.stdout)
	d.Header = a.cfg.Disasm.Header
	return d.DisassembleChunk(c, name)
}

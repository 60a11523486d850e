package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/chazu/loxbc/pkg/store"
	"github.com/chazu/loxbc/pkg/wire"
	"github.com/chazu/loxbc/server"
)

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg.StorePath())
}

func (a *app) put(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: put NAME FILE")
	}
	name, path := args[0], args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	_, c, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ctx := context.Background()
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := st.Put(ctx, name, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s %x\n", e.Name, e.Hash[:8])
	return nil
}

func (a *app) get(args []string) error {
	flags := flag.NewFlagSet("get", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	out := flags.String("o", "", "Write the chunk as an envelope to FILE instead of disassembling")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: get [-o FILE] NAME")
	}
	name := flags.Arg(0)

	ctx := context.Background()
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.Get(ctx, name)
	if err != nil {
		return err
	}
	defer c.Release()

	if *out == "" {
		return a.disassemble(c, name)
	}
	env, err := wire.Seal(name, c)
	if err != nil {
		return err
	}
	data, err := wire.Marshal(env)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	return nil
}

func (a *app) list(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: ls")
	}
	ctx := context.Background()
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBYTES\tCONSTANTS\tRUNS\tHASH\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%x\t%s\n",
			e.Name, e.CodeLen, e.ConstCount, e.RunCount, e.Hash[:8], e.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func (a *app) remove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm NAME")
	}
	ctx := context.Background()
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(ctx, args[0])
}

func (a *app) serve(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	addr := flags.String("addr", a.cfg.Server.Addr, "Listen address")
	if err := flags.Parse(args); err != nil {
		return err
	}

	st, err := a.openStore(context.Background())
	if err != nil {
		return err
	}
	defer st.Close()

	return server.New(st).ListenAndServe(*addr)
}

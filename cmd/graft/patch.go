package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/patch"
)

func runPatch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 args, got %v", cli.ErrUsage, args)
	}
	doc, err := getDocFile(cc, args[0])
	if err != nil {
		return err
	}
	d, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	changed, err := patch.Apply(doc, d)
	if err != nil {
		return err
	}
	out := cfg.Out
	if out == "" {
		if args[0] == "-" {
			if err := ir.Dump(doc, cc.Out); err != nil {
				return err
			}
			fmt.Fprintf(cc.Out, "# %d leaves changed\n", changed)
			return nil
		}
		out = args[0]
	}
	if err := ir.DumpFile(doc, out); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "%d leaves changed\n", changed)
	return nil
}

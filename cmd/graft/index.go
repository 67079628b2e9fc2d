package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/session"
)

func runIndex(cfg *IndexConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Index.Parse(cc, args)
	if err != nil {
		cfg.Index.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: index requires 1 arg, got %v", cli.ErrUsage, args)
	}
	doc, err := getDocFile(cc, args[0])
	if err != nil {
		return err
	}
	node, err := session.PathSelector(cfg.Selection).Select(doc)
	if err != nil {
		return err
	}
	snap := index.Build(node)
	for i := range snap.Items {
		item := &snap.Items[i]
		fmt.Fprintf(cc.Out, "%s", item.Path)
		if item.Name != "" {
			fmt.Fprintf(cc.Out, " %q", item.Name)
		}
		if item.Locked {
			fmt.Fprint(cc.Out, " locked")
		}
		fmt.Fprintf(cc.Out, ": %s\n", item.Content)
	}
	fmt.Fprintf(cc.Out, "%d nodes, %d leaves, max depth %d\n",
		snap.Stats.Nodes, snap.Stats.Leaves, snap.Stats.MaxDepth)
	return nil
}

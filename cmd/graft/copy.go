package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/session"
)

func runCopy(cfg *CopyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Copy.Parse(cc, args)
	if err != nil {
		cfg.Copy.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: copy requires 1 arg, got %v", cli.ErrUsage, args)
	}
	doc, err := getDocFile(cc, args[0])
	if err != nil {
		return err
	}
	st, err := cfg.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sess := session.New(st)
	res, err := sess.Copy(doc, session.PathSelector(cfg.Selection))
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "copied %d leaves from %s (payload %s)\n",
		res.Payload.Stats.Leaves, args[0], res.Payload.ID)
	if res.Caveat != "" {
		fmt.Fprintf(cc.Out, "caveat: %s\n", res.Caveat)
	}
	return nil
}

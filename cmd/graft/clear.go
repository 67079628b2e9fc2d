package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/session"
)

func runClear(cfg *ClearConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Clear.Parse(cc, args)
	if err != nil {
		cfg.Clear.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: clear takes no args, got %v", cli.ErrUsage, args)
	}
	st, err := cfg.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if err := session.New(st).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, "payload cleared")
	return nil
}

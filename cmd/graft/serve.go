package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/server"
)

func runServe(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		cfg.Serve.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: serve takes no args, got %v", cli.ErrUsage, args)
	}
	st, err := cfg.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	srv := server.New(&server.Spec{Addr: cfg.Addr, Store: st, Log: log})
	ctx := context.Background()
	if cfg.Stdio {
		return srv.ServeStdio(ctx, cc.In, cc.Out)
	}
	l, err := server.NewTCPListener(srv)
	if err != nil {
		return err
	}
	defer l.Close()
	return l.Serve(ctx)
}

package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "graft").
		WithSynopsis("graft [opts] command [opts]").
		WithDescription("graft copies text between separately-authored document trees.").
		WithOpts(opts...).
		WithSubs(
			CopyCommand(cfg),
			PasteCommand(cfg),
			ClearCommand(cfg),
			IndexCommand(cfg),
			MatchCommand(cfg),
			PatchCommand(cfg),
			ServeCommand(cfg))
}

func CopyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CopyConfig{MainConfig: mainCfg, Selection: "$"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Copy, "copy").
		WithAliases("c").
		WithSynopsis("copy [-s path] <doc>").
		WithDescription("index the selected subtree and retain it as the payload").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runCopy(cfg, cc, args)
		})
}

func PasteCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PasteConfig{MainConfig: mainCfg, Selection: "$"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Paste, "paste").
		WithAliases("p").
		WithSynopsis("paste [-s path] [-filter expr] [-dry] [-v] [-o out] <doc>").
		WithDescription("transfer the payload's text onto the selected subtree").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runPaste(cfg, cc, args)
		})
}

func ClearCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ClearConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Clear, "clear").
		WithSynopsis("clear").
		WithDescription("drop the retained payload").
		WithRun(func(cc *cli.Context, args []string) error {
			return runClear(cfg, cc, args)
		})
}

func IndexCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &IndexConfig{MainConfig: mainCfg, Selection: "$"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Index, "index").
		WithAliases("i").
		WithSynopsis("index [-s path] <doc>").
		WithDescription("show the leaves and stats of the selected subtree").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runIndex(cfg, cc, args)
		})
}

func MatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MatchCmdConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Match, "match").
		WithAliases("m").
		WithSynopsis("match [-filter expr] [-v] <src> <dst>").
		WithDescription("show the leaf assignment between two documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runMatch(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithSynopsis("patch [-o out] <doc> <patch.json>").
		WithDescription("apply a dry-run merge patch to a document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runPatch(cfg, cc, args)
		})
}

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg, Addr: ":7463"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-addr :7463 | -stdio]").
		WithDescription("serve copy/paste to a host plugin over jsonrpc2").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runServe(cfg, cc, args)
		})
}

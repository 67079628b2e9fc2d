package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/match"
	"github.com/signadot/graft/report"
)

func runMatch(cfg *MatchCmdConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Match.Parse(cc, args)
	if err != nil {
		cfg.Match.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: match requires 2 args, got %v", cli.ErrUsage, args)
	}
	srcDoc, err := getDocFile(cc, args[0])
	if err != nil {
		return err
	}
	dstDoc, err := getDocFile(cc, args[1])
	if err != nil {
		return err
	}
	var mOpts []match.Option
	if cfg.Filter != "" {
		mOpts = append(mOpts, match.WithFilter(cfg.Filter))
	}
	matcher, err := match.New(mOpts...)
	if err != nil {
		return err
	}
	srcSnap, dstSnap := index.Build(srcDoc), index.Build(dstDoc)
	asn, err := matcher.Assign(srcSnap, dstSnap)
	if err != nil {
		return err
	}
	colorize := cfg.colorize(cc.Out)
	for i := range srcSnap.Items {
		srcItem := &srcSnap.Items[i]
		j, score, ok := asn.Mapped(i)
		if !ok {
			fmt.Fprintf(cc.Out, "%s %s\n", srcItem.Path, asn.Reasons[i])
			continue
		}
		dstItem := &dstSnap.Items[j]
		fmt.Fprintf(cc.Out, "%s -> %s (score %.1f)\n", srcItem.Path, dstItem.Path, score)
		if cfg.Verbose {
			report.RenderDiff(cc.Out, dstItem.Content, srcItem.Content, colorize)
		}
	}
	return nil
}

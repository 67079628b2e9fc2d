package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/report"
	"github.com/signadot/graft/session"
)

func runPaste(cfg *PasteConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Paste.Parse(cc, args)
	if err != nil {
		cfg.Paste.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: paste requires 1 arg, got %v", cli.ErrUsage, args)
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
	sel := session.PathSelector(cfg.Selection)

	// capture target contents before the transfer for -v diffs
	var before map[string]string
	if cfg.Verbose && !cfg.Dry {
		if node, err := sel.Select(doc); err == nil {
			before = contentsByPath(index.Build(node))
		}
	}

	res, err := sess.Paste(context.Background(), doc, sel,
		&session.PasteConfig{Filter: cfg.Filter, DryRun: cfg.Dry})
	if err != nil {
		return err
	}
	if cfg.Dry {
		cc.Out.Write(res.Patch)
		fmt.Fprintln(cc.Out)
		return nil
	}
	if err := writeDoc(cfg, cc, doc, args[0]); err != nil {
		return err
	}
	res.Report.Render(cc.Out, cfg.colorize(cc.Out))
	if cfg.Verbose {
		renderDiffs(cfg, cc, sess, res.Report, before)
	}
	return nil
}

func writeDoc(cfg *PasteConfig, cc *cli.Context, doc *ir.Node, in string) error {
	out := cfg.Out
	if out == "" {
		if in == "-" {
			return ir.Dump(doc, cc.Out)
		}
		out = in
	}
	return ir.DumpFile(doc, out)
}

func contentsByPath(snap *index.Snapshot) map[string]string {
	res := map[string]string{}
	for i := range snap.Items {
		res[snap.Items[i].Path.String()] = snap.Items[i].Content
	}
	return res
}

func renderDiffs(cfg *PasteConfig, cc *cli.Context, sess *session.Session, rep *report.Report, before map[string]string) {
	payload, err := sess.Last()
	if err != nil {
		return
	}
	src := contentsByPath(payload.Snapshot())
	colorize := cfg.colorize(cc.Out)
	for i := range rep.Entries {
		e := &rep.Entries[i]
		if e.Reason != report.Transferred {
			continue
		}
		fmt.Fprintf(cc.Out, "%s -> %s:\n", e.Source, e.Target)
		report.RenderDiff(cc.Out, before[e.Target.String()], src[e.Source.String()], colorize)
	}
}

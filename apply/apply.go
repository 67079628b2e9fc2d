// Package apply transfers content along a resolved assignment and
// accumulates a report.  Per-leaf failures never abort the operation.
package apply

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/signadot/graft/debug"
	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/match"
	"github.com/signadot/graft/report"
)

// FontLoader makes a font available before text using it may change.
// Implementations may fail per font.
type FontLoader interface {
	Load(ctx context.Context, f ir.Font) error
}

type FontLoaderFunc func(ctx context.Context, f ir.Font) error

func (fn FontLoaderFunc) Load(ctx context.Context, f ir.Font) error {
	return fn(ctx, f)
}

// ProgressSink receives percent-complete updates.  Calls are
// fire-and-forget: a panicking sink cannot fail the transfer.
type ProgressSink interface {
	Progress(percent int)
}

type ProgressFunc func(percent int)

func (fn ProgressFunc) Progress(percent int) {
	fn(percent)
}

// Writer mutates one target leaf's content.  The default writer sets
// the node text in memory; a host bridge can substitute its own.
type Writer interface {
	WriteText(leaf *ir.Node, text string) error
}

type WriterFunc func(leaf *ir.Node, text string) error

func (fn WriterFunc) WriteText(leaf *ir.Node, text string) error {
	return fn(leaf, text)
}

type nodeWriter struct{}

func (nodeWriter) WriteText(leaf *ir.Node, text string) error {
	if leaf == nil {
		return fmt.Errorf("no writable handle for leaf")
	}
	if !leaf.Type.IsText() {
		return fmt.Errorf("%s node is not writable", leaf.Type)
	}
	leaf.Text = text
	return nil
}

type Applier struct {
	fonts  FontLoader
	sink   ProgressSink
	writer Writer
}

type Option func(*Applier)

func WithFontLoader(fl FontLoader) Option {
	return func(a *Applier) { a.fonts = fl }
}

func WithProgress(sink ProgressSink) Option {
	return func(a *Applier) { a.sink = sink }
}

func WithWriter(w Writer) Option {
	return func(a *Applier) { a.writer = w }
}

func New(opts ...Option) *Applier {
	a := &Applier{writer: nodeWriter{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply transfers content along asn in source traversal order.  The
// distinct fonts of all writable assigned targets are resolved
// concurrently before any mutation; a font that fails to resolve
// fails its leaves at write time, not the operation.
func (a *Applier) Apply(ctx context.Context, src *index.Snapshot, asn *match.Assignment, dst *index.Snapshot) *report.Report {
	rep := &report.Report{}
	fontErrs := a.resolveFonts(ctx, asn, dst)
	total := len(src.Items)
	for i := range src.Items {
		srcItem := &src.Items[i]
		rep.Add(a.applyOne(i, srcItem, asn, dst, fontErrs))
		a.notify(i+1, total)
	}
	return rep
}

func (a *Applier) applyOne(i int, srcItem *index.LeafItem, asn *match.Assignment, dst *index.Snapshot, fontErrs map[ir.Font]error) report.Entry {
	j, score, ok := asn.Mapped(i)
	if !ok {
		return report.Entry{Source: srcItem.Path, Reason: asn.Reasons[i]}
	}
	dstItem := &dst.Items[j]
	if dstItem.Locked {
		return report.Entry{Source: srcItem.Path, Target: dstItem.Path, Reason: report.TargetLocked}
	}
	if dstItem.Font != nil {
		if err := fontErrs[*dstItem.Font]; err != nil {
			return report.Entry{
				Source: srcItem.Path,
				Target: dstItem.Path,
				Reason: report.WriteFailed,
				Detail: fmt.Sprintf("font %s: %v", dstItem.Font, err),
			}
		}
	}
	if err := a.writer.WriteText(dstItem.Node, srcItem.Content); err != nil {
		return report.Entry{
			Source: srcItem.Path,
			Target: dstItem.Path,
			Reason: report.WriteFailed,
			Detail: err.Error(),
		}
	}
	if debug.Apply() {
		debug.Logf("apply %s -> %s (%d bytes)\n", srcItem.Path, dstItem.Path, len(srcItem.Content))
	}
	return report.Entry{Source: srcItem.Path, Target: dstItem.Path, Score: score, Reason: report.Transferred}
}

// resolveFonts fires one load per distinct font of the writable
// assigned targets and awaits them all, collecting failures.
func (a *Applier) resolveFonts(ctx context.Context, asn *match.Assignment, dst *index.Snapshot) map[ir.Font]error {
	if a.fonts == nil {
		return nil
	}
	fonts := map[ir.Font]bool{}
	for i := range asn.Targets {
		j := asn.Targets[i]
		if j < 0 {
			continue
		}
		item := &dst.Items[j]
		if item.Locked || item.Font == nil {
			continue
		}
		fonts[*item.Font] = true
	}
	res := make(map[ir.Font]error, len(fonts))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for f := range fonts {
		g.Go(func() error {
			err := a.fonts.Load(ctx, f)
			if err == nil {
				return nil
			}
			mu.Lock()
			res[f] = err
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return res
}

func (a *Applier) notify(done, total int) {
	if a.sink == nil || total == 0 {
		return
	}
	percent := int(math.Round(float64(done) / float64(total) * 100))
	defer func() {
		recover()
	}()
	a.sink.Progress(percent)
}

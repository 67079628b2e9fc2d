package report

import (
	"fmt"
	"io"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// RenderDiff writes a character diff of two leaf contents, for
// verbose views of what a transfer would change.
func RenderDiff(w io.Writer, from, to string, colorize bool) {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	if colorize {
		fmt.Fprintln(w, dmp.DiffPrettyText(diffs))
		return
	}
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffDelete:
			fmt.Fprintf(w, "[-%s]", d.Text)
		case diffpatch.DiffInsert:
			fmt.Fprintf(w, "[+%s]", d.Text)
		case diffpatch.DiffEqual:
			io.WriteString(w, d.Text)
		}
	}
	fmt.Fprintln(w)
}

// Package report accumulates per-leaf transfer outcomes.  Per-leaf
// failures are entries, not errors: an operation completes and
// reports partial success rather than aborting on the first bad leaf.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/signadot/graft/ir"
)

type Reason int

const (
	Transferred Reason = iota
	NoCandidate
	AllClaimed
	TargetLocked
	WriteFailed
)

func (r Reason) String() string {
	s, ok := map[Reason]string{
		Transferred:  "transferred",
		NoCandidate:  "no-candidate",
		AllClaimed:   "all-candidates-claimed",
		TargetLocked: "target-locked",
		WriteFailed:  "write-failed",
	}[r]
	if ok {
		return s
	}
	return "<unknown reason>"
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Reason) UnmarshalText(d []byte) error {
	rr, ok := map[string]Reason{
		"transferred":            Transferred,
		"no-candidate":           NoCandidate,
		"all-candidates-claimed": AllClaimed,
		"target-locked":          TargetLocked,
		"write-failed":           WriteFailed,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized reason %q", d)
	}
	*r = rr
	return nil
}

// Entry records the outcome for one source leaf.  Target is nil when
// no target was assigned.
type Entry struct {
	Source ir.Path `json:"source"`
	Target ir.Path `json:"target,omitempty"`
	Score  float64 `json:"score,omitempty"`
	Reason Reason  `json:"reason"`
	Detail string  `json:"detail,omitempty"`
}

type Report struct {
	Entries     []Entry `json:"entries"`
	Transferred int     `json:"transferred"`
	Skipped     int     `json:"skipped"`

	// Caveat notes a non-fatal problem with the operation as a
	// whole, such as the payload store being unavailable.
	Caveat string `json:"caveat,omitempty"`
}

func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
	if e.Reason == Transferred {
		r.Transferred++
	} else {
		r.Skipped++
	}
}

var (
	okColor   = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

func (r *Report) Render(w io.Writer, colorize bool) {
	for i := range r.Entries {
		e := &r.Entries[i]
		line := renderEntry(e)
		c := skipColor
		switch e.Reason {
		case Transferred:
			c = okColor
		case WriteFailed:
			c = failColor
		}
		if colorize {
			c.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d transferred, %d skipped\n", r.Transferred, r.Skipped)
	if r.Caveat != "" {
		fmt.Fprintf(w, "caveat: %s\n", r.Caveat)
	}
}

func renderEntry(e *Entry) string {
	switch e.Reason {
	case Transferred:
		return fmt.Sprintf("%s -> %s %s (score %.1f)", e.Source, e.Target, e.Reason, e.Score)
	case TargetLocked:
		return fmt.Sprintf("%s -> %s %s", e.Source, e.Target, e.Reason)
	case WriteFailed:
		return fmt.Sprintf("%s -> %s %s: %s", e.Source, e.Target, e.Reason, e.Detail)
	default:
		return fmt.Sprintf("%s %s", e.Source, e.Reason)
	}
}

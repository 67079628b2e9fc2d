// Package match aligns the leaves of two document snapshots.  Scoring
// sums independent signals per candidate pair; resolution is greedy
// per source leaf in traversal order, which is deterministic but
// order-dependent: an earlier source leaf may claim a target that
// would have scored higher for a later one.
package match

import (
	"sort"

	"github.com/signadot/graft/debug"
	"github.com/signadot/graft/index"
	"github.com/signadot/graft/report"
)

// Assignment maps source leaf indices to target leaf indices.  It is
// injective on targets: a target is claimed by at most one source.
type Assignment struct {
	// Targets[i] is the target index assigned to source i, -1 if
	// source i is unmapped.
	Targets []int
	// Scores[i] is the pair score where Targets[i] >= 0.
	Scores []float64
	// Reasons[i] explains unmapped sources: NoCandidate or
	// AllClaimed.
	Reasons []report.Reason
}

func (a *Assignment) Mapped(i int) (target int, score float64, ok bool) {
	t := a.Targets[i]
	if t < 0 {
		return -1, 0, false
	}
	return t, a.Scores[i], true
}

type Matcher struct {
	signals []Signal
	filter  *filter
}

type Option func(*Matcher) error

// WithFilter excludes candidate pairs for which the expression
// evaluates false.  The expression sees `src` and `dst` leaves.
func WithFilter(src string) Option {
	return func(m *Matcher) error {
		f, err := compileFilter(src)
		if err != nil {
			return err
		}
		m.filter = f
		return nil
	}
}

func WithSignals(signals []Signal) Option {
	return func(m *Matcher) error {
		m.signals = signals
		return nil
	}
}

func New(opts ...Option) (*Matcher, error) {
	m := &Matcher{signals: Signals()}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

type candidate struct {
	target int
	score  float64
}

// Assign resolves a best-effort assignment from src leaves to dst
// leaves.  O(S×T) score computations.
func (m *Matcher) Assign(src, dst *index.Snapshot) (*Assignment, error) {
	nSrc := len(src.Items)
	asn := &Assignment{
		Targets: make([]int, nSrc),
		Scores:  make([]float64, nSrc),
		Reasons: make([]report.Reason, nSrc),
	}
	claimed := make([]bool, len(dst.Items))
	for i := range src.Items {
		srcItem := &src.Items[i]
		cands, err := m.candidates(srcItem, dst)
		if err != nil {
			return nil, err
		}
		if debug.Match() {
			debug.Logf("match %s: %d candidates\n", srcItem.Path, len(cands))
		}
		// stable: score ties go to the earlier target in
		// traversal order
		sort.SliceStable(cands, func(a, b int) bool {
			return cands[a].score > cands[b].score
		})
		asn.Targets[i] = -1
		if len(cands) == 0 {
			asn.Reasons[i] = report.NoCandidate
			continue
		}
		asn.Reasons[i] = report.AllClaimed
		for _, c := range cands {
			if claimed[c.target] {
				continue
			}
			claimed[c.target] = true
			asn.Targets[i] = c.target
			asn.Scores[i] = c.score
			break
		}
	}
	return asn, nil
}

func (m *Matcher) candidates(srcItem *index.LeafItem, dst *index.Snapshot) ([]candidate, error) {
	var cands []candidate
	for j := range dst.Items {
		dstItem := &dst.Items[j]
		if m.filter != nil {
			ok, err := m.filter.eval(srcItem, dstItem)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		score := m.score(srcItem, dstItem)
		if score <= 0 {
			continue
		}
		cands = append(cands, candidate{target: j, score: score})
	}
	return cands, nil
}

func (m *Matcher) score(src, dst *index.LeafItem) float64 {
	total := 0.0
	for i := range m.signals {
		sig := &m.signals[i]
		v := sig.Score(src, dst)
		if v == 0 {
			continue
		}
		if debug.Matches() {
			debug.Logf("  %s ~ %s: %s +%.1f\n", src.Path, dst.Path, sig.Name, v)
		}
		total += v
	}
	return total
}

package match

import (
	"testing"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/report"
)

func snap(root *ir.Node) *index.Snapshot {
	return index.Build(root)
}

func mustAssign(t *testing.T, src, dst *index.Snapshot, opts ...Option) *Assignment {
	t.Helper()
	m, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	asn, err := m.Assign(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	return asn
}

func TestIdenticalStructure(t *testing.T) {
	mk := func(a, b, c string) *ir.Node {
		return ir.NewFrame("f").Append(
			ir.NewText("", a),
			ir.NewGroup("g").Append(
				ir.NewText("", b),
				ir.NewText("", c),
			),
		)
	}
	src := snap(mk("one", "two", "three"))
	dst := snap(mk("eins", "zwei", "drei"))
	asn := mustAssign(t, src, dst)
	for i := range src.Items {
		j, score, ok := asn.Mapped(i)
		if !ok {
			t.Fatalf("source %d unmapped", i)
		}
		if !src.Items[i].Path.Equal(dst.Items[j].Path) {
			t.Errorf("source %s mapped to %s", src.Items[i].Path, dst.Items[j].Path)
		}
		if score < 1000 {
			t.Errorf("source %d score %v < 1000", i, score)
		}
	}
}

func TestInjective(t *testing.T) {
	src := snap(ir.NewFrame("f").Append(
		ir.NewText("a", "same text here okay"),
		ir.NewText("b", "same text here okay"),
		ir.NewText("c", "same text here okay"),
	))
	dst := snap(ir.NewFrame("f").Append(
		ir.NewText("x", "same text here okay"),
		ir.NewText("y", "same text here okay"),
	))
	asn := mustAssign(t, src, dst)
	claimed := map[int]int{}
	for i := range src.Items {
		if j, _, ok := asn.Mapped(i); ok {
			if prev, dup := claimed[j]; dup {
				t.Errorf("target %d claimed by %d and %d", j, prev, i)
			}
			claimed[j] = i
		}
	}
}

func TestSourceSurplusUnmapped(t *testing.T) {
	src := snap(ir.NewFrame("f").Append(
		ir.NewText("", "aaa bbb ccc ddd eee"),
		ir.NewText("", "aaa bbb ccc ddd eee"),
		ir.NewText("", "aaa bbb ccc ddd eee"),
	))
	dst := snap(ir.NewFrame("f").Append(
		ir.NewText("", "aaa bbb ccc ddd eee"),
	))
	asn := mustAssign(t, src, dst)
	unmapped := 0
	for i := range src.Items {
		if _, _, ok := asn.Mapped(i); ok {
			continue
		}
		unmapped++
		if r := asn.Reasons[i]; r != report.NoCandidate && r != report.AllClaimed {
			t.Errorf("source %d reason %s", i, r)
		}
	}
	if unmapped < len(src.Items)-len(dst.Items) {
		t.Errorf("unmapped %d < %d", unmapped, len(src.Items)-len(dst.Items))
	}
}

func TestNameMatch(t *testing.T) {
	src := snap(ir.NewFrame("f").Append(
		ir.NewGroup("g").Append(
			ir.NewText("Title", "Hello"),
			ir.NewText("Body", "Some body copy"),
		),
	))
	dst := snap(ir.NewFrame("f").Append(
		ir.NewText("Title", "Old title"),
		ir.NewGroup("g2").Append(
			ir.NewText("", "old body"),
		),
	))
	asn := mustAssign(t, src, dst)
	j, score, ok := asn.Mapped(0)
	if !ok {
		t.Fatal("Title unmapped")
	}
	if dst.Items[j].Name != "Title" {
		t.Errorf("Title mapped to %q", dst.Items[j].Name)
	}
	if score < 500 {
		t.Errorf("Title score %v < 500", score)
	}
	// Body has no positive signal against the remaining leaf beyond
	// the path prefix, which is zero here, so it may fall back or
	// stay unmapped; it must never steal Title's target.
	if j2, _, ok := asn.Mapped(1); ok && j2 == j {
		t.Error("Body stole Title's target")
	}
}

func TestAbsentNamesNeverMatch(t *testing.T) {
	src := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{0}, Name: "", Content: "short"},
	}}
	dst := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{9}, Name: "", Content: "other"},
	}}
	asn := mustAssign(t, src, dst)
	if _, _, ok := asn.Mapped(0); ok {
		t.Error("pair with no signal should not be a candidate")
	}
	if asn.Reasons[0] != report.NoCandidate {
		t.Errorf("reason %s", asn.Reasons[0])
	}
}

func TestStyleAndFontSignals(t *testing.T) {
	src := &index.Snapshot{Items: []index.LeafItem{{
		Path:    ir.Path{0},
		Content: "x",
		StyleID: "s:1",
		Font:    &ir.Font{Family: "Inter", Size: 16},
	}}}
	dst := &index.Snapshot{Items: []index.LeafItem{
		{
			Path:    ir.Path{3},
			Content: "y",
			StyleID: "s:1",
			Font:    &ir.Font{Family: "Inter", Size: 16},
		},
		{
			Path:    ir.Path{4},
			Content: "z",
			Font:    &ir.Font{Family: "Inter", Size: 12},
		},
	}}
	asn := mustAssign(t, src, dst)
	j, score, ok := asn.Mapped(0)
	if !ok {
		t.Fatal("unmapped")
	}
	if j != 0 {
		t.Fatalf("mapped to %d", j)
	}
	// style 300 + family 200 + size 100
	if score != 600 {
		t.Errorf("score %v want 600", score)
	}
}

func TestSizeOnlyCountsWithFamily(t *testing.T) {
	src := &index.LeafItem{Font: &ir.Font{Family: "Inter", Size: 16}}
	dst := &index.LeafItem{Font: &ir.Font{Family: "Roboto", Size: 16}}
	if got := fontSignal(src, dst); got != 0 {
		t.Errorf("size matched without family: %v", got)
	}
}

func TestLexicalOverlap(t *testing.T) {
	src := &index.LeafItem{Content: "The quick brown fox jumps"}
	dst := &index.LeafItem{Content: "the quick red fox QUICK"}
	// shared case-folded tokens: the, quick, fox
	if got := lexicalSignal(src, dst); got != 30 {
		t.Errorf("lexical: got %v want 30", got)
	}
}

func TestLexicalRepeatCounts(t *testing.T) {
	src := &index.LeafItem{Content: "go go go gadget arms"}
	dst := &index.LeafItem{Content: "ready set go go now"}
	// each src "go" occurrence counts
	if got := lexicalSignal(src, dst); got != 30 {
		t.Errorf("lexical: got %v want 30", got)
	}
}

func TestLexicalLengthThreshold(t *testing.T) {
	src := &index.LeafItem{Content: "short one"}
	dst := &index.LeafItem{Content: "short one but this side is long"}
	if got := lexicalSignal(src, dst); got != 0 {
		t.Errorf("threshold ignored: %v", got)
	}
}

func TestPrefixSignal(t *testing.T) {
	src := &index.LeafItem{Path: ir.Path{0, 1, 2}}
	dst := &index.LeafItem{Path: ir.Path{0, 1, 5}}
	want := float64(2) / float64(3) * 50
	if got := prefixSignal(src, dst); got != want {
		t.Errorf("prefix: got %v want %v", got, want)
	}
}

func TestTieBreakTargetOrder(t *testing.T) {
	// two targets score identically; the earlier one in traversal
	// order must win
	src := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{0}, Name: "twin", Content: "x"},
	}}
	dst := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{5}, Name: "twin", Content: "a"},
		{Path: ir.Path{6}, Name: "twin", Content: "b"},
	}}
	asn := mustAssign(t, src, dst)
	j, _, ok := asn.Mapped(0)
	if !ok || j != 0 {
		t.Errorf("tie should go to first target, got %d", j)
	}
}

func TestGreedyOrderDependence(t *testing.T) {
	// the earlier source claims the shared best target even though
	// the later source scores higher against it
	src := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{0}, Name: "a"},
		{Path: ir.Path{1}, Name: "a", StyleID: "s:1"},
	}}
	dst := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{7}, Name: "a", StyleID: "s:1"},
	}}
	asn := mustAssign(t, src, dst)
	if j, _, ok := asn.Mapped(0); !ok || j != 0 {
		t.Fatal("first source should claim the target")
	}
	if _, _, ok := asn.Mapped(1); ok {
		t.Fatal("second source should be unmapped")
	}
	if asn.Reasons[1] != report.AllClaimed {
		t.Errorf("reason %s", asn.Reasons[1])
	}
}

func TestFilter(t *testing.T) {
	src := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{0}, Name: "k", Content: "x"},
	}}
	dst := &index.Snapshot{Items: []index.LeafItem{
		{Path: ir.Path{0}, Name: "k", Content: "y", Locked: true},
		{Path: ir.Path{1}, Name: "k", Content: "z"},
	}}
	asn := mustAssign(t, src, dst, WithFilter("!dst.locked"))
	j, _, ok := asn.Mapped(0)
	if !ok {
		t.Fatal("unmapped")
	}
	if j != 1 {
		t.Errorf("filter should exclude the locked target, got %d", j)
	}
}

func TestBadFilter(t *testing.T) {
	if _, err := New(WithFilter("dst.nope >")); err == nil {
		t.Error("expected compile error")
	}
}

func TestDeterminism(t *testing.T) {
	mk := func() *ir.Node {
		return ir.NewFrame("f").Append(
			ir.NewText("a", "lorem ipsum dolor sit amet"),
			ir.NewText("b", "consectetur adipiscing elit sed"),
			ir.NewText("", "lorem ipsum dolor sit amet"),
		)
	}
	src, dst := snap(mk()), snap(mk())
	a := mustAssign(t, src, dst)
	b := mustAssign(t, src, dst)
	for i := range a.Targets {
		if a.Targets[i] != b.Targets[i] || a.Scores[i] != b.Scores[i] {
			t.Errorf("run differs at %d", i)
		}
	}
}

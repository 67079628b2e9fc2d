package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
)

func testSnapshot() *index.Snapshot {
	doc := ir.NewDocument("brochure").Append(
		ir.NewFrame("page").Append(
			ir.NewText("Title", "Spring Sale").WithFont(ir.Font{Family: "Inter", Size: 24}),
			ir.NewText("Body", "Everything must go").WithStyleID("s:body"),
			ir.NewText("Fine", "terms apply").WithLocked(true),
		),
	)
	return index.Build(doc)
}

func TestPayloadRoundTrip(t *testing.T) {
	snap := testSnapshot()
	p := FromSnapshot(snap, "brochure")
	if p.ID == "" {
		t.Error("empty payload id")
	}
	if p.Document != "brochure" {
		t.Errorf("document %q", p.Document)
	}
	back := p.Snapshot()
	ignoreNode := cmpopts.IgnoreFields(index.LeafItem{}, "Node")
	if d := cmp.Diff(snap.Items, back.Items, ignoreNode); d != "" {
		t.Errorf("items differ:\n%s", d)
	}
	if back.Stats != snap.Stats {
		t.Errorf("stats %+v want %+v", back.Stats, snap.Stats)
	}
	for i := range back.Items {
		if back.Items[i].Node != nil {
			t.Errorf("item %d carries a node handle", i)
		}
	}
}

func TestPayloadDeepCopies(t *testing.T) {
	snap := testSnapshot()
	p := FromSnapshot(snap, "")
	p.Items[0].Path[0] = 99
	*p.Items[0].Font = ir.Font{Family: "Wingdings"}
	if snap.Items[0].Path[0] == 99 {
		t.Error("payload shares path backing array with snapshot")
	}
	if snap.Items[0].Font.Family == "Wingdings" {
		t.Error("payload shares font pointer with snapshot")
	}
}

func TestMemoryStore(t *testing.T) {
	st := NewMemory()
	defer st.Close()

	if _, err := st.Get(DefaultKey); err != ErrNotFound {
		t.Fatalf("get on empty store: %v", err)
	}

	p := FromSnapshot(testSnapshot(), "doc-a")
	require.NoError(t, st.Put(DefaultKey, p))

	got, err := st.Get(DefaultKey)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Len(t, got.Items, len(p.Items))

	// last writer wins
	p2 := FromSnapshot(testSnapshot(), "doc-b")
	require.NoError(t, st.Put(DefaultKey, p2))
	got, err = st.Get(DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "doc-b", got.Document)

	require.NoError(t, st.Clear(DefaultKey))
	_, err = st.Get(DefaultKey)
	require.ErrorIs(t, err, ErrNotFound)

	// clearing an absent key is not an error
	require.NoError(t, st.Clear(DefaultKey))
}

func TestBadgerStore(t *testing.T) {
	st, err := OpenBadger(InMemoryConfig())
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Get(DefaultKey)
	require.ErrorIs(t, err, ErrNotFound)

	p := FromSnapshot(testSnapshot(), "doc")
	require.NoError(t, st.Put(DefaultKey, p))

	got, err := st.Get(DefaultKey)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, p.Stats, got.Stats)
	ignoreNode := cmpopts.IgnoreFields(index.LeafItem{}, "Node")
	if d := cmp.Diff(p.Snapshot().Items, got.Snapshot().Items, ignoreNode); d != "" {
		t.Errorf("items differ after persistence:\n%s", d)
	}

	require.NoError(t, st.Clear(DefaultKey))
	_, err = st.Get(DefaultKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerOnDisk(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)

	st, err := OpenBadger(cfg)
	require.NoError(t, err)
	p := FromSnapshot(testSnapshot(), "doc")
	require.NoError(t, st.Put(DefaultKey, p))
	require.NoError(t, st.Close())

	// reopen and read back
	st, err = OpenBadger(cfg)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Get(DefaultKey)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

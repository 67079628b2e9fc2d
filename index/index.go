// Package index walks a document subtree and produces a Snapshot of
// its text leaves, each addressed by the index path from the subtree
// root.
package index

import (
	"github.com/signadot/graft/debug"
	"github.com/signadot/graft/ir"
)

// LeafItem is one text-bearing node found during indexing.  Node is a
// live handle into the indexed tree and is nil on snapshots restored
// from the payload store.
type LeafItem struct {
	Path    ir.Path  `json:"path"`
	Name    string   `json:"name,omitempty"`
	Content string   `json:"content"`
	Locked  bool     `json:"locked,omitempty"`
	Font    *ir.Font `json:"font,omitempty"`
	StyleID string   `json:"styleId,omitempty"`

	Node *ir.Node `json:"-"`
}

// Stats aggregates structural counts over one indexing pass.  They
// inform reporting only, never matching.
type Stats struct {
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"maxDepth"`
}

// Snapshot holds the leaves of one subtree in traversal order.  It is
// never mutated after Build returns.
type Snapshot struct {
	Items []LeafItem
	Stats Stats
}

type frame struct {
	node *ir.Node
	path ir.Path
}

// Build indexes the subtree rooted at root.  The traversal is an
// explicit-stack DFS visiting children left to right; the root has
// the empty path.
func Build(root *ir.Node) *Snapshot {
	snap := &Snapshot{}
	stack := []frame{{node: root, path: ir.Path{}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		snap.Stats.Nodes++
		if len(f.path) > snap.Stats.MaxDepth {
			snap.Stats.MaxDepth = len(f.path)
		}
		if f.node.Type.IsText() {
			snap.Stats.Leaves++
			item := LeafItem{
				Path:    f.path,
				Name:    f.node.Name,
				Content: f.node.Text,
				Locked:  effectiveLocked(f.node, root),
				StyleID: f.node.StyleID,
				Node:    f.node,
			}
			if f.node.Font != nil {
				font := *f.node.Font
				item.Font = &font
			}
			if debug.Index() {
				debug.Logf("index leaf %s name=%q len=%d\n", item.Path, item.Name, len(item.Content))
			}
			snap.Items = append(snap.Items, item)
		}
		// push in reverse so pop order is natural child order
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			child := f.node.Children[i]
			childPath := make(ir.Path, len(f.path), len(f.path)+1)
			copy(childPath, f.path)
			stack = append(stack, frame{node: child, path: append(childPath, i)})
		}
	}
	return snap
}

// a locked ancestor locks every leaf under it, up to the indexed root
func effectiveLocked(n, root *ir.Node) bool {
	for x := n; x != nil; x = x.Parent {
		if x.Locked {
			return true
		}
		if x == root {
			break
		}
	}
	return false
}

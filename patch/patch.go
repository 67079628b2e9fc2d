// Package patch renders a resolved assignment as a merge-patch
// document keyed by target leaf path, and applies such documents back
// to a tree.  Dry-run pastes emit these instead of mutating.
package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/match"
)

// Make builds the merge patch for asn: target path -> new content.
// Unmapped sources and locked targets are left out.
func Make(src *index.Snapshot, asn *match.Assignment, dst *index.Snapshot) ([]byte, error) {
	res := map[string]string{}
	for i := range src.Items {
		j, _, ok := asn.Mapped(i)
		if !ok {
			continue
		}
		dstItem := &dst.Items[j]
		if dstItem.Locked {
			continue
		}
		res[dstItem.Path.String()] = src.Items[i].Content
	}
	return json.MarshalIndent(res, "", "  ")
}

// Apply merges a patch document into doc's text leaves and returns
// the number of leaves changed.
func Apply(doc *ir.Node, patchJSON []byte) (int, error) {
	snap := index.Build(doc)
	current := map[string]string{}
	for i := range snap.Items {
		item := &snap.Items[i]
		current[item.Path.String()] = item.Content
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return 0, err
	}
	mergedJSON, err := jsonpatch.MergePatch(currentJSON, patchJSON)
	if err != nil {
		return 0, fmt.Errorf("bad patch: %w", err)
	}
	merged := map[string]string{}
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return 0, err
	}
	changed := 0
	for pathStr, content := range merged {
		if cur, ok := current[pathStr]; ok && cur == content {
			continue
		}
		p, err := ir.ParsePath(pathStr)
		if err != nil {
			return changed, err
		}
		node, err := doc.AtPath(p)
		if err != nil {
			return changed, fmt.Errorf("patch path %s: %w", pathStr, err)
		}
		if !node.Type.IsText() {
			return changed, fmt.Errorf("patch path %s: %s node is not writable", pathStr, node.Type)
		}
		node.Text = content
		changed++
	}
	return changed, nil
}

package session

import (
	"fmt"
	"strings"

	"github.com/signadot/graft/ir"
)

// Selector yields exactly one subtree root from a document, or an
// error naming why it could not.
type Selector interface {
	Select(doc *ir.Node) (*ir.Node, error)
}

// PathSelector selects by index path, e.g. "$[0][2]".  "$" selects
// the document root.  A comma-separated list is a multi-selection and
// always fails.
type PathSelector string

func (s PathSelector) Select(doc *ir.Node) (*ir.Node, error) {
	if doc == nil {
		return nil, ErrNoSelection
	}
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		return nil, ErrNoSelection
	}
	if strings.Contains(raw, ",") {
		return nil, fmt.Errorf("%w: %s", ErrMultiSelection, raw)
	}
	p, err := ir.ParsePath(raw)
	if err != nil {
		return nil, err
	}
	node, err := doc.AtPath(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSelection, err)
	}
	if node.Type.IsLeaf() && !node.Type.IsText() {
		return nil, fmt.Errorf("%w: %s at %s", ErrWrongKind, node.Type, p)
	}
	return node, nil
}

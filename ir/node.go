package ir

// Font identifies the typeface a text node renders with.  Values are
// plain so fonts survive serialization to the payload store.
type Font struct {
	Family string  `json:"family" yaml:"family"`
	Style  string  `json:"style,omitempty" yaml:"style,omitempty"`
	Size   float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

func (f Font) Equal(o Font) bool {
	return f.Family == o.Family && f.Style == o.Style && f.Size == o.Size
}

func (f Font) String() string {
	if f.Style == "" {
		return f.Family
	}
	return f.Family + " " + f.Style
}

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	Children    []*Node

	Name    string
	Locked  bool
	Text    string
	Font    *Font
	StyleID string
}

func NewDocument(name string) *Node {
	return &Node{Type: DocumentType, Name: name}
}

func NewFrame(name string) *Node {
	return &Node{Type: FrameType, Name: name}
}

func NewGroup(name string) *Node {
	return &Node{Type: GroupType, Name: name}
}

func NewText(name, text string) *Node {
	return &Node{Type: TextType, Name: name, Text: text}
}

func NewShape(name string) *Node {
	return &Node{Type: ShapeType, Name: name}
}

func (n *Node) WithFont(f Font) *Node {
	n.Font = &f
	return n
}

func (n *Node) WithStyleID(id string) *Node {
	n.StyleID = id
	return n
}

func (n *Node) WithLocked(v bool) *Node {
	n.Locked = v
	return n
}

// Append attaches children in order, fixing up parent backrefs.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		c.ParentIndex = len(n.Children)
		n.Children = append(n.Children, c)
	}
	return n
}

func (n *Node) Clone() *Node {
	res := &Node{}
	return n.CloneTo(res)
}

func (n *Node) CloneTo(dst *Node) *Node {
	dst.Type = n.Type
	dst.Parent = n.Parent
	dst.ParentIndex = n.ParentIndex
	dst.Name = n.Name
	dst.Locked = n.Locked
	dst.Text = n.Text
	dst.StyleID = n.StyleID
	if n.Font != nil {
		f := *n.Font
		dst.Font = &f
	}
	dst.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		dstC := &Node{}
		c.CloneTo(dstC)
		dstC.Parent = dst
		dstC.ParentIndex = i
		dst.Children[i] = dstC
	}
	return dst
}

func (n *Node) Root() *Node {
	res := n
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Visit calls f twice per node, pre and post order.  Returning false
// from the pre call skips the node's children.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range n.Children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// IndexPath is the sequence of child indices from n's root to n.
func (n *Node) IndexPath() Path {
	if n.Parent == nil {
		return Path{}
	}
	p := n.Parent.IndexPath()
	return append(p, n.ParentIndex)
}

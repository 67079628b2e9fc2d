package ir

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// wireNode is the plain serializable form of a Node.  It carries no
// parent backrefs so documents round-trip through YAML and JSON.
type wireNode struct {
	Type     string      `yaml:"type" json:"type"`
	Name     string      `yaml:"name,omitempty" json:"name,omitempty"`
	Locked   bool        `yaml:"locked,omitempty" json:"locked,omitempty"`
	Text     *string     `yaml:"text,omitempty" json:"text,omitempty"`
	Font     *Font       `yaml:"font,omitempty" json:"font,omitempty"`
	StyleID  string      `yaml:"styleId,omitempty" json:"styleId,omitempty"`
	Children []*wireNode `yaml:"children,omitempty" json:"children,omitempty"`
}

func toWire(n *Node) *wireNode {
	w := &wireNode{
		Name:    n.Name,
		Locked:  n.Locked,
		StyleID: n.StyleID,
	}
	w.Type = n.Type.String()
	if n.Type.IsText() {
		t := n.Text
		w.Text = &t
	}
	if n.Font != nil {
		f := *n.Font
		w.Font = &f
	}
	for _, c := range n.Children {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}

func fromWire(w *wireNode) (*Node, error) {
	n := &Node{
		Name:    w.Name,
		Locked:  w.Locked,
		StyleID: w.StyleID,
	}
	if err := n.Type.UnmarshalText([]byte(w.Type)); err != nil {
		return nil, err
	}
	if w.Text != nil {
		if !n.Type.IsText() {
			return nil, fmt.Errorf("%s node %q has text", n.Type, w.Name)
		}
		n.Text = *w.Text
	}
	if w.Font != nil {
		f := *w.Font
		n.Font = &f
	}
	if len(w.Children) > 0 && n.Type.IsLeaf() {
		return nil, fmt.Errorf("%s node %q has children", n.Type, w.Name)
	}
	for _, wc := range w.Children {
		c, err := fromWire(wc)
		if err != nil {
			return nil, err
		}
		n.Append(c)
	}
	return n, nil
}

func Load(r io.Reader) (*Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d)
}

func Parse(d []byte) (*Node, error) {
	w := &wireNode{}
	if err := yaml.Unmarshal(d, w); err != nil {
		return nil, err
	}
	return fromWire(w)
}

func LoadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding %q: %w", path, err)
	}
	return n, nil
}

func Dump(n *Node, w io.Writer) error {
	d, err := yaml.Marshal(toWire(n))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func DumpFile(n *Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Dump(n, f)
}

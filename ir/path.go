package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Path locates a node from its subtree root by child indices.  The
// root is the empty path, printed "$"; a child path prints "$[0][2]".
type Path []int

func (p Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	for _, i := range p {
		fmt.Fprintf(buf, "[%d]", i)
	}
	return buf.String()
}

func ParsePath(s string) (Path, error) {
	if len(s) == 0 || s[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", s)
	}
	res := Path{}
	rest := s[1:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, fmt.Errorf("expected '[' at %q", rest)
		}
		j := strings.IndexByte(rest, ']')
		if j == -1 {
			return nil, fmt.Errorf("expected '[' <index> ']'")
		}
		u64, err := strconv.ParseUint(rest[1:j], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad index in %q: %w", s, err)
		}
		res = append(res, int(u64))
		rest = rest[j+1:]
	}
	return res, nil
}

func (p Path) Clone() Path {
	res := make(Path, len(p))
	copy(res, p)
	return res
}

func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// CommonPrefix returns the length of the shared leading prefix.
func (p Path) CommonPrefix(q Path) int {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	for i := 0; i < n; i++ {
		if p[i] != q[i] {
			return i
		}
	}
	return n
}

// AtPath resolves p relative to n.
func (n *Node) AtPath(p Path) (*Node, error) {
	res := n
	for _, i := range p {
		if i < 0 || i >= len(res.Children) {
			return nil, fmt.Errorf("index out of bounds %d (len %d) at %s", i, len(res.Children), p)
		}
		res = res.Children[i]
	}
	return res, nil
}

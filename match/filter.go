package match

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/graft/index"
)

// Leaf is the view of a leaf item a filter expression sees.
type Leaf struct {
	Path       string  `expr:"path"`
	Name       string  `expr:"name"`
	Content    string  `expr:"content"`
	StyleID    string  `expr:"styleId"`
	FontFamily string  `expr:"fontFamily"`
	FontStyle  string  `expr:"fontStyle"`
	FontSize   float64 `expr:"fontSize"`
	Locked     bool    `expr:"locked"`
}

type filterEnv struct {
	Src Leaf `expr:"src"`
	Dst Leaf `expr:"dst"`
}

type filter struct {
	src string
	prg *vm.Program
}

func compileFilter(src string) (*filter, error) {
	prg, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("bad filter %q: %w", src, err)
	}
	return &filter{src: src, prg: prg}, nil
}

func (f *filter) eval(src, dst *index.LeafItem) (bool, error) {
	env := filterEnv{Src: leafView(src), Dst: leafView(dst)}
	res, err := expr.Run(f.prg, env)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	return res.(bool), nil
}

func leafView(item *index.LeafItem) Leaf {
	l := Leaf{
		Path:    item.Path.String(),
		Name:    item.Name,
		Content: item.Content,
		StyleID: item.StyleID,
		Locked:  item.Locked,
	}
	if item.Font != nil {
		l.FontFamily = item.Font.Family
		l.FontStyle = item.Font.Style
		l.FontSize = item.Font.Size
	}
	return l
}

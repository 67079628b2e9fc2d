package match

import (
	"strings"
	"unicode/utf8"

	"github.com/signadot/graft/index"
)

// Signal weights.  Higher-confidence signals dominate strictly over
// any combination of lower ones.
const (
	pathWeight   = 1000
	nameWeight   = 500
	styleWeight  = 300
	familyWeight = 200
	sizeWeight   = 100
	tokenWeight  = 10
	prefixWeight = 50

	// contents at or under this length carry no lexical signal
	minLexicalLen = 10
)

// A Signal scores one aspect of a (source, target) leaf pair.  A zero
// return contributes nothing; signals never penalize.
type Signal struct {
	Name  string
	Score func(src, dst *index.LeafItem) float64
}

// Signals returns the default ordered signal list.  Weights are data:
// callers can extend or replace the list via WithSignals without
// touching resolution.
func Signals() []Signal {
	return []Signal{
		{Name: "path", Score: pathSignal},
		{Name: "name", Score: nameSignal},
		{Name: "style", Score: styleSignal},
		{Name: "font", Score: fontSignal},
		{Name: "lexical", Score: lexicalSignal},
		{Name: "prefix", Score: prefixSignal},
	}
}

func pathSignal(src, dst *index.LeafItem) float64 {
	if src.Path.Equal(dst.Path) {
		return pathWeight
	}
	return 0
}

// absent names never match
func nameSignal(src, dst *index.LeafItem) float64 {
	if src.Name == "" || dst.Name == "" {
		return 0
	}
	if src.Name == dst.Name {
		return nameWeight
	}
	return 0
}

func styleSignal(src, dst *index.LeafItem) float64 {
	if src.StyleID == "" || dst.StyleID == "" {
		return 0
	}
	if src.StyleID == dst.StyleID {
		return styleWeight
	}
	return 0
}

// size only counts when the family already matched
func fontSignal(src, dst *index.LeafItem) float64 {
	if src.Font == nil || dst.Font == nil {
		return 0
	}
	if src.Font.Family == "" || src.Font.Family != dst.Font.Family {
		return 0
	}
	score := float64(familyWeight)
	if src.Font.Size != 0 && src.Font.Size == dst.Font.Size {
		score += sizeWeight
	}
	return score
}

func lexicalSignal(src, dst *index.LeafItem) float64 {
	if utf8.RuneCountInString(src.Content) <= minLexicalLen {
		return 0
	}
	if utf8.RuneCountInString(dst.Content) <= minLexicalLen {
		return 0
	}
	dstTokens := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(dst.Content)) {
		dstTokens[tok] = true
	}
	shared := 0
	for _, tok := range strings.Fields(strings.ToLower(src.Content)) {
		if dstTokens[tok] {
			shared++
		}
	}
	return float64(tokenWeight * shared)
}

func prefixSignal(src, dst *index.LeafItem) float64 {
	longer := len(src.Path)
	if len(dst.Path) > longer {
		longer = len(dst.Path)
	}
	if longer == 0 {
		return 0
	}
	common := src.Path.CommonPrefix(dst.Path)
	return float64(common) / float64(longer) * prefixWeight
}

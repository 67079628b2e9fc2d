package ir

import "fmt"

type Type int

const (
	DocumentType Type = iota
	FrameType
	GroupType
	TextType
	ShapeType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		DocumentType: "Document",
		FrameType:    "Frame",
		GroupType:    "Group",
		TextType:     "Text",
		ShapeType:    "Shape",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Document": DocumentType,
		"Frame":    FrameType,
		"Group":    GroupType,
		"Text":     TextType,
		"Shape":    ShapeType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		DocumentType,
		FrameType,
		GroupType,
		TextType,
		ShapeType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case TextType, ShapeType:
		return true
	default:
		return false
	}
}

func (t Type) IsText() bool {
	return t == TextType
}

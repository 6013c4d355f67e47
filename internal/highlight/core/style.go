package core

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Style represents the visual style of a text fragment.
type Style struct {
	Foreground Color
	Attributes Attribute
}

// DefaultStyle returns the neutral style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// Bold returns a new style with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Italic returns a new style with the italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with the underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// IsZero returns true if the style carries no color and no attributes.
func (s Style) IsZero() bool {
	return s.Foreground == (Color{}) && s.Attributes == AttrNone
}

// Fragment is a run of text with a resolved style. A highlight call
// produces an ordered sequence of fragments whose concatenated text
// reproduces the input exactly.
type Fragment struct {
	Text  string
	Style Style
}

package scene

// StyleKind is the family of a shared style.
type StyleKind string

const (
	StylePaint  StyleKind = "PAINT"
	StyleText   StyleKind = "TEXT"
	StyleEffect StyleKind = "EFFECT"
	StyleGrid   StyleKind = "GRID"
)

// Style is a named, shared style as resolved from a style id.
type Style struct {
	ID      string    `json:"id"`
	Key     string    `json:"key,omitempty"`
	Name    string    `json:"name"`
	Kind    StyleKind `json:"type"`
	Remote  bool      `json:"remote,omitempty"`
	Paints  []Paint   `json:"paints,omitempty"`
	Effects []Effect  `json:"effects,omitempty"`

	TextStyle
}

// TextStyle holds the resolved typography of a TEXT style.
//
// LineHeight and LetterSpacing are kept loosely typed: exporters write
// a bare number, a "150%" string, or a {unit, value} object.
type TextStyle struct {
	FontName         *FontName `json:"fontName,omitempty"`
	FontSize         float64   `json:"fontSize,omitempty"`
	LineHeight       any       `json:"lineHeight,omitempty"`
	LetterSpacing    any       `json:"letterSpacing,omitempty"`
	TextCase         string    `json:"textCase,omitempty"`
	TextDecoration   string    `json:"textDecoration,omitempty"`
	ParagraphIndent  float64   `json:"paragraphIndent,omitempty"`
	ParagraphSpacing float64   `json:"paragraphSpacing,omitempty"`
}

// Definition is the component backing an instance.
type Definition struct {
	ID       string `json:"id"`
	Key      string `json:"key,omitempty"`
	Name     string `json:"name"`
	Removed  bool   `json:"removed"`
	ParentID string `json:"parentId,omitempty"`
}

// HasParent reports whether the definition is still attached to a page or set.
func (d *Definition) HasParent() bool {
	return d != nil && d.ParentID != ""
}

package catalog

import "github.com/gnana997/tokenlint/pkg/scene"

// VariableMarker tags suggestions backed by a variable rather than a style.
const VariableMarker scene.PaintType = "VARIABLE"

// StyleEntry is one approved style published by a library.
type StyleEntry struct {
	ID          string       `json:"id"`
	Key         string       `json:"key,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Paint       *scene.Paint `json:"paint,omitempty"`
}

// VariableEntry is one approved numeric variable (radius or gap).
type VariableEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Library is a named bundle of approved styles, partitioned by family.
// Strokes reuse the fills partition.
type Library struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Fills   []StyleEntry    `json:"fills,omitempty"`
	Text    []StyleEntry    `json:"text,omitempty"`
	Effects []StyleEntry    `json:"effects,omitempty"`
	Radius  []VariableEntry `json:"radius,omitempty"`
	Gaps    []VariableEntry `json:"gaps,omitempty"`
	Grids   []StyleEntry    `json:"grids,omitempty"`
}

// SavedToken is a freeform {name, value} record. Color tokens carry an
// RGBA tuple (directly or under "color"); typography tokens carry any subset
// of fontFamily, fontWeight, fontSize, lineHeight, letterSpacing, textCase,
// textDecoration, paragraphIndent and paragraphSpacing.
type SavedToken struct {
	Name  string         `json:"name"`
	Value map[string]any `json:"value"`
}

// Suggestion is a candidate replacement drawn from a library.
type Suggestion struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Key   string       `json:"key,omitempty"`
	Value *float64     `json:"value,omitempty"`
	Paint *scene.Paint `json:"paint,omitempty"`
}

// Bundle is everything an audit is checked against.
type Bundle struct {
	Libraries []Library    `json:"libraries"`
	Tokens    []SavedToken `json:"tokens"`
}

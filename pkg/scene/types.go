// Package scene is a read-only view of an exported design tree: nodes, the
// shared styles they reference, and the component definitions behind instances.
package scene

// NodeType is the structural type tag of a node.
type NodeType string

const (
	TypeFrame            NodeType = "FRAME"
	TypeGroup            NodeType = "GROUP"
	TypeSlice            NodeType = "SLICE"
	TypeSection          NodeType = "SECTION"
	TypeRectangle        NodeType = "RECTANGLE"
	TypeEllipse          NodeType = "ELLIPSE"
	TypePolygon          NodeType = "POLYGON"
	TypeStar             NodeType = "STAR"
	TypeVector           NodeType = "VECTOR"
	TypeLine             NodeType = "LINE"
	TypeText             NodeType = "TEXT"
	TypeBooleanOperation NodeType = "BOOLEAN_OPERATION"
	TypeComponent        NodeType = "COMPONENT"
	TypeComponentSet     NodeType = "COMPONENT_SET"
	TypeInstance         NodeType = "INSTANCE"
)

// IsContainer reports whether nodes of this type open a frame context used
// to attribute findings on their descendants.
func (t NodeType) IsContainer() bool {
	switch t {
	case TypeFrame, TypeComponent, TypeComponentSet, TypeInstance, TypeSection:
		return true
	}
	return false
}

// PaintType tags a fill or stroke paint.
type PaintType string

const (
	PaintSolid           PaintType = "SOLID"
	PaintGradientLinear  PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial  PaintType = "GRADIENT_RADIAL"
	PaintGradientAngular PaintType = "GRADIENT_ANGULAR"
	PaintGradientDiamond PaintType = "GRADIENT_DIAMOND"
	PaintImage           PaintType = "IMAGE"
	PaintVideo           PaintType = "VIDEO"
)

// EffectType tags an effect.
type EffectType string

const (
	EffectDropShadow     EffectType = "DROP_SHADOW"
	EffectInnerShadow    EffectType = "INNER_SHADOW"
	EffectLayerBlur      EffectType = "LAYER_BLUR"
	EffectBackgroundBlur EffectType = "BACKGROUND_BLUR"
)

// LayoutMode is the auto-layout direction of a frame.
type LayoutMode string

const (
	LayoutNone       LayoutMode = "NONE"
	LayoutHorizontal LayoutMode = "HORIZONTAL"
	LayoutVertical   LayoutMode = "VERTICAL"
)

// Color channels are in [0,1]. A is optional.
type Color struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

// Alpha returns A, defaulting to fully opaque.
func (c Color) Alpha() float64 {
	if c.A == nil {
		return 1
	}
	return *c.A
}

// Paint is one entry of a fills or strokes list.
type Paint struct {
	Type    PaintType `json:"type"`
	Visible *bool     `json:"visible,omitempty"`
	Opacity *float64  `json:"opacity,omitempty"`
	Color   *Color    `json:"color,omitempty"`
}

// IsVisible treats a missing flag as visible.
func (p Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Vector is a 2D offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Effect is one entry of an effects list.
type Effect struct {
	Type    EffectType `json:"type"`
	Visible *bool      `json:"visible,omitempty"`
	Radius  float64    `json:"radius"`
	Spread  float64    `json:"spread,omitempty"`
	Offset  *Vector    `json:"offset,omitempty"`
	Color   *Color     `json:"color,omitempty"`
}

// IsVisible treats a missing flag as visible.
func (e Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// VariableAlias binds a numeric property to a shared variable.
type VariableAlias struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id"`
}

// FontName is a family plus style ("Inter", "Semi Bold").
type FontName struct {
	Family string `json:"family"`
	Style  string `json:"style"`
}

// Fills is the fill bag of a node.
type Fills struct {
	Paints  Mixed[[]Paint] `json:"fills"`
	StyleID Mixed[string]  `json:"fillStyleId"`
}

// Strokes is the stroke bag of a node.
type Strokes struct {
	Paints  Mixed[[]Paint] `json:"strokes"`
	StyleID Mixed[string]  `json:"strokeStyleId"`
	Weight  Mixed[float64] `json:"strokeWeight"`
	Align   string         `json:"strokeAlign,omitempty"`
}

// Effects is the effect bag of a node.
type Effects struct {
	List    Mixed[[]Effect] `json:"effects"`
	StyleID Mixed[string]   `json:"effectStyleId"`
}

// Corners holds the uniform radius and the four per-corner radii. The
// uniform value is mixed when the corners differ.
type Corners struct {
	Radius      Mixed[float64] `json:"cornerRadius"`
	TopLeft     float64        `json:"topLeftRadius"`
	TopRight    float64        `json:"topRightRadius"`
	BottomRight float64        `json:"bottomRightRadius"`
	BottomLeft  float64        `json:"bottomLeftRadius"`
}

// Layout is the auto-layout bag of a frame.
type Layout struct {
	Mode          LayoutMode `json:"layoutMode"`
	ItemSpacing   float64    `json:"itemSpacing"`
	PaddingTop    float64    `json:"paddingTop"`
	PaddingRight  float64    `json:"paddingRight"`
	PaddingBottom float64    `json:"paddingBottom"`
	PaddingLeft   float64    `json:"paddingLeft"`
}

// Typography is the text-specific bag of a text node.
type Typography struct {
	Characters string          `json:"characters"`
	FontName   Mixed[FontName] `json:"fontName"`
	FontSize   Mixed[float64]  `json:"fontSize"`
	StyleID    Mixed[string]   `json:"textStyleId"`
}

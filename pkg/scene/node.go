package scene

// Header is the identity and traversal state shared by every node variant.
//
// Visible is false in the zero value, so a hand-built node is skipped by
// the audit until it is set. DecodeDocument defaults it to true.
type Header struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Type           NodeType                 `json:"type"`
	Visible        bool                     `json:"visible"`
	Locked         bool                     `json:"locked"`
	BoundVariables map[string]VariableAlias `json:"boundVariables,omitempty"`
	Children       []Node                   `json:"-"`
}

// Bound reports whether property is bound to a variable.
func (h *Header) Bound(property string) bool {
	if h == nil || h.BoundVariables == nil {
		return false
	}
	alias, ok := h.BoundVariables[property]
	return ok && alias.ID != ""
}

// Node is one of the closed set of variants below. The engine only reads nodes.
type Node interface {
	Header() *Header
}

// Frame covers frames, components, component sets, instances and sections.
type Frame struct {
	Head    Header
	Fills   Fills
	Strokes Strokes
	Effects Effects
	Corners Corners
	Layout  Layout

	// MainComponentID is the definition behind an INSTANCE.
	MainComponentID string
}

// Shape covers rectangles, ellipses, polygons, stars, vectors and boolean operations.
type Shape struct {
	Head    Header
	Fills   Fills
	Strokes Strokes
	Effects Effects
	Corners Corners
}

// Text is a text layer.
type Text struct {
	Head       Header
	Fills      Fills
	Strokes    Strokes
	Effects    Effects
	Typography Typography
}

// Line only carries strokes.
type Line struct {
	Head    Header
	Strokes Strokes
}

// Group covers groups, slices and any type this package does not model.
type Group struct {
	Head Header
}

func (n *Frame) Header() *Header { return &n.Head }
func (n *Shape) Header() *Header { return &n.Head }
func (n *Text) Header() *Header  { return &n.Head }
func (n *Line) Header() *Header  { return &n.Head }
func (n *Group) Header() *Header { return &n.Head }

// Filled is implemented by variants that carry fills.
type Filled interface {
	Node
	FillBag() *Fills
}

// Stroked is implemented by variants that carry strokes.
type Stroked interface {
	Node
	StrokeBag() *Strokes
}

// Effected is implemented by variants that carry effects.
type Effected interface {
	Node
	EffectBag() *Effects
}

// Rounded is implemented by variants that carry corner radii.
type Rounded interface {
	Node
	CornerBag() *Corners
}

func (n *Frame) FillBag() *Fills     { return &n.Fills }
func (n *Shape) FillBag() *Fills     { return &n.Fills }
func (n *Text) FillBag() *Fills      { return &n.Fills }
func (n *Frame) StrokeBag() *Strokes { return &n.Strokes }
func (n *Shape) StrokeBag() *Strokes { return &n.Strokes }
func (n *Text) StrokeBag() *Strokes  { return &n.Strokes }
func (n *Line) StrokeBag() *Strokes  { return &n.Strokes }
func (n *Frame) EffectBag() *Effects { return &n.Effects }
func (n *Shape) EffectBag() *Effects { return &n.Effects }
func (n *Text) EffectBag() *Effects  { return &n.Effects }
func (n *Frame) CornerBag() *Corners { return &n.Corners }
func (n *Shape) CornerBag() *Corners { return &n.Corners }

// Walk calls fn for every node in pre-order. Returning false skips the
// node's children.
func Walk(forest []Node, fn func(Node) bool) {
	for _, n := range forest {
		if n == nil {
			continue
		}
		if fn(n) {
			Walk(n.Header().Children, fn)
		}
	}
}

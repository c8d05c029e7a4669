package scene

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is an exported selection: the forest to audit plus the styles and
// component definitions its nodes reference.
type Document struct {
	Name        string
	Nodes       []Node
	Styles      map[string]*Style
	Definitions map[string]*Definition
}

type rawDocument struct {
	Name        string                 `json:"name"`
	Nodes       []rawNode              `json:"nodes"`
	Styles      json.RawMessage        `json:"styles"`
	Definitions map[string]*Definition `json:"components"`
}

type rawNode struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Type            NodeType                 `json:"type"`
	Visible         *bool                    `json:"visible"`
	Locked          bool                     `json:"locked"`
	BoundVariables  map[string]VariableAlias `json:"boundVariables"`
	MainComponentID string                   `json:"mainComponentId"`
	Children        []rawNode                `json:"children"`

	Fills
	Strokes
	Effects
	Corners
	Layout
	Typography
}

// DecodeDocument parses a scene export.
//
// Styles may be given either as an object keyed by id or as a list.
func DecodeDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scene document: %w", err)
	}

	styles, err := decodeStyles(raw.Styles)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Name:        raw.Name,
		Nodes:       buildForest(raw.Nodes),
		Styles:      styles,
		Definitions: raw.Definitions,
	}
	if doc.Definitions == nil {
		doc.Definitions = make(map[string]*Definition)
	}
	for id, def := range doc.Definitions {
		if def != nil && def.ID == "" {
			def.ID = id
		}
	}
	return doc, nil
}

// DecodeForest parses a bare JSON array of nodes.
func DecodeForest(data []byte) ([]Node, error) {
	var raw []rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse node list: %w", err)
	}
	return buildForest(raw), nil
}

func decodeStyles(data json.RawMessage) (map[string]*Style, error) {
	styles := make(map[string]*Style)
	if len(data) == 0 || string(data) == "null" {
		return styles, nil
	}

	if data[0] == '[' {
		var list []*Style
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse styles: %w", err)
		}
		for _, s := range list {
			if s != nil && s.ID != "" {
				styles[s.ID] = s
			}
		}
		return styles, nil
	}

	if err := json.Unmarshal(data, &styles); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}
	for id, s := range styles {
		if s == nil {
			delete(styles, id)
			continue
		}
		if s.ID == "" {
			s.ID = id
		}
	}
	return styles, nil
}

func buildForest(raw []rawNode) []Node {
	nodes := make([]Node, 0, len(raw))
	for i := range raw {
		nodes = append(nodes, buildNode(&raw[i]))
	}
	return nodes
}

func buildNode(r *rawNode) Node {
	head := Header{
		ID:             r.ID,
		Name:           r.Name,
		Type:           r.Type,
		Visible:        r.Visible == nil || *r.Visible,
		Locked:         r.Locked,
		BoundVariables: r.BoundVariables,
		Children:       buildForest(r.Children),
	}

	switch r.Type {
	case TypeFrame, TypeComponent, TypeComponentSet, TypeInstance, TypeSection:
		return &Frame{
			Head:            head,
			Fills:           r.Fills,
			Strokes:         r.Strokes,
			Effects:         r.Effects,
			Corners:         r.Corners,
			Layout:          r.Layout,
			MainComponentID: r.MainComponentID,
		}
	case TypeRectangle, TypeEllipse, TypePolygon, TypeStar, TypeVector, TypeBooleanOperation:
		return &Shape{
			Head:    head,
			Fills:   r.Fills,
			Strokes: r.Strokes,
			Effects: r.Effects,
			Corners: r.Corners,
		}
	case TypeText:
		return &Text{
			Head:       head,
			Fills:      r.Fills,
			Strokes:    r.Strokes,
			Effects:    r.Effects,
			Typography: r.Typography,
		}
	case TypeLine:
		return &Line{Head: head, Strokes: r.Strokes}
	default:
		return &Group{Head: head}
	}
}

// ResolveStyle looks a style up by id. Unknown ids resolve to nil.
func (d *Document) ResolveStyle(_ context.Context, id string) (*Style, error) {
	if d == nil {
		return nil, nil
	}
	return d.Styles[id], nil
}

// ResolveDefinition returns the component definition behind an instance.
func (d *Document) ResolveDefinition(_ context.Context, instance *Frame) (*Definition, error) {
	if d == nil || instance == nil || instance.MainComponentID == "" {
		return nil, nil
	}
	return d.Definitions[instance.MainComponentID], nil
}

// Find returns the node with the given id, searching in pre-order.
func (d *Document) Find(id string) Node {
	var found Node
	Walk(d.Nodes, func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Header().ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Subset returns the nodes matching ids, in the order given. Unknown ids are skipped.
func (d *Document) Subset(ids []string) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n := d.Find(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ContainerOf returns the id of the nearest container ancestor of the node
// with the given id, or "" when the node is top-level or unknown.
func (d *Document) ContainerOf(id string) string {
	var search func(nodes []Node, container string) (string, bool)
	search = func(nodes []Node, container string) (string, bool) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			h := n.Header()
			if h.ID == id {
				return container, true
			}
			next := container
			if h.Type.IsContainer() {
				next = h.ID
			}
			if found, ok := search(h.Children, next); ok {
				return found, true
			}
		}
		return "", false
	}
	container, _ := search(d.Nodes, "")
	return container
}

// Package lint audits a forest of design nodes against approved libraries
// and saved tokens and reports every visual property that is not traceable
// to an approved token, plus component instances whose definition is gone.
package lint

import (
	"github.com/gnana997/tokenlint/pkg/catalog"
)

// FindingType is the family a finding belongs to.
type FindingType string

const (
	TypeFill             FindingType = "fill"
	TypeStroke           FindingType = "stroke"
	TypeEffects          FindingType = "effects"
	TypeText             FindingType = "text"
	TypeRadius           FindingType = "radius"
	TypeGap              FindingType = "gap"
	TypePadding          FindingType = "padding"
	TypeRestoreComponent FindingType = "restore-component"
	TypeError            FindingType = "error"
	TypeUnknown          FindingType = "unknown"
)

// NodeRef is an embedded node record some producers attach instead of
// top-level nodeId/nodeName.
type NodeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Finding is one nonconformance or structural break for one node and one family.
type Finding struct {
	Type          FindingType          `json:"type"`
	NodeID        string               `json:"nodeId"`
	NodeName      string               `json:"nodeName"`
	Message       string               `json:"message"`
	Value         string               `json:"value"`
	Suggestions   []catalog.Suggestion `json:"suggestions"`
	Property      string               `json:"property,omitempty"`
	ParentFrameID *string              `json:"parentFrameId"`
	Count         int                  `json:"count"`
	Nodes         []string             `json:"nodes"`
	Matches       []catalog.Suggestion `json:"matches"`
	Node          *NodeRef             `json:"node,omitempty"`
}

// Finding messages.
const (
	msgFillNoStyle     = "Fill is not using a color style from an approved library."
	msgStrokeNoStyle   = "Stroke is not using a color style from an approved library."
	msgEffectNoStyle   = "Effect is not using an effect style from an approved library."
	msgUnapproved      = "Style not from an approved library or has been modified."
	msgMixed           = "Mixed values across the selection; check each layer individually."
	msgTextNoStyle     = "Text is not using a text style from an approved library."
	msgTextMixed       = "Text uses mixed styles; apply a single text style."
	msgTextError       = "Could not verify the text style."
	msgRadiusUnbound   = "Corner radius is not bound to a radius variable."
	msgGapUnbound      = "Item spacing is not bound to a gap variable."
	msgDefMissing      = "Main component could not be found."
	msgDefRemoved      = "Main component has been deleted."
	msgDefOrphaned     = "Main component is no longer attached to any page."
	msgDefUnresolvable = "Main component could not be resolved."
	msgUnknownError    = "Unknown error."

	valueCheckFailed = "Erro na verificação"
)

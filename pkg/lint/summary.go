package lint

import "sort"

// Summary counts findings per type and lists the affected nodes.
type Summary struct {
	Total  int                 `json:"total"`
	ByType map[FindingType]int `json:"by_type"`
	Nodes  []NodeSummary       `json:"nodes"`
}

// NodeSummary is the finding count for one node.
type NodeSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Findings int           `json:"findings"`
	Types    []FindingType `json:"types"`
}

// Summarize groups findings by node, keeping first-seen order.
func Summarize(findings []Finding) Summary {
	s := Summary{
		Total:  len(findings),
		ByType: make(map[FindingType]int),
		Nodes:  []NodeSummary{},
	}
	pos := make(map[string]int)

	for _, f := range findings {
		s.ByType[f.Type]++

		i, ok := pos[f.NodeID]
		if !ok {
			i = len(s.Nodes)
			pos[f.NodeID] = i
			s.Nodes = append(s.Nodes, NodeSummary{ID: f.NodeID, Name: f.NodeName})
		}
		ns := &s.Nodes[i]
		ns.Findings++
		if !containsType(ns.Types, f.Type) {
			ns.Types = append(ns.Types, f.Type)
		}
	}

	for i := range s.Nodes {
		sort.Slice(s.Nodes[i].Types, func(a, b int) bool { return s.Nodes[i].Types[a] < s.Nodes[i].Types[b] })
	}
	return s
}

func containsType(list []FindingType, t FindingType) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

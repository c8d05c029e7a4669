package lint

import (
	"encoding/json"

	"github.com/spf13/cast"

	"github.com/gnana997/tokenlint/pkg/catalog"
)

// Merge puts broken-instance findings ahead of rule findings and normalizes both.
func Merge(broken, rules []Finding) []Finding {
	out := make([]Finding, 0, len(broken)+len(rules))
	for _, f := range broken {
		out = append(out, Normalize(f))
	}
	for _, f := range rules {
		out = append(out, Normalize(f))
	}
	return out
}

// Normalize fills every absent field with its default.
func Normalize(f Finding) Finding {
	if f.Node != nil {
		if f.NodeID == "" {
			f.NodeID = f.Node.ID
		}
		if f.NodeName == "" {
			f.NodeName = f.Node.Name
		}
	}
	if f.Type == "" {
		f.Type = TypeUnknown
	}
	if f.Message == "" {
		f.Message = msgUnknownError
	}
	if f.Count <= 0 {
		f.Count = 1
	}
	if len(f.Nodes) == 0 {
		f.Nodes = []string{f.NodeID}
	}
	if f.Suggestions == nil {
		f.Suggestions = []catalog.Suggestion{}
	}
	if f.Matches == nil {
		f.Matches = []catalog.Suggestion{}
	}
	return f
}

// NormalizeRecord converts a loosely shaped finding record (for example one
// read back from a saved report) into a normalized Finding. It never panics;
// fields it cannot interpret fall back to defaults.
func NormalizeRecord(rec map[string]any) (f Finding) {
	defer func() {
		if recover() != nil {
			f = Normalize(Finding{NodeID: f.NodeID, NodeName: f.NodeName, Type: f.Type})
		}
	}()
	if rec == nil {
		return Normalize(Finding{})
	}

	f.Type = FindingType(cast.ToString(rec["type"]))
	f.NodeID = cast.ToString(rec["nodeId"])
	f.NodeName = cast.ToString(rec["nodeName"])
	f.Message = cast.ToString(rec["message"])
	f.Value = cast.ToString(rec["value"])
	f.Property = cast.ToString(rec["property"])
	f.Count = cast.ToInt(rec["count"])

	if parent := cast.ToString(rec["parentFrameId"]); parent != "" {
		f.ParentFrameID = &parent
	}
	if node, ok := rec["node"].(map[string]any); ok {
		f.Node = &NodeRef{ID: cast.ToString(node["id"]), Name: cast.ToString(node["name"])}
	}
	if nodes, ok := rec["nodes"].([]any); ok {
		for _, n := range nodes {
			if id := cast.ToString(n); id != "" {
				f.Nodes = append(f.Nodes, id)
			}
		}
	}
	f.Suggestions = decodeSuggestions(rec["suggestions"])
	f.Matches = decodeSuggestions(rec["matches"])

	return Normalize(f)
}

// NormalizeRecords applies NormalizeRecord to every record.
func NormalizeRecords(records []map[string]any) []Finding {
	out := make([]Finding, 0, len(records))
	for _, rec := range records {
		out = append(out, NormalizeRecord(rec))
	}
	return out
}

func decodeSuggestions(raw any) []catalog.Suggestion {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]catalog.Suggestion, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		data, err := json.Marshal(m)
		if err != nil {
			continue
		}
		var s catalog.Suggestion
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

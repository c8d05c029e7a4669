package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gnana997/tokenlint/pkg/lint"
)

const maxWidth = 80

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printReportText prints a human-readable audit report: findings grouped
// by node in first-seen order, then the per-type counts.
func printReportText(w io.Writer, title string, findings []lint.Finding, summary lint.Summary) {
	fmt.Fprintln(w, title)
	if summary.Total == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No findings.")
		return
	}

	byNode := make(map[string][]lint.Finding, len(summary.Nodes))
	for _, f := range findings {
		byNode[f.NodeID] = append(byNode[f.NodeID], f)
	}

	for _, n := range summary.Nodes {
		fmt.Fprintln(w)
		header := n.Name
		if header == "" {
			header = "(unnamed)"
		}
		fmt.Fprintf(w, "%s  [%s]\n", header, n.ID)

		typeW := 0
		for _, f := range byNode[n.ID] {
			if len(f.Type) > typeW {
				typeW = len(f.Type)
			}
		}
		for _, f := range byNode[n.ID] {
			line := fmt.Sprintf("  %-*s  %s", typeW, f.Type, f.Message)
			if f.Value != "" {
				line += "  (" + f.Value + ")"
			}
			fmt.Fprintln(w, line)
			if len(f.Suggestions) > 0 {
				names := make([]string, len(f.Suggestions))
				for i, s := range f.Suggestions {
					names[i] = s.Name
				}
				printWrapped(w, "suggestions: "+strings.Join(names, ", "), typeW+4, maxWidth)
			}
		}
	}

	fmt.Fprintln(w)
	printTypeCounts(w, summary)
}

// printTypeCounts renders the per-type table, most frequent first.
func printTypeCounts(w io.Writer, summary lint.Summary) {
	types := make([]lint.FindingType, 0, len(summary.ByType))
	nameW := len("TYPE")
	for t := range summary.ByType {
		types = append(types, t)
		if len(t) > nameW {
			nameW = len(t)
		}
	}
	sort.Slice(types, func(i, j int) bool {
		a, b := summary.ByType[types[i]], summary.ByType[types[j]]
		if a != b {
			return a > b
		}
		return types[i] < types[j]
	})

	fmt.Fprintf(w, "  %-*s  %s\n", nameW, "TYPE", "COUNT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", nameW+7))
	for _, t := range types {
		fmt.Fprintf(w, "  %-*s  %d\n", nameW, t, summary.ByType[t])
	}
	fmt.Fprintf(w, "  %-*s  %d findings on %d nodes\n", nameW, "total", summary.Total, len(summary.Nodes))
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else {
			if line == prefix {
				line += word
			} else {
				line += " " + word
			}
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}

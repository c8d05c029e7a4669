package tokensrc

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// maxDepth bounds identifier indirection and literal nesting.
const maxDepth = 32

// evaluator turns literal expressions into plain Go values: map[string]any,
// []any, string, float64, bool or nil. Identifiers resolve to top-level
// const declarations of the same module.
type evaluator struct {
	source []byte
	consts map[string]*ts.Node
}

// eval returns the value of n and whether n was a supported literal.
func (e *evaluator) eval(n *ts.Node, depth int) (any, bool) {
	if n == nil || depth > maxDepth {
		return nil, false
	}

	switch n.Kind() {
	case "object":
		return e.object(n, depth)
	case "array":
		return e.array(n, depth)
	case "string":
		return stringValue(n, e.source), true
	case "template_string":
		return templateValue(n, e.source)
	case "number":
		return numberValue(n.Utf8Text(e.source))
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "undefined":
		return nil, true
	case "unary_expression":
		return e.unary(n, depth)
	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
		return e.eval(firstNamed(n), depth+1)
	case "identifier":
		if decl, ok := e.consts[n.Utf8Text(e.source)]; ok {
			return e.eval(decl, depth+1)
		}
	}
	return nil, false
}

func (e *evaluator) object(n *ts.Node, depth int) (any, bool) {
	out := make(map[string]any)
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() != "pair" {
			continue
		}
		key := propertyKey(child.ChildByFieldName("key"), e.source)
		if key == "" {
			continue
		}
		if v, ok := e.eval(child.ChildByFieldName("value"), depth+1); ok {
			out[key] = v
		}
	}
	return out, true
}

func (e *evaluator) array(n *ts.Node, depth int) (any, bool) {
	out := []any{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		if v, ok := e.eval(child, depth+1); ok {
			out = append(out, v)
		}
	}
	return out, true
}

func (e *evaluator) unary(n *ts.Node, depth int) (any, bool) {
	op := n.ChildByFieldName("operator")
	v, ok := e.eval(n.ChildByFieldName("argument"), depth+1)
	if op == nil || !ok {
		return nil, false
	}
	f, isNum := v.(float64)
	switch op.Utf8Text(e.source) {
	case "-":
		if isNum {
			return -f, true
		}
	case "+":
		if isNum {
			return f, true
		}
	}
	return nil, false
}

func firstNamed(n *ts.Node) *ts.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

// propertyKey reads identifier, string and numeric keys. Computed keys are skipped.
func propertyKey(n *ts.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "property_identifier", "identifier":
		return n.Utf8Text(source)
	case "string":
		return stringValue(n, source)
	case "number":
		if v, ok := numberValue(n.Utf8Text(source)); ok {
			return strconv.FormatFloat(v.(float64), 'f', -1, 64)
		}
	}
	return ""
}

func stringValue(n *ts.Node, source []byte) string {
	var b strings.Builder
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(child.Utf8Text(source))
		case "escape_sequence":
			b.WriteString(unescape(child.Utf8Text(source)))
		}
	}
	return b.String()
}

func templateValue(n *ts.Node, source []byte) (any, bool) {
	var b strings.Builder
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "template_substitution":
			return nil, false
		case "string_fragment":
			b.WriteString(child.Utf8Text(source))
		case "escape_sequence":
			b.WriteString(unescape(child.Utf8Text(source)))
		}
	}
	return b.String(), true
}

func unescape(seq string) string {
	switch seq {
	case `\'`:
		return "'"
	case "\\`":
		return "`"
	}
	if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return s
	}
	return strings.TrimPrefix(seq, `\`)
}

func numberValue(text string) (any, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, true
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	return nil, false
}

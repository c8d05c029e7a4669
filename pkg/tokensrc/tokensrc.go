// Package tokensrc reads saved tokens from TypeScript and JavaScript modules
// by evaluating their exported literal with tree-sitter. No code is run.
package tokensrc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/parser"
)

// ErrNoTokens is returned when a module has no literal to read tokens from.
var ErrNoTokens = errors.New("no token literal found")

// Loader evaluates token modules. It is safe for concurrent use.
type Loader struct {
	parsers *parser.Manager
	logger  *slog.Logger
}

// NewLoader creates a Loader over a shared parser manager.
func NewLoader(parsers *parser.Manager, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{parsers: parsers, logger: logger}
}

// LoadFile reads and evaluates the module at path.
func (l *Loader) LoadFile(path string) ([]catalog.SavedToken, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token module: %w", err)
	}
	return l.Load(path, source)
}

// Load evaluates source. The grammar is chosen from path's extension.
//
// The value read is the first of: export default, an exported const, a
// module.exports assignment, a top-level const. Arrays must hold {name,
// value} records; objects map token names to values, with nested groups
// flattened into "group/name".
func (l *Loader) Load(path string, source []byte) ([]catalog.SavedToken, error) {
	tree, err := l.parsers.ParseFile(path, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstError(root); bad != nil {
		pos := bad.StartPosition()
		return nil, fmt.Errorf("%s:%d:%d: syntax error", path, pos.Row+1, pos.Column+1)
	}

	consts := topLevelConsts(root, source)
	ev := &evaluator{source: source, consts: consts}
	target := exportedValue(root, source, consts)
	if target == nil {
		target = firstConst(root)
	}
	if target == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTokens)
	}

	value, ok := ev.eval(target, 0)
	if !ok {
		return nil, fmt.Errorf("%s: exported value is not a literal: %w", path, ErrNoTokens)
	}
	tokens := toTokens(value)
	l.logger.Debug("loaded token module", "path", path, "tokens", len(tokens))
	return tokens, nil
}

func firstError(n *ts.Node) *ts.Node {
	if n == nil || !n.HasError() {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return n
}

// declarators yields the variable declarators of a lexical or var declaration.
func declarators(decl *ts.Node) []*ts.Node {
	if decl == nil {
		return nil
	}
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
	default:
		return nil
	}
	var out []*ts.Node
	for i := uint(0); i < decl.NamedChildCount(); i++ {
		if child := decl.NamedChild(i); child.Kind() == "variable_declarator" {
			out = append(out, child)
		}
	}
	return out
}

func topLevelConsts(root *ts.Node, source []byte) map[string]*ts.Node {
	consts := make(map[string]*ts.Node)
	add := func(decl *ts.Node) {
		for _, d := range declarators(decl) {
			name, value := d.ChildByFieldName("name"), d.ChildByFieldName("value")
			if name != nil && value != nil && name.Kind() == "identifier" {
				consts[name.Utf8Text(source)] = value
			}
		}
	}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "lexical_declaration", "variable_declaration":
			add(child)
		case "export_statement":
			add(child.ChildByFieldName("declaration"))
		}
	}
	return consts
}

// exportedValue finds the expression the module exports, in source order.
func exportedValue(root *ts.Node, source []byte, consts map[string]*ts.Node) *ts.Node {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "export_statement":
			if v := child.ChildByFieldName("value"); v != nil {
				return v
			}
			for _, d := range declarators(child.ChildByFieldName("declaration")) {
				if v := d.ChildByFieldName("value"); v != nil {
					return v
				}
			}
			if v := exportClauseValue(child, source, consts); v != nil {
				return v
			}
		case "expression_statement":
			expr := firstNamed(child)
			if expr == nil || expr.Kind() != "assignment_expression" {
				continue
			}
			left := expr.ChildByFieldName("left")
			if left != nil && left.Utf8Text(source) == "module.exports" {
				return expr.ChildByFieldName("right")
			}
		}
	}
	return nil
}

// exportClauseValue handles `export { tokens }` by returning the first
// specifier's const initializer.
func exportClauseValue(stmt *ts.Node, source []byte, consts map[string]*ts.Node) *ts.Node {
	for i := uint(0); i < stmt.NamedChildCount(); i++ {
		clause := stmt.NamedChild(i)
		if clause.Kind() != "export_clause" {
			continue
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			spec := clause.NamedChild(j)
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			if v, ok := consts[name.Utf8Text(source)]; ok {
				return v
			}
		}
	}
	return nil
}

func firstConst(root *ts.Node) *ts.Node {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		for _, d := range declarators(root.NamedChild(i)) {
			if v := d.ChildByFieldName("value"); v != nil {
				return v
			}
		}
	}
	return nil
}

// toTokens maps an evaluated literal onto saved tokens.
func toTokens(value any) []catalog.SavedToken {
	tokens := []catalog.SavedToken{}
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := rec["name"].(string)
			val, ok := rec["value"].(map[string]any)
			if name == "" || !ok {
				continue
			}
			tokens = append(tokens, catalog.SavedToken{Name: name, Value: val})
		}
	case map[string]any:
		flatten("", v, &tokens, 0)
	}
	return tokens
}

// flatten walks nested groups. A map is a token when it carries a "value"
// object or any value key the matcher understands.
func flatten(prefix string, group map[string]any, out *[]catalog.SavedToken, depth int) {
	if depth > maxDepth {
		return
	}
	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m, ok := group[k].(map[string]any)
		if !ok {
			continue
		}
		name := k
		if prefix != "" {
			name = prefix + "/" + k
		}
		if inner, ok := m["value"].(map[string]any); ok {
			*out = append(*out, catalog.SavedToken{Name: name, Value: inner})
			continue
		}
		if isTokenValue(m) {
			*out = append(*out, catalog.SavedToken{Name: name, Value: m})
			continue
		}
		flatten(name, m, out, depth+1)
	}
}

var valueKeys = []string{
	"r", "g", "b", "color", "hex",
	"fontFamily", "fontWeight", "fontSize", "lineHeight", "letterSpacing",
	"textCase", "textDecoration", "paragraphIndent", "paragraphSpacing",
}

func isTokenValue(m map[string]any) bool {
	for _, k := range valueKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

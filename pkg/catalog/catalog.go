// Package catalog loads approved style libraries and saved tokens and builds
// the lookup sets the linter consults.
package catalog

import (
	"errors"
	"fmt"

	"github.com/gnana997/tokenlint/pkg/scene"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// StyleCatalog holds the approved style ids of every supplied library.
// Strokes is the same set as Fills. It is read-only after BuildIndex.
type StyleCatalog struct {
	Fills   map[string]struct{}
	Text    map[string]struct{}
	Effects map[string]struct{}
	Strokes map[string]struct{}
}

// HasFill reports whether id is an approved paint style.
func (c *StyleCatalog) HasFill(id string) bool { return has(c.Fills, id) }

// HasStroke reports whether id is an approved stroke style.
func (c *StyleCatalog) HasStroke(id string) bool { return has(c.Strokes, id) }

// HasText reports whether id is an approved text style.
func (c *StyleCatalog) HasText(id string) bool { return has(c.Text, id) }

// HasEffect reports whether id is an approved effect style.
func (c *StyleCatalog) HasEffect(id string) bool { return has(c.Effects, id) }

func has(set map[string]struct{}, id string) bool {
	if set == nil || id == "" {
		return false
	}
	_, ok := set[id]
	return ok
}

// Index is computed once per audit: the approved-id sets plus the flattened
// suggestion lists per family.
type Index struct {
	Styles *StyleCatalog

	fills   []Suggestion
	text    []Suggestion
	effects []Suggestion
	radius  []Suggestion
	gaps    []Suggestion
}

// BuildIndex collects approved style ids and suggestions from libs.
// Entries without an id are skipped; duplicate ids collapse to the first.
func BuildIndex(libs []Library) *Index {
	fills := make(map[string]struct{})
	styles := &StyleCatalog{
		Fills:   fills,
		Text:    make(map[string]struct{}),
		Effects: make(map[string]struct{}),
		Strokes: fills,
	}
	idx := &Index{Styles: styles}

	for i := range libs {
		lib := &libs[i]
		idx.fills = appendStyles(idx.fills, styles.Fills, lib.Fills)
		idx.text = appendStyles(idx.text, styles.Text, lib.Text)
		idx.effects = appendStyles(idx.effects, styles.Effects, lib.Effects)
		idx.radius = appendVariables(idx.radius, lib.Radius)
		idx.gaps = appendVariables(idx.gaps, lib.Gaps)
	}

	return idx
}

func appendStyles(out []Suggestion, set map[string]struct{}, entries []StyleEntry) []Suggestion {
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := set[e.ID]; dup {
			continue
		}
		set[e.ID] = struct{}{}
		out = append(out, Suggestion{ID: e.ID, Name: e.Name, Key: e.Key, Paint: e.Paint})
	}
	return out
}

func appendVariables(out []Suggestion, entries []VariableEntry) []Suggestion {
	for _, e := range entries {
		if e.ID == "" || containsID(out, e.ID) {
			continue
		}
		value := e.Value
		out = append(out, Suggestion{
			ID:    e.ID,
			Name:  e.Name,
			Value: &value,
			Paint: &scene.Paint{Type: VariableMarker},
		})
	}
	return out
}

func containsID(list []Suggestion, id string) bool {
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Validate reports structural problems in the bundle. None of them stop an
// audit: malformed entries are skipped by BuildIndex.
func (b *Bundle) Validate() []error {
	var errs []error

	for i, lib := range b.Libraries {
		label := lib.Name
		if label == "" {
			label = fmt.Sprintf("libraries[%d]", i)
		}
		errs = append(errs, validateStyles(label, "fills", lib.Fills)...)
		errs = append(errs, validateStyles(label, "text", lib.Text)...)
		errs = append(errs, validateStyles(label, "effects", lib.Effects)...)
		errs = append(errs, validateStyles(label, "grids", lib.Grids)...)
		for j, v := range lib.Radius {
			if v.ID == "" {
				errs = append(errs, fmt.Errorf("library %q radius[%d]: id is required", label, j))
			}
		}
		for j, v := range lib.Gaps {
			if v.ID == "" {
				errs = append(errs, fmt.Errorf("library %q gaps[%d]: id is required", label, j))
			}
		}
	}

	for i, tok := range b.Tokens {
		if tok.Name == "" {
			errs = append(errs, fmt.Errorf("tokens[%d]: name is required", i))
		}
		if len(tok.Value) == 0 {
			errs = append(errs, fmt.Errorf("tokens[%d]: value is required", i))
		}
	}

	return errs
}

func validateStyles(label, family string, entries []StyleEntry) []error {
	var errs []error
	seen := make(map[string]bool, len(entries))
	for j, e := range entries {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("library %q %s[%d]: id is required", label, family, j))
			continue
		}
		if seen[e.ID] {
			errs = append(errs, fmt.Errorf("library %q %s: duplicate style id %q", label, family, e.ID))
			continue
		}
		seen[e.ID] = true
	}
	return errs
}

// Merge concatenates bundles in order.
func Merge(bundles ...*Bundle) *Bundle {
	out := &Bundle{}
	for _, b := range bundles {
		if b == nil {
			continue
		}
		out.Libraries = append(out.Libraries, b.Libraries...)
		out.Tokens = append(out.Tokens, b.Tokens...)
	}
	return out
}

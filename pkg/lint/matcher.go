package lint

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/scene"
)

const (
	colorTolerance   = 0.01
	measureTolerance = 0.1
	defaultWeight    = 400
)

const (
	unitPixels  = "PIXELS"
	unitPercent = "PERCENT"
)

// fontWeights maps normalized weight names to numeric weights.
var fontWeights = map[string]int{
	"thin":       100,
	"hairline":   100,
	"extralight": 200,
	"ultralight": 200,
	"light":      300,
	"regular":    400,
	"normal":     400,
	"book":       400,
	"medium":     500,
	"semibold":   600,
	"demibold":   600,
	"bold":       700,
	"extrabold":  800,
	"ultrabold":  800,
	"black":      900,
	"heavy":      900,
}

// typographyKeys are the token properties the typography matcher understands.
var typographyKeys = []string{
	"fontFamily", "fontWeight", "fontSize", "lineHeight", "letterSpacing",
	"textCase", "textDecoration", "paragraphIndent", "paragraphSpacing",
}

// Matcher decides whether a style is approved, either by library membership
// or by equivalence to a saved token. It never panics or returns errors:
// anything it cannot interpret counts as not approved.
type Matcher struct {
	styles *catalog.StyleCatalog
	colors []scene.Color
	types  []map[string]any
}

// NewMatcher pre-sorts tokens into color and typography candidates.
func NewMatcher(styles *catalog.StyleCatalog, tokens []catalog.SavedToken) *Matcher {
	if styles == nil {
		styles = catalog.BuildIndex(nil).Styles
	}
	m := &Matcher{styles: styles}
	for _, tok := range tokens {
		if c, ok := tokenColor(tok.Value); ok {
			m.colors = append(m.colors, c)
		}
		if isTypographyToken(tok.Value) {
			m.types = append(m.types, tok.Value)
		}
	}
	return m
}

// ColorApproved reports whether a paint style id is approved for a node
// whose relevant paints are given.
func (m *Matcher) ColorApproved(styleID string, paints []scene.Paint) bool {
	if m.styles.HasFill(styleID) {
		return true
	}
	return m.colorMatchesToken(paints)
}

// EffectApproved only consults the library sets; saved tokens do not cover effects.
func (m *Matcher) EffectApproved(styleID string) bool {
	return m.styles.HasEffect(styleID)
}

// TextInLibrary reports library membership of a text style id.
func (m *Matcher) TextInLibrary(styleID string) bool {
	return m.styles.HasText(styleID)
}

// TextMatchesToken reports whether the resolved text style equals some saved
// typography token on every property that token specifies.
func (m *Matcher) TextMatchesToken(style *scene.Style) (matched bool) {
	if style == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()
	for _, tok := range m.types {
		if typographyMatches(&style.TextStyle, tok) {
			return true
		}
	}
	return false
}

func (m *Matcher) colorMatchesToken(paints []scene.Paint) bool {
	p, ok := firstVisiblePaint(paints)
	if !ok || p.Type != scene.PaintSolid || p.Color == nil {
		return false
	}
	// Paint opacity is layer state, not part of the color.
	for _, tok := range m.colors {
		if colorsEqual(*p.Color, tok) {
			return true
		}
	}
	return false
}

func colorsEqual(a, b scene.Color) bool {
	if !near(a.R, b.R, colorTolerance) || !near(a.G, b.G, colorTolerance) || !near(a.B, b.B, colorTolerance) {
		return false
	}
	if a.A != nil && b.A != nil {
		return near(*a.A, *b.A, colorTolerance)
	}
	return true
}

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// tokenColor extracts an RGBA tuple from {r,g,b,a}, {color: {...}}, or a
// hex string under "color" or "hex".
func tokenColor(value map[string]any) (c scene.Color, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if value == nil {
		return c, false
	}
	if nested, found := value["color"]; found {
		switch v := nested.(type) {
		case map[string]any:
			return channelsFrom(v)
		case string:
			return parseHex(v)
		}
		return c, false
	}
	if hex, found := value["hex"].(string); found {
		return parseHex(hex)
	}
	return channelsFrom(value)
}

func channelsFrom(v map[string]any) (scene.Color, bool) {
	var c scene.Color
	var err error
	for key, dst := range map[string]*float64{"r": &c.R, "g": &c.G, "b": &c.B} {
		raw, found := v[key]
		if !found {
			return scene.Color{}, false
		}
		if *dst, err = cast.ToFloat64E(raw); err != nil {
			return scene.Color{}, false
		}
	}
	if raw, found := v["a"]; found && raw != nil {
		a, err := cast.ToFloat64E(raw)
		if err != nil {
			return scene.Color{}, false
		}
		c.A = &a
	}
	return c, true
}

func parseHex(s string) (scene.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return scene.Color{}, false
	}
	var ch [4]float64
	for i := 0; i < len(s)/2; i++ {
		n, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return scene.Color{}, false
		}
		ch[i] = float64(n) / 255
	}
	c := scene.Color{R: ch[0], G: ch[1], B: ch[2]}
	if len(s) == 8 {
		a := ch[3]
		c.A = &a
	}
	return c, true
}

func isTypographyToken(value map[string]any) bool {
	for _, key := range typographyKeys {
		if _, ok := value[key]; ok {
			return true
		}
	}
	return false
}

// typographyMatches checks each property the token specifies and stops at
// the first mismatch.
func typographyMatches(style *scene.TextStyle, tok map[string]any) bool {
	if raw, ok := tok["fontFamily"]; ok {
		family, err := cast.ToStringE(raw)
		if err != nil || style.FontName == nil {
			return false
		}
		if normalizeFamily(family) != normalizeFamily(style.FontName.Family) {
			return false
		}
	}

	if raw, ok := tok["fontWeight"]; ok {
		liveStyle := ""
		if style.FontName != nil {
			liveStyle = style.FontName.Style
		}
		if weightOf(raw) != weightOf(liveStyle) {
			return false
		}
	}

	if raw, ok := tok["fontSize"]; ok {
		size, err := cast.ToFloat64E(raw)
		if err != nil || !near(size, style.FontSize, measureTolerance) {
			return false
		}
	}

	for key, live := range map[string]any{"lineHeight": style.LineHeight, "letterSpacing": style.LetterSpacing} {
		raw, ok := tok[key]
		if !ok {
			continue
		}
		want, okWant := normalizeMeasure(raw)
		got, okGot := normalizeMeasure(live)
		if !okWant || !okGot || want.unit != got.unit || !near(want.value, got.value, measureTolerance) {
			return false
		}
	}

	if raw, ok := tok["textCase"]; ok {
		if s, err := cast.ToStringE(raw); err != nil || s != style.TextCase {
			return false
		}
	}
	if raw, ok := tok["textDecoration"]; ok {
		if s, err := cast.ToStringE(raw); err != nil || s != style.TextDecoration {
			return false
		}
	}

	if raw, ok := tok["paragraphIndent"]; ok {
		v, err := cast.ToFloat64E(raw)
		if err != nil || !near(v, style.ParagraphIndent, measureTolerance) {
			return false
		}
	}
	if raw, ok := tok["paragraphSpacing"]; ok {
		v, err := cast.ToFloat64E(raw)
		if err != nil || !near(v, style.ParagraphSpacing, measureTolerance) {
			return false
		}
	}

	return true
}

// normalizeFamily lowercases and drops spaces and punctuation.
func normalizeFamily(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// weightOf maps a numeric or named weight ("Semi Bold", "700italic") to a number.
func weightOf(raw any) int {
	switch v := raw.(type) {
	case nil:
		return defaultWeight
	case string:
		return namedWeight(v)
	default:
		n, err := cast.ToIntE(v)
		if err != nil || n <= 0 {
			return defaultWeight
		}
		return n
	}
}

func namedWeight(s string) int {
	key := normalizeFamily(s)
	if key == "" {
		return defaultWeight
	}
	if w, ok := fontWeights[key]; ok {
		return w
	}
	for _, suffix := range []string{"italic", "oblique"} {
		if trimmed := strings.TrimSuffix(key, suffix); trimmed != key {
			if trimmed == "" {
				return defaultWeight
			}
			if w, ok := fontWeights[trimmed]; ok {
				return w
			}
		}
	}

	end := 0
	for end < len(key) && key[end] >= '0' && key[end] <= '9' {
		end++
	}
	if end > 0 {
		if n, err := strconv.Atoi(key[:end]); err == nil && n > 0 {
			return n
		}
	}
	return defaultWeight
}

type measure struct {
	unit  string
	value float64
}

// normalizeMeasure turns a bare number (pixels), a "150%" string (percent),
// or a {unit, value} object into a measure.
func normalizeMeasure(raw any) (measure, bool) {
	switch v := raw.(type) {
	case nil:
		return measure{}, false
	case string:
		s := strings.TrimSpace(v)
		if strings.HasSuffix(s, "%") {
			n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
			if err != nil {
				return measure{}, false
			}
			return measure{unit: unitPercent, value: n}, true
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "px")), 64)
		if err != nil {
			return measure{}, false
		}
		return measure{unit: unitPixels, value: n}, true
	case map[string]any:
		unit, err := cast.ToStringE(v["unit"])
		if err != nil || unit == "" {
			return measure{}, false
		}
		unit = strings.ToUpper(unit)
		rawValue, found := v["value"]
		if !found || rawValue == nil {
			if unit == "AUTO" {
				return measure{unit: unit}, true
			}
			return measure{}, false
		}
		n, err := cast.ToFloat64E(rawValue)
		if err != nil {
			return measure{}, false
		}
		return measure{unit: unit, value: n}, true
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return measure{}, false
		}
		return measure{unit: unitPixels, value: n}, true
	}
}

package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/scene"
)

func newTestMatcher(tokens ...catalog.SavedToken) *Matcher {
	idx := catalog.BuildIndex([]catalog.Library{coreLibrary()})
	return NewMatcher(idx.Styles, tokens)
}

func token(value map[string]any) catalog.SavedToken {
	return catalog.SavedToken{Name: "token", Value: value}
}

func TestMatcher_ColorApproved(t *testing.T) {
	m := newTestMatcher(
		token(map[string]any{"r": 1, "g": 0, "b": 0, "a": 1}),
		token(map[string]any{"color": map[string]any{"r": 0, "g": 0.5, "b": 0}}),
		token(map[string]any{"color": "#3366FF"}),
		token(map[string]any{"hex": "#11223380"}),
	)

	tests := []struct {
		name    string
		styleID string
		paints  []scene.Paint
		want    bool
	}{
		{"library style", "S:brand", nil, true},
		{"exact token", "S:x", []scene.Paint{solid(1, 0, 0)}, true},
		{"within tolerance", "S:x", []scene.Paint{solid(0.995, 0.005, 0)}, true},
		{"outside tolerance", "S:x", []scene.Paint{solid(0.98, 0, 0)}, false},
		{"nested color", "S:x", []scene.Paint{solid(0, 0.5, 0)}, true},
		{"hex string", "S:x", []scene.Paint{solid(0.2, 0.4, 1)}, true},
		{"gradient never matches", "S:x", []scene.Paint{{Type: scene.PaintGradientLinear}}, false},
		{"no paints", "S:x", nil, false},
		{"translucent paint vs opaque token", "S:x", []scene.Paint{{Type: scene.PaintSolid, Color: &scene.Color{R: 1}, Opacity: ptr(0.5)}}, false},
		{"alpha from opacity", "S:x", []scene.Paint{{Type: scene.PaintSolid, Color: &scene.Color{R: 17.0 / 255, G: 34.0 / 255, B: 51.0 / 255}, Opacity: ptr(0.5)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ColorApproved(tt.styleID, tt.paints))
		})
	}
}

func TestMatcher_IgnoresMalformedTokens(t *testing.T) {
	m := newTestMatcher(
		token(nil),
		token(map[string]any{"r": "red", "g": 0, "b": 0}),
		token(map[string]any{"color": "#12"}),
		token(map[string]any{"r": 1, "g": 0}),
	)
	assert.Empty(t, m.colors)
	assert.Empty(t, m.types)
	assert.False(t, m.ColorApproved("S:x", []scene.Paint{solid(1, 0, 0)}))
}

func TestMatcher_LibraryMembership(t *testing.T) {
	m := newTestMatcher()
	assert.True(t, m.EffectApproved("E:card"))
	assert.False(t, m.EffectApproved("E:other"))
	assert.True(t, m.TextInLibrary("T:body"))
	assert.False(t, m.TextInLibrary("S:brand"))
}

func textStyle(family, weight string, size float64) *scene.Style {
	return &scene.Style{Kind: scene.StyleText, TextStyle: scene.TextStyle{
		FontName: &scene.FontName{Family: family, Style: weight},
		FontSize: size,
	}}
}

func TestMatcher_TextMatchesToken(t *testing.T) {
	tests := []struct {
		name  string
		style *scene.Style
		token map[string]any
		want  bool
	}{
		{"family normalized", textStyle("Open Sans", "Regular", 14), map[string]any{"fontFamily": "open-sans"}, true},
		{"family differs", textStyle("Inter", "Regular", 14), map[string]any{"fontFamily": "Roboto"}, false},
		{"named weight", textStyle("Inter", "Semi Bold", 14), map[string]any{"fontWeight": "semibold"}, true},
		{"italic suffix", textStyle("Inter", "Bold Italic", 14), map[string]any{"fontWeight": 700}, true},
		{"numeric style prefix", textStyle("Inter", "700italic", 14), map[string]any{"fontWeight": "Bold"}, true},
		{"default weight", textStyle("Inter", "", 14), map[string]any{"fontWeight": 400}, true},
		{"weight differs", textStyle("Inter", "Light", 14), map[string]any{"fontWeight": 400}, false},
		{"size tolerance", textStyle("Inter", "Regular", 14), map[string]any{"fontSize": "14.1"}, true},
		{"size differs", textStyle("Inter", "Regular", 14), map[string]any{"fontSize": 15}, false},
		{"unrelated token", textStyle("Inter", "Regular", 14), map[string]any{"r": 1, "g": 0, "b": 0}, false},
		{"nil style", nil, map[string]any{"fontSize": 14}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatcher(token(tt.token))
			assert.Equal(t, tt.want, m.TextMatchesToken(tt.style))
		})
	}
}

func TestMatcher_TextMeasures(t *testing.T) {
	style := textStyle("Inter", "Regular", 16)
	style.LineHeight = map[string]any{"unit": "PERCENT", "value": 150}
	style.LetterSpacing = map[string]any{"unit": "PIXELS", "value": 0.5}
	style.TextCase = "UPPER"

	tests := []struct {
		name  string
		token map[string]any
		want  bool
	}{
		{"percent string", map[string]any{"lineHeight": "150%"}, true},
		{"percent object lower unit", map[string]any{"lineHeight": map[string]any{"unit": "percent", "value": 150}}, true},
		{"pixels vs percent", map[string]any{"lineHeight": 24}, false},
		{"letter spacing px string", map[string]any{"letterSpacing": "0.5px"}, true},
		{"letter spacing bare number", map[string]any{"letterSpacing": 0.55}, true},
		{"text case", map[string]any{"textCase": "UPPER"}, true},
		{"text case differs", map[string]any{"textCase": "LOWER"}, false},
		{"text decoration absent on style", map[string]any{"textDecoration": "UNDERLINE"}, false},
		{"every property", map[string]any{
			"fontFamily": "Inter", "fontWeight": "Regular", "fontSize": 16,
			"lineHeight": "150%", "letterSpacing": 0.5, "textCase": "UPPER",
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatcher(token(tt.token))
			assert.Equal(t, tt.want, m.TextMatchesToken(style))
		})
	}
}

func TestMatcher_AutoLineHeight(t *testing.T) {
	style := textStyle("Inter", "Regular", 16)
	style.LineHeight = map[string]any{"unit": "AUTO"}

	assert.True(t, newTestMatcher(token(map[string]any{"lineHeight": map[string]any{"unit": "auto"}})).TextMatchesToken(style))
	assert.False(t, newTestMatcher(token(map[string]any{"lineHeight": "120%"})).TextMatchesToken(style))
}

func TestWeightOf(t *testing.T) {
	assert.Equal(t, 400, weightOf(nil))
	assert.Equal(t, 400, weightOf("Italic"))
	assert.Equal(t, 900, weightOf("Black"))
	assert.Equal(t, 200, weightOf("Extra Light"))
	assert.Equal(t, 300, weightOf("300"))
	assert.Equal(t, 500, weightOf(500.0))
	assert.Equal(t, 400, weightOf("Condensed"))
	assert.Equal(t, 400, weightOf(-3))
}

package lint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gnana997/tokenlint/pkg/scene"
)

// paintLabels are the display names for non-solid paints.
var paintLabels = map[scene.PaintType]string{
	scene.PaintSolid:           "Sólido",
	scene.PaintGradientLinear:  "Gradiente linear",
	scene.PaintGradientRadial:  "Gradiente radial",
	scene.PaintGradientAngular: "Gradiente angular",
	scene.PaintGradientDiamond: "Gradiente diamante",
	scene.PaintImage:           "Imagem",
	scene.PaintVideo:           "Vídeo",
}

var effectLabels = map[scene.EffectType]string{
	scene.EffectDropShadow:     "Drop shadow",
	scene.EffectInnerShadow:    "Inner shadow",
	scene.EffectLayerBlur:      "Layer blur",
	scene.EffectBackgroundBlur: "Background blur",
}

// HexColor renders channels in [0,1] as uppercase RRGGBB, appending AA when
// the color is not fully opaque.
func HexColor(c scene.Color) string {
	hex := fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
	if a := c.Alpha(); a < 1 {
		hex += fmt.Sprintf("%02X", channel(a))
	}
	return hex
}

func channel(v float64) int {
	n := int(math.Round(v * 255))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// describePaint renders the first visible paint: hex for SOLID, a label otherwise.
func describePaint(paints []scene.Paint) string {
	p, ok := firstVisiblePaint(paints)
	if !ok {
		return ""
	}
	if p.Type == scene.PaintSolid && p.Color != nil {
		return HexColor(*p.Color)
	}
	return paintLabel(p.Type)
}

func paintLabel(t scene.PaintType) string {
	if label, ok := paintLabels[t]; ok {
		return label
	}
	return string(t)
}

// describeEffect renders shadows as "kind: x y blur color" and blurs as "kind: radius".
func describeEffect(effects []scene.Effect) string {
	e, ok := firstVisibleEffect(effects)
	if !ok {
		return ""
	}
	kind, known := effectLabels[e.Type]
	if !known {
		kind = string(e.Type)
	}

	switch e.Type {
	case scene.EffectDropShadow, scene.EffectInnerShadow:
		var offset scene.Vector
		if e.Offset != nil {
			offset = *e.Offset
		}
		color := "#000000"
		if e.Color != nil {
			color = HexColor(*e.Color)
		}
		return fmt.Sprintf("%s: %s %s %s %s", kind, px(offset.X), px(offset.Y), px(e.Radius), color)
	default:
		return fmt.Sprintf("%s: %s", kind, px(e.Radius))
	}
}

// px formats a length without trailing zeros: 8 -> "8px", 1.5 -> "1.5px".
func px(v float64) string {
	return number(v) + "px"
}

func number(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func firstVisiblePaint(paints []scene.Paint) (scene.Paint, bool) {
	for _, p := range paints {
		if p.IsVisible() {
			return p, true
		}
	}
	return scene.Paint{}, false
}

func firstVisibleEffect(effects []scene.Effect) (scene.Effect, bool) {
	for _, e := range effects {
		if e.IsVisible() {
			return e, true
		}
	}
	return scene.Effect{}, false
}

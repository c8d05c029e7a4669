package lint

import (
	"context"
	"fmt"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/scene"
)

// ruleContext is shared, read-only state for every rule in one audit.
type ruleContext struct {
	styles  StyleResolver
	matcher *Matcher
	index   *catalog.Index
}

// ruleResult is what a rule returns: findings, or the cause that kept it
// from deciding. Whether a cause is surfaced is up to the dispatcher.
type ruleResult struct {
	findings []Finding
	err      error
}

func found(f ...Finding) ruleResult { return ruleResult{findings: f} }

func failed(err error) ruleResult { return ruleResult{err: err} }

func newFinding(t FindingType, n scene.Node, message, value string, suggestions []catalog.Suggestion) Finding {
	h := n.Header()
	if suggestions == nil {
		suggestions = []catalog.Suggestion{}
	}
	return Finding{
		Type:        t,
		NodeID:      h.ID,
		NodeName:    h.Name,
		Message:     message,
		Value:       value,
		Suggestions: suggestions,
	}
}

func checkFills(ctx context.Context, rc *ruleContext, n scene.Node) ruleResult {
	node, ok := n.(scene.Filled)
	if !ok {
		return ruleResult{}
	}
	bag := node.FillBag()
	return checkPaints(ctx, rc, n, TypeFill, bag.Paints, bag.StyleID, msgFillNoStyle, rc.index.FillSuggestions)
}

func checkStrokes(ctx context.Context, rc *ruleContext, n scene.Node) ruleResult {
	node, ok := n.(scene.Stroked)
	if !ok {
		return ruleResult{}
	}
	bag := node.StrokeBag()
	return checkPaints(ctx, rc, n, TypeStroke, bag.Paints, bag.StyleID, msgStrokeNoStyle, rc.index.StrokeSuggestions)
}

// checkPaints is shared by fills and strokes: both are paint lists that may
// reference a color style.
func checkPaints(
	ctx context.Context,
	rc *ruleContext,
	n scene.Node,
	t FindingType,
	paints scene.Mixed[[]scene.Paint],
	styleID scene.Mixed[string],
	noStyle string,
	suggestions func() []catalog.Suggestion,
) ruleResult {
	if paints.IsMixed() || styleID.IsMixed() {
		return found(newFinding(t, n, msgMixed, "Mixed", nil))
	}

	list := paints.Value()
	if _, visible := firstVisiblePaint(list); !visible {
		return ruleResult{}
	}

	id := styleID.Value()
	if id == "" {
		return found(newFinding(t, n, noStyle, describePaint(list), suggestions()))
	}

	if rc.matcher.ColorApproved(id, list) {
		return ruleResult{}
	}

	style, err := rc.styles.ResolveStyle(ctx, id)
	if err != nil {
		return failed(fmt.Errorf("resolve %s style %q: %w", t, id, err))
	}
	value := describePaint(list)
	if style != nil && len(style.Paints) > 0 {
		if v := describePaint(style.Paints); v != "" {
			value = v
		}
	}
	return found(newFinding(t, n, msgUnapproved, value, suggestions()))
}

func checkEffects(ctx context.Context, rc *ruleContext, n scene.Node) ruleResult {
	node, ok := n.(scene.Effected)
	if !ok {
		return ruleResult{}
	}
	bag := node.EffectBag()
	if bag.List.IsMixed() || bag.StyleID.IsMixed() {
		return found(newFinding(TypeEffects, n, msgMixed, "Mixed", nil))
	}

	list := bag.List.Value()
	if _, visible := firstVisibleEffect(list); !visible {
		return ruleResult{}
	}

	id := bag.StyleID.Value()
	if id == "" {
		return found(newFinding(TypeEffects, n, msgEffectNoStyle, describeEffect(list), rc.index.EffectSuggestions()))
	}

	if rc.matcher.EffectApproved(id) {
		return ruleResult{}
	}

	style, err := rc.styles.ResolveStyle(ctx, id)
	if err != nil {
		return failed(fmt.Errorf("resolve effect style %q: %w", id, err))
	}
	value := describeEffect(list)
	if style != nil && len(style.Effects) > 0 {
		if v := describeEffect(style.Effects); v != "" {
			value = v
		}
	}
	return found(newFinding(TypeEffects, n, msgUnapproved, value, rc.index.EffectSuggestions()))
}

func checkText(ctx context.Context, rc *ruleContext, n scene.Node) ruleResult {
	node, ok := n.(*scene.Text)
	if !ok || node.Typography.Characters == "" {
		return ruleResult{}
	}
	typo := node.Typography

	if typo.StyleID.IsMixed() {
		return found(newFinding(TypeText, n, msgTextMixed, "Mixed", nil))
	}

	id := typo.StyleID.Value()
	if id == "" {
		if typo.FontName.IsMixed() || typo.FontSize.IsMixed() {
			return found(newFinding(TypeText, n, msgTextMixed, "Mixed", nil))
		}
		value := describeFont(typo.FontName.Value().Family, typo.FontSize.Value())
		return found(newFinding(TypeText, n, msgTextNoStyle, value, rc.index.TextSuggestions()))
	}

	if rc.matcher.TextInLibrary(id) {
		return ruleResult{}
	}

	style, err := rc.styles.ResolveStyle(ctx, id)
	if err != nil {
		return failed(fmt.Errorf("resolve text style %q: %w", id, err))
	}
	if rc.matcher.TextMatchesToken(style) {
		return ruleResult{}
	}

	value := describeFont(typo.FontName.Value().Family, typo.FontSize.Value())
	if style != nil && style.FontName != nil {
		value = describeFont(style.FontName.Family, style.FontSize)
	}
	return found(newFinding(TypeText, n, msgUnapproved, value, rc.index.TextSuggestions()))
}

func describeFont(family string, size float64) string {
	return fmt.Sprintf("%s %s", family, px(size))
}

// corner properties in the order they are checked when the uniform radius is mixed.
var cornerProperties = []string{"topLeftRadius", "topRightRadius", "bottomRightRadius", "bottomLeftRadius"}

func checkRadius(_ context.Context, rc *ruleContext, n scene.Node) ruleResult {
	node, ok := n.(scene.Rounded)
	if !ok {
		return ruleResult{}
	}
	h := n.Header()
	corners := node.CornerBag()

	if uniform, resolved := corners.Radius.Get(); resolved {
		if uniform == 0 || uniformRadiusBound(h) {
			return ruleResult{}
		}
		f := newFinding(TypeRadius, n, msgRadiusUnbound, px(uniform), rc.index.RadiusSuggestions())
		f.Property = "cornerRadius"
		return found(f)
	}

	values := []float64{corners.TopLeft, corners.TopRight, corners.BottomRight, corners.BottomLeft}
	var res ruleResult
	for i, prop := range cornerProperties {
		if values[i] == 0 || h.Bound(prop) {
			continue
		}
		f := newFinding(TypeRadius, n, msgRadiusUnbound, px(values[i]), rc.index.RadiusSuggestions())
		f.Property = prop
		res.findings = append(res.findings, f)
	}
	return res
}

// uniformRadiusBound accepts a binding on cornerRadius itself or on all four corners.
func uniformRadiusBound(h *scene.Header) bool {
	if h.Bound("cornerRadius") {
		return true
	}
	for _, prop := range cornerProperties {
		if !h.Bound(prop) {
			return false
		}
	}
	return true
}

func checkGap(_ context.Context, rc *ruleContext, n scene.Node) ruleResult {
	node, ok := n.(*scene.Frame)
	if !ok {
		return ruleResult{}
	}
	layout := node.Layout
	if layout.Mode != scene.LayoutHorizontal && layout.Mode != scene.LayoutVertical {
		return ruleResult{}
	}
	if layout.ItemSpacing <= 0 || node.Head.Bound("itemSpacing") {
		return ruleResult{}
	}
	f := newFinding(TypeGap, n, msgGapUnbound, px(layout.ItemSpacing), rc.index.GapSuggestions())
	f.Property = "itemSpacing"
	return found(f)
}

// checkPadding is dispatched like the other numeric rules but reports nothing
// yet: padding bindings are not audited.
func checkPadding(_ context.Context, _ *ruleContext, _ scene.Node) ruleResult {
	return ruleResult{}
}

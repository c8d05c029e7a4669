package lint

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gnana997/tokenlint/pkg/scene"
)

// rule is one family check and how the dispatcher treats it.
type rule struct {
	name  FindingType
	check func(context.Context, *ruleContext, scene.Node) ruleResult

	// concurrent rules query external styles and run as one batch per node.
	concurrent bool

	// surface turns a failure into a visible finding instead of a log line.
	surface bool
}

var (
	textRule    = rule{name: TypeText, check: checkText, concurrent: true, surface: true}
	fillRule    = rule{name: TypeFill, check: checkFills, concurrent: true}
	effectsRule = rule{name: TypeEffects, check: checkEffects, concurrent: true}
	strokeRule  = rule{name: TypeStroke, check: checkStrokes, concurrent: true}
	radiusRule  = rule{name: TypeRadius, check: checkRadius}
	gapRule     = rule{name: TypeGap, check: checkGap}
	paddingRule = rule{name: TypePadding, check: checkPadding}
)

var shapeRules = []rule{fillRule, effectsRule, strokeRule, radiusRule, gapRule, paddingRule}

// dispatchTable maps node types to their rules. Types not listed get none.
var dispatchTable = map[scene.NodeType][]rule{
	scene.TypeEllipse:          shapeRules,
	scene.TypePolygon:          shapeRules,
	scene.TypeVector:           shapeRules,
	scene.TypeStar:             shapeRules,
	scene.TypeBooleanOperation: shapeRules,
	scene.TypeFrame:            shapeRules,
	scene.TypeComponent:        shapeRules,
	scene.TypeInstance:         shapeRules,
	scene.TypeRectangle:        shapeRules,
	scene.TypeText:             {textRule, fillRule, effectsRule, strokeRule},
	scene.TypeLine:             {strokeRule},
}

// rulesFor returns the ordered rules for a node type.
func rulesFor(t scene.NodeType) []rule {
	return dispatchTable[t]
}

type dispatcher struct {
	rc     *ruleContext
	logger *slog.Logger
}

// dispatch runs every applicable rule on n. Style-resolving rules run
// concurrently; numeric rules run after they settle. Results are assembled
// in table order regardless of completion order.
func (d *dispatcher) dispatch(ctx context.Context, n scene.Node) []Finding {
	rules := rulesFor(n.Header().Type)
	if len(rules) == 0 {
		return nil
	}

	results := make([]ruleResult, len(rules))
	var wg sync.WaitGroup
	for i, r := range rules {
		if !r.concurrent {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.run(ctx, r, n)
		}()
	}
	wg.Wait()

	for i, r := range rules {
		if !r.concurrent {
			results[i] = d.run(ctx, r, n)
		}
	}

	var out []Finding
	for i, r := range rules {
		res := results[i]
		if res.err == nil {
			out = append(out, res.findings...)
			continue
		}
		h := n.Header()
		d.logger.Warn("rule failed",
			"rule", string(r.name),
			"node_id", h.ID,
			"node_name", h.Name,
			"error", res.err)
		if r.surface {
			out = append(out, errorFinding(r.name, n, res.err))
		}
	}
	return out
}

// run isolates one rule: a panic becomes the rule's error.
func (d *dispatcher) run(ctx context.Context, r rule, n scene.Node) (res ruleResult) {
	defer func() {
		if p := recover(); p != nil {
			res = failed(fmt.Errorf("%s rule panicked: %v", r.name, p))
		}
	}()
	return r.check(ctx, d.rc, n)
}

func errorFinding(t FindingType, n scene.Node, err error) Finding {
	f := newFinding(t, n, msgTextError, valueCheckFailed, nil)
	if err != nil {
		f.Message = fmt.Sprintf("%s %v", msgTextError, err)
	}
	return f
}

package lint

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/tokenlint/pkg/scene"
)

type instanceRef struct {
	node        *scene.Frame
	parentFrame string
}

// collectInstances returns every INSTANCE in pre-order, each once. parents
// seeds the container id of each root.
func collectInstances(forest []scene.Node, parents map[string]string, ignored map[string]bool) []instanceRef {
	var out []instanceRef
	seen := make(map[string]bool)

	var visit func(nodes []scene.Node, parentFrame string)
	visit = func(nodes []scene.Node, parentFrame string) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			h := n.Header()
			if ignored[h.ID] {
				continue
			}
			if frame, ok := n.(*scene.Frame); ok && h.Type == scene.TypeInstance && !seen[h.ID] {
				seen[h.ID] = true
				out = append(out, instanceRef{node: frame, parentFrame: parentFrame})
			}
			next := parentFrame
			if h.Type.IsContainer() {
				next = h.ID
			}
			visit(h.Children, next)
		}
	}
	for _, root := range forest {
		if root != nil {
			visit([]scene.Node{root}, parents[root.Header().ID])
		}
	}
	return out
}

// detectBroken resolves every instance's definition concurrently and reports
// the ones that are unresolvable, removed or orphaned. Output follows
// collection order, not completion order.
func detectBroken(ctx context.Context, forest []scene.Node, parents map[string]string, defs DefinitionResolver, ignored map[string]bool, limit int, logger *slog.Logger) []Finding {
	instances := collectInstances(forest, parents, ignored)
	if len(instances) == 0 {
		return nil
	}

	results := make([]*Finding, len(instances))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, inst := range instances {
		g.Go(func() error {
			results[i] = checkInstance(gctx, defs, inst, logger)
			return nil
		})
	}
	_ = g.Wait()

	var out []Finding
	for _, f := range results {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

func checkInstance(ctx context.Context, defs DefinitionResolver, inst instanceRef, logger *slog.Logger) (result *Finding) {
	defer func() {
		if p := recover(); p != nil {
			result = brokenFinding(inst, nil, fmt.Sprintf("%s %v", msgDefUnresolvable, p))
		}
	}()

	if defs == nil {
		return brokenFinding(inst, nil, msgDefMissing)
	}

	def, err := defs.ResolveDefinition(ctx, inst.node)
	switch {
	case err != nil:
		logger.Warn("definition lookup failed",
			"node_id", inst.node.Head.ID,
			"main_component_id", inst.node.MainComponentID,
			"error", err)
		return brokenFinding(inst, nil, fmt.Sprintf("%s %v", msgDefUnresolvable, err))
	case def == nil:
		return brokenFinding(inst, nil, msgDefMissing)
	case def.Removed:
		return brokenFinding(inst, def, msgDefRemoved)
	case !def.HasParent():
		return brokenFinding(inst, def, msgDefOrphaned)
	}
	return nil
}

func brokenFinding(inst instanceRef, def *scene.Definition, message string) *Finding {
	value := inst.node.MainComponentID
	if def != nil && def.Name != "" {
		value = def.Name
	}
	f := newFinding(TypeRestoreComponent, inst.node, message, value, nil)
	if inst.parentFrame != "" {
		id := inst.parentFrame
		f.ParentFrameID = &id
	}
	return &f
}

package lint

import (
	"context"

	"github.com/gnana997/tokenlint/pkg/scene"
)

type walker struct {
	dispatcher *dispatcher
	ignored    map[string]bool
	visited    int
}

// walk visits nodes depth-first. Hidden, locked and ignored nodes are
// skipped with their subtrees. Findings are tagged with the nearest
// ancestor container; groups and slices are not checked but their
// children are.
func (w *walker) walk(ctx context.Context, nodes []scene.Node, parentFrame string) []Finding {
	var out []Finding
	for _, n := range nodes {
		if n == nil {
			continue
		}
		h := n.Header()
		if !h.Visible || h.Locked || w.ignored[h.ID] {
			continue
		}
		w.visited++

		if h.Type != scene.TypeSlice && h.Type != scene.TypeGroup {
			findings := w.dispatcher.dispatch(ctx, n)
			if parentFrame != "" {
				for i := range findings {
					id := parentFrame
					findings[i].ParentFrameID = &id
				}
			}
			out = append(out, findings...)
		}

		next := parentFrame
		if h.Type.IsContainer() {
			next = h.ID
		}
		out = append(out, w.walk(ctx, h.Children, next)...)
	}
	return out
}

// walkRoots walks each root under the container id parents gives it.
func (w *walker) walkRoots(ctx context.Context, roots []scene.Node, parents map[string]string) []Finding {
	var out []Finding
	for _, n := range roots {
		if n == nil {
			continue
		}
		out = append(out, w.walk(ctx, []scene.Node{n}, parents[n.Header().ID])...)
	}
	return out
}

package lint

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/scene"
)

// ErrNoNodes is returned when a node id filter matches nothing.
var ErrNoNodes = errors.New("none of the requested nodes were found")

// AuditDocument audits a decoded document, resolving styles and component
// definitions from the document itself. When ids is non-empty only those
// subtrees are audited, and findings keep the frame that encloses each
// selected node in the full document.
func AuditDocument(ctx context.Context, doc *scene.Document, ids []string, bundle *catalog.Bundle, logger *slog.Logger, opts Options) ([]Finding, error) {
	forest := doc.Nodes
	var parents map[string]string
	if len(ids) > 0 {
		forest = doc.Subset(ids)
		if len(forest) == 0 {
			return nil, ErrNoNodes
		}
		parents = make(map[string]string, len(forest))
		for _, n := range forest {
			if id := n.Header().ID; id != "" {
				parents[id] = doc.ContainerOf(id)
			}
		}
	}
	if bundle == nil {
		bundle = &catalog.Bundle{}
	}
	a := NewAuditor(doc, doc, logger, opts)
	return a.audit(ctx, forest, parents, bundle.Libraries, bundle.Tokens), nil
}

package lint

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/resolve"
	"github.com/gnana997/tokenlint/pkg/scene"
	"github.com/gnana997/tokenlint/pkg/util"
)

// StyleResolver resolves a style id to its shared style. Unknown ids
// resolve to nil; host failures are returned as errors.
type StyleResolver interface {
	ResolveStyle(ctx context.Context, id string) (*scene.Style, error)
}

// DefinitionResolver resolves the component definition behind an instance.
type DefinitionResolver interface {
	ResolveDefinition(ctx context.Context, instance *scene.Frame) (*scene.Definition, error)
}

// Options tunes an Auditor.
type Options struct {
	// IgnoredIDs are skipped together with their subtrees.
	IgnoredIDs []string

	// CacheSize bounds the per-audit resolution caches (0 = resolve.DefaultSize).
	CacheSize int

	// Concurrency bounds in-flight definition lookups (0 = util.GetOptimalPoolSize()).
	Concurrency int
}

// Auditor runs conformance audits. It keeps no state between runs and is
// safe for concurrent use.
type Auditor struct {
	styles      StyleResolver
	definitions DefinitionResolver
	logger      *slog.Logger
	opts        Options
}

// NewAuditor creates an Auditor over the given collaborators. Either may be
// nil: styles then never resolve and every instance counts as broken.
func NewAuditor(styles StyleResolver, definitions DefinitionResolver, logger *slog.Logger, opts Options) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	opts.Concurrency = util.GetOptimalPoolSizeWithOverride(opts.Concurrency)
	return &Auditor{
		styles:      styles,
		definitions: definitions,
		logger:      logger,
		opts:        opts,
	}
}

// Audit checks forest against libraries and tokens. Broken-instance findings
// come first, then rule findings in pre-order. It never fails: a node or
// instance that cannot be evaluated yields fewer findings, not an error.
func (a *Auditor) Audit(ctx context.Context, forest []scene.Node, libraries []catalog.Library, tokens []catalog.SavedToken) []Finding {
	return a.audit(ctx, forest, nil, libraries, tokens)
}

// audit is Audit with each root's enclosing container id seeded from
// parents, for forests cut out of a larger tree.
func (a *Auditor) audit(ctx context.Context, forest []scene.Node, parents map[string]string, libraries []catalog.Library, tokens []catalog.SavedToken) []Finding {
	start := time.Now()

	idx := catalog.BuildIndex(libraries)
	ignored := make(map[string]bool, len(a.opts.IgnoredIDs))
	for _, id := range a.opts.IgnoredIDs {
		ignored[id] = true
	}

	var styles StyleResolver = a.styles
	var definitions DefinitionResolver = a.definitions
	cache, err := resolve.NewCache(nilStyleSource(a.styles), nilDefinitionSource(a.definitions), a.opts.CacheSize)
	if err != nil {
		a.logger.Warn("resolution cache disabled", "error", err)
	} else {
		styles, definitions = cache, cache
	}
	if styles == nil {
		styles = noStyles{}
	}

	w := &walker{
		dispatcher: &dispatcher{
			rc: &ruleContext{
				styles:  styles,
				matcher: NewMatcher(idx.Styles, tokens),
				index:   idx,
			},
			logger: a.logger,
		},
		ignored: ignored,
	}

	var broken, rules []Finding
	var g errgroup.Group
	g.Go(func() error {
		broken = detectBroken(ctx, forest, parents, definitions, ignored, a.opts.Concurrency, a.logger)
		return nil
	})
	g.Go(func() error {
		rules = w.walkRoots(ctx, forest, parents)
		return nil
	})
	_ = g.Wait()

	findings := Merge(broken, rules)

	attrs := []any{
		"nodes", w.visited,
		"findings", len(findings),
		"broken_instances", len(broken),
		"ms", time.Since(start).Milliseconds(),
	}
	if cache != nil {
		stats := cache.Stats()
		attrs = append(attrs, "cache_hits", stats.Hits, "cache_misses", stats.Misses)
	}
	a.logger.Info("audit complete", attrs...)

	return findings
}

// noStyles resolves nothing.
type noStyles struct{}

func (noStyles) ResolveStyle(context.Context, string) (*scene.Style, error) { return nil, nil }

// The cache treats a nil interface as "no source"; these keep a nil resolver nil.
func nilStyleSource(s StyleResolver) resolve.StyleSource {
	if s == nil {
		return nil
	}
	return s
}

func nilDefinitionSource(d DefinitionResolver) resolve.DefinitionSource {
	if d == nil {
		return nil
	}
	return d
}

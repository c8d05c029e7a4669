// Package resolve memoizes style and definition lookups for the duration of
// one audit. A Cache must not outlive the audit it was created for.
package resolve

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/tokenlint/pkg/scene"
)

// DefaultSize bounds each of the two caches.
const DefaultSize = 4096

// StyleSource resolves style ids. It may return nil for unknown ids.
type StyleSource interface {
	ResolveStyle(ctx context.Context, id string) (*scene.Style, error)
}

// DefinitionSource resolves the definition behind an instance.
type DefinitionSource interface {
	ResolveDefinition(ctx context.Context, instance *scene.Frame) (*scene.Definition, error)
}

// Stats counts cache traffic.
type Stats struct {
	Hits   int64
	Misses int64
}

// Cache wraps both sources with LRU caches. Errors are never cached, so a
// transient failure is retried on the next lookup.
type Cache struct {
	styles      StyleSource
	definitions DefinitionSource

	styleCache *lru.Cache[string, *scene.Style]
	defCache   *lru.Cache[string, *scene.Definition]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a cache over the given sources. Either source may be nil,
// in which case every lookup resolves to nil.
func NewCache(styles StyleSource, definitions DefinitionSource, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	styleCache, err := lru.New[string, *scene.Style](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create style cache: %w", err)
	}
	defCache, err := lru.New[string, *scene.Definition](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create definition cache: %w", err)
	}
	return &Cache{
		styles:      styles,
		definitions: definitions,
		styleCache:  styleCache,
		defCache:    defCache,
	}, nil
}

// ResolveStyle returns the cached style or asks the source.
func (c *Cache) ResolveStyle(ctx context.Context, id string) (*scene.Style, error) {
	if style, ok := c.styleCache.Get(id); ok {
		c.hits.Add(1)
		return style, nil
	}
	c.misses.Add(1)
	if c.styles == nil {
		return nil, nil
	}
	style, err := c.styles.ResolveStyle(ctx, id)
	if err != nil {
		return nil, err
	}
	c.styleCache.Add(id, style)
	return style, nil
}

// ResolveDefinition caches by main component id. Instances without one are
// passed straight to the source.
func (c *Cache) ResolveDefinition(ctx context.Context, instance *scene.Frame) (*scene.Definition, error) {
	if c.definitions == nil {
		return nil, nil
	}
	if instance == nil || instance.MainComponentID == "" {
		return c.definitions.ResolveDefinition(ctx, instance)
	}
	key := instance.MainComponentID
	if def, ok := c.defCache.Get(key); ok {
		c.hits.Add(1)
		return def, nil
	}
	c.misses.Add(1)
	def, err := c.definitions.ResolveDefinition(ctx, instance)
	if err != nil {
		return nil, err
	}
	c.defCache.Add(key, def)
	return def, nil
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

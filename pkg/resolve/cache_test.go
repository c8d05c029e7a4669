package resolve

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/tokenlint/pkg/scene"
)

type countingStyles struct {
	calls atomic.Int32
	fail  bool
}

func (s *countingStyles) ResolveStyle(_ context.Context, id string) (*scene.Style, error) {
	s.calls.Add(1)
	if s.fail {
		return nil, errors.New("host unavailable")
	}
	if id == "missing" {
		return nil, nil
	}
	return &scene.Style{ID: id, Name: "Style " + id}, nil
}

type countingDefs struct {
	calls atomic.Int32
}

func (d *countingDefs) ResolveDefinition(_ context.Context, instance *scene.Frame) (*scene.Definition, error) {
	d.calls.Add(1)
	if instance == nil {
		return nil, nil
	}
	return &scene.Definition{ID: instance.MainComponentID, ParentID: "0:1"}, nil
}

func TestCache_StyleMemoized(t *testing.T) {
	src := &countingStyles{}
	c, err := NewCache(src, nil, 8)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		style, err := c.ResolveStyle(ctx, "S:1")
		require.NoError(t, err)
		assert.Equal(t, "S:1", style.ID)
	}
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, Stats{Hits: 2, Misses: 1}, c.Stats())
}

func TestCache_NilStyleCached(t *testing.T) {
	src := &countingStyles{}
	c, err := NewCache(src, nil, 8)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		style, err := c.ResolveStyle(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, style)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	src := &countingStyles{fail: true}
	c, err := NewCache(src, nil, 8)
	require.NoError(t, err)

	_, err = c.ResolveStyle(context.Background(), "S:1")
	assert.Error(t, err)
	_, err = c.ResolveStyle(context.Background(), "S:1")
	assert.Error(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCache_DefinitionsByMainComponent(t *testing.T) {
	defs := &countingDefs{}
	c, err := NewCache(nil, defs, 0)
	require.NoError(t, err)
	ctx := context.Background()

	a := &scene.Frame{MainComponentID: "C:1"}
	b := &scene.Frame{MainComponentID: "C:1"}
	_, err = c.ResolveDefinition(ctx, a)
	require.NoError(t, err)
	def, err := c.ResolveDefinition(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "C:1", def.ID)
	assert.Equal(t, int32(1), defs.calls.Load())

	_, err = c.ResolveDefinition(ctx, &scene.Frame{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), defs.calls.Load())
}

func TestCache_NilSources(t *testing.T) {
	c, err := NewCache(nil, nil, 4)
	require.NoError(t, err)

	style, err := c.ResolveStyle(context.Background(), "S:1")
	require.NoError(t, err)
	assert.Nil(t, style)

	def, err := c.ResolveDefinition(context.Background(), &scene.Frame{MainComponentID: "C:1"})
	require.NoError(t, err)
	assert.Nil(t, def)
}

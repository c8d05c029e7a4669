package lint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/scene"
)

var errHost = errors.New("host unavailable")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStyles resolves from a map. Ids in fail return errHost; ids in boom panic.
type fakeStyles struct {
	styles map[string]*scene.Style
	fail   map[string]bool
	boom   map[string]bool
	calls  atomic.Int64
}

func (f *fakeStyles) ResolveStyle(_ context.Context, id string) (*scene.Style, error) {
	f.calls.Add(1)
	if f.boom[id] {
		panic("style lookup exploded")
	}
	if f.fail[id] {
		return nil, errHost
	}
	return f.styles[id], nil
}

// fakeDefs resolves by main component id.
type fakeDefs struct {
	mu    sync.Mutex
	defs  map[string]*scene.Definition
	fail  map[string]bool
	calls map[string]int
}

func (f *fakeDefs) ResolveDefinition(_ context.Context, inst *scene.Frame) (*scene.Definition, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[inst.Head.ID]++
	f.mu.Unlock()
	if f.fail[inst.MainComponentID] {
		return nil, errHost
	}
	return f.defs[inst.MainComponentID], nil
}

func head(id string, t scene.NodeType, children ...scene.Node) scene.Header {
	return scene.Header{ID: id, Name: "node " + id, Type: t, Visible: true, Children: children}
}

func solid(r, g, b float64) scene.Paint {
	return scene.Paint{Type: scene.PaintSolid, Color: &scene.Color{R: r, G: g, B: b}}
}

func fills(styleID string, paints ...scene.Paint) scene.Fills {
	return scene.Fills{Paints: scene.Resolved(paints), StyleID: scene.Resolved(styleID)}
}

func rectangle(id string) *scene.Shape {
	return &scene.Shape{Head: head(id, scene.TypeRectangle)}
}

func frame(id string, children ...scene.Node) *scene.Frame {
	return &scene.Frame{Head: head(id, scene.TypeFrame, children...)}
}

func instance(id, mainComponentID string) *scene.Frame {
	return &scene.Frame{Head: head(id, scene.TypeInstance), MainComponentID: mainComponentID}
}

func text(id, characters, family string, size float64) *scene.Text {
	return &scene.Text{
		Head: head(id, scene.TypeText),
		Typography: scene.Typography{
			Characters: characters,
			FontName:   scene.Resolved(scene.FontName{Family: family, Style: "Regular"}),
			FontSize:   scene.Resolved(size),
			StyleID:    scene.Resolved(""),
		},
	}
}

func coreLibrary() catalog.Library {
	blue := solid(0, 0, 1)
	return catalog.Library{
		ID:      "lib:core",
		Name:    "Core",
		Fills:   []catalog.StyleEntry{{ID: "S:brand", Name: "Brand/Primary", Paint: &blue}},
		Text:    []catalog.StyleEntry{{ID: "T:body", Name: "Body/Regular"}},
		Effects: []catalog.StyleEntry{{ID: "E:card", Name: "Shadow/Card"}},
		Radius:  []catalog.VariableEntry{{ID: "V:radius-md", Name: "radius/md", Value: 8}},
		Gaps:    []catalog.VariableEntry{{ID: "V:gap-md", Name: "gap/md", Value: 16}},
	}
}

func newTestAuditor(styles StyleResolver, defs DefinitionResolver, opts Options) *Auditor {
	return NewAuditor(styles, defs, quietLogger(), opts)
}

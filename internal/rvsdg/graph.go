package rvsdg

import (
	"fmt"

	deadlock "github.com/sasha-s/go-deadlock"

	"rvsdgc/internal/types"
)

// DepthObserver is notified when a node's depth changes or a node is
// about to be destroyed (spec §4.2, §5 "pre-destroy notification").
// Trackers (tracker.go) are the primary implementer.
type DepthObserver interface {
	OnDepthChange(node Node, oldDepth, newDepth int)
	OnNodeDestroy(node Node)
}

// Graph owns a single root Region (spec §3). Graph-level imports and
// exports are just named arguments/results of the root region.
type Graph struct {
	root *Region

	importNames []string
	exportNames []string

	// observersMu guards observers against concurrent registration
	// during a notification. The compiler itself is single-threaded
	// (spec §5) but a tracker's own bookkeeping can re-enter notify
	// while iterating (e.g. a rewrite triggered from inside a
	// callback); go-deadlock turns that reentrant-lock bug into a
	// loud failure in tests instead of a silent hang.
	observersMu deadlock.RWMutex
	observers   []DepthObserver
}

// NewGraph creates an empty graph with an empty root region.
func NewGraph() *Graph {
	g := &Graph{}
	g.root = newRegion(g, nil)
	return g
}

// Root returns the graph's root region.
func (g *Graph) Root() *Region { return g.root }

// AddImport appends a named import: a root-region argument originating
// outside the module entirely (spec §4.2).
func (g *Graph) AddImport(t types.Type, name string) *Output {
	out := g.root.AddArgument(t)
	g.importNames = append(g.importNames, name)
	return out
}

// AddExport appends a named export: a root-region result.
func (g *Graph) AddExport(origin *Output, name string) *Input {
	in := g.root.AddResult(origin)
	g.exportNames = append(g.exportNames, name)
	return in
}

// ImportName returns the name associated with the i'th import.
func (g *Graph) ImportName(i int) string { return g.importNames[i] }

// ExportName returns the name associated with the i'th export.
func (g *Graph) ExportName(i int) string { return g.exportNames[i] }

// RegisterObserver adds a DepthObserver to be notified of depth changes
// and node destruction anywhere in the graph.
func (g *Graph) RegisterObserver(o DepthObserver) {
	g.observersMu.Lock()
	defer g.observersMu.Unlock()
	g.observers = append(g.observers, o)
}

// UnregisterObserver removes a previously-registered observer.
func (g *Graph) UnregisterObserver(o DepthObserver) {
	g.observersMu.Lock()
	defer g.observersMu.Unlock()
	for i, obs := range g.observers {
		if obs == o {
			g.observers = append(g.observers[:i], g.observers[i+1:]...)
			return
		}
	}
}

func (g *Graph) notifyDepthChange(n Node, old, new_ int) {
	g.observersMu.RLock()
	observers := g.observers
	g.observersMu.RUnlock()
	for _, o := range observers {
		o.OnDepthChange(n, old, new_)
	}
}

func (g *Graph) notifyDestroy(n Node) {
	g.observersMu.RLock()
	observers := g.observers
	g.observersMu.RUnlock()
	for _, o := range observers {
		o.OnNodeDestroy(n)
	}
}

// Module bundles a Graph with the metadata the backend contract (spec
// §6) needs: the source filename and the target triple / data-layout
// strings the frontend recorded. This mirrors jlm's RvsdgModule wrapper
// (original_source/libjlm/include/jlm/ir/RvsdgModule.hpp).
type Module struct {
	Graph        *Graph
	SourceFile   string
	TargetTriple string
	DataLayout   string
}

// NewModule creates a Module with a fresh empty graph.
func NewModule(sourceFile, targetTriple, dataLayout string) *Module {
	return &Module{
		Graph:        NewGraph(),
		SourceFile:   sourceFile,
		TargetTriple: targetTriple,
		DataLayout:   dataLayout,
	}
}

func (m *Module) String() string {
	return fmt.Sprintf("module(%s, target=%s)", m.SourceFile, m.TargetTriple)
}

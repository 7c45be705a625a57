package rvsdg

// stateBucket holds every node currently assigned to one tracker state,
// bucketed by depth, with cached min/max occupied depth so PeekBottom
// and PeekTop are O(1) and insert/remove are O(1) amortized (the cached
// bound only needs to walk forward/backward past buckets emptied since
// it was last valid, spec §4.8's "Trackers ... O(1) peek_top/peek_bottom").
type stateBucket struct {
	depthOf  map[Node]int
	byDepth  map[int]map[Node]struct{}
	minDepth int
	maxDepth int
	nonEmpty bool
}

func newStateBucket() *stateBucket {
	return &stateBucket{depthOf: make(map[Node]int), byDepth: make(map[int]map[Node]struct{})}
}

func (b *stateBucket) add(n Node, depth int) {
	b.depthOf[n] = depth
	set := b.byDepth[depth]
	if set == nil {
		set = make(map[Node]struct{})
		b.byDepth[depth] = set
	}
	set[n] = struct{}{}
	if !b.nonEmpty || depth < b.minDepth {
		b.minDepth = depth
	}
	if !b.nonEmpty || depth > b.maxDepth {
		b.maxDepth = depth
	}
	b.nonEmpty = true
}

func (b *stateBucket) remove(n Node) {
	depth, ok := b.depthOf[n]
	if !ok {
		return
	}
	delete(b.depthOf, n)
	set := b.byDepth[depth]
	delete(set, n)
	if len(set) != 0 {
		return
	}
	delete(b.byDepth, depth)
	if len(b.byDepth) == 0 {
		b.nonEmpty = false
		return
	}
	if depth == b.minDepth {
		for d := b.minDepth + 1; d <= b.maxDepth; d++ {
			if _, ok := b.byDepth[d]; ok {
				b.minDepth = d
				break
			}
		}
	}
	if depth == b.maxDepth {
		for d := b.maxDepth - 1; d >= b.minDepth; d-- {
			if _, ok := b.byDepth[d]; ok {
				b.maxDepth = d
				break
			}
		}
	}
}

func (b *stateBucket) peek(depth int) (Node, bool) {
	if !b.nonEmpty {
		return nil, false
	}
	for n := range b.byDepth[depth] {
		return n, true
	}
	return nil, false
}

func (b *stateBucket) PeekBottom() (Node, bool) {
	if !b.nonEmpty {
		return nil, false
	}
	return b.peek(b.minDepth)
}

func (b *stateBucket) PeekTop() (Node, bool) {
	if !b.nonEmpty {
		return nil, false
	}
	return b.peek(b.maxDepth)
}

func (b *stateBucket) Count() int { return len(b.depthOf) }

// Tracker classifies a subset of a graph's nodes into one of numStates
// named states (an "initial", untracked state is implicit: a node with
// no SetState call, or explicitly Untrack'd, has no state). It
// registers as a DepthObserver so a tracked node's bucket stays correct
// across rewrites without the driving pass re-deriving depth itself
// (spec §4.8).
type Tracker struct {
	graph   *Graph
	states  map[Node]int
	buckets []*stateBucket
}

// NewTracker creates a tracker with numStates named states and
// registers it on graph.
func NewTracker(graph *Graph, numStates int) *Tracker {
	t := &Tracker{graph: graph, states: make(map[Node]int), buckets: make([]*stateBucket, numStates)}
	for i := range t.buckets {
		t.buckets[i] = newStateBucket()
	}
	graph.RegisterObserver(t)
	return t
}

// Close unregisters the tracker from its graph.
func (t *Tracker) Close() { t.graph.UnregisterObserver(t) }

// SetState (re)assigns n to state, moving it out of any prior state.
func (t *Tracker) SetState(n Node, state int) {
	if old, ok := t.states[n]; ok {
		if old == state {
			return
		}
		t.buckets[old].remove(n)
	}
	t.states[n] = state
	t.buckets[state].add(n, n.Depth())
}

// State reports n's current state, if tracked.
func (t *Tracker) State(n Node) (int, bool) {
	s, ok := t.states[n]
	return s, ok
}

// Untrack removes n from tracking entirely.
func (t *Tracker) Untrack(n Node) {
	if old, ok := t.states[n]; ok {
		t.buckets[old].remove(n)
		delete(t.states, n)
	}
}

// PeekBottom returns a node in state with minimal depth, if any.
func (t *Tracker) PeekBottom(state int) (Node, bool) { return t.buckets[state].PeekBottom() }

// PeekTop returns a node in state with maximal depth, if any.
func (t *Tracker) PeekTop(state int) (Node, bool) { return t.buckets[state].PeekTop() }

// Count returns the number of nodes currently in state.
func (t *Tracker) Count(state int) int { return t.buckets[state].Count() }

// OnDepthChange implements DepthObserver: a tracked node's bucket
// membership is re-keyed to its new depth.
func (t *Tracker) OnDepthChange(n Node, old, new_ int) {
	state, ok := t.states[n]
	if !ok {
		return
	}
	t.buckets[state].remove(n)
	t.buckets[state].add(n, new_)
}

// OnNodeDestroy implements DepthObserver: a destroyed node is dropped
// from tracking so a stale pointer never surfaces from Peek*.
func (t *Tracker) OnNodeDestroy(n Node) { t.Untrack(n) }

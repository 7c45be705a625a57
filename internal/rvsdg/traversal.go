package rvsdg

// TopDownTraverser yields a region's nodes in non-decreasing depth order:
// every node is yielded only after every node whose outputs it consumes
// has already been yielded (spec §4.2). It stays correct if the caller
// inserts new nodes or diverts edges between Next calls, since it always
// consults each node's current Depth() rather than a value cached at
// enqueue time; a node inserted mid-traversal is picked up the next time
// Next is called, in its depth's proper place, as long as its depth is
// not lower than already-yielded nodes (spec's traversal contract).
type TopDownTraverser struct {
	region  *Region
	pending map[Node]bool
	visited map[Node]bool
}

// NewTopDownTraverser seeds a traverser with region's current nodes.
func NewTopDownTraverser(region *Region) *TopDownTraverser {
	t := &TopDownTraverser{region: region, pending: make(map[Node]bool), visited: make(map[Node]bool)}
	for _, n := range region.Nodes() {
		t.pending[n] = true
	}
	return t
}

// sync picks up nodes added to the region since the last call.
func (t *TopDownTraverser) sync() {
	for _, n := range t.region.Nodes() {
		if !t.visited[n] && !t.pending[n] {
			t.pending[n] = true
		}
	}
}

// Next returns the next node in depth order, or (nil, false) once every
// node reachable as of the most recent call has been yielded.
func (t *TopDownTraverser) Next() (Node, bool) {
	t.sync()
	if len(t.pending) == 0 {
		return nil, false
	}
	var best Node
	bestDepth := -1
	for n := range t.pending {
		if d := n.Depth(); bestDepth == -1 || d < bestDepth {
			bestDepth = d
			best = n
		}
	}
	delete(t.pending, best)
	t.visited[best] = true
	return best, true
}

// Each drains the traverser, calling visit for every node in depth
// order. visit may insert nodes or divert edges in region; those
// changes are observed by subsequent iterations of this same call.
func (t *TopDownTraverser) Each(visit func(Node)) {
	for {
		n, ok := t.Next()
		if !ok {
			return
		}
		visit(n)
	}
}

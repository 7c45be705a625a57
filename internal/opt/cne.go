package opt

import (
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/stats"
)

// CommonNodeElimination merges simple nodes that compute the same value
// (§4.7.1). Two simple-node outputs are congruent iff their producing
// nodes have equal operations and every corresponding input's origin is
// congruent. This implementation computes congruence for simple nodes
// only, top-down in a single non-decreasing-depth pass — sufficient since
// a node's congruence class depends only on its operands' classes, which
// that traversal always visits first. Structural-output and loop-variable
// congruence (the other two clauses of §4.7.1) are not implemented.
type CommonNodeElimination struct{}

func (CommonNodeElimination) Name() string { return "common-node-elimination" }
func (CommonNodeElimination) Description() string {
	return "merges simple nodes computing congruent values"
}

func (CommonNodeElimination) Apply(region *rvsdg.Region, collector *stats.Collector) bool {
	changed := false
	rep := map[rvsdg.Node]*rvsdg.Output{} // merged node -> canonical output
	var buckets []*rvsdg.SimpleNode       // one representative per congruence class seen so far

	canonOf := func(o *rvsdg.Output) *rvsdg.Output {
		if n := o.Node(); n != nil {
			if c, ok := rep[n]; ok {
				return c
			}
		}
		return o
	}

	congruentTo := func(sn, other *rvsdg.SimpleNode) bool {
		if !sn.Operation.Equal(other.Operation) {
			return false
		}
		sIn, oIn := sn.Inputs(), other.Inputs()
		if len(sIn) != len(oIn) {
			return false
		}
		for i := range sIn {
			if canonOf(sIn[i].Origin()) != canonOf(oIn[i].Origin()) {
				return false
			}
		}
		return true
	}

	tv := rvsdg.NewTopDownTraverser(region)
	tv.Each(func(n rvsdg.Node) {
		sn, ok := n.(*rvsdg.SimpleNode)
		if !ok || len(sn.Outputs()) != 1 {
			return
		}
		for _, other := range buckets {
			if congruentTo(sn, other) {
				rep[sn] = other.Outputs()[0]
				sn.Outputs()[0].DivertUsers(other.Outputs()[0])
				collector.Count("common-node-elimination", "merged", 1)
				changed = true
				return
			}
		}
		buckets = append(buckets, sn)
	})

	for n := range rep {
		if sn, ok := n.(*rvsdg.SimpleNode); ok && !sn.Outputs()[0].HasUsers() {
			sn.Remove()
		}
	}
	return changed
}

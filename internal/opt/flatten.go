package opt

import (
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/stats"
)

// AssociativeFlattening collapses cascades of the same associative
// bit-arithmetic operation into a single N-ary FlattenedBinaryOp
// (§4.3's "flatten" normal form). Forms gates it per operation kind —
// passing nil leaves flatten enabled everywhere, matching
// rvsdg.FlattenAssociative's own nil-registry convention.
type AssociativeFlattening struct {
	Forms *rvsdg.NormalFormRegistry
}

func (AssociativeFlattening) Name() string { return "associative-flattening" }
func (AssociativeFlattening) Description() string {
	return "collapses cascades of the same associative bit-arithmetic op into one flattened node"
}

func (f AssociativeFlattening) Apply(region *rvsdg.Region, collector *stats.Collector) bool {
	changed := false
	var targets []*rvsdg.SimpleNode
	rvsdg.NewTopDownTraverser(region).Each(func(n rvsdg.Node) {
		if sn, ok := n.(*rvsdg.SimpleNode); ok {
			targets = append(targets, sn)
		}
	})
	for _, sn := range targets {
		if len(sn.Outputs()) != 1 {
			continue
		}
		flat, ok := rvsdg.FlattenAssociative(region, sn, f.Forms)
		if !ok {
			continue
		}
		sn.Outputs()[0].DivertUsers(flat.Outputs()[0])
		if !sn.Outputs()[0].HasUsers() {
			sn.Remove()
		}
		collector.Count("associative-flattening", "flattened", 1)
		changed = true
	}
	return changed
}

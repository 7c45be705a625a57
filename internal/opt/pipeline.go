// Package opt implements the RVSDG-level optimization passes of §4.7:
// common-node elimination, gamma pull-in, function inlining, and
// dead-node elimination, run through a Pipeline in the teacher's
// run-to-fixed-point pass-sequence style.
package opt

import (
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/stats"
)

// Pass is a single graph-to-graph transformation, applied to a region.
type Pass interface {
	Name() string
	Description() string
	Apply(region *rvsdg.Region, collector *stats.Collector) bool
}

// Pipeline runs a sequence of passes against a region, repeating the
// whole sequence until a pass over every pass makes no further change
// (a simple fixed-point driver, since individual passes like CNE and
// DNE can re-enable each other).
type Pipeline struct {
	passes    []Pass
	collector *stats.Collector
}

func NewPipeline(collector *stats.Collector, passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes, collector: collector}
}

func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Run applies every pass in order against region and every subregion
// reachable from it, repeating the whole sequence until a full round
// changes nothing anywhere, and returns the number of rounds that made
// progress. Subregions are revisited each round since a pass run
// against an ancestor region (inlining, pull-in) can create or resize
// subregions of its own.
func (p *Pipeline) Run(region *rvsdg.Region) int {
	total := 0
	for {
		changedThisRound := false
		if p.runRound(region) {
			changedThisRound = true
		}
		if !changedThisRound {
			return total
		}
		total++
	}
}

func (p *Pipeline) runRound(region *rvsdg.Region) bool {
	changed := false
	for _, pass := range p.passes {
		var passChanged bool
		p.collector.Time(pass.Name(), "apply", func() {
			passChanged = pass.Apply(region, p.collector)
		})
		if passChanged {
			changed = true
		}
	}
	for _, n := range region.Nodes() {
		sn, ok := n.(*rvsdg.StructuralNode)
		if !ok {
			continue
		}
		for _, sub := range sn.Subregions() {
			if p.runRound(sub) {
				changed = true
			}
		}
	}
	return changed
}

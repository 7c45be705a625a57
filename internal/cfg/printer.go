package cfg

import (
	"fmt"
	"sort"
	"strings"
)

// Print renders g as deterministic text: one line per block in label
// order, its TACs indented beneath it, and its outgoing edges by
// ordinal index. Tests assert against this instead of walking the graph
// structurally, matching the style internal/rvsdg.Print established for
// the graph substrate.
func Print(g *CFG) string {
	var b strings.Builder
	blocks := append([]*Block{}, g.Blocks()...)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Label < blocks[j].Label })

	for _, blk := range blocks {
		fmt.Fprintf(&b, "block %s:\n", blk.Label)
		for _, t := range blk.TACs {
			fmt.Fprintf(&b, "  %s\n", t.String())
		}
		for _, e := range blk.Out {
			fmt.Fprintf(&b, "  -> [%d] %s\n", e.Index, e.To.Label)
		}
	}
	return b.String()
}

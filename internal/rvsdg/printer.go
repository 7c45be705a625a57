package rvsdg

import (
	"fmt"
	"strings"
)

// Printer renders a Graph as deterministic, human-readable text; the
// rvsdgc driver prints it as its final output.
type Printer struct {
	b strings.Builder
}

// PrintGraph renders g's whole module: imports, the root region
// (recursively, including every subregion), and exports.
func PrintGraph(g *Graph) string {
	p := &Printer{}
	p.printf("graph {\n")
	for i, name := range g.importNames {
		p.printf("  import %s : %s\n", name, g.root.Arguments()[i].Type())
	}
	p.printRegion(g.root, 1)
	for i, name := range g.exportNames {
		p.printf("  export %s = %s\n", name, refString(g.root.Results()[i].Origin()))
	}
	p.printf("}\n")
	return p.b.String()
}

func (p *Printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(&p.b, format, args...)
}

func indentStr(depth int) string { return strings.Repeat("  ", depth) }

func (p *Printer) printRegion(r *Region, depth int) {
	for _, n := range r.Nodes() {
		p.printNode(n, depth)
	}
}

func (p *Printer) printNode(n Node, depth int) {
	ind := indentStr(depth)
	switch node := n.(type) {
	case *SimpleNode:
		operands := make([]string, len(node.Inputs()))
		for i, in := range node.Inputs() {
			operands[i] = refString(in.Origin())
		}
		results := make([]string, len(node.Outputs()))
		for i, out := range node.Outputs() {
			results[i] = fmt.Sprintf("%s:%s", nodeResultName(node, i), out.Type())
		}
		p.printf("%s%s = %s(%s) [depth=%d]\n", ind, strings.Join(results, ", "), node.Operation.Name(), strings.Join(operands, ", "), node.Depth())
	case *StructuralNode:
		p.printStructural(node, depth)
	case *GammaNode:
		p.printStructural(node.StructuralNode, depth)
	case *ThetaNode:
		p.printStructural(node.StructuralNode, depth)
	case *LambdaNode:
		p.printf("%slambda#%d %q : %s [depth=%d] {\n", ind, node.ID(), node.name, node.signature, node.Depth())
		p.printRegion(node.subregions[0], depth+1)
		p.printf("%s}\n", ind)
	case *PhiNode:
		p.printStructural(node.StructuralNode, depth)
	case *DeltaNode:
		p.printf("%sdelta#%d %q : %s [depth=%d] {\n", ind, node.ID(), node.name, node.valueType, node.Depth())
		p.printRegion(node.subregions[0], depth+1)
		p.printf("%s}\n", ind)
	default:
		p.printf("%s%s [depth=%d]\n", ind, n, n.Depth())
	}
}

func (p *Printer) printStructural(s *StructuralNode, depth int) {
	ind := indentStr(depth)
	p.printf("%s%s#%d [depth=%d] {\n", ind, s.kind, s.id, s.Depth())
	for i, sub := range s.subregions {
		p.printf("%s  subregion %d {\n", ind, i)
		p.printRegion(sub, depth+2)
		p.printf("%s  }\n", ind)
	}
	p.printf("%s}\n", ind)
}

func nodeResultName(n Node, index int) string {
	return fmt.Sprintf("%s#%d.%d", opName(n), n.ID(), index)
}

func opName(n Node) string {
	if sn, ok := n.(*SimpleNode); ok {
		return sn.Operation.Name()
	}
	return n.String()
}

// refString renders the value an Input currently consumes: a node
// result reference, or "argN" for a region argument with no producer.
func refString(o *Output) string {
	if n := o.Node(); n != nil {
		return fmt.Sprintf("%s#%d.%d", opName(n), n.ID(), o.Index())
	}
	return fmt.Sprintf("arg%d", o.Index())
}

// Package construct walks an aggregation tree (internal/aggregate) and
// builds the corresponding RVSDG region (internal/rvsdg), per §4.6.
package construct

import "rvsdgc/internal/rvsdg"

// variableMap is a region-local environment binding variable names to the
// output currently holding their value.
type variableMap map[string]*rvsdg.Output

func (m variableMap) clone() variableMap {
	out := make(variableMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// predicateFrame is one frame of the predicate_stack: the gamma predicate
// value and which branch index the current recursion is building.
type predicateFrame struct {
	predicate *rvsdg.Output
	armIndex  int
}

// thetaFrame is one frame of the theta_stack: the loop-carried variable
// bindings for the theta currently under construction, mapping a
// surface-level variable name to its loop-variable index on that theta.
type thetaFrame struct {
	theta   *rvsdg.ThetaNode
	loopVar map[string]int // variable name -> loop-variable index
}

// env carries every piece of state RVSDG construction threads through the
// aggregation tree walk (§4.6).
type env struct {
	vars           variableMap
	predicateStack []predicateFrame
	thetaStack     []thetaFrame

	// loopVarIndex and loopVarPre are populated by buildLoop for the
	// duration of constructing a single theta's body; they record, per
	// surface variable name, the loop-variable index and the body
	// region's pre-argument output.
	loopVarIndex map[string]int
	loopVarPre   map[string]*rvsdg.Output
}

func newEnv() *env {
	return &env{vars: variableMap{}}
}

func (e *env) pushPredicate(pred *rvsdg.Output, armIndex int) {
	e.predicateStack = append(e.predicateStack, predicateFrame{pred, armIndex})
}

func (e *env) popPredicate() {
	e.predicateStack = e.predicateStack[:len(e.predicateStack)-1]
}

func (e *env) pushTheta(th *rvsdg.ThetaNode) {
	e.thetaStack = append(e.thetaStack, thetaFrame{theta: th, loopVar: map[string]int{}})
}

func (e *env) popTheta() thetaFrame {
	top := e.thetaStack[len(e.thetaStack)-1]
	e.thetaStack = e.thetaStack[:len(e.thetaStack)-1]
	return top
}

func (e *env) currentTheta() *thetaFrame {
	if len(e.thetaStack) == 0 {
		return nil
	}
	return &e.thetaStack[len(e.thetaStack)-1]
}

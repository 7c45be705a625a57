package rvsdg

import "testing"

func TestNormalFormDefaultsEnabled(t *testing.T) {
	r := NewNormalFormRegistry()
	nf := r.For(OpBitBinary)
	if !nf.Reducible() || !nf.Reorder() || !nf.Flatten() || !nf.Distribute() || !nf.Factorize() {
		t.Fatal("every rewrite should default to enabled")
	}
}

func TestNormalFormCascadesFromRoot(t *testing.T) {
	r := NewNormalFormRegistry()
	r.Root().SetFlatten(false)

	// A kind that hasn't overridden flatten inherits the root's setting.
	nf := r.For(OpBitBinary)
	if nf.Flatten() {
		t.Fatal("flatten should be disabled, inherited from the root")
	}

	// An explicit override on the kind wins over the root.
	nf.SetFlatten(true)
	if !nf.Flatten() {
		t.Fatal("explicit kind-level override should win over the root")
	}
	// The root itself, and any other kind, are unaffected by that override.
	if r.Root().Flatten() {
		t.Fatal("overriding a child normal form must not affect the root")
	}
	if r.For(OpBitCompare).Flatten() {
		t.Fatal("an unrelated kind should still inherit the root's disabled setting")
	}
}

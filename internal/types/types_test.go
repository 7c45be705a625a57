package types

import "testing"

func TestBitStringEquality(t *testing.T) {
	a := BitString(32)
	b := BitString(32)
	c := BitString(64)

	if !a.Equal(b) {
		t.Errorf("BitString(32) should equal BitString(32)")
	}
	if a.Equal(c) {
		t.Errorf("BitString(32) should not equal BitString(64)")
	}
	if a.String() != "bit32" {
		t.Errorf("String() = %s, expected bit32", a.String())
	}
}

func TestPointerIsOpaque(t *testing.T) {
	p1, p2 := Pointer(), Pointer()
	if !p1.Equal(p2) {
		t.Errorf("all pointer types are equal regardless of pointee")
	}
}

func TestStructDeclarationSharing(t *testing.T) {
	decl := NewStructDeclaration("Pair", false)
	decl.Elements = []Type{BitString(64), BitString(64)}

	a := Struct(decl)
	b := Struct(decl)
	if !a.Equal(b) {
		t.Errorf("structs sharing a declaration must be equal")
	}

	anonA := Struct(&StructDeclaration{Elements: []Type{BitString(8)}})
	anonB := Struct(&StructDeclaration{Elements: []Type{BitString(8)}})
	if !anonA.Equal(anonB) {
		t.Errorf("anonymous structs with identical layout must be structurally equal")
	}
}

func TestRecursiveStructType(t *testing.T) {
	decl := NewStructDeclaration("Node", false)
	decl.Elements = []Type{Pointer(), BitString(32)}
	self := Struct(decl)
	if self.Kind() != KindStruct {
		t.Errorf("expected struct kind")
	}
}

func TestIsOrContains(t *testing.T) {
	decl := NewStructDeclaration("Inner", false)
	decl.Elements = []Type{BitString(8)}
	inner := Struct(decl)
	outer := Array(inner, 4)

	if !IsOrContains(outer, KindStruct) {
		t.Errorf("array of structs should report containing KindStruct")
	}
	if IsOrContains(outer, KindPointer) {
		t.Errorf("array of structs should not report containing KindPointer")
	}
}

func TestFunctionTypeEquality(t *testing.T) {
	reg := NewRegistry()
	f1 := Function([]Type{reg.BitString(32), reg.IOState(), reg.MemoryState()}, []Type{reg.BitString(32), reg.IOState(), reg.MemoryState()})
	f2 := Function([]Type{reg.BitString(32), reg.IOState(), reg.MemoryState()}, []Type{reg.BitString(32), reg.IOState(), reg.MemoryState()})
	if !f1.Equal(f2) {
		t.Errorf("identically-shaped function types must be equal")
	}
}

func TestRegistryInterning(t *testing.T) {
	reg := NewRegistry()
	a := reg.BitString(256)
	b := reg.BitString(256)
	if a != b {
		t.Errorf("registry must return the same handle for repeated widths")
	}
}

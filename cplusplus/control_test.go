package cplusplus

import "testing"

func TestControlInternsNames(t *testing.T) {
	c := NewControl()

	if c.Identifier("foo") != c.Identifier("foo") {
		t.Error("identifiers with the same spelling must be one pointer")
	}
	if c.Identifier("foo") == c.Identifier("bar") {
		t.Error("distinct spellings must be distinct identifiers")
	}

	foo := c.Identifier("foo")
	if c.NameID(foo) != c.NameID(foo) {
		t.Error("NameID not interned")
	}

	intTy := NewFullType(c.IntegerType(IntegerInt))
	if c.TemplateNameID(foo, false, intTy) != c.TemplateNameID(foo, false, intTy) {
		t.Error("TemplateNameID not interned")
	}
	if c.TemplateNameID(foo, false, intTy) == c.TemplateNameID(foo, true, intTy) {
		t.Error("the specialization flag must participate in template-id identity")
	}
	if c.TemplateNameID(foo, false, intTy) == c.TemplateNameID(foo, false, intTy.WithConst()) {
		t.Error("cv-qualifiers of arguments must participate in template-id identity")
	}

	base := c.NameID(c.Identifier("A"))
	name := c.NameID(c.Identifier("B"))
	if c.QualifiedNameID(base, name) != c.QualifiedNameID(base, name) {
		t.Error("QualifiedNameID not interned")
	}
	if c.QualifiedNameID(nil, name) != c.QualifiedNameID(nil, name) {
		t.Error("globally qualified names not interned")
	}
}

func TestControlInternsTypes(t *testing.T) {
	c := NewControl()

	name := c.NameID(c.Identifier("T"))
	if c.NamedType(name) != c.NamedType(name) {
		t.Error("NamedType not interned")
	}

	elem := NewFullType(c.NamedType(name))
	if c.PointerType(elem) != c.PointerType(elem) {
		t.Error("PointerType not interned")
	}
	if c.ReferenceType(elem, false) == c.ReferenceType(elem, true) {
		t.Error("lvalue and rvalue references must be distinct")
	}
	if c.IntegerType(IntegerInt) != c.IntegerType(IntegerInt) {
		t.Error("IntegerType not interned")
	}
	if c.VoidType() != c.VoidType() {
		t.Error("VoidType not interned")
	}
}

func TestCompareName(t *testing.T) {
	c := NewControl()
	foo := c.NameID(c.Identifier("foo"))
	fooTempl := c.TemplateNameID(c.Identifier("foo"), false)
	bar := c.NameID(c.Identifier("bar"))

	if !CompareName(foo, foo) {
		t.Error("a name must compare equal to itself")
	}
	if !CompareName(foo, fooTempl) {
		t.Error("a template-id compares equal to the plain name of its primary")
	}
	if CompareName(foo, bar) {
		t.Error("distinct identifiers must not compare equal")
	}
	if CompareName(foo, nil) || CompareName(nil, foo) {
		t.Error("nil never compares equal to a name")
	}
}

package cplusplus

import "testing"

func TestClonerSubstitutesMemberTypes(t *testing.T) {
	m := newTestModel("cloner.cpp")
	_, klass := m.templateClassIn(m.global(), m.name("Box"), "T")
	value := m.varIn(klass, "value", m.namedType(m.name("T")))
	ptr := m.varIn(klass, "ptr", NewFullType(m.control.PointerType(m.namedType(m.name("T")))))

	cloner := newCloner(m.control)
	subst := newSubst(m.control)
	subst.Bind(m.name("T"), m.namedType(m.name("Data")))

	clone := cloner.Symbol(klass, subst).(*Class)
	o := &Overview{}

	cloned := clone.Find(m.control.Identifier("value"))
	if len(cloned) != 1 {
		t.Fatal("cloned class lost its member index")
	}
	if got := o.Type(cloned[0].Type()); got != "Data" {
		t.Errorf("value: got %q, want Data", got)
	}
	if !symbolIdentical(cloned[0], value) {
		t.Error("a clone must keep the original's source position")
	}

	cloned = clone.Find(m.control.Identifier("ptr"))
	if got := o.Type(cloned[0].Type()); got != "Data *" {
		t.Errorf("ptr: got %q, want Data *", got)
	}
	if got := o.Type(ptr.Type()); got != "T *" {
		t.Errorf("the original must stay untouched, got %q", got)
	}
}

func TestRewriteDependentName(t *testing.T) {
	c := NewControl()
	tName := c.NameID(c.Identifier("T"))
	intTy := NewFullType(c.IntegerType(IntegerInt))

	env := newSubstitutionEnvironment()
	substMap := newSubstitutionMap()
	substMap.Bind(tName, intTy)
	env.Enter(substMap)

	// B<T>::Type becomes B<int>::Type.
	dependent := c.QualifiedNameID(
		c.TemplateNameID(c.Identifier("B"), false, NewFullType(c.NamedType(tName))),
		c.NameID(c.Identifier("Type")),
	)
	rewritten := rewriteName(dependent, env, c)

	expected := c.QualifiedNameID(
		c.TemplateNameID(c.Identifier("B"), false, intTy),
		c.NameID(c.Identifier("Type")),
	)
	if rewritten != expected {
		o := &Overview{}
		t.Fatalf("got %q, want %q", o.Name(rewritten), o.Name(expected))
	}
}

func TestInnermostSubstitutionWins(t *testing.T) {
	c := NewControl()
	tName := c.NameID(c.Identifier("T"))

	env := newSubstitutionEnvironment()
	outer := newSubstitutionMap()
	outer.Bind(tName, NewFullType(c.IntegerType(IntegerInt)))
	env.Enter(outer)
	inner := newSubstitutionMap()
	inner.Bind(tName, NewFullType(c.FloatType(FloatDouble)))
	env.Enter(inner)

	if got := env.Apply(tName); got.Type() != Type(c.FloatType(FloatDouble)) {
		t.Error("the innermost binding must shadow the outer one")
	}
}

func TestInstantiateSymbolType(t *testing.T) {
	m := newTestModel("membertype.cpp")
	_, klass := m.templateClassIn(m.global(), m.name("L"), "T")
	head := m.varIn(klass, "head", m.namedType(m.name("T")))

	templID := m.templateID("L", m.intType())
	if got := (&Overview{}).Type(instantiateSymbolType(templID, head, m.control)); got != "int" {
		t.Fatalf("got %q, want int", got)
	}

	// A member outside any template keeps its declared type.
	plain := m.classIn(m.global(), m.name("P"))
	field := m.varIn(plain, "f", m.intType())
	if got := instantiateSymbolType(templID, field, m.control); got != field.Type() {
		t.Error("non-template members must come back unchanged")
	}
}

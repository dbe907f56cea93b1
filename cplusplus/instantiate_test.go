package cplusplus

import "testing"

func TestTemplateParameterBase(t *testing.T) {
	m := newTestModel("holder.cpp")
	data := m.classIn(m.global(), m.name("Data"))
	m.varIn(data, "d", m.intType())

	_, holder := m.templateClassIn(m.global(), m.name("Holder"), "T")
	m.varIn(holder, "h", m.intType())
	m.baseOf(holder, m.name("T"))

	ctx := m.context()
	inst := ctx.GlobalNamespace().LookupType(m.templateID("Holder", m.namedType(m.name("Data"))))
	assertCompletion(t, inst, "Holder", "h", "Data", "d")
}

func TestDependentQualifiedBase(t *testing.T) {
	m := newTestModel("delegate.cpp")
	data := m.classIn(m.global(), m.name("Data"))
	m.varIn(data, "dataMember", m.intType())

	ns := m.namespaceIn(m.global(), "NS")
	_, delegate := m.templateClassIn(ns, m.name("Delegate"), "T")
	m.typedefIn(delegate, "Type", m.namedType(m.name("Data")))

	_, final := m.templateClassIn(m.global(), m.name("Final"), "T")
	m.varIn(final, "finalMember", m.intType())
	m.baseOf(final, m.qualified(
		m.name("NS"),
		m.templateID("Delegate", m.namedType(m.name("T"))),
		m.name("Type"),
	))

	ctx := m.context()
	inst := ctx.GlobalNamespace().LookupType(m.templateID("Final", m.namedType(m.name("Data"))))
	assertCompletion(t, inst, "Data", "dataMember", "Final", "finalMember")

	if inst.TemplateID() == nil {
		t.Error("instantiation must carry its template-id")
	}

	// The instantiation is a private copy; the primary template's binding
	// keeps its unresolved dependent base.
	reference := inst.Parent()
	if got := len(reference.Usings()); got != 0 {
		t.Errorf("instantiation leaked %d usings into the reference binding", got)
	}
}

func TestTemplateMemberTypeExpansion(t *testing.T) {
	m := newTestModel("list.cpp")
	tupple := m.classIn(m.global(), m.name("Tupple"))
	m.varIn(tupple, "a", m.intType())
	m.varIn(tupple, "b", m.intType())

	_, list := m.templateClassIn(m.global(), m.name("List"), "T")
	m.typedefIn(list, "U", m.namedType(m.name("T")))
	m.varIn(list, "u", m.namedType(m.name("U")))

	ctx := m.context()
	ctx.SetExpandTemplates(true)

	inst := ctx.GlobalNamespace().LookupType(m.templateID("List", m.namedType(m.name("Tupple"))))
	assertCompletion(t, inst, "List", "U", "u")

	// Resolve the member u the way a member-access resolver would: its
	// declared type names the typedef, whose cloned target carries the
	// substituted argument.
	items := inst.Find(m.name("u"))
	if len(items) != 1 {
		t.Fatalf("Find(u): got %d items, want 1", len(items))
	}
	named := items[0].Type().AsNamedType()
	if named == nil {
		t.Fatal("member u lost its named type")
	}

	var target FullType
	for _, item := range inst.Find(named.Name()) {
		if d := asDeclaration(item.Declaration()); d != nil && d.IsTypedef() {
			target = item.Type()
		}
	}
	if target.AsNamedType() == nil {
		t.Fatal("typedef U did not resolve to a named type")
	}
	if got := (&Overview{}).Name(target.AsNamedType().Name()); got != "Tupple" {
		t.Fatalf("typedef U resolved to %q, want Tupple", got)
	}

	memberBinding := inst.LookupType(target.AsNamedType().Name())
	assertCompletion(t, memberBinding, "Tupple", "a", "b")
}

func TestExplicitSpecialization(t *testing.T) {
	m := newTestModel("spec.cpp")
	_, primary := m.templateClassIn(m.global(), m.name("S"), "T")
	m.varIn(primary, "generic", m.intType())

	specTempl := NewTemplate()
	m.locate(specTempl)
	specClass := NewClass(m.specializationID("S", m.intType()))
	m.locate(specClass)
	specTempl.SetDeclaration(specClass)
	m.varIn(specClass, "special", m.intType())
	m.global().AddMember(specTempl)

	ctx := m.context()
	global := ctx.GlobalNamespace()

	inst := global.LookupType(m.templateID("S", m.intType()))
	assertCompletion(t, inst, "S", "special")

	// A use with different arguments still instantiates the primary.
	other := global.LookupType(m.templateID("S", NewFullType(m.control.FloatType(FloatDouble))))
	assertCompletion(t, other, "S", "generic")
}

func TestCyclicTemplateBasesTerminate(t *testing.T) {
	m := newTestModel("cyclic_templates.cpp")
	_, c := m.templateClassIn(m.global(), m.name("C"), "T")
	m.varIn(c, "cMember", m.intType())
	m.baseOf(c, m.templateID("D", m.namedType(m.name("T"))))

	_, d := m.templateClassIn(m.global(), m.name("D"), "T")
	m.varIn(d, "dMember", m.intType())
	m.baseOf(d, m.templateID("C", m.namedType(m.name("T"))))

	ctx := m.context()
	inst := ctx.GlobalNamespace().LookupType(m.templateID("C", m.intType()))
	assertCompletion(t, inst, "C", "cMember", "D", "dMember")
}

func TestDirectCyclicBases(t *testing.T) {
	m := newTestModel("cyclic.cpp")
	a := m.classIn(m.global(), m.name("A"))
	m.varIn(a, "_a", m.intType())
	m.baseOf(a, m.name("B"))

	b := m.classIn(m.global(), m.name("B"))
	m.varIn(b, "_b", m.intType())
	m.baseOf(b, m.name("A"))

	ctx := m.context()
	global := ctx.GlobalNamespace()
	assertCompletion(t, global.FindType(m.name("A")), "A", "_a", "B", "_b")
	assertCompletion(t, global.FindType(m.name("B")), "A", "_a", "B", "_b")
}

func TestSelfInheritanceTerminates(t *testing.T) {
	m := newTestModel("self.cpp")
	a := m.classIn(m.global(), m.name("A"))
	m.varIn(a, "a", m.intType())
	m.baseOf(a, m.name("A"))

	ctx := m.context()
	assertCompletion(t, ctx.GlobalNamespace().FindType(m.name("A")), "A", "a")
}

func TestGlobalQualifiedBase(t *testing.T) {
	m := newTestModel("globalbase.cpp")
	global := m.classIn(m.global(), m.name("Global"))
	m.varIn(global, "g", m.intType())

	ns := m.namespaceIn(m.global(), "NS")
	local := m.classIn(ns, m.name("Local"))
	m.varIn(local, "l", m.intType())
	m.baseOf(local, m.globalQualified(m.name("Global")))

	ctx := m.context()
	binding := ctx.GlobalNamespace().FindType(m.name("NS")).FindType(m.name("Local"))
	assertCompletion(t, binding, "Local", "l", "Global", "g")
}

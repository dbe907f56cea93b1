package cplusplus

import (
	"sort"
	"testing"
)

// testModel builds symbol tables by hand, the way a frontend would emit them.
// Every symbol gets a distinct source line so clones and declarations can be
// compared by position.
type testModel struct {
	control *Control
	doc     *Document
	line    int
}

func newTestModel(fileName string) *testModel {
	return &testModel{control: NewControl(), doc: NewDocument(fileName)}
}

func (m *testModel) global() *Namespace { return m.doc.GlobalNamespace() }

func (m *testModel) context() *LookupContext {
	snapshot := NewSnapshot()
	snapshot.Insert(m.doc)
	return NewLookupContext(m.doc, snapshot, m.control)
}

func (m *testModel) locate(s interface{ SetSourceLocation(string, int, int) }) {
	m.line++
	s.SetSourceLocation(m.doc.FileName(), m.line, 1)
}

func (m *testModel) name(s string) *NameID {
	return m.control.NameID(m.control.Identifier(s))
}

func (m *testModel) templateID(s string, args ...FullType) *TemplateNameID {
	return m.control.TemplateNameID(m.control.Identifier(s), false, args...)
}

func (m *testModel) specializationID(s string, args ...FullType) *TemplateNameID {
	return m.control.TemplateNameID(m.control.Identifier(s), true, args...)
}

// qualified builds a::b::c, left associated.
func (m *testModel) qualified(names ...Name) Name {
	n := names[0]
	for _, next := range names[1:] {
		n = m.control.QualifiedNameID(n, next)
	}
	return n
}

// globalQualified builds ::name.
func (m *testModel) globalQualified(name Name) Name {
	return m.control.QualifiedNameID(nil, name)
}

func (m *testModel) namedType(name Name) FullType {
	return NewFullType(m.control.NamedType(name))
}

func (m *testModel) intType() FullType {
	return NewFullType(m.control.IntegerType(IntegerInt))
}

func (m *testModel) namespaceIn(parent Scope, name string) *Namespace {
	ns := NewNamespace(m.name(name))
	m.locate(ns)
	parent.AddMember(ns)
	return ns
}

func (m *testModel) classIn(parent Scope, name Name) *Class {
	c := NewClass(name)
	m.locate(c)
	parent.AddMember(c)
	return c
}

func (m *testModel) varIn(parent Scope, name string, ty FullType) *Declaration {
	d := NewDeclaration(m.name(name), ty)
	m.locate(d)
	parent.AddMember(d)
	return d
}

func (m *testModel) typedefIn(parent Scope, name string, ty FullType) *Declaration {
	d := NewDeclaration(m.name(name), ty)
	d.SetTypedef(true)
	m.locate(d)
	parent.AddMember(d)
	return d
}

func (m *testModel) funcIn(parent Scope, name Name) *Function {
	f := NewFunction(name)
	m.locate(f)
	parent.AddMember(f)
	return f
}

func (m *testModel) blockIn(parent Scope) *Block {
	b := NewBlock()
	m.locate(b)
	parent.AddMember(b)
	return b
}

// templateClassIn builds template<typename params...> class name { }.
func (m *testModel) templateClassIn(parent Scope, name Name, params ...string) (*Template, *Class) {
	t := NewTemplate()
	m.locate(t)
	for _, p := range params {
		arg := NewTypenameArgument(m.name(p))
		m.locate(arg)
		t.AddTemplateParameter(arg)
	}
	klass := NewClass(name)
	m.locate(klass)
	t.SetDeclaration(klass)
	parent.AddMember(t)
	return t, klass
}

func (m *testModel) baseOf(klass *Class, name Name) *BaseClass {
	b := NewBaseClass(name)
	m.locate(b)
	klass.AddBaseClass(b)
	return b
}

// completionNames enumerates the identifiers visible on a binding the way a
// completion surface would: each contributing scope's own name and members,
// the enumerators, then the usings transitively.
func completionNames(binding *ClassOrNamespace) []string {
	seen := make(map[string]bool)
	collectCompletionNames(binding, make(map[*ClassOrNamespace]bool), seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectCompletionNames(binding *ClassOrNamespace, processed map[*ClassOrNamespace]bool, out map[string]bool) {
	if binding == nil || processed[binding] {
		return
	}
	processed[binding] = true

	for _, s := range binding.Symbols() {
		scope := asScope(s)
		if scope == nil {
			continue
		}
		if id := s.Identifier(); id != nil {
			out[id.Chars()] = true
		}
		for i := 0; i < scope.MemberCount(); i++ {
			member := scope.MemberAt(i)
			if member.IsFriend() || asUsingNamespaceDirective(member) != nil {
				continue
			}
			if id := member.Identifier(); id != nil {
				out[id.Chars()] = true
			}
		}
	}

	for _, e := range binding.Enums() {
		for i := 0; i < e.MemberCount(); i++ {
			if id := e.MemberAt(i).Identifier(); id != nil {
				out[id.Chars()] = true
			}
		}
	}

	for _, u := range binding.Usings() {
		collectCompletionNames(u, processed, out)
	}
}

func assertCompletion(t *testing.T, binding *ClassOrNamespace, want ...string) {
	t.Helper()
	if binding == nil {
		t.Fatal("binding is nil")
	}
	got := completionNames(binding)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("completion mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("completion mismatch: got %v, want %v", got, want)
		}
	}
}

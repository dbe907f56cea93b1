package cplusplus

import "testing"

func TestOverviewNames(t *testing.T) {
	c := NewControl()
	o := &Overview{}

	data := c.NameID(c.Identifier("Data"))
	constDataPtr := NewFullType(c.PointerType(NewFullType(c.NamedType(data)).WithConst()))

	tests := []struct {
		name Name
		want string
	}{
		{c.NameID(c.Identifier("Foo")), "Foo"},
		{c.TemplateNameID(c.Identifier("List"), false, NewFullType(c.NamedType(data))), "List<Data>"},
		{c.TemplateNameID(c.Identifier("Map"), false,
			NewFullType(c.IntegerType(IntegerInt)), constDataPtr), "Map<int, const Data *>"},
		{c.QualifiedNameID(c.NameID(c.Identifier("A")), c.NameID(c.Identifier("B"))), "A::B"},
		{c.QualifiedNameID(nil, c.NameID(c.Identifier("G"))), "::G"},
		{c.OperatorNameID(OperatorPlusAssign), "operator+="},
		{c.OperatorNameID(OperatorCall), "operator()"},
		{c.DestructorNameID(c.Identifier("Foo")), "~Foo"},
		{c.ConversionNameID(NewFullType(c.IntegerType(IntegerBool))), "operator bool"},
	}
	for _, tc := range tests {
		if got := o.Name(tc.name); got != tc.want {
			t.Errorf("Name: got %q, want %q", got, tc.want)
		}
	}
}

func TestOverviewTypes(t *testing.T) {
	c := NewControl()
	o := &Overview{}

	intTy := NewFullType(c.IntegerType(IntegerInt))
	data := NewFullType(c.NamedType(c.NameID(c.Identifier("Data"))))

	tests := []struct {
		ty   FullType
		want string
	}{
		{intTy, "int"},
		{data.WithConst(), "const Data"},
		{NewFullType(c.ReferenceType(data, false)), "Data &"},
		{NewFullType(c.ReferenceType(data, true)), "Data &&"},
		{NewFullType(c.ArrayType(intTy)), "int[]"},
		{NewFullType(c.VoidType()), "void"},
		{NewFullType(c.PointerType(NewFullType(c.PointerType(data)))), "Data * *"},
	}
	for _, tc := range tests {
		if got := o.Type(tc.ty); got != tc.want {
			t.Errorf("Type: got %q, want %q", got, tc.want)
		}
	}
}

func TestOverviewFunction(t *testing.T) {
	c := NewControl()

	fn := NewFunction(c.NameID(c.Identifier("send")))
	fn.SetReturnType(NewFullType(c.VoidType()))
	fn.AddMember(NewArgument(c.NameID(c.Identifier("fd")), NewFullType(c.IntegerType(IntegerInt))))
	fn.AddMember(NewArgument(c.NameID(c.Identifier("flags")), NewFullType(c.IntegerType(IntegerLong))))
	fn.SetVariadic(true)

	plain := &Overview{}
	if got := plain.Type(fn.Type()); got != "send" {
		t.Errorf("plain function rendering: got %q", got)
	}

	full := &Overview{ShowReturnTypes: true, ShowFunctionSignatures: true}
	if got := full.Type(fn.Type()); got != "void send(int, long, ...)" {
		t.Errorf("full function rendering: got %q", got)
	}
}

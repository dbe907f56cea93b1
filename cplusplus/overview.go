package cplusplus

import "strings"

// Overview renders names and types as display text for hover and completion
// surfaces. The zero value is ready to use.
type Overview struct {
	// ShowReturnTypes prefixes function signatures with their return type.
	ShowReturnTypes bool
	// ShowFunctionSignatures renders parameter lists on functions.
	ShowFunctionSignatures bool
}

// Name renders a name: A::B<int>::C, operator+, ~Foo.
func (o *Overview) Name(name Name) string {
	var b strings.Builder
	o.printName(&b, name)
	return b.String()
}

func (o *Overview) printName(b *strings.Builder, name Name) {
	switch n := name.(type) {
	case nil:
		b.WriteString("<anonymous>")
	case *NameID:
		b.WriteString(n.Identifier().Chars())
	case *TemplateNameID:
		b.WriteString(n.Identifier().Chars())
		b.WriteByte('<')
		for i := 0; i < n.TemplateArgumentCount(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			o.printType(b, n.TemplateArgumentAt(i))
		}
		b.WriteByte('>')
	case *QualifiedNameID:
		if n.Base() != nil {
			o.printName(b, n.Base())
		}
		b.WriteString("::")
		o.printName(b, n.Name())
	case *OperatorNameID:
		b.WriteString("operator")
		b.WriteString(n.Kind().Spelling())
	case *ConversionNameID:
		b.WriteString("operator ")
		o.printType(b, n.Type())
	case *DestructorNameID:
		b.WriteByte('~')
		b.WriteString(n.Identifier().Chars())
	default:
		b.WriteString("<unknown>")
	}
}

// Type renders a type: const Data *, NS::Delegate<T>::Type &.
func (o *Overview) Type(ty FullType) string {
	var b strings.Builder
	o.printType(&b, ty)
	return b.String()
}

func (o *Overview) printType(b *strings.Builder, ty FullType) {
	if !ty.IsValid() {
		b.WriteString("<invalid>")
		return
	}
	if ty.IsConst() {
		b.WriteString("const ")
	}
	if ty.IsVolatile() {
		b.WriteString("volatile ")
	}

	switch t := ty.Type().(type) {
	case *NamedType:
		o.printName(b, t.Name())
	case *PointerType:
		o.printType(b, t.ElementType())
		b.WriteString(" *")
	case *ReferenceType:
		o.printType(b, t.ElementType())
		if t.IsRvalueReference() {
			b.WriteString(" &&")
		} else {
			b.WriteString(" &")
		}
	case *ArrayType:
		o.printType(b, t.ElementType())
		b.WriteString("[]")
	case *IntegerType:
		b.WriteString(integerSpelling(t.Kind()))
	case *FloatType:
		b.WriteString(floatSpelling(t.Kind()))
	case *VoidType:
		b.WriteString("void")
	case *Class:
		o.printName(b, t.Name())
	case *Enum:
		o.printName(b, t.Name())
	case *ForwardClassDeclaration:
		o.printName(b, t.Name())
	case *Function:
		o.printFunction(b, t)
	case *ObjCClass:
		o.printName(b, t.Name())
	case *ObjCProtocol:
		o.printName(b, t.Name())
	default:
		b.WriteString("<unknown>")
	}
}

func (o *Overview) printFunction(b *strings.Builder, f *Function) {
	if o.ShowReturnTypes && f.ReturnType().IsValid() {
		o.printType(b, f.ReturnType())
		b.WriteByte(' ')
	}
	o.printName(b, f.Name())
	if !o.ShowFunctionSignatures {
		return
	}
	b.WriteByte('(')
	first := true
	for i := 0; i < f.MemberCount(); i++ {
		arg, ok := f.MemberAt(i).(*Argument)
		if !ok {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		o.printType(b, arg.Type())
	}
	if f.IsVariadic() {
		if !first {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteByte(')')
}

func integerSpelling(kind IntegerKind) string {
	switch kind {
	case IntegerChar:
		return "char"
	case IntegerBool:
		return "bool"
	case IntegerShort:
		return "short"
	case IntegerInt:
		return "int"
	case IntegerLong:
		return "long"
	case IntegerLongLong:
		return "long long"
	case IntegerWCharT:
		return "wchar_t"
	}
	return "int"
}

func floatSpelling(kind FloatKind) string {
	switch kind {
	case FloatFloat:
		return "float"
	case FloatDouble:
		return "double"
	case FloatLongDouble:
		return "long double"
	}
	return "double"
}

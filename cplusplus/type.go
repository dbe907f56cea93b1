package cplusplus

// Type is the bare type of a declaration. Scoped symbols (Class, Enum,
// Function, Namespace, ObjCClass, ObjCProtocol) implement Type themselves so
// a declaration's type can point straight at its definition.
type Type interface {
	isType()
}

// FullType combines a Type with cv-qualifiers. The zero value is the invalid
// type.
type FullType struct {
	ty         Type
	isConst    bool
	isVolatile bool
}

// NewFullType wraps a bare type without qualifiers.
func NewFullType(ty Type) FullType {
	return FullType{ty: ty}
}

// Type returns the bare type, nil when invalid.
func (t FullType) Type() Type { return t.ty }

// IsValid reports whether the type is set.
func (t FullType) IsValid() bool { return t.ty != nil }

// IsConst reports the const qualifier.
func (t FullType) IsConst() bool { return t.isConst }

// IsVolatile reports the volatile qualifier.
func (t FullType) IsVolatile() bool { return t.isVolatile }

// WithConst returns the type with the const qualifier set.
func (t FullType) WithConst() FullType {
	t.isConst = true
	return t
}

// WithVolatile returns the type with the volatile qualifier set.
func (t FullType) WithVolatile() FullType {
	t.isVolatile = true
	return t
}

// Qualified returns the type with both qualifiers replaced.
func (t FullType) Qualified(isConst, isVolatile bool) FullType {
	t.isConst = isConst
	t.isVolatile = isVolatile
	return t
}

// AsNamedType returns the type as a NamedType, or nil.
func (t FullType) AsNamedType() *NamedType {
	if v, ok := t.ty.(*NamedType); ok {
		return v
	}
	return nil
}

// AsPointerType returns the type as a PointerType, or nil.
func (t FullType) AsPointerType() *PointerType {
	if v, ok := t.ty.(*PointerType); ok {
		return v
	}
	return nil
}

// AsReferenceType returns the type as a ReferenceType, or nil.
func (t FullType) AsReferenceType() *ReferenceType {
	if v, ok := t.ty.(*ReferenceType); ok {
		return v
	}
	return nil
}

// AsClassType returns the type as a class definition, or nil.
func (t FullType) AsClassType() *Class {
	if v, ok := t.ty.(*Class); ok {
		return v
	}
	return nil
}

// AsEnumType returns the type as an enum definition, or nil.
func (t FullType) AsEnumType() *Enum {
	if v, ok := t.ty.(*Enum); ok {
		return v
	}
	return nil
}

// AsFunctionType returns the type as a function, or nil.
func (t FullType) AsFunctionType() *Function {
	if v, ok := t.ty.(*Function); ok {
		return v
	}
	return nil
}

// NamedType refers to a type by name; resolution is deferred to lookup.
type NamedType struct {
	name Name
}

func (*NamedType) isType() {}

// Name returns the referenced name.
func (t *NamedType) Name() Name { return t.name }

// PointerType is a pointer to an element type.
type PointerType struct {
	elem FullType
}

func (*PointerType) isType() {}

// ElementType returns the pointee.
func (t *PointerType) ElementType() FullType { return t.elem }

// ReferenceType is an lvalue or rvalue reference to an element type.
type ReferenceType struct {
	elem     FullType
	isRvalue bool
}

func (*ReferenceType) isType() {}

// ElementType returns the referee.
func (t *ReferenceType) ElementType() FullType { return t.elem }

// IsRvalueReference distinguishes T&& from T&.
func (t *ReferenceType) IsRvalueReference() bool { return t.isRvalue }

// ArrayType is an array of an element type. The size is not modelled.
type ArrayType struct {
	elem FullType
}

func (*ArrayType) isType() {}

// ElementType returns the element type.
func (t *ArrayType) ElementType() FullType { return t.elem }

// IntegerKind enumerates the built-in integral types.
type IntegerKind int

const (
	IntegerChar IntegerKind = iota
	IntegerBool
	IntegerShort
	IntegerInt
	IntegerLong
	IntegerLongLong
	IntegerWCharT
)

// IntegerType is a built-in integral type.
type IntegerType struct {
	kind IntegerKind
}

func (*IntegerType) isType() {}

// Kind returns the integral kind.
func (t *IntegerType) Kind() IntegerKind { return t.kind }

// FloatKind enumerates the built-in floating-point types.
type FloatKind int

const (
	FloatFloat FloatKind = iota
	FloatDouble
	FloatLongDouble
)

// FloatType is a built-in floating-point type.
type FloatType struct {
	kind FloatKind
}

func (*FloatType) isType() {}

// Kind returns the floating-point kind.
func (t *FloatType) Kind() FloatKind { return t.kind }

// VoidType is the void type.
type VoidType struct{}

func (*VoidType) isType() {}

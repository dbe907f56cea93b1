package cplusplus

import (
	"fmt"
	"strings"
)

// Control interns identifiers, names and types. Interning gives every name a
// stable identity, which lets bindings key tables on pointers and lets
// substitution environments use identity semantics. A Control is not safe for
// concurrent use; each LookupContext (and the frontend feeding it) shares
// one.
type Control struct {
	identifiers map[string]*Identifier

	nameIDs       map[*Identifier]*NameID
	destructorIDs map[*Identifier]*DestructorNameID
	operatorIDs   map[OperatorKind]*OperatorNameID
	qualifiedIDs  map[qualifiedKey]*QualifiedNameID
	templateIDs   map[string]*TemplateNameID
	conversionIDs map[FullType]*ConversionNameID

	namedTypes     map[Name]*NamedType
	pointerTypes   map[FullType]*PointerType
	referenceTypes map[referenceKey]*ReferenceType
	arrayTypes     map[FullType]*ArrayType
	integerTypes   map[IntegerKind]*IntegerType
	floatTypes     map[FloatKind]*FloatType
	voidType       *VoidType
}

type qualifiedKey struct {
	base Name
	name Name
}

type referenceKey struct {
	elem     FullType
	isRvalue bool
}

// NewControl creates an empty Control.
func NewControl() *Control {
	return &Control{
		identifiers:    make(map[string]*Identifier),
		nameIDs:        make(map[*Identifier]*NameID),
		destructorIDs:  make(map[*Identifier]*DestructorNameID),
		operatorIDs:    make(map[OperatorKind]*OperatorNameID),
		qualifiedIDs:   make(map[qualifiedKey]*QualifiedNameID),
		templateIDs:    make(map[string]*TemplateNameID),
		conversionIDs:  make(map[FullType]*ConversionNameID),
		namedTypes:     make(map[Name]*NamedType),
		pointerTypes:   make(map[FullType]*PointerType),
		referenceTypes: make(map[referenceKey]*ReferenceType),
		arrayTypes:     make(map[FullType]*ArrayType),
		integerTypes:   make(map[IntegerKind]*IntegerType),
		floatTypes:     make(map[FloatKind]*FloatType),
	}
}

// Identifier interns the given spelling.
func (c *Control) Identifier(chars string) *Identifier {
	if id, ok := c.identifiers[chars]; ok {
		return id
	}
	id := &Identifier{chars: chars}
	c.identifiers[chars] = id
	return id
}

// NameID returns the interned plain name for an identifier.
func (c *Control) NameID(id *Identifier) *NameID {
	if n, ok := c.nameIDs[id]; ok {
		return n
	}
	n := &NameID{id: id}
	c.nameIDs[id] = n
	return n
}

// DestructorNameID returns the interned destructor name for an identifier.
func (c *Control) DestructorNameID(id *Identifier) *DestructorNameID {
	if n, ok := c.destructorIDs[id]; ok {
		return n
	}
	n := &DestructorNameID{id: id}
	c.destructorIDs[id] = n
	return n
}

// OperatorNameID returns the interned name for an operator kind.
func (c *Control) OperatorNameID(kind OperatorKind) *OperatorNameID {
	if n, ok := c.operatorIDs[kind]; ok {
		return n
	}
	n := &OperatorNameID{kind: kind}
	c.operatorIDs[kind] = n
	return n
}

// ConversionNameID returns the interned conversion name for a type.
func (c *Control) ConversionNameID(ty FullType) *ConversionNameID {
	if n, ok := c.conversionIDs[ty]; ok {
		return n
	}
	n := &ConversionNameID{ty: ty}
	c.conversionIDs[ty] = n
	return n
}

// QualifiedNameID returns the interned name base::name. A nil base stands for
// a leading "::".
func (c *Control) QualifiedNameID(base, name Name) *QualifiedNameID {
	key := qualifiedKey{base: base, name: name}
	if n, ok := c.qualifiedIDs[key]; ok {
		return n
	}
	n := &QualifiedNameID{base: base, name: name}
	c.qualifiedIDs[key] = n
	return n
}

// TemplateNameID returns the interned template-id id<args...>. The
// specialization flag participates in the identity, so the instantiation use
// and the specialization declaration of the same template-id are distinct
// names.
func (c *Control) TemplateNameID(id *Identifier, isSpecialization bool, args ...FullType) *TemplateNameID {
	key := templateIDKey(id, isSpecialization, args)
	if n, ok := c.templateIDs[key]; ok {
		return n
	}
	n := &TemplateNameID{id: id, args: append([]FullType(nil), args...), isSpecialization: isSpecialization}
	c.templateIDs[key] = n
	return n
}

func templateIDKey(id *Identifier, isSpecialization bool, args []FullType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%p/%t", id, isSpecialization)
	for _, arg := range args {
		fmt.Fprintf(&b, "|%p/%t%t", arg.Type(), arg.IsConst(), arg.IsVolatile())
	}
	return b.String()
}

// NamedType returns the interned named type for a name.
func (c *Control) NamedType(name Name) *NamedType {
	if t, ok := c.namedTypes[name]; ok {
		return t
	}
	t := &NamedType{name: name}
	c.namedTypes[name] = t
	return t
}

// PointerType returns the interned pointer type to an element type.
func (c *Control) PointerType(elem FullType) *PointerType {
	if t, ok := c.pointerTypes[elem]; ok {
		return t
	}
	t := &PointerType{elem: elem}
	c.pointerTypes[elem] = t
	return t
}

// ReferenceType returns the interned reference type to an element type.
func (c *Control) ReferenceType(elem FullType, isRvalue bool) *ReferenceType {
	key := referenceKey{elem: elem, isRvalue: isRvalue}
	if t, ok := c.referenceTypes[key]; ok {
		return t
	}
	t := &ReferenceType{elem: elem, isRvalue: isRvalue}
	c.referenceTypes[key] = t
	return t
}

// ArrayType returns the interned array type of an element type.
func (c *Control) ArrayType(elem FullType) *ArrayType {
	if t, ok := c.arrayTypes[elem]; ok {
		return t
	}
	t := &ArrayType{elem: elem}
	c.arrayTypes[elem] = t
	return t
}

// IntegerType returns the interned built-in integral type.
func (c *Control) IntegerType(kind IntegerKind) *IntegerType {
	if t, ok := c.integerTypes[kind]; ok {
		return t
	}
	t := &IntegerType{kind: kind}
	c.integerTypes[kind] = t
	return t
}

// FloatType returns the interned built-in floating-point type.
func (c *Control) FloatType(kind FloatKind) *FloatType {
	if t, ok := c.floatTypes[kind]; ok {
		return t
	}
	t := &FloatType{kind: kind}
	c.floatTypes[kind] = t
	return t
}

// VoidType returns the void type.
func (c *Control) VoidType() *VoidType {
	if c.voidType == nil {
		c.voidType = &VoidType{}
	}
	return c.voidType
}

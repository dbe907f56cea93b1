package cplusplus

// Objective-C symbols. Classes and protocols always bind at the global
// namespace regardless of where their declarations appear textually;
// categories merge into the class's binding the way reopened namespaces do.

// ObjCClass is an Objective-C class or category interface.
type ObjCClass struct {
	scopeNode
	interfaceDecl bool
	categoryName  Name
	baseClass     *ObjCBaseClass
	protocols     []*ObjCBaseProtocol
}

func (*ObjCClass) isType() {}

// NewObjCClass creates a class interface with the given name.
func NewObjCClass(name Name) *ObjCClass {
	c := &ObjCClass{}
	c.name = name
	c.owner = c
	return c
}

// IsInterface reports whether this is an @interface (as opposed to an
// @implementation).
func (c *ObjCClass) IsInterface() bool { return c.interfaceDecl }

// SetInterface marks the symbol as an @interface.
func (c *ObjCClass) SetInterface(isInterface bool) { c.interfaceDecl = isInterface }

// CategoryName returns the category name, nil for the primary interface.
func (c *ObjCClass) CategoryName() Name { return c.categoryName }

// SetCategoryName records the category name.
func (c *ObjCClass) SetCategoryName(name Name) { c.categoryName = name }

// BaseClass returns the superclass reference, nil for root classes.
func (c *ObjCClass) BaseClass() *ObjCBaseClass { return c.baseClass }

// SetBaseClass records the superclass reference.
func (c *ObjCClass) SetBaseClass(base *ObjCBaseClass) {
	if base != nil {
		base.setEnclosingScope(c)
	}
	c.baseClass = base
}

// AddProtocol appends an adopted protocol reference.
func (c *ObjCClass) AddProtocol(proto *ObjCBaseProtocol) {
	proto.setEnclosingScope(c)
	c.protocols = append(c.protocols, proto)
}

// ProtocolCount returns the number of adopted protocols.
func (c *ObjCClass) ProtocolCount() int { return len(c.protocols) }

// ProtocolAt returns the i-th adopted protocol reference.
func (c *ObjCClass) ProtocolAt(i int) *ObjCBaseProtocol { return c.protocols[i] }

// ObjCProtocol is an Objective-C protocol definition.
type ObjCProtocol struct {
	scopeNode
	protocols []*ObjCBaseProtocol
}

func (*ObjCProtocol) isType() {}

// NewObjCProtocol creates a protocol with the given name.
func NewObjCProtocol(name Name) *ObjCProtocol {
	p := &ObjCProtocol{}
	p.name = name
	p.owner = p
	return p
}

// AddProtocol appends an incorporated protocol reference.
func (p *ObjCProtocol) AddProtocol(proto *ObjCBaseProtocol) {
	proto.setEnclosingScope(p)
	p.protocols = append(p.protocols, proto)
}

// ProtocolCount returns the number of incorporated protocols.
func (p *ObjCProtocol) ProtocolCount() int { return len(p.protocols) }

// ProtocolAt returns the i-th incorporated protocol reference.
func (p *ObjCProtocol) ProtocolAt(i int) *ObjCBaseProtocol { return p.protocols[i] }

// ObjCBaseClass names the superclass of an Objective-C class.
type ObjCBaseClass struct {
	symbolNode
}

// NewObjCBaseClass creates a superclass reference.
func NewObjCBaseClass(name Name) *ObjCBaseClass {
	b := &ObjCBaseClass{}
	b.name = name
	return b
}

// ObjCBaseProtocol names a protocol adopted by a class or protocol.
type ObjCBaseProtocol struct {
	symbolNode
}

// NewObjCBaseProtocol creates an adopted-protocol reference.
func NewObjCBaseProtocol(name Name) *ObjCBaseProtocol {
	b := &ObjCBaseProtocol{}
	b.name = name
	return b
}

// ObjCForwardClassDeclaration is an @class forward declaration.
type ObjCForwardClassDeclaration struct {
	symbolNode
}

// NewObjCForwardClassDeclaration creates a forward class declaration.
func NewObjCForwardClassDeclaration(name Name) *ObjCForwardClassDeclaration {
	f := &ObjCForwardClassDeclaration{}
	f.name = name
	return f
}

// ObjCForwardProtocolDeclaration is an @protocol forward declaration.
type ObjCForwardProtocolDeclaration struct {
	symbolNode
}

// NewObjCForwardProtocolDeclaration creates a forward protocol declaration.
func NewObjCForwardProtocolDeclaration(name Name) *ObjCForwardProtocolDeclaration {
	f := &ObjCForwardProtocolDeclaration{}
	f.name = name
	return f
}

// ObjCMethod is a method declaration; its members are the parameters.
type ObjCMethod struct {
	scopeNode
	returnType FullType
}

// NewObjCMethod creates a method with the given selector name.
func NewObjCMethod(name Name) *ObjCMethod {
	m := &ObjCMethod{}
	m.name = name
	m.owner = m
	return m
}

// ReturnType returns the declared return type.
func (m *ObjCMethod) ReturnType() FullType { return m.returnType }

// SetReturnType records the declared return type.
func (m *ObjCMethod) SetReturnType(ty FullType) { m.returnType = ty }

func isObjCClassLike(s Symbol) bool {
	switch s.(type) {
	case *ObjCClass, *ObjCProtocol:
		return true
	}
	return false
}

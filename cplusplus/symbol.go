package cplusplus

// Symbol is a declaration: a name, a type, a source location and an enclosing
// scope. Concrete symbols are *Namespace, *Class, *ForwardClassDeclaration,
// *Enum, *Declaration, *EnumeratorDeclaration, *Function, *Argument, *Block,
// *Template, *TypenameArgument, *BaseClass, *UsingDeclaration,
// *UsingNamespaceDirective, *NamespaceAlias and the Obj-C symbols; dispatch
// is by type switch or the as* helpers below.
type Symbol interface {
	Name() Name
	Identifier() *Identifier
	Type() FullType
	EnclosingScope() Scope
	FileName() string
	Line() int
	Column() int
	IsFriend() bool

	setEnclosingScope(Scope)
}

// symbolNode carries the state shared by every symbol.
type symbolNode struct {
	name      Name
	ty        FullType
	enclosing Scope
	fileName  string
	line      int
	column    int
	friend    bool
}

func (s *symbolNode) Name() Name { return s.name }

func (s *symbolNode) Identifier() *Identifier {
	if s.name == nil {
		return nil
	}
	return s.name.Identifier()
}

func (s *symbolNode) Type() FullType                { return s.ty }
func (s *symbolNode) EnclosingScope() Scope         { return s.enclosing }
func (s *symbolNode) FileName() string              { return s.fileName }
func (s *symbolNode) Line() int                     { return s.line }
func (s *symbolNode) Column() int                   { return s.column }
func (s *symbolNode) IsFriend() bool                { return s.friend }
func (s *symbolNode) setEnclosingScope(scope Scope) { s.enclosing = scope }

// SetName replaces the symbol's name.
func (s *symbolNode) SetName(name Name) { s.name = name }

// SetType replaces the symbol's type.
func (s *symbolNode) SetType(ty FullType) { s.ty = ty }

// SetFriend marks the symbol as a friend declaration. Friends never
// introduce their name into the enclosing binding.
func (s *symbolNode) SetFriend(friend bool) { s.friend = friend }

// SetSourceLocation records where the symbol was declared.
func (s *symbolNode) SetSourceLocation(fileName string, line, column int) {
	s.fileName = fileName
	s.line = line
	s.column = column
}

// Declaration is a plain declaration: a variable, a field or a typedef.
type Declaration struct {
	symbolNode
	typedef bool
}

// NewDeclaration creates a declaration with the given name and type.
func NewDeclaration(name Name, ty FullType) *Declaration {
	d := &Declaration{}
	d.name = name
	d.ty = ty
	return d
}

// IsTypedef reports whether the declaration is a typedef.
func (d *Declaration) IsTypedef() bool { return d.typedef }

// SetTypedef marks the declaration as a typedef.
func (d *Declaration) SetTypedef(typedef bool) { d.typedef = typedef }

// EnumeratorDeclaration is an enumerator inside an enum.
type EnumeratorDeclaration struct {
	symbolNode
	constantValue string
}

// NewEnumeratorDeclaration creates an enumerator with the given name.
func NewEnumeratorDeclaration(name Name, ty FullType) *EnumeratorDeclaration {
	e := &EnumeratorDeclaration{}
	e.name = name
	e.ty = ty
	return e
}

// ConstantValue returns the enumerator's spelled value, "" when implicit.
func (e *EnumeratorDeclaration) ConstantValue() string { return e.constantValue }

// SetConstantValue records the enumerator's spelled value.
func (e *EnumeratorDeclaration) SetConstantValue(value string) { e.constantValue = value }

// Argument is a function parameter.
type Argument struct {
	symbolNode
}

// NewArgument creates a parameter with the given name and type.
func NewArgument(name Name, ty FullType) *Argument {
	a := &Argument{}
	a.name = name
	a.ty = ty
	return a
}

// TypenameArgument is a template type parameter (typename T / class T).
type TypenameArgument struct {
	symbolNode
}

// NewTypenameArgument creates a template type parameter.
func NewTypenameArgument(name Name) *TypenameArgument {
	a := &TypenameArgument{}
	a.name = name
	return a
}

// ForwardClassDeclaration is an elaborated declaration (class C;) without a
// definition.
type ForwardClassDeclaration struct {
	symbolNode
}

func (*ForwardClassDeclaration) isType() {}

// NewForwardClassDeclaration creates a forward declaration.
func NewForwardClassDeclaration(name Name) *ForwardClassDeclaration {
	f := &ForwardClassDeclaration{}
	f.name = name
	return f
}

// AccessSpecifier is the access of a base class or member.
type AccessSpecifier int

const (
	AccessPublic AccessSpecifier = iota
	AccessProtected
	AccessPrivate
)

// BaseClass names a base of a class. The name may be dependent; resolution
// happens during binding construction or template instantiation.
type BaseClass struct {
	symbolNode
	virtual bool
	access  AccessSpecifier
}

// NewBaseClass creates a base-class reference.
func NewBaseClass(name Name) *BaseClass {
	b := &BaseClass{}
	b.name = name
	return b
}

// IsVirtual reports virtual inheritance.
func (b *BaseClass) IsVirtual() bool { return b.virtual }

// SetVirtual marks the base as virtually inherited.
func (b *BaseClass) SetVirtual(virtual bool) { b.virtual = virtual }

// Access returns the base's access specifier.
func (b *BaseClass) Access() AccessSpecifier { return b.access }

// SetAccess records the base's access specifier.
func (b *BaseClass) SetAccess(access AccessSpecifier) { b.access = access }

// UsingDeclaration introduces a name from another scope (using A::B::x;).
type UsingDeclaration struct {
	symbolNode
}

// NewUsingDeclaration creates a using-declaration for a qualified name.
func NewUsingDeclaration(name Name) *UsingDeclaration {
	u := &UsingDeclaration{}
	u.name = name
	return u
}

// UsingNamespaceDirective makes a namespace's names visible
// (using namespace N;).
type UsingNamespaceDirective struct {
	symbolNode
}

// NewUsingNamespaceDirective creates a using-directive for a namespace name.
func NewUsingNamespaceDirective(name Name) *UsingNamespaceDirective {
	u := &UsingNamespaceDirective{}
	u.name = name
	return u
}

// NamespaceAlias binds an alias to a namespace (namespace A = B::C;).
type NamespaceAlias struct {
	symbolNode
	namespaceName Name
}

// NewNamespaceAlias creates an alias with the given alias name and target
// namespace name.
func NewNamespaceAlias(name, namespaceName Name) *NamespaceAlias {
	a := &NamespaceAlias{}
	a.name = name
	a.namespaceName = namespaceName
	return a
}

// NamespaceName returns the aliased namespace's name.
func (a *NamespaceAlias) NamespaceName() Name { return a.namespaceName }

func asScope(s Symbol) Scope {
	if v, ok := s.(Scope); ok {
		return v
	}
	return nil
}

func asClass(s Symbol) *Class {
	if v, ok := s.(*Class); ok {
		return v
	}
	return nil
}

func asNamespace(s Symbol) *Namespace {
	if v, ok := s.(*Namespace); ok {
		return v
	}
	return nil
}

func asDeclaration(s Symbol) *Declaration {
	if v, ok := s.(*Declaration); ok {
		return v
	}
	return nil
}

func asFunction(s Symbol) *Function {
	if v, ok := s.(*Function); ok {
		return v
	}
	return nil
}

func asTemplate(s Symbol) *Template {
	if v, ok := s.(*Template); ok {
		return v
	}
	return nil
}

func asBlock(s Symbol) *Block {
	if v, ok := s.(*Block); ok {
		return v
	}
	return nil
}

func asTypenameArgument(s Symbol) *TypenameArgument {
	if v, ok := s.(*TypenameArgument); ok {
		return v
	}
	return nil
}

func asNamespaceAlias(s Symbol) *NamespaceAlias {
	if v, ok := s.(*NamespaceAlias); ok {
		return v
	}
	return nil
}

func asUsingNamespaceDirective(s Symbol) *UsingNamespaceDirective {
	if v, ok := s.(*UsingNamespaceDirective); ok {
		return v
	}
	return nil
}

func isDeclarationOrFunction(s Symbol) bool {
	switch s.(type) {
	case *Declaration, *EnumeratorDeclaration, *Function:
		return true
	}
	return false
}

// enclosingNamespace walks outward to the nearest namespace scope.
func enclosingNamespace(scope Scope) *Namespace {
	for s := scope; s != nil; s = s.EnclosingScope() {
		if ns := asNamespace(s); ns != nil {
			return ns
		}
	}
	return nil
}

// enclosingTemplate returns the template that immediately wraps the symbol,
// if any.
func enclosingTemplate(s Symbol) *Template {
	if s == nil {
		return nil
	}
	scope := s.EnclosingScope()
	if scope == nil {
		return nil
	}
	if templ, ok := scope.(*Template); ok {
		return templ
	}
	return nil
}

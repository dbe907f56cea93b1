package cplusplus

// Scope is a symbol that owns an ordered sequence of member symbols with
// identifier-keyed lookup. Find returns every member sharing the identifier,
// in declaration order, so function overloads stay together.
type Scope interface {
	Symbol

	MemberCount() int
	MemberAt(i int) Symbol
	Members() []Symbol
	AddMember(member Symbol)
	Find(id *Identifier) []Symbol
	FindOperator(kind OperatorKind) []Symbol
}

// scopeNode implements Scope for the scoped symbols. The owner is the
// concrete symbol embedding the node; it is what members record as their
// enclosing scope.
type scopeNode struct {
	symbolNode
	owner     Scope
	members   []Symbol
	index     map[*Identifier][]Symbol
	operators map[OperatorKind][]Symbol
}

func (s *scopeNode) MemberCount() int      { return len(s.members) }
func (s *scopeNode) MemberAt(i int) Symbol { return s.members[i] }
func (s *scopeNode) Members() []Symbol     { return s.members }

func (s *scopeNode) AddMember(member Symbol) {
	member.setEnclosingScope(s.owner)
	s.members = append(s.members, member)

	name := member.Name()
	if name == nil {
		return
	}
	if op := asOperatorNameID(name); op != nil {
		if s.operators == nil {
			s.operators = make(map[OperatorKind][]Symbol)
		}
		s.operators[op.Kind()] = append(s.operators[op.Kind()], member)
		return
	}
	if id := name.Identifier(); id != nil {
		if s.index == nil {
			s.index = make(map[*Identifier][]Symbol)
		}
		s.index[id] = append(s.index[id], member)
	}
}

func (s *scopeNode) Find(id *Identifier) []Symbol {
	if id == nil {
		return nil
	}
	return s.index[id]
}

func (s *scopeNode) FindOperator(kind OperatorKind) []Symbol {
	return s.operators[kind]
}

// Namespace is a namespace definition. Reopened namespaces are separate
// Namespace symbols contributing to one binding.
type Namespace struct {
	scopeNode
	inline bool
}

// NewNamespace creates a namespace with the given name; nil names the global
// or an anonymous namespace.
func NewNamespace(name Name) *Namespace {
	ns := &Namespace{}
	ns.name = name
	ns.owner = ns
	return ns
}

// IsInline reports whether the namespace is declared inline.
func (ns *Namespace) IsInline() bool { return ns.inline }

// SetInline marks the namespace as inline; its names become visible in the
// enclosing namespace without qualification.
func (ns *Namespace) SetInline(inline bool) { ns.inline = inline }

// ClassKey distinguishes class, struct and union definitions.
type ClassKey int

const (
	ClassKeyClass ClassKey = iota
	ClassKeyStruct
	ClassKeyUnion
)

// Class is a class, struct or union definition.
type Class struct {
	scopeNode
	key         ClassKey
	baseClasses []*BaseClass
}

func (*Class) isType() {}

// NewClass creates a class definition with the given name.
func NewClass(name Name) *Class {
	c := &Class{}
	c.name = name
	c.owner = c
	return c
}

// Key returns whether this is a class, struct or union.
func (c *Class) Key() ClassKey { return c.key }

// SetKey records the class key.
func (c *Class) SetKey(key ClassKey) { c.key = key }

// AddBaseClass appends a base-class reference.
func (c *Class) AddBaseClass(base *BaseClass) {
	base.setEnclosingScope(c)
	c.baseClasses = append(c.baseClasses, base)
}

// BaseClassCount returns the number of declared bases.
func (c *Class) BaseClassCount() int { return len(c.baseClasses) }

// BaseClassAt returns the i-th declared base.
func (c *Class) BaseClassAt(i int) *BaseClass { return c.baseClasses[i] }

// Enum is an enum definition; its members are the enumerators.
type Enum struct {
	scopeNode
	scoped bool
}

func (*Enum) isType() {}

// NewEnum creates an enum definition with the given name.
func NewEnum(name Name) *Enum {
	e := &Enum{}
	e.name = name
	e.owner = e
	return e
}

// IsScoped reports whether this is an enum class.
func (e *Enum) IsScoped() bool { return e.scoped }

// SetScoped marks the enum as scoped (enum class); scoped enumerators are
// not injected into the enclosing binding.
func (e *Enum) SetScoped(scoped bool) { e.scoped = scoped }

// Function is a function declaration or definition. Its members are the
// parameters; the body, when present, is a Block member.
type Function struct {
	scopeNode
	returnType FullType
	variadic   bool
}

func (*Function) isType() {}

// NewFunction creates a function with the given name.
func NewFunction(name Name) *Function {
	f := &Function{}
	f.name = name
	f.owner = f
	f.ty = FullType{ty: f}
	return f
}

// ReturnType returns the declared return type.
func (f *Function) ReturnType() FullType { return f.returnType }

// SetReturnType records the declared return type.
func (f *Function) SetReturnType(ty FullType) { f.returnType = ty }

// IsVariadic reports a trailing ellipsis.
func (f *Function) IsVariadic() bool { return f.variadic }

// SetVariadic marks the function as variadic.
func (f *Function) SetVariadic(variadic bool) { f.variadic = variadic }

// Block is a compound statement scope inside a function body.
type Block struct {
	scopeNode
}

// NewBlock creates an anonymous block scope.
func NewBlock() *Block {
	b := &Block{}
	b.owner = b
	return b
}

// Template wraps a templated declaration. Its members are the template
// parameters followed by the declaration, so parameter names resolve through
// plain scope lookup.
type Template struct {
	scopeNode
	parameterCount int
	declaration    Symbol
}

// NewTemplate creates an empty template wrapper.
func NewTemplate() *Template {
	t := &Template{}
	t.owner = t
	return t
}

// AddTemplateParameter appends a template parameter. Parameters must be
// added before the declaration.
func (t *Template) AddTemplateParameter(param Symbol) {
	t.AddMember(param)
	t.parameterCount++
}

// TemplateParameterCount returns the number of template parameters.
func (t *Template) TemplateParameterCount() int { return t.parameterCount }

// TemplateParameterAt returns the i-th template parameter.
func (t *Template) TemplateParameterAt(i int) Symbol { return t.members[i] }

// Declaration returns the templated symbol, nil until set.
func (t *Template) Declaration() Symbol { return t.declaration }

// SetDeclaration records the templated symbol. The template takes the
// declaration's name so paths through the wrapper stay meaningful.
func (t *Template) SetDeclaration(declaration Symbol) {
	t.declaration = declaration
	t.AddMember(declaration)
	if t.name == nil {
		t.name = declaration.Name()
	}
}

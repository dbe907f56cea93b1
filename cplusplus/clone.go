package cplusplus

// Subst maps template parameter names to concrete types. Names are interned,
// so the map keys on identity; binding a name from one Control and querying
// with another is a caller error.
type Subst struct {
	control  *Control
	bindings map[Name]FullType
}

func newSubst(control *Control) *Subst {
	return &Subst{control: control, bindings: make(map[Name]FullType)}
}

// Bind associates a parameter name with a concrete type.
func (s *Subst) Bind(name Name, ty FullType) {
	if name == nil {
		return
	}
	s.bindings[name] = ty
}

// Contains reports whether the name is bound.
func (s *Subst) Contains(name Name) bool {
	if name == nil {
		return false
	}
	_, ok := s.bindings[name]
	return ok
}

// Apply returns the bound type, invalid when the name is free.
func (s *Subst) Apply(name Name) FullType {
	if name == nil {
		return FullType{}
	}
	return s.bindings[name]
}

// SubstitutionMap is an ordered parameter-to-argument map used when
// rewriting dependent base names.
type SubstitutionMap struct {
	names []Name
	types []FullType
}

func newSubstitutionMap() *SubstitutionMap {
	return &SubstitutionMap{}
}

// Bind appends a name-to-type pair.
func (m *SubstitutionMap) Bind(name Name, ty FullType) {
	m.names = append(m.names, name)
	m.types = append(m.types, ty)
}

// Apply returns the type bound to a name, comparing by identifier.
func (m *SubstitutionMap) Apply(name Name) FullType {
	for i, n := range m.names {
		if CompareName(n, name) {
			return m.types[i]
		}
	}
	return FullType{}
}

// SubstitutionEnvironment is a stack of substitution maps; inner maps shadow
// outer ones.
type SubstitutionEnvironment struct {
	substs []*SubstitutionMap
}

func newSubstitutionEnvironment() *SubstitutionEnvironment {
	return &SubstitutionEnvironment{}
}

// Enter pushes a substitution map.
func (e *SubstitutionEnvironment) Enter(m *SubstitutionMap) {
	e.substs = append(e.substs, m)
}

// Apply returns the innermost binding for a name, invalid when free.
func (e *SubstitutionEnvironment) Apply(name Name) FullType {
	for i := len(e.substs) - 1; i >= 0; i-- {
		if ty := e.substs[i].Apply(name); ty.IsValid() {
			return ty
		}
	}
	return FullType{}
}

// rewriteName applies a substitution environment to a name: template
// arguments and qualification components are rewritten, the identifier is
// kept. B<T> becomes B<Concrete>, B<T>::Type becomes B<Concrete>::Type.
func rewriteName(name Name, env *SubstitutionEnvironment, control *Control) Name {
	switch n := name.(type) {
	case nil:
		return nil
	case *NameID:
		if ty := env.Apply(n); ty.IsValid() {
			if named := ty.AsNamedType(); named != nil {
				return named.Name()
			}
		}
		return n
	case *TemplateNameID:
		args := make([]FullType, n.TemplateArgumentCount())
		for i := range args {
			args[i] = rewriteType(n.TemplateArgumentAt(i), env, control)
		}
		return control.TemplateNameID(n.Identifier(), n.IsSpecialization(), args...)
	case *QualifiedNameID:
		base := rewriteName(n.Base(), env, control)
		tail := rewriteName(n.Name(), env, control)
		return control.QualifiedNameID(base, tail)
	default:
		return name
	}
}

// rewriteType applies a substitution environment to a type.
func rewriteType(ty FullType, env *SubstitutionEnvironment, control *Control) FullType {
	if !ty.IsValid() {
		return ty
	}
	switch t := ty.Type().(type) {
	case *NamedType:
		if bound := env.Apply(t.Name()); bound.IsValid() {
			return bound.Qualified(bound.IsConst() || ty.IsConst(), bound.IsVolatile() || ty.IsVolatile())
		}
		return NewFullType(control.NamedType(rewriteName(t.Name(), env, control))).Qualified(ty.IsConst(), ty.IsVolatile())
	case *PointerType:
		return NewFullType(control.PointerType(rewriteType(t.ElementType(), env, control))).Qualified(ty.IsConst(), ty.IsVolatile())
	case *ReferenceType:
		return NewFullType(control.ReferenceType(rewriteType(t.ElementType(), env, control), t.IsRvalueReference())).Qualified(ty.IsConst(), ty.IsVolatile())
	case *ArrayType:
		return NewFullType(control.ArrayType(rewriteType(t.ElementType(), env, control))).Qualified(ty.IsConst(), ty.IsVolatile())
	default:
		return ty
	}
}

// Cloner deep-copies symbols, applying a substitution to every type it
// carries over. Clones get the source's location, so a clone and its
// original compare identical by file, line and column.
type Cloner struct {
	control *Control
}

func newCloner(control *Control) *Cloner {
	return &Cloner{control: control}
}

// Name clones a name under a substitution. Interning makes unaffected names
// come back identical.
func (c *Cloner) Name(name Name, subst *Subst) Name {
	switch n := name.(type) {
	case nil:
		return nil
	case *NameID:
		return n
	case *TemplateNameID:
		args := make([]FullType, n.TemplateArgumentCount())
		for i := range args {
			args[i] = c.Type(n.TemplateArgumentAt(i), subst)
		}
		return c.control.TemplateNameID(n.Identifier(), n.IsSpecialization(), args...)
	case *QualifiedNameID:
		return c.control.QualifiedNameID(c.Name(n.Base(), subst), c.Name(n.Name(), subst))
	default:
		return name
	}
}

// Type clones a type under a substitution. A named type bound by the
// substitution is replaced with its binding, merging cv-qualifiers.
func (c *Cloner) Type(ty FullType, subst *Subst) FullType {
	if !ty.IsValid() {
		return ty
	}
	switch t := ty.Type().(type) {
	case *NamedType:
		if subst != nil {
			if bound := subst.Apply(t.Name()); bound.IsValid() {
				return bound.Qualified(bound.IsConst() || ty.IsConst(), bound.IsVolatile() || ty.IsVolatile())
			}
		}
		return NewFullType(c.control.NamedType(c.Name(t.Name(), subst))).Qualified(ty.IsConst(), ty.IsVolatile())
	case *PointerType:
		return NewFullType(c.control.PointerType(c.Type(t.ElementType(), subst))).Qualified(ty.IsConst(), ty.IsVolatile())
	case *ReferenceType:
		return NewFullType(c.control.ReferenceType(c.Type(t.ElementType(), subst), t.IsRvalueReference())).Qualified(ty.IsConst(), ty.IsVolatile())
	case *ArrayType:
		return NewFullType(c.control.ArrayType(c.Type(t.ElementType(), subst))).Qualified(ty.IsConst(), ty.IsVolatile())
	default:
		return ty
	}
}

// Symbol clones a symbol under a substitution. Scoped symbols clone their
// members recursively; symbols the engine never rewrites (Obj-C) come back
// as themselves.
func (c *Cloner) Symbol(s Symbol, subst *Subst) Symbol {
	switch sym := s.(type) {
	case *Declaration:
		clone := NewDeclaration(c.Name(sym.Name(), subst), c.Type(sym.Type(), subst))
		clone.SetTypedef(sym.IsTypedef())
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *EnumeratorDeclaration:
		clone := NewEnumeratorDeclaration(c.Name(sym.Name(), subst), c.Type(sym.Type(), subst))
		clone.SetConstantValue(sym.ConstantValue())
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *Argument:
		clone := NewArgument(c.Name(sym.Name(), subst), c.Type(sym.Type(), subst))
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *TypenameArgument:
		clone := NewTypenameArgument(c.Name(sym.Name(), subst))
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *ForwardClassDeclaration:
		clone := NewForwardClassDeclaration(c.Name(sym.Name(), subst))
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *Class:
		clone := NewClass(c.Name(sym.Name(), subst))
		clone.SetKey(sym.Key())
		c.copyLocation(&clone.symbolNode, s)
		for i := 0; i < sym.BaseClassCount(); i++ {
			base := sym.BaseClassAt(i)
			baseClone := NewBaseClass(c.Name(base.Name(), subst))
			baseClone.SetVirtual(base.IsVirtual())
			baseClone.SetAccess(base.Access())
			c.copyLocation(&baseClone.symbolNode, base)
			clone.AddBaseClass(baseClone)
		}
		for i := 0; i < sym.MemberCount(); i++ {
			clone.AddMember(c.Symbol(sym.MemberAt(i), subst))
		}
		return clone

	case *Enum:
		clone := NewEnum(c.Name(sym.Name(), subst))
		clone.SetScoped(sym.IsScoped())
		c.copyLocation(&clone.symbolNode, s)
		for i := 0; i < sym.MemberCount(); i++ {
			clone.AddMember(c.Symbol(sym.MemberAt(i), subst))
		}
		return clone

	case *Function:
		clone := NewFunction(c.Name(sym.Name(), subst))
		clone.SetReturnType(c.Type(sym.ReturnType(), subst))
		clone.SetVariadic(sym.IsVariadic())
		c.copyLocation(&clone.symbolNode, s)
		for i := 0; i < sym.MemberCount(); i++ {
			clone.AddMember(c.Symbol(sym.MemberAt(i), subst))
		}
		return clone

	case *Block:
		clone := NewBlock()
		c.copyLocation(&clone.symbolNode, s)
		for i := 0; i < sym.MemberCount(); i++ {
			clone.AddMember(c.Symbol(sym.MemberAt(i), subst))
		}
		return clone

	case *Template:
		clone := NewTemplate()
		c.copyLocation(&clone.symbolNode, s)
		for i := 0; i < sym.TemplateParameterCount(); i++ {
			clone.AddTemplateParameter(c.Symbol(sym.TemplateParameterAt(i), subst))
		}
		if sym.Declaration() != nil {
			clone.SetDeclaration(c.Symbol(sym.Declaration(), subst))
		}
		return clone

	case *Namespace:
		clone := NewNamespace(c.Name(sym.Name(), subst))
		clone.SetInline(sym.IsInline())
		c.copyLocation(&clone.symbolNode, s)
		for i := 0; i < sym.MemberCount(); i++ {
			clone.AddMember(c.Symbol(sym.MemberAt(i), subst))
		}
		return clone

	case *UsingDeclaration:
		clone := NewUsingDeclaration(c.Name(sym.Name(), subst))
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *UsingNamespaceDirective:
		clone := NewUsingNamespaceDirective(c.Name(sym.Name(), subst))
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *NamespaceAlias:
		clone := NewNamespaceAlias(c.Name(sym.Name(), subst), c.Name(sym.NamespaceName(), subst))
		c.copyLocation(&clone.symbolNode, s)
		return clone

	case *BaseClass:
		clone := NewBaseClass(c.Name(sym.Name(), subst))
		clone.SetVirtual(sym.IsVirtual())
		clone.SetAccess(sym.Access())
		c.copyLocation(&clone.symbolNode, s)
		return clone

	default:
		return s
	}
}

func (c *Cloner) copyLocation(dst *symbolNode, src Symbol) {
	dst.SetSourceLocation(src.FileName(), src.Line(), src.Column())
	dst.SetFriend(src.IsFriend())
}

// instantiateSymbolType substitutes the template arguments of a template-id
// into a member's declared type: given List<Tupple> and the member u of type
// U, the result names Tupple's typedef target rather than the parameter.
func instantiateSymbolType(templID *TemplateNameID, s Symbol, control *Control) FullType {
	var templ *Template
	for scope := s.EnclosingScope(); scope != nil; scope = scope.EnclosingScope() {
		if t, ok := scope.(*Template); ok {
			templ = t
			break
		}
	}
	if templ == nil {
		return s.Type()
	}

	subst := newSubst(control)
	for i := 0; i < templ.TemplateParameterCount() && i < templID.TemplateArgumentCount(); i++ {
		param := templ.TemplateParameterAt(i)
		if param.Name() == nil {
			continue
		}
		subst.Bind(param.Name(), templID.TemplateArgumentAt(i))
	}

	cloner := newCloner(control)
	return cloner.Type(s.Type(), subst)
}

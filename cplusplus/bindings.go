package cplusplus

// CreateBindings walks translation units and builds the binding graph. It
// owns every ClassOrNamespace it allocates. Construction work is deferred:
// visiting a scope enqueues its members on the binding's todo list, and the
// binding flushes them through the factory on first observation.
type CreateBindings struct {
	control  *Control
	snapshot *Snapshot

	globalNamespace *ClassOrNamespace
	current         *ClassOrNamespace
	entities        []*ClassOrNamespace
	processed       map[*Namespace]bool
	expandTemplates bool
}

// NewCreateBindings builds the factory and processes the given document and,
// recursively, its includes.
func NewCreateBindings(thisDocument *Document, snapshot *Snapshot, control *Control) *CreateBindings {
	if control == nil {
		control = NewControl()
	}
	c := &CreateBindings{
		control:   control,
		snapshot:  snapshot,
		processed: make(map[*Namespace]bool),
	}
	c.globalNamespace = c.allocClassOrNamespace(nil)
	c.current = c.globalNamespace
	c.ProcessDocument(thisDocument)
	return c
}

// Control returns the factory's name/type interner.
func (c *CreateBindings) Control() *Control { return c.control }

// GlobalNamespace returns the root binding.
func (c *CreateBindings) GlobalNamespace() *ClassOrNamespace { return c.globalNamespace }

// ExpandTemplates reports whether instantiation clones symbols under the
// argument substitution.
func (c *CreateBindings) ExpandTemplates() bool { return c.expandTemplates }

// SetExpandTemplates switches symbol cloning during template instantiation.
func (c *CreateBindings) SetExpandTemplates(expand bool) { c.expandTemplates = expand }

func (c *CreateBindings) allocClassOrNamespace(parent *ClassOrNamespace) *ClassOrNamespace {
	e := &ClassOrNamespace{
		factory:         c,
		parent:          parent,
		nestedTypes:     make(map[*Identifier]*ClassOrNamespace),
		specializations: make(map[*TemplateNameID]*ClassOrNamespace),
	}
	c.entities = append(c.entities, e)
	return e
}

// ProcessDocument visits a document's global namespace, after its includes
// in include order. Already-processed documents are skipped, which also
// breaks include cycles.
func (c *CreateBindings) ProcessDocument(doc *Document) {
	if doc == nil {
		return
	}
	globalNamespace := doc.GlobalNamespace()
	if globalNamespace == nil || c.processed[globalNamespace] {
		return
	}
	c.processed[globalNamespace] = true

	for _, include := range doc.Includes() {
		c.ProcessDocument(c.snapshot.Document(include))
	}

	c.accept(globalNamespace)
}

// process visits a deferred symbol with the given binding as the current
// context; bindings call it from flush.
func (c *CreateBindings) process(s Symbol, binding *ClassOrNamespace) {
	previous := c.switchCurrent(binding)
	c.accept(s)
	c.switchCurrent(previous)
}

// enqueue defers a member until its binding is first observed.
func (c *CreateBindings) enqueue(s Symbol) {
	c.current.addTodo(s)
}

func (c *CreateBindings) switchCurrent(binding *ClassOrNamespace) *ClassOrNamespace {
	previous := c.current
	c.current = binding
	return previous
}

func (c *CreateBindings) enterClassOrNamespaceBinding(s Symbol) *ClassOrNamespace {
	entity := c.current.FindOrCreateType(s.Name(), nil)
	entity.addSymbol(s)
	return c.switchCurrent(entity)
}

func (c *CreateBindings) enterGlobalClassOrNamespace(s Symbol) *ClassOrNamespace {
	entity := c.globalNamespace.FindOrCreateType(s.Name(), nil)
	entity.addSymbol(s)
	return c.switchCurrent(entity)
}

// accept dispatches one symbol to its visit case.
func (c *CreateBindings) accept(s Symbol) {
	switch sym := s.(type) {
	case *Template:
		// The wrapper itself contributes nothing; the wrapped declaration
		// carries the parameters through its enclosing scope.
		if d := sym.Declaration(); d != nil {
			c.accept(d)
		}

	case *Namespace:
		c.visitNamespace(sym)

	case *Class:
		c.visitClass(sym)

	case *ForwardClassDeclaration:
		if !sym.IsFriend() {
			previous := c.enterClassOrNamespaceBinding(sym)
			c.switchCurrent(previous)
		}

	case *Enum:
		if sym.IsScoped() {
			// enum class: the enumerators live behind the enum's own
			// binding, reachable only with qualification.
			previous := c.enterClassOrNamespaceBinding(sym)
			c.switchCurrent(previous)
		} else {
			c.current.addEnum(sym)
		}

	case *Declaration:
		c.visitDeclaration(sym)

	case *Function:
		// Functions do not open bindings.

	case *BaseClass:
		// Unresolved bases stay pending; instantiation may resolve them.
		if base := c.current.LookupType(sym.Name()); base != nil {
			c.current.addUsing(base)
		}

	case *UsingDeclaration:
		c.visitUsingDeclaration(sym)

	case *UsingNamespaceDirective:
		if e := c.current.LookupType(sym.Name()); e != nil {
			c.current.addUsing(e)
		}

	case *NamespaceAlias:
		c.visitNamespaceAlias(sym)

	case *ObjCClass:
		c.visitObjCClass(sym)

	case *ObjCBaseClass:
		if base := c.globalNamespace.LookupType(sym.Name()); base != nil {
			c.current.addUsing(base)
		}

	case *ObjCForwardClassDeclaration:
		previous := c.enterGlobalClassOrNamespace(sym)
		c.switchCurrent(previous)

	case *ObjCProtocol:
		c.visitObjCProtocol(sym)

	case *ObjCBaseProtocol:
		if base := c.globalNamespace.LookupType(sym.Name()); base != nil {
			c.current.addUsing(base)
		}

	case *ObjCForwardProtocolDeclaration:
		previous := c.enterGlobalClassOrNamespace(sym)
		c.switchCurrent(previous)

	case *ObjCMethod:
		// Methods do not open bindings.
	}
}

func (c *CreateBindings) visitNamespace(ns *Namespace) {
	previous := c.enterClassOrNamespaceBinding(ns)

	for i := 0; i < ns.MemberCount(); i++ {
		c.enqueue(ns.MemberAt(i))
	}

	if ns.IsInline() && previous != nil {
		previous.addUsing(c.current)
	}

	c.switchCurrent(previous)
}

func (c *CreateBindings) visitClass(klass *Class) {
	previous := c.current

	var binding *ClassOrNamespace
	if klass.Name() != nil && isQualifiedNameID(klass.Name()) {
		// An out-of-line definition of a nested class; bind it to the home
		// the forward declaration created.
		binding = c.current.LookupType(klass.Name())
	}
	if binding == nil {
		binding = c.current.FindOrCreateType(klass.Name(), nil)
	}

	c.current = binding
	c.current.addSymbol(klass)

	for i := 0; i < klass.BaseClassCount(); i++ {
		c.enqueue(klass.BaseClassAt(i))
	}
	for i := 0; i < klass.MemberCount(); i++ {
		c.enqueue(klass.MemberAt(i))
	}

	c.current = previous
}

func (c *CreateBindings) visitDeclaration(decl *Declaration) {
	if !decl.IsTypedef() {
		return
	}
	ty := decl.Type()
	if decl.Identifier() == nil || ty.IsConst() || ty.IsVolatile() {
		return
	}

	if namedTy := ty.AsNamedType(); namedTy != nil {
		if e := c.current.LookupType(namedTy.Name()); e != nil {
			c.current.addNestedType(decl.Name(), e)
		}
	} else if klass := ty.AsClassType(); klass != nil {
		// typedef struct { ... } U; the anonymous class gets a binding
		// under the typedef's name.
		if nameID := asNameID(decl.Name()); nameID != nil {
			binding := c.current.FindOrCreateType(nameID, nil)
			binding.addSymbol(klass)
		}
	}
}

func (c *CreateBindings) visitUsingDeclaration(u *UsingDeclaration) {
	q := asQualifiedNameID(u.Name())
	if q == nil {
		return
	}
	nameID := asNameID(q.Name())
	if nameID == nil {
		return
	}
	if delegate := c.current.LookupType(q); delegate != nil {
		b := c.current.FindOrCreateType(nameID, nil)
		b.addUsing(delegate)
	}
}

func (c *CreateBindings) visitNamespaceAlias(a *NamespaceAlias) {
	if a.Identifier() == nil {
		return
	}
	if e := c.current.LookupType(a.NamespaceName()); e != nil {
		if isNameID(a.Name()) || isTemplateNameID(a.Name()) {
			c.current.addNestedType(a.Name(), e)
		}
	}
}

func (c *CreateBindings) visitObjCClass(klass *ObjCClass) {
	previous := c.enterGlobalClassOrNamespace(klass)

	if klass.BaseClass() != nil {
		c.enqueue(klass.BaseClass())
	}
	for i := 0; i < klass.ProtocolCount(); i++ {
		c.enqueue(klass.ProtocolAt(i))
	}
	for i := 0; i < klass.MemberCount(); i++ {
		c.enqueue(klass.MemberAt(i))
	}

	c.switchCurrent(previous)
}

func (c *CreateBindings) visitObjCProtocol(proto *ObjCProtocol) {
	previous := c.enterGlobalClassOrNamespace(proto)

	for i := 0; i < proto.ProtocolCount(); i++ {
		c.enqueue(proto.ProtocolAt(i))
	}
	for i := 0; i < proto.MemberCount(); i++ {
		c.enqueue(proto.MemberAt(i))
	}

	c.switchCurrent(previous)
}

// lookupInScope matches one name against one scope's symbol table and
// appends the matches to result. Friends, using-directives and out-of-line
// qualified declarations never match. When templateID is set, declaration
// and function matches get their type substituted at those arguments.
func (c *CreateBindings) lookupInScope(name Name, scope Scope, result []LookupItem,
	templateID *TemplateNameID, binding *ClassOrNamespace) []LookupItem {

	if name == nil {
		return result
	}

	if op := asOperatorNameID(name); op != nil {
		for _, s := range scope.FindOperator(op.Kind()) {
			if s.Name() == nil || s.IsFriend() {
				continue
			}
			if sOp := asOperatorNameID(s.Name()); sOp == nil || sOp.Kind() != op.Kind() {
				continue
			}
			var item LookupItem
			item.SetDeclaration(s)
			item.SetBinding(binding)
			result = append(result, item)
		}
		return result
	}

	id := name.Identifier()
	if id == nil {
		return result
	}

	for _, s := range scope.Find(id) {
		if s.IsFriend() {
			continue
		}
		if asUsingNamespaceDirective(s) != nil {
			continue
		}
		if !id.EqualTo(s.Identifier()) {
			continue
		}
		if s.Name() != nil && isQualifiedNameID(s.Name()) {
			continue
		}

		var item LookupItem
		item.SetDeclaration(s)
		item.SetBinding(binding)

		if asNamespaceAlias(s) != nil && binding != nil {
			if target := binding.LookupType(name); target != nil && len(target.Symbols()) == 1 {
				item.SetType(target.Symbols()[0].Type())
			}
		}

		if templateID != nil && isDeclarationOrFunction(s) {
			item.SetType(instantiateSymbolType(templateID, s, c.control))
		}

		result = append(result, item)
	}

	return result
}

// LookupTypeForSymbol resolves a symbol's path from the root to its binding.
// When an enclosing template instantiation is given, the path's last name is
// first tried against it, so types written inside a template body resolve
// against the instantiation's substitutions.
func (c *CreateBindings) LookupTypeForSymbol(symbol Symbol, enclosingTemplateInstantiation *ClassOrNamespace) *ClassOrNamespace {
	return c.lookupTypePath(PathOf(symbol), enclosingTemplateInstantiation)
}

func (c *CreateBindings) lookupTypePath(path []Name, enclosingTemplateInstantiation *ClassOrNamespace) *ClassOrNamespace {
	if len(path) == 0 {
		return c.globalNamespace
	}

	if enclosingTemplateInstantiation != nil {
		if b := enclosingTemplateInstantiation.LookupType(path[len(path)-1]); b != nil {
			return b
		}
	}

	b := c.globalNamespace.LookupType(path[0])
	for i := 1; b != nil && i < len(path); i++ {
		b = b.FindType(path[i])
	}
	return b
}

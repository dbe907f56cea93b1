package cplusplus

// ClassOrNamespace is a node in the binding graph. One binding aggregates
// every symbol that contributes to a class or namespace: reopened namespace
// definitions, forward declarations and the definition itself. Members are
// realized lazily: construction enqueues them on the todo list and the first
// accessor call flushes them through the factory, which breaks construction
// cycles between mutually referencing scopes.
type ClassOrNamespace struct {
	factory *CreateBindings
	parent  *ClassOrNamespace

	symbols []Symbol
	enums   []*Enum
	usings  []*ClassOrNamespace
	todo    []Symbol

	// nestedTypes is keyed by identifier: a template-id and the plain name
	// of its primary template share an entry.
	nestedTypes     map[*Identifier]*ClassOrNamespace
	specializations map[*TemplateNameID]*ClassOrNamespace

	templateID          *TemplateNameID
	instantiationOrigin *ClassOrNamespace

	// Reentrancy guards for base-class completion; scoped to one top-level
	// query via paired insert/clear.
	alreadyConsideredClasses   map[*Class]bool
	alreadyConsideredTemplates map[*TemplateNameID]bool
}

// TemplateID returns the template-id this binding stands for when it is a
// specialization or instantiation node, nil otherwise.
func (b *ClassOrNamespace) TemplateID() *TemplateNameID { return b.templateID }

// InstantiationOrigin returns the binding of the enclosing template
// instantiation that caused this one, nil for reference bindings.
func (b *ClassOrNamespace) InstantiationOrigin() *ClassOrNamespace { return b.instantiationOrigin }

// Parent returns the enclosing binding, nil only for the global namespace.
func (b *ClassOrNamespace) Parent() *ClassOrNamespace { return b.parent }

// Usings returns the bindings whose names are visible here: bases,
// using-directives, using-declaration delegates and inline namespaces.
func (b *ClassOrNamespace) Usings() []*ClassOrNamespace {
	b.flush()
	return b.usings
}

// Enums returns the enums declared in this binding.
func (b *ClassOrNamespace) Enums() []*Enum {
	b.flush()
	return b.enums
}

// Symbols returns the symbols contributing to this binding.
func (b *ClassOrNamespace) Symbols() []Symbol {
	b.flush()
	return b.symbols
}

// GlobalNamespace walks the parent chain to the root binding.
func (b *ClassOrNamespace) GlobalNamespace() *ClassOrNamespace {
	e := b
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Find returns the candidates for a name local to this binding; the
// enclosing scopes are not searched.
func (b *ClassOrNamespace) Find(name Name) []LookupItem {
	return b.lookupHelper(name, false)
}

// Lookup returns the candidates for a name in this binding or, when none
// match, in its enclosing bindings.
func (b *ClassOrNamespace) Lookup(name Name) []LookupItem {
	return b.lookupHelper(name, true)
}

func (b *ClassOrNamespace) lookupHelper(name Name, searchInEnclosingScope bool) []LookupItem {
	var result []LookupItem

	if name == nil {
		return result
	}

	if q := asQualifiedNameID(name); q != nil {
		if q.Base() == nil {
			return b.GlobalNamespace().Find(q.Name())
		}

		if binding := b.LookupType(q.Base()); binding != nil {
			result = binding.Find(q.Name())

			fullName := addNames(name, nil, false)

			// A nested class that is only forward declared inside its
			// enclosing class may be defined out of line; such a definition
			// lives in an ancestor binding under its qualified name, so it
			// would be missed by the local search above.
			var match Symbol
			for parentBinding := binding.Parent(); parentBinding != nil && match == nil; parentBinding = parentBinding.Parent() {
				for _, s := range parentBinding.Symbols() {
					scope := asScope(s)
					if scope == nil {
						continue
					}
					for i := 0; i < scope.MemberCount(); i++ {
						candidate := scope.MemberAt(i)
						if CompareFullyQualifiedName(fullName, FullyQualifiedName(candidate)) {
							match = candidate
							break
						}
					}
					if match != nil {
						break
					}
				}
			}

			if match != nil {
				var item LookupItem
				item.SetDeclaration(match)
				item.SetBinding(binding)
				result = append(result, item)
			}
		}

		return result
	}

	processed := make(map[*ClassOrNamespace]bool)
	for binding := b; binding != nil; binding = binding.parent {
		result = lookupInBinding(name, binding, result, processed, nil)
		if !searchInEnclosingScope || len(result) != 0 {
			break
		}
	}

	return result
}

// lookupInBinding collects the candidates for a name in one binding and,
// transitively, its usings. Friends and using-directive pseudo-members never
// introduce the name.
func lookupInBinding(name Name, binding *ClassOrNamespace, result []LookupItem,
	processed map[*ClassOrNamespace]bool, templateID *TemplateNameID) []LookupItem {

	if binding == nil || processed[binding] {
		return result
	}
	processed[binding] = true

	nameID := name.Identifier()

	for _, s := range binding.Symbols() {
		if s.IsFriend() {
			continue
		}
		if asUsingNamespaceDirective(s) != nil {
			continue
		}

		if scope := asScope(s); scope != nil {
			if klass := asClass(s); klass != nil {
				if id := klass.Identifier(); id != nil && nameID != nil && nameID.EqualTo(id) {
					var item LookupItem
					item.SetDeclaration(klass)
					item.SetBinding(binding)
					result = append(result, item)
				}
			}
			result = binding.factory.lookupInScope(name, scope, result, templateID, binding)
		}
	}

	for _, e := range binding.Enums() {
		result = binding.factory.lookupInScope(name, e, result, templateID, binding)
	}

	for _, u := range binding.Usings() {
		result = lookupInBinding(name, u, result, processed, binding.templateID)
	}

	return result
}

// LookupType returns the binding a type name denotes, searching this binding
// and its enclosing scopes.
func (b *ClassOrNamespace) LookupType(name Name) *ClassOrNamespace {
	if name == nil {
		return nil
	}
	processed := make(map[*ClassOrNamespace]bool)
	return b.lookupTypeHelper(name, processed, true, b)
}

// FindType is LookupType without the walk into enclosing scopes.
func (b *ClassOrNamespace) FindType(name Name) *ClassOrNamespace {
	processed := make(map[*ClassOrNamespace]bool)
	return b.lookupTypeHelper(name, processed, false, b)
}

func (b *ClassOrNamespace) lookupTypeHelper(name Name, processed map[*ClassOrNamespace]bool,
	searchInEnclosingScope bool, origin *ClassOrNamespace) *ClassOrNamespace {

	if q := asQualifiedNameID(name); q != nil {
		innerProcessed := make(map[*ClassOrNamespace]bool)
		if q.Base() == nil {
			// Leading "::" restarts the search at the global namespace.
			return b.GlobalNamespace().lookupTypeHelper(q.Name(), innerProcessed, true, origin)
		}

		if binding := b.lookupTypeHelper(q.Base(), processed, true, origin); binding != nil {
			return binding.lookupTypeHelper(q.Name(), innerProcessed, false, origin)
		}

		return nil
	}

	if processed[b] {
		return nil
	}
	processed[b] = true

	if isNameID(name) || isTemplateNameID(name) {
		b.flush()

		for _, s := range b.Symbols() {
			if klass := asClass(s); klass != nil {
				if klass.Identifier() != nil && klass.Identifier().EqualTo(name.Identifier()) {
					return b
				}
			}
		}

		if e := b.nestedType(name, origin); e != nil {
			return e
		}

		if b.templateID != nil && len(b.usings) == 1 {
			// A template instantiation whose sole using is its base; the
			// common shape for a template class deriving from a type
			// parameter. Dependent names resolve through the base.
			delegate := b.usings[0]
			if r := delegate.lookupTypeHelper(name, processed, true, origin); r != nil {
				return r
			}
		}

		for _, u := range b.Usings() {
			if r := u.lookupTypeHelper(name, processed, false, origin); r != nil {
				return r
			}
		}
	}

	if b.parent != nil && searchInEnclosingScope {
		return b.parent.lookupTypeHelper(name, processed, searchInEnclosingScope, origin)
	}

	return nil
}

// FindOrCreateType returns the nested binding for a name, allocating one when
// it does not exist yet. Qualified names create the whole chain.
func (b *ClassOrNamespace) FindOrCreateType(name Name, origin *ClassOrNamespace) *ClassOrNamespace {
	if name == nil {
		return b
	}
	if origin == nil {
		origin = b
	}

	if q := asQualifiedNameID(name); q != nil {
		if q.Base() == nil {
			return b.GlobalNamespace().FindOrCreateType(q.Name(), origin)
		}
		return b.FindOrCreateType(q.Base(), origin).FindOrCreateType(q.Name(), origin)
	}

	if isNameID(name) || isTemplateNameID(name) {
		e := b.nestedType(name, origin)
		if e == nil {
			e = b.factory.allocClassOrNamespace(b)
			b.nestedTypes[name.Identifier()] = e
		}
		return e
	}

	return nil
}

// flush processes the deferred members. The swap-then-clear keeps a nested
// flush from reprocessing the same symbols.
func (b *ClassOrNamespace) flush() {
	if len(b.todo) == 0 {
		return
	}
	todo := b.todo
	b.todo = nil

	for _, member := range todo {
		b.factory.process(member, b)
	}
}

func (b *ClassOrNamespace) addSymbol(symbol Symbol) {
	b.symbols = append(b.symbols, symbol)
}

func (b *ClassOrNamespace) addTodo(symbol Symbol) {
	b.todo = append(b.todo, symbol)
}

func (b *ClassOrNamespace) addEnum(e *Enum) {
	b.enums = append(b.enums, e)
}

func (b *ClassOrNamespace) addUsing(u *ClassOrNamespace) {
	for _, known := range b.usings {
		if known == u {
			return
		}
	}
	b.usings = append(b.usings, u)
}

func (b *ClassOrNamespace) addNestedType(alias Name, e *ClassOrNamespace) {
	if alias == nil || alias.Identifier() == nil {
		return
	}
	b.nestedTypes[alias.Identifier()] = e
}

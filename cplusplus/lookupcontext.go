package cplusplus

// PathOf returns the qualification path of a symbol from the root down. Only
// class, namespace, Obj-C and forward declarations contribute their own name;
// a function contributes the qualification of its qualified name so members
// of out-of-line definitions stay anchored.
func PathOf(symbol Symbol) []Name {
	return pathHelper(symbol, nil)
}

func pathHelper(symbol Symbol, names []Name) []Name {
	if symbol == nil {
		return names
	}

	if scope := symbol.EnclosingScope(); scope != nil {
		names = pathHelper(scope, names)
	}

	if symbol.Name() == nil {
		return names
	}

	switch sym := symbol.(type) {
	case *Class, *Namespace,
		*ObjCClass, *ObjCBaseClass, *ObjCProtocol,
		*ObjCForwardClassDeclaration, *ObjCForwardProtocolDeclaration,
		*ForwardClassDeclaration:
		names = addNames(symbol.Name(), names, false)
	case *Function:
		if q := asQualifiedNameID(sym.Name()); q != nil {
			names = addNames(q.Base(), names, false)
		}
	}

	return names
}

// FullyQualifiedName returns the canonical qualified-name path of a symbol:
// its enclosing path followed by its own name.
func FullyQualifiedName(symbol Symbol) []Name {
	if symbol == nil {
		return nil
	}
	qualifiedName := pathHelper(symbol.EnclosingScope(), nil)
	return addNames(symbol.Name(), qualifiedName, true)
}

// symbolIdentical compares two symbols by source position.
func symbolIdentical(s1, s2 Symbol) bool {
	if s1 == nil || s2 == nil {
		return false
	}
	return s1.Line() == s2.Line() &&
		s1.Column() == s2.Column() &&
		s1.FileName() == s2.FileName()
}

// LookupContext is the query facade: a translation unit, a snapshot of the
// other known units, and a lazily built binding factory.
type LookupContext struct {
	expressionDocument *Document
	thisDocument       *Document
	snapshot           *Snapshot
	control            *Control
	bindings           *CreateBindings
	expandTemplates    bool
}

// NewLookupContext creates a context for a document against a snapshot. The
// control must be the one the documents' names were interned with; nil
// creates a fresh one (useful only for empty contexts).
func NewLookupContext(thisDocument *Document, snapshot *Snapshot, control *Control) *LookupContext {
	if control == nil {
		control = NewControl()
	}
	return &LookupContext{
		expressionDocument: NewDocument("<LookupContext>"),
		thisDocument:       thisDocument,
		snapshot:           snapshot,
		control:            control,
	}
}

// SetExpressionDocument attaches the ephemeral parse of a user-typed
// fragment.
func (c *LookupContext) SetExpressionDocument(doc *Document) {
	c.expressionDocument = doc
}

// ExpressionDocument returns the ephemeral fragment document.
func (c *LookupContext) ExpressionDocument() *Document { return c.expressionDocument }

// ThisDocument returns the document containing the cursor.
func (c *LookupContext) ThisDocument() *Document { return c.thisDocument }

// Document returns the snapshot's document for a file name.
func (c *LookupContext) Document(fileName string) *Document {
	return c.snapshot.Document(fileName)
}

// Snapshot returns the ambient snapshot.
func (c *LookupContext) Snapshot() *Snapshot { return c.snapshot }

// Control returns the context's interner.
func (c *LookupContext) Control() *Control { return c.control }

// SetExpandTemplates switches template symbol cloning for the (lazily
// created) factory.
func (c *LookupContext) SetExpandTemplates(expand bool) {
	c.expandTemplates = expand
	if c.bindings != nil {
		c.bindings.SetExpandTemplates(expand)
	}
}

// Bindings returns the binding factory, building it on first use.
func (c *LookupContext) Bindings() *CreateBindings {
	if c.bindings == nil {
		c.bindings = NewCreateBindings(c.thisDocument, c.snapshot, c.control)
		c.bindings.SetExpandTemplates(c.expandTemplates)
	}
	return c.bindings
}

// SetBindings shares a prebuilt factory between contexts.
func (c *LookupContext) SetBindings(bindings *CreateBindings) {
	c.bindings = bindings
}

// GlobalNamespace returns the root binding.
func (c *LookupContext) GlobalNamespace() *ClassOrNamespace {
	return c.Bindings().GlobalNamespace()
}

// LookupType resolves a type name from a scope. Blocks consult their
// using-directives and typedefs before deferring to the enclosing scope;
// other scopes resolve through their binding.
func (c *LookupContext) LookupType(name Name, scope Scope,
	enclosingTemplateInstantiation *ClassOrNamespace) *ClassOrNamespace {

	if scope == nil {
		return nil
	}

	if block := asBlock(scope); block != nil {
		for i := 0; i < block.MemberCount(); i++ {
			m := block.MemberAt(i)
			if u := asUsingNamespaceDirective(m); u != nil {
				var enclosing Scope
				if ns := enclosingNamespace(scope.EnclosingScope()); ns != nil {
					enclosing = ns
				}
				if uu := c.LookupType(u.Name(), enclosing, nil); uu != nil {
					if r := uu.LookupType(name); r != nil {
						return r
					}
				}
			} else if d := asDeclaration(m); d != nil {
				if nid := asNameID(name); nid != nil && d.Name() != nil && CompareName(d.Name(), nid) {
					if d.IsTypedef() && d.Type().IsValid() {
						if namedTy := d.Type().AsNamedType(); namedTy != nil {
							return c.LookupType(namedTy.Name(), scope, nil)
						}
					}
				}
			}
		}
		return c.LookupType(name, scope.EnclosingScope(), enclosingTemplateInstantiation)
	}

	if b := c.Bindings().LookupTypeForSymbol(scope, enclosingTemplateInstantiation); b != nil {
		return b.LookupType(name)
	}

	return nil
}

// LookupTypeForSymbol resolves a symbol's own binding.
func (c *LookupContext) LookupTypeForSymbol(symbol Symbol,
	enclosingTemplateInstantiation *ClassOrNamespace) *ClassOrNamespace {
	return c.Bindings().LookupTypeForSymbol(symbol, enclosingTemplateInstantiation)
}

// Lookup walks enclosing scopes from innermost to outermost and returns the
// candidates from the first scope that produces any.
func (c *LookupContext) Lookup(name Name, scope Scope) []LookupItem {
	var candidates []LookupItem

	if name == nil {
		return candidates
	}

	for ; scope != nil; scope = scope.EnclosingScope() {
		switch {
		case name.Identifier() != nil && asBlock(scope) != nil:
			candidates = c.Bindings().lookupInScope(name, scope, candidates, nil, nil)
			if len(candidates) != 0 {
				return candidates // it's a local
			}

			for i := 0; i < scope.MemberCount(); i++ {
				u := asUsingNamespaceDirective(scope.MemberAt(i))
				if u == nil {
					continue
				}
				var enclosing Scope
				if ns := enclosingNamespace(scope.EnclosingScope()); ns != nil {
					enclosing = ns
				}
				if uu := c.LookupType(u.Name(), enclosing, nil); uu != nil {
					candidates = uu.Find(name)
					if len(candidates) != 0 {
						return candidates
					}
				}
			}

		case asFunction(scope) != nil:
			fun := asFunction(scope)
			candidates = c.Bindings().lookupInScope(name, fun, candidates, nil, nil)
			if len(candidates) != 0 {
				return candidates // an argument
			}

			if fun.Name() != nil && isQualifiedNameID(fun.Name()) {
				if binding := c.Bindings().LookupTypeForSymbol(fun, nil); binding != nil {
					candidates = binding.Find(name)
					for len(candidates) == 0 && binding.Parent() != nil {
						binding = binding.Parent()
						candidates = binding.Find(name)
					}
					if len(candidates) != 0 {
						return candidates
					}
				}
			}

			// Out-of-line member functions keep searching the enclosing
			// file scope.

		case asTemplate(scope) != nil:
			candidates = c.Bindings().lookupInScope(name, scope, candidates, nil, nil)
			if len(candidates) != 0 {
				return candidates // a template parameter
			}

		case asClass(scope) != nil, asNamespace(scope) != nil, isObjCClassLike(scope):
			if binding := c.Bindings().LookupTypeForSymbol(scope, nil); binding != nil {
				candidates = binding.Find(name)
				if len(candidates) != 0 {
					return candidates
				}
			}

		default:
			if method, ok := scope.(*ObjCMethod); ok {
				candidates = c.Bindings().lookupInScope(name, method, candidates, nil, nil)
				if len(candidates) != 0 {
					return candidates // a formal argument
				}
			}
		}
	}

	return candidates
}

// LookupParent resolves the binding that encloses a symbol, nil when the
// symbol's path does not resolve.
func (c *LookupContext) LookupParent(symbol Symbol) *ClassOrNamespace {
	binding := c.GlobalNamespace()
	for _, name := range PathOf(symbol.EnclosingScope()) {
		binding = binding.FindType(name)
		if binding == nil {
			return nil
		}
	}
	return binding
}

// MinimalName computes the shortest qualified suffix of a symbol's fully
// qualified name that, looked up from target, resolves back to the symbol
// (compared by source position).
func (c *LookupContext) MinimalName(symbol Symbol, target *ClassOrNamespace) Name {
	var n Name
	names := FullyQualifiedName(symbol)

	for i := len(names) - 1; i >= 0; i-- {
		if n == nil {
			n = names[i]
		} else {
			n = c.control.QualifiedNameID(names[i], n)
		}

		if target != nil {
			for _, item := range target.Lookup(n) {
				if symbolIdentical(item.Declaration(), symbol) {
					return n
				}
			}
		}
	}

	return n
}

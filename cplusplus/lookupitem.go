package cplusplus

// LookupItem is one candidate produced by a lookup: the declaration, the
// binding it was found through, and an optional type override (set when a
// namespace alias is resolved or a template member's type was substituted).
type LookupItem struct {
	declaration Symbol
	binding     *ClassOrNamespace
	ty          FullType
	scope       Scope
}

// Declaration returns the candidate declaration.
func (item LookupItem) Declaration() Symbol { return item.declaration }

// Binding returns the binding the candidate was found through, which may be
// nil for block-local matches.
func (item LookupItem) Binding() *ClassOrNamespace { return item.binding }

// Scope returns the scope the candidate was matched in, when known.
func (item LookupItem) Scope() Scope { return item.scope }

// Type returns the candidate's effective type: the override when one was
// recorded, otherwise the declaration's own type.
func (item LookupItem) Type() FullType {
	if item.ty.IsValid() {
		return item.ty
	}
	if item.declaration != nil {
		return item.declaration.Type()
	}
	return FullType{}
}

// SetDeclaration records the candidate declaration.
func (item *LookupItem) SetDeclaration(declaration Symbol) { item.declaration = declaration }

// SetBinding records the binding the candidate was found through.
func (item *LookupItem) SetBinding(binding *ClassOrNamespace) { item.binding = binding }

// SetScope records the scope the candidate was matched in.
func (item *LookupItem) SetScope(scope Scope) { item.scope = scope }

// SetType overrides the candidate's type.
func (item *LookupItem) SetType(ty FullType) { item.ty = ty }

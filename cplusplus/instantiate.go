package cplusplus

// nestedType resolves a plain or template name against this binding's nested
// types. For a template-id it returns a specialization node or a fresh
// instantiation binding cloned under the argument substitution; for other
// names it completes any still-unresolved base classes of the reference in
// place. origin is the binding of the enclosing template instantiation, used
// to resolve dependent names inside template bodies.
func (b *ClassOrNamespace) nestedType(name Name, origin *ClassOrNamespace) *ClassOrNamespace {
	b.flush()

	reference, ok := b.nestedTypes[name.Identifier()]
	if !ok {
		return nil
	}

	templID := asTemplateNameID(name)
	if templID != nil {
		// A template-id either declares a specialization or uses the
		// template; a use may still pick up an explicit full specialization
		// recorded earlier.
		if templID.IsSpecialization() {
			if spec, ok := reference.specializations[templID]; ok {
				return spec
			}
			newSpecialization := b.factory.allocClassOrNamespace(reference)
			reference.specializations[templID] = newSpecialization
			return newSpecialization
		}

		asSpecialization := b.factory.control.TemplateNameID(templID.Identifier(), true, templID.args...)
		if spec, ok := reference.specializations[asSpecialization]; ok {
			reference = spec
		}
		// TODO: pick the best matching partial specialization instead of
		// falling back to the primary template.
	}

	// The reference may still be missing bases that could not be resolved
	// when it was built (dependent names). Collect the declared bases so the
	// missing ones can be completed now.
	var referenceClass *Class
	var allBases []Name
	for _, s := range reference.Symbols() {
		if clazz := asClass(s); clazz != nil {
			for i := 0; i < clazz.BaseClassCount(); i++ {
				if baseName := clazz.BaseClassAt(i).Name(); baseName != nil {
					allBases = append(allBases, baseName)
				}
			}
			referenceClass = clazz
			break
		}
	}

	if referenceClass == nil {
		return reference
	}

	if (templID == nil && b.alreadyConsideredClasses[referenceClass]) ||
		(templID != nil && b.alreadyConsideredTemplates[templID]) {
		return reference
	}

	if templID == nil {
		if b.alreadyConsideredClasses == nil {
			b.alreadyConsideredClasses = make(map[*Class]bool)
		}
		b.alreadyConsideredClasses[referenceClass] = true
	}

	knownUsings := make(map[*ClassOrNamespace]bool)
	for _, u := range reference.Usings() {
		knownUsings[u] = true
	}

	if templID != nil {
		if b.alreadyConsideredTemplates == nil {
			b.alreadyConsideredTemplates = make(map[*TemplateNameID]bool)
		}
		b.alreadyConsideredTemplates[templID] = true

		instantiation := b.factory.allocClassOrNamespace(reference)
		instantiation.templateID = templID
		instantiation.instantiationOrigin = origin

		instantiation.enums = append(instantiation.enums, reference.Enums()...)
		instantiation.usings = append(instantiation.usings, reference.Usings()...)

		if templ := enclosingTemplate(referenceClass); templ != nil {
			b.instantiateTemplateClass(instantiation, reference, referenceClass, templ, templID, allBases, knownUsings, origin)
		} else {
			for key, nested := range reference.nestedTypes {
				instantiation.nestedTypes[key] = nested
			}
			instantiation.symbols = append(instantiation.symbols, reference.Symbols()...)
		}

		delete(b.alreadyConsideredTemplates, templID)
		return instantiation
	}

	if len(allBases) == 0 || len(allBases) == len(knownUsings) {
		return reference
	}

	b.completeBases(reference, referenceClass, name, allBases, knownUsings)

	delete(b.alreadyConsideredClasses, referenceClass)
	return reference
}

// instantiateTemplateClass fills an instantiation binding: clones the
// reference's symbols under the parameter-to-argument substitution and
// resolves the dependent base names.
func (b *ClassOrNamespace) instantiateTemplateClass(instantiation, reference *ClassOrNamespace,
	referenceClass *Class, templ *Template, templID *TemplateNameID,
	allBases []Name, knownUsings map[*ClassOrNamespace]bool, origin *ClassOrNamespace) {

	control := b.factory.control
	argumentCount := templID.TemplateArgumentCount()

	if b.factory.ExpandTemplates() {
		cloner := newCloner(control)
		subst := newSubst(control)
		max := argumentCount
		if templ.TemplateParameterCount() < max {
			max = templ.TemplateParameterCount()
		}
		for i := 0; i < max; i++ {
			tParam := asTypenameArgument(templ.TemplateParameterAt(i))
			if tParam == nil || tParam.Name() == nil {
				continue
			}
			subst.Bind(cloner.Name(tParam.Name(), subst), templID.TemplateArgumentAt(i))
		}

		for _, s := range reference.Symbols() {
			instantiation.symbols = append(instantiation.symbols, cloner.Symbol(s, subst))
		}

		instantiator := &nestedClassInstantiator{
			factory:           b.factory,
			cloner:            cloner,
			subst:             subst,
			alreadyConsidered: make(map[*ClassOrNamespace]bool),
		}
		instantiator.instantiate(reference, instantiation)
	} else {
		instantiation.symbols = append(instantiation.symbols, reference.Symbols()...)
	}

	templParams := make(map[Name]int)
	for i := 0; i < templ.TemplateParameterCount(); i++ {
		templParams[templ.TemplateParameterAt(i).Name()] = i
	}

	for _, baseName := range allBases {
		var baseBinding *ClassOrNamespace

		if isNameID(baseName) {
			// The simplest dependent base: the parameter itself,
			// template <class T> class A : public T {}.
			if parameterIndex, ok := templParams[baseName]; ok && parameterIndex < argumentCount {
				fullType := templID.TemplateArgumentAt(parameterIndex)
				if fullType.IsValid() {
					if namedType := fullType.AsNamedType(); namedType != nil {
						baseBinding = b.LookupType(namedType.Name())
					}
				}
			}
		} else {
			env := newSubstitutionEnvironment()
			substMap := newSubstitutionMap()
			for i := 0; i < templ.TemplateParameterCount() && i < argumentCount; i++ {
				substMap.Bind(templ.TemplateParameterAt(i).Name(), templID.TemplateArgumentAt(i))
			}
			env.Enter(substMap)

			baseName = rewriteName(baseName, env, control)

			if baseTemplID := asTemplateNameID(baseName); baseTemplID != nil {
				// Another template using the dependent name,
				// template <class T> class A : public B<T> {}.
				if !baseTemplID.Identifier().EqualTo(templID.Identifier()) {
					baseBinding = b.nestedType(baseName, origin)
				}
			} else if qBaseName := asQualifiedNameID(baseName); qBaseName != nil {
				// Qualified dependent bases,
				// template <class T> class A : public B<T>::Type {}.
				binding := b
				if qualification := qBaseName.Base(); qualification != nil {
					baseTemplName := asTemplateNameID(qualification)
					if baseTemplName == nil || !CompareName(baseTemplName, templ.Name()) {
						binding = b.LookupType(qualification)
					}
				}
				if binding != nil {
					baseBinding = binding.LookupType(qBaseName.Name())
				}
			}
		}

		if baseBinding != nil && !knownUsings[baseBinding] {
			instantiation.addUsing(baseBinding)
		}
	}
}

// completeBases resolves the missing bases of a non-template reference in
// place: class A : public B<Some>::Type {}.
func (b *ClassOrNamespace) completeBases(reference *ClassOrNamespace, referenceClass *Class,
	name Name, allBases []Name, knownUsings map[*ClassOrNamespace]bool) {

	referencePath := FullyQualifiedName(referenceClass)

	for _, baseName := range allBases {
		binding := b
		if qBaseName := asQualifiedNameID(baseName); qBaseName != nil {
			basePath := addNames(baseName, nil, false)
			if CompareFullyQualifiedName(referencePath, basePath) {
				continue
			}

			if qualification := qBaseName.Base(); qualification != nil {
				binding = b.LookupType(qualification)
			} else if b.Parent() != nil {
				// A globally qualified base inside a namespace,
				// class A {}; namespace NS { class A : public ::A {}; }.
				binding = b.GlobalNamespace()
			} else {
				continue
			}
			baseName = qBaseName.Name()
		} else if CompareName(name, baseName) {
			// Direct self-inheritance; skip rather than loop.
			continue
		}

		if binding != nil {
			if baseBinding := binding.LookupType(baseName); baseBinding != nil && !knownUsings[baseBinding] {
				reference.addUsing(baseBinding)
			}
		}
	}
}

// nestedClassInstantiator walks the nested types of an instantiated template
// class and clones the ones whose members mention a substituted parameter.
type nestedClassInstantiator struct {
	factory           *CreateBindings
	cloner            *Cloner
	subst             *Subst
	alreadyConsidered map[*ClassOrNamespace]bool
}

func (n *nestedClassInstantiator) instantiate(enclosingTemplateClass, enclosingInstantiation *ClassOrNamespace) {
	if n.alreadyConsidered[enclosingTemplateClass] {
		return
	}
	n.alreadyConsidered[enclosingTemplateClass] = true

	for nestedName, nested := range enclosingTemplateClass.nestedTypes {
		nestedInstantiation := nested

		if n.isInstantiationNeeded(nested.symbols) {
			nestedInstantiation = n.factory.allocClassOrNamespace(nested)
			nestedInstantiation.enums = append(nestedInstantiation.enums, nested.Enums()...)
			nestedInstantiation.usings = append(nestedInstantiation.usings, nested.Usings()...)
			nestedInstantiation.instantiationOrigin = nested

			for _, s := range nested.symbols {
				nestedInstantiation.symbols = append(nestedInstantiation.symbols, n.cloner.Symbol(s, n.subst))
			}
		}

		n.instantiate(nested, nestedInstantiation)

		enclosingInstantiation.nestedTypes[nestedName] = nestedInstantiation
	}

	delete(n.alreadyConsidered, enclosingTemplateClass)
}

func (n *nestedClassInstantiator) isInstantiationNeeded(symbols []Symbol) bool {
	for _, s := range symbols {
		klass := asClass(s)
		if klass == nil {
			continue
		}
		for i := 0; i < klass.MemberCount(); i++ {
			switch member := klass.MemberAt(i).(type) {
			case *Declaration:
				if n.containsTemplateType(member.Type()) {
					return true
				}
			case *Function:
				// TODO: inspect the signature; for now a nested function
				// never forces instantiation.
			}
		}
	}
	return false
}

func (n *nestedClassInstantiator) containsTemplateType(ty FullType) bool {
	named := findMemberNamedType(ty)
	return named != nil && n.subst.Contains(named.Name())
}

// findMemberNamedType strips pointers and references down to a named type.
func findMemberNamedType(ty FullType) *NamedType {
	switch {
	case ty.AsNamedType() != nil:
		return ty.AsNamedType()
	case ty.AsPointerType() != nil:
		return findMemberNamedType(ty.AsPointerType().ElementType())
	case ty.AsReferenceType() != nil:
		return findMemberNamedType(ty.AsReferenceType().ElementType())
	}
	return nil
}

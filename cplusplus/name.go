// Package cplusplus implements a lazy, memoized name-resolution graph for
// parsed C++ translation units. Given a Document and a Snapshot of its
// includes it builds ClassOrNamespace bindings on demand and answers the
// lookup queries an editor needs for completion, hover and go-to-definition:
// unqualified/qualified lookup, type lookup, fully-qualified paths and
// minimal qualification. Template classes are instantiated lazily with an
// argument substitution when a template-id is first looked up.
package cplusplus

// Identifier is an interned token. All identifiers are produced by a single
// Control, so two identifiers with the same spelling are the same pointer and
// maps may key on identity.
type Identifier struct {
	chars string
}

// Chars returns the identifier's spelling.
func (id *Identifier) Chars() string {
	if id == nil {
		return ""
	}
	return id.chars
}

// EqualTo reports whether two identifiers have the same spelling. Interning
// makes this equivalent to pointer equality for identifiers from the same
// Control; the spelling comparison keeps the predicate total.
func (id *Identifier) EqualTo(other *Identifier) bool {
	if id == other {
		return true
	}
	if id == nil || other == nil {
		return false
	}
	return id.chars == other.chars
}

// OperatorKind enumerates overloadable operator names.
type OperatorKind int

const (
	OperatorInvalid OperatorKind = iota
	OperatorNew
	OperatorDelete
	OperatorPlus
	OperatorMinus
	OperatorStar
	OperatorSlash
	OperatorPercent
	OperatorCaret
	OperatorAmp
	OperatorPipe
	OperatorTilde
	OperatorExclaim
	OperatorAssign
	OperatorLess
	OperatorGreater
	OperatorPlusAssign
	OperatorMinusAssign
	OperatorShiftLeft
	OperatorShiftRight
	OperatorEqualEqual
	OperatorNotEqual
	OperatorLessEqual
	OperatorGreaterEqual
	OperatorAmpAmp
	OperatorPipePipe
	OperatorPlusPlus
	OperatorMinusMinus
	OperatorComma
	OperatorArrow
	OperatorCall
	OperatorIndex
)

var operatorSpellings = map[OperatorKind]string{
	OperatorNew:          "new",
	OperatorDelete:       "delete",
	OperatorPlus:         "+",
	OperatorMinus:        "-",
	OperatorStar:         "*",
	OperatorSlash:        "/",
	OperatorPercent:      "%",
	OperatorCaret:        "^",
	OperatorAmp:          "&",
	OperatorPipe:         "|",
	OperatorTilde:        "~",
	OperatorExclaim:      "!",
	OperatorAssign:       "=",
	OperatorLess:         "<",
	OperatorGreater:      ">",
	OperatorPlusAssign:   "+=",
	OperatorMinusAssign:  "-=",
	OperatorShiftLeft:    "<<",
	OperatorShiftRight:   ">>",
	OperatorEqualEqual:   "==",
	OperatorNotEqual:     "!=",
	OperatorLessEqual:    "<=",
	OperatorGreaterEqual: ">=",
	OperatorAmpAmp:       "&&",
	OperatorPipePipe:     "||",
	OperatorPlusPlus:     "++",
	OperatorMinusMinus:   "--",
	OperatorComma:        ",",
	OperatorArrow:        "->",
	OperatorCall:         "()",
	OperatorIndex:        "[]",
}

// Spelling returns the operator token, e.g. "+=" for OperatorPlusAssign.
func (k OperatorKind) Spelling() string {
	return operatorSpellings[k]
}

// Name is the identity of a declaration. Composite names are interned by the
// Control that created them. The variants are *NameID, *TemplateNameID,
// *QualifiedNameID, *OperatorNameID, *ConversionNameID and *DestructorNameID.
type Name interface {
	// Identifier returns the identifier that names the entity, or nil for
	// operator and conversion names. For a qualified name it is the
	// identifier of the rightmost component.
	Identifier() *Identifier
}

// NameID is a plain identifier name.
type NameID struct {
	id *Identifier
}

func (n *NameID) Identifier() *Identifier { return n.id }

// TemplateNameID is a name of the form Foo<A1, A2, ...>. The specialization
// flag distinguishes an explicit specialization declaration from an
// instantiation use of the same template-id.
type TemplateNameID struct {
	id               *Identifier
	args             []FullType
	isSpecialization bool
}

func (n *TemplateNameID) Identifier() *Identifier { return n.id }

// TemplateArgumentCount returns the number of template arguments.
func (n *TemplateNameID) TemplateArgumentCount() int { return len(n.args) }

// TemplateArgumentAt returns the i-th template argument.
func (n *TemplateNameID) TemplateArgumentAt(i int) FullType { return n.args[i] }

// IsSpecialization reports whether the template-id names an explicit
// specialization rather than an instantiation.
func (n *TemplateNameID) IsSpecialization() bool { return n.isSpecialization }

// QualifiedNameID is a name of the form base::name. A nil base denotes a
// leading "::" (global qualification).
type QualifiedNameID struct {
	base Name
	name Name
}

func (n *QualifiedNameID) Identifier() *Identifier {
	if n.name == nil {
		return nil
	}
	return n.name.Identifier()
}

// Base returns the qualification, nil for a leading "::".
func (n *QualifiedNameID) Base() Name { return n.base }

// Name returns the unqualified tail of the qualified name.
func (n *QualifiedNameID) Name() Name { return n.name }

// OperatorNameID names an overloaded operator.
type OperatorNameID struct {
	kind OperatorKind
}

func (n *OperatorNameID) Identifier() *Identifier { return nil }

// Kind returns the operator this name stands for.
func (n *OperatorNameID) Kind() OperatorKind { return n.kind }

// ConversionNameID names a conversion function (operator T). The engine
// treats it as opaque.
type ConversionNameID struct {
	ty FullType
}

func (n *ConversionNameID) Identifier() *Identifier { return nil }

// Type returns the destination type of the conversion.
func (n *ConversionNameID) Type() FullType { return n.ty }

// DestructorNameID names a destructor (~Foo).
type DestructorNameID struct {
	id *Identifier
}

func (n *DestructorNameID) Identifier() *Identifier { return n.id }

func asNameID(n Name) *NameID {
	if v, ok := n.(*NameID); ok {
		return v
	}
	return nil
}

func asTemplateNameID(n Name) *TemplateNameID {
	if v, ok := n.(*TemplateNameID); ok {
		return v
	}
	return nil
}

func asQualifiedNameID(n Name) *QualifiedNameID {
	if v, ok := n.(*QualifiedNameID); ok {
		return v
	}
	return nil
}

func asOperatorNameID(n Name) *OperatorNameID {
	if v, ok := n.(*OperatorNameID); ok {
		return v
	}
	return nil
}

func isNameID(n Name) bool {
	_, ok := n.(*NameID)
	return ok
}

func isTemplateNameID(n Name) bool {
	_, ok := n.(*TemplateNameID)
	return ok
}

func isQualifiedNameID(n Name) bool {
	_, ok := n.(*QualifiedNameID)
	return ok
}

// CompareName reports whether two names denote the same identifier. Composite
// structure is intentionally ignored; qualified paths are compared
// component-wise by CompareFullyQualifiedName.
func CompareName(name, other Name) bool {
	if name == other {
		return true
	}
	if name == nil || other == nil {
		return false
	}
	id, otherID := name.Identifier(), other.Identifier()
	return id != nil && id.EqualTo(otherID)
}

// CompareFullyQualifiedName compares two qualified paths component-wise.
func CompareFullyQualifiedName(path, other []Name) bool {
	if len(path) != len(other) {
		return false
	}
	for i := range path {
		if !CompareName(path[i], other[i]) {
			return false
		}
	}
	return true
}

// addNames flattens a name into its identifier components, left to right.
// Qualified names contribute each component; operator, conversion and
// destructor names only contribute when allNames is set.
func addNames(name Name, names []Name, allNames bool) []Name {
	if name == nil {
		return names
	}
	if q := asQualifiedNameID(name); q != nil {
		names = addNames(q.Base(), names, false)
		return addNames(q.Name(), names, allNames)
	}
	if allNames || isNameID(name) || isTemplateNameID(name) {
		names = append(names, name)
	}
	return names
}

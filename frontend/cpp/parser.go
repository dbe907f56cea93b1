// Package cpp parses C++ source files into cplusplus documents using
// tree-sitter.
package cpp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/cppmodel/cplusplus"
	"github.com/c360studio/cppmodel/frontend"
	sitter "github.com/smacker/go-tree-sitter"
	cppsitter "github.com/smacker/go-tree-sitter/cpp"
)

func init() {
	frontend.DefaultRegistry.Register("cpp",
		[]string{".h", ".hh", ".hpp", ".hxx", ".c", ".cc", ".cpp", ".cxx", ".mm"},
		func(control *cplusplus.Control, includeDirs []string) frontend.FileParser {
			return NewParser(control, includeDirs)
		})
}

// Parser builds symbol tables from C++ sources. All names and types go
// through the shared Control so documents from one indexer are comparable by
// pointer identity.
type Parser struct {
	control     *cplusplus.Control
	includeDirs []string
}

// NewParser creates a C++ parser interning through the given control.
func NewParser(control *cplusplus.Control, includeDirs []string) *Parser {
	return &Parser{
		control:     control,
		includeDirs: includeDirs,
	}
}

// ParseFile parses a single C++ file into a Document.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*cplusplus.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(cppsitter.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	doc := cplusplus.NewDocument(filePath)

	t := &translator{
		control:     p.control,
		includeDirs: p.includeDirs,
		doc:         doc,
		source:      content,
		path:        filePath,
	}

	root := tree.RootNode()
	t.translateScope(root, doc.GlobalNamespace())

	if root.HasError() {
		doc.AddDiagnostic(cplusplus.Diagnostic{
			FileName: filePath,
			Line:     1,
			Message:  "file contains syntax errors; the symbol table may be incomplete",
		})
	}

	return doc, nil
}

// translator walks one parse tree and populates the document's scopes.
type translator struct {
	control     *cplusplus.Control
	includeDirs []string
	doc         *cplusplus.Document
	source      []byte
	path        string
}

func (t *translator) text(node *sitter.Node) string {
	return node.Content(t.source)
}

func (t *translator) locate(sym interface {
	SetSourceLocation(string, int, int)
}, node *sitter.Node) {
	sym.SetSourceLocation(t.path, int(node.StartPoint().Row)+1, int(node.StartPoint().Column)+1)
}

// translateScope walks the named children of a container node and adds the
// declarations it finds to the scope.
func (t *translator) translateScope(node *sitter.Node, scope cplusplus.Scope) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		t.translateDeclaration(node.NamedChild(i), scope)
	}
}

func (t *translator) translateDeclaration(node *sitter.Node, scope cplusplus.Scope) {
	switch node.Type() {
	case "preproc_include":
		t.translateInclude(node)

	case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif", "linkage_specification", "declaration_list":
		// Conditional sections and extern "C" blocks contribute their
		// declarations to the surrounding scope.
		t.translateScope(node, scope)

	case "namespace_definition":
		t.translateNamespace(node, scope)

	case "namespace_alias_definition":
		t.translateNamespaceAlias(node, scope)

	case "using_declaration":
		t.translateUsing(node, scope)

	case "alias_declaration":
		t.translateAlias(node, scope)

	case "type_definition":
		t.translateTypedef(node, scope)

	case "class_specifier", "struct_specifier", "union_specifier":
		if sym := t.translateClass(node); sym != nil {
			scope.AddMember(sym)
		}

	case "enum_specifier":
		if e := t.translateEnum(node); e != nil {
			scope.AddMember(e)
		}

	case "template_declaration":
		t.translateTemplate(node, scope)

	case "function_definition":
		if f := t.translateFunctionDefinition(node); f != nil {
			scope.AddMember(f)
		}

	case "declaration", "field_declaration":
		t.translateVariableDeclaration(node, scope)

	case "friend_declaration":
		t.translateFriend(node, scope)

	case "compound_statement":
		block := cplusplus.NewBlock()
		t.locate(block, node)
		t.translateBlockBody(node, block)
		scope.AddMember(block)
	}
}

// translateInclude records an #include, resolved against the including
// file's directory and the configured include dirs.
func (t *translator) translateInclude(node *sitter.Node) {
	pathNode := node.ChildByFieldName("path")
	if pathNode == nil {
		return
	}

	spelled := t.text(pathNode)
	quoted := pathNode.Type() == "string_literal"
	spelled = strings.Trim(spelled, `"<>`)

	var searchDirs []string
	if quoted {
		searchDirs = append(searchDirs, filepath.Dir(t.path))
	}
	searchDirs = append(searchDirs, t.includeDirs...)

	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, spelled)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			t.doc.AddInclude(candidate)
			return
		}
	}

	// Unresolved includes keep their spelled form so a later snapshot
	// insert under that name still connects.
	t.doc.AddInclude(spelled)
}

func (t *translator) translateNamespace(node *sitter.Node, scope cplusplus.Scope) {
	inline := false
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "inline" {
			inline = true
			break
		}
	}

	// "namespace A::B { }" opens one namespace per component.
	var names []cplusplus.Name
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		if nameNode.Type() == "nested_namespace_specifier" {
			for i := 0; i < int(nameNode.NamedChildCount()); i++ {
				names = append(names, t.nameOf(nameNode.NamedChild(i)))
			}
		} else {
			names = append(names, t.nameOf(nameNode))
		}
	} else {
		names = append(names, nil) // anonymous namespace
	}

	current := scope
	for _, name := range names {
		ns := cplusplus.NewNamespace(name)
		t.locate(ns, node)
		if inline {
			ns.SetInline(true)
		}
		current.AddMember(ns)
		current = ns
	}

	if body := node.ChildByFieldName("body"); body != nil {
		t.translateScope(body, current)
	}
}

func (t *translator) translateNamespaceAlias(node *sitter.Node, scope cplusplus.Scope) {
	aliasNode := node.ChildByFieldName("name")
	if aliasNode == nil {
		return
	}

	// The target is the identifier after '='.
	var target cplusplus.Name
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == aliasNode {
			continue
		}
		switch child.Type() {
		case "namespace_identifier", "qualified_identifier", "nested_namespace_specifier":
			target = t.nameOf(child)
		}
	}
	if target == nil {
		return
	}

	alias := cplusplus.NewNamespaceAlias(t.nameOf(aliasNode), target)
	t.locate(alias, node)
	scope.AddMember(alias)
}

// translateUsing handles both "using N::x;" and "using namespace N;".
func (t *translator) translateUsing(node *sitter.Node, scope cplusplus.Scope) {
	isDirective := false
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "namespace" {
			isDirective = true
			break
		}
	}

	var nameNode *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier", "qualified_identifier", "namespace_identifier", "type_identifier":
			nameNode = child
		}
	}
	if nameNode == nil {
		return
	}

	name := t.nameOf(nameNode)
	if isDirective {
		u := cplusplus.NewUsingNamespaceDirective(name)
		t.locate(u, node)
		scope.AddMember(u)
		return
	}
	u := cplusplus.NewUsingDeclaration(name)
	t.locate(u, node)
	scope.AddMember(u)
}

// translateAlias handles "using A = B;".
func (t *translator) translateAlias(node *sitter.Node, scope cplusplus.Scope) {
	nameNode := node.ChildByFieldName("name")
	typeNode := node.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return
	}

	decl := cplusplus.NewDeclaration(t.nameOf(nameNode), t.typeDescriptor(typeNode))
	decl.SetTypedef(true)
	t.locate(decl, node)
	scope.AddMember(decl)
}

// translateTypedef handles "typedef T U;".
func (t *translator) translateTypedef(node *sitter.Node, scope cplusplus.Scope) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	base := t.baseType(typeNode)

	// A typedef of an inline definition also declares the type itself.
	switch typeNode.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		if sym := t.translateClass(typeNode); sym != nil {
			scope.AddMember(sym)
		}
	case "enum_specifier":
		if e := t.translateEnum(typeNode); e != nil {
			scope.AddMember(e)
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == typeNode || !isDeclaratorNode(child) {
			continue
		}
		ty, name, isFunc, _ := t.declarator(base, child)
		if name == nil || isFunc {
			continue
		}
		decl := cplusplus.NewDeclaration(name, ty)
		decl.SetTypedef(true)
		t.locate(decl, child)
		scope.AddMember(decl)
	}
}

// translateClass builds a Class for a definition or a
// ForwardClassDeclaration when no body is present.
func (t *translator) translateClass(node *sitter.Node) cplusplus.Symbol {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")

	var name cplusplus.Name
	if nameNode != nil {
		name = t.classDefinitionName(nameNode)
	}

	if body == nil {
		if name == nil {
			return nil
		}
		fwd := cplusplus.NewForwardClassDeclaration(name)
		t.locate(fwd, node)
		return fwd
	}

	klass := cplusplus.NewClass(name)
	t.locate(klass, node)
	defaultAccess := cplusplus.AccessPrivate
	switch node.Type() {
	case "struct_specifier":
		klass.SetKey(cplusplus.ClassKeyStruct)
		defaultAccess = cplusplus.AccessPublic
	case "union_specifier":
		klass.SetKey(cplusplus.ClassKeyUnion)
		defaultAccess = cplusplus.AccessPublic
	default:
		klass.SetKey(cplusplus.ClassKeyClass)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "base_class_clause" {
			t.translateBaseClause(child, klass, defaultAccess)
		}
	}

	t.translateScope(body, klass)
	return klass
}

// classDefinitionName interns the name of a class definition. A template-id
// here can only be an explicit or partial specialization, so the interned
// template name carries the specialization flag.
func (t *translator) classDefinitionName(nameNode *sitter.Node) cplusplus.Name {
	if nameNode.Type() != "template_type" {
		return t.nameOf(nameNode)
	}

	inner := nameNode.ChildByFieldName("name")
	if inner == nil {
		return nil
	}
	args := t.templateArguments(nameNode.ChildByFieldName("arguments"))
	return t.control.TemplateNameID(t.control.Identifier(t.text(inner)), true, args...)
}

func (t *translator) translateBaseClause(node *sitter.Node, klass *cplusplus.Class, access cplusplus.AccessSpecifier) {
	virtual := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "access_specifier":
			switch t.text(child) {
			case "public":
				access = cplusplus.AccessPublic
			case "protected":
				access = cplusplus.AccessProtected
			case "private":
				access = cplusplus.AccessPrivate
			}
		case "virtual":
			virtual = true
		case "type_identifier", "qualified_identifier", "template_type":
			base := cplusplus.NewBaseClass(t.nameOf(child))
			base.SetAccess(access)
			base.SetVirtual(virtual)
			t.locate(base, child)
			klass.AddBaseClass(base)
			// Specifiers apply per base; reset for the next one.
			access = cplusplus.AccessPrivate
			if klass.Key() != cplusplus.ClassKeyClass {
				access = cplusplus.AccessPublic
			}
			virtual = false
		}
	}
}

func (t *translator) translateEnum(node *sitter.Node) *cplusplus.Enum {
	nameNode := node.ChildByFieldName("name")
	var name cplusplus.Name
	if nameNode != nil {
		name = t.nameOf(nameNode)
	}

	e := cplusplus.NewEnum(name)
	t.locate(e, node)
	for i := 0; i < int(node.ChildCount()); i++ {
		ct := node.Child(i).Type()
		if ct == "class" || ct == "struct" {
			e.SetScoped(true)
			break
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return e
	}

	enumType := cplusplus.NewFullType(e)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "enumerator" {
			continue
		}
		enName := child.ChildByFieldName("name")
		if enName == nil {
			continue
		}
		enumerator := cplusplus.NewEnumeratorDeclaration(t.nameOf(enName), enumType)
		if value := child.ChildByFieldName("value"); value != nil {
			enumerator.SetConstantValue(t.text(value))
		}
		t.locate(enumerator, child)
		e.AddMember(enumerator)
	}
	return e
}

func (t *translator) translateTemplate(node *sitter.Node, scope cplusplus.Scope) {
	templ := cplusplus.NewTemplate()
	t.locate(templ, node)

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			param := params.NamedChild(i)
			switch param.Type() {
			case "type_parameter_declaration", "optional_type_parameter_declaration",
				"template_template_parameter_declaration":
				if id := firstChildOfType(param, "type_identifier"); id != nil {
					arg := cplusplus.NewTypenameArgument(t.nameOf(id))
					t.locate(arg, id)
					templ.AddTemplateParameter(arg)
				}
			case "parameter_declaration":
				// Non-type template parameter.
				ty, name := t.parameter(param)
				if name != nil {
					arg := cplusplus.NewArgument(name, ty)
					t.locate(arg, param)
					templ.AddTemplateParameter(arg)
				}
			}
		}
	}

	var decl cplusplus.Symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			decl = t.translateClass(child)
		case "function_definition":
			if f := t.translateFunctionDefinition(child); f != nil {
				decl = f
			}
		case "alias_declaration":
			// Alias templates declare inside a throwaway scope; the
			// declaration becomes the template's payload.
			holder := cplusplus.NewBlock()
			t.translateAlias(child, holder)
			if holder.MemberCount() > 0 {
				decl = holder.MemberAt(0)
			}
		case "declaration":
			holder := cplusplus.NewBlock()
			t.translateVariableDeclaration(child, holder)
			if holder.MemberCount() > 0 {
				decl = holder.MemberAt(0)
			}
		case "template_declaration":
			holder := cplusplus.NewBlock()
			t.translateTemplate(child, holder)
			if holder.MemberCount() > 0 {
				decl = holder.MemberAt(0)
			}
		}
	}

	if decl == nil {
		return
	}
	templ.SetDeclaration(decl)
	scope.AddMember(templ)
}

func (t *translator) translateFunctionDefinition(node *sitter.Node) *cplusplus.Function {
	var ret cplusplus.FullType
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		ret = t.baseType(typeNode)
	}

	declNode := node.ChildByFieldName("declarator")
	if declNode == nil {
		return nil
	}

	ty, name, isFunc, funcDecl := t.declarator(ret, declNode)
	if !isFunc || funcDecl == nil {
		return nil
	}

	f := t.buildFunction(name, ty, funcDecl)
	t.locate(f, node)

	if body := node.ChildByFieldName("body"); body != nil && body.Type() == "compound_statement" {
		block := cplusplus.NewBlock()
		t.locate(block, body)
		t.translateBlockBody(body, block)
		f.AddMember(block)
	}
	return f
}

// buildFunction creates a Function from a function_declarator, adding its
// parameters as Argument members.
func (t *translator) buildFunction(name cplusplus.Name, returnType cplusplus.FullType, funcDecl *sitter.Node) *cplusplus.Function {
	f := cplusplus.NewFunction(name)
	f.SetReturnType(returnType)

	params := funcDecl.ChildByFieldName("parameters")
	if params == nil {
		return f
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		switch child.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			ty, pname := t.parameter(child)
			arg := cplusplus.NewArgument(pname, ty)
			t.locate(arg, child)
			f.AddMember(arg)
		case "variadic_parameter_declaration", "...":
			f.SetVariadic(true)
		}
	}
	return f
}

// parameter extracts the type and optional name of a parameter_declaration.
func (t *translator) parameter(node *sitter.Node) (cplusplus.FullType, cplusplus.Name) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return cplusplus.FullType{}, nil
	}
	ty := t.qualify(node, t.baseType(typeNode))

	declNode := node.ChildByFieldName("declarator")
	if declNode == nil {
		return ty, nil
	}
	ty, name, _, _ := t.declarator(ty, declNode)
	return ty, name
}

// translateVariableDeclaration handles declaration and field_declaration
// nodes: variables, fields and member function prototypes.
func (t *translator) translateVariableDeclaration(node *sitter.Node, scope cplusplus.Scope) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}

	// An inline definition used as a declaration type also declares the
	// type itself (struct S { } s;).
	switch typeNode.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		if sym := t.translateClass(typeNode); sym != nil {
			scope.AddMember(sym)
		}
	case "enum_specifier":
		if e := t.translateEnum(typeNode); e != nil {
			scope.AddMember(e)
		}
	}

	base := t.qualify(node, t.baseType(typeNode))

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == typeNode || !isDeclaratorNode(child) {
			continue
		}
		ty, name, isFunc, funcDecl := t.declarator(base, child)
		if name == nil {
			continue
		}
		if isFunc {
			f := t.buildFunction(name, ty, funcDecl)
			t.locate(f, child)
			scope.AddMember(f)
			continue
		}
		decl := cplusplus.NewDeclaration(name, ty)
		t.locate(decl, child)
		scope.AddMember(decl)
	}
}

func (t *translator) translateFriend(node *sitter.Node, scope cplusplus.Scope) {
	holder := cplusplus.NewBlock()
	t.translateScope(node, holder)
	for _, member := range holder.Members() {
		if s, ok := member.(interface{ SetFriend(bool) }); ok {
			s.SetFriend(true)
		}
		scope.AddMember(member)
	}
}

// translateBlockBody collects the declarations of a compound statement,
// descending into nested blocks and the bodies of control statements.
func (t *translator) translateBlockBody(node *sitter.Node, block *cplusplus.Block) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "declaration", "using_declaration", "alias_declaration",
			"type_definition", "compound_statement",
			"class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
			t.translateDeclaration(child, block)
		case "if_statement", "for_statement", "while_statement", "do_statement",
			"switch_statement", "for_range_loop", "try_statement":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if inner := child.NamedChild(j); inner.Type() == "compound_statement" {
					nested := cplusplus.NewBlock()
					t.locate(nested, inner)
					t.translateBlockBody(inner, nested)
					block.AddMember(nested)
				}
			}
		}
	}
}

// isDeclaratorNode reports whether a declaration child introduces a declared
// entity.
func isDeclaratorNode(node *sitter.Node) bool {
	switch node.Type() {
	case "identifier", "field_identifier", "type_identifier", "qualified_identifier",
		"init_declarator", "pointer_declarator", "reference_declarator",
		"array_declarator", "function_declarator", "parenthesized_declarator",
		"operator_name", "destructor_name", "operator_cast":
		return true
	}
	return false
}

// declarator unwraps declarator nodes around a base type. It returns the
// final type, the declared name, and the function_declarator when the entity
// is a function.
func (t *translator) declarator(ty cplusplus.FullType, node *sitter.Node) (cplusplus.FullType, cplusplus.Name, bool, *sitter.Node) {
	switch node.Type() {
	case "identifier", "field_identifier", "type_identifier",
		"qualified_identifier", "operator_name", "destructor_name":
		return ty, t.nameOf(node), false, nil

	case "operator_cast":
		var dest cplusplus.FullType
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			dest = t.baseType(typeNode)
		}
		return ty, t.control.ConversionNameID(dest), false, nil

	case "pointer_declarator":
		ty = cplusplus.NewFullType(t.control.PointerType(ty))
		if inner := node.ChildByFieldName("declarator"); inner != nil {
			return t.declarator(ty, inner)
		}
		return ty, nil, false, nil

	case "reference_declarator":
		rvalue := strings.HasPrefix(t.text(node), "&&")
		ty = cplusplus.NewFullType(t.control.ReferenceType(ty, rvalue))
		if node.NamedChildCount() > 0 {
			return t.declarator(ty, node.NamedChild(0))
		}
		return ty, nil, false, nil

	case "array_declarator":
		ty = cplusplus.NewFullType(t.control.ArrayType(ty))
		if inner := node.ChildByFieldName("declarator"); inner != nil {
			return t.declarator(ty, inner)
		}
		return ty, nil, false, nil

	case "init_declarator", "parenthesized_declarator":
		if inner := node.ChildByFieldName("declarator"); inner != nil {
			return t.declarator(ty, inner)
		}
		if node.NamedChildCount() > 0 {
			return t.declarator(ty, node.NamedChild(0))
		}
		return ty, nil, false, nil

	case "function_declarator":
		inner := node.ChildByFieldName("declarator")
		if inner == nil {
			return ty, nil, true, node
		}
		_, name, _, _ := t.declarator(ty, inner)
		return ty, name, true, node
	}

	return ty, nil, false, nil
}

// qualify applies cv-qualifiers spelled on the declaration node.
func (t *translator) qualify(node *sitter.Node, ty cplusplus.FullType) cplusplus.FullType {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "type_qualifier" {
			continue
		}
		switch t.text(child) {
		case "const":
			ty = ty.WithConst()
		case "volatile":
			ty = ty.WithVolatile()
		}
	}
	return ty
}

// typeDescriptor parses a type_descriptor node (a type with an optional
// abstract declarator).
func (t *translator) typeDescriptor(node *sitter.Node) cplusplus.FullType {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return cplusplus.FullType{}
	}
	ty := t.qualify(node, t.baseType(typeNode))

	decl := node.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "abstract_pointer_declarator":
			ty = cplusplus.NewFullType(t.control.PointerType(ty))
		case "abstract_reference_declarator":
			ty = cplusplus.NewFullType(t.control.ReferenceType(ty, strings.HasPrefix(t.text(decl), "&&")))
		case "abstract_array_declarator":
			ty = cplusplus.NewFullType(t.control.ArrayType(ty))
		default:
			return ty
		}
		decl = decl.ChildByFieldName("declarator")
	}
	return ty
}

// baseType interns the type spelled by a type specifier node.
func (t *translator) baseType(node *sitter.Node) cplusplus.FullType {
	switch node.Type() {
	case "primitive_type":
		return t.primitiveType(t.text(node))

	case "sized_type_specifier":
		return t.sizedType(t.text(node))

	case "type_identifier", "qualified_identifier", "template_type":
		return cplusplus.NewFullType(t.control.NamedType(t.nameOf(node)))

	case "type_descriptor":
		return t.typeDescriptor(node)

	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		// Inline definition used as a type: refer to it by name.
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return cplusplus.NewFullType(t.control.NamedType(t.nameOf(nameNode)))
		}
		return cplusplus.FullType{}

	case "auto", "placeholder_type_specifier":
		return cplusplus.FullType{}

	case "decltype":
		return cplusplus.FullType{}
	}

	// Fall back to a named type over the spelled text.
	spelled := strings.TrimSpace(t.text(node))
	if spelled == "" {
		return cplusplus.FullType{}
	}
	return cplusplus.NewFullType(t.control.NamedType(t.control.NameID(t.control.Identifier(spelled))))
}

func (t *translator) primitiveType(spelled string) cplusplus.FullType {
	switch spelled {
	case "void":
		return cplusplus.NewFullType(t.control.VoidType())
	case "bool":
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerBool))
	case "char":
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerChar))
	case "wchar_t":
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerWCharT))
	case "int":
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerInt))
	case "short":
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerShort))
	case "long":
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerLong))
	case "float":
		return cplusplus.NewFullType(t.control.FloatType(cplusplus.FloatFloat))
	case "double":
		return cplusplus.NewFullType(t.control.FloatType(cplusplus.FloatDouble))
	}
	return cplusplus.NewFullType(t.control.NamedType(t.control.NameID(t.control.Identifier(spelled))))
}

func (t *translator) sizedType(spelled string) cplusplus.FullType {
	switch {
	case strings.Contains(spelled, "long long"):
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerLongLong))
	case strings.Contains(spelled, "double"):
		return cplusplus.NewFullType(t.control.FloatType(cplusplus.FloatLongDouble))
	case strings.Contains(spelled, "long"):
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerLong))
	case strings.Contains(spelled, "short"):
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerShort))
	case strings.Contains(spelled, "char"):
		return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerChar))
	}
	return cplusplus.NewFullType(t.control.IntegerType(cplusplus.IntegerInt))
}

// nameOf interns the name spelled by an identifier-like node.
func (t *translator) nameOf(node *sitter.Node) cplusplus.Name {
	switch node.Type() {
	case "identifier", "type_identifier", "field_identifier", "namespace_identifier":
		return t.control.NameID(t.control.Identifier(t.text(node)))

	case "qualified_identifier":
		return t.qualifiedName(node)

	case "nested_namespace_specifier":
		var name cplusplus.Name
		for i := 0; i < int(node.NamedChildCount()); i++ {
			component := t.nameOf(node.NamedChild(i))
			if name == nil {
				name = component
			} else {
				name = t.control.QualifiedNameID(name, component)
			}
		}
		return name

	case "template_type", "template_function":
		inner := node.ChildByFieldName("name")
		if inner == nil {
			return nil
		}
		args := t.templateArguments(node.ChildByFieldName("arguments"))
		return t.control.TemplateNameID(t.control.Identifier(t.text(inner)), false, args...)

	case "destructor_name":
		if node.NamedChildCount() > 0 {
			return t.control.DestructorNameID(t.control.Identifier(t.text(node.NamedChild(0))))
		}
		return nil

	case "operator_name":
		return t.operatorName(node)
	}

	return t.control.NameID(t.control.Identifier(t.text(node)))
}

// qualifiedName folds tree-sitter's right-nested qualified_identifier into
// left-nested QualifiedNameIDs, preserving a leading "::" as a nil base.
func (t *translator) qualifiedName(node *sitter.Node) cplusplus.Name {
	var components []cplusplus.Name
	leadingGlobal := strings.HasPrefix(t.text(node), "::")

	current := node
	for current != nil && current.Type() == "qualified_identifier" {
		if scope := current.ChildByFieldName("scope"); scope != nil {
			components = append(components, t.nameOf(scope))
		}
		current = current.ChildByFieldName("name")
	}
	if current != nil {
		components = append(components, t.nameOf(current))
	}

	if len(components) == 0 {
		return nil
	}

	var name cplusplus.Name
	if leadingGlobal {
		name = t.control.QualifiedNameID(nil, components[0])
	} else {
		name = components[0]
	}
	for _, component := range components[1:] {
		name = t.control.QualifiedNameID(name, component)
	}
	return name
}

func (t *translator) templateArguments(node *sitter.Node) []cplusplus.FullType {
	if node == nil {
		return nil
	}
	var args []cplusplus.FullType
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "type_descriptor":
			args = append(args, t.typeDescriptor(child))
		case "type_identifier", "qualified_identifier", "template_type", "primitive_type", "sized_type_specifier":
			args = append(args, t.baseType(child))
		}
	}
	return args
}

var operatorKinds = map[string]cplusplus.OperatorKind{}

func init() {
	for kind := cplusplus.OperatorNew; kind <= cplusplus.OperatorIndex; kind++ {
		operatorKinds[kind.Spelling()] = kind
	}
}

func (t *translator) operatorName(node *sitter.Node) cplusplus.Name {
	spelled := strings.TrimSpace(strings.TrimPrefix(t.text(node), "operator"))
	if kind, ok := operatorKinds[spelled]; ok {
		return t.control.OperatorNameID(kind)
	}
	return nil
}

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

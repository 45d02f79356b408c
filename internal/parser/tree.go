package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Java node types visited by the gatherer
const (
	NodePackageDeclaration     = "package_declaration"
	NodeImportDeclaration      = "import_declaration"
	NodeClassDeclaration       = "class_declaration"
	NodeInterfaceDeclaration   = "interface_declaration"
	NodeEnumDeclaration        = "enum_declaration"
	NodeRecordDeclaration      = "record_declaration"
	NodeAnnotationDeclaration  = "annotation_type_declaration"
	NodeEnumBodyDeclarations   = "enum_body_declarations"
	NodeEnumConstant           = "enum_constant"
	NodeFieldDeclaration       = "field_declaration"
	NodeConstantDeclaration    = "constant_declaration"
	NodeMethodDeclaration      = "method_declaration"
	NodeAnnotationElement      = "annotation_type_element_declaration"
	NodeConstructorDeclaration = "constructor_declaration"
	NodeCompactConstructor     = "compact_constructor_declaration"
	NodeStaticInitializer      = "static_initializer"
	NodeModifiers              = "modifiers"
	NodeVariableDeclarator     = "variable_declarator"
	NodeFormalParameter        = "formal_parameter"
	NodeSpreadParameter        = "spread_parameter"
	NodeReceiverParameter      = "receiver_parameter"
	NodeLocalVariable          = "local_variable_declaration"
	NodeEnhancedFor            = "enhanced_for_statement"
	NodeCatchFormalParameter   = "catch_formal_parameter"
	NodeResource               = "resource"
	NodeClassBody              = "class_body"
	NodeLineComment            = "line_comment"
	NodeBlockComment           = "block_comment"
	NodeMarkerAnnotation       = "marker_annotation"
	NodeAnnotation             = "annotation"
	NodeAsterisk               = "asterisk"
	NodeIdentifier             = "identifier"
	NodeScopedIdentifier       = "scoped_identifier"
	NodeDimensions             = "dimensions"

	// Decision points
	NodeIfStatement      = "if_statement"
	NodeForStatement     = "for_statement"
	NodeWhileStatement   = "while_statement"
	NodeDoStatement      = "do_statement"
	NodeCatchClause      = "catch_clause"
	NodeTernary          = "ternary_expression"
	NodeSwitchLabel      = "switch_label"
	NodeBinaryExpression = "binary_expression"
	NodeLambda           = "lambda_expression"
)

// TypeDeclarations are the node types that declare a class-like type
var TypeDeclarations = map[string]bool{
	NodeClassDeclaration:      true,
	NodeInterfaceDeclaration:  true,
	NodeEnumDeclaration:       true,
	NodeRecordDeclaration:     true,
	NodeAnnotationDeclaration: true,
}

// Tree is a parsed compilation unit together with its source
type Tree struct {
	Filename string
	Source   []byte

	tree *sitter.Tree
	root *sitter.Node
}

// Root returns the program node
func (t *Tree) Root() *sitter.Node {
	return t.root
}

// HasErrors reports whether tree-sitter recovered from syntax errors
func (t *Tree) HasErrors() bool {
	return t.root.HasError()
}

// Close releases the tree-sitter tree
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Text returns the source text of a node
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(t.Source)
}

// NormalizedText returns the text of a node with runs of whitespace collapsed
func (t *Tree) NormalizedText(n *sitter.Node) string {
	return strings.Join(strings.Fields(t.Text(n)), " ")
}

// NamedChildren returns the named children of a node
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

// ChildOfType returns the first named child of the given type
func ChildOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for _, child := range NamedChildren(n) {
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first. Returning false from visit
// skips the children of that node.
func Walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		Walk(n.Child(i), visit)
	}
}

// CodeLines counts the distinct source lines of a node that hold at least one
// token other than a comment. Blank and comment-only lines are not counted.
func CodeLines(n *sitter.Node) int {
	rows := make(map[uint32]struct{})
	Walk(n, func(child *sitter.Node) bool {
		switch child.Type() {
		case NodeLineComment, NodeBlockComment:
			return false
		}
		if child.ChildCount() == 0 {
			for row := child.StartPoint().Row; row <= child.EndPoint().Row; row++ {
				rows[row] = struct{}{}
			}
		}
		return true
	})
	return len(rows)
}

// Modifiers is the set of keywords and annotations preceding a declaration
type Modifiers struct {
	keywords    map[string]bool
	annotations []string
}

// ParseModifiers reads the modifiers child of a declaration, if any
func (t *Tree) ParseModifiers(declaration *sitter.Node) Modifiers {
	mods := Modifiers{keywords: make(map[string]bool)}

	node := ChildOfType(declaration, NodeModifiers)
	if node == nil {
		return mods
	}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		switch child.Type() {
		case NodeMarkerAnnotation, NodeAnnotation:
			mods.annotations = append(mods.annotations, t.Text(child.ChildByFieldName("name")))
		default:
			mods.keywords[t.Text(child)] = true
		}
	}
	return mods
}

// Has reports whether a keyword such as "static" is present
func (m Modifiers) Has(keyword string) bool {
	return m.keywords[keyword]
}

// Annotated reports whether an annotation with the given simple or qualified name is present
func (m Modifiers) Annotated(name string) bool {
	for _, a := range m.annotations {
		if a == name || strings.HasSuffix(a, "."+name) {
			return true
		}
	}
	return false
}

// Visibility returns public, protected, private or "" for package visibility
func (m Modifiers) Visibility() string {
	for _, v := range []string{"public", "protected", "private"} {
		if m.keywords[v] {
			return v
		}
	}
	return ""
}

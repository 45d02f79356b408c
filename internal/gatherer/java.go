// Package gatherer produces facts from Java sources and pushes facts into a
// metrics tree.
package gatherer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
	"github.com/ludo-technologies/jmetrics/internal/parser"
)

// JavaGatherer extracts class and method facts from Java compilation units.
// It holds no state, so one instance may serve concurrent calls.
type JavaGatherer struct{}

// NewJavaGatherer creates a new Java gatherer
func NewJavaGatherer() *JavaGatherer {
	return &JavaGatherer{}
}

// Gather parses one compilation unit. Syntax errors are logged and the
// recoverable part of the file is still measured.
func (g *JavaGatherer) Gather(ctx context.Context, path string, source []byte) (*domain.Facts, error) {
	p := parser.NewParser()
	defer p.Close()

	tree, err := p.ParseFile(ctx, path, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if tree.HasErrors() {
		metrics.Logger().WithField("file", path).Warn("syntax errors in source, measurements may be incomplete")
	}

	u := &unit{
		tree:   tree,
		facts:  &domain.Facts{Source: path},
		groups: make(map[string]int),
	}
	u.gather()
	return u.facts, nil
}

// unit walks one compilation unit
type unit struct {
	tree        *parser.Tree
	facts       *domain.Facts
	packageName string
	imports     []string
	groups      map[string]int
}

func (u *unit) gather() {
	root := u.tree.Root()

	for _, child := range parser.NamedChildren(root) {
		switch child.Type() {
		case parser.NodePackageDeclaration:
			for _, n := range parser.NamedChildren(child) {
				if n.Type() == parser.NodeScopedIdentifier || n.Type() == parser.NodeIdentifier {
					u.packageName = u.tree.Text(n)
				}
			}
		case parser.NodeImportDeclaration:
			u.imports = append(u.imports, u.importName(child))
		}
	}

	for _, child := range parser.NamedChildren(root) {
		if parser.TypeDeclarations[child.Type()] {
			u.facts.Classes = append(u.facts.Classes, u.typeDeclaration(child, "", false)...)
		}
	}

	metrics.Logger().WithFields(logrus.Fields{
		"file":    u.tree.Filename,
		"classes": len(u.facts.Classes),
		"methods": u.facts.MethodCount(),
	}).Debug("gathered java facts")
}

func (u *unit) importName(node *sitter.Node) string {
	var name string
	wildcard := false
	for _, child := range parser.NamedChildren(node) {
		switch child.Type() {
		case parser.NodeScopedIdentifier, parser.NodeIdentifier:
			name = u.tree.Text(child)
		case parser.NodeAsterisk:
			wildcard = true
		}
	}
	if wildcard {
		name += ".*"
	}
	return name
}

// typeDeclaration measures a class-like declaration and its inner types.
// The declared class comes first in the result.
func (u *unit) typeDeclaration(node *sitter.Node, outer string, inInterface bool) []domain.ClassFacts {
	simpleName := u.tree.Text(node.ChildByFieldName("name"))

	var name string
	switch {
	case outer != "":
		name = outer + "$" + simpleName
	case u.packageName != "":
		name = u.packageName + "." + simpleName
	default:
		name = simpleName
	}

	mods := u.tree.ParseModifiers(node)
	isInterface := node.Type() == parser.NodeInterfaceDeclaration || node.Type() == parser.NodeAnnotationDeclaration
	visibility := mods.Visibility()
	if inInterface && visibility == "" {
		visibility = "public"
	}

	class := domain.ClassFacts{
		Name:         name,
		Measurements: make(map[string]float64),
		Names:        make(map[string][]string),
	}
	class.Measurements[metrics.ClassSloc] = float64(parser.CodeLines(node))
	if len(u.imports) > 0 {
		class.Names[metrics.Imports] = append([]string(nil), u.imports...)
	}

	switch visibility {
	case "public":
		u.list(metrics.PublicClasses, name)
	case "":
		u.list(metrics.PackageClasses, name)
	}
	switch {
	case isInterface:
		u.list(metrics.Interfaces, name)
	case mods.Has("abstract"):
		u.list(metrics.AbstractClasses, name)
	}
	if mods.Has("final") {
		u.list(metrics.FinalClasses, name)
	}
	if mods.Annotated("Deprecated") {
		u.list(metrics.DeprecatedClasses, name)
	}

	if node.Type() == parser.NodeRecordDeclaration {
		for _, component := range parser.NamedChildren(node.ChildByFieldName("parameters")) {
			if component.Type() == parser.NodeFormalParameter {
				add(class.Measurements, 1, metrics.Attributes, metrics.PrivateAttributes, metrics.FinalAttributes)
			}
		}
	}

	var inner []domain.ClassFacts
	for _, member := range members(node.ChildByFieldName("body")) {
		switch member.Type() {
		case parser.NodeFieldDeclaration, parser.NodeConstantDeclaration:
			u.field(&class, member, isInterface)
		case parser.NodeEnumConstant:
			add(class.Measurements, 1, metrics.Attributes, metrics.PublicAttributes, metrics.StaticAttributes, metrics.FinalAttributes)
		case parser.NodeMethodDeclaration, parser.NodeAnnotationElement:
			u.method(&class, member, isInterface)
		case parser.NodeConstructorDeclaration, parser.NodeCompactConstructor:
			u.constructor(&class, member, node)
		case parser.NodeStaticInitializer:
			class.Methods = append(class.Methods, domain.MethodFacts{
				Name: name + ".static {}",
				Measurements: map[string]float64{
					metrics.Parameters:           0,
					metrics.LocalVariables:       float64(localVariables(member)),
					metrics.Sloc:                 float64(parser.CodeLines(member)),
					metrics.CyclomaticComplexity: float64(cyclomaticComplexity(u.tree, member)),
				},
			})
		default:
			if parser.TypeDeclarations[member.Type()] {
				declared := u.typeDeclaration(member, name, isInterface)
				u.innerClass(&class, member, isInterface)
				inner = append(inner, declared...)
			}
		}
	}

	return append([]domain.ClassFacts{class}, inner...)
}

// members flattens class, interface, enum and annotation bodies
func members(body *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range parser.NamedChildren(body) {
		if child.Type() == parser.NodeEnumBodyDeclarations {
			out = append(out, parser.NamedChildren(child)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

func (u *unit) innerClass(class *domain.ClassFacts, node *sitter.Node, inInterface bool) {
	mods := u.tree.ParseModifiers(node)
	names := []string{metrics.InnerClasses}

	switch visibility := mods.Visibility(); {
	case visibility == "public" || (visibility == "" && inInterface):
		names = append(names, metrics.PublicInnerClasses)
	case visibility == "protected":
		names = append(names, metrics.ProtectedInnerClasses)
	case visibility == "private":
		names = append(names, metrics.PrivateInnerClasses)
	default:
		names = append(names, metrics.PackageInnerClasses)
	}
	if mods.Has("static") || inInterface {
		names = append(names, metrics.StaticInnerClasses)
	}
	if mods.Has("final") {
		names = append(names, metrics.FinalInnerClasses)
	}
	if mods.Has("abstract") {
		names = append(names, metrics.AbstractInnerClasses)
	}
	add(class.Measurements, 1, names...)
}

func (u *unit) field(class *domain.ClassFacts, node *sitter.Node, inInterface bool) {
	declarators := 0
	for _, child := range parser.NamedChildren(node) {
		if child.Type() == parser.NodeVariableDeclarator {
			declarators++
		}
	}

	mods := u.tree.ParseModifiers(node)
	names := []string{metrics.Attributes}

	visibility := mods.Visibility()
	if inInterface {
		visibility = "public"
	}
	names = append(names, visibilityName(visibility,
		metrics.PublicAttributes, metrics.ProtectedAttributes, metrics.PrivateAttributes, metrics.PackageAttributes))

	if mods.Has("static") || inInterface {
		names = append(names, metrics.StaticAttributes)
	}
	if mods.Has("final") || inInterface {
		names = append(names, metrics.FinalAttributes)
	}
	if mods.Has("transient") {
		names = append(names, metrics.TransientAttributes)
	}
	if mods.Has("volatile") {
		names = append(names, metrics.VolatileAttributes)
	}
	if mods.Annotated("Deprecated") {
		names = append(names, metrics.DeprecatedAttributes)
	}
	add(class.Measurements, float64(declarators), names...)
}

func (u *unit) method(class *domain.ClassFacts, node *sitter.Node, inInterface bool) {
	mods := u.tree.ParseModifiers(node)
	body := node.ChildByFieldName("body")

	visibility := mods.Visibility()
	if inInterface && visibility == "" {
		visibility = "public"
	}

	names := []string{visibilityName(visibility,
		metrics.PublicMethods, metrics.ProtectedMethods, metrics.PrivateMethods, metrics.PackageMethods)}

	abstract := mods.Has("abstract") ||
		(inInterface && body == nil && !mods.Has("static") && !mods.Has("private") && !mods.Has("default"))
	for keyword, name := range map[string]string{
		"static":       metrics.StaticMethods,
		"final":        metrics.FinalMethods,
		"synchronized": metrics.SynchronizedMethods,
		"native":       metrics.NativeMethods,
	} {
		if mods.Has(keyword) {
			names = append(names, name)
		}
	}
	if abstract {
		names = append(names, metrics.AbstractMethods)
	}
	if mods.Annotated("Deprecated") {
		names = append(names, metrics.DeprecatedMethods)
	}
	add(class.Measurements, 1, names...)

	params := u.parameterTypes(node.ChildByFieldName("parameters"))
	returnType := eraseType(u.tree.NormalizedText(node.ChildByFieldName("type"))) +
		strings.ReplaceAll(u.tree.Text(node.ChildByFieldName("dimensions")), " ", "")

	class.Methods = append(class.Methods, domain.MethodFacts{
		Name: signature(class.Name, u.tree.Text(node.ChildByFieldName("name")), params, returnType),
		Measurements: map[string]float64{
			metrics.Parameters:           float64(len(params)),
			metrics.LocalVariables:       float64(localVariables(body)),
			metrics.Sloc:                 float64(parser.CodeLines(node)),
			metrics.CyclomaticComplexity: float64(cyclomaticComplexity(u.tree, node)),
		},
	})
}

// constructor measures a constructor; compact record constructors take the record components
func (u *unit) constructor(class *domain.ClassFacts, node, declaration *sitter.Node) {
	mods := u.tree.ParseModifiers(node)
	names := []string{visibilityName(mods.Visibility(),
		metrics.PublicMethods, metrics.ProtectedMethods, metrics.PrivateMethods, metrics.PackageMethods)}
	if mods.Annotated("Deprecated") {
		names = append(names, metrics.DeprecatedMethods)
	}
	add(class.Measurements, 1, names...)

	parameters := node.ChildByFieldName("parameters")
	if node.Type() == parser.NodeCompactConstructor {
		parameters = declaration.ChildByFieldName("parameters")
	}
	params := u.parameterTypes(parameters)

	simpleName := u.tree.Text(declaration.ChildByFieldName("name"))
	class.Methods = append(class.Methods, domain.MethodFacts{
		Name: signature(class.Name, simpleName, params, "void"),
		Measurements: map[string]float64{
			metrics.Parameters:           float64(len(params)),
			metrics.LocalVariables:       float64(localVariables(node.ChildByFieldName("body"))),
			metrics.Sloc:                 float64(parser.CodeLines(node)),
			metrics.CyclomaticComplexity: float64(cyclomaticComplexity(u.tree, node)),
		},
	})
}

func (u *unit) parameterTypes(parameters *sitter.Node) []string {
	var types []string
	for _, p := range parser.NamedChildren(parameters) {
		switch p.Type() {
		case parser.NodeFormalParameter:
			t := eraseType(u.tree.NormalizedText(p.ChildByFieldName("type")))
			if dims := parser.ChildOfType(p, parser.NodeDimensions); dims != nil {
				t += strings.ReplaceAll(u.tree.Text(dims), " ", "")
			}
			types = append(types, t)
		case parser.NodeSpreadParameter:
			for _, child := range parser.NamedChildren(p) {
				if child.Type() != parser.NodeModifiers && child.Type() != parser.NodeVariableDeclarator {
					types = append(types, eraseType(u.tree.NormalizedText(child))+"...")
					break
				}
			}
		}
	}
	return types
}

// list adds a class name to a project and package name list
func (u *unit) list(listName, className string) {
	if u.facts.ProjectNames == nil {
		u.facts.ProjectNames = make(map[string][]string)
	}
	u.facts.ProjectNames[listName] = append(u.facts.ProjectNames[listName], className)

	i, ok := u.groups[u.packageName]
	if !ok {
		i = len(u.facts.Groups)
		u.groups[u.packageName] = i
		u.facts.Groups = append(u.facts.Groups, domain.GroupFacts{
			Name:  u.packageName,
			Names: make(map[string][]string),
		})
	}
	u.facts.Groups[i].Names[listName] = append(u.facts.Groups[i].Names[listName], className)
}

// localVariables counts the variables declared in a body, excluding those of
// anonymous and local classes
func localVariables(body *sitter.Node) int {
	count := 0
	parser.Walk(body, func(n *sitter.Node) bool {
		switch n.Type() {
		case parser.NodeClassBody:
			return false
		case parser.NodeLocalVariable:
			for _, child := range parser.NamedChildren(n) {
				if child.Type() == parser.NodeVariableDeclarator {
					count++
				}
			}
		case parser.NodeEnhancedFor, parser.NodeCatchFormalParameter:
			count++
		case parser.NodeResource:
			if n.ChildByFieldName("name") != nil {
				count++
			}
		}
		return true
	})
	return count
}

func add(m map[string]float64, delta float64, names ...string) {
	for _, name := range names {
		m[name] += delta
	}
}

func visibilityName(visibility, public, protected, private, pkg string) string {
	switch visibility {
	case "public":
		return public
	case "protected":
		return protected
	case "private":
		return private
	default:
		return pkg
	}
}

func signature(className, name string, params []string, returnType string) string {
	return fmt.Sprintf("%s.%s(%s): %s", className, name, strings.Join(params, ", "), returnType)
}

// eraseType drops type arguments and type annotations: "@NonNull Map<K, V>" becomes "Map"
func eraseType(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

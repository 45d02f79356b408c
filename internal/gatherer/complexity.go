package gatherer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/jmetrics/internal/parser"
)

// complexityResult holds the McCabe decision counts of one method body
type complexityResult struct {
	IfStatements      int
	LoopStatements    int
	ExceptionHandlers int
	SwitchCases       int
	LogicalOperators  int
	TernaryOperators  int
}

// Complexity is one plus the number of decision points
func (r complexityResult) Complexity() int {
	return 1 + r.IfStatements + r.LoopStatements + r.ExceptionHandlers +
		r.SwitchCases + r.LogicalOperators + r.TernaryOperators
}

// cyclomaticComplexity counts the decision points of a method, constructor or
// initializer. Anonymous classes and lambdas are function boundaries and do
// not contribute to the enclosing method.
func cyclomaticComplexity(tree *parser.Tree, declaration *sitter.Node) int {
	var r complexityResult
	parser.Walk(declaration, func(n *sitter.Node) bool {
		switch n.Type() {
		case parser.NodeClassBody, parser.NodeLambda:
			return false
		case parser.NodeIfStatement:
			r.IfStatements++
		case parser.NodeForStatement, parser.NodeEnhancedFor, parser.NodeWhileStatement, parser.NodeDoStatement:
			r.LoopStatements++
		case parser.NodeCatchClause:
			r.ExceptionHandlers++
		case parser.NodeTernary:
			r.TernaryOperators++
		case parser.NodeSwitchLabel:
			if !strings.HasPrefix(tree.Text(n), "default") {
				r.SwitchCases++
			}
		case parser.NodeBinaryExpression:
			if op := n.ChildByFieldName("operator"); op != nil && (op.Type() == "&&" || op.Type() == "||") {
				r.LogicalOperators++
			}
		}
		return true
	})
	return r.Complexity()
}

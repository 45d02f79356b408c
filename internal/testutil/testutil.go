// Package testutil provides helper functions for testing jmetrics components
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/jmetrics/internal/parser"
)

// CreateTestTree parses Java source, failing the test on error. The tree is
// closed when the test ends.
func CreateTestTree(t *testing.T, source string) *parser.Tree {
	t.Helper()
	p := parser.NewParser()
	t.Cleanup(p.Close)

	tree, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

// FindNode returns the first node of the given type in depth-first order
func FindNode(tree *parser.Tree, nodeType string) *sitter.Node {
	var found *sitter.Node
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if found == nil && n.Type() == nodeType {
			found = n
		}
		return found == nil
	})
	return found
}

// CountNodesOfType counts nodes of a specific type in a tree
func CountNodesOfType(tree *parser.Tree, nodeType string) int {
	count := 0
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if n.Type() == nodeType {
			count++
		}
		return true
	})
	return count
}

// WriteFiles lays out files under root. Keys are slash-separated relative paths.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Parser wraps a tree-sitter parser for Java. A Parser is not safe for
// concurrent use; create one per goroutine.
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new Java parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := java.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// ParseFile parses a Java compilation unit. The returned tree must be closed.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		tree.Close()
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	return &Tree{
		Filename: filename,
		Source:   source,
		tree:     tree,
		root:     rootNode,
	}, nil
}

// ParseString parses Java source code from a string
func (p *Parser) ParseString(source string) (*Tree, error) {
	return p.ParseFile(context.Background(), "<input>", []byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

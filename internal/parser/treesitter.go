// Package parser turns JavaScript source text into a syntax.Program using
// tree-sitter.
package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

// DefaultMaxSourceBytes is the largest input accepted when Options leaves it unset.
const DefaultMaxSourceBytes = 10 * 1024 * 1024

var (
	// ErrSyntax indicates the source text is not valid JavaScript.
	ErrSyntax = errors.New("syntax error")

	// ErrSourceTooLarge indicates the source exceeds Options.MaxSourceBytes.
	ErrSourceTooLarge = errors.New("source too large")

	// ErrTooDeep indicates the concrete tree nests deeper than Options.MaxDepth.
	ErrTooDeep = errors.New("source nesting too deep")
)

// SyntaxError locates the first error the grammar reported.
type SyntaxError struct {
	Line   int
	Column int
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%s at line %d, column %d", ErrSyntax, e.Line, e.Column)
	}
	return fmt.Sprintf("%s at line %d, column %d near %q", ErrSyntax, e.Line, e.Column, e.Near)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Options configures a Parser.
type Options struct {
	MaxSourceBytes int
	MaxDepth       int
}

// Parser parses JavaScript. JavaScript is parsed with the TypeScript grammar,
// which accepts it unchanged. A Parser is safe for concurrent use; each call
// gets its own tree-sitter parser.
type Parser struct {
	language *sitter.Language
	opts     Options
}

// New creates a Parser.
func New(opts Options) *Parser {
	if opts.MaxSourceBytes <= 0 {
		opts.MaxSourceBytes = DefaultMaxSourceBytes
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return &Parser{
		language: sitter.NewLanguage(typescript.LanguageTypescript()),
		opts:     opts,
	}
}

// Parse parses source into a Program.
func (p *Parser) Parse(ctx context.Context, source []byte) (*syntax.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(source) > p.opts.MaxSourceBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrSourceTooLarge, len(source), p.opts.MaxSourceBytes)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set javascript grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse javascript source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, source)
	}

	c := &converter{source: source, maxDepth: p.opts.MaxDepth}
	return c.program(root)
}

// syntaxError reports the first ERROR or MISSING node in document order.
func syntaxError(root *sitter.Node, source []byte) error {
	var bad *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})
	if bad == nil {
		bad = root
	}

	pos := bad.StartPosition()
	near := extractNodeText(bad, source)
	if bad.IsMissing() {
		near = bad.Kind()
	}
	if len(near) > 40 {
		near = near[:40]
	}
	return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Near: near}
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// position converts a tree-sitter point to a 1-based syntax.Position.
func position(node *sitter.Node) syntax.Position {
	pt := node.StartPosition()
	return syntax.Position{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

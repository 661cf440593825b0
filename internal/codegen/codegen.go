// Package codegen re-renders expression sub-trees as normalized JavaScript text.
//
// Operators are surrounded by single spaces, argument lists are separated by
// ", " and redundant whitespace from the original source is dropped, so
// `x+   8` and `x + 8` both come out as "x + 8". Kinds without a dedicated
// rendering fall back to their source text with whitespace runs collapsed.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

// ErrUnsupported is returned for values that are not expressions at all.
var ErrUnsupported = errors.New("cannot generate expression text")

// Generator turns an expression node into source text.
type Generator interface {
	Generate(node syntax.Node) (string, error)
}

// Printer is the default Generator.
type Printer struct{}

// New returns the default Generator.
func New() *Printer { return &Printer{} }

// Generate renders node as text.
func Generate(node syntax.Node) (string, error) {
	return New().Generate(node)
}

// Generate renders node as text. Parentheses around the whole expression
// are dropped.
func (p *Printer) Generate(node syntax.Node) (string, error) {
	if node == nil {
		return "", fmt.Errorf("%w: nil node", ErrUnsupported)
	}
	var b strings.Builder
	if err := p.write(&b, stripParens(node)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (p *Printer) write(b *strings.Builder, node syntax.Node) error {
	switch n := node.(type) {
	case *syntax.Identifier:
		b.WriteString(n.Name)
	case *syntax.Token:
		b.WriteString(n.Text)
	case *syntax.Assignment:
		if err := p.write(b, n.Left); err != nil {
			return err
		}
		b.WriteString(" " + n.Operator + " ")
		return p.write(b, n.Right)
	case *syntax.Update:
		if n.Prefix {
			b.WriteString(n.Operator)
			return p.write(b, n.Argument)
		}
		if err := p.write(b, n.Argument); err != nil {
			return err
		}
		b.WriteString(n.Operator)
	case *syntax.List:
		return p.writeList(b, n.Items, ", ")
	case *syntax.Generic:
		return p.writeGeneric(b, n)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, node.Kind())
	}
	return nil
}

func (p *Printer) writeGeneric(b *strings.Builder, g *syntax.Generic) error {
	switch g.Type {
	case "binary_expression":
		return p.writeBinary(b, g, g.Field("left"), operator(g), g.Field("right"))
	case "unary_expression":
		op := operator(g)
		b.WriteString(op)
		if isWordOperator(op) {
			b.WriteByte(' ')
		}
		return p.writeOperand(b, g, "argument")
	case "parenthesized_expression":
		inner := stripParens(g)
		if inner == syntax.Node(g) {
			b.WriteByte('(')
			if err := p.writeList(b, namedChildren(g), ", "); err != nil {
				return err
			}
			b.WriteByte(')')
			return nil
		}
		if isPrimary(inner) {
			return p.write(b, inner)
		}
		b.WriteByte('(')
		if err := p.write(b, inner); err != nil {
			return err
		}
		b.WriteByte(')')
	case "member_expression":
		if err := p.writeOperand(b, g, "object"); err != nil {
			return err
		}
		if g.Field("optional_chain") != nil {
			b.WriteString("?.")
		} else {
			b.WriteByte('.')
		}
		return p.writeOperand(b, g, "property")
	case "subscript_expression":
		if err := p.writeOperand(b, g, "object"); err != nil {
			return err
		}
		if g.Field("optional_chain") != nil {
			b.WriteString("?.")
		}
		b.WriteByte('[')
		if err := p.writeOperand(b, g, "index"); err != nil {
			return err
		}
		b.WriteByte(']')
	case "call_expression":
		// `a < b > (c)` is JavaScript comparison text but parses as a
		// generic call; keep what was written.
		if g.Field("type_arguments") != nil {
			b.WriteString(collapse(g.Text))
			return nil
		}
		if err := p.writeOperand(b, g, "function"); err != nil {
			return err
		}
		if g.Field("optional_chain") != nil {
			b.WriteString("?.")
		}
		return p.writeArguments(b, g.Field("arguments"))
	case "new_expression":
		if g.Field("type_arguments") != nil {
			b.WriteString(collapse(g.Text))
			return nil
		}
		b.WriteString("new ")
		if err := p.writeOperand(b, g, "constructor"); err != nil {
			return err
		}
		if args := g.Field("arguments"); args != nil {
			return p.writeArguments(b, args)
		}
		b.WriteString("()")
	case "ternary_expression":
		if err := p.writeOperand(b, g, "condition"); err != nil {
			return err
		}
		b.WriteString(" ? ")
		if err := p.writeOperand(b, g, "consequence"); err != nil {
			return err
		}
		b.WriteString(" : ")
		return p.writeOperand(b, g, "alternative")
	case "sequence_expression":
		return p.writeList(b, namedChildren(g), ", ")
	case "array":
		b.WriteByte('[')
		if err := p.writeList(b, namedChildren(g), ", "); err != nil {
			return err
		}
		b.WriteByte(']')
	case "spread_element":
		b.WriteString("...")
		return p.writeList(b, namedChildren(g), "")
	case "await_expression":
		b.WriteString("await ")
		return p.writeList(b, namedChildren(g), "")
	case "expression_statement":
		return p.writeList(b, namedChildren(g), ", ")
	default:
		b.WriteString(collapse(g.Text))
	}
	return nil
}

func (p *Printer) writeBinary(b *strings.Builder, g *syntax.Generic, left syntax.Node, op string, right syntax.Node) error {
	if left == nil || right == nil || op == "" {
		b.WriteString(collapse(g.Text))
		return nil
	}
	if err := p.write(b, left); err != nil {
		return err
	}
	b.WriteString(" " + op + " ")
	return p.write(b, right)
}

func (p *Printer) writeOperand(b *strings.Builder, g *syntax.Generic, field string) error {
	child := g.Field(field)
	if child == nil {
		return fmt.Errorf("%w: %s without %s", ErrUnsupported, g.Type, field)
	}
	return p.write(b, child)
}

func (p *Printer) writeArguments(b *strings.Builder, args syntax.Node) error {
	// A tagged template or an argument list kept as a single token already
	// carries its own delimiters.
	if t, ok := args.(*syntax.Token); ok && (t.Type == "template_string" || strings.HasPrefix(t.Text, "(")) {
		b.WriteString(collapse(t.Text))
		return nil
	}
	b.WriteByte('(')
	if g, ok := args.(*syntax.Generic); ok {
		if err := p.writeList(b, namedChildren(g), ", "); err != nil {
			return err
		}
	} else if args != nil {
		if err := p.write(b, args); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func (p *Printer) writeList(b *strings.Builder, items []syntax.Node, sep string) error {
	first := true
	for _, it := range items {
		if it == nil {
			continue
		}
		if !first {
			b.WriteString(sep)
		}
		first = false
		if err := p.write(b, it); err != nil {
			return err
		}
	}
	return nil
}

// stripParens returns the expression inside any number of enclosing
// parentheses. A parenthesized node with several children is returned as is.
func stripParens(node syntax.Node) syntax.Node {
	for {
		g, ok := node.(*syntax.Generic)
		if !ok || g.Type != "parenthesized_expression" {
			return node
		}
		inner := namedChildren(g)
		if len(inner) != 1 || inner[0] == nil {
			return node
		}
		node = inner[0]
	}
}

// isPrimary reports whether node never needs parentheses as an operand.
func isPrimary(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.Identifier:
		return true
	case *syntax.Token:
		// `(1).toFixed()` needs them.
		return n.Type != "number"
	case *syntax.Generic:
		switch n.Type {
		case "member_expression", "subscript_expression", "call_expression", "array":
			return true
		}
	}
	return false
}

// operator returns the text of the node's operator token.
func operator(g *syntax.Generic) string {
	if t, ok := g.Field("operator").(*syntax.Token); ok {
		return t.Text
	}
	return ""
}

// namedChildren drops bare tokens that carry no field name (punctuation).
func namedChildren(g *syntax.Generic) []syntax.Node {
	out := make([]syntax.Node, 0, len(g.Fields))
	for _, f := range g.Fields {
		if t, ok := f.Value.(*syntax.Token); ok && f.Name == "" && isPunctuation(t.Text) {
			continue
		}
		out = append(out, f.Value)
	}
	return out
}

func isPunctuation(s string) bool {
	switch s {
	case "(", ")", "[", "]", "{", "}", ",", ";", "...":
		return true
	}
	return false
}

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "delete":
		return true
	}
	return false
}

// collapse squeezes every whitespace run to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

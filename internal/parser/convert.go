package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

const defaultMaxDepth = 10000

// leafKinds are named nodes kept as a single token even though the grammar
// gives them children.
var leafKinds = map[string]bool{
	"string":          true,
	"template_string": true,
	"regex":           true,
	"number":          true,
}

// listKinds stay Generic when empty so printers still see the list.
var listKinds = map[string]bool{
	"arguments": true,
}

// child is one concrete child together with the grammar field it sits in.
type child struct {
	field string
	node  *sitter.Node
}

// converter maps the tree-sitter concrete tree onto the syntax vocabulary.
type converter struct {
	source   []byte
	maxDepth int
}

func (c *converter) program(root *sitter.Node) (*syntax.Program, error) {
	body := &syntax.List{}
	for _, ch := range children(root) {
		if !ch.node.IsNamed() {
			continue
		}
		n, err := c.convert(ch.node, 1)
		if err != nil {
			return nil, err
		}
		if n != nil {
			body.Items = append(body.Items, n)
		}
	}

	prog := &syntax.Program{Body: body, Source: c.source}
	if len(body.Items) > 0 {
		prog.Position = position(root)
	}
	return prog, nil
}

// convert returns nil for comments and empty statements.
func (c *converter) convert(n *sitter.Node, depth int) (syntax.Node, error) {
	if n == nil {
		return nil, nil
	}
	if depth > c.maxDepth {
		return nil, fmt.Errorf("%w: more than %d levels", ErrTooDeep, c.maxDepth)
	}

	switch n.Kind() {
	case "comment", "empty_statement":
		return nil, nil

	case "identifier":
		return c.identifier(n), nil

	case "variable_declarator":
		return c.declarator(n, depth)

	case "assignment_expression":
		return c.assignment(n, "=", depth)

	case "augmented_assignment_expression":
		return c.assignment(n, c.text(n.ChildByFieldName("operator")), depth)

	case "update_expression":
		return c.update(n, depth)

	case "if_statement":
		return c.ifStatement(n, depth)

	case "while_statement":
		test, err := c.convert(unwrapParens(n.ChildByFieldName("condition")), depth+1)
		if err != nil {
			return nil, err
		}
		body, err := c.convert(n.ChildByFieldName("body"), depth+1)
		if err != nil {
			return nil, err
		}
		return &syntax.While{Position: position(n), Test: test, Body: body}, nil

	case "for_statement":
		return c.forStatement(n, depth)

	case "for_in_statement":
		return c.forIn(n, depth)

	case "function_declaration", "generator_function_declaration":
		return c.function(n, depth)

	case "return_statement":
		ret := &syntax.Return{Position: position(n)}
		for _, ch := range children(n) {
			if !ch.node.IsNamed() || ch.node.Kind() == "comment" {
				continue
			}
			arg, err := c.convert(ch.node, depth+1)
			if err != nil {
				return nil, err
			}
			ret.Argument = arg
			break
		}
		return ret, nil
	}

	if leafKinds[n.Kind()] || (n.NamedChildCount() == 0 && !listKinds[n.Kind()]) {
		return c.token(n), nil
	}
	return c.generic(n, depth)
}

func (c *converter) generic(n *sitter.Node, depth int) (syntax.Node, error) {
	g := &syntax.Generic{
		Type:     n.Kind(),
		Position: position(n),
		Text:     c.text(n),
	}
	for _, ch := range children(n) {
		// Anonymous tokens only matter when the grammar labels them,
		// e.g. the operator of a binary expression.
		if !ch.node.IsNamed() {
			if ch.field != "" {
				g.Fields = append(g.Fields, syntax.Field{Name: ch.field, Value: c.token(ch.node)})
			}
			continue
		}
		v, err := c.convert(ch.node, depth+1)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		g.Fields = append(g.Fields, syntax.Field{Name: ch.field, Value: v})
	}
	return g, nil
}

func (c *converter) declarator(n *sitter.Node, depth int) (syntax.Node, error) {
	d := &syntax.Declarator{Position: position(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		// Destructuring patterns are reported by their source text.
		d.Name = &syntax.Identifier{Position: position(name), Name: collapse(c.text(name))}
	}
	init, err := c.convert(n.ChildByFieldName("value"), depth+1)
	if err != nil {
		return nil, err
	}
	d.Init = init
	return d, nil
}

func (c *converter) assignment(n *sitter.Node, op string, depth int) (syntax.Node, error) {
	left, err := c.convert(n.ChildByFieldName("left"), depth+1)
	if err != nil {
		return nil, err
	}
	right, err := c.convert(n.ChildByFieldName("right"), depth+1)
	if err != nil {
		return nil, err
	}
	return &syntax.Assignment{Position: position(n), Operator: op, Left: left, Right: right}, nil
}

func (c *converter) update(n *sitter.Node, depth int) (syntax.Node, error) {
	opNode := n.ChildByFieldName("operator")
	argNode := n.ChildByFieldName("argument")
	arg, err := c.convert(argNode, depth+1)
	if err != nil {
		return nil, err
	}
	u := &syntax.Update{Position: position(n), Operator: c.text(opNode), Argument: arg}
	if opNode != nil && argNode != nil {
		u.Prefix = opNode.StartByte() < argNode.StartByte()
	}
	return u, nil
}

func (c *converter) ifStatement(n *sitter.Node, depth int) (syntax.Node, error) {
	test, err := c.convert(unwrapParens(n.ChildByFieldName("condition")), depth+1)
	if err != nil {
		return nil, err
	}
	then, err := c.convert(n.ChildByFieldName("consequence"), depth+1)
	if err != nil {
		return nil, err
	}

	// The alternative is an else_clause wrapping the actual statement.
	var alt syntax.Node
	if clause := n.ChildByFieldName("alternative"); clause != nil {
		target := clause
		if clause.Kind() == "else_clause" {
			target = firstNamed(clause)
		}
		if alt, err = c.convert(target, depth+1); err != nil {
			return nil, err
		}
	}
	return &syntax.If{Position: position(n), Test: test, Then: then, Else: alt}, nil
}

func (c *converter) forStatement(n *sitter.Node, depth int) (syntax.Node, error) {
	clauses := map[string]*sitter.Node{}
	var body *sitter.Node
	for _, ch := range children(n) {
		switch ch.field {
		case "initializer", "condition", "increment":
			// A clause may span an expression and its ';'; the
			// expression is the first named node.
			if _, seen := clauses[ch.field]; !seen && ch.node.IsNamed() {
				clauses[ch.field] = ch.node
			}
		case "body":
			body = ch.node
		}
	}

	init, err := c.convert(clauses["initializer"], depth+1)
	if err != nil {
		return nil, err
	}
	test, err := c.convert(unwrapStatement(clauses["condition"]), depth+1)
	if err != nil {
		return nil, err
	}
	update, err := c.convert(clauses["increment"], depth+1)
	if err != nil {
		return nil, err
	}
	loop, err := c.convert(body, depth+1)
	if err != nil {
		return nil, err
	}
	return &syntax.For{Position: position(n), Init: init, Test: test, Update: update, Body: loop}, nil
}

// forIn reports the binding of `for (let k in o)` and `for (const v of a)` as a
// declarator. A bare assignment target such as `for (k in o)` is left alone.
func (c *converter) forIn(n *sitter.Node, depth int) (syntax.Node, error) {
	node, err := c.generic(n, depth)
	if err != nil {
		return nil, err
	}
	left := n.ChildByFieldName("left")
	if n.ChildByFieldName("kind") == nil || left == nil {
		return node, nil
	}

	d := &syntax.Declarator{
		Position: position(left),
		Name:     &syntax.Identifier{Position: position(left), Name: collapse(c.text(left))},
	}
	g := node.(*syntax.Generic)
	fields := g.Fields[:0]
	for _, f := range g.Fields {
		switch f.Name {
		case "left":
			f.Value = d
		case "value":
			// `for (var k = 0 in o)`
			d.Init = f.Value
			continue
		}
		fields = append(fields, f)
	}
	g.Fields = fields
	return g, nil
}

func (c *converter) function(n *sitter.Node, depth int) (syntax.Node, error) {
	fn := &syntax.FunctionDecl{Position: position(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Name = c.identifier(name)
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for _, ch := range children(params) {
			if !ch.node.IsNamed() || ch.node.Kind() == "comment" {
				continue
			}
			p, err := c.convert(parameterBinding(ch.node), depth+1)
			if err != nil {
				return nil, err
			}
			if p != nil {
				fn.Params = append(fn.Params, p)
			}
		}
	}

	body, err := c.convert(n.ChildByFieldName("body"), depth+1)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// parameterBinding returns the binding a parameter introduces: the pattern of
// a typed parameter, the left side of a defaulted one, the target of a rest
// parameter.
func parameterBinding(n *sitter.Node) *sitter.Node {
	switch n.Kind() {
	case "required_parameter", "optional_parameter":
		if p := n.ChildByFieldName("pattern"); p != nil {
			return parameterBinding(p)
		}
	case "assignment_pattern":
		if l := n.ChildByFieldName("left"); l != nil {
			return parameterBinding(l)
		}
	case "rest_pattern":
		if inner := firstNamed(n); inner != nil {
			return parameterBinding(inner)
		}
	}
	return n
}

func (c *converter) identifier(n *sitter.Node) *syntax.Identifier {
	return &syntax.Identifier{Position: position(n), Name: c.text(n)}
}

func (c *converter) token(n *sitter.Node) *syntax.Token {
	return &syntax.Token{Type: n.Kind(), Position: position(n), Text: c.text(n)}
}

func (c *converter) text(n *sitter.Node) string {
	return extractNodeText(n, c.source)
}

// children lists every child of n with its field name.
func children(n *sitter.Node) []child {
	cursor := n.Walk()
	defer cursor.Close()

	var out []child
	if !cursor.GotoFirstChild() {
		return out
	}
	for {
		out = append(out, child{field: cursor.FieldName(), node: cursor.Node()})
		if !cursor.GotoNextSibling() {
			break
		}
	}
	return out
}

// firstNamed returns the first named, non-comment child of n.
func firstNamed(n *sitter.Node) *sitter.Node {
	for _, ch := range children(n) {
		if ch.node.IsNamed() && ch.node.Kind() != "comment" {
			return ch.node
		}
	}
	return nil
}

// unwrapParens strips the parentheses around an if/while condition.
func unwrapParens(n *sitter.Node) *sitter.Node {
	if n != nil && n.Kind() == "parenthesized_expression" {
		if inner := firstNamed(n); inner != nil {
			return inner
		}
	}
	return n
}

// unwrapStatement returns the expression inside an expression_statement
// for-clause; an empty clause yields nil.
func unwrapStatement(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "empty_statement":
		return nil
	case "expression_statement":
		return firstNamed(n)
	}
	return n
}

// collapse squeezes every whitespace run to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

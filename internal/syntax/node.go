// Package syntax defines the syntax tree consumed by the extraction engine.
//
// Recognized constructs get their own node type with explicitly named fields.
// Everything else is carried as a Generic node: its kind tag plus the ordered
// list of its named children, so the engine can still walk through it.
package syntax

import "fmt"

// Record kinds. These are the ESTree names the analyzer reports in its output.
const (
	KindIdentifier   = "Identifier"
	KindDeclarator   = "VariableDeclarator"
	KindAssignment   = "AssignmentExpression"
	KindUpdate       = "UpdateExpression"
	KindIf           = "IfStatement"
	KindWhile        = "WhileStatement"
	KindFor          = "ForStatement"
	KindFunctionDecl = "FunctionDeclaration"
	KindReturn       = "ReturnStatement"

	// KindList tags an ordered sequence of nodes.
	KindList = "List"
)

// Position is a 1-based source location. The zero value means "no position".
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is any value in the syntax tree. The set of implementations is closed.
type Node interface {
	Kind() string
	Pos() Position
	node()
}

// Identifier is a bare name reference.
type Identifier struct {
	Position Position
	Name     string
}

// Declarator is a single binding inside a var/let/const declaration.
// Init is nil when the declarator has no initializer.
type Declarator struct {
	Position Position
	Name     *Identifier
	Init     Node
}

// Assignment is `left op right` for `=` and every compound assignment operator.
type Assignment struct {
	Position Position
	Operator string
	Left     Node
	Right    Node
}

// Update is `x++`, `x--`, `++x` or `--x`.
type Update struct {
	Position Position
	Operator string
	Prefix   bool
	Argument Node
}

// If is an if statement. Else is nil when there is no alternate branch.
type If struct {
	Position Position
	Test     Node
	Then     Node
	Else     Node
}

// While is a while loop.
type While struct {
	Position Position
	Test     Node
	Body     Node
}

// For is a classic three-clause for loop. Any clause may be nil.
type For struct {
	Position Position
	Init     Node
	Test     Node
	Update   Node
	Body     Node
}

// FunctionDecl is a named function declaration.
type FunctionDecl struct {
	Position Position
	Name     *Identifier
	Params   []Node
	Body     Node
}

// Return is a return statement. Argument is nil for a bare `return;`.
type Return struct {
	Position Position
	Argument Node
}

// Field is one named child of a Generic node. Name is empty for children
// the grammar does not label.
type Field struct {
	Name  string
	Value Node
}

// Generic is any construct outside the recognized vocabulary.
type Generic struct {
	Type     string
	Position Position
	Fields   []Field
	// Text is the node's source text, used when an expression has no
	// dedicated rendering.
	Text string
}

// Field returns the first child stored under name, or nil.
func (g *Generic) Field(name string) Node {
	for _, f := range g.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// Children returns every child in field order.
func (g *Generic) Children() []Node {
	out := make([]Node, 0, len(g.Fields))
	for _, f := range g.Fields {
		out = append(out, f.Value)
	}
	return out
}

// List is an ordered sequence of nodes.
type List struct {
	Items []Node
}

// Token is a primitive leaf: a literal, keyword or operator. It is never
// descended into.
type Token struct {
	Type     string
	Position Position
	Text     string
}

// Program is the root of a parsed source text.
type Program struct {
	Body     *List
	Position Position
	Source   []byte
}

func (*Identifier) node()   {}
func (*Declarator) node()   {}
func (*Assignment) node()   {}
func (*Update) node()       {}
func (*If) node()           {}
func (*While) node()        {}
func (*For) node()          {}
func (*FunctionDecl) node() {}
func (*Return) node()       {}
func (*Generic) node()      {}
func (*List) node()         {}
func (*Token) node()        {}
func (*Program) node()      {}

func (*Identifier) Kind() string   { return KindIdentifier }
func (*Declarator) Kind() string   { return KindDeclarator }
func (*Assignment) Kind() string   { return KindAssignment }
func (*Update) Kind() string       { return KindUpdate }
func (*If) Kind() string           { return KindIf }
func (*While) Kind() string        { return KindWhile }
func (*For) Kind() string          { return KindFor }
func (*FunctionDecl) Kind() string { return KindFunctionDecl }
func (*Return) Kind() string       { return KindReturn }
func (g *Generic) Kind() string    { return g.Type }
func (*List) Kind() string         { return KindList }
func (t *Token) Kind() string      { return t.Type }
func (*Program) Kind() string      { return "Program" }

func (n *Identifier) Pos() Position   { return n.Position }
func (n *Declarator) Pos() Position   { return n.Position }
func (n *Assignment) Pos() Position   { return n.Position }
func (n *Update) Pos() Position       { return n.Position }
func (n *If) Pos() Position           { return n.Position }
func (n *While) Pos() Position        { return n.Position }
func (n *For) Pos() Position          { return n.Position }
func (n *FunctionDecl) Pos() Position { return n.Position }
func (n *Return) Pos() Position       { return n.Position }
func (g *Generic) Pos() Position      { return g.Position }
func (t *Token) Pos() Position        { return t.Position }
func (p *Program) Pos() Position      { return p.Position }

// Pos of a List is the position of its first positioned item.
func (l *List) Pos() Position {
	for _, it := range l.Items {
		if it == nil {
			continue
		}
		if p := it.Pos(); p.IsValid() {
			return p
		}
	}
	return Position{}
}

// NewList builds a List from items.
func NewList(items ...Node) *List {
	return &List{Items: items}
}

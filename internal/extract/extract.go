// Package extract walks a syntax tree and produces the flat construct trace.
//
// Recognized kinds own the traversal of their children (extractOwn); every
// other structured node is passed through transparently (descendGeneric).
// A single dispatcher decides which of the two applies to each node.
package extract

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/js-analyzer/internal/codegen"
	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

// Options configures an Extractor.
type Options struct {
	// MaxDepth is the deepest nesting the walk accepts before failing
	// with ErrMaxDepth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Extractor turns syntax trees into records. It holds no per-call state and
// is safe for concurrent use.
type Extractor struct {
	gen      codegen.Generator
	maxDepth int
}

// New creates an Extractor. A nil gen uses the default code generator.
func New(gen codegen.Generator, opts Options) *Extractor {
	if gen == nil {
		gen = codegen.New()
	}
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Extractor{gen: gen, maxDepth: depth}
}

// Extract returns the trace for node in depth-first, left-to-right order.
// On error no partial trace is returned.
func (e *Extractor) Extract(node syntax.Node) ([]Record, error) {
	w := &walker{Extractor: e, out: []Record{}}
	if err := w.walk(node, 0); err != nil {
		return nil, err
	}
	return w.out, nil
}

// ExtractOwn returns the records a recognized node produces for itself,
// including the children it owns. Unrecognized nodes produce nothing.
// Unlike Extract, an Identifier yields its own record here.
func (e *Extractor) ExtractOwn(node syntax.Node) ([]Record, error) {
	w := &walker{Extractor: e, out: []Record{}}
	if err := w.extractOwn(node, 0); err != nil {
		return nil, err
	}
	return w.out, nil
}

// walker carries the output builder for one Extract call.
type walker struct {
	*Extractor
	out []Record
}

func (w *walker) emit(r Record) { w.out = append(w.out, r) }

// walk is the dispatcher.
func (w *walker) walk(node syntax.Node, depth int) error {
	if depth > w.maxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrMaxDepth, w.maxDepth)
	}

	switch n := node.(type) {
	case nil:
		return nil
	case *syntax.Token:
		return nil
	case *syntax.Identifier:
		// Identifiers are terminal and only reported where an owner asks.
		return nil
	case *syntax.List:
		if n == nil {
			return nil
		}
		for _, it := range n.Items {
			if err := w.walk(it, depth+1); err != nil {
				return err
			}
		}
		return nil
	case *syntax.Program:
		if n == nil || n.Body == nil {
			return nil
		}
		return w.walk(n.Body, depth+1)
	case *syntax.Generic:
		if n == nil {
			return nil
		}
		return w.descendGeneric(n, depth)
	case *syntax.Declarator, *syntax.Assignment, *syntax.Update, *syntax.If,
		*syntax.While, *syntax.For, *syntax.FunctionDecl, *syntax.Return:
		return w.extractOwn(n, depth)
	default:
		return fmt.Errorf("extract: unexpected node type %T", node)
	}
}

// descendGeneric walks every field of an unrecognized node in order.
func (w *walker) descendGeneric(g *syntax.Generic, depth int) error {
	for _, f := range g.Fields {
		if err := w.walk(f.Value, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// extractOwn builds the node's record and recurses into the children the
// kind owns.
func (w *walker) extractOwn(node syntax.Node, depth int) error {
	switch n := node.(type) {
	case *syntax.Identifier:
		return w.identifier(n)

	case *syntax.Declarator:
		if n.Name == nil {
			return missing(n.Kind(), "name")
		}
		line, err := line(n.Name.Kind(), n.Name.Position)
		if err != nil {
			return err
		}
		value, err := w.optional(n.Kind(), n.Init)
		if err != nil {
			return err
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Name: str(n.Name.Name), Value: value})
		return nil

	case *syntax.Assignment:
		line, err := line(n.Kind(), n.Position)
		if err != nil {
			return err
		}
		if n.Left == nil {
			return missing(n.Kind(), "left")
		}
		if n.Right == nil {
			return missing(n.Kind(), "right")
		}
		left, err := w.generate(n.Kind(), n.Left)
		if err != nil {
			return err
		}
		value, err := w.generate(n.Kind(), n.Right)
		if err != nil {
			return err
		}
		if n.Operator != "" && n.Operator != "=" {
			value = left + " " + strings.TrimSuffix(n.Operator, "=") + " " + value
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Name: str(left), Value: str(value)})
		return nil

	case *syntax.Update:
		line, err := line(n.Kind(), n.Position)
		if err != nil {
			return err
		}
		if n.Argument == nil {
			return missing(n.Kind(), "argument")
		}
		if n.Operator != "++" && n.Operator != "--" {
			return missing(n.Kind(), "operator")
		}
		var name string
		if id, ok := n.Argument.(*syntax.Identifier); ok {
			name = id.Name
		} else if name, err = w.generate(n.Kind(), n.Argument); err != nil {
			return err
		}
		value := name + " " + n.Operator[1:] + " 1"
		w.emit(Record{Line: line, Kind: n.Kind(), Name: str(name), Value: str(value)})
		return nil

	case *syntax.If:
		line, err := line(n.Kind(), n.Position)
		if err != nil {
			return err
		}
		cond, err := w.required(n.Kind(), "test", n.Test)
		if err != nil {
			return err
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Condition: str(cond)})
		if err := w.walk(n.Then, depth+1); err != nil {
			return err
		}
		return w.walk(n.Else, depth+1)

	case *syntax.While:
		line, err := line(n.Kind(), n.Position)
		if err != nil {
			return err
		}
		cond, err := w.required(n.Kind(), "test", n.Test)
		if err != nil {
			return err
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Condition: str(cond)})
		return w.walk(n.Body, depth+1)

	case *syntax.For:
		line, err := line(n.Kind(), n.Position)
		if err != nil {
			return err
		}
		cond, err := w.optional(n.Kind(), n.Test)
		if err != nil {
			return err
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Condition: cond})
		for _, child := range []syntax.Node{n.Init, n.Update, n.Body} {
			if err := w.walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil

	case *syntax.FunctionDecl:
		if n.Name == nil {
			return missing(n.Kind(), "name")
		}
		line, err := line(n.Kind(), n.Name.Position)
		if err != nil {
			return err
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Name: str(n.Name.Name)})
		for _, p := range n.Params {
			if id, ok := p.(*syntax.Identifier); ok {
				if err := w.identifier(id); err != nil {
					return err
				}
				continue
			}
			if err := w.walk(p, depth+1); err != nil {
				return err
			}
		}
		return w.walk(n.Body, depth+1)

	case *syntax.Return:
		line, err := line(n.Kind(), n.Position)
		if err != nil {
			return err
		}
		value, err := w.optional(n.Kind(), n.Argument)
		if err != nil {
			return err
		}
		w.emit(Record{Line: line, Kind: n.Kind(), Value: value})
		return nil
	}
	return nil
}

func (w *walker) identifier(n *syntax.Identifier) error {
	if n == nil {
		return missing(syntax.KindIdentifier, "node")
	}
	line, err := line(n.Kind(), n.Position)
	if err != nil {
		return err
	}
	w.emit(Record{Line: line, Kind: n.Kind(), Name: str(n.Name)})
	return nil
}

// required generates text for a mandatory expression slot.
func (w *walker) required(kind, field string, expr syntax.Node) (string, error) {
	if expr == nil {
		return "", missing(kind, field)
	}
	return w.generate(kind, expr)
}

// optional generates text for a nullable expression slot; nil stays nil.
func (w *walker) optional(kind string, expr syntax.Node) (*string, error) {
	if expr == nil {
		return nil, nil
	}
	text, err := w.generate(kind, expr)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func (w *walker) generate(kind string, expr syntax.Node) (string, error) {
	text, err := w.gen.Generate(expr)
	if err != nil {
		return "", fmt.Errorf("%s at %s: %w", kind, expr.Pos(), err)
	}
	return text, nil
}

func line(kind string, pos syntax.Position) (int, error) {
	if !pos.IsValid() {
		return 0, missing(kind, "position")
	}
	return pos.Line, nil
}

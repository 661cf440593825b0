package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural indicates a recognized node is missing a field the
	// extractor needs. It means the parser and the engine disagree about
	// the tree shape.
	ErrStructural = errors.New("malformed syntax node")

	// ErrMaxDepth indicates the tree nests deeper than Options.MaxDepth.
	ErrMaxDepth = errors.New("syntax tree nesting too deep")
)

// StructuralError names the node kind and the missing field.
type StructuralError struct {
	Kind  string
	Field string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s node has no %s", ErrStructural, e.Kind, e.Field)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

func missing(kind, field string) error {
	return &StructuralError{Kind: kind, Field: field}
}

package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/js-analyzer/internal/codegen"
	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

// Test Plan for Extractor:
// - An empty program yields an empty, non-nil trace
// - Declarators with and without initializers
// - Plain and compound assignments (value rewritten as `left op right`)
// - Prefix, postfix and member updates (value rewritten as `name +/- 1`)
// - If records its condition before both branches; a missing else is fine
// - While records its condition before its body
// - For records condition (possibly null) before init, update, body
// - Function declarations record name, then identifier params, then body
// - Return with and without an argument
// - Unrecognized nodes are walked transparently; a call alone yields nothing
// - Identifiers reached by traversal yield nothing; ExtractOwn reports them
// - Order is depth-first, left-to-right, and extraction is idempotent
// - Missing fields and invalid positions fail with ErrStructural
// - Generator failures and excessive nesting abort the call

func pos(line int) syntax.Position { return syntax.Position{Line: line, Column: 1} }

func ident(name string, line int) *syntax.Identifier {
	return &syntax.Identifier{Name: name, Position: pos(line)}
}

func num(text string, line int) *syntax.Token {
	return &syntax.Token{Type: "number", Text: text, Position: pos(line)}
}

func binary(left syntax.Node, op string, right syntax.Node, line int) *syntax.Generic {
	return &syntax.Generic{Type: "binary_expression", Position: pos(line), Fields: []syntax.Field{
		{Name: "left", Value: left},
		{Name: "operator", Value: &syntax.Token{Type: op, Text: op}},
		{Name: "right", Value: right},
	}}
}

func block(items ...syntax.Node) *syntax.Generic {
	fields := make([]syntax.Field, 0, len(items))
	for _, it := range items {
		fields = append(fields, syntax.Field{Value: it})
	}
	return &syntax.Generic{Type: "statement_block", Fields: fields}
}

func program(items ...syntax.Node) *syntax.Program {
	return &syntax.Program{Body: syntax.NewList(items...), Position: pos(1)}
}

func extract(t *testing.T, node syntax.Node) []Record {
	t.Helper()
	records, err := New(nil, Options{}).Extract(node)
	require.NoError(t, err)
	return records
}

func rec(line int, kind string, name, cond, value *string) Record {
	return Record{Line: line, Kind: kind, Name: name, Condition: cond, Value: value}
}

func s(v string) *string { return &v }

func TestExtract_EmptyProgram(t *testing.T) {
	t.Parallel()

	records := extract(t, &syntax.Program{Body: syntax.NewList()})
	require.NotNil(t, records)
	assert.Empty(t, records)

	records = extract(t, nil)
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestExtract_Declarator(t *testing.T) {
	t.Parallel()

	withInit := &syntax.Declarator{
		Position: pos(1),
		Name:     ident("x", 1),
		Init:     binary(ident("y", 1), "+", num("6", 1), 1),
	}
	assert.Equal(t, []Record{rec(1, syntax.KindDeclarator, s("x"), nil, s("y + 6"))}, extract(t, withInit))

	bare := &syntax.Declarator{Position: pos(1), Name: ident("x", 1)}
	assert.Equal(t, []Record{rec(1, syntax.KindDeclarator, s("x"), nil, nil)}, extract(t, bare))
}

func TestExtract_DeclaratorLineComesFromName(t *testing.T) {
	t.Parallel()

	d := &syntax.Declarator{Position: pos(1), Name: ident("late", 3), Init: num("1", 3)}
	records := extract(t, d)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Line)
}

func TestExtract_Assignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		op    string
		right syntax.Node
		want  string
	}{
		{"plain", "=", binary(ident("y", 1), "+", num("6", 1), 1), "y + 6"},
		{"add", "+=", num("6", 1), "x + 6"},
		{"subtract", "-=", ident("d", 1), "x - d"},
		{"exponent", "**=", num("2", 1), "x ** 2"},
		{"unsigned shift", ">>>=", num("1", 1), "x >>> 1"},
		{"nullish", "??=", num("0", 1), "x ?? 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := &syntax.Assignment{Position: pos(1), Operator: tt.op, Left: ident("x", 1), Right: tt.right}
			assert.Equal(t, []Record{rec(1, syntax.KindAssignment, s("x"), nil, s(tt.want))}, extract(t, a))
		})
	}
}

func TestExtract_Update(t *testing.T) {
	t.Parallel()

	postfix := &syntax.Update{Position: pos(1), Operator: "++", Argument: ident("i", 1)}
	assert.Equal(t, []Record{rec(1, syntax.KindUpdate, s("i"), nil, s("i + 1"))}, extract(t, postfix))

	prefix := &syntax.Update{Position: pos(2), Operator: "--", Prefix: true, Argument: ident("j", 2)}
	assert.Equal(t, []Record{rec(2, syntax.KindUpdate, s("j"), nil, s("j - 1"))}, extract(t, prefix))

	member := &syntax.Update{Position: pos(1), Operator: "++", Argument: &syntax.Generic{
		Type: "member_expression",
		Fields: []syntax.Field{
			{Name: "object", Value: ident("o", 1)},
			{Name: "property", Value: &syntax.Identifier{Name: "n", Position: pos(1)}},
		},
	}}
	assert.Equal(t, []Record{rec(1, syntax.KindUpdate, s("o.n"), nil, s("o.n + 1"))}, extract(t, member))
}

func TestExtract_If(t *testing.T) {
	t.Parallel()

	withElse := &syntax.If{
		Position: pos(1),
		Test:     binary(ident("x", 1), ">", num("9", 1), 1),
		Then:     block(&syntax.Return{Position: pos(2), Argument: num("1", 2)}),
		Else:     block(&syntax.Return{Position: pos(4), Argument: num("0", 4)}),
	}
	assert.Equal(t, []Record{
		rec(1, syntax.KindIf, nil, s("x > 9"), nil),
		rec(2, syntax.KindReturn, nil, nil, s("1")),
		rec(4, syntax.KindReturn, nil, nil, s("0")),
	}, extract(t, withElse))

	noElse := &syntax.If{Position: pos(1), Test: binary(ident("x", 1), ">", num("9", 1), 1), Then: block()}
	assert.Equal(t, []Record{rec(1, syntax.KindIf, nil, s("x > 9"), nil)}, extract(t, noElse))
}

func TestExtract_ElseIfChain(t *testing.T) {
	t.Parallel()

	inner := &syntax.If{Position: pos(3), Test: ident("b", 3), Then: block()}
	outer := &syntax.If{Position: pos(1), Test: ident("a", 1), Then: block(), Else: inner}

	assert.Equal(t, []Record{
		rec(1, syntax.KindIf, nil, s("a"), nil),
		rec(3, syntax.KindIf, nil, s("b"), nil),
	}, extract(t, outer))
}

func TestExtract_While(t *testing.T) {
	t.Parallel()

	subscript := &syntax.Generic{Type: "subscript_expression", Fields: []syntax.Field{
		{Name: "object", Value: ident("y", 1)},
		{Name: "index", Value: num("6", 1)},
	}}
	w := &syntax.While{
		Position: pos(1),
		Test:     binary(ident("x", 1), ">", subscript, 1),
		Body:     block(&syntax.Update{Position: pos(2), Operator: "--", Argument: ident("x", 2)}),
	}
	assert.Equal(t, []Record{
		rec(1, syntax.KindWhile, nil, s("x > y[6]"), nil),
		rec(2, syntax.KindUpdate, s("x"), nil, s("x - 1")),
	}, extract(t, w))
}

func TestExtract_For(t *testing.T) {
	t.Parallel()

	full := &syntax.For{
		Position: pos(1),
		Init:     &syntax.Assignment{Position: pos(1), Operator: "=", Left: ident("i", 1), Right: num("0", 1)},
		Test:     binary(ident("i", 1), "<=", num("5", 1), 1),
		Update:   &syntax.Update{Position: pos(1), Operator: "++", Argument: ident("i", 1)},
		Body:     block(),
	}
	assert.Equal(t, []Record{
		rec(1, syntax.KindFor, nil, s("i <= 5"), nil),
		rec(1, syntax.KindAssignment, s("i"), nil, s("0")),
		rec(1, syntax.KindUpdate, s("i"), nil, s("i + 1")),
	}, extract(t, full))

	empty := &syntax.For{Position: pos(1), Body: block()}
	assert.Equal(t, []Record{rec(1, syntax.KindFor, nil, nil, nil)}, extract(t, empty))
}

func TestExtract_FunctionDecl(t *testing.T) {
	t.Parallel()

	fn := &syntax.FunctionDecl{
		Position: pos(1),
		Name:     ident("myFunc", 1),
		Params:   []syntax.Node{ident("a", 1), ident("b", 1), ident("c", 1)},
		Body:     block(),
	}
	assert.Equal(t, []Record{
		rec(1, syntax.KindFunctionDecl, s("myFunc"), nil, nil),
		rec(1, syntax.KindIdentifier, s("a"), nil, nil),
		rec(1, syntax.KindIdentifier, s("b"), nil, nil),
		rec(1, syntax.KindIdentifier, s("c"), nil, nil),
	}, extract(t, fn))
}

func TestExtract_FunctionDeclNonIdentifierParams(t *testing.T) {
	t.Parallel()

	destructured := &syntax.Generic{Type: "object_pattern", Position: pos(1), Text: "{ a }"}
	fn := &syntax.FunctionDecl{
		Position: pos(1),
		Name:     ident("f", 1),
		Params:   []syntax.Node{destructured, ident("b", 1)},
		Body:     block(&syntax.Return{Position: pos(2)}),
	}
	assert.Equal(t, []Record{
		rec(1, syntax.KindFunctionDecl, s("f"), nil, nil),
		rec(1, syntax.KindIdentifier, s("b"), nil, nil),
		rec(2, syntax.KindReturn, nil, nil, nil),
	}, extract(t, fn))
}

func TestExtract_Return(t *testing.T) {
	t.Parallel()

	withValue := &syntax.Return{Position: pos(1), Argument: binary(ident("x", 1), "+", num("8", 1), 1)}
	assert.Equal(t, []Record{rec(1, syntax.KindReturn, nil, nil, s("x + 8"))}, extract(t, withValue))

	bare := &syntax.Return{Position: pos(1)}
	assert.Equal(t, []Record{rec(1, syntax.KindReturn, nil, nil, nil)}, extract(t, bare))
}

func TestExtract_GenericDescent(t *testing.T) {
	t.Parallel()

	// demo(); yields nothing
	call := &syntax.Generic{Type: "expression_statement", Position: pos(1), Fields: []syntax.Field{
		{Value: &syntax.Generic{Type: "call_expression", Position: pos(1), Fields: []syntax.Field{
			{Name: "function", Value: ident("demo", 1)},
			{Name: "arguments", Value: &syntax.Generic{Type: "arguments"}},
		}}},
	}}
	assert.Empty(t, extract(t, program(call)))

	// A declarator inside a callback body is still found
	callback := &syntax.Generic{Type: "call_expression", Position: pos(1), Fields: []syntax.Field{
		{Name: "function", Value: ident("run", 1)},
		{Name: "arguments", Value: &syntax.Generic{Type: "arguments", Fields: []syntax.Field{
			{Value: &syntax.Generic{Type: "arrow_function", Fields: []syntax.Field{
				{Name: "body", Value: block(&syntax.Declarator{Position: pos(2), Name: ident("inner", 2), Init: num("1", 2)})},
			}}},
		}}},
	}}
	assert.Equal(t, []Record{rec(2, syntax.KindDeclarator, s("inner"), nil, s("1"))}, extract(t, program(callback)))
}

func TestExtract_IdentifierReachedByTraversal(t *testing.T) {
	t.Parallel()

	stmt := &syntax.Generic{Type: "expression_statement", Fields: []syntax.Field{{Value: ident("x", 1)}}}
	assert.Empty(t, extract(t, program(stmt)))
	assert.Empty(t, extract(t, ident("x", 1)))

	own, err := New(nil, Options{}).ExtractOwn(ident("X", 1))
	require.NoError(t, err)
	assert.Equal(t, []Record{rec(1, syntax.KindIdentifier, s("X"), nil, nil)}, own)

	own, err = New(nil, Options{}).ExtractOwn(stmt)
	require.NoError(t, err)
	assert.Empty(t, own)
}

// The function used throughout the analyzer's history:
//
//	function func(a){
//	let x = 5 + 8;
//	if(x > a){
//	return 0;
//	}
//	return 1;
//	}
func sampleFunction() *syntax.Program {
	return program(&syntax.FunctionDecl{
		Position: pos(1),
		Name:     ident("func", 1),
		Params:   []syntax.Node{ident("a", 1)},
		Body: block(
			&syntax.Generic{Type: "lexical_declaration", Position: pos(2), Fields: []syntax.Field{
				{Value: &syntax.Declarator{Position: pos(2), Name: ident("x", 2), Init: binary(num("5", 2), "+", num("8", 2), 2)}},
			}},
			&syntax.If{
				Position: pos(3),
				Test:     binary(ident("x", 3), ">", ident("a", 3), 3),
				Then:     block(&syntax.Return{Position: pos(4), Argument: num("0", 4)}),
			},
			&syntax.Return{Position: pos(6), Argument: num("1", 6)},
		),
	})
}

func TestExtract_OrderAndIdempotence(t *testing.T) {
	t.Parallel()

	want := []Record{
		rec(1, syntax.KindFunctionDecl, s("func"), nil, nil),
		rec(1, syntax.KindIdentifier, s("a"), nil, nil),
		rec(2, syntax.KindDeclarator, s("x"), nil, s("5 + 8")),
		rec(3, syntax.KindIf, nil, s("x > a"), nil),
		rec(4, syntax.KindReturn, nil, nil, s("0")),
		rec(6, syntax.KindReturn, nil, nil, s("1")),
	}

	e := New(codegen.New(), Options{})
	prog := sampleFunction()

	first, err := e.Extract(prog)
	require.NoError(t, err)
	assert.Equal(t, want, first)

	second, err := e.Extract(prog)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_StructuralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		node  syntax.Node
		kind  string
		field string
	}{
		{"declarator without name", &syntax.Declarator{Position: pos(1)}, syntax.KindDeclarator, "name"},
		{"declarator name without position", &syntax.Declarator{Name: &syntax.Identifier{Name: "x"}}, syntax.KindIdentifier, "position"},
		{"assignment without right", &syntax.Assignment{Position: pos(1), Operator: "=", Left: ident("x", 1)}, syntax.KindAssignment, "right"},
		{"update without argument", &syntax.Update{Position: pos(1), Operator: "++"}, syntax.KindUpdate, "argument"},
		{"update with bad operator", &syntax.Update{Position: pos(1), Operator: "+", Argument: ident("i", 1)}, syntax.KindUpdate, "operator"},
		{"if without test", &syntax.If{Position: pos(1)}, syntax.KindIf, "test"},
		{"while without test", &syntax.While{Position: pos(1)}, syntax.KindWhile, "test"},
		{"for without position", &syntax.For{}, syntax.KindFor, "position"},
		{"function without name", &syntax.FunctionDecl{Position: pos(1)}, syntax.KindFunctionDecl, "name"},
		{"return without position", &syntax.Return{Argument: num("1", 1)}, syntax.KindReturn, "position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			records, err := New(nil, Options{}).Extract(program(block(tt.node)))
			require.Error(t, err)
			assert.Nil(t, records, "no partial trace on error")
			assert.ErrorIs(t, err, ErrStructural)

			var se *StructuralError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestExtract_StructuralErrorAfterRecords(t *testing.T) {
	t.Parallel()

	prog := program(
		&syntax.Declarator{Position: pos(1), Name: ident("ok", 1)},
		&syntax.Return{},
	)
	records, err := New(nil, Options{}).Extract(prog)
	assert.ErrorIs(t, err, ErrStructural)
	assert.Nil(t, records)
}

func TestExtract_GeneratorFailure(t *testing.T) {
	t.Parallel()

	// A statement in expression position cannot be printed
	bad := &syntax.While{Position: pos(1), Test: &syntax.Return{Position: pos(1)}, Body: block()}
	_, err := New(nil, Options{}).Extract(bad)
	assert.ErrorIs(t, err, codegen.ErrUnsupported)
	assert.Contains(t, err.Error(), "WhileStatement at 1:1")
}

func TestExtract_MaxDepth(t *testing.T) {
	t.Parallel()

	var node syntax.Node = &syntax.Return{Position: pos(1)}
	for i := 0; i < 10; i++ {
		node = block(node)
	}

	_, err := New(nil, Options{MaxDepth: 5}).Extract(node)
	assert.ErrorIs(t, err, ErrMaxDepth)

	records, err := New(nil, Options{MaxDepth: 50}).Extract(node)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

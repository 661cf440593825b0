package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

// Test Plan for Record JSON:
// - Each kind writes Line, Type, then only the columns it reports
// - A reported column with no value is written as null
// - Comparison operators are not HTML-escaped
// - Records of unknown kinds keep the columns they carry
// - The written form reads back into the same record

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"identifier", rec(1, syntax.KindIdentifier, s("X"), nil, nil), `{"Line":1,"Type":"Identifier","Name":"X"}`},
		{"declarator", rec(1, syntax.KindDeclarator, s("x"), nil, s("y + 6")), `{"Line":1,"Type":"VariableDeclarator","Name":"x","Value":"y + 6"}`},
		{"declarator null", rec(1, syntax.KindDeclarator, s("x"), nil, nil), `{"Line":1,"Type":"VariableDeclarator","Name":"x","Value":null}`},
		{"if", rec(1, syntax.KindIf, nil, s("x > 9"), nil), `{"Line":1,"Type":"IfStatement","Condition":"x > 9"}`},
		{"for null", rec(1, syntax.KindFor, nil, nil, nil), `{"Line":1,"Type":"ForStatement","Condition":null}`},
		{"function", rec(1, syntax.KindFunctionDecl, s("myFunc"), nil, nil), `{"Line":1,"Type":"FunctionDeclaration","Name":"myFunc"}`},
		{"return null", rec(1, syntax.KindReturn, nil, nil, nil), `{"Line":1,"Type":"ReturnStatement","Value":null}`},
		{"update", rec(1, syntax.KindUpdate, s("i"), nil, s("i + 1")), `{"Line":1,"Type":"UpdateExpression","Name":"i","Value":"i + 1"}`},
		{"unknown kind", rec(7, "Custom", nil, s("a && b"), nil), `{"Line":7,"Type":"Custom","Condition":"a && b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.rec.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var got []Record
	input := `[{"Line":1,"Type":"ForStatement","Condition":"i <= 5"},{"Line":1,"Type":"AssignmentExpression","Name":"i","Value":"0"}]`
	require.NoError(t, json.Unmarshal([]byte(input), &got))

	assert.Equal(t, []Record{
		rec(1, syntax.KindFor, nil, s("i <= 5"), nil),
		rec(1, syntax.KindAssignment, s("i"), nil, s("0")),
	}, got)
}

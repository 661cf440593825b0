package mcputils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockArgumentGetter implements ArgumentGetter for testing
type mockArgumentGetter struct {
	args map[string]any
}

func (m *mockArgumentGetter) GetArguments() map[string]any {
	return m.args
}

type testRequest struct {
	Code    string   `json:"code"`
	Format  string   `json:"format,omitempty"`
	Escape  *bool    `json:"escape,omitempty"`
	Depth   int      `json:"depth,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("proper types", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{
			"code":   "let x;",
			"format": "json",
			"escape": false,
			"depth":  float64(12),
		}}

		var got testRequest
		require.NoError(t, CoerceBindArguments(req, &got))

		assert.Equal(t, "let x;", got.Code)
		assert.Equal(t, "json", got.Format)
		require.NotNil(t, got.Escape)
		assert.False(t, *got.Escape)
		assert.Equal(t, 12, got.Depth)
	})

	t.Run("stringified scalars", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{
			"code":   "x = 1;",
			"escape": "true",
			"depth":  " 7 ",
		}}

		var got testRequest
		require.NoError(t, CoerceBindArguments(req, &got))

		require.NotNil(t, got.Escape)
		assert.True(t, *got.Escape)
		assert.Equal(t, 7, got.Depth)
	})

	t.Run("comma separated list", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{
			"formats": "html,text",
		}}

		var got testRequest
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Equal(t, []string{"html", "text"}, got.Formats)
	})

	t.Run("missing optional fields stay zero", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{"code": ""}}

		var got testRequest
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Nil(t, got.Escape)
		assert.Empty(t, got.Format)
	})

	t.Run("unconvertible value", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{"escape": "maybe"}}

		var got testRequest
		assert.Error(t, CoerceBindArguments(req, &got))
	})

	t.Run("nil arguments", func(t *testing.T) {
		t.Parallel()
		var got testRequest
		require.NoError(t, CoerceBindArguments(&mockArgumentGetter{}, &got))
		assert.Empty(t, got.Code)
	})
}

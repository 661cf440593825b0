package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/js-analyzer/internal/extract"
	mcputils "github.com/mvp-joe/js-analyzer/internal/mcp-utils"
	"github.com/mvp-joe/js-analyzer/internal/render"
)

// AnalyzeCodeToolName is the name clients call.
const AnalyzeCodeToolName = "analyze_code"

// AnalyzeCodeRequest is the argument set of the analyze_code tool.
type AnalyzeCodeRequest struct {
	Code   string `json:"code"`
	Format string `json:"format,omitempty"`
	Escape *bool  `json:"escape,omitempty"`
}

// Analyzer produces the trace for a piece of source text.
type Analyzer interface {
	Analyze(ctx context.Context, source []byte) ([]extract.Record, error)
}

// AddAnalyzeCodeTool registers the analyze_code tool with an MCP server.
// defaults supplies the format and escaping used when a call omits them.
func AddAnalyzeCodeTool(s *server.MCPServer, analyzer Analyzer, defaults RenderDefaults) {
	tool := mcp.NewTool(
		AnalyzeCodeToolName,
		mcp.WithDescription("Analyze a JavaScript snippet and return a table of its variable declarations, assignments, updates, conditions, loops, functions and returns, one row per construct in source order."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("JavaScript source text to analyze")),
		mcp.WithString("format",
			mcp.Description("Output format: html (default), text or json"),
			mcp.Enum(render.Formats()...)),
		mcp.WithBoolean("escape",
			mcp.Description("HTML-escape cell text in html output (default: true)")),
	)

	s.AddTool(tool, createAnalyzeCodeHandler(analyzer, defaults))
}

// createAnalyzeCodeHandler creates the handler function for the analyze_code tool.
func createAnalyzeCodeHandler(analyzer Analyzer, defaults RenderDefaults) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if _, ok := args["code"]; !ok {
			return mcp.NewToolResultError("code parameter is required"), nil
		}

		var req AnalyzeCodeRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		format := defaults.Format
		if req.Format != "" {
			format = req.Format
		}
		escape := defaults.Escape
		if req.Escape != nil {
			escape = *req.Escape
		}

		renderer, err := render.New(format, render.Options{Escape: escape})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		records, err := analyzer.Analyze(ctx, []byte(req.Code))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// Bad input is reported to the client, not treated as a server failure
			return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
		}

		out, err := renderer.Render(records)
		if err != nil {
			return nil, fmt.Errorf("failed to render result: %w", err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

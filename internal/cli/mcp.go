package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/js-analyzer/internal/analyzer"
	"github.com/mvp-joe/js-analyzer/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing the analyze_code tool",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
trace JavaScript snippets.

The MCP server:
- Registers the analyze_code tool (arguments: code, format, escape)
- Uses the render and analysis settings from the configuration
- Communicates via stdio (standard MCP transport)

Example:
  analyzer mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := analyzer.New(cfg.ToAnalyzerOptions())
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer a.Close()

	// stdout carries the protocol, so the banner goes to stderr
	fmt.Fprintf(os.Stderr, "analyzer MCP server %s\n", Version)

	server, err := mcp.NewMCPServer(a, Version, mcp.RenderDefaults{
		Format: cfg.Render.Format,
		Escape: cfg.Render.Escape,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Serve (blocks until shutdown)
	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

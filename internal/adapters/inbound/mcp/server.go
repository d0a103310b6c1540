package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewFormGateMCPServer creates an MCP server answering for one form
// template: AI assistants can inspect the template, evaluate answer
// sets, and run the full validation pass.
func NewFormGateMCPServer(templatePath string) *server.MCPServer {
	s := server.NewMCPServer(
		"formgate",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, templatePath)

	return s
}

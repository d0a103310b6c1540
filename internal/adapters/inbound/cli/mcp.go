package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/formgate/formgate/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the FormGate MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start FormGate MCP server (stdio)",
		Long:  "Start the FormGate MCP server using stdio transport, exposing evaluate, validate and template-inspection tools over one form template.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpadapter.NewFormGateMCPServer(templatePath)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "Path to the template file the server answers for (required)")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configadapter "github.com/formgate/formgate/internal/adapters/outbound/config"
	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/scoring"
	"github.com/formgate/formgate/internal/domain/session"
)

// registerTools registers all FormGate MCP tools on the given server.
func registerTools(s *server.MCPServer, templatePath string) {
	s.AddTool(
		mcplib.NewTool("formgate_evaluate",
			mcplib.WithDescription("Compute derived scores and the recommendation from an answer set (JSON object of field code to value)"),
			mcplib.WithString("answers",
				mcplib.Required(),
				mcplib.Description("JSON object mapping field codes to answer values"),
			),
		),
		handleEvaluate(),
	)

	s.AddTool(
		mcplib.NewTool("formgate_validate",
			mcplib.WithDescription("Validate an answer set against the configured template; returns the per-field error map"),
			mcplib.WithString("answers",
				mcplib.Required(),
				mcplib.Description("JSON object mapping field codes to answer values"),
			),
		),
		handleValidate(templatePath),
	)

	s.AddTool(
		mcplib.NewTool("formgate_template",
			mcplib.WithDescription("Return the configured form template as JSON: sections, fields, kinds, and configuration blobs"),
		),
		handleTemplate(templatePath),
	)
}

func handleEvaluate() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		answers, err := parseAnswers(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		derived := scoring.Calculate(scoring.FromAnswers(answers))
		return jsonResult(derived)
	}
}

func handleValidate(templatePath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		answers, err := parseAnswers(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		tmpl, warnings, err := configadapter.New().Load(templatePath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading template failed: %v", err)), nil
		}

		sess := session.New(tmpl, session.WithDebounce(0))
		defer sess.Close()
		sess.Hydrate(answers, nil)

		errs := sess.ValidateAll()
		return jsonResult(map[string]any{
			"valid":    len(errs) == 0,
			"errors":   errs,
			"warnings": warnings,
		})
	}
}

func handleTemplate(templatePath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		tmpl, _, err := configadapter.New().Load(templatePath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading template failed: %v", err)), nil
		}
		return jsonResult(tmpl)
	}
}

func parseAnswers(request mcplib.CallToolRequest) (domain.Answers, error) {
	raw, err := request.RequireString("answers")
	if err != nil {
		return nil, err
	}
	var answers domain.Answers
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("answers must be a JSON object: %w", err)
	}
	return answers, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

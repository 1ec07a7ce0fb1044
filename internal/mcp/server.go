package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/swiftlang/swift-docc-sub005/internal/bundle"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
	"github.com/swiftlang/swift-docc-sub005/internal/translate"
)

//go:embed instructions.md
var instructions string

const defaultListLimit = 100

type Server struct {
	mcpServer *server.MCPServer
	bundle    *bundle.Bundle
	env       *translate.Environment
	conv      *translate.Converter
}

func NewServer(b *bundle.Bundle, env *translate.Environment) *Server {
	s := &Server{
		bundle: b,
		env:    env,
		conv:   &translate.Converter{Env: env, Workers: 1},
	}

	mcpServer := server.NewMCPServer(
		"docrender",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_pages",
			mcp.WithDescription("List page identifiers in the loaded documentation bundle. Use `prefix` to restrict to a path such as /documentation/Kit."),
			mcp.WithString("prefix",
				mcp.Description("Optional path prefix"),
			),
			mcp.WithString("root",
				mcp.Description("Optional page identifier; lists it and the pages curated below it, nearest first"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 100)"),
			),
		),
		s.handleListPages,
	)

	mcpServer.AddTool(
		mcp.NewTool("render_page",
			mcp.WithDescription("Translate one page into its render JSON, including every reference it needs."),
			mcp.WithString("identifier",
				mcp.Description("Page identifier (doc://bundle/path)"),
				mcp.Required(),
			),
		),
		s.handleRenderPage,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_reference",
			mcp.WithDescription("Return the reference record other pages use to link to an identifier, with its dependencies."),
			mcp.WithString("identifier",
				mcp.Description("Identifier (doc://bundle/path or doc://bundle/path#fragment)"),
				mcp.Required(),
			),
		),
		s.handleGetReference,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"doc://{bundle}/{+path}",
			"Rendered documentation page",
			mcp.WithTemplateDescription("Render JSON of one page. list_pages returns these URIs."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	prefix, _ := args["prefix"].(string)
	limit := defaultListLimit
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	ids := s.bundle.Model.Identifiers()
	if raw, _ := args["root"].(string); raw != "" {
		root, err := semantic.ParseIdentifier(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ids = s.descendants(root)
	}

	var out []string
	for _, id := range ids {
		if !strings.HasPrefix(id.Path, prefix) {
			continue
		}
		out = append(out, id.String())
		if len(out) == limit {
			break
		}
	}
	return jsonResult(out)
}

// descendants lists root and the pages below it in the topic graph, level by
// level. Graph nodes without a page are walked through but not listed.
func (s *Server) descendants(root semantic.Identifier) []semantic.Identifier {
	var ids []semantic.Identifier
	s.bundle.Graph.BreadthFirst(root, func(n topicgraph.Node) bool {
		if _, ok := s.bundle.Model.Page(n.ID); ok {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}

func (s *Server) handleRenderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := identifierArg(req)
	if errResult != nil {
		return errResult, nil
	}
	node, err := s.conv.Convert(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return jsonResult(node)
}

func (s *Server) handleGetReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := identifierArg(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(translate.LookupReference(s.env, id))
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id, err := semantic.ParseIdentifier(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	node, err := s.conv.Convert(id.WithoutFragment())
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding page: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func identifierArg(req mcp.CallToolRequest) (semantic.Identifier, *mcp.CallToolResult) {
	raw, _ := req.GetArguments()["identifier"].(string)
	if raw == "" {
		return semantic.Identifier{}, mcp.NewToolResultError("missing required parameter: identifier")
	}
	id, err := semantic.ParseIdentifier(raw)
	if err != nil {
		return semantic.Identifier{}, mcp.NewToolResultError(err.Error())
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

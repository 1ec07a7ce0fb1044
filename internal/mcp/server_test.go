package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftlang/swift-docc-sub005/internal/bundle"
	"github.com/swiftlang/swift-docc-sub005/internal/translate"
)

const kitJSON = `{
  "id": "com.example",
  "symbols": [
    {"identifier": "doc://com.example/documentation/Kit", "docs": {"swift": {"title": "Kit", "kind": "module"}}},
    {
      "identifier": "doc://com.example/documentation/Kit/Box",
      "docs": {"swift": {"title": "Box", "kind": "struct", "abstract": "A box."}},
      "memberOf": ["doc://com.example/documentation/Kit"]
    }
  ],
  "articles": [
    {"identifier": "doc://com.example/tutorials/Guide", "discussion": "# Guide\n\nRead <doc:/Kit/Box>."}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kit.json")
	require.NoError(t, os.WriteFile(path, []byte(kitJSON), 0644))
	b, err := bundle.Load(path)
	require.NoError(t, err)
	env := translate.NewEnvironment(translate.Environment{
		Model:    b.Model,
		Graph:    b.Graph,
		Resolver: b.Resolver,
		External: b.External,
	})
	return NewServer(b, env)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestListPages(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	out, isErr := call(t, s.handleListPages, map[string]any{"prefix": "/documentation"})
	require.False(t, isErr)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []string{
		"doc://com.example/documentation/Kit",
		"doc://com.example/documentation/Kit/Box",
	}, ids)

	out, _ = call(t, s.handleListPages, map[string]any{"limit": float64(1)})
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Len(t, ids, 1)
}

func TestListPages_Root(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	out, isErr := call(t, s.handleListPages, map[string]any{"root": "doc://com.example/documentation/Kit"})
	require.False(t, isErr, out)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []string{
		"doc://com.example/documentation/Kit",
		"doc://com.example/documentation/Kit/Box",
	}, ids)

	out, isErr = call(t, s.handleListPages, map[string]any{"root": "doc://com.example/documentation/Kit/Box"})
	require.False(t, isErr, out)
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []string{"doc://com.example/documentation/Kit/Box"}, ids)

	_, isErr = call(t, s.handleListPages, map[string]any{"root": "not a uri"})
	assert.True(t, isErr)
}

func TestRenderPage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	out, isErr := call(t, s.handleRenderPage, map[string]any{"identifier": "doc://com.example/documentation/Kit/Box"})
	require.False(t, isErr, out)
	var node struct {
		Kind     string `json:"kind"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
		References map[string]json.RawMessage `json:"references"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, "symbol", node.Kind)
	assert.Equal(t, "Box", node.Metadata.Title)
	assert.Contains(t, node.References, "doc://com.example/documentation/Kit")

	out, isErr = call(t, s.handleRenderPage, map[string]any{"identifier": "doc://com.example/documentation/Missing"})
	assert.True(t, isErr)
	assert.Contains(t, out, "no page for identifier")

	_, isErr = call(t, s.handleRenderPage, map[string]any{})
	assert.True(t, isErr)
}

func TestGetReference(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	out, isErr := call(t, s.handleGetReference, map[string]any{"identifier": "doc://com.example/tutorials/Guide"})
	require.False(t, isErr, out)
	var rec struct {
		Reference struct {
			Type  string `json:"type"`
			Topic struct {
				Identifier string `json:"identifier"`
			} `json:"topic"`
		} `json:"reference"`
		Dependencies struct {
			Topics []string `json:"topics"`
		} `json:"dependencies"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "topic", rec.Reference.Type)
	assert.Equal(t, "doc://com.example/tutorials/Guide", rec.Reference.Topic.Identifier)
	assert.Equal(t, "render", rec.Source)

	_, isErr = call(t, s.handleGetReference, map[string]any{"identifier": "not a uri"})
	assert.True(t, isErr)
}

func TestReadResource(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = "doc://com.example/documentation/Kit"
	contents, err := s.handleReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, `"title": "Kit"`)

	req.Params.URI = "doc://com.example/documentation/Nope"
	_, err = s.handleReadResource(context.Background(), req)
	require.Error(t, err)
}

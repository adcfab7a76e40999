package profile

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/formfill/kit"
)

// RegisterMCP registers profile tools on an MCP server.
func (s *Session) RegisterMCP(srv *mcp.Server) {
	s.registerGetTool(srv)
	s.registerUpdateTool(srv)
	s.registerResetTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

func (s *Session) registerGetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "profile_get",
		Description: "Return the merged canonical profile and per-source data flags.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{
			"profile": s.Profile(),
			"sources": s.Sources(),
			"hasData": s.HasData(),
		}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type updateReq struct {
	Fields map[string]any `json:"fields"`
}

func (s *Session) registerUpdateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "profile_update",
		Description: "Merge manually entered fields (arbitrary surface names accepted) and save the profile.",
		InputSchema: inputSchema(map[string]any{
			"fields": map[string]any{"type": "object", "description": "Raw field name to value mapping"},
		}, []string{"fields"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*updateReq)
		s.MergeManual(r.Fields)
		if err := s.Save(ctx); err != nil {
			return nil, err
		}
		return map[string]any{"profile": s.Profile()}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r updateReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type resetReq struct {
	Confirm bool `json:"confirm"`
}

func (s *Session) registerResetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "profile_reset",
		Description: "Clear both storage tiers (profile and attachment). Irreversible; requires confirm=true.",
		InputSchema: inputSchema(map[string]any{
			"confirm": map[string]any{"type": "boolean", "description": "Must be true"},
		}, []string{"confirm"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*resetReq)
		if !r.Confirm {
			return map[string]any{"status": "refused: confirm=true required"}, nil
		}
		if err := s.Reset(ctx); err != nil {
			return nil, err
		}
		return map[string]any{"status": "reset"}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r resetReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

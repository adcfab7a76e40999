package fill

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/formfill/kit"
)

// RegisterMCP registers the fill tools on an MCP server.
func (e *Engine) RegisterMCP(srv *mcp.Server) {
	e.registerURLTool(srv, "smart_fill",
		"Open a URL and fill its form from the merged profile, attaching the stored document to the resume file input. Returns the fill report.",
		func(ctx context.Context, pageURL string) (any, error) {
			rep, err := e.SmartFill(ctx, pageURL)
			if err != nil {
				return nil, err
			}
			return map[string]any{"report": rep, "percent": rep.Percent()}, nil
		})

	e.registerURLTool(srv, "verify_fill",
		"Open a URL and report how many of its fillable controls currently hold a value.",
		func(ctx context.Context, pageURL string) (any, error) {
			rep, err := e.Verify(ctx, pageURL)
			if err != nil {
				return nil, err
			}
			return map[string]any{"report": rep, "percent": rep.Percent()}, nil
		})

	e.registerURLTool(srv, "extract_autofill",
		"Open a URL and return the raw name-to-value snapshot of controls the browser autofilled.",
		func(ctx context.Context, pageURL string) (any, error) {
			raw, err := e.ExtractAutofill(ctx, pageURL)
			if err != nil {
				return nil, err
			}
			return map[string]any{"fields": raw}, nil
		})

	e.registerURLTool(srv, "click_buttons",
		"Open a URL and best-effort click visible submit/apply/next buttons.",
		func(ctx context.Context, pageURL string) (any, error) {
			n, err := e.ClickButtons(ctx, pageURL)
			if err != nil {
				return nil, err
			}
			return map[string]any{"clicked": n}, nil
		})
}

type urlReq struct {
	URL string `json:"url"`
}

func (e *Engine) registerURLTool(srv *mcp.Server, name, desc string, run func(context.Context, string) (any, error)) {
	tool := &mcp.Tool{
		Name:        name,
		Description: desc,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{"type": "string", "description": "Page URL to operate on"},
			},
			"required": []string{"url"},
		},
	}

	var endpoint kit.Endpoint = func(ctx context.Context, req any) (any, error) {
		return run(ctx, req.(*urlReq).URL)
	}
	// Browser calls are the slowest and flakiest surface; panics in rod
	// must degrade to a tool error, not kill the MCP session.
	endpoint = kit.Chain(kit.Recovery(e.logger), kit.Logging(name, e.logger))(endpoint)

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r urlReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

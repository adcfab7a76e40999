package doctext

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/formfill/kit"
)

// RegisterMCP registers doctext tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerExtractTool(srv)
	p.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type extractReq struct {
	Path       string `json:"path,omitempty"`
	Filename   string `json:"filename,omitempty"`
	ContentB64 string `json:"content_b64,omitempty"`
}

func (p *Pipeline) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_extract",
		Description: "Extract raw text from a document (pdf, docx, html, md, txt). Pass a file path, or a filename plus base64 content.",
		InputSchema: inputSchema(map[string]any{
			"path":        map[string]any{"type": "string", "description": "File path to extract"},
			"filename":    map[string]any{"type": "string", "description": "Attachment filename (with content_b64)"},
			"content_b64": map[string]any{"type": "string", "description": "Base64-encoded attachment bytes"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractReq)
		var data []byte
		filename := r.Filename
		switch {
		case r.Path != "":
			var err error
			data, err = os.ReadFile(r.Path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", r.Path, err)
			}
			filename = r.Path
		case r.ContentB64 != "" && r.Filename != "":
			var err error
			data, err = base64.StdEncoding.DecodeString(r.ContentB64)
			if err != nil {
				return nil, fmt.Errorf("decode content_b64: %w", err)
			}
		default:
			return nil, fmt.Errorf("pass either path, or filename plus content_b64")
		}
		return p.Extract(ctx, data, filename)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r extractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (p *Pipeline) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_formats",
		Description: "List all supported attachment formats.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"formats": SupportedFormats()}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
